package timeline

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/eurora-ai/eurora-core/pkg/activity"
)

// wsEventKind tags the JSON envelope WSFanout writes to each client.
type wsEventKind string

const (
	wsEventFocus   wsEventKind = "focus"
	wsEventContext wsEventKind = "context_chips"
)

type wsEvent struct {
	Kind         wsEventKind           `json:"kind"`
	Focus        *FocusEvent           `json:"focus,omitempty"`
	ContextChips []activity.ContextChip `json:"context_chips,omitempty"`
}

// WSFanout republishes a Collector's focus/context-chip broadcasts to any
// number of local UI clients over a websocket, supplementing spec §4.4's
// in-process broadcast channels with a concrete external consumer. The
// collector's own channels have exactly one reader (WSFanout itself); this
// type fans that single stream out to N websocket connections with the same
// non-blocking-send/drop-oldest discipline as the rest of the broadcast
// stack, so one slow browser tab can't stall another or the collector.
//
// Grounded on the teacher's api/pkg/revdial/client.go websocket dial/upgrade
// idiom, adapted from a reverse-dial tunnel to a one-way event feed.
type WSFanout struct {
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[chan wsEvent]struct{}
}

// NewWSFanout constructs a WSFanout. Call Run to start draining collector
// and ServeHTTP to accept client connections.
func NewWSFanout() *WSFanout {
	return &WSFanout{
		upgrader: websocket.Upgrader{
			// A local-only UI endpoint (spec §4.4 "optional ... local UI");
			// same-origin checks aren't meaningful for a loopback tool.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[chan wsEvent]struct{}),
	}
}

// Run drains collector's broadcast channels and republishes them to every
// connected client until ctx is canceled.
func (f *WSFanout) Run(ctx context.Context, collector *Collector) {
	focus := collector.FocusEvents()
	chips := collector.ContextChips()
	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-focus:
			if !ok {
				return
			}
			ev := e
			f.publish(wsEvent{Kind: wsEventFocus, Focus: &ev})
		case c, ok := <-chips:
			if !ok {
				return
			}
			f.publish(wsEvent{Kind: wsEventContext, ContextChips: c})
		}
	}
}

func (f *WSFanout) publish(ev wsEvent) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for c := range f.clients {
		select {
		case c <- ev:
		default:
			// Buffer full: discard the client's oldest queued event so the newest is kept.
			select {
			case <-c:
				log.Debug().Msg("timeline: websocket client lagging, dropping oldest event")
			default:
			}
			select {
			case c <- ev:
			default:
			}
		}
	}
}

// ServeHTTP upgrades the request to a websocket and streams events to it
// until the client disconnects or the request context is canceled.
func (f *WSFanout) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := f.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("timeline: websocket upgrade failed")
		return
	}
	defer conn.Close()

	client := make(chan wsEvent, broadcastCapacity)
	f.mu.Lock()
	f.clients[client] = struct{}{}
	f.mu.Unlock()
	defer func() {
		f.mu.Lock()
		delete(f.clients, client)
		f.mu.Unlock()
	}()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-client:
			if !ok {
				return
			}
			payload, err := json.Marshal(ev)
			if err != nil {
				log.Warn().Err(err).Msg("timeline: marshal websocket event")
				continue
			}
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		}
	}
}
