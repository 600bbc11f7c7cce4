// Package focustracker emits FocusedWindow descriptors whenever the OS's
// focused window changes, deduplicated by process-name transition (spec
// §4.1). Platform-specific polling lives in focustracker_{linux,darwin,windows}.go;
// this file holds the shared polling loop, config, and the broadcast-channel
// alternative API.
//
// Grounded on the original Rust source's focus-tracker crate (500ms poll,
// dedup-by-transition, icon-extraction-failure-yields-empty-not-error) and on
// the teacher's goroutine/callback lifecycle idioms (api/pkg/desktop/claude_bridge.go).
package focustracker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// FocusedWindow is the descriptor emitted for a focus transition (spec §3).
// Immutable per event.
type FocusedWindow struct {
	ProcessID   uint32
	ProcessName string
	WindowTitle string // empty if unavailable
	Icon        []byte // PNG bytes; nil if unavailable
	IconURL     string // optional data: URL form, when the platform produces one directly
}

// IconConfig controls icon extraction (spec §4.1 "optional icon size").
type IconConfig struct {
	// Size is the requested square icon dimension in pixels. Zero uses the
	// platform default.
	Size int
}

// Config configures a Tracker.
type Config struct {
	// PollInterval is the cooperative poll period. Defaults to 500ms,
	// matching spec §4.1 "polls at ≈500 ms".
	PollInterval time.Duration
	Icon         IconConfig
}

func (c Config) withDefaults() Config {
	if c.PollInterval <= 0 {
		c.PollInterval = 500 * time.Millisecond
	}
	return c
}

// platformPoller is implemented once per OS build. A zero-value, false return with
// no error means "no foreground window could be determined this tick" and is
// not logged as a failure.
type platformPoller interface {
	Poll(icon IconConfig) (FocusedWindow, bool, error)
}

// Tracker drives the single-threaded cooperative polling loop described in
// spec §4.1.
type Tracker struct {
	cfg    Config
	poller platformPoller
}

// New constructs a Tracker for the current platform.
func New(cfg Config) *Tracker {
	return &Tracker{cfg: cfg.withDefaults(), poller: newPlatformPoller()}
}

// TrackFocus runs the polling loop until ctx is canceled or callback returns
// an error (spec §4.1: "callback errors propagate to terminate the loop").
// Query errors from the platform poller are logged and skipped, never
// propagated.
func (t *Tracker) TrackFocus(ctx context.Context, callback func(FocusedWindow) error) error {
	ticker := time.NewTicker(t.cfg.PollInterval)
	defer ticker.Stop()

	var lastProcessName string
	haveLast := false

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			win, ok, err := t.poller.Poll(t.cfg.Icon)
			if err != nil {
				log.Warn().Err(err).Msg("focustracker: query failed, skipping tick")
				continue
			}
			if !ok {
				continue
			}
			if haveLast && win.ProcessName == lastProcessName {
				continue
			}
			lastProcessName = win.ProcessName
			haveLast = true
			if err := callback(win); err != nil {
				return err
			}
		}
	}
}

// Subscribe runs TrackFocus in a background goroutine and returns a channel
// of FocusedWindow events, the multi-consumer broadcast alternative noted in
// spec §4.1. The channel is closed when ctx is canceled. Sends are
// non-blocking with a small buffer; a slow consumer drops the oldest-style
// backlog rather than stalling the tracker (mirrors the Timeline Collector's
// own lag-tolerant broadcast discipline, spec §5).
func Subscribe(ctx context.Context, cfg Config) <-chan FocusedWindow {
	out := make(chan FocusedWindow, 16)
	t := New(cfg)
	go func() {
		defer close(out)
		err := t.TrackFocus(ctx, func(w FocusedWindow) error {
			select {
			case out <- w:
			default:
				// Buffer full: discard the oldest queued event so the newest is kept.
				select {
				case <-out:
					log.Debug().Msg("focustracker: subscriber lagging, dropping oldest event")
				default:
				}
				select {
				case out <- w:
				default:
				}
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
				return nil
			}
		})
		if err != nil && ctx.Err() == nil {
			log.Error().Err(err).Msg("focustracker: subscribe loop terminated")
		}
	}()
	return out
}
