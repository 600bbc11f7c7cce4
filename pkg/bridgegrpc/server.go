package bridgegrpc

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog/log"

	"github.com/eurora-ai/eurora-core/pkg/eurora"
	"github.com/eurora-ai/eurora-core/pkg/nativebridge"
	"github.com/eurora-ai/eurora-core/pkg/strategy"
)

// Session is one live Browser Bridge connection from a native-messaging
// host. It counts the handles strategies acquire and release, but that count
// does not affect teardown: the session ends when the Open handler's read
// loop observes end-of-stream, whether or not handles are still held.
type Session struct {
	// id is a short correlation id for log lines, distinct from any
	// Activity/Asset id: those are uuid.NewString() (spec ids); this one is
	// purely an operational handle, so it uses the shorter nanoid alphabet
	// instead.
	id       string
	register nativebridge.RegisterFrame

	stream FrameStream
	sendMu sync.Mutex

	inbound chan nativebridge.StateResponseFrame
	done    chan struct{}
	doneErr error
	doneMu  sync.Mutex

	refCount int32
}

var _ strategy.BridgeSession = (*Session)(nil)

func newSession(stream FrameStream, register nativebridge.RegisterFrame) *Session {
	id, err := gonanoid.New(10)
	if err != nil {
		id = "unknown"
	}
	return &Session{
		id:       id,
		stream:   stream,
		register: register,
		inbound:  make(chan nativebridge.StateResponseFrame, 32),
		done:     make(chan struct{}),
	}
}

// ID returns the session's short correlation id, for log lines.
func (s *Session) ID() string { return s.id }

// Register returns the handshake this session began with.
func (s *Session) Register() nativebridge.RegisterFrame { return s.register }

// acquire increments the handle refcount (spec §9).
func (s *Session) acquire() *Session {
	atomic.AddInt32(&s.refCount, 1)
	return s
}

// Recv implements strategy.BridgeSession.
func (s *Session) Recv(ctx context.Context) (nativebridge.StateResponseFrame, error) {
	select {
	case f, ok := <-s.inbound:
		if !ok {
			return nativebridge.StateResponseFrame{}, s.readError()
		}
		return f, nil
	case <-s.done:
		return nativebridge.StateResponseFrame{}, s.readError()
	case <-ctx.Done():
		return nativebridge.StateResponseFrame{}, ctx.Err()
	}
}

// RequestState implements strategy.BridgeSession: pushes a StateRequest
// frame to the browser over the Open stream's outbound direction (spec §4.2
// "outbound stream carries state requests to the browser").
func (s *Session) RequestState(ctx context.Context) error {
	s.sendMu.Lock()
	defer s.sendMu.Unlock()
	f := nativebridge.NewStateRequestFrame()
	if err := s.stream.Send(&f); err != nil {
		return eurora.WithKind(eurora.KindTransport, fmt.Errorf("send state request: %w", err))
	}
	return nil
}

// Close implements strategy.BridgeSession: releases this handle. The
// session's underlying stream is only actually torn down by the Open
// handler's read loop observing end-of-stream (spec §9); Close here only
// decrements the refcount, which nothing else reads.
func (s *Session) Close() error {
	atomic.AddInt32(&s.refCount, -1)
	return nil
}

func (s *Session) readError() error {
	s.doneMu.Lock()
	defer s.doneMu.Unlock()
	if s.doneErr != nil {
		return s.doneErr
	}
	return eurora.WithKind(eurora.KindTransport, fmt.Errorf("bridge session closed"))
}

func (s *Session) finish(err error) {
	s.doneMu.Lock()
	s.doneErr = err
	s.doneMu.Unlock()
	close(s.done)
	close(s.inbound)
}

// Server implements BridgeServer for the collector process (spec §4.2
// "Protocol (collector side)"). It enforces a single active session, matching
// spec §4.2's "at most one native-messaging host process per browser"
// (here scoped per collector process: one active bridge at a time).
type Server struct {
	mu      sync.Mutex
	current *Session
	waiters []chan *Session
}

// NewServer constructs an empty Server.
func NewServer() *Server { return &Server{} }

// Open implements spec §6's Open method: the inbound stream must begin with
// Register; subsequent frames are forwarded into the session's inbound
// channel for BrowserStrategy to consume via Session.Recv.
func (s *Server) Open(stream FrameStream) error {
	first, err := stream.Recv()
	if err != nil {
		return eurora.WithKind(eurora.KindTransport, fmt.Errorf("read register frame: %w", err))
	}
	if first.Kind != nativebridge.FrameRegister || first.Register == nil {
		return eurora.WithKind(eurora.KindProtocol, fmt.Errorf("first frame must be register, got %q", first.Kind))
	}

	session := newSession(stream, *first.Register)
	s.setCurrent(session)
	defer s.clearCurrent(session)

	log.Info().Str("session_id", session.id).Uint32("host_pid", first.Register.HostPID).Uint32("browser_pid", first.Register.BrowserPID).
		Msg("bridgegrpc: session registered")

	for {
		frame, err := stream.Recv()
		if err != nil {
			session.finish(eurora.WithKind(eurora.KindTransport, err))
			return nil
		}
		if frame.Kind != nativebridge.FrameStateResponse || frame.StateResponse == nil {
			continue
		}
		select {
		case session.inbound <- *frame.StateResponse:
		default:
			log.Warn().Msg("bridgegrpc: session consumer lagging, dropping state response")
		}
	}
}

// GetStateStreaming implements spec §6's polling convenience method: each
// inbound StateRequest frame elicits at most one StateResponse frame, read
// from the same active session a BrowserStrategy is consuming via Open.
func (s *Server) GetStateStreaming(stream FrameStream) error {
	for {
		req, err := stream.Recv()
		if err != nil {
			return nil
		}
		if req.Kind != nativebridge.FrameStateRequest {
			continue
		}
		session := s.Current()
		if session == nil {
			continue
		}
		resp, err := session.Recv(context.Background())
		if err != nil {
			continue
		}
		out := nativebridge.NewStateResponseFrame(resp)
		if err := stream.Send(&out); err != nil {
			return eurora.WithKind(eurora.KindTransport, err)
		}
	}
}

func (s *Server) setCurrent(session *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = session
	for _, w := range s.waiters {
		w <- session
		close(w)
	}
	s.waiters = nil
}

func (s *Server) clearCurrent(session *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == session {
		s.current = nil
	}
}

// Current returns the active session, or nil if no native host is
// currently connected.
func (s *Server) Current() *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Opener adapts Server to strategy.BridgeOpener, so a BrowserStrategy can
// block on WaitForSession without pkg/strategy importing this package (spec
// §9: the strategy only ever holds a handle, never constructs the bridge).
func (s *Server) Opener() strategy.BridgeOpener {
	return func(ctx context.Context, _ strategy.ProcessContext) (strategy.BridgeSession, error) {
		return s.WaitForSession(ctx)
	}
}

// WaitForSession blocks until a session is available or ctx is canceled,
// returning a newly acquired handle (spec §9 refcounting).
func (s *Server) WaitForSession(ctx context.Context) (*Session, error) {
	s.mu.Lock()
	if s.current != nil {
		session := s.current.acquire()
		s.mu.Unlock()
		return session, nil
	}
	wait := make(chan *Session, 1)
	s.waiters = append(s.waiters, wait)
	s.mu.Unlock()

	select {
	case session := <-wait:
		if session == nil {
			return nil, eurora.WithKind(eurora.KindTransport, fmt.Errorf("no session established"))
		}
		return session.acquire(), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
