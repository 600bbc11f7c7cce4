package bridgegrpc

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eurora-ai/eurora-core/pkg/nativebridge"
)

// fakeStream is an in-memory FrameStream backed by a queue of inbound frames
// and a slice recording outbound sends, for testing Server.Open without a
// real gRPC transport.
type fakeStream struct {
	mu      sync.Mutex
	inbound []nativebridge.Frame
	sent    []*nativebridge.Frame
}

func (s *fakeStream) Send(f *nativebridge.Frame) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, f)
	return nil
}

func (s *fakeStream) Recv() (*nativebridge.Frame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.inbound) == 0 {
		return nil, io.EOF
	}
	f := s.inbound[0]
	s.inbound = s.inbound[1:]
	return &f, nil
}

func TestOpenRejectsNonRegisterFirstFrame(t *testing.T) {
	srv := NewServer()
	stream := &fakeStream{inbound: []nativebridge.Frame{nativebridge.NewStateRequestFrame()}}

	err := srv.Open(stream)
	require.Error(t, err)
	assert.Nil(t, srv.Current())
}

func TestOpenRegistersSessionThenClearsOnEOF(t *testing.T) {
	srv := NewServer()
	stream := &fakeStream{inbound: []nativebridge.Frame{nativebridge.NewRegisterFrame(10, 20)}}

	done := make(chan struct{})
	go func() {
		_ = srv.Open(stream)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Open did not return after EOF")
	}
	assert.Nil(t, srv.Current())
}

func TestWaitForSessionBlocksUntilRegistered(t *testing.T) {
	srv := NewServer()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	result := make(chan *Session, 1)
	go func() {
		s, err := srv.WaitForSession(ctx)
		require.NoError(t, err)
		result <- s
	}()

	time.Sleep(10 * time.Millisecond)
	stream := &fakeStream{inbound: []nativebridge.Frame{nativebridge.NewRegisterFrame(1, 2)}}
	go func() { _ = srv.Open(stream) }()

	select {
	case s := <-result:
		require.NotNil(t, s)
		assert.Equal(t, uint32(1), s.Register().HostPID)
	case <-ctx.Done():
		t.Fatal("WaitForSession did not observe the new session")
	}
}

func TestSessionRequestStateSendsFrame(t *testing.T) {
	stream := &fakeStream{}
	s := newSession(stream, nativebridge.RegisterFrame{HostPID: 1, BrowserPID: 2})

	require.NoError(t, s.RequestState(context.Background()))
	require.Len(t, stream.sent, 1)
	assert.Equal(t, nativebridge.FrameStateRequest, stream.sent[0].Kind)
}

func TestSessionIDIsNonEmpty(t *testing.T) {
	s := newSession(&fakeStream{}, nativebridge.RegisterFrame{})
	assert.NotEmpty(t, s.ID())
}
