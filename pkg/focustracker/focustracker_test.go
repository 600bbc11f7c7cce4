package focustracker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedPoller replays a fixed sequence of focus events for deterministic
// dedup-by-transition tests, independent of any real OS.
type scriptedPoller struct {
	events []FocusedWindow
	i      int
}

func (s *scriptedPoller) Poll(icon IconConfig) (FocusedWindow, bool, error) {
	if s.i >= len(s.events) {
		return FocusedWindow{}, false, nil
	}
	w := s.events[s.i]
	s.i++
	return w, true, nil
}

func TestTrackFocusDedupsConsecutiveIdenticalProcessNames(t *testing.T) {
	poller := &scriptedPoller{events: []FocusedWindow{
		{ProcessID: 1, ProcessName: "firefox"},
		{ProcessID: 1, ProcessName: "firefox"},
		{ProcessID: 2, ProcessName: "code"},
	}}
	tr := &Tracker{cfg: Config{PollInterval: time.Millisecond}.withDefaults(), poller: poller}

	var seen []string
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	err := tr.TrackFocus(ctx, func(w FocusedWindow) error {
		seen = append(seen, w.ProcessName)
		if len(seen) == 2 {
			cancel()
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"firefox", "code"}, seen)
}

func TestTrackFocusPropagatesCallbackError(t *testing.T) {
	poller := &scriptedPoller{events: []FocusedWindow{{ProcessID: 1, ProcessName: "a"}}}
	tr := &Tracker{cfg: Config{PollInterval: time.Millisecond}.withDefaults(), poller: poller}

	boom := errors.New("boom")
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	err := tr.TrackFocus(ctx, func(w FocusedWindow) error { return boom })
	assert.ErrorIs(t, err, boom)
}

type errorPoller struct{ called int }

func (e *errorPoller) Poll(icon IconConfig) (FocusedWindow, bool, error) {
	e.called++
	if e.called == 1 {
		return FocusedWindow{}, false, errors.New("transient query failure")
	}
	return FocusedWindow{ProcessID: 1, ProcessName: "ok"}, true, nil
}

func TestTrackFocusSkipsTransientQueryErrors(t *testing.T) {
	poller := &errorPoller{}
	tr := &Tracker{cfg: Config{PollInterval: time.Millisecond}.withDefaults(), poller: poller}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	var got FocusedWindow
	err := tr.TrackFocus(ctx, func(w FocusedWindow) error {
		got = w
		cancel()
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", got.ProcessName)
}
