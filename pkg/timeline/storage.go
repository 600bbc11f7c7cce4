// Package timeline implements Timeline Storage (spec §4.4 data store) and
// the Timeline Collector (spec §4.4 orchestration), the concurrency core
// that turns focus events into a query-able activity history.
//
// Grounded on the original Rust source's eur-timeline crate (bounded
// VecDeque history, RwLock<Option<Strategy>> current-strategy cell,
// mpsc report channel) translated to Go's sync primitives and channels; the
// lag-tolerant broadcast fan-out (spec §5) reuses this module's own
// pkg/focustracker.Subscribe non-blocking-send/drop idiom.
package timeline

import (
	"sync"

	"github.com/eurora-ai/eurora-core/pkg/activity"
)

// defaultMaxHistory bounds Storage when NewStorage is given a maxHistory <= 0.
const defaultMaxHistory = 500

// Storage is the in-memory, bounded, ordered history of activities (spec
// §2 "Timeline Storage (in-memory)"). The most recently pushed activity is
// "current" and is the only one mutation points (ReplaceCurrentAssets,
// ReplaceCurrentSnapshots) may touch; older activities are frozen.
type Storage struct {
	mu         sync.Mutex
	maxHistory int
	activities []*activity.Activity
}

// NewStorage constructs a Storage bounded to maxHistory activities (0 uses
// the default of 500).
func NewStorage(maxHistory int) *Storage {
	if maxHistory <= 0 {
		maxHistory = defaultMaxHistory
	}
	return &Storage{maxHistory: maxHistory}
}

// Push appends a new current activity, evicting the oldest entry if the
// bound is exceeded (spec §3 "at most one Activity is current ... at a
// time").
func (s *Storage) Push(a *activity.Activity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activities = append(s.activities, a)
	if excess := len(s.activities) - s.maxHistory; excess > 0 {
		s.activities = s.activities[excess:]
	}
}

// Current returns the most recently pushed activity, or nil if Storage is
// empty.
func (s *Storage) Current() *activity.Activity {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.activities) == 0 {
		return nil
	}
	return s.activities[len(s.activities)-1]
}

// ReplaceCurrentAssets replaces the current activity's asset list wholesale,
// reporting false (a no-op) if there is no current activity (spec §4.4:
// "If there is no current activity, drop the batch").
func (s *Storage) ReplaceCurrentAssets(assets []activity.Asset) (*activity.Activity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.activities) == 0 {
		return nil, false
	}
	cur := s.activities[len(s.activities)-1]
	cur.Assets = assets
	return cur, true
}

// ReplaceCurrentSnapshots replaces the current activity's snapshot list
// wholesale, reporting false if there is no current activity.
func (s *Storage) ReplaceCurrentSnapshots(snaps []activity.Snapshot) (*activity.Activity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.activities) == 0 {
		return nil, false
	}
	cur := s.activities[len(s.activities)-1]
	cur.Snapshots = snaps
	return cur, true
}

// History returns a copy of every stored activity, oldest first.
func (s *Storage) History() []*activity.Activity {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*activity.Activity, len(s.activities))
	copy(out, s.activities)
	return out
}

// Len returns the number of stored activities.
func (s *Storage) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.activities)
}
