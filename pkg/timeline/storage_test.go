package timeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eurora-ai/eurora-core/pkg/activity"
)

func TestPushAndCurrent(t *testing.T) {
	s := NewStorage(10)
	assert.Nil(t, s.Current())

	a := activity.NewActivity("a1", "first", "vscode", nil)
	s.Push(a)
	assert.Same(t, a, s.Current())

	b := activity.NewActivity("a2", "second", "firefox", nil)
	s.Push(b)
	assert.Same(t, b, s.Current())
	assert.Equal(t, 2, s.Len())
}

func TestPushEvictsOldestBeyondMaxHistory(t *testing.T) {
	s := NewStorage(2)
	s.Push(activity.NewActivity("a1", "one", "p1", nil))
	s.Push(activity.NewActivity("a2", "two", "p2", nil))
	s.Push(activity.NewActivity("a3", "three", "p3", nil))

	require.Equal(t, 2, s.Len())
	history := s.History()
	assert.Equal(t, "a2", history[0].ID)
	assert.Equal(t, "a3", history[1].ID)
}

func TestReplaceCurrentAssetsNoCurrentIsDropped(t *testing.T) {
	s := NewStorage(0)
	_, ok := s.ReplaceCurrentAssets(nil)
	assert.False(t, ok)
}

func TestReplaceCurrentAssetsReplacesOnlyCurrent(t *testing.T) {
	s := NewStorage(0)
	older := activity.NewActivity("a1", "older", "p1", nil)
	s.Push(older)
	cur := activity.NewActivity("a2", "current", "p2", nil)
	s.Push(cur)

	asset := activity.NewDefaultAsset("asset1", "asset", nil, nil)
	replaced, ok := s.ReplaceCurrentAssets([]activity.Asset{asset})
	require.True(t, ok)
	assert.Same(t, cur, replaced)
	assert.Len(t, cur.Assets, 1)
	assert.Empty(t, older.Assets)
}

func TestReplaceCurrentSnapshotsNoCurrentIsDropped(t *testing.T) {
	s := NewStorage(0)
	_, ok := s.ReplaceCurrentSnapshots(nil)
	assert.False(t, ok)
}
