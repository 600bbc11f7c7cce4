package timeline

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eurora-ai/eurora-core/pkg/activity"
	"github.com/eurora-ai/eurora-core/pkg/strategy"
)

func newTestRegistry() *strategy.Registry {
	r := strategy.NewRegistry()
	return r
}

func TestIngestNewActivityPushesAndBroadcasts(t *testing.T) {
	c := NewCollector(newTestRegistry(), NewStorage(0))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go c.ingestReports(ctx)

	act := activity.NewActivity("a1", "first", "vscode", nil)
	c.reports <- activity.NewActivityReport(act)

	select {
	case ev := <-c.FocusEvents():
		assert.Equal(t, "first", ev.Name)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for focus event")
	}
	assert.Same(t, act, c.Storage().Current())
}

func TestIngestAssetsDroppedWithoutCurrentActivity(t *testing.T) {
	c := NewCollector(newTestRegistry(), NewStorage(0))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go c.ingestReports(ctx)

	asset := activity.NewDefaultAsset("asset1", "asset", nil, nil)
	c.reports <- activity.AssetsReport([]activity.Asset{asset})

	select {
	case chips := <-c.ContextChips():
		t.Fatalf("expected no context chip broadcast, got %+v", chips)
	case <-time.After(100 * time.Millisecond):
	}
	assert.Equal(t, 0, c.Storage().Len())
}

func TestHandleFocusChangeDedupsSameProcess(t *testing.T) {
	r := strategy.Initialize("eurora-test-dedup")
	c := NewCollector(r, NewStorage(0))
	ctx := context.Background()

	pc := strategy.ProcessContext{ProcessName: "vscode"}
	c.handleFocusChange(ctx, pc)
	first := c.currentStrategy
	require.NotNil(t, first)

	c.handleFocusChange(ctx, pc)
	assert.Same(t, first, c.currentStrategy)
}

func TestHandleFocusChangeSelectsNewStrategyOnTransition(t *testing.T) {
	r := strategy.NewRegistry()
	r.RegisterFactory(newRecordingFactory("a"))
	r.RegisterFactory(newRecordingFactory("b"))
	c := NewCollector(r, NewStorage(0))
	ctx := context.Background()

	c.handleFocusChange(ctx, strategy.ProcessContext{ProcessName: "a-proc"})
	first := c.currentStrategy
	require.NotNil(t, first)
	c.handleFocusChange(ctx, strategy.ProcessContext{ProcessName: "b-proc"})

	require.NotNil(t, c.currentStrategy)
	assert.NotSame(t, first, c.currentStrategy)
	assert.Equal(t, "b-proc", c.currentStrategy.(*recordingStrategy).bound)
}

// recordingFactory is a minimal test double matching processes whose name
// starts with the first character of match, used to exercise handleFocusChange's teardown/reselect path
// without depending on the real browser/default factories.
type recordingFactory struct {
	match string
}

func newRecordingFactory(match string) strategy.Factory { return &recordingFactory{match: match} }

func (f *recordingFactory) Name() string        { return f.match }
func (f *recordingFactory) ID() string          { return "test." + f.match }
func (f *recordingFactory) Description() string { return "test factory" }
func (f *recordingFactory) Category() strategy.Category { return "" }
func (f *recordingFactory) Priority() int        { return 0 }
func (f *recordingFactory) SupportsProcess(ctx strategy.ProcessContext) int {
	if len(ctx.ProcessName) > 0 && ctx.ProcessName[0] == f.match[0] {
		return 1
	}
	return 0
}
func (f *recordingFactory) New(ctx strategy.ProcessContext) strategy.Strategy {
	return &recordingStrategy{bound: ctx.ProcessName}
}

type recordingStrategy struct {
	bound string
}

func (s *recordingStrategy) HandleProcessChange(ctx strategy.ProcessContext) bool {
	return ctx.ProcessName == s.bound
}
func (s *recordingStrategy) StartTracking(ctx context.Context, reports chan<- activity.Report) error {
	return nil
}
func (s *recordingStrategy) Stop() error { return nil }
