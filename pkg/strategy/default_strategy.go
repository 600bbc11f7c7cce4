package strategy

import (
	"context"

	"github.com/google/uuid"

	"github.com/eurora-ai/eurora-core/pkg/activity"
)

// defaultStrategyFactory matches any process (spec §4.3 DefaultStrategy:
// "matches any process"). It is registered at the lowest priority so every
// more specific factory gets first refusal.
type defaultStrategyFactory struct{}

func newDefaultStrategyFactory() Factory { return &defaultStrategyFactory{} }

func (f *defaultStrategyFactory) Name() string        { return "default" }
func (f *defaultStrategyFactory) ID() string          { return "strategy.default" }
func (f *defaultStrategyFactory) Description() string { return "fallback strategy for processes with no dedicated extraction logic" }
func (f *defaultStrategyFactory) Category() Category  { return CategoryDefault }
func (f *defaultStrategyFactory) Priority() int       { return 0 }

func (f *defaultStrategyFactory) SupportsProcess(ctx ProcessContext) int { return 1 }

func (f *defaultStrategyFactory) New(ctx ProcessContext) Strategy {
	return &defaultStrategy{ctx: ctx}
}

// defaultStrategy yields a single NewActivity report whose sole asset is a
// DefaultAsset synthesized from the focus event (spec §4.3). It never
// produces snapshots.
type defaultStrategy struct {
	ctx ProcessContext
}

// HandleProcessChange reports whether ctx is still the same bound process
// this instance was created for. DefaultStrategy's factory matches any
// process (spec §4.3), but an instance is bound to the specific process it
// started tracking; a different process name is a new activity boundary and
// always triggers teardown/re-selection, even though re-selection may again
// choose DefaultStrategy (spec §8 scenario 2).
func (s *defaultStrategy) HandleProcessChange(ctx ProcessContext) bool {
	return ctx.ProcessName == s.ctx.ProcessName
}

func (s *defaultStrategy) StartTracking(ctx context.Context, reports chan<- activity.Report) error {
	asset := activity.NewDefaultAsset(uuid.NewString(), displayName(s.ctx), s.ctx.Icon, nil)
	act := activity.NewActivity(uuid.NewString(), displayName(s.ctx), s.ctx.ProcessName, s.ctx.Icon)
	act.Assets = []activity.Asset{asset}
	select {
	case reports <- activity.NewActivityReport(act):
	case <-ctx.Done():
	}
	return nil
}

func (s *defaultStrategy) Stop() error { return nil }

func displayName(ctx ProcessContext) string {
	if ctx.WindowTitle != "" {
		return ctx.WindowTitle
	}
	return ctx.ProcessName
}
