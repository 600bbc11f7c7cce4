package strategy

import "context"

import "github.com/eurora-ai/eurora-core/pkg/activity"

// HostProcessName is the canonical process name of the Eurora host
// application itself (spec §9 Open Question i, resolved in
// SPEC_FULL.md's Feature Supplements: match by this single string, not by
// category).
const HostProcessName = "eurora"

// noStrategyFactory matches exactly the host application's own process name
// (spec §4.3 NoStrategy; spec §9 Open Question i resolved per SPEC_FULL.md:
// match by a single canonical string, not by category).
type noStrategyFactory struct {
	hostProcessName string
}

func newNoStrategyFactory(hostProcessName string) Factory {
	return &noStrategyFactory{hostProcessName: hostProcessName}
}

func (f *noStrategyFactory) Name() string        { return "none" }
func (f *noStrategyFactory) ID() string          { return "strategy.none" }
func (f *noStrategyFactory) Description() string { return "suppresses recursive capture of the host application itself" }
func (f *noStrategyFactory) Category() Category  { return CategoryNone }

// Priority is highest: the host's own process must never fall through to
// DefaultStrategy.
func (f *noStrategyFactory) Priority() int { return 100 }

func (f *noStrategyFactory) SupportsProcess(ctx ProcessContext) int {
	if ctx.ProcessName == f.hostProcessName {
		return 1
	}
	return 0
}

func (f *noStrategyFactory) New(ctx ProcessContext) Strategy {
	return &noStrategy{processName: f.hostProcessName}
}

// noStrategy's StartTracking, and implicit asset/snapshot retrieval, are all
// no-ops (spec §4.3: "its start_tracking, retrieve_assets, and
// retrieve_snapshots are no-ops").
type noStrategy struct {
	processName string
}

func (s *noStrategy) HandleProcessChange(ctx ProcessContext) bool {
	return ctx.ProcessName == s.processName
}

func (s *noStrategy) StartTracking(ctx context.Context, reports chan<- activity.Report) error {
	return nil
}

func (s *noStrategy) Stop() error { return nil }
