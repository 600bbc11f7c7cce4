// Package strategy implements the Strategy Registry & Strategies component
// (spec §4.3): selecting and driving a per-process extraction strategy that
// produces ActivityReports for the Timeline Collector.
//
// Grounded on the original Rust source's eur-timeline strategy registry
// (factory trait objects, priority-ordered selection, Idle/Tracking/Stopping
// state machine) translated to Go interfaces; the hot path (branching on a
// closed Browser|Default|None tag, per spec §9 design note) stays free of
// registry lookups once a strategy is selected.
package strategy

import (
	"context"

	"github.com/eurora-ai/eurora-core/pkg/activity"
)

// ProcessContext is the focus-change input a Factory inspects to decide
// whether it supports the newly focused process (spec §4.3).
type ProcessContext struct {
	ProcessID   uint32
	ProcessName string
	WindowTitle string
	Icon        *string
}

// Category classifies a Factory for registry bookkeeping and diagnostics.
type Category string

const (
	CategoryBrowser Category = "browser"
	CategoryDefault Category = "default"
	CategoryNone    Category = "none"
)

// Strategy drives asset/snapshot production for one focused process (spec
// §4.3 state machine: Idle -> Tracking -> Stopping -> Idle).
type Strategy interface {
	// HandleProcessChange reports whether this strategy still applies to
	// newWindow. False triggers teardown and re-selection by the caller.
	HandleProcessChange(ctx ProcessContext) bool

	// StartTracking begins producing ActivityReports on reports. It must
	// return promptly; ongoing work runs on the strategy's own goroutine(s)
	// until ctx is canceled or Stop is called.
	StartTracking(ctx context.Context, reports chan<- activity.Report) error

	// Stop tears down the strategy. It must be idempotent (spec §4.3:
	// "Stop must be idempotent").
	Stop() error
}

// Factory describes and instantiates one Strategy implementation (spec
// §4.3 "register_factory").
type Factory interface {
	Name() string
	ID() string
	Description() string
	Category() Category
	// Priority orders factories for selection; higher is examined first.
	// The size of a non-zero match score plays no part in the order.
	Priority() int
	// SupportsProcess returns a non-negative match score for ctx; 0 means
	// "does not support". select_strategy picks the first non-zero score in
	// descending-priority order.
	SupportsProcess(ctx ProcessContext) int
	// New instantiates a fresh Strategy instance bound to ctx.
	New(ctx ProcessContext) Strategy
}
