package timeline

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/eurora-ai/eurora-core/pkg/activity"
	"github.com/eurora-ai/eurora-core/pkg/focustracker"
	"github.com/eurora-ai/eurora-core/pkg/strategy"
)

// broadcastCapacity is the buffer size for activity/context-chip broadcast
// channels (spec §5: "capacity ~ 100").
const broadcastCapacity = 100

// FocusEvent is broadcast whenever a NewActivity report is ingested (spec
// §4.4: "broadcast a focus event {name, icon}").
type FocusEvent struct {
	Name string
	Icon *string
}

// Collector is the Timeline Collector: it owns the focus-tracking task and
// the current strategy, merges ActivityReports into Storage, and fans out
// focus/context-chip events to subscribers (spec §4.4).
type Collector struct {
	registry *strategy.Registry
	storage  *Storage

	reports chan activity.Report

	prevFocusMu sync.Mutex
	prevFocus   string

	currentMu       sync.RWMutex
	currentStrategy strategy.Strategy

	focusEvents  chan FocusEvent
	contextChips chan []activity.ContextChip

	stopOnce sync.Once
	stopped  chan struct{}
}

// NewCollector constructs a Collector backed by registry and storage.
// registry should already be initialized (strategy.Initialize).
func NewCollector(registry *strategy.Registry, storage *Storage) *Collector {
	return &Collector{
		registry:     registry,
		storage:      storage,
		reports:      make(chan activity.Report, 256),
		focusEvents:  make(chan FocusEvent, broadcastCapacity),
		contextChips: make(chan []activity.ContextChip, broadcastCapacity),
		stopped:      make(chan struct{}),
	}
}

// FocusEvents returns the broadcast channel of focus transitions. Slow
// consumers lose intermediate events (spec §5: "lag-tolerant; only the most
// recent activity state matters").
func (c *Collector) FocusEvents() <-chan FocusEvent { return c.focusEvents }

// ContextChips returns the broadcast channel of context-chip batches for
// the current activity.
func (c *Collector) ContextChips() <-chan []activity.ContextChip { return c.contextChips }

// Storage exposes the underlying Timeline Storage for read access.
func (c *Collector) Storage() *Storage { return c.storage }

// Run drives both the focus-tracking task and the report-ingestion task
// until ctx is canceled (spec §4.4, §5). It blocks until both terminate.
func (c *Collector) Run(ctx context.Context, tracker *focustracker.Tracker) error {
	var wg sync.WaitGroup
	wg.Add(2)

	var trackErr error
	go func() {
		defer wg.Done()
		trackErr = tracker.TrackFocus(ctx, func(w focustracker.FocusedWindow) error {
			c.handleFocusChange(ctx, strategy.ProcessContext{
				ProcessID:   w.ProcessID,
				ProcessName: w.ProcessName,
				WindowTitle: w.WindowTitle,
				Icon:        iconRef(w),
			})
			return nil
		})
	}()

	go func() {
		defer wg.Done()
		c.ingestReports(ctx)
	}()

	wg.Wait()
	close(c.stopped)
	return trackErr
}

func iconRef(w focustracker.FocusedWindow) *string {
	if w.IconURL == "" {
		return nil
	}
	icon := w.IconURL
	return &icon
}

// handleFocusChange implements spec §4.4's focus-change algorithm: dedup
// against previous focus, then either confirm the current strategy still
// applies or tear it down and select a new one.
func (c *Collector) handleFocusChange(ctx context.Context, pc strategy.ProcessContext) {
	c.prevFocusMu.Lock()
	if c.prevFocus == pc.ProcessName {
		c.prevFocusMu.Unlock()
		return
	}
	c.prevFocusMu.Unlock()

	c.currentMu.Lock()
	defer c.currentMu.Unlock()

	if c.currentStrategy != nil && c.currentStrategy.HandleProcessChange(pc) {
		c.prevFocusMu.Lock()
		c.prevFocus = pc.ProcessName
		c.prevFocusMu.Unlock()
		return
	}

	if c.currentStrategy != nil {
		if err := c.currentStrategy.Stop(); err != nil {
			log.Warn().Err(err).Msg("timeline: error stopping superseded strategy")
		}
	}

	factory, err := c.registry.SelectStrategy(pc)
	if err != nil {
		log.Error().Err(err).Str("process", pc.ProcessName).Msg("timeline: strategy selection failed, will retry next focus event")
		return
	}

	next := factory.New(pc)
	if err := next.StartTracking(ctx, c.reports); err != nil {
		log.Error().Err(err).Str("process", pc.ProcessName).Msg("timeline: strategy failed to start, will retry next focus event")
		return
	}

	c.currentStrategy = next
	c.prevFocusMu.Lock()
	c.prevFocus = pc.ProcessName
	c.prevFocusMu.Unlock()
}

// ingestReports is the single-consumer report-ingestion task (spec §4.4,
// §5: "ingestion is single-consumer, so replacement is atomic").
func (c *Collector) ingestReports(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case report, ok := <-c.reports:
			if !ok {
				return
			}
			c.applyReport(report)
		}
	}
}

func (c *Collector) applyReport(report activity.Report) {
	switch report.Kind {
	case activity.ReportNewActivity:
		c.storage.Push(report.Activity)
		c.broadcastFocus(FocusEvent{Name: report.Activity.Name, Icon: report.Activity.Icon})
		c.broadcastContextChips(report.Activity.ContextChips())

	case activity.ReportAssets:
		cur, ok := c.storage.ReplaceCurrentAssets(report.Assets)
		if !ok {
			log.Debug().Msg("timeline: dropping assets report, no current activity")
			return
		}
		c.broadcastContextChips(cur.ContextChips())

	case activity.ReportSnapshots:
		if _, ok := c.storage.ReplaceCurrentSnapshots(report.Snapshots); !ok {
			log.Debug().Msg("timeline: dropping snapshots report, no current activity")
		}

	case activity.ReportStopping:
		// informational; no structural effect (spec §4.4).
	}
}

func (c *Collector) broadcastFocus(e FocusEvent) {
	select {
	case c.focusEvents <- e:
		return
	default:
	}
	// Buffer full: discard the oldest queued event so the newest is kept.
	select {
	case <-c.focusEvents:
		log.Debug().Msg("timeline: focus event subscriber lagging, dropping oldest event")
	default:
	}
	select {
	case c.focusEvents <- e:
	default:
	}
}

func (c *Collector) broadcastContextChips(chips []activity.ContextChip) {
	select {
	case c.contextChips <- chips:
		return
	default:
	}
	// Buffer full: discard the oldest queued batch so the newest is kept.
	select {
	case <-c.contextChips:
		log.Debug().Msg("timeline: context chip subscriber lagging, dropping oldest event")
	default:
	}
	select {
	case c.contextChips <- chips:
	default:
	}
}

// Stop signals the current strategy to stop. The caller is responsible for
// canceling the context passed to Run, which aborts the focus task and the
// ingestion loop (spec §4.4 cancellation).
func (c *Collector) Stop() error {
	c.currentMu.Lock()
	defer c.currentMu.Unlock()
	if c.currentStrategy == nil {
		return nil
	}
	return c.currentStrategy.Stop()
}
