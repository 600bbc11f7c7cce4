// Package activity implements the Activity & Snapshot Model (spec §4.5):
// typed sum-type entities over assets and snapshots, their invariants, and
// their conversion surfaces to LLM messages and UI context chips.
//
// Grounded on the original Rust source's eur-activity crate (lib.rs module
// layout, assets/*.rs, snapshots/*.rs) translated from trait objects to Go
// interfaces; the conversion-is-total and touch()-updates-updated_at
// invariants are carried over unchanged.
package activity

import (
	"time"

	"github.com/eurora-ai/eurora-core/pkg/assetstore"
	"github.com/eurora-ai/eurora-core/pkg/message"
)

// ContextChip is a compact UI descriptor derived from an asset (spec §3,
// GLOSSARY).
type ContextChip struct {
	ID          string
	Name        string
	ExtensionID string
	Attrs       map[string]string
	Icon        *string
	Position    *int
}

// Asset is the capability surface every ActivityAsset variant implements
// (spec §4.5): display metadata, LLM message construction, an optional
// context chip, and the save-capability required by Asset Storage.
type Asset interface {
	assetstore.SaveableAsset
	Name() string
	Icon() *string
	ConstructMessage() message.Message
	ContextChip() *ContextChip
}

// Snapshot is the capability surface every ActivitySnapshot variant
// implements (spec §4.5).
type Snapshot interface {
	ID() string
	ConstructMessages() []message.Message
	CreatedAt() int64
	UpdatedAt() int64
}

// DisplayAsset is the (name, icon) pair returned by Activity.DisplayAssets.
type DisplayAsset struct {
	Name string
	Icon *string
}

// Activity is a time-bounded period during which one process was focused
// (spec §3). Invariants: StartedAt is set at creation and never changes;
// EndedAt, if set, is >= StartedAt; mutation of Assets/Snapshots is only
// valid while the Activity is current in Timeline Storage.
type Activity struct {
	ID          string
	Name        string
	Icon        *string
	ProcessName string
	StartedAt   time.Time
	EndedAt     *time.Time
	Assets      []Asset
	Snapshots   []Snapshot
}

// NewActivity constructs an Activity starting now, with no assets or
// snapshots (spec §3: "StartedAt is set at creation and never changes").
func NewActivity(id, name, processName string, icon *string) *Activity {
	return &Activity{
		ID:          id,
		Name:        name,
		Icon:        icon,
		ProcessName: processName,
		StartedAt:   time.Now(),
	}
}

// End sets EndedAt to t, rejecting t before StartedAt (spec §3 invariant:
// "ended_at, if set, is ≥ started_at"). The core itself never calls this
// (spec §9 Open Question iii: activities have no explicit end event); it
// exists for external callers that do choose to close an activity.
func (a *Activity) End(t time.Time) error {
	if t.Before(a.StartedAt) {
		return endedBeforeStartedError(a.StartedAt, t)
	}
	a.EndedAt = &t
	return nil
}

// AddSnapshot appends s to the activity's snapshot list.
func (a *Activity) AddSnapshot(s Snapshot) {
	a.Snapshots = append(a.Snapshots, s)
}

// DisplayAssets returns the (name, icon) pair for each asset, in order.
func (a *Activity) DisplayAssets() []DisplayAsset {
	out := make([]DisplayAsset, 0, len(a.Assets))
	for _, asset := range a.Assets {
		out = append(out, DisplayAsset{Name: asset.Name(), Icon: asset.Icon()})
	}
	return out
}

// ContextChips flattens the context chips of every asset that has one (spec
// §4.5: "flattened across assets"; only assets with a chip contribute).
func (a *Activity) ContextChips() []ContextChip {
	var out []ContextChip
	for _, asset := range a.Assets {
		if chip := asset.ContextChip(); chip != nil {
			out = append(out, *chip)
		}
	}
	return out
}

// SaveAssetsToDisk delegates every asset to Asset Storage in order, returning
// one SavedAssetInfo per asset (spec §4.5).
func (a *Activity) SaveAssetsToDisk(store *assetstore.Store) ([]*assetstore.SavedAssetInfo, error) {
	infos := make([]*assetstore.SavedAssetInfo, 0, len(a.Assets))
	for _, asset := range a.Assets {
		info, err := store.Save(asset)
		if err != nil {
			return infos, err
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// SaveAssetByIndex saves only the asset at index i.
func (a *Activity) SaveAssetByIndex(i int, store *assetstore.Store) (*assetstore.SavedAssetInfo, error) {
	if i < 0 || i >= len(a.Assets) {
		return nil, assetIndexError(i, len(a.Assets))
	}
	return store.Save(a.Assets[i])
}

// ReportKind tags the ActivityReport union (spec §3).
type ReportKind string

const (
	ReportNewActivity ReportKind = "new_activity"
	ReportAssets      ReportKind = "assets"
	ReportSnapshots   ReportKind = "snapshots"
	ReportStopping    ReportKind = "stopping"
)

// Report is the tagged variant a strategy sends to the Timeline Collector
// over its report channel (spec §3, §4.4).
type Report struct {
	Kind      ReportKind
	Activity  *Activity
	Assets    []Asset
	Snapshots []Snapshot
}

// NewActivityReport wraps a freshly created Activity.
func NewActivityReport(a *Activity) Report { return Report{Kind: ReportNewActivity, Activity: a} }

// AssetsReport wraps a replacement batch of assets for the current activity.
func AssetsReport(assets []Asset) Report { return Report{Kind: ReportAssets, Assets: assets} }

// SnapshotsReport wraps a replacement batch of snapshots for the current
// activity.
func SnapshotsReport(snaps []Snapshot) Report { return Report{Kind: ReportSnapshots, Snapshots: snaps} }

// StoppingReport is informational; it has no structural effect on Timeline
// Storage (spec §4.4).
func StoppingReport() Report { return Report{Kind: ReportStopping} }
