// Package importer defines the per-source-kind adapter contract (§4.C,
// §6.1): Importer, ImporterFactory and Observer. Concrete adapters
// (network protocol clients, plugin bridges) are out of scope for the
// core per §1 and live under adapter/ as reference implementations.
package importer

import (
	"context"

	"mediaimport/model"
)

// Task is the subset of task.Task that an Importer needs to deposit
// retrieved items or push updates, per §6.1. Defined here (rather than
// imported from package task) so this package has no dependency on
// the task pipeline; *task.Task satisfies it structurally.
type Task interface {
	AddItem(mt model.MediaType, item *model.Item)
	AddItems(mt model.MediaType, items []*model.Item, changesetType *model.ChangesetType)
	SetItems(mt model.MediaType, items []*model.Item)
	GetLocalItems(mt model.MediaType) []*model.Item
	SetChangeset(partial bool)
	ShouldCancel(progress, total int) bool
	SetProgressText(text string)
	Import() *model.Import
	Item() *model.Item // valid only for Update tasks
}

// Importer abstracts one kind of source adapter. Calls return false on
// any recoverable error; the Manager logs and proceeds without marking
// the source permanently unavailable (§4.C).
type Importer interface {
	CanLookupSource() bool
	GetSourceLookupProtocol() string

	DiscoverSource(ctx context.Context, source *model.Source) bool
	LookupSource(ctx context.Context, source *model.Source) bool

	CanImport(path string) bool
	IsSourceReady(ctx context.Context, source *model.Source) bool
	IsImportReady(ctx context.Context, imp *model.Import) bool

	LoadSourceSettings(ctx context.Context, source *model.Source) error
	UnloadSourceSettings(ctx context.Context, source *model.Source)
	LoadImportSettings(ctx context.Context, imp *model.Import) error
	UnloadImportSettings(ctx context.Context, imp *model.Import)

	CanUpdateMetadataOnSource(path string) bool
	CanUpdatePlaycountOnSource(path string) bool
	CanUpdateLastPlayedOnSource(path string) bool
	CanUpdateResumePositionOnSource(path string) bool

	Import(ctx context.Context, task Task) bool
	UpdateOnSource(ctx context.Context, task Task) bool
}

// Observer receives source/import lifecycle notifications for one
// importer's sources, mirroring the events emitted on the GUI bus
// (§4.G, §6.2).
type Observer interface {
	OnSourceAdded(source *model.Source)
	OnSourceUpdated(source *model.Source)
	OnSourceRemoved(source *model.Source)
	OnSourceActivated(source *model.Source)
	OnSourceDeactivated(source *model.Source)
	OnImportAdded(imp *model.Import)
	OnImportUpdated(imp *model.Import)
	OnImportRemoved(imp *model.Import)
}

// Discoverer is the long-lived, background-listener half of a
// factory's output: it watches for sources appearing on the wire and
// reports them asynchronously rather than on demand.
type Discoverer interface {
	Start(ctx context.Context, found func(*model.Source)) error
	Stop()
}

// Factory produces the three cooperating instances per source kind
// described in §4.C: a Discoverer, an Importer, and an Observer.
type Factory interface {
	ID() string
	NewDiscoverer() Discoverer
	NewImporter() Importer
	NewObserver() Observer
}
