// Package handler implements the per-media-type library operations
// (§4.D): enumerating local items, matching, comparing, and
// mutating the library. One TypeHandler exists per registered
// model.MediaType.
package handler

import (
	"context"

	"mediaimport/model"
)

// TypeHandler is the library-side contract for one media type.
// Instances are not shared across jobs: Create() clones a fresh
// instance so per-instance state (the staged synchronisation batch)
// stays isolated to the job that owns it (§5, §9).
type TypeHandler interface {
	MediaType() model.MediaType
	Dependencies() []model.MediaType
	RequiredMediaTypes() []model.MediaType
	GroupedMediaTypes() model.GroupedMediaTypes

	// Create returns a fresh instance for exclusive use by one
	// task-processor job, per the handler.create() pattern in §5/§9.
	Create() TypeHandler

	GetLocalItems(ctx context.Context, imp *model.Import) ([]*model.Item, error)

	StartChangeset(ctx context.Context, imp *model.Import) error
	FinishChangeset(ctx context.Context, imp *model.Import) error

	FindMatchingLocalItem(remote *model.Item, local []*model.Item) *model.Item
	DetermineChangeset(imp *model.Import, remote, local *model.Item) model.ChangesetType
	PrepareImportedItem(imp *model.Import, remote, local *model.Item)

	StartSynchronisation(ctx context.Context, imp *model.Import) error
	FinishSynchronisation(ctx context.Context, imp *model.Import, commit bool) error

	AddImportedItem(ctx context.Context, imp *model.Import, item *model.Item) error
	UpdateImportedItem(ctx context.Context, imp *model.Import, item *model.Item) error
	RemoveImportedItem(ctx context.Context, imp *model.Import, item *model.Item) error

	CleanupImportedItems(ctx context.Context, imp *model.Import) error
	RemoveImportedItems(ctx context.Context, imp *model.Import) error
	SetImportedItemsEnabled(ctx context.Context, imp *model.Import, enabled bool) error
}

// Store is the minimal library persistence surface a TypeHandler needs.
// A single in-memory reference implementation (store.go) backs every
// shipped handler; production deployments substitute their own video
// and music databases per §1's Non-goals.
type Store interface {
	Items(mediaType model.MediaType) []*model.Item
	Put(item *model.Item) *model.Item // assigns LocalID if zero, returns the stored pointer
	Delete(localID int64)
	Get(localID int64) (*model.Item, bool)
}
