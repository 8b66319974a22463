package handler

import (
	"context"

	"mediaimport/model"
)

// stagedOp buffers one library mutation until FinishSynchronisation
// commits or discards the batch, giving each handler a poor-man's
// transaction bracket over the in-memory Store (§4.D start/finish
// synchronisation contract).
type stagedOp struct {
	kind string // "put" or "delete"
	item *model.Item
	id   int64
}

// base implements the bookkeeping shared by every TypeHandler:
// dependency/group metadata, exclusive-per-job cloning, and the
// staged-transaction bracket. Concrete handlers embed base and
// implement the matching/comparison methods specific to their media
// type.
type base struct {
	mediaType  model.MediaType
	deps       []model.MediaType
	required   []model.MediaType
	grouped    model.GroupedMediaTypes
	store      Store
	staged     []stagedOp
	inTxn      bool
}

func newBase(mt model.MediaType, store Store) base {
	return base{
		mediaType: mt,
		deps:      model.RequiredMediaTypes(mt),
		required:  model.RequiredMediaTypes(mt),
		grouped:   model.GroupFor(mt),
		store:     store,
	}
}

func (b *base) MediaType() model.MediaType                { return b.mediaType }
func (b *base) Dependencies() []model.MediaType            { return b.deps }
func (b *base) RequiredMediaTypes() []model.MediaType       { return b.required }
func (b *base) GroupedMediaTypes() model.GroupedMediaTypes { return b.grouped }

func (b *base) StartChangeset(ctx context.Context, imp *model.Import) error  { return nil }
func (b *base) FinishChangeset(ctx context.Context, imp *model.Import) error { return nil }

func (b *base) StartSynchronisation(ctx context.Context, imp *model.Import) error {
	b.staged = nil
	b.inTxn = true
	return nil
}

func (b *base) FinishSynchronisation(ctx context.Context, imp *model.Import, commit bool) error {
	defer func() {
		b.staged = nil
		b.inTxn = false
	}()
	if !commit {
		return nil
	}
	for _, op := range b.staged {
		switch op.kind {
		case "put":
			b.store.Put(op.item)
		case "delete":
			b.store.Delete(op.id)
		}
	}
	return nil
}

func (b *base) stagePut(item *model.Item) {
	b.staged = append(b.staged, stagedOp{kind: "put", item: item})
}

func (b *base) stageDelete(id int64) {
	b.staged = append(b.staged, stagedOp{kind: "delete", id: id})
}

func (b *base) AddImportedItem(ctx context.Context, imp *model.Import, item *model.Item) error {
	item.Enabled = true
	b.stagePut(item)
	return nil
}

func (b *base) UpdateImportedItem(ctx context.Context, imp *model.Import, item *model.Item) error {
	b.stagePut(item)
	return nil
}

func (b *base) RemoveImportedItem(ctx context.Context, imp *model.Import, item *model.Item) error {
	b.stageDelete(item.LocalID)
	return nil
}

func (b *base) RemoveImportedItems(ctx context.Context, imp *model.Import) error {
	for _, it := range b.store.Items(b.mediaType) {
		if it.Path != "" && model.PathContains(imp.Path, it.Path) {
			b.store.Delete(it.LocalID)
		}
	}
	return nil
}

func (b *base) SetImportedItemsEnabled(ctx context.Context, imp *model.Import, enabled bool) error {
	for _, it := range b.store.Items(b.mediaType) {
		if it.Path != "" && model.PathContains(imp.Path, it.Path) {
			it.Enabled = enabled
			b.store.Put(it)
		}
	}
	return nil
}

// CleanupImportedItems is a no-op by default; container media types
// (season, tvshow, album, artist) override it to prune now-empty
// parents per §4.D's orphan-removal rule.
func (b *base) CleanupImportedItems(ctx context.Context, imp *model.Import) error { return nil }
