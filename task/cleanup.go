package task

import (
	"context"

	"mediaimport/model"
)

// runCleanup implements §4.E step 5: media types visited in reverse
// topological order, each handler pruning orphans left by the sync
// pass just completed.
func (t *Task) runCleanup(ctx context.Context) error {
	ordered := model.OrderedCleanup(t.Imp.MediaTypes)
	for idx, mt := range ordered {
		if t.ShouldCancel(idx, len(ordered)) {
			return context.Canceled
		}
		h, ok := t.Handlers[mt]
		if !ok {
			continue
		}
		if err := h.CleanupImportedItems(ctx, t.Imp); err != nil {
			return err
		}
	}
	return nil
}

// runRemoval implements the Removal task used by removeImport and the
// source-removal cascade (§4.G, scenario 4): bulk-delete every media
// type of the import in reverse topological order.
func (t *Task) runRemoval(ctx context.Context) error {
	ordered := model.OrderedCleanup(t.Imp.MediaTypes)
	for idx, mt := range ordered {
		if t.ShouldCancel(idx, len(ordered)) {
			return context.Canceled
		}
		h, ok := t.Handlers[mt]
		if !ok {
			continue
		}
		if err := h.RemoveImportedItems(ctx, t.Imp); err != nil {
			return err
		}
	}
	return nil
}
