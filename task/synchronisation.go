package task

import (
	"context"
	"fmt"

	"mediaimport/model"
)

// runSynchronisation implements §4.E step 4: media types visited in
// topological order, each bracketed by a start/finish transaction,
// with Added/Changed/Removed entries applied and all imported items
// re-enabled once the transaction commits.
func (t *Task) runSynchronisation(ctx context.Context) error {
	ordered := model.OrderedSync(t.Imp.MediaTypes)
	for idx, mt := range ordered {
		if t.ShouldCancel(idx, len(ordered)) {
			return context.Canceled
		}
		h, ok := t.Handlers[mt]
		if !ok {
			continue
		}
		entries := t.changesets[mt]
		if len(entries) == 0 {
			continue
		}

		if err := h.StartSynchronisation(ctx, t.Imp); err != nil {
			return fmt.Errorf("synchronisation for %s: start: %w", mt, err)
		}

		var applyErr error
		for _, e := range entries {
			switch e.Type {
			case model.ChangesetAdded:
				applyErr = h.AddImportedItem(ctx, t.Imp, e.Item)
			case model.ChangesetChanged:
				applyErr = h.UpdateImportedItem(ctx, t.Imp, e.Item)
			case model.ChangesetRemoved:
				applyErr = h.RemoveImportedItem(ctx, t.Imp, e.Item)
			}
			if applyErr != nil {
				break
			}
		}

		if finishErr := h.FinishSynchronisation(ctx, t.Imp, applyErr == nil); finishErr != nil {
			return fmt.Errorf("synchronisation for %s: finish: %w", mt, finishErr)
		}
		if applyErr != nil {
			// Persistence failure: skip the remaining media types of
			// this bucket but continue the pipeline (§7 kind 5).
			return nil
		}

		if err := h.SetImportedItemsEnabled(ctx, t.Imp, true); err != nil {
			return fmt.Errorf("synchronisation for %s: enable: %w", mt, err)
		}
	}
	return nil
}
