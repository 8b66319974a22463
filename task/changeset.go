package task

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"mediaimport/importlog"
	"mediaimport/model"
)

// changesetHandler is the subset of handler.TypeHandler the matching
// pass needs.
type changesetHandler interface {
	FindMatchingLocalItem(remote *model.Item, local []*model.Item) *model.Item
	DetermineChangeset(imp *model.Import, remote, local *model.Item) model.ChangesetType
	PrepareImportedItem(imp *model.Import, remote, local *model.Item)
}

// runChangeset implements §4.E step 3 for every media type of the
// import: full-set matching when the adapter did not pre-classify
// items, or the four partial-changeset resolution rules when it did.
func (t *Task) runChangeset(ctx context.Context) error {
	log := importlog.FromContext(ctx)
	updateEnabled := t.Imp.Settings.GetBool("updateimporteditems", true)

	types := t.Imp.MediaTypes
	for idx, mt := range types {
		if t.ShouldCancel(idx, len(types)) {
			return context.Canceled
		}
		h, ok := t.Handlers[mt]
		if !ok {
			continue
		}
		if err := h.StartChangeset(ctx, t.Imp); err != nil {
			return fmt.Errorf("changeset for %s: start: %w", mt, err)
		}

		var entries model.Changeset
		if t.partial {
			entries = t.partialChangesetFor(h, mt, updateEnabled, log)
		} else {
			entries = t.fullChangesetFor(h, mt, updateEnabled)
		}

		if err := h.FinishChangeset(ctx, t.Imp); err != nil {
			return fmt.Errorf("changeset for %s: finish: %w", mt, err)
		}

		// Items resolved to None are discarded; they require no
		// further work in Synchronisation.
		kept := entries[:0]
		for _, e := range entries {
			if e.Type != model.ChangesetNone {
				kept = append(kept, e)
			}
		}
		t.changesets[mt] = kept
	}
	return nil
}

func (t *Task) fullChangesetFor(h changesetHandler, mt model.MediaType, updateEnabled bool) model.Changeset {
	local := append([]*model.Item(nil), t.local[mt]...)
	matched := make(map[*model.Item]bool, len(local))

	var out model.Changeset
	for _, remote := range t.remote[mt] {
		match := h.FindMatchingLocalItem(remote, local)
		h.PrepareImportedItem(t.Imp, remote, match)
		if match == nil {
			out = append(out, model.ChangesetEntry{Type: model.ChangesetAdded, Item: remote})
			continue
		}
		matched[match] = true
		if !updateEnabled {
			continue // matched items emitted as None -> dropped
		}
		ct := h.DetermineChangeset(t.Imp, remote, match)
		if ct == model.ChangesetNone {
			continue
		}
		out = append(out, model.ChangesetEntry{Type: ct, Item: remote})
	}
	for _, l := range local {
		if !matched[l] {
			out = append(out, model.ChangesetEntry{Type: model.ChangesetRemoved, Item: l})
		}
	}
	return out
}

func (t *Task) partialChangesetFor(h changesetHandler, mt model.MediaType, updateEnabled bool, log zerolog.Logger) model.Changeset {
	var out model.Changeset
	remotes := t.remote[mt]
	kinds := t.remoteType[mt]
	local := t.local[mt]

	for idx, remote := range remotes {
		supplied := model.ChangesetNone
		if idx < len(kinds) && kinds[idx] != nil {
			supplied = *kinds[idx]
		}
		match := h.FindMatchingLocalItem(remote, local)

		switch supplied {
		case model.ChangesetAdded:
			h.PrepareImportedItem(t.Imp, remote, match)
			if match == nil {
				out = append(out, model.ChangesetEntry{Type: model.ChangesetAdded, Item: remote})
			} else if updateEnabled {
				out = append(out, model.ChangesetEntry{Type: model.ChangesetChanged, Item: remote})
			}
		case model.ChangesetChanged:
			if match == nil {
				log.Warn().Str("media_type", string(mt)).Str("path", remote.Path).
					Msg("dropping Changed entry with no local match")
				continue
			}
			h.PrepareImportedItem(t.Imp, remote, match)
			if updateEnabled {
				out = append(out, model.ChangesetEntry{Type: model.ChangesetChanged, Item: remote})
			}
		case model.ChangesetRemoved:
			if match == nil {
				continue // dropped: nothing to remove
			}
			out = append(out, model.ChangesetEntry{Type: model.ChangesetRemoved, Item: match})
		case model.ChangesetNone:
			h.PrepareImportedItem(t.Imp, remote, match)
			if match == nil {
				out = append(out, model.ChangesetEntry{Type: model.ChangesetAdded, Item: remote})
				continue
			}
			if !updateEnabled {
				continue
			}
			ct := h.DetermineChangeset(t.Imp, remote, match)
			if ct != model.ChangesetNone {
				out = append(out, model.ChangesetEntry{Type: ct, Item: remote})
			}
		}
	}
	return out
}
