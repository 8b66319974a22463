package handler

import (
	"context"

	"mediaimport/model"
)

// SetHandler implements TypeHandler for movie sets (collections):
// identity by title, a container of movies with no path of its own.
type SetHandler struct{ base }

func NewSetHandler(store Store) *SetHandler {
	return &SetHandler{base: newBase(model.MediaTypeSet, store)}
}

func (h *SetHandler) Create() TypeHandler {
	return &SetHandler{base: newBase(model.MediaTypeSet, h.store)}
}

func (h *SetHandler) GetLocalItems(_ context.Context, imp *model.Import) ([]*model.Item, error) {
	return h.store.Items(model.MediaTypeSet), nil
}

func (h *SetHandler) FindMatchingLocalItem(remote *model.Item, local []*model.Item) *model.Item {
	for _, l := range local {
		if l.Title == remote.Title {
			return l
		}
	}
	return nil
}

func (h *SetHandler) DetermineChangeset(imp *model.Import, remote, local *model.Item) model.ChangesetType {
	if local == nil {
		return model.ChangesetAdded
	}
	if remote.Title == local.Title {
		return model.ChangesetNone
	}
	return model.ChangesetChanged
}

func (h *SetHandler) PrepareImportedItem(imp *model.Import, remote, local *model.Item) {
	if local != nil {
		remote.LocalID = local.LocalID
	}
}

// CleanupImportedItems removes every set in the store that no movie
// in the store references; it is not limited to this import's source.
func (h *SetHandler) CleanupImportedItems(ctx context.Context, imp *model.Import) error {
	movies := h.store.Items(model.MediaTypeMovie)
	hasMovies := make(map[int64]bool)
	for _, m := range movies {
		hasMovies[m.SetID] = true
	}
	for _, set := range h.store.Items(model.MediaTypeSet) {
		if !hasMovies[set.LocalID] {
			h.store.Delete(set.LocalID)
		}
	}
	return nil
}
