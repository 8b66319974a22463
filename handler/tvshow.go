package handler

import (
	"context"
	"strings"

	"mediaimport/model"
)

// TVShowHandler implements TypeHandler for shows, and doubles as the
// ShowLookup consulted by the episode handler to resolve a show's
// local id by title (and, on title collisions, by path prefix).
type TVShowHandler struct{ base }

// NewTVShowHandler constructs a handler backed by store.
func NewTVShowHandler(store Store) *TVShowHandler {
	return &TVShowHandler{base: newBase(model.MediaTypeTVShow, store)}
}

func (h *TVShowHandler) Create() TypeHandler {
	return &TVShowHandler{base: newBase(model.MediaTypeTVShow, h.store)}
}

func (h *TVShowHandler) GetLocalItems(_ context.Context, imp *model.Import) ([]*model.Item, error) {
	var out []*model.Item
	for _, it := range h.store.Items(model.MediaTypeTVShow) {
		if model.PathContains(imp.Path, it.Path) {
			out = append(out, it)
		}
	}
	return out, nil
}

func (h *TVShowHandler) FindMatchingLocalItem(remote *model.Item, local []*model.Item) *model.Item {
	for _, l := range local {
		if l.Title == remote.Title {
			return l
		}
	}
	return nil
}

func (h *TVShowHandler) DetermineChangeset(imp *model.Import, remote, local *model.Item) model.ChangesetType {
	if local == nil {
		return model.ChangesetAdded
	}
	if remote.Title == local.Title && remote.Year == local.Year &&
		remote.Studio == local.Studio && remote.Plot == local.Plot &&
		stringSlicesEqualUnordered(remote.Genre, local.Genre) {
		return model.ChangesetNone
	}
	return model.ChangesetChanged
}

func (h *TVShowHandler) PrepareImportedItem(imp *model.Import, remote, local *model.Item) {
	if local != nil {
		remote.LocalID = local.LocalID
	}
}

// ResolveShowID finds a show by title, disambiguating collisions by
// whether episodePath falls under the show's path.
func (h *TVShowHandler) ResolveShowID(title string, episodePath string) (int64, bool) {
	var candidates []*model.Item
	for _, it := range h.store.Items(model.MediaTypeTVShow) {
		if it.Title == title {
			candidates = append(candidates, it)
		}
	}
	if len(candidates) == 0 {
		return 0, false
	}
	if len(candidates) == 1 {
		return candidates[0].LocalID, true
	}
	for _, c := range candidates {
		if c.Path != "" && strings.HasPrefix(episodePath, c.Path) {
			return c.LocalID, true
		}
	}
	return candidates[0].LocalID, true
}

// CleanupImportedItems removes shows under the import's path that no
// episode in the store references, per the §6 supplement on
// season/show orphan pruning.
func (h *TVShowHandler) CleanupImportedItems(ctx context.Context, imp *model.Import) error {
	episodes := h.store.Items(model.MediaTypeEpisode)
	hasEpisodes := make(map[int64]bool)
	for _, e := range episodes {
		hasEpisodes[e.ShowID] = true
	}
	for _, show := range h.store.Items(model.MediaTypeTVShow) {
		if show.Path != "" && model.PathContains(imp.Path, show.Path) && !hasEpisodes[show.LocalID] {
			h.store.Delete(show.LocalID)
		}
	}
	return nil
}
