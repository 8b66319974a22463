package handler

import (
	"context"

	"mediaimport/model"
)

// EpisodeHandler implements TypeHandler for episodes: identity by
// path, parent show resolved by title and disambiguated by path
// prefix when multiple shows share a title (§4.D).
type EpisodeHandler struct {
	base
	shows ShowLookup
}

// ShowLookup resolves a show's local id given its title and the
// episode's path, used to disambiguate same-titled shows. Implemented
// by TVShowHandler and passed to NewEpisodeHandler, so the episode
// handler resolves its show without a direct dependency on the tvshow
// handler type.
type ShowLookup interface {
	ResolveShowID(title string, episodePath string) (int64, bool)
}

// NewEpisodeHandler constructs a handler backed by store and shows.
func NewEpisodeHandler(store Store, shows ShowLookup) *EpisodeHandler {
	return &EpisodeHandler{base: newBase(model.MediaTypeEpisode, store), shows: shows}
}

func (h *EpisodeHandler) Create() TypeHandler {
	return &EpisodeHandler{base: newBase(model.MediaTypeEpisode, h.store), shows: h.shows}
}

func (h *EpisodeHandler) GetLocalItems(_ context.Context, imp *model.Import) ([]*model.Item, error) {
	var out []*model.Item
	for _, it := range h.store.Items(model.MediaTypeEpisode) {
		if model.PathContains(imp.Path, it.Path) {
			out = append(out, it)
		}
	}
	return out, nil
}

func (h *EpisodeHandler) FindMatchingLocalItem(remote *model.Item, local []*model.Item) *model.Item {
	for _, l := range local {
		if l.Path == remote.Path {
			return l
		}
	}
	return nil
}

func (h *EpisodeHandler) DetermineChangeset(imp *model.Import, remote, local *model.Item) model.ChangesetType {
	if local == nil {
		return model.ChangesetAdded
	}
	if moviesEqual(remote, local) {
		return model.ChangesetNone
	}
	return model.ChangesetChanged
}

func (h *EpisodeHandler) PrepareImportedItem(imp *model.Import, remote, local *model.Item) {
	if local != nil {
		remote.LocalID = local.LocalID
	}
	if h.shows != nil {
		if showID, ok := h.shows.ResolveShowID(remote.ShowTitle, remote.Path); ok {
			remote.ShowID = showID
		}
	}
}
