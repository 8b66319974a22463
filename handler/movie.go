package handler

import (
	"context"

	"mediaimport/model"
)

// MovieHandler implements TypeHandler for movies: identity by path,
// comparison over metadata and artwork with auto-added artwork
// stripped, cast differences ignored when the remote supplies none
// (§4.D).
type MovieHandler struct{ base }

// NewMovieHandler constructs a handler backed by store.
func NewMovieHandler(store Store) *MovieHandler {
	h := &MovieHandler{base: newBase(model.MediaTypeMovie, store)}
	return h
}

func (h *MovieHandler) Create() TypeHandler {
	return &MovieHandler{base: newBase(model.MediaTypeMovie, h.store)}
}

func (h *MovieHandler) GetLocalItems(_ context.Context, imp *model.Import) ([]*model.Item, error) {
	var out []*model.Item
	for _, it := range h.store.Items(model.MediaTypeMovie) {
		if model.PathContains(imp.Path, it.Path) {
			out = append(out, it)
		}
	}
	return out, nil
}

func (h *MovieHandler) FindMatchingLocalItem(remote *model.Item, local []*model.Item) *model.Item {
	for _, l := range local {
		if l.Path == remote.Path {
			return l
		}
	}
	return nil
}

func (h *MovieHandler) DetermineChangeset(imp *model.Import, remote, local *model.Item) model.ChangesetType {
	if local == nil {
		return model.ChangesetAdded
	}
	if moviesEqual(remote, local) {
		return model.ChangesetNone
	}
	return model.ChangesetChanged
}

func (h *MovieHandler) PrepareImportedItem(imp *model.Import, remote, local *model.Item) {
	if local == nil {
		return
	}
	remote.LocalID = local.LocalID
}

// moviesEqual compares the fields relevant to movies/episodes: title,
// year, studio, genre, plot, artwork (auto-added entries stripped),
// and cast — but cast is skipped when the remote supplies none.
func moviesEqual(remote, local *model.Item) bool {
	if remote.Title != local.Title || remote.Year != local.Year ||
		remote.Studio != local.Studio || remote.Plot != local.Plot {
		return false
	}
	if !stringSlicesEqualUnordered(remote.Genre, local.Genre) {
		return false
	}
	if !artworkEqual(remote.Artwork, local.Artwork) {
		return false
	}
	if len(remote.Cast) == 0 {
		return true
	}
	return stringSlicesEqualUnordered(remote.Cast, local.Cast)
}

func stringSlicesEqualUnordered(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	counts := make(map[string]int, len(a))
	for _, s := range a {
		counts[s]++
	}
	for _, s := range b {
		counts[s]--
	}
	for _, c := range counts {
		if c != 0 {
			return false
		}
	}
	return true
}
