package handler

import (
	"context"

	"mediaimport/model"
)

// ArtistHandler implements TypeHandler for artists: identity by name.
type ArtistHandler struct{ base }

func NewArtistHandler(store Store) *ArtistHandler {
	return &ArtistHandler{base: newBase(model.MediaTypeArtist, store)}
}

func (h *ArtistHandler) Create() TypeHandler {
	return &ArtistHandler{base: newBase(model.MediaTypeArtist, h.store)}
}

func (h *ArtistHandler) GetLocalItems(_ context.Context, imp *model.Import) ([]*model.Item, error) {
	var out []*model.Item
	for _, it := range h.store.Items(model.MediaTypeArtist) {
		if model.PathContains(imp.Path, it.Path) {
			out = append(out, it)
		}
	}
	return out, nil
}

func (h *ArtistHandler) FindMatchingLocalItem(remote *model.Item, local []*model.Item) *model.Item {
	for _, l := range local {
		if l.Title == remote.Title {
			return l
		}
	}
	return nil
}

func (h *ArtistHandler) DetermineChangeset(imp *model.Import, remote, local *model.Item) model.ChangesetType {
	if local == nil {
		return model.ChangesetAdded
	}
	if remote.Title == local.Title && remote.Genre != nil && stringSlicesEqualUnordered(remote.Genre, local.Genre) {
		return model.ChangesetNone
	}
	if remote.Title == local.Title && local.Genre == nil && remote.Genre == nil {
		return model.ChangesetNone
	}
	return model.ChangesetChanged
}

func (h *ArtistHandler) PrepareImportedItem(imp *model.Import, remote, local *model.Item) {
	if local != nil {
		remote.LocalID = local.LocalID
	}
}

// CleanupImportedItems removes artists left with no albums from this
// import's source.
func (h *ArtistHandler) CleanupImportedItems(ctx context.Context, imp *model.Import) error {
	albums := h.store.Items(model.MediaTypeAlbum)
	hasAlbums := make(map[int64]bool)
	for _, a := range albums {
		hasAlbums[a.ArtistID] = true
	}
	for _, artist := range h.store.Items(model.MediaTypeArtist) {
		if artist.Path != "" && model.PathContains(imp.Path, artist.Path) && !hasAlbums[artist.LocalID] {
			h.store.Delete(artist.LocalID)
		}
	}
	return nil
}
