package handler

import (
	"context"

	"mediaimport/model"
)

// AlbumHandler implements TypeHandler for albums: identity by
// (artistName, title, year). When no matching artist exists locally,
// a stub artist is synthesised from the album's artist-level fields.
type AlbumHandler struct{ base }

func NewAlbumHandler(store Store) *AlbumHandler {
	return &AlbumHandler{base: newBase(model.MediaTypeAlbum, store)}
}

func (h *AlbumHandler) Create() TypeHandler {
	return &AlbumHandler{base: newBase(model.MediaTypeAlbum, h.store)}
}

func (h *AlbumHandler) GetLocalItems(_ context.Context, imp *model.Import) ([]*model.Item, error) {
	var out []*model.Item
	for _, it := range h.store.Items(model.MediaTypeAlbum) {
		if model.PathContains(imp.Path, it.Path) {
			out = append(out, it)
		}
	}
	return out, nil
}

func (h *AlbumHandler) albumKey(it *model.Item) (string, string, int) {
	return it.ArtistName, it.Title, it.Year
}

func (h *AlbumHandler) FindMatchingLocalItem(remote *model.Item, local []*model.Item) *model.Item {
	ra, rt, ry := h.albumKey(remote)
	for _, l := range local {
		la, lt, ly := h.albumKey(l)
		if ra == la && rt == lt && ry == ly {
			return l
		}
	}
	return nil
}

func (h *AlbumHandler) DetermineChangeset(imp *model.Import, remote, local *model.Item) model.ChangesetType {
	if local == nil {
		return model.ChangesetAdded
	}
	if remote.ArtistID == local.ArtistID && remote.Title == local.Title && remote.Rating == local.Rating {
		return model.ChangesetNone
	}
	return model.ChangesetChanged
}

// PrepareImportedItem resolves or synthesises the album's parent
// artist and sets remote.ArtistID before the item is written.
func (h *AlbumHandler) PrepareImportedItem(imp *model.Import, remote, local *model.Item) {
	if local != nil {
		remote.LocalID = local.LocalID
	}

	var artist *model.Item
	for _, a := range h.store.Items(model.MediaTypeArtist) {
		if a.Title == remote.ArtistName {
			artist = a
			break
		}
	}
	if artist == nil {
		artist = &model.Item{
			MediaType: model.MediaTypeArtist,
			Title:     remote.ArtistName,
			Genre:     append([]string(nil), remote.Genre...),
			Enabled:   true,
		}
		artist = h.store.Put(artist)
	}
	remote.ArtistID = artist.LocalID
}

// CleanupImportedItems removes albums left with no songs from this
// import's source.
func (h *AlbumHandler) CleanupImportedItems(ctx context.Context, imp *model.Import) error {
	songs := h.store.Items(model.MediaTypeSong)
	hasSongs := make(map[int64]bool)
	for _, s := range songs {
		hasSongs[s.AlbumID] = true
	}
	for _, album := range h.store.Items(model.MediaTypeAlbum) {
		if album.Path != "" && model.PathContains(imp.Path, album.Path) && !hasSongs[album.LocalID] {
			h.store.Delete(album.LocalID)
		}
	}
	return nil
}
