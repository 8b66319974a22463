package handler

import (
	"context"

	"mediaimport/model"
)

// SongHandler implements TypeHandler for songs: identity by
// musicInfo.url (Item.Path). When no matching album exists, a stub
// album is created carrying the song's album/artist/genre/year/rating
// and MusicBrainz id (§4.D).
type SongHandler struct{ base }

func NewSongHandler(store Store) *SongHandler {
	return &SongHandler{base: newBase(model.MediaTypeSong, store)}
}

func (h *SongHandler) Create() TypeHandler {
	return &SongHandler{base: newBase(model.MediaTypeSong, h.store)}
}

func (h *SongHandler) GetLocalItems(_ context.Context, imp *model.Import) ([]*model.Item, error) {
	var out []*model.Item
	for _, it := range h.store.Items(model.MediaTypeSong) {
		if model.PathContains(imp.Path, it.Path) {
			out = append(out, it)
		}
	}
	return out, nil
}

func (h *SongHandler) FindMatchingLocalItem(remote *model.Item, local []*model.Item) *model.Item {
	for _, l := range local {
		if l.Path == remote.Path {
			return l
		}
	}
	return nil
}

func (h *SongHandler) DetermineChangeset(imp *model.Import, remote, local *model.Item) model.ChangesetType {
	if local == nil {
		return model.ChangesetAdded
	}
	if remote.Title == local.Title && remote.AlbumID == local.AlbumID && remote.Rating == local.Rating {
		return model.ChangesetNone
	}
	return model.ChangesetChanged
}

// PrepareImportedItem resolves or synthesises the song's parent album
// and sets remote.AlbumID before the item is written.
func (h *SongHandler) PrepareImportedItem(imp *model.Import, remote, local *model.Item) {
	if local != nil {
		remote.LocalID = local.LocalID
	}

	var album *model.Item
	for _, a := range h.store.Items(model.MediaTypeAlbum) {
		if a.Title == remote.AlbumTitle && a.ArtistName == remote.ArtistName {
			album = a
			break
		}
	}
	if album == nil {
		album = &model.Item{
			MediaType:  model.MediaTypeAlbum,
			Title:      remote.AlbumTitle,
			ArtistName: remote.ArtistName,
			Genre:      append([]string(nil), remote.Genre...),
			Year:       remote.Year,
			Rating:     remote.Rating,
			MBID:       remote.MBID,
			Enabled:    true,
		}
		album = h.store.Put(album)
	}
	remote.AlbumID = album.LocalID
}
