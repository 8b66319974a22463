package handler

import (
	"context"

	"mediaimport/model"
)

// MusicVideoHandler implements TypeHandler for music videos: identity
// by path, comparison by title/artist/year.
type MusicVideoHandler struct{ base }

func NewMusicVideoHandler(store Store) *MusicVideoHandler {
	return &MusicVideoHandler{base: newBase(model.MediaTypeMusicVideo, store)}
}

func (h *MusicVideoHandler) Create() TypeHandler {
	return &MusicVideoHandler{base: newBase(model.MediaTypeMusicVideo, h.store)}
}

func (h *MusicVideoHandler) GetLocalItems(_ context.Context, imp *model.Import) ([]*model.Item, error) {
	var out []*model.Item
	for _, it := range h.store.Items(model.MediaTypeMusicVideo) {
		if model.PathContains(imp.Path, it.Path) {
			out = append(out, it)
		}
	}
	return out, nil
}

func (h *MusicVideoHandler) FindMatchingLocalItem(remote *model.Item, local []*model.Item) *model.Item {
	for _, l := range local {
		if l.Path == remote.Path {
			return l
		}
	}
	return nil
}

func (h *MusicVideoHandler) DetermineChangeset(imp *model.Import, remote, local *model.Item) model.ChangesetType {
	if local == nil {
		return model.ChangesetAdded
	}
	if remote.Title == local.Title && remote.ArtistName == local.ArtistName && remote.Year == local.Year {
		return model.ChangesetNone
	}
	return model.ChangesetChanged
}

func (h *MusicVideoHandler) PrepareImportedItem(imp *model.Import, remote, local *model.Item) {
	if local != nil {
		remote.LocalID = local.LocalID
	}
}
