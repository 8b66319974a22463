package handler

import (
	"context"
	"fmt"

	"mediaimport/handler/enrichment"
	"mediaimport/model"
)

// showEnricher is satisfied by *enrichment.Client; declared locally so
// this package doesn't need the TMDb SDK types beyond the return
// value, and so tests can supply a fake.
type showEnricher interface {
	LookupShow(ctx context.Context, title string) (*enrichment.ShowEnrichment, error)
}

// SeasonHandler implements TypeHandler for seasons: identity by
// (showTitle, year, seasonNumber). When no matching show exists
// locally, a stub show is synthesised from the season's show-level
// fields and inserted before the season (§4.D, §6 supplement).
type SeasonHandler struct {
	base
	enricher showEnricher
}

// NewSeasonHandler constructs a handler backed by store.
func NewSeasonHandler(store Store) *SeasonHandler {
	return &SeasonHandler{base: newBase(model.MediaTypeSeason, store)}
}

// WithEnricher attaches an optional TMDb lookup used when the remote
// season payload left a synthesised stub show's year or plot empty: it
// fills the missing year and plot and sets the poster artwork. Returns
// h for chaining.
func (h *SeasonHandler) WithEnricher(e showEnricher) *SeasonHandler {
	h.enricher = e
	return h
}

func (h *SeasonHandler) Create() TypeHandler {
	return &SeasonHandler{base: newBase(model.MediaTypeSeason, h.store), enricher: h.enricher}
}

func (h *SeasonHandler) GetLocalItems(_ context.Context, imp *model.Import) ([]*model.Item, error) {
	var out []*model.Item
	for _, it := range h.store.Items(model.MediaTypeSeason) {
		if model.PathContains(imp.Path, it.Path) {
			out = append(out, it)
		}
	}
	return out, nil
}

func (h *SeasonHandler) seasonKey(it *model.Item) string {
	return fmt.Sprintf("%s|%d|%d", it.ShowTitle, it.Year, it.SeasonNum)
}

func (h *SeasonHandler) FindMatchingLocalItem(remote *model.Item, local []*model.Item) *model.Item {
	key := h.seasonKey(remote)
	for _, l := range local {
		if h.seasonKey(l) == key {
			return l
		}
	}
	return nil
}

func (h *SeasonHandler) DetermineChangeset(imp *model.Import, remote, local *model.Item) model.ChangesetType {
	if local == nil {
		return model.ChangesetAdded
	}
	if remote.ShowID == local.ShowID && remote.Title == local.Title {
		return model.ChangesetNone
	}
	return model.ChangesetChanged
}

// PrepareImportedItem resolves or synthesises the season's parent show
// and sets remote.ShowID to its local id before the item is written.
func (h *SeasonHandler) PrepareImportedItem(imp *model.Import, remote, local *model.Item) {
	if local != nil {
		remote.LocalID = local.LocalID
	}

	var show *model.Item
	for _, s := range h.store.Items(model.MediaTypeTVShow) {
		if s.Title == remote.ShowTitle {
			show = s
			break
		}
	}
	if show == nil {
		show = &model.Item{
			MediaType: model.MediaTypeTVShow,
			Title:     remote.ShowTitle,
			Year:      remote.Year,
			Studio:    remote.Studio,
			Genre:     append([]string(nil), remote.Genre...),
			Plot:      remote.Plot,
			Enabled:   true,
		}
		if h.enricher != nil && (show.Year == 0 || show.Plot == "") {
			if e, err := h.enricher.LookupShow(context.Background(), show.Title); err == nil && e != nil {
				if show.Year == 0 {
					show.Year = e.Year
				}
				if show.Plot == "" {
					show.Plot = e.Overview
				}
				if show.Artwork == nil {
					show.Artwork = map[string]string{}
				}
				if e.PosterURL != "" {
					show.Artwork["poster"] = e.PosterURL
				}
			}
		}
		show = h.store.Put(show)
	}
	remote.ShowID = show.LocalID
}

// CleanupImportedItems removes a season only if it has no imported
// episodes left; this store's path-containment model approximates the
// original's per-import link table, so a season under the import's
// path is kept while any episode in the store carries its show id and
// season number.
func (h *SeasonHandler) CleanupImportedItems(ctx context.Context, imp *model.Import) error {
	episodes := h.store.Items(model.MediaTypeEpisode)
	hasEpisodes := make(map[string]bool)
	for _, e := range episodes {
		hasEpisodes[fmt.Sprintf("%d|%d", e.ShowID, e.SeasonNum)] = true
	}
	for _, season := range h.store.Items(model.MediaTypeSeason) {
		if season.Path == "" || !model.PathContains(imp.Path, season.Path) {
			continue
		}
		if !hasEpisodes[fmt.Sprintf("%d|%d", season.ShowID, season.SeasonNum)] {
			h.store.Delete(season.LocalID)
		}
	}
	return nil
}
