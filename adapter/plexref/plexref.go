// Package plexref is a reference Importer built on the real Plex SDK
// (github.com/LukeHagar/plexgo), showing how a source adapter wires a
// GetSourceLookupProtocol/IsSourceReady/Import cycle (§4.C, §6.1)
// against an external client rather than a mock. It is not part of
// the engine core (§1's Non-goals exclude concrete source adapters);
// no package of this module registers it.
package plexref

import (
	"context"
	"strconv"

	"github.com/LukeHagar/plexgo"
	"github.com/LukeHagar/plexgo/models/operations"

	"mediaimport/importer"
	"mediaimport/model"
)

const (
	settingToken   = "token"
	settingLibrary = "library_section"
)

// Factory produces the Plex Importer/Discoverer/Observer trio.
type Factory struct{}

func NewFactory() Factory { return Factory{} }

func (Factory) ID() string                        { return "plex" }
func (Factory) NewDiscoverer() importer.Discoverer { return newDiscoverer() }
func (Factory) NewImporter() importer.Importer     { return &Importer{} }
func (Factory) NewObserver() importer.Observer     { return newObserver() }

// Importer talks to a single Plex Media Server over plexgo.
type Importer struct {
	api *plexgo.PlexAPI
}

func (i *Importer) CanLookupSource() bool             { return true }
func (i *Importer) GetSourceLookupProtocol() string    { return "plex-gdm" }
func (i *Importer) CanImport(path string) bool         { return true }
func (i *Importer) CanUpdateMetadataOnSource(string) bool         { return false }
func (i *Importer) CanUpdatePlaycountOnSource(string) bool        { return true }
func (i *Importer) CanUpdateLastPlayedOnSource(string) bool       { return true }
func (i *Importer) CanUpdateResumePositionOnSource(string) bool   { return true }

func (i *Importer) clientFor(source *model.Source) *plexgo.PlexAPI {
	if i.api != nil {
		return i.api
	}
	return plexgo.New(
		plexgo.WithSecurity(source.Settings.GetString(settingToken, "")),
		plexgo.WithServerURL(source.BasePath),
	)
}

// DiscoverSource probes baseURL/token as a server that exists; the
// package's Discoverer does not listen for announcements, so discovery
// happens only through this on-demand probe.
func (i *Importer) DiscoverSource(ctx context.Context, source *model.Source) bool {
	return i.IsSourceReady(ctx, source)
}

// LookupSource re-probes a manually added source on the heartbeat
// (§4.G); Plex has no cheap ping distinct from capability retrieval.
func (i *Importer) LookupSource(ctx context.Context, source *model.Source) bool {
	return i.IsSourceReady(ctx, source)
}

func (i *Importer) IsSourceReady(ctx context.Context, source *model.Source) bool {
	api := i.clientFor(source)
	res, err := api.Server.GetServerCapabilities(ctx)
	if err != nil || res == nil {
		return false
	}
	return res.StatusCode == 200
}

func (i *Importer) IsImportReady(ctx context.Context, imp *model.Import) bool {
	return i.IsSourceReady(ctx, &imp.Source)
}

func (i *Importer) LoadSourceSettings(ctx context.Context, source *model.Source) error {
	i.api = plexgo.New(
		plexgo.WithSecurity(source.Settings.GetString(settingToken, "")),
		plexgo.WithServerURL(source.BasePath),
	)
	return nil
}

func (i *Importer) UnloadSourceSettings(ctx context.Context, source *model.Source) { i.api = nil }

func (i *Importer) LoadImportSettings(ctx context.Context, imp *model.Import) error { return nil }
func (i *Importer) UnloadImportSettings(ctx context.Context, imp *model.Import)     {}

// Import walks the Plex library section named by the import's
// library_section setting and deposits one model.Item per metadata
// entry, grouped by the import's leading media type (§4.D, §6.1).
func (i *Importer) Import(ctx context.Context, t importer.Task) bool {
	imp := t.Import()
	api := i.clientFor(&imp.Source)
	sectionKey, err := strconv.Atoi(imp.Settings.GetString(settingLibrary, "1"))
	if err != nil {
		return false
	}

	mt := model.MediaTypeMovie
	if len(imp.MediaTypes) > 0 {
		mt = imp.MediaTypes[0]
	}

	offset, limit := 0, 200
	res, err := api.Library.GetLibraryItems(ctx, operations.GetLibraryItemsRequest{
		Tag:                 "all",
		SectionKey:          sectionKey,
		XPlexContainerStart: &offset,
		XPlexContainerSize:  &limit,
	})
	if err != nil || res == nil || res.Object.MediaContainer == nil {
		return false
	}

	items := make([]*model.Item, 0, len(res.Object.MediaContainer.Metadata))
	for _, md := range res.Object.MediaContainer.Metadata {
		item := &model.Item{
			Path:  md.Key,
			Title: md.Title,
		}
		if md.Year != nil {
			item.Year = *md.Year
		}
		items = append(items, item)
		if t.ShouldCancel(len(items), len(res.Object.MediaContainer.Metadata)) {
			return false
		}
	}
	t.SetItems(mt, items)
	return true
}

// UpdateOnSource pushes the item's resume position back to Plex as a
// paused play-progress update (§4.G's updateImportedItemOnSource); it
// does not consult the capability flags above.
func (i *Importer) UpdateOnSource(ctx context.Context, t importer.Task) bool {
	item := t.Item()
	if item == nil {
		return false
	}
	api := i.clientFor(&t.Import().Source)
	ratingKey := item.Path
	_, err := api.Sessions.UpdatePlayProgress(ctx, operations.UpdatePlayProgressRequest{
		Key:      ratingKey,
		Time:     int64(item.ResumeSeconds * 1000),
		State:    operations.PlayProgressStatePaused,
	})
	return err == nil
}
