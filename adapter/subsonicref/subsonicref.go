// Package subsonicref is a reference Importer for Subsonic-protocol
// music servers (§3.1's artist/album/song dependency-graph branch),
// built on github.com/delucks/go-subsonic rather than a mock client.
package subsonicref

import (
	"context"
	"net/http"
	"time"

	gosonic "github.com/delucks/go-subsonic"

	"mediaimport/importer"
	"mediaimport/model"
)

const (
	settingUsername = "username"
	settingPassword = "password"
)

// Factory produces the Subsonic Importer/Discoverer/Observer trio.
type Factory struct{}

func NewFactory() Factory { return Factory{} }

func (Factory) ID() string                        { return "subsonic" }
func (Factory) NewDiscoverer() importer.Discoverer { return noopDiscoverer{} }
func (Factory) NewImporter() importer.Importer     { return &Importer{} }
func (Factory) NewObserver() importer.Observer     { return observer{} }

// Importer talks to a single Subsonic-compatible server.
type Importer struct {
	client *gosonic.Client
}

func (i *Importer) CanLookupSource() bool           { return false }
func (i *Importer) GetSourceLookupProtocol() string  { return "" }
func (i *Importer) CanImport(path string) bool       { return true }
func (i *Importer) CanUpdateMetadataOnSource(string) bool       { return false }
func (i *Importer) CanUpdatePlaycountOnSource(string) bool      { return true }
func (i *Importer) CanUpdateLastPlayedOnSource(string) bool     { return true }
func (i *Importer) CanUpdateResumePositionOnSource(string) bool { return false }

func (i *Importer) clientFor(source *model.Source) *gosonic.Client {
	if i.client != nil {
		return i.client
	}
	c := &gosonic.Client{
		Client:       &http.Client{Timeout: 30 * time.Second},
		BaseUrl:      source.BasePath,
		User:         source.Settings.GetString(settingUsername, ""),
		ClientName:   "mediaimport",
		UserAgent:    "mediaimport/1.0",
		PasswordAuth: true,
	}
	_ = c.Authenticate(source.Settings.GetString(settingPassword, ""))
	return c
}

func (i *Importer) DiscoverSource(ctx context.Context, source *model.Source) bool {
	return i.clientFor(source).Ping()
}

func (i *Importer) LookupSource(ctx context.Context, source *model.Source) bool {
	return i.clientFor(source).Ping()
}

func (i *Importer) IsSourceReady(ctx context.Context, source *model.Source) bool {
	return i.clientFor(source).Ping()
}

func (i *Importer) IsImportReady(ctx context.Context, imp *model.Import) bool {
	return i.IsSourceReady(ctx, &imp.Source)
}

func (i *Importer) LoadSourceSettings(ctx context.Context, source *model.Source) error {
	i.client = i.clientFor(source)
	if err := i.client.Authenticate(source.Settings.GetString(settingPassword, "")); err != nil {
		return err
	}
	return nil
}

func (i *Importer) UnloadSourceSettings(ctx context.Context, source *model.Source) { i.client = nil }

func (i *Importer) LoadImportSettings(ctx context.Context, imp *model.Import) error { return nil }
func (i *Importer) UnloadImportSettings(ctx context.Context, imp *model.Import)     {}

// Import walks artists -> albums -> songs, depositing one model.Item
// per leaf song and synthesising artist/album parent items so the
// music handler chain (artist -> album -> song, §3.1) has something
// to attach ArtistID/AlbumID to.
func (i *Importer) Import(ctx context.Context, t importer.Task) bool {
	client := i.clientFor(&t.Import().Source)

	index, err := client.GetArtists()
	if err != nil {
		return false
	}

	var artists []*model.Item
	var albums []*model.Item
	var songs []*model.Item

	for _, idx := range index.Index {
		for _, a := range idx.Artists {
			artists = append(artists, &model.Item{
				MediaType: model.MediaTypeArtist,
				Path:      a.ID,
				Title:     a.Name,
				ArtistID:  0,
			})

			detail, err := client.GetArtist(a.ID)
			if err != nil {
				continue
			}
			for _, al := range detail.Album {
				albums = append(albums, &model.Item{
					MediaType:  model.MediaTypeAlbum,
					Path:       al.ID,
					Title:      al.Name,
					ArtistName: a.Name,
				})

				albumDetail, err := client.GetAlbum(al.ID)
				if err != nil {
					continue
				}
				for _, song := range albumDetail.Song {
					songs = append(songs, &model.Item{
						MediaType:  model.MediaTypeSong,
						Path:       song.ID,
						Title:      song.Title,
						AlbumTitle: al.Name,
						ArtistName: a.Name,
					})
				}
			}
		}
	}

	if t.ShouldCancel(len(songs), len(songs)) {
		return false
	}
	t.SetItems(model.MediaTypeArtist, artists)
	t.SetItems(model.MediaTypeAlbum, albums)
	t.SetItems(model.MediaTypeSong, songs)
	return true
}

// UpdateOnSource scrobbles the song back to the server; it does not
// consult CanUpdatePlaycountOnSource/CanUpdateLastPlayedOnSource.
func (i *Importer) UpdateOnSource(ctx context.Context, t importer.Task) bool {
	item := t.Item()
	if item == nil {
		return false
	}
	client := i.clientFor(&t.Import().Source)
	return client.Scrobble(item.Path, true) == nil
}

type noopDiscoverer struct{}

func (noopDiscoverer) Start(ctx context.Context, found func(*model.Source)) error { return nil }
func (noopDiscoverer) Stop()                                                     {}

type observer struct{}

func (observer) OnSourceAdded(s *model.Source)       {}
func (observer) OnSourceUpdated(s *model.Source)     {}
func (observer) OnSourceRemoved(s *model.Source)     {}
func (observer) OnSourceActivated(s *model.Source)   {}
func (observer) OnSourceDeactivated(s *model.Source) {}
func (observer) OnImportAdded(i *model.Import)       {}
func (observer) OnImportUpdated(i *model.Import)     {}
func (observer) OnImportRemoved(i *model.Import)     {}
