package automationref

import (
	"context"

	lidarr "github.com/devopsarr/lidarr-go/lidarr"

	"mediaimport/importer"
	"mediaimport/model"
)

// LidarrFactory produces the Lidarr write-back Importer.
type LidarrFactory struct{}

func NewLidarrFactory() LidarrFactory { return LidarrFactory{} }

func (LidarrFactory) ID() string                        { return "lidarr" }
func (LidarrFactory) NewDiscoverer() importer.Discoverer { return noopDiscoverer{} }
func (LidarrFactory) NewImporter() importer.Importer     { return &LidarrImporter{} }
func (LidarrFactory) NewObserver() importer.Observer     { return noopObserver{} }

// LidarrImporter gates artist/album write-back the same way the
// Radarr/Sonarr reference Importers gate their resources.
type LidarrImporter struct {
	base
	client *lidarr.APIClient
}

func (i *LidarrImporter) CanUpdateMetadataOnSource(string) bool { return true }

func (i *LidarrImporter) clientFor(source *model.Source) *lidarr.APIClient {
	if i.client != nil {
		return i.client
	}
	cfg := lidarr.NewConfiguration()
	cfg.AddDefaultHeader("X-Api-Key", source.Settings.GetString(settingAPIKey, ""))
	cfg.Servers = lidarr.ServerConfigurations{{URL: source.BasePath}}
	return lidarr.NewAPIClient(cfg)
}

func (i *LidarrImporter) IsSourceReady(ctx context.Context, source *model.Source) bool {
	_, resp, err := i.clientFor(source).SystemAPI.GetSystemStatus(ctx).Execute()
	return err == nil && resp != nil && resp.StatusCode == 200
}

func (i *LidarrImporter) LoadSourceSettings(ctx context.Context, source *model.Source) error {
	i.client = i.clientFor(source)
	return nil
}

func (i *LidarrImporter) UnloadSourceSettings(ctx context.Context, source *model.Source) { i.client = nil }

// UpdateOnSource re-PUTs the artist resource Lidarr holds for item.
func (i *LidarrImporter) UpdateOnSource(ctx context.Context, t importer.Task) bool {
	item := t.Item()
	if item == nil {
		return false
	}
	client := i.clientFor(&t.Import().Source)
	artists, _, err := client.ArtistAPI.ListArtist(ctx).Execute()
	if err != nil || len(artists) == 0 {
		return false
	}
	a := artists[0]
	a.SetArtistName(item.ArtistName)
	_, _, err = client.ArtistAPI.UpdateArtist(ctx, item.Path).ArtistResource(a).Execute()
	return err == nil
}
