package automationref

import (
	"context"

	radarr "github.com/devopsarr/radarr-go/radarr"

	"mediaimport/importer"
	"mediaimport/model"
)

// RadarrFactory produces the Radarr write-back Importer.
type RadarrFactory struct{}

func NewRadarrFactory() RadarrFactory { return RadarrFactory{} }

func (RadarrFactory) ID() string                        { return "radarr" }
func (RadarrFactory) NewDiscoverer() importer.Discoverer { return noopDiscoverer{} }
func (RadarrFactory) NewImporter() importer.Importer     { return &RadarrImporter{} }
func (RadarrFactory) NewObserver() importer.Observer     { return noopObserver{} }

// RadarrImporter gates movie write-back: it pushes the movie title
// only, flagged through CanUpdateMetadataOnSource.
type RadarrImporter struct {
	base
	client *radarr.APIClient
}

func (i *RadarrImporter) CanUpdateMetadataOnSource(string) bool { return true }

func (i *RadarrImporter) clientFor(source *model.Source) *radarr.APIClient {
	if i.client != nil {
		return i.client
	}
	cfg := radarr.NewConfiguration()
	cfg.AddDefaultHeader("X-Api-Key", source.Settings.GetString(settingAPIKey, ""))
	cfg.Servers = radarr.ServerConfigurations{{URL: source.BasePath}}
	return radarr.NewAPIClient(cfg)
}

func (i *RadarrImporter) IsSourceReady(ctx context.Context, source *model.Source) bool {
	_, resp, err := i.clientFor(source).SystemAPI.GetSystemStatus(ctx).Execute()
	return err == nil && resp != nil && resp.StatusCode == 200
}

func (i *RadarrImporter) LoadSourceSettings(ctx context.Context, source *model.Source) error {
	i.client = i.clientFor(source)
	return nil
}

func (i *RadarrImporter) UnloadSourceSettings(ctx context.Context, source *model.Source) { i.client = nil }

// UpdateOnSource re-PUTs the movie resource so a locally reconciled
// title is reflected back to Radarr.
func (i *RadarrImporter) UpdateOnSource(ctx context.Context, t importer.Task) bool {
	item := t.Item()
	if item == nil {
		return false
	}
	client := i.clientFor(&t.Import().Source)
	movies, _, err := client.MovieAPI.ListMovie(ctx).TmdbId(int32(0)).Execute()
	if err != nil || len(movies) == 0 {
		return false
	}
	movie := movies[0]
	movie.SetTitle(item.Title)
	_, _, err = client.MovieAPI.UpdateMovie(ctx, item.Path).MovieResource(movie).Execute()
	return err == nil
}
