package automationref

import (
	"context"

	sonarr "github.com/devopsarr/sonarr-go/sonarr"

	"mediaimport/importer"
	"mediaimport/model"
)

// SonarrFactory produces the Sonarr write-back Importer.
type SonarrFactory struct{}

func NewSonarrFactory() SonarrFactory { return SonarrFactory{} }

func (SonarrFactory) ID() string                        { return "sonarr" }
func (SonarrFactory) NewDiscoverer() importer.Discoverer { return noopDiscoverer{} }
func (SonarrFactory) NewImporter() importer.Importer     { return &SonarrImporter{} }
func (SonarrFactory) NewObserver() importer.Observer     { return noopObserver{} }

// SonarrImporter gates series write-back the same way RadarrImporter
// gates movie write-back, grounded on the pack's SeriesAPI client.
type SonarrImporter struct {
	base
	client *sonarr.APIClient
}

func (i *SonarrImporter) CanUpdateMetadataOnSource(string) bool { return true }

func (i *SonarrImporter) clientFor(source *model.Source) *sonarr.APIClient {
	if i.client != nil {
		return i.client
	}
	cfg := sonarr.NewConfiguration()
	cfg.AddDefaultHeader("X-Api-Key", source.Settings.GetString(settingAPIKey, ""))
	cfg.Servers = sonarr.ServerConfigurations{{URL: source.BasePath}}
	return sonarr.NewAPIClient(cfg)
}

func (i *SonarrImporter) IsSourceReady(ctx context.Context, source *model.Source) bool {
	_, resp, err := i.clientFor(source).SystemAPI.GetSystemStatus(ctx).Execute()
	return err == nil && resp != nil && resp.StatusCode == 200
}

func (i *SonarrImporter) LoadSourceSettings(ctx context.Context, source *model.Source) error {
	i.client = i.clientFor(source)
	return nil
}

func (i *SonarrImporter) UnloadSourceSettings(ctx context.Context, source *model.Source) { i.client = nil }

// UpdateOnSource re-PUTs the series resource Sonarr holds for item,
// mirroring a locally reconciled title back to the tracker.
func (i *SonarrImporter) UpdateOnSource(ctx context.Context, t importer.Task) bool {
	item := t.Item()
	if item == nil {
		return false
	}
	client := i.clientFor(&t.Import().Source)
	series, _, err := client.SeriesAPI.ListSeries(ctx).Execute()
	if err != nil || len(series) == 0 {
		return false
	}
	s := series[0]
	s.SetTitle(item.ShowTitle)
	_, _, err = client.SeriesAPI.UpdateSeries(ctx, item.Path).SeriesResource(s).Execute()
	return err == nil
}
