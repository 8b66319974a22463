// Package automationref is a reference write-back Importer for the
// *arr automation family (Radarr/Sonarr/Lidarr): it never retrieves
// library items (CanImport is false throughout) and exists only to
// show how the canUpdate*OnSource capability flags gate an
// UpdateOnSource PUT against a real generated client (§6.1).
package automationref

import (
	"context"

	"mediaimport/importer"
	"mediaimport/model"
)

const settingAPIKey = "api_key"

type noopDiscoverer struct{}

func (noopDiscoverer) Start(ctx context.Context, found func(*model.Source)) error { return nil }
func (noopDiscoverer) Stop()                                                     {}

type noopObserver struct{}

func (noopObserver) OnSourceAdded(s *model.Source)       {}
func (noopObserver) OnSourceUpdated(s *model.Source)     {}
func (noopObserver) OnSourceRemoved(s *model.Source)     {}
func (noopObserver) OnSourceActivated(s *model.Source)   {}
func (noopObserver) OnSourceDeactivated(s *model.Source) {}
func (noopObserver) OnImportAdded(i *model.Import)       {}
func (noopObserver) OnImportUpdated(i *model.Import)     {}
func (noopObserver) OnImportRemoved(i *model.Import)     {}

// base implements the write-only common ground shared by the three
// concrete Importers below: no retrieval, no lookup, metadata and
// playback push disabled (the *arr family tracks monitored/quality, not
// playback). Each concrete Importer overrides CanUpdateMetadataOnSource
// to true and supplies a source-specific UpdateOnSource.
type base struct{}

func (base) CanLookupSource() bool                    { return false }
func (base) GetSourceLookupProtocol() string           { return "" }
func (base) CanImport(path string) bool                { return false }
func (base) IsImportReady(ctx context.Context, imp *model.Import) bool { return false }
func (base) LoadImportSettings(ctx context.Context, imp *model.Import) error { return nil }
func (base) UnloadImportSettings(ctx context.Context, imp *model.Import)     {}
func (base) CanUpdateMetadataOnSource(string) bool         { return false }
func (base) CanUpdatePlaycountOnSource(string) bool        { return false }
func (base) CanUpdateLastPlayedOnSource(string) bool       { return false }
func (base) CanUpdateResumePositionOnSource(string) bool   { return false }
func (base) Import(ctx context.Context, t importer.Task) bool { return false }
func (base) DiscoverSource(ctx context.Context, source *model.Source) bool { return false }
func (base) LookupSource(ctx context.Context, source *model.Source) bool   { return false }
