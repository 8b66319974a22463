package manager

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mediaimport/handler"
	"mediaimport/importer"
	"mediaimport/model"
	"mediaimport/repository"
)

type fakeImporter struct{ ready bool }

func (f *fakeImporter) CanLookupSource() bool                                      { return false }
func (f *fakeImporter) GetSourceLookupProtocol() string                            { return "" }
func (f *fakeImporter) DiscoverSource(ctx context.Context, s *model.Source) bool    { return true }
func (f *fakeImporter) LookupSource(ctx context.Context, s *model.Source) bool      { return true }
func (f *fakeImporter) CanImport(path string) bool                                 { return true }
func (f *fakeImporter) IsSourceReady(ctx context.Context, s *model.Source) bool     { return f.ready }
func (f *fakeImporter) IsImportReady(ctx context.Context, i *model.Import) bool     { return true }
func (f *fakeImporter) LoadSourceSettings(ctx context.Context, s *model.Source) error { return nil }
func (f *fakeImporter) UnloadSourceSettings(ctx context.Context, s *model.Source)   {}
func (f *fakeImporter) LoadImportSettings(ctx context.Context, i *model.Import) error { return nil }
func (f *fakeImporter) UnloadImportSettings(ctx context.Context, i *model.Import)   {}
func (f *fakeImporter) CanUpdateMetadataOnSource(path string) bool                  { return false }
func (f *fakeImporter) CanUpdatePlaycountOnSource(path string) bool                 { return false }
func (f *fakeImporter) CanUpdateLastPlayedOnSource(path string) bool                { return false }
func (f *fakeImporter) CanUpdateResumePositionOnSource(path string) bool            { return false }
func (f *fakeImporter) Import(ctx context.Context, t importer.Task) bool            { return true }
func (f *fakeImporter) UpdateOnSource(ctx context.Context, t importer.Task) bool     { return true }

type fakeObserver struct{ activated int }

func (o *fakeObserver) OnSourceAdded(s *model.Source)       {}
func (o *fakeObserver) OnSourceUpdated(s *model.Source)     {}
func (o *fakeObserver) OnSourceRemoved(s *model.Source)     {}
func (o *fakeObserver) OnSourceActivated(s *model.Source)   { o.activated++ }
func (o *fakeObserver) OnSourceDeactivated(s *model.Source) {}
func (o *fakeObserver) OnImportAdded(i *model.Import)       {}
func (o *fakeObserver) OnImportUpdated(i *model.Import)     {}
func (o *fakeObserver) OnImportRemoved(i *model.Import)     {}

type fakeDiscoverer struct{}

func (fakeDiscoverer) Start(ctx context.Context, found func(*model.Source)) error { return nil }
func (fakeDiscoverer) Stop()                                                      {}

type fakeFactory struct {
	id       string
	imp      *fakeImporter
	observer *fakeObserver
}

func (f *fakeFactory) ID() string                        { return f.id }
func (f *fakeFactory) NewDiscoverer() importer.Discoverer { return fakeDiscoverer{} }
func (f *fakeFactory) NewImporter() importer.Importer     { return f.imp }
func (f *fakeFactory) NewObserver() importer.Observer     { return f.observer }

func newTestManager(t *testing.T, ready bool) (*Manager, *fakeObserver) {
	t.Helper()
	m := New(repository.NewMemoryRepository())
	m.RegisterTypeHandler(handler.NewMovieHandler(handler.NewMemoryStore()))
	obs := &fakeObserver{}
	m.RegisterImporterFactory(&fakeFactory{id: "fake", imp: &fakeImporter{ready: ready}, observer: obs})
	m.Start(context.Background())
	t.Cleanup(m.Stop)
	return m, obs
}

func TestManager_AddSourceActivateReachesActiveReady(t *testing.T) {
	m, obs := newTestManager(t, true)
	ctx := context.Background()

	src := model.NewSource("uuid-A", "fake")
	require.NoError(t, m.AddSource(ctx, src, true, true))

	require.Eventually(t, func() bool {
		sources, err := m.GetSources(ctx)
		require.NoError(t, err)
		for _, s := range sources {
			if s.Identifier == "uuid-A" {
				return s.Active && s.Ready
			}
		}
		return false
	}, 2*time.Second, 10*time.Millisecond)

	assert.GreaterOrEqual(t, obs.activated, 1)
}

func TestManager_AddSelectiveImportRequiresRegisteredSource(t *testing.T) {
	m, _ := newTestManager(t, true)
	ctx := context.Background()

	err := m.AddSelectiveImport(ctx, "unknown-source", "src://unknown/m1", model.GroupedMediaTypes{model.MediaTypeMovie})
	assert.Error(t, err)
}

func TestManager_AddSelectiveImportSucceedsOnceSourceRegistered(t *testing.T) {
	m, _ := newTestManager(t, true)
	ctx := context.Background()

	src := model.NewSource("uuid-A", "fake")
	require.NoError(t, m.AddSource(ctx, src, false, true))

	require.Eventually(t, func() bool {
		sources, _ := m.GetSources(ctx)
		return len(sources) == 1
	}, time.Second, 5*time.Millisecond)

	err := m.AddSelectiveImport(ctx, "uuid-A", "src://uuid-A/m1", model.GroupedMediaTypes{model.MediaTypeMovie})
	assert.NoError(t, err)

	imports, err := m.importsForSource(ctx, "uuid-A")
	require.NoError(t, err)
	assert.Len(t, imports, 1)
}

func TestManager_DeactivateSourceMarksSourceInactive(t *testing.T) {
	m, _ := newTestManager(t, true)
	ctx := context.Background()

	src := model.NewSource("uuid-A", "fake")
	require.NoError(t, m.AddSource(ctx, src, true, true))
	require.Eventually(t, func() bool {
		sources, _ := m.GetSources(ctx)
		for _, s := range sources {
			if s.Identifier == "uuid-A" {
				return s.Active
			}
		}
		return false
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, m.DeactivateSource(ctx, "uuid-A"))

	sources, err := m.GetSources(ctx)
	require.NoError(t, err)
	require.Len(t, sources, 1)
	assert.False(t, sources[0].Active)
}

func TestManager_RemoveSourceCascadesAndRemovesRow(t *testing.T) {
	m, _ := newTestManager(t, true)
	ctx := context.Background()

	src := model.NewSource("uuid-A", "fake")
	require.NoError(t, m.AddSource(ctx, src, false, true))
	require.Eventually(t, func() bool {
		sources, _ := m.GetSources(ctx)
		return len(sources) == 1
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, m.RemoveSource(ctx, "uuid-A"))

	require.Eventually(t, func() bool {
		sources, err := m.GetSources(ctx)
		require.NoError(t, err)
		return len(sources) == 0
	}, 2*time.Second, 10*time.Millisecond)
}
