// Package manager implements the Import Manager facade (§4.G, §9): the
// engine's single entry point, owning every in-memory structure named
// in §4.G's table, the two job queues (§10), the lifecycle event bus,
// and the 60-second lookupSource heartbeat.
package manager

import (
	"context"
	"fmt"
	"sync"
	"time"

	"mediaimport/events"
	"mediaimport/handler"
	"mediaimport/importer"
	"mediaimport/importerrors"
	"mediaimport/model"
	"mediaimport/processor"
	"mediaimport/queue"
	"mediaimport/repository"
)

// HeartbeatInterval is the periodic lookupSource cadence (§4.G).
const HeartbeatInterval = 60 * time.Second

type sourceState struct {
	importerID string
	active     bool
	ready      bool
	removing   bool
}

type importerEntry struct {
	factory    importer.Factory
	discoverer importer.Discoverer
	observer   importer.Observer
}

// Manager is the Import Manager. All exported methods are safe for
// concurrent use.
type Manager struct {
	repoMu sync.RWMutex
	repos  []repository.Repository

	sourcesMu sync.RWMutex
	sources   map[string]*sourceState

	importersMu sync.RWMutex
	importers   map[string]*importerEntry

	handlersMu   sync.RWMutex
	handlers     map[model.MediaType]handler.TypeHandler
	handlerTypes []model.MediaType

	sourceQueue  *queue.SourceQueue
	libraryQueue *queue.LibraryQueue

	Events *events.Bus

	stopHeartbeat chan struct{}
	heartbeatWG   sync.WaitGroup
}

// New constructs a Manager backed by the given repositories. Per §4.B,
// multiple repositories may each report on a source; reads merge their
// views and writes fan out to all of them.
func New(repos ...repository.Repository) *Manager {
	return &Manager{
		repos:        repos,
		sources:      make(map[string]*sourceState),
		importers:    make(map[string]*importerEntry),
		handlers:     make(map[model.MediaType]handler.TypeHandler),
		sourceQueue:  queue.NewSourceQueue(),
		libraryQueue: queue.NewLibraryQueue(),
		Events:       events.NewBus(),
	}
}

// RegisterImporterFactory makes factory's importer/discoverer/observer
// trio available under factory.ID().
func (m *Manager) RegisterImporterFactory(factory importer.Factory) {
	m.importersMu.Lock()
	defer m.importersMu.Unlock()
	m.importers[factory.ID()] = &importerEntry{
		factory:    factory,
		discoverer: factory.NewDiscoverer(),
		observer:   factory.NewObserver(),
	}
}

// RegisterTypeHandler makes h available for h.MediaType(), recomputing
// the topological handler order used by §4.E's pipeline traversal.
func (m *Manager) RegisterTypeHandler(h handler.TypeHandler) {
	m.handlersMu.Lock()
	defer m.handlersMu.Unlock()
	m.handlers[h.MediaType()] = h
	types := make([]model.MediaType, 0, len(m.handlers))
	for mt := range m.handlers {
		types = append(types, mt)
	}
	m.handlerTypes = model.OrderedSync(types)
}

// Start launches the job queues and the lookupSource heartbeat.
func (m *Manager) Start(ctx context.Context) {
	m.sourceQueue.Start()
	m.libraryQueue.Start()
	m.stopHeartbeat = make(chan struct{})
	m.heartbeatWG.Add(1)
	go m.runHeartbeat(ctx)
}

// Stop cancels in-flight jobs and stops the heartbeat. Blocking; does
// not return until every worker has drained.
func (m *Manager) Stop() {
	if m.stopHeartbeat != nil {
		close(m.stopHeartbeat)
	}
	m.heartbeatWG.Wait()
	m.sourceQueue.Stop()
	m.libraryQueue.Stop()
}

func (m *Manager) handlerRegistry() map[model.MediaType]handler.TypeHandler {
	m.handlersMu.RLock()
	defer m.handlersMu.RUnlock()
	out := make(map[model.MediaType]handler.TypeHandler, len(m.handlers))
	for mt, h := range m.handlers {
		out[mt] = h
	}
	return out
}

func (m *Manager) importerFor(id string) (importer.Importer, importer.Observer, bool) {
	m.importersMu.RLock()
	entry, ok := m.importers[id]
	m.importersMu.RUnlock()
	if !ok {
		return nil, nil, false
	}
	return entry.factory.NewImporter(), entry.observer, true
}

// GetSources returns the merged view across every repository.
func (m *Manager) GetSources(ctx context.Context) ([]*model.Source, error) {
	m.repoMu.RLock()
	repos := append([]repository.Repository(nil), m.repos...)
	m.repoMu.RUnlock()

	sets := make([][]*model.Source, 0, len(repos))
	for _, r := range repos {
		s, err := r.GetSources(ctx)
		if err != nil {
			return nil, fmt.Errorf("get sources: %w", err)
		}
		sets = append(sets, s)
	}
	merged := repository.MergeSources(sets...)
	m.applyLiveState(merged)
	return merged, nil
}

func (m *Manager) applyLiveState(sources []*model.Source) {
	m.sourcesMu.RLock()
	defer m.sourcesMu.RUnlock()
	for _, s := range sources {
		if st, ok := m.sources[s.Identifier]; ok {
			s.Active = st.active
			s.Ready = st.ready
		}
	}
}

// AddSource enqueues a SourceRegistrationJob (§4.G).
func (m *Manager) AddSource(ctx context.Context, source *model.Source, activate, manuallyAdded bool) error {
	if err := source.Validate(); err != nil {
		return err
	}
	source.ManuallyAdded = manuallyAdded

	m.sourcesMu.Lock()
	m.sources[source.Identifier] = &sourceState{importerID: source.ImporterID}
	m.sourcesMu.Unlock()

	m.sourceQueue.Submit(&sourceRegistrationJob{m: m, source: source, activate: activate})
	return nil
}

// ActivateSource enqueues a SourceActivationJob (§4.G).
func (m *Manager) ActivateSource(ctx context.Context, identifier string) error {
	m.sourceQueue.Submit(&sourceActivationJob{m: m, identifier: identifier})
	return nil
}

// DeactivateSource is synchronous (§4.G): cancels in-flight jobs for
// the source, disables every imported item, emits OnSourceDeactivated.
// The persisted source row is left untouched.
func (m *Manager) DeactivateSource(ctx context.Context, identifier string) error {
	m.sourceQueue.Cancel(identifier)
	m.libraryQueue.Cancel(identifier)

	m.sourcesMu.Lock()
	st, ok := m.sources[identifier]
	if ok {
		st.active = false
	}
	m.sourcesMu.Unlock()
	if !ok {
		return fmt.Errorf("%w: source %q", importerrors.ErrNotFound, identifier)
	}

	imports, err := m.importsForSource(ctx, identifier)
	if err != nil {
		return err
	}
	registry := m.handlerRegistry()
	for _, imp := range imports {
		for _, mt := range imp.MediaTypes {
			if h, ok := registry[mt]; ok {
				_ = h.SetImportedItemsEnabled(ctx, imp, false)
			}
		}
	}

	_, observer, _ := m.importerFor(st.importerID)
	source, ok, err := m.getSourceMerged(ctx, identifier)
	if err == nil && ok {
		source.Active = false
		m.Events.SourceDeactivated(source)
		if observer != nil {
			observer.OnSourceDeactivated(source)
		}
	}
	return nil
}

// UpdateSource persists field changes and, if any repository reports a
// real change, enqueues a SourceReadyJob.
func (m *Manager) UpdateSource(ctx context.Context, source *model.Source) error {
	if err := source.Validate(); err != nil {
		return err
	}
	changed, err := m.writeSourceToRepos(ctx, source)
	if err != nil {
		return err
	}
	if changed {
		m.sourceQueue.Submit(&sourceReadyJob{m: m, identifier: source.Identifier})
	}
	return nil
}

// RemoveSource marks the source removing, cancels its in-flight jobs,
// and runs a Remove job over every one of its imports in a background
// goroutine; the persisted row is deleted only once those jobs have
// completed (§4.G, scenario 4).
func (m *Manager) RemoveSource(ctx context.Context, identifier string) error {
	m.sourcesMu.Lock()
	st, ok := m.sources[identifier]
	if ok {
		st.removing = true
	}
	m.sourcesMu.Unlock()
	if !ok {
		return fmt.Errorf("%w: source %q", importerrors.ErrNotFound, identifier)
	}

	m.sourceQueue.Cancel(identifier)
	m.libraryQueue.Cancel(identifier)

	imports, err := m.importsForSource(ctx, identifier)
	if err != nil {
		return err
	}
	registry := m.handlerRegistry()

	go func() {
		bg := context.Background()
		for _, imp := range imports {
			j := processor.NewRemoveJob(imp, registry)
			if j == nil {
				continue
			}
			j.Run(bg)
		}

		m.repoMu.RLock()
		repos := append([]repository.Repository(nil), m.repos...)
		m.repoMu.RUnlock()
		for _, r := range repos {
			_, _ = r.RemoveSource(bg, identifier)
		}

		m.sourcesMu.Lock()
		delete(m.sources, identifier)
		m.sourcesMu.Unlock()

		m.Events.SourceRemoved(&model.Source{Identifier: identifier})
	}()
	return nil
}

func (m *Manager) importsForSource(ctx context.Context, identifier string) ([]*model.Import, error) {
	m.repoMu.RLock()
	repos := append([]repository.Repository(nil), m.repos...)
	m.repoMu.RUnlock()

	seen := make(map[model.Key]*model.Import)
	order := make([]model.Key, 0)
	for _, r := range repos {
		list, err := r.GetImportsBySource(ctx, identifier)
		if err != nil {
			return nil, fmt.Errorf("get imports by source: %w", err)
		}
		for _, imp := range list {
			k := imp.Key()
			if _, ok := seen[k]; !ok {
				order = append(order, k)
			}
			seen[k] = imp
		}
	}
	out := make([]*model.Import, 0, len(order))
	for _, k := range order {
		out = append(out, seen[k])
	}
	return out, nil
}

func (m *Manager) getSourceMerged(ctx context.Context, identifier string) (*model.Source, bool, error) {
	m.repoMu.RLock()
	repos := append([]repository.Repository(nil), m.repos...)
	m.repoMu.RUnlock()

	sets := make([][]*model.Source, 0, len(repos))
	for _, r := range repos {
		s, ok, err := r.GetSource(ctx, identifier)
		if err != nil {
			return nil, false, err
		}
		if ok {
			sets = append(sets, []*model.Source{s})
		}
	}
	src, ok := repository.MergeSource(identifier, sets...)
	return src, ok, nil
}

func (m *Manager) writeSourceToRepos(ctx context.Context, source *model.Source) (bool, error) {
	m.repoMu.RLock()
	repos := append([]repository.Repository(nil), m.repos...)
	m.repoMu.RUnlock()

	changed := false
	for _, r := range repos {
		_, updated, err := r.UpdateSource(ctx, source)
		if err != nil {
			return false, fmt.Errorf("update source: %w", err)
		}
		if updated {
			changed = true
		}
	}
	return changed, nil
}

