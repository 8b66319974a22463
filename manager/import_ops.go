package manager

import (
	"context"
	"fmt"

	"mediaimport/importerrors"
	"mediaimport/model"
	"mediaimport/processor"
	"mediaimport/task"
)

// handlersExistFor reports whether every media type in types has a
// registered TypeHandler, as §4.G requires before accepting an import.
func (m *Manager) handlersExistFor(types model.GroupedMediaTypes) bool {
	registry := m.handlerRegistry()
	for _, mt := range types {
		if _, ok := registry[mt]; !ok {
			return false
		}
	}
	return true
}

func (m *Manager) sourceActive(identifier string) (active, ready, removing bool, ok bool) {
	m.sourcesMu.RLock()
	defer m.sourcesMu.RUnlock()
	st, found := m.sources[identifier]
	if !found {
		return false, false, false, false
	}
	return st.active, st.ready, st.removing, true
}

func (m *Manager) addImport(ctx context.Context, imp *model.Import) error {
	if err := imp.Validate(); err != nil {
		return err
	}
	if !m.handlersExistFor(imp.MediaTypes) {
		return fmt.Errorf("%w: no handler for one of %v", importerrors.ErrInvalidInput, imp.MediaTypes)
	}
	if _, _, _, ok := m.sourceActive(imp.Source.Identifier); !ok {
		return fmt.Errorf("%w: source %q", importerrors.ErrNotFound, imp.Source.Identifier)
	}

	for _, r := range m.reposSnapshot() {
		if _, _, err := r.AddImport(ctx, imp); err != nil {
			return fmt.Errorf("add import: %w", err)
		}
	}
	m.Events.ImportAdded(imp)
	return nil
}

func (m *Manager) sourceByID(ctx context.Context, sourceID string) (model.Source, error) {
	s, ok, err := m.getSourceMerged(ctx, sourceID)
	if err != nil {
		return model.Source{}, err
	}
	if !ok {
		return model.Source{}, fmt.Errorf("%w: source %q", importerrors.ErrNotFound, sourceID)
	}
	return *s, nil
}

// AddSelectiveImport adds a single, non-recursive import (§4.G).
func (m *Manager) AddSelectiveImport(ctx context.Context, sourceID, path string, mediaTypes model.GroupedMediaTypes) error {
	source, err := m.sourceByID(ctx, sourceID)
	if err != nil {
		return err
	}
	return m.addImport(ctx, model.NewImport(path, source, mediaTypes, false))
}

// AddRecursiveImport adds a single recursive import (§4.G).
func (m *Manager) AddRecursiveImport(ctx context.Context, sourceID, path string, mediaTypes model.GroupedMediaTypes) error {
	source, err := m.sourceByID(ctx, sourceID)
	if err != nil {
		return err
	}
	return m.addImport(ctx, model.NewImport(path, source, mediaTypes, true))
}

// AddRecursiveImports adds several recursive imports in one call,
// continuing past per-import failures and returning the first error
// encountered (§4.G).
func (m *Manager) AddRecursiveImports(ctx context.Context, sourceID string, paths []string, mediaTypes model.GroupedMediaTypes) error {
	var firstErr error
	for _, p := range paths {
		if err := m.AddRecursiveImport(ctx, sourceID, p, mediaTypes); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// UpdateImport persists field changes to imp, emitting OnImportUpdated
// only if a repository reports an actual change (§4.G).
func (m *Manager) UpdateImport(ctx context.Context, imp *model.Import) error {
	if err := imp.Validate(); err != nil {
		return err
	}
	changed := false
	for _, r := range m.reposSnapshot() {
		_, updated, err := r.UpdateImport(ctx, imp)
		if err != nil {
			return fmt.Errorf("update import: %w", err)
		}
		changed = changed || updated
	}
	if changed {
		m.Events.ImportUpdated(imp)
	}
	return nil
}

// RemoveImport runs a task-processor Remove job in its own background
// goroutine, not through the library queue, then deletes the import
// row and emits OnImportRemoved once the job completes (§4.G).
func (m *Manager) RemoveImport(ctx context.Context, imp *model.Import) error {
	registry := m.handlerRegistry()
	j := processor.NewRemoveJob(imp, registry)
	if j == nil {
		return fmt.Errorf("%w: no handler for one of %v", importerrors.ErrInvalidInput, imp.MediaTypes)
	}

	go func() {
		bg := context.Background()
		j.Run(bg)
		for _, r := range m.reposSnapshot() {
			_, _ = r.RemoveImport(bg, imp)
		}
		m.Events.ImportRemoved(imp)
	}()
	return nil
}

// ImportSource enqueues task-processor Import jobs for every import of
// identifier, requiring active && ready && !removing (§4.G).
func (m *Manager) ImportSource(ctx context.Context, identifier string) error {
	active, ready, removing, ok := m.sourceActive(identifier)
	if !ok || removing || !active || !ready {
		return fmt.Errorf("%w: source %q not importable", importerrors.ErrAdapterTransient, identifier)
	}

	src, _, err := m.getSourceMerged(ctx, identifier)
	if err != nil {
		return err
	}
	imp, _, hasImporter := m.importerFor(src.ImporterID)
	if !hasImporter {
		return fmt.Errorf("%w: importer %q not registered", importerrors.ErrNotFound, src.ImporterID)
	}

	imports, err := m.importsForSource(ctx, identifier)
	if err != nil {
		return err
	}
	registry := m.handlerRegistry()
	for _, one := range imports {
		j := processor.NewImportJob(one, registry, imp)
		if j == nil {
			continue
		}
		m.libraryQueue.Submit(wrapJob(identifier, "import:"+one.Path, j))
	}
	return nil
}

// Import enqueues task-processor Import jobs across every active,
// ready source (§4.G bulk form).
func (m *Manager) Import(ctx context.Context) error {
	sources, err := m.GetSources(ctx)
	if err != nil {
		return err
	}
	var firstErr error
	for _, s := range sources {
		if !s.Active {
			continue
		}
		if err := m.ImportSource(ctx, s.Identifier); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// ImportPath enqueues a task-processor Import job scoped to a single
// (path, mediaTypes) import (§4.G).
func (m *Manager) ImportPath(ctx context.Context, path string, mediaTypes model.GroupedMediaTypes) error {
	var found *model.Import
	for _, r := range m.reposSnapshot() {
		imp, ok, err := r.GetImport(ctx, path, mediaTypes)
		if err != nil {
			return err
		}
		if ok {
			found = imp
			break
		}
	}
	if found == nil {
		return fmt.Errorf("%w: import %s", importerrors.ErrNotFound, path)
	}

	active, ready, removing, ok := m.sourceActive(found.Source.Identifier)
	if !ok || removing || !active || !ready {
		return fmt.Errorf("%w: source %q not importable", importerrors.ErrAdapterTransient, found.Source.Identifier)
	}
	src, _, err := m.getSourceMerged(ctx, found.Source.Identifier)
	if err != nil {
		return err
	}
	imp, _, hasImporter := m.importerFor(src.ImporterID)
	if !hasImporter {
		return fmt.Errorf("%w: importer %q not registered", importerrors.ErrNotFound, src.ImporterID)
	}

	registry := m.handlerRegistry()
	j := processor.NewImportJob(found, registry, imp)
	if j == nil {
		return fmt.Errorf("%w: no handler for one of %v", importerrors.ErrInvalidInput, found.MediaTypes)
	}
	m.libraryQueue.Submit(wrapJob(found.Source.Identifier, "import:"+found.Path, j))
	return nil
}

// filterByImport keeps only the items whose media type is supported by
// imp and whose path lies under imp's path (§4.G).
func filterByImport(imp *model.Import, items []*model.Item) []*model.Item {
	out := make([]*model.Item, 0, len(items))
	for _, it := range items {
		if imp.MediaTypes.Contains(it.MediaType) && model.PathContains(imp.Path, it.Path) {
			out = append(out, it)
		}
	}
	return out
}

// changeImportedItems is the shared implementation behind
// AddImportedItems/UpdateImportedItems/RemoveImportedItems/
// ChangeImportedItems: all four enqueue a partial-changeset
// task-processor job scoped to imp, seeding its task.Task with the
// caller-supplied items tagged with changesetType (nil lets the
// Changeset stage classify each item itself) in place of the normal
// ImportItemsRetrieval callback (§4.G, §4.E).
func (m *Manager) changeImportedItems(ctx context.Context, imp *model.Import, items []*model.Item, changesetType *model.ChangesetType) error {
	filtered := filterByImport(imp, items)
	if len(filtered) == 0 {
		return nil
	}

	registry := m.handlerRegistry()
	j := processor.NewChangeImportedItemsJob(imp, registry)
	if j == nil {
		return fmt.Errorf("%w: no handler for one of %v", importerrors.ErrInvalidInput, imp.MediaTypes)
	}
	j.SeedImport(imp.Key(), func(t *task.Task) {
		t.SetChangeset(true)
		for _, mt := range imp.MediaTypes {
			byType := make([]*model.Item, 0, len(filtered))
			for _, it := range filtered {
				if it.MediaType == mt {
					byType = append(byType, it)
				}
			}
			if len(byType) > 0 {
				t.AddItems(mt, byType, changesetType)
			}
		}
	})
	m.libraryQueue.Submit(wrapJob(imp.Source.Identifier, "change-imported-items:"+imp.Path, j))
	return nil
}

// AddImportedItems injects newly discovered items into imp's next
// partial changeset pass (§4.G).
func (m *Manager) AddImportedItems(ctx context.Context, imp *model.Import, items []*model.Item) error {
	added := model.ChangesetAdded
	return m.changeImportedItems(ctx, imp, items, &added)
}

// UpdateImportedItems injects changed items into imp's next partial
// changeset pass (§4.G).
func (m *Manager) UpdateImportedItems(ctx context.Context, imp *model.Import, items []*model.Item) error {
	changed := model.ChangesetChanged
	return m.changeImportedItems(ctx, imp, items, &changed)
}

// RemoveImportedItems injects removed items into imp's next partial
// changeset pass (§4.G).
func (m *Manager) RemoveImportedItems(ctx context.Context, imp *model.Import, items []*model.Item) error {
	removed := model.ChangesetRemoved
	return m.changeImportedItems(ctx, imp, items, &removed)
}

// ChangeImportedItems injects items whose changeset classification the
// caller does not know in advance, letting the changeset task
// determine it per item (§4.G).
func (m *Manager) ChangeImportedItems(ctx context.Context, imp *model.Import, items []*model.Item) error {
	return m.changeImportedItems(ctx, imp, items, nil)
}

// UpdateImportedItemOnSource pushes item's playback metadata to the
// source, gated by the import's updateplaybackmetadataonsource
// setting and source activity (§4.G).
func (m *Manager) UpdateImportedItemOnSource(ctx context.Context, imp *model.Import, item *model.Item) error {
	if !imp.Settings.GetBool("updateplaybackmetadataonsource", true) {
		return nil
	}
	active, _, removing, ok := m.sourceActive(imp.Source.Identifier)
	if !ok || removing || !active {
		return fmt.Errorf("%w: source %q not active", importerrors.ErrAdapterTransient, imp.Source.Identifier)
	}
	src, _, err := m.getSourceMerged(ctx, imp.Source.Identifier)
	if err != nil {
		return err
	}
	impl, _, hasImporter := m.importerFor(src.ImporterID)
	if !hasImporter {
		return fmt.Errorf("%w: importer %q not registered", importerrors.ErrNotFound, src.ImporterID)
	}

	j := processor.NewUpdateImportedItemOnSourceJob(imp, item, impl)
	if j == nil {
		return fmt.Errorf("%w: invalid update request", importerrors.ErrInvalidInput)
	}
	m.libraryQueue.Submit(wrapJob(imp.Source.Identifier, "update-on-source:"+imp.Path, j))
	return nil
}
