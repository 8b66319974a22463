package processor

import (
	"mediaimport/handler"
	"mediaimport/importer"
	"mediaimport/model"
	"mediaimport/task"
)

// handlersFor builds the per-media-type handler set for imp, cloning
// a fresh instance from registry via TypeHandler.Create() so the job
// owns them exclusively (§5, §9). Returns nil if any media type of
// imp lacks a registered handler.
func handlersFor(imp *model.Import, registry map[model.MediaType]handler.TypeHandler) map[model.MediaType]handler.TypeHandler {
	out := make(map[model.MediaType]handler.TypeHandler, len(imp.MediaTypes))
	for _, mt := range imp.MediaTypes {
		h, ok := registry[mt]
		if !ok {
			return nil
		}
		out[mt] = h.Create()
	}
	return out
}

// NewImportJob constructs the fresh-synchronisation pipeline
// (LocalItemsRetrieval -> ImportItemsRetrieval -> Changeset ->
// Synchronisation -> Cleanup) for imp. Returns nil if imp is invalid
// or a required handler is missing.
func NewImportJob(imp *model.Import, registry map[model.MediaType]handler.TypeHandler, src importer.Importer) *Job {
	if err := imp.Validate(); err != nil {
		return nil
	}
	handlers := handlersFor(imp, registry)
	if handlers == nil {
		return nil
	}
	j := newJob(imp.Source.Identifier, src, nil)
	j.AddImport(imp, []task.Type{
		task.TypeLocalItemsRetrieval,
		task.TypeImportItemsRetrieval,
		task.TypeChangeset,
		task.TypeSynchronisation,
		task.TypeCleanup,
	}, handlers)
	return j
}

// NewChangeImportedItemsJob constructs the partial-change-injection
// pipeline: Local retrieval, then Changeset and Synchronisation, with no Cleanup (§4.E). Callers must mark the items
// they add to the job's task via Task.SetChangeset(true) themselves;
// this factory only assembles the task list.
func NewChangeImportedItemsJob(imp *model.Import, registry map[model.MediaType]handler.TypeHandler) *Job {
	if err := imp.Validate(); err != nil {
		return nil
	}
	handlers := handlersFor(imp, registry)
	if handlers == nil {
		return nil
	}
	j := newJob(imp.Source.Identifier, nil, nil)
	j.AddImport(imp, []task.Type{
		task.TypeLocalItemsRetrieval,
		task.TypeChangeset,
		task.TypeSynchronisation,
	}, handlers)
	return j
}

// NewUpdateImportedItemOnSourceJob constructs a single-task Update
// flow pushing item's playback metadata to the source, gated by the
// import's updateplaybackmetadataonsource setting (§4.E, §4.G).
func NewUpdateImportedItemOnSourceJob(imp *model.Import, item *model.Item, src importer.Importer) *Job {
	if imp == nil || item == nil || src == nil {
		return nil
	}
	j := newJob(imp.Source.Identifier, src, nil)
	data := &ImportTaskData{
		Import:   imp,
		TaskKey:  imp.Key(),
		TaskList: []task.Type{task.TypeUpdate},
		Handlers: map[model.MediaType]handler.TypeHandler{},
	}
	j.mu.Lock()
	j.imports[imp.Key()] = data
	j.mu.Unlock()
	j.targetItem = item
	return j
}

// NewCleanupJob constructs a Cleanup-only flow for imp.
func NewCleanupJob(imp *model.Import, registry map[model.MediaType]handler.TypeHandler) *Job {
	handlers := handlersFor(imp, registry)
	if handlers == nil {
		return nil
	}
	j := newJob(imp.Source.Identifier, nil, nil)
	j.AddImport(imp, []task.Type{task.TypeCleanup}, handlers)
	return j
}

// NewRemoveJob constructs a Removal-only flow for imp, used by
// removeImport and the source-removal cascade (§4.G, scenario 4).
func NewRemoveJob(imp *model.Import, registry map[model.MediaType]handler.TypeHandler) *Job {
	handlers := handlersFor(imp, registry)
	if handlers == nil {
		return nil
	}
	j := newJob(imp.Source.Identifier, nil, nil)
	j.AddImport(imp, []task.Type{task.TypeRemoval}, handlers)
	return j
}
