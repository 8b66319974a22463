// Package task implements the seven-stage pipeline unit of work
// described in §4.E: LocalItemsRetrieval, ImportItemsRetrieval,
// Changeset, Synchronisation, Cleanup, Removal and Update. A Task
// knows its Import and per-media-type data buckets; it reports
// progress and polls cancellation through the processor passed into
// Do, rather than holding a back-pointer to it (SPEC_FULL §14 design
// decision, replacing the original's raw non-owning pointer + resetTask
// pattern with parameter passing).
package task

import (
	"context"
	"fmt"
	"time"

	"mediaimport/handler"
	"mediaimport/importer"
	"mediaimport/importlog"
	"mediaimport/model"
)

// Type enumerates the seven task kinds, mapped 1:1 to the original's
// task files (SPEC_FULL §7 supplement) — no eighth kind exists.
type Type int

const (
	TypeLocalItemsRetrieval Type = iota
	TypeImportItemsRetrieval
	TypeChangeset
	TypeSynchronisation
	TypeCleanup
	TypeRemoval
	TypeUpdate
)

func (t Type) String() string {
	switch t {
	case TypeLocalItemsRetrieval:
		return "LocalItemsRetrieval"
	case TypeImportItemsRetrieval:
		return "ImportItemsRetrieval"
	case TypeChangeset:
		return "Changeset"
	case TypeSynchronisation:
		return "Synchronisation"
	case TypeCleanup:
		return "Cleanup"
	case TypeRemoval:
		return "Removal"
	case TypeUpdate:
		return "Update"
	default:
		return "Unknown"
	}
}

// Processor is the subset of the task-processor job a Task needs
// while it runs: cancellation polling. Passed as a parameter to Do so
// Task never stores a pointer back to its owning job.
type Processor interface {
	ShouldCancel(progress, total int) bool
}

// Task is one pipeline stage operating over one Import.
type Task struct {
	Kind   Type
	Imp    *model.Import
	Source importer.Importer // nil for Removal/Cleanup, which never touch the adapter

	// Handlers holds one exclusively-owned TypeHandler instance per
	// media type of Imp, constructed via TypeHandler.Create() (§5, §9).
	Handlers map[model.MediaType]handler.TypeHandler

	local      map[model.MediaType][]*model.Item
	remote     map[model.MediaType][]*model.Item
	remoteType map[model.MediaType][]*model.ChangesetType // parallel to remote, when partial
	changesets map[model.MediaType]model.Changeset
	partial    bool

	progressText string
	targetItem   *model.Item // set for Update tasks

	Duration time.Duration

	shouldCancelFn func(progress, total int) bool
}

// New constructs a Task for kind over imp, with the given per-media-
// type handler instances.
func New(kind Type, imp *model.Import, handlers map[model.MediaType]handler.TypeHandler, src importer.Importer) *Task {
	return &Task{
		Kind:       kind,
		Imp:        imp,
		Handlers:   handlers,
		Source:     src,
		local:      make(map[model.MediaType][]*model.Item),
		remote:     make(map[model.MediaType][]*model.Item),
		remoteType: make(map[model.MediaType][]*model.ChangesetType),
		changesets: make(map[model.MediaType]model.Changeset),
	}
}

// SetLocal seeds the local-items bucket directly, bypassing
// LocalItemsRetrieval; only the tests call it.
func (t *Task) SetLocal(mt model.MediaType, items []*model.Item) {
	t.local[mt] = items
}

// SetTargetItem assigns the item an Update task pushes to the source.
func (t *Task) SetTargetItem(item *model.Item) { t.targetItem = item }

// Retask switches an already-constructed Task to run as a different
// pipeline stage, preserving the local/remote/changeset buckets
// accumulated so far. The Task Processor job (§4.F) uses this to run
// one Task instance through its whole per-import stage list instead of
// starting each stage from scratch, so Changeset sees the items
// LocalItemsRetrieval and ImportItemsRetrieval deposited.
func (t *Task) Retask(kind Type, src importer.Importer) {
	t.Kind = kind
	if src != nil {
		t.Source = src
	}
}

// Changesets returns the computed per-media-type changesets, valid
// after a Changeset task has run.
func (t *Task) Changesets() map[model.MediaType]model.Changeset { return t.changesets }

// --- importer.Task implementation -----------------------------------

func (t *Task) AddItem(mt model.MediaType, item *model.Item) {
	t.remote[mt] = append(t.remote[mt], item)
	t.remoteType[mt] = append(t.remoteType[mt], nil)
}

func (t *Task) AddItems(mt model.MediaType, items []*model.Item, changesetType *model.ChangesetType) {
	for _, it := range items {
		t.remote[mt] = append(t.remote[mt], it)
		t.remoteType[mt] = append(t.remoteType[mt], changesetType)
	}
}

func (t *Task) SetItems(mt model.MediaType, items []*model.Item) {
	t.remote[mt] = items
	t.remoteType[mt] = make([]*model.ChangesetType, len(items))
}

func (t *Task) GetLocalItems(mt model.MediaType) []*model.Item { return t.local[mt] }

func (t *Task) SetChangeset(partial bool) { t.partial = partial }

func (t *Task) ShouldCancel(progress, total int) bool {
	if t.shouldCancelFn == nil {
		return false
	}
	return t.shouldCancelFn(progress, total)
}

func (t *Task) SetProgressText(text string) { t.progressText = text }

func (t *Task) Import() *model.Import { return t.Imp }

func (t *Task) Item() *model.Item { return t.targetItem }

// --- execution --------------------------------------------------------

// Do runs this task's stage, timing it for diagnostics (§4.E). proc
// supplies cancellation polling for the duration of the call only.
func (t *Task) Do(ctx context.Context, proc Processor) error {
	t.shouldCancelFn = proc.ShouldCancel
	defer func() { t.shouldCancelFn = nil }()

	start := time.Now()
	defer func() { t.Duration = time.Since(start) }()

	log := importlog.FromContext(ctx)
	log.Debug().Str("task", t.Kind.String()).Str("import_path", t.Imp.Path).Msg("running task")

	switch t.Kind {
	case TypeLocalItemsRetrieval:
		return t.runLocalItemsRetrieval(ctx)
	case TypeImportItemsRetrieval:
		return t.runImportItemsRetrieval(ctx)
	case TypeChangeset:
		return t.runChangeset(ctx)
	case TypeSynchronisation:
		return t.runSynchronisation(ctx)
	case TypeCleanup:
		return t.runCleanup(ctx)
	case TypeRemoval:
		return t.runRemoval(ctx)
	case TypeUpdate:
		return t.runUpdate(ctx)
	default:
		return fmt.Errorf("task: unknown task kind %v", t.Kind)
	}
}

func (t *Task) runLocalItemsRetrieval(ctx context.Context) error {
	for idx, mt := range t.Imp.MediaTypes {
		if t.ShouldCancel(idx, len(t.Imp.MediaTypes)) {
			return context.Canceled
		}
		h, ok := t.Handlers[mt]
		if !ok {
			continue
		}
		items, err := h.GetLocalItems(ctx, t.Imp)
		if err != nil {
			return fmt.Errorf("local items retrieval for %s: %w", mt, err)
		}
		t.local[mt] = items
	}
	return nil
}

func (t *Task) runImportItemsRetrieval(ctx context.Context) error {
	if t.Source == nil {
		return fmt.Errorf("import items retrieval: no importer attached")
	}
	if !t.Source.Import(ctx, t) {
		return fmt.Errorf("import items retrieval: adapter reported failure")
	}
	return nil
}

func (t *Task) runUpdate(ctx context.Context) error {
	if t.Source == nil {
		return fmt.Errorf("update on source: no importer attached")
	}
	if !t.Imp.Settings.GetBool("updateplaybackmetadataonsource", true) {
		return nil
	}
	if !t.Source.UpdateOnSource(ctx, t) {
		return fmt.Errorf("update on source: adapter reported failure")
	}
	return nil
}
