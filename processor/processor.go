// Package processor implements the Task Processor job (§4.F): an
// ordered pipeline of task.Task stages run over one or more imports of
// one source, with progress propagation and cancellation.
package processor

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"mediaimport/handler"
	"mediaimport/importer"
	"mediaimport/importlog"
	"mediaimport/model"
	"mediaimport/task"
)

// Progress is the job's progress handle, created lazily on first use
// and torn down when the job is destroyed (§4.F).
type Progress struct {
	mu        sync.Mutex
	current   int
	total     int
	text      string
	cancelled atomic.Bool
}

func newProgress() *Progress { return &Progress{} }

// Report updates the handle's current/total counters.
func (p *Progress) Report(current, total int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.current, p.total = current, total
}

// SetText sets the human-readable progress line.
func (p *Progress) SetText(text string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.text = text
}

// Snapshot returns the handle's current state.
func (p *Progress) Snapshot() (current, total int, text string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current, p.total, p.text
}

// Cancel requests cancellation; ShouldCancel observes it cooperatively.
func (p *Progress) Cancel() { p.cancelled.Store(true) }

// ShouldCancel implements task.Processor.
func (p *Progress) ShouldCancel(progress, total int) bool {
	p.Report(progress, total)
	return p.cancelled.Load()
}

// ImportTaskData buckets a per-import slice of task.Type and the
// handler instances created for it, keyed by (path, mediaTypes) in
// the owning Job.
type ImportTaskData struct {
	Import   *model.Import
	TaskKey  model.Key
	TaskList []task.Type
	Handlers map[model.MediaType]handler.TypeHandler

	// Seed, if set, runs once against the import's task.Task
	// immediately after construction and before its first stage —
	// used by the partial-changeset injection flow (manager's
	// addImportedItems/updateImportedItems/removeImportedItems/
	// changeImportedItems, §4.G) to deposit caller-supplied items
	// ahead of the Changeset stage, in place of the normal
	// ImportItemsRetrieval callback.
	Seed func(t *task.Task)
}

// Job is one Task Processor run over a set of imports belonging to a
// single source. Equal compares jobs by their import keys, current
// task type and progress handle identity (§4.F).
type Job struct {
	SourceID string
	Source   importer.Importer
	Callback func(ctx context.Context, imp *model.Import, err error)

	mu          sync.Mutex
	imports     map[model.Key]*ImportTaskData
	currentTask task.Type
	progress    *Progress
	targetItem  *model.Item // set by NewUpdateImportedItemOnSourceJob
}

func newJob(sourceID string, src importer.Importer, callback func(context.Context, *model.Import, error)) *Job {
	return &Job{
		SourceID: sourceID,
		Source:   src,
		Callback: callback,
		imports:  make(map[model.Key]*ImportTaskData),
		progress: newProgress(),
	}
}

// SeedImport attaches a seed function to the ImportTaskData for key,
// run once against that import's task.Task before its first stage.
// A no-op if key is not (yet) present.
func (j *Job) SeedImport(key model.Key, seed func(t *task.Task)) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if data, ok := j.imports[key]; ok {
		data.Seed = seed
	}
}

// Progress returns the job's progress handle, creating it on first use.
func (j *Job) Progress() *Progress {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.progress == nil {
		j.progress = newProgress()
	}
	return j.progress
}

// AddImport merges imp's task list into the job's schedule, inserting
// any missing task types at the earliest valid position relative to
// those already queued and preserving relative order (§4.F).
func (j *Job) AddImport(imp *model.Import, taskTypes []task.Type, handlers map[model.MediaType]handler.TypeHandler) {
	j.mu.Lock()
	defer j.mu.Unlock()

	key := imp.Key()
	existing, ok := j.imports[key]
	if !ok {
		j.imports[key] = &ImportTaskData{
			Import:   imp,
			TaskKey:  key,
			TaskList: append([]task.Type(nil), taskTypes...),
			Handlers: handlers,
		}
		return
	}
	existing.TaskList = mergeTaskLists(existing.TaskList, taskTypes)
	for mt, h := range handlers {
		if _, ok := existing.Handlers[mt]; !ok {
			existing.Handlers[mt] = h
		}
	}
}

// mergeTaskLists inserts any of add not already in base at the
// earliest valid position, preserving base's relative order and add's
// relative order among the types it contributes.
func mergeTaskLists(base, add []task.Type) []task.Type {
	present := make(map[task.Type]bool, len(base))
	for _, tt := range base {
		present[tt] = true
	}
	out := append([]task.Type(nil), base...)
	insertAt := 0
	for _, tt := range add {
		if present[tt] {
			continue
		}
		// Earliest valid position: after the last already-present type
		// that canonically precedes tt in the master pipeline order,
		// otherwise at the front.
		pos := earliestInsertPos(out, tt)
		if pos < insertAt {
			pos = insertAt
		}
		out = append(out[:pos], append([]task.Type{tt}, out[pos:]...)...)
		present[tt] = true
		insertAt = pos + 1
	}
	return out
}

// masterOrder is the canonical pipeline order tasks run in.
var masterOrder = []task.Type{
	task.TypeLocalItemsRetrieval, task.TypeImportItemsRetrieval, task.TypeChangeset,
	task.TypeSynchronisation, task.TypeCleanup, task.TypeRemoval, task.TypeUpdate,
}

func masterRank(t task.Type) int {
	for i, mt := range masterOrder {
		if mt == t {
			return i
		}
	}
	return len(masterOrder)
}

func earliestInsertPos(out []task.Type, tt task.Type) int {
	rank := masterRank(tt)
	pos := 0
	for i, existing := range out {
		if masterRank(existing) < rank {
			pos = i + 1
		}
	}
	return pos
}

// Run executes every queued import's task list against this job's
// handlers and Source, invoking Callback once per import.
func (j *Job) Run(ctx context.Context) {
	log := importlog.FromContext(ctx)
	j.mu.Lock()
	datas := make([]*ImportTaskData, 0, len(j.imports))
	for _, d := range j.imports {
		datas = append(datas, d)
	}
	j.mu.Unlock()

	for _, data := range datas {
		if j.Progress().cancelled.Load() {
			return
		}
		err := j.runImport(ctx, data)
		if err != nil {
			log.Warn().Err(err).Str("import_path", data.Import.Path).Msg("import task list failed")
		}
		if j.Callback != nil {
			j.Callback(ctx, data.Import, err)
		}
	}
}

// Equal compares two jobs by the §4.F dedup tuple: the set of import
// keys they carry, the currently executing task type, and progress
// handle identity. The queue package does not call it; submitting an
// equal job twice runs it twice.
func (j *Job) Equal(other *Job) bool {
	if j == nil || other == nil {
		return j == other
	}
	if j.progress != other.progress {
		return false
	}
	j.mu.Lock()
	other.mu.Lock()
	defer j.mu.Unlock()
	defer other.mu.Unlock()
	if j.currentTask != other.currentTask || len(j.imports) != len(other.imports) {
		return false
	}
	for k := range j.imports {
		if _, ok := other.imports[k]; !ok {
			return false
		}
	}
	return true
}

// runImport drives data's whole task list through a single task.Task
// instance (one per import, not one per stage) so that buckets
// LocalItemsRetrieval and ImportItemsRetrieval deposit are still there
// when Changeset and Synchronisation run (§4.E, §4.F).
func (j *Job) runImport(ctx context.Context, data *ImportTaskData) error {
	var t *task.Task
	for _, tt := range data.TaskList {
		j.mu.Lock()
		j.currentTask = tt
		j.mu.Unlock()

		if t == nil {
			t = task.New(tt, data.Import, data.Handlers, j.Source)
			if data.Seed != nil {
				data.Seed(t)
			}
		} else {
			t.Retask(tt, j.Source)
		}
		if tt == task.TypeUpdate && j.targetItem != nil {
			t.SetTargetItem(j.targetItem)
		}
		if err := t.Do(ctx, j.Progress()); err != nil {
			return fmt.Errorf("%s: %w", tt, err)
		}
	}
	return nil
}
