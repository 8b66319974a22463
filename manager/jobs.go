package manager

import (
	"context"

	"mediaimport/importlog"
	"mediaimport/model"
	"mediaimport/processor"
	"mediaimport/repository"
)

// reposSnapshot returns a copy of the manager's repository set, safe
// to range over without holding repoMu.
func (m *Manager) reposSnapshot() []repository.Repository {
	m.repoMu.RLock()
	defer m.repoMu.RUnlock()
	out := make([]repository.Repository, len(m.repos))
	copy(out, m.repos)
	return out
}

// processorJobAdapter lets a processor.Job run on the library queue,
// which only knows about queue.Job's three-method contract.
type processorJobAdapter struct {
	sourceID string
	name     string
	job      *processor.Job
}

func (a *processorJobAdapter) Key() string  { return a.sourceID }
func (a *processorJobAdapter) Name() string { return a.name }
func (a *processorJobAdapter) Execute(ctx context.Context) error {
	a.job.Run(ctx)
	return nil
}

func wrapJob(sourceID, name string, job *processor.Job) *processorJobAdapter {
	return &processorJobAdapter{sourceID: sourceID, name: name, job: job}
}

// sourceRegistrationJob persists a newly added source, emits
// OnSourceAdded, and optionally transitions to activation (§4.G).
type sourceRegistrationJob struct {
	m        *Manager
	source   *model.Source
	activate bool
}

func (j *sourceRegistrationJob) Key() string  { return j.source.Identifier }
func (j *sourceRegistrationJob) Name() string { return "SourceRegistrationJob" }

func (j *sourceRegistrationJob) Execute(ctx context.Context) error {
	ctx, log := importlog.WithSource(ctx, j.source.Identifier)

	added := false
	for _, r := range j.m.reposSnapshot() {
		_, ok, err := r.AddSource(ctx, j.source)
		if err != nil {
			log.Warn().Err(err).Msg("add source failed")
			continue
		}
		added = added || ok
	}

	j.m.Events.SourceAdded(j.source)
	if _, observer, ok := j.m.importerFor(j.source.ImporterID); ok && observer != nil {
		observer.OnSourceAdded(j.source)
	}

	if j.activate {
		j.m.sourceQueue.Submit(&sourceActivationJob{m: j.m, identifier: j.source.Identifier})
	}
	return nil
}

// sourceActivationJob runs isSourceReady, records the resulting
// active/ready flags in the manager's live state (they are not written
// to the repositories), emits OnSourceActivated (and OnSourceUpdated if
// fields changed), then kicks off automatic imports for the source
// (§4.G).
type sourceActivationJob struct {
	m          *Manager
	identifier string
}

func (j *sourceActivationJob) Key() string  { return j.identifier }
func (j *sourceActivationJob) Name() string { return "SourceActivationJob" }

func (j *sourceActivationJob) Execute(ctx context.Context) error {
	ctx, log := importlog.WithSource(ctx, j.identifier)

	source, ok, err := j.m.getSourceMerged(ctx, j.identifier)
	if err != nil || !ok {
		if err != nil {
			log.Warn().Err(err).Msg("activation: source lookup failed")
		}
		return err
	}

	imp, _, ok := j.m.importerFor(source.ImporterID)
	ready := false
	if ok {
		ready = imp.IsSourceReady(ctx, source)
	}

	before := source.Clone()
	source.Active = true
	source.Ready = ready

	j.m.sourcesMu.Lock()
	st, exists := j.m.sources[j.identifier]
	if !exists {
		st = &sourceState{importerID: source.ImporterID}
		j.m.sources[j.identifier] = st
	}
	st.active = true
	st.ready = ready
	j.m.sourcesMu.Unlock()

	changed, err := j.m.writeSourceToRepos(ctx, source)
	if err != nil {
		log.Warn().Err(err).Msg("activation: persist failed")
	}

	j.m.Events.SourceActivated(source)
	if _, observer, ok := j.m.importerFor(source.ImporterID); ok && observer != nil {
		observer.OnSourceActivated(source)
		if changed || !before.Equal(source) {
			observer.OnSourceUpdated(source)
		}
	}
	if changed || !before.Equal(source) {
		j.m.Events.SourceUpdated(source)
	}

	if ready {
		_ = j.m.ImportSource(ctx, j.identifier)
	}
	return nil
}

// sourceReadyJob refreshes the readiness flag after a field update and
// emits OnSourceUpdated (§4.G).
type sourceReadyJob struct {
	m          *Manager
	identifier string
}

func (j *sourceReadyJob) Key() string  { return j.identifier }
func (j *sourceReadyJob) Name() string { return "SourceReadyJob" }

func (j *sourceReadyJob) Execute(ctx context.Context) error {
	ctx, log := importlog.WithSource(ctx, j.identifier)

	source, ok, err := j.m.getSourceMerged(ctx, j.identifier)
	if err != nil || !ok {
		if err != nil {
			log.Warn().Err(err).Msg("ready-refresh: source lookup failed")
		}
		return err
	}

	imp, observer, hasImporter := j.m.importerFor(source.ImporterID)
	if !hasImporter {
		return nil
	}
	ready := imp.IsSourceReady(ctx, source)

	j.m.sourcesMu.Lock()
	if st, ok := j.m.sources[j.identifier]; ok {
		st.ready = ready
	}
	j.m.sourcesMu.Unlock()

	source.Ready = ready
	j.m.Events.SourceUpdated(source)
	if observer != nil {
		observer.OnSourceUpdated(source)
	}
	return nil
}
