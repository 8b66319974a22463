package manager

import (
	"context"
	"time"

	"mediaimport/importlog"
)

// runHeartbeat polls every manually-added source's lookupSource every
// HeartbeatInterval; a reachable->unreachable transition deactivates
// the source, unreachable->reachable reactivates it (§4.G).
func (m *Manager) runHeartbeat(ctx context.Context) {
	defer m.heartbeatWG.Done()

	ticker := time.NewTicker(HeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stopHeartbeat:
			return
		case <-ticker.C:
			m.lookupManuallyAddedSources(ctx)
		}
	}
}

func (m *Manager) lookupManuallyAddedSources(ctx context.Context) {
	log := importlog.FromContext(ctx)
	sources, err := m.GetSources(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("heartbeat: get sources failed")
		return
	}

	for _, source := range sources {
		if !source.ManuallyAdded {
			continue
		}
		imp, _, ok := m.importerFor(source.ImporterID)
		if !ok || !imp.CanLookupSource() {
			continue
		}

		reachable := imp.LookupSource(ctx, source)
		wasActive := source.Active

		switch {
		case wasActive && !reachable:
			if err := m.DeactivateSource(ctx, source.Identifier); err != nil {
				log.Warn().Err(err).Str("source", source.Identifier).Msg("heartbeat: deactivate failed")
			}
		case !wasActive && reachable:
			if err := m.ActivateSource(ctx, source.Identifier); err != nil {
				log.Warn().Err(err).Str("source", source.Identifier).Msg("heartbeat: activate failed")
			}
		}
	}
}
