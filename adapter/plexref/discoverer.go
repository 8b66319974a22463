package plexref

import (
	"context"
	"sync"

	"mediaimport/model"
)

// discoverer is a no-op background listener: plexgo has no bundled
// GDM/SSDP client, so the reference adapter reports DiscoverSource on
// demand only (see Importer.DiscoverSource) and Start/Stop just track
// liveness for callers that expect the Discoverer contract.
type discoverer struct {
	mu      sync.Mutex
	running bool
}

func newDiscoverer() *discoverer { return &discoverer{} }

func (d *discoverer) Start(ctx context.Context, found func(*model.Source)) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.running = true
	return nil
}

func (d *discoverer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.running = false
}
