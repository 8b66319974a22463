// Package events implements the lifecycle event feed (§6.2): the eight
// named Source/Import events, broadcast to every registered
// subscriber (the in-process GUI bus in the original; here, any
// number of channel subscribers such as cmd/importengine's SSE stream
// or cmd/importctl's live view).
package events

import (
	"sync"

	"mediaimport/model"
)

// Kind names one of the eight lifecycle events; activation and
// deactivation share one tag.
type Kind string

const (
	SourceAdded       Kind = "SOURCE_ADDED"
	SourceUpdated     Kind = "SOURCE_UPDATED"
	SourceRemoved     Kind = "SOURCE_REMOVED"
	SourceActivated   Kind = "SOURCE_ACTIVE_CHANGED"
	SourceDeactivated Kind = "SOURCE_ACTIVE_CHANGED"
	ImportAdded       Kind = "IMPORT_ADDED"
	ImportUpdated     Kind = "IMPORT_UPDATED"
	ImportRemoved     Kind = "IMPORT_REMOVED"
)

// Event is one opaque message on the bus: a Kind plus whichever of
// Source/Import it concerns.
type Event struct {
	Kind   Kind
	Source *model.Source
	Import *model.Import
}

// Bus fans events out to every current subscriber. Publish never
// blocks on a slow subscriber: a subscriber's channel is buffered and
// publish drops the event for that subscriber if its buffer is full,
// logging nothing (the same "best effort, never hold up the caller"
// policy the manager itself follows for everything not in the
// request/response path).
type Bus struct {
	mu   sync.Mutex
	subs map[chan Event]struct{}
}

// NewBus constructs an empty event bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[chan Event]struct{})}
}

// Subscribe registers a new listener and returns its channel and an
// unsubscribe function.
func (b *Bus) Subscribe(buffer int) (<-chan Event, func()) {
	ch := make(chan Event, buffer)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()

	unsub := func() {
		b.mu.Lock()
		if _, ok := b.subs[ch]; ok {
			delete(b.subs, ch)
			close(ch)
		}
		b.mu.Unlock()
	}
	return ch, unsub
}

// Publish broadcasts ev to every current subscriber.
func (b *Bus) Publish(ev Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

func (b *Bus) SourceAdded(s *model.Source)       { b.Publish(Event{Kind: SourceAdded, Source: s}) }
func (b *Bus) SourceUpdated(s *model.Source)     { b.Publish(Event{Kind: SourceUpdated, Source: s}) }
func (b *Bus) SourceRemoved(s *model.Source)     { b.Publish(Event{Kind: SourceRemoved, Source: s}) }
func (b *Bus) SourceActivated(s *model.Source)   { b.Publish(Event{Kind: SourceActivated, Source: s}) }
func (b *Bus) SourceDeactivated(s *model.Source) { b.Publish(Event{Kind: SourceDeactivated, Source: s}) }
func (b *Bus) ImportAdded(i *model.Import)       { b.Publish(Event{Kind: ImportAdded, Import: i}) }
func (b *Bus) ImportUpdated(i *model.Import)     { b.Publish(Event{Kind: ImportUpdated, Import: i}) }
func (b *Bus) ImportRemoved(i *model.Import)     { b.Publish(Event{Kind: ImportRemoved, Import: i}) }
