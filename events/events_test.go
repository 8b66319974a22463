package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mediaimport/model"
)

func TestBus_PublishReachesSubscriber(t *testing.T) {
	b := NewBus()
	ch, unsub := b.Subscribe(4)
	defer unsub()

	src := &model.Source{Identifier: "uuid-A"}
	b.SourceAdded(src)

	select {
	case ev := <-ch:
		assert.Equal(t, SourceAdded, ev.Kind)
		assert.Same(t, src, ev.Source)
	case <-time.After(time.Second):
		t.Fatal("expected event not received")
	}
}

func TestBus_UnsubscribeStopsDelivery(t *testing.T) {
	b := NewBus()
	ch, unsub := b.Subscribe(4)
	unsub()

	b.SourceAdded(&model.Source{Identifier: "uuid-A"})

	_, ok := <-ch
	require.False(t, ok, "channel must be closed after unsubscribe")
}

func TestBus_FullSubscriberBufferDropsWithoutBlocking(t *testing.T) {
	b := NewBus()
	_, unsub := b.Subscribe(1)
	defer unsub()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			b.SourceAdded(&model.Source{Identifier: "uuid-A"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish must never block on a full subscriber buffer")
	}
}
