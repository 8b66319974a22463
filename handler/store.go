package handler

import (
	"sync"

	"mediaimport/model"
)

// MemoryStore is the reference Store: a process-local library backing
// every shipped handler, standing in for the video/music databases
// that §1 excludes from this core.
type MemoryStore struct {
	mu     sync.Mutex
	nextID int64
	items  map[int64]*model.Item
}

// NewMemoryStore constructs an empty library store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[int64]*model.Item)}
}

func (s *MemoryStore) Items(mt model.MediaType) []*model.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*model.Item
	for _, it := range s.items {
		if it.MediaType == mt {
			out = append(out, it)
		}
	}
	return out
}

func (s *MemoryStore) Put(item *model.Item) *model.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	if item.LocalID == 0 {
		s.nextID++
		item.LocalID = s.nextID
	}
	s.items[item.LocalID] = item
	return item
}

func (s *MemoryStore) Delete(localID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, localID)
}

func (s *MemoryStore) Get(localID int64) (*model.Item, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.items[localID]
	return it, ok
}
