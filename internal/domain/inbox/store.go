package inbox

import "sync"

// MemoryStore is the in-memory Store used per session. Items are listed
// newest-first.
type MemoryStore struct {
	mu    sync.RWMutex
	items []*Item
	byID  map[ItemID]*Item
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byID: make(map[ItemID]*Item)}
}

func (s *MemoryStore) Add(item *Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	// newest first
	idx := 0
	for idx < len(s.items) && s.items[idx].Timestamp.After(item.Timestamp) {
		idx++
	}
	s.items = append(s.items, nil)
	copy(s.items[idx+1:], s.items[idx:])
	s.items[idx] = item
	s.byID[item.ID] = item
}

func (s *MemoryStore) Get(id ItemID) (*Item, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.byID[id]
	if !ok {
		return nil, false
	}
	cp := *item
	return &cp, true
}

func (s *MemoryStore) List() []*Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Item, 0, len(s.items))
	for _, item := range s.items {
		cp := *item
		out = append(out, &cp)
	}
	return out
}

// Unscanned returns items that still contain URLs the session has not scanned.
func (s *MemoryStore) Unscanned() []*Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Item
	for _, item := range s.items {
		if item.ContainsURL && !item.Scanned {
			cp := *item
			out = append(out, &cp)
		}
	}
	return out
}

// MarkScanned flips the item to scanned and appends any detected threat ids.
// Holding the store mutex makes this the single writer for the item.
func (s *MemoryStore) MarkScanned(id ItemID, threatIDs ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.byID[id]
	if !ok {
		return
	}
	item.Scanned = true
	item.ThreatIDs = append(item.ThreatIDs, threatIDs...)
}
