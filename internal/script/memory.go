package script

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore is the database-less Store and Catalog used in development and
// tests. Unlike the session store it is read from HTTP handler goroutines, so
// it locks.
type MemoryStore struct {
	mu    sync.RWMutex
	cues  map[string][]Cue
	items map[string][]Item
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		cues:  make(map[string][]Cue),
		items: make(map[string][]Item),
	}
}

func (m *MemoryStore) CuesByCampaign(_ context.Context, campaignID string) ([]Cue, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Cue, len(m.cues[campaignID]))
	copy(out, m.cues[campaignID])
	return out, nil
}

func (m *MemoryStore) ReplaceCues(_ context.Context, campaignID string, cues []Cue) error {
	sorted := make([]Cue, len(cues))
	copy(sorted, cues)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Step < sorted[j].Step })

	m.mu.Lock()
	defer m.mu.Unlock()
	m.cues[campaignID] = sorted
	return nil
}

func (m *MemoryStore) ItemsByCampaign(_ context.Context, campaignID string) ([]Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Item, len(m.items[campaignID]))
	copy(out, m.items[campaignID])
	return out, nil
}

// SetItems seeds the catalog for a campaign.
func (m *MemoryStore) SetItems(campaignID string, items []Item) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[campaignID] = items
}
