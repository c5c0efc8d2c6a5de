package storage

import (
	"sort"
	"sync"
)

// MemStore is an in-process stand-in for Store, used when the database
// cannot be opened and in tests.
type MemStore struct {
	mu      sync.Mutex
	profile Profile
	fame    []FameEntry
	ghost   []byte
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{}
}

// LoadProfile returns the profile kept in memory. It never fails.
func (m *MemStore) LoadProfile() (Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.profile, nil
}

// SaveBest records the best altitude in meters.
func (m *MemStore) SaveBest(meters int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profile.Best = meters
	return nil
}

// SaveShards records the currency balance.
func (m *MemStore) SaveShards(n int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profile.Shards = n
	return nil
}

// SaveLoops records the number of defeated bosses.
func (m *MemStore) SaveLoops(n int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profile.Loops = n
	return nil
}

// SaveSkin records the last used skin index.
func (m *MemStore) SaveSkin(i int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profile.Skin = i
	return nil
}

// SaveName records the player's display name.
func (m *MemStore) SaveName(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profile.Name = name
	return nil
}

// AddFame keeps only the best FameLimit entries; ties keep insertion order.
func (m *MemStore) AddFame(e FameEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fame = append(m.fame, e)
	sort.SliceStable(m.fame, func(i, j int) bool { return m.fame[i].Meters > m.fame[j].Meters })
	if len(m.fame) > FameLimit {
		m.fame = m.fame[:FameLimit]
	}
	return nil
}

// Fame returns a copy of the fame entries, best first.
func (m *MemStore) Fame() ([]FameEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]FameEntry, len(m.fame))
	copy(out, m.fame)
	return out, nil
}

// SaveGhost stores the trail in its encoded form, like the database does.
func (m *MemStore) SaveGhost(trail []GhostPoint) error {
	data, err := EncodeGhost(trail)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ghost = data
	return nil
}

// LoadGhost decodes the stored trail. A missing trail is nil without error.
func (m *MemStore) LoadGhost() ([]GhostPoint, error) {
	m.mu.Lock()
	data := m.ghost
	m.mu.Unlock()
	if data == nil {
		return nil, nil
	}
	return DecodeGhost(data)
}
