package overlay

import (
	"sort"
	"sync"
)

// Manager tracks overlays keyed by ID.
type Manager struct {
	mu sync.RWMutex

	// overlays contains all registered overlays, keyed by ID.
	overlays map[string]Overlay

	// sortedIDs contains overlay IDs sorted by priority.
	sortedIDs []string

	// needsSort indicates the sortedIDs needs re-sorting.
	needsSort bool

	// added counts every overlay ever added, for insertion order.
	added uint64
	order map[string]uint64
}

// NewManager creates a new overlay manager.
func NewManager() *Manager {
	return &Manager{
		overlays: make(map[string]Overlay),
		order:    make(map[string]uint64),
	}
}

// Add adds an overlay, replacing any overlay with the same ID.
func (m *Manager) Add(o Overlay) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := o.ID()
	if _, exists := m.overlays[id]; !exists {
		m.sortedIDs = append(m.sortedIDs, id)
	}
	m.overlays[id] = o
	m.added++
	m.order[id] = m.added
	m.needsSort = true
}

// Remove removes an overlay by ID. It reports whether one was removed.
func (m *Manager) Remove(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.overlays[id]; !ok {
		return false
	}
	delete(m.overlays, id)
	delete(m.order, id)
	for i, sid := range m.sortedIDs {
		if sid == id {
			m.sortedIDs = append(m.sortedIDs[:i], m.sortedIDs[i+1:]...)
			break
		}
	}
	return true
}

// Get returns an overlay by ID.
func (m *Manager) Get(id string) (Overlay, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	o, ok := m.overlays[id]
	return o, ok
}

// Clear removes all overlays.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.overlays = make(map[string]Overlay)
	m.order = make(map[string]uint64)
	m.sortedIDs = nil
}

// Count returns the number of overlays.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.overlays)
}

// Visible returns the visible overlays in compositing order.
func (m *Manager) Visible() []Overlay {
	m.mu.Lock()
	m.ensureSorted()
	out := make([]Overlay, 0, len(m.sortedIDs))
	for _, id := range m.sortedIDs {
		if o := m.overlays[id]; o.IsVisible() {
			out = append(out, o)
		}
	}
	m.mu.Unlock()
	return out
}

// ShadesForLine collects the tints for a document line in compositing
// order.
func (m *Manager) ShadesForLine(line int) []Shade {
	var shades []Shade
	for _, o := range m.Visible() {
		shades = append(shades, o.ShadesForLine(line)...)
	}
	return shades
}

// ensureSorted orders IDs by priority, then insertion. Callers hold m.mu.
func (m *Manager) ensureSorted() {
	if !m.needsSort {
		return
	}
	sort.SliceStable(m.sortedIDs, func(i, j int) bool {
		a, b := m.overlays[m.sortedIDs[i]], m.overlays[m.sortedIDs[j]]
		if a.Priority() != b.Priority() {
			return a.Priority() < b.Priority()
		}
		return m.order[m.sortedIDs[i]] < m.order[m.sortedIDs[j]]
	})
	m.needsSort = false
}
