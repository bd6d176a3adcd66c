package cull

import (
	"fmt"
	"sync"
)

// QueryID identifies one occlusion query.
type QueryID uint32

// OcclusionQuerySystem tracks hardware occlusion queries across frames.
//
// BeginQuery and EndQuery allocate and close an opaque query id; the
// backend reports sample counts via Record as results arrive. ReadResults
// is the single explicit GPU-to-CPU synchronization point of the engine: it
// latches every pending result; callers must not assume a result exists
// before calling it.
//
// IsVisible returns true for ids with no completed result. Assuming
// visibility hides the query latency at the cost of over-draw instead of
// popping; that bias is deliberate policy.
type OcclusionQuerySystem struct {
	mu        sync.Mutex
	nextID    QueryID
	open      map[QueryID]bool
	pending   map[QueryID]uint64
	completed map[QueryID]uint64
}

// NewOcclusionQuerySystem creates an empty query system.
func NewOcclusionQuerySystem() *OcclusionQuerySystem {
	return &OcclusionQuerySystem{
		open:      make(map[QueryID]bool),
		pending:   make(map[QueryID]uint64),
		completed: make(map[QueryID]uint64),
	}
}

// BeginQuery allocates a new query id.
func (q *OcclusionQuerySystem) BeginQuery() QueryID {
	q.mu.Lock()
	defer q.mu.Unlock()
	id := q.nextID
	q.nextID++
	q.open[id] = true
	return id
}

// EndQuery closes a query so the backend may resolve it.
func (q *OcclusionQuerySystem) EndQuery(id QueryID) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if !q.open[id] {
		return fmt.Errorf("cull: query %d is not open", id)
	}
	delete(q.open, id)
	return nil
}

// Record stores a resolved sample count for a closed query. Called by the
// backend as GPU results arrive; the result stays pending until the next
// ReadResults.
func (q *OcclusionQuerySystem) Record(id QueryID, samplesPassed uint64) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.pending[id] = samplesPassed
}

// ReadResults latches all pending results, making them observable to
// IsVisible. This is the one blocking readback boundary of the engine.
func (q *OcclusionQuerySystem) ReadResults() {
	q.mu.Lock()
	defer q.mu.Unlock()
	for id, samples := range q.pending {
		q.completed[id] = samples
	}
	clear(q.pending)
}

// IsVisible reports whether the queried geometry passed any samples.
// Queries with no completed result are assumed visible.
func (q *OcclusionQuerySystem) IsVisible(id QueryID) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	samples, ok := q.completed[id]
	if !ok {
		return true
	}
	return samples > 0
}

// Reset drops every query and result, typically between scene loads.
func (q *OcclusionQuerySystem) Reset() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.nextID = 0
	clear(q.open)
	clear(q.pending)
	clear(q.completed)
}
