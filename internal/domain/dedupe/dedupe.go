// Package dedupe suppresses replayed wellness updates. The ingestion
// pipeline treats update IDs as idempotency keys: a replayed ID must
// not re-trigger a store write or cache invalidation.
package dedupe

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/okian/fettle/internal/domain/model"
)

// Deduper records seen wellness update IDs for at-most-once ingestion.
type Deduper interface {
	// SeenAndRecord atomically checks whether id was seen and records
	// it if not. Returns true when id was already seen.
	SeenAndRecord(ctx context.Context, id model.UpdateID) bool

	// Unrecord forgets an ID so the update can be resubmitted. Used
	// when a recorded update could not be enqueued (backpressure).
	Unrecord(ctx context.Context, id model.UpdateID)

	Size() int64
}

// entry is one remembered update ID, threaded on the recency list.
type entry struct {
	id    model.UpdateID
	newer *entry
	older *entry
}

func (e *entry) reset() {
	e.id = ""
	e.newer = nil
	e.older = nil
}

// inMemoryDeduper remembers update IDs in a map. In bounded mode the
// entries are additionally linked in arrival order so the oldest ID is
// evicted in O(1) once capacity is reached; unbounded mode skips the
// list entirely.
type inMemoryDeduper struct {
	mu      sync.RWMutex
	seen    map[model.UpdateID]*entry // entry is nil in unbounded mode
	newest  *entry
	oldest  *entry
	maxSize int // 0 or negative disables eviction
	size    atomic.Int64
	pool    sync.Pool
}

// NewInMemoryDeduper creates an in-memory deduper.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{
		maxSize: 50000,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.seen = make(map[model.UpdateID]*entry)
	d.pool = sync.Pool{
		New: func() interface{} {
			return &entry{}
		},
	}
	return d
}

// SeenAndRecord atomically checks whether id was seen and records it if
// not. Returns true when id was already seen.
func (d *inMemoryDeduper) SeenAndRecord(ctx context.Context, id model.UpdateID) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.seen[id]; exists {
		return true
	}

	if d.maxSize > 0 {
		if len(d.seen) >= d.maxSize {
			d.evictOldest()
		}
		e := d.pool.Get().(*entry)
		e.id = id
		e.older = d.newest
		if d.newest != nil {
			d.newest.newer = e
		}
		d.newest = e
		if d.oldest == nil {
			d.oldest = e
		}
		d.seen[id] = e
	} else {
		d.seen[id] = nil
	}
	d.size.Add(1)
	return false
}

// Unrecord forgets an ID so the update can be resubmitted.
func (d *inMemoryDeduper) Unrecord(ctx context.Context, id model.UpdateID) {
	d.mu.Lock()
	defer d.mu.Unlock()

	e, exists := d.seen[id]
	if !exists {
		return
	}
	delete(d.seen, id)
	if e != nil {
		d.unlink(e)
		e.reset()
		d.pool.Put(e)
	}
	d.size.Add(-1)
}

// unlink removes e from the recency list. Caller holds d.mu.
func (d *inMemoryDeduper) unlink(e *entry) {
	if e.newer != nil {
		e.newer.older = e.older
	} else {
		d.newest = e.older
	}
	if e.older != nil {
		e.older.newer = e.newer
	} else {
		d.oldest = e.newer
	}
}

// evictOldest drops the oldest remembered ID. Caller holds d.mu.
func (d *inMemoryDeduper) evictOldest() {
	e := d.oldest
	if e == nil {
		return
	}
	delete(d.seen, e.id)
	d.unlink(e)
	e.reset()
	d.pool.Put(e)
	d.size.Add(-1)
}

// Size returns the current number of remembered IDs.
func (d *inMemoryDeduper) Size() int64 {
	return d.size.Load()
}
