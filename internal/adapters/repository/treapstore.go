package repository

import (
	"context"
	"hash/fnv"
	"sync"
	"time"

	"github.com/okian/fettle/internal/domain/model"
	"github.com/okian/fettle/pkg/metrics"
)

// Treap-based, in-memory Store implementation.
//
// Each athlete owns one treap keyed by day (unix days ascending), so an
// in-order traversal yields the chronological history the baseline and
// trend windows need. Priorities are derived from an FNV hash of
// (athlete, day), keeping the tree shape deterministic across runs.

// hoursPerDay converts a midnight-truncated time to a day index.
const hoursPerDay = 24

type dayKey int64

func toDayKey(t time.Time) dayKey {
	return dayKey(t.UTC().Truncate(hoursPerDay * time.Hour).Unix() / (hoursPerDay * 3600))
}

func (k dayKey) Time() time.Time {
	return time.Unix(int64(k)*hoursPerDay*3600, 0).UTC()
}

// node is one athlete-day in a treap.
type node struct {
	key   dayKey
	rec   model.WellnessRecord
	prio  uint64
	left  *node
	right *node
	size  int
}

func nsize(n *node) int {
	if n == nil {
		return 0
	}
	return n.size
}

func fix(n *node) {
	if n != nil {
		n.size = 1 + nsize(n.left) + nsize(n.right)
	}
}

func rotateRight(n *node) *node {
	l := n.left
	n.left = l.right
	l.right = n
	fix(n)
	fix(l)
	return l
}

func rotateLeft(n *node) *node {
	r := n.right
	n.right = r.left
	r.left = n
	fix(n)
	fix(r)
	return r
}

// insert upserts (key, rec). replaced reports whether an existing day
// was overwritten.
func insert(n *node, key dayKey, rec model.WellnessRecord, prio uint64) (root *node, replaced bool) {
	if n == nil {
		return &node{key: key, rec: rec, prio: prio, size: 1}, false
	}
	switch {
	case key == n.key:
		n.rec = rec
		return n, true
	case key < n.key:
		n.left, replaced = insert(n.left, key, rec, prio)
		fix(n)
		if n.left.prio > n.prio {
			n = rotateRight(n)
		}
	default:
		n.right, replaced = insert(n.right, key, rec, prio)
		fix(n)
		if n.right.prio > n.prio {
			n = rotateLeft(n)
		}
	}
	return n, replaced
}

func find(n *node, key dayKey) *node {
	for n != nil {
		switch {
		case key == n.key:
			return n
		case key < n.key:
			n = n.left
		default:
			n = n.right
		}
	}
	return nil
}

// collectRange appends records with from <= key <= to in order.
func collectRange(n *node, from, to dayKey, out *[]model.WellnessRecord) {
	if n == nil {
		return
	}
	if n.key > from {
		collectRange(n.left, from, to, out)
	}
	if n.key >= from && n.key <= to {
		*out = append(*out, n.rec)
	}
	if n.key < to {
		collectRange(n.right, from, to, out)
	}
}

// TreapStore implements Store with one treap per athlete.
type TreapStore struct {
	mu    sync.RWMutex
	roots map[string]*node
	total int
}

// NewTreapStore creates an empty treap store. Context is accepted first
// to satisfy the project-wide convention; it is reserved for future use.
func NewTreapStore(_ context.Context) *TreapStore {
	return &TreapStore{roots: make(map[string]*node)}
}

// Put inserts or replaces the record for (athlete, record day).
func (s *TreapStore) Put(ctx context.Context, athleteID string, rec model.WellnessRecord) (bool, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreUpdateLatency(float64(time.Since(start).Milliseconds()))
	}()

	key := toDayKey(rec.Date)

	s.mu.Lock()
	defer s.mu.Unlock()

	root, replaced := insert(s.roots[athleteID], key, rec, priority(athleteID, key))
	s.roots[athleteID] = root
	if !replaced {
		s.total++
		metrics.UpdateStoreRecords(s.total)
	}
	return !replaced, nil
}

// Get returns the record for one athlete-day.
func (s *TreapStore) Get(ctx context.Context, athleteID string, day time.Time) (model.WellnessRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if n := find(s.roots[athleteID], toDayKey(day)); n != nil {
		return n.rec, nil
	}
	return model.WellnessRecord{}, ErrNotFound
}

// Range returns records with from <= day <= to in chronological order.
func (s *TreapStore) Range(ctx context.Context, athleteID string, from, to time.Time) ([]model.WellnessRecord, error) {
	lo, hi := toDayKey(from), toDayKey(to)
	if hi < lo {
		return nil, ErrInvalidRange
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.WellnessRecord
	collectRange(s.roots[athleteID], lo, hi, &out)
	return out, nil
}

// Count returns the total number of records across all athletes.
func (s *TreapStore) Count(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.total
}

// Athletes returns the number of athletes with at least one record.
func (s *TreapStore) Athletes(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.roots)
}

// Close releases the store. Present so the service can treat stores
// uniformly; the in-memory implementation has nothing to flush.
func (s *TreapStore) Close() error {
	return nil
}

// priority hashes (athlete, day) so treap shapes are deterministic.
func priority(athleteID string, key dayKey) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(athleteID))
	var buf [8]byte
	for i := 0; i < 8; i++ {
		buf[i] = byte(uint64(key) >> (8 * i))
	}
	_, _ = h.Write(buf[:])
	return h.Sum64()
}
