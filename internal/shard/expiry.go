package shard

import "container/heap"

// expiryEntry is one (Expiry, Key) hint. ExpiryIndex is a hint structure:
// entries may be stale once TtlMap no longer agrees with them (see
// Engine.activeExpire); authority always rests with TtlMap.
type expiryEntry struct {
	expiry uint64
	key    string
}

type expiryHeap []expiryEntry

func (h expiryHeap) Len() int            { return len(h) }
func (h expiryHeap) Less(i, j int) bool  { return h[i].expiry < h[j].expiry }
func (h expiryHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *expiryHeap) Push(x interface{}) { *h = append(*h, x.(expiryEntry)) }
func (h *expiryHeap) Pop() interface{} {
	old := *h
	n := len(old)
	entry := old[n-1]
	*h = old[:n-1]
	return entry
}

// ExpiryIndex is a min-priority queue over (Expiry, Key) pairs used by
// active expiration to avoid scanning the whole keyspace. Implementers
// may substitute any structure with the same peek-smallest/pop-smallest
// contract; this one uses container/heap directly.
type ExpiryIndex struct {
	h expiryHeap
}

// NewExpiryIndex returns an empty index.
func NewExpiryIndex() *ExpiryIndex {
	idx := &ExpiryIndex{}
	heap.Init(&idx.h)
	return idx
}

// Push adds a (expiry, key) hint. Duplicate or now-stale hints are fine —
// they're filtered on pop.
func (idx *ExpiryIndex) Push(expiry uint64, key string) {
	heap.Push(&idx.h, expiryEntry{expiry: expiry, key: key})
}

// Len reports the number of hints currently queued, live or stale.
func (idx *ExpiryIndex) Len() int {
	return idx.h.Len()
}

// PeekExpiry returns the smallest expiry currently queued, if any.
func (idx *ExpiryIndex) PeekExpiry() (uint64, bool) {
	if idx.h.Len() == 0 {
		return 0, false
	}
	return idx.h[0].expiry, true
}

// PopMin removes and returns the entry with the smallest expiry.
func (idx *ExpiryIndex) PopMin() (expiry uint64, key string, ok bool) {
	if idx.h.Len() == 0 {
		return 0, "", false
	}
	entry := heap.Pop(&idx.h).(expiryEntry)
	return entry.expiry, entry.key, true
}
