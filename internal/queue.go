package internal

import "container/heap"

// A min-priority queue which supports removing any previously pushed entry,
// not just the minimum.
//
// Removal is lazy. A removed entry stays in the heap as a tombstone and is
// discarded when it reaches the top, so Remove is O(1) and Pop stays
// amortized O(log n). Entries are identified by their (priority, payload)
// pair, which is why both must be comparable. Pushing the same pair twice is
// allowed, and each push needs its own Remove or Pop.
type Queue[P comparable, V comparable] struct {
	heap    queueHeap[P, V]
	live    map[queueKey[P, V]]int
	removed map[queueKey[P, V]]int
	size    int
	serial  uint64
}

type queueKey[P comparable, V comparable] struct {
	priority P
	payload  V
}

type queueEntry[P comparable, V comparable] struct {
	queueKey[P, V]
	// Insertion order breaks ties between equal priorities, so pops are
	// deterministic even when the priority order is only a preorder.
	serial uint64
}

type queueHeap[P comparable, V comparable] struct {
	entries []queueEntry[P, V]
	less    func(a, b P) bool
}

func (h queueHeap[P, V]) Len() int {
	return len(h.entries)
}

func (h queueHeap[P, V]) Less(i, j int) bool {
	a, b := h.entries[i], h.entries[j]
	if h.less(a.priority, b.priority) {
		return true
	}
	if h.less(b.priority, a.priority) {
		return false
	}
	return a.serial < b.serial
}

func (h queueHeap[P, V]) Swap(i, j int) {
	h.entries[i], h.entries[j] = h.entries[j], h.entries[i]
}

func (h *queueHeap[P, V]) Push(x interface{}) {
	h.entries = append(h.entries, x.(queueEntry[P, V]))
}

func (h *queueHeap[P, V]) Pop() interface{} {
	old := h.entries
	x := old[len(old)-1]
	h.entries = old[:len(old)-1]
	return x
}

func NewQueue[P comparable, V comparable](less func(a, b P) bool) *Queue[P, V] {
	return &Queue[P, V]{
		heap:    queueHeap[P, V]{less: less},
		live:    make(map[queueKey[P, V]]int),
		removed: make(map[queueKey[P, V]]int),
	}
}

func (q *Queue[P, V]) Len() int {
	return q.size
}

func (q *Queue[P, V]) Empty() bool {
	return q.size == 0
}

func (q *Queue[P, V]) Push(payload V, priority P) {
	key := queueKey[P, V]{priority, payload}
	q.serial++
	heap.Push(&q.heap, queueEntry[P, V]{key, q.serial})
	q.live[key]++
	q.size++
}

// Remove a previously pushed entry. Removing an entry that is not in the
// queue is a bookkeeping bug, and panics.
func (q *Queue[P, V]) Remove(payload V, priority P) {
	key := queueKey[P, V]{priority, payload}
	if q.live[key] == 0 {
		notFoundf("queue entry %v with priority %v", payload, priority)
	}
	q.live[key]--
	if q.live[key] == 0 {
		delete(q.live, key)
	}
	q.removed[key]++
	q.size--
}

// Pop the minimum entry. Panics if the queue is empty.
func (q *Queue[P, V]) Pop() (P, V) {
	if q.size == 0 {
		notFoundf("pop from empty queue")
	}
	q.prune()
	entry := heap.Pop(&q.heap).(queueEntry[P, V])
	q.live[entry.queueKey]--
	if q.live[entry.queueKey] == 0 {
		delete(q.live, entry.queueKey)
	}
	q.size--
	return entry.priority, entry.payload
}

func (q *Queue[P, V]) Peek() (priority P, payload V, ok bool) {
	if q.size == 0 {
		return priority, payload, false
	}
	q.prune()
	top := q.heap.entries[0]
	return top.priority, top.payload, true
}

// Discard tombstones sitting at the top of the heap.
func (q *Queue[P, V]) prune() {
	for q.heap.Len() > 0 {
		top := q.heap.entries[0].queueKey
		if q.removed[top] == 0 {
			return
		}
		q.removed[top]--
		if q.removed[top] == 0 {
			delete(q.removed, top)
		}
		heap.Pop(&q.heap)
	}
}
