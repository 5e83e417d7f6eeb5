package internal

// An AVL tree over a caller supplied ordering, with cursors for neighbor
// navigation and order statistics (select by rank).
//
// The tree is built for sweep-line algorithms, where the ordering key of an
// element depends on the current sweep position. As the sweep advances, every
// key conceptually changes, but recomputing all of them would cost O(n) per
// event. Instead, keys are expected to refresh themselves lazily when they are
// compared, so only the keys on the search path (and the ones touched while
// rotating) are ever brought up to date. The rest may be stale. That is safe
// as long as the relative order of the elements does not change between
// events, which a sweep guarantees by handling every crossing as its own
// event. At a crossing, the caller swaps keys in place with Cursor.SetKey,
// which deliberately does not check the ordering.
//
// Nodes live in an arena and refer to each other by index. Cursors are index
// views into the arena; they stay valid until the next Put or Delete.

const nilNode = -1

type treeNode[K, V any] struct {
	key                 K
	value               V
	parent, left, right int
	height, size        int
}

type Tree[K, V any] struct {
	nodes   []treeNode[K, V]
	free    []int
	root    int
	compare func(a, b K) int
}

// A position in the tree. The zero value is not a valid cursor.
type Cursor[K, V any] struct {
	tree *Tree[K, V]
	node int
}

func NewTree[K, V any](compare func(a, b K) int) *Tree[K, V] {
	return &Tree[K, V]{root: nilNode, compare: compare}
}

func (t *Tree[K, V]) Len() int {
	return t.size(t.root)
}

// Insert a key, or replace the value if an equal key is already present. In
// the latter case the stored key is kept.
func (t *Tree[K, V]) Put(key K, value V) Cursor[K, V] {
	if t.root == nilNode {
		t.root = t.alloc(key, value)
		return t.cursor(t.root)
	}

	parent, direction := t.find(func(nodeKey K) int { return t.compare(key, nodeKey) })
	if direction == 0 {
		t.nodes[parent].value = value
		return t.cursor(parent)
	}

	n := t.alloc(key, value)
	t.nodes[n].parent = parent
	if direction < 0 {
		t.nodes[parent].left = n
	} else {
		t.nodes[parent].right = n
	}
	t.retrace(parent)
	return t.cursor(n)
}

func (t *Tree[K, V]) Get(key K) (value V, ok bool) {
	if c, ok := t.Find(key); ok {
		return c.Value(), true
	}
	return value, false
}

func (t *Tree[K, V]) Has(key K) bool {
	_, ok := t.Find(key)
	return ok
}

// Find the node holding key.
func (t *Tree[K, V]) Find(key K) (Cursor[K, V], bool) {
	return t.Search(func(nodeKey K) int { return t.compare(key, nodeKey) })
}

// Like Find, but a missing key is a lookup failure, and panics.
func (t *Tree[K, V]) Cursor(key K) Cursor[K, V] {
	c, ok := t.Find(key)
	if !ok {
		notFoundf("tree key %v", key)
	}
	return c
}

// Search with a probe that reports where the sought element lies relative to
// a node key: negative for before, positive for after, zero for found.
func (t *Tree[K, V]) Search(probe func(K) int) (Cursor[K, V], bool) {
	n, direction := t.find(probe)
	if n == nilNode || direction != 0 {
		return Cursor[K, V]{}, false
	}
	return t.cursor(n), true
}

// Find the nodes on either side of a probe which is not itself in the tree.
// Either cursor may be invalid if the probe lies beyond the ends. A probe that
// reports zero for some node is treated as lying on it, and gets that node's
// neighbors.
func (t *Tree[K, V]) Bracket(probe func(K) int) (prev, next Cursor[K, V]) {
	n := t.root
	for n != nilNode {
		c := probe(t.nodes[n].key)
		switch {
		case c < 0:
			next = t.cursor(n)
			n = t.nodes[n].left
		case c > 0:
			prev = t.cursor(n)
			n = t.nodes[n].right
		default:
			found := t.cursor(n)
			if found.HasPrev() {
				prev = found.Prev()
			}
			if found.HasNext() {
				next = found.Next()
			}
			return prev, next
		}
	}
	return prev, next
}

// Delete the node holding key, and return its value. A missing key is a
// lookup failure, and panics.
func (t *Tree[K, V]) Delete(key K) V {
	c := t.Cursor(key)
	value := c.Value()
	t.remove(c.node)
	return value
}

func (t *Tree[K, V]) Min() (Cursor[K, V], bool) {
	if t.root == nilNode {
		return Cursor[K, V]{}, false
	}
	return t.cursor(t.leftmost(t.root)), true
}

func (t *Tree[K, V]) Max() (Cursor[K, V], bool) {
	if t.root == nilNode {
		return Cursor[K, V]{}, false
	}
	return t.cursor(t.rightmost(t.root)), true
}

// The i-th smallest entry, counting from zero.
func (t *Tree[K, V]) Select(i int) (Cursor[K, V], bool) {
	if i < 0 || i >= t.Len() {
		return Cursor[K, V]{}, false
	}
	n := t.root
	for {
		leftSize := t.size(t.nodes[n].left)
		switch {
		case i < leftSize:
			n = t.nodes[n].left
		case i > leftSize:
			i -= leftSize + 1
			n = t.nodes[n].right
		default:
			return t.cursor(n), true
		}
	}
}

// Visit entries in order until fn returns false.
func (t *Tree[K, V]) Each(fn func(key K, value V) bool) {
	c, ok := t.Min()
	for ok {
		if !fn(c.Key(), c.Value()) {
			return
		}
		if !c.HasNext() {
			return
		}
		c = c.Next()
	}
}

func (t *Tree[K, V]) Keys() []K {
	keys := make([]K, 0, t.Len())
	t.Each(func(key K, _ V) bool {
		keys = append(keys, key)
		return true
	})
	return keys
}

func (t *Tree[K, V]) Clear() {
	t.nodes = nil
	t.free = nil
	t.root = nilNode
}

func (t *Tree[K, V]) cursor(n int) Cursor[K, V] {
	return Cursor[K, V]{tree: t, node: n}
}

// Walk down from the root. Returns the matching node with direction 0, or the
// node under which the probe would be attached, with the side to attach on.
func (t *Tree[K, V]) find(probe func(K) int) (int, int) {
	n := t.root
	for n != nilNode {
		c := probe(t.nodes[n].key)
		switch {
		case c < 0:
			if t.nodes[n].left == nilNode {
				return n, -1
			}
			n = t.nodes[n].left
		case c > 0:
			if t.nodes[n].right == nilNode {
				return n, 1
			}
			n = t.nodes[n].right
		default:
			return n, 0
		}
	}
	return nilNode, 0
}

func (t *Tree[K, V]) alloc(key K, value V) int {
	node := treeNode[K, V]{
		key:    key,
		value:  value,
		parent: nilNode,
		left:   nilNode,
		right:  nilNode,
		height: 1,
		size:   1,
	}
	if len(t.free) > 0 {
		n := t.free[len(t.free)-1]
		t.free = t.free[:len(t.free)-1]
		t.nodes[n] = node
		return n
	}
	t.nodes = append(t.nodes, node)
	return len(t.nodes) - 1
}

func (t *Tree[K, V]) release(n int) {
	// Drop the key and value so the arena doesn't keep them alive
	t.nodes[n] = treeNode[K, V]{parent: nilNode, left: nilNode, right: nilNode}
	t.free = append(t.free, n)
}

func (t *Tree[K, V]) remove(n int) {
	if t.nodes[n].left != nilNode && t.nodes[n].right != nilNode {
		// Move the successor's entry here, then unlink the successor, which has
		// no left child
		s := t.leftmost(t.nodes[n].right)
		t.nodes[n].key = t.nodes[s].key
		t.nodes[n].value = t.nodes[s].value
		n = s
	}

	child := t.nodes[n].left
	if child == nilNode {
		child = t.nodes[n].right
	}
	parent := t.nodes[n].parent
	if child != nilNode {
		t.nodes[child].parent = parent
	}
	t.replaceChild(parent, n, child)
	t.release(n)
	t.retrace(parent)
}

func (t *Tree[K, V]) replaceChild(parent, old, new int) {
	switch {
	case parent == nilNode:
		t.root = new
	case t.nodes[parent].left == old:
		t.nodes[parent].left = new
	default:
		t.nodes[parent].right = new
	}
}

// Walk from n up to the root, updating heights and sizes and rotating any
// node that has become unbalanced. Sizes change all the way up, so unlike a
// plain AVL tree this never stops early.
func (t *Tree[K, V]) retrace(n int) {
	for n != nilNode {
		t.update(n)
		if balance := t.balance(n); balance > 1 {
			// Right heavy. If the right subtree leans left, straighten it first.
			if t.balance(t.nodes[n].right) < 0 {
				t.rotateRight(t.nodes[n].right)
			}
			n = t.rotateLeft(n)
		} else if balance < -1 {
			if t.balance(t.nodes[n].left) > 0 {
				t.rotateLeft(t.nodes[n].left)
			}
			n = t.rotateRight(n)
		}
		if t.nodes[n].parent == nilNode {
			t.root = n
		}
		n = t.nodes[n].parent
	}
}

func (t *Tree[K, V]) rotateLeft(a int) int {
	b := t.nodes[a].right
	parent := t.nodes[a].parent
	t.replaceChild(parent, a, b)
	t.nodes[b].parent = parent

	t.nodes[a].right = t.nodes[b].left
	if t.nodes[a].right != nilNode {
		t.nodes[t.nodes[a].right].parent = a
	}
	t.nodes[b].left = a
	t.nodes[a].parent = b

	t.update(a)
	t.update(b)
	return b
}

func (t *Tree[K, V]) rotateRight(a int) int {
	b := t.nodes[a].left
	parent := t.nodes[a].parent
	t.replaceChild(parent, a, b)
	t.nodes[b].parent = parent

	t.nodes[a].left = t.nodes[b].right
	if t.nodes[a].left != nilNode {
		t.nodes[t.nodes[a].left].parent = a
	}
	t.nodes[b].right = a
	t.nodes[a].parent = b

	t.update(a)
	t.update(b)
	return b
}

func (t *Tree[K, V]) update(n int) {
	left, right := t.nodes[n].left, t.nodes[n].right
	t.nodes[n].height = max(t.height(left), t.height(right)) + 1
	t.nodes[n].size = t.size(left) + t.size(right) + 1
}

func (t *Tree[K, V]) balance(n int) int {
	return t.height(t.nodes[n].right) - t.height(t.nodes[n].left)
}

func (t *Tree[K, V]) height(n int) int {
	if n == nilNode {
		return 0
	}
	return t.nodes[n].height
}

func (t *Tree[K, V]) size(n int) int {
	if n == nilNode {
		return 0
	}
	return t.nodes[n].size
}

func (t *Tree[K, V]) leftmost(n int) int {
	for t.nodes[n].left != nilNode {
		n = t.nodes[n].left
	}
	return n
}

func (t *Tree[K, V]) rightmost(n int) int {
	for t.nodes[n].right != nilNode {
		n = t.nodes[n].right
	}
	return n
}

func (t *Tree[K, V]) predecessor(n int) int {
	if t.nodes[n].left != nilNode {
		return t.rightmost(t.nodes[n].left)
	}
	for t.nodes[n].parent != nilNode && t.nodes[t.nodes[n].parent].left == n {
		n = t.nodes[n].parent
	}
	return t.nodes[n].parent
}

func (t *Tree[K, V]) successor(n int) int {
	if t.nodes[n].right != nilNode {
		return t.leftmost(t.nodes[n].right)
	}
	for t.nodes[n].parent != nilNode && t.nodes[t.nodes[n].parent].right == n {
		n = t.nodes[n].parent
	}
	return t.nodes[n].parent
}

func (c Cursor[K, V]) Valid() bool {
	return c.tree != nil && c.node != nilNode
}

func (c Cursor[K, V]) Key() K {
	return c.tree.nodes[c.node].key
}

func (c Cursor[K, V]) Value() V {
	return c.tree.nodes[c.node].value
}

// Replace the key at this position without checking the ordering. The caller
// is responsible for keeping the tree's order meaningful.
func (c Cursor[K, V]) SetKey(key K) {
	c.tree.nodes[c.node].key = key
}

func (c Cursor[K, V]) SetValue(value V) {
	c.tree.nodes[c.node].value = value
}

func (c Cursor[K, V]) HasPrev() bool {
	return c.tree.predecessor(c.node) != nilNode
}

func (c Cursor[K, V]) HasNext() bool {
	return c.tree.successor(c.node) != nilNode
}

// The previous position. Check HasPrev first; past the end the returned
// cursor is invalid.
func (c Cursor[K, V]) Prev() Cursor[K, V] {
	return c.tree.cursor(c.tree.predecessor(c.node))
}

func (c Cursor[K, V]) Next() Cursor[K, V] {
	return c.tree.cursor(c.tree.successor(c.node))
}

// Number of entries before this one.
func (c Cursor[K, V]) Rank() int {
	t := c.tree
	n := c.node
	rank := t.size(t.nodes[n].left)
	for t.nodes[n].parent != nilNode {
		parent := t.nodes[n].parent
		if t.nodes[parent].right == n {
			rank += t.size(t.nodes[parent].left) + 1
		}
		n = parent
	}
	return rank
}
