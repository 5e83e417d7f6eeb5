package internal

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compareInts(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// Walk the whole tree checking links, heights, sizes, balance and order.
// Returns the number of nodes reached.
func checkTree[K, V any](t *testing.T, tree *Tree[K, V]) int {
	t.Helper()
	if tree.root == nilNode {
		return 0
	}
	require.Equal(t, nilNode, tree.nodes[tree.root].parent, "root has a parent")

	var walk func(n int) (height, size int)
	walk = func(n int) (int, int) {
		if n == nilNode {
			return 0, 0
		}
		node := tree.nodes[n]
		for _, child := range []int{node.left, node.right} {
			if child != nilNode {
				require.Equal(t, n, tree.nodes[child].parent, "child %d of %d has wrong parent", child, n)
			}
		}
		if node.left != nilNode {
			require.Negative(t, tree.compare(tree.nodes[node.left].key, node.key), "left child out of order at %d", n)
		}
		if node.right != nilNode {
			require.Positive(t, tree.compare(tree.nodes[node.right].key, node.key), "right child out of order at %d", n)
		}
		leftHeight, leftSize := walk(node.left)
		rightHeight, rightSize := walk(node.right)
		require.LessOrEqual(t, rightHeight-leftHeight, 1, "unbalanced at %d", n)
		require.GreaterOrEqual(t, rightHeight-leftHeight, -1, "unbalanced at %d", n)
		height := max(leftHeight, rightHeight) + 1
		size := leftSize + rightSize + 1
		require.Equal(t, height, node.height, "stale height at %d", n)
		require.Equal(t, size, node.size, "stale size at %d", n)
		return height, size
	}
	_, size := walk(tree.root)

	keys := tree.Keys()
	for i := 1; i < len(keys); i++ {
		require.Negative(t, tree.compare(keys[i-1], keys[i]), "keys out of order at %d", i)
	}
	require.Equal(t, size, len(keys))
	return size
}

func TestTree_RandomInsertDelete(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	tree := NewTree[int, int](compareInts)
	present := make(map[int]bool)

	for step := 0; step < 3000; step++ {
		key := rng.Intn(500)
		if present[key] && rng.Intn(3) > 0 {
			assert.Equal(t, key*10, tree.Delete(key))
			delete(present, key)
		} else {
			tree.Put(key, key*10)
			present[key] = true
		}
		if step%50 == 0 {
			require.Equal(t, len(present), checkTree(t, tree))
		}
	}
	require.Equal(t, len(present), checkTree(t, tree))
	require.Equal(t, len(present), tree.Len())

	var expected []int
	for key := range present {
		expected = append(expected, key)
	}
	sort.Ints(expected)
	assert.Equal(t, expected, tree.Keys())

	for i, key := range expected {
		c, ok := tree.Select(i)
		require.True(t, ok)
		assert.Equal(t, key, c.Key())
		assert.Equal(t, i, c.Rank())
	}

	// Deleting everything leaves the arena for reuse
	for _, key := range expected {
		tree.Delete(key)
	}
	assert.Equal(t, 0, tree.Len())
	assert.Equal(t, 0, checkTree(t, tree))
	_, ok := tree.Min()
	assert.False(t, ok)
}

func TestTree_SequentialInsertStaysBalanced(t *testing.T) {
	tree := NewTree[int, string](compareInts)
	for i := 0; i < 1024; i++ {
		tree.Put(i, "")
	}
	checkTree(t, tree)
	// A perfectly balanced tree of 1024 nodes has height 11, and AVL allows
	// at most about 1.44 times that
	assert.LessOrEqual(t, tree.height(tree.root), 15)
}

func TestTree_PutReplacesValue(t *testing.T) {
	tree := NewTree[int, string](compareInts)
	tree.Put(1, "one")
	c := tree.Put(1, "uno")
	assert.Equal(t, "uno", c.Value())
	assert.Equal(t, 1, tree.Len())

	value, ok := tree.Get(1)
	assert.True(t, ok)
	assert.Equal(t, "uno", value)
	_, ok = tree.Get(2)
	assert.False(t, ok)
	assert.True(t, tree.Has(1))
	assert.False(t, tree.Has(2))
}

func TestTree_CursorNavigation(t *testing.T) {
	tree := NewTree[int, string](compareInts)
	for _, key := range []int{50, 20, 80, 10, 30, 70, 90} {
		tree.Put(key, "")
	}

	c := tree.Cursor(30)
	require.True(t, c.HasPrev())
	require.True(t, c.HasNext())
	assert.Equal(t, 20, c.Prev().Key())
	assert.Equal(t, 50, c.Next().Key())
	assert.Equal(t, 2, c.Rank())

	first, ok := tree.Min()
	require.True(t, ok)
	assert.Equal(t, 10, first.Key())
	assert.False(t, first.HasPrev())
	assert.False(t, first.Prev().Valid())

	last, ok := tree.Max()
	require.True(t, ok)
	assert.Equal(t, 90, last.Key())
	assert.False(t, last.HasNext())

	var forward []int
	for c := first; ; c = c.Next() {
		forward = append(forward, c.Key())
		if !c.HasNext() {
			break
		}
	}
	assert.Equal(t, []int{10, 20, 30, 50, 70, 80, 90}, forward)

	var backward []int
	for c := last; ; c = c.Prev() {
		backward = append(backward, c.Key())
		if !c.HasPrev() {
			break
		}
	}
	assert.Equal(t, []int{90, 80, 70, 50, 30, 20, 10}, backward)

	_, ok = tree.Select(7)
	assert.False(t, ok)
	_, ok = tree.Select(-1)
	assert.False(t, ok)
}

func TestTree_EachStopsEarly(t *testing.T) {
	tree := NewTree[int, int](compareInts)
	for i := 0; i < 10; i++ {
		tree.Put(i, i*i)
	}
	var seen []int
	tree.Each(func(key, value int) bool {
		seen = append(seen, value)
		return key < 3
	})
	assert.Equal(t, []int{0, 1, 4, 9}, seen)
}

func TestTree_Bracket(t *testing.T) {
	tree := NewTree[int, string](compareInts)
	for _, key := range []int{10, 20, 30, 40} {
		tree.Put(key, "")
	}
	probe := func(target int) func(int) int {
		return func(key int) int { return compareInts(target, key) }
	}

	prev, next := tree.Bracket(probe(25))
	assert.Equal(t, 20, prev.Key())
	assert.Equal(t, 30, next.Key())

	prev, next = tree.Bracket(probe(5))
	assert.False(t, prev.Valid())
	assert.Equal(t, 10, next.Key())

	prev, next = tree.Bracket(probe(45))
	assert.Equal(t, 40, prev.Key())
	assert.False(t, next.Valid())

	// Landing on a node gives its neighbors
	prev, next = tree.Bracket(probe(30))
	assert.Equal(t, 20, prev.Key())
	assert.Equal(t, 40, next.Key())

	empty := NewTree[int, string](compareInts)
	prev, next = empty.Bracket(probe(1))
	assert.False(t, prev.Valid())
	assert.False(t, next.Valid())
}

// Keys that depend on external state, the way sweep keys depend on the sweep
// position.
type movingKey struct {
	name  string
	value *float64
}

func TestTree_SetKeySwapsInPlace(t *testing.T) {
	a, b, c := 1.0, 2.0, 3.0
	tree := NewTree[*movingKey, string](func(x, y *movingKey) int {
		switch {
		case *x.value < *y.value:
			return -1
		case *x.value > *y.value:
			return 1
		}
		return 0
	})
	ka := &movingKey{"a", &a}
	kb := &movingKey{"b", &b}
	kc := &movingKey{"c", &c}
	tree.Put(ka, "a")
	tree.Put(kb, "b")
	tree.Put(kc, "c")

	// a and b cross. Their stored values swap, then the entries are swapped
	// through cursors so the tree is ordered again.
	a, b = 2.0, 1.0
	upper := tree.Cursor(kb)
	lower := upper.Prev()
	upper.SetKey(ka)
	upper.SetValue("a")
	lower.SetKey(kb)
	lower.SetValue("b")

	var names []string
	tree.Each(func(_ *movingKey, value string) bool {
		names = append(names, value)
		return true
	})
	assert.Equal(t, []string{"b", "a", "c"}, names)
	assert.Equal(t, 1, tree.Cursor(ka).Rank())
	assert.Equal(t, 0, tree.Cursor(kb).Rank())
	checkTree(t, tree)
}

func TestTree_MissingKeyPanics(t *testing.T) {
	tree := NewTree[int, string](compareInts)
	tree.Put(1, "one")

	for name, fn := range map[string]func(){
		"cursor": func() { tree.Cursor(2) },
		"delete": func() { tree.Delete(2) },
	} {
		t.Run(name, func(t *testing.T) {
			err := func() (err error) {
				defer func() { err = HandlePanicRecover(recover()) }()
				fn()
				return nil
			}()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrNotFound))
			assert.Contains(t, err.Error(), "tree key 2")
		})
	}
	assert.Equal(t, 1, tree.Len())
}

func TestTree_Clear(t *testing.T) {
	tree := NewTree[int, string](compareInts)
	tree.Put(1, "one")
	tree.Put(2, "two")
	tree.Clear()
	assert.Equal(t, 0, tree.Len())
	assert.False(t, tree.Has(1))
	tree.Put(3, "three")
	assert.Equal(t, []int{3}, tree.Keys())
}
