package internal

import (
	"fmt"
	"strings"
)

// A chain is the run of untriangulated points directly behind the sweep line,
// in counterclockwise (widder) order, bounded above by the edge leaving its
// deasil end and below by the edge leaving its widder end. Chains are not
// necessarily monotone in y. They're kept in a tree ordered by vertical
// position, with two entries per chain, one for each end.
type chain struct {
	points []*wrappedPoint
	// Index of the point furthest along the sweep, where the chain would split
	posxIndex int
}

func newChain(points ...*wrappedPoint) *chain {
	c := &chain{points: make([]*wrappedPoint, len(points))}
	copy(c.points, points)
	return c
}

func (c *chain) String() string {
	parts := make([]string, len(c.points))
	for i, p := range c.points {
		parts[i] = p.String()
	}
	return fmt.Sprintf("Chain(%s)", strings.Join(parts, ", "))
}

func (c *chain) deasilPoint() *wrappedPoint {
	return c.points[0]
}

func (c *chain) widderPoint() *wrappedPoint {
	return c.points[len(c.points)-1]
}

func (c *chain) posxPoint() *wrappedPoint {
	return c.points[c.posxIndex]
}

func (c *chain) deasilKey() chainEnd {
	return chainEnd{c, deasil}
}

func (c *chain) widderKey() chainEnd {
	return chainEnd{c, widder}
}

// The end point in the given direction.
func (c *chain) dirPoint(dir clockDir) *wrappedPoint {
	if dir == deasil {
		return c.deasilPoint()
	}
	return c.widderPoint()
}

// The ring point just past the end in the given direction.
func (c *chain) dirDirPoint(dir clockDir) *wrappedPoint {
	if dir == deasil {
		return c.deasilPoint().deasil
	}
	return c.widderPoint().widder
}

// The last two points at the given end, in widder order either way.
func (c *chain) dirPair(dir clockDir) (*wrappedPoint, *wrappedPoint) {
	if dir == deasil {
		return c.points[0], c.points[1]
	}
	return c.points[len(c.points)-2], c.points[len(c.points)-1]
}

// The bounding edge leaving the given end.
func (c *chain) dirSegment(dir clockDir) Segment {
	return c.dirPoint(dir).dirSegment(dir)
}

// Add a point to one end, clipping every ear it forms with that end.
func (c *chain) addPoint(p *wrappedPoint, dir clockDir) []Triangle {
	var triangles []Triangle
	for len(c.points) > 1 {
		p1, p2 := c.dirPair(dir)
		if Orientation(p1.Point, p2.Point, p.Point) != -1 {
			break
		}
		if p1.index == p2.index || p2.index == p.index || p.index == p1.index {
			fatalf("degenerate triangle %v %v %v", p1, p2, p)
		}
		triangles = append(triangles, Triangle{p1.index, p2.index, p.index})
		if dir == deasil {
			c.points = c.points[1:]
		} else {
			c.points = c.points[:len(c.points)-1]
		}
	}

	if dir == deasil {
		c.points = append([]*wrappedPoint{p}, c.points...)
		c.posxIndex = 0
	} else {
		c.points = append(c.points, p)
		c.posxIndex = len(c.points) - 1
	}
	return triangles
}

// Vertical span of the chain at x, from its upper (deasil) bound to its lower
// (widder) bound.
type chainInterval struct {
	upper, lower float64
}

func (a chainInterval) less(b chainInterval) bool {
	if a.upper != b.upper {
		return a.upper < b.upper
	}
	return a.lower < b.lower
}

func (c *chain) intervalAt(x float64) chainInterval {
	var interval chainInterval
	d := c.deasilPoint()
	if d.deasil.X == d.X {
		interval.upper = max(d.Y, d.deasil.Y)
	} else {
		interval.upper = d.Y + d.deasilSegment.Slope()*(x-d.X)
	}
	w := c.widderPoint()
	if w.widder.X == w.X {
		interval.lower = min(w.Y, w.widder.Y)
	} else {
		interval.lower = w.Y + w.widderSegment.Slope()*(x-w.X)
	}
	if interval.upper < interval.lower {
		fatalf("chain %v is inverted at x=%v: %+v", c, x, interval)
	}
	return interval
}

// One end of a chain, as a key in the chain tree. Within a chain, the widder
// end sorts below the deasil end.
type chainEnd struct {
	chain *chain
	dir   clockDir
}

func (e chainEnd) String() string {
	return fmt.Sprintf("ChainEnd(%v %v %v)", e.point(), e.dir, e.chain)
}

func (e chainEnd) point() *wrappedPoint {
	return e.chain.dirPoint(e.dir)
}

func chainEndLess(a, b chainEnd) bool {
	if a.chain == b.chain {
		return a.dir == widder && b.dir == deasil
	}
	x := max(
		a.chain.deasilPoint().X,
		a.chain.widderPoint().X,
		b.chain.deasilPoint().X,
		b.chain.widderPoint().X,
	)
	aInterval, bInterval := a.chain.intervalAt(x), b.chain.intervalAt(x)
	if aInterval != bInterval {
		return aInterval.less(bInterval)
	}
	return compareMeanBearings(a.point(), b.point()) < 0
}

func compareChainEnds(a, b chainEnd) int {
	switch {
	case a == b:
		return 0
	case chainEndLess(a, b):
		return -1
	case chainEndLess(b, a):
		return 1
	}
	fatalf("cannot order %v and %v", a, b)
	return 0
}

// Whether this end lies below the point. below and above are mirror images,
// and neither holds only when the point is somehow on the end's boundary.
func (e chainEnd) below(p *wrappedPoint) bool {
	return e.sideOf(p) < 0
}

func (e chainEnd) above(p *wrappedPoint) bool {
	return e.sideOf(p) > 0
}

// -1 if the end is below p, 1 if above, 0 if neither.
func (e chainEnd) sideOf(p *wrappedPoint) int {
	c := e.chain
	toward := func(dir clockDir) int {
		if e.dir == dir {
			return -1
		}
		return 1
	}

	// Both ends of the chain close at p
	if c.dirDirPoint(deasil) == p && c.dirDirPoint(widder) == p {
		return toward(widder)
	}
	// p is the next point along this end's bounding edge
	if p == c.dirDirPoint(e.dir) {
		return toward(deasil)
	}
	if end := c.dirPoint(e.dir); p.Point == end.Point {
		return compareMeanBearings(end, p)
	}
	if next := c.dirDirPoint(e.dir); p.Point == next.Point {
		return compareMeanBearings(next, p)
	}
	segment := c.dirSegment(e.dir)
	if segment.IsVertical() {
		return compareFloats(segment.MaxY(), p.Y)
	}
	return compareFloats(segment.YAt(p.X), p.Y)
}

// The registry of live chains, and the triangles they've produced.
type chainSet struct {
	tree      *Tree[chainEnd, *chain]
	triangles []Triangle
}

func newChainSet(pointCount int) *chainSet {
	return &chainSet{
		tree:      NewTree[chainEnd, *chain](compareChainEnds),
		triangles: make([]Triangle, 0, max(pointCount-2, 0)),
	}
}

func (cs *chainSet) create(p *wrappedPoint) *chain {
	c := newChain(p)
	cs.add(c)
	return c
}

func (cs *chainSet) add(c *chain) {
	cs.tree.Put(c.deasilKey(), c)
	cs.tree.Put(c.widderKey(), c)
}

func (cs *chainSet) remove(c *chain) {
	cs.tree.Delete(c.deasilKey())
	cs.tree.Delete(c.widderKey())
}

// Extend a chain with a point at one end. A chain that closes at a LEAVE is
// left out of the tree.
func (cs *chainSet) extend(c *chain, p *wrappedPoint, dir clockDir) {
	if c == nil {
		fatalf("no chain to extend with %v", p)
	}
	cs.remove(c)
	cs.triangles = append(cs.triangles, c.addPoint(p, dir)...)
	if !(len(c.points) == 2 && c.deasilPoint().deasil == c.widderPoint()) {
		cs.add(c)
	}
}

// Split the chain around a SPLIT point at its furthest point, connecting both
// halves to the new point.
func (cs *chainSet) split(p *wrappedPoint) {
	deasilChain, widderChain := cs.nearest(p)
	if deasilChain == nil || deasilChain != widderChain {
		fatalf("SPLIT point %v is not inside a single chain", p)
	}
	c := deasilChain
	cs.remove(c)
	deasilHalf := newChain(c.points[:c.posxIndex+1]...)
	widderHalf := newChain(c.points[c.posxIndex:]...)
	cs.triangles = append(cs.triangles, deasilHalf.addPoint(p, widder)...)
	cs.triangles = append(cs.triangles, widderHalf.addPoint(p, deasil)...)
	cs.add(deasilHalf)
	cs.add(widderHalf)
}

// Join the two chains that meet at a MERGE point.
func (cs *chainSet) mergeAt(p *wrappedPoint) {
	deasilChain, widderChain := cs.nearest(p)
	if deasilChain == nil || widderChain == nil {
		fatalf("MERGE point %v is missing a chain", p)
	}
	if deasilChain.widderPoint().widder != p || widderChain.deasilPoint().deasil != p {
		fatalf("chains %v and %v do not meet at MERGE point %v", deasilChain, widderChain, p)
	}
	cs.remove(deasilChain)
	cs.remove(widderChain)
	cs.triangles = append(cs.triangles, deasilChain.addPoint(p, widder)...)
	cs.triangles = append(cs.triangles, widderChain.addPoint(p, deasil)...)

	// p now ends the deasil chain and starts the widder chain
	offset := len(deasilChain.points) - 1
	deasilChain.points = append(deasilChain.points, widderChain.points[1:]...)
	if widderChain.posxPoint().Compare(deasilChain.posxPoint().Point) > 0 {
		deasilChain.posxIndex = offset + widderChain.posxIndex
	}
	cs.add(deasilChain)
}

// The chains directly above (deasil) and below (widder) a point. Either may
// be nil.
func (cs *chainSet) nearest(p *wrappedPoint) (deasilChain, widderChain *chain) {
	prev, next := cs.tree.Bracket(func(e chainEnd) int {
		switch side := e.sideOf(p); {
		case side < 0:
			return 1
		case side > 0:
			return -1
		}
		fatalf("point %v lies on %v", p, e)
		return 0
	})
	if next.Valid() {
		deasilChain = next.Value()
	}
	if prev.Valid() {
		widderChain = prev.Value()
	}
	return deasilChain, widderChain
}

// Check tree order and the posx bookkeeping. Quadratic, for tests.
func (cs *chainSet) validate() {
	keys := cs.tree.Keys()
	for i, key := range keys {
		if (i%2 == 0) != (key.dir == widder) {
			fatalf("chain ends out of order at %d: %v", i, key)
		}
		c := key.chain
		if !cs.tree.Has(c.deasilKey()) || !cs.tree.Has(c.widderKey()) {
			fatalf("chain %v is missing an end", c)
		}
		for _, p := range c.points {
			if p.Compare(c.posxPoint().Point) > 0 {
				fatalf("chain %v has %v past its posx point", c, p)
			}
		}
		for _, other := range keys[i+1:] {
			if !chainEndLess(key, other) || chainEndLess(other, key) {
				fatalf("chain ends %v and %v are inconsistently ordered", key, other)
			}
		}
	}
}
