package internal

import (
	"fmt"
	"math"
)

// Monotone polygon triangulation in a single sweep.
//
// The textbook approach first partitions the polygon into monotone pieces and
// then triangulates each piece. Here both happen in one pass of a sweep line
// moving from negative x to positive x. Behind the line, the untriangulated
// points are kept in chains (see chain.go), each bounded above and below by
// polygon edges that extend ahead of the line. Each vertex is classified by
// the direction of its two edges, and the classification decides what happens
// to the chains when the sweep reaches it.
//
// Beyond simple polygons, this handles vertical edges, holes joined to the
// outside by zero width bridges, and rings which visit the same coordinate
// more than once. Polygons with zero width interiors are not supported.
//
// The polygon must be counterclockwise.

// Vertex classification. The order matters: at equal coordinates, points are
// processed in this order.
type pointType int

const (
	// Both neighbors behind the sweep, convex. Closes a chain.
	pointLeave pointType = iota
	// Both neighbors behind the sweep, reflex. Joins two chains.
	pointMerge
	// One neighbor on each side. Extends a chain.
	pointFlank
	// Both neighbors ahead of the sweep, reflex. Splits a chain.
	pointSplit
	// Both neighbors ahead of the sweep, convex. Starts a chain.
	pointEnter
)

func (kind pointType) String() string {
	switch kind {
	case pointLeave:
		return "LEAVE"
	case pointMerge:
		return "MERGE"
	case pointFlank:
		return "FLANK"
	case pointSplit:
		return "SPLIT"
	case pointEnter:
		return "ENTER"
	}
	return "UNKNOWN"
}

// Deasil is clockwise, widder (widdershins) is counterclockwise.
type clockDir int

const (
	deasil clockDir = -1
	widder clockDir = 1
)

func (dir clockDir) String() string {
	if dir == deasil {
		return "DEASIL"
	}
	return "WIDDER"
}

// A polygon vertex with its ring neighbors. The same coordinate can appear
// several times in a ring, so vertices are always identified by pointer.
type wrappedPoint struct {
	Point
	ring  int
	index int
	kind  pointType

	deasil        *wrappedPoint
	widder        *wrappedPoint
	deasilSegment Segment // deasil neighbor to this point
	widderSegment Segment // this point to widder neighbor

	// Whichever neighbor is further along the sweep
	posx *wrappedPoint
}

func (p *wrappedPoint) String() string {
	return fmt.Sprintf("%d:%d:%v", p.ring, p.index, p.Point)
}

func (p *wrappedPoint) dirSegment(dir clockDir) Segment {
	if dir == deasil {
		return p.deasilSegment
	}
	return p.widderSegment
}

func wrapRing(ring int, points []Point) []*wrappedPoint {
	n := len(points)
	wrapped := make([]*wrappedPoint, n)
	for i, point := range points {
		wrapped[i] = &wrappedPoint{Point: point, ring: ring, index: i}
	}
	for i, p := range wrapped {
		p.deasil = wrapped[CircularIndex(i-1, n)]
		p.widder = wrapped[CircularIndex(i+1, n)]
		p.deasilSegment = Segment{p.deasil.Point, p.Point}
		p.widderSegment = Segment{p.Point, p.widder.Point}
		if p.deasil.Less(p.Point) {
			p.posx = p.widder
		} else {
			p.posx = p.deasil
		}
		p.kind = classify(p)
	}
	return wrapped
}

func classify(p *wrappedPoint) pointType {
	orientation := Orientation(p.deasil.Point, p.Point, p.widder.Point)
	deasilCompare := p.deasil.Compare(p.Point)
	widderCompare := p.widder.Compare(p.Point)
	switch {
	case deasilCompare > 0 && widderCompare > 0:
		if orientation == -1 {
			return pointEnter
		} else if orientation == 1 {
			return pointSplit
		}
	case deasilCompare < 0 && widderCompare < 0:
		if orientation == -1 {
			return pointLeave
		} else if orientation == 1 {
			return pointMerge
		}
	}
	return pointFlank
}

// Mean outward bearings of a point's edges, split into the edges pointing
// back along the sweep (negx) and forward (posx). The bearings are remapped so
// that a smaller value is lower in y. An absent side has its has flag unset.
type meanBearings struct {
	negx, posx       float64
	hasNegx, hasPosx bool
}

func (p *wrappedPoint) meanBearings() meanBearings {
	deasilBearing := p.deasilSegment.Twin().Bearing()
	widderBearing := p.widderSegment.Bearing()
	mean := (deasilBearing + widderBearing) / 2
	if math.Abs(deasilBearing-widderBearing) > math.Pi {
		mean -= math.Pi
	}

	pointsNegx := p.deasil.X < p.X || p.widder.X < p.X
	pointsPosx := p.X < p.deasil.X || p.X < p.widder.X
	var result meanBearings
	switch {
	case pointsNegx && !pointsPosx:
		result = meanBearings{negx: mean, hasNegx: true}
	case !pointsNegx && pointsPosx:
		result = meanBearings{posx: mean, hasPosx: true}
	case p.deasil.X < p.X && p.X < p.widder.X:
		result = meanBearings{negx: deasilBearing, posx: widderBearing, hasNegx: true, hasPosx: true}
	case p.widder.X < p.X && p.X < p.deasil.X:
		result = meanBearings{negx: widderBearing, posx: deasilBearing, hasNegx: true, hasPosx: true}
	default:
		fatalf("point %v has no edges leaving it horizontally", p)
	}

	if result.hasNegx {
		if !(math.Pi/2 < result.negx && result.negx < 3*math.Pi/2) {
			fatalf("negative x bearing %v out of range at %v", result.negx, p)
		}
		result.negx = 3*math.Pi/2 - result.negx
	}
	if result.hasPosx {
		if !(result.posx < math.Pi/2 || result.posx > 3*math.Pi/2) {
			fatalf("positive x bearing %v out of range at %v", result.posx, p)
		}
		result.posx = math.Mod(result.posx+math.Pi/2, 2*math.Pi)
		if result.posx < 0 {
			result.posx += 2 * math.Pi
		}
	}
	return result
}

// Order two points at the same coordinate by the mean bearings of their
// edges, which is their vertical order just off the shared coordinate.
func compareMeanBearings(p1, p2 *wrappedPoint) int {
	m1, m2 := p1.meanBearings(), p2.meanBearings()
	switch {
	case m1.hasNegx && m1.hasPosx && m2.hasNegx && m2.hasPosx:
		consistent := m1.negx == m2.negx ||
			m1.posx == m2.posx ||
			((m1.negx < m2.negx) == (m1.posx < m2.posx) &&
				(m1.negx > m2.negx) == (m1.posx > m2.posx))
		if !consistent {
			fatalf("edges at %v and %v cross: %+v %+v", p1, p2, m1, m2)
		}
		switch {
		case m1.negx < m2.negx && m1.posx <= m2.posx:
			return -1
		case m1.negx <= m2.negx && m1.posx < m2.posx:
			return -1
		case m1.negx > m2.negx && m1.posx >= m2.posx:
			return 1
		case m1.negx >= m2.negx && m1.posx > m2.posx:
			return 1
		case m1.negx == m2.negx && m1.posx == m2.posx:
			return 0
		}
		fatalf("cannot order %v and %v: %+v %+v", p1, p2, m1, m2)
	case m1.hasNegx && m2.hasNegx:
		return compareFloats(m1.negx, m2.negx)
	case m1.hasPosx && m2.hasPosx:
		return compareFloats(m1.posx, m2.posx)
	case !m1.hasPosx:
		// One point only reaches back and the other only forward, like a
		// LEAVE and an ENTER. The one reaching back goes second.
		return 1
	case !m2.hasPosx:
		return -1
	}
	fatalf("cannot order %v and %v: %+v %+v", p1, p2, m1, m2)
	return 0
}

func compareFloats(a, b float64) int {
	if a < b {
		return -1
	} else if a > b {
		return 1
	}
	return 0
}

// Sweep order: (x, y, kind), then mean bearings for distinct vertices that
// share a coordinate and kind.
func pointLess(a, b *wrappedPoint) bool {
	if a == b {
		return false
	}
	if c := a.Compare(b.Point); c != 0 {
		return c < 0
	}
	if a.kind != b.kind {
		return a.kind < b.kind
	}
	return compareMeanBearings(a, b) < 0
}

// Checks the chain tree after every point. Slow; tests turn it on.
var validateChains = false

// Triangulate a counterclockwise polygon ring. Holes are expressed by the
// caller as zero width bridges between the outer ring and the hole. Triangles
// are counterclockwise vertex index triples.
func TriangulatePolygon(points []Point) []Triangle {
	if len(points) < 3 {
		fatalf("cannot triangulate degenerate polygon with point count: %d", len(points))
	}

	queue := NewQueue[*wrappedPoint, *wrappedPoint](pointLess)
	for _, p := range wrapRing(0, points) {
		if p.kind == pointEnter || p.kind == pointSplit {
			queue.Push(p, p)
		}
	}
	if _, first, ok := queue.Peek(); !ok || first.kind != pointEnter {
		fatalf("polygon does not start with an ENTER point; is it counterclockwise?")
	}

	chains := newChainSet(len(points))
	// A point can be queued twice: initially, and again once a neighbor is
	// processed
	visited := make(map[*wrappedPoint]bool, len(points))
	for !queue.Empty() {
		_, p := queue.Pop()
		if visited[p] {
			continue
		}
		visited[p] = true
		tracef("%v %v", p.kind.colored(), p)

		switch p.kind {
		case pointEnter:
			chains.create(p)
		case pointLeave:
			deasilChain, widderChain := chains.nearest(p)
			if deasilChain == nil || deasilChain != widderChain {
				fatalf("LEAVE point %v is not inside a single chain", p)
			}
			if deasilChain.widderPoint().widder != p || widderChain.deasilPoint().deasil != p {
				fatalf("LEAVE point %v does not close chain %v", p, deasilChain)
			}
			chains.extend(deasilChain, p, widder)
		case pointSplit:
			chains.split(p)
		case pointMerge:
			chains.mergeAt(p)
		case pointFlank:
			deasilChain, widderChain := chains.nearest(p)
			if p.posx == p.widder {
				chains.extend(deasilChain, p, widder)
			} else {
				chains.extend(widderChain, p, deasil)
			}
		}

		if validateChains {
			chains.validate()
		}

		// Each edge is followed once, from its lesser end
		if p.deasil.Compare(p.Point) > 0 {
			queue.Push(p.deasil, p.deasil)
		}
		if p.widder.Compare(p.Point) > 0 {
			queue.Push(p.widder, p.widder)
		}
	}
	return chains.triangles
}
