package internal

import (
	"math"
	"sort"
)

// Bentley-Ottmann all intersections sweep.
//
// A vertical sweep line moves over the segment endpoints in x order, while a
// balanced tree tracks the vertical order of the segments crossing the line.
// Only segments that are adjacent in the tree are tested against each other,
// and their intersection is queued as a MEET event. At every event, the tree
// and the queued intersections are updated, which gives O((n + k) log n)
// overall.
//
// The tree keys are the segments' y values at the sweep line, so every key
// changes as the line moves. Rather than updating all of them, which would be
// O(n) per event, each key refreshes itself when it's compared at a new sweep
// position. See tree.go for why stale keys are harmless.
//
// Overlapping segments are not supported. Shared endpoints, vertical segments,
// and intersections of three or more segments are. Intersections are rounded
// to a fixed number of digits, and segments meeting at the same rounded point
// are all swapped together in a single MEET.

type eventKind int

const (
	eventStart eventKind = iota + 1
	eventMeet
	eventEnd
)

func (kind eventKind) String() string {
	switch kind {
	case eventStart:
		return "START"
	case eventMeet:
		return "MEET"
	case eventEnd:
		return "END"
	}
	return "UNKNOWN"
}

// Events are ordered by x, then kind, then a tiebreak that depends on the
// kind: the segment for START and END, and the y value for MEET.
type eventPriority struct {
	x       float64
	kind    eventKind
	segment Segment
	y       float64
}

func eventLess(a, b eventPriority) bool {
	if a.x != b.x {
		return a.x < b.x
	}
	if a.kind != b.kind {
		return a.kind < b.kind
	}
	if a.kind == eventMeet {
		return a.y < b.y
	}
	return a.segment.Compare(b.segment) < 0
}

type event struct {
	kind    eventKind
	segment Segment
	point   Point
}

// An intersection point along with the segments that met there. A segment
// appears once per adjacent pair that produced the point, so counts can
// exceed one.
type Intersection struct {
	Point    Point
	Segments map[Segment]int
}

type segmentPair struct {
	a, b Segment
}

type cachedIntersection struct {
	point Point
	ok    bool
}

// Tree key for an active segment. Caches the segment's y value at the sweep
// position it was last computed for.
type segmentWrapper struct {
	segment Segment
	sweep   *intersectionSweep
	x       float64
	y       float64
	hasX    bool
	hasY    bool
}

func (w *segmentWrapper) Y() float64 {
	if !w.hasX || w.x != w.sweep.sweepX {
		w.update()
	}
	return w.y
}

// Force the y value at the current sweep position.
func (w *segmentWrapper) SetY(y float64) {
	w.x = w.sweep.sweepX
	w.hasX = true
	w.y = y
	w.hasY = true
}

func (w *segmentWrapper) update() {
	w.x = w.sweep.sweepX
	w.hasX = true
	if w.segment.IsVertical() {
		// A vertical segment has no single y. It starts at its bottom, and
		// after that keeps whatever a swap assigned it.
		if !w.hasY {
			w.y = w.segment.MinY()
			w.hasY = true
		}
		return
	}
	w.y = w.segment.YAt(w.x)
	w.hasY = true
}

// Order by (y, -slope, segment). When y values tie, the steeper segment is
// below, which is the order just left of the crossing.
func compareWrappers(a, b *segmentWrapper) int {
	if a == b {
		return 0
	}
	ya, yb := a.Y(), b.Y()
	if ya < yb {
		return -1
	} else if ya > yb {
		return 1
	}
	sa, sb := a.segment.Slope(), b.segment.Slope()
	if sa > sb {
		return -1
	} else if sa < sb {
		return 1
	}
	return a.segment.Compare(b.segment)
}

type intersectionSweep struct {
	sweepX     float64
	includeEnd bool
	digits     int

	queue    *Queue[eventPriority, event]
	tree     *Tree[*segmentWrapper, Segment]
	wrappers map[Segment]*segmentWrapper

	cache map[segmentPair]cachedIntersection
	// Contributing segments per intersection point. Never reset after the
	// point is processed, so a resolved point can't be scheduled again.
	counts   map[Point]map[Segment]int
	totals   map[Point]int
	interior map[Segment]map[Point]bool

	results []Intersection
}

// Find the intersections of the given segments. With includeEnd, points where
// segments merely touch at an endpoint are reported too. Otherwise a point is
// reported only if it's interior to at least two of the segments meeting
// there. Points are rounded to digits decimal places, and reported in sweep
// order.
func FindIntersections(segments []Segment, includeEnd bool, digits int) []Intersection {
	sweep := &intersectionSweep{
		sweepX:     math.Inf(-1),
		includeEnd: includeEnd,
		digits:     digits,
		queue:      NewQueue[eventPriority, event](eventLess),
		tree:       NewTree[*segmentWrapper, Segment](compareWrappers),
		wrappers:   make(map[Segment]*segmentWrapper),
		cache:      make(map[segmentPair]cachedIntersection),
		counts:     make(map[Point]map[Segment]int),
		totals:     make(map[Point]int),
		interior:   make(map[Segment]map[Point]bool),
	}
	for _, segment := range segments {
		segment = segment.Canonical()
		sweep.queue.Push(
			event{kind: eventStart, segment: segment},
			eventPriority{x: segment.MinX(), kind: eventStart, segment: segment},
		)
		sweep.queue.Push(
			event{kind: eventEnd, segment: segment},
			eventPriority{x: segment.MaxX(), kind: eventEnd, segment: segment},
		)
	}
	sweep.run()
	return sweep.results
}

// Just the points of FindIntersections.
func FindAllIntersections(segments []Segment, includeEnd bool, digits int) []Point {
	intersections := FindIntersections(segments, includeEnd, digits)
	points := make([]Point, len(intersections))
	for i, intersection := range intersections {
		points[i] = intersection.Point
	}
	return points
}

func (s *intersectionSweep) run() {
	for !s.queue.Empty() {
		priority, e := s.queue.Pop()
		s.sweepX = priority.x
		switch e.kind {
		case eventStart:
			tracef("%v %v %v", e.kind.colored(), e.segment, s.wrapperName(e.segment))
			s.insert(e.segment)
		case eventEnd:
			tracef("%v %v %v", e.kind.colored(), e.segment, s.wrapperName(e.segment))
			s.remove(e.segment)
		case eventMeet:
			tracef("%v %v with %d segments", e.kind.colored(), e.point, len(s.counts[e.point]))
			s.meet(e.point)
		default:
			fatalf("unknown event kind %d", e.kind)
		}
	}
}

func (s *intersectionSweep) wrapperName(segment Segment) string {
	if !tracing {
		return ""
	}
	if w, ok := s.wrappers[segment]; ok {
		return w.DbgName()
	}
	return "new"
}

// All intersections are computed including endpoints, since the tree order
// depends on them even when they aren't reported.
func (s *intersectionSweep) intersect(a, b Segment) (Point, bool) {
	key := segmentPair{a, b}
	if b.Compare(a) < 0 {
		key = segmentPair{b, a}
	}
	if cached, ok := s.cache[key]; ok {
		return cached.point, cached.ok
	}
	point, ok := a.Intersect(b, true)
	if ok {
		point = point.Round(s.digits)
		s.markInterior(a, point)
		s.markInterior(b, point)
	}
	s.cache[key] = cachedIntersection{point, ok}
	return point, ok
}

// Record whether point is interior to segment. Endpoints are rounded the same
// way as the point, so an endpoint that isn't exactly representable at this
// precision still counts as an endpoint.
func (s *intersectionSweep) markInterior(segment Segment, point Point) {
	points, ok := s.interior[segment]
	if !ok {
		points = make(map[Point]bool)
		s.interior[segment] = points
	}
	points[point] = point != segment.Start.Round(s.digits) && point != segment.End.Round(s.digits)
}

func (s *intersectionSweep) neighbors(segment Segment) []Segment {
	cursor := s.tree.Cursor(s.wrappers[segment])
	neighbors := make([]Segment, 0, 2)
	if cursor.HasPrev() {
		neighbors = append(neighbors, cursor.Prev().Value())
	}
	if cursor.HasNext() {
		neighbors = append(neighbors, cursor.Next().Value())
	}
	return neighbors
}

func (s *intersectionSweep) schedule(a, b Segment) {
	point, ok := s.intersect(a, b)
	if !ok {
		return
	}
	// Points behind the sweep line have already been handled
	if point.X < s.sweepX {
		return
	}
	if s.totals[point] == 0 {
		s.queue.Push(meetEvent(point))
	}
	counts, ok := s.counts[point]
	if !ok {
		counts = make(map[Segment]int)
		s.counts[point] = counts
	}
	counts[a]++
	counts[b]++
	s.totals[point] += 2
}

func (s *intersectionSweep) unschedule(a, b Segment) {
	point, ok := s.intersect(a, b)
	if !ok {
		return
	}
	if point.X <= s.sweepX {
		return
	}
	counts := s.counts[point]
	counts[a]--
	counts[b]--
	s.totals[point] -= 2
	if s.totals[point] == 0 {
		s.queue.Remove(meetEvent(point))
	}
}

func meetEvent(point Point) (event, eventPriority) {
	return event{kind: eventMeet, point: point},
		eventPriority{x: point.X, kind: eventMeet, y: point.Y}
}

func (s *intersectionSweep) insert(segment Segment) {
	wrapper := &segmentWrapper{segment: segment, sweep: s}
	s.wrappers[segment] = wrapper
	s.tree.Put(wrapper, segment)

	neighbors := s.neighbors(segment)
	// The neighbors are no longer adjacent to each other
	if len(neighbors) == 2 {
		s.unschedule(neighbors[0], neighbors[1])
	}
	for _, neighbor := range neighbors {
		s.schedule(segment, neighbor)
	}
}

func (s *intersectionSweep) remove(segment Segment) {
	neighbors := s.neighbors(segment)
	for _, neighbor := range neighbors {
		s.unschedule(segment, neighbor)
	}
	// The neighbors become adjacent
	if len(neighbors) == 2 {
		s.schedule(neighbors[0], neighbors[1])
	}
	s.tree.Delete(s.wrappers[segment])
	delete(s.wrappers, segment)
}

func (s *intersectionSweep) meet(point Point) {
	counts := s.counts[point]
	if s.includeEnd || s.isInteriorToTwo(point) {
		snapshot := make(map[Segment]int, len(counts))
		for segment, count := range counts {
			snapshot[segment] = count
		}
		s.results = append(s.results, Intersection{Point: point, Segments: snapshot})
	}

	group := make([]Segment, 0, len(counts))
	for segment := range counts {
		// A segment whose rounded meeting point lies past its own end has
		// already left the tree
		if _, active := s.wrappers[segment]; active {
			group = append(group, segment)
		}
	}
	if len(group) > 1 {
		s.swap(point, group)
	}
}

func (s *intersectionSweep) isInteriorToTwo(point Point) bool {
	count := 0
	for segment := range s.counts[point] {
		if s.interior[segment][point] {
			count++
			if count == 2 {
				return true
			}
		}
	}
	return false
}

// Reverse the order of a group of segments crossing at point. Each segment is
// given a y value a few ulps from the crossing, so comparisons stay strict at
// this sweep position.
func (s *intersectionSweep) swap(point Point, segments []Segment) {
	// Decreasing slope, which is bottom to top just before the crossing
	sort.Slice(segments, func(i, j int) bool {
		si, sj := segments[i].Slope(), segments[j].Slope()
		if si != sj {
			return si > sj
		}
		return segments[i].Compare(segments[j]) < 0
	})
	n := len(segments)
	ys := make([]float64, n)
	for i := range segments {
		ys[i] = nudge(point.Y, crossingStep(i, n))
		s.wrappers[segments[i]].SetY(ys[i])
	}

	bottom, top := segments[0], segments[n-1]
	bottomCursor := s.tree.Cursor(s.wrappers[bottom])
	if bottomCursor.HasPrev() {
		below := bottomCursor.Prev().Value()
		s.unschedule(below, bottom)
		s.schedule(below, top)
	}
	topCursor := s.tree.Cursor(s.wrappers[top])
	if topCursor.HasNext() {
		above := topCursor.Next().Value()
		s.unschedule(top, above)
		s.schedule(bottom, above)
	}

	cursor := bottomCursor
	for i := range segments {
		segment := segments[n-1-i]
		wrapper := s.wrappers[segment]
		wrapper.SetY(ys[i])
		cursor.SetKey(wrapper)
		cursor.SetValue(segment)
		if cursor.HasNext() {
			cursor = cursor.Next()
		}
	}
}

// Steps from the crossing for the i-th of n segments, symmetric around zero
// and skipping zero when n is even. For n = 4 that's -2, -1, 1, 2.
func crossingStep(i, n int) int {
	step := i - n/2
	if n%2 == 0 && step >= 0 {
		step++
	}
	return step
}

// Move y by the given number of representable floats.
func nudge(y float64, steps int) float64 {
	direction := math.Inf(1)
	if steps < 0 {
		direction = math.Inf(-1)
		steps = -steps
	}
	for ; steps > 0; steps-- {
		y = math.Nextafter(y, direction)
	}
	return y
}
