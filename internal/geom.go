package internal

import (
	"fmt"
	"math"
)

// Points and segments are plain values so they can be used directly as map
// keys. Nothing in the engine ever mutates a point after construction.

type Point struct {
	X float64
	Y float64
}

type Segment struct {
	Start Point
	End   Point
}

// Three vertex indices, counterclockwise.
type Triangle [3]int

// Vertex indices of a convex face, counterclockwise.
type Face []int

func (p Point) String() string {
	return fmt.Sprintf("(%g, %g)", p.X, p.Y)
}

// Lexicographic comparison: x first, then y. This is the sweep order.
func (p Point) Compare(q Point) int {
	switch {
	case p.X < q.X:
		return -1
	case p.X > q.X:
		return 1
	case p.Y < q.Y:
		return -1
	case p.Y > q.Y:
		return 1
	}
	return 0
}

func (p Point) Less(q Point) bool {
	return p.Compare(q) < 0
}

func (p Point) Add(q Point) Point {
	return Point{p.X + q.X, p.Y + q.Y}
}

func (p Point) Sub(q Point) Point {
	return Point{p.X - q.X, p.Y - q.Y}
}

func (p Point) Scale(f float64) Point {
	return Point{p.X * f, p.Y * f}
}

func (p Point) Dot(q Point) float64 {
	return p.X*q.X + p.Y*q.Y
}

// Round both coordinates to the given number of decimal digits. Negative zero
// is normalized so that rounded points can be used as map keys and compared
// with ==.
func (p Point) Round(digits int) Point {
	scale := math.Pow(10, float64(digits))
	return Point{
		math.Round(p.X*scale)/scale + 0,
		math.Round(p.Y*scale)/scale + 0,
	}
}

// Orientation going from p1 to p2 to p3: -1 for counterclockwise, 1 for
// clockwise, 0 for colinear.
func Orientation(p1, p2, p3 Point) int {
	val := (p2.Y-p1.Y)*(p3.X-p2.X) - (p2.X-p1.X)*(p3.Y-p2.Y)
	if val < 0 {
		return -1
	} else if val > 0 {
		return 1
	}
	return 0
}

// Shoelace area of a ring. Positive for counterclockwise rings.
func SignedArea(points []Point) float64 {
	var area float64
	for i, p := range points {
		q := points[CircularIndex(i+1, len(points))]
		area += p.X*q.Y - q.X*p.Y
	}
	return area / 2
}

func (t Triangle) SignedArea(points []Point) float64 {
	return SignedArea([]Point{points[t[0]], points[t[1]], points[t[2]]})
}

// Often we want to treat an array as a circular buffer. This gives the modular
// index given length n, but unlike the raw modulo operator, it only gives
// positive values
func CircularIndex(i, n int) int {
	return (i%n + n) % n
}

func (s Segment) String() string {
	return fmt.Sprintf("%v-%v", s.Start, s.End)
}

// Lexicographic comparison of (start, end). Segments are totally ordered by
// this, which gives every tie-break in the sweeps a final deterministic step.
func (s Segment) Compare(o Segment) int {
	if c := s.Start.Compare(o.Start); c != 0 {
		return c
	}
	return s.End.Compare(o.End)
}

func (s Segment) Twin() Segment {
	return Segment{s.End, s.Start}
}

func (s Segment) Min() Point {
	if s.Start.Compare(s.End) <= 0 {
		return s.Start
	}
	return s.End
}

func (s Segment) Max() Point {
	if s.Start.Compare(s.End) <= 0 {
		return s.End
	}
	return s.Start
}

// The orientation of the segment that starts at its minimum point.
func (s Segment) Canonical() Segment {
	if s.Twin().Compare(s) < 0 {
		return s.Twin()
	}
	return s
}

func (s Segment) MinX() float64 { return math.Min(s.Start.X, s.End.X) }
func (s Segment) MaxX() float64 { return math.Max(s.Start.X, s.End.X) }
func (s Segment) MinY() float64 { return math.Min(s.Start.Y, s.End.Y) }
func (s Segment) MaxY() float64 { return math.Max(s.Start.Y, s.End.Y) }

func (s Segment) IsVertical() bool {
	return s.Start.X == s.End.X
}

// Slope is +Inf for vertical segments, regardless of direction.
func (s Segment) Slope() float64 {
	dx := s.End.X - s.Start.X
	if dx == 0 {
		return math.Inf(1)
	}
	return (s.End.Y - s.Start.Y) / dx
}

// Direction from start to end as an angle in [0, 2π).
func (s Segment) Bearing() float64 {
	bearing := math.Atan2(s.End.Y-s.Start.Y, s.End.X-s.Start.X)
	if bearing < 0 {
		bearing += 2 * math.Pi
	}
	return bearing
}

// Y value of the line through the segment at x. Meaningless for vertical
// segments.
func (s Segment) YAt(x float64) float64 {
	return s.Start.Y + (x-s.Start.X)*s.Slope()
}

// Bounding box containment. Callers only use this once colinearity is known.
func (s Segment) Contains(p Point, includeEnd bool) bool {
	if includeEnd {
		return p.X <= s.MaxX() && p.X >= s.MinX() && p.Y <= s.MaxY() && p.Y >= s.MinY()
	}
	return p.X < s.MaxX() && p.X > s.MinX() && p.Y < s.MaxY() && p.Y > s.MinY()
}

func (s Segment) IsColinear(o Segment) bool {
	return Orientation(s.Start, s.End, o.Start) == 0 && Orientation(s.Start, s.End, o.End) == 0
}

// Overlapping segments share more than one point. The intersection sweep does
// not support them, so callers should filter with this first.
func (s Segment) IsOverlapping(o Segment) bool {
	if !s.IsColinear(o) {
		return false
	}
	if s.IsVertical() {
		// Bounding box containment degenerates on a vertical line, so compare
		// the y ranges directly
		return math.Max(s.MinY(), o.MinY()) < math.Min(s.MaxY(), o.MaxY())
	}
	return math.Max(s.MinX(), o.MinX()) < math.Min(s.MaxX(), o.MaxX())
}

// Find the intersection with another segment, if any. With includeEnd, a
// point shared by an endpoint of either segment counts.
func (s Segment) Intersect(o Segment, includeEnd bool) (Point, bool) {
	boxesOverlap := (s.MinX() <= o.MinX() && o.MinX() <= s.MaxX() ||
		o.MinX() <= s.MinX() && s.MinX() <= o.MaxX()) &&
		(s.MinY() <= o.MinY() && o.MinY() <= s.MaxY() ||
			o.MinY() <= s.MinY() && s.MinY() <= o.MaxY())
	if !boxesOverlap {
		return Point{}, false
	}

	o1 := Orientation(s.Start, o.Start, o.End)
	o2 := Orientation(s.End, o.Start, o.End)
	o3 := Orientation(o.Start, s.Start, s.End)
	o4 := Orientation(o.End, s.Start, s.End)

	// General case: no colinearity
	if o1 != 0 && o2 != 0 && o3 != 0 && o4 != 0 {
		if s.Slope() == o.Slope() {
			return Point{}, false
		}
		v1 := s.End.Sub(s.Start)
		v2 := o.End.Sub(o.Start)
		perpendicular1 := Point{-v2.Y, v2.X}
		t1 := o.Start.Sub(s.Start).Dot(perpendicular1) / v1.Dot(perpendicular1)
		perpendicular2 := Point{-v1.Y, v1.X}
		t2 := s.Start.Sub(o.Start).Dot(perpendicular2) / v2.Dot(perpendicular2)
		if 0 <= t1 && t1 <= 1 && 0 <= t2 && t2 <= 1 {
			if includeEnd || (t1 != 0 && t1 != 1 && t2 != 0 && t2 != 1) {
				return s.Start.Add(v1.Scale(t1)), true
			}
		}
		return Point{}, false
	}

	// Some endpoint lies on the other segment's line, so any intersection is
	// that endpoint
	if !includeEnd {
		return Point{}, false
	}
	switch {
	case o1 == 0 && o.Contains(s.Start, true):
		return s.Start, true
	case o2 == 0 && o.Contains(s.End, true):
		return s.End, true
	case o3 == 0 && s.Contains(o.Start, true):
		return o.Start, true
	case o4 == 0 && s.Contains(o.End, true):
		return o.End, true
	}
	return Point{}, false
}
