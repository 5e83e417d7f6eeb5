// Sweep line algorithms for 2D geometry.
//
// This package finds every intersection among a set of line segments
// (Bentley-Ottmann), triangulates polygons in a single monotone sweep, and
// merges triangulations into convex faces. The sweeps tolerate the usual
// degeneracies: shared endpoints, vertical segments, many segments through one
// point, and polygons with holes expressed as zero width bridges.
//
// Overlapping segments are not supported by FindAllIntersections. Use
// Segment.IsOverlapping to filter them out first.
package sweepline

import (
	"github.com/osuushi/sweepline/advanced"
	"github.com/pkg/errors"
)

type Point = advanced.Point
type Segment = advanced.Segment
type Triangle = advanced.Triangle
type Face = advanced.Face
type Intersection = advanced.Intersection

// Decimal digits intersections are rounded to, unless a caller says otherwise.
const DefaultDigits = 9

// Find every point where two or more segments meet, in sweep order (ascending
// x). Points are rounded to digits decimal places, and points that round to
// the same value are reported once.
//
// If includeEndpoints is false, a point is only reported if it lies in the
// interior of at least two of the segments through it, so segments that
// merely touch at their ends are ignored.
func FindAllIntersections(segments []Segment, includeEndpoints bool, digits int) (result []Point, err error) {
	intersections, err := FindIntersections(segments, includeEndpoints, digits)
	if err != nil {
		return nil, err
	}
	result = make([]Point, len(intersections))
	for i, intersection := range intersections {
		result[i] = intersection.Point
	}
	return result, nil
}

// Like FindAllIntersections, but also reports which segments met at each
// point.
func FindIntersections(segments []Segment, includeEndpoints bool, digits int) (result []Intersection, err error) {
	if digits < 0 {
		return nil, errors.Errorf("rounding digits must not be negative, got %d", digits)
	}
	defer func() {
		recoveredErr := advanced.HandlePanicRecover(recover())
		if recoveredErr != nil {
			result = nil
			err = recoveredErr
		}
	}()
	return advanced.FindIntersections(segments, includeEndpoints, digits), nil
}

// Triangulate a polygon given as a single ring, in either winding. Holes must
// be joined to the outer ring by zero width bridges. The result refers to
// vertices by index into points, and every triangle is counterclockwise.
func TriangulatePolygon(points []Point) (result []Triangle, err error) {
	ring, err := normalizeRing(points)
	if err != nil {
		return nil, err
	}
	defer func() {
		recoveredErr := advanced.HandlePanicRecover(recover())
		if recoveredErr != nil {
			result = nil
			err = recoveredErr
		}
	}()

	triangles := advanced.TriangulatePolygon(ring.points)
	for i, triangle := range triangles {
		triangles[i] = ring.triangle(triangle)
	}
	return triangles, nil
}

// Partition a polygon into convex faces, each a counterclockwise list of
// vertex indices. If triangles is nil, the polygon is triangulated first.
// Otherwise triangles must be a triangulation of points, such as the result of
// TriangulatePolygon.
func ConvexPartition(points []Point, triangles []Triangle) (result []Face, err error) {
	ring, err := normalizeRing(points)
	if err != nil {
		return nil, err
	}
	var ringTriangles []Triangle
	if triangles != nil {
		ringTriangles = make([]Triangle, len(triangles))
		for i, triangle := range triangles {
			for _, index := range triangle {
				if index < 0 || index >= len(points) {
					return nil, errors.Errorf("triangle %d refers to vertex %d of %d", i, index, len(points))
				}
			}
			ringTriangles[i] = ring.triangle(triangle)
		}
	}
	defer func() {
		recoveredErr := advanced.HandlePanicRecover(recover())
		if recoveredErr != nil {
			result = nil
			err = recoveredErr
		}
	}()

	faces := advanced.ConvexPartition(ring.points, ringTriangles)
	for _, face := range faces {
		for i, index := range face {
			face[i] = ring.index(index)
		}
	}
	return faces, nil
}

// A polygon ring in counterclockwise order, remembering whether it had to be
// reversed to get there. Reversal maps index i to n-1-i, which is its own
// inverse, so the same mapping converts indices in both directions.
type ccwRing struct {
	points   []Point
	reversed bool
}

func normalizeRing(points []Point) (ccwRing, error) {
	if len(points) < 3 {
		return ccwRing{}, errors.Errorf("polygon needs at least 3 points, got %d", len(points))
	}
	area := advanced.SignedArea(points)
	if area == 0 {
		return ccwRing{}, errors.New("polygon has zero area")
	}
	if area > 0 {
		return ccwRing{points: points}, nil
	}
	reversed := make([]Point, len(points))
	for i, point := range points {
		reversed[len(points)-1-i] = point
	}
	return ccwRing{points: reversed, reversed: true}, nil
}

func (r ccwRing) index(i int) int {
	if r.reversed {
		return len(r.points) - 1 - i
	}
	return i
}

func (r ccwRing) triangle(t Triangle) Triangle {
	return Triangle{r.index(t[0]), r.index(t[1]), r.index(t[2])}
}
