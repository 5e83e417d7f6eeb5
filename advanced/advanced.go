// Building blocks of the sweeps, for callers that want to run their own.
//
// Most users want the top level package instead. Nothing in here converts
// invariant failures into errors on its own: defer a call to
// HandlePanicRecover around code that drives these types directly.
package advanced

import (
	"io"

	"github.com/osuushi/sweepline/internal"
)

type Point = internal.Point
type Segment = internal.Segment
type Triangle = internal.Triangle
type Face = internal.Face
type Intersection = internal.Intersection
type Shapes = internal.Shapes
type Scene = internal.Scene

// A balanced tree whose keys may go stale between sweep events. See
// NewTree.
type Tree[K, V any] = internal.Tree[K, V]
type Cursor[K, V any] = internal.Cursor[K, V]

// A min-priority queue that can remove arbitrary entries.
type Queue[P comparable, V comparable] = internal.Queue[P, V]

type InvariantError = internal.InvariantError

var ErrNotFound = internal.ErrNotFound

// Create a tree ordered by compare. Keys may compute their ordering lazily
// from external state such as a sweep position, as long as the relative order
// of keys in the tree doesn't change between calls that modify it.
func NewTree[K, V any](compare func(a, b K) int) *Tree[K, V] {
	return internal.NewTree[K, V](compare)
}

func NewQueue[P comparable, V comparable](less func(a, b P) bool) *Queue[P, V] {
	return internal.NewQueue[P, V](less)
}

// Convert a recovered invariant failure into an error. Any other panic is
// re-raised. Use as:
//
//	defer func() {
//		if recoveredErr := HandlePanicRecover(recover()); recoveredErr != nil {
//			err = recoveredErr
//		}
//	}()
func HandlePanicRecover(r interface{}) error {
	return internal.HandlePanicRecover(r)
}

// The raw sweeps. These expect counterclockwise rings and panic on failure.

func FindIntersections(segments []Segment, includeEnd bool, digits int) []Intersection {
	return internal.FindIntersections(segments, includeEnd, digits)
}

func TriangulatePolygon(points []Point) []Triangle {
	return internal.TriangulatePolygon(points)
}

func ConvexPartition(points []Point, triangles []Triangle) []Face {
	return internal.ConvexPartition(points, triangles)
}

func Orientation(p1, p2, p3 Point) int {
	return internal.Orientation(p1, p2, p3)
}

func SignedArea(points []Point) float64 {
	return internal.SignedArea(points)
}

func ParseSVG(r io.Reader) (*Shapes, error) {
	return internal.ParseSVG(r)
}

// Trace sweep events to w. Pass nil to stop.
func SetTrace(w io.Writer, color bool) {
	internal.SetTrace(w, color)
}
