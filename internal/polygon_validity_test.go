package internal

// This contains no actual tests. It is just a helper for testing triangulation
// and partition validity.

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

const areaEpsilon = 1e-9

// Helper to check that a triangulation is valid. The rules are:
// 1. There are n-2 triangles, and every vertex is used by one of them.
// 2. Every polygon edge is an edge of some triangle.
// 3. Every triangle is counterclockwise, with non-zero area.
// 4. The sum of the areas of all triangles is equal to the area of the polygon.
func AssertValidTriangulation(t *testing.T, points []Point, triangles []Triangle) {
	t.Helper()
	require.Positive(t, SignedArea(points), "polygon is not counterclockwise")
	require.Len(t, triangles, len(points)-2)

	used := make(map[int]bool)
	var triangleArea float64
	triangleSegmentSet := make(normalizedSegmentSet)
	for _, tri := range triangles {
		for k, i := range tri {
			require.True(t, 0 <= i && i < len(points), "triangle %v has out of range index", tri)
			used[i] = true
			triangleSegmentSet.add(points[i], points[tri[(k+1)%3]])
		}
		area := tri.SignedArea(points)
		require.Positive(t, area, "clockwise or degenerate triangle: %v", tri)
		triangleArea += area
	}
	require.Len(t, used, len(points), "set of vertices in the triangles must equal the set of vertices in the polygon")

	for i, p1 := range points {
		p2 := points[(i+1)%len(points)]
		require.True(t, triangleSegmentSet.contains(p1, p2), "segment %v-%v of the polygon is not in the set of segments in the triangles", p1, p2)
	}

	require.InDelta(t, SignedArea(points), triangleArea, areaEpsilon, "sum of the areas of all triangles is equal to the area of the polygon")
}

// Helper to check a convex partition. Every face must be counterclockwise and
// convex, the faces must cover the polygon, and there can't be more faces than
// there were triangles to merge.
func AssertValidPartition(t *testing.T, points []Point, triangles []Triangle, faces []Face) {
	t.Helper()
	require.NotEmpty(t, faces)
	require.LessOrEqual(t, len(faces), len(triangles))

	var faceArea float64
	for _, face := range faces {
		require.GreaterOrEqual(t, len(face), 3, "face %v is too small", face)
		ring := make([]Point, len(face))
		for k, i := range face {
			ring[k] = points[i]
		}
		for k := range ring {
			orientation := Orientation(ring[CircularIndex(k-1, len(ring))], ring[k], ring[(k+1)%len(ring)])
			require.NotEqual(t, 1, orientation, "face %v turns clockwise at %v", face, face[k])
		}
		area := SignedArea(ring)
		require.Positive(t, area, "face %v is not counterclockwise", face)
		faceArea += area
	}
	require.InDelta(t, SignedArea(points), faceArea, areaEpsilon, "faces must cover the polygon")
}

// Rotate each triangle or face to start at its smallest index, and sort, so
// results can be compared without caring where each one starts.
func normalizeTriangles(triangles []Triangle) [][]int {
	cycles := make([][]int, len(triangles))
	for i, tri := range triangles {
		cycles[i] = tri[:]
	}
	return normalizeCycles(cycles)
}

func normalizeFaces(faces []Face) [][]int {
	cycles := make([][]int, len(faces))
	for i, face := range faces {
		cycles[i] = face
	}
	return normalizeCycles(cycles)
}

func normalizeCycles(cycles [][]int) [][]int {
	result := make([][]int, len(cycles))
	for n, cycle := range cycles {
		start := 0
		for k, i := range cycle {
			if i < cycle[start] {
				start = k
			}
		}
		rotated := make([]int, 0, len(cycle))
		rotated = append(rotated, cycle[start:]...)
		result[n] = append(rotated, cycle[:start]...)
	}
	sort.Slice(result, func(i, j int) bool {
		a, b := result[i], result[j]
		for k := 0; k < len(a) && k < len(b); k++ {
			if a[k] != b[k] {
				return a[k] < b[k]
			}
		}
		return len(a) < len(b)
	})
	return result
}

// Used in the helper above, this is a "normalized" line segment, where the
// lesser point (in sweep order) is always first
type normalizedSegment struct {
	lower, upper Point
}

func newNormalizedSegment(a, b Point) normalizedSegment {
	if a.Less(b) {
		return normalizedSegment{a, b}
	}
	return normalizedSegment{b, a}
}

type normalizedSegmentSet map[normalizedSegment]struct{}

func (set normalizedSegmentSet) add(a, b Point) {
	set[newNormalizedSegment(a, b)] = struct{}{}
}

func (set normalizedSegmentSet) contains(a, b Point) bool {
	_, ok := set[newNormalizedSegment(a, b)]
	return ok
}
