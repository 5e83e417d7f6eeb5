package internal

import (
	"embed"
	"log"
	"math"
)

// This file loads the svg fixtures and builds a few shapes in code. Fixtures
// are available by name in the fixtures/ directory, sans extension. If
// anything goes wrong, it dies.

//go:embed fixtures
var fixtures embed.FS

func loadShapes(name string) *Shapes {
	fixture, err := fixtures.Open("fixtures/" + name + ".svg")
	if err != nil {
		log.Fatalf("Could not load fixture %q: %v", name, err)
	}
	defer fixture.Close()

	shapes, err := ParseSVG(fixture)
	if err != nil {
		log.Fatalf("Failed to parse fixture %q: %+v", name, err)
	}
	return shapes
}

// The first polygon in a fixture, made counterclockwise.
func LoadFixture(name string) []Point {
	shapes := loadShapes(name)
	if len(shapes.Polygons) != 1 {
		log.Fatalf("Expected one polygon in fixture %q, found %d", name, len(shapes.Polygons))
	}
	return counterclockwise(shapes.Polygons[0])
}

func LoadSegmentFixture(name string) []Segment {
	return loadShapes(name).Segments
}

func counterclockwise(points []Point) []Point {
	if SignedArea(points) > 0 {
		return points
	}
	reversed := make([]Point, len(points))
	for i, p := range points {
		reversed[len(points)-1-i] = p
	}
	return reversed
}

func starPoints(x, y, outerRadius, innerRadius float64) []Point {
	var points []Point
	for i := 0; i < 10; i++ {
		radius := outerRadius
		if i%2 == 1 {
			radius = innerRadius
		}
		angle := 2 * math.Pi * float64(i) / 10
		points = append(points, Point{X: x + radius*math.Cos(angle), Y: y + radius*math.Sin(angle)})
	}
	return points
}

// Fixtures built in code
func SimpleStar() []Point {
	return starPoints(0, 0, 5, 2)
}

func Square() []Point {
	return []Point{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
}

func LShape() []Point {
	return []Point{{0, 0}, {2, 0}, {2, 1}, {1, 1}, {1, 2}, {0, 2}}
}

func Hexagon() []Point {
	return []Point{{2, 0}, {1, 1.7}, {-1, 1.7}, {-2, 0}, {-1, -1.7}, {1, -1.7}}
}

// A square with a square hole, joined to the outside by a diagonal bridge
// from corner to corner. The bridge's ends each appear twice in the ring.
func SquareWithHole() []Point {
	return []Point{
		{0, 0}, {10, 0}, {10, 10}, {0, 10},
		{0, 0}, {3, 3}, {3, 7}, {7, 7}, {7, 3}, {3, 3},
	}
}

// The same hole, bridged horizontally from the right side, so the bridge is
// parallel to the sweep's tie breaking.
func SquareWithSlottedHole() []Point {
	return []Point{
		{0, 0}, {10, 0}, {10, 5}, {7, 5}, {7, 3}, {3, 3},
		{3, 7}, {7, 7}, {7, 5}, {10, 5}, {10, 10}, {0, 10},
	}
}

// A star shaped ring: a star with a smaller star cut out of it, bridged from
// the tip at bridgeTip.
func StarOutline(bridgeTip int) []Point {
	outer := starPoints(0, 0, 10, 5)
	hole := starPoints(0, 0, 8, 3)
	k := 2 * bridgeTip
	var ring []Point
	for i := 0; i < 10; i++ {
		ring = append(ring, outer[(k+i)%10])
	}
	ring = append(ring, outer[k])
	// The hole goes clockwise
	for i := 0; i < 10; i++ {
		ring = append(ring, hole[CircularIndex(k-i, 10)])
	}
	return append(ring, hole[k])
}
