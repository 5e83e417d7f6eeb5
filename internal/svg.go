package internal

import (
	"io"
	"strconv"
	"strings"

	"github.com/JoshVarga/svgparser"
	"github.com/pkg/errors"
)

// Reads geometry out of an SVG document. This is not a general SVG reader:
// transforms, paths and units are ignored. It understands <polygon> elements
// as rings, and <line> and <polyline> elements as segments, which is enough
// for drawings made to feed the sweeps.

type Shapes struct {
	Polygons [][]Point
	Segments []Segment
}

func ParseSVG(r io.Reader) (*Shapes, error) {
	root, err := svgparser.Parse(r, false)
	if err != nil {
		return nil, errors.Wrap(err, "parsing svg")
	}

	shapes := &Shapes{}
	for i, el := range root.FindAll("polygon") {
		points, err := parsePoints(el.Attributes["points"])
		if err != nil {
			return nil, errors.Wrapf(err, "polygon %d", i)
		}
		if len(points) < 3 {
			return nil, errors.Errorf("polygon %d has %d points", i, len(points))
		}
		shapes.Polygons = append(shapes.Polygons, points)
	}

	for i, el := range root.FindAll("polyline") {
		points, err := parsePoints(el.Attributes["points"])
		if err != nil {
			return nil, errors.Wrapf(err, "polyline %d", i)
		}
		for j := 1; j < len(points); j++ {
			shapes.Segments = append(shapes.Segments, Segment{points[j-1], points[j]})
		}
	}

	for i, el := range root.FindAll("line") {
		var coords [4]float64
		for j, name := range []string{"x1", "y1", "x2", "y2"} {
			value, ok := el.Attributes[name]
			if !ok {
				// Missing line coordinates default to zero in SVG
				continue
			}
			coords[j], err = strconv.ParseFloat(strings.TrimSpace(value), 64)
			if err != nil {
				return nil, errors.Wrapf(err, "line %d attribute %s", i, name)
			}
		}
		shapes.Segments = append(shapes.Segments, Segment{
			Start: Point{coords[0], coords[1]},
			End:   Point{coords[2], coords[3]},
		})
	}

	if len(shapes.Polygons) == 0 && len(shapes.Segments) == 0 {
		return nil, errors.New("no polygon, polyline or line elements found")
	}
	return shapes, nil
}

// Parse an SVG points list. Coordinates may be separated by commas, spaces,
// or both.
func parsePoints(s string) ([]Point, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	if len(fields)%2 != 0 {
		return nil, errors.Errorf("odd number of coordinates in %q", s)
	}
	points := make([]Point, 0, len(fields)/2)
	for i := 0; i < len(fields); i += 2 {
		x, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid x value %q", fields[i])
		}
		y, err := strconv.ParseFloat(fields[i+1], 64)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid y value %q", fields[i+1])
		}
		points = append(points, Point{x, y})
	}
	return points, nil
}
