package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/logrusorgru/aurora"
	"github.com/osuushi/sweepline"
	"github.com/osuushi/sweepline/advanced"
	"github.com/pkg/errors"
	"gopkg.in/alecthomas/kingpin.v2"
	"gopkg.in/yaml.v3"
)

// Command line front end for the sweeps.
//
// Polygons are read from stdin as newline separated points in the form "x y",
// with each polygon separated by an extra newline. Segments are read one per
// line as "x1 y1 x2 y2". Alternatively, --svg reads <polygon> elements as
// polygons and <line> and <polyline> elements as segments.

var (
	app     = kingpin.New("sweepline", "Segment intersections, polygon triangulation and convex partition.")
	svgFile = app.Flag("svg", "Read input from an SVG file instead of stdin.").ExistingFile()
	format  = app.Flag("format", "Output format.").Default("text").Enum("text", "yaml")
	pngFile = app.Flag("png", "Render the result to a PNG file.").String()
	imgcat  = app.Flag("imgcat", "Print the rendered result in the terminal (iTerm only).").Bool()
	scale   = app.Flag("scale", "Pixels per unit when rendering.").Default("20").Float64()
	trace   = app.Flag("trace", "Trace sweep events to stderr.").Bool()

	triangulateCmd = app.Command("triangulate", "Triangulate polygons.")
	partitionCmd   = app.Command("partition", "Partition polygons into convex faces.")

	intersectCmd     = app.Command("intersect", "Find all intersections of a set of segments.")
	includeEndpoints = intersectCmd.Flag("include-endpoints", "Also report segments touching at their endpoints.").Bool()
	digits           = intersectCmd.Flag("digits", "Decimal digits to round intersections to.").Default(strconv.Itoa(sweepline.DefaultDigits)).Int()
)

func main() {
	command := kingpin.MustParse(app.Parse(os.Args[1:]))
	if *trace {
		advanced.SetTrace(os.Stderr, true)
	}

	var err error
	switch command {
	case triangulateCmd.FullCommand():
		err = runPolygons(os.Stdin, os.Stdout, false)
	case partitionCmd.FullCommand():
		err = runPolygons(os.Stdin, os.Stdout, true)
	case intersectCmd.FullCommand():
		err = runIntersect(os.Stdin, os.Stdout)
	}
	app.FatalIfError(err, "%s", command)
}

type point struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

type polygonResult struct {
	Points    []point  `yaml:"points"`
	Triangles [][3]int `yaml:"triangles,omitempty"`
	Faces     [][]int  `yaml:"faces,omitempty"`
}

type intersectResult struct {
	Segments      int     `yaml:"segments"`
	Intersections []point `yaml:"intersections"`
}

func runPolygons(in io.Reader, out io.Writer, partition bool) error {
	var polygons [][]sweepline.Point
	if *svgFile != "" {
		shapes, err := readSVG(*svgFile)
		if err != nil {
			return err
		}
		polygons = shapes.Polygons
	} else {
		var err error
		polygons, err = readPolygons(in)
		if err != nil {
			return err
		}
	}
	if len(polygons) == 0 {
		return errors.New("no polygons in input")
	}
	fmt.Fprintf(os.Stderr, "Read %d polygons\n", aurora.Bold(len(polygons)))

	results := make([]polygonResult, len(polygons))
	scenes := make([]advanced.Scene, len(polygons))
	for i, polygon := range polygons {
		triangles, err := sweepline.TriangulatePolygon(polygon)
		if err != nil {
			return errors.Wrapf(err, "polygon %d", i)
		}
		scenes[i] = advanced.Scene{Polygon: polygon, Triangles: triangles}
		results[i].Points = toPoints(polygon)
		if partition {
			faces, err := sweepline.ConvexPartition(polygon, triangles)
			if err != nil {
				return errors.Wrapf(err, "polygon %d", i)
			}
			scenes[i].Faces = faces
			for _, face := range faces {
				results[i].Faces = append(results[i].Faces, []int(face))
			}
		} else {
			for _, triangle := range triangles {
				results[i].Triangles = append(results[i].Triangles, [3]int(triangle))
			}
		}
	}

	if err := writePolygonResults(out, results); err != nil {
		return err
	}
	return render(mergeScenes(scenes))
}

func runIntersect(in io.Reader, out io.Writer) error {
	var segments []sweepline.Segment
	if *svgFile != "" {
		shapes, err := readSVG(*svgFile)
		if err != nil {
			return err
		}
		segments = shapes.Segments
	} else {
		var err error
		segments, err = readSegments(in)
		if err != nil {
			return err
		}
	}
	fmt.Fprintf(os.Stderr, "Read %d segments\n", aurora.Bold(len(segments)))

	intersections, err := sweepline.FindAllIntersections(segments, *includeEndpoints, *digits)
	if err != nil {
		return err
	}
	result := intersectResult{Segments: len(segments), Intersections: toPoints(intersections)}
	if *format == "yaml" {
		if err := writeYAML(out, result); err != nil {
			return err
		}
	} else {
		for _, p := range intersections {
			fmt.Fprintf(out, "%g %g\n", p.X, p.Y)
		}
	}
	return render(advanced.Scene{Segments: segments, Intersections: intersections})
}

func writePolygonResults(out io.Writer, results []polygonResult) error {
	if *format == "yaml" {
		return writeYAML(out, results)
	}
	for i, result := range results {
		if i > 0 {
			fmt.Fprintln(out)
		}
		for _, triangle := range result.Triangles {
			fmt.Fprintf(out, "%d %d %d\n", triangle[0], triangle[1], triangle[2])
		}
		for _, face := range result.Faces {
			fields := make([]string, len(face))
			for j, index := range face {
				fields[j] = strconv.Itoa(index)
			}
			fmt.Fprintln(out, strings.Join(fields, " "))
		}
	}
	return nil
}

func writeYAML(out io.Writer, v interface{}) error {
	encoder := yaml.NewEncoder(out)
	encoder.SetIndent(2)
	if err := encoder.Encode(v); err != nil {
		return errors.Wrap(err, "encoding yaml")
	}
	return errors.Wrap(encoder.Close(), "encoding yaml")
}

func render(scene advanced.Scene) error {
	if *pngFile != "" {
		if err := scene.SavePNG(*pngFile, *scale); err != nil {
			return err
		}
	}
	if *imgcat {
		return scene.Cat(os.Stdout, *scale)
	}
	return nil
}

// Polygons share one scene by offsetting their indices into a combined point
// list.
func mergeScenes(scenes []advanced.Scene) advanced.Scene {
	var merged advanced.Scene
	for _, scene := range scenes {
		offset := len(merged.Polygon)
		merged.Polygon = append(merged.Polygon, scene.Polygon...)
		for _, triangle := range scene.Triangles {
			merged.Triangles = append(merged.Triangles, advanced.Triangle{
				triangle[0] + offset, triangle[1] + offset, triangle[2] + offset,
			})
		}
		for _, face := range scene.Faces {
			shifted := make(advanced.Face, len(face))
			for i, index := range face {
				shifted[i] = index + offset
			}
			merged.Faces = append(merged.Faces, shifted)
		}
	}
	return merged
}

func toPoints(points []sweepline.Point) []point {
	result := make([]point, len(points))
	for i, p := range points {
		result[i] = point{p.X, p.Y}
	}
	return result
}

func readSVG(path string) (*advanced.Shapes, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening svg")
	}
	defer f.Close()
	return advanced.ParseSVG(f)
}

func readPolygons(in io.Reader) ([][]sweepline.Point, error) {
	var polygons [][]sweepline.Point
	var points []sweepline.Point
	scanner := bufio.NewScanner(in)
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := strings.TrimSpace(scanner.Text())

		// A blank line ends the current polygon
		if line == "" {
			if len(points) > 0 {
				polygons = append(polygons, points)
				points = nil
			}
			continue
		}

		values, err := parseFloats(line, 2)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", lineNumber)
		}
		points = append(points, sweepline.Point{X: values[0], Y: values[1]})
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "reading input")
	}

	// Handle trailing polygon if any
	if len(points) > 0 {
		polygons = append(polygons, points)
	}
	return polygons, nil
}

func readSegments(in io.Reader) ([]sweepline.Segment, error) {
	var segments []sweepline.Segment
	scanner := bufio.NewScanner(in)
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		values, err := parseFloats(line, 4)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", lineNumber)
		}
		segments = append(segments, sweepline.Segment{
			Start: sweepline.Point{X: values[0], Y: values[1]},
			End:   sweepline.Point{X: values[2], Y: values[3]},
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "reading input")
	}
	return segments, nil
}

func parseFloats(line string, count int) ([]float64, error) {
	fields := strings.Fields(line)
	if len(fields) != count {
		return nil, errors.Errorf("expected %d numbers, got %q", count, line)
	}
	values := make([]float64, count)
	for i, field := range fields {
		value, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid number %q", field)
		}
		values[i] = value
	}
	return values, nil
}
