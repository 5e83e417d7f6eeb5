package internal

import (
	"io"
	"math"
	"os"

	"github.com/fogleman/gg"
	imgcat "github.com/martinlindhe/imgcat/lib"
	"github.com/pkg/errors"
)

// Rendering of inputs and results, for the CLI and for eyeballing failures.
// Everything is drawn in a y-up coordinate system.

const drawPadding = 20

type Scene struct {
	Polygon       []Point
	Triangles     []Triangle
	Faces         []Face
	Segments      []Segment
	Intersections []Point
}

func (s *Scene) bounds() (minX, minY, maxX, maxY float64) {
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	extend := func(p Point) {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	for _, p := range s.Polygon {
		extend(p)
	}
	for _, segment := range s.Segments {
		extend(segment.Start)
		extend(segment.End)
	}
	for _, p := range s.Intersections {
		extend(p)
	}
	if math.IsInf(minX, 1) {
		return 0, 0, 0, 0
	}
	return minX, minY, maxX, maxY
}

func (s *Scene) Render(scale float64) *gg.Context {
	minX, minY, maxX, maxY := s.bounds()
	width := int(scale*(maxX-minX)) + drawPadding*2
	height := int(scale*(maxY-minY)) + drawPadding*2
	c := gg.NewContext(width, height)
	c.SetRGB(0, 0, 0)
	c.DrawRectangle(0, 0, float64(width), float64(height))
	c.Fill()
	// Flip the context so the origin is at the bottom left
	c.Translate(0, float64(height))
	c.Scale(1, -1)
	c.Translate(drawPadding, drawPadding)
	c.Scale(scale, scale)
	c.Translate(-minX, -minY)
	// Keep line widths in pixels regardless of scale
	lineWidth := 2 / scale

	for i, face := range s.Faces {
		hue := float64(i) / float64(len(s.Faces))
		c.SetRGBA(0.3+0.7*hue, 0.2, 1-0.7*hue, 0.5)
		s.tracePath(c, face)
		c.Fill()
	}
	c.SetLineWidth(lineWidth / 2)
	for _, triangle := range s.Triangles {
		s.tracePath(c, triangle[:])
		c.SetRGB(0, 1, 0)
		c.Stroke()
	}
	if len(s.Polygon) > 0 {
		c.SetLineWidth(lineWidth)
		for _, p := range s.Polygon {
			c.LineTo(p.X, p.Y)
		}
		c.ClosePath()
		c.SetRGB(1, 1, 1)
		c.Stroke()
	}

	c.SetLineWidth(lineWidth)
	for _, segment := range s.Segments {
		c.DrawLine(segment.Start.X, segment.Start.Y, segment.End.X, segment.End.Y)
		c.SetRGB(1, 1, 0)
		c.Stroke()
	}
	for _, p := range s.Intersections {
		c.DrawCircle(p.X, p.Y, 3/scale)
		c.SetRGB(1, 0, 0)
		c.Fill()
	}
	return c
}

func (s *Scene) tracePath(c *gg.Context, indices []int) {
	for _, i := range indices {
		c.LineTo(s.Polygon[i].X, s.Polygon[i].Y)
	}
	c.ClosePath()
}

func (s *Scene) SavePNG(path string, scale float64) error {
	return errors.Wrapf(s.Render(scale).SavePNG(path), "saving %s", path)
}

func (s *Scene) EncodePNG(w io.Writer, scale float64) error {
	return errors.Wrap(s.Render(scale).EncodePNG(w), "encoding png")
}

// Print the scene inline in the terminal (iTerm only), via a temp file.
func (s *Scene) Cat(w io.Writer, scale float64) error {
	f, err := os.CreateTemp("", "sweepline-*.png")
	if err != nil {
		return errors.Wrap(err, "creating temp file")
	}
	path := f.Name()
	f.Close()
	defer os.Remove(path)

	if err := s.SavePNG(path, scale); err != nil {
		return err
	}
	imgcat.CatFile(path, w)
	return nil
}
