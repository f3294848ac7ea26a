// Package trackplot renders decoded tracks: a top-down layout PNG with
// gonum/plot and an elevation profile page with go-echarts.
package trackplot

import (
	"fmt"
	"image/color"
	"io"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/banshee-data/gptrack/internal/trackdat"
	"github.com/banshee-data/gptrack/internal/trackdat/geometry"
)

// LayoutSize is the edge length of the square layout image.
const LayoutSize = 8 * vg.Inch

var (
	centerlineColor = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	startColor      = color.RGBA{R: 214, G: 39, B: 40, A: 255}
)

// layoutPoints projects the geometry onto the ground plane (X right, Z up
// the page), prefixed with the start point so the first section is drawn.
func layoutPoints(def *trackdat.TrackDefinition) plotter.XYs {
	start := def.CenterVec()
	pts := make(plotter.XYs, 0, len(def.Geometry)+1)
	pts = append(pts, plotter.XY{X: float64(start[0]), Y: float64(start[2])})
	for _, p := range def.Geometry {
		pts = append(pts, plotter.XY{X: float64(p.Position[0]), Y: float64(p.Position[2])})
	}
	return pts
}

// NewLayoutPlot builds the top-down centerline plot with equal axis scales.
func NewLayoutPlot(def *trackdat.TrackDefinition) (*plot.Plot, error) {
	if len(def.Geometry) == 0 {
		return nil, fmt.Errorf("track %q has no geometry to plot", def.Name)
	}

	p := plot.New()
	p.Title.Text = def.Name
	if p.Title.Text == "" {
		p.Title.Text = "Track layout"
	}
	p.X.Label.Text = "X (m)"
	p.Y.Label.Text = "Z (m)"
	p.Add(plotter.NewGrid())

	pts := layoutPoints(def)
	line, err := plotter.NewLine(pts)
	if err != nil {
		return nil, fmt.Errorf("failed to create centerline: %w", err)
	}
	line.Color = centerlineColor
	line.Width = vg.Points(2)
	p.Add(line)
	p.Legend.Add("centerline", line)

	start, err := plotter.NewScatter(pts[:1])
	if err != nil {
		return nil, fmt.Errorf("failed to create start marker: %w", err)
	}
	start.GlyphStyle.Color = startColor
	start.GlyphStyle.Radius = vg.Points(4)
	start.GlyphStyle.Shape = draw.CircleGlyph{}
	p.Add(start)
	p.Legend.Add("start", start)

	lo, hi := geometry.Bounds(def.Geometry)
	c := def.CenterVec()
	minX := math.Min(float64(lo[0]), float64(c[0]))
	maxX := math.Max(float64(hi[0]), float64(c[0]))
	minZ := math.Min(float64(lo[2]), float64(c[2]))
	maxZ := math.Max(float64(hi[2]), float64(c[2]))
	half := math.Max(maxX-minX, maxZ-minZ)/2 + 10
	midX, midZ := (minX+maxX)/2, (minZ+maxZ)/2
	p.X.Min, p.X.Max = midX-half, midX+half
	p.Y.Min, p.Y.Max = midZ-half, midZ+half

	return p, nil
}

// WriteLayoutPNG renders the layout plot as PNG to w.
func WriteLayoutPNG(def *trackdat.TrackDefinition, w io.Writer) error {
	p, err := NewLayoutPlot(def)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(LayoutSize, LayoutSize, "png")
	if err != nil {
		return fmt.Errorf("failed to render layout: %w", err)
	}
	_, err = wt.WriteTo(w)
	return err
}

// SaveLayout renders the layout plot to path; the format follows the extension.
func SaveLayout(def *trackdat.TrackDefinition, path string) error {
	p, err := NewLayoutPlot(def)
	if err != nil {
		return err
	}
	if err := p.Save(LayoutSize, LayoutSize, path); err != nil {
		return fmt.Errorf("failed to save layout %s: %w", path, err)
	}
	return nil
}
