// Package render turns output grids into quick-look artefacts: static
// PNG heatmaps for reports and an interactive HTML page for browsing.
package render

import (
	"fmt"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/strata-geo/gridfilter/internal/grid"
)

// gridXYZ adapts a Grid to plotter.GridXYZ. Rows are flipped so north
// (grid row 0) renders at the top; masked cells read as NaN and are
// left unpainted.
type gridXYZ struct {
	g *grid.Grid
}

func (a gridXYZ) Dims() (c, r int) { return a.g.Cols, a.g.Rows }

func (a gridXYZ) X(c int) float64 {
	return a.g.XLL + (float64(c)+0.5)*a.g.CellSize
}

func (a gridXYZ) Y(r int) float64 {
	return a.g.YLL + (float64(r)+0.5)*a.g.CellSize
}

func (a gridXYZ) Z(c, r int) float64 {
	row := a.g.Rows - 1 - r
	if a.g.IsMasked(row, c) {
		return math.NaN()
	}
	return a.g.At(row, c)
}

// HeatmapPNG writes a PNG heatmap of g to path.
func HeatmapPNG(g *grid.Grid, title, path string) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "easting"
	p.Y.Label.Text = "northing"

	h := plotter.NewHeatMap(gridXYZ{g}, palette.Heat(24, 1))
	p.Add(h)

	if err := p.Save(6*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("save heatmap %s: %w", path, err)
	}
	return nil
}
