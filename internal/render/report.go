package render

import (
	"fmt"
	"math"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/strata-geo/gridfilter/internal/grid"
)

// viridis is the colour ramp used for grid values in the HTML report.
var viridis = []string{
	"#440154", "#482777", "#3e4989", "#31688e", "#26828e",
	"#1f9e89", "#35b779", "#6ece58", "#b5de2b", "#fde725",
}

// NamedGrid pairs an output raster with its display label.
type NamedGrid struct {
	Name string
	Grid *grid.Grid
}

// maxReportPoints caps the per-chart payload; larger grids are
// downsampled by stride.
const maxReportPoints = 8000

// Report writes an interactive HTML page with one chart per output
// grid: cell centres as coloured scatter points with a calculable
// visual map, masked cells omitted.
func Report(title string, outputs []NamedGrid, path string) error {
	page := components.NewPage()
	page.PageTitle = title

	for _, out := range outputs {
		page.AddCharts(gridChart(out.Name, out.Grid))
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	defer f.Close()
	if err := page.Render(f); err != nil {
		return fmt.Errorf("render report %s: %w", path, err)
	}
	return nil
}

func gridChart(name string, g *grid.Grid) *charts.Scatter {
	stride := 1
	if g.Rows*g.Cols > maxReportPoints {
		stride = int(math.Ceil(math.Sqrt(float64(g.Rows*g.Cols) / float64(maxReportPoints))))
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	data := make([]opts.ScatterData, 0, g.Rows*g.Cols/(stride*stride)+1)
	for r := 0; r < g.Rows; r += stride {
		for c := 0; c < g.Cols; c += stride {
			if g.IsMasked(r, c) {
				continue
			}
			v := g.At(r, c)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
			x := g.XLL + (float64(c)+0.5)*g.CellSize
			y := g.YLL + (float64(g.Rows-1-r)+0.5)*g.CellSize
			data = append(data, opts.ScatterData{Value: []interface{}{x, y, v}})
		}
	}
	if lo > hi {
		lo, hi = 0, 1
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "760px", Height: "760px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    name,
			Subtitle: fmt.Sprintf("%dx%d cells, stride=%d", g.Rows, g.Cols, stride),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "easting", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: "northing", NameLocation: "middle", NameGap: 30}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        float32(lo),
			Max:        float32(hi),
			Dimension:  "2",
			InRange:    &opts.VisualMapInRange{Color: viridis},
		}),
	)
	scatter.AddSeries(name, data, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 4}))
	return scatter
}
