// Command gridfilter applies geophysical image filters to an ESRI
// ASCII raster: horizon-angle visibility, the tilt-angle family, and
// the vertical/directional derivative filters. Outputs are written as
// .asc grids, with optional PNG heatmaps, an HTML report, and a SQLite
// run-history record.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/strata-geo/gridfilter/internal/grid"
	"github.com/strata-geo/gridfilter/internal/gridio"
	"github.com/strata-geo/gridfilter/internal/potfield"
	"github.com/strata-geo/gridfilter/internal/progress"
	"github.com/strata-geo/gridfilter/internal/render"
	"github.com/strata-geo/gridfilter/internal/storage/runs"
	"github.com/strata-geo/gridfilter/internal/visibility"
)

var (
	inPath  = flag.String("in", "", "input ESRI ASCII grid (.asc)")
	outDir  = flag.String("outdir", ".", "directory for output grids")
	filter  = flag.String("filter", "visibility", "filter to apply: visibility|tilt|vderiv|dirderiv|dratio")
	window  = flag.Int("window", 11, "visibility window size (odd, >= 3)")
	height  = flag.Float64("height", 10, "visibility observer height, percent of grid std dev")
	azimuth = flag.Float64("azimuth", 75, "filter azimuth in degrees from east")
	smooth  = flag.Int("smooth", 0, "tilt smoothing matrix size (odd, 0 disables)")
	order   = flag.Int("order", 1, "derivative ratio filter order (>= 1)")
	pngOut  = flag.Bool("png", false, "also write a PNG heatmap per output")
	report  = flag.Bool("report", false, "also write an HTML report of all outputs")
	dbPath  = flag.String("db", "", "optional SQLite run-history database")
)

func main() {
	flag.Parse()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	if *inPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger); err != nil {
		logger.Error("run failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	g, err := gridio.Read(*inPath)
	if err != nil {
		return err
	}
	logger.Info("loaded grid", "path", *inPath, "rows", g.Rows, "cols", g.Cols)

	started := time.Now()
	outputs, err := applyFilter(ctx, logger, g)
	if err != nil {
		return err
	}
	finished := time.Now()
	logger.Info("filter complete", "filter", *filter, "outputs", len(outputs), "elapsed", finished.Sub(started).String())

	if err := os.MkdirAll(*outDir, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	base := strippedBase(*inPath)
	for _, out := range outputs {
		path := filepath.Join(*outDir, fmt.Sprintf("%s_%s.asc", base, out.Name))
		if err := gridio.Write(path, out.Grid); err != nil {
			return err
		}
		logger.Info("wrote grid", "path", path)
		if *pngOut {
			png := filepath.Join(*outDir, fmt.Sprintf("%s_%s.png", base, out.Name))
			if err := render.HeatmapPNG(out.Grid, out.Name, png); err != nil {
				return err
			}
			logger.Info("wrote heatmap", "path", png)
		}
	}

	if *report {
		path := filepath.Join(*outDir, base+"_report.html")
		if err := render.Report(base, outputs, path); err != nil {
			return err
		}
		logger.Info("wrote report", "path", path)
	}

	if *dbPath != "" {
		if err := recordRun(g, outputs, started, finished); err != nil {
			return err
		}
		logger.Info("recorded run", "db", *dbPath)
	}
	return nil
}

func applyFilter(ctx context.Context, logger *slog.Logger, g *grid.Grid) ([]render.NamedGrid, error) {
	switch *filter {
	case "visibility":
		std, err := g.Std()
		if err != nil {
			return nil, err
		}
		rep := progress.NewLog(logger, "visibility", 2*time.Second)
		res, err := visibility.Compute(ctx, g, *window, *height*std/100, rep)
		if err != nil {
			return nil, err
		}
		return []render.NamedGrid{
			{Name: "total_visibility", Grid: res.Total},
			{Name: "visibility_variation", Grid: res.Stddev},
			{Name: "visibility_vector_resultant", Grid: res.Resultant},
		}, nil

	case "tilt":
		set, err := potfield.Tilt(g, *azimuth, *smooth)
		if err != nil {
			return nil, err
		}
		return []render.NamedGrid{
			{Name: "standard_tilt_angle", Grid: set.T1},
			{Name: "hyperbolic_tilt_angle", Grid: set.TH},
			{Name: "second_order_tilt_angle", Grid: set.T2},
			{Name: "tilt_directional_derivative", Grid: set.TA},
			{Name: "total_derivative", Grid: set.TDX},
		}, nil

	case "vderiv", "dirderiv", "dratio":
		op := potfield.OpVertical
		name := "vertical_derivative"
		switch *filter {
		case "dirderiv":
			op, name = potfield.OpDirectional, "directional_derivative"
		case "dratio":
			op, name = potfield.OpRatio, "derivative_ratio"
		}
		out, err := op.Apply(g, *azimuth, *order)
		if err != nil {
			return nil, err
		}
		return []render.NamedGrid{{Name: name, Grid: out}}, nil
	}
	return nil, fmt.Errorf("unknown filter %q: %w", *filter, grid.ErrParam)
}

func recordRun(g *grid.Grid, outputs []render.NamedGrid, started, finished time.Time) error {
	store, err := runs.Open(*dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	params, _ := json.Marshal(map[string]any{
		"window":  *window,
		"height":  *height,
		"azimuth": *azimuth,
		"smooth":  *smooth,
		"order":   *order,
	})
	runID, err := store.RecordRun(&runs.FilterRun{
		SourcePath: *inPath,
		Filter:     *filter,
		ParamsJSON: string(params),
		Rows:       g.Rows,
		Cols:       g.Cols,
		Started:    started,
		Finished:   finished,
	})
	if err != nil {
		return err
	}
	for _, out := range outputs {
		if err := store.RecordOutput(runID, out.Name, out.Grid); err != nil {
			return err
		}
	}
	return nil
}

func strippedBase(path string) string {
	base := filepath.Base(path)
	return base[:len(base)-len(filepath.Ext(base))]
}
