// Package gridio reads and writes rasters as ESRI ASCII grids (.asc),
// the interchange format the CLI uses for both inputs and outputs.
// NODATA cells map to the grid mask in both directions.
package gridio

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/strata-geo/gridfilter/internal/grid"
)

// Read loads an ESRI ASCII grid from path.
func Read(path string) (*grid.Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open grid: %w", err)
	}
	defer f.Close()
	g, err := ReadASC(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return g, nil
}

// ReadASC parses an ESRI ASCII grid. Header keys are case-insensitive;
// ncols, nrows and cellsize are required, the corner coordinates and
// NODATA_value default to zero. Row order in the file is top-down and
// is preserved: grid row 0 is the northernmost row.
func ReadASC(r io.Reader) (*grid.Grid, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 1024*1024), 1024*1024)

	header := map[string]float64{}
	var words []string
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		key := strings.ToLower(fields[0])
		if len(fields) == 2 && isHeaderKey(key) {
			v, err := strconv.ParseFloat(fields[1], 64)
			if err != nil {
				return nil, fmt.Errorf("header %s: %w", key, err)
			}
			header[key] = v
			continue
		}
		words = append(words, fields...)
		break
	}
	for sc.Scan() {
		words = append(words, strings.Fields(sc.Text())...)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	cols := int(header["ncols"])
	rows := int(header["nrows"])
	if rows < 1 || cols < 1 {
		return nil, fmt.Errorf("missing or invalid nrows/ncols header: %w", grid.ErrShape)
	}
	if len(words) != rows*cols {
		return nil, fmt.Errorf("have %d values, want %d: %w", len(words), rows*cols, grid.ErrShape)
	}

	g := grid.New(rows, cols)
	g.XLL = header["xllcorner"]
	g.YLL = header["yllcorner"]
	if cs, ok := header["cellsize"]; ok {
		g.CellSize = cs
	}
	nodata, hasNodata := header["nodata_value"]
	if hasNodata {
		g.Nodata = nodata
	}

	for i, w := range words {
		v, err := strconv.ParseFloat(w, 64)
		if err != nil {
			return nil, fmt.Errorf("value %d: %w", i, err)
		}
		g.Data[i] = v
		if hasNodata && v == nodata {
			g.Mask[i] = true
		}
	}
	return g, nil
}

func isHeaderKey(k string) bool {
	switch k {
	case "ncols", "nrows", "xllcorner", "yllcorner", "cellsize", "nodata_value":
		return true
	}
	return false
}

// Write stores g as an ESRI ASCII grid at path, masked cells written
// as the grid's nodata value.
func Write(path string, g *grid.Grid) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create grid: %w", err)
	}
	defer f.Close()
	if err := WriteASC(f, g); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// WriteASC serialises g in ESRI ASCII form.
func WriteASC(w io.Writer, g *grid.Grid) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "ncols %d\n", g.Cols)
	fmt.Fprintf(bw, "nrows %d\n", g.Rows)
	fmt.Fprintf(bw, "xllcorner %g\n", g.XLL)
	fmt.Fprintf(bw, "yllcorner %g\n", g.YLL)
	fmt.Fprintf(bw, "cellsize %g\n", g.CellSize)
	fmt.Fprintf(bw, "NODATA_value %g\n", g.Nodata)
	for r := 0; r < g.Rows; r++ {
		for c := 0; c < g.Cols; c++ {
			if c > 0 {
				bw.WriteByte(' ')
			}
			v := g.At(r, c)
			if g.IsMasked(r, c) {
				v = g.Nodata
			}
			fmt.Fprintf(bw, "%g", v)
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}
