package grid

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// valid returns the unmasked samples as a fresh slice.
func (g *Grid) valid() []float64 {
	out := make([]float64, 0, len(g.Data))
	for i, v := range g.Data {
		if !g.Mask[i] {
			out = append(out, v)
		}
	}
	return out
}

// Mean returns the mean of the unmasked samples.
func (g *Grid) Mean() (float64, error) {
	vals := g.valid()
	if len(vals) == 0 {
		return 0, fmt.Errorf("mean: %w", ErrDegenerate)
	}
	return stat.Mean(vals, nil), nil
}

// Std returns the sample standard deviation of the unmasked samples.
func (g *Grid) Std() (float64, error) {
	vals := g.valid()
	if len(vals) == 0 {
		return 0, fmt.Errorf("std: %w", ErrDegenerate)
	}
	if len(vals) == 1 {
		return 0, nil
	}
	return stat.StdDev(vals, nil), nil
}

// Median returns the median of the unmasked samples.
func (g *Grid) Median() (float64, error) {
	vals := g.valid()
	if len(vals) == 0 {
		return 0, fmt.Errorf("median: %w", ErrDegenerate)
	}
	sort.Float64s(vals)
	n := len(vals)
	if n%2 == 1 {
		return vals[n/2], nil
	}
	return 0.5 * (vals[n/2-1] + vals[n/2]), nil
}

// MinMax returns the smallest and largest finite unmasked samples.
func (g *Grid) MinMax() (min, max float64, err error) {
	min = math.Inf(1)
	max = math.Inf(-1)
	found := false
	for i, v := range g.Data {
		if g.Mask[i] || math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		found = true
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	if !found {
		return 0, 0, fmt.Errorf("minmax: %w", ErrDegenerate)
	}
	return min, max, nil
}
