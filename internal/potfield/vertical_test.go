package potfield

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/strata-geo/gridfilter/internal/grid"
)

func randomGrid(rows, cols int, seed int64) *grid.Grid {
	rng := rand.New(rand.NewSource(seed))
	g := grid.New(rows, cols)
	for i := range g.Data {
		g.Data[i] = rng.NormFloat64() * 25
	}
	return g
}

func TestVertical_ShapeInvariant(t *testing.T) {
	for _, dims := range [][2]int{{8, 8}, {10, 6}, {5, 17}} {
		g := randomGrid(dims[0], dims[1], 1)
		dz, err := Vertical(g, 0, 1)
		if err != nil {
			t.Fatalf("%v: %v", dims, err)
		}
		if dz.Rows != dims[0] || dz.Cols != dims[1] {
			t.Errorf("shape %dx%d, want %dx%d", dz.Rows, dz.Cols, dims[0], dims[1])
		}
	}
}

func TestVertical_Validation(t *testing.T) {
	g := randomGrid(8, 8, 2)
	if _, err := Vertical(g, 0, 0); !errors.Is(err, grid.ErrParam) {
		t.Errorf("zero interval: want ErrParam, got %v", err)
	}
	if _, err := Vertical(g, 4, 1); !errors.Is(err, grid.ErrShape) {
		t.Errorf("npts below dims: want ErrShape, got %v", err)
	}

	masked := grid.New(4, 4)
	for i := range masked.Mask {
		masked.Mask[i] = true
	}
	if _, err := Vertical(masked, 0, 1); !errors.Is(err, grid.ErrDegenerate) {
		t.Errorf("all-masked: want ErrDegenerate, got %v", err)
	}
}

// A pure cosine along the columns is an eigenfunction of the radial
// weighting: the derivative is the same cosine scaled by its
// wavenumber magnitude.
func TestVertical_CosineEigenfunction(t *testing.T) {
	const n = 16
	const k = 2
	g := grid.New(n, n)
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			g.Set(r, c, math.Cos(2*math.Pi*k*float64(c)/n))
		}
	}
	dz, err := Vertical(g, n, 1)
	if err != nil {
		t.Fatal(err)
	}

	// The zero bin annihilates the removed median, so the expected
	// field is the cosine itself times |k|.
	wn := 2 * math.Pi / float64(n-1)
	for i, v := range dz.Data {
		want := g.Data[i] * k * wn
		if math.Abs(v-want) > 1e-9 {
			t.Fatalf("dz[%d] = %v, want %v", i, v, want)
		}
	}
}

// Round trip: applying the reciprocal radial weighting to the forward
// operator's spectrum (zero bin untouched) recovers the mean-removed
// input within floating-point tolerance.
func TestVertical_RoundTrip(t *testing.T) {
	const n = 16
	g := randomGrid(n, n, 5)
	med, err := g.Median()
	if err != nil {
		t.Fatal(err)
	}

	dz, err := Vertical(g, n, 1)
	if err != nil {
		t.Fatal(err)
	}

	// Invert: spectrum of dz divided by the radial weight.
	buf := make([]complex128, n*n)
	for i, v := range dz.Data {
		buf[i] = complex(v, 0)
	}
	fft2(buf, n, true)
	wn := 2 * math.Pi / float64(n-1)
	for u := 0; u < n; u++ {
		for v := 0; v < n; v++ {
			w := radialWavenumber(u, v, n, wn)
			if w != 0 {
				buf[u*n+v] /= complex(w, 0)
			}
		}
	}
	fft2(buf, n, false)
	scale := 1.0 / float64(n*n)

	// The zero bin is destroyed by the forward multiply, so the
	// reconstruction matches the median-removed input minus its mean.
	sum := 0.0
	for _, v := range g.Data {
		sum += v - med
	}
	mean := sum / float64(n*n)
	for i, v := range g.Data {
		want := (v - med) - mean
		got := real(buf[i]) * scale
		if math.Abs(got-want) > 1e-8 {
			t.Fatalf("round trip [%d]: got %v, want %v", i, got, want)
		}
	}
}

func TestVertical_DoesNotMutateInput(t *testing.T) {
	g := randomGrid(6, 6, 9)
	g.SetMask(2, 2, true)
	g.Set(2, 2, 12345)

	if _, err := Vertical(g, 0, 1); err != nil {
		t.Fatal(err)
	}
	if g.At(2, 2) != 12345 {
		t.Errorf("engine zeroed the caller's masked cell in place")
	}
}

func TestVertical_ConstantFieldIsZero(t *testing.T) {
	g := grid.New(8, 8)
	for i := range g.Data {
		g.Data[i] = 3.5
	}
	dz, err := Vertical(g, 0, 1)
	if err != nil {
		t.Fatal(err)
	}
	for i, v := range dz.Data {
		if math.Abs(v) > 1e-10 {
			t.Fatalf("dz[%d] = %v, want ~0 for constant field", i, v)
		}
	}
}
