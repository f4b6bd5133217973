package potfield

import (
	"math"

	"gonum.org/v1/gonum/dsp/fourier"
)

// fft2 applies an unnormalised 2D FFT in place over an n x n row-major
// buffer, rows then columns. forward selects direction; the inverse
// accumulates the usual n*n factor which the caller divides out.
func fft2(a []complex128, n int, forward bool) {
	fft := fourier.NewCmplxFFT(n)

	for r := 0; r < n; r++ {
		row := a[r*n : (r+1)*n]
		if forward {
			fft.Coefficients(row, row)
		} else {
			fft.Sequence(row, row)
		}
	}

	col := make([]complex128, n)
	for c := 0; c < n; c++ {
		for r := 0; r < n; r++ {
			col[r] = a[r*n+c]
		}
		if forward {
			fft.Coefficients(col, col)
		} else {
			fft.Sequence(col, col)
		}
		for r := 0; r < n; r++ {
			a[r*n+c] = col[r]
		}
	}
}

// radialWavenumber returns |k| for bin (u, v) of an n-point transform
// with angular increment wn. Standard FFT ordering: the upper half of
// each axis carries the negative frequencies.
func radialWavenumber(u, v, n int, wn float64) float64 {
	fu := float64(u)
	if u >= n/2 {
		fu = float64(u - n)
	}
	fv := float64(v)
	if v >= n/2 {
		fv = float64(v - n)
	}
	return math.Hypot(fu*wn, fv*wn)
}

// applyRadialWeight scales every bin of the n x n spectrum by its
// radial wavenumber magnitude. The zero bin is scaled to zero.
func applyRadialWeight(a []complex128, n int, wn float64) {
	for u := 0; u < n; u++ {
		for v := 0; v < n; v++ {
			a[u*n+v] *= complex(radialWavenumber(u, v, n, wn), 0)
		}
	}
}
