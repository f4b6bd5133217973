package grid

import (
	"errors"
	"math"
	"testing"
)

func TestNextPow2(t *testing.T) {
	cases := map[int]int{1: 1, 2: 2, 3: 4, 4: 4, 5: 8, 100: 128, 128: 128, 129: 256}
	for n, want := range cases {
		if got := NextPow2(n); got != want {
			t.Errorf("NextPow2(%d) = %d, want %d", n, got, want)
		}
	}
}

func TestPadEdgeSquare(t *testing.T) {
	g, _ := FromRows([][]float64{
		{1, 2},
		{3, 4},
		{5, 6},
	})
	p, rOff, cOff, err := g.PadEdgeSquare(8)
	if err != nil {
		t.Fatalf("PadEdgeSquare: %v", err)
	}
	if p.Rows != 8 || p.Cols != 8 {
		t.Fatalf("padded shape %dx%d, want 8x8", p.Rows, p.Cols)
	}
	if rOff != 2 || cOff != 3 {
		t.Fatalf("offsets (%d, %d), want (2, 3)", rOff, cOff)
	}
	// Original block survives in place.
	for r := 0; r < g.Rows; r++ {
		for c := 0; c < g.Cols; c++ {
			if p.At(r+rOff, c+cOff) != g.At(r, c) {
				t.Fatalf("payload moved: p(%d,%d) = %v, want %v", r+rOff, c+cOff, p.At(r+rOff, c+cOff), g.At(r, c))
			}
		}
	}
	// Corners replicate the nearest data cell.
	if p.At(0, 0) != 1 {
		t.Errorf("top-left pad = %v, want 1", p.At(0, 0))
	}
	if p.At(7, 7) != 6 {
		t.Errorf("bottom-right pad = %v, want 6", p.At(7, 7))
	}
	// Edge rows replicate the first data row across the padded band.
	if p.At(0, cOff+1) != 2 {
		t.Errorf("top edge pad = %v, want 2", p.At(0, cOff+1))
	}
}

func TestPadEdgeSquare_TooSmall(t *testing.T) {
	g := New(5, 5)
	if _, _, _, err := g.PadEdgeSquare(4); !errors.Is(err, ErrShape) {
		t.Fatalf("want ErrShape, got %v", err)
	}
}

func TestBoxSmoothValid(t *testing.T) {
	g, _ := FromRows([][]float64{
		{1, 1, 1, 1},
		{1, 10, 1, 1},
		{1, 1, 1, 1},
		{1, 1, 1, 1},
	})
	s, err := g.BoxSmoothValid(3)
	if err != nil {
		t.Fatalf("BoxSmoothValid: %v", err)
	}
	if s.Rows != 2 || s.Cols != 2 {
		t.Fatalf("smoothed shape %dx%d, want 2x2", s.Rows, s.Cols)
	}
	// Window covering the spike averages (8*1 + 10)/9 = 2.
	if math.Abs(s.At(0, 0)-2) > 1e-12 {
		t.Errorf("s(0,0) = %v, want 2", s.At(0, 0))
	}
	if math.Abs(s.At(1, 1)-2) > 1e-12 {
		t.Errorf("s(1,1) = %v, want 2", s.At(1, 1))
	}
}

func TestBoxSmoothValid_MaskSpreads(t *testing.T) {
	g := New(5, 5)
	g.SetMask(2, 2, true)
	s, err := g.BoxSmoothValid(3)
	if err != nil {
		t.Fatalf("BoxSmoothValid: %v", err)
	}
	// Every 3x3 window of a 5x5 grid touches the centre cell.
	for i, m := range s.Mask {
		if !m {
			t.Errorf("output cell %d unmasked, want masked", i)
		}
	}
}

func TestBoxSmoothValid_Validation(t *testing.T) {
	g := New(4, 4)
	if _, err := g.BoxSmoothValid(2); !errors.Is(err, ErrParam) {
		t.Errorf("even size: want ErrParam, got %v", err)
	}
	if _, err := g.BoxSmoothValid(5); !errors.Is(err, ErrShape) {
		t.Errorf("oversized kernel: want ErrShape, got %v", err)
	}
}

func TestBoxSmoothSame(t *testing.T) {
	g, _ := FromRows([][]float64{
		{9, 9, 9},
		{9, 9, 9},
		{9, 9, 9},
	})
	s, err := g.BoxSmoothSame(3)
	if err != nil {
		t.Fatalf("BoxSmoothSame: %v", err)
	}
	if s.Rows != 3 || s.Cols != 3 {
		t.Fatalf("shape changed: %dx%d", s.Rows, s.Cols)
	}
	// Centre sees the full kernel; corners see 4 of 9 taps (zero pad).
	if math.Abs(s.At(1, 1)-9) > 1e-12 {
		t.Errorf("centre = %v, want 9", s.At(1, 1))
	}
	if math.Abs(s.At(0, 0)-4) > 1e-12 {
		t.Errorf("corner = %v, want 4", s.At(0, 0))
	}
}
