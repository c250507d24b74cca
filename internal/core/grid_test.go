package core

import "testing"

func TestNewSpinGridStartsAllUp(t *testing.T) {
	g := NewSpinGrid(3, 5)
	if g.Len() != 15 {
		t.Fatalf("expected 15 sites, got %d", g.Len())
	}
	for idx, s := range g.Spins() {
		if s != 1 {
			t.Fatalf("site %d = %d, expected +1", idx, s)
		}
	}
	if g.Sum() != 15 {
		t.Fatalf("expected sum 15, got %d", g.Sum())
	}
}

func TestSpinGridWrap(t *testing.T) {
	g := NewSpinGrid(4, 3)
	cases := []struct {
		i, j   int
		wi, wj int
	}{
		{0, 0, 0, 0},
		{-1, 0, 3, 0},
		{4, 0, 0, 0},
		{0, -1, 0, 2},
		{0, 3, 0, 0},
		{-5, 7, 3, 1},
	}
	for _, tc := range cases {
		i, j := g.Wrap(tc.i, tc.j)
		if i != tc.wi || j != tc.wj {
			t.Fatalf("Wrap(%d,%d) = (%d,%d), expected (%d,%d)", tc.i, tc.j, i, j, tc.wi, tc.wj)
		}
	}
}

func TestSpinGridInvertIsRowMajor(t *testing.T) {
	g := NewSpinGrid(2, 3)
	g.Invert(1, 2)
	if got := g.Spins()[1*3+2]; got != -1 {
		t.Fatalf("expected row-major site 5 to be -1, got %d", got)
	}
	if g.At(-1, -1) != -1 {
		t.Fatal("wrapped lookup should reach the inverted site")
	}
	g.Invert(1, 2)
	if g.Sum() != 6 {
		t.Fatalf("double inversion should restore the grid, sum=%d", g.Sum())
	}
}

func TestNewSpinGridClampsDimensions(t *testing.T) {
	g := NewSpinGrid(0, -3)
	if g.Rows != 1 || g.Cols != 1 {
		t.Fatalf("expected 1x1 grid, got %dx%d", g.Rows, g.Cols)
	}
}
