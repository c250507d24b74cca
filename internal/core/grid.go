package core

// SpinGrid stores a 2D grid of Ising spins (+1 or -1) in row-major order.
// Rows are addressed by i in [0, Rows) and columns by j in [0, Cols).
type SpinGrid struct {
	Rows, Cols int
	data       []int8
}

// NewSpinGrid allocates a grid with the given dimensions, every spin up.
func NewSpinGrid(rows, cols int) *SpinGrid {
	if rows <= 0 {
		rows = 1
	}
	if cols <= 0 {
		cols = 1
	}
	g := &SpinGrid{Rows: rows, Cols: cols, data: make([]int8, rows*cols)}
	g.Fill(1)
	return g
}

// Spins exposes the backing slice so callers can read values directly.
func (g *SpinGrid) Spins() []int8 { return g.data }

// Len reports the number of sites.
func (g *SpinGrid) Len() int { return len(g.data) }

// Index returns the linear slice index for site (i, j). Coordinates are wrapped.
func (g *SpinGrid) Index(i, j int) int {
	i, j = g.Wrap(i, j)
	return i*g.Cols + j
}

// Wrap applies toroidal wrapping to the provided coordinates.
func (g *SpinGrid) Wrap(i, j int) (int, int) {
	i = (i%g.Rows + g.Rows) % g.Rows
	j = (j%g.Cols + g.Cols) % g.Cols
	return i, j
}

// At returns the spin at (i, j).
func (g *SpinGrid) At(i, j int) int { return int(g.data[g.Index(i, j)]) }

// Invert flips the sign of the spin at (i, j).
func (g *SpinGrid) Invert(i, j int) {
	idx := g.Index(i, j)
	g.data[idx] = -g.data[idx]
}

// Fill sets every spin to s.
func (g *SpinGrid) Fill(s int8) {
	for i := range g.data {
		g.data[i] = s
	}
}

// Sum returns the sum of all spins.
func (g *SpinGrid) Sum() int {
	total := 0
	for _, s := range g.data {
		total += int(s)
	}
	return total
}
