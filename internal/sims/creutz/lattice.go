package creutz

import "creutz/internal/core"

// Lattice is a periodic X×Y Ising lattice. Row indices wrap modulo X and
// column indices modulo Y.
type Lattice struct {
	grid *core.SpinGrid
}

// NewLattice returns an x×y lattice in the ferromagnetic ground state (all +1).
func NewLattice(x, y int) *Lattice {
	return &Lattice{grid: core.NewSpinGrid(x, y)}
}

// X returns the number of rows.
func (l *Lattice) X() int { return l.grid.Rows }

// Y returns the number of columns.
func (l *Lattice) Y() int { return l.grid.Cols }

// Sites returns X·Y.
func (l *Lattice) Sites() int { return l.grid.Len() }

// Spin returns the spin at (i, j).
func (l *Lattice) Spin(i, j int) int { return l.grid.At(i, j) }

// Spins exposes the row-major spin buffer.
func (l *Lattice) Spins() []int8 { return l.grid.Spins() }

// LocalFieldSum returns the sum of the four periodic neighbours of (i, j).
func (l *Lattice) LocalFieldSum(i, j int) int {
	g := l.grid
	return g.At(i-1, j) + g.At(i+1, j) + g.At(i, j-1) + g.At(i, j+1)
}

// FlipEnergy is the energy cost of inverting (i, j) with coupling J.
func (l *Lattice) FlipEnergy(i, j, coupling int) int {
	return 2 * coupling * l.Spin(i, j) * l.LocalFieldSum(i, j)
}

// Flip inverts the spin at (i, j). Callers flip only after an accepted exchange.
func (l *Lattice) Flip(i, j int) { l.grid.Invert(i, j) }

// Magnetization returns the mean spin, in [-1, 1].
func (l *Lattice) Magnetization() float64 {
	return float64(l.grid.Sum()) / float64(l.grid.Len())
}

// Energy returns the total nearest-neighbour energy -J·Σ s_i s_j, counting each
// bond once.
func (l *Lattice) Energy(coupling int) int {
	g := l.grid
	total := 0
	for i := 0; i < g.Rows; i++ {
		for j := 0; j < g.Cols; j++ {
			s := g.At(i, j)
			total -= coupling * s * (g.At(i+1, j) + g.At(i, j+1))
		}
	}
	return total
}
