package creutz

import "creutz/internal/core"

// EquilibrationSweeps returns the number of leading sweeps discarded before
// sampling: floor(sweeps·fraction), falling back to sweeps/5 when that would
// consume the whole run, and never less than 1.
func EquilibrationSweeps(sweeps int, fraction float64) int {
	n := int(float64(sweeps) * fraction)
	if n >= sweeps {
		n = sweeps / 5
	}
	if n < 1 {
		n = 1
	}
	return n
}

// Sweeper drives single-spin trial updates over a lattice, exchanging energy
// with a demon. It owns the lattice, demon and histogram for the duration of
// a run.
type Sweeper struct {
	lattice  *Lattice
	demon    *Demon
	hist     *Histogram
	rng      core.IntSource
	coupling int

	equil  int
	sweep  int
	series []float64
}

// NewSweeper wires the run state together. Samples from sweeps with index >=
// equil are recorded into hist.
func NewSweeper(l *Lattice, d *Demon, hist *Histogram, rng core.IntSource, coupling, equil int) *Sweeper {
	return &Sweeper{
		lattice:  l,
		demon:    d,
		hist:     hist,
		rng:      rng,
		coupling: coupling,
		equil:    equil,
	}
}

// Sweep performs X·Y random trial flips, then records the demon energy (after
// the equilibration cutoff) and the lattice magnetization.
func (s *Sweeper) Sweep() {
	l := s.lattice
	x, y := l.X(), l.Y()
	for attempt := 0; attempt < x*y; attempt++ {
		i := s.rng.IntN(x)
		j := s.rng.IntN(y)
		if s.demon.TryExchange(l.FlipEnergy(i, j, s.coupling)) {
			l.Flip(i, j)
		}
	}
	if s.sweep >= s.equil {
		s.hist.Record(s.demon.Energy())
	}
	s.series = append(s.series, l.Magnetization())
	s.sweep++
}

// Completed returns the number of sweeps performed.
func (s *Sweeper) Completed() int { return s.sweep }

// Equilibration returns the sweep index where sampling starts.
func (s *Sweeper) Equilibration() int { return s.equil }

// Magnetization returns the per-sweep magnetization series.
func (s *Sweeper) Magnetization() []float64 { return s.series }

// Lattice returns the lattice being swept.
func (s *Sweeper) Lattice() *Lattice { return s.lattice }

// Demon returns the demon being exchanged with.
func (s *Sweeper) Demon() *Demon { return s.demon }

// Histogram returns the post-equilibration demon energy histogram.
func (s *Sweeper) Histogram() *Histogram { return s.hist }
