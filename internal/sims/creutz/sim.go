package creutz

import (
	"strconv"

	"creutz/internal/core"
)

// Sim adapts a single Creutz run to the core.Sim contract so the lattice can
// be watched live. Each Step is one sweep.
type Sim struct {
	cfg           Config
	initialEnergy int
	sweeper       *Sweeper
	cells         []uint8
}

// NewSim returns a viewer simulation for cfg starting from initialEnergy.
func NewSim(cfg Config, initialEnergy int) *Sim {
	s := &Sim{cfg: cfg, initialEnergy: initialEnergy}
	s.Reset(cfg.Seed)
	return s
}

// Name returns the simulation identifier.
func (s *Sim) Name() string { return "creutz" }

// Size returns the render dimensions: columns across, rows down.
func (s *Sim) Size() core.Size { return core.Size{W: s.cfg.Height, H: s.cfg.Width} }

// Reset rebuilds the lattice in the ground state and refills the demon.
func (s *Sim) Reset(seed int64) {
	if seed == 0 {
		seed = s.cfg.Seed
	}
	p := s.cfg.Params
	lattice := NewLattice(s.cfg.Width, s.cfg.Height)
	demon := NewDemon(s.initialEnergy, p.DemonMax)
	equil := EquilibrationSweeps(s.cfg.Sweeps, p.MCFraction)
	s.sweeper = NewSweeper(lattice, demon, NewHistogram(p.BinWidth), core.NewRNG(seed), p.J, equil)
	s.cells = make([]uint8, lattice.Sites())
	s.syncCells()
}

// Step performs one sweep.
func (s *Sim) Step() {
	s.sweeper.Sweep()
	s.syncCells()
}

// Cells exposes 1 for up spins and 0 for down spins.
func (s *Sim) Cells() []uint8 { return s.cells }

// Sweeper exposes the running sweeper.
func (s *Sim) Sweeper() *Sweeper { return s.sweeper }

// ParameterControls lists the HUD-adjustable values.
func (s *Sim) ParameterControls() []core.ParameterControl {
	return []core.ParameterControl{
		{
			Key:    "demon_energy",
			Label:  "Initial demon energy",
			Step:   s.cfg.Params.BinWidth * 10,
			Min:    0,
			Max:    s.cfg.Params.DemonMax,
			HasMin: true,
			HasMax: true,
		},
	}
}

// SetIntParameter updates an integer parameter. Changing the initial demon
// energy restarts the run.
func (s *Sim) SetIntParameter(key string, value int) bool {
	switch key {
	case "demon_energy":
		s.initialEnergy = clamp(value, 0, s.cfg.Params.DemonMax)
		s.Reset(s.cfg.Seed)
		return true
	}
	return false
}

func (s *Sim) syncCells() {
	for i, spin := range s.sweeper.Lattice().Spins() {
		if spin > 0 {
			s.cells[i] = 1
		} else {
			s.cells[i] = 0
		}
	}
}

func init() {
	core.Register("creutz", func(cfg map[string]string) core.Sim {
		c := FromMap(cfg)
		energy := 0
		if v, ok := cfg["demon_energy"]; ok {
			if parsed, err := strconv.Atoi(v); err == nil {
				energy = parsed
			}
		}
		return NewSim(c, energy)
	})
}
