package creutz

import (
	"testing"

	"creutz/internal/core"
)

func TestSimRegistered(t *testing.T) {
	factory, err := core.Lookup("creutz")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	sim := factory(map[string]string{"w": "6", "h": "10", "demon_energy": "200"})
	if size := sim.Size(); size.W != 10 || size.H != 6 {
		t.Fatalf("size = %+v, expected 10x6 (columns x rows)", size)
	}
	if len(sim.Cells()) != 60 {
		t.Fatalf("cells = %d, expected 60", len(sim.Cells()))
	}
	for i, c := range sim.Cells() {
		if c != 1 {
			t.Fatalf("cell %d = %d, expected ground state", i, c)
		}
	}
	sim.Step()
	provider, ok := sim.(core.ParameterProvider)
	if !ok {
		t.Fatal("creutz sim should expose parameters")
	}
	p, ok := provider.Parameters().Lookup("sweep")
	if !ok || p.Value != "1" {
		t.Fatalf("sweep parameter = %+v, expected 1", p)
	}
}

func TestSimSetDemonEnergyRestarts(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width, cfg.Height = 8, 8
	sim := NewSim(cfg, 0)
	for i := 0; i < 5; i++ {
		sim.Step()
	}
	if !sim.SetIntParameter("demon_energy", 5000) {
		t.Fatal("demon_energy should be adjustable")
	}
	if sim.Sweeper().Completed() != 0 {
		t.Fatal("changing the demon energy should restart the run")
	}
	if got := sim.Sweeper().Demon().Energy(); got != cfg.Params.DemonMax {
		t.Fatalf("demon energy = %d, expected clamp to %d", got, cfg.Params.DemonMax)
	}
	if sim.SetIntParameter("unknown", 1) {
		t.Fatal("unknown keys should be rejected")
	}
}

func TestSimCellsTrackSpins(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width, cfg.Height = 6, 6
	sim := NewSim(cfg, 600)
	for i := 0; i < 20; i++ {
		sim.Step()
	}
	spins := sim.Sweeper().Lattice().Spins()
	for i, c := range sim.Cells() {
		if (spins[i] > 0) != (c == 1) {
			t.Fatalf("cell %d = %d does not match spin %d", i, c, spins[i])
		}
	}
}
