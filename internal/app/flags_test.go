package app

import (
	"testing"

	"creutz/internal/core"
	_ "creutz/internal/sims/creutz"

	"github.com/spf13/pflag"
)

func TestConfigBind(t *testing.T) {
	cfg := NewConfig()
	fs := pflag.NewFlagSet("view", pflag.ContinueOnError)
	cfg.Bind(fs)
	if err := fs.Parse([]string{"--x=16", "--y=24", "--energy=80", "--seed=9"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Rows != 16 || cfg.Cols != 24 || cfg.DemonEnergy != 80 || cfg.Seed != 9 {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.Sim != "creutz" {
		t.Fatalf("default sim = %q", cfg.Sim)
	}
}

func TestSimOptionsBuildRegisteredSim(t *testing.T) {
	cfg := NewConfig()
	cfg.Rows, cfg.Cols, cfg.DemonEnergy = 8, 12, 40

	factory, err := core.Lookup(cfg.Sim)
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	sim := factory(cfg.SimOptions())
	if size := sim.Size(); size.W != 12 || size.H != 8 {
		t.Fatalf("size = %+v, expected 12x8", size)
	}
	snap := sim.(core.ParameterProvider).Parameters()
	if p, ok := snap.Lookup("demon_energy"); !ok || p.Value != "40" {
		t.Fatalf("demon_energy = %+v", p)
	}
}
