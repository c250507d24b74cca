package app

import (
	"strconv"

	"creutz/internal/sims/creutz"

	"github.com/spf13/pflag"
)

// Config represents the command-line parameters of the viewer.
type Config struct {
	Sim         string
	Scale       int
	TPS         int
	Seed        int64
	Rows        int
	Cols        int
	DemonEnergy int
	HUDWidth    int
}

// NewConfig returns a Config populated with sensible defaults.
func NewConfig() *Config {
	d := creutz.DefaultConfig()
	return &Config{
		Sim:         "creutz",
		Scale:       6,
		TPS:         30,
		Seed:        d.Seed,
		Rows:        d.Width,
		Cols:        d.Height,
		DemonEnergy: 400,
		HUDWidth:    260,
	}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *pflag.FlagSet) {
	fs.StringVar(&c.Sim, "sim", c.Sim, "simulation to run")
	fs.IntVar(&c.Scale, "scale", c.Scale, "pixel scale multiplier")
	fs.IntVar(&c.TPS, "tps", c.TPS, "sweeps per second")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "seed for simulation reset")
	fs.IntVar(&c.Rows, "x", c.Rows, "lattice rows")
	fs.IntVar(&c.Cols, "y", c.Cols, "lattice columns")
	fs.IntVar(&c.DemonEnergy, "energy", c.DemonEnergy, "initial demon energy")
	fs.IntVar(&c.HUDWidth, "hud", c.HUDWidth, "parameter panel width in pixels, 0 hides it")
}

// SimOptions returns the flag-style option map passed to the sim factory.
func (c *Config) SimOptions() map[string]string {
	return map[string]string{
		"w":            strconv.Itoa(c.Rows),
		"h":            strconv.Itoa(c.Cols),
		"seed":         strconv.FormatInt(c.Seed, 10),
		"demon_energy": strconv.Itoa(c.DemonEnergy),
	}
}
