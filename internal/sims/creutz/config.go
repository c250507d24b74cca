package creutz

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

// ErrInvalidConfig is returned by Validate for unusable configurations.
var ErrInvalidConfig = errors.New("invalid config")

// Params holds the physical constants and analysis settings of a run.
type Params struct {
	J             int     `yaml:"j" json:"j" mapstructure:"j"`
	KB            float64 `yaml:"kb" json:"kb" mapstructure:"kb"`
	BinWidth      int     `yaml:"bin_width" json:"bin_width" mapstructure:"bin_width"`
	MinCount      int64   `yaml:"min_count" json:"min_count" mapstructure:"min_count"`
	MCFraction    float64 `yaml:"mc_fraction" json:"mc_fraction" mapstructure:"mc_fraction"`
	DemonMax      int     `yaml:"demon_max" json:"demon_max" mapstructure:"demon_max"`
	HistogramStep int     `yaml:"histogram_step" json:"histogram_step" mapstructure:"histogram_step"`
}

// Config controls lattice dimensions, run length and seeding.
type Config struct {
	// Width is the number of lattice rows (X), Height the number of columns (Y).
	Width  int `yaml:"width" json:"width"`
	Height int `yaml:"height" json:"height"`
	Sweeps int `yaml:"sweeps" json:"sweeps"`

	Seed    int64 `yaml:"seed" json:"seed"`
	Workers int   `yaml:"workers" json:"workers"`

	Params Params `yaml:"params" json:"params"`
}

// DefaultParams returns the standard constants.
func DefaultParams() Params {
	return Params{
		J:             1,
		KB:            1.0,
		BinWidth:      4,
		MinCount:      10,
		MCFraction:    0.20,
		DemonMax:      1000,
		HistogramStep: 100,
	}
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		Width:   64,
		Height:  64,
		Sweeps:  1000,
		Seed:    1337,
		Workers: 1,
		Params:  DefaultParams(),
	}
}

// Validate reports whether the configuration can drive a run.
func (c Config) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("%w: lattice %dx%d must be positive", ErrInvalidConfig, c.Width, c.Height)
	case c.Width > math.MaxInt/c.Height:
		return fmt.Errorf("%w: lattice %dx%d has too many sites", ErrInvalidConfig, c.Width, c.Height)
	case c.Sweeps <= 0:
		return fmt.Errorf("%w: sweeps %d must be positive", ErrInvalidConfig, c.Sweeps)
	case c.Params.BinWidth <= 0:
		return fmt.Errorf("%w: bin width %d must be positive", ErrInvalidConfig, c.Params.BinWidth)
	case c.Params.DemonMax < 0:
		return fmt.Errorf("%w: demon max %d must be non-negative", ErrInvalidConfig, c.Params.DemonMax)
	case c.Params.MCFraction < 0 || c.Params.MCFraction > 1:
		return fmt.Errorf("%w: mc fraction %g outside [0, 1]", ErrInvalidConfig, c.Params.MCFraction)
	case c.Params.KB <= 0:
		return fmt.Errorf("%w: kB %g must be positive", ErrInvalidConfig, c.Params.KB)
	case c.Params.HistogramStep <= 0:
		return fmt.Errorf("%w: histogram step %d must be positive", ErrInvalidConfig, c.Params.HistogramStep)
	}
	return nil
}

// FromMap populates a Config from a string map (flag-style key/value pairs).
// Unparseable or out-of-range values keep their defaults.
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	if v, ok := cfg["w"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Width = parsed
		}
	}
	if v, ok := cfg["h"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Height = parsed
		}
	}
	if v, ok := cfg["sweeps"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Sweeps = parsed
		}
	}
	if v, ok := cfg["seed"]; ok {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Seed = parsed
		}
	}
	if v, ok := cfg["workers"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Workers = parsed
		}
	}
	if v, ok := cfg["j"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil {
			c.Params.J = parsed
		}
	}
	if v, ok := cfg["kb"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 {
			c.Params.KB = parsed
		}
	}
	if v, ok := cfg["bin_width"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Params.BinWidth = parsed
		}
	}
	if v, ok := cfg["min_count"]; ok {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil && parsed >= 0 {
			c.Params.MinCount = parsed
		}
	}
	if v, ok := cfg["mc_fraction"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 && parsed <= 1 {
			c.Params.MCFraction = parsed
		}
	}
	if v, ok := cfg["demon_max"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			c.Params.DemonMax = parsed
		}
	}
	if v, ok := cfg["histogram_step"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Params.HistogramStep = parsed
		}
	}
	return c
}
