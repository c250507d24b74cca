// Package config layers defaults, an optional YAML file, CREUTZ_* environment
// variables and command-line flags into Settings.
package config

import (
	"fmt"
	"io"
	"os"
	"strings"

	"creutz/internal/sims/creutz"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. CREUTZ_PARAMS_J.
const EnvPrefix = "CREUTZ"

// Settings are the resolved options shared by every subcommand.
type Settings struct {
	OutputDir string        `mapstructure:"output_dir" yaml:"output_dir"`
	DBPath    string        `mapstructure:"db" yaml:"db"`
	Plots     bool          `mapstructure:"plots" yaml:"plots"`
	LogLevel  string        `mapstructure:"log_level" yaml:"log_level"`
	Seed      int64         `mapstructure:"seed" yaml:"seed"`
	Workers   int           `mapstructure:"workers" yaml:"workers"`
	Addr      string        `mapstructure:"addr" yaml:"addr"`
	Params    creutz.Params `mapstructure:"params" yaml:"params"`
}

// Defaults returns the built-in settings.
func Defaults() Settings {
	sim := creutz.DefaultConfig()
	return Settings{
		OutputDir: "results",
		LogLevel:  "info",
		Seed:      sim.Seed,
		Workers:   sim.Workers,
		Addr:      ":8080",
		Params:    sim.Params,
	}
}

// flagKeys maps command-line flag names to settings keys.
var flagKeys = map[string]string{
	"out":            "output_dir",
	"db":             "db",
	"plots":          "plots",
	"log-level":      "log_level",
	"seed":           "seed",
	"workers":        "workers",
	"addr":           "addr",
	"j":              "params.j",
	"kb":             "params.kb",
	"bin-width":      "params.bin_width",
	"min-count":      "params.min_count",
	"mc-fraction":    "params.mc_fraction",
	"demon-max":      "params.demon_max",
	"histogram-step": "params.histogram_step",
}

// New returns a viper instance with defaults and environment lookup installed.
func New() *viper.Viper {
	v := viper.New()
	d := Defaults()
	v.SetDefault("output_dir", d.OutputDir)
	v.SetDefault("db", d.DBPath)
	v.SetDefault("plots", d.Plots)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("seed", d.Seed)
	v.SetDefault("workers", d.Workers)
	v.SetDefault("addr", d.Addr)
	v.SetDefault("params.j", d.Params.J)
	v.SetDefault("params.kb", d.Params.KB)
	v.SetDefault("params.bin_width", d.Params.BinWidth)
	v.SetDefault("params.min_count", d.Params.MinCount)
	v.SetDefault("params.mc_fraction", d.Params.MCFraction)
	v.SetDefault("params.demon_max", d.Params.DemonMax)
	v.SetDefault("params.histogram_step", d.Params.HistogramStep)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// BindFlags binds every known flag present in flags. Flags only override
// lower layers when set explicitly.
func BindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := flags.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind flag %s: %w", name, err)
		}
	}
	return nil
}

// Load reads the YAML file at path when path is non-empty and decodes the
// layered settings.
func Load(v *viper.Viper, path string) (Settings, error) {
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return Settings{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("decode config: %w", err)
	}
	return s, nil
}

// SimConfig combines the settings with a lattice request into a validated
// simulation config.
func (s Settings) SimConfig(width, height, sweeps int) (creutz.Config, error) {
	cfg := creutz.Config{
		Width:   width,
		Height:  height,
		Sweeps:  sweeps,
		Seed:    s.Seed,
		Workers: s.Workers,
		Params:  s.Params,
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if err := cfg.Validate(); err != nil {
		return creutz.Config{}, err
	}
	return cfg, nil
}

// NewLogger builds the process logger. Output goes to stderr when out is nil.
func NewLogger(level string, out io.Writer) (*logrus.Logger, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	if out == nil {
		out = os.Stderr
	}
	log := logrus.New()
	log.SetOutput(out)
	log.SetLevel(lvl)
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	return log, nil
}
