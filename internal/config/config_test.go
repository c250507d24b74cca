package config

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"creutz/internal/sims/creutz"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
)

func TestLoadDefaults(t *testing.T) {
	s, err := Load(New(), "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s != Defaults() {
		t.Fatalf("expected defaults, got %+v", s)
	}
	if s.Params != creutz.DefaultParams() {
		t.Fatalf("params = %+v", s.Params)
	}
}

func TestLoadFileEnvAndFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "creutz.yaml")
	body := []byte("output_dir: out\nworkers: 2\nparams:\n  bin_width: 8\n  min_count: 3\n")
	if err := os.WriteFile(path, body, 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CREUTZ_WORKERS", "6")
	t.Setenv("CREUTZ_PARAMS_J", "2")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("min-count", 10, "")
	flags.Int("bin-width", 4, "")
	if err := flags.Parse([]string{"--min-count=5"}); err != nil {
		t.Fatal(err)
	}

	v := New()
	if err := BindFlags(v, flags); err != nil {
		t.Fatalf("BindFlags: %v", err)
	}
	s, err := Load(v, path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.OutputDir != "out" {
		t.Fatalf("file value not applied: output_dir=%q", s.OutputDir)
	}
	if s.Params.BinWidth != 8 {
		t.Fatalf("unset flag should not override file: bin_width=%d", s.Params.BinWidth)
	}
	if s.Workers != 6 || s.Params.J != 2 {
		t.Fatalf("env should override file: workers=%d j=%d", s.Workers, s.Params.J)
	}
	if s.Params.MinCount != 5 {
		t.Fatalf("explicit flag should win: min_count=%d", s.Params.MinCount)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(New(), filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestSimConfig(t *testing.T) {
	s := Defaults()
	s.Workers = 0
	cfg, err := s.SimConfig(8, 16, 50)
	if err != nil {
		t.Fatalf("SimConfig: %v", err)
	}
	if cfg.Width != 8 || cfg.Height != 16 || cfg.Sweeps != 50 || cfg.Workers != 1 {
		t.Fatalf("unexpected config %+v", cfg)
	}

	s.Params.BinWidth = 0
	if _, err := s.SimConfig(8, 8, 10); !errors.Is(err, creutz.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewLogger("warn", &buf)
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	if log.GetLevel() != logrus.WarnLevel {
		t.Fatalf("level = %v", log.GetLevel())
	}
	log.Info("hidden")
	log.Warn("shown")
	if bytes.Contains(buf.Bytes(), []byte("hidden")) || !bytes.Contains(buf.Bytes(), []byte("shown")) {
		t.Fatalf("unexpected log output %q", buf.String())
	}
	if _, err := NewLogger("loud", nil); err == nil {
		t.Fatal("expected error for unknown level")
	}
}
