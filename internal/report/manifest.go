package report

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"creutz/internal/sims/creutz"

	"gopkg.in/yaml.v3"
)

const manifestFile = "run.yaml"

// Manifest records the configuration and summary of a run.
type Manifest struct {
	RunID     string          `yaml:"run_id,omitempty"`
	CreatedAt time.Time       `yaml:"created_at"`
	Config    creutz.Config   `yaml:"config"`
	Points    []ManifestPoint `yaml:"points"`
}

// ManifestPoint is one summary row with diagnostics.
type ManifestPoint struct {
	creutz.Point  `yaml:",inline"`
	StartEnergy   int     `yaml:"start_energy"`
	Intercept     float64 `yaml:"intercept"`
	FittedBins    int     `yaml:"fitted_bins"`
	Equilibration int     `yaml:"equilibration"`
	Acceptance    float64 `yaml:"acceptance"`
	FinalEnergy   int     `yaml:"final_energy"`
	Spilled       int64   `yaml:"spilled"`
}

// NewManifest summarises results under cfg.
func NewManifest(runID string, cfg creutz.Config, results []creutz.Result) Manifest {
	m := Manifest{RunID: runID, CreatedAt: time.Now().UTC(), Config: cfg}
	for _, res := range results {
		m.Points = append(m.Points, ManifestPoint{
			Point:         res.Point(),
			StartEnergy:   res.StartEnergy,
			Intercept:     res.Fit.Intercept,
			FittedBins:    res.Fit.Bins,
			Equilibration: res.Equilibration,
			Acceptance:    res.Stats.AcceptanceRatio(),
			FinalEnergy:   res.FinalEnergy,
			Spilled:       res.Stats.Spilled,
		})
	}
	return m
}

// WriteManifest writes m as run.yaml under dir.
func WriteManifest(dir string, m Manifest) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, manifestFile), data, 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}

// ReadManifest loads run.yaml from dir.
func ReadManifest(dir string) (Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, manifestFile))
	if err != nil {
		return Manifest{}, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("parse manifest: %w", err)
	}
	return m, nil
}
