package creutz

import (
	"context"
	"fmt"
	"io"

	"creutz/internal/core"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"
)

// Point is the summary row for one initial demon energy.
type Point struct {
	InitialEnergy int     `json:"initial_energy" yaml:"initial_energy"`
	Temperature   float64 `json:"temperature" yaml:"temperature"`
	Magnetization float64 `json:"magnetization" yaml:"magnetization"`
	Slope         float64 `json:"slope" yaml:"slope"`
}

// Result is the full outcome of one run: the summary point plus the detail
// needed for histogram and magnetization dumps.
type Result struct {
	InitialEnergy int
	// StartEnergy is InitialEnergy clamped into [0, DemonMax].
	StartEnergy   int
	Magnetization float64
	Equilibration int
	Fit           Fit
	Stats         DemonStats
	FinalEnergy   int

	// Histogram holds every populated bin, unfiltered.
	Histogram []Bin
	// Series is the per-sweep magnetization, one entry per sweep.
	Series []float64
}

// Point returns the summary row.
func (r Result) Point() Point {
	return Point{
		InitialEnergy: r.InitialEnergy,
		Temperature:   r.Fit.Temperature,
		Magnetization: r.Magnetization,
		Slope:         r.Fit.Slope,
	}
}

// Detailed reports whether the run's initial energy falls on the reporting
// interval and should get full histogram and magnetization dumps.
func (r Result) Detailed(step int) bool {
	return step > 0 && r.InitialEnergy%step == 0
}

// SourceFunc returns the random source for the run at the given index.
type SourceFunc func(seed int64, run int) core.IntSource

// DefaultSource gives each run its own PCG stream of seed.
func DefaultSource(seed int64, run int) core.IntSource {
	return core.NewStream(seed, uint64(run))
}

// Runner executes one independent simulation per requested initial energy.
type Runner struct {
	cfg       Config
	log       logrus.FieldLogger
	newSource SourceFunc
}

// NewRunner validates cfg and returns a Runner. A nil logger discards output.
func NewRunner(cfg Config, log logrus.FieldLogger) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		log = discard
	}
	return &Runner{cfg: cfg, log: log, newSource: DefaultSource}, nil
}

// WithSource overrides how random sources are created.
func (r *Runner) WithSource(fn SourceFunc) *Runner {
	if fn != nil {
		r.newSource = fn
	}
	return r
}

// Config returns the runner configuration.
func (r *Runner) Config() Config { return r.cfg }

// Run simulates every energy and returns results in input order. Runs share no
// state; with Workers > 1 they execute concurrently and still produce the same
// results as a sequential pass.
func (r *Runner) Run(ctx context.Context, energies []int) ([]Result, error) {
	results := make([]Result, len(energies))
	workers := r.cfg.Workers
	if workers < 1 {
		workers = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for idx, e := range energies {
		g.Go(func() error {
			res, err := r.RunOne(gctx, idx, e)
			if err != nil {
				return fmt.Errorf("run %d (E_demon=%d): %w", idx, e, err)
			}
			results[idx] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// RunOne simulates a single initial energy on a fresh lattice and demon. The
// index selects the random stream.
func (r *Runner) RunOne(ctx context.Context, index, initialEnergy int) (Result, error) {
	cfg := r.cfg
	p := cfg.Params

	lattice := NewLattice(cfg.Width, cfg.Height)
	demon := NewDemon(initialEnergy, p.DemonMax)
	hist := NewHistogram(p.BinWidth)
	equil := EquilibrationSweeps(cfg.Sweeps, p.MCFraction)
	sweeper := NewSweeper(lattice, demon, hist, r.newSource(cfg.Seed, index), p.J, equil)

	log := r.log.WithFields(logrus.Fields{"run": index, "e_demon": initialEnergy})
	log.WithFields(logrus.Fields{"start_energy": demon.Energy(), "equil": equil}).Debug("run started")

	for sweep := 0; sweep < cfg.Sweeps; sweep++ {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		sweeper.Sweep()
	}

	series := sweeper.Magnetization()
	fit := FitTemperature(hist.Filtered(p.MinCount), p.KB)
	res := Result{
		InitialEnergy: initialEnergy,
		StartEnergy:   clamp(initialEnergy, 0, demon.Max()),
		Magnetization: stat.Mean(series[equil:], nil),
		Equilibration: equil,
		Fit:           fit,
		Stats:         demon.Stats(),
		FinalEnergy:   demon.Energy(),
		Histogram:     hist.Nonzero(),
		Series:        series,
	}
	if fit.Singular() {
		log.Warn("singular regression, temperature undetermined")
	} else if fit.Insufficient() {
		log.WithField("bins", fit.Bins).Debug("too few histogram bins to fit")
	}
	return res, nil
}
