package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"creutz/internal/config"
	"creutz/internal/input"
	"creutz/internal/report"
	"creutz/internal/sims/creutz"
	"creutz/internal/store"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func (c *cli) newRunCmd() *cobra.Command {
	var inputPath string
	d := config.Defaults()

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Simulate every requested initial demon energy",
		Long: `Reads "X Y sweeps N E1 ... EN" as whitespace-separated integers from
--input or stdin, runs one simulation per energy and writes mT.txt plus the
histogram and magnetization dumps into the output directory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, log, err := c.settings(cmd)
			if err != nil {
				return err
			}
			in := cmd.InOrStdin()
			if inputPath != "" {
				f, err := os.Open(inputPath)
				if err != nil {
					return fmt.Errorf("open input: %w", err)
				}
				defer f.Close()
				in = f
			}
			return runSimulations(cmd.Context(), s, in, log)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&inputPath, "input", "i", "", "input file (default stdin)")
	f.StringP("out", "o", d.OutputDir, "output directory")
	f.String("db", d.DBPath, "SQLite database to record the run in")
	f.Bool("plots", d.Plots, "render PNG plots next to the detail dumps")
	f.Int64("seed", d.Seed, "random seed")
	f.Int("workers", d.Workers, "simulations to run concurrently")
	f.Int("j", d.Params.J, "coupling constant J")
	f.Float64("kb", d.Params.KB, "Boltzmann constant")
	f.Int("bin-width", d.Params.BinWidth, "histogram bin width")
	f.Int64("min-count", d.Params.MinCount, "minimum bin count used in the fit")
	f.Float64("mc-fraction", d.Params.MCFraction, "fraction of sweeps discarded for equilibration")
	f.Int("demon-max", d.Params.DemonMax, "demon energy capacity")
	f.Int("histogram-step", d.Params.HistogramStep, "energies divisible by this get detail dumps")
	return cmd
}

func runSimulations(ctx context.Context, s config.Settings, in io.Reader, log *logrus.Logger) error {
	req, err := input.Parse(in)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	cfg, err := s.SimConfig(req.X, req.Y, req.Sweeps)
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"x":        cfg.Width,
		"y":        cfg.Height,
		"sweeps":   cfg.Sweeps,
		"energies": len(req.Energies),
		"workers":  cfg.Workers,
	}).Info("starting simulations")

	runner, err := creutz.NewRunner(cfg, log)
	if err != nil {
		return err
	}
	results, err := runner.Run(ctx, req.Energies)
	if err != nil {
		return err
	}

	w, err := report.NewWriter(s.OutputDir, report.Options{Step: cfg.Params.HistogramStep, Plots: s.Plots}, log)
	if err != nil {
		return err
	}
	for _, res := range results {
		if err := w.WriteResult(res); err != nil {
			w.Close()
			return err
		}
	}
	if err := w.Close(); err != nil {
		return err
	}

	var runID string
	if s.DBPath != "" {
		runID, err = saveRun(ctx, s.DBPath, cfg, results)
		if err != nil {
			return err
		}
		log.WithFields(logrus.Fields{"run_id": runID, "db": s.DBPath}).Info("run stored")
	}
	if err := report.WriteManifest(s.OutputDir, report.NewManifest(runID, cfg, results)); err != nil {
		return err
	}
	log.WithField("dir", s.OutputDir).Info("results written")
	return nil
}

func saveRun(ctx context.Context, path string, cfg creutz.Config, results []creutz.Result) (string, error) {
	db, err := store.Open(path)
	if err != nil {
		return "", err
	}
	defer db.Close()
	run, err := db.SaveRun(ctx, cfg, results)
	if err != nil {
		return "", fmt.Errorf("save run: %w", err)
	}
	return run.ID, nil
}
