// Package report writes run results to disk: the mT summary table, per-energy
// histogram and magnetization dumps, optional PNG plots and a YAML manifest.
package report

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"creutz/internal/sims/creutz"

	"github.com/sirupsen/logrus"
)

const (
	summaryFile      = "mT.txt"
	histogramDir     = "histogram"
	magnetizationDir = "magnetization"
)

// Options toggles optional outputs.
type Options struct {
	// Step is the reporting interval: energies divisible by Step get detail dumps.
	Step int
	// Plots renders PNG charts alongside the detail dumps.
	Plots bool
}

// Writer streams results into an output directory.
type Writer struct {
	dir  string
	opts Options
	log  logrus.FieldLogger

	summary *os.File
	table   *csv.Writer
}

// NewWriter creates dir and its histogram/magnetization subdirectories and
// opens the summary table.
func NewWriter(dir string, opts Options, log logrus.FieldLogger) (*Writer, error) {
	if opts.Step <= 0 {
		opts.Step = creutz.DefaultParams().HistogramStep
	}
	for _, sub := range []string{dir, filepath.Join(dir, histogramDir), filepath.Join(dir, magnetizationDir)} {
		if err := os.MkdirAll(sub, 0o755); err != nil {
			return nil, fmt.Errorf("create output directory: %w", err)
		}
	}
	f, err := os.Create(filepath.Join(dir, summaryFile))
	if err != nil {
		return nil, fmt.Errorf("create summary: %w", err)
	}
	w := &Writer{dir: dir, opts: opts, log: log, summary: f, table: newTable(f)}
	if err := w.table.Write([]string{"E_demon", "T", "<m>", "slope"}); err != nil {
		f.Close()
		return nil, fmt.Errorf("write summary header: %w", err)
	}
	return w, nil
}

// Dir returns the output directory.
func (w *Writer) Dir() string { return w.dir }

// WriteResult appends the summary row for res and, on the reporting interval,
// writes its histogram and magnetization dumps.
func (w *Writer) WriteResult(res creutz.Result) error {
	p := res.Point()
	row := []string{
		strconv.Itoa(p.InitialEnergy),
		FormatFloat(p.Temperature),
		FormatFloat(p.Magnetization),
		FormatFloat(p.Slope),
	}
	if err := w.table.Write(row); err != nil {
		return fmt.Errorf("write summary row: %w", err)
	}
	w.table.Flush()
	if err := w.table.Error(); err != nil {
		return fmt.Errorf("flush summary: %w", err)
	}

	detailed := res.Detailed(w.opts.Step)
	if detailed {
		if err := w.writeHistogram(res); err != nil {
			return err
		}
		if err := w.writeMagnetization(res); err != nil {
			return err
		}
		if w.opts.Plots {
			w.writePlots(res)
		}
	}

	entry := w.log.WithFields(logrus.Fields{
		"e_demon": p.InitialEnergy,
		"m":       FormatFloat(p.Magnetization),
		"slope":   FormatFloat(p.Slope),
		"T":       FormatFloat(p.Temperature),
		"accept":  FormatFloat(res.Stats.AcceptanceRatio()),
	})
	if detailed {
		entry = entry.WithField("saved", true)
	}
	entry.Info("run complete")
	return nil
}

// Close flushes and closes the summary table.
func (w *Writer) Close() error {
	w.table.Flush()
	if err := w.table.Error(); err != nil {
		w.summary.Close()
		return fmt.Errorf("flush summary: %w", err)
	}
	return w.summary.Close()
}

// HistogramPath returns the dump path for an initial energy.
func (w *Writer) HistogramPath(energy int) string {
	return filepath.Join(w.dir, histogramDir, fmt.Sprintf("histogram_E=%d.txt", energy))
}

// MagnetizationPath returns the trace path for an initial energy.
func (w *Writer) MagnetizationPath(energy int) string {
	return filepath.Join(w.dir, magnetizationDir, fmt.Sprintf("magnetization_E=%d.txt", energy))
}

func (w *Writer) writeHistogram(res creutz.Result) error {
	return writeTable(w.HistogramPath(res.InitialEnergy), func(t *csv.Writer) error {
		if err := t.Write([]string{"E_demon", "N(E)", "ln(N)"}); err != nil {
			return err
		}
		for _, b := range res.Histogram {
			if b.Count <= 0 {
				continue
			}
			row := []string{strconv.Itoa(b.Energy), strconv.FormatInt(b.Count, 10), FormatFloat(math.Log(float64(b.Count)))}
			if err := t.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

func (w *Writer) writeMagnetization(res creutz.Result) error {
	return writeTable(w.MagnetizationPath(res.InitialEnergy), func(t *csv.Writer) error {
		if err := t.Write([]string{"sweep", "<m>", ""}); err != nil {
			return err
		}
		for i, m := range res.Series {
			if err := t.Write([]string{strconv.Itoa(i + 1), FormatFloat(m)}); err != nil {
				return err
			}
		}
		return nil
	})
}

func writeTable(path string, fill func(*csv.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", filepath.Base(path), err)
	}
	t := newTable(f)
	if err := fill(t); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	t.Flush()
	if err := t.Error(); err != nil {
		f.Close()
		return fmt.Errorf("flush %s: %w", filepath.Base(path), err)
	}
	return f.Close()
}

func newTable(f *os.File) *csv.Writer {
	t := csv.NewWriter(f)
	t.Comma = ';'
	return t
}
