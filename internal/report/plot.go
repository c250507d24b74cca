package report

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"creutz/internal/sims/creutz"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// errTooFewPoints is returned when a chart would have nothing to draw.
var errTooFewPoints = errors.New("need at least two points to plot")

// RenderHistogram draws ln N(E) against the bin energy with the fitted line.
func RenderHistogram(w io.Writer, res creutz.Result) error {
	if len(res.Histogram) < 2 {
		return errTooFewPoints
	}
	xs := make([]float64, len(res.Histogram))
	ys := make([]float64, len(res.Histogram))
	for i, b := range res.Histogram {
		xs[i] = float64(b.Energy)
		ys[i] = b.LogCount()
	}
	series := []chart.Series{
		chart.ContinuousSeries{
			Name:    "ln N(E)",
			XValues: xs,
			YValues: ys,
			Style: chart.Style{
				StrokeWidth: chart.Disabled,
				DotWidth:    4,
				DotColor:    chart.ColorBlue,
			},
		},
	}
	fit := res.Fit
	if fit.Bins >= 2 && !fit.Singular() {
		lo, hi := xs[0], xs[len(xs)-1]
		series = append(series, chart.ContinuousSeries{
			Name:    fmt.Sprintf("fit T=%s", FormatFloat(fit.Temperature)),
			XValues: []float64{lo, hi},
			YValues: []float64{fit.Slope*lo + fit.Intercept, fit.Slope*hi + fit.Intercept},
			Style:   chart.Style{StrokeColor: chart.ColorRed, StrokeWidth: 2},
		})
	}
	graph := chart.Chart{
		Title:  fmt.Sprintf("Demon energy histogram, E0=%d", res.InitialEnergy),
		Width:  800,
		Height: 500,
		XAxis:  chart.XAxis{Name: "E_demon"},
		YAxis:  chart.YAxis{Name: "ln N(E)"},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}
	return graph.Render(chart.PNG, w)
}

// RenderMagnetization draws the per-sweep magnetization trace.
func RenderMagnetization(w io.Writer, res creutz.Result) error {
	if len(res.Series) < 2 {
		return errTooFewPoints
	}
	graph := magnetizationChart(res)
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}
	return graph.Render(chart.PNG, w)
}

// magnetizationChart plots the trace and marks the equilibration cutoff.
func magnetizationChart(res creutz.Result) chart.Chart {
	xs := make([]float64, len(res.Series))
	for i := range xs {
		xs[i] = float64(i + 1)
	}
	cut := float64(res.Equilibration)
	return chart.Chart{
		Title:  fmt.Sprintf("Magnetization, E0=%d", res.InitialEnergy),
		Width:  800,
		Height: 400,
		XAxis:  chart.XAxis{Name: "sweep"},
		YAxis: chart.YAxis{
			Name:  "<m>",
			Range: &chart.ContinuousRange{Min: -1, Max: 1},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "<m>",
				XValues: xs,
				YValues: res.Series,
				Style:   chart.Style{StrokeColor: chart.ColorBlue, StrokeWidth: 1.5},
			},
			chart.ContinuousSeries{
				Name:    "equilibration cutoff",
				XValues: []float64{cut, cut},
				YValues: []float64{-1, 1},
				Style: chart.Style{
					StrokeColor:     drawing.Color{R: 255, G: 165, B: 0, A: 255},
					StrokeWidth:     1,
					StrokeDashArray: []float64{4, 4},
				},
			},
		},
	}
}

// writePlots renders both charts next to the text dumps. Plot failures are
// logged and do not abort the run.
func (w *Writer) writePlots(res creutz.Result) {
	plots := []struct {
		path   string
		render func(io.Writer, creutz.Result) error
	}{
		{pngPath(w.HistogramPath(res.InitialEnergy)), RenderHistogram},
		{pngPath(w.MagnetizationPath(res.InitialEnergy)), RenderMagnetization},
	}
	for _, p := range plots {
		if err := renderFile(p.path, res, p.render); err != nil {
			w.log.WithError(err).WithField("path", p.path).Warn("plot skipped")
		}
	}
}

func renderFile(path string, res creutz.Result, render func(io.Writer, creutz.Result) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", filepath.Base(path), err)
	}
	if err := render(f, res); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}

func pngPath(txt string) string {
	return strings.TrimSuffix(txt, filepath.Ext(txt)) + ".png"
}
