package report

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"creutz/internal/sims/creutz"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
)

func TestFormatFloat(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{5, "5"},
		{-0.2, "-0.2"},
		{0.123456789, "0.123457"},
		{1e6, "1e+06"},
		{1e-5, "1e-05"},
		{0.0001, "0.0001"},
		{math.NaN(), "nan"},
		{math.Inf(1), "inf"},
		{math.Inf(-1), "-inf"},
	}
	for _, tc := range cases {
		if got := FormatFloat(tc.in); got != tc.want {
			t.Fatalf("FormatFloat(%v) = %q, expected %q", tc.in, got, tc.want)
		}
	}
}

func sampleResult(energy int) creutz.Result {
	return creutz.Result{
		InitialEnergy: energy,
		StartEnergy:   energy,
		Magnetization: 0.5,
		Equilibration: 1,
		Fit:           creutz.Fit{Slope: -0.25, Intercept: 3.5, Temperature: 4, Bins: 2},
		Histogram:     []creutz.Bin{{Energy: 0, Count: 40}, {Energy: 4, Count: 20}, {Energy: 8, Count: 1}},
		Series:        []float64{1, 0.75, 0.5},
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

func TestWriterOutputs(t *testing.T) {
	dir := t.TempDir()
	logger, hook := logtest.NewNullLogger()
	w, err := NewWriter(dir, Options{Step: 100}, logger)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}

	if err := w.WriteResult(sampleResult(100)); err != nil {
		t.Fatalf("WriteResult: %v", err)
	}
	undetermined := sampleResult(150)
	undetermined.Fit = creutz.Fit{Temperature: math.NaN(), Bins: 2}
	if err := w.WriteResult(undetermined); err != nil {
		t.Fatalf("WriteResult: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if got, want := readFile(t, filepath.Join(dir, "mT.txt")), "E_demon;T;<m>;slope\n100;4;0.5;-0.25\n150;nan;0.5;0\n"; got != want {
		t.Fatalf("mT.txt = %q, expected %q", got, want)
	}
	if got, want := readFile(t, w.HistogramPath(100)), "E_demon;N(E);ln(N)\n0;40;3.68888\n4;20;2.99573\n8;1;0\n"; got != want {
		t.Fatalf("histogram = %q, expected %q", got, want)
	}
	if got, want := readFile(t, w.MagnetizationPath(100)), "sweep;<m>;\n1;1\n2;0.75\n3;0.5\n"; got != want {
		t.Fatalf("magnetization = %q, expected %q", got, want)
	}
	if _, err := os.Stat(w.HistogramPath(150)); !os.IsNotExist(err) {
		t.Fatalf("energy 150 is off the reporting interval, stat err = %v", err)
	}

	entries := hook.AllEntries()
	if len(entries) != 2 {
		t.Fatalf("expected 2 log entries, got %d", len(entries))
	}
	if entries[0].Data["saved"] != true || entries[0].Level != logrus.InfoLevel {
		t.Fatalf("first entry should be marked saved: %+v", entries[0].Data)
	}
	if _, ok := entries[1].Data["saved"]; ok {
		t.Fatal("second entry should not be marked saved")
	}
}

func TestWriterPlots(t *testing.T) {
	dir := t.TempDir()
	logger, _ := logtest.NewNullLogger()
	w, err := NewWriter(dir, Options{Step: 100, Plots: true}, logger)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	if err := w.WriteResult(sampleResult(0)); err != nil {
		t.Fatalf("WriteResult: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	for _, name := range []string{"histogram/histogram_E=0.png", "magnetization/magnetization_E=0.png"} {
		data := readFile(t, filepath.Join(dir, name))
		if !bytes.HasPrefix([]byte(data), []byte("\x89PNG")) {
			t.Fatalf("%s is not a PNG", name)
		}
	}
}

func TestRenderHistogramNeedsTwoBins(t *testing.T) {
	res := sampleResult(0)
	res.Histogram = res.Histogram[:1]
	var buf bytes.Buffer
	if err := RenderHistogram(&buf, res); !errors.Is(err, errTooFewPoints) {
		t.Fatalf("expected errTooFewPoints, got %v", err)
	}
}

func TestMagnetizationChartKeepsCutoffWithoutProductionSweeps(t *testing.T) {
	res := sampleResult(0)
	res.Magnetization = math.NaN()
	graph := magnetizationChart(res)
	if len(graph.Series) != 2 {
		t.Fatalf("expected trace and cutoff series, got %d", len(graph.Series))
	}
	var buf bytes.Buffer
	if err := RenderMagnetization(&buf, res); err != nil {
		t.Fatalf("RenderMagnetization: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")) {
		t.Fatal("output is not a PNG")
	}
}

func TestManifestRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg := creutz.DefaultConfig()
	m := NewManifest("run-1", cfg, []creutz.Result{sampleResult(100)})
	if err := WriteManifest(dir, m); err != nil {
		t.Fatalf("WriteManifest: %v", err)
	}
	got, err := ReadManifest(dir)
	if err != nil {
		t.Fatalf("ReadManifest: %v", err)
	}
	if got.RunID != "run-1" || got.Config != cfg || len(got.Points) != 1 {
		t.Fatalf("unexpected manifest %+v", got)
	}
	if p := got.Points[0]; p.InitialEnergy != 100 || p.Temperature != 4 || p.FittedBins != 2 {
		t.Fatalf("unexpected point %+v", p)
	}
}

func TestNewWriterFailsOnBadDirectory(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	logger, _ := logtest.NewNullLogger()
	if _, err := NewWriter(filepath.Join(file, "out"), Options{}, logger); err == nil {
		t.Fatal("expected error creating output under a regular file")
	}
}
