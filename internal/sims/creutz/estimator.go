package creutz

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// singularTolerance bounds |denom| below which the normal equations are
// treated as singular.
const singularTolerance = 1e-12

// Fit is the outcome of the weighted log-linear regression.
//
// Two sentinels mark an undetermined temperature: fewer than two bins yields
// Slope 0 and T 0; a singular system yields Slope 0 and T NaN.
type Fit struct {
	Slope       float64 `json:"slope" yaml:"slope"`
	Intercept   float64 `json:"intercept" yaml:"intercept"`
	Temperature float64 `json:"temperature" yaml:"temperature"`
	Bins        int     `json:"bins" yaml:"bins"`
}

// Singular reports whether the regression could not be solved.
func (f Fit) Singular() bool { return math.IsNaN(f.Temperature) }

// Insufficient reports whether too few bins were available to fit.
func (f Fit) Insufficient() bool { return f.Bins < 2 }

// FitTemperature fits ln(count) = a·E + b with weight count over bins and
// derives T = -1/(kB·a). In the canonical approximation ln N(E) ≈ -E/(kB·T)
// plus a constant. A non-negative slope is not special-cased.
func FitTemperature(bins []Bin, kB float64) Fit {
	xs := make([]float64, len(bins))
	counts := make([]float64, len(bins))
	for k, b := range bins {
		xs[k] = float64(b.Energy)
		counts[k] = float64(b.Count)
	}
	return FitWeighted(xs, counts, kB)
}

// FitWeighted is FitTemperature over parallel slices of bin energies and
// (possibly fractional) counts. Points with non-positive counts carry no
// weight and are skipped. FitWeighted panics if the slice lengths differ.
func FitWeighted(xs, counts []float64, kB float64) Fit {
	if len(xs) != len(counts) {
		panic("creutz: slice length mismatch")
	}
	var kept, ws []float64
	for k, c := range counts {
		if c > 0 {
			kept = append(kept, xs[k])
			ws = append(ws, c)
		}
	}
	xs = kept
	n := len(xs)
	if n < 2 {
		return Fit{Bins: n}
	}
	if kB <= 0 {
		kB = 1
	}

	ys := make([]float64, n)
	for k, c := range ws {
		ys[k] = math.Log(c)
	}
	wx := floats.MulTo(make([]float64, n), ws, xs)

	sw := floats.Sum(ws)
	swx := floats.Sum(wx)
	swy := floats.Dot(ws, ys)
	swxx := floats.Dot(wx, xs)
	swxy := floats.Dot(wx, ys)

	denom := sw*swxx - swx*swx
	if math.Abs(denom) <= singularTolerance {
		return Fit{Temperature: math.NaN(), Bins: n}
	}
	a := (sw*swxy - swx*swy) / denom
	b := (swxx*swy - swx*swxy) / denom
	return Fit{
		Slope:       a,
		Intercept:   b,
		Temperature: -1.0 / (kB * a),
		Bins:        n,
	}
}
