package creutz

import (
	"iter"
	"math"
	"slices"
)

// Bin is one histogram bucket: the bin-start energy and its observation count.
type Bin struct {
	Energy int   `json:"energy" yaml:"energy"`
	Count  int64 `json:"count" yaml:"count"`
}

// LogCount returns ln(Count).
func (b Bin) LogCount() float64 { return math.Log(float64(b.Count)) }

// Histogram accumulates demon energies into fixed-width bins keyed by the bin
// start energy.
type Histogram struct {
	width  int
	counts map[int]int64
	total  int64
}

// NewHistogram returns an empty histogram. Widths below 1 are treated as 1.
func NewHistogram(width int) *Histogram {
	if width < 1 {
		width = 1
	}
	return &Histogram{width: width, counts: make(map[int]int64)}
}

// Width returns the bin width.
func (h *Histogram) Width() int { return h.width }

// BinStart returns the start energy of the bin containing e.
func (h *Histogram) BinStart(e int) int { return (e / h.width) * h.width }

// Record adds one observation of energy e.
func (h *Histogram) Record(e int) {
	h.counts[h.BinStart(e)]++
	h.total++
}

// Count returns the number of observations in the bin starting at energy.
func (h *Histogram) Count(energy int) int64 { return h.counts[energy] }

// Total returns the number of recorded observations.
func (h *Histogram) Total() int64 { return h.total }

// Bins yields (bin energy, count) pairs with count >= minCount in ascending
// energy order.
func (h *Histogram) Bins(minCount int64) iter.Seq2[int, int64] {
	return func(yield func(int, int64) bool) {
		keys := make([]int, 0, len(h.counts))
		for k := range h.counts {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for _, k := range keys {
			c := h.counts[k]
			if c < minCount {
				continue
			}
			if !yield(k, c) {
				return
			}
		}
	}
}

// Filtered collects the bins with count >= minCount in ascending order.
func (h *Histogram) Filtered(minCount int64) []Bin {
	var out []Bin
	for e, c := range h.Bins(minCount) {
		out = append(out, Bin{Energy: e, Count: c})
	}
	return out
}

// Nonzero collects every populated bin in ascending order.
func (h *Histogram) Nonzero() []Bin { return h.Filtered(1) }
