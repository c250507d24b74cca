package creutz

// Demon is the Creutz energy reservoir: a single integer bounded to [0, limit].
type Demon struct {
	energy int
	limit  int

	accepted  int64
	rejected  int64
	clampHigh int64
	clampLow  int64
	spilled   int64
}

// NewDemon returns a demon holding initial clamped into [0, limit].
func NewDemon(initial, limit int) *Demon {
	if limit < 0 {
		limit = 0
	}
	return &Demon{energy: clamp(initial, 0, limit), limit: limit}
}

// Energy returns the current demon energy.
func (d *Demon) Energy() int { return d.energy }

// Max returns the upper bound of the reservoir.
func (d *Demon) Max() int { return d.limit }

// TryExchange applies the microcanonical acceptance rule for a trial move
// costing deltaE. Moves that release energy are always accepted; moves that
// cost energy are accepted only when the demon can pay. Rejected moves leave
// the demon untouched.
func (d *Demon) TryExchange(deltaE int) bool {
	switch {
	case deltaE <= 0:
		d.energy -= deltaE
		if d.energy > d.limit {
			d.spilled += int64(d.energy - d.limit)
			d.energy = d.limit
			d.clampHigh++
		}
	case d.energy >= deltaE:
		d.energy -= deltaE
		if d.energy < 0 {
			d.energy = 0
			d.clampLow++
		}
	default:
		d.rejected++
		return false
	}
	d.accepted++
	return true
}

// DemonStats summarises the exchanges a demon has seen.
type DemonStats struct {
	Accepted  int64 `json:"accepted" yaml:"accepted"`
	Rejected  int64 `json:"rejected" yaml:"rejected"`
	ClampHigh int64 `json:"clamp_high" yaml:"clamp_high"`
	ClampLow  int64 `json:"clamp_low" yaml:"clamp_low"`
	// Spilled is the total energy discarded by the upper clamp.
	Spilled int64 `json:"spilled" yaml:"spilled"`
}

// AcceptanceRatio is accepted / (accepted + rejected), or 0 before any trial.
func (s DemonStats) AcceptanceRatio() float64 {
	total := s.Accepted + s.Rejected
	if total == 0 {
		return 0
	}
	return float64(s.Accepted) / float64(total)
}

// Stats returns the exchange counters.
func (d *Demon) Stats() DemonStats {
	return DemonStats{
		Accepted:  d.accepted,
		Rejected:  d.rejected,
		ClampHigh: d.clampHigh,
		ClampLow:  d.clampLow,
		Spilled:   d.spilled,
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
