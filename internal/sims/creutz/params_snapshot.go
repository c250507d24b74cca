package creutz

import (
	"strconv"

	"creutz/internal/core"
)

// Parameters reports the configuration and the live observables of the run.
func (s *Sim) Parameters() core.ParameterSnapshot {
	p := s.cfg.Params
	sw := s.sweeper
	fit := FitTemperature(sw.Histogram().Filtered(p.MinCount), p.KB)
	groups := []core.ParameterGroup{
		{
			Name: "Lattice",
			Params: []core.Parameter{
				intParam("w", "Rows (X)", s.cfg.Width),
				intParam("h", "Columns (Y)", s.cfg.Height),
				int64Param("seed", "Seed", s.cfg.Seed),
			},
		},
		{
			Name: "Demon",
			Params: []core.Parameter{
				intParam("demon_energy", "Initial demon energy", s.initialEnergy),
				intParam("demon_max", "Demon max", p.DemonMax),
				intParam("j", "Coupling J", p.J),
			},
		},
		{
			Name: "Analysis",
			Params: []core.Parameter{
				intParam("bin_width", "Bin width", p.BinWidth),
				int64Param("min_count", "Min bin count", p.MinCount),
				floatParam("mc_fraction", "Equilibration fraction", p.MCFraction),
			},
		},
		{
			Name: "Live",
			Params: []core.Parameter{
				intParam("sweep", "Sweep", sw.Completed()),
				intParam("energy", "Demon energy", sw.Demon().Energy()),
				floatParam("m", "Magnetization", sw.Lattice().Magnetization()),
				floatParam("accept", "Acceptance", sw.Demon().Stats().AcceptanceRatio()),
				floatParam("t", "Temperature", fit.Temperature),
			},
		},
	}
	return core.ParameterSnapshot{Groups: groups}
}

func intParam(key, label string, value int) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeInt,
		Value: strconv.Itoa(value),
	}
}

func int64Param(key, label string, value int64) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeInt,
		Value: strconv.FormatInt(value, 10),
	}
}

func floatParam(key, label string, value float64) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeFloat,
		Value: strconv.FormatFloat(value, 'f', 4, 64),
	}
}
