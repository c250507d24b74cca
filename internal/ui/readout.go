package ui

import (
	"fmt"

	"creutz/internal/core"
)

// MinPanelHeight is the smallest panel height that fits the readouts.
const MinPanelHeight = 480

// PanelHeight returns the panel height beside a lattice view of viewHeight pixels.
func PanelHeight(viewHeight int) int { return max(viewHeight, MinPanelHeight) }

// readout is one line of the parameter panel.
type readout struct {
	text   string
	header bool
}

// readouts flattens a snapshot into panel lines: a header per group followed
// by "label: value" lines.
func readouts(s core.ParameterSnapshot) []readout {
	var lines []readout
	for _, group := range s.Groups {
		lines = append(lines, readout{text: group.Name, header: true})
		for _, p := range group.Params {
			lines = append(lines, readout{text: fmt.Sprintf("%s: %s", p.Label, p.Value)})
		}
	}
	return lines
}

// stepValue returns the value one control step from current in direction and
// whether it stays inside the control's bounds.
func stepValue(ctrl core.ParameterControl, current, direction int) (int, bool) {
	if direction == 0 {
		return current, false
	}
	step := ctrl.Step
	if step <= 0 {
		step = 1
	}
	target := current + direction*step
	if ctrl.HasMin && target < ctrl.Min {
		if current <= ctrl.Min {
			return current, false
		}
		target = ctrl.Min
	}
	if ctrl.HasMax && target > ctrl.Max {
		if current >= ctrl.Max {
			return current, false
		}
		target = ctrl.Max
	}
	return target, true
}
