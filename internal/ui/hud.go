//go:build ebiten

package ui

import (
	"image"
	"image/color"
	"strconv"

	"creutz/internal/core"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

// HUD renders the parameter panel to the right of the lattice view.
type HUD struct {
	sim      core.Sim
	width    int
	panel    *ebiten.Image
	pixel    *ebiten.Image
	snapshot core.ParameterSnapshot

	controls []controlState
	setter   core.IntParameterSetter
	offsetX  int
}

type controlState struct {
	control   core.ParameterControl
	value     int
	hasValue  bool
	top       int
	minusRect image.Rectangle
	plusRect  image.Rectangle
}

// NewHUD constructs a HUD for sim with a panel of the given width.
func NewHUD(sim core.Sim, width int) *HUD {
	if width <= 0 {
		return nil
	}
	h := &HUD{sim: sim, width: width, pixel: ebiten.NewImage(1, 1)}
	h.pixel.Fill(color.White)
	if provider, ok := sim.(core.ParameterControlsProvider); ok {
		for i, ctrl := range provider.ParameterControls() {
			top := controlsTop + i*lineHeight
			buttonY := top + (lineHeight-buttonSize)/2
			plus := image.Rect(width-panelPadding-buttonSize, buttonY, width-panelPadding, buttonY+buttonSize)
			minus := image.Rect(plus.Min.X-buttonGap-buttonSize, buttonY, plus.Min.X-buttonGap, buttonY+buttonSize)
			h.controls = append(h.controls, controlState{control: ctrl, top: top, minusRect: minus, plusRect: plus})
		}
	}
	if setter, ok := sim.(core.IntParameterSetter); ok {
		h.setter = setter
	}
	return h
}

// Update refreshes the snapshot and handles clicks on the control buttons.
func (h *HUD) Update(offsetX int) {
	if h == nil {
		return
	}
	h.offsetX = offsetX
	provider, ok := h.sim.(core.ParameterProvider)
	if !ok {
		h.snapshot = core.ParameterSnapshot{}
		return
	}
	h.snapshot = provider.Parameters()
	for i := range h.controls {
		state := &h.controls[i]
		state.hasValue = false
		if p, ok := h.snapshot.Lookup(state.control.Key); ok {
			if v, err := strconv.Atoi(p.Value); err == nil {
				state.value = v
				state.hasValue = true
			}
		}
	}
	h.handleInput()
}

func (h *HUD) handleInput() {
	if h.setter == nil || !inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		return
	}
	mx, my := ebiten.CursorPosition()
	px := mx - h.offsetX
	if px < 0 {
		return
	}
	pt := image.Pt(px, my)
	for i := range h.controls {
		state := &h.controls[i]
		if !state.hasValue {
			continue
		}
		direction := 0
		switch {
		case pt.In(state.minusRect):
			direction = -1
		case pt.In(state.plusRect):
			direction = 1
		default:
			continue
		}
		if target, ok := stepValue(state.control, state.value, direction); ok {
			if h.setter.SetIntParameter(state.control.Key, target) {
				state.value = target
			}
		}
		return
	}
}

// Draw paints the panel at offsetX next to a lattice drawn at scale.
func (h *HUD) Draw(screen *ebiten.Image, offsetX, scale int) {
	if h == nil {
		return
	}
	if scale <= 0 {
		scale = 1
	}
	height := PanelHeight(h.sim.Size().H * scale)
	if h.panel == nil || h.panel.Bounds().Dy() != height {
		h.panel = ebiten.NewImage(h.width, height)
	}
	h.panel.Fill(panelColor)

	face := basicfont.Face7x13
	text.Draw(h.panel, "Creutz demon", face, panelPadding, panelPadding+headerBaseline, headerColor)
	for i := range h.controls {
		h.drawControl(&h.controls[i])
	}

	y := controlsTop + len(h.controls)*lineHeight + readoutGap
	for _, line := range readouts(h.snapshot) {
		if line.header {
			y += readoutGap / 2
			text.Draw(h.panel, line.text, face, panelPadding, y, headerColor)
		} else {
			text.Draw(h.panel, line.text, face, panelPadding+indent, y, textColor)
		}
		y += readoutLine
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(offsetX), 0)
	screen.DrawImage(h.panel, op)
}

func (h *HUD) drawControl(state *controlState) {
	face := basicfont.Face7x13
	labelY := state.top + labelBaseline
	text.Draw(h.panel, state.control.Label, face, panelPadding, labelY, textColor)

	value := "--"
	if state.hasValue {
		value = strconv.Itoa(state.value)
	}
	valueX := state.minusRect.Min.X - buttonGap - text.BoundString(face, value).Dx()
	text.Draw(h.panel, value, face, valueX, labelY, textColor)

	_, canDec := stepValue(state.control, state.value, -1)
	_, canInc := stepValue(state.control, state.value, 1)
	enabled := state.hasValue && h.setter != nil
	h.drawButton(state.minusRect, "-", enabled && canDec)
	h.drawButton(state.plusRect, "+", enabled && canInc)
}

func (h *HUD) drawButton(rect image.Rectangle, label string, enabled bool) {
	bg, fg := buttonColor, textColor
	if !enabled {
		bg, fg = disabledButtonColor, disabledTextColor
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(rect.Dx()), float64(rect.Dy()))
	op.GeoM.Translate(float64(rect.Min.X), float64(rect.Min.Y))
	op.ColorScale.ScaleWithColor(bg)
	h.panel.DrawImage(h.pixel, op)

	face := basicfont.Face7x13
	bounds := text.BoundString(face, label)
	x := rect.Min.X + (rect.Dx()-bounds.Dx())/2
	y := rect.Min.Y + (rect.Dy()-bounds.Dy())/2 + bounds.Dy()
	text.Draw(h.panel, label, face, x, y, fg)
}

var (
	panelColor          = color.RGBA{R: 16, G: 16, B: 20, A: 255}
	headerColor         = color.RGBA{R: 200, G: 200, B: 210, A: 255}
	textColor           = color.RGBA{R: 220, G: 220, B: 230, A: 255}
	disabledTextColor   = color.RGBA{R: 120, G: 120, B: 130, A: 255}
	buttonColor         = color.RGBA{R: 54, G: 56, B: 64, A: 255}
	disabledButtonColor = color.RGBA{R: 32, G: 34, B: 40, A: 255}
)

const (
	panelPadding   = 12
	lineHeight     = 36
	buttonSize     = 24
	buttonGap      = 6
	headerBaseline = 18
	labelBaseline  = 24
	controlsTop    = panelPadding + headerBaseline + 14
	readoutGap     = 16
	readoutLine    = 16
	indent         = 8
)
