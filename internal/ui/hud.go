//go:build ebiten

package ui

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"

	"softbody/internal/core"
)

// HUD renders the parameter panel to the right of the scene view. Controls
// are adjusted with the +/- buttons or with the arrow keys: up and down select
// a control, left and right step it.
type HUD struct {
	scene      core.Scene
	width      int
	panel      *ebiten.Image
	lastHeight int
	snapshot   core.ParameterSnapshot

	controls     []hudControlState
	selected     int
	intSetter    core.IntParameterSetter
	floatSetter  core.FloatParameterSetter
	panelOffsetX int
	title        string
	stats        []core.Parameter

	pixel *ebiten.Image
}

// NewHUD constructs a HUD for the provided scene and panel width.
func NewHUD(scene core.Scene, width int) *HUD {
	if width < 0 {
		width = 0
	}
	h := &HUD{scene: scene, width: width}
	if width > 0 {
		h.pixel = ebiten.NewImage(1, 1)
		h.pixel.Fill(color.White)
	}
	h.title = buildTitle(scene)
	if provider, ok := scene.(core.ParameterControlsProvider); ok {
		controls := provider.ParameterControls()
		h.controls = make([]hudControlState, len(controls))
		for i, ctrl := range controls {
			h.controls[i] = hudControlState{control: ctrl, value: "--"}
		}
		h.layoutControls()
	}
	if setter, ok := scene.(core.IntParameterSetter); ok {
		h.intSetter = setter
	}
	if setter, ok := scene.(core.FloatParameterSetter); ok {
		h.floatSetter = setter
	}
	return h
}

// Width returns the panel width in pixels.
func (h *HUD) Width() int {
	if h == nil {
		return 0
	}
	return h.width
}

// Update refreshes the cached parameter snapshot from the scene and handles
// HUD interactions.
func (h *HUD) Update(panelOffsetX int) {
	if h == nil {
		return
	}
	h.panelOffsetX = panelOffsetX
	provider, ok := h.scene.(core.ParameterSnapshotProvider)
	if !ok {
		h.snapshot = core.ParameterSnapshot{}
		return
	}
	h.snapshot = provider.Parameters()
	h.refreshControlValues()
	h.handleMouse()
	h.handleKeys()
}

// Draw paints the HUD panel at offsetX with the given height.
func (h *HUD) Draw(screen *ebiten.Image, offsetX, height int) {
	if h == nil || h.width <= 0 || height <= 0 {
		return
	}
	if h.panel == nil || h.lastHeight != height {
		h.panel = ebiten.NewImage(h.width, height)
		h.lastHeight = height
	}
	h.panel.Fill(color.RGBA{R: 16, G: 16, B: 20, A: 255})
	h.drawControls()
	h.drawStats()
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(offsetX), 0)
	screen.DrawImage(h.panel, op)
}

func buildTitle(scene core.Scene) string {
	if scene == nil || scene.Name() == "" {
		return "Controls"
	}
	name := scene.Name()
	return fmt.Sprintf("%s%s Controls", strings.ToUpper(name[:1]), name[1:])
}

func (h *HUD) refreshControlValues() {
	paramMap := map[string]core.Parameter{}
	h.stats = h.stats[:0]
	for _, group := range h.snapshot.Groups {
		for _, param := range group.Params {
			paramMap[param.Key] = param
			if group.Name == "Stats" {
				h.stats = append(h.stats, param)
			}
		}
	}
	for i := range h.controls {
		state := &h.controls[i]
		param, ok := paramMap[state.control.Key]
		state.hasValue = false
		state.value = "--"
		if !ok {
			continue
		}
		switch state.control.Type {
		case core.ParamTypeInt:
			if parsed, err := strconv.Atoi(param.Value); err == nil {
				state.intValue = parsed
				state.floatValue = float64(parsed)
				state.value = strconv.Itoa(parsed)
				state.hasValue = true
			}
		case core.ParamTypeFloat:
			if parsed, err := strconv.ParseFloat(param.Value, 64); err == nil {
				state.floatValue = parsed
				state.value = formatFloat(state.control, parsed)
				state.hasValue = true
			}
		}
	}
}

func (h *HUD) handleMouse() {
	if len(h.controls) == 0 || !inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		return
	}
	mx, my := ebiten.CursorPosition()
	if mx < h.panelOffsetX {
		return
	}
	px := mx - h.panelOffsetX
	for i := range h.controls {
		state := &h.controls[i]
		if !state.hasValue {
			continue
		}
		if pointInRect(px, my, state.minusRect) {
			h.selected = i
			h.applyAdjustment(state, -1)
			return
		}
		if pointInRect(px, my, state.plusRect) {
			h.selected = i
			h.applyAdjustment(state, 1)
			return
		}
	}
}

func (h *HUD) handleKeys() {
	if len(h.controls) == 0 {
		return
	}
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyUp):
		h.selected = (h.selected + len(h.controls) - 1) % len(h.controls)
	case inpututil.IsKeyJustPressed(ebiten.KeyDown):
		h.selected = (h.selected + 1) % len(h.controls)
	case repeating(ebiten.KeyLeft):
		h.applyAdjustment(&h.controls[h.selected], -1)
	case repeating(ebiten.KeyRight):
		h.applyAdjustment(&h.controls[h.selected], 1)
	}
}

// repeating reports a key press, repeating while the key is held.
func repeating(key ebiten.Key) bool {
	d := inpututil.KeyPressDuration(key)
	return d == 1 || (d > 20 && d%4 == 0)
}

func (h *HUD) applyAdjustment(state *hudControlState, direction int) {
	if state == nil || !state.hasValue || direction == 0 {
		return
	}
	target, ok := nextValue(state, direction)
	if !ok {
		return
	}
	switch state.control.Type {
	case core.ParamTypeInt:
		if h.intSetter != nil && h.intSetter.SetIntParameter(state.control.Key, int(target)) {
			state.intValue = int(target)
			state.floatValue = target
			state.value = strconv.Itoa(int(target))
		}
	case core.ParamTypeFloat:
		if h.floatSetter != nil && h.floatSetter.SetFloatParameter(state.control.Key, target) {
			state.floatValue = target
			state.value = formatFloat(state.control, target)
		}
	}
}

// nextValue steps a control and reports whether the value would change.
func nextValue(state *hudControlState, direction int) (float64, bool) {
	ctrl := state.control
	switch ctrl.Type {
	case core.ParamTypeInt:
		step := max(int(math.Round(ctrl.Step)), 1)
		target := float64(state.intValue + direction*step)
		target = math.Round(ctrl.Bound(target))
		return target, int(target) != state.intValue
	case core.ParamTypeFloat:
		step := ctrl.Step
		if step <= 0 {
			step = 0.05
		}
		target := ctrl.Bound(state.floatValue + float64(direction)*step)
		return target, math.Abs(target-state.floatValue) >= 1e-9
	}
	return 0, false
}

func (h *HUD) drawControls() {
	face := basicfont.Face7x13
	headerY := panelPadding + headerBaseline
	text.Draw(h.panel, h.title, face, panelPadding, headerY, color.RGBA{R: 200, G: 200, B: 210, A: 255})
	if len(h.controls) == 0 {
		text.Draw(h.panel, "No adjustable parameters", face, panelPadding, headerY+infoSpacing, color.RGBA{R: 160, G: 160, B: 170, A: 255})
		return
	}
	for i := range h.controls {
		state := &h.controls[i]
		labelY := state.top + labelBaseline
		labelColor := color.RGBA{R: 220, G: 220, B: 230, A: 255}
		if i == h.selected {
			h.fill(image.Rect(0, state.top+2, 3, state.top+lineHeight-2), color.RGBA{R: 120, G: 180, B: 255, A: 255})
			labelColor = color.RGBA{R: 255, G: 255, B: 255, A: 255}
		}
		text.Draw(h.panel, state.control.Label, face, panelPadding, labelY, labelColor)

		valueColor := color.RGBA{R: 220, G: 220, B: 230, A: 255}
		if !state.hasValue {
			valueColor = color.RGBA{R: 160, G: 160, B: 170, A: 255}
		}
		valueWidth := text.BoundString(face, state.value).Dx()
		valueX := state.minusRect.Min.X - buttonGap - valueWidth
		text.Draw(h.panel, state.value, face, valueX, labelY, valueColor)

		_, minusOK := nextValue(state, -1)
		_, plusOK := nextValue(state, 1)
		h.drawButton(state.minusRect, "-", state.hasValue && minusOK)
		h.drawButton(state.plusRect, "+", state.hasValue && plusOK)
	}
}

func (h *HUD) drawStats() {
	if len(h.stats) == 0 {
		return
	}
	face := basicfont.Face7x13
	y := controlsTop + len(h.controls)*lineHeight + infoSpacing
	text.Draw(h.panel, "Stats", face, panelPadding, y, color.RGBA{R: 200, G: 200, B: 210, A: 255})
	for _, p := range h.stats {
		y += statLine
		text.Draw(h.panel, p.Label, face, panelPadding, y, color.RGBA{R: 160, G: 160, B: 170, A: 255})
		w := text.BoundString(face, p.Value).Dx()
		text.Draw(h.panel, p.Value, face, h.width-panelPadding-w, y, color.RGBA{R: 220, G: 220, B: 230, A: 255})
	}
}

func (h *HUD) fill(rect image.Rectangle, col color.RGBA) {
	if h.pixel == nil {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(rect.Dx()), float64(rect.Dy()))
	op.GeoM.Translate(float64(rect.Min.X), float64(rect.Min.Y))
	op.ColorScale.ScaleWithColor(col)
	h.panel.DrawImage(h.pixel, op)
}

func (h *HUD) drawButton(rect image.Rectangle, label string, enabled bool) {
	bg := color.RGBA{R: 54, G: 56, B: 64, A: 255}
	fg := color.RGBA{R: 230, G: 230, B: 240, A: 255}
	if !enabled {
		bg = color.RGBA{R: 32, G: 34, B: 40, A: 255}
		fg = color.RGBA{R: 120, G: 120, B: 130, A: 255}
	}
	h.fill(rect, bg)

	face := basicfont.Face7x13
	bounds := text.BoundString(face, label)
	x := rect.Min.X + (rect.Dx()-bounds.Dx())/2
	y := rect.Min.Y + (rect.Dy()-bounds.Dy())/2 + bounds.Dy()
	text.Draw(h.panel, label, face, x, y, fg)
}

func (h *HUD) layoutControls() {
	if h.width <= 0 {
		return
	}
	for i := range h.controls {
		top := controlsTop + i*lineHeight
		buttonY := top + (lineHeight-buttonSize)/2
		plusRect := image.Rect(h.width-panelPadding-buttonSize, buttonY, h.width-panelPadding, buttonY+buttonSize)
		minusRect := image.Rect(plusRect.Min.X-buttonGap-buttonSize, buttonY, plusRect.Min.X-buttonGap, buttonY+buttonSize)
		h.controls[i].top = top
		h.controls[i].minusRect = minusRect
		h.controls[i].plusRect = plusRect
	}
}

func formatFloat(ctrl core.ParameterControl, value float64) string {
	precision := 1
	switch step := ctrl.Step; {
	case step <= 0:
		precision = 2
	case step < 0.001:
		precision = 4
	case step < 0.01:
		precision = 3
	case step < 0.1:
		precision = 2
	}
	return strconv.FormatFloat(value, 'f', precision, 64)
}

func pointInRect(x, y int, rect image.Rectangle) bool {
	return image.Pt(x, y).In(rect)
}

type hudControlState struct {
	control core.ParameterControl
	value   string

	intValue   int
	floatValue float64
	hasValue   bool

	top       int
	minusRect image.Rectangle
	plusRect  image.Rectangle
}

const (
	panelPadding   = 12
	lineHeight     = 36
	statLine       = 16
	buttonSize     = 24
	buttonGap      = 6
	headerBaseline = 18
	labelBaseline  = 24
	infoSpacing    = 36
	controlsTop    = panelPadding + headerBaseline + 14
)
