//go:build ebiten

package app

import (
	"image/color"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"softbody/internal/core"
	"softbody/internal/physics"
	"softbody/internal/render"
	"softbody/internal/ui"
)

const (
	grabPixels = 24
	cutPixels  = 8
)

// Game adapts a scene to the ebiten.Game interface.
type Game struct {
	scene   core.Scene
	painter *render.Painter
	overlay *ui.Overlay
	hud     *ui.HUD
	camera  *Camera
	clock   *core.FrameClock
	log     *log.Logger

	snap      physics.Snapshot
	transform render.Transform
	width     int
	height    int

	background color.Color
	paused     bool
	tickOnce   bool
	seed       int64

	drag dragger
}

// New constructs a Game for the provided scene, drawn into a width x height
// view with a hudWidth panel beside it.
func New(scene core.Scene, width, height, hudWidth, tps int, seed int64, logger *log.Logger) *Game {
	if logger == nil {
		logger = log.Default()
	}
	g := &Game{
		scene:      scene,
		painter:    render.NewPainter(),
		overlay:    ui.NewOverlay(),
		camera:     NewCamera(tps, 4, 1),
		clock:      core.NewFrameClock(0),
		log:        logger,
		width:      width,
		height:     height,
		background: color.RGBA{R: 12, G: 12, B: 16, A: 255},
		seed:       seed,
	}
	if hudWidth > 0 {
		g.hud = ui.NewHUD(scene, hudWidth)
	}
	g.camera.Snap(scene.View().Center())
	return g
}

// Reset rebuilds the scene with the provided seed.
func (g *Game) Reset(seed int64) {
	g.seed = seed
	g.scene.Reset(seed)
	g.clock.Reset()
	g.camera.Snap(g.scene.View().Center())
	g.tickOnce = false
	g.drag.release()
	g.log.Info("reset", "scene", g.scene.Name(), "seed", seed)
}

// Update handles per-frame input and advances the scene.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		g.paused = false
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.tickOnce = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.Reset(g.seed)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		g.Reset(time.Now().UnixNano())
	}

	g.overlay.Update()
	g.hud.Update(g.width)
	g.updateCamera()
	g.handleMouse()

	dt := g.clock.Tick()
	if g.paused && g.tickOnce {
		dt = 1 / float64(ebiten.TPS())
	}
	if !g.paused || g.tickOnce {
		g.scene.Advance(dt)
		g.tickOnce = false
	}
	return nil
}

func (g *Game) updateCamera() {
	fit := render.FitView(g.scene.View(), g.width, g.height)
	if f, ok := g.scene.(core.Focuser); ok && g.scene.World() != nil {
		if h, ok := f.Focus(); ok {
			g.camera.Follow(g.scene.World().Position(h))
		}
	}
	g.transform = render.LookAt(g.camera.Update(), fit.Scale, g.width, g.height)
}

// handleMouse drags particles with the left button and cuts sticks with the
// right.
func (g *Game) handleMouse() {
	w := g.scene.World()
	if w == nil {
		return
	}
	cx, cy := ebiten.CursorPosition()
	if cx >= g.width {
		g.drag.release()
		return
	}
	p := g.transform.ToWorld(float32(cx), float32(cy))

	switch {
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft):
		g.drag.grab(w, p, grabPixels/g.transform.Scale)
	case !ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft):
		g.drag.release()
	}
	g.drag.move(w, p)

	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight) {
		if n := w.CutSticks(p, cutPixels/g.transform.Scale); n > 0 {
			g.log.Debug("cut sticks", "count", n, "at", p)
		}
	}
}

// Draw renders the current scene state.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(g.background)
	if w := g.scene.World(); w != nil {
		w.Snapshot(&g.snap)
		g.painter.Draw(screen, &g.snap, g.transform)
		g.overlay.Draw(screen, w, g.transform)
	}
	g.hud.Draw(screen, g.width, g.height)
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.width + g.hud.Width(), g.height
}
