package app

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spacemonkeygo/monkit/v3"
	"go.uber.org/zap"

	"github.com/depeter/stackscroll/internal/cache"
	"github.com/depeter/stackscroll/internal/config"
	"github.com/depeter/stackscroll/internal/scroll"
	"github.com/depeter/stackscroll/internal/ui"
	"github.com/depeter/stackscroll/internal/viewport"
)

var mon = monkit.Package()

// EngineID is the rendering engine every pane registers under.
const EngineID = "stackscroll"

// FrameFunc returns the image a pane shows at index, or nil while it is not
// available yet.
type FrameFunc func(index int) image.Image

type pane struct {
	ui.Pane
	target scroll.Target
	vp     viewport.Viewport
	frame  FrameFunc
	status string

	tex      *ebiten.Image
	texIndex int
}

// Game implements ebiten.Game and manages the overall application.
type Game struct {
	Config     *config.Config
	Registry   *viewport.Registry
	Controller *scroll.Controller

	Width, Height int

	log     *zap.Logger
	drag    *ui.DragTracker
	samples []ui.PointerSample
	panes   []*pane
	focus   int
}

// NewGame creates the Game with an empty registry. The registry serves as
// both the metrics source and the executor of the drag controller.
func NewGame(log *zap.Logger, cfg *config.Config) *Game {
	if log == nil {
		log = zap.NewNop()
	}
	reg := viewport.NewRegistry()
	g := &Game{
		Config:   cfg,
		Registry: reg,
		Width:    cfg.UI.Width,
		Height:   cfg.UI.Height,
		log:      log,
		drag:     ui.NewDragTracker(),
	}
	g.Controller = scroll.NewController(log.Named("scroll"), reg, reg, scroll.Options{
		Seed:                cfg.Scroll.Seed,
		Invert:              cfg.Scroll.Invert,
		DebounceIfNotLoaded: cfg.Scroll.DebounceIfNotLoaded,
	})
	return g
}

// AddPane registers vp and places it to the right of the existing panes.
// frame may be nil for viewports rendered outside the window, in which case
// status is drawn in the pane instead.
func (g *Game) AddPane(title string, vp viewport.Viewport, frame FrameFunc, status string) (scroll.Target, error) {
	target, err := g.Registry.Register(EngineID, vp)
	if err != nil {
		return target, err
	}
	g.panes = append(g.panes, &pane{
		Pane:     ui.Pane{Title: title},
		target:   target,
		vp:       vp,
		frame:    frame,
		status:   status,
		texIndex: -1,
	})
	g.layoutPanes()
	g.log.Info("pane added", zap.String("title", title), zap.String("viewport", vp.ID()))
	return target, nil
}

// StackFrames shows the decoded image under vp's current index, asking the
// cache for it when it is missing.
func StackFrames(vp *viewport.StackViewport, images *cache.ImageCache) FrameFunc {
	return func(int) image.Image {
		id := vp.CurrentImageID()
		if id == "" {
			return nil
		}
		img := images.Get(id)
		if img == nil {
			images.Request(id)
		}
		return img
	}
}

// VolumeFrames reslices the volume behind vp at its camera position.
func VolumeFrames(vp *viewport.VolumeViewport) FrameFunc {
	return func(int) image.Image { return vp.Image() }
}

func (g *Game) layoutPanes() {
	rects := ui.LayoutRow(len(g.panes), float64(g.Width), float64(g.Height))
	for i, p := range g.panes {
		p.Bounds = rects[i]
		p.vp.SetHeight(p.ImageArea().H)
	}
}

// paneAt returns the index of the pane whose image area holds (x, y).
func (g *Game) paneAt(x, y float64) (int, bool) {
	for i, p := range g.panes {
		if p.ImageArea().Contains(x, y) {
			return i, true
		}
	}
	return -1, false
}

// hit resolves a press to the viewport under it and focuses that pane.
func (g *Game) hit(x, y float64) (scroll.Target, bool) {
	i, ok := g.paneAt(x, y)
	if !ok {
		return scroll.Target{}, false
	}
	g.focus = i
	return g.panes[i].target, true
}

// step sends a fixed delta to pane i, bypassing the drag residual.
func (g *Game) step(i, delta int) {
	if i < 0 || i >= len(g.panes) || delta == 0 {
		return
	}
	p := g.panes[i]
	cmd := scroll.Command{
		Delta:           delta,
		DebounceLoading: g.Config.Scroll.DebounceIfNotLoaded,
	}
	if m, ok := p.vp.Metrics(); ok && m.Kind == scroll.KindVolumeResampled {
		cmd.VolumeID = m.VolumeID
	}
	mon.Counter("step_commands").Inc(1)
	g.Registry.Scroll(p.target, cmd)
}

// settle applies any jump still waiting on an image load once the pointer
// is released.
func (g *Game) settle() {
	for _, p := range g.panes {
		if s, ok := p.vp.(interface{ Settle() }); ok {
			s.Settle()
		}
	}
}

// wheelStep maps a wheel movement to one image: up goes back.
func wheelStep(dy float64) int {
	switch {
	case dy > 0:
		return -1
	case dy < 0:
		return 1
	}
	return 0
}

func (g *Game) Update() error {
	kb := &g.Config.Keys

	if keyJustPressed(kb.Quit) {
		return ebiten.Termination
	}
	if keyJustPressed(kb.Fullscreen) {
		ebiten.SetFullscreen(!ebiten.IsFullscreen())
	}
	if keyJustPressed(kb.NextPane) && len(g.panes) > 0 {
		g.focus = (g.focus + 1) % len(g.panes)
	}

	wasDragging := g.drag.Dragging()
	g.samples = ui.PollPointers(g.samples[:0])
	for _, ev := range g.drag.Update(g.samples, g.hit) {
		g.Controller.OnDrag(ev)
	}
	if wasDragging && !g.drag.Dragging() {
		g.settle()
	}

	if _, dy := ui.MouseWheelDelta(); dy != 0 && !g.drag.Dragging() {
		mx, my := ebiten.CursorPosition()
		if i, ok := g.paneAt(float64(mx), float64(my)); ok {
			g.focus = i
			g.step(i, wheelStep(dy))
		}
	}

	if !ui.IsModifierPressed() {
		if keyRepeating(kb.NextImage) {
			g.step(g.focus, 1)
		}
		if keyRepeating(kb.PrevImage) {
			g.step(g.focus, -1)
		}
	}

	ui.ToggleDebugOverlay()
	ui.UpdateInputState()
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(ui.ColorBackground)
	for i, p := range g.panes {
		index, count := p.vp.Position()
		p.Draw(screen, g.texture(p, index), index, count, p.status, i == g.focus)
	}
	ui.DrawDebugOverlay(screen, g.Controller.Residual())
}

// texture returns the GPU image for p at index. While the new frame is
// still loading the previous one stays up.
func (g *Game) texture(p *pane, index int) *ebiten.Image {
	if p.frame == nil {
		return nil
	}
	if p.tex != nil && p.texIndex == index {
		return p.tex
	}
	img := p.frame(index)
	if img == nil {
		return p.tex
	}
	if p.tex != nil {
		p.tex.Deallocate()
	}
	p.tex = ebiten.NewImageFromImage(img)
	p.texIndex = index
	return p.tex
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.Width || outsideHeight != g.Height {
		g.Width, g.Height = outsideWidth, outsideHeight
		g.layoutPanes()
	}
	return g.Width, g.Height
}
