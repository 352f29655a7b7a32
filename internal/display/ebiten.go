package display

import (
	"errors"
	"image"
	"image/color"
	"sync/atomic"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"go.uber.org/zap"
	"golang.org/x/image/font/basicfont"

	"github.com/junsooki/Sylnode/internal/icon"
	"github.com/junsooki/Sylnode/internal/logging"
	"github.com/junsooki/Sylnode/internal/topology"
	"github.com/junsooki/Sylnode/internal/uiqueue"
)

// Title is the mirror window title. The Windows taskbar overlay looks the
// window up by it.
const Title = "Sylnode"

var captionFace = text.NewGoXFace(basicfont.Face7x13)

// EbitenCanvas draws on an ebiten screen image. The frame texture is kept
// between draws and re-uploaded only when a different frame arrives.
type EbitenCanvas struct {
	screen *ebiten.Image

	tex    *ebiten.Image
	texSrc *image.RGBA
	pixel  *ebiten.Image
}

func (c *EbitenCanvas) Size() (int, int) {
	b := c.screen.Bounds()
	return b.Dx(), b.Dy()
}

func (c *EbitenCanvas) Fill(clr color.Color) {
	c.screen.Fill(clr)
}

func (c *EbitenCanvas) DrawFrame(img *image.RGBA, scale, x, y float64) {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	if c.tex == nil || c.tex.Bounds().Dx() != w || c.tex.Bounds().Dy() != h {
		if c.tex != nil {
			c.tex.Deallocate()
		}
		c.tex = ebiten.NewImage(w, h)
		c.texSrc = nil
	}
	if c.texSrc != img {
		c.tex.WritePixels(img.Pix)
		c.texSrc = img
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(x, y)
	op.Filter = ebiten.FilterLinear
	c.screen.DrawImage(c.tex, op)
}

func (c *EbitenCanvas) FillRect(r image.Rectangle, clr color.Color) {
	if r.Empty() {
		return
	}
	if c.pixel == nil {
		c.pixel = ebiten.NewImage(1, 1)
		c.pixel.Fill(color.White)
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(r.Dx()), float64(r.Dy()))
	op.GeoM.Translate(float64(r.Min.X), float64(r.Min.Y))
	op.ColorScale.ScaleWithColor(clr)
	c.screen.DrawImage(c.pixel, op)
}

func (c *EbitenCanvas) DrawText(s string, r image.Rectangle, clr color.Color) {
	tw, th := text.Measure(s, captionFace, 0)
	op := &text.DrawOptions{}
	op.GeoM.Translate(
		float64(r.Min.X)+(float64(r.Dx())-tw)/2,
		float64(r.Min.Y)+(float64(r.Dy())-th)/2,
	)
	op.ColorScale.ScaleWithColor(clr)
	text.Draw(c.screen, s, captionFace, op)
}

// Window is the mirror window. Its Update is the UI goroutine: every task
// posted to the queue runs there.
type Window struct {
	queue     *uiqueue.Queue
	presenter *Presenter
	canvas    EbitenCanvas
	log       *zap.Logger

	exit atomic.Bool

	lastW, lastH int
}

// NewWindow creates the mirror window. It is not shown until Run.
func NewWindow(queue *uiqueue.Queue, presenter *Presenter, log *zap.Logger) *Window {
	return &Window{
		queue:     queue,
		presenter: presenter,
		log:       logging.OrNop(log).Named("display"),
	}
}

// Presenter returns the surface the window draws.
func (w *Window) Presenter() *Presenter {
	return w.presenter
}

// Run starts the Ebitengine game loop. Must be called from the main goroutine.
func (w *Window) Run() error {
	ebiten.SetWindowTitle(Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetRunnableOnUnfocused(true)
	ebiten.SetScreenClearedEveryFrame(false)
	ebiten.SetTPS(30)
	return ebiten.RunGame(w)
}

// RequestExit makes the game loop return after the current tick. Safe for
// concurrent use.
func (w *Window) RequestExit() {
	w.exit.Store(true)
}

// Apply moves and styles the window for a placement.
func (w *Window) Apply(p topology.Placement) {
	ebiten.SetWindowDecorated(!p.Borderless)
	ebiten.SetWindowFloating(p.AlwaysOnTop)
	ebiten.SetWindowSize(p.Bounds.Dx(), p.Bounds.Dy())
	ebiten.SetWindowPosition(p.Bounds.Min.X, p.Bounds.Min.Y)
	w.presenter.Invalidate()
	w.log.Debug("window placed",
		zap.Stringer(logging.KeyBounds, p.Bounds),
		zap.Bool("borderless", p.Borderless))
}

// SetWindowIcon sets the title bar and taskbar icon.
func (w *Window) SetWindowIcon(ic *icon.Icon) error {
	if ic == nil {
		return errors.New("nil window icon")
	}
	ebiten.SetWindowIcon([]image.Image{ic.Image()})
	return nil
}

// Show brings a minimized window back.
func (w *Window) Show() {
	if ebiten.IsWindowMinimized() {
		ebiten.RestoreWindow()
	}
	w.presenter.Invalidate()
}

// --- ebiten.Game interface ---

func (w *Window) Update() error {
	w.queue.Drain()
	if w.exit.Load() {
		return ebiten.Termination
	}
	return nil
}

func (w *Window) Draw(screen *ebiten.Image) {
	sw, sh := screen.Bounds().Dx(), screen.Bounds().Dy()
	if sw != w.lastW || sh != w.lastH {
		w.lastW, w.lastH = sw, sh
		w.presenter.Invalidate()
	}
	if !w.presenter.Dirty() {
		return
	}
	w.canvas.screen = screen
	w.presenter.Render(&w.canvas)
}

func (w *Window) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}
