// Package display presents captured frames and the state caption on the
// mirror window.
package display

import (
	"image"
	"image/color"
	"math"
	"sync"

	"github.com/junsooki/Sylnode/internal/capture"
)

// CaptionHeight is the height of the caption band, in pixels.
const CaptionHeight = 32

var (
	background  = color.Black
	captionBand = color.RGBA{A: 128}
	captionText = color.White
)

// Surface is what the rest of the program knows about the mirror surface.
type Surface interface {
	SetFrame(f *capture.Frame)
	SetCaption(text string)
	Render(c Canvas)
}

// Canvas is a drawing target. Implementations wrap a concrete toolkit
// image; Presenter only uses these primitives.
type Canvas interface {
	Size() (w, h int)
	Fill(c color.Color)
	// DrawFrame draws img scaled by scale with its top-left corner at
	// (x, y).
	DrawFrame(img *image.RGBA, scale, x, y float64)
	// FillRect blends c over r.
	FillRect(r image.Rectangle, c color.Color)
	// DrawText draws text centered in r.
	DrawText(text string, r image.Rectangle, c color.Color)
}

// Presenter holds the installed frame and caption and renders them onto a
// Canvas. It owns the installed frame: the previous one is released when
// a new one arrives.
type Presenter struct {
	mu      sync.Mutex
	frame   *capture.Frame
	caption string
	dirty   bool
}

// NewPresenter returns a presenter with no frame and no caption.
func NewPresenter() *Presenter {
	return &Presenter{dirty: true}
}

// SetFrame installs f, releasing the frame it replaces.
func (p *Presenter) SetFrame(f *capture.Frame) {
	p.mu.Lock()
	prev := p.frame
	p.frame = f
	p.dirty = true
	p.mu.Unlock()

	if prev != nil && prev != f {
		prev.Release()
	}
}

// SetCaption sets the caption text. Empty hides the band.
func (p *Presenter) SetCaption(text string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if text != p.caption {
		p.caption = text
		p.dirty = true
	}
}

// Caption returns the caption text.
func (p *Presenter) Caption() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.caption
}

// Invalidate requests a repaint.
func (p *Presenter) Invalidate() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.dirty = true
}

// Dirty reports whether the surface changed since the last Render.
func (p *Presenter) Dirty() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.dirty
}

// Current returns the installed frame, or nil.
func (p *Presenter) Current() *capture.Frame {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.frame
}

// Clear releases the installed frame. The surface goes back to black.
func (p *Presenter) Clear() {
	p.SetFrame(nil)
}

// Render paints the installed frame, letterboxed on black, then the caption
// band when the caption is not empty.
func (p *Presenter) Render(c Canvas) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.dirty = false

	w, h := c.Size()
	c.Fill(background)

	if p.frame != nil {
		if img := p.frame.RGBA(); img != nil && w > 0 && h > 0 {
			fw, fh := float64(img.Rect.Dx()), float64(img.Rect.Dy())
			scale, x, y := aspectFitTransform(float64(w), float64(h), fw, fh)
			c.DrawFrame(img, scale, x, y)
		}
	}

	if p.caption == "" {
		return
	}
	band := image.Rect(0, 0, w, min(CaptionHeight, h))
	c.FillRect(band, captionBand)
	c.DrawText(p.caption, band, captionText)
}

// aspectFitTransform returns scale and offsets to fit frame into view with letterboxing.
func aspectFitTransform(viewW, viewH, frameW, frameH float64) (scale, offsetX, offsetY float64) {
	if frameW <= 0 || frameH <= 0 {
		return 0, 0, 0
	}
	scale = math.Min(viewW/frameW, viewH/frameH)
	offsetX = (viewW - frameW*scale) / 2
	offsetY = (viewH - frameH*scale) / 2
	return
}
