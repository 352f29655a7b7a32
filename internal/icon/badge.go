package icon

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

var (
	badgeColor     = color.RGBA{R: 0xff, A: 0xff}
	badgeTextColor = color.White
)

// Badge returns base with a red disc in the top-right corner.
func Badge(base *Icon) (*Icon, error) {
	return BadgeText(base, "")
}

// BadgeText returns base with a red disc in the top-right corner and text
// centered on the disc. Empty text draws the plain disc.
func BadgeText(base *Icon, text string) (*Icon, error) {
	src := base.Image()
	w, h := src.Rect.Dx(), src.Rect.Dy()

	composite := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(composite, composite.Rect, src, src.Rect.Min, draw.Src)

	disc := badgeRect(w, h)
	drawDisc(composite, disc, badgeColor)
	if text != "" {
		drawCentered(composite, disc, text, badgeTextColor)
	}
	return New(composite)
}

// badgeRect places the disc: half the icon's shorter side, 2px from the
// top and right edges.
func badgeRect(w, h int) image.Rectangle {
	d := min(w, h) / 2
	x := w - d - 2
	return image.Rect(x, 2, x+d, 2+d)
}

// drawDisc fills the circle inscribed in r with an antialiased edge.
func drawDisc(dst *image.RGBA, r image.Rectangle, c color.RGBA) {
	radius := float64(r.Dx()) / 2
	cx := float64(r.Min.X) + radius
	cy := float64(r.Min.Y) + radius

	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			dist := math.Hypot(float64(x)+0.5-cx, float64(y)+0.5-cy)
			coverage := radius + 0.5 - dist
			if coverage <= 0 {
				continue
			}
			if coverage > 1 {
				coverage = 1
			}
			a := uint8(float64(c.A) * coverage)
			mask := image.NewUniform(color.Alpha{A: a})
			draw.DrawMask(dst, image.Rect(x, y, x+1, y+1), image.NewUniform(c), image.Point{}, mask, image.Point{}, draw.Over)
		}
	}
}

func drawCentered(dst *image.RGBA, r image.Rectangle, text string, c color.Color) {
	face := basicfont.Face7x13
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(c), Face: face}

	adv := d.MeasureString(text)
	m := face.Metrics()
	textH := m.Ascent + m.Descent

	cx := fixed.I(r.Min.X) + fixed.I(r.Dx())/2
	cy := fixed.I(r.Min.Y) + fixed.I(r.Dy())/2
	d.Dot = fixed.Point26_6{
		X: cx - adv/2,
		Y: cy - textH/2 + m.Ascent,
	}
	d.DrawString(text)
}
