package icon

import (
	"image"
	"image/color"
	"image/draw"
)

// DefaultSize is the edge length of the built-in icon.
const DefaultSize = 32

var (
	cupColor   = color.RGBA{R: 0x8b, G: 0x5a, B: 0x2b, A: 0xff}
	rimColor   = color.RGBA{R: 0x5c, G: 0x3a, B: 0x1a, A: 0xff}
	steamColor = color.RGBA{R: 0xc8, G: 0xc8, B: 0xc8, A: 0xc0}
)

// Coffee draws the default application icon, a coffee cup.
func Coffee() *Icon {
	img := image.NewRGBA(image.Rect(0, 0, DefaultSize, DefaultSize))

	// cup body
	fill(img, image.Rect(6, 14, 22, 28), cupColor)
	fill(img, image.Rect(6, 12, 22, 14), rimColor)
	// handle
	fill(img, image.Rect(22, 16, 26, 18), cupColor)
	fill(img, image.Rect(24, 18, 26, 23), cupColor)
	fill(img, image.Rect(22, 23, 26, 25), cupColor)
	// saucer
	fill(img, image.Rect(3, 28, 27, 30), rimColor)
	// steam
	for _, x := range []int{10, 14, 18} {
		fill(img, image.Rect(x, 4, x+1, 10), steamColor)
	}

	ic, err := New(img)
	if err != nil {
		// Encoding a fixed 32x32 RGBA image cannot fail.
		panic(err)
	}
	return ic
}

func fill(img draw.Image, r image.Rectangle, c color.Color) {
	draw.Draw(img, r, image.NewUniform(c), image.Point{}, draw.Over)
}
