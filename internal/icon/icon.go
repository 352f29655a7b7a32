// Package icon holds the application icons: the base icon and the badge
// variants shown while capturing.
package icon

import (
	"errors"
	"fmt"
	"image"
	"os"

	"golang.org/x/image/draw"

	"github.com/junsooki/Sylnode/internal/decoder"
	"github.com/junsooki/Sylnode/internal/encoder"
)

// Icon is an immutable icon image with its encodings precomputed, so that
// switching icons on a transition never re-encodes.
type Icon struct {
	img *image.RGBA
	png []byte
	ico []byte
}

// MaxSize is the largest icon edge. Bigger images are scaled down to fit,
// keeping their aspect ratio; ICO cannot hold more than 256 pixels.
const MaxSize = 256

var (
	pngEncoder   encoder.Encoder = encoder.NewPNGEncoder()
	icoEncoder   encoder.Encoder = encoder.NewICOEncoder()
	imageDecoder decoder.Decoder = decoder.NewImageDecoder()
)

// New copies img into an Icon, scaling it down when an edge exceeds
// MaxSize.
func New(img image.Image) (*Icon, error) {
	b := img.Bounds()
	if b.Empty() {
		return nil, errors.New("empty icon image")
	}

	w, h := fitSize(b.Dx(), b.Dy())
	rgba := image.NewRGBA(image.Rect(0, 0, w, h))
	if w == b.Dx() && h == b.Dy() {
		draw.Draw(rgba, rgba.Rect, img, b.Min, draw.Src)
	} else {
		draw.CatmullRom.Scale(rgba, rgba.Rect, img, b, draw.Src, nil)
	}

	pngData, err := pngEncoder.Encode(rgba)
	if err != nil {
		return nil, fmt.Errorf("encode icon png: %w", err)
	}
	icoData, err := icoEncoder.Encode(rgba)
	if err != nil {
		return nil, fmt.Errorf("encode icon ico: %w", err)
	}
	return &Icon{img: rgba, png: pngData, ico: icoData}, nil
}

// fitSize shrinks w x h so that neither edge exceeds MaxSize.
func fitSize(w, h int) (int, int) {
	if w <= MaxSize && h <= MaxSize {
		return w, h
	}
	if w >= h {
		return MaxSize, max(1, h*MaxSize/w)
	}
	return max(1, w*MaxSize/h), MaxSize
}

// Load reads a PNG or JPEG file as an icon.
func Load(path string) (*Icon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read icon: %w", err)
	}
	img, err := imageDecoder.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("icon %s: %w", path, err)
	}
	return New(img)
}

// Image returns the icon pixels. Callers must not modify them.
func (i *Icon) Image() *image.RGBA { return i.img }

// PNG returns the PNG encoding.
func (i *Icon) PNG() []byte { return i.png }

// ICO returns the .ico encoding.
func (i *Icon) ICO() []byte { return i.ico }

// Size returns the icon dimensions.
func (i *Icon) Size() (w, h int) {
	return i.img.Rect.Dx(), i.img.Rect.Dy()
}
