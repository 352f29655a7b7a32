package decoder

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

func TestDecodePNG(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	src.Set(2, 1, color.NRGBA{G: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, src); err != nil {
		t.Fatal(err)
	}

	img, err := NewImageDecoder().Decode(buf.Bytes())
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if img.Rect != image.Rect(0, 0, 3, 2) {
		t.Fatalf("Rect = %v", img.Rect)
	}
	if got := img.RGBAAt(2, 1); got.G != 255 || got.A != 255 {
		t.Fatalf("pixel = %v", got)
	}
}

func TestDecodeJPEG(t *testing.T) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, image.NewGray(image.Rect(0, 0, 16, 16)), nil); err != nil {
		t.Fatal(err)
	}
	img, err := NewImageDecoder().Decode(buf.Bytes())
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if img.Bounds().Dx() != 16 {
		t.Fatalf("width = %d", img.Bounds().Dx())
	}
}

func TestDecodeGarbage(t *testing.T) {
	if _, err := NewImageDecoder().Decode([]byte("not an image")); err == nil {
		t.Fatal("expected error")
	}
}
