package icon

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func TestCoffee(t *testing.T) {
	ic := Coffee()
	w, h := ic.Size()
	if w != DefaultSize || h != DefaultSize {
		t.Fatalf("size = %dx%d", w, h)
	}
	if len(ic.PNG()) == 0 || len(ic.ICO()) == 0 {
		t.Fatal("encodings missing")
	}
	if _, err := png.Decode(bytes.NewReader(ic.PNG())); err != nil {
		t.Fatalf("PNG invalid: %v", err)
	}
}

func TestBadgeLeavesBaseUntouched(t *testing.T) {
	base := Coffee()
	before := append([]byte(nil), base.Image().Pix...)

	badge, err := Badge(base)
	if err != nil {
		t.Fatalf("Badge: %v", err)
	}
	if !bytes.Equal(before, base.Image().Pix) {
		t.Fatal("Badge modified the base icon")
	}
	if bytes.Equal(badge.Image().Pix, base.Image().Pix) {
		t.Fatal("badge looks identical to base")
	}
}

func TestBadgeDiscPlacement(t *testing.T) {
	base, err := New(image.NewRGBA(image.Rect(0, 0, 32, 32)))
	if err != nil {
		t.Fatal(err)
	}
	badge, err := Badge(base)
	if err != nil {
		t.Fatal(err)
	}
	img := badge.Image()

	// disc: d=16 at x=14..30, y=2..18, centre (22,10)
	if got := img.RGBAAt(22, 10); got.R != 0xff || got.A != 0xff || got.G != 0 {
		t.Errorf("disc centre = %v, want opaque red", got)
	}
	if got := img.RGBAAt(2, 30); got.A != 0 {
		t.Errorf("bottom-left = %v, want transparent", got)
	}
	if got := img.RGBAAt(14, 2); got.A > 0x40 {
		t.Errorf("disc bounding-box corner = %v, want mostly transparent", got)
	}
}

func TestBadgeTextDrawsText(t *testing.T) {
	base, _ := New(image.NewRGBA(image.Rect(0, 0, 32, 32)))
	plain, _ := Badge(base)
	text, err := BadgeText(base, "3")
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(plain.Image().Pix, text.Image().Pix) {
		t.Fatal("badge text had no effect")
	}

	white := 0
	r := badgeRect(32, 32)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if c := text.Image().RGBAAt(x, y); c.G > 0x80 && c.B > 0x80 {
				white++
			}
		}
	}
	if white == 0 {
		t.Fatal("no white text pixels inside the disc")
	}
}

func TestLoad(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 16, 16))
	src.Set(0, 0, color.NRGBA{B: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, src); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "icon.png")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}

	ic, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if w, _ := ic.Size(); w != 16 {
		t.Fatalf("width = %d", w)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func writePNG(t *testing.T, img image.Image) string {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "icon.png")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadScalesLargeImages(t *testing.T) {
	tests := []struct {
		name         string
		w, h         int
		wantW, wantH int
	}{
		{"square 512", 512, 512, 256, 256},
		{"wide", 1024, 256, 256, 64},
		{"tall", 300, 600, 128, 256},
		{"exact limit", 256, 256, 256, 256},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := image.NewNRGBA(image.Rect(0, 0, tt.w, tt.h))
			for y := 0; y < tt.h; y++ {
				for x := 0; x < tt.w; x++ {
					src.Set(x, y, color.NRGBA{G: 200, A: 255})
				}
			}

			ic, err := Load(writePNG(t, src))
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if w, h := ic.Size(); w != tt.wantW || h != tt.wantH {
				t.Fatalf("size = %dx%d, want %dx%d", w, h, tt.wantW, tt.wantH)
			}
			if len(ic.ICO()) == 0 || len(ic.PNG()) == 0 {
				t.Fatal("encodings missing")
			}
			if got := ic.Image().RGBAAt(tt.wantW/2, tt.wantH/2); got.G < 190 || got.A != 255 {
				t.Fatalf("center pixel = %v", got)
			}
			if _, err := Badge(ic); err != nil {
				t.Fatalf("Badge: %v", err)
			}
		})
	}
}
