package capture

import (
	"errors"
	"image"
	"sync"
)

var (
	// ErrCaptureFailed wraps any failure to read screen pixels.
	ErrCaptureFailed = errors.New("screen capture failed")

	// ErrNoDisplay is returned when there is no display to capture.
	ErrNoDisplay = errors.New("no display to capture")
)

// Frame is an owned screen capture. The holder must call Release when done;
// the pixels must not be read afterwards.
type Frame struct {
	mu  sync.Mutex
	img *image.RGBA
}

// NewFrame takes ownership of img.
func NewFrame(img *image.RGBA) *Frame {
	return &Frame{img: img}
}

// RGBA returns the pixels, or nil once the frame has been released.
func (f *Frame) RGBA() *image.RGBA {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.img
}

// Bounds returns the frame rectangle, empty after release.
func (f *Frame) Bounds() image.Rectangle {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.img == nil {
		return image.Rectangle{}
	}
	return f.img.Rect
}

// Released reports whether Release has been called.
func (f *Frame) Released() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.img == nil
}

// Release drops the pixels. Subsequent calls are no-ops.
func (f *Frame) Release() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.img = nil
}

// Source produces frames for a screen rectangle.
type Source interface {
	Capture(bounds image.Rectangle) (*Frame, error)
}
