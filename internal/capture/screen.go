package capture

import (
	"fmt"
	"image"

	"github.com/kbinani/screenshot"
)

// ScreenSource captures on-screen pixels through the OS screenshot APIs.
type ScreenSource struct{}

// NewScreenSource creates a screen capturer.
func NewScreenSource() *ScreenSource {
	return &ScreenSource{}
}

// Capture copies the pixels inside bounds into a fresh frame owned by the
// caller. The frame is addressed from (0,0) whatever the display origin.
func (s *ScreenSource) Capture(bounds image.Rectangle) (*Frame, error) {
	if bounds.Empty() || screenshot.NumActiveDisplays() == 0 {
		return nil, fmt.Errorf("%w: %w", ErrCaptureFailed, ErrNoDisplay)
	}

	img, err := screenshot.CaptureRect(bounds)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCaptureFailed, err)
	}
	if img.Rect.Min != (image.Point{}) {
		img.Rect = img.Rect.Sub(img.Rect.Min)
	}
	return NewFrame(img), nil
}
