//go:build !windows

package taskbar

import (
	"testing"

	"github.com/junsooki/Sylnode/internal/icon"
)

func TestOverlayIsNoop(t *testing.T) {
	o, err := New("Sylnode", nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer o.Close()

	if err := o.SetOverlay(icon.Coffee(), "Capturing"); err != nil {
		t.Fatalf("SetOverlay: %v", err)
	}
	if err := o.SetOverlay(nil, ""); err != nil {
		t.Fatalf("clear: %v", err)
	}
}
