//go:build !windows

package taskbar

import (
	"go.uber.org/zap"

	"github.com/junsooki/Sylnode/internal/icon"
	"github.com/junsooki/Sylnode/internal/logging"
)

// Overlay is a no-op on this platform.
type Overlay struct {
	log *zap.Logger
}

// New returns an overlay that accepts and ignores every request.
func New(windowTitle string, log *zap.Logger) (*Overlay, error) {
	l := logging.OrNop(log).Named("taskbar")
	l.Debug("taskbar overlay unsupported on this platform", zap.String("window", windowTitle))
	return &Overlay{log: l}, nil
}

func (o *Overlay) SetOverlay(ic *icon.Icon, description string) error {
	return nil
}

func (o *Overlay) Close() error {
	return nil
}
