// Package iconsync keeps the window icon, the tray icon and the taskbar
// overlay in step with the capture state.
package iconsync

import (
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/junsooki/Sylnode/internal/icon"
	"github.com/junsooki/Sylnode/internal/logging"
	"github.com/junsooki/Sylnode/internal/toggle"
)

// OverlayDescription is the accessible text of the capturing overlay.
const OverlayDescription = "Capturing"

// WindowIconSetter sets the mirror window icon.
type WindowIconSetter interface {
	SetWindowIcon(ic *icon.Icon) error
}

// TrayIconSetter sets the tray icon.
type TrayIconSetter interface {
	SetTrayIcon(ic *icon.Icon) error
}

// OverlaySetter installs a taskbar overlay. A nil icon clears it.
type OverlaySetter interface {
	SetOverlay(ic *icon.Icon, description string) error
}

// Set is the icons for one state. Overlay is nil when there is none.
type Set struct {
	Window  *icon.Icon
	Tray    *icon.Icon
	Overlay *icon.Icon
}

// Synchronizer applies icon sets. It holds no state of its own beyond the
// two icons created at startup, so applying the same state twice has the
// same effect as applying it once.
type Synchronizer struct {
	base  *icon.Icon
	badge *icon.Icon

	window  WindowIconSetter
	tray    TrayIconSetter
	overlay OverlaySetter
	log     *zap.Logger
}

// New creates a Synchronizer. badge is shown while capturing, base
// otherwise.
func New(base, badge *icon.Icon, window WindowIconSetter, tray TrayIconSetter, overlay OverlaySetter, log *zap.Logger) *Synchronizer {
	return &Synchronizer{
		base:    base,
		badge:   badge,
		window:  window,
		tray:    tray,
		overlay: overlay,
		log:     logging.OrNop(log).Named("iconsync"),
	}
}

// For returns the icon set for a state.
func (s *Synchronizer) For(state toggle.State) Set {
	if state == toggle.Capturing {
		return Set{Window: s.badge, Tray: s.badge, Overlay: s.badge}
	}
	return Set{Window: s.base, Tray: s.base}
}

// Apply updates all three surfaces. Every surface is attempted even when
// another fails; the failures are returned together.
func (s *Synchronizer) Apply(state toggle.State) error {
	set := s.For(state)

	var errs error
	if err := s.window.SetWindowIcon(set.Window); err != nil {
		errs = multierr.Append(errs, s.failed("window", err))
	}
	if err := s.tray.SetTrayIcon(set.Tray); err != nil {
		errs = multierr.Append(errs, s.failed("tray", err))
	}

	desc := ""
	if set.Overlay != nil {
		desc = OverlayDescription
	}
	if err := s.overlay.SetOverlay(set.Overlay, desc); err != nil {
		errs = multierr.Append(errs, s.failed("overlay", err))
	}
	return errs
}

func (s *Synchronizer) failed(surface string, err error) error {
	s.log.Warn("icon surface not updated", zap.String(logging.KeySurface, surface), zap.Error(err))
	return fmt.Errorf("%s icon: %w", surface, err)
}
