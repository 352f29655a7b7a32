// Package tray runs the notification-area icon and its menu.
package tray

import (
	"errors"
	"sync"

	"github.com/getlantern/systray"
	"go.uber.org/zap"

	"github.com/junsooki/Sylnode/internal/icon"
	"github.com/junsooki/Sylnode/internal/logging"
)

// Menu labels.
const (
	LabelShow = "Activer"
	LabelExit = "Quitter"
)

// Options configures the tray. The callbacks run on the tray click
// goroutine.
type Options struct {
	Tooltip         string
	OnShowRequested func()
	OnExitRequested func()
}

// Tray is the notification-area icon. Icon and tooltip changes made before
// the tray is ready are applied once it is.
type Tray struct {
	opts Options
	log  *zap.Logger

	mu      sync.Mutex
	ready   bool
	icon    *icon.Icon
	tooltip string

	quitOnce sync.Once
	stopCh   chan struct{}
}

// New creates a tray. Nothing is shown until Start.
func New(opts Options, log *zap.Logger) *Tray {
	return &Tray{
		opts:    opts,
		log:     logging.OrNop(log).Named("tray"),
		tooltip: opts.Tooltip,
		stopCh:  make(chan struct{}),
	}
}

// SetTrayIcon shows ic in the notification area.
func (t *Tray) SetTrayIcon(ic *icon.Icon) error {
	if ic == nil {
		return errors.New("nil tray icon")
	}
	data := iconBytes(ic)
	if len(data) == 0 {
		return errors.New("tray icon has no encoding for this platform")
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.icon = ic
	if t.ready {
		systray.SetIcon(data)
	}
	return nil
}

// SetTooltip replaces the hover text.
func (t *Tray) SetTooltip(text string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.tooltip = text
	if t.ready {
		systray.SetTooltip(text)
	}
}

// Tooltip returns the current hover text.
func (t *Tray) Tooltip() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.tooltip
}

// Notify reports msg to the user through the tooltip and the log. It never
// blocks on user interaction.
func (t *Tray) Notify(msg string) {
	t.log.Warn("user notification", zap.String("message", msg))
	t.SetTooltip(t.opts.Tooltip + ": " + msg)
}

// Quit removes the icon and stops the tray loop.
func (t *Tray) Quit() {
	t.quitOnce.Do(func() {
		close(t.stopCh)
		t.mu.Lock()
		ready := t.ready
		t.mu.Unlock()
		if ready {
			systray.Quit()
		}
	})
}

func (t *Tray) onReady() {
	show := systray.AddMenuItem(LabelShow, "Afficher la fenêtre miroir")
	systray.AddSeparator()
	exit := systray.AddMenuItem(LabelExit, "Quitter Sylnode")

	t.mu.Lock()
	t.ready = true
	if t.icon != nil {
		systray.SetIcon(iconBytes(t.icon))
	}
	systray.SetTooltip(t.tooltip)
	t.mu.Unlock()

	t.log.Debug("tray ready")
	go t.handleClicks(show.ClickedCh, exit.ClickedCh)
}

func (t *Tray) onExit() {
	t.mu.Lock()
	t.ready = false
	t.mu.Unlock()
	t.log.Debug("tray exited")
}

func (t *Tray) handleClicks(show, exit <-chan struct{}) {
	for {
		select {
		case <-t.stopCh:
			return
		case <-show:
			if t.opts.OnShowRequested != nil {
				t.opts.OnShowRequested()
			}
		case <-exit:
			if t.opts.OnExitRequested != nil {
				t.opts.OnExitRequested()
			}
		}
	}
}
