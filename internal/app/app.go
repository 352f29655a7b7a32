// Package app wires the mirror window, the capture cycle, the toggle
// controller and the icon surfaces together.
package app

import (
	"fmt"
	"image"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/junsooki/Sylnode/internal/capture"
	"github.com/junsooki/Sylnode/internal/config"
	"github.com/junsooki/Sylnode/internal/display"
	"github.com/junsooki/Sylnode/internal/hotkey"
	"github.com/junsooki/Sylnode/internal/icon"
	"github.com/junsooki/Sylnode/internal/iconsync"
	"github.com/junsooki/Sylnode/internal/logging"
	"github.com/junsooki/Sylnode/internal/permissions"
	"github.com/junsooki/Sylnode/internal/toggle"
	"github.com/junsooki/Sylnode/internal/topology"
	"github.com/junsooki/Sylnode/internal/tray"
	"github.com/junsooki/Sylnode/internal/uiqueue"
)

// Window is the mirror window. Run blocks on the UI loop; RequestExit is
// safe from any goroutine.
type Window interface {
	Apply(p topology.Placement)
	SetWindowIcon(ic *icon.Icon) error
	Show()
	RequestExit()
	Run() error
}

// Tray is the notification-area icon.
type Tray interface {
	SetTrayIcon(ic *icon.Icon) error
	SetTooltip(text string)
	Notify(msg string)
	Start()
	Quit()
}

// Overlay is the taskbar button overlay.
type Overlay interface {
	SetOverlay(ic *icon.Icon, description string) error
	Close() error
}

// Deps are the platform pieces. Tests replace them with fakes.
type Deps struct {
	Enumerator topology.Enumerator
	Source     capture.Source

	NewWindow  func(q *uiqueue.Queue, p *display.Presenter) Window
	NewTray    func(opts tray.Options) Tray
	NewOverlay func(windowTitle string) (Overlay, error)

	// Hotkeys is nil when the platform has no global shortcuts.
	Hotkeys hotkey.Registrar

	// Permissions is skipped when its funcs are nil.
	Permissions permissions.Probe

	// WatchConfig, when set, delivers configuration reloads.
	WatchConfig func(fn func(*config.Config, error))

	// CaptureInterval overrides the capture period.
	CaptureInterval time.Duration

	Logger *zap.Logger
}

// App is one running mirror.
type App struct {
	cfg  *config.Config
	deps Deps
	log  *zap.Logger

	queue     *uiqueue.Queue
	presenter *display.Presenter
	window    Window
	tray      Tray
	overlay   Overlay
	icons     *iconsync.Synchronizer
	cycle     *capture.Cycle
	ctrl      *toggle.Controller
	hotkeys   *hotkey.Bridge

	mu   sync.Mutex
	topo topology.Snapshot

	// stopping is set on the UI goroutine once shutdown begins.
	stopping bool
}

// New builds the application. Finding no display is fatal.
func New(cfg *config.Config, deps Deps) (*App, error) {
	a := &App{
		cfg:  cfg,
		deps: deps,
		log:  logging.OrNop(deps.Logger),
	}

	snap, err := topology.Refresh(deps.Enumerator)
	if err != nil {
		return nil, fmt.Errorf("display topology: %w", err)
	}
	a.topo = snap
	a.log.Info("displays found", zap.Stringer("topology", snap))

	base, badge, err := loadIcons(cfg)
	if err != nil {
		return nil, err
	}

	a.queue = uiqueue.New(uiqueue.DefaultCapacity)
	a.presenter = display.NewPresenter()
	a.window = deps.NewWindow(a.queue, a.presenter)
	a.window.Apply(topology.Place(snap))

	a.tray = deps.NewTray(tray.Options{
		Tooltip:         cfg.TrayTooltip,
		OnShowRequested: a.RequestShow,
		OnExitRequested: a.RequestExit,
	})

	a.overlay, err = deps.NewOverlay(display.Title)
	if err != nil {
		a.log.Warn("taskbar overlay unavailable", zap.Error(err))
		a.overlay = noOverlay{}
	}

	a.icons = iconsync.New(base, badge, a.window, a.tray, a.overlay, a.log)

	a.cycle = capture.NewCycle(capture.CycleConfig{
		Source:       deps.Source,
		Bounds:       a.captureBounds,
		UI:           a.queue,
		Install:      a.presenter.SetFrame,
		FailureLimit: cfg.CaptureFailureLimit,
		OnExhausted:  a.captureExhausted,
		Interval:     deps.CaptureInterval,
		Logger:       a.log,
	})

	a.ctrl = toggle.New(a.cycle, a.icons, a.presenter, cfg.IdleCaption, a.log)
	a.ctrl.SetStartupCaption(cfg.StartupCaption)
	a.ctrl.OnChange(a.updateTooltip)

	if cfg.HotkeyEnabled && deps.Hotkeys != nil {
		a.hotkeys = hotkey.NewBridge(deps.Hotkeys, a.queue, a.toggle, a.tray, a.log)
	}

	return a, nil
}

// Run shows the window and blocks until the user exits.
func (a *App) Run() error {
	defer a.shutdown()

	a.tray.Start()
	if a.deps.Permissions.Has != nil && a.deps.Permissions.Request != nil {
		a.deps.Permissions.Preflight(a.tray, a.log)
	}

	a.ctrl.Sync()

	if a.hotkeys != nil {
		// A refused shortcut has already been reported; the tray still works.
		_ = a.hotkeys.Start()
	}

	watcher := topology.NewWatcher(a.deps.Enumerator, a.Topology(), a.cfg.TopologyPollInterval, a.log)
	unsubscribe := watcher.Subscribe(func(s topology.Snapshot) {
		a.queue.Post(func() { a.applyTopology(s) })
	})
	defer unsubscribe()

	if a.deps.WatchConfig != nil {
		a.deps.WatchConfig(a.configChanged)
	}

	a.log.Info("mirror ready", zap.Stringer(logging.KeyState, a.ctrl.State()))
	return a.window.Run()
}

// RequestToggle flips capturing from any goroutine.
func (a *App) RequestToggle() bool {
	return a.queue.Post(a.toggle)
}

// RequestShow brings the mirror window back from any goroutine.
func (a *App) RequestShow() {
	a.queue.Post(a.show)
}

// RequestExit ends Run from any goroutine.
func (a *App) RequestExit() {
	a.window.RequestExit()
}

// Controller returns the toggle controller.
func (a *App) Controller() *toggle.Controller {
	return a.ctrl
}

// Presenter returns the mirror surface.
func (a *App) Presenter() *display.Presenter {
	return a.presenter
}

// Queue returns the UI queue.
func (a *App) Queue() *uiqueue.Queue {
	return a.queue
}

// Topology returns the current display snapshot.
func (a *App) Topology() topology.Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.topo
}

func (a *App) toggle() {
	if a.stopping {
		return
	}
	a.ctrl.Toggle()
}

func (a *App) show() {
	if a.stopping {
		return
	}
	a.window.Show()
}

func (a *App) captureBounds() image.Rectangle {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.topo.Primary
}

// applyTopology repositions the window. The installed frame is left alone.
func (a *App) applyTopology(s topology.Snapshot) {
	if a.stopping {
		return
	}
	a.mu.Lock()
	a.topo = s
	a.mu.Unlock()
	a.window.Apply(topology.Place(s))
}

func (a *App) captureExhausted(err error) {
	if a.stopping {
		return
	}
	if a.ctrl.State() == toggle.Capturing {
		a.ctrl.Toggle()
	}
	a.tray.Notify("Capture de l'écran impossible, miroir arrêté")
}

func (a *App) configChanged(cfg *config.Config, err error) {
	if err != nil {
		a.log.Warn("config reload rejected", zap.Error(err))
		return
	}
	a.queue.Post(func() {
		a.ctrl.SetIdleCaption(cfg.IdleCaption)
		a.ctrl.SetStartupCaption(cfg.StartupCaption)
	})
}

func (a *App) updateTooltip(s toggle.State) {
	if s == toggle.Capturing {
		a.tray.SetTooltip(a.cfg.TrayTooltip + " - capture en cours")
		return
	}
	a.tray.SetTooltip(a.cfg.TrayTooltip)
}

// shutdown runs on the UI goroutine after the window loop returns. Tasks
// still queued are run once so that pending frames are released; actions
// they would trigger are ignored.
func (a *App) shutdown() {
	a.stopping = true
	a.cycle.Stop()
	a.queue.Close()
	if n := a.queue.Drain(); n > 0 {
		a.log.Debug("discarded pending UI tasks", zap.Int("count", n))
	}
	a.presenter.Clear()

	if a.hotkeys != nil {
		if err := a.hotkeys.Close(); err != nil {
			a.log.Warn("failed to unregister shortcut", zap.Error(err))
		}
	}
	if err := a.overlay.SetOverlay(nil, ""); err != nil {
		a.log.Debug("overlay not cleared", zap.Error(err))
	}
	if err := a.overlay.Close(); err != nil {
		a.log.Warn("failed to close taskbar overlay", zap.Error(err))
	}
	a.tray.Quit()
	a.log.Info("mirror stopped")
}

func loadIcons(cfg *config.Config) (base, badge *icon.Icon, err error) {
	base = icon.Coffee()
	if cfg.IconFile != "" {
		if base, err = icon.Load(cfg.IconFile); err != nil {
			return nil, nil, fmt.Errorf("load icon: %w", err)
		}
	}
	if cfg.BadgeText != "" {
		badge, err = icon.BadgeText(base, cfg.BadgeText)
	} else {
		badge, err = icon.Badge(base)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("compose badge icon: %w", err)
	}
	return base, badge, nil
}

type noOverlay struct{}

func (noOverlay) SetOverlay(*icon.Icon, string) error { return nil }
func (noOverlay) Close() error                        { return nil }
