// Package toggle holds the capture state machine: Idle and Capturing, flipped
// only by Toggle.
package toggle

import (
	"sync"

	"go.uber.org/zap"

	"github.com/junsooki/Sylnode/internal/logging"
)

// State is the capture state.
type State int

const (
	Idle State = iota
	Capturing
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Capturing:
		return "capturing"
	default:
		return "unknown"
	}
}

// Cycle is the periodic capture driver.
type Cycle interface {
	Start()
	Stop()
}

// IconApplier updates every icon surface for a state.
type IconApplier interface {
	Apply(s State) error
}

// CaptionSink shows the caption on the mirror surface.
type CaptionSink interface {
	SetCaption(text string)
	Invalidate()
}

// Controller owns the capture state.
type Controller struct {
	cycle   Cycle
	icons   IconApplier
	caption CaptionSink
	log     *zap.Logger

	mu             sync.Mutex
	state          State
	toggled        bool
	startupCaption string
	idleCaption    string
	observers      []func(State)
}

// New creates an Idle controller. The caller is expected to show the idle
// caption and icons once at startup with Sync.
func New(cycle Cycle, icons IconApplier, caption CaptionSink, idleCaption string, log *zap.Logger) *Controller {
	return &Controller{
		cycle:       cycle,
		icons:       icons,
		caption:     caption,
		idleCaption: idleCaption,
		log:         logging.OrNop(log).Named("toggle"),
	}
}

// OnChange registers fn to run after every transition, in registration
// order, while the transition lock is held. fn must not call Toggle.
func (c *Controller) OnChange(fn func(State)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observers = append(c.observers, fn)
}

// State returns the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Toggle flips the state and applies it everywhere: the capture cycle, the
// icons, then the caption. An icon failure is logged and does not undo the
// transition. Concurrent calls are serialized.
func (c *Controller) Toggle() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == Idle {
		c.state = Capturing
	} else {
		c.state = Idle
	}

	c.toggled = true
	c.log.Info("capture toggled", zap.Stringer(logging.KeyState, c.state))
	c.applyLocked()
	return c.state
}

// Sync reapplies the current state without changing it.
func (c *Controller) Sync() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.applyLocked()
}

// SetStartupCaption sets the prompt shown before the first toggle. Empty
// falls back to the idle message. It shows immediately when no toggle has
// happened yet.
func (c *Controller) SetStartupCaption(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if text == c.startupCaption {
		return
	}
	c.startupCaption = text
	if !c.toggled {
		c.showCaptionLocked()
	}
}

// SetIdleCaption replaces the message shown after capturing stops. It shows
// immediately when the controller is Idle.
func (c *Controller) SetIdleCaption(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if text == c.idleCaption {
		return
	}
	c.idleCaption = text
	if c.state == Idle {
		c.showCaptionLocked()
	}
}

// Caption returns the text that belongs to the current state.
func (c *Controller) Caption() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.captionLocked()
}

func (c *Controller) captionLocked() string {
	if c.state == Capturing {
		return ""
	}
	if !c.toggled && c.startupCaption != "" {
		return c.startupCaption
	}
	return c.idleCaption
}

func (c *Controller) showCaptionLocked() {
	c.caption.SetCaption(c.captionLocked())
	c.caption.Invalidate()
}

func (c *Controller) applyLocked() {
	if c.state == Capturing {
		c.cycle.Start()
	} else {
		c.cycle.Stop()
	}

	if err := c.icons.Apply(c.state); err != nil {
		c.log.Warn("icon update incomplete", zap.Stringer(logging.KeyState, c.state), zap.Error(err))
	}

	c.showCaptionLocked()

	for _, fn := range c.observers {
		fn(c.state)
	}
}
