package capture

import (
	"image"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/junsooki/Sylnode/internal/logging"
	"github.com/junsooki/Sylnode/internal/uiqueue"
)

// Interval is the capture period.
const Interval = 50 * time.Millisecond

// failureLogEvery throttles repeated failure logs.
const failureLogEvery = 20

// CycleConfig wires a Cycle.
type CycleConfig struct {
	Source Source

	// Bounds returns the rectangle to capture. Called on the capture
	// goroutine, so it must be safe for concurrent use.
	Bounds func() image.Rectangle

	// UI receives the install tasks.
	UI uiqueue.Poster

	// Install takes ownership of a fresh frame. Runs on the UI goroutine.
	Install func(f *Frame)

	// FailureLimit stops the cycle after that many consecutive failures.
	// Zero retries forever.
	FailureLimit int

	// OnExhausted runs on the UI goroutine once FailureLimit is reached.
	OnExhausted func(err error)

	// Interval overrides the capture period (tests).
	Interval time.Duration

	Logger *zap.Logger
}

// Cycle captures periodically while started. Pixel copies happen on the
// cycle goroutine; frames reach the UI only through the UI queue.
type Cycle struct {
	cfg CycleConfig
	log *zap.Logger

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}

	// gen changes on every Start and Stop so that a capture that finishes
	// after a Stop is recognised as stale.
	gen atomic.Uint64
}

// NewCycle creates a stopped cycle.
func NewCycle(cfg CycleConfig) *Cycle {
	if cfg.Interval <= 0 {
		cfg.Interval = Interval
	}
	return &Cycle{
		cfg: cfg,
		log: logging.OrNop(cfg.Logger).Named("capture"),
	}
}

// Start begins capturing. Calling Start on a running cycle does nothing.
func (c *Cycle) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		return
	}
	c.running = true
	c.stopCh = make(chan struct{})
	gen := c.gen.Add(1)
	go c.loop(gen, c.stopCh)
	c.log.Debug("capture cycle started", zap.Uint64(logging.KeyGeneration, gen))
}

// Stop ends capturing before the next tick. A capture already in flight
// completes, but its frame is released instead of installed.
func (c *Cycle) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.running {
		return
	}
	c.running = false
	close(c.stopCh)
	gen := c.gen.Add(1)
	c.log.Debug("capture cycle stopped", zap.Uint64(logging.KeyGeneration, gen))
}

// Running reports whether the cycle is started.
func (c *Cycle) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

func (c *Cycle) loop(gen uint64, stopCh <-chan struct{}) {
	ticker := time.NewTicker(c.cfg.Interval)
	defer ticker.Stop()

	failures := 0
	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
		}

		f, err := c.cfg.Source.Capture(c.cfg.Bounds())
		if err != nil {
			failures++
			if failures == 1 || failures%failureLogEvery == 0 {
				c.log.Warn("capture failed", zap.Error(err), zap.Int("consecutive", failures))
			}
			if c.cfg.FailureLimit > 0 && failures >= c.cfg.FailureLimit {
				c.exhausted(gen, stopCh, err, failures)
				return
			}
			continue
		}

		if failures > 0 {
			c.log.Info("capture recovered", zap.Int("after_failures", failures))
			failures = 0
		}
		c.deliver(gen, f)
	}
}

func (c *Cycle) deliver(gen uint64, f *Frame) {
	ok := c.cfg.UI.Post(func() {
		if c.gen.Load() != gen {
			f.Release()
			return
		}
		c.cfg.Install(f)
	})
	if !ok {
		// UI is behind; skip this frame.
		f.Release()
	}
}

// exhausted hands the failure to the UI, retrying while the queue is full,
// then marks the cycle stopped so that a later Start begins a fresh loop.
func (c *Cycle) exhausted(gen uint64, stopCh <-chan struct{}, err error, failures int) {
	c.log.Error("capture keeps failing, stopping cycle",
		zap.Error(err), zap.Int("consecutive", failures))
	defer c.finished(stopCh)

	if c.cfg.OnExhausted == nil {
		return
	}
	task := func() {
		if c.gen.Load() != gen {
			return
		}
		c.cfg.OnExhausted(err)
	}

	ticker := time.NewTicker(c.cfg.Interval)
	defer ticker.Stop()
	for !c.cfg.UI.Post(task) {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
		}
	}
}

// finished clears running when the loop that owns stopCh ends on its own.
func (c *Cycle) finished(stopCh <-chan struct{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running && c.stopCh == stopCh {
		c.running = false
		c.stopCh = nil
		c.log.Debug("capture cycle ended", zap.Uint64(logging.KeyGeneration, c.gen.Load()))
	}
}
