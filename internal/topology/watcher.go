package topology

import (
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/junsooki/Sylnode/internal/logging"
)

// DefaultPollInterval is how often the watcher re-enumerates displays.
const DefaultPollInterval = 2 * time.Second

// Unsubscribe stops a subscription. It is safe to call more than once.
type Unsubscribe func()

// Watcher reports display-configuration changes by polling an Enumerator.
type Watcher struct {
	enum     Enumerator
	interval time.Duration
	log      *zap.Logger

	mu   sync.Mutex
	last Snapshot
}

// NewWatcher creates a watcher that starts from the given snapshot.
func NewWatcher(e Enumerator, initial Snapshot, interval time.Duration, log *zap.Logger) *Watcher {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Watcher{
		enum:     e,
		interval: interval,
		log:      logging.OrNop(log).Named("topology"),
		last:     initial,
	}
}

// Subscribe starts polling and calls fn with every new snapshot. fn runs
// on the watcher goroutine. The returned Unsubscribe stops polling and
// waits for the goroutine to exit; fn is never called afterwards.
func (w *Watcher) Subscribe(fn func(Snapshot)) Unsubscribe {
	stopCh := make(chan struct{})
	done := make(chan struct{})

	go w.loop(fn, stopCh, done)

	var once sync.Once
	return func() {
		once.Do(func() {
			close(stopCh)
			<-done
		})
	}
}

func (w *Watcher) loop(fn func(Snapshot), stopCh <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			snap, changed := w.Poll()
			if !changed {
				continue
			}
			select {
			case <-stopCh:
				return
			default:
			}
			fn(snap)
		}
	}
}

// Poll re-enumerates once and reports whether the configuration changed.
// A transient zero-display reading is ignored; the last snapshot stays.
func (w *Watcher) Poll() (Snapshot, bool) {
	snap, err := Refresh(w.enum)
	if err != nil {
		if errors.Is(err, ErrNoDisplays) {
			w.log.Debug("no displays reported, keeping last topology")
		}
		return Snapshot{}, false
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if snap.Equal(w.last) {
		return Snapshot{}, false
	}
	w.log.Info("display configuration changed",
		zap.Stringer("from", w.last), zap.Stringer("to", snap))
	w.last = snap
	return snap, true
}
