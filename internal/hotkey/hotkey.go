// Package hotkey turns the global Ctrl+/ shortcut into toggle requests on
// the UI queue.
package hotkey

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/junsooki/Sylnode/internal/logging"
	"github.com/junsooki/Sylnode/internal/uiqueue"
)

// ToggleID is the registration id of the capture toggle shortcut.
const ToggleID = 1

// ErrRegistration is returned when the OS refuses the shortcut.
var ErrRegistration = errors.New("hotkey registration failed")

// Registrar registers system-wide shortcuts by id. Events delivers the id
// of every shortcut pressed.
type Registrar interface {
	Register(id int) error
	Unregister(id int) error
	Events() <-chan int
}

// Notifier shows a message to the user without blocking.
type Notifier interface {
	Notify(msg string)
}

// Bridge forwards shortcut presses to the UI queue.
type Bridge struct {
	reg      Registrar
	ui       uiqueue.Poster
	onToggle func()
	notifier Notifier
	log      *zap.Logger

	mu         sync.Mutex
	registered bool
	stopCh     chan struct{}
	done       chan struct{}
}

// NewBridge creates a bridge. onToggle runs on the UI goroutine.
func NewBridge(reg Registrar, ui uiqueue.Poster, onToggle func(), notifier Notifier, log *zap.Logger) *Bridge {
	return &Bridge{
		reg:      reg,
		ui:       ui,
		onToggle: onToggle,
		notifier: notifier,
		log:      logging.OrNop(log).Named("hotkey"),
	}
}

// Start registers the toggle shortcut and begins listening. A refused
// registration is reported to the user once and returned; the program
// keeps working through the tray.
func (b *Bridge) Start() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.stopCh != nil {
		return nil
	}

	if err := b.reg.Register(ToggleID); err != nil {
		err = fmt.Errorf("%w: %w", ErrRegistration, err)
		b.log.Warn("toggle shortcut unavailable", zap.Error(err))
		if b.notifier != nil {
			b.notifier.Notify("Le raccourci Ctrl+/ n'a pas pu être enregistré")
		}
		return err
	}
	b.registered = true

	b.stopCh = make(chan struct{})
	b.done = make(chan struct{})
	go b.listen(b.reg.Events(), b.stopCh, b.done)
	b.log.Info("toggle shortcut registered")
	return nil
}

// Handle reacts to a shortcut id. Ids other than ToggleID are ignored.
func (b *Bridge) Handle(id int) {
	if id != ToggleID {
		b.log.Debug("ignoring shortcut", zap.Int("id", id))
		return
	}
	if !b.ui.Post(b.onToggle) {
		b.log.Warn("toggle dropped, UI queue unavailable")
	}
}

// Close unregisters the shortcut and stops listening.
func (b *Bridge) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	var err error
	if b.registered {
		err = b.reg.Unregister(ToggleID)
		b.registered = false
	}
	if b.stopCh != nil {
		close(b.stopCh)
		<-b.done
		b.stopCh = nil
	}
	return err
}

func (b *Bridge) listen(events <-chan int, stopCh <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	for {
		select {
		case <-stopCh:
			return
		case id, ok := <-events:
			if !ok {
				return
			}
			b.Handle(id)
		}
	}
}
