package hotkey

import (
	"fmt"
	"sync"

	"golang.design/x/hotkey"
)

type binding struct {
	mods []hotkey.Modifier
	key  hotkey.Key
}

var bindings = map[int]binding{
	ToggleID: {mods: []hotkey.Modifier{hotkey.ModCtrl}, key: keySlash},
}

// SystemRegistrar registers shortcuts with the OS through
// golang.design/x/hotkey.
type SystemRegistrar struct {
	mu     sync.Mutex
	active map[int]*registration
	events chan int
}

type registration struct {
	hk   *hotkey.Hotkey
	stop chan struct{}
	done chan struct{}
}

// NewSystemRegistrar creates a registrar with nothing registered.
func NewSystemRegistrar() *SystemRegistrar {
	return &SystemRegistrar{
		active: make(map[int]*registration),
		events: make(chan int, 8),
	}
}

func (r *SystemRegistrar) Register(id int) error {
	b, ok := bindings[id]
	if !ok {
		return fmt.Errorf("no shortcut bound to id %d", id)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.active[id]; ok {
		return nil
	}

	hk := hotkey.New(b.mods, b.key)
	if err := hk.Register(); err != nil {
		return err
	}
	reg := &registration{hk: hk, stop: make(chan struct{}), done: make(chan struct{})}
	r.active[id] = reg
	go r.forward(id, reg)
	return nil
}

func (r *SystemRegistrar) Unregister(id int) error {
	r.mu.Lock()
	reg, ok := r.active[id]
	delete(r.active, id)
	r.mu.Unlock()
	if !ok {
		return nil
	}

	close(reg.stop)
	<-reg.done
	return reg.hk.Unregister()
}

func (r *SystemRegistrar) Events() <-chan int {
	return r.events
}

func (r *SystemRegistrar) forward(id int, reg *registration) {
	defer close(reg.done)
	keydown := reg.hk.Keydown()
	for {
		select {
		case <-reg.stop:
			return
		case <-keydown:
			select {
			case r.events <- id:
			default:
				// A toggle is already pending.
			}
		}
	}
}
