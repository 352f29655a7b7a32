package iconsync

import (
	"errors"
	"testing"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/junsooki/Sylnode/internal/icon"
	"github.com/junsooki/Sylnode/internal/toggle"
)

type fakeWindow struct {
	current *icon.Icon
	calls   int
	err     error
}

func (f *fakeWindow) SetWindowIcon(ic *icon.Icon) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	f.current = ic
	return nil
}

type fakeTray struct {
	current *icon.Icon
	err     error
}

func (f *fakeTray) SetTrayIcon(ic *icon.Icon) error {
	if f.err != nil {
		return f.err
	}
	f.current = ic
	return nil
}

type fakeOverlay struct {
	current *icon.Icon
	desc    string
	calls   int
	err     error
}

func (f *fakeOverlay) SetOverlay(ic *icon.Icon, desc string) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	f.current, f.desc = ic, desc
	return nil
}

type fixture struct {
	base, badge *icon.Icon
	window      *fakeWindow
	tray        *fakeTray
	overlay     *fakeOverlay
	sync        *Synchronizer
}

func newFixture(t *testing.T, log *zap.Logger) *fixture {
	t.Helper()
	base := icon.Coffee()
	badge, err := icon.Badge(base)
	if err != nil {
		t.Fatal(err)
	}
	f := &fixture{
		base:    base,
		badge:   badge,
		window:  &fakeWindow{},
		tray:    &fakeTray{},
		overlay: &fakeOverlay{},
	}
	f.sync = New(base, badge, f.window, f.tray, f.overlay, log)
	return f
}

func (f *fixture) observed() Set {
	return Set{Window: f.window.current, Tray: f.tray.current, Overlay: f.overlay.current}
}

func TestApplyCapturing(t *testing.T) {
	f := newFixture(t, nil)
	if err := f.sync.Apply(toggle.Capturing); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got := f.observed(); got != (Set{Window: f.badge, Tray: f.badge, Overlay: f.badge}) {
		t.Fatalf("icons = %+v", got)
	}
	if f.overlay.desc != OverlayDescription {
		t.Fatalf("overlay description = %q", f.overlay.desc)
	}
}

func TestApplyIdleClearsOverlay(t *testing.T) {
	f := newFixture(t, nil)
	_ = f.sync.Apply(toggle.Capturing)
	if err := f.sync.Apply(toggle.Idle); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got := f.observed(); got != (Set{Window: f.base, Tray: f.base}) {
		t.Fatalf("icons = %+v", got)
	}
	if f.overlay.desc != "" {
		t.Fatalf("overlay description = %q, want empty", f.overlay.desc)
	}
}

func TestApplyIsIdempotent(t *testing.T) {
	for _, state := range []toggle.State{toggle.Idle, toggle.Capturing} {
		f := newFixture(t, nil)
		_ = f.sync.Apply(state)
		once := f.observed()
		_ = f.sync.Apply(state)
		if twice := f.observed(); twice != once {
			t.Fatalf("%v: second Apply changed icons: %+v vs %+v", state, twice, once)
		}
	}
}

func TestOverlayFailureStillAppliesWindowAndTray(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	f := newFixture(t, zap.New(core))
	f.overlay.err = errors.New("taskbar unavailable")

	err := f.sync.Apply(toggle.Capturing)
	if err == nil {
		t.Fatal("expected overlay error")
	}
	if !errors.Is(err, f.overlay.err) {
		t.Fatalf("err = %v, want to wrap overlay error", err)
	}
	if f.window.current != f.badge || f.tray.current != f.badge {
		t.Fatal("window and tray must still be badged")
	}
	if logs.FilterField(zap.String("surface", "overlay")).Len() != 1 {
		t.Fatalf("overlay failure not logged: %v", logs.All())
	}
}

func TestAllSurfacesAttemptedWhenEarlyOnesFail(t *testing.T) {
	f := newFixture(t, nil)
	f.window.err = errors.New("window gone")
	f.tray.err = errors.New("tray gone")

	err := f.sync.Apply(toggle.Capturing)
	if got := len(multierr.Errors(err)); got != 2 {
		t.Fatalf("got %d errors, want 2: %v", got, err)
	}
	if f.overlay.calls != 1 || f.overlay.current != f.badge {
		t.Fatal("overlay must still be applied")
	}
}
