// Package topology inspects the connected displays and decides where the
// mirror window goes.
package topology

import (
	"errors"
	"fmt"
	"image"

	"github.com/kbinani/screenshot"
)

// ErrNoDisplays is returned when the OS reports no active display. The
// mirror window cannot be placed, so startup must abort.
var ErrNoDisplays = errors.New("no displays found")

// Enumerator lists active displays. Display 0 is the primary.
type Enumerator interface {
	NumDisplays() int
	DisplayBounds(index int) image.Rectangle
}

// ScreenEnumerator enumerates displays through the OS screenshot APIs.
type ScreenEnumerator struct{}

func (ScreenEnumerator) NumDisplays() int {
	return screenshot.NumActiveDisplays()
}

func (ScreenEnumerator) DisplayBounds(index int) image.Rectangle {
	return screenshot.GetDisplayBounds(index)
}

// Snapshot is an immutable view of the display configuration. A refresh
// always produces a new Snapshot; consumers must not modify Displays.
type Snapshot struct {
	Multiple bool
	Primary  image.Rectangle
	Target   image.Rectangle
	Displays []image.Rectangle
}

// Equal reports whether two snapshots describe the same configuration.
func (s Snapshot) Equal(o Snapshot) bool {
	if s.Multiple != o.Multiple || s.Primary != o.Primary || s.Target != o.Target {
		return false
	}
	if len(s.Displays) != len(o.Displays) {
		return false
	}
	for i := range s.Displays {
		if s.Displays[i] != o.Displays[i] {
			return false
		}
	}
	return true
}

func (s Snapshot) String() string {
	return fmt.Sprintf("displays=%d primary=%v target=%v", len(s.Displays), s.Primary, s.Target)
}

// Refresh enumerates all displays. With more than one display the target
// is the second display, otherwise it is the primary.
func Refresh(e Enumerator) (Snapshot, error) {
	n := e.NumDisplays()
	if n <= 0 {
		return Snapshot{}, ErrNoDisplays
	}

	displays := make([]image.Rectangle, n)
	for i := range displays {
		displays[i] = e.DisplayBounds(i)
	}

	snap := Snapshot{
		Multiple: n > 1,
		Primary:  displays[0],
		Target:   displays[0],
		Displays: displays,
	}
	if snap.Multiple {
		snap.Target = displays[1]
	}
	return snap, nil
}
