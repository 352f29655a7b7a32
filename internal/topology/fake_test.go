package topology

import (
	"image"
	"sync"
)

type fakeEnumerator struct {
	mu       sync.Mutex
	displays []image.Rectangle
}

func newFakeEnumerator(displays ...image.Rectangle) *fakeEnumerator {
	return &fakeEnumerator{displays: displays}
}

func (f *fakeEnumerator) set(displays ...image.Rectangle) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.displays = displays
}

func (f *fakeEnumerator) NumDisplays() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.displays)
}

func (f *fakeEnumerator) DisplayBounds(i int) image.Rectangle {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.displays[i]
}
