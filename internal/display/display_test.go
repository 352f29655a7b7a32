package display

import (
	"image"
	"image/color"
	"testing"

	"github.com/junsooki/Sylnode/internal/capture"
	"github.com/junsooki/Sylnode/internal/uiqueue"
)

type drawCall struct {
	op    string
	rect  image.Rectangle
	img   *image.RGBA
	scale float64
	x, y  float64
	text  string
	color color.Color
}

type recordingCanvas struct {
	w, h  int
	calls []drawCall
}

func (c *recordingCanvas) Size() (int, int) { return c.w, c.h }

func (c *recordingCanvas) Fill(clr color.Color) {
	c.calls = append(c.calls, drawCall{op: "fill", color: clr})
}

func (c *recordingCanvas) DrawFrame(img *image.RGBA, scale, x, y float64) {
	c.calls = append(c.calls, drawCall{op: "frame", img: img, scale: scale, x: x, y: y})
}

func (c *recordingCanvas) FillRect(r image.Rectangle, clr color.Color) {
	c.calls = append(c.calls, drawCall{op: "rect", rect: r, color: clr})
}

func (c *recordingCanvas) DrawText(s string, r image.Rectangle, clr color.Color) {
	c.calls = append(c.calls, drawCall{op: "text", rect: r, text: s, color: clr})
}

func (c *recordingCanvas) ops() []string {
	var out []string
	for _, call := range c.calls {
		out = append(out, call.op)
	}
	return out
}

func newFrame(w, h int) *capture.Frame {
	return capture.NewFrame(image.NewRGBA(image.Rect(0, 0, w, h)))
}

func equalOps(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestSetFrameReleasesPrevious(t *testing.T) {
	p := NewPresenter()
	b1, b2 := newFrame(4, 4), newFrame(4, 4)

	p.SetFrame(b1)
	if b1.Released() {
		t.Fatal("installed frame must stay live")
	}
	p.SetFrame(b2)
	if !b1.Released() {
		t.Fatal("replaced frame must be released")
	}
	if b2.Released() || p.Current() != b2 {
		t.Fatal("new frame must be installed and live")
	}

	// Reinstalling the same frame must not release it.
	p.SetFrame(b2)
	if b2.Released() {
		t.Fatal("reinstalled frame released")
	}
}

func TestClearReleasesFrame(t *testing.T) {
	p := NewPresenter()
	f := newFrame(2, 2)
	p.SetFrame(f)
	p.Clear()
	if !f.Released() || p.Current() != nil {
		t.Fatal("Clear must release and uninstall the frame")
	}
}

func TestRenderBlackWithoutFrame(t *testing.T) {
	p := NewPresenter()
	c := &recordingCanvas{w: 100, h: 50}
	p.Render(c)
	if got := c.ops(); !equalOps(got, []string{"fill"}) {
		t.Fatalf("ops = %v", got)
	}
	if c.calls[0].color != background {
		t.Fatalf("fill color = %v", c.calls[0].color)
	}
}

func TestRenderAspectFit(t *testing.T) {
	p := NewPresenter()
	f := newFrame(200, 100)
	p.SetFrame(f)

	c := &recordingCanvas{w: 100, h: 100}
	p.Render(c)
	if got := c.ops(); !equalOps(got, []string{"fill", "frame"}) {
		t.Fatalf("ops = %v", got)
	}
	call := c.calls[1]
	if call.img != f.RGBA() || call.scale != 0.5 || call.x != 0 || call.y != 25 {
		t.Fatalf("frame draw = %+v", call)
	}
}

func TestRenderCaptionBand(t *testing.T) {
	p := NewPresenter()
	p.SetCaption("paused")

	c := &recordingCanvas{w: 640, h: 480}
	p.Render(c)
	if got := c.ops(); !equalOps(got, []string{"fill", "rect", "text"}) {
		t.Fatalf("ops = %v", got)
	}
	band := image.Rect(0, 0, 640, CaptionHeight)
	if c.calls[1].rect != band || c.calls[1].color != captionBand {
		t.Fatalf("band = %+v", c.calls[1])
	}
	if c.calls[2].text != "paused" || c.calls[2].rect != band {
		t.Fatalf("text = %+v", c.calls[2])
	}
}

func TestRenderWithoutCaptionHasNoBand(t *testing.T) {
	p := NewPresenter()
	p.SetCaption("paused")
	p.SetCaption("")
	p.SetFrame(newFrame(10, 10))

	c := &recordingCanvas{w: 10, h: 10}
	p.Render(c)
	if got := c.ops(); !equalOps(got, []string{"fill", "frame"}) {
		t.Fatalf("ops = %v", got)
	}
}

func TestDirtyTracking(t *testing.T) {
	p := NewPresenter()
	if !p.Dirty() {
		t.Fatal("new presenter must be dirty")
	}
	p.Render(&recordingCanvas{w: 1, h: 1})
	if p.Dirty() {
		t.Fatal("Render must clear dirty")
	}
	p.SetCaption("")
	if p.Dirty() {
		t.Fatal("unchanged caption must not dirty")
	}
	p.Invalidate()
	if !p.Dirty() {
		t.Fatal("Invalidate must dirty")
	}
}

func TestAspectFitTransform(t *testing.T) {
	tests := []struct {
		name                    string
		vw, vh, fw, fh          float64
		scale, offsetX, offsetY float64
	}{
		{"same", 100, 100, 100, 100, 1, 0, 0},
		{"pillarbox", 200, 100, 100, 100, 1, 50, 0},
		{"letterbox", 100, 200, 100, 100, 1, 0, 50},
		{"downscale", 960, 540, 1920, 1080, 0.5, 0, 0},
		{"empty frame", 100, 100, 0, 0, 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, x, y := aspectFitTransform(tt.vw, tt.vh, tt.fw, tt.fh)
			if s != tt.scale || x != tt.offsetX || y != tt.offsetY {
				t.Fatalf("got (%v, %v, %v), want (%v, %v, %v)", s, x, y, tt.scale, tt.offsetX, tt.offsetY)
			}
		})
	}
}

func TestWindowUpdateDrainsQueueAndTerminates(t *testing.T) {
	q := uiqueue.New(4)
	w := NewWindow(q, NewPresenter(), nil)

	ran := false
	q.Post(func() { ran = true })
	if err := w.Update(); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if !ran {
		t.Fatal("Update must run posted tasks")
	}

	q.Post(w.RequestExit)
	if err := w.Update(); err == nil {
		t.Fatal("Update must return termination after exit request")
	}
}
