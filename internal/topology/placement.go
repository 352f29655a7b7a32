package topology

import "image"

// Placement is where and how the mirror window is shown.
type Placement struct {
	Bounds      image.Rectangle
	Borderless  bool
	AlwaysOnTop bool
}

// Place computes the mirror window placement for a snapshot. With several
// displays the window covers the whole target display. With a single
// display it shrinks to a quarter-size tool window in the top-right corner
// so it does not hide the screen it mirrors.
func Place(s Snapshot) Placement {
	if s.Multiple {
		return Placement{
			Bounds:      s.Target,
			Borderless:  true,
			AlwaysOnTop: true,
		}
	}

	b := s.Target
	dx := b.Dx() / 4
	dy := b.Dy() / 4
	origin := image.Pt(b.Min.X+b.Dx()-dx, b.Min.Y)
	return Placement{
		Bounds:      image.Rectangle{Min: origin, Max: origin.Add(image.Pt(dx, dy))},
		Borderless:  false,
		AlwaysOnTop: true,
	}
}
