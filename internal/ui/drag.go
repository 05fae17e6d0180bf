package ui

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/depeter/stackscroll/internal/scroll"
)

// PointerSample is the polled state of one pointer in one frame.
type PointerSample struct {
	Source  scroll.Source
	ID      int
	X, Y    float64
	Pressed bool
}

// HitFunc maps a press position to the viewport under it.
type HitFunc func(x, y float64) (scroll.Target, bool)

type pointerKey struct {
	source scroll.Source
	id     int
}

type dragState struct {
	target       scroll.Target
	lastX, lastY float64
}

// DragTracker turns per-frame pointer samples into incremental drag events.
// A drag is bound to the viewport it started on for its whole lifetime, and
// mouse and touch drags come out as the same event type.
type DragTracker struct {
	active map[pointerKey]*dragState
	seen   map[pointerKey]bool
}

func NewDragTracker() *DragTracker {
	return &DragTracker{
		active: make(map[pointerKey]*dragState),
		seen:   make(map[pointerKey]bool),
	}
}

// Dragging reports whether any pointer is mid-drag on a viewport. Presses
// that started outside every viewport do not count.
func (d *DragTracker) Dragging() bool {
	for _, st := range d.active {
		if st != nil {
			return true
		}
	}
	return false
}

// Update consumes one frame of samples. Pointers missing from samples, such
// as lifted touches, end their drag.
func (d *DragTracker) Update(samples []PointerSample, hit HitFunc) []scroll.DragEvent {
	clear(d.seen)

	var events []scroll.DragEvent
	for _, s := range samples {
		key := pointerKey{source: s.Source, id: s.ID}
		if !s.Pressed {
			continue
		}
		d.seen[key] = true

		st, ok := d.active[key]
		if !ok {
			target, hitOK := hit(s.X, s.Y)
			if !hitOK {
				// pressed outside any viewport; remember so a later slide in does not start a drag
				d.active[key] = nil
				continue
			}
			d.active[key] = &dragState{target: target, lastX: s.X, lastY: s.Y}
			continue
		}
		if st == nil {
			continue
		}

		dx, dy := s.X-st.lastX, s.Y-st.lastY
		st.lastX, st.lastY = s.X, s.Y
		if dx == 0 && dy == 0 {
			continue
		}
		events = append(events, scroll.DragEvent{
			DeltaCanvasX: dx,
			DeltaCanvasY: dy,
			Target:       st.target,
			Source:       s.Source,
		})
	}

	for key := range d.active {
		if !d.seen[key] {
			delete(d.active, key)
		}
	}
	return events
}

// PollPointers appends the left mouse button and every active touch.
func PollPointers(buf []PointerSample) []PointerSample {
	mx, my := ebiten.CursorPosition()
	buf = append(buf, PointerSample{
		Source:  scroll.SourceMouse,
		X:       float64(mx),
		Y:       float64(my),
		Pressed: ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft),
	})
	for _, id := range ebiten.AppendTouchIDs(nil) {
		tx, ty := ebiten.TouchPosition(id)
		buf = append(buf, PointerSample{
			Source:  scroll.SourceTouch,
			ID:      int(id),
			X:       float64(tx),
			Y:       float64(ty),
			Pressed: true,
		})
	}
	return buf
}
