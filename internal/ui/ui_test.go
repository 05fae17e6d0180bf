package ui

import (
	"testing"

	"github.com/spacemonkeygo/monkit/v3"
	"github.com/stretchr/testify/require"

	"github.com/depeter/stackscroll/internal/scroll"
)

func hitLeftHalf(x, y float64) (scroll.Target, bool) {
	if x < 100 {
		return scroll.Target{ViewportID: "left", RenderingEngineID: "engine"}, true
	}
	return scroll.Target{}, false
}

func TestDragTrackerMouse(t *testing.T) {
	d := NewDragTracker()
	left := scroll.Target{ViewportID: "left", RenderingEngineID: "engine"}

	// press starts a drag without an event
	events := d.Update([]PointerSample{{Source: scroll.SourceMouse, X: 10, Y: 10, Pressed: true}}, hitLeftHalf)
	require.Empty(t, events)
	require.True(t, d.Dragging())

	events = d.Update([]PointerSample{{Source: scroll.SourceMouse, X: 12, Y: 17.5, Pressed: true}}, hitLeftHalf)
	require.Equal(t, []scroll.DragEvent{{DeltaCanvasX: 2, DeltaCanvasY: 7.5, Target: left, Source: scroll.SourceMouse}}, events)

	// no motion, no event
	events = d.Update([]PointerSample{{Source: scroll.SourceMouse, X: 12, Y: 17.5, Pressed: true}}, hitLeftHalf)
	require.Empty(t, events)

	// leaving the viewport keeps the drag bound to it
	events = d.Update([]PointerSample{{Source: scroll.SourceMouse, X: 300, Y: 7.5, Pressed: true}}, hitLeftHalf)
	require.Len(t, events, 1)
	require.Equal(t, left, events[0].Target)
	require.Equal(t, -10.0, events[0].DeltaCanvasY)

	// release ends it
	events = d.Update([]PointerSample{{Source: scroll.SourceMouse, X: 300, Y: 50}}, hitLeftHalf)
	require.Empty(t, events)
	require.False(t, d.Dragging())
}

func TestDragTrackerPressOutsideNeverDrags(t *testing.T) {
	d := NewDragTracker()
	require.Empty(t, d.Update([]PointerSample{{Source: scroll.SourceMouse, X: 500, Y: 0, Pressed: true}}, hitLeftHalf))
	require.False(t, d.Dragging())
	require.Empty(t, d.Update([]PointerSample{{Source: scroll.SourceMouse, X: 50, Y: 30, Pressed: true}}, hitLeftHalf))
	require.Empty(t, d.Update([]PointerSample{{Source: scroll.SourceMouse, X: 50, Y: 60, Pressed: true}}, hitLeftHalf))
	require.False(t, d.Dragging())

	// a touch on a viewport while the mouse is held outside is a real drag
	d.Update([]PointerSample{
		{Source: scroll.SourceMouse, X: 50, Y: 60, Pressed: true},
		{Source: scroll.SourceTouch, ID: 1, X: 10, Y: 10, Pressed: true},
	}, hitLeftHalf)
	require.True(t, d.Dragging())

	// after release a fresh press inside starts a drag
	d.Update(nil, hitLeftHalf)
	require.False(t, d.Dragging())
	d.Update([]PointerSample{{Source: scroll.SourceMouse, X: 50, Y: 60, Pressed: true}}, hitLeftHalf)
	require.True(t, d.Dragging())
}

func TestDragTrackerTouches(t *testing.T) {
	d := NewDragTracker()
	d.Update([]PointerSample{
		{Source: scroll.SourceMouse},
		{Source: scroll.SourceTouch, ID: 3, X: 20, Y: 20, Pressed: true},
		{Source: scroll.SourceTouch, ID: 4, X: 40, Y: 20, Pressed: true},
	}, hitLeftHalf)

	events := d.Update([]PointerSample{
		{Source: scroll.SourceMouse},
		{Source: scroll.SourceTouch, ID: 3, X: 20, Y: 25, Pressed: true},
		{Source: scroll.SourceTouch, ID: 4, X: 40, Y: 14, Pressed: true},
	}, hitLeftHalf)
	require.Len(t, events, 2)
	require.Equal(t, scroll.SourceTouch, events[0].Source)
	require.Equal(t, 5.0, events[0].DeltaCanvasY)
	require.Equal(t, -6.0, events[1].DeltaCanvasY)

	// touch 3 lifted: it disappears from the samples
	events = d.Update([]PointerSample{
		{Source: scroll.SourceMouse},
		{Source: scroll.SourceTouch, ID: 4, X: 40, Y: 10, Pressed: true},
	}, hitLeftHalf)
	require.Len(t, events, 1)
	require.Equal(t, -4.0, events[0].DeltaCanvasY)

	// a new touch reusing id 3 starts fresh
	events = d.Update([]PointerSample{
		{Source: scroll.SourceTouch, ID: 3, X: 90, Y: 90, Pressed: true},
	}, hitLeftHalf)
	require.Empty(t, events)
}

func TestScrollIndicator(t *testing.T) {
	var s ScrollIndicator
	s.SetIndex(9, 10)
	require.Equal(t, 1.0, s.TargetPos)
	for i := 0; i < 200; i++ {
		s.Animate()
	}
	require.Equal(t, 1.0, s.Pos)

	top, h := s.Thumb(100, 4)
	require.Equal(t, 25.0, h)
	require.Equal(t, 75.0, top)

	_, h = s.Thumb(100, 1000)
	require.Equal(t, float64(ScrollBarMinH), h)

	s.SetIndex(0, 1)
	require.Zero(t, s.TargetPos)
	_, h = s.Thumb(100, 0)
	require.Zero(t, h)
}

func TestRepeatFires(t *testing.T) {
	require.True(t, repeatFires(0))
	require.False(t, repeatFires(1))
	require.False(t, repeatFires(repeatDelay-1))
	require.True(t, repeatFires(repeatDelay))
	require.False(t, repeatFires(repeatDelay+1))
	require.True(t, repeatFires(repeatDelay+repeatInterval))
}

func TestLayoutRow(t *testing.T) {
	rects := LayoutRow(2, 208, 100)
	require.Len(t, rects, 2)
	require.Equal(t, Rect{X: 8, Y: 8, W: 92, H: 84}, rects[0])
	require.Equal(t, Rect{X: 108, Y: 8, W: 92, H: 84}, rects[1])
	require.True(t, rects[1].Contains(150, 50))
	require.False(t, rects[0].Contains(150, 50))
	require.Nil(t, LayoutRow(0, 100, 100))

	p := Pane{Bounds: rects[0]}
	area := p.ImageArea()
	require.Equal(t, 84.0-PaneHeaderH, area.H)
}

func TestMetricLines(t *testing.T) {
	reg := monkit.NewRegistry()
	reg.ScopeNamed("github.com/depeter/stackscroll/internal/scroll").Counter("drag_events").Inc(3)
	reg.ScopeNamed("elsewhere").Counter("other").Inc(1)

	lines := MetricLines(reg, "stackscroll")
	require.NotEmpty(t, lines)
	for _, l := range lines {
		require.Contains(t, l, "drag_events")
	}
}
