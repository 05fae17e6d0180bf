package ui

// ScrollIndicator tracks the thumb position of a pane's scroll bar with
// smooth animation. Positions are fractions of the stack, 0 at the first image.
type ScrollIndicator struct {
	Pos       float64
	TargetPos float64
}

// SetIndex points the indicator at index out of count images.
func (s *ScrollIndicator) SetIndex(index, count int) {
	if count <= 1 {
		s.TargetPos = 0
		return
	}
	s.TargetPos = float64(max(0, min(index, count-1))) / float64(count-1)
}

// Animate performs smooth interpolation. Call this from Draw().
func (s *ScrollIndicator) Animate() {
	s.Pos = Lerp(s.Pos, s.TargetPos, ScrollAnimSpeed)
	if d := s.Pos - s.TargetPos; d > -0.0005 && d < 0.0005 {
		s.Pos = s.TargetPos
	}
}

// Thumb returns the thumb's top offset and height inside a track of
// trackH pixels for a stack of count images.
func (s *ScrollIndicator) Thumb(trackH float64, count int) (top, h float64) {
	if count <= 0 || trackH <= 0 {
		return 0, 0
	}
	h = max(trackH/float64(count), ScrollBarMinH)
	h = min(h, trackH)
	return s.Pos * (trackH - h), h
}

// Lerp for smooth scrolling
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
