package player

import "math"

// frameCount is how many whole frames a clip of duration seconds holds at fps.
func frameCount(duration, fps float64) int {
	if duration <= 0 || fps <= 0 {
		return 0
	}
	return int(math.Floor(duration*fps + 1e-6))
}

// frameAt maps a playback position to the frame shown at it.
func frameAt(position, fps float64) int {
	if fps <= 0 || position <= 0 {
		return 0
	}
	return int(math.Floor(position*fps + 1e-6))
}

// frameTime returns the position to seek to for frame. It lands in the
// middle of the frame so rounding in the demuxer cannot pick the neighbour.
func frameTime(frame int, fps float64) float64 {
	if fps <= 0 || frame <= 0 {
		return 0
	}
	return (float64(frame) + 0.5) / fps
}
