package viewport

import (
	"sync"

	"go.uber.org/zap"

	"github.com/depeter/stackscroll/internal/scroll"
)

// FrameSource is a video that can be stepped like a stack of images.
type FrameSource interface {
	FrameCount() int
	CurrentFrame() int
	SeekFrame(frame int) error
}

// CineViewport presents the frames of a video as a flat stack.
type CineViewport struct {
	log    *zap.Logger
	id     string
	frames FrameSource

	mu     sync.RWMutex
	height float64
}

func NewCineViewport(log *zap.Logger, id string, frames FrameSource) *CineViewport {
	if log == nil {
		log = zap.NewNop()
	}
	return &CineViewport{
		log:    log.With(zap.String("viewport", id)),
		id:     id,
		frames: frames,
	}
}

func (v *CineViewport) ID() string { return v.id }

func (v *CineViewport) SetHeight(h float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.height = h
}

func (v *CineViewport) Position() (index, count int) {
	return v.frames.CurrentFrame(), v.frames.FrameCount()
}

// Metrics reports nothing until the video's frame count is known.
func (v *CineViewport) Metrics() (scroll.Metrics, bool) {
	v.mu.RLock()
	height := v.height
	v.mu.RUnlock()

	count := v.frames.FrameCount()
	if height <= 0 || count <= 0 {
		return scroll.Metrics{}, false
	}
	return scroll.Metrics{
		Kind:       scroll.KindFlatStack,
		Height:     height,
		ImageCount: count,
	}, true
}

func (v *CineViewport) Scroll(cmd scroll.Command) {
	count := v.frames.FrameCount()
	if count <= 0 {
		return
	}
	target := max(0, min(v.frames.CurrentFrame()+cmd.Delta, count-1))
	if err := v.frames.SeekFrame(target); err != nil {
		v.log.Warn("seek failed", zap.Int("frame", target), zap.Error(err))
	}
}
