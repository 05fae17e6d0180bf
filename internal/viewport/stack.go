package viewport

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/depeter/stackscroll/internal/scroll"
)

// ImageLoader tells a stack viewport whether an image is decoded and starts
// loading it when it is not.
type ImageLoader interface {
	Loaded(imageID string) bool
	Request(imageID string)
}

// StackViewport shows one image at a time out of a linear list of image ids.
type StackViewport struct {
	log      *zap.Logger
	id       string
	loader   ImageLoader
	debounce *Debouncer

	mu       sync.RWMutex
	imageIDs []string
	ready    bool
	index    int
	pending  int
	height   float64
}

// NewStackViewport creates a viewport with no images. It reports no metrics
// until SetImageIDs is called. A nil loader treats every image as loaded.
func NewStackViewport(log *zap.Logger, id string, loader ImageLoader, debounceDelay time.Duration) *StackViewport {
	if log == nil {
		log = zap.NewNop()
	}
	return &StackViewport{
		log:      log.With(zap.String("viewport", id)),
		id:       id,
		loader:   loader,
		debounce: NewDebouncer(debounceDelay),
		pending:  -1,
	}
}

func (v *StackViewport) ID() string { return v.id }

func (v *StackViewport) SetHeight(h float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.height = h
}

// SetImageIDs replaces the stack contents and moves to the first image.
func (v *StackViewport) SetImageIDs(ids []string) {
	v.debounce.Cancel()

	v.mu.Lock()
	defer v.mu.Unlock()
	v.imageIDs = append([]string(nil), ids...)
	v.ready = true
	v.index = 0
	v.pending = -1
}

// ImageIDs returns a copy of the stack contents.
func (v *StackViewport) ImageIDs() []string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return append([]string(nil), v.imageIDs...)
}

// CurrentImageID returns the id of the displayed image, or "" when empty.
func (v *StackViewport) CurrentImageID() string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if v.index >= len(v.imageIDs) {
		return ""
	}
	return v.imageIDs[v.index]
}

func (v *StackViewport) Position() (index, count int) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.index, len(v.imageIDs)
}

func (v *StackViewport) Metrics() (scroll.Metrics, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if !v.ready || v.height <= 0 {
		return scroll.Metrics{}, false
	}
	return scroll.Metrics{
		Kind:       scroll.KindFlatStack,
		Height:     v.height,
		ImageCount: len(v.imageIDs),
	}, true
}

// SetImageIDIndex jumps straight to index, clamped into the stack.
func (v *StackViewport) SetImageIDIndex(index int) {
	v.debounce.Cancel()

	v.mu.Lock()
	defer v.mu.Unlock()
	v.pending = -1
	v.index = v.clampLocked(index)
}

// Scroll moves by cmd.Delta images. With DebounceLoading set and the target
// image not decoded yet, the move is deferred until the drag settles; later
// scrolls build on the deferred target.
func (v *StackViewport) Scroll(cmd scroll.Command) {
	v.mu.Lock()
	if len(v.imageIDs) == 0 {
		v.mu.Unlock()
		return
	}
	base := v.index
	if v.pending >= 0 {
		base = v.pending
	}
	target := v.clampLocked(base + cmd.Delta)
	imageID := v.imageIDs[target]

	if !cmd.DebounceLoading || v.loader == nil || v.loader.Loaded(imageID) {
		v.index = target
		v.pending = -1
		v.mu.Unlock()
		v.debounce.Cancel()
		return
	}

	v.pending = target
	v.mu.Unlock()

	mon.Counter("stack_scroll_debounced").Inc(1)
	v.log.Debug("deferring scroll until image loads", zap.String("image", imageID), zap.Int("index", target))
	v.loader.Request(imageID)
	v.debounce.Trigger(func() { v.applyPending(target) })
}

// Settle applies a deferred scroll immediately.
func (v *StackViewport) Settle() {
	v.debounce.Flush()
}

func (v *StackViewport) applyPending(target int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.pending != target {
		return
	}
	v.index = v.clampLocked(target)
	v.pending = -1
}

func (v *StackViewport) clampLocked(i int) int {
	return max(0, min(i, len(v.imageIDs)-1))
}
