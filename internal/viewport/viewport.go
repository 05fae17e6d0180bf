package viewport

import (
	"sync"

	"github.com/spacemonkeygo/monkit/v3"
	"github.com/zeebo/errs"

	"github.com/depeter/stackscroll/internal/scroll"
)

var (
	mon = monkit.Package()

	// Error is the error class for viewport registry failures.
	Error = errs.Class("viewport")
)

// Viewport is a pane that can report scroll metrics and navigate by commands.
type Viewport interface {
	ID() string
	// SetHeight records the on-screen height in canvas pixels.
	SetHeight(h float64)
	Metrics() (scroll.Metrics, bool)
	Scroll(cmd scroll.Command)
	// Position returns the current image index and the image count.
	Position() (index, count int)
}

// Registry holds the viewports of every rendering engine. It resolves
// drag targets for the scroll controller and executes its commands.
type Registry struct {
	mu        sync.RWMutex
	viewports map[scroll.Target]Viewport
	order     []scroll.Target
}

func NewRegistry() *Registry {
	return &Registry{viewports: make(map[scroll.Target]Viewport)}
}

// Register adds vp under engineID and returns its target.
func (r *Registry) Register(engineID string, vp Viewport) (scroll.Target, error) {
	target := scroll.Target{ViewportID: vp.ID(), RenderingEngineID: engineID}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.viewports[target]; exists {
		return target, Error.New("viewport %q already registered on %q", vp.ID(), engineID)
	}
	r.viewports[target] = vp
	r.order = append(r.order, target)
	return target, nil
}

// Unregister drops the viewport for target.
func (r *Registry) Unregister(target scroll.Target) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.viewports[target]; !ok {
		return
	}
	delete(r.viewports, target)
	for i, t := range r.order {
		if t == target {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// Get looks up the viewport for target.
func (r *Registry) Get(target scroll.Target) (Viewport, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	vp, ok := r.viewports[target]
	return vp, ok
}

// Targets returns the registered targets in registration order.
func (r *Registry) Targets() []scroll.Target {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]scroll.Target(nil), r.order...)
}

// Metrics implements scroll.MetricsProvider.
func (r *Registry) Metrics(target scroll.Target) (scroll.Metrics, bool) {
	vp, ok := r.Get(target)
	if !ok {
		return scroll.Metrics{}, false
	}
	return vp.Metrics()
}

// Scroll implements scroll.Executor. Commands for unknown targets are dropped.
func (r *Registry) Scroll(target scroll.Target, cmd scroll.Command) {
	vp, ok := r.Get(target)
	if !ok {
		mon.Counter("scroll_unknown_target").Inc(1)
		return
	}
	vp.Scroll(cmd)
}
