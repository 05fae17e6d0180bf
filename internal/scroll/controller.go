package scroll

import (
	"math"

	"github.com/spacemonkeygo/monkit/v3"
	"go.uber.org/zap"
)

var mon = monkit.Package()

// DefaultSeed is the residual a fresh controller starts from.
const DefaultSeed = 1.0

// Options tune a Controller.
type Options struct {
	// Seed is the initial residual offset in canvas pixels.
	Seed float64
	// Invert flips the drag direction.
	Invert bool
	// DebounceIfNotLoaded is copied into every emitted command.
	DebounceIfNotLoaded bool
}

// DefaultOptions returns the stock controller options.
func DefaultOptions() Options {
	return Options{
		Seed:                DefaultSeed,
		DebounceIfNotLoaded: true,
	}
}

// Controller turns a serialized stream of drag events into whole-image
// scroll commands. It keeps the unconsumed drag distance between events so
// slow drags still step and fast drags skip several images at once.
//
// A Controller is not safe for concurrent use; one gesture source drives it.
type Controller struct {
	log      *zap.Logger
	metrics  MetricsProvider
	executor Executor
	opts     Options

	residual float64
}

// NewController creates a controller that resolves viewports through metrics
// and hands commands to executor.
func NewController(log *zap.Logger, metrics MetricsProvider, executor Executor, opts Options) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	if math.IsNaN(opts.Seed) || math.IsInf(opts.Seed, 0) {
		log.Warn("non-finite seed, using default", zap.Float64("seed", opts.Seed))
		opts.Seed = DefaultSeed
	}
	return &Controller{
		log:      log,
		metrics:  metrics,
		executor: executor,
		opts:     opts,
		residual: opts.Seed,
	}
}

// Residual returns the drag distance banked for the next event.
func (c *Controller) Residual() float64 { return c.residual }

// ScrollUnit returns the pixels-per-image for target, or false when the
// viewport cannot report enough metrics yet.
func (c *Controller) ScrollUnit(target Target) (float64, bool) {
	m, ok := c.metrics.Metrics(target)
	if !ok {
		return 0, false
	}
	return scrollUnit(m)
}

// OnDrag handles one drag event from either the mouse or the touch adapter.
// It emits at most one command and reports it.
func (c *Controller) OnDrag(ev DragEvent) (Command, bool) {
	mon.Counter("drag_events").Inc(1)

	m, ok := c.metrics.Metrics(ev.Target)
	if !ok {
		mon.Counter("drag_metrics_unavailable").Inc(1)
		return Command{}, false
	}
	ppi, ok := scrollUnit(m)
	if !ok {
		mon.Counter("drag_metrics_unavailable").Inc(1)
		c.log.Debug("no scroll unit", zap.String("viewport", ev.Target.ViewportID), zap.Stringer("kind", m.Kind))
		return Command{}, false
	}

	dy := ev.DeltaCanvasY
	if c.opts.Invert {
		dy = -dy
	}

	delta, next, emit := Step(c.residual, dy, ppi)
	c.residual = next
	if !emit {
		return Command{}, false
	}

	cmd := Command{
		Delta:           delta,
		DebounceLoading: c.opts.DebounceIfNotLoaded,
	}
	if m.Kind == KindVolumeResampled {
		cmd.VolumeID = m.VolumeID
	}

	mon.Counter("scroll_commands").Inc(1)
	mon.IntVal("scroll_delta").Observe(int64(delta))
	c.log.Debug("scroll",
		zap.String("viewport", ev.Target.ViewportID),
		zap.Stringer("source", ev.Source),
		zap.Int("delta", delta),
		zap.Float64("pixels_per_image", ppi),
		zap.Float64("residual", next))

	c.executor.Scroll(ev.Target, cmd)
	return cmd, true
}
