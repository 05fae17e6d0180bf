package player

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/gen2brain/go-mpv"
	"github.com/zeebo/errs"
	"go.uber.org/zap"

	"github.com/depeter/stackscroll/internal/config"
)

// Error is the error class for mpv failures.
var Error = errs.Class("player")

// Cine plays a video paused in its own mpv window and exposes its frames as
// a stack that can be stepped by index.
type Cine struct {
	log *zap.Logger
	m   *mpv.Mpv

	mu       sync.Mutex
	loaded   bool
	duration float64
	fps      float64
	position float64
	closed   bool
}

// Open creates an mpv instance and loads path paused on its first frame.
func Open(log *zap.Logger, cfg config.CineConfig, path string) (*Cine, error) {
	if log == nil {
		log = zap.NewNop()
	}
	m := mpv.New()

	c := &Cine{log: log, m: m}

	c.option("hwdec", cfg.HWDec)
	c.option("vo", "gpu")
	c.option("force-window", "yes")
	c.option("keep-open", "always")
	c.option("pause", "yes")
	c.option("hr-seek", "yes")
	c.option("osd-level", "0")
	c.option("audio", "no")
	c.option("title", "stackscroll cine")

	if err := m.Initialize(); err != nil {
		m.TerminateDestroy()
		return nil, Error.New("mpv init: %w", err)
	}

	// Observe properties for frame tracking
	m.ObserveProperty(0, "time-pos", mpv.FormatDouble)
	m.ObserveProperty(0, "duration", mpv.FormatDouble)
	m.ObserveProperty(0, "container-fps", mpv.FormatDouble)

	go c.eventLoop()

	if err := m.Command([]string{"loadfile", path}); err != nil {
		c.Close()
		return nil, Error.New("load %s: %w", path, err)
	}
	return c, nil
}

func (c *Cine) option(name, value string) {
	if value == "" {
		return
	}
	if err := c.m.SetOptionString(name, value); err != nil {
		c.log.Warn("mpv option", zap.String("name", name), zap.String("value", value), zap.Error(err))
	}
}

// FrameCount returns the number of frames, or 0 until the file is loaded.
func (c *Cine) FrameCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.loaded {
		return 0
	}
	return frameCount(c.duration, c.fps)
}

// CurrentFrame returns the index of the frame on screen.
func (c *Cine) CurrentFrame() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return frameAt(c.position, c.fps)
}

// SeekFrame shows frame exactly.
func (c *Cine) SeekFrame(frame int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return Error.New("closed")
	}
	t := frameTime(frame, c.fps)
	c.position = t
	return Error.Wrap(c.m.Command([]string{"seek", fmt.Sprintf("%.6f", t), "absolute+exact"}))
}

// Close shuts mpv down.
func (c *Cine) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.m.TerminateDestroy()
}

func (c *Cine) eventLoop() {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	for {
		ev := c.m.WaitEvent(1.0)
		if ev == nil {
			continue
		}

		switch ev.EventID {
		case mpv.EventPropertyChange:
			if ev.Data == nil {
				continue
			}
			prop := ev.Property()
			v, ok := prop.Data.(float64)
			if !ok {
				continue
			}
			c.mu.Lock()
			switch prop.Name {
			case "time-pos":
				c.position = v
			case "duration":
				c.duration = v
			case "container-fps":
				c.fps = v
			}
			c.loaded = c.duration > 0 && c.fps > 0
			c.mu.Unlock()

		case mpv.EventEnd:
			c.mu.Lock()
			c.loaded = false
			c.mu.Unlock()
			c.log.Info("cine file ended")

		case mpv.EventShutdown:
			return
		}
	}
}
