package scroll

// Source identifies the input modality that produced a drag.
type Source int

const (
	SourceMouse Source = iota
	SourceTouch
)

func (s Source) String() string {
	switch s {
	case SourceMouse:
		return "mouse"
	case SourceTouch:
		return "touch"
	}
	return "unknown"
}

// Target names the viewport a drag happened on.
type Target struct {
	ViewportID        string
	RenderingEngineID string
}

// DragEvent is an incremental canvas-space displacement since the last event.
type DragEvent struct {
	DeltaCanvasX float64
	DeltaCanvasY float64
	Target       Target
	Source       Source
}

// Command asks the executor to move a viewport by Delta images.
// VolumeID is empty unless the target is a volume-resampled view.
type Command struct {
	Delta           int
	VolumeID        string
	DebounceLoading bool
}

// Kind tells the controller how a viewport counts its images.
type Kind int

const (
	KindOther Kind = iota
	KindFlatStack
	KindVolumeResampled
)

func (k Kind) String() string {
	switch k {
	case KindFlatStack:
		return "stack"
	case KindVolumeResampled:
		return "volume"
	}
	return "other"
}

// Metrics is what a MetricsProvider knows about a viewport at one instant.
// ImageCount is the loaded image count for flat stacks and the slice count
// along the through-plane axis for volumes.
type Metrics struct {
	Kind       Kind
	Height     float64
	ImageCount int
	VolumeID   string
}

// MetricsProvider resolves a target to its current metrics. ok is false when
// the viewport is unknown or not ready yet.
type MetricsProvider interface {
	Metrics(target Target) (m Metrics, ok bool)
}

// Executor performs the actual navigation for a command.
type Executor interface {
	Scroll(target Target, cmd Command)
}

// ExecutorFunc adapts a function to Executor.
type ExecutorFunc func(target Target, cmd Command)

func (f ExecutorFunc) Scroll(target Target, cmd Command) { f(target, cmd) }
