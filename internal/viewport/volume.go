package viewport

import (
	"image"
	"math"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/depeter/stackscroll/internal/scroll"
	"github.com/depeter/stackscroll/internal/stack"
)

const volumeTargetPrefix = "volumeId:"

type vec3 [3]float64

func (a vec3) dot(b vec3) float64 { return a[0]*b[0] + a[1]*b[1] + a[2]*b[2] }
func (a vec3) add(b vec3) vec3     { return vec3{a[0] + b[0], a[1] + b[1], a[2] + b[2]} }
func (a vec3) scale(s float64) vec3 {
	return vec3{a[0] * s, a[1] * s, a[2] * s}
}
func (a vec3) length() float64 { return math.Sqrt(a.dot(a)) }

// Camera places the view plane inside world space.
type Camera struct {
	FocalPoint      [3]float64
	ViewPlaneNormal [3]float64
}

// Geometry positions a voxel grid in world space.
type Geometry struct {
	Dimensions [3]int
	Spacing    [3]float64
	Origin     [3]float64
	// Direction holds the unit i, j and k axes of the grid.
	Direction [3][3]float64
}

// SliceData is where the camera sits among the planes a volume offers along
// the camera normal.
type SliceData struct {
	NumberOfSlices int
	ImageIndex     int
	Spacing        float64
	Min, Max       float64
	Current        float64
}

// spacingAlongNormal projects the voxel spacing onto normal.
func (g Geometry) spacingAlongNormal(normal vec3) float64 {
	var projected vec3
	for axis := 0; axis < 3; axis++ {
		projected[axis] = math.Abs(vec3(g.Direction[axis]).dot(normal)) * g.Spacing[axis]
	}
	return projected.length()
}

// sliceRange returns the extent of the voxel centres along normal.
func (g Geometry) sliceRange(normal vec3) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for corner := 0; corner < 8; corner++ {
		p := vec3(g.Origin)
		for axis := 0; axis < 3; axis++ {
			if corner&(1<<axis) == 0 {
				continue
			}
			extent := float64(g.Dimensions[axis]-1) * g.Spacing[axis]
			p = p.add(vec3(g.Direction[axis]).scale(extent))
		}
		d := p.dot(normal)
		lo = math.Min(lo, d)
		hi = math.Max(hi, d)
	}
	return lo, hi
}

// Slices computes the slice data of g seen by cam.
func (g Geometry) Slices(cam Camera) (SliceData, bool) {
	normal := vec3(cam.ViewPlaneNormal)
	n := normal.length()
	if n == 0 || math.IsNaN(n) {
		return SliceData{}, false
	}
	normal = normal.scale(1 / n)
	spacing := g.spacingAlongNormal(normal)
	if spacing <= 0 {
		return SliceData{}, false
	}
	lo, hi := g.sliceRange(normal)
	current := vec3(cam.FocalPoint).dot(normal)
	return SliceData{
		NumberOfSlices: int(math.Round((hi-lo)/spacing)) + 1,
		ImageIndex:     int(math.Round((current - lo) / spacing)),
		Spacing:        spacing,
		Min:            lo,
		Max:            hi,
		Current:        current,
	}, true
}

// GeometryOf returns an axis-aligned geometry for vol with its origin at zero.
func GeometryOf(vol *stack.Volume) Geometry {
	return Geometry{
		Dimensions: vol.Dimensions(),
		Spacing:    vol.Spacing,
		Direction:  [3][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}},
	}
}

// normalFor returns the camera normal that looks through o.
func normalFor(o stack.Orientation) [3]float64 {
	switch o {
	case stack.Sagittal:
		return [3]float64{1, 0, 0}
	case stack.Coronal:
		return [3]float64{0, 1, 0}
	}
	return [3]float64{0, 0, 1}
}

// VolumeViewport shows planes resampled out of a volume along its camera normal.
type VolumeViewport struct {
	log         *zap.Logger
	id          string
	targetID    string
	vol         *stack.Volume
	geom        Geometry
	orientation stack.Orientation

	mu     sync.RWMutex
	camera Camera
	height float64
}

// NewVolumeViewport creates a viewport looking through vol along o, with the
// camera on the middle plane.
func NewVolumeViewport(log *zap.Logger, id, volumeID string, vol *stack.Volume, o stack.Orientation) *VolumeViewport {
	if log == nil {
		log = zap.NewNop()
	}
	v := &VolumeViewport{
		log:         log.With(zap.String("viewport", id)),
		id:          id,
		targetID:    volumeTargetPrefix + volumeID,
		vol:         vol,
		geom:        GeometryOf(vol),
		orientation: o,
	}
	v.camera.ViewPlaneNormal = normalFor(o)
	if sd, ok := v.geom.Slices(v.camera); ok {
		mid := sd.Min + float64(sd.NumberOfSlices/2)*sd.Spacing
		v.camera.FocalPoint = vec3(v.camera.ViewPlaneNormal).scale(mid)
	}
	return v
}

func (v *VolumeViewport) ID() string { return v.id }

// TargetID names the data the viewport renders, as volumeId:<id>.
func (v *VolumeViewport) TargetID() string { return v.targetID }

// VolumeID parses the volume id back out of the target id.
func (v *VolumeViewport) VolumeID() string {
	_, id, _ := strings.Cut(v.targetID, volumeTargetPrefix)
	return id
}

func (v *VolumeViewport) Orientation() stack.Orientation { return v.orientation }

func (v *VolumeViewport) SetHeight(h float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.height = h
}

func (v *VolumeViewport) Camera() Camera {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.camera
}

func (v *VolumeViewport) SliceData() (SliceData, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.geom.Slices(v.camera)
}

func (v *VolumeViewport) Position() (index, count int) {
	sd, ok := v.SliceData()
	if !ok {
		return 0, 0
	}
	return sd.ImageIndex, sd.NumberOfSlices
}

func (v *VolumeViewport) Metrics() (scroll.Metrics, bool) {
	v.mu.RLock()
	height := v.height
	sd, ok := v.geom.Slices(v.camera)
	v.mu.RUnlock()
	if !ok || height <= 0 {
		return scroll.Metrics{}, false
	}
	return scroll.Metrics{
		Kind:       scroll.KindVolumeResampled,
		Height:     height,
		ImageCount: sd.NumberOfSlices,
		VolumeID:   v.VolumeID(),
	}, true
}

// Scroll moves the focal point cmd.Delta planes along the normal, staying
// inside the volume. Commands addressed to another volume are ignored.
func (v *VolumeViewport) Scroll(cmd scroll.Command) {
	if cmd.VolumeID != "" && cmd.VolumeID != v.VolumeID() {
		v.log.Debug("ignoring scroll for another volume", zap.String("volume", cmd.VolumeID))
		return
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	sd, ok := v.geom.Slices(v.camera)
	if !ok {
		return
	}
	next := sd.Current + float64(cmd.Delta)*sd.Spacing
	next = math.Max(sd.Min, math.Min(next, sd.Max))

	normal := vec3(v.camera.ViewPlaneNormal)
	normal = normal.scale(1 / normal.length())
	v.camera.FocalPoint = vec3(v.camera.FocalPoint).add(normal.scale(next - sd.Current))
}

// Image renders the plane the camera currently sits on.
func (v *VolumeViewport) Image() *image.Gray {
	index, _ := v.Position()
	return v.vol.Reslice(v.orientation, index)
}
