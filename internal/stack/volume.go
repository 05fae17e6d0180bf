package stack

import (
	"context"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Orientation is one of the three acquisition-aligned reslice planes.
type Orientation int

const (
	Axial Orientation = iota
	Coronal
	Sagittal
)

func (o Orientation) String() string {
	switch o {
	case Axial:
		return "axial"
	case Coronal:
		return "coronal"
	case Sagittal:
		return "sagittal"
	}
	return "unknown"
}

// Volume is an 8-bit gray voxel grid built from equally sized slices.
// Voxels are stored x fastest, then y, then z.
type Volume struct {
	Width, Height, Depth int
	// Spacing is the voxel size in mm along x, y and z.
	Spacing [3]float64
	Voxels  []uint8
}

// NewVolume allocates an empty volume.
func NewVolume(width, height, depth int, spacing [3]float64) *Volume {
	return &Volume{
		Width:   width,
		Height:  height,
		Depth:   depth,
		Spacing: spacing,
		Voxels:  make([]uint8, width*height*depth),
	}
}

// Dimensions returns the voxel counts along x, y and z.
func (v *Volume) Dimensions() [3]int {
	return [3]int{v.Width, v.Height, v.Depth}
}

func (v *Volume) At(x, y, z int) uint8 {
	return v.Voxels[(z*v.Height+y)*v.Width+x]
}

func (v *Volume) Set(x, y, z int, val uint8) {
	v.Voxels[(z*v.Height+y)*v.Width+x] = val
}

// SliceCount returns how many planes the volume holds for o.
func (v *Volume) SliceCount(o Orientation) int {
	switch o {
	case Coronal:
		return v.Height
	case Sagittal:
		return v.Width
	}
	return v.Depth
}

// Reslice extracts plane index of orientation o with nearest-neighbour
// sampling. Index is clamped into range.
func (v *Volume) Reslice(o Orientation, index int) *image.Gray {
	index = max(0, min(index, v.SliceCount(o)-1))

	var img *image.Gray
	switch o {
	case Coronal:
		img = image.NewGray(image.Rect(0, 0, v.Width, v.Depth))
		for z := 0; z < v.Depth; z++ {
			for x := 0; x < v.Width; x++ {
				img.Pix[z*img.Stride+x] = v.At(x, index, z)
			}
		}
	case Sagittal:
		img = image.NewGray(image.Rect(0, 0, v.Height, v.Depth))
		for z := 0; z < v.Depth; z++ {
			for y := 0; y < v.Height; y++ {
				img.Pix[z*img.Stride+y] = v.At(index, y, z)
			}
		}
	default:
		img = image.NewGray(image.Rect(0, 0, v.Width, v.Height))
		off := index * v.Width * v.Height
		copy(img.Pix, v.Voxels[off:off+v.Width*v.Height])
	}
	return img
}

// LoadVolume decodes the slice images at paths, in order, into a volume.
// All slices must share the first slice's size.
func LoadVolume(ctx context.Context, log *zap.Logger, paths []string, pixelSpacing, sliceSpacing float64) (_ *Volume, err error) {
	defer mon.Task()(&ctx)(&err)

	if len(paths) == 0 {
		return nil, Error.New("no slices")
	}
	if log == nil {
		log = zap.NewNop()
	}

	slices := make([]*image.Gray, len(paths))
	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(runtime.GOMAXPROCS(0))
	for i, path := range paths {
		group.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			img, err := decodeGray(path)
			if err != nil {
				return err
			}
			slices[i] = img
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, Error.Wrap(err)
	}

	bounds := slices[0].Bounds()
	vol := NewVolume(bounds.Dx(), bounds.Dy(), len(slices), [3]float64{pixelSpacing, pixelSpacing, sliceSpacing})
	plane := vol.Width * vol.Height
	for z, s := range slices {
		if s.Bounds().Dx() != vol.Width || s.Bounds().Dy() != vol.Height {
			return nil, Error.New("slice %s is %dx%d, want %dx%d",
				paths[z], s.Bounds().Dx(), s.Bounds().Dy(), vol.Width, vol.Height)
		}
		copy(vol.Voxels[z*plane:(z+1)*plane], s.Pix)
	}

	log.Info("volume loaded",
		zap.Int("width", vol.Width),
		zap.Int("height", vol.Height),
		zap.Int("depth", vol.Depth))
	return vol, nil
}

func decodeGray(path string) (*image.Gray, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	src, _, err := image.Decode(f)
	if err != nil {
		return nil, Error.New("decode %s: %w", path, err)
	}
	return ToGray(src), nil
}

// ToGray converts src to a tightly packed gray image with origin at zero.
func ToGray(src image.Image) *image.Gray {
	b := src.Bounds()
	dst := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			dst.Pix[y*dst.Stride+x] = color.GrayModel.Convert(src.At(b.Min.X+x, b.Min.Y+y)).(color.Gray).Y
		}
	}
	return dst
}
