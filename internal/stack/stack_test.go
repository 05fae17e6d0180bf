package stack

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func writeSlice(t *testing.T, path string, w, h int, fill func(x, y int) uint8) {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetGray(x, y, color.Gray{Y: fill(x, y)})
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
}

func TestScanDirNaturalOrder(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"slice_10.png", "slice_2.png", "Slice_1.JPG", "notes.txt", "slice_02b.jpeg"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.png"), 0o755))

	paths, err := ScanDir(dir)
	require.NoError(t, err)

	var names []string
	for _, p := range paths {
		names = append(names, filepath.Base(p))
	}
	require.Equal(t, []string{"Slice_1.JPG", "slice_2.png", "slice_02b.jpeg", "slice_10.png"}, names)
}

func TestScanDirMissing(t *testing.T) {
	_, err := ScanDir(filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	require.True(t, Error.Has(err))
}

func TestNaturalLess(t *testing.T) {
	require.True(t, naturalLess("a2", "a10"))
	require.False(t, naturalLess("a10", "a2"))
	require.True(t, naturalLess("a", "ab"))
	require.False(t, naturalLess("a", "a"))
	require.True(t, naturalLess("img007", "img8"))
}

func TestLoadVolumeAndReslice(t *testing.T) {
	dir := t.TempDir()
	const w, h, d = 4, 3, 5
	var paths []string
	for z := 0; z < d; z++ {
		path := filepath.Join(dir, "s"+string(rune('a'+z))+".png")
		writeSlice(t, path, w, h, func(x, y int) uint8 { return uint8(z*50 + y*10 + x) })
		paths = append(paths, path)
	}

	vol, err := LoadVolume(context.Background(), zaptest.NewLogger(t), paths, 0.5, 2)
	require.NoError(t, err)
	require.Equal(t, [3]int{w, h, d}, vol.Dimensions())
	require.Equal(t, [3]float64{0.5, 0.5, 2}, vol.Spacing)
	require.Equal(t, uint8(113), vol.At(3, 1, 2))

	require.Equal(t, d, vol.SliceCount(Axial))
	require.Equal(t, h, vol.SliceCount(Coronal))
	require.Equal(t, w, vol.SliceCount(Sagittal))

	axial := vol.Reslice(Axial, 2)
	require.Equal(t, image.Rect(0, 0, w, h), axial.Bounds())
	require.Equal(t, uint8(113), axial.GrayAt(3, 1).Y)

	coronal := vol.Reslice(Coronal, 1)
	require.Equal(t, image.Rect(0, 0, w, d), coronal.Bounds())
	require.Equal(t, uint8(213), coronal.GrayAt(3, 4).Y)

	sagittal := vol.Reslice(Sagittal, 3)
	require.Equal(t, image.Rect(0, 0, h, d), sagittal.Bounds())
	require.Equal(t, uint8(73), sagittal.GrayAt(2, 1).Y)

	// out of range indexes clamp
	require.Equal(t, vol.Reslice(Axial, d-1).Pix, vol.Reslice(Axial, 99).Pix)
	require.Equal(t, vol.Reslice(Axial, 0).Pix, vol.Reslice(Axial, -4).Pix)
}

func TestLoadVolumeRejectsMixedSizes(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.png")
	b := filepath.Join(dir, "b.png")
	writeSlice(t, a, 4, 4, func(x, y int) uint8 { return 0 })
	writeSlice(t, b, 5, 4, func(x, y int) uint8 { return 0 })

	_, err := LoadVolume(context.Background(), nil, []string{a, b}, 1, 1)
	require.Error(t, err)
	require.True(t, Error.Has(err))
}

func TestLoadVolumeErrors(t *testing.T) {
	_, err := LoadVolume(context.Background(), nil, nil, 1, 1)
	require.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.png")
	require.NoError(t, os.WriteFile(bad, []byte("not an image"), 0o644))
	_, err = LoadVolume(context.Background(), nil, []string{bad}, 1, 1)
	require.Error(t, err)
	require.True(t, Error.Has(err))
	require.ErrorIs(t, err, image.ErrFormat)

	_, err = LoadVolume(context.Background(), nil, []string{filepath.Join(t.TempDir(), "gone.png")}, 1, 1)
	require.ErrorIs(t, err, os.ErrNotExist)
}
