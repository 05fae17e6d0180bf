package scroll

import "math"

const (
	// MinPixelsPerImage keeps huge stacks from turning pixel jitter into skips.
	MinPixelsPerImage = 2.0
	// MinImageCount keeps tiny stacks from needing an oversized drag per image.
	MinImageCount = 8
)

// PixelsPerImage returns the drag distance, in canvas pixels, that advances
// one image in a viewport of the given height holding count images.
func PixelsPerImage(height float64, count int) float64 {
	return math.Max(MinPixelsPerImage, height/float64(max(count, MinImageCount)))
}

// imageCount picks the count that applies to the viewport kind.
func imageCount(m Metrics) (int, bool) {
	switch m.Kind {
	case KindVolumeResampled, KindFlatStack:
		if m.ImageCount < 0 {
			return 0, false
		}
		return m.ImageCount, true
	}
	return 0, false
}

// scrollUnit resolves the pixels-per-image for m, or false when m cannot
// produce one.
func scrollUnit(m Metrics) (float64, bool) {
	count, ok := imageCount(m)
	if !ok || m.Height <= 0 || math.IsNaN(m.Height) || math.IsInf(m.Height, 0) {
		return 0, false
	}
	return PixelsPerImage(m.Height, count), true
}

// Step folds deltaY into residual for a viewport whose unit is ppi.
// When the combined distance reaches one unit it returns the image delta to
// emit and the signed leftover; otherwise it banks the whole distance.
func Step(residual, deltaY, ppi float64) (delta int, next float64, emit bool) {
	combined := deltaY + residual
	if math.Abs(combined) < ppi {
		return 0, combined, false
	}
	// math.Mod keeps the sign of combined
	next = math.Mod(combined, ppi)
	delta = int(math.Round(combined / ppi))
	return delta, next, delta != 0
}
