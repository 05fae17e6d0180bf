package icon

import (
	"image"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	icons := Generate()
	require.Len(t, icons, 2)
	require.Equal(t, image.Rect(0, 0, 64, 64), icons[0].Bounds())
	require.Equal(t, image.Rect(0, 0, 32, 32), icons[1].Bounds())

	rgba := icons[0].(*image.RGBA)
	require.Equal(t, darkBG, rgba.RGBAAt(0, 0))
	// the arrow shaft runs down the right edge
	require.Equal(t, accentBlue, rgba.RGBAAt(int(64*0.84), 32))
}
