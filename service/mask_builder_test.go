package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildNeverTouchesProtectedZone(t *testing.T) {
	// Target equals the image color, so every unprotected pixel is removed.
	img := uniformRaster(80, 80, grey)
	mask := NewMaskBuilder().Build(img, grey, 95)

	for y := 0; y < 80; y++ {
		for x := 0; x < 80; x++ {
			if insideProtectedZone(x, y, 80, 80) {
				require.Equal(t, byte(255), mask.At(x, y), "protected pixel (%d,%d)", x, y)
			} else {
				require.Equal(t, byte(0), mask.At(x, y), "unprotected pixel (%d,%d)", x, y)
			}
		}
	}
}

func TestBuildEnhancedNeverTouchesProtectedZone(t *testing.T) {
	img := uniformRaster(80, 80, grey)
	mask := NewMaskBuilder().BuildEnhanced(img, grey, 110)

	for y := 0; y < 80; y++ {
		for x := 0; x < 80; x++ {
			if insideProtectedZone(x, y, 80, 80) {
				require.Equal(t, byte(255), mask.At(x, y))
			}
		}
	}
}

func TestBuildFeatherRamp(t *testing.T) {
	// Equal-channel colors make the distance equal to the channel delta,
	// which keeps the ramp arithmetic readable.
	img := uniformRaster(40, 40, Color{0, 0, 0})
	img.SetColor(1, 1, Color{50, 50, 50})    // d=50  <= 0.6*100
	img.SetColor(3, 1, Color{80, 80, 80})    // d=80  -> ramp
	img.SetColor(5, 1, Color{101, 101, 101}) // d=101 > tolerance

	mask := NewMaskBuilder().Build(img, Color{0, 0, 0}, 100)

	assert.Equal(t, byte(0), mask.At(1, 1))
	// 255 * (80-60)/40 = 127.5, rounded
	assert.Equal(t, byte(128), mask.At(3, 1))
	assert.Equal(t, byte(255), mask.At(5, 1))
}

func TestBuildEnhancedGatesInteriorRamp(t *testing.T) {
	// 200x100: min side 100, edge band 35. (60,50) is outside both the
	// band and the protected ellipse around (100,50).
	img := uniformRaster(200, 100, Color{0, 0, 0})
	img.SetColor(60, 50, Color{80, 80, 80})
	img.SetColor(5, 50, Color{80, 80, 80})

	require.False(t, insideProtectedZone(60, 50, 200, 100))
	require.Greater(t, borderDistance(60, 50, 200, 100), 35)

	plain := NewMaskBuilder().Build(img, Color{0, 0, 0}, 100)
	enhanced := NewMaskBuilder().BuildEnhanced(img, Color{0, 0, 0}, 100)

	// d=80 > 0.7*100: plain feathers everywhere, enhanced only near the border.
	assert.Equal(t, byte(128), plain.At(60, 50))
	assert.Equal(t, byte(255), enhanced.At(60, 50))
	assert.Equal(t, byte(128), enhanced.At(5, 50))
}

func TestProtectedZoneShape(t *testing.T) {
	// Semi-axes are 0.25*min(w,h)=25 around the center (50,50).
	assert.True(t, insideProtectedZone(50, 50, 100, 100))
	assert.True(t, insideProtectedZone(50, 26, 100, 100))
	assert.False(t, insideProtectedZone(50, 24, 100, 100))
	assert.False(t, insideProtectedZone(24, 50, 100, 100))
	assert.False(t, insideProtectedZone(0, 0, 100, 100))
}
