package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGrowTwoColorScene(t *testing.T) {
	img := borderSquareRaster(100, 20, white, red)

	mask, ok := NewRegionGrower().Grow(img, 40)
	require.True(t, ok)
	require.NotNil(t, mask)

	// The fill absorbs exactly the white frame: 100^2 - 60^2 pixels.
	zeros := 0
	for _, v := range mask.Data {
		if v == 0 {
			zeros++
		}
	}
	assert.Equal(t, 6400, zeros)
	assert.Equal(t, byte(0), mask.At(0, 0))
	assert.Equal(t, byte(0), mask.At(99, 99))
	assert.Equal(t, byte(255), mask.At(50, 50))
	assert.Equal(t, byte(255), mask.At(20, 20))

	for y := 0; y < 100; y++ {
		for x := 0; x < 100; x++ {
			if insideProtectedZone(x, y, 100, 100) {
				require.Equal(t, byte(255), mask.At(x, y), "protected pixel removed at (%d,%d)", x, y)
			}
		}
	}
}

func TestGrowUniformImageHitsCap(t *testing.T) {
	img := uniformRaster(50, 50, grey)

	mask, ok := NewRegionGrower().Grow(img, 40)
	assert.False(t, ok)
	assert.Nil(t, mask)
}

func TestIsLikelyBackgroundPixel(t *testing.T) {
	assert.True(t, isLikelyBackgroundPixel(white))
	assert.True(t, isLikelyBackgroundPixel(grey)) // neutral, spread 0
	assert.False(t, isLikelyBackgroundPixel(Color{R: 30, G: 200, B: 40}))
}
