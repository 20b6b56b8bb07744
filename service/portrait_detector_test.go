package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsSkin(t *testing.T) {
	assert.True(t, isSkin(skinTone))
	assert.False(t, isSkin(grey))  // Cb sits just above the box
	assert.False(t, isSkin(white)) // Cr and Cb both land at 128
	assert.False(t, isSkin(Color{R: 20, G: 80, B: 200}))
}

func TestSkinRatio(t *testing.T) {
	pd := NewPortraitDetector()

	img := uniformRaster(20, 20, grey)
	assert.Zero(t, pd.SkinRatio(img))

	// A skin block covering a quarter of the frame.
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			img.SetColor(x, y, skinTone)
		}
	}
	assert.InDelta(t, 0.25, pd.SkinRatio(img), 1e-9)

	assert.True(t, pd.IsPortrait(uniformRaster(5, 5, skinTone)))
	assert.False(t, pd.IsPortrait(uniformRaster(5, 5, white)))
}
