package service

import (
	"testing"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func relativeLuminance(hex string) float64 {
	c, err := colorful.Hex(hex)
	if err != nil {
		return -1
	}
	r, g, b := c.LinearRgb()
	return 0.2126*r + 0.7152*g + 0.0722*b
}

func TestExtractDominantPalette(t *testing.T) {
	img := NewCodec().ToImage(borderSquareRaster(64, 16, white, red))

	palette := NewPaletteExtractor("dominant", 4).Extract(img)
	require.NotEmpty(t, palette)
	assert.LessOrEqual(t, len(palette), 4)

	for _, hex := range palette {
		assert.Regexp(t, `^#[0-9a-f]{6}$`, hex)
	}

	// Darkest to brightest ordering.
	for i := 1; i < len(palette); i++ {
		assert.LessOrEqual(t, relativeLuminance(palette[i-1]), relativeLuminance(palette[i]))
	}
}

func TestExtractKMeansPalette(t *testing.T) {
	img := NewCodec().ToImage(borderSquareRaster(64, 16, white, red))

	palette := NewPaletteExtractor("kmeans", 3).Extract(img)
	require.NotEmpty(t, palette)
	assert.LessOrEqual(t, len(palette), 3)
	for _, hex := range palette {
		assert.Regexp(t, `^#[0-9a-f]{6}$`, hex)
	}
}

func TestPaletteSizeFallback(t *testing.T) {
	pe := NewPaletteExtractor("dominant", 0)
	assert.Equal(t, 5, pe.size)
}
