package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// splitRaster is white on top, black below the given row.
func splitRaster(size, split int) *RasterImage {
	img := uniformRaster(size, size, white)
	for y := split; y < size; y++ {
		for x := 0; x < size; x++ {
			img.SetColor(x, y, Color{})
		}
	}
	return img
}

func TestGradientMapUniform(t *testing.T) {
	img := uniformRaster(20, 20, grey)
	edges := NewEdgeAnalyzer(NewCodec()).GradientMap(img)
	for _, v := range edges {
		assert.Equal(t, byte(0), v)
	}
}

func TestGradientMapRespondsToHorizontalBoundary(t *testing.T) {
	img := splitRaster(40, 20)
	edges := NewEdgeAnalyzer(NewCodec()).GradientMap(img)

	// Strong response on the boundary row, silence deep inside each band.
	require.GreaterOrEqual(t, edges[20*40+20], byte(40))
	assert.Less(t, edges[5*40+20], byte(25))
	assert.Less(t, edges[35*40+20], byte(25))
}

func TestIsBackgroundLeaning(t *testing.T) {
	ea := NewEdgeAnalyzer(NewCodec())
	width, height := 40, 40
	edges := make([]byte, width*height)

	// Quiet pixel inside the border band.
	assert.True(t, ea.IsBackgroundLeaning(edges, 1, 1, width, height))

	// Quiet pixel in a quiet central neighborhood.
	assert.True(t, ea.IsBackgroundLeaning(edges, 20, 20, width, height))

	// A loud pixel never leans background.
	edges[20*width+20] = 50
	assert.False(t, ea.IsBackgroundLeaning(edges, 20, 20, width, height))

	// A quiet pixel in a noisy central neighborhood stays.
	edges[20*width+20] = 0
	for dx := -2; dx <= 2; dx++ {
		edges[18*width+(20+dx)] = 30
		edges[22*width+(20+dx)] = 30
	}
	assert.False(t, ea.IsBackgroundLeaning(edges, 20, 20, width, height))
}

func TestBuildMaskRemovesQuietRegions(t *testing.T) {
	img := uniformRaster(30, 30, grey)
	mask := NewEdgeAnalyzer(NewCodec()).BuildMask(img)

	// A flat image is entirely quiet.
	for _, v := range mask.Data {
		require.Equal(t, byte(0), v)
	}
}
