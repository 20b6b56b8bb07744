package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSampleCorners(t *testing.T) {
	img := borderSquareRaster(100, 20, white, red)

	samples := NewPixelSampler().SampleCorners(img)
	require.Len(t, samples, 100) // four 10x10 blocks at stride 2
	for _, s := range samples {
		assert.Equal(t, white, s)
	}
}

func TestSampleDense(t *testing.T) {
	img := borderSquareRaster(100, 20, white, red)
	ps := NewPixelSampler()

	corners := ps.SampleCorners(img)
	dense := ps.SampleDense(img)
	assert.Greater(t, len(dense), len(corners))

	// Every dense block sits inside the 20 pixel frame.
	for _, s := range dense {
		assert.Equal(t, white, s)
	}
}

func TestSampleTinyImage(t *testing.T) {
	img := uniformRaster(6, 6, red)
	ps := NewPixelSampler()

	assert.NotPanics(t, func() {
		corners := ps.SampleCorners(img)
		assert.NotEmpty(t, corners)
		dense := ps.SampleDense(img)
		assert.NotEmpty(t, dense)
	})
}
