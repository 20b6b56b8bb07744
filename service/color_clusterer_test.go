package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuantizeColor(t *testing.T) {
	q := quantizeColor(Color{R: 7, G: 22, B: 130}, 15)
	assert.Equal(t, Color{R: 0, G: 15, B: 135}, q)

	// Rounding never leaves the channel range.
	hi := quantizeColor(Color{R: 255, G: 254, B: 248}, 15)
	assert.LessOrEqual(t, hi.R, 255)
	assert.LessOrEqual(t, hi.G, 255)
	assert.LessOrEqual(t, hi.B, 255)
}

func TestClustersRanking(t *testing.T) {
	samples := make([]Color, 0, 10)
	for i := 0; i < 6; i++ {
		samples = append(samples, white)
	}
	for i := 0; i < 3; i++ {
		samples = append(samples, red)
	}
	samples = append(samples, Color{R: 0, G: 255, B: 0})

	clusters := NewColorClusterer().Clusters(samples)
	require.Len(t, clusters, 3)
	assert.Equal(t, 6, clusters[0].Count)
	assert.Equal(t, quantizeColor(white, clusterStep), clusters[0].Color)
	assert.Equal(t, 3, clusters[1].Count)
}

func TestClustersCapsAtTopFive(t *testing.T) {
	samples := []Color{
		{R: 0}, {R: 40}, {R: 80}, {R: 120}, {R: 160}, {R: 200}, {R: 240},
	}
	assert.Len(t, NewColorClusterer().Clusters(samples), 5)
}

func TestMostFrequent(t *testing.T) {
	cc := NewColorClusterer()

	_, ok := cc.MostFrequent(nil)
	assert.False(t, ok)

	frequent, ok := cc.MostFrequent([]Color{red, red, white})
	require.True(t, ok)
	assert.Equal(t, quantizeColor(red, frequentStep), frequent)
}

func TestDominantColors(t *testing.T) {
	img := borderSquareRaster(100, 20, white, red)

	dominant := NewColorClusterer().DominantColors(img, 10)
	require.Len(t, dominant, 2)
	assert.Equal(t, quantizeColor(white, histogramStep), dominant[0].Color)
	assert.InDelta(t, 64.0, dominant[0].Frequency, 1e-9)
	assert.Equal(t, quantizeColor(red, histogramStep), dominant[1].Color)
	assert.InDelta(t, 36.0, dominant[1].Frequency, 1e-9)
}
