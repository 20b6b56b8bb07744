package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var skinTone = Color{R: 200, G: 140, B: 120}

func TestAnalyzeUniformImage(t *testing.T) {
	info := NewComplexityAnalyzer(NewCodec()).Analyze(uniformRaster(40, 40, grey))

	assert.Equal(t, "simple", info.Level)
	assert.Zero(t, info.EdgeDensity)
	assert.InDelta(t, 0.0, info.ColorVariance, 1e-9)
	assert.False(t, info.IsPortrait)
}

func TestAnalyzePortraitWinsOverSimple(t *testing.T) {
	// A flat skin-toned image has zero edge density and variance, but the
	// portrait label takes precedence.
	info := NewComplexityAnalyzer(NewCodec()).Analyze(uniformRaster(40, 40, skinTone))

	assert.Equal(t, "portrait", info.Level)
	assert.True(t, info.IsPortrait)
}
