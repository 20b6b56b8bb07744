package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreBackgroundCandidate(t *testing.T) {
	img := borderSquareRaster(100, 20, white, red)
	bs := NewBackgroundScorer()

	// White owns the perimeter and corners and is absent from the center,
	// and also earns the light-color bonus: every term maxes out.
	assert.InDelta(t, 1.0, bs.Score(img, white, 40), 1e-9)

	// Red is the subject: no edge or corner presence, fully present in the
	// center, no bonus.
	assert.Zero(t, bs.Score(img, red, 40))
}

func TestScoreNeutralBonus(t *testing.T) {
	img := uniformRaster(50, 50, grey)
	bs := NewBackgroundScorer()

	// Uniform grey matches everywhere: edge and corner terms max out, the
	// center term contributes nothing, and the neutral bonus applies.
	assert.InDelta(t, 0.75, bs.Score(img, grey, 40), 1e-9)
}

func TestScoreTerms(t *testing.T) {
	img := borderSquareRaster(100, 20, white, red)
	bs := NewBackgroundScorer()

	assert.InDelta(t, 1.0, bs.edgePresence(img, white, 40), 1e-9)
	assert.InDelta(t, 1.0, bs.cornerConcentration(img, white, 40), 1e-9)
	assert.Zero(t, bs.centerPresence(img, white, 40))
	assert.InDelta(t, 1.0, bs.centerPresence(img, red, 40), 1e-9)
}
