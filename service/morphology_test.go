package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOpenRemovesSpeckle(t *testing.T) {
	m := NewMask(9, 9)
	for i := range m.Data {
		m.Data[i] = 0
	}
	m.Set(4, 4, 255)

	out := NewMorphologyEngine().Open(m)
	for y := 0; y < 9; y++ {
		for x := 0; x < 9; x++ {
			assert.Equal(t, byte(0), out.At(x, y))
		}
	}
}

func TestCloseFillsPinhole(t *testing.T) {
	m := NewMask(9, 9)
	m.Set(4, 4, 0)

	out := NewMorphologyEngine().Close(m)
	for y := 0; y < 9; y++ {
		for x := 0; x < 9; x++ {
			assert.Equal(t, byte(255), out.At(x, y))
		}
	}
}

func TestErodeShrinksForeground(t *testing.T) {
	m := NewMask(7, 7)
	for i := range m.Data {
		m.Data[i] = 0
	}
	for y := 2; y <= 4; y++ {
		for x := 2; x <= 4; x++ {
			m.Set(x, y, 255)
		}
	}

	out := NewMorphologyEngine().Erode(m)
	assert.Equal(t, byte(255), out.At(3, 3))
	assert.Equal(t, byte(0), out.At(2, 2))
	assert.Equal(t, byte(0), out.At(4, 3))
}

func TestDilateGrowsForeground(t *testing.T) {
	m := NewMask(7, 7)
	for i := range m.Data {
		m.Data[i] = 0
	}
	m.Set(3, 3, 255)

	out := NewMorphologyEngine().Dilate(m)
	for y := 2; y <= 4; y++ {
		for x := 2; x <= 4; x++ {
			assert.Equal(t, byte(255), out.At(x, y))
		}
	}
	assert.Equal(t, byte(0), out.At(1, 3))
}

func TestMorphologyBorderCopiedThrough(t *testing.T) {
	m := NewMask(5, 5)
	m.Set(1, 1, 0)

	out := NewMorphologyEngine().Erode(m)
	// The interior neighbor erodes, the border row does not.
	assert.Equal(t, byte(255), out.At(0, 0))
	assert.Equal(t, byte(255), out.At(1, 0))
	assert.Equal(t, byte(0), out.At(2, 2))
}
