package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComposeAlphaEqualsMask(t *testing.T) {
	img := borderSquareRaster(20, 5, white, red)

	mask := NewMask(20, 20)
	for i := range mask.Data {
		mask.Data[i] = byte(i % 256)
	}

	rgba, err := NewCompositor().Compose(img, mask)
	require.NoError(t, err)
	require.Equal(t, 4, rgba.Channels)
	require.NoError(t, rgba.Validate())

	for i := range mask.Data {
		assert.Equal(t, mask.Data[i], rgba.Pix[i*4+3], "alpha at pixel %d", i)
		assert.Equal(t, img.Pix[i*3], rgba.Pix[i*4], "red at pixel %d", i)
		assert.Equal(t, img.Pix[i*3+1], rgba.Pix[i*4+1], "green at pixel %d", i)
		assert.Equal(t, img.Pix[i*3+2], rgba.Pix[i*4+2], "blue at pixel %d", i)
	}
}

func TestComposeRGBASource(t *testing.T) {
	img := NewRasterImage(3, 3, 4)
	for i := range img.Pix {
		img.Pix[i] = byte(i)
	}

	mask := NewMask(3, 3)
	mask.Set(1, 1, 0)

	rgba, err := NewCompositor().Compose(img, mask)
	require.NoError(t, err)
	// Source alpha is replaced by the mask.
	assert.Equal(t, byte(0), rgba.Pix[(1*3+1)*4+3])
	assert.Equal(t, byte(255), rgba.Pix[3])
}

func TestComposeDimensionMismatch(t *testing.T) {
	img := uniformRaster(4, 4, white)
	_, err := NewCompositor().Compose(img, NewMask(5, 4))
	assert.Error(t, err)
}
