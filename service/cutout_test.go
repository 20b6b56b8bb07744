package service

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GMBuzatto/CutOut/config"
)

func writeTestPNG(t *testing.T, img *RasterImage) string {
	t.Helper()
	data, err := NewCodec().EncodePNG(img)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "input.png")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestProcessImageCascade(t *testing.T) {
	cfg := config.New()
	s := NewCutoutService(cfg)

	path := writeTestPNG(t, borderSquareRaster(100, 20, white, red))

	result, err := s.ProcessImage(path, "abc123", MethodCascade)
	require.NoError(t, err)

	assert.Equal(t, "abc123", result.MD5)
	assert.Equal(t, 100, result.Width)
	assert.Equal(t, 100, result.Height)
	assert.Equal(t, "advanced_detection", result.Method)
	assert.InDelta(t, 64.0, result.Removed, 1e-9)
	assert.InDelta(t, 0.36, result.Confidence, 1e-9)
	assert.NotEmpty(t, result.Palette)

	// The payload decodes back to a transparent-background PNG.
	data, err := base64.StdEncoding.DecodeString(result.Image)
	require.NoError(t, err)
	assert.Equal(t, "\x89PNG", string(data[:4]))
}

func TestProcessImageMultilayer(t *testing.T) {
	cfg := config.New()
	s := NewCutoutService(cfg)

	path := writeTestPNG(t, borderSquareRaster(64, 16, white, red))

	result, err := s.ProcessImage(path, "def456", MethodMultilayer)
	require.NoError(t, err)
	assert.Equal(t, MethodMultilayer, result.Method)
	assert.Contains(t, result.Detail, "passes=")
	assert.NotEmpty(t, result.Image)
}

func TestProcessImageMissingFile(t *testing.T) {
	s := NewCutoutService(config.New())
	_, err := s.ProcessImage(filepath.Join(t.TempDir(), "missing.png"), "x", MethodCascade)
	assert.Error(t, err)
}
