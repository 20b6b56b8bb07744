package service

import (
	"context"
	"math"

	"golang.org/x/sync/errgroup"
)

// EdgeAnalyzer builds a gradient-magnitude map from a blurred,
// contrast-normalized greyscale derivative of the source. The codec supplies
// those primitives; this component owns the kernel and its interpretation.
type EdgeAnalyzer struct {
	codec *Codec
}

func NewEdgeAnalyzer(codec *Codec) *EdgeAnalyzer {
	return &EdgeAnalyzer{codec: codec}
}

const (
	edgeLowThreshold   = 40   // below this a pixel can lean background
	edgeQuietThreshold = 25   // neighborhood quietness level
	edgeQuietFraction  = 0.70 // share of 5x5 neighbors that must be quiet
	edgeBorderFraction = 0.3  // border band (fraction of min side)
	edgeBlurSigma      = 1.0
)

// vertical-emphasis 3x3 kernel (horizontal edges respond strongest)
var gradientKernel = [3][3]int{
	{-1, -2, -1},
	{0, 0, 0},
	{1, 2, 1},
}

// GradientMap returns one gradient-magnitude byte per pixel. Border
// rows/columns have no full 3x3 support and are left at zero.
func (ea *EdgeAnalyzer) GradientMap(img *RasterImage) []byte {
	grey := ea.codec.Greyscale(img)
	blurred := ea.codec.BlurGreyscale(grey, img.Width, img.Height, edgeBlurSigma)
	norm := ea.codec.NormalizeContrast(blurred)

	return convolveRows(norm, img.Width, img.Height, func(x, y int, plane []byte, w int) byte {
		sum := 0
		for ky := -1; ky <= 1; ky++ {
			for kx := -1; kx <= 1; kx++ {
				sum += gradientKernel[ky+1][kx+1] * int(plane[(y+ky)*w+(x+kx)])
			}
		}
		if sum < 0 {
			sum = -sum
		}
		return byte(clampChannel(sum))
	})
}

// SobelMagnitude applies the full horizontal+vertical kernel pair to an
// arbitrary greyscale plane. Used by the multi-layer synthesizer.
func (ea *EdgeAnalyzer) SobelMagnitude(grey []byte, width, height int) []byte {
	return convolveRows(grey, width, height, func(x, y int, plane []byte, w int) byte {
		gx, gy := 0, 0
		for ky := -1; ky <= 1; ky++ {
			for kx := -1; kx <= 1; kx++ {
				v := int(plane[(y+ky)*w+(x+kx)])
				gy += gradientKernel[ky+1][kx+1] * v
				gx += gradientKernel[kx+1][ky+1] * v // transposed pair
			}
		}
		mag := math.Sqrt(float64(gx*gx + gy*gy))
		return byte(clampChannel(int(mag)))
	})
}

// convolveRows evaluates a 3x3 stencil over interior pixels, parallelized
// across row bands. Each output pixel depends only on the read-only input.
func convolveRows(plane []byte, width, height int, stencil func(x, y int, plane []byte, w int) byte) []byte {
	out := make([]byte, width*height)
	if width < 3 || height < 3 {
		return out
	}

	g, _ := errgroup.WithContext(context.Background())
	g.SetLimit(8)

	const band = 64
	for y0 := 1; y0 < height-1; y0 += band {
		y0 := y0
		y1 := min(y0+band, height-1)
		g.Go(func() error {
			for y := y0; y < y1; y++ {
				for x := 1; x < width-1; x++ {
					out[y*width+x] = stencil(x, y, plane, width)
				}
			}
			return nil
		})
	}
	_ = g.Wait() // stencils cannot fail
	return out
}

// IsBackgroundLeaning classifies a pixel of a gradient map: a quiet pixel
// near the border, or one whose 5x5 neighborhood is almost entirely quiet.
func (ea *EdgeAnalyzer) IsBackgroundLeaning(edges []byte, x, y, width, height int) bool {
	if edges[y*width+x] >= edgeLowThreshold {
		return false
	}

	band := edgeBorderFraction * float64(min(width, height))
	if float64(borderDistance(x, y, width, height)) <= band {
		return true
	}

	quiet, total := 0, 0
	for dy := -2; dy <= 2; dy++ {
		for dx := -2; dx <= 2; dx++ {
			nx, ny := x+dx, y+dy
			if nx < 0 || nx >= width || ny < 0 || ny >= height {
				continue
			}
			total++
			if edges[ny*width+nx] < edgeQuietThreshold {
				quiet++
			}
		}
	}
	return total > 0 && float64(quiet)/float64(total) >= edgeQuietFraction
}

// BuildMask removes every background-leaning pixel. No protected zone here:
// the validator downstream is the guard against over-removal.
func (ea *EdgeAnalyzer) BuildMask(img *RasterImage) *Mask {
	edges := ea.GradientMap(img)
	mask := NewMask(img.Width, img.Height)
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			if ea.IsBackgroundLeaning(edges, x, y, img.Width, img.Height) {
				mask.Set(x, y, 0)
			}
		}
	}
	return mask
}
