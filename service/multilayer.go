package service

import (
	"context"
	"math"
	"math/rand"

	"golang.org/x/sync/errgroup"
)

// MultiLayerMaskSynthesizer is an independent scorer that combines four
// normalized feature layers into a per-pixel background probability. It
// draws random reference colors from the image, so callers inject the seed
// to keep runs reproducible.
type MultiLayerMaskSynthesizer struct {
	edges *EdgeAnalyzer
	codec *Codec

	// invertDistance flips the color-distance layer so that proximity to
	// the random samples, rather than distance from them, counts toward
	// background. The default preserves the historical polarity.
	invertDistance bool
}

func NewMultiLayerMaskSynthesizer(codec *Codec, invertDistance bool) *MultiLayerMaskSynthesizer {
	return &MultiLayerMaskSynthesizer{
		edges:          NewEdgeAnalyzer(codec),
		codec:          codec,
		invertDistance: invertDistance,
	}
}

const (
	mlRandomSamples  = 1000
	mlWeightDistance = 0.3
	mlWeightGradient = 0.25
	mlWeightVariance = 0.25
	mlWeightCoherent = 0.2
	mlSigmoidSlope   = 5.0
	mlSigmoidCenter  = 0.5
	mlCutoff         = 0.3
)

// Synthesize builds the probability mask. The output is strictly binary:
// the smooth score only decides which side of the cutoff a pixel lands on.
func (ml *MultiLayerMaskSynthesizer) Synthesize(img *RasterImage, seed int64) *Mask {
	width, height := img.Width, img.Height
	mask := NewMask(width, height)
	total := width * height
	if total == 0 {
		return mask
	}

	rng := rand.New(rand.NewSource(seed))
	samples := make([]Color, mlRandomSamples)
	for i := range samples {
		idx := rng.Intn(total)
		samples[i] = img.ColorAt(idx%width, idx/width)
	}

	grey := ml.codec.Greyscale(img)
	sobel := ml.edges.SobelMagnitude(grey, width, height)

	g, _ := errgroup.WithContext(context.Background())
	g.SetLimit(8)

	const band = 32
	for y0 := 0; y0 < height; y0 += band {
		y0 := y0
		y1 := min(y0+band, height)
		g.Go(func() error {
			for y := y0; y < y1; y++ {
				for x := 0; x < width; x++ {
					s := mlWeightDistance*ml.distanceLayer(img, samples, x, y) +
						mlWeightGradient*float64(sobel[y*width+x])/255.0 +
						mlWeightVariance*ml.varianceLayer(grey, width, height, x, y) +
						mlWeightCoherent*ml.coherenceLayer(img, x, y)

					p := 1.0 / (1.0 + math.Exp(-mlSigmoidSlope*(s-mlSigmoidCenter)))
					if p < mlCutoff {
						mask.Set(x, y, 0)
					}
				}
			}
			return nil
		})
	}
	_ = g.Wait() // per-pixel math cannot fail

	return mask
}

// distanceLayer is the minimum perceptual distance to any random sample,
// normalized to [0, 1].
func (ml *MultiLayerMaskSynthesizer) distanceLayer(img *RasterImage, samples []Color, x, y int) float64 {
	c := img.ColorAt(x, y)
	minDist := math.MaxFloat64
	for _, s := range samples {
		if d := colorDistance(c, s); d < minDist {
			minDist = d
		}
	}
	v := clampUnit(minDist / 255.0)
	if ml.invertDistance {
		return 1.0 - v
	}
	return v
}

// varianceLayer is the mean squared intensity deviation of the
// 8-neighborhood from the center pixel, normalized by 8*255^2.
func (ml *MultiLayerMaskSynthesizer) varianceLayer(grey []byte, width, height, x, y int) float64 {
	center := float64(grey[y*width+x])
	sum := 0.0
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			nx, ny := x+dx, y+dy
			if nx < 0 || nx >= width || ny < 0 || ny >= height {
				continue
			}
			d := float64(grey[ny*width+nx]) - center
			sum += d * d
		}
	}
	return clampUnit(sum / (8.0 * 255.0 * 255.0))
}

// coherenceLayer is the mean color difference over the 5x5 neighborhood,
// normalized to [0, 1].
func (ml *MultiLayerMaskSynthesizer) coherenceLayer(img *RasterImage, x, y int) float64 {
	c := img.ColorAt(x, y)
	sum, count := 0.0, 0
	for dy := -2; dy <= 2; dy++ {
		for dx := -2; dx <= 2; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			nx, ny := x+dx, y+dy
			if nx < 0 || nx >= img.Width || ny < 0 || ny >= img.Height {
				continue
			}
			sum += colorDistance(img.ColorAt(nx, ny), c)
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return clampUnit(sum / float64(count) / 255.0)
}
