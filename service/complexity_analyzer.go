package service

import (
	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/stat"
)

// ComplexityAnalyzer labels a scene simple, medium, complex or portrait
// based on edge density, Lab color variance and skin coverage. The label
// only steers post-processing effort and diagnostics, never correctness.
type ComplexityAnalyzer struct {
	edges            *EdgeAnalyzer
	portraitDetector *PortraitDetector
}

type ComplexityInfo struct {
	Level         string
	EdgeDensity   float64
	ColorVariance float64
	IsPortrait    bool
}

func NewComplexityAnalyzer(codec *Codec) *ComplexityAnalyzer {
	return &ComplexityAnalyzer{
		edges:            NewEdgeAnalyzer(codec),
		portraitDetector: NewPortraitDetector(),
	}
}

// Analyze computes the complexity profile of an image.
func (ca *ComplexityAnalyzer) Analyze(img *RasterImage) ComplexityInfo {
	edgeDensity := ca.calculateEdgeDensity(img)
	colorVariance := ca.calculateColorVariance(img)
	isPortrait := ca.portraitDetector.IsPortrait(img)

	var level string
	if isPortrait {
		level = "portrait"
	} else if edgeDensity < 0.05 && colorVariance < 30 {
		level = "simple"
	} else if edgeDensity > 0.15 || colorVariance > 60 {
		level = "complex"
	} else {
		level = "medium"
	}

	return ComplexityInfo{
		Level:         level,
		EdgeDensity:   edgeDensity,
		ColorVariance: colorVariance,
		IsPortrait:    isPortrait,
	}
}

// calculateEdgeDensity is the share of pixels with a strong gradient.
func (ca *ComplexityAnalyzer) calculateEdgeDensity(img *RasterImage) float64 {
	total := img.Width * img.Height
	if total == 0 {
		return 0
	}

	edges := ca.edges.GradientMap(img)
	strong := 0
	for _, v := range edges {
		if v >= 50 {
			strong++
		}
	}
	return float64(strong) / float64(total)
}

// calculateColorVariance is the mean per-channel standard deviation in Lab
// space, scaled to the byte range the thresholds were tuned for.
func (ca *ComplexityAnalyzer) calculateColorVariance(img *RasterImage) float64 {
	total := img.Width * img.Height
	if total == 0 {
		return 0
	}

	ls := make([]float64, 0, total)
	as := make([]float64, 0, total)
	bs := make([]float64, 0, total)

	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			px := img.ColorAt(x, y)
			c := colorful.Color{
				R: float64(px.R) / 255.0,
				G: float64(px.G) / 255.0,
				B: float64(px.B) / 255.0,
			}
			l, a, b := c.Lab()
			ls = append(ls, l*255.0)
			as = append(as, (a+1.0)*127.5)
			bs = append(bs, (b+1.0)*127.5)
		}
	}

	sd := stat.StdDev(ls, nil) + stat.StdDev(as, nil) + stat.StdDev(bs, nil)
	return sd / 3.0
}
