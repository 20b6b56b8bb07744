package service

import (
	"fmt"
)

// MethodResult is the outcome of one strategy attempt: an accept/reject
// flag, the produced mask when accepted, and a diagnostic label. Strategies
// communicate rejection through this value, never through errors.
type MethodResult struct {
	Accepted bool
	Method   string
	Detail   string
	Mask     *Mask
	Stats    ValidationStats
}

func rejected(method, detail string) MethodResult {
	return MethodResult{Method: method, Detail: detail}
}

// CascadeOrchestrator runs the removal strategies in a fixed order and
// short-circuits on the first accepted mask. The final forced-removal stage
// cannot fail, so Run always yields a usable mask.
type CascadeOrchestrator struct {
	sampler   *PixelSampler
	clusterer *ColorClusterer
	builder   *MaskBuilder
	grower    *RegionGrower
	edges     *EdgeAnalyzer
	scorer    *BackgroundScorer
	validator *MaskValidator
}

func NewCascadeOrchestrator(codec *Codec) *CascadeOrchestrator {
	return &CascadeOrchestrator{
		sampler:   NewPixelSampler(),
		clusterer: NewColorClusterer(),
		builder:   NewMaskBuilder(),
		grower:    NewRegionGrower(),
		edges:     NewEdgeAnalyzer(codec),
		scorer:    NewBackgroundScorer(),
		validator: NewMaskValidator(),
	}
}

const (
	methodAdvancedDetection     = "advanced_detection"
	methodFloodFill             = "flood_fill"
	methodStatisticalSeparation = "statistical_separation"
	methodEdgeProcessing        = "edge_processing"
	methodForcedRemoval         = "forced_removal"
)

const (
	floodFillTolerance  = 40
	scoringTolerance    = 40  // tolerance the background scorer is consulted at
	minDominantFreq     = 8.0 // percent
	minBackgroundScore  = 0.5
	maxConnectedRegions = 6
	perCornerTolerance  = 60
)

var (
	advancedTolerances    = []float64{35, 55, 75, 95}
	statisticalTolerances = []float64{40, 60, 80, 100}
	forcedTolerances      = []float64{50, 70, 90, 110}
)

// Run tries every strategy in order and returns the first accepted result.
func (co *CascadeOrchestrator) Run(img *RasterImage) MethodResult {
	strategies := []func(*RasterImage) MethodResult{
		co.advancedDetection,
		co.floodFill,
		co.statisticalSeparation,
		co.edgeProcessing,
	}

	for _, strat := range strategies {
		if res := strat(img); res.Accepted {
			return res
		}
	}
	return co.forcedRemoval(img)
}

// accept runs the shared validation: the removal percentage must fall in
// [lo, hi], optionally the region count is bounded, and object preservation
// must hold.
func (co *CascadeOrchestrator) accept(mask *Mask, lo, hi float64, checkRegions bool) (ValidationStats, bool) {
	stats := co.validator.AnalyzeMaskStatistics(mask)
	if stats.RemovedPercentage < lo || stats.RemovedPercentage > hi {
		return stats, false
	}
	if checkRegions && stats.ConnectedRegions > maxConnectedRegions {
		return stats, false
	}
	return stats, co.validator.ValidateObjectPreservation(mask)
}

// advancedDetection builds plain distance masks for the top border color
// clusters across an ascending tolerance ladder.
func (co *CascadeOrchestrator) advancedDetection(img *RasterImage) MethodResult {
	clusters := co.clusterer.Clusters(co.sampler.SampleDense(img))

	for _, cluster := range clusters {
		for _, tol := range advancedTolerances {
			mask := co.builder.Build(img, cluster.Color, tol)
			if stats, ok := co.accept(mask, 15, 80, true); ok {
				return MethodResult{
					Accepted: true,
					Method:   methodAdvancedDetection,
					Detail:   fmt.Sprintf("cluster=%v tolerance=%.0f", cluster.Color, tol),
					Mask:     mask,
					Stats:    stats,
				}
			}
		}
	}
	return rejected(methodAdvancedDetection, "no cluster/tolerance combination validated")
}

// floodFill grows background regions from the border seeds.
func (co *CascadeOrchestrator) floodFill(img *RasterImage) MethodResult {
	mask, ok := co.grower.Grow(img, floodFillTolerance)
	if !ok {
		return rejected(methodFloodFill, "growth cap reached")
	}
	if stats, ok := co.accept(mask, 10, 85, false); ok {
		return MethodResult{
			Accepted: true,
			Method:   methodFloodFill,
			Detail:   fmt.Sprintf("tolerance=%d", floodFillTolerance),
			Mask:     mask,
			Stats:    stats,
		}
	}
	return rejected(methodFloodFill, "mask failed validation")
}

// statisticalSeparation tries enhanced masks for dominant colors that the
// background scorer endorses.
func (co *CascadeOrchestrator) statisticalSeparation(img *RasterImage) MethodResult {
	for _, dom := range co.clusterer.DominantColors(img, 10) {
		if dom.Frequency < minDominantFreq {
			continue
		}
		if co.scorer.Score(img, dom.Color, scoringTolerance) < minBackgroundScore {
			continue
		}

		for _, tol := range statisticalTolerances {
			mask := co.builder.BuildEnhanced(img, dom.Color, tol)
			if stats, ok := co.accept(mask, 15, 80, true); ok {
				return MethodResult{
					Accepted: true,
					Method:   methodStatisticalSeparation,
					Detail:   fmt.Sprintf("dominant=%v freq=%.1f%% tolerance=%.0f", dom.Color, dom.Frequency, tol),
					Mask:     mask,
					Stats:    stats,
				}
			}
		}
	}
	return rejected(methodStatisticalSeparation, "no dominant color validated")
}

// edgeProcessing removes quiet low-gradient regions.
func (co *CascadeOrchestrator) edgeProcessing(img *RasterImage) MethodResult {
	mask := co.edges.BuildMask(img)
	if stats, ok := co.accept(mask, 10, 85, false); ok {
		return MethodResult{
			Accepted: true,
			Method:   methodEdgeProcessing,
			Detail:   "gradient mask",
			Mask:     mask,
			Stats:    stats,
		}
	}
	return rejected(methodEdgeProcessing, "mask failed validation")
}

// forcedRemoval is the guaranteed-terminal fallback: corner-color masks,
// then a light/neutral mask, then a lax per-corner mask, and as the very
// last resort a fully opaque pass-through. It always returns Accepted.
func (co *CascadeOrchestrator) forcedRemoval(img *RasterImage) MethodResult {
	if frequent, ok := co.clusterer.MostFrequent(co.sampler.SampleCorners(img)); ok {
		for _, tol := range forcedTolerances {
			mask := co.builder.BuildEnhanced(img, frequent, tol)
			if stats, ok := co.accept(mask, 10, 80, false); ok {
				return MethodResult{
					Accepted: true,
					Method:   methodForcedRemoval,
					Detail:   fmt.Sprintf("corner_color=%v tolerance=%.0f", frequent, tol),
					Mask:     mask,
					Stats:    stats,
				}
			}
		}
	}

	mask := co.buildLightNeutralMask(img)
	if stats, ok := co.accept(mask, 8, 70, false); ok {
		return MethodResult{
			Accepted: true,
			Method:   methodForcedRemoval,
			Detail:   "light_neutral",
			Mask:     mask,
			Stats:    stats,
		}
	}

	mask = co.buildPerCornerMask(img)
	if stats := co.validator.AnalyzeMaskStatistics(mask); stats.RemovedPercentage >= 5 {
		return MethodResult{
			Accepted: true,
			Method:   methodForcedRemoval,
			Detail:   "per_corner",
			Mask:     mask,
			Stats:    stats,
		}
	}

	opaque := NewMask(img.Width, img.Height)
	return MethodResult{
		Accepted: true,
		Method:   methodForcedRemoval,
		Detail:   "opaque_passthrough",
		Mask:     opaque,
		Stats:    co.validator.AnalyzeMaskStatistics(opaque),
	}
}

// buildLightNeutralMask removes light or near-neutral pixels, weighted
// toward border proximity: fully within the border band, feathered in a
// second band, untouched at the center. Protected pixels always stay.
func (co *CascadeOrchestrator) buildLightNeutralMask(img *RasterImage) *Mask {
	mask := NewMask(img.Width, img.Height)
	minSide := float64(min(img.Width, img.Height))
	inner := edgeBandRatio * minSide
	outer := 0.5 * minSide

	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			if insideProtectedZone(x, y, img.Width, img.Height) {
				continue
			}
			c := img.ColorAt(x, y)
			if lightness(c) <= 120 && channelSpread(c) >= 30 {
				continue
			}

			bd := float64(borderDistance(x, y, img.Width, img.Height))
			switch {
			case bd <= inner:
				mask.Set(x, y, 0)
			case bd <= outer:
				mask.Set(x, y, 128)
			}
		}
	}
	return mask
}

// buildPerCornerMask combines a plain mask per corner-block dominant color
// by per-pixel minimum, so matching any corner color removes the pixel.
func (co *CascadeOrchestrator) buildPerCornerMask(img *RasterImage) *Mask {
	combined := NewMask(img.Width, img.Height)

	anchors := [][2]int{
		{0, 0},
		{img.Width - sampleBlock, 0},
		{0, img.Height - sampleBlock},
		{img.Width - sampleBlock, img.Height - sampleBlock},
	}

	for _, a := range anchors {
		samples := co.sampler.appendBlock(nil, img, a[0], a[1])
		frequent, ok := co.clusterer.MostFrequent(samples)
		if !ok {
			continue
		}
		mask := co.builder.Build(img, frequent, perCornerTolerance)
		for i, v := range mask.Data {
			if v < combined.Data[i] {
				combined.Data[i] = v
			}
		}
	}
	return combined
}
