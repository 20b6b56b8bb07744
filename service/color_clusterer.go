package service

import (
	"sort"
)

// ColorCluster is a quantized representative color with its sample count.
type ColorCluster struct {
	Color Color
	Count int
}

// DominantColor is a histogram bucket ranked by image-wide frequency.
type DominantColor struct {
	Color     Color
	Frequency float64 // percentage of total pixels
}

// ColorClusterer quantizes colors onto fixed grids and ranks the buckets.
// Grid quantization keeps the representatives deterministic, unlike k-means.
type ColorClusterer struct{}

func NewColorClusterer() *ColorClusterer {
	return &ColorClusterer{}
}

const (
	clusterStep   = 15 // cluster detection
	frequentStep  = 20 // most-frequent-color lookups
	histogramStep = 10 // full-image histograms
	topClusters   = 5
)

// Clusters buckets the samples on a step-15 grid and returns the top five
// by descending count.
func (cc *ColorClusterer) Clusters(samples []Color) []ColorCluster {
	counts := map[Color]int{}
	for _, s := range samples {
		counts[quantizeColor(s, clusterStep)]++
	}

	clusters := make([]ColorCluster, 0, len(counts))
	for c, n := range counts {
		clusters = append(clusters, ColorCluster{Color: c, Count: n})
	}
	sortClusters(clusters)

	if len(clusters) > topClusters {
		clusters = clusters[:topClusters]
	}
	return clusters
}

// MostFrequent returns the step-20 bucket with the highest count.
func (cc *ColorClusterer) MostFrequent(samples []Color) (Color, bool) {
	if len(samples) == 0 {
		return Color{}, false
	}

	counts := map[Color]int{}
	for _, s := range samples {
		counts[quantizeColor(s, frequentStep)]++
	}

	clusters := make([]ColorCluster, 0, len(counts))
	for c, n := range counts {
		clusters = append(clusters, ColorCluster{Color: c, Count: n})
	}
	sortClusters(clusters)

	return clusters[0].Color, true
}

// DominantColors histograms every pixel on a step-10 grid and returns the
// topN buckets with their frequency percentage.
func (cc *ColorClusterer) DominantColors(img *RasterImage, topN int) []DominantColor {
	total := img.Width * img.Height
	if total == 0 || topN <= 0 {
		return nil
	}

	counts := map[Color]int{}
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			counts[quantizeColor(img.ColorAt(x, y), histogramStep)]++
		}
	}

	clusters := make([]ColorCluster, 0, len(counts))
	for c, n := range counts {
		clusters = append(clusters, ColorCluster{Color: c, Count: n})
	}
	sortClusters(clusters)

	if len(clusters) > topN {
		clusters = clusters[:topN]
	}

	dominant := make([]DominantColor, len(clusters))
	for i, cl := range clusters {
		dominant[i] = DominantColor{
			Color:     cl.Color,
			Frequency: float64(cl.Count) / float64(total) * 100.0,
		}
	}
	return dominant
}

// quantizeColor rounds each channel to the nearest multiple of step.
func quantizeColor(c Color, step int) Color {
	return Color{
		R: clampChannel((c.R + step/2) / step * step),
		G: clampChannel((c.G + step/2) / step * step),
		B: clampChannel((c.B + step/2) / step * step),
	}
}

// sortClusters orders by descending count with a fixed color tie-break so
// ranking is deterministic across runs.
func sortClusters(clusters []ColorCluster) {
	sort.Slice(clusters, func(i, j int) bool {
		if clusters[i].Count != clusters[j].Count {
			return clusters[i].Count > clusters[j].Count
		}
		a, b := clusters[i].Color, clusters[j].Color
		if a.R != b.R {
			return a.R < b.R
		}
		if a.G != b.G {
			return a.G < b.G
		}
		return a.B < b.B
	})
}
