package service

import (
	"image"
	"math/rand"
	"sort"

	"github.com/cenkalti/dominantcolor"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"
)

// PaletteExtractor suggests replacement background colors for the UI. Two
// methods: dominantcolor (fast, weighted buckets) or kmeans partitioning.
type PaletteExtractor struct {
	method string
	size   int
}

func NewPaletteExtractor(method string, size int) *PaletteExtractor {
	if size <= 0 {
		size = 5
	}
	return &PaletteExtractor{method: method, size: size}
}

// Extract returns hex colors ordered from darkest to brightest.
func (pe *PaletteExtractor) Extract(img *image.NRGBA) []string {
	var palette []colorful.Color
	if pe.method == "kmeans" {
		palette = pe.kmeansPalette(img)
	} else {
		palette = pe.dominantPalette(img)
	}

	sort.Slice(palette, func(i, j int) bool {
		ri, gi, bi := palette[i].LinearRgb()
		rj, gj, bj := palette[j].LinearRgb()
		return 0.2126*ri+0.7152*gi+0.0722*bi < 0.2126*rj+0.7152*gj+0.0722*bj
	})

	hexes := make([]string, len(palette))
	for i, c := range palette {
		hexes[i] = c.Hex()
	}
	return hexes
}

func (pe *PaletteExtractor) dominantPalette(img *image.NRGBA) []colorful.Color {
	found := dominantcolor.FindWeight(img, pe.size)
	palette := make([]colorful.Color, 0, len(found))
	for _, c := range found {
		col, ok := colorful.MakeColor(c.RGBA)
		if !ok {
			continue
		}
		palette = append(palette, col)
	}
	return palette
}

func (pe *PaletteExtractor) kmeansPalette(img *image.NRGBA) []colorful.Color {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w == 0 || h == 0 {
		return nil
	}

	// Subsample for tractable partitioning; seeded so results are stable.
	rng := rand.New(rand.NewSource(1))
	const samples = 2000
	var obs clusters.Observations
	for i := 0; i < samples; i++ {
		x := rng.Intn(w)
		y := rng.Intn(h)
		p := img.NRGBAAt(bounds.Min.X+x, bounds.Min.Y+y)
		obs = append(obs, clusters.Coordinates{
			float64(p.R) / 255.0,
			float64(p.G) / 255.0,
			float64(p.B) / 255.0,
		})
	}

	km := kmeans.New()
	partitions, err := km.Partition(obs, pe.size)
	if err != nil {
		return pe.dominantPalette(img)
	}

	palette := make([]colorful.Color, 0, len(partitions))
	for _, p := range partitions {
		center := p.Center
		if len(center) < 3 {
			continue
		}
		palette = append(palette, colorful.Color{R: center[0], G: center[1], B: center[2]})
	}
	return palette
}
