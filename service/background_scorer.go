package service

// BackgroundScorer estimates how likely a candidate color is the scene
// background: strong presence along edges and corners, absence from the
// center, plus a small bias toward light or neutral colors.
type BackgroundScorer struct{}

func NewBackgroundScorer() *BackgroundScorer {
	return &BackgroundScorer{}
}

const (
	weightEdgePresence  = 0.35
	weightCornerBlocks  = 0.3
	weightCenterAbsence = 0.25
	lightNeutralBonus   = 0.1
	cornerBlockFraction = 0.1
	centerBlockFraction = 0.3
)

// Score returns a composite likelihood in [0, 1].
func (bs *BackgroundScorer) Score(img *RasterImage, candidate Color, tolerance float64) float64 {
	score := weightEdgePresence*bs.edgePresence(img, candidate, tolerance) +
		weightCornerBlocks*bs.cornerConcentration(img, candidate, tolerance) +
		weightCenterAbsence*(1.0-bs.centerPresence(img, candidate, tolerance))

	if lightness(candidate) > 150 || channelSpread(candidate) < 30 {
		score += lightNeutralBonus
	}
	return clampUnit(score)
}

// edgePresence is the matching fraction over the one-pixel perimeter.
func (bs *BackgroundScorer) edgePresence(img *RasterImage, candidate Color, tolerance float64) float64 {
	w, h := img.Width, img.Height
	if w == 0 || h == 0 {
		return 0
	}

	matched, total := 0, 0
	visit := func(x, y int) {
		total++
		if colorDistance(img.ColorAt(x, y), candidate) <= tolerance {
			matched++
		}
	}

	for x := 0; x < w; x++ {
		visit(x, 0)
		if h > 1 {
			visit(x, h-1)
		}
	}
	for y := 1; y < h-1; y++ {
		visit(0, y)
		if w > 1 {
			visit(w-1, y)
		}
	}
	return float64(matched) / float64(total)
}

// cornerConcentration is the matching fraction over four corner blocks,
// each 10% of the image size.
func (bs *BackgroundScorer) cornerConcentration(img *RasterImage, candidate Color, tolerance float64) float64 {
	w, h := img.Width, img.Height
	bw := max(1, int(cornerBlockFraction*float64(w)))
	bh := max(1, int(cornerBlockFraction*float64(h)))

	blocks := [][4]int{
		{0, 0, bw, bh},
		{w - bw, 0, w, bh},
		{0, h - bh, bw, h},
		{w - bw, h - bh, w, h},
	}

	matched, total := 0, 0
	for _, b := range blocks {
		for y := max(0, b[1]); y < min(h, b[3]); y++ {
			for x := max(0, b[0]); x < min(w, b[2]); x++ {
				total++
				if colorDistance(img.ColorAt(x, y), candidate) <= tolerance {
					matched++
				}
			}
		}
	}
	if total == 0 {
		return 0
	}
	return float64(matched) / float64(total)
}

// centerPresence is the matching fraction over the central 30% block.
func (bs *BackgroundScorer) centerPresence(img *RasterImage, candidate Color, tolerance float64) float64 {
	w, h := img.Width, img.Height
	bw := max(1, int(centerBlockFraction*float64(w)))
	bh := max(1, int(centerBlockFraction*float64(h)))
	x0, y0 := (w-bw)/2, (h-bh)/2

	matched, total := 0, 0
	for y := y0; y < y0+bh && y < h; y++ {
		for x := x0; x < x0+bw && x < w; x++ {
			total++
			if colorDistance(img.ColorAt(x, y), candidate) <= tolerance {
				matched++
			}
		}
	}
	if total == 0 {
		return 0
	}
	return float64(matched) / float64(total)
}
