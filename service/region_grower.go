package service

// RegionGrower removes background by breadth-first flood fill from border
// seed points. Growth is 4-connected, blocked by the protected zone, and
// shares one visited set across all seeds. Inherently sequential.
type RegionGrower struct{}

func NewRegionGrower() *RegionGrower {
	return &RegionGrower{}
}

const (
	growCapFraction = 0.65 // hard ceiling on absorbed pixels
	growShrink      = 0.2  // tolerance shrink toward the image center
	growShrinkRange = 0.4  // border distance (fraction of min side) where shrink saturates
	seedLightness   = 120
	seedSpread      = 50
)

// isLikelyBackgroundPixel gates the optional seeds: light or near-neutral
// colors are treated as probable background.
func isLikelyBackgroundPixel(c Color) bool {
	return lightness(c) > seedLightness || channelSpread(c) < seedSpread
}

// Grow flood-fills from the four corners (always) and from the edge
// midpoints and quarter points that look like background. A pixel is
// absorbed when its distance to the seed color fits a tolerance that
// shrinks by up to 20% with distance from the border, biasing growth
// outward. Returns ok=false when the fill hits the 65% cap: a fill that
// large has almost certainly swallowed the subject.
func (rg *RegionGrower) Grow(img *RasterImage, tolerance float64) (*Mask, bool) {
	width, height := img.Width, img.Height
	total := width * height
	if total == 0 {
		return NewMask(0, 0), true
	}

	capCount := int(growCapFraction * float64(total))
	shrinkCap := growShrinkRange * float64(min(width, height))

	mask := NewMask(width, height)
	visited := make([]bool, total)
	removed := 0

	seeds := cornerPoints(width, height)
	for _, p := range append(edgeMidpoints(width, height), edgeQuarterPoints(width, height)...) {
		if isLikelyBackgroundPixel(img.ColorAt(p[0], p[1])) {
			seeds = append(seeds, p)
		}
	}

	adjusted := func(x, y int) float64 {
		bd := float64(borderDistance(x, y, width, height))
		f := bd / shrinkCap
		if f > 1 {
			f = 1
		}
		return tolerance * (1 - growShrink*f)
	}

	queue := make([][2]int, 0, width*2+height*2)

	for _, seed := range seeds {
		sx, sy := seed[0], seed[1]
		if visited[sy*width+sx] || insideProtectedZone(sx, sy, width, height) {
			continue
		}
		seedColor := img.ColorAt(sx, sy)

		visited[sy*width+sx] = true
		mask.Set(sx, sy, 0)
		removed++
		queue = append(queue[:0], [2]int{sx, sy})

		for len(queue) > 0 {
			p := queue[0]
			queue = queue[1:]

			for _, d := range [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
				nx, ny := p[0]+d[0], p[1]+d[1]
				if nx < 0 || nx >= width || ny < 0 || ny >= height {
					continue
				}
				idx := ny*width + nx
				if visited[idx] || insideProtectedZone(nx, ny, width, height) {
					continue
				}
				visited[idx] = true

				if colorDistance(img.ColorAt(nx, ny), seedColor) > adjusted(nx, ny) {
					continue
				}
				mask.Set(nx, ny, 0)
				removed++
				if removed >= capCount {
					return nil, false
				}
				queue = append(queue, [2]int{nx, ny})
			}
		}
	}

	return mask, true
}
