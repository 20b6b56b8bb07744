package service

// ValidationStats summarizes a candidate mask.
type ValidationStats struct {
	RemovedPercentage float64 // 0..100
	ConnectedRegions  int     // maximal 4-connected sets of zero pixels
}

// MaskValidator scores candidate masks for acceptability. It is the single
// gate every cascade strategy must pass before its mask wins.
type MaskValidator struct{}

func NewMaskValidator() *MaskValidator {
	return &MaskValidator{}
}

const (
	centerWindowFraction = 0.3  // window guarded against over-removal
	centerRemovedLimit   = 0.12 // max removed share inside that window
	holeWindowFraction   = 0.25 // window the hole check looks at
	holeAreaLimit        = 0.05 // max hole size, fraction of total area
)

// AnalyzeMaskStatistics computes the removal percentage and the number of
// connected zero regions.
func (mv *MaskValidator) AnalyzeMaskStatistics(m *Mask) ValidationStats {
	total := m.Width * m.Height
	if total == 0 {
		return ValidationStats{}
	}

	zeros := 0
	for _, v := range m.Data {
		if v == 0 {
			zeros++
		}
	}

	return ValidationStats{
		RemovedPercentage: float64(zeros) / float64(total) * 100.0,
		ConnectedRegions:  mv.countRegions(m),
	}
}

// ValidateObjectPreservation rejects masks that eat into the subject:
// either too much removal inside the central window, or any single hole
// inside the tighter central window larger than 5% of the image.
func (mv *MaskValidator) ValidateObjectPreservation(m *Mask) bool {
	total := m.Width * m.Height
	if total == 0 {
		return true
	}

	wx0, wy0, wx1, wy1 := centeredWindow(m.Width, m.Height, centerWindowFraction)
	windowArea := (wx1 - wx0) * (wy1 - wy0)

	removed := 0
	for y := wy0; y < wy1; y++ {
		for x := wx0; x < wx1; x++ {
			if m.At(x, y) == 0 {
				removed++
			}
		}
	}
	if windowArea > 0 && float64(removed)/float64(windowArea) > centerRemovedLimit {
		return false
	}

	return !mv.hasProblematicHole(m)
}

// hasProblematicHole looks for a contiguous zero region lying entirely
// inside the central 25% window and exceeding 5% of the image area.
func (mv *MaskValidator) hasProblematicHole(m *Mask) bool {
	hx0, hy0, hx1, hy1 := centeredWindow(m.Width, m.Height, holeWindowFraction)
	limit := int(holeAreaLimit * float64(m.Width*m.Height))

	visited := make([]bool, m.Width*m.Height)
	queue := make([][2]int, 0, 64)

	for sy := hy0; sy < hy1; sy++ {
		for sx := hx0; sx < hx1; sx++ {
			idx := sy*m.Width + sx
			if visited[idx] || m.At(sx, sy) != 0 {
				continue
			}

			size := 0
			inside := true
			visited[idx] = true
			queue = append(queue[:0], [2]int{sx, sy})

			for len(queue) > 0 {
				p := queue[0]
				queue = queue[1:]
				size++
				if p[0] < hx0 || p[0] >= hx1 || p[1] < hy0 || p[1] >= hy1 {
					inside = false
				}

				for _, d := range [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
					nx, ny := p[0]+d[0], p[1]+d[1]
					if nx < 0 || nx >= m.Width || ny < 0 || ny >= m.Height {
						continue
					}
					nidx := ny*m.Width + nx
					if visited[nidx] || m.At(nx, ny) != 0 {
						continue
					}
					visited[nidx] = true
					queue = append(queue, [2]int{nx, ny})
				}
			}

			if inside && size > limit {
				return true
			}
		}
	}
	return false
}

// countRegions labels zero pixels with 4-connected BFS.
func (mv *MaskValidator) countRegions(m *Mask) int {
	visited := make([]bool, m.Width*m.Height)
	queue := make([][2]int, 0, 64)
	regions := 0

	for sy := 0; sy < m.Height; sy++ {
		for sx := 0; sx < m.Width; sx++ {
			idx := sy*m.Width + sx
			if visited[idx] || m.At(sx, sy) != 0 {
				continue
			}
			regions++
			visited[idx] = true
			queue = append(queue[:0], [2]int{sx, sy})

			for len(queue) > 0 {
				p := queue[0]
				queue = queue[1:]
				for _, d := range [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
					nx, ny := p[0]+d[0], p[1]+d[1]
					if nx < 0 || nx >= m.Width || ny < 0 || ny >= m.Height {
						continue
					}
					nidx := ny*m.Width + nx
					if visited[nidx] || m.At(nx, ny) != 0 {
						continue
					}
					visited[nidx] = true
					queue = append(queue, [2]int{nx, ny})
				}
			}
		}
	}
	return regions
}

// centeredWindow returns the half-open bounds of a centered window covering
// the given fraction of each dimension.
func centeredWindow(width, height int, fraction float64) (x0, y0, x1, y1 int) {
	bw := max(1, int(fraction*float64(width)))
	bh := max(1, int(fraction*float64(height)))
	x0 = (width - bw) / 2
	y0 = (height - bh) / 2
	return x0, y0, x0 + bw, y0 + bh
}
