package service

// MorphologyEngine cleans binary masks with 3x3 min/max filters over the
// 8-neighborhood. Border rows and columns have no full neighborhood and are
// copied through unchanged; that is the documented boundary convention.
type MorphologyEngine struct{}

func NewMorphologyEngine() *MorphologyEngine {
	return &MorphologyEngine{}
}

// Erode replaces each interior pixel with the minimum of its 3x3 window.
func (me *MorphologyEngine) Erode(m *Mask) *Mask {
	return me.filter(m, func(window [9]byte) byte {
		lo := window[0]
		for _, v := range window[1:] {
			if v < lo {
				lo = v
			}
		}
		return lo
	})
}

// Dilate replaces each interior pixel with the maximum of its 3x3 window.
func (me *MorphologyEngine) Dilate(m *Mask) *Mask {
	return me.filter(m, func(window [9]byte) byte {
		hi := window[0]
		for _, v := range window[1:] {
			if v > hi {
				hi = v
			}
		}
		return hi
	})
}

// Open is erosion then dilation: isolated foreground speckles disappear.
func (me *MorphologyEngine) Open(m *Mask) *Mask {
	return me.Dilate(me.Erode(m))
}

// Close is dilation then erosion: isolated background holes are filled.
func (me *MorphologyEngine) Close(m *Mask) *Mask {
	return me.Erode(me.Dilate(m))
}

func (me *MorphologyEngine) filter(m *Mask, reduce func([9]byte) byte) *Mask {
	out := m.Clone()
	if m.Width < 3 || m.Height < 3 {
		return out
	}

	for y := 1; y < m.Height-1; y++ {
		for x := 1; x < m.Width-1; x++ {
			var window [9]byte
			i := 0
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					window[i] = m.At(x+dx, y+dy)
					i++
				}
			}
			out.Set(x, y, reduce(window))
		}
	}
	return out
}
