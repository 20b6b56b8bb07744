package service

// MaskBuilder turns a target background color plus tolerance into an alpha
// mask: pixels close to the target are removed, a band up to the tolerance
// is feathered, everything else stays opaque. An elliptical center zone is
// never removed so the subject survives aggressive tolerances.
type MaskBuilder struct{}

func NewMaskBuilder() *MaskBuilder {
	return &MaskBuilder{}
}

const (
	hardRemoveRatio = 0.6  // distance <= 0.6*T is fully removed
	enhancedRatio   = 0.7  // enhanced variant gates removals beyond 0.7*T
	edgeBandRatio   = 0.35 // ...to a band this close to the border
	protectedRadius = 0.25 // protected ellipse semi-axes, fraction of min(w,h)
)

// insideProtectedZone reports whether (x, y) falls in the central ellipse
// with semi-axes 0.25*min(w, h).
func insideProtectedZone(x, y, width, height int) bool {
	semi := protectedRadius * float64(min(width, height))
	if semi <= 0 {
		return false
	}
	dx := (float64(x) - float64(width)/2.0) / semi
	dy := (float64(y) - float64(height)/2.0) / semi
	return dx*dx+dy*dy <= 1.0
}

// Build produces a distance mask against the target color.
func (mb *MaskBuilder) Build(img *RasterImage, target Color, tolerance float64) *Mask {
	return mb.build(img, target, tolerance, false)
}

// BuildEnhanced is the stricter variant: pixels beyond 0.7*tolerance are
// only eligible when they sit within the border band, which keeps distant
// interior regions opaque even when their color happens to match.
func (mb *MaskBuilder) BuildEnhanced(img *RasterImage, target Color, tolerance float64) *Mask {
	return mb.build(img, target, tolerance, true)
}

func (mb *MaskBuilder) build(img *RasterImage, target Color, tolerance float64, enhanced bool) *Mask {
	mask := NewMask(img.Width, img.Height)
	if tolerance <= 0 {
		return mask
	}

	hard := hardRemoveRatio * tolerance
	band := edgeBandRatio * float64(min(img.Width, img.Height))

	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			if insideProtectedZone(x, y, img.Width, img.Height) {
				continue // stays 255
			}

			d := colorDistance(img.ColorAt(x, y), target)
			if d > tolerance {
				continue
			}

			if enhanced && d > enhancedRatio*tolerance &&
				float64(borderDistance(x, y, img.Width, img.Height)) > band {
				continue
			}

			if d <= hard {
				mask.Set(x, y, 0)
			} else {
				// Linear feather from 0 at the hard threshold to 255 at T.
				v := 255.0 * (d - hard) / (tolerance - hard)
				mask.Set(x, y, byte(clampChannel(int(v+0.5))))
			}
		}
	}
	return mask
}
