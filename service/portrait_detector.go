package service

// PortraitDetector flags images that are mostly a person, via YCrCb skin
// coverage. Portraits get extra cleanup passes on the multi-layer path
// because hair and skin edges feather badly.
type PortraitDetector struct{}

func NewPortraitDetector() *PortraitDetector {
	return &PortraitDetector{}
}

const skinRatioThreshold = 0.15

// isSkin uses the classic YCrCb box: Cr in [133, 173], Cb in [77, 127].
func isSkin(c Color) bool {
	y := 0.299*float64(c.R) + 0.587*float64(c.G) + 0.114*float64(c.B)
	cr := (float64(c.R)-y)*0.713 + 128
	cb := (float64(c.B)-y)*0.564 + 128
	return cr >= 133 && cr <= 173 && cb >= 77 && cb <= 127
}

// SkinRatio is the fraction of pixels falling inside the skin box.
func (pd *PortraitDetector) SkinRatio(img *RasterImage) float64 {
	total := img.Width * img.Height
	if total == 0 {
		return 0
	}

	skin := 0
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			if isSkin(img.ColorAt(x, y)) {
				skin++
			}
		}
	}
	return float64(skin) / float64(total)
}

func (pd *PortraitDetector) IsPortrait(img *RasterImage) bool {
	return pd.SkinRatio(img) > skinRatioThreshold
}
