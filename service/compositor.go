package service

import (
	"fmt"
)

// Compositor is the single exit point of every removal branch: it merges
// the source RGB channels with a mask into a fresh RGBA raster whose alpha
// channel equals the mask byte for byte.
type Compositor struct{}

func NewCompositor() *Compositor {
	return &Compositor{}
}

// Compose never fails on dimension-matched inputs.
func (cp *Compositor) Compose(img *RasterImage, mask *Mask) (*RasterImage, error) {
	if img.Width != mask.Width || img.Height != mask.Height {
		return nil, fmt.Errorf("compose: mask %dx%d does not match image %dx%d",
			mask.Width, mask.Height, img.Width, img.Height)
	}

	out := NewRasterImage(img.Width, img.Height, 4)
	for i, q := 0, 0; i < len(mask.Data); i, q = i+1, q+4 {
		p := i * img.Channels
		out.Pix[q] = img.Pix[p]
		out.Pix[q+1] = img.Pix[p+1]
		out.Pix[q+2] = img.Pix[p+2]
		out.Pix[q+3] = mask.Data[i]
	}
	return out, nil
}
