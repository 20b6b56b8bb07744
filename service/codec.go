package service

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"

	"github.com/disintegration/imaging"
	xdraw "golang.org/x/image/draw"

	_ "image/gif"
	_ "image/jpeg"
)

// Codec converts between encoded image files and RasterImage buffers and
// supplies the primitive raster operations (greyscale, blur, contrast
// normalization, resize) the analyzers build on.
type Codec struct{}

func NewCodec() *Codec {
	return &Codec{}
}

// Decode reads any registered image format into a RasterImage. Images with
// any transparency keep 4 channels, fully opaque ones are stored as RGB.
func (c *Codec) Decode(r io.Reader) (*RasterImage, error) {
	src, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return c.FromImage(src), nil
}

// DecodeFile reads an image file from disk.
func (c *Codec) DecodeFile(path string) (*RasterImage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()
	return c.Decode(f)
}

// FromImage converts a decoded image.Image into an interleaved buffer.
func (c *Codec) FromImage(src image.Image) *RasterImage {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	nrgba := imaging.Clone(src)

	opaque := true
	for i := 3; i < len(nrgba.Pix); i += 4 {
		if nrgba.Pix[i] != 255 {
			opaque = false
			break
		}
	}

	channels := 4
	if opaque {
		channels = 3
	}

	out := NewRasterImage(w, h, channels)
	for p, q := 0, 0; p < len(nrgba.Pix); p, q = p+4, q+channels {
		out.Pix[q] = nrgba.Pix[p]
		out.Pix[q+1] = nrgba.Pix[p+1]
		out.Pix[q+2] = nrgba.Pix[p+2]
		if channels == 4 {
			out.Pix[q+3] = nrgba.Pix[p+3]
		}
	}
	return out
}

// ToImage converts a RasterImage into an image.NRGBA.
func (c *Codec) ToImage(img *RasterImage) *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, img.Width, img.Height))
	for p, q := 0, 0; q < len(img.Pix); p, q = p+4, q+img.Channels {
		out.Pix[p] = img.Pix[q]
		out.Pix[p+1] = img.Pix[q+1]
		out.Pix[p+2] = img.Pix[q+2]
		if img.Channels == 4 {
			out.Pix[p+3] = img.Pix[q+3]
		} else {
			out.Pix[p+3] = 255
		}
	}
	return out
}

// EncodePNG serializes a raster (normally the RGBA compositor output).
func (c *Codec) EncodePNG(img *RasterImage) ([]byte, error) {
	if err := img.Validate(); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, c.ToImage(img)); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// SmartResize downscales so the longest side fits maxDim, keeping aspect
// ratio. Returns the (possibly shared) raster and the applied scale.
func (c *Codec) SmartResize(img *RasterImage, maxDim int) (*RasterImage, float64) {
	maxSide := max(img.Width, img.Height)
	if maxDim <= 0 || maxSide <= maxDim {
		return img, 1.0
	}

	scale := float64(maxDim) / float64(maxSide)
	newW := max(1, int(float64(img.Width)*scale))
	newH := max(1, int(float64(img.Height)*scale))

	src := c.ToImage(img)
	dst := image.NewNRGBA(image.Rect(0, 0, newW, newH))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)

	return c.FromImage(dst), scale
}

// ResizeMask scales a mask to new dimensions with bilinear interpolation so
// feathered edges survive the round trip back to full resolution.
func (c *Codec) ResizeMask(m *Mask, width, height int) *Mask {
	if m.Width == width && m.Height == height {
		return m.Clone()
	}
	src := image.NewGray(image.Rect(0, 0, m.Width, m.Height))
	copy(src.Pix, m.Data)

	dst := image.NewGray(image.Rect(0, 0, width, height))
	xdraw.BiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)

	out := &Mask{Width: width, Height: height, Data: make([]byte, width*height)}
	copy(out.Data, dst.Pix)
	return out
}

// Greyscale returns one BT.601 luma byte per pixel.
func (c *Codec) Greyscale(img *RasterImage) []byte {
	grey := make([]byte, img.Width*img.Height)
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			px := img.ColorAt(x, y)
			v := 0.299*float64(px.R) + 0.587*float64(px.G) + 0.114*float64(px.B)
			grey[y*img.Width+x] = byte(clampChannel(int(v + 0.5)))
		}
	}
	return grey
}

// BlurGreyscale gaussian-blurs a greyscale plane.
func (c *Codec) BlurGreyscale(grey []byte, width, height int, sigma float64) []byte {
	src := image.NewGray(image.Rect(0, 0, width, height))
	copy(src.Pix, grey)

	blurred := imaging.Blur(src, sigma)

	out := make([]byte, width*height)
	for i := range out {
		out[i] = blurred.Pix[i*4] // NRGBA of a grey source, all channels equal
	}
	return out
}

// NormalizeContrast linearly stretches a greyscale plane to the full range.
func (c *Codec) NormalizeContrast(grey []byte) []byte {
	out := make([]byte, len(grey))
	if len(grey) == 0 {
		return out
	}

	lo, hi := grey[0], grey[0]
	for _, v := range grey {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if lo == hi {
		copy(out, grey)
		return out
	}

	span := float64(hi - lo)
	for i, v := range grey {
		out[i] = byte(clampChannel(int(float64(v-lo)/span*255.0 + 0.5)))
	}
	return out
}
