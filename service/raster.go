package service

import (
	"fmt"
	"math"
)

// Color is an 8-bit RGB triple.
type Color struct {
	R int
	G int
	B int
}

// RasterImage is a decoded image: row-major interleaved bytes with 3 (RGB)
// or 4 (RGBA) channels. The pipeline treats it as immutable input; every
// stage allocates its own output.
type RasterImage struct {
	Width    int
	Height   int
	Channels int
	Pix      []byte
}

// NewRasterImage allocates a zeroed raster.
func NewRasterImage(width, height, channels int) *RasterImage {
	return &RasterImage{
		Width:    width,
		Height:   height,
		Channels: channels,
		Pix:      make([]byte, width*height*channels),
	}
}

// Validate checks the buffer-size invariant.
func (r *RasterImage) Validate() error {
	if r.Channels != 3 && r.Channels != 4 {
		return fmt.Errorf("unsupported channel count %d", r.Channels)
	}
	if want := r.Width * r.Height * r.Channels; len(r.Pix) != want {
		return fmt.Errorf("pixel buffer size %d, want %d", len(r.Pix), want)
	}
	return nil
}

func (r *RasterImage) offset(x, y int) int {
	return (y*r.Width + x) * r.Channels
}

// ColorAt returns the RGB value at (x, y). Alpha, if present, is ignored.
func (r *RasterImage) ColorAt(x, y int) Color {
	i := r.offset(x, y)
	return Color{R: int(r.Pix[i]), G: int(r.Pix[i+1]), B: int(r.Pix[i+2])}
}

// SetColor writes an RGB value at (x, y), leaving alpha untouched.
func (r *RasterImage) SetColor(x, y int, c Color) {
	i := r.offset(x, y)
	r.Pix[i] = byte(clampChannel(c.R))
	r.Pix[i+1] = byte(clampChannel(c.G))
	r.Pix[i+2] = byte(clampChannel(c.B))
}

// Mask holds one alpha byte per pixel: 0 background, 255 foreground,
// in-between values are edge feather.
type Mask struct {
	Width  int
	Height int
	Data   []byte
}

// NewMask allocates a fully opaque mask.
func NewMask(width, height int) *Mask {
	m := &Mask{
		Width:  width,
		Height: height,
		Data:   make([]byte, width*height),
	}
	for i := range m.Data {
		m.Data[i] = 255
	}
	return m
}

func (m *Mask) At(x, y int) byte     { return m.Data[y*m.Width+x] }
func (m *Mask) Set(x, y int, v byte) { m.Data[y*m.Width+x] = v }

// Clone returns an independent copy.
func (m *Mask) Clone() *Mask {
	c := &Mask{Width: m.Width, Height: m.Height, Data: make([]byte, len(m.Data))}
	copy(c.Data, m.Data)
	return c
}

// RemovedFraction is the share of fully transparent pixels.
func (m *Mask) RemovedFraction() float64 {
	if len(m.Data) == 0 {
		return 0
	}
	zeros := 0
	for _, v := range m.Data {
		if v == 0 {
			zeros++
		}
	}
	return float64(zeros) / float64(len(m.Data))
}

// colorDistance is the weighted perceptual distance used everywhere in the
// pipeline. Green differences dominate, matching luminance sensitivity.
func colorDistance(a, b Color) float64 {
	dr := float64(a.R - b.R)
	dg := float64(a.G - b.G)
	db := float64(a.B - b.B)
	return math.Sqrt(0.3*dr*dr + 0.59*dg*dg + 0.11*db*db)
}

// lightness is the plain channel mean.
func lightness(c Color) float64 {
	return float64(c.R+c.G+c.B) / 3.0
}

// channelSpread is max minus min channel, a crude saturation measure.
func channelSpread(c Color) int {
	mx := max(c.R, max(c.G, c.B))
	mn := min(c.R, min(c.G, c.B))
	return mx - mn
}

// borderDistance is the distance from (x, y) to the nearest image edge.
func borderDistance(x, y, width, height int) int {
	return min(min(x, y), min(width-1-x, height-1-y))
}

func clampChannel(v int) int {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
