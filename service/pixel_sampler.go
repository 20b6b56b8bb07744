package service

// PixelSampler collects color samples from the image border regions, where
// background pixels are most likely to live.
type PixelSampler struct{}

func NewPixelSampler() *PixelSampler {
	return &PixelSampler{}
}

const (
	sampleBlock  = 10
	sampleStride = 2
)

// SampleCorners gathers colors from 10x10 blocks anchored at the four
// corners, at a stride of 2. Out-of-bounds indices are skipped so tiny
// images still yield samples.
func (ps *PixelSampler) SampleCorners(img *RasterImage) []Color {
	anchors := [][2]int{
		{0, 0},
		{img.Width - sampleBlock, 0},
		{0, img.Height - sampleBlock},
		{img.Width - sampleBlock, img.Height - sampleBlock},
	}

	var samples []Color
	for _, a := range anchors {
		samples = ps.appendBlock(samples, img, a[0], a[1])
	}
	return samples
}

// SampleDense adds blocks centered on the edge midpoints and quarter points
// to the corner samples. Used when corner evidence alone is too thin.
func (ps *PixelSampler) SampleDense(img *RasterImage) []Color {
	samples := ps.SampleCorners(img)

	for _, p := range edgeMidpoints(img.Width, img.Height) {
		samples = ps.appendBlock(samples, img, p[0]-sampleBlock/2, p[1]-sampleBlock/2)
	}
	for _, p := range edgeQuarterPoints(img.Width, img.Height) {
		samples = ps.appendBlock(samples, img, p[0]-sampleBlock/2, p[1]-sampleBlock/2)
	}
	return samples
}

func (ps *PixelSampler) appendBlock(samples []Color, img *RasterImage, x0, y0 int) []Color {
	for y := y0; y < y0+sampleBlock; y += sampleStride {
		if y < 0 || y >= img.Height {
			continue
		}
		for x := x0; x < x0+sampleBlock; x += sampleStride {
			if x < 0 || x >= img.Width {
				continue
			}
			samples = append(samples, img.ColorAt(x, y))
		}
	}
	return samples
}

func cornerPoints(width, height int) [][2]int {
	return [][2]int{
		{0, 0},
		{width - 1, 0},
		{0, height - 1},
		{width - 1, height - 1},
	}
}

func edgeMidpoints(width, height int) [][2]int {
	return [][2]int{
		{width / 2, 0},
		{width / 2, height - 1},
		{0, height / 2},
		{width - 1, height / 2},
	}
}

func edgeQuarterPoints(width, height int) [][2]int {
	return [][2]int{
		{width / 4, 0},
		{3 * width / 4, 0},
		{width / 4, height - 1},
		{3 * width / 4, height - 1},
		{0, height / 4},
		{0, 3 * height / 4},
		{width - 1, height / 4},
		{width - 1, 3 * height / 4},
	}
}
