package export

import "math"

// pageEpsilon absorbs float noise so 2.0000000001 pages count as 2.
const pageEpsilon = 1e-6

// Layout places one tall bitmap across pages. The bitmap is drawn full width
// on every page; page k shows it shifted up by k page heights.
type Layout struct {
	Page          PageSize
	ImageHeightMM float64
	Offsets       []float64
}

// Pages is the number of pages in the layout.
func (l Layout) Pages() int {
	return len(l.Offsets)
}

// Paginate computes the layout of a pixelWidth x pixelHeight bitmap on page.
// The image is scaled to the page width; its height follows the aspect ratio.
// At least one page is always produced.
func Paginate(pixelWidth, pixelHeight int, page PageSize) Layout {
	l := Layout{Page: page}
	if pixelWidth > 0 && pixelHeight > 0 {
		l.ImageHeightMM = float64(pixelHeight) * page.WidthMM / float64(pixelWidth)
	}

	pages := 1
	if page.HeightMM > 0 {
		pages = max(1, int(math.Ceil(l.ImageHeightMM/page.HeightMM-pageEpsilon)))
	}

	l.Offsets = make([]float64, pages)
	for k := range l.Offsets {
		l.Offsets[k] = -float64(k) * page.HeightMM
	}
	return l
}
