package export

import (
	"bytes"
	"image/jpeg"
	"math"
	"regexp"

	"github.com/jung-kurt/gofpdf"
)

const rasterImageName = "resume"

// Assemble builds a PDF from a bitmap and its layout. The bitmap is JPEG
// encoded at quality (0-1) and drawn full width on each page at the page's
// offset, so content flows across page boundaries without rescaling.
func Assemble(img *RasterImage, layout Layout, quality float64) ([]byte, error) {
	if img == nil {
		return nil, &RenderError{Message: "no bitmap to assemble"}
	}
	decoded, err := img.Decode()
	if err != nil {
		return nil, &RenderError{Message: "failed to decode bitmap", Cause: err}
	}

	var jpg bytes.Buffer
	if err := jpeg.Encode(&jpg, decoded, &jpeg.Options{Quality: jpegQuality(quality)}); err != nil {
		return nil, &RenderError{Message: "failed to encode bitmap", Cause: err}
	}

	page := layout.Page
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           gofpdf.SizeType{Wd: page.WidthMM, Ht: page.HeightMM},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)

	opts := gofpdf.ImageOptions{ImageType: "JPG"}
	pdf.RegisterImageOptionsReader(rasterImageName, opts, &jpg)

	for _, offset := range layout.Offsets {
		pdf.AddPage()
		pdf.ImageOptions(rasterImageName, 0, offset, page.WidthMM, layout.ImageHeightMM, false, opts, 0, "")
	}

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, &RenderError{Message: "failed to write PDF", Cause: err}
	}
	return out.Bytes(), nil
}

// jpegQuality maps a 0-1 factor onto JPEG quality 1-100.
func jpegQuality(q float64) int {
	if q <= 0 {
		q = DefaultQuality
	}
	return int(math.Max(1, math.Min(100, math.Round(q*100))))
}

var pageObject = regexp.MustCompile(`/Type\s*/Page([^s]|$)`)

// pdfPageCount counts page objects in a PDF. It is used for result metadata
// only.
func pdfPageCount(pdf []byte) int {
	return max(1, len(pageObject.FindAllIndex(pdf, -1)))
}
