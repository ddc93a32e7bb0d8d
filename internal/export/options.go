package export

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/resume-studio/internal/types"
)

// Page formats and orientations.
const (
	FormatA4     = "a4"
	FormatLetter = "letter"

	OrientationPortrait  = "portrait"
	OrientationLandscape = "landscape"
)

// DefaultQuality is the JPEG quality factor used when Options.Quality is zero.
const DefaultQuality = 0.95

const mmPerInch = 25.4

// cssPixelsPerInch is the CSS reference pixel density.
const cssPixelsPerInch = 96

// PageSize is a physical page in millimetres.
type PageSize struct {
	Name     string  `json:"name"`
	WidthMM  float64 `json:"widthMm"`
	HeightMM float64 `json:"heightMm"`
}

var pageSizes = map[string]PageSize{
	FormatA4:     {Name: FormatA4, WidthMM: 210, HeightMM: 297},
	FormatLetter: {Name: FormatLetter, WidthMM: 215.9, HeightMM: 279.4},
}

// LookupPageSize returns the portrait size of a format.
func LookupPageSize(format string) (PageSize, bool) {
	p, ok := pageSizes[strings.ToLower(format)]
	return p, ok
}

// Oriented returns p rotated for orientation.
func (p PageSize) Oriented(orientation string) PageSize {
	if orientation == OrientationLandscape {
		p.WidthMM, p.HeightMM = p.HeightMM, p.WidthMM
	}
	return p
}

// WidthCSSPixels is the page width at 96 CSS pixels per inch.
func (p PageSize) WidthCSSPixels() int64 {
	return int64(p.WidthMM/mmPerInch*cssPixelsPerInch + 0.5)
}

// HeightCSSPixels is the page height at 96 CSS pixels per inch.
func (p PageSize) HeightCSSPixels() int64 {
	return int64(p.HeightMM/mmPerInch*cssPixelsPerInch + 0.5)
}

// WidthInches is the page width in inches.
func (p PageSize) WidthInches() float64 { return p.WidthMM / mmPerInch }

// HeightInches is the page height in inches.
func (p PageSize) HeightInches() float64 { return p.HeightMM / mmPerInch }

// Options controls a PDF export. Zero values take defaults.
type Options struct {
	Filename    string  `json:"filename,omitempty" validate:"omitempty,max=200"`
	Quality     float64 `json:"quality,omitempty" validate:"gte=0,lte=1"`
	Format      string  `json:"format,omitempty" validate:"omitempty,oneof=a4 letter"`
	Orientation string  `json:"orientation,omitempty" validate:"omitempty,oneof=portrait landscape"`
}

var validate = validator.New()

// OptionsError reports invalid export options.
type OptionsError struct {
	Fields []string
}

func (e *OptionsError) Error() string {
	return "invalid export options: " + strings.Join(e.Fields, "; ")
}

// WithDefaults validates o and fills defaults.
func (o Options) WithDefaults() (Options, error) {
	if err := validate.Struct(o); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return o, fmt.Errorf("invalid export options: %w", err)
		}
		oe := &OptionsError{}
		for _, fe := range verrs {
			oe.Fields = append(oe.Fields, fmt.Sprintf("%s failed %q (value %v)", fe.Field(), fe.Tag(), fe.Value()))
		}
		return o, oe
	}

	if o.Quality == 0 {
		o.Quality = DefaultQuality
	}
	if o.Format == "" {
		o.Format = FormatA4
	}
	if o.Orientation == "" {
		o.Orientation = OrientationPortrait
	}
	return o, nil
}

// Inherit fills the unset format, quality and orientation of o from base.
func (o Options) Inherit(base Options) Options {
	if o.Format == "" {
		o.Format = base.Format
	}
	if o.Quality == 0 {
		o.Quality = base.Quality
	}
	if o.Orientation == "" {
		o.Orientation = base.Orientation
	}
	return o
}

// Page returns the oriented page size for o.
func (o Options) Page() PageSize {
	p, ok := LookupPageSize(o.Format)
	if !ok {
		p = pageSizes[FormatA4]
	}
	return p.Oriented(o.Orientation)
}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// DefaultFilename derives {firstName}_{lastName}_{templateName}.pdf.
// Spaces become underscores and other unsafe characters are dropped.
func DefaultFilename(p types.PersonalInfo, templateName string) string {
	parts := make([]string, 0, 3)
	for _, s := range []string{p.FirstName, p.LastName, templateName} {
		s = strings.Join(strings.Fields(s), "_")
		s = unsafeFilenameChars.ReplaceAllString(s, "")
		if s != "" {
			parts = append(parts, s)
		}
	}
	if len(parts) == 0 {
		return "resume.pdf"
	}
	return strings.Join(parts, "_") + ".pdf"
}

// SanitizeFilename makes a caller-supplied filename safe and ensures a .pdf
// extension.
func SanitizeFilename(name string) string {
	name = strings.TrimSuffix(strings.TrimSpace(name), ".pdf")
	name = strings.Join(strings.Fields(name), "_")
	name = unsafeFilenameChars.ReplaceAllString(name, "")
	if name == "" {
		return "resume.pdf"
	}
	return name + ".pdf"
}
