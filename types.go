package mdstudio

import (
	"fmt"
	"strings"
)

// Page size constants.
const (
	PageSizeLetter = "letter"
	PageSizeA4     = "a4"
	PageSizeLegal  = "legal"
)

// Orientation constants.
const (
	OrientationPortrait  = "portrait"
	OrientationLandscape = "landscape"
)

// Margin bounds in inches.
const (
	MinMargin     = 0.25
	MaxMargin     = 3.0
	DefaultMargin = 0.5
)

// Image quality bounds for PDF export (percent).
const (
	MinImageQuality     = 1
	MaxImageQuality     = 100
	DefaultImageQuality = 98
)

// Style template identifiers shipped in internal/assets.
const (
	TemplateDefault = "default"
	TemplateSerif   = "serif"
	TemplateDark    = "dark"
)

// pageDimensions holds paper width and height in inches (portrait).
type pageDimensions struct {
	width  float64
	height float64
}

// pageSizes maps a page size identifier to its portrait dimensions.
var pageSizes = map[string]pageDimensions{
	PageSizeLetter: {width: 8.5, height: 11},
	PageSizeA4:     {width: 8.27, height: 11.69},
	PageSizeLegal:  {width: 8.5, height: 14},
}

// editorLineHeights maps an editor font size (px) to the fixed line height
// (px) used by the preview-to-editor offset estimate. The values mirror the
// editor stylesheet; they are a lookup, not a measurement.
var editorLineHeights = map[int]float64{
	12: 20,
	14: 23,
	16: 27,
	18: 30,
	20: 34,
}

// DefaultFontSize is the editor font size used when none is configured.
const DefaultFontSize = 16

// EditorLineHeight returns the fixed pixel line height for an editor font
// size. Unknown sizes fall back to the default size's line height.
func EditorLineHeight(fontSize int) float64 {
	if h, ok := editorLineHeights[fontSize]; ok {
		return h
	}
	return editorLineHeights[DefaultFontSize]
}

// PDFSettings configures PDF export.
type PDFSettings struct {
	Orientation   string  `json:"orientation"`   // "portrait", "landscape"
	Margin        float64 `json:"margin"`        // inches, applied to all sides
	TextFont      string  `json:"textFont"`      // body font family
	MathFont      string  `json:"mathFont"`      // math font family
	OverrideFonts bool    `json:"overrideFonts"` // apply TextFont/MathFont over the template
	ImageQuality  int     `json:"imageQuality"`  // percent, 1-100
}

// DefaultPDFSettings returns PDF settings with default values.
func DefaultPDFSettings() PDFSettings {
	return PDFSettings{
		Orientation:   OrientationPortrait,
		Margin:        DefaultMargin,
		TextFont:      "Georgia, serif",
		MathFont:      "STIX Two Math, serif",
		OverrideFonts: false,
		ImageQuality:  DefaultImageQuality,
	}
}

// Validate checks that PDF settings are valid.
func (p PDFSettings) Validate() error {
	if !isValidOrientation(p.Orientation) {
		return fmt.Errorf("%w: %q", ErrInvalidOrientation, p.Orientation)
	}
	if p.Margin < MinMargin || p.Margin > MaxMargin {
		return fmt.Errorf("%w: %.2f (must be between %.2f and %.2f)", ErrInvalidMargin, p.Margin, MinMargin, MaxMargin)
	}
	if p.ImageQuality < MinImageQuality || p.ImageQuality > MaxImageQuality {
		return fmt.Errorf("%w: %d (must be between %d and %d)", ErrInvalidQuality, p.ImageQuality, MinImageQuality, MaxImageQuality)
	}
	return nil
}

// Document is the single mutable document of a session.
type Document struct {
	Title    string      `json:"title"`
	Content  string      `json:"content"`
	PageSize string      `json:"pageSize"` // "letter", "a4", "legal"
	Template string      `json:"template"` // style template identifier
	FontSize int         `json:"fontSize"` // editor font size in px
	PDF      PDFSettings `json:"pdf"`
}

// DefaultDocument returns a new untitled document with default settings.
func DefaultDocument() Document {
	return Document{
		Title:    "Untitled",
		Content:  "",
		PageSize: PageSizeA4,
		Template: TemplateDefault,
		FontSize: DefaultFontSize,
		PDF:      DefaultPDFSettings(),
	}
}

// Validate checks that document settings are valid.
// Content may be empty; an empty document is a legal editing state.
func (d Document) Validate() error {
	if !isValidPageSize(d.PageSize) {
		return fmt.Errorf("%w: %q", ErrInvalidPageSize, d.PageSize)
	}
	if _, ok := editorLineHeights[d.FontSize]; !ok {
		return fmt.Errorf("%w: %d", ErrInvalidFontSize, d.FontSize)
	}
	if !isValidTemplate(d.Template) {
		return fmt.Errorf("%w: %q", ErrUnknownTemplate, d.Template)
	}
	return d.PDF.Validate()
}

// isValidPageSize checks if size is a known page size (case-insensitive).
func isValidPageSize(size string) bool {
	_, ok := pageSizes[strings.ToLower(size)]
	return ok
}

// isValidOrientation checks if orientation is valid (case-insensitive).
func isValidOrientation(orientation string) bool {
	switch strings.ToLower(orientation) {
	case OrientationPortrait, OrientationLandscape:
		return true
	}
	return false
}

// isValidTemplate checks if the style template identifier is known.
func isValidTemplate(name string) bool {
	switch name {
	case TemplateDefault, TemplateSerif, TemplateDark:
		return true
	}
	return false
}

// paperSize resolves the printable page dimensions in inches, swapping
// width and height for landscape orientation.
func paperSize(size, orientation string) (width, height float64) {
	dim, ok := pageSizes[strings.ToLower(size)]
	if !ok {
		dim = pageSizes[PageSizeLetter]
	}
	if strings.ToLower(orientation) == OrientationLandscape {
		return dim.height, dim.width
	}
	return dim.width, dim.height
}
