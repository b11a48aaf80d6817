package mdstudio

import (
	"errors"
	"testing"
)

func TestDocumentValidate(t *testing.T) {
	valid := DefaultDocument()
	valid.Content = "# Hello"

	tests := []struct {
		name    string
		mutate  func(*Document)
		wantErr error
	}{
		{"default document", func(d *Document) {}, nil},
		{"empty content is legal", func(d *Document) { d.Content = "" }, nil},
		{"unknown page size", func(d *Document) { d.PageSize = "tabloid" }, ErrInvalidPageSize},
		{"unknown font size", func(d *Document) { d.FontSize = 13 }, ErrInvalidFontSize},
		{"unknown template", func(d *Document) { d.Template = "neon" }, ErrUnknownTemplate},
		{"bad orientation", func(d *Document) { d.PDF.Orientation = "diagonal" }, ErrInvalidOrientation},
		{"margin too small", func(d *Document) { d.PDF.Margin = 0.1 }, ErrInvalidMargin},
		{"margin too large", func(d *Document) { d.PDF.Margin = 4 }, ErrInvalidMargin},
		{"quality too low", func(d *Document) { d.PDF.ImageQuality = 0 }, ErrInvalidQuality},
		{"quality too high", func(d *Document) { d.PDF.ImageQuality = 101 }, ErrInvalidQuality},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := valid
			tt.mutate(&doc)
			err := doc.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestPaperSize(t *testing.T) {
	tests := []struct {
		name              string
		size, orientation string
		wantW, wantH      float64
	}{
		{"a4 portrait", "a4", "portrait", 8.27, 11.69},
		{"a4 landscape swaps", "a4", "landscape", 11.69, 8.27},
		{"letter case-insensitive", "Letter", "Portrait", 8.5, 11},
		{"legal", "legal", "portrait", 8.5, 14},
		{"unknown falls back to letter", "tabloid", "portrait", 8.5, 11},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := paperSize(tt.size, tt.orientation)
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("paperSize(%q, %q) = %v x %v, want %v x %v",
					tt.size, tt.orientation, w, h, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestEditorLineHeight(t *testing.T) {
	if got := EditorLineHeight(14); got != 23 {
		t.Errorf("EditorLineHeight(14) = %v, want 23", got)
	}
	if got := EditorLineHeight(99); got != EditorLineHeight(DefaultFontSize) {
		t.Errorf("EditorLineHeight(99) = %v, want default fallback", got)
	}
}
