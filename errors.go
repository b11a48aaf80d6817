package mdstudio

import "errors"

// Sentinel errors for library operations.
var (
	ErrEmptyContent        = errors.New("document content cannot be empty")
	ErrHTMLConversion      = errors.New("HTML conversion failed")
	ErrPDFGeneration       = errors.New("PDF generation failed")
	ErrDOCXGeneration      = errors.New("DOCX generation failed")
	ErrExporterUnavailable = errors.New("export backend unavailable")
	ErrBrowserConnect      = errors.New("failed to connect to browser")
	ErrPageCreate          = errors.New("failed to create browser page")
	ErrPageLoad            = errors.New("failed to load page")

	// Document settings validation errors.
	ErrInvalidPageSize    = errors.New("invalid page size")
	ErrInvalidOrientation = errors.New("invalid orientation")
	ErrInvalidMargin      = errors.New("invalid margin")
	ErrInvalidFontSize    = errors.New("invalid editor font size")
	ErrInvalidQuality     = errors.New("invalid image quality")
	ErrUnknownTemplate    = errors.New("unknown style template")

	// Preset errors.
	ErrEmptyPresetContent = errors.New("preset content cannot be empty or whitespace")
	ErrEmptyPresetName    = errors.New("preset name cannot be empty")
	ErrPresetNotFound     = errors.New("preset not found")

	// Persistence errors.
	ErrStateNotFound = errors.New("no persisted state under key")
	ErrStateDecode   = errors.New("persisted state is malformed")
)
