package mdstudio

import (
	"context"
	"fmt"
	"time"
)

// defaultTimeout bounds a single PDF conversion.
const defaultTimeout = 30 * time.Second

// serviceConfig holds internal configuration for Service.
type serviceConfig struct {
	timeout time.Duration
}

// Option configures a Service.
type Option func(*Service)

// WithTimeout sets the PDF conversion timeout.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("mdstudio: WithTimeout duration must be positive")
	}
	return func(s *Service) {
		s.cfg.timeout = d
	}
}

// Service orchestrates rendering and the export pipeline.
type Service struct {
	cfg           serviceConfig
	renderer      previewRenderer
	cssInjector   cssInjector
	pdfConverter  pdfConverter
	docxConverter docxConverter
}

// New creates a Service with default configuration.
// Use options to customize behavior (e.g., WithTimeout).
func New(opts ...Option) *Service {
	s := &Service{
		cfg:           serviceConfig{timeout: defaultTimeout},
		renderer:      newGoldmarkRenderer(),
		cssInjector:   &cssInjection{},
		docxConverter: &goDocxConverter{},
	}

	for _, opt := range opts {
		opt(s)
	}

	// Create PDF converter if not injected (e.g., by tests)
	if s.pdfConverter == nil {
		s.pdfConverter = newRodConverter(s.cfg.timeout)
	}

	return s
}

// Render produces the annotated preview fragment for the document content.
// The context is used for cancellation.
func (s *Service) Render(ctx context.Context, content string) (*RenderResult, error) {
	return s.renderer.Render(ctx, content)
}

// ExportMarkdown serializes the current source text verbatim.
func (s *Service) ExportMarkdown(doc Document) []byte {
	return []byte(doc.Content)
}

// ExportHTML renders the document into a standalone HTML file with the
// theme stylesheet inlined.
func (s *Service) ExportHTML(ctx context.Context, doc Document) ([]byte, error) {
	if err := s.validateExport(doc); err != nil {
		return nil, err
	}

	res, err := s.renderer.Render(ctx, doc.Content)
	if err != nil {
		return nil, fmt.Errorf("rendering document: %w", err)
	}

	page, err := buildStandaloneHTML(ctx, s.cssInjector, doc, res.HTML)
	if err != nil {
		return nil, err
	}
	return []byte(page), nil
}

// ExportPDF renders the document and prints it to PDF via headless Chrome
// using the document's page settings. A browser failure surfaces as a
// single ErrExporterUnavailable-wrapped error; the operation is not retried.
func (s *Service) ExportPDF(ctx context.Context, doc Document) ([]byte, error) {
	page, err := s.ExportHTML(ctx, doc)
	if err != nil {
		return nil, err
	}

	pdfBytes, err := s.pdfConverter.ToPDF(ctx, string(page), pdfOptionsFor(doc))
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %v", ErrExporterUnavailable, err)
	}
	return pdfBytes, nil
}

// ExportDOCX renders the document and converts the fragment to DOCX.
func (s *Service) ExportDOCX(ctx context.Context, doc Document) ([]byte, error) {
	if err := s.validateExport(doc); err != nil {
		return nil, err
	}

	res, err := s.renderer.Render(ctx, doc.Content)
	if err != nil {
		return nil, fmt.Errorf("rendering document: %w", err)
	}

	docxBytes, err := s.docxConverter.FromHTML(ctx, res.HTML)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %v", ErrExporterUnavailable, err)
	}
	return docxBytes, nil
}

// Close releases resources (headless Chrome browser).
func (s *Service) Close() error {
	if s.pdfConverter != nil {
		return s.pdfConverter.Close()
	}
	return nil
}

// validateExport checks that the document can be exported.
func (s *Service) validateExport(doc Document) error {
	if doc.Content == "" {
		return ErrEmptyContent
	}
	return doc.Validate()
}
