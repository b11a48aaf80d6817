package mdstudio

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// Mock implementations for testing.

type mockRenderer struct {
	called bool
	input  string
	result *RenderResult
	err    error
}

func (m *mockRenderer) Render(ctx context.Context, content string) (*RenderResult, error) {
	m.called = true
	m.input = content
	if m.err != nil {
		return nil, m.err
	}
	if m.result != nil {
		return m.result, nil
	}
	return &RenderResult{HTML: "<p>" + content + "</p>", Lines: []int{1}}, nil
}

type mockPDFConverter struct {
	called    bool
	inputHTML string
	inputOpts *pdfOptions
	output    []byte
	err       error
}

func (m *mockPDFConverter) ToPDF(ctx context.Context, htmlContent string, opts *pdfOptions) ([]byte, error) {
	m.called = true
	m.inputHTML = htmlContent
	m.inputOpts = opts
	if m.err != nil {
		return nil, m.err
	}
	if m.output != nil {
		return m.output, nil
	}
	return []byte("%PDF-1.4 mock"), nil
}

func (m *mockPDFConverter) Close() error {
	return nil
}

type mockDOCXConverter struct {
	called        bool
	inputFragment string
	output        []byte
	err           error
}

func (m *mockDOCXConverter) FromHTML(ctx context.Context, fragment string) ([]byte, error) {
	m.called = true
	m.inputFragment = fragment
	if m.err != nil {
		return nil, m.err
	}
	if m.output != nil {
		return m.output, nil
	}
	return []byte("PK mock docx"), nil
}

// Test options for dependency injection (not exported).

func withRenderer(r previewRenderer) Option {
	return func(s *Service) {
		s.renderer = r
	}
}

func withPDFConverter(c pdfConverter) Option {
	return func(s *Service) {
		s.pdfConverter = c
	}
}

func withDOCXConverter(c docxConverter) Option {
	return func(s *Service) {
		s.docxConverter = c
	}
}

func testDocument(content string) Document {
	doc := DefaultDocument()
	doc.Title = "Test Doc"
	doc.Content = content
	return doc
}

func TestExportMarkdown(t *testing.T) {
	service := New(withPDFConverter(&mockPDFConverter{}))
	defer service.Close()

	doc := testDocument("# Raw\r\nkept ==verbatim==")
	got := service.ExportMarkdown(doc)

	if string(got) != doc.Content {
		t.Errorf("ExportMarkdown() = %q, want source text verbatim", got)
	}
}

func TestExportHTML_Success(t *testing.T) {
	renderer := &mockRenderer{result: &RenderResult{HTML: "<p>fragment</p>", Lines: []int{1}}}
	service := New(withRenderer(renderer), withPDFConverter(&mockPDFConverter{}))
	defer service.Close()

	page, err := service.ExportHTML(context.Background(), testDocument("# Hello"))
	if err != nil {
		t.Fatalf("ExportHTML() unexpected error: %v", err)
	}

	html := string(page)
	if !renderer.called {
		t.Error("renderer was not called")
	}
	if renderer.input != "# Hello" {
		t.Errorf("renderer input = %q, want %q", renderer.input, "# Hello")
	}
	for _, want := range []string{"<!DOCTYPE html>", "<p>fragment</p>", "<style>", "<title>Test Doc</title>"} {
		if !strings.Contains(html, want) {
			t.Errorf("ExportHTML() missing %q", want)
		}
	}
}

func TestExportHTML_EscapesTitle(t *testing.T) {
	service := New(withRenderer(&mockRenderer{}), withPDFConverter(&mockPDFConverter{}))
	defer service.Close()

	doc := testDocument("body")
	doc.Title = "<script>alert(1)</script>"

	page, err := service.ExportHTML(context.Background(), doc)
	if err != nil {
		t.Fatalf("ExportHTML() unexpected error: %v", err)
	}
	if strings.Contains(string(page), "<script>alert(1)</script>") {
		t.Error("ExportHTML() left title unescaped")
	}
}

func TestExportHTML_EmptyContent(t *testing.T) {
	service := New(withRenderer(&mockRenderer{}), withPDFConverter(&mockPDFConverter{}))
	defer service.Close()

	_, err := service.ExportHTML(context.Background(), testDocument(""))
	if !errors.Is(err, ErrEmptyContent) {
		t.Errorf("ExportHTML() error = %v, want ErrEmptyContent", err)
	}
}

func TestExportHTML_InvalidSettings(t *testing.T) {
	service := New(withRenderer(&mockRenderer{}), withPDFConverter(&mockPDFConverter{}))
	defer service.Close()

	doc := testDocument("# Hello")
	doc.PageSize = "tabloid"

	_, err := service.ExportHTML(context.Background(), doc)
	if !errors.Is(err, ErrInvalidPageSize) {
		t.Errorf("ExportHTML() error = %v, want ErrInvalidPageSize", err)
	}
}

func TestExportPDF_Success(t *testing.T) {
	renderer := &mockRenderer{result: &RenderResult{HTML: "<p>fragment</p>"}}
	pdfConv := &mockPDFConverter{output: []byte("%PDF-1.4 test")}
	service := New(withRenderer(renderer), withPDFConverter(pdfConv))
	defer service.Close()

	doc := testDocument("# Hello")
	doc.PageSize = PageSizeLegal
	doc.PDF.Orientation = OrientationLandscape
	doc.PDF.Margin = 1.0

	result, err := service.ExportPDF(context.Background(), doc)
	if err != nil {
		t.Fatalf("ExportPDF() unexpected error: %v", err)
	}
	if string(result) != "%PDF-1.4 test" {
		t.Errorf("ExportPDF() result = %q, want %q", result, "%PDF-1.4 test")
	}

	if !pdfConv.called {
		t.Fatal("pdfConverter was not called")
	}
	if !strings.Contains(pdfConv.inputHTML, "<p>fragment</p>") {
		t.Error("pdfConverter did not receive the rendered page")
	}
	if pdfConv.inputOpts.PageSize != PageSizeLegal {
		t.Errorf("pdfOptions.PageSize = %q, want %q", pdfConv.inputOpts.PageSize, PageSizeLegal)
	}
	if pdfConv.inputOpts.Orientation != OrientationLandscape {
		t.Errorf("pdfOptions.Orientation = %q, want %q", pdfConv.inputOpts.Orientation, OrientationLandscape)
	}
	if pdfConv.inputOpts.Margin != 1.0 {
		t.Errorf("pdfOptions.Margin = %v, want 1.0", pdfConv.inputOpts.Margin)
	}
}

func TestExportPDF_ConverterError(t *testing.T) {
	pdfConv := &mockPDFConverter{err: errors.New("chrome crashed")}
	service := New(withRenderer(&mockRenderer{}), withPDFConverter(pdfConv))
	defer service.Close()

	_, err := service.ExportPDF(context.Background(), testDocument("# Hello"))
	if !errors.Is(err, ErrExporterUnavailable) {
		t.Errorf("ExportPDF() error = %v, want ErrExporterUnavailable", err)
	}
}

func TestExportDOCX_Success(t *testing.T) {
	renderer := &mockRenderer{result: &RenderResult{HTML: "<h1>Title</h1>"}}
	docxConv := &mockDOCXConverter{output: []byte("PK docx bytes")}
	service := New(withRenderer(renderer), withDOCXConverter(docxConv), withPDFConverter(&mockPDFConverter{}))
	defer service.Close()

	result, err := service.ExportDOCX(context.Background(), testDocument("# Title"))
	if err != nil {
		t.Fatalf("ExportDOCX() unexpected error: %v", err)
	}
	if string(result) != "PK docx bytes" {
		t.Errorf("ExportDOCX() result = %q, want %q", result, "PK docx bytes")
	}
	if docxConv.inputFragment != "<h1>Title</h1>" {
		t.Errorf("docxConverter input = %q, want rendered fragment", docxConv.inputFragment)
	}
}

func TestExportDOCX_ConverterError(t *testing.T) {
	docxConv := &mockDOCXConverter{err: errors.New("zip failed")}
	service := New(withRenderer(&mockRenderer{}), withDOCXConverter(docxConv), withPDFConverter(&mockPDFConverter{}))
	defer service.Close()

	_, err := service.ExportDOCX(context.Background(), testDocument("# Hello"))
	if !errors.Is(err, ErrExporterUnavailable) {
		t.Errorf("ExportDOCX() error = %v, want ErrExporterUnavailable", err)
	}
}

func TestExportRenderError(t *testing.T) {
	renderer := &mockRenderer{err: errors.New("parse exploded")}
	service := New(withRenderer(renderer), withPDFConverter(&mockPDFConverter{}))
	defer service.Close()

	if _, err := service.ExportHTML(context.Background(), testDocument("# x")); err == nil {
		t.Error("ExportHTML() with failing renderer = nil error")
	}
}
