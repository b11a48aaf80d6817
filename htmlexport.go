package mdstudio

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/avasseur/mdstudio/internal/assets"
)

// htmlShell wraps a rendered fragment in a complete HTML5 document.
const htmlShell = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
</head>
<body>
<main class="document">
%s
</main>
</body>
</html>`

// cssInjector defines the contract for CSS injection into HTML.
type cssInjector interface {
	InjectCSS(ctx context.Context, htmlContent, cssContent string) string
}

// cssInjection injects CSS as a <style> block into HTML content.
type cssInjection struct{}

var _ cssInjector = (*cssInjection)(nil)

// InjectCSS inserts a <style> block into HTML content.
// Tries </head> first, then <body>, then prepends to the HTML.
// CSS content is sanitized to prevent injection attacks.
func (s *cssInjection) InjectCSS(ctx context.Context, htmlContent, cssContent string) string {
	if cssContent == "" {
		return htmlContent
	}

	// Check for cancellation
	if ctx.Err() != nil {
		return htmlContent
	}

	sanitizedCSS := sanitizeCSS(cssContent)
	styleBlock := "<style>" + sanitizedCSS + "</style>"
	lowerHTML := strings.ToLower(htmlContent)

	// Try inserting before </head>
	if idx := strings.Index(lowerHTML, "</head>"); idx != -1 {
		return htmlContent[:idx] + styleBlock + htmlContent[idx:]
	}

	// Try inserting after <body>
	if idx := strings.Index(lowerHTML, "<body"); idx != -1 {
		closeIdx := strings.Index(htmlContent[idx:], ">")
		if closeIdx != -1 {
			insertPos := idx + closeIdx + 1
			return htmlContent[:insertPos] + styleBlock + htmlContent[insertPos:]
		}
	}

	// Fallback: prepend
	return styleBlock + htmlContent
}

// sanitizeCSS escapes sequences that could break out of a <style> block.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}

// buildDocumentCSS composes the stylesheet for a standalone export: the
// document's theme template, print protection rules, and the PDF font
// overrides when enabled.
func buildDocumentCSS(doc Document) (string, error) {
	theme, err := assets.LoadStyle(doc.Template)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnknownTemplate, err)
	}

	var buf strings.Builder
	buf.WriteString(theme)
	buf.WriteString(printProtectionCSS)

	if doc.PDF.OverrideFonts {
		buf.WriteString(fmt.Sprintf(`
/* Font overrides */
body { font-family: %s; }
math, .math-block { font-family: %s; }
`, cssFontValue(doc.PDF.TextFont), cssFontValue(doc.PDF.MathFont)))
	}

	return buf.String(), nil
}

// printProtectionCSS keeps headings attached to their content across page
// breaks in paged output.
const printProtectionCSS = `
/* Page breaks: prevent heading alone at page bottom */
h1, h2, h3, h4, h5, h6 {
  break-after: avoid;
  page-break-after: avoid;
  break-inside: avoid;
  page-break-inside: avoid;
}
`

// cssFontValue strips characters that could terminate the declaration.
func cssFontValue(font string) string {
	font = strings.ReplaceAll(font, ";", "")
	font = strings.ReplaceAll(font, "}", "")
	return strings.TrimSpace(font)
}

// buildStandaloneHTML wraps a rendered fragment with the document's
// stylesheet into a self-contained HTML document.
func buildStandaloneHTML(ctx context.Context, injector cssInjector, doc Document, fragment string) (string, error) {
	css, err := buildDocumentCSS(doc)
	if err != nil {
		return "", err
	}
	page := fmt.Sprintf(htmlShell, html.EscapeString(doc.Title), fragment)
	return injector.InjectCSS(ctx, page, css), nil
}
