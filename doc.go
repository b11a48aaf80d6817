// Package mdstudio implements the core of a local Markdown/LaTeX studio:
// a plain-text editor with live preview, bounded undo/redo history,
// bidirectional editor/preview scroll synchronization, click-to-sync
// position mapping over source-line annotations, reusable text presets,
// and export to Markdown, HTML, PDF (headless Chrome) and DOCX.
//
// The package is UI-agnostic. Scroll and position mapping operate on plain
// numeric pane geometry so they can be driven by any rendering surface;
// the bundled browser front end (internal/assets) is one thin adapter.
package mdstudio
