package mdstudio

import "sync"

// minScrollDelta is the jitter threshold in pixels: propagated updates
// smaller than this are suppressed so floating-point rounding cannot echo
// between the panes.
const minScrollDelta = 2.0

// PaneID identifies one of the two synchronized panes.
type PaneID string

// Pane identifiers.
const (
	PaneEditor  PaneID = "editor"
	PanePreview PaneID = "preview"
)

// Pane is the scroll geometry of one pane, in pixels.
type Pane struct {
	ScrollTop    float64 `json:"scrollTop"`
	ScrollHeight float64 `json:"scrollHeight"`
	ClientHeight float64 `json:"clientHeight"`
}

// ScrollRatio returns the relative scroll position of a pane in [0, 1].
// When the content fits without scrolling (scrollHeight <= clientHeight)
// the ratio is defined as 0 rather than NaN.
func ScrollRatio(top, scrollHeight, clientHeight float64) float64 {
	span := scrollHeight - clientHeight
	if span <= 0 {
		return 0
	}
	ratio := top / span
	if ratio < 0 {
		return 0
	}
	if ratio > 1 {
		return 1
	}
	return ratio
}

// ScrollTarget converts a relative scroll position back to a scrollTop for
// a pane. A pane whose content fits without scrolling yields 0.
func ScrollTarget(ratio, scrollHeight, clientHeight float64) float64 {
	span := scrollHeight - clientHeight
	if span <= 0 {
		return 0
	}
	return ratio * span
}

// ViewMode is the pane layout of the studio.
type ViewMode string

// View modes.
const (
	ViewSplit   ViewMode = "split"   // editor and preview side by side
	ViewEditor  ViewMode = "editor"  // editor only
	ViewPreview ViewMode = "preview" // preview only
)

// Synchronizer keeps two panes' viewports aligned by relative position.
//
// It is active only in side-by-side view and only while click-to-sync is
// disengaged; the two mechanisms write the same scroll positions and are
// mutually exclusive to avoid feedback loops. A reentrancy guard drops the
// scroll event produced by the Synchronizer's own propagation.
type Synchronizer struct {
	mu          sync.Mutex
	view        ViewMode
	clickToSync bool
	pending     PaneID // pane whose next scroll event is our own echo
}

// NewSynchronizer creates a Synchronizer in split view.
func NewSynchronizer() *Synchronizer {
	return &Synchronizer{view: ViewSplit}
}

// SetView sets the pane layout.
func (s *Synchronizer) SetView(mode ViewMode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view = mode
	s.pending = ""
}

// SetClickToSync toggles click-to-sync mode, which suspends proportional
// scroll propagation while engaged.
func (s *Synchronizer) SetClickToSync(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clickToSync = active
	s.pending = ""
}

// ClickToSync reports whether click-to-sync mode is engaged.
func (s *Synchronizer) ClickToSync() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clickToSync
}

// Propagate handles a scroll event on origin and returns the scrollTop the
// counterpart pane should adopt. ok is false when nothing must move: sync
// is inactive for the current mode, the event is the echo of a propagation
// we issued ourselves, or the change is below the jitter threshold.
func (s *Synchronizer) Propagate(origin PaneID, from, to Pane) (target float64, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.view != ViewSplit || s.clickToSync {
		return 0, false
	}

	// Swallow the echo of our own programmatic scroll.
	if s.pending == origin {
		s.pending = ""
		return 0, false
	}

	ratio := ScrollRatio(from.ScrollTop, from.ScrollHeight, from.ClientHeight)
	target = ScrollTarget(ratio, to.ScrollHeight, to.ClientHeight)

	delta := target - to.ScrollTop
	if delta < 0 {
		delta = -delta
	}
	if delta < minScrollDelta {
		return 0, false
	}

	s.pending = counterpart(origin)
	return target, true
}

// counterpart returns the other pane.
func counterpart(id PaneID) PaneID {
	if id == PaneEditor {
		return PanePreview
	}
	return PaneEditor
}
