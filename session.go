package mdstudio

import (
	"fmt"
	"sync"
	"time"
)

// DefaultAutosaveWindow is the quiescence window for persisting the
// document after an edit burst.
const DefaultAutosaveWindow = time.Second

// savedIndicatorDuration is how long the "saved" indicator stays up before
// clearing back to idle.
const savedIndicatorDuration = 2 * time.Second

// SaveStatus is the autosave indicator state.
type SaveStatus string

// Save status values.
const (
	SaveStatusIdle  SaveStatus = "idle"
	SaveStatusDirty SaveStatus = "unsaved"
	SaveStatusSaved SaveStatus = "saved"
	SaveStatusError SaveStatus = "error"
)

// Session owns the single mutable document of one editing session, its
// undo history, the pane synchronization state and the preset collection,
// and persists document and presets through a Store.
//
// Timers follow cancel-and-reschedule semantics: a new edit cancels the
// pending history commit and autosave and starts fresh ones, so only the
// state after a quiescent period is committed. Close cancels everything so
// no write can land after teardown.
type Session struct {
	mu        sync.Mutex
	doc       Document
	rec       *Recorder
	store     Store
	presets   []Preset
	sync      *Synchronizer
	lineIndex *LineIndex
	status    SaveStatus

	saveWindow   time.Duration
	schedule     scheduleFunc
	cancelSave   func()
	cancelStatus func()
	saveGen      uint64
	closed       bool
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithAutosaveWindow overrides the autosave quiescence window.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithAutosaveWindow(d time.Duration) SessionOption {
	if d <= 0 {
		panic("mdstudio: WithAutosaveWindow duration must be positive")
	}
	return func(s *Session) {
		s.saveWindow = d
	}
}

// withSessionScheduler injects a scheduler for session timers, used by
// tests to drive a logical clock.
func withSessionScheduler(fn scheduleFunc) SessionOption {
	return func(s *Session) {
		s.schedule = fn
	}
}

// NewSession loads persisted state from store, falling back to defaults
// when state is missing or malformed (best-effort startup, never fails on
// corrupt data).
func NewSession(store Store, opts ...SessionOption) *Session {
	s := &Session{
		store:      store,
		sync:       NewSynchronizer(),
		lineIndex:  NewLineIndex(nil),
		status:     SaveStatusIdle,
		saveWindow: DefaultAutosaveWindow,
		schedule:   afterFuncSchedule,
	}
	for _, opt := range opts {
		opt(s)
	}

	doc := DefaultDocument()
	if err := store.Load(StateKeyDocument, &doc); err != nil || doc.Validate() != nil {
		doc = DefaultDocument()
	}
	s.doc = doc

	var presets []Preset
	if err := store.Load(StateKeyPresets, &presets); err != nil {
		presets = nil
	}
	s.presets = presets

	s.rec = NewRecorder(NewHistory(doc.Content), withScheduler(s.schedule))
	return s
}

// Document returns a copy of the current document.
func (s *Session) Document() Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc
}

// Status returns the autosave indicator state.
func (s *Session) Status() SaveStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// SetContent applies an edit to the document text. The history snapshot is
// debounced so a typing burst coalesces into a single undo step.
func (s *Session) SetContent(content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.doc.Content = content
	s.rec.Record(content, false)
	s.scheduleSaveLocked()
}

// InsertContent applies a discrete toolbar-triggered insertion. It commits
// to history immediately so the insertion stays independently undoable even
// inside a typing burst.
func (s *Session) InsertContent(content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.doc.Content = content
	s.rec.Record(content, true)
	s.scheduleSaveLocked()
}

// ApplySettings updates the document's settings (everything but Content)
// after validation.
func (s *Session) ApplySettings(d Document) error {
	d.Content = "" // validated fields only
	if err := d.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.doc.Title = d.Title
	s.doc.PageSize = d.PageSize
	s.doc.Template = d.Template
	s.doc.FontSize = d.FontSize
	s.doc.PDF = d.PDF
	s.scheduleSaveLocked()
	return nil
}

// Undo steps the document back one history snapshot. The pending debounced
// commit is cancelled first so a stale timer cannot overwrite the undo.
func (s *Session) Undo() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	content, ok := s.rec.Undo()
	if !ok || s.closed {
		return "", false
	}
	s.doc.Content = content
	s.scheduleSaveLocked()
	return content, true
}

// Redo steps the document forward one history snapshot.
func (s *Session) Redo() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	content, ok := s.rec.Redo()
	if !ok || s.closed {
		return "", false
	}
	s.doc.Content = content
	s.scheduleSaveLocked()
	return content, true
}

// AddPreset creates a preset from an editor selection and persists the
// collection. A whitespace-only selection is rejected without modifying
// the collection.
func (s *Session) AddPreset(name, content string) (Preset, error) {
	p, err := NewPreset(name, content)
	if err != nil {
		return Preset{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.presets = append(s.presets, p)
	if err := s.store.Save(StateKeyPresets, s.presets); err != nil {
		return p, fmt.Errorf("persisting presets: %w", err)
	}
	return p, nil
}

// RemovePreset deletes a preset by id and persists the collection.
func (s *Session) RemovePreset(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	presets, err := removePreset(s.presets, id)
	if err != nil {
		return err
	}
	s.presets = presets
	if err := s.store.Save(StateKeyPresets, s.presets); err != nil {
		return fmt.Errorf("persisting presets: %w", err)
	}
	return nil
}

// Presets returns a copy of the preset collection in insertion order.
func (s *Session) Presets() []Preset {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Preset, len(s.presets))
	copy(out, s.presets)
	return out
}

// SetLineIndex installs the annotated lines of the latest render pass.
func (s *Session) SetLineIndex(lines []int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lineIndex = NewLineIndex(lines)
}

// SetView sets the pane layout.
func (s *Session) SetView(mode ViewMode) {
	s.sync.SetView(mode)
}

// SetClickToSync toggles click-to-sync mode.
func (s *Session) SetClickToSync(active bool) {
	s.sync.SetClickToSync(active)
}

// Scroll propagates a manual scroll on origin to the counterpart pane.
func (s *Session) Scroll(origin PaneID, from, to Pane) (target float64, ok bool) {
	return s.sync.Propagate(origin, from, to)
}

// ResolveEditorClick maps a caret position in the source text to the
// annotated line of the preview node to highlight. No-op unless
// click-to-sync is engaged or when no annotated nodes exist.
func (s *Session) ResolveEditorClick(caret int) (line int, ok bool) {
	if !s.sync.ClickToSync() {
		return 0, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lineIndex.Resolve(LineAt(s.doc.Content, caret))
}

// ResolvePreviewClick maps an annotated line clicked in the preview to an
// estimated editor scroll offset. No-op unless click-to-sync is engaged.
func (s *Session) ResolvePreviewClick(line int) (offset float64, ok bool) {
	if !s.sync.ClickToSync() || line < 1 {
		return 0, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return EditorScrollOffset(line, s.doc.FontSize), true
}

// Flush cancels pending timers and persists the document synchronously.
func (s *Session) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelTimersLocked()
	return s.saveLocked()
}

// Close flushes state and cancels all pending timers so no write can land
// after teardown. The session drops further edits once closed.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.cancelTimersLocked()
	err := s.saveLocked()
	s.closed = true
	s.rec.Close()
	return err
}

// scheduleSaveLocked (re)arms the debounced autosave and marks the
// document dirty. Last write wins: a fresh edit supersedes the pending
// save entirely.
func (s *Session) scheduleSaveLocked() {
	s.saveGen++
	gen := s.saveGen
	if s.cancelSave != nil {
		s.cancelSave()
	}
	s.setStatusLocked(SaveStatusDirty)

	s.cancelSave = s.schedule(s.saveWindow, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.closed || s.saveGen != gen {
			return
		}
		s.cancelSave = nil
		if err := s.saveLocked(); err != nil {
			s.setStatusLocked(SaveStatusError)
			return
		}
		s.setStatusLocked(SaveStatusSaved)
		s.cancelStatus = s.schedule(savedIndicatorDuration, func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if s.closed || s.status != SaveStatusSaved {
				return
			}
			s.cancelStatus = nil
			s.status = SaveStatusIdle
		})
	})
}

func (s *Session) setStatusLocked(status SaveStatus) {
	if s.cancelStatus != nil {
		s.cancelStatus()
		s.cancelStatus = nil
	}
	s.status = status
}

func (s *Session) saveLocked() error {
	if err := s.store.Save(StateKeyDocument, s.doc); err != nil {
		return fmt.Errorf("persisting document: %w", err)
	}
	return nil
}

func (s *Session) cancelTimersLocked() {
	s.saveGen++
	if s.cancelSave != nil {
		s.cancelSave()
		s.cancelSave = nil
	}
	if s.cancelStatus != nil {
		s.cancelStatus()
		s.cancelStatus = nil
	}
}
