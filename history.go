package mdstudio

import (
	"sync"
	"time"
)

// MaxHistoryEntries caps the undo log; the oldest snapshot is evicted once
// the cap is exceeded.
const MaxHistoryEntries = 100

// DefaultDebounceWindow is the quiescence window for deferred history
// commits. Bursts of edits within the window coalesce into one snapshot.
const DefaultDebounceWindow = 700 * time.Millisecond

// History is a bounded linear undo/redo log of content snapshots.
//
// Invariants: 0 <= index < len(snapshots); consecutive snapshots are never
// identical. History is not safe for concurrent use; wrap it in a Recorder
// for that.
type History struct {
	snapshots []string
	index     int
}

// NewHistory creates a history seeded with a single snapshot.
func NewHistory(initial string) *History {
	return &History{snapshots: []string{initial}}
}

// Commit appends content as the new tail snapshot and reports whether an
// entry was recorded. A no-op edit (content equal to the current snapshot)
// is not recorded. Entries beyond the current index are truncated first, so
// new edits after an undo discard the redo branch. Exceeding the cap evicts
// the oldest snapshot; the index stays on the committed entry.
func (h *History) Commit(content string) bool {
	if content == h.snapshots[h.index] {
		return false
	}

	h.snapshots = append(h.snapshots[:h.index+1], content)
	h.index++

	if len(h.snapshots) > MaxHistoryEntries {
		h.snapshots = h.snapshots[1:]
		h.index--
	}
	return true
}

// Undo moves the index one snapshot back and returns it.
// Reports false at the oldest reachable snapshot.
func (h *History) Undo() (string, bool) {
	if h.index == 0 {
		return "", false
	}
	h.index--
	return h.snapshots[h.index], true
}

// Redo moves the index one snapshot forward and returns it.
// Reports false at the tail.
func (h *History) Redo() (string, bool) {
	if h.index == len(h.snapshots)-1 {
		return "", false
	}
	h.index++
	return h.snapshots[h.index], true
}

// Current returns the snapshot at the index.
func (h *History) Current() string {
	return h.snapshots[h.index]
}

// Len returns the number of snapshots.
func (h *History) Len() int {
	return len(h.snapshots)
}

// Index returns the current position in the log.
func (h *History) Index() int {
	return h.index
}

// scheduleFunc starts a deferred call to fn after d and returns a cancel
// function. The default uses time.AfterFunc; tests inject a logical clock.
type scheduleFunc func(d time.Duration, fn func()) (cancel func())

// afterFuncSchedule is the wall-clock scheduler.
func afterFuncSchedule(d time.Duration, fn func()) func() {
	t := time.AfterFunc(d, fn)
	return func() { t.Stop() }
}

// Recorder provides debounced, last-write-wins recording over a History.
//
// A deferred Record supersedes any pending one and commits only after the
// quiescence window elapses with no further calls. Immediate records, undo,
// redo and Close all cancel the pending commit so a stale timer can never
// overwrite a newer state.
type Recorder struct {
	mu       sync.Mutex
	hist     *History
	window   time.Duration
	schedule scheduleFunc
	cancel   func()
	gen      uint64
	closed   bool
}

// RecorderOption configures a Recorder.
type RecorderOption func(*Recorder)

// WithDebounceWindow overrides the quiescence window.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithDebounceWindow(d time.Duration) RecorderOption {
	if d <= 0 {
		panic("mdstudio: WithDebounceWindow duration must be positive")
	}
	return func(r *Recorder) {
		r.window = d
	}
}

// withScheduler injects a scheduler, used by tests to drive a logical clock.
func withScheduler(s scheduleFunc) RecorderOption {
	return func(r *Recorder) {
		r.schedule = s
	}
}

// NewRecorder creates a Recorder over hist with the default debounce window.
func NewRecorder(hist *History, opts ...RecorderOption) *Recorder {
	r := &Recorder{
		hist:     hist,
		window:   DefaultDebounceWindow,
		schedule: afterFuncSchedule,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Record registers content for the history log. When immediate is true the
// commit happens synchronously (discrete toolbar insertions stay
// independently undoable). Otherwise the commit is deferred by the debounce
// window, superseding any pending deferred commit.
func (r *Recorder) Record(content string, immediate bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}

	r.cancelPendingLocked()

	if immediate {
		r.hist.Commit(content)
		return
	}

	// The generation guards against a stopped timer that already fired and
	// is blocked on the mutex: only the most recent schedule may commit.
	gen := r.gen
	r.cancel = r.schedule(r.window, func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		if r.closed || r.gen != gen {
			return
		}
		r.cancel = nil
		r.hist.Commit(content)
	})
}

// Undo cancels any pending deferred commit and steps the history back.
func (r *Recorder) Undo() (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cancelPendingLocked()
	return r.hist.Undo()
}

// Redo cancels any pending deferred commit and steps the history forward.
func (r *Recorder) Redo() (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cancelPendingLocked()
	return r.hist.Redo()
}

// Current returns the snapshot at the history index.
func (r *Recorder) Current() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.hist.Current()
}

// Close cancels any pending deferred commit. Further records are dropped.
func (r *Recorder) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cancelPendingLocked()
	r.closed = true
}

func (r *Recorder) cancelPendingLocked() {
	r.gen++
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
}
