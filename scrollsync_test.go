package mdstudio

import "testing"

func TestScrollRatio(t *testing.T) {
	tests := []struct {
		name                            string
		top, scrollHeight, clientHeight float64
		want                            float64
	}{
		{"top of pane", 0, 1000, 500, 0},
		{"middle", 250, 1000, 500, 0.5},
		{"bottom", 500, 1000, 500, 1},
		{"content fits", 10, 400, 500, 0},
		{"equal heights", 0, 500, 500, 0},
		{"negative top clamped", -50, 1000, 500, 0},
		{"overscroll clamped", 900, 1000, 500, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScrollRatio(tt.top, tt.scrollHeight, tt.clientHeight)
			if got != tt.want {
				t.Errorf("ScrollRatio(%v, %v, %v) = %v, want %v",
					tt.top, tt.scrollHeight, tt.clientHeight, got, tt.want)
			}
		})
	}
}

func TestScrollTarget(t *testing.T) {
	if got := ScrollTarget(0.5, 2000, 500); got != 750 {
		t.Errorf("ScrollTarget(0.5, 2000, 500) = %v, want 750", got)
	}
	if got := ScrollTarget(0.5, 400, 500); got != 0 {
		t.Errorf("ScrollTarget with fitting content = %v, want 0", got)
	}
}

func TestPropagate(t *testing.T) {
	from := Pane{ScrollTop: 250, ScrollHeight: 1000, ClientHeight: 500}
	to := Pane{ScrollTop: 0, ScrollHeight: 2000, ClientHeight: 500}

	s := NewSynchronizer()
	target, ok := s.Propagate(PaneEditor, from, to)
	if !ok {
		t.Fatal("Propagate() in split view = false, want true")
	}
	if target != 750 {
		t.Errorf("Propagate() target = %v, want 750", target)
	}
}

func TestPropagateInactiveOutsideSplitView(t *testing.T) {
	from := Pane{ScrollTop: 250, ScrollHeight: 1000, ClientHeight: 500}
	to := Pane{ScrollTop: 0, ScrollHeight: 2000, ClientHeight: 500}

	for _, mode := range []ViewMode{ViewEditor, ViewPreview} {
		s := NewSynchronizer()
		s.SetView(mode)
		if _, ok := s.Propagate(PaneEditor, from, to); ok {
			t.Errorf("Propagate() in %s view = true, want false", mode)
		}
	}
}

func TestPropagateSuspendedByClickToSync(t *testing.T) {
	from := Pane{ScrollTop: 250, ScrollHeight: 1000, ClientHeight: 500}
	to := Pane{ScrollTop: 0, ScrollHeight: 2000, ClientHeight: 500}

	s := NewSynchronizer()
	s.SetClickToSync(true)
	if _, ok := s.Propagate(PaneEditor, from, to); ok {
		t.Error("Propagate() with click-to-sync engaged = true, want false")
	}

	s.SetClickToSync(false)
	if _, ok := s.Propagate(PaneEditor, from, to); !ok {
		t.Error("Propagate() after disengaging click-to-sync = false, want true")
	}
}

func TestPropagateSwallowsEcho(t *testing.T) {
	editor := Pane{ScrollTop: 250, ScrollHeight: 1000, ClientHeight: 500}
	preview := Pane{ScrollTop: 0, ScrollHeight: 2000, ClientHeight: 500}

	s := NewSynchronizer()
	target, ok := s.Propagate(PaneEditor, editor, preview)
	if !ok {
		t.Fatal("initial Propagate() = false, want true")
	}

	// The browser fires a scroll event on the preview after we set its
	// scrollTop; that echo must not propagate back.
	preview.ScrollTop = target
	if _, ok := s.Propagate(PanePreview, preview, editor); ok {
		t.Error("echo Propagate() = true, want false")
	}

	// A genuine preview scroll afterwards propagates again.
	preview.ScrollTop = target + 300
	if _, ok := s.Propagate(PanePreview, preview, editor); !ok {
		t.Error("genuine Propagate() after echo = false, want true")
	}
}

func TestPropagateJitterThreshold(t *testing.T) {
	from := Pane{ScrollTop: 250, ScrollHeight: 1000, ClientHeight: 500}
	// Counterpart already within a pixel of the target.
	to := Pane{ScrollTop: 749.5, ScrollHeight: 2000, ClientHeight: 500}

	s := NewSynchronizer()
	if _, ok := s.Propagate(PaneEditor, from, to); ok {
		t.Error("Propagate() below jitter threshold = true, want false")
	}
}
