package mdstudio

import (
	"errors"
	"testing"
)

func TestNewPreset(t *testing.T) {
	tests := []struct {
		name       string
		presetName string
		content    string
		wantErr    error
	}{
		{"valid", "greeting", "Hello, **world**", nil},
		{"empty name", "", "content", ErrEmptyPresetName},
		{"whitespace name", "   ", "content", ErrEmptyPresetName},
		{"empty content", "name", "", ErrEmptyPresetContent},
		{"whitespace content", "name", " \n\t ", ErrEmptyPresetContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewPreset(tt.presetName, tt.content)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("NewPreset() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && p.ID == "" {
				t.Error("NewPreset() returned empty id")
			}
		})
	}
}

func TestNewPresetUniqueIDs(t *testing.T) {
	a, _ := NewPreset("a", "x")
	b, _ := NewPreset("b", "y")
	if a.ID == b.ID {
		t.Errorf("NewPreset() produced duplicate id %q", a.ID)
	}
}

func TestRemovePreset(t *testing.T) {
	presets := []Preset{
		{ID: "1", Name: "first"},
		{ID: "2", Name: "second"},
		{ID: "3", Name: "third"},
	}

	out, err := removePreset(presets, "2")
	if err != nil {
		t.Fatalf("removePreset() unexpected error: %v", err)
	}
	if len(out) != 2 || out[0].ID != "1" || out[1].ID != "3" {
		t.Errorf("removePreset() = %+v, want first and third in order", out)
	}

	if _, err := removePreset(out, "2"); !errors.Is(err, ErrPresetNotFound) {
		t.Errorf("removePreset(missing) error = %v, want ErrPresetNotFound", err)
	}
}
