package mdstudio

import (
	"strings"

	"github.com/google/uuid"
)

// Preset is a named reusable text snippet, created from an editor selection.
type Preset struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Content string `json:"content"`
}

// NewPreset creates a preset with a unique id. The content must contain at
// least one non-whitespace character; the name must be non-empty.
func NewPreset(name, content string) (Preset, error) {
	if strings.TrimSpace(name) == "" {
		return Preset{}, ErrEmptyPresetName
	}
	if strings.TrimSpace(content) == "" {
		return Preset{}, ErrEmptyPresetContent
	}
	return Preset{
		ID:      uuid.NewString(),
		Name:    name,
		Content: content,
	}, nil
}

// removePreset deletes the preset with the given id, preserving the order
// of the remaining entries. Returns ErrPresetNotFound when no entry matches.
func removePreset(presets []Preset, id string) ([]Preset, error) {
	for i, p := range presets {
		if p.ID == id {
			return append(presets[:i], presets[i+1:]...), nil
		}
	}
	return presets, ErrPresetNotFound
}
