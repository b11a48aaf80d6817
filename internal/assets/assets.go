// Package assets bundles the embedded browser UI and the theme
// stylesheets used for preview and standalone exports.
package assets

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"strings"
)

//go:embed styles/*
var styles embed.FS

//go:embed static/*
var static embed.FS

// ErrStyleNotFound indicates the requested theme does not exist.
var ErrStyleNotFound = errors.New("style not found")

// ErrInvalidAssetName indicates an asset name with path material in it.
var ErrInvalidAssetName = errors.New("invalid asset name")

// LoadStyle loads a theme stylesheet by name (without .css extension).
func LoadStyle(name string) (string, error) {
	if err := validateAssetName(name); err != nil {
		return "", err
	}

	content, err := styles.ReadFile("styles/" + name + ".css")
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrStyleNotFound, name)
	}

	return string(content), nil
}

// Static returns the embedded UI filesystem rooted at static/.
func Static() (fs.FS, error) {
	return fs.Sub(static, "static")
}

// validateAssetName rejects names that could traverse out of the asset
// directories.
func validateAssetName(name string) error {
	if name == "" || strings.ContainsAny(name, "/\\.") {
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	return nil
}
