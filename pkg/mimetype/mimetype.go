// Package mimetype maps image file extensions to content types.
//
// # Contract
//
// The mapping is a fixed product contract shared with the reader UI, not a
// platform mime table lookup: unknown or missing extensions fall back to
// image/jpeg so that a payload always carries a renderable content type.
package mimetype

import (
	"path/filepath"
	"strings"
)

// Sniff returns the content type for the file at path based on its
// extension. It never fails.
func Sniff(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	default:
		return "image/jpeg"
	}
}
