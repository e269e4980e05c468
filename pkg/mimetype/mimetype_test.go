package mimetype_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mangata-app/mangata/pkg/mimetype"
)

/*
TestSniff verifies the extension-to-content-type contract, including the
image/jpeg fallback for anything unrecognized.
*/
func TestSniff(t *testing.T) {
	tests := []struct {
		name string
		path string
		want string
	}{
		{"png", "/library/one/001.png", "image/png"},
		{"png_uppercase", "COVER.PNG", "image/png"},
		{"webp", "cover.webp", "image/webp"},
		{"jpg", "page.jpg", "image/jpeg"},
		{"jpeg", "page.jpeg", "image/jpeg"},
		{"unknown_extension", "notes.txt", "image/jpeg"},
		{"no_extension", "Makefile", "image/jpeg"},
		{"empty_path", "", "image/jpeg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, mimetype.Sniff(tt.path))
		})
	}
}
