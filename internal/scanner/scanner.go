// Package scanner lists the page images of a book folder in reading order.
//
// The scan is the single source of filesystem truth for imports: it holds
// no cache and every call reflects the directory's current contents.
package scanner

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/mangata-app/mangata/internal/platform/apperr"
	"github.com/mangata-app/mangata/pkg/natsort"
)

// supportedExtensions are the page image types a book folder may contain.
// Everything else (subdirectories, notes, archives) is ignored.
var supportedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// Scanner lists supported image files in book folders.
type Scanner struct{}

// New constructs a folder scanner.
func New() *Scanner {
	return &Scanner{}
}

// Scan returns the absolute paths of all supported images directly inside
// folderPath, naturally ordered by filename ("2.png" before "10.jpeg").
//
// Failure modes:
//   - DIRECTORY_NOT_FOUND when folderPath is missing or not a directory
//   - NO_IMAGES_FOUND when the folder holds zero supported images
func (s *Scanner) Scan(folderPath string) ([]string, error) {
	info, err := os.Stat(folderPath)
	if err != nil || !info.IsDir() {
		return nil, apperr.DirectoryNotFound(folderPath)
	}

	entries, err := os.ReadDir(folderPath)
	if err != nil {
		return nil, apperr.DirectoryNotFound(folderPath)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if supportedExtensions[ext] {
			names = append(names, entry.Name())
		}
	}

	if len(names) == 0 {
		return nil, apperr.NoImagesFound(folderPath)
	}

	// Natural sort on the bare filenames is the page ordering contract.
	natsort.Strings(names)

	paths := make([]string, len(names))
	for i, name := range names {
		paths[i] = filepath.Join(folderPath, name)
	}

	return paths, nil
}
