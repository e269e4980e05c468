package scanner_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mangata-app/mangata/internal/platform/apperr"
	"github.com/mangata-app/mangata/internal/scanner"
)

// newBookDir builds the canonical fixture folder: three images whose
// numeric order differs from their lexicographic order, plus a stray file.
func newBookDir(t *testing.T) string {
	t.Helper()

	dir := filepath.Join(t.TempDir(), "book1")
	require.NoError(t, os.Mkdir(dir, 0o755))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "1.jpg"), []byte("dummy1"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "2.png"), []byte("dummy2"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "10.jpeg"), []byte("dummy10"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignore"), 0o644))

	return dir
}

/*
TestScanner_NaturalOrder verifies the page ordering contract: numeric, not
lexicographic, with unsupported files excluded.
*/
func TestScanner_NaturalOrder(t *testing.T) {
	dir := newBookDir(t)

	paths, err := scanner.New().Scan(dir)
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(dir, "1.jpg"),
		filepath.Join(dir, "2.png"),
		filepath.Join(dir, "10.jpeg"),
	}, paths)
}

/*
TestScanner_IgnoresUnsupportedEntries verifies that non-image files and
subdirectories never appear in the scan, in any quantity.
*/
func TestScanner_IgnoresUnsupportedEntries(t *testing.T) {
	dir := newBookDir(t)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "cover.webp"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "archive.cbz"), []byte("x"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "extras.png"), 0o755))

	paths, err := scanner.New().Scan(dir)
	require.NoError(t, err)

	assert.Len(t, paths, 3)
	for _, path := range paths {
		assert.NotContains(t, path, "cover.webp")
		assert.NotContains(t, path, "archive.cbz")
		assert.NotContains(t, path, "extras.png")
	}
}

/*
TestScanner_DirectoryNotFound verifies the failure mode for a missing scan
target.
*/
func TestScanner_DirectoryNotFound(t *testing.T) {
	_, err := scanner.New().Scan(filepath.Join(t.TempDir(), "does-not-exist"))

	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, "DIRECTORY_NOT_FOUND"))
}

/*
TestScanner_NoImagesFound verifies the failure mode for an existing folder
with zero eligible files.
*/
func TestScanner_NoImagesFound(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignore"), 0o644))

	_, err := scanner.New().Scan(dir)

	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, "NO_IMAGES_FOUND"))
}

/*
TestScanner_ReflectsCurrentDiskContents verifies that the scanner holds no
cache: files added between scans show up on the next call.
*/
func TestScanner_ReflectsCurrentDiskContents(t *testing.T) {
	dir := newBookDir(t)
	s := scanner.New()

	first, err := s.Scan(dir)
	require.NoError(t, err)
	assert.Len(t, first, 3)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "3.png"), []byte("dummy3"), 0o644))

	second, err := s.Scan(dir)
	require.NoError(t, err)
	assert.Len(t, second, 4)
	assert.Equal(t, filepath.Join(dir, "3.png"), second[2])
}
