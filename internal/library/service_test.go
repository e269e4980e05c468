package library_test

import (
	"context"
	"encoding/base64"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mangata-app/mangata/internal/covercache"
	"github.com/mangata-app/mangata/internal/library"
	"github.com/mangata-app/mangata/internal/platform/apperr"
	"github.com/mangata-app/mangata/internal/scanner"
)

// newTestService wires a real repository, scanner and cover cache. The
// tests drive the whole pipeline against actual files in a temp dir, the
// same way the desktop client exercises it.
func newTestService(t *testing.T) *library.Service {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return library.NewService(newTestRepository(t), scanner.New(), covercache.New(10), logger)
}

// newFixtureFolder writes a book folder with the given image names, each
// file's content being its own name so payload reads are verifiable.
func newFixtureFolder(t *testing.T, name string, images ...string) string {
	t.Helper()

	dir := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.Mkdir(dir, 0o755))
	for _, image := range images {
		require.NoError(t, os.WriteFile(filepath.Join(dir, image), []byte(image), 0o644))
	}
	return dir
}

/*
TestService_ImportFolder verifies the end-to-end import flow: natural page
order, first page promoted to cover, blank title defaulting.
*/
func TestService_ImportFolder(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()
	dir := newFixtureFolder(t, "vol-1", "1.jpg", "2.png", "10.jpeg")

	result, err := service.ImportFolder(ctx, dir, "  ")
	require.NoError(t, err)
	assert.Equal(t, "vol-1", result.Title)
	assert.Equal(t, 3, result.PageCount)

	book, err := service.GetBook(ctx, result.BookID)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "1.jpg"), book.CoverPath)
	assert.Equal(t, 0, book.LastPageIndex)

	// Page 2 in natural order is 10.jpeg, not 2.png.
	payload, err := service.GetPagePayload(ctx, result.BookID, 2)
	require.NoError(t, err)
	assert.Equal(t, []byte("10.jpeg"), payload.Bytes)
	assert.Equal(t, "image/jpeg", payload.Info.MimeType)
	assert.Equal(t, 2, payload.Info.PageOrder)
}

/*
TestService_ImportFolder_ScanFailuresLeaveStoreUntouched verifies that a
failed scan aborts before any catalog mutation.
*/
func TestService_ImportFolder_ScanFailuresLeaveStoreUntouched(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()

	_, err := service.ImportFolder(ctx, filepath.Join(t.TempDir(), "missing"), "Ghost")
	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, "DIRECTORY_NOT_FOUND"))

	empty := t.TempDir()
	_, err = service.ImportFolder(ctx, empty, "Empty")
	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, "NO_IMAGES_FOUND"))

	books, err := service.ListBooks(ctx)
	require.NoError(t, err)
	assert.Empty(t, books)
}

/*
TestService_GetPagePayload_ErrorTaxonomy verifies the NOT_FOUND versus
FILE_UNAVAILABLE distinction: absent row against absent file.
*/
func TestService_GetPagePayload_ErrorTaxonomy(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()
	dir := newFixtureFolder(t, "vol-2", "1.jpg", "2.png")

	result, err := service.ImportFolder(ctx, dir, "Two")
	require.NoError(t, err)

	// Row does not exist.
	_, err = service.GetPagePayload(ctx, result.BookID, 5)
	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, "NOT_FOUND"))

	// Row exists but the file was deleted after import.
	require.NoError(t, os.Remove(filepath.Join(dir, "2.png")))
	_, err = service.GetPagePayload(ctx, result.BookID, 1)
	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, "FILE_UNAVAILABLE"))
}

/*
TestService_GetThumbnail_BenignAbsence verifies that thumbnails never
error for missing books or unreadable covers: the UI falls back to a
placeholder instead.
*/
func TestService_GetThumbnail_BenignAbsence(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()

	// Unknown book.
	bytes, contentType, err := service.GetThumbnail(ctx, 9999)
	require.NoError(t, err)
	assert.Nil(t, bytes)
	assert.Empty(t, contentType)

	// Known book, cover removed from disk.
	dir := newFixtureFolder(t, "vol-3", "1.png", "2.png")
	result, err := service.ImportFolder(ctx, dir, "Three")
	require.NoError(t, err)

	require.NoError(t, os.Remove(filepath.Join(dir, "1.png")))
	bytes, contentType, err = service.GetThumbnail(ctx, result.BookID)
	require.NoError(t, err)
	assert.Nil(t, bytes)
	assert.Empty(t, contentType)
}

/*
TestService_GetThumbnail verifies the happy path: cover bytes with the
sniffed content type.
*/
func TestService_GetThumbnail(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()
	dir := newFixtureFolder(t, "vol-4", "1.png", "2.jpg")

	result, err := service.ImportFolder(ctx, dir, "Four")
	require.NoError(t, err)

	bytes, contentType, err := service.GetThumbnail(ctx, result.BookID)
	require.NoError(t, err)
	assert.Equal(t, []byte("1.png"), bytes)
	assert.Equal(t, "image/png", contentType)
}

/*
TestService_CoverDataURL_Caching verifies the bounded cover cache: the
first call encodes from disk, repeats are served from memory even after
the underlying file changes.
*/
func TestService_CoverDataURL_Caching(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()
	dir := newFixtureFolder(t, "vol-5", "1.png")

	result, err := service.ImportFolder(ctx, dir, "Five")
	require.NoError(t, err)

	want := "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("1.png"))

	dataURL, err := service.CoverDataURL(ctx, result.BookID)
	require.NoError(t, err)
	assert.Equal(t, want, dataURL)

	// The file is gone, but the cached entry still answers.
	require.NoError(t, os.Remove(filepath.Join(dir, "1.png")))
	dataURL, err = service.CoverDataURL(ctx, result.BookID)
	require.NoError(t, err)
	assert.Equal(t, want, dataURL)

	// Unknown book stays benign.
	dataURL, err = service.CoverDataURL(ctx, 9999)
	require.NoError(t, err)
	assert.Empty(t, dataURL)
}

/*
TestService_OverwriteBook verifies the confirmed-overwrite flow: refuses
unknown folders, resyncs pages and resets progress for known ones.
*/
func TestService_OverwriteBook(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()

	// Unknown folder: structured refusal, not an error.
	unknown := newFixtureFolder(t, "vol-6", "1.jpg")
	result, err := service.OverwriteBook(ctx, unknown, "Six")
	require.NoError(t, err)
	assert.False(t, result.OK)
	assert.Equal(t, "NOT_FOUND", result.Reason)

	// Known folder: pages resynced from disk, progress reset.
	dir := newFixtureFolder(t, "vol-7", "1.jpg", "2.jpg", "3.jpg")
	imported, err := service.ImportFolder(ctx, dir, "Seven")
	require.NoError(t, err)
	require.NoError(t, service.UpdateLastPageIndex(ctx, imported.BookID, 2))

	require.NoError(t, os.Remove(filepath.Join(dir, "3.jpg")))

	result, err = service.OverwriteBook(ctx, dir, "Seven v2")
	require.NoError(t, err)
	assert.True(t, result.OK)
	assert.Equal(t, imported.BookID, result.BookID)

	book, err := service.GetBook(ctx, imported.BookID)
	require.NoError(t, err)
	assert.Equal(t, "Seven v2", book.Title)
	assert.Equal(t, 2, book.PageCount)
	assert.Equal(t, 0, book.LastPageIndex)
}

/*
TestService_UpdateLastPageIndex verifies progress validation and clamping:
negatives rejected, past-the-end clamped to the final page.
*/
func TestService_UpdateLastPageIndex(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()
	dir := newFixtureFolder(t, "vol-8", "1.jpg", "2.jpg", "3.jpg")

	result, err := service.ImportFolder(ctx, dir, "Eight")
	require.NoError(t, err)

	err = service.UpdateLastPageIndex(ctx, result.BookID, -1)
	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, "VALIDATION_ERROR"))

	// 50 clamps to pageCount-1.
	require.NoError(t, service.UpdateLastPageIndex(ctx, result.BookID, 50))
	book, err := service.GetBook(ctx, result.BookID)
	require.NoError(t, err)
	assert.Equal(t, 2, book.LastPageIndex)

	err = service.UpdateLastPageIndex(ctx, 9999, 1)
	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, "NOT_FOUND"))
}

/*
TestService_RenameAndRemove verifies the maintenance operations' boolean
contracts and title validation.
*/
func TestService_RenameAndRemove(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()
	dir := newFixtureFolder(t, "vol-9", "1.jpg")

	result, err := service.ImportFolder(ctx, dir, "Nine")
	require.NoError(t, err)

	_, err = service.RenameBook(ctx, result.BookID, "   ")
	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, "VALIDATION_ERROR"))

	changed, err := service.RenameBook(ctx, result.BookID, "Nine (revised)")
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = service.RemoveBook(ctx, result.BookID)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = service.RemoveBook(ctx, result.BookID)
	require.NoError(t, err)
	assert.False(t, changed)

	// The image files outlive the catalog entry.
	_, err = os.Stat(filepath.Join(dir, "1.jpg"))
	require.NoError(t, err)
}
