package library

import (
	"context"
	"encoding/base64"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/mangata-app/mangata/internal/covercache"
	"github.com/mangata-app/mangata/internal/platform/apperr"
	"github.com/mangata-app/mangata/internal/platform/constants"
	"github.com/mangata-app/mangata/internal/platform/validate"
	"github.com/mangata-app/mangata/pkg/mimetype"
)

// FolderScanner lists a book folder's images in reading order.
type FolderScanner interface {
	Scan(folderPath string) ([]string, error)
}

// Service orchestrates the scanner and the catalog store: it reconciles
// filesystem truth with persisted truth and assembles MIME-tagged payloads.
type Service struct {
	repo    Repository
	scanner FolderScanner
	covers  *covercache.Cache
	logger  *slog.Logger
}

// NewService constructs the library service.
func NewService(repo Repository, scanner FolderScanner, covers *covercache.Cache, logger *slog.Logger) *Service {
	return &Service{
		repo:    repo,
		scanner: scanner,
		covers:  covers,
		logger:  logger,
	}
}

// # Import

// ImportFolder registers absPath as a book. The first page in scan order
// becomes the cover; a blank title defaults to the folder's base name.
//
// Importing an already-registered folder updates it in place (same book id,
// reading progress kept) and rebuilds its page set from the fresh scan.
// Scan failures abort before any store mutation.
func (service *Service) ImportFolder(ctx context.Context, absPath, title string) (*ImportResult, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		title = filepath.Base(absPath)
	}

	v := &validate.Validator{}
	v.Required("folder_path", absPath).MaxLen("title", title, constants.MaxTitleLength)
	if err := v.Err(); err != nil {
		return nil, err
	}

	pagePaths, err := service.scanner.Scan(absPath)
	if err != nil {
		return nil, err
	}
	cover := pagePaths[0]

	bookID, err := service.repo.ImportBook(ctx, absPath, title, cover, pagePaths)
	if err != nil {
		return nil, err
	}

	service.logger.Info("book_imported",
		slog.Int64("book_id", bookID),
		slog.Int("page_count", len(pagePaths)),
	)

	return &ImportResult{BookID: bookID, Title: title, PageCount: len(pagePaths)}, nil
}

// OverwriteBook is the explicit "user confirmed overwrite" flow: unlike
// ImportFolder it refuses to create a book, reporting NOT_FOUND when no
// book has this folder path. It re-scans, rebuilds the page set in the
// same transaction shape as import, and resets reading progress to 0.
func (service *Service) OverwriteBook(ctx context.Context, folderPath, title string) (*OverwriteResult, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		title = filepath.Base(folderPath)
	}

	v := &validate.Validator{}
	v.Required("folder_path", folderPath).MaxLen("title", title, constants.MaxTitleLength)
	if err := v.Err(); err != nil {
		return nil, err
	}

	pagePaths, err := service.scanner.Scan(folderPath)
	if err != nil {
		return nil, err
	}

	// The repository resolves the target inside its transaction, so a book
	// deleted after the scan surfaces here as NOT_FOUND instead of being
	// re-created.
	bookID, err := service.repo.OverwriteBook(ctx, folderPath, title, pagePaths[0], pagePaths)
	if err != nil {
		if apperr.HasCode(err, "NOT_FOUND") {
			return &OverwriteResult{OK: false, Reason: "NOT_FOUND"}, nil
		}
		return nil, err
	}

	service.logger.Info("book_overwritten",
		slog.Int64("book_id", bookID),
		slog.Int("page_count", len(pagePaths)),
	)

	return &OverwriteResult{OK: true, BookID: bookID}, nil
}

// # Catalog Reads

// ListBooks returns every book newest-first, covers pre-sniffed for the UI.
func (service *Service) ListBooks(ctx context.Context) ([]*BookSummary, error) {
	books, err := service.repo.ListBooks(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]*BookSummary, 0, len(books))
	for _, book := range books {
		summaries = append(summaries, &BookSummary{
			ID:            book.ID,
			Title:         book.Title,
			FolderPath:    book.FolderPath,
			CoverPath:     book.CoverPath,
			PageCount:     book.PageCount,
			LastPageIndex: book.LastPageIndex,
			MimeType:      mimetype.Sniff(book.CoverPath),
			CreatedAt:     book.CreatedAt,
		})
	}

	return summaries, nil
}

// GetBook returns the book or a NOT_FOUND error.
func (service *Service) GetBook(ctx context.Context, bookID int64) (*Book, error) {
	book, err := service.repo.GetBook(ctx, bookID)
	if err != nil {
		if apperr.HasCode(err, "NOT_FOUND") {
			return nil, apperr.NotFound("Book")
		}
		return nil, err
	}
	return book, nil
}

// FindByFolderPath returns the book registered for folderPath, or nil when
// none exists. Absence is an answer here, not an error.
func (service *Service) FindByFolderPath(ctx context.Context, folderPath string) (*Book, error) {
	book, err := service.repo.GetBookByFolderPath(ctx, folderPath)
	if err != nil {
		if apperr.HasCode(err, "NOT_FOUND") {
			return nil, nil
		}
		return nil, err
	}
	return book, nil
}

// # Page Serving

// GetPagePayload looks up the page row, reads its bytes from disk, and
// returns both with the sniffed content type.
//
// A missing row yields NOT_FOUND; a row whose file has since been moved or
// deleted yields FILE_UNAVAILABLE — the two are deliberately distinct.
func (service *Service) GetPagePayload(ctx context.Context, bookID int64, pageOrder int) (*PagePayload, error) {
	page, err := service.repo.GetPage(ctx, bookID, pageOrder)
	if err != nil {
		if apperr.HasCode(err, "NOT_FOUND") {
			return nil, apperr.NotFound("Page")
		}
		return nil, err
	}

	bytes, err := os.ReadFile(page.ImagePath)
	if err != nil {
		return nil, apperr.FileUnavailable(err)
	}

	return &PagePayload{
		Info: PageInfo{
			ID:        page.ID,
			BookID:    page.BookID,
			ImagePath: page.ImagePath,
			PageOrder: page.PageOrder,
			MimeType:  mimetype.Sniff(page.ImagePath),
		},
		Bytes: bytes,
	}, nil
}

// GetThumbnail returns the raw cover bytes and content type for a book, or
// nil bytes when the book doesn't exist or its cover can't be read.
// Thumbnail absence is benign: the UI renders a placeholder, so no error is
// surfaced.
func (service *Service) GetThumbnail(ctx context.Context, bookID int64) ([]byte, string, error) {
	book, err := service.repo.GetBook(ctx, bookID)
	if err != nil {
		if apperr.HasCode(err, "NOT_FOUND") {
			return nil, "", nil
		}
		return nil, "", err
	}

	bytes, err := os.ReadFile(book.CoverPath)
	if err != nil {
		service.logger.Warn("cover_unreadable",
			slog.Int64("book_id", bookID),
			slog.String("cover_path", book.CoverPath),
		)
		return nil, "", nil
	}

	return bytes, mimetype.Sniff(book.CoverPath), nil
}

// CoverDataURL returns a base64 data URL for the book's cover, serving
// repeats from the bounded cover cache. Returns "" when the book or its
// cover file is unavailable (same benign-absence contract as GetThumbnail).
//
// The cache is keyed by cover path, so a late completion after the caller
// lost interest just overwrites the same key.
func (service *Service) CoverDataURL(ctx context.Context, bookID int64) (string, error) {
	book, err := service.repo.GetBook(ctx, bookID)
	if err != nil {
		if apperr.HasCode(err, "NOT_FOUND") {
			return "", nil
		}
		return "", err
	}

	if cached, ok := service.covers.Get(book.CoverPath); ok {
		return cached, nil
	}

	bytes, err := os.ReadFile(book.CoverPath)
	if err != nil {
		service.logger.Warn("cover_unreadable",
			slog.Int64("book_id", bookID),
			slog.String("cover_path", book.CoverPath),
		)
		return "", nil
	}

	dataURL := "data:" + mimetype.Sniff(book.CoverPath) + ";base64," + base64.StdEncoding.EncodeToString(bytes)
	service.covers.Put(book.CoverPath, dataURL)

	return dataURL, nil
}

// # Progress & Maintenance

// UpdateLastPageIndex persists reading progress. Negative indexes are
// rejected; indexes past the end are clamped to the last page.
func (service *Service) UpdateLastPageIndex(ctx context.Context, bookID int64, index int) error {
	v := &validate.Validator{}
	v.Min("last_page_index", index, 0)
	if err := v.Err(); err != nil {
		return err
	}

	book, err := service.GetBook(ctx, bookID)
	if err != nil {
		return err
	}

	if index >= book.PageCount {
		index = book.PageCount - 1
	}

	changed, err := service.repo.UpdateLastPageIndex(ctx, bookID, index)
	if err != nil {
		return err
	}
	if !changed {
		return apperr.NotFound("Book")
	}

	return nil
}

// RenameBook updates the user-facing title only; the folder path is
// immutable. Reports whether a book was actually renamed.
func (service *Service) RenameBook(ctx context.Context, bookID int64, title string) (bool, error) {
	v := &validate.Validator{}
	v.Required("title", title).MaxLen("title", title, constants.MaxTitleLength)
	if err := v.Err(); err != nil {
		return false, err
	}

	return service.repo.RenameBook(ctx, bookID, strings.TrimSpace(title))
}

// RemoveBook unregisters a book and cascades to its page rows. The image
// files on disk are untouched — the catalog only ever held references.
func (service *Service) RemoveBook(ctx context.Context, bookID int64) (bool, error) {
	changed, err := service.repo.DeleteBook(ctx, bookID)
	if err != nil {
		return false, err
	}

	if changed {
		service.logger.Info("book_removed", slog.Int64("book_id", bookID))
	}

	return changed, nil
}
