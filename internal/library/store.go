package library

import "context"

// Repository defines the data access contract for the library catalog.
type Repository interface {
	// ImportBook upserts the book row keyed by folderPath and replaces its
	// entire page set in one transaction. An existing book keeps its id,
	// reading progress, and creation timestamp.
	ImportBook(ctx context.Context, folderPath, title, coverPath string, pagePaths []string) (int64, error)

	// OverwriteBook updates the book keyed by folderPath, resets reading
	// progress to page 0, and replaces its page set in one transaction.
	// Unlike ImportBook it never creates: the target is resolved inside
	// the transaction and a missing book yields NOT_FOUND.
	OverwriteBook(ctx context.Context, folderPath, title, coverPath string, pagePaths []string) (int64, error)

	GetBook(ctx context.Context, bookID int64) (*Book, error)
	GetBookByFolderPath(ctx context.Context, folderPath string) (*Book, error)

	// ListBooks returns all books ordered by id descending (newest first).
	ListBooks(ctx context.Context) ([]*Book, error)

	GetPage(ctx context.Context, bookID int64, pageOrder int) (*Page, error)

	// ListPages returns a book's pages ordered by page_order ascending.
	ListPages(ctx context.Context, bookID int64) ([]*Page, error)

	// The mutators report whether a row was actually affected, so callers
	// can distinguish "no such book" from success.
	UpdateLastPageIndex(ctx context.Context, bookID int64, index int) (bool, error)
	RenameBook(ctx context.Context, bookID int64, title string) (bool, error)
	DeleteBook(ctx context.Context, bookID int64) (bool, error)
}
