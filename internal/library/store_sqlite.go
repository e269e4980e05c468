/*
SQLite implementation of the library catalog's data access.

It leans on SQLite features that keep the two-table catalog consistent:
  - Upsert: 'ON CONFLICT(folder_path) DO UPDATE' makes re-imports idempotent.
  - ACID Transactions: book upsert and page replacement always commit together,
    so page_count can never disagree with the actual page rows.
  - Cascade Deletes: removing a book removes its page rows via foreign keys.
*/
package library

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mangata-app/mangata/internal/platform/database/schema"
	"github.com/mangata-app/mangata/internal/platform/dberr"
)

// SQLiteRepository implements [Repository] over a single-file SQLite catalog.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository constructs a SQLite backed library store.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// # Import / Overwrite

// ImportBook runs the one write transaction of the catalog: upsert the book
// row keyed by folder_path, then delete and reinsert its entire page set.
func (repository *SQLiteRepository) ImportBook(ctx context.Context, folderPath, title, coverPath string, pagePaths []string) (int64, error) {
	tx, err := repository.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, dberr.Wrap(err, "begin_import")
	}
	defer tx.Rollback() //nolint:errcheck

	bookID, err := upsertBook(ctx, tx, folderPath, title, coverPath, len(pagePaths))
	if err != nil {
		return 0, err
	}

	if err := replacePages(ctx, tx, bookID, pagePaths); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, dberr.Wrap(err, "commit_import")
	}

	return bookID, nil
}

// OverwriteBook is the import transaction minus creation: the target is
// resolved by folder_path inside the transaction (NOT_FOUND when absent, so
// a book removed by a concurrent delete is never silently re-created), the
// row is updated with reading progress reset to 0, and the page set is
// rebuilt.
func (repository *SQLiteRepository) OverwriteBook(ctx context.Context, folderPath, title, coverPath string, pagePaths []string) (int64, error) {
	tx, err := repository.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, dberr.Wrap(err, "begin_overwrite")
	}
	defer tx.Rollback() //nolint:errcheck

	var bookID int64
	idQuery := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = ?;`,
		schema.Books.ID, schema.Books.Table, schema.Books.FolderPath)
	if err := tx.QueryRowContext(ctx, idQuery, folderPath).Scan(&bookID); err != nil {
		return 0, dberr.Wrap(err, "resolve_overwrite_target")
	}

	updateQuery := fmt.Sprintf(`UPDATE %s SET %s = ?, %s = ?, %s = ?, %s = 0 WHERE %s = ?;`,
		schema.Books.Table,
		schema.Books.Title, schema.Books.CoverPath, schema.Books.PageCount,
		schema.Books.LastPageIndex, schema.Books.ID,
	)
	if _, err := tx.ExecContext(ctx, updateQuery, title, coverPath, len(pagePaths), bookID); err != nil {
		return 0, dberr.Wrap(err, "overwrite_book")
	}

	if err := replacePages(ctx, tx, bookID, pagePaths); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, dberr.Wrap(err, "commit_overwrite")
	}

	return bookID, nil
}

// upsertBook inserts the book or, when folder_path already exists, updates
// title/cover_path/page_count in place. id, created_at and last_page_index
// are preserved.
func upsertBook(ctx context.Context, tx *sql.Tx, folderPath, title, coverPath string, pageCount int) (int64, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s)
		VALUES (?, ?, ?, ?, 0, ?)
		ON CONFLICT(%s) DO UPDATE SET
			%s = excluded.%s,
			%s = excluded.%s,
			%s = excluded.%s;
	`,
		schema.Books.Table,
		schema.Books.Title, schema.Books.FolderPath, schema.Books.CoverPath,
		schema.Books.PageCount, schema.Books.LastPageIndex, schema.Books.CreatedAt,
		schema.Books.FolderPath,
		schema.Books.Title, schema.Books.Title,
		schema.Books.CoverPath, schema.Books.CoverPath,
		schema.Books.PageCount, schema.Books.PageCount,
	)

	if _, err := tx.ExecContext(ctx, query, title, folderPath, coverPath, pageCount, time.Now().UnixMilli()); err != nil {
		return 0, dberr.Wrap(err, "upsert_book")
	}

	// LastInsertId is not reliable on the conflict-update path, so resolve
	// the id through the natural key instead.
	var bookID int64
	idQuery := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = ?;`,
		schema.Books.ID, schema.Books.Table, schema.Books.FolderPath)
	if err := tx.QueryRowContext(ctx, idQuery, folderPath).Scan(&bookID); err != nil {
		return 0, dberr.Wrap(err, "resolve_book_id")
	}

	return bookID, nil
}

// replacePages deletes the book's page rows and reinserts one row per path,
// page_order following the slice index. Pages are never patched
// individually; the whole set is rebuilt on every (re-)import.
func replacePages(ctx context.Context, tx *sql.Tx, bookID int64, pagePaths []string) error {
	deleteQuery := fmt.Sprintf(`DELETE FROM %s WHERE %s = ?;`,
		schema.Images.Table, schema.Images.BookID)
	if _, err := tx.ExecContext(ctx, deleteQuery, bookID); err != nil {
		return dberr.Wrap(err, "delete_pages")
	}

	insertQuery := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s) VALUES (?, ?, ?);`,
		schema.Images.Table, schema.Images.BookID, schema.Images.ImagePath, schema.Images.PageOrder)

	statement, err := tx.PrepareContext(ctx, insertQuery)
	if err != nil {
		return dberr.Wrap(err, "prepare_insert_pages")
	}
	defer statement.Close()

	for order, path := range pagePaths {
		if _, err := statement.ExecContext(ctx, bookID, path, order); err != nil {
			return dberr.Wrap(err, "insert_page")
		}
	}

	return nil
}

// # Reads

func (repository *SQLiteRepository) GetBook(ctx context.Context, bookID int64) (*Book, error) {
	query := fmt.Sprintf(`SELECT %s, %s, %s, %s, %s, %s, %s FROM %s WHERE %s = ?;`,
		schema.Books.ID, schema.Books.Title, schema.Books.FolderPath, schema.Books.CoverPath,
		schema.Books.PageCount, schema.Books.LastPageIndex, schema.Books.CreatedAt,
		schema.Books.Table, schema.Books.ID,
	)

	return scanBook(repository.db.QueryRowContext(ctx, query, bookID), "get_book")
}

func (repository *SQLiteRepository) GetBookByFolderPath(ctx context.Context, folderPath string) (*Book, error) {
	query := fmt.Sprintf(`SELECT %s, %s, %s, %s, %s, %s, %s FROM %s WHERE %s = ?;`,
		schema.Books.ID, schema.Books.Title, schema.Books.FolderPath, schema.Books.CoverPath,
		schema.Books.PageCount, schema.Books.LastPageIndex, schema.Books.CreatedAt,
		schema.Books.Table, schema.Books.FolderPath,
	)

	return scanBook(repository.db.QueryRowContext(ctx, query, folderPath), "get_book_by_folder")
}

func (repository *SQLiteRepository) ListBooks(ctx context.Context) ([]*Book, error) {
	query := fmt.Sprintf(`SELECT %s, %s, %s, %s, %s, %s, %s FROM %s ORDER BY %s DESC;`,
		schema.Books.ID, schema.Books.Title, schema.Books.FolderPath, schema.Books.CoverPath,
		schema.Books.PageCount, schema.Books.LastPageIndex, schema.Books.CreatedAt,
		schema.Books.Table, schema.Books.ID,
	)

	rows, err := repository.db.QueryContext(ctx, query)
	if err != nil {
		return nil, dberr.Wrap(err, "list_books")
	}
	defer rows.Close()

	var books []*Book
	for rows.Next() {
		b := &Book{}
		if err := rows.Scan(&b.ID, &b.Title, &b.FolderPath, &b.CoverPath, &b.PageCount, &b.LastPageIndex, &b.CreatedAt); err != nil {
			return nil, dberr.Wrap(err, "scan_book")
		}
		books = append(books, b)
	}

	return books, dberr.Wrap(rows.Err(), "list_books")
}

func (repository *SQLiteRepository) GetPage(ctx context.Context, bookID int64, pageOrder int) (*Page, error) {
	query := fmt.Sprintf(`SELECT %s, %s, %s, %s FROM %s WHERE %s = ? AND %s = ?;`,
		schema.Images.ID, schema.Images.BookID, schema.Images.ImagePath, schema.Images.PageOrder,
		schema.Images.Table, schema.Images.BookID, schema.Images.PageOrder,
	)

	p := &Page{}
	err := repository.db.QueryRowContext(ctx, query, bookID, pageOrder).
		Scan(&p.ID, &p.BookID, &p.ImagePath, &p.PageOrder)
	if err != nil {
		return nil, dberr.Wrap(err, "get_page")
	}

	return p, nil
}

func (repository *SQLiteRepository) ListPages(ctx context.Context, bookID int64) ([]*Page, error) {
	query := fmt.Sprintf(`SELECT %s, %s, %s, %s FROM %s WHERE %s = ? ORDER BY %s ASC;`,
		schema.Images.ID, schema.Images.BookID, schema.Images.ImagePath, schema.Images.PageOrder,
		schema.Images.Table, schema.Images.BookID, schema.Images.PageOrder,
	)

	rows, err := repository.db.QueryContext(ctx, query, bookID)
	if err != nil {
		return nil, dberr.Wrap(err, "list_pages")
	}
	defer rows.Close()

	var pages []*Page
	for rows.Next() {
		p := &Page{}
		if err := rows.Scan(&p.ID, &p.BookID, &p.ImagePath, &p.PageOrder); err != nil {
			return nil, dberr.Wrap(err, "scan_page")
		}
		pages = append(pages, p)
	}

	return pages, dberr.Wrap(rows.Err(), "list_pages")
}

// # Mutations

func (repository *SQLiteRepository) UpdateLastPageIndex(ctx context.Context, bookID int64, index int) (bool, error) {
	query := fmt.Sprintf(`UPDATE %s SET %s = ? WHERE %s = ?;`,
		schema.Books.Table, schema.Books.LastPageIndex, schema.Books.ID)

	return repository.execChanged(ctx, query, "update_last_page_index", index, bookID)
}

func (repository *SQLiteRepository) RenameBook(ctx context.Context, bookID int64, title string) (bool, error) {
	query := fmt.Sprintf(`UPDATE %s SET %s = ? WHERE %s = ?;`,
		schema.Books.Table, schema.Books.Title, schema.Books.ID)

	return repository.execChanged(ctx, query, "rename_book", title, bookID)
}

func (repository *SQLiteRepository) DeleteBook(ctx context.Context, bookID int64) (bool, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = ?;`,
		schema.Books.Table, schema.Books.ID)

	return repository.execChanged(ctx, query, "delete_book", bookID)
}

// execChanged runs a single-row mutation and reports whether a row was
// actually affected (false means "no such id", not an error).
func (repository *SQLiteRepository) execChanged(ctx context.Context, query, action string, args ...any) (bool, error) {
	result, err := repository.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, dberr.Wrap(err, action)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, dberr.Wrap(err, action)
	}

	return affected == 1, nil
}

// scanBook reads one book row from a QueryRow result.
func scanBook(row *sql.Row, action string) (*Book, error) {
	b := &Book{}
	err := row.Scan(&b.ID, &b.Title, &b.FolderPath, &b.CoverPath, &b.PageCount, &b.LastPageIndex, &b.CreatedAt)
	if err != nil {
		return nil, dberr.Wrap(err, action)
	}
	return b, nil
}
