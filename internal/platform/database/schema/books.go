// Package schema defines table and column identifiers for the catalog.
//
// Repositories build their SQL from these definitions so that a column
// rename happens in exactly one place.
package schema

// BooksTable represents the 'books' table
type BooksTable struct {
	Table         string
	ID            string
	Title         string
	FolderPath    string
	CoverPath     string
	PageCount     string
	LastPageIndex string
	CreatedAt     string
}

// Books is the schema definition for books
var Books = BooksTable{
	Table:         "books",
	ID:            "id",
	Title:         "title",
	FolderPath:    "folder_path",
	CoverPath:     "cover_path",
	PageCount:     "page_count",
	LastPageIndex: "last_page_index",
	CreatedAt:     "created_at",
}

func (t BooksTable) Columns() []string {
	return []string{t.ID, t.Title, t.FolderPath, t.CoverPath, t.PageCount, t.LastPageIndex, t.CreatedAt}
}
