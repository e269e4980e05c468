// Package library implements the manga library core: importing image
// folders as books, tracking reading progress, and serving page payloads.
package library

// Book is a registered folder of page images.
//
// The folder path is the natural key: re-importing the same folder updates
// the existing row instead of creating a duplicate. Image bytes stay on
// disk and are only referenced; removing a book never deletes files.
type Book struct {
	ID            int64  `json:"id"`
	Title         string `json:"title"`
	FolderPath    string `json:"folder_path"`
	CoverPath     string `json:"cover_path"`
	PageCount     int    `json:"page_count"`
	LastPageIndex int    `json:"last_page_index"`
	// CreatedAt is epoch milliseconds, set once at first import.
	CreatedAt int64 `json:"created_at"`
}

// Page is one image belonging to a Book. For every book the page_order
// values form the gapless set {0, ..., page_count-1}.
type Page struct {
	ID        int64  `json:"id"`
	BookID    int64  `json:"book_id"`
	ImagePath string `json:"image_path"`
	PageOrder int    `json:"page_order"`
}

// BookSummary is the list-view projection of a Book, with the cover's
// content type pre-sniffed for the UI.
type BookSummary struct {
	ID            int64  `json:"id"`
	Title         string `json:"title"`
	FolderPath    string `json:"folder_path"`
	CoverPath     string `json:"cover_path"`
	PageCount     int    `json:"page_count"`
	LastPageIndex int    `json:"last_page_index"`
	MimeType      string `json:"mime_type"`
	CreatedAt     int64  `json:"created_at"`
}

// ImportResult is returned by a successful folder import.
type ImportResult struct {
	BookID    int64  `json:"book_id"`
	Title     string `json:"title"`
	PageCount int    `json:"page_count"`
}

// OverwriteResult reports the outcome of the explicit re-import flow.
// OK is false only when no book exists for the folder path.
type OverwriteResult struct {
	OK     bool   `json:"ok"`
	BookID int64  `json:"book_id,omitempty"`
	Reason string `json:"reason,omitempty"`
}

// PageInfo describes a served page, content type included.
type PageInfo struct {
	ID        int64  `json:"id"`
	BookID    int64  `json:"book_id"`
	ImagePath string `json:"image_path"`
	PageOrder int    `json:"page_order"`
	MimeType  string `json:"mime_type"`
}

// PagePayload couples a page's metadata with its raw image bytes.
type PagePayload struct {
	Info  PageInfo
	Bytes []byte
}
