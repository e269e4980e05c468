package schema

// ImagesTable represents the 'images' table
type ImagesTable struct {
	Table     string
	ID        string
	BookID    string
	ImagePath string
	PageOrder string
}

// Images is the schema definition for images
var Images = ImagesTable{
	Table:     "images",
	ID:        "id",
	BookID:    "book_id",
	ImagePath: "image_path",
	PageOrder: "page_order",
}

func (t ImagesTable) Columns() []string {
	return []string{t.ID, t.BookID, t.ImagePath, t.PageOrder}
}
