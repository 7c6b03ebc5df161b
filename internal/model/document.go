package model

import "time"

// Document is the record kept for one uploaded Word file: the extracted text
// plus metadata. It is a pure domain model shared across layers; the JSON tags
// define the public API shape.
type Document struct {
	ID         string    `json:"fileId"`
	Filename   string    `json:"filename"`
	Content    string    `json:"content"`
	WordCount  int       `json:"wordCount"`
	UploadedAt time.Time `json:"uploadTime"`

	// StoragePath is the storage key of the uploaded file. It exists only so
	// deletion can reclaim the file and never crosses the API boundary.
	StoragePath string `json:"-"`
}

// DocumentSummary is the list view of a Document. The extracted text is
// deliberately absent from the type so it can never leak into list responses.
type DocumentSummary struct {
	ID         string    `json:"fileId"`
	Filename   string    `json:"filename"`
	WordCount  int       `json:"wordCount"`
	UploadedAt time.Time `json:"uploadTime"`
}

// Summary projects a Document onto its list view.
func (d *Document) Summary() DocumentSummary {
	return DocumentSummary{
		ID:         d.ID,
		Filename:   d.Filename,
		WordCount:  d.WordCount,
		UploadedAt: d.UploadedAt,
	}
}
