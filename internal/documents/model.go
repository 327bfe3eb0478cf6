package documents

import "time"

// Document is one uploaded lab report. Content keeps the raw extracted text;
// Date is the observation date the report refers to, not the upload time.
type Document struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	FileName   string    `json:"fileName"`
	Title      string    `json:"title"`
	Content    string    `json:"content,omitempty"`
	Date       time.Time `json:"date"`
	Notes      string    `json:"notes,omitempty"`
	OCRFileID  string    `json:"-"`
	StorageKey string    `json:"-"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// ListItem is a document plus how many markers were extracted from it.
type ListItem struct {
	Document
	MarkerCount int `json:"markerCount"`
}
