package markers

import "time"

// Marker is a single biomarker observation. Value and the reference bounds
// stay text so compound readings like "120/80" survive verbatim.
type Marker struct {
	ID           string    `json:"id"`
	UserID       string    `json:"userId"`
	DocumentID   string    `json:"documentId,omitempty"`
	Name         string    `json:"name"`
	Value        string    `json:"value"`
	Unit         string    `json:"unit,omitempty"`
	Category     string    `json:"category,omitempty"`
	ReferenceMin string    `json:"referenceMin,omitempty"`
	ReferenceMax string    `json:"referenceMax,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// NameUnit is the vocabulary entry handed to the extraction prompt so new
// documents reuse established marker names.
type NameUnit struct {
	Name string `json:"name"`
	Unit string `json:"unit,omitempty"`
}
