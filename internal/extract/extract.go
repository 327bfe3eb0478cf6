package extract

import (
	"context"
	"errors"
)

// Result is the outcome of text extraction. OCRFileID is set only by the OCR
// strategy and is kept for later deletion of the provider-side artifact.
type Result struct {
	Text      string
	OCRFileID string
}

// Extractor converts an uploaded document into plain text.
type Extractor interface {
	Extract(ctx context.Context, data []byte, mimeType, fileName string) (Result, error)
}

// ErrUnsupportedType is returned for payloads that are not PDF documents.
var ErrUnsupportedType = errors.New("unsupported file type")
