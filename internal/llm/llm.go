package llm

import (
	"context"
	"encoding/json"
	"errors"
)

// Client abstracts LLM providers for marker extraction.
type Client interface {
	ExtractMarkers(ctx context.Context, input ExtractInput) (json.RawMessage, error)
}

// ExtractInput captures the inputs for one extraction call.
type ExtractInput struct {
	DocumentText string
	// ExistingMarkers is the user's marker-name vocabulary. The prompt asks
	// the model to reuse these names instead of inventing near-duplicates.
	ExistingMarkers []string
}

// ExtractedMarker is one biomarker reading as returned by the model. All
// fields are strings; compound values and ranges stay verbatim.
type ExtractedMarker struct {
	Name         string `json:"name"`
	Value        string `json:"value"`
	Unit         string `json:"unit"`
	Category     string `json:"category"`
	ReferenceMin string `json:"referenceMin"`
	ReferenceMax string `json:"referenceMax"`
}

// Extraction is the structured output of a document extraction.
type Extraction struct {
	Date    string            `json:"date"`
	Title   string            `json:"title"`
	Notes   string            `json:"notes"`
	Markers []ExtractedMarker `json:"markers"`
}

// ErrNotImplemented is returned by the placeholder client.
var ErrNotImplemented = errors.New("LLM not implemented")

// PlaceholderClient is a stub implementation until provider wiring is added.
type PlaceholderClient struct{}

func (PlaceholderClient) ExtractMarkers(ctx context.Context, input ExtractInput) (json.RawMessage, error) {
	_ = ctx
	_ = input
	return nil, ErrNotImplemented
}
