package markers

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("marker not found")

// Repo defines persistence operations for markers. ListByUser returns rows
// newest first; timeline grouping depends on that order.
type Repo interface {
	Create(ctx context.Context, marker Marker) error
	GetByID(ctx context.Context, markerID string) (Marker, error)
	ListByUser(ctx context.Context, userID string) ([]Marker, error)
	Vocabulary(ctx context.Context, userID string) ([]NameUnit, error)
	UpdateValue(ctx context.Context, markerID, value string) error
	Delete(ctx context.Context, markerID string) error
}
