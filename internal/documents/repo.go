package documents

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("document not found")

// Repo defines persistence operations for documents. Deleting a document also
// removes its markers (cascading foreign key in Postgres).
type Repo interface {
	Create(ctx context.Context, doc Document) error
	GetByID(ctx context.Context, documentID string) (Document, error)
	ListByUser(ctx context.Context, userID string) ([]ListItem, error)
	Delete(ctx context.Context, documentID string) error
}
