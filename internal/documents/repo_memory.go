package documents

import (
	"context"
	"sort"
	"sync"
	"time"

	"healthtrack-backend/internal/markers"
)

// MemoryRepo is an in-memory Repo for development and tests. It shares the
// marker store so document deletion cascades the way the Postgres foreign
// key does.
type MemoryRepo struct {
	mu      sync.RWMutex
	docs    map[string]Document
	markers *markers.MemoryRepo
}

// NewMemoryRepo constructs a MemoryRepo. markerStore may be nil when marker
// cascade is irrelevant to the test.
func NewMemoryRepo(markerStore *markers.MemoryRepo) *MemoryRepo {
	return &MemoryRepo{docs: make(map[string]Document), markers: markerStore}
}

func (r *MemoryRepo) Create(ctx context.Context, doc Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}
	if doc.UpdatedAt.IsZero() {
		doc.UpdatedAt = doc.CreatedAt
	}
	r.docs[doc.ID] = doc
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, documentID string) (Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	doc, ok := r.docs[documentID]
	if !ok {
		return Document{}, ErrNotFound
	}
	return doc, nil
}

func (r *MemoryRepo) ListByUser(ctx context.Context, userID string) ([]ListItem, error) {
	r.mu.RLock()
	var out []ListItem
	for _, doc := range r.docs {
		if doc.UserID == userID {
			out = append(out, ListItem{Document: doc})
		}
	}
	r.mu.RUnlock()

	if r.markers != nil {
		for i := range out {
			all, err := r.markers.ListByUser(ctx, userID)
			if err != nil {
				return nil, err
			}
			for _, marker := range all {
				if marker.DocumentID == out[i].ID {
					out[i].MarkerCount++
				}
			}
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *MemoryRepo) Delete(ctx context.Context, documentID string) error {
	r.mu.Lock()
	if _, ok := r.docs[documentID]; !ok {
		r.mu.Unlock()
		return ErrNotFound
	}
	delete(r.docs, documentID)
	r.mu.Unlock()

	if r.markers != nil {
		return r.markers.DeleteByDocument(ctx, documentID)
	}
	return nil
}

var _ Repo = (*MemoryRepo)(nil)
