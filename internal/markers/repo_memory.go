package markers

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo is an in-memory Repo for development and tests.
type MemoryRepo struct {
	mu      sync.RWMutex
	markers map[string]Marker
}

// NewMemoryRepo constructs an empty MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{markers: make(map[string]Marker)}
}

func (r *MemoryRepo) Create(ctx context.Context, marker Marker) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.store(marker)
	return nil
}

// CreateBatch inserts several markers at once. Used by the ingest recorder.
func (r *MemoryRepo) CreateBatch(ctx context.Context, batch []Marker) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, marker := range batch {
		r.store(marker)
	}
	return nil
}

func (r *MemoryRepo) store(marker Marker) {
	if marker.CreatedAt.IsZero() {
		marker.CreatedAt = time.Now().UTC()
	}
	if marker.UpdatedAt.IsZero() {
		marker.UpdatedAt = marker.CreatedAt
	}
	r.markers[marker.ID] = marker
}

func (r *MemoryRepo) GetByID(ctx context.Context, markerID string) (Marker, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	marker, ok := r.markers[markerID]
	if !ok {
		return Marker{}, ErrNotFound
	}
	return marker, nil
}

func (r *MemoryRepo) ListByUser(ctx context.Context, userID string) ([]Marker, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Marker
	for _, marker := range r.markers {
		if marker.UserID == userID {
			out = append(out, marker)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *MemoryRepo) Vocabulary(ctx context.Context, userID string) ([]NameUnit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	seen := make(map[NameUnit]bool)
	for _, marker := range r.markers {
		if marker.UserID == userID {
			seen[NameUnit{Name: marker.Name, Unit: marker.Unit}] = true
		}
	}
	out := make([]NameUnit, 0, len(seen))
	for entry := range seen {
		out = append(out, entry)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *MemoryRepo) UpdateValue(ctx context.Context, markerID, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	marker, ok := r.markers[markerID]
	if !ok {
		return ErrNotFound
	}
	marker.Value = value
	marker.UpdatedAt = time.Now().UTC()
	r.markers[markerID] = marker
	return nil
}

func (r *MemoryRepo) Delete(ctx context.Context, markerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.markers[markerID]; !ok {
		return ErrNotFound
	}
	delete(r.markers, markerID)
	return nil
}

// DeleteByDocument mirrors the ON DELETE CASCADE foreign key on markers.
func (r *MemoryRepo) DeleteByDocument(ctx context.Context, documentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, marker := range r.markers {
		if marker.DocumentID == documentID {
			delete(r.markers, id)
		}
	}
	return nil
}

var _ Repo = (*MemoryRepo)(nil)
