package markers

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrUnknownMarker = errors.New("invalid marker type")

type Service struct {
	Repo Repo
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

// AddManual creates a marker outside the document pipeline. Unit, category
// and reference range come from the manual-entry catalog; unknown names are
// rejected.
func (s *Service) AddManual(ctx context.Context, userID, name, value string) (Marker, error) {
	if s == nil || s.Repo == nil {
		return Marker{}, errors.New("markers service not configured")
	}
	name = strings.TrimSpace(name)
	value = strings.TrimSpace(value)
	if name == "" || value == "" {
		return Marker{}, errors.New("name and value are required")
	}
	info, ok := markerDefaults[name]
	if !ok {
		return Marker{}, ErrUnknownMarker
	}

	now := time.Now().UTC()
	marker := Marker{
		ID:           uuid.NewString(),
		UserID:       userID,
		Name:         name,
		Value:        value,
		Unit:         info.Unit,
		Category:     info.Category,
		ReferenceMin: info.Min,
		ReferenceMax: info.Max,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Repo.Create(ctx, marker); err != nil {
		return Marker{}, err
	}
	return marker, nil
}

// Update changes a marker's value after re-checking ownership. A marker owned
// by someone else reads as not found so ids cannot be probed.
func (s *Service) Update(ctx context.Context, userID, markerID, value string) error {
	if s == nil || s.Repo == nil {
		return errors.New("markers service not configured")
	}
	marker, err := s.Repo.GetByID(ctx, markerID)
	if err != nil {
		return err
	}
	if marker.UserID != userID {
		return ErrNotFound
	}
	return s.Repo.UpdateValue(ctx, markerID, value)
}

// Delete removes one marker after re-checking ownership.
func (s *Service) Delete(ctx context.Context, userID, markerID string) error {
	if s == nil || s.Repo == nil {
		return errors.New("markers service not configured")
	}
	marker, err := s.Repo.GetByID(ctx, markerID)
	if err != nil {
		return err
	}
	if marker.UserID != userID {
		return ErrNotFound
	}
	return s.Repo.Delete(ctx, markerID)
}

// Timelines groups all of a user's markers by name.
func (s *Service) Timelines(ctx context.Context, userID string) ([]Timeline, error) {
	if s == nil || s.Repo == nil {
		return nil, errors.New("markers service not configured")
	}
	all, err := s.Repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return BuildTimelines(all), nil
}

// TimelineByName returns the timeline for one exact marker name.
func (s *Service) TimelineByName(ctx context.Context, userID, name string) (Timeline, error) {
	timelines, err := s.Timelines(ctx, userID)
	if err != nil {
		return Timeline{}, err
	}
	for _, timeline := range timelines {
		if timeline.Name == name {
			return timeline, nil
		}
	}
	return Timeline{}, ErrNotFound
}

// Vocabulary lists the user's distinct marker name/unit pairs for the
// extraction prompt.
func (s *Service) Vocabulary(ctx context.Context, userID string) ([]NameUnit, error) {
	if s == nil || s.Repo == nil {
		return nil, errors.New("markers service not configured")
	}
	return s.Repo.Vocabulary(ctx, userID)
}
