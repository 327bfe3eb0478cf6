package markers_test

import (
	"context"
	"errors"
	"testing"

	"healthtrack-backend/internal/markers"
)

func TestAddManualAppliesDefaults(t *testing.T) {
	svc := markers.NewService(markers.NewMemoryRepo())
	ctx := context.Background()

	marker, err := svc.AddManual(ctx, "user-1", "Blood Pressure", "118/76")
	if err != nil {
		t.Fatalf("AddManual: %v", err)
	}
	if marker.Unit != "mmHg" || marker.Category != "Cardiovascular" {
		t.Fatalf("defaults not applied: %+v", marker)
	}
	if marker.ReferenceMin != "90/60" || marker.ReferenceMax != "120/80" {
		t.Fatalf("reference range not applied: %+v", marker)
	}
	if marker.DocumentID != "" {
		t.Fatalf("manual markers must not reference a document")
	}

	if _, err := svc.AddManual(ctx, "user-1", "Ferritin", "80"); !errors.Is(err, markers.ErrUnknownMarker) {
		t.Fatalf("expected ErrUnknownMarker for names outside the catalog, got %v", err)
	}
}

func TestUpdateRejectsNonOwner(t *testing.T) {
	repo := markers.NewMemoryRepo()
	svc := markers.NewService(repo)
	ctx := context.Background()

	marker, err := svc.AddManual(ctx, "owner", "Body Weight", "82")
	if err != nil {
		t.Fatalf("AddManual: %v", err)
	}

	if err := svc.Update(ctx, "intruder", marker.ID, "60"); !errors.Is(err, markers.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for non-owner update, got %v", err)
	}
	stored, err := repo.GetByID(ctx, marker.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored.Value != "82" {
		t.Fatalf("non-owner update must not change the row, value now %s", stored.Value)
	}

	if err := svc.Update(ctx, "owner", marker.ID, "81"); err != nil {
		t.Fatalf("owner update: %v", err)
	}
	stored, _ = repo.GetByID(ctx, marker.ID)
	if stored.Value != "81" {
		t.Fatalf("owner update should change the value, got %s", stored.Value)
	}
}

func TestDeleteRejectsNonOwner(t *testing.T) {
	repo := markers.NewMemoryRepo()
	svc := markers.NewService(repo)
	ctx := context.Background()

	marker, err := svc.AddManual(ctx, "owner", "Body Weight", "82")
	if err != nil {
		t.Fatalf("AddManual: %v", err)
	}

	if err := svc.Delete(ctx, "intruder", marker.ID); !errors.Is(err, markers.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for non-owner delete, got %v", err)
	}
	if _, err := repo.GetByID(ctx, marker.ID); err != nil {
		t.Fatalf("marker should survive a non-owner delete: %v", err)
	}

	if err := svc.Delete(ctx, "owner", marker.ID); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
	if _, err := repo.GetByID(ctx, marker.ID); !errors.Is(err, markers.ErrNotFound) {
		t.Fatalf("marker should be gone after owner delete, got %v", err)
	}
}

func TestTimelineByName(t *testing.T) {
	repo := markers.NewMemoryRepo()
	svc := markers.NewService(repo)
	ctx := context.Background()

	if _, err := svc.AddManual(ctx, "user-1", "Resting Heart Rate", "58"); err != nil {
		t.Fatalf("AddManual: %v", err)
	}

	timeline, err := svc.TimelineByName(ctx, "user-1", "Resting Heart Rate")
	if err != nil {
		t.Fatalf("TimelineByName: %v", err)
	}
	if timeline.Latest != "58" || timeline.Unit != "bpm" {
		t.Fatalf("unexpected timeline: %+v", timeline)
	}

	if _, err := svc.TimelineByName(ctx, "user-1", "resting heart rate"); !errors.Is(err, markers.ErrNotFound) {
		t.Fatalf("name matching must be exact, got %v", err)
	}
}
