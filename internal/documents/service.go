package documents

import (
	"context"
	"errors"
	"time"

	"healthtrack-backend/internal/shared/storage/object"
	"healthtrack-backend/internal/shared/telemetry"
)

// ArtifactDeleter removes a file previously uploaded to the OCR provider.
type ArtifactDeleter interface {
	DeleteFile(ctx context.Context, fileID string) error
}

const cleanupTimeout = 30 * time.Second

type Service struct {
	Repo  Repo
	Store object.ObjectStore
	OCR   ArtifactDeleter
}

func NewService(repo Repo, store object.ObjectStore, ocr ArtifactDeleter) *Service {
	return &Service{Repo: repo, Store: store, OCR: ocr}
}

// List returns the user's documents, newest observation date first, each with
// its marker count.
func (s *Service) List(ctx context.Context, userID string) ([]ListItem, error) {
	if s == nil || s.Repo == nil {
		return nil, errors.New("documents service not configured")
	}
	return s.Repo.ListByUser(ctx, userID)
}

// Delete removes a document after re-checking ownership. Markers cascade with
// the row. External artifacts (OCR provider file, stored original) are cleaned
// up best-effort after the delete; failures are only logged.
func (s *Service) Delete(ctx context.Context, userID, documentID string) error {
	if s == nil || s.Repo == nil {
		return errors.New("documents service not configured")
	}
	doc, err := s.Repo.GetByID(ctx, documentID)
	if err != nil {
		return err
	}
	if doc.UserID != userID {
		return ErrNotFound
	}
	if err := s.Repo.Delete(ctx, documentID); err != nil {
		return err
	}

	go s.cleanupArtifacts(doc)
	return nil
}

func (s *Service) cleanupArtifacts(doc Document) {
	ctx, cancel := context.WithTimeout(context.Background(), cleanupTimeout)
	defer cancel()

	if doc.OCRFileID != "" && s.OCR != nil {
		if err := s.OCR.DeleteFile(ctx, doc.OCRFileID); err != nil {
			telemetry.Warn("document.ocr_cleanup_failed", map[string]any{
				"document_id": doc.ID,
				"ocr_file_id": doc.OCRFileID,
				"error":       err.Error(),
			})
		}
	}
	if doc.StorageKey != "" && s.Store != nil {
		if err := s.Store.Delete(ctx, doc.StorageKey); err != nil {
			telemetry.Warn("document.storage_cleanup_failed", map[string]any{
				"document_id": doc.ID,
				"storage_key": doc.StorageKey,
				"error":       err.Error(),
			})
		}
	}
}
