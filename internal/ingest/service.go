package ingest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"healthtrack-backend/internal/documents"
	"healthtrack-backend/internal/extract"
	"healthtrack-backend/internal/llm"
	"healthtrack-backend/internal/markers"
	"healthtrack-backend/internal/shared/metrics"
	"healthtrack-backend/internal/shared/storage/object"
	"healthtrack-backend/internal/shared/telemetry"
)

// VocabularySource lists the user's existing marker names so the extraction
// prompt can reuse them.
type VocabularySource interface {
	Vocabulary(ctx context.Context, userID string) ([]markers.NameUnit, error)
}

// UploadFile is one file from a multipart upload, fully read into memory.
type UploadFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// Service runs the upload pipeline: store the original, extract text, ask the
// LLM for structured markers, validate, persist. Files are processed
// sequentially in request order; the first failure aborts the batch and
// already-persisted documents stay.
type Service struct {
	Store     object.ObjectStore
	Extractor extract.Extractor
	LLM       llm.Client
	Vocab     VocabularySource
	Recorder  Recorder
}

func NewService(store object.ObjectStore, extractor extract.Extractor, client llm.Client, vocab VocabularySource, recorder Recorder) *Service {
	return &Service{
		Store:     store,
		Extractor: extractor,
		LLM:       client,
		Vocab:     vocab,
		Recorder:  recorder,
	}
}

// ProcessUpload ingests the files one by one.
func (s *Service) ProcessUpload(ctx context.Context, userID string, files []UploadFile) error {
	if s == nil || s.Extractor == nil || s.LLM == nil || s.Recorder == nil {
		return errors.New("ingest service not configured")
	}
	if len(files) == 0 {
		return errors.New("no files to process")
	}

	for i, file := range files {
		if err := s.processOne(ctx, userID, file); err != nil {
			telemetry.Error("ingest.file_failed", map[string]any{
				"user_id":   userID,
				"file_name": file.Name,
				"position":  i,
				"error":     err.Error(),
			})
			return fmt.Errorf("process %s: %w", file.Name, err)
		}
	}
	return nil
}

func (s *Service) processOne(ctx context.Context, userID string, file UploadFile) error {
	metrics.IncIngestStarted()
	started := metrics.NowMillis()

	var storageKey string
	mimeType := file.ContentType
	if s.Store != nil {
		key, _, detected, err := s.Store.Save(ctx, userID, file.Name, bytes.NewReader(file.Data))
		if err != nil {
			metrics.IncIngestFailed()
			return fmt.Errorf("store original: %w", err)
		}
		storageKey = key
		mimeType = detected
	}

	result, err := s.Extractor.Extract(ctx, file.Data, mimeType, file.Name)
	if err != nil {
		metrics.IncIngestFailed()
		return fmt.Errorf("extract text: %w", err)
	}

	var vocabulary []string
	if s.Vocab != nil {
		entries, err := s.Vocab.Vocabulary(ctx, userID)
		if err != nil {
			metrics.IncIngestFailed()
			return fmt.Errorf("load vocabulary: %w", err)
		}
		for _, entry := range entries {
			vocabulary = append(vocabulary, entry.Name)
		}
	}

	raw, err := s.LLM.ExtractMarkers(ctx, llm.ExtractInput{
		DocumentText:    result.Text,
		ExistingMarkers: vocabulary,
	})
	if err != nil {
		metrics.IncIngestFailed()
		return fmt.Errorf("llm extract: %w", err)
	}

	extraction, date, err := llm.ParseExtraction(raw)
	if err != nil {
		metrics.IncIngestFailed()
		return fmt.Errorf("parse extraction: %w", err)
	}

	doc := documents.Document{
		ID:         uuid.NewString(),
		UserID:     userID,
		FileName:   file.Name,
		Title:      titleOrFileName(extraction.Title, file.Name),
		Content:    result.Text,
		Date:       date,
		Notes:      extraction.Notes,
		OCRFileID:  result.OCRFileID,
		StorageKey: storageKey,
	}

	batch := make([]markers.Marker, 0, len(extraction.Markers))
	for _, extracted := range extraction.Markers {
		batch = append(batch, markers.Marker{
			ID:           uuid.NewString(),
			UserID:       userID,
			DocumentID:   doc.ID,
			Name:         extracted.Name,
			Value:        extracted.Value,
			Unit:         extracted.Unit,
			Category:     extracted.Category,
			ReferenceMin: extracted.ReferenceMin,
			ReferenceMax: extracted.ReferenceMax,
		})
	}

	if err := s.Recorder.RecordExtraction(ctx, doc, batch); err != nil {
		metrics.IncIngestFailed()
		return fmt.Errorf("persist extraction: %w", err)
	}

	metrics.IncIngestCompleted()
	metrics.ObserveIngestDurationMs(metrics.NowMillis() - started)
	telemetry.Info("ingest.file_completed", map[string]any{
		"user_id":     userID,
		"document_id": doc.ID,
		"file_name":   file.Name,
		"markers":     len(batch),
	})
	return nil
}

func titleOrFileName(title, fileName string) string {
	if strings.TrimSpace(title) != "" {
		return title
	}
	return fileName
}
