package ingest

import (
	"context"
	"database/sql"
	"fmt"

	"healthtrack-backend/internal/documents"
	"healthtrack-backend/internal/markers"
)

// Recorder persists one extraction result: the document row and its marker
// rows together. Either everything lands or nothing does.
type Recorder interface {
	RecordExtraction(ctx context.Context, doc documents.Document, batch []markers.Marker) error
}

// PGRecorder writes the document and its markers in a single transaction.
type PGRecorder struct {
	DB *sql.DB
}

func (r *PGRecorder) RecordExtraction(ctx context.Context, doc documents.Document, batch []markers.Marker) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	const insertDoc = `
INSERT INTO documents (id, user_id, file_name, title, content, date, notes, ocr_file_id, storage_key, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now(), now())`
	_, err = tx.ExecContext(ctx, insertDoc,
		doc.ID,
		doc.UserID,
		doc.FileName,
		doc.Title,
		doc.Content,
		doc.Date,
		nullableString(doc.Notes),
		nullableString(doc.OCRFileID),
		nullableString(doc.StorageKey),
	)
	if err != nil {
		return fmt.Errorf("insert document: %w", err)
	}

	const insertMarker = `
INSERT INTO markers (id, user_id, document_id, name, value, unit, category, reference_min, reference_max, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now(), now())`
	for _, marker := range batch {
		_, err = tx.ExecContext(ctx, insertMarker,
			marker.ID,
			marker.UserID,
			marker.DocumentID,
			marker.Name,
			marker.Value,
			nullableString(marker.Unit),
			nullableString(marker.Category),
			nullableString(marker.ReferenceMin),
			nullableString(marker.ReferenceMax),
		)
		if err != nil {
			return fmt.Errorf("insert marker %s: %w", marker.Name, err)
		}
	}

	return tx.Commit()
}

// MemoryRecorder writes to the in-memory repositories for development and
// tests. No real transaction; document first so a failed marker write never
// leaves orphaned markers.
type MemoryRecorder struct {
	Docs    *documents.MemoryRepo
	Markers *markers.MemoryRepo
}

func (r *MemoryRecorder) RecordExtraction(ctx context.Context, doc documents.Document, batch []markers.Marker) error {
	if err := r.Docs.Create(ctx, doc); err != nil {
		return err
	}
	return r.Markers.CreateBatch(ctx, batch)
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

var (
	_ Recorder = (*PGRecorder)(nil)
	_ Recorder = (*MemoryRecorder)(nil)
)
