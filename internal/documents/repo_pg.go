package documents

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Create(ctx context.Context, doc Document) error {
	const query = `
INSERT INTO documents (id, user_id, file_name, title, content, date, notes, ocr_file_id, storage_key, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now(), now())`
	_, err := r.DB.ExecContext(ctx, query,
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
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, documentID string) (Document, error) {
	const query = `
SELECT id, user_id, file_name, title, content, date, notes, ocr_file_id, storage_key, created_at, updated_at
FROM documents
WHERE id = $1
LIMIT 1`
	var doc Document
	var notes, ocrFileID, storageKey sql.NullString
	err := r.DB.QueryRowContext(ctx, query, documentID).Scan(
		&doc.ID,
		&doc.UserID,
		&doc.FileName,
		&doc.Title,
		&doc.Content,
		&doc.Date,
		&notes,
		&ocrFileID,
		&storageKey,
		&doc.CreatedAt,
		&doc.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Document{}, ErrNotFound
		}
		return Document{}, err
	}
	doc.Notes = notes.String
	doc.OCRFileID = ocrFileID.String
	doc.StorageKey = storageKey.String
	return doc, nil
}

func (r *PGRepo) ListByUser(ctx context.Context, userID string) ([]ListItem, error) {
	const query = `
SELECT d.id, d.user_id, d.file_name, d.title, d.date, d.notes, d.created_at, d.updated_at, COUNT(m.id)
FROM documents d
LEFT JOIN markers m ON m.document_id = d.id
WHERE d.user_id = $1
GROUP BY d.id
ORDER BY d.date DESC, d.created_at DESC`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ListItem
	for rows.Next() {
		var item ListItem
		var notes sql.NullString
		err := rows.Scan(
			&item.ID,
			&item.UserID,
			&item.FileName,
			&item.Title,
			&item.Date,
			&notes,
			&item.CreatedAt,
			&item.UpdatedAt,
			&item.MarkerCount,
		)
		if err != nil {
			return nil, err
		}
		item.Notes = notes.String
		out = append(out, item)
	}
	return out, rows.Err()
}

func (r *PGRepo) Delete(ctx context.Context, documentID string) error {
	const query = `DELETE FROM documents WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query, documentID)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

var _ Repo = (*PGRepo)(nil)
