package markers

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const markerColumns = `id, user_id, document_id, name, value, unit, category, reference_min, reference_max, created_at, updated_at`

func (r *PGRepo) Create(ctx context.Context, marker Marker) error {
	const query = `
INSERT INTO markers (id, user_id, document_id, name, value, unit, category, reference_min, reference_max, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now(), now())`
	_, err := r.DB.ExecContext(ctx, query,
		marker.ID,
		marker.UserID,
		nullableString(marker.DocumentID),
		marker.Name,
		marker.Value,
		nullableString(marker.Unit),
		nullableString(marker.Category),
		nullableString(marker.ReferenceMin),
		nullableString(marker.ReferenceMax),
	)
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, markerID string) (Marker, error) {
	const query = `
SELECT ` + markerColumns + `
FROM markers
WHERE id = $1
LIMIT 1`
	marker, err := scanMarker(r.DB.QueryRowContext(ctx, query, markerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Marker{}, ErrNotFound
		}
		return Marker{}, err
	}
	return marker, nil
}

func (r *PGRepo) ListByUser(ctx context.Context, userID string) ([]Marker, error) {
	const query = `
SELECT ` + markerColumns + `
FROM markers
WHERE user_id = $1
ORDER BY created_at DESC, id`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Marker
	for rows.Next() {
		marker, err := scanMarker(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, marker)
	}
	return out, rows.Err()
}

func (r *PGRepo) Vocabulary(ctx context.Context, userID string) ([]NameUnit, error) {
	const query = `
SELECT DISTINCT name, COALESCE(unit, '')
FROM markers
WHERE user_id = $1
ORDER BY name`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []NameUnit
	for rows.Next() {
		var entry NameUnit
		if err := rows.Scan(&entry.Name, &entry.Unit); err != nil {
			return nil, err
		}
		out = append(out, entry)
	}
	return out, rows.Err()
}

func (r *PGRepo) UpdateValue(ctx context.Context, markerID, value string) error {
	const query = `
UPDATE markers
SET value = $1, updated_at = now()
WHERE id = $2`
	res, err := r.DB.ExecContext(ctx, query, value, markerID)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) Delete(ctx context.Context, markerID string) error {
	const query = `DELETE FROM markers WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query, markerID)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMarker(row rowScanner) (Marker, error) {
	var marker Marker
	var documentID, unit, category, refMin, refMax sql.NullString
	err := row.Scan(
		&marker.ID,
		&marker.UserID,
		&documentID,
		&marker.Name,
		&marker.Value,
		&unit,
		&category,
		&refMin,
		&refMax,
		&marker.CreatedAt,
		&marker.UpdatedAt,
	)
	if err != nil {
		return Marker{}, err
	}
	marker.DocumentID = documentID.String
	marker.Unit = unit.String
	marker.Category = category.String
	marker.ReferenceMin = refMin.String
	marker.ReferenceMax = refMax.String
	return marker, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

var _ Repo = (*PGRepo)(nil)
