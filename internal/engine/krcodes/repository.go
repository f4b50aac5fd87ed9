package krcodes

import (
	"context"
	"database/sql"
	"errors"

	"kompi/internal/engine/links"
)

type Repository struct {
	db links.DBTX
}

func NewRepository(db links.DBTX) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, code *KRCode) error {
	query := `
		INSERT INTO kr_codes (
			id, title, type, destination, short_code_id, style, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	var shortCodeID, style interface{}
	if code.ShortCodeID != "" {
		shortCodeID = code.ShortCodeID
	}
	if len(code.Style) > 0 {
		style = string(code.Style)
	}

	_, err := r.db.ExecContext(ctx, query,
		code.ID,
		code.Title,
		code.Type,
		code.Destination,
		shortCodeID,
		style,
		code.CreatedAt,
		code.UpdatedAt,
	)
	return err
}

func (r *Repository) GetByID(ctx context.Context, id string) (*KRCode, error) {
	query := `
		SELECT id, title, type, destination, short_code_id, style, created_at, updated_at
		FROM kr_codes WHERE id = ?
	`

	var code KRCode
	var title, typ, destination, shortCodeID, style sql.NullString

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&code.ID,
		&title,
		&typ,
		&destination,
		&shortCodeID,
		&style,
		&code.CreatedAt,
		&code.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	code.Title = title.String
	code.Type = typ.String
	code.Destination = destination.String
	code.ShortCodeID = shortCodeID.String
	if style.Valid {
		code.Style = []byte(style.String)
	}

	return &code, nil
}
