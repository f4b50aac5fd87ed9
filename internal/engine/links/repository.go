package links

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Repository struct {
	db DBTX
}

func NewRepository(db DBTX) *Repository {
	return &Repository{db: db}
}

const linkColumns = `id, code, target_url, title, is_active, clicks, created_at, updated_at`

func (r *Repository) Create(ctx context.Context, link *Link) error {
	query := `
		INSERT INTO links (` + linkColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		link.ID,
		link.Code,
		link.TargetURL,
		link.Title,
		link.IsActive,
		link.Clicks,
		link.CreatedAt,
		link.UpdatedAt,
	)

	return err
}

func (r *Repository) GetByID(ctx context.Context, id string) (*Link, error) {
	query := `SELECT ` + linkColumns + ` FROM links WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)
	return scanLink(row)
}

// GetActiveByCode returns the link only when it is active.
func (r *Repository) GetActiveByCode(ctx context.Context, code string) (*Link, error) {
	query := `SELECT ` + linkColumns + ` FROM links WHERE code = ? AND is_active = 1`
	row := r.db.QueryRowContext(ctx, query, code)
	return scanLink(row)
}

func (r *Repository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var exists bool
	query := "SELECT EXISTS(SELECT 1 FROM links WHERE code = ?)"
	err := r.db.QueryRowContext(ctx, query, code).Scan(&exists)
	return exists, err
}

func (r *Repository) IncrementClicks(ctx context.Context, id string) error {
	query := `UPDATE links SET clicks = clicks + 1, updated_at = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, time.Now().Unix(), id)
	return err
}

func scanLink(s interface {
	Scan(dest ...interface{}) error
}) (*Link, error) {
	var link Link
	var title sql.NullString

	err := s.Scan(
		&link.ID,
		&link.Code,
		&link.TargetURL,
		&title,
		&link.IsActive,
		&link.Clicks,
		&link.CreatedAt,
		&link.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	link.Title = title.String
	return &link, nil
}
