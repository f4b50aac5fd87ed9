package redirect

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// ClickEvent is one recorded scan or visit of a short link.
type ClickEvent struct {
	ID         string
	LinkID     string
	CreatedAt  int64
	Referer    string
	UserAgent  string
	DeviceType string
	OS         string
	Browser    string
}

type ClickRepository struct {
	db *sql.DB
}

func NewClickRepository(db *sql.DB) *ClickRepository {
	return &ClickRepository{db: db}
}

// Record stores the event and bumps the link's click counter in one
// transaction.
func (r *ClickRepository) Record(ctx context.Context, ev *ClickEvent) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var referer sql.NullString
	if ev.Referer != "" {
		referer = sql.NullString{String: ev.Referer, Valid: true}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO click_events (id, link_id, created_at, referer, user_agent, device_type, os, browser)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		ev.ID,
		ev.LinkID,
		ev.CreatedAt,
		referer,
		ev.UserAgent,
		ev.DeviceType,
		ev.OS,
		ev.Browser,
	)
	if err != nil {
		return fmt.Errorf("insert click event: %w", err)
	}

	_, err = tx.ExecContext(ctx, `UPDATE links SET clicks = clicks + 1, updated_at = ? WHERE id = ?`, time.Now().Unix(), ev.LinkID)
	if err != nil {
		return fmt.Errorf("increment clicks: %w", err)
	}

	return tx.Commit()
}

// CountByLink returns how many events were recorded for a link.
func (r *ClickRepository) CountByLink(ctx context.Context, linkID string) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM click_events WHERE link_id = ?`, linkID).Scan(&n)
	return n, err
}
