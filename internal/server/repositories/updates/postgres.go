package updates

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/sleepdiary/internal/common"
	"github.com/dmitrijs2005/sleepdiary/internal/dbx"
)

// PostgresRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, diaryID string) error {
	query := `INSERT INTO diaries (id) VALUES ($1)`
	if _, err := r.db.ExecContext(ctx, query, diaryID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Exists(ctx context.Context, diaryID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM diaries WHERE id = $1)`
	var ok bool
	if err := r.db.QueryRowContext(ctx, query, diaryID).Scan(&ok); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return ok, nil
}

// Append bumps the diary's sequence counter and inserts the payload in one
// statement; the row lock taken by the UPDATE orders concurrent appends.
func (r *PostgresRepository) Append(ctx context.Context, diaryID string, payload []byte) (int64, error) {
	query := `
		WITH d AS (
			UPDATE diaries SET next_seq = next_seq + 1, updated_at = now()
			WHERE id = $1
			RETURNING next_seq
		)
		INSERT INTO diary_updates (diary_id, seq, payload)
		SELECT $1, next_seq, $2 FROM d
		RETURNING seq
	`
	var seq int64
	err := r.db.QueryRowContext(ctx, query, diaryID, payload).Scan(&seq)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, common.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return seq, nil
}

func (r *PostgresRepository) List(ctx context.Context, diaryID string) ([][]byte, error) {
	query := `SELECT payload FROM diary_updates WHERE diary_id = $1 ORDER BY seq`
	rows, err := r.db.QueryContext(ctx, query, diaryID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result [][]byte
	for rows.Next() {
		var p []byte
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}
