package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/DanielPopoola/connect-fulfillment/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrRecordNotFound = errors.New("dispatch record not found")

const defaultHistoryLimit = 50

// DispatchRepository is the append-only journal of dispatches.
type DispatchRepository struct {
	db *pgxpool.Pool
}

func NewDispatchRepository(db *pgxpool.Pool) *DispatchRepository {
	return &DispatchRepository{db: db}
}

func (r *DispatchRepository) Record(ctx context.Context, rec domain.DispatchRecord) error {
	query := `
		INSERT INTO dispatch_records (
			id, item_id, item_kind, outcome, result, error, started_at, finished_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Exec(ctx, query,
		rec.ID,
		rec.ItemID,
		string(rec.Kind),
		rec.Outcome,
		rec.Result,
		rec.Error,
		rec.StartedAt,
		rec.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record dispatch: %w", err)
	}
	return nil
}

// FindByItemID returns the most recent dispatches of an item, newest first.
// A non-positive limit falls back to a default page size.
func (r *DispatchRepository) FindByItemID(ctx context.Context, itemID string, limit int) ([]domain.DispatchRecord, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	query := `
		SELECT id, item_id, item_kind, outcome, result, error, started_at, finished_at
		FROM dispatch_records
		WHERE item_id = $1
		ORDER BY started_at DESC
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, itemID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query dispatch records: %w", err)
	}
	defer rows.Close()

	var records []domain.DispatchRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating dispatch records: %w", err)
	}
	return records, nil
}

func (r *DispatchRepository) LatestByItemID(ctx context.Context, itemID string) (*domain.DispatchRecord, error) {
	query := `
		SELECT id, item_id, item_kind, outcome, result, error, started_at, finished_at
		FROM dispatch_records
		WHERE item_id = $1
		ORDER BY started_at DESC
		LIMIT 1
	`

	return scanRecord(r.db.QueryRow(ctx, query, itemID))
}

func scanRecord(row pgx.Row) (*domain.DispatchRecord, error) {
	var (
		rec  domain.DispatchRecord
		kind string
	)

	err := row.Scan(
		&rec.ID,
		&rec.ItemID,
		&kind,
		&rec.Outcome,
		&rec.Result,
		&rec.Error,
		&rec.StartedAt,
		&rec.FinishedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to scan dispatch record: %w", err)
	}

	rec.Kind = domain.ItemKind(kind)
	return &rec, nil
}
