package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alexanderramin/rexa/internal/domain"
)

const defaultListLimit = 20

// SQLiteRoutingRepo implements RoutingRepo using a SQLite database.
type SQLiteRoutingRepo struct {
	db *sql.DB
}

// NewSQLiteRoutingRepo creates a new SQLiteRoutingRepo.
func NewSQLiteRoutingRepo(db *sql.DB) *SQLiteRoutingRepo {
	return &SQLiteRoutingRepo{db: db}
}

func (r *SQLiteRoutingRepo) Create(ctx context.Context, rec *domain.RoutingRecord) error {
	query := `INSERT INTO routing_log (id, strategy, topic, outcome, model, query_chars, latency_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		rec.ID,
		rec.Strategy,
		rec.Topic,
		rec.Outcome,
		rec.Model,
		rec.QueryChars,
		rec.LatencyMs,
		formatTime(rec.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting routing record: %w", err)
	}
	return nil
}

func (r *SQLiteRoutingRepo) GetByID(ctx context.Context, id string) (*domain.RoutingRecord, error) {
	query := `SELECT id, strategy, topic, outcome, model, query_chars, latency_ms, created_at
		FROM routing_log WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)

	var rec domain.RoutingRecord
	var createdAtStr string
	err := row.Scan(&rec.ID, &rec.Strategy, &rec.Topic, &rec.Outcome, &rec.Model,
		&rec.QueryChars, &rec.LatencyMs, &createdAtStr)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("routing record: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning routing record: %w", err)
	}
	if rec.CreatedAt, err = parseTime(createdAtStr); err != nil {
		return nil, err
	}
	return &rec, nil
}

// ListRecent returns the newest records first. A non-positive limit uses
// the default of 20.
func (r *SQLiteRoutingRepo) ListRecent(ctx context.Context, limit int) ([]*domain.RoutingRecord, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	query := `SELECT id, strategy, topic, outcome, model, query_chars, latency_ms, created_at
		FROM routing_log ORDER BY created_at DESC, rowid DESC LIMIT ?`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("listing routing records: %w", err)
	}
	defer rows.Close()

	var records []*domain.RoutingRecord
	for rows.Next() {
		var rec domain.RoutingRecord
		var createdAtStr string
		if err := rows.Scan(&rec.ID, &rec.Strategy, &rec.Topic, &rec.Outcome, &rec.Model,
			&rec.QueryChars, &rec.LatencyMs, &createdAtStr); err != nil {
			return nil, fmt.Errorf("scanning routing row: %w", err)
		}
		if rec.CreatedAt, err = parseTime(createdAtStr); err != nil {
			return nil, err
		}
		records = append(records, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating routing records: %w", err)
	}
	return records, nil
}

// CountByTopic aggregates records per strategy, topic and outcome.
func (r *SQLiteRoutingRepo) CountByTopic(ctx context.Context) ([]domain.TopicCount, error) {
	query := `SELECT strategy, topic, outcome, COUNT(*)
		FROM routing_log
		GROUP BY strategy, topic, outcome
		ORDER BY strategy, topic, outcome`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("counting routing records: %w", err)
	}
	defer rows.Close()

	var counts []domain.TopicCount
	for rows.Next() {
		var c domain.TopicCount
		if err := rows.Scan(&c.Strategy, &c.Topic, &c.Outcome, &c.Count); err != nil {
			return nil, fmt.Errorf("scanning topic count: %w", err)
		}
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating topic counts: %w", err)
	}
	return counts, nil
}
