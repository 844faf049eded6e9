package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/vivantaneja/Scoresheet-Analyser/pkg/models"
)

// PostgresRepository stores match records as JSONB rows, one per match
// ID.
type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository opens the database, verifies connectivity and
// ensures the backing table exists.
func NewPostgresRepository(dsn string) (*PostgresRepository, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS match_records (
			match_id   TEXT PRIMARY KEY,
			record     JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`); err != nil {
		return nil, fmt.Errorf("failed to create match_records table: %w", err)
	}

	return &PostgresRepository{db: db}, nil
}

// Load reads the stored record, self-healing a missing or undecodable
// row to the persisted default record.
func (r *PostgresRepository) Load(ctx context.Context, matchID string) (*models.MatchRecord, error) {
	var data []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT record FROM match_records WHERE match_id = $1`, matchID,
	).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return r.heal(ctx, matchID)
		}
		return nil, fmt.Errorf("reading record: %w", err)
	}

	var rec models.MatchRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return r.heal(ctx, matchID)
	}
	return &rec, nil
}

// Save upserts the whole record.
func (r *PostgresRepository) Save(ctx context.Context, matchID string, rec *models.MatchRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshaling record: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO match_records (match_id, record, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (match_id)
		DO UPDATE SET record = EXCLUDED.record, updated_at = now()
	`, matchID, data)
	if err != nil {
		return fmt.Errorf("writing record: %w", err)
	}
	return nil
}

// Ping checks database connectivity.
func (r *PostgresRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Close closes the connection pool.
func (r *PostgresRepository) Close() error {
	return r.db.Close()
}

func (r *PostgresRepository) heal(ctx context.Context, matchID string) (*models.MatchRecord, error) {
	rec := models.DefaultMatchRecord()
	if err := r.Save(ctx, matchID, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}
