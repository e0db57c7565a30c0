package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/XavierBriggs/fortuna/services/prop-builder/pkg/models"
	_ "github.com/lib/pq"
)

// Schema creates the watchlist table if it does not exist
const Schema = `
	CREATE TABLE IF NOT EXISTS user_watchlists (
		user_key   TEXT PRIMARY KEY,
		props      JSONB NOT NULL DEFAULT '[]'::jsonb,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)
`

// PostgresWatchlist implements WatchlistStore with one JSONB document per user
type PostgresWatchlist struct {
	db *sql.DB
}

// NewPostgresWatchlist opens the database and configures the connection pool
func NewPostgresWatchlist(dsn string) (*PostgresWatchlist, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	return &PostgresWatchlist{db: db}, nil
}

// Migrate creates the watchlist table
func (p *PostgresWatchlist) Migrate(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("create user_watchlists: %w", err)
	}
	return nil
}

// Ping checks database connectivity
func (p *PostgresWatchlist) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

// Close closes the database
func (p *PostgresWatchlist) Close() error {
	return p.db.Close()
}

// LoadProps returns the user's saved props; an unknown user has an empty list
func (p *PostgresWatchlist) LoadProps(ctx context.Context, userKey string) ([]models.Prop, error) {
	var propsJSON []byte
	err := p.db.QueryRowContext(ctx,
		`SELECT props FROM user_watchlists WHERE user_key = $1`,
		userKey,
	).Scan(&propsJSON)

	if errors.Is(err, sql.ErrNoRows) {
		return []models.Prop{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get watchlist: %w", err)
	}

	return decodeProps(propsJSON)
}

// ReplaceProps overwrites the user's saved props
func (p *PostgresWatchlist) ReplaceProps(ctx context.Context, userKey string, props []models.Prop) error {
	propsJSON, err := encodeProps(props)
	if err != nil {
		return err
	}

	_, err = p.db.ExecContext(ctx,
		`INSERT INTO user_watchlists (user_key, props, updated_at)
		 VALUES ($1, $2, NOW())
		 ON CONFLICT (user_key)
		 DO UPDATE SET props = EXCLUDED.props, updated_at = NOW()`,
		userKey, propsJSON,
	)
	if err != nil {
		return fmt.Errorf("replace watchlist: %w", err)
	}

	return nil
}

func encodeProps(props []models.Prop) ([]byte, error) {
	if props == nil {
		props = []models.Prop{}
	}
	data, err := json.Marshal(props)
	if err != nil {
		return nil, fmt.Errorf("marshal watchlist: %w", err)
	}
	return data, nil
}

func decodeProps(data []byte) ([]models.Prop, error) {
	props := []models.Prop{}
	if len(data) == 0 {
		return props, nil
	}
	if err := json.Unmarshal(data, &props); err != nil {
		return nil, fmt.Errorf("parse watchlist JSON: %w", err)
	}
	return props, nil
}
