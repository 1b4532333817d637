// Package history keeps a local record of orders the backend
// acknowledged, so a session can list what it already submitted.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "modernc.org/sqlite"

	"github.com/Vision-Tey/scandi-shop-client/internal/domain"
)

type Record struct {
	ID              string             `json:"id"`
	SessionID       string             `json:"session_id"`
	BackendRef      string             `json:"backend_ref,omitempty"`
	CustomerName    string             `json:"customer_name"`
	CustomerEmail   string             `json:"customer_email"`
	CustomerAddress string             `json:"customer_address"`
	Status          string             `json:"status"`
	TotalPrice      float64            `json:"total_price"`
	Lines           []domain.OrderLine `json:"lines"`
	CreatedAt       time.Time          `json:"created_at"`
}

type Repository struct {
	db *sql.DB
}

func NewRepository(dbPath string) (*Repository, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) RunMigrations(migrationsPath string) error {
	driver, err := sqlite.WithInstance(r.db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", migrationsPath),
		"sqlite",
		driver,
	)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}

func (r *Repository) RecordOrder(ctx context.Context, rec *Record) error {
	lines, err := json.Marshal(rec.Lines)
	if err != nil {
		return fmt.Errorf("failed to marshal order lines: %w", err)
	}

	query := `
		INSERT INTO orders (
			id, session_id, backend_ref, customer_name, customer_email,
			customer_address, status, total_price, lines, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err = r.db.ExecContext(ctx, query,
		rec.ID,
		rec.SessionID,
		rec.BackendRef,
		rec.CustomerName,
		rec.CustomerEmail,
		rec.CustomerAddress,
		rec.Status,
		rec.TotalPrice,
		string(lines),
		rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}
	return nil
}

func (r *Repository) OrdersBySession(ctx context.Context, sessionID string) ([]Record, error) {
	query := `
		SELECT id, session_id, backend_ref, customer_name, customer_email,
		       customer_address, status, total_price, lines, created_at
		FROM orders
		WHERE session_id = $1
		ORDER BY created_at
	`

	rows, err := r.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		var lines string
		err := rows.Scan(
			&rec.ID,
			&rec.SessionID,
			&rec.BackendRef,
			&rec.CustomerName,
			&rec.CustomerEmail,
			&rec.CustomerAddress,
			&rec.Status,
			&rec.TotalPrice,
			&lines,
			&rec.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		if err := json.Unmarshal([]byte(lines), &rec.Lines); err != nil {
			return nil, fmt.Errorf("failed to unmarshal order lines: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return records, nil
}
