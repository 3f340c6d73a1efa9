// Package store persists completed-service records in Postgres through the
// pgx database/sql driver.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/postoffice-sim/postoffice-sim/sim"
)

// Open connects to Postgres and verifies the connection.
func Open(databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open: open postgres database: %w", err)
	}

	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("open: verify postgres connection: %w", err)
	}
	return db, nil
}

// InitSchema creates the queue_records table when missing.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	statements := []string{
		`CREATE TABLE IF NOT EXISTS queue_records (
			seq BIGSERIAL PRIMARY KEY,
			customer_id INTEGER NOT NULL,
			purpose TEXT NOT NULL,
			estimated_time INTEGER NOT NULL,
			wait_time DOUBLE PRECISION NOT NULL,
			counter_no INTEGER NOT NULL,
			queue_in_time TEXT NOT NULL,
			queue_out_time TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_queue_records_arrival
		ON queue_records(queue_in_time);`,
	}
	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}
	return nil
}

// PostgresSink is a sim.ResultSink and sim.RecordReader backed by queue_records.
type PostgresSink struct{ DB *sql.DB }

func NewPostgresSink(db *sql.DB) *PostgresSink {
	return &PostgresSink{DB: db}
}

// Clear removes all rows left by a previous run.
func (s *PostgresSink) Clear(ctx context.Context) error {
	if s.DB == nil {
		return errors.New("postgres sink: DB is nil")
	}
	if _, err := s.DB.ExecContext(ctx, `DELETE FROM queue_records;`); err != nil {
		return fmt.Errorf("clear: delete queue_records: %w", err)
	}
	return nil
}

// Append inserts one record in its own transaction, so a failed row leaves
// earlier rows untouched.
func (s *PostgresSink) Append(ctx context.Context, r sim.Record) error {
	if s.DB == nil {
		return errors.New("postgres sink: DB is nil")
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("append: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `
	INSERT INTO queue_records (
		customer_id, purpose, estimated_time, wait_time,
		counter_no, queue_in_time, queue_out_time
	) VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err = tx.ExecContext(ctx, query,
		r.CustomerID,
		string(r.Purpose),
		r.EstimatedMinutes,
		r.WaitMinutes,
		r.Counter,
		r.ArrivalTime.Format(sim.TimestampLayout),
		r.DepartureTime.Format(sim.TimestampLayout),
	)
	if err != nil {
		return fmt.Errorf("append: insert customer %d: %w", r.CustomerID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("append: commit tx: %w", err)
	}
	return nil
}

// Records returns all rows in insertion order. Timestamps are parsed in UTC.
func (s *PostgresSink) Records(ctx context.Context) ([]sim.Record, error) {
	if s.DB == nil {
		return nil, errors.New("postgres sink: DB is nil")
	}

	query := `
	SELECT
		customer_id, purpose, estimated_time, wait_time,
		counter_no, queue_in_time, queue_out_time
	FROM queue_records
	ORDER BY seq;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("records: query queue_records: %w", err)
	}
	defer rows.Close()

	records := make([]sim.Record, 0, 256)
	for rows.Next() {
		var (
			r                 sim.Record
			purpose           string
			arrival, departed string
		)
		if err := rows.Scan(&r.CustomerID, &purpose, &r.EstimatedMinutes, &r.WaitMinutes,
			&r.Counter, &arrival, &departed); err != nil {
			return nil, fmt.Errorf("records: scan row: %w", err)
		}
		r.Purpose = sim.Purpose(purpose)
		if r.ArrivalTime, err = time.Parse(sim.TimestampLayout, arrival); err != nil {
			return nil, fmt.Errorf("records: customer %d arrival: %w", r.CustomerID, err)
		}
		if r.DepartureTime, err = time.Parse(sim.TimestampLayout, departed); err != nil {
			return nil, fmt.Errorf("records: customer %d departure: %w", r.CustomerID, err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("records: row iteration: %w", err)
	}
	return records, nil
}
