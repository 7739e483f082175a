// Package db persists batch extraction runs and their per-document results in PostgreSQL or SQLite.
package db

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as database/sql driver
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite" // register sqlite as database/sql driver
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Supported database/sql driver names
const (
	DriverPostgres = "pgx"
	DriverSQLite   = "sqlite"
)

// DB wraps a database/sql handle and the SQL dialect it speaks
type DB struct {
	conn   *sql.DB
	driver string
}

// ParseURL picks the driver for a database URL. postgres:// and postgresql:// URLs use pgx;
// anything else is a SQLite file path, optionally prefixed with sqlite://.
func ParseURL(databaseURL string) (driver, dsn string) {
	databaseURL = strings.TrimSpace(databaseURL)
	switch {
	case strings.HasPrefix(databaseURL, "postgres://"), strings.HasPrefix(databaseURL, "postgresql://"):
		return DriverPostgres, databaseURL
	case strings.HasPrefix(databaseURL, "sqlite://"):
		return DriverSQLite, strings.TrimPrefix(databaseURL, "sqlite://")
	default:
		return DriverSQLite, databaseURL
	}
}

// Connect opens the database behind databaseURL and verifies connectivity
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return nil, fmt.Errorf("database URL is empty")
	}

	driver, dsn := ParseURL(databaseURL)
	conn, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if driver == DriverSQLite {
		conn.SetMaxOpenConns(1) // SQLite: single writer
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := conn.PingContext(pingCtx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{conn: conn, driver: driver}, nil
}

// New wraps an already open handle
func New(conn *sql.DB, driver string) *DB {
	return &DB{conn: conn, driver: driver}
}

// Close closes the underlying handle
func (db *DB) Close() error {
	if db.conn == nil {
		return nil
	}
	return db.conn.Close()
}

func (db *DB) gooseDialect() string {
	if db.driver == DriverPostgres {
		return "postgres"
	}
	return "sqlite3"
}

// Migrate applies all pending embedded migrations
func (db *DB) Migrate(ctx context.Context) error {
	goose.SetBaseFS(migrationFiles)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect(db.gooseDialect()); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db.conn, "migrations"); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}

// SchemaVersion returns the version of the last applied migration
func (db *DB) SchemaVersion(ctx context.Context) (int64, error) {
	goose.SetBaseFS(migrationFiles)
	if err := goose.SetDialect(db.gooseDialect()); err != nil {
		return 0, fmt.Errorf("failed to set migration dialect: %w", err)
	}
	version, err := goose.GetDBVersionContext(ctx, db.conn)
	if err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return version, nil
}

// rebind rewrites ? placeholders as $1, $2, ... for PostgreSQL
func (db *DB) rebind(query string) string {
	if db.driver != DriverPostgres {
		return query
	}
	var sb strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			sb.WriteString("$" + strconv.Itoa(n))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// CreateRun inserts a new run in the running state, assigning an ID if it has none
func (db *DB) CreateRun(ctx context.Context, run *Run) error {
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now().UTC()
	}
	run.Status = RunStatusRunning

	_, err := db.conn.ExecContext(ctx, db.rebind(
		`INSERT INTO extraction_runs (id, source, profiles, status, started_at)
		 VALUES (?, ?, ?, ?, ?)`),
		run.ID.String(), run.Source, strings.Join(run.Profiles, ","), run.Status, run.StartedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}
	return nil
}

// CompleteRun records the final counts and status of a run
func (db *DB) CompleteRun(ctx context.Context, runID uuid.UUID, status string, documents, succeeded, failed int) error {
	res, err := db.conn.ExecContext(ctx, db.rebind(
		`UPDATE extraction_runs
		 SET status = ?, documents = ?, succeeded = ?, failed = ?, finished_at = ?
		 WHERE id = ?`),
		status, documents, succeeded, failed, time.Now().UTC(), runID.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to complete run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("failed to complete run: run %s not found", runID)
	}
	return nil
}

// GetRun retrieves a run by ID, returning nil if it does not exist
func (db *DB) GetRun(ctx context.Context, runID uuid.UUID) (*Run, error) {
	row := db.conn.QueryRowContext(ctx, db.rebind(
		`SELECT id, source, profiles, status, documents, succeeded, failed, started_at, finished_at
		 FROM extraction_runs WHERE id = ?`),
		runID.String(),
	)
	run, err := scanRun(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return run, nil
}

// LatestRun retrieves the most recently started run, returning nil if there is none
func (db *DB) LatestRun(ctx context.Context) (*Run, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT id, source, profiles, status, documents, succeeded, failed, started_at, finished_at
		 FROM extraction_runs ORDER BY started_at DESC LIMIT 1`,
	)
	run, err := scanRun(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest run: %w", err)
	}
	return run, nil
}

func scanRun(row *sql.Row) (*Run, error) {
	var run Run
	var id, profiles string
	var finished sql.NullTime
	if err := row.Scan(&id, &run.Source, &profiles, &run.Status,
		&run.Documents, &run.Succeeded, &run.Failed, &run.StartedAt, &finished); err != nil {
		return nil, err
	}

	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid run id %q: %w", id, err)
	}
	run.ID = parsed
	run.Profiles = splitList(profiles)
	if finished.Valid {
		run.FinishedAt = &finished.Time
	}
	return &run, nil
}

// SaveResult stores the outcome of one document and profile pair
func (db *DB) SaveResult(ctx context.Context, result *Result) error {
	if result.ID == uuid.Nil {
		result.ID = uuid.New()
	}
	if result.CreatedAt.IsZero() {
		result.CreatedAt = time.Now().UTC()
	}
	if result.Defaulted == nil {
		result.Defaulted = []string{}
	}

	defaulted, err := json.Marshal(result.Defaulted)
	if err != nil {
		return fmt.Errorf("failed to marshal defaulted fields: %w", err)
	}

	_, err = db.conn.ExecContext(ctx, db.rebind(
		`INSERT INTO extraction_results (id, run_id, document, profile, coverage, record, defaulted, error, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		result.ID.String(), result.RunID.String(), result.Document, result.Profile,
		result.Coverage, string(result.Record), string(defaulted), result.Error, result.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save result for %s/%s: %w", result.Document, result.Profile, err)
	}
	return nil
}

// ListResults retrieves all results of a run ordered by document then profile
func (db *DB) ListResults(ctx context.Context, runID uuid.UUID) ([]Result, error) {
	rows, err := db.conn.QueryContext(ctx, db.rebind(
		`SELECT id, run_id, document, profile, coverage, record, defaulted, error, created_at
		 FROM extraction_results WHERE run_id = ?
		 ORDER BY document, profile`),
		runID.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []Result
	for rows.Next() {
		var r Result
		var id, run, record, defaulted string
		if err := rows.Scan(&id, &run, &r.Document, &r.Profile, &r.Coverage,
			&record, &defaulted, &r.Error, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		if r.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("invalid result id %q: %w", id, err)
		}
		if r.RunID, err = uuid.Parse(run); err != nil {
			return nil, fmt.Errorf("invalid run id %q: %w", run, err)
		}
		if record != "" {
			r.Record = json.RawMessage(record)
		}
		if err := json.Unmarshal([]byte(defaulted), &r.Defaulted); err != nil {
			return nil, fmt.Errorf("failed to unmarshal defaulted fields: %w", err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate results: %w", err)
	}
	return results, nil
}

// ProfileSummaries aggregates stored results per profile, over one run or, for uuid.Nil, all runs.
// Coverage statistics only count successful parses.
func (db *DB) ProfileSummaries(ctx context.Context, runID uuid.UUID) ([]ProfileSummary, error) {
	query := `SELECT profile,
		COUNT(*),
		COALESCE(SUM(CASE WHEN error = '' THEN 1 ELSE 0 END), 0),
		COALESCE(AVG(CASE WHEN error = '' THEN coverage END), 0),
		COALESCE(MIN(CASE WHEN error = '' THEN coverage END), 0),
		COALESCE(MAX(CASE WHEN error = '' THEN coverage END), 0)
		FROM extraction_results`
	var args []any
	if runID != uuid.Nil {
		query += ` WHERE run_id = ?`
		args = append(args, runID.String())
	}
	query += ` GROUP BY profile ORDER BY profile`

	rows, err := db.conn.QueryContext(ctx, db.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize results: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var summaries []ProfileSummary
	for rows.Next() {
		var s ProfileSummary
		if err := rows.Scan(&s.Profile, &s.Attempts, &s.Successes,
			&s.MeanCoverage, &s.MinCoverage, &s.MaxCoverage); err != nil {
			return nil, fmt.Errorf("failed to scan summary: %w", err)
		}
		s.Failures = s.Attempts - s.Successes
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate summaries: %w", err)
	}
	return summaries, nil
}

func splitList(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.Split(s, ",")
}
