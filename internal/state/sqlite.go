package state

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrations embed.FS

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// Open opens (or creates) the run ledger at path and applies pending
// migrations. Use ":memory:" for an in-memory ledger.
func Open(path string) (*SQLiteStore, error) {
	dsn := path
	if path != ":memory:" {
		dsn = fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)", path)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open state database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping state database: %w", err)
	}

	s := &SQLiteStore{db: db, path: path}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// migrate runs all pending schema migrations.
func (s *SQLiteStore) migrate() error {
	goose.SetBaseFS(migrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("sqlite"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}
	if err := goose.Up(s.db, "migrations"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// CreateRun records the start of a pipeline invocation.
func (s *SQLiteStore) CreateRun(referencePath, currentPath string) (*Run, error) {
	run := &Run{
		ID:            uuid.New().String(),
		ReferencePath: referencePath,
		CurrentPath:   currentPath,
		Status:        RunStatusRunning,
		StartedAt:     time.Now().UTC(),
	}

	_, err := s.db.Exec(
		`INSERT INTO runs (id, reference_path, current_path, status, started_at)
		 VALUES (?, ?, ?, ?, ?)`,
		run.ID, run.ReferencePath, run.CurrentPath, run.Status, run.StartedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create run: %w", err)
	}
	return run, nil
}

// CompleteRun records the terminal outcome of a run.
func (s *SQLiteStore) CompleteRun(id string, outcome Outcome) error {
	now := time.Now().UTC()
	_, err := s.db.Exec(
		`UPDATE runs
		 SET status = ?, max_psi = ?, triggering_feature = ?, detail = ?, completed_at = ?
		 WHERE id = ?`,
		outcome.Status, outcome.MaxPSI, outcome.TriggeringFeature, outcome.Detail, now, id,
	)
	if err != nil {
		return fmt.Errorf("failed to complete run: %w", err)
	}
	return nil
}

// GetRun retrieves a run by ID.
func (s *SQLiteStore) GetRun(id string) (*Run, error) {
	row := s.db.QueryRow(
		`SELECT id, reference_path, current_path, status, max_psi, triggering_feature, detail, started_at, completed_at
		 FROM runs WHERE id = ?`, id)

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return run, nil
}

// ListRuns retrieves the most recent runs, newest first.
func (s *SQLiteStore) ListRuns(limit int) ([]*Run, error) {
	rows, err := s.db.Query(
		`SELECT id, reference_path, current_path, status, max_psi, triggering_feature, detail, started_at, completed_at
		 FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*Run, error) {
	var (
		run     Run
		maxPSI  sql.NullFloat64
		feature sql.NullString
		detail  sql.NullString
		done    sql.NullTime
	)
	err := row.Scan(&run.ID, &run.ReferencePath, &run.CurrentPath, &run.Status,
		&maxPSI, &feature, &detail, &run.StartedAt, &done)
	if err != nil {
		return nil, err
	}
	if maxPSI.Valid {
		run.MaxPSI = &maxPSI.Float64
	}
	run.TriggeringFeature = feature.String
	run.Detail = detail.String
	if done.Valid {
		t := done.Time
		run.CompletedAt = &t
	}
	return &run, nil
}
