package sink

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/roach88/sentinel/internal/issue"
	"github.com/roach88/sentinel/internal/world"
)

//go:embed schema.sql
var schemaSQL string

// SQLiteSink records validation passes durably and serves the history
// command's read-back queries. Uses SQLite with WAL mode for concurrent
// read access.
type SQLiteSink struct {
	db *sql.DB
}

// PassSummary is one row of recorded pass history.
type PassSummary struct {
	Token     string    `json:"token"`
	Turn      int64     `json:"turn"`
	StartedAt time.Time `json:"started_at"`
	Errors    int       `json:"errors"`
	Warnings  int       `json:"warnings"`
	Infos     int       `json:"infos"`
}

// Open creates or opens a SQLite issue database at the given path.
// Applies required pragmas and the schema automatically; idempotent.
func Open(path string) (*SQLiteSink, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open issue database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to issue database: %w", err)
	}

	// SQLite allows one writer at a time; a single pooled connection
	// avoids SQLITE_BUSY on concurrent records.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &SQLiteSink{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteSink) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Record implements Sink. The pass insert is idempotent: recording the
// same pass token twice is a no-op, so retried deliveries never duplicate
// history.
func (s *SQLiteSink) Record(ctx context.Context, report issue.Report) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("record pass: %w", err)
	}
	defer tx.Rollback()

	errors, warnings, infos := issue.Count(report.Issues)
	res, err := tx.ExecContext(ctx, `
		INSERT INTO passes (token, turn, started_at, error_count, warn_count, info_count)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(token) DO NOTHING
	`, report.PassToken, report.Turn, report.StartedAt.UTC().Format(time.RFC3339Nano),
		errors, warnings, infos)
	if err != nil {
		return fmt.Errorf("record pass: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		// Pass already recorded; keep the original issues.
		return nil
	}

	for _, i := range report.Issues {
		refs, err := marshalRefs(i.Refs)
		if err != nil {
			return fmt.Errorf("record issue: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO issues (pass_token, severity, category, code, refs, message, detected_at, resolved)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, report.PassToken, i.Severity.String(), string(i.Category), i.Code,
			refs, i.Message, i.DetectedAt.UTC().Format(time.RFC3339Nano), i.Resolved); err != nil {
			return fmt.Errorf("record issue: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("record pass: %w", err)
	}
	return nil
}

// Passes returns the most recent recorded passes, newest first.
func (s *SQLiteSink) Passes(ctx context.Context, limit int) ([]PassSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT token, turn, started_at, error_count, warn_count, info_count
		FROM passes ORDER BY started_at DESC, token DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("read passes: %w", err)
	}
	defer rows.Close()

	var passes []PassSummary
	for rows.Next() {
		var p PassSummary
		var started string
		if err := rows.Scan(&p.Token, &p.Turn, &started, &p.Errors, &p.Warnings, &p.Infos); err != nil {
			return nil, fmt.Errorf("read passes: %w", err)
		}
		if p.StartedAt, err = time.Parse(time.RFC3339Nano, started); err != nil {
			return nil, fmt.Errorf("read passes: bad started_at %q: %w", started, err)
		}
		passes = append(passes, p)
	}
	return passes, rows.Err()
}

// PassIssues returns the issues recorded for one pass, in recorded order.
func (s *SQLiteSink) PassIssues(ctx context.Context, token string) ([]issue.Issue, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT severity, category, code, refs, message, detected_at, resolved
		FROM issues WHERE pass_token = ? ORDER BY id
	`, token)
	if err != nil {
		return nil, fmt.Errorf("read issues: %w", err)
	}
	defer rows.Close()

	var issues []issue.Issue
	for rows.Next() {
		var (
			i        issue.Issue
			severity string
			category string
			refs     string
			detected string
		)
		if err := rows.Scan(&severity, &category, &i.Code, &refs, &i.Message, &detected, &i.Resolved); err != nil {
			return nil, fmt.Errorf("read issues: %w", err)
		}
		i.Severity = parseSeverity(severity)
		i.Category = issue.Category(category)
		i.PassToken = token
		if i.Refs, err = unmarshalRefs(refs); err != nil {
			return nil, fmt.Errorf("read issues: %w", err)
		}
		if i.DetectedAt, err = time.Parse(time.RFC3339Nano, detected); err != nil {
			return nil, fmt.Errorf("read issues: bad detected_at %q: %w", detected, err)
		}
		issues = append(issues, i)
	}
	return issues, rows.Err()
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("%s: %w", pragma, err)
		}
	}
	return nil
}

func marshalRefs(refs []world.EntityRef) (string, error) {
	if len(refs) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal(refs)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func unmarshalRefs(data string) ([]world.EntityRef, error) {
	var refs []world.EntityRef
	if err := json.Unmarshal([]byte(data), &refs); err != nil {
		return nil, err
	}
	if len(refs) == 0 {
		return nil, nil
	}
	return refs, nil
}

func parseSeverity(s string) issue.Severity {
	switch s {
	case "warning":
		return issue.Warning
	case "info":
		return issue.Info
	}
	return issue.Error
}
