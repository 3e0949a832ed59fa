package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/Pratyush-06/Barista-Agent/internal/logging"

	_ "modernc.org/sqlite"
)

// SQLiteCaseStore keeps each case as a JSON document in one table, with the
// lookup columns copied out for indexing.
type SQLiteCaseStore struct {
	db     *sql.DB
	mu     sync.Mutex
	dbPath string
}

// NewSQLiteCaseStore opens (or creates) the database at path.
func NewSQLiteCaseStore(path string) (*SQLiteCaseStore, error) {
	logging.Store("Opening fraud case database at %s", path)

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		logging.StoreDebug("Failed to set sqlite busy_timeout: %v", err)
	}

	s := &SQLiteCaseStore{db: db, dbPath: path}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// initialize creates the required tables.
func (s *SQLiteCaseStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS fraud_cases (
		id TEXT PRIMARY KEY,
		user_name TEXT NOT NULL,
		status TEXT NOT NULL,
		doc TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_fraud_cases_user ON fraud_cases(user_name COLLATE NOCASE, status);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create fraud_cases table: %w", err)
	}
	return nil
}

// Get implements CaseStore.
func (s *SQLiteCaseStore) Get(ctx context.Context, id string) (*FraudCase, error) {
	if id == "" {
		return nil, ErrInvalidID
	}
	row := s.db.QueryRowContext(ctx, `SELECT doc FROM fraud_cases WHERE id = ?`, id)
	return scanCase(row)
}

// FindPendingByUser implements CaseStore.
func (s *SQLiteCaseStore) FindPendingByUser(ctx context.Context, userName string) (*FraudCase, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT doc FROM fraud_cases
		 WHERE user_name = ? COLLATE NOCASE AND status = ?
		 ORDER BY id LIMIT 1`,
		userName, StatusPending)
	return scanCase(row)
}

// List implements CaseStore.
func (s *SQLiteCaseStore) List(ctx context.Context) ([]*FraudCase, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT doc FROM fraud_cases ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list cases: %w", err)
	}
	defer rows.Close()

	var cases []*FraudCase
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("failed to scan case: %w", err)
		}
		var c FraudCase
		if err := json.Unmarshal([]byte(doc), &c); err != nil {
			return nil, fmt.Errorf("failed to decode case: %w", err)
		}
		cases = append(cases, &c)
	}
	return cases, rows.Err()
}

// Put implements CaseStore.
func (s *SQLiteCaseStore) Put(ctx context.Context, c *FraudCase) error {
	if c == nil || c.ID == "" {
		return ErrInvalidID
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	c.UpdatedAt = time.Now().UTC()
	doc, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode case: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO fraud_cases (id, user_name, status, doc, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			user_name = excluded.user_name,
			status = excluded.status,
			doc = excluded.doc,
			updated_at = excluded.updated_at`,
		c.ID, c.UserName, c.Status, string(doc), c.UpdatedAt)
	if err != nil {
		logging.StoreError("Failed to store case %s: %v", c.ID, err)
		return fmt.Errorf("failed to store case %s: %w", c.ID, err)
	}
	logging.StoreDebug("Stored case %s (status=%s)", c.ID, c.Status)
	return nil
}

// Close implements CaseStore.
func (s *SQLiteCaseStore) Close() error {
	return s.db.Close()
}

func scanCase(row *sql.Row) (*FraudCase, error) {
	var doc string
	if err := row.Scan(&doc); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load case: %w", err)
	}
	var c FraudCase
	if err := json.Unmarshal([]byte(doc), &c); err != nil {
		return nil, fmt.Errorf("failed to decode case: %w", err)
	}
	return &c, nil
}
