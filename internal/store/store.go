package store

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a record id does not exist.
var ErrNotFound = errors.New("not found")

// Store is the SQLite persistence layer.
type Store struct {
	db *sqlx.DB
}

// New opens (creating if needed) the database at dbPath and applies the
// schema. ":memory:" gives a private in-memory database.
func New(dbPath string) (*Store, error) {
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if strings.HasPrefix(dbPath, ":memory:") {
		// Every pooled connection would otherwise see its own empty database.
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// NewWithDB wraps an already opened database without migrating it.
func NewWithDB(db *sqlx.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS records (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		ref TEXT NOT NULL UNIQUE,
		stage TEXT NOT NULL,
		student_name TEXT NOT NULL,
		age TEXT NOT NULL DEFAULT '',
		sex TEXT NOT NULL DEFAULT '',
		class TEXT NOT NULL DEFAULT '',
		evaluator TEXT NOT NULL DEFAULT '',
		period TEXT NOT NULL DEFAULT '',
		school TEXT NOT NULL DEFAULT '',
		overall REAL,
		report_text TEXT NOT NULL DEFAULT '',
		suggestions_text TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_records_class ON records(class);
	CREATE INDEX IF NOT EXISTS idx_records_evaluator ON records(evaluator);

	CREATE TABLE IF NOT EXISTS responses (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		record_id INTEGER NOT NULL,
		position INTEGER NOT NULL,
		dimension_code TEXT NOT NULL,
		dimension_name TEXT NOT NULL,
		item_code TEXT NOT NULL,
		item_text TEXT NOT NULL DEFAULT '',
		level INTEGER NOT NULL,
		FOREIGN KEY (record_id) REFERENCES records(id) ON DELETE CASCADE
	);
	CREATE INDEX IF NOT EXISTS idx_responses_record ON responses(record_id);

	CREATE TABLE IF NOT EXISTS dimension_scores (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		record_id INTEGER NOT NULL,
		position INTEGER NOT NULL,
		dimension_code TEXT NOT NULL,
		dimension_name TEXT NOT NULL,
		theme TEXT NOT NULL DEFAULT '',
		mean REAL NOT NULL,
		FOREIGN KEY (record_id) REFERENCES records(id) ON DELETE CASCADE
	);
	CREATE INDEX IF NOT EXISTS idx_dimension_scores_record ON dimension_scores(record_id);

	CREATE TABLE IF NOT EXISTS individual_plans (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		student_name TEXT NOT NULL,
		class TEXT NOT NULL DEFAULT '',
		profile TEXT NOT NULL DEFAULT '',
		strengths TEXT NOT NULL DEFAULT '',
		developing TEXT NOT NULL DEFAULT '',
		supports TEXT NOT NULL DEFAULT '',
		accommodations TEXT NOT NULL DEFAULT '',
		updated_at DATETIME NOT NULL,
		UNIQUE(student_name, class)
	);

	CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT NOT NULL UNIQUE,
		display_name TEXT NOT NULL DEFAULT '',
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT 'evaluator',
		active BOOLEAN NOT NULL DEFAULT 1,
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS auth_sessions (
		id TEXT PRIMARY KEY,
		user_id INTEGER NOT NULL,
		created_at DATETIME NOT NULL,
		expires_at DATETIME NOT NULL,
		FOREIGN KEY (user_id) REFERENCES users(id)
	);

	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}
