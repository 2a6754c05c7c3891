package db

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"cmdvault/model"

	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"
)

// Driver names registered by the two SQLite implementations.
const (
	DriverCgo    = "sqlite3" // github.com/mattn/go-sqlite3
	DriverPureGo = "sqlite"  // modernc.org/sqlite
)

var (
	// ErrNotFound is returned for ids that do not (or no longer) exist.
	ErrNotFound = errors.New("command not found")
	// ErrStorageUnavailable wraps any failure to open or prepare the vault file.
	ErrStorageUnavailable = errors.New("vault storage unavailable")
)

// DB is the command vault. Readers share a read lock; writers hold the
// write lock for the duration of their transaction.
type DB struct {
	mu   sync.RWMutex
	conn *sql.DB
	path string
}

// DefaultPath returns ~/.cmdvault/vault.db.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cmdvault", "vault.db"), nil
}

// Open opens or creates the vault file at path using the named driver.
func Open(path, driver string) (*DB, error) {
	if driver == "" {
		driver = DriverCgo
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, unavailable(err)
	}

	conn, err := sql.Open(driver, path)
	if err != nil {
		return nil, unavailable(err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, unavailable(err)
	}

	db := &DB{conn: conn, path: path}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, unavailable(err)
	}

	return db, nil
}

func unavailable(err error) error {
	return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
}

func (d *DB) migrate() error {
	_, err := d.conn.Exec(`
		PRAGMA journal_mode = WAL;

		CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS commands (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			category TEXT NOT NULL,
			subcategory TEXT NOT NULL,
			title TEXT NOT NULL,
			command TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			tags TEXT NOT NULL DEFAULT '',
			is_favorite INTEGER NOT NULL DEFAULT 0,
			created_at INTEGER NOT NULL,
			updated_at INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_commands_category ON commands(category);
		CREATE INDEX IF NOT EXISTS idx_commands_title ON commands(title);

		-- one row per distinct searchable word, rewritten with every write
		CREATE TABLE IF NOT EXISTS command_terms (
			command_id INTEGER NOT NULL,
			field TEXT NOT NULL,
			term TEXT NOT NULL,
			PRIMARY KEY (command_id, field, term)
		);
		CREATE INDEX IF NOT EXISTS idx_command_terms_term ON command_terms(term);
	`)
	if err != nil {
		return err
	}
	return d.reindex()
}

func (d *DB) Close() error {
	return d.conn.Close()
}

// Path returns the vault file location.
func (d *DB) Path() string {
	return d.path
}

const commandColumns = `id, category, subcategory, title, command, description, tags, is_favorite, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCommand(s rowScanner) (model.Command, error) {
	var c model.Command
	var fav, created, updated int64
	err := s.Scan(&c.ID, &c.Category, &c.Subcategory, &c.Title, &c.Cmd,
		&c.Description, &c.Tags, &fav, &created, &updated)
	if err != nil {
		return c, err
	}
	c.IsFavorite = fav != 0
	c.CreatedAt = time.Unix(created, 0)
	c.UpdatedAt = time.Unix(updated, 0)
	return c, nil
}

func scanCommands(rows *sql.Rows) ([]model.Command, error) {
	defer rows.Close()
	var commands []model.Command
	for rows.Next() {
		c, err := scanCommand(rows)
		if err != nil {
			return nil, err
		}
		commands = append(commands, c)
	}
	return commands, rows.Err()
}

func normalize(c model.Command) model.Command {
	c.Category = strings.TrimSpace(c.Category)
	c.Subcategory = strings.TrimSpace(c.Subcategory)
	c.Title = strings.TrimSpace(c.Title)
	c.Cmd = strings.TrimSpace(c.Cmd)
	c.Description = strings.TrimSpace(c.Description)
	c.Tags = strings.TrimSpace(c.Tags)
	return c
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func (d *DB) withTx(fn func(tx *sql.Tx) error) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

func notFound(id int64) error {
	return fmt.Errorf("%w: id %d", ErrNotFound, id)
}
