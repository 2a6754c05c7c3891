package db

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	"cmdvault/model"
)

// Get returns the command with the given id.
func (d *DB) Get(id int64) (model.Command, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.get(id)
}

func (d *DB) get(id int64) (model.Command, error) {
	row := d.conn.QueryRow(`SELECT `+commandColumns+` FROM commands WHERE id = ?`, id)
	c, err := scanCommand(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Command{}, notFound(id)
	}
	return c, err
}

// List returns every command, favorites first, then grouped by
// category, subcategory and title.
func (d *DB) List() ([]model.Command, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	rows, err := d.conn.Query(`
		SELECT ` + commandColumns + `
		FROM commands
		ORDER BY is_favorite DESC,
			category COLLATE NOCASE, subcategory COLLATE NOCASE, title COLLATE NOCASE, id
	`)
	if err != nil {
		return nil, err
	}
	return scanCommands(rows)
}

// ListFavorites returns favorite commands ordered by category, subcategory
// and title.
func (d *DB) ListFavorites() ([]model.Command, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	rows, err := d.conn.Query(`
		SELECT ` + commandColumns + `
		FROM commands
		WHERE is_favorite = 1
		ORDER BY category COLLATE NOCASE, subcategory COLLATE NOCASE, title COLLATE NOCASE, id
	`)
	if err != nil {
		return nil, err
	}
	return scanCommands(rows)
}

func (d *DB) Categories() ([]string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	rows, err := d.conn.Query(`SELECT DISTINCT category FROM commands ORDER BY category COLLATE NOCASE`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (d *DB) Count() (int, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var n int
	err := d.conn.QueryRow(`SELECT COUNT(*) FROM commands`).Scan(&n)
	return n, err
}

// Create stores a new command and returns its id.
func (d *DB) Create(c model.Command) (int64, error) {
	c = normalize(c)
	if err := c.Validate(); err != nil {
		return 0, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	var id int64
	err := d.withTx(func(tx *sql.Tx) error {
		var err error
		id, err = insertCommand(tx, c, time.Now().Unix())
		return err
	})
	return id, err
}

func insertCommand(tx *sql.Tx, c model.Command, now int64) (int64, error) {
	result, err := tx.Exec(`
		INSERT INTO commands (category, subcategory, title, command, description, tags, is_favorite, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.Category, c.Subcategory, c.Title, c.Cmd, c.Description, c.Tags, boolInt(c.IsFavorite), now, now,
	)
	if err != nil {
		return 0, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}
	c.ID = id
	return id, indexTerms(tx, c)
}

// Update replaces every editable field of the command with c.ID.
func (d *DB) Update(c model.Command) error {
	c = normalize(c)
	if err := c.Validate(); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	return d.withTx(func(tx *sql.Tx) error {
		result, err := tx.Exec(`
			UPDATE commands
			SET category = ?, subcategory = ?, title = ?, command = ?, description = ?, tags = ?, is_favorite = ?, updated_at = ?
			WHERE id = ?`,
			c.Category, c.Subcategory, c.Title, c.Cmd, c.Description, c.Tags, boolInt(c.IsFavorite), time.Now().Unix(), c.ID,
		)
		if err != nil {
			return err
		}
		if n, err := result.RowsAffected(); err != nil {
			return err
		} else if n == 0 {
			return notFound(c.ID)
		}
		return indexTerms(tx, c)
	})
}

func (d *DB) Delete(id int64) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.withTx(func(tx *sql.Tx) error {
		result, err := tx.Exec(`DELETE FROM commands WHERE id = ?`, id)
		if err != nil {
			return err
		}
		if n, err := result.RowsAffected(); err != nil {
			return err
		} else if n == 0 {
			return notFound(id)
		}
		_, err = tx.Exec(`DELETE FROM command_terms WHERE command_id = ?`, id)
		return err
	})
}

// ToggleFavorite flips the favorite flag and returns the new value.
func (d *DB) ToggleFavorite(id int64) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var fav int64
	err := d.withTx(func(tx *sql.Tx) error {
		result, err := tx.Exec(
			`UPDATE commands SET is_favorite = 1 - is_favorite, updated_at = ? WHERE id = ?`,
			time.Now().Unix(), id,
		)
		if err != nil {
			return err
		}
		if n, err := result.RowsAffected(); err != nil {
			return err
		} else if n == 0 {
			return notFound(id)
		}
		return tx.QueryRow(`SELECT is_favorite FROM commands WHERE id = ?`, id).Scan(&fav)
	})
	return fav != 0, err
}

// Duplicate copies a command under a fresh id. The copy is titled
// "<title> (copy)" and is not a favorite.
func (d *DB) Duplicate(id int64) (int64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	c, err := d.get(id)
	if err != nil {
		return 0, err
	}
	c.Title += " (copy)"
	c.IsFavorite = false

	var newID int64
	err = d.withTx(func(tx *sql.Tx) error {
		var err error
		newID, err = insertCommand(tx, c, time.Now().Unix())
		return err
	})
	return newID, err
}

// Reset discards every command and loads records in their place. Ids keep
// counting up from the previous maximum.
func (d *DB) Reset(records []model.Command) error {
	normalized := make([]model.Command, len(records))
	for i, c := range records {
		normalized[i] = normalize(c)
		if err := normalized[i].Validate(); err != nil {
			return err
		}
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	return d.withTx(func(tx *sql.Tx) error {
		if _, err := tx.Exec(`DELETE FROM command_terms`); err != nil {
			return err
		}
		if _, err := tx.Exec(`DELETE FROM commands`); err != nil {
			return err
		}
		now := time.Now().Unix()
		for _, c := range normalized {
			if _, err := insertCommand(tx, c, now); err != nil {
				return err
			}
		}
		_, err := tx.Exec(`INSERT OR REPLACE INTO meta (key, value) VALUES ('seeded', '1')`)
		return err
	})
}

// Seeded reports whether the vault has ever been populated from a catalog.
func (d *DB) Seeded() (bool, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var v string
	err := d.conn.QueryRow(`SELECT value FROM meta WHERE key = 'seeded'`).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return v == "1", err
}

// IsDuplicate checks if another command already holds the same command text.
func (d *DB) IsDuplicate(cmd string, excludeID int64) (bool, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var count int
	err := d.conn.QueryRow(
		`SELECT COUNT(*) FROM commands WHERE TRIM(command) = ? AND id != ?`,
		strings.TrimSpace(cmd), excludeID,
	).Scan(&count)
	return count > 0, err
}
