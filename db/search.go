package db

import (
	"database/sql"
	"errors"
	"sort"
	"strings"
	"unicode"

	"cmdvault/model"
)

// Searchable fields of the term index.
const (
	FieldTitle       = "title"
	FieldCommand     = "command"
	FieldDescription = "description"
	FieldTag         = "tag"
)

// indexVersion changes whenever Terms indexes differently.
const indexVersion = "2"

// Relevance weights per (token, field) pair.
const (
	substringHit = 1
	wholeWordHit = 2
)

// Search returns every command where at least one token occurs in the
// title, command, description or a tag. A token scores once per field,
// wholeWordHit when it equals an indexed word and substringHit otherwise.
// Results are ordered by relevance, highest first, then by id.
func (d *DB) Search(tokens []string) ([]model.Match, error) {
	tokens = distinctLower(tokens)
	if len(tokens) == 0 {
		return nil, nil
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	type hit struct {
		id    int64
		field string
		token string
	}
	best := make(map[hit]int)
	for _, tok := range tokens {
		terms, err := d.lookup(tok)
		if err != nil {
			return nil, err
		}
		for _, t := range terms {
			score := substringHit
			if t.term == tok {
				score = wholeWordHit
			}
			h := hit{id: t.commandID, field: t.field, token: tok}
			if score > best[h] {
				best[h] = score
			}
		}
	}

	relevance := make(map[int64]int)
	for h, score := range best {
		relevance[h.id] += score
	}
	ids := make([]int64, 0, len(relevance))
	for id := range relevance {
		ids = append(ids, id)
	}

	commands, err := d.fetch(ids)
	if err != nil {
		return nil, err
	}

	matches := make([]model.Match, 0, len(commands))
	for _, c := range commands {
		matches = append(matches, model.Match{Command: c, Relevance: relevance[c.ID]})
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Relevance != matches[j].Relevance {
			return matches[i].Relevance > matches[j].Relevance
		}
		return matches[i].Command.ID < matches[j].Command.ID
	})
	return matches, nil
}

type termRow struct {
	commandID int64
	field     string
	term      string
}

func (d *DB) lookup(token string) ([]termRow, error) {
	rows, err := d.conn.Query(
		`SELECT command_id, field, term FROM command_terms WHERE term LIKE ? ESCAPE '\'`,
		"%"+escapeLike(token)+"%",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []termRow
	for rows.Next() {
		var t termRow
		if err := rows.Scan(&t.commandID, &t.field, &t.term); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// fetch loads commands by id in batches that stay under SQLite's bound
// parameter limit.
func (d *DB) fetch(ids []int64) ([]model.Command, error) {
	const batch = 500
	var commands []model.Command
	for start := 0; start < len(ids); start += batch {
		end := min(start+batch, len(ids))
		chunk := ids[start:end]

		args := make([]any, len(chunk))
		for i, id := range chunk {
			args[i] = id
		}
		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(chunk)), ",")

		rows, err := d.conn.Query(`SELECT `+commandColumns+` FROM commands WHERE id IN (`+placeholders+`)`, args...)
		if err != nil {
			return nil, err
		}
		found, err := scanCommands(rows)
		if err != nil {
			return nil, err
		}
		commands = append(commands, found...)
	}
	return commands, nil
}

// indexTerms rewrites the term rows of c. Callers run it inside the
// transaction that writes the command row.
func indexTerms(tx *sql.Tx, c model.Command) error {
	if _, err := tx.Exec(`DELETE FROM command_terms WHERE command_id = ?`, c.ID); err != nil {
		return err
	}

	stmt, err := tx.Prepare(`INSERT OR IGNORE INTO command_terms (command_id, field, term) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for field, terms := range Terms(c) {
		for _, term := range terms {
			if _, err := stmt.Exec(c.ID, field, term); err != nil {
				return err
			}
		}
	}
	return nil
}

// Terms returns the indexed words of each searchable field of c.
func Terms(c model.Command) map[string][]string {
	return map[string][]string{
		FieldTitle:       words(c.Title),
		FieldCommand:     words(c.Cmd),
		FieldDescription: words(c.Description),
		FieldTag:         tagTerms(c.TagSet()),
	}
}

// words splits text on whitespace and lowercases it. A word wrapped in
// punctuation ("{iface}", "flash:") is indexed both as written and trimmed,
// and a joined word ("address-table", "vlan_id") also by its parts.
func words(text string) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(w string) {
		if w != "" && !seen[w] {
			seen[w] = true
			out = append(out, w)
		}
	}
	for _, w := range strings.Fields(strings.ToLower(text)) {
		add(w)
		add(strings.TrimFunc(w, notWordRune))
		for _, part := range strings.FieldsFunc(w, notWordRune) {
			add(part)
		}
	}
	return out
}

// tagTerms indexes each tag whole and by its words, so "port" is a whole
// word of the tag "port channel".
func tagTerms(tags []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, tag := range tags {
		for _, w := range append([]string{tag}, words(tag)...) {
			if !seen[w] {
				seen[w] = true
				out = append(out, w)
			}
		}
	}
	return out
}

func notWordRune(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

// reindex rebuilds the term rows of every command. migrate runs it when
// the term rules changed since the vault was last indexed.
func (d *DB) reindex() error {
	var version string
	err := d.conn.QueryRow(`SELECT value FROM meta WHERE key = 'index_version'`).Scan(&version)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return err
	}
	if version == indexVersion {
		return nil
	}

	rows, err := d.conn.Query(`SELECT ` + commandColumns + ` FROM commands`)
	if err != nil {
		return err
	}
	commands, err := scanCommands(rows)
	if err != nil {
		return err
	}

	return d.withTx(func(tx *sql.Tx) error {
		for _, c := range commands {
			if err := indexTerms(tx, c); err != nil {
				return err
			}
		}
		_, err := tx.Exec(`INSERT OR REPLACE INTO meta (key, value) VALUES ('index_version', ?)`, indexVersion)
		return err
	})
}

func distinctLower(tokens []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, t := range tokens {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
