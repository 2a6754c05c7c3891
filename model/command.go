package model

import (
	"errors"
	"sort"
	"strings"
	"time"
)

type Command struct {
	ID          int64
	Category    string
	Subcategory string
	Title       string
	Cmd         string
	Description string
	Tags        string // comma-separated, as entered
	IsFavorite  bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Match is a search hit with its ordinal relevance.
type Match struct {
	Command   Command
	Relevance int
}

// ErrValidation is matched by every *ValidationError.
var ErrValidation = errors.New("validation failed")

// ValidationError reports a required field that was left empty.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return e.Field + " is required"
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Validate checks the fields every stored command must carry.
func (c Command) Validate() error {
	required := []struct{ name, value string }{
		{"category", c.Category},
		{"subcategory", c.Subcategory},
		{"title", c.Title},
		{"command", c.Cmd},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return &ValidationError{Field: f.name}
		}
	}
	return nil
}

// TagSet returns the trimmed, lowercased, de-duplicated tags in sorted order.
func (c Command) TagSet() []string {
	return ParseTags(c.Tags)
}

func ParseTags(raw string) []string {
	seen := make(map[string]bool)
	var tags []string
	for _, t := range strings.Split(raw, ",") {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		tags = append(tags, t)
	}
	sort.Strings(tags)
	return tags
}
