package query

import (
	"fmt"

	"github.com/sahilm/fuzzy"

	"cmdvault/model"
)

type commandSource []model.Command

func (s commandSource) String(i int) string { return s[i].Title + " " + s[i].Cmd }
func (s commandSource) Len() int            { return len(s) }

// Fuzzy filters commands by a fuzzy match of pattern against title and
// command, best match first. An empty pattern returns commands unchanged.
func Fuzzy(commands []model.Command, pattern string) []model.Command {
	if pattern == "" {
		return commands
	}
	matches := fuzzy.FindFrom(pattern, commandSource(commands))
	filtered := make([]model.Command, len(matches))
	for i, m := range matches {
		filtered[i] = commands[m.Index]
	}
	return filtered
}

// Suggest returns up to limit commands that fuzzily resemble raw's search
// text. It is meant for "did you mean" hints after an empty search.
func (p *Processor) Suggest(raw string, limit int) ([]model.Command, error) {
	q := p.Parse(raw)
	if len(q.Tokens) == 0 {
		return nil, nil
	}

	commands, err := p.store.List()
	if err != nil {
		return nil, fmt.Errorf("list commands: %w", err)
	}

	var pattern string
	for _, t := range q.Tokens {
		pattern += t
	}
	suggestions := Fuzzy(commands, pattern)
	if limit > 0 && len(suggestions) > limit {
		suggestions = suggestions[:limit]
	}
	return suggestions, nil
}
