// Package query turns a raw launcher query into an ordered result list.
package query

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gosimple/slug"

	"cmdvault/model"
)

// Searcher is the part of the command store the processor reads from.
type Searcher interface {
	Search(tokens []string) ([]model.Match, error)
	ListFavorites() ([]model.Command, error)
	List() ([]model.Command, error)
}

type Processor struct {
	store  Searcher
	minLen int
}

// New returns a Processor over store. Tokens shorter than minTokenLength
// runes are ignored; values below 1 mean every token counts.
func New(store Searcher, minTokenLength int) *Processor {
	if minTokenLength < 1 {
		minTokenLength = 1
	}
	return &Processor{store: store, minLen: minTokenLength}
}

func (p *Processor) Parse(raw string) model.Query {
	return Parse(raw, p.minLen)
}

// Run answers raw.
//
// An empty query returns the favorites in category, subcategory, title
// order. A query with only filters lists the matching records. Otherwise
// the store's search hits are narrowed by the filters and ordered by
// relevance, then favorites first, then id.
func (p *Processor) Run(raw string) ([]model.Match, error) {
	q := p.Parse(raw)

	switch {
	case q.Empty():
		favorites, err := p.store.ListFavorites()
		if err != nil {
			return nil, fmt.Errorf("list favorites: %w", err)
		}
		return asMatches(favorites), nil

	case len(q.Tokens) == 0:
		list := p.store.List
		if q.Filters.Favorites {
			list = p.store.ListFavorites
		}
		commands, err := list()
		if err != nil {
			return nil, fmt.Errorf("list commands: %w", err)
		}
		var matches []model.Match
		for _, c := range commands {
			if Accepts(q.Filters, c) {
				matches = append(matches, model.Match{Command: c})
			}
		}
		return matches, nil
	}

	hits, err := p.store.Search(q.Tokens)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", strings.Join(q.Tokens, " "), err)
	}

	matches := hits[:0:0]
	for _, m := range hits {
		if Accepts(q.Filters, m.Command) {
			matches = append(matches, m)
		}
	}
	Sort(matches)
	return matches, nil
}

// Sort orders matches by relevance descending, favorites before the rest,
// then id ascending.
func Sort(matches []model.Match) {
	sort.SliceStable(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if a.Relevance != b.Relevance {
			return a.Relevance > b.Relevance
		}
		if a.Command.IsFavorite != b.Command.IsFavorite {
			return a.Command.IsFavorite
		}
		return a.Command.ID < b.Command.ID
	})
}

// Accepts reports whether c passes every filter in f.
func Accepts(f model.Filters, c model.Command) bool {
	if f.Favorites && !c.IsFavorite {
		return false
	}
	if f.Category != "" && !sameGroup(c.Category, f.Category) {
		return false
	}
	if f.Subcategory != "" && !sameGroup(c.Subcategory, f.Subcategory) {
		return false
	}
	if f.Tag != "" {
		want := strings.ToLower(f.Tag)
		found := false
		for _, t := range c.TagSet() {
			if strings.Contains(t, want) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// sameGroup compares slugs, so cat:port-channel finds "Port Channel".
// Values match as substrings: cat:cis finds "Cisco".
func sameGroup(name, value string) bool {
	want := slug.Make(value)
	if want == "" {
		return strings.Contains(strings.ToLower(name), strings.ToLower(value))
	}
	return strings.Contains(slug.Make(name), want)
}

func asMatches(commands []model.Command) []model.Match {
	matches := make([]model.Match, len(commands))
	for i, c := range commands {
		matches[i] = model.Match{Command: c}
	}
	return matches
}
