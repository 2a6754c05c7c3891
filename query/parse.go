package query

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"cmdvault/model"
)

type filterKey int

const (
	keyCategory filterKey = iota + 1
	keySubcategory
	keyTag
	keyFavorites
)

var operators = map[string]filterKey{
	"cat": keyCategory, "c": keyCategory, "category": keyCategory,
	"sub": keySubcategory, "s": keySubcategory, "subcategory": keySubcategory,
	"tag": keyTag, "t": keyTag,
	"fav": keyFavorites, "f": keyFavorites, "favorite": keyFavorites, "favorites": keyFavorites,
}

// Parse splits raw into lowercase search tokens and filter hints.
//
//	"cat:cisco vlan"    -> tokens [vlan], category "cisco"
//	"fav: show mac"     -> tokens [show mac], favorites only
//	"tag:ccna sub:vlan" -> no tokens, tag "ccna", subcategory "vlan"
//
// A key:value pair with an unknown key or an empty value is kept as a plain
// token, except fav: which takes no value. Tokens made only of punctuation,
// or shorter than minLen runes, are dropped.
func Parse(raw string, minLen int) model.Query {
	q := model.Query{Raw: raw}
	seen := make(map[string]bool)

	for _, field := range strings.Fields(raw) {
		if key, val, ok := strings.Cut(field, ":"); ok {
			switch operators[strings.ToLower(key)] {
			case keyFavorites:
				q.Filters.Favorites = true
				continue
			case keyCategory:
				if val != "" {
					q.Filters.Category = val
					continue
				}
			case keySubcategory:
				if val != "" {
					q.Filters.Subcategory = val
					continue
				}
			case keyTag:
				if val != "" {
					q.Filters.Tag = val
					continue
				}
			}
		}

		token := strings.ToLower(field)
		if !searchable(token) || utf8.RuneCountInString(token) < minLen || seen[token] {
			continue
		}
		seen[token] = true
		q.Tokens = append(q.Tokens, token)
	}
	return q
}

func searchable(token string) bool {
	for _, r := range token {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
