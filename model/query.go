package model

// Query is a raw launcher query split into search tokens and filter hints.
type Query struct {
	Raw     string
	Tokens  []string
	Filters Filters
}

type Filters struct {
	Category    string
	Subcategory string
	Tag         string
	Favorites   bool
}

func (f Filters) Any() bool {
	return f.Category != "" || f.Subcategory != "" || f.Tag != "" || f.Favorites
}

// Empty reports whether the query has neither tokens nor filters.
func (q Query) Empty() bool {
	return len(q.Tokens) == 0 && !q.Filters.Any()
}
