// Package present maps ranked commands onto launcher result items.
package present

import (
	"strings"
	"unicode/utf8"

	"cmdvault/model"
	"cmdvault/template"
)

type Action string

const (
	ActionCopy           Action = "copy"
	ActionFill           Action = "fill"
	ActionToggleFavorite Action = "toggle-favorite"
	ActionOpenFolder     Action = "open-folder"
	ActionEdit           Action = "edit"
	ActionOpenManager    Action = "open-manager"
	ActionNone           Action = "noop"
)

// Item is one row of a result list.
type Item struct {
	ID           int64    `json:"id,omitempty"`
	Title        string   `json:"title"`
	Subtitle     string   `json:"subtitle,omitempty"`
	Detail       string   `json:"detail,omitempty"`
	Favorite     bool     `json:"favorite,omitempty"`
	Template     bool     `json:"template,omitempty"`
	Placeholders []string `json:"placeholders,omitempty"`
	Action       Action   `json:"action"`
	Secondary    []Action `json:"secondary,omitempty"`
}

// DefaultPrefixes are the short category badges shown in subtitles.
var DefaultPrefixes = map[string]string{
	"Cisco":   "[C]",
	"Linux":   "[L]",
	"Proxmox": "[P]",
	"Ansible": "[A]",
}

const (
	DefaultFavoriteMarker = "★ "
	separator             = "  ·  "
	newlineMarker         = " ↵ "
	previewLength         = 80
)

// Presenter formats commands. The zero value is not usable; call New.
type Presenter struct {
	favoriteMarker string
	prefixes       map[string]string
	engine         template.Engine
}

// New returns a Presenter. Empty arguments fall back to the defaults.
func New(favoriteMarker string, prefixes map[string]string, engine template.Engine) *Presenter {
	if favoriteMarker == "" {
		favoriteMarker = DefaultFavoriteMarker
	}
	if len(prefixes) == 0 {
		prefixes = DefaultPrefixes
	}
	return &Presenter{favoriteMarker: favoriteMarker, prefixes: prefixes, engine: engine}
}

func Default() *Presenter {
	return New("", nil, template.Default)
}

// Prefix returns the badge for category, or its first letter in brackets.
func (p *Presenter) Prefix(category string) string {
	if prefix, ok := p.prefixes[category]; ok {
		return prefix
	}
	r, _ := utf8.DecodeRuneInString(category)
	if r == utf8.RuneError {
		return "[?]"
	}
	return "[" + strings.ToUpper(string(r)) + "]"
}

func (p *Presenter) Item(c model.Command) Item {
	names := p.engine.Extract(c.Cmd)

	title := c.Title
	if c.IsFavorite {
		title = p.favoriteMarker + title
	}

	parts := []string{p.Prefix(c.Category) + " " + c.Category + " › " + c.Subcategory}
	if len(names) > 0 {
		parts = append(parts, "✎ template")
	}
	if c.Description != "" {
		parts = append(parts, c.Description)
	}

	action := ActionCopy
	if len(names) > 0 {
		action = ActionFill
	}

	return Item{
		ID:           c.ID,
		Title:        title,
		Subtitle:     strings.Join(parts, separator),
		Detail:       OneLine(c.Cmd),
		Favorite:     c.IsFavorite,
		Template:     len(names) > 0,
		Placeholders: names,
		Action:       action,
		Secondary:    []Action{ActionToggleFavorite, ActionEdit, ActionOpenFolder},
	}
}

// Items keeps the order of matches.
func (p *Presenter) Items(matches []model.Match) []Item {
	items := make([]Item, len(matches))
	for i, m := range matches {
		items[i] = p.Item(m.Command)
	}
	return items
}

// ContextMenu lists the secondary actions for c. folder is the directory
// holding the vault file.
func (p *Presenter) ContextMenu(c model.Command, folder string) []Item {
	favorite := "☆ Add to favorites"
	if c.IsFavorite {
		favorite = "★ Remove from favorites"
	}
	copyAction := ActionCopy
	if p.engine.HasPlaceholders(c.Cmd) {
		copyAction = ActionFill
	}
	return []Item{
		{ID: c.ID, Title: "Copy command", Subtitle: Truncate(OneLine(c.Cmd), previewLength), Action: copyAction},
		{ID: c.ID, Title: favorite, Subtitle: "Favorites appear first on an empty query", Action: ActionToggleFavorite},
		{ID: c.ID, Title: "✎ Edit in manager", Subtitle: "Open the editor for this command", Action: ActionEdit},
		{Title: "Open vault folder", Subtitle: folder, Action: ActionOpenFolder},
	}
}

// Help is the operator cheat sheet.
const Help = "text  ·  cat:cisco  ·  sub:vlan  ·  tag:ccna  ·  fav:  ·  :manage"

// NoResults is shown when a query found nothing. suggestions, if any, are
// appended as "did you mean" rows.
func (p *Presenter) NoResults(suggestions []model.Command) []Item {
	items := []Item{{Title: "No commands found", Subtitle: Help, Action: ActionNone}}
	for _, c := range suggestions {
		item := p.Item(c)
		item.Subtitle = "Did you mean" + separator + item.Subtitle
		items = append(items, item)
	}
	return items
}

func Manager() Item {
	return Item{
		Title:    "Open Command Vault manager",
		Subtitle: "Add, edit, delete and organize your commands",
		Action:   ActionOpenManager,
	}
}

// OneLine shows newlines in cmd as a return marker.
func OneLine(cmd string) string {
	cmd = strings.ReplaceAll(cmd, "\r\n", "\n")
	return strings.ReplaceAll(cmd, "\n", newlineMarker)
}

// Truncate cuts s to n runes, marking the cut with an ellipsis.
func Truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "…"
}
