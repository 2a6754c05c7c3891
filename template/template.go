// Package template finds {name} placeholders in a command and fills them in.
package template

import (
	"regexp"
	"strings"
)

var (
	placeholderRegex = regexp.MustCompile(`\{([^{}]+)\}`)
	identifierRegex  = regexp.MustCompile(`\{([A-Za-z0-9_]+)\}`)
)

// Engine extracts and substitutes placeholders using one placeholder grammar.
type Engine struct {
	pattern *regexp.Regexp
}

// New returns an Engine. With identifiersOnly, a placeholder name may only
// contain letters, digits and underscores, so shell text such as
// awk '{print $1}' stays literal.
func New(identifiersOnly bool) Engine {
	if identifiersOnly {
		return Engine{pattern: identifierRegex}
	}
	return Engine{pattern: placeholderRegex}
}

// Default accepts any name that contains no braces.
var Default = New(false)

// Extract returns all placeholder names from a command string, de-duplicated,
// in order of first occurrence. Unbalanced or empty braces are not placeholders.
func (e Engine) Extract(cmd string) []string {
	matches := e.pattern.FindAllStringSubmatch(cmd, -1)
	seen := make(map[string]bool)
	var names []string
	for _, m := range matches {
		name := m[1]
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	return names
}

// Substitute replaces each {name} that has a value in values. It makes a
// single pass, so placeholders inside substituted values are left as typed.
// Placeholders without a value stay in the output unchanged.
func (e Engine) Substitute(cmd string, values map[string]string) string {
	return e.pattern.ReplaceAllStringFunc(cmd, func(m string) string {
		if v, ok := values[m[1:len(m)-1]]; ok {
			return v
		}
		return m
	})
}

// Segment is a run of command text, either literal or a placeholder.
type Segment struct {
	Text        string
	Placeholder bool
}

// Segments splits cmd into literal and placeholder runs for highlighting.
func (e Engine) Segments(cmd string) []Segment {
	var segs []Segment
	last := 0
	for _, loc := range e.pattern.FindAllStringIndex(cmd, -1) {
		if loc[0] > last {
			segs = append(segs, Segment{Text: cmd[last:loc[0]]})
		}
		segs = append(segs, Segment{Text: cmd[loc[0]:loc[1]], Placeholder: true})
		last = loc[1]
	}
	if last < len(cmd) {
		segs = append(segs, Segment{Text: cmd[last:]})
	}
	return segs
}

// HasPlaceholders reports whether cmd needs any input before it can be copied.
func (e Engine) HasPlaceholders(cmd string) bool {
	return strings.ContainsRune(cmd, '{') && e.pattern.MatchString(cmd)
}

// Extract uses the Default engine.
func Extract(cmd string) []string {
	return Default.Extract(cmd)
}

// Substitute uses the Default engine.
func Substitute(cmd string, values map[string]string) string {
	return Default.Substitute(cmd, values)
}
