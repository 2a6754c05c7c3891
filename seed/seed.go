// Package seed holds the built-in command catalog and reads and writes
// catalogs in the same YAML form for import and export.
package seed

import (
	_ "embed"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"cmdvault/model"
)

//go:embed catalog.yaml
var builtin []byte

type catalogFile struct {
	Commands []entry `yaml:"commands"`
}

type entry struct {
	Category    string `yaml:"category"`
	Subcategory string `yaml:"subcategory"`
	Title       string `yaml:"title"`
	Command     string `yaml:"command"`
	Description string `yaml:"description,omitempty"`
	Tags        string `yaml:"tags,omitempty"`
	Favorite    bool   `yaml:"favorite,omitempty"`
}

// Catalog returns the embedded starter library.
func Catalog() ([]model.Command, error) {
	commands, err := Parse(builtin)
	if err != nil {
		return nil, fmt.Errorf("built-in catalog: %w", err)
	}
	return commands, nil
}

// Load reads the catalog at path, or the built-in one when path is empty.
func Load(path string) ([]model.Command, error) {
	if path == "" {
		return Catalog()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	commands, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return commands, nil
}

// Parse decodes a YAML catalog. Every entry must carry the required fields.
func Parse(data []byte) ([]model.Command, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	commands := make([]model.Command, 0, len(file.Commands))
	for i, e := range file.Commands {
		c := model.Command{
			Category:    e.Category,
			Subcategory: e.Subcategory,
			Title:       e.Title,
			Cmd:         e.Command,
			Description: e.Description,
			Tags:        e.Tags,
			IsFavorite:  e.Favorite,
		}
		if err := c.Validate(); err != nil {
			return nil, fmt.Errorf("entry %d (%q): %w", i+1, e.Title, err)
		}
		commands = append(commands, c)
	}
	return commands, nil
}

// Export writes commands as a catalog that Load and Parse accept.
func Export(w io.Writer, commands []model.Command) error {
	file := catalogFile{Commands: make([]entry, len(commands))}
	for i, c := range commands {
		file.Commands[i] = entry{
			Category:    c.Category,
			Subcategory: c.Subcategory,
			Title:       c.Title,
			Command:     c.Cmd,
			Description: c.Description,
			Tags:        c.Tags,
			Favorite:    c.IsFavorite,
		}
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(file); err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}
	return enc.Close()
}
