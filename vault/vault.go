// Package vault is the host-facing core: it answers queries and resolves
// a selected command into the text to copy.
package vault

import (
	"context"
	"fmt"
	"path/filepath"

	"cmdvault/model"
	"cmdvault/present"
	"cmdvault/query"
	"cmdvault/template"
)

// Store is what the vault needs from the command store.
type Store interface {
	query.Searcher
	Get(id int64) (model.Command, error)
	ToggleFavorite(id int64) (bool, error)
	Path() string
}

type Options struct {
	MinTokenLength int
	Engine         template.Engine
	Presenter      *present.Presenter
	// Suggestions is how many "did you mean" rows Suggest returns.
	Suggestions int
}

type Vault struct {
	store       Store
	processor   *query.Processor
	presenter   *present.Presenter
	engine      template.Engine
	suggestions int
}

func New(store Store, opts Options) *Vault {
	engine := opts.Engine
	if engine == (template.Engine{}) {
		engine = template.Default
	}
	presenter := opts.Presenter
	if presenter == nil {
		presenter = present.New("", nil, engine)
	}
	suggestions := opts.Suggestions
	if suggestions <= 0 {
		suggestions = 3
	}
	return &Vault{
		store:       store,
		processor:   query.New(store, opts.MinTokenLength),
		presenter:   presenter,
		engine:      engine,
		suggestions: suggestions,
	}
}

func (v *Vault) Presenter() *present.Presenter { return v.presenter }
func (v *Vault) Engine() template.Engine       { return v.engine }

// Matches returns the ranked records for raw.
func (v *Vault) Matches(raw string) ([]model.Match, error) {
	return v.processor.Run(raw)
}

// Query returns the presentable results for raw. An empty slice means no
// record matched; the host decides what to show then.
func (v *Vault) Query(raw string) ([]present.Item, error) {
	matches, err := v.processor.Run(raw)
	if err != nil {
		return nil, err
	}
	return v.presenter.Items(matches), nil
}

// Suggest returns the no-results rows for raw, with fuzzy suggestions.
func (v *Vault) Suggest(raw string) ([]present.Item, error) {
	suggestions, err := v.processor.Suggest(raw, v.suggestions)
	if err != nil {
		return nil, err
	}
	return v.presenter.NoResults(suggestions), nil
}

// ContextMenu returns the secondary actions for the record with id.
func (v *Vault) ContextMenu(id int64) ([]present.Item, error) {
	c, err := v.store.Get(id)
	if err != nil {
		return nil, err
	}
	return v.presenter.ContextMenu(c, v.Folder()), nil
}

// Folder is the directory holding the vault file.
func (v *Vault) Folder() string {
	return filepath.Dir(v.store.Path())
}

func (v *Vault) ToggleFavorite(id int64) (bool, error) {
	return v.store.ToggleFavorite(id)
}

// Outcome is the result of Execute: either the final text or a request
// for the next placeholder value.
type Outcome struct {
	Command model.Command
	Text    string
	Done    bool
	Prompt  *template.Request
}

// Execute resolves the command with id against values. Placeholders are
// taken in first-occurrence order; the first one missing from values is
// returned as a prompt request. An empty value counts as given. Execute
// never writes to the store.
func (v *Vault) Execute(id int64, values map[string]string) (Outcome, error) {
	c, err := v.store.Get(id)
	if err != nil {
		return Outcome{}, err
	}

	s := v.engine.Start(c.Cmd)
	for s.State() == template.Prompting {
		name, _ := s.Current()
		value, ok := values[name]
		if !ok {
			req, _ := s.Request()
			return Outcome{Command: c, Prompt: &req}, nil
		}
		if err := s.Provide(value); err != nil {
			return Outcome{}, err
		}
	}

	text, _ := s.Result()
	return Outcome{Command: c, Text: text, Done: true}, nil
}

// Fill is Execute with values given positionally, in prompt order.
// Surplus values are ignored.
func (v *Vault) Fill(id int64, ordered []string) (Outcome, error) {
	c, err := v.store.Get(id)
	if err != nil {
		return Outcome{}, err
	}
	names := v.engine.Extract(c.Cmd)
	values := make(map[string]string, len(ordered))
	for i, name := range names {
		if i >= len(ordered) {
			break
		}
		values[name] = ordered[i]
	}
	return v.Execute(id, values)
}

// Run resolves the command with id by asking p for each placeholder.
// ok is false when the user cancelled.
func (v *Vault) Run(ctx context.Context, id int64, p template.Prompter) (text string, ok bool, err error) {
	c, err := v.store.Get(id)
	if err != nil {
		return "", false, err
	}
	text, ok, err = v.engine.Run(ctx, c.Cmd, p)
	if err != nil {
		return "", false, fmt.Errorf("fill %q: %w", c.Title, err)
	}
	return text, ok, nil
}
