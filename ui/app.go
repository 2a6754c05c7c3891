package ui

import (
	"strings"

	"cmdvault/clip"
	"cmdvault/model"
	"cmdvault/query"
	"cmdvault/template"
	"cmdvault/vault"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

type mode int

const (
	modeNormal mode = iota
	modeAdd
	modeEdit
	modeDelete
	modeParam
)

// Store is the editor's view of the command store.
type Store interface {
	Get(id int64) (model.Command, error)
	List() ([]model.Command, error)
	Categories() ([]string, error)
	Create(c model.Command) (int64, error)
	Update(c model.Command) error
	Delete(id int64) error
	Duplicate(id int64) (int64, error)
	ToggleFavorite(id int64) (bool, error)
	IsDuplicate(cmd string, excludeID int64) (bool, error)
}

type Options struct {
	// QuitOnCopy ends the program once a command is on the clipboard.
	QuitOnCopy bool
	// Limit caps the rows of a search. 0 means no cap.
	Limit int
}

type App struct {
	db    Store
	vault *vault.Vault
	clip  clip.Clipboard
	opts  Options

	filtered []model.Command

	// UI state
	mode   mode
	manage bool // list every command with a fuzzy filter instead of ranked search
	cursor int
	width  int
	height int
	err    string
	status string
	copied string

	// Search
	searchInput textinput.Model

	// Preview of the selected command
	preview viewport.Model

	// Form (add/edit)
	formInputs []textinput.Model
	cmdInput   textarea.Model
	formFocus  int
	editingCmd *model.Command

	// Param input
	session    *template.Session
	paramInput textinput.Model
	pendingCmd *model.Command
}

func NewApp(store Store, v *vault.Vault, cb clip.Clipboard, opts Options) (*App, error) {
	search := textinput.New()
	search.Placeholder = "Search commands...  cat:cisco  tag:ccna  fav:"
	search.Focus()

	app := &App{
		db:          store,
		vault:       v,
		clip:        cb,
		opts:        opts,
		searchInput: search,
		preview:     viewport.New(80, 6),
	}

	if err := app.search(); err != nil {
		return nil, err
	}
	return app, nil
}

func (a *App) Init() tea.Cmd {
	return textinput.Blink
}

// Copied returns the last text placed on the clipboard.
func (a *App) Copied() string {
	return a.copied
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width - 4   // account for app padding
		a.height = msg.Height - 2 // account for app padding
		a.preview.Width = a.width - 4
		a.preview.Height = max(3, a.height/4)
		if a.mode == modeAdd || a.mode == modeEdit {
			a.cmdInput.SetWidth(a.width - 20)
		}
		a.updatePreview()
		return a, nil

	case tea.KeyMsg:
		a.err = ""
		a.status = ""

		switch a.mode {
		case modeNormal:
			return a.updateNormal(msg)
		case modeAdd, modeEdit:
			return a.updateForm(msg)
		case modeDelete:
			return a.updateDelete(msg)
		case modeParam:
			return a.updateParam(msg)
		}
	}

	return a, nil
}

func (a *App) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return a, tea.Quit

	case "up", "ctrl+k":
		if a.cursor > 0 {
			a.cursor--
		}

	case "down", "ctrl+j":
		if a.cursor < len(a.filtered)-1 {
			a.cursor++
		}

	case "enter":
		if len(a.filtered) > 0 {
			return a.copySelected()
		}

	case "ctrl+a":
		a.mode = modeAdd
		a.editingCmd = nil
		return a, a.initForm(nil)

	case "ctrl+e":
		if c, ok := a.selected(); ok {
			a.mode = modeEdit
			a.editingCmd = &c
			return a, a.initForm(&c)
		}
		return a, nil

	case "ctrl+d":
		if len(a.filtered) > 0 {
			a.mode = modeDelete
		}
		return a, nil

	case "ctrl+y":
		if c, ok := a.selected(); ok {
			if _, err := a.db.Duplicate(c.ID); err != nil {
				a.err = err.Error()
			} else {
				a.status = "Duplicated!"
				a.refresh()
			}
		}
		return a, nil

	case "ctrl+f":
		if c, ok := a.selected(); ok {
			favorite, err := a.vault.ToggleFavorite(c.ID)
			if err != nil {
				a.err = err.Error()
				return a, nil
			}
			if favorite {
				a.status = "Added to favorites"
			} else {
				a.status = "Removed from favorites"
			}
			a.refresh()
		}
		return a, nil

	case "ctrl+l":
		a.manage = !a.manage
		a.cursor = 0
		a.refresh()
		return a, nil

	case "esc":
		if a.searchInput.Value() == "" {
			return a, tea.Quit
		}
		a.searchInput.SetValue("")
		a.cursor = 0
		a.refresh()

	default:
		var cmd tea.Cmd
		a.searchInput, cmd = a.searchInput.Update(msg)
		a.cursor = 0
		a.refresh()
		return a, cmd
	}

	a.updatePreview()
	return a, nil
}

func (a *App) updateDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		if c, ok := a.selected(); ok {
			if err := a.db.Delete(c.ID); err != nil {
				a.err = err.Error()
			} else {
				a.status = "Deleted!"
				a.refresh()
				if a.cursor >= len(a.filtered) && a.cursor > 0 {
					a.cursor--
				}
			}
		}
		a.mode = modeNormal
		return a, nil

	case "n", "N", "esc":
		a.mode = modeNormal
		return a, nil
	}

	return a, nil
}

func (a *App) updateParam(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return a, tea.Quit

	case "esc":
		a.session.Cancel()
		a.session = nil
		a.pendingCmd = nil
		a.mode = modeNormal
		a.status = "Cancelled"
		a.searchInput.Focus()
		a.updatePreview()
		return a, nil

	case "enter":
		if err := a.session.Provide(a.paramInput.Value()); err != nil {
			a.err = err.Error()
			return a, nil
		}
		if result, ok := a.session.Result(); ok {
			return a.finishCopy(result)
		}

		// Next param
		name, _ := a.session.Current()
		a.paramInput.SetValue("")
		a.paramInput.Placeholder = name
		a.updatePreview()
		return a, nil

	default:
		var cmd tea.Cmd
		a.paramInput, cmd = a.paramInput.Update(msg)
		return a, cmd
	}
}

func (a *App) copySelected() (tea.Model, tea.Cmd) {
	c, _ := a.selected()
	s := a.vault.Engine().Start(c.Cmd)

	if s.State() == template.Prompting {
		name, _ := s.Current()
		a.mode = modeParam
		a.session = s
		a.pendingCmd = &c
		a.paramInput = textinput.New()
		a.paramInput.Placeholder = name
		a.paramInput.Focus()
		a.updatePreview()
		return a, textinput.Blink
	}

	result, _ := s.Result()
	return a.finishCopy(result)
}

func (a *App) finishCopy(text string) (tea.Model, tea.Cmd) {
	a.mode = modeNormal
	a.session = nil
	a.pendingCmd = nil
	a.searchInput.Focus()
	a.updatePreview()

	if err := a.clip.WriteAll(text); err != nil {
		a.err = err.Error()
		a.preview.SetContent(text)
		return a, nil
	}

	a.copied = text
	a.status = "Copied: " + truncate(strings.ReplaceAll(text, "\n", " ↵ "), max(20, a.width-20))
	if a.opts.QuitOnCopy {
		return a, tea.Quit
	}
	return a, nil
}

func (a *App) selected() (model.Command, bool) {
	if a.cursor < 0 || a.cursor >= len(a.filtered) {
		return model.Command{}, false
	}
	return a.filtered[a.cursor], true
}

// search fills the list from the search box: ranked vault results, or in
// manage mode every command filtered fuzzily.
func (a *App) search() error {
	raw := a.searchInput.Value()

	if a.manage {
		commands, err := a.db.List()
		if err != nil {
			return err
		}
		a.filtered = query.Fuzzy(commands, strings.TrimSpace(raw))
	} else {
		matches, err := a.vault.Matches(raw)
		if err != nil {
			return err
		}
		if a.opts.Limit > 0 && len(matches) > a.opts.Limit {
			matches = matches[:a.opts.Limit]
		}
		a.filtered = make([]model.Command, len(matches))
		for i, m := range matches {
			a.filtered[i] = m.Command
		}
	}

	if a.cursor >= len(a.filtered) {
		a.cursor = max(0, len(a.filtered)-1)
	}
	a.updatePreview()
	return nil
}

func (a *App) refresh() {
	if err := a.search(); err != nil {
		a.err = err.Error()
	}
}

func (a *App) initForm(cmd *model.Command) tea.Cmd {
	placeholders := []string{
		"Category (e.g., Cisco)",
		"Subcategory (e.g., VLAN)",
		"Title (e.g., Show VLAN brief)",
		"Description (optional)",
		"Tags, comma separated (optional)",
	}
	a.formInputs = make([]textinput.Model, len(placeholders))
	for i, p := range placeholders {
		a.formInputs[i] = textinput.New()
		a.formInputs[i].Placeholder = p
	}

	if categories, err := a.db.Categories(); err == nil {
		a.formInputs[fieldCategory].ShowSuggestions = true
		a.formInputs[fieldCategory].SetSuggestions(categories)
	}

	a.cmdInput = textarea.New()
	a.cmdInput.Placeholder = "Command (use {name} for values asked at copy time)"
	a.cmdInput.ShowLineNumbers = false
	a.cmdInput.SetHeight(4)
	a.cmdInput.SetWidth(max(20, a.width-20))

	if cmd != nil {
		a.formInputs[fieldCategory].SetValue(cmd.Category)
		a.formInputs[fieldSubcategory].SetValue(cmd.Subcategory)
		a.formInputs[fieldTitle].SetValue(cmd.Title)
		a.formInputs[fieldDescription].SetValue(cmd.Description)
		a.formInputs[fieldTags].SetValue(cmd.Tags)
		a.cmdInput.SetValue(cmd.Cmd)
	}

	a.formFocus = 0
	return a.focusFormInput()
}

func (a *App) submitForm() (tea.Model, tea.Cmd) {
	c := model.Command{
		Category:    a.formInputs[fieldCategory].Value(),
		Subcategory: a.formInputs[fieldSubcategory].Value(),
		Title:       a.formInputs[fieldTitle].Value(),
		Cmd:         a.cmdInput.Value(),
		Description: a.formInputs[fieldDescription].Value(),
		Tags:        a.formInputs[fieldTags].Value(),
	}

	if err := c.Validate(); err != nil {
		a.err = err.Error()
		return a, nil
	}

	excludeID := int64(0)
	if a.editingCmd != nil {
		excludeID = a.editingCmd.ID
	}
	dup, err := a.db.IsDuplicate(strings.TrimSpace(c.Cmd), excludeID)
	if err != nil {
		a.err = err.Error()
		return a, nil
	}

	if a.mode == modeAdd {
		if _, err := a.db.Create(c); err != nil {
			a.err = err.Error()
			return a, nil
		}
		a.status = "Added!"
	} else {
		c.ID = a.editingCmd.ID
		c.IsFavorite = a.editingCmd.IsFavorite
		if err := a.db.Update(c); err != nil {
			a.err = err.Error()
			return a, nil
		}
		a.status = "Updated!"
	}
	if dup {
		a.status += " (another entry has the same command)"
	}

	a.editingCmd = nil
	a.refresh()
	a.mode = modeNormal
	a.searchInput.Focus()
	return a, nil
}
