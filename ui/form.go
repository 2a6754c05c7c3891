package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Form fields in tab order. The command is a textarea between the title and
// the description; the rest are single-line inputs.
const (
	fieldCategory = iota
	fieldSubcategory
	fieldTitle
	fieldDescription
	fieldTags
)

const (
	focusCommand = 3
	formFields   = 6
)

var formLabels = []string{"Category", "Subcategory", "Title", "Command", "Description", "Tags"}

// inputIndex maps a focus position to its textinput, or -1 for the command.
func inputIndex(focus int) int {
	switch {
	case focus < focusCommand:
		return focus
	case focus == focusCommand:
		return -1
	}
	return focus - 1
}

func (a *App) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return a, tea.Quit

	case "esc":
		a.mode = modeNormal
		a.editingCmd = nil
		a.searchInput.Focus()
		return a, nil

	case "tab":
		a.formFocus = (a.formFocus + 1) % formFields
		return a, a.focusFormInput()

	case "shift+tab":
		a.formFocus--
		if a.formFocus < 0 {
			a.formFocus = formFields - 1
		}
		return a, a.focusFormInput()

	case "ctrl+s":
		return a.submitForm()

	case "enter":
		if a.formFocus != focusCommand {
			return a.submitForm()
		}
	}

	var cmd tea.Cmd
	if i := inputIndex(a.formFocus); i >= 0 {
		a.formInputs[i], cmd = a.formInputs[i].Update(msg)
	} else {
		a.cmdInput, cmd = a.cmdInput.Update(msg)
	}
	return a, cmd
}

func (a *App) focusFormInput() tea.Cmd {
	for i := range a.formInputs {
		a.formInputs[i].Blur()
	}
	a.cmdInput.Blur()

	if i := inputIndex(a.formFocus); i >= 0 {
		return a.formInputs[i].Focus()
	}
	return a.cmdInput.Focus()
}
