package ui

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

func (a *App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	var b strings.Builder

	// Title
	title := titleStyle.Render("cmdvault")
	if a.manage {
		title += modeStyle.Render(" all commands")
	}
	b.WriteString(title)
	b.WriteString("\n\n")

	// Search bar
	b.WriteString(a.searchInput.View())
	b.WriteString("\n\n")

	// Command list
	listHeight := (a.height - a.preview.Height - 12) / 2
	if listHeight < 3 {
		listHeight = 3
	}

	if a.mode == modeAdd || a.mode == modeEdit {
		b.WriteString(a.renderForm())
	} else {
		b.WriteString(a.renderList(listHeight))
	}

	// Delete confirmation
	if a.mode == modeDelete {
		if c, ok := a.selected(); ok {
			b.WriteString("\n")
			b.WriteString(warningStyle.Render(fmt.Sprintf("Delete '%s'? (y/n)", c.Title)))
			b.WriteString("\n")
		}
	}

	// Param input
	if a.mode == modeParam {
		name, _ := a.session.Current()
		b.WriteString("\n")
		b.WriteString(labelStyle.Render(fmt.Sprintf("Value for {%s} (%d/%d): ", name, a.session.Index()+1, a.session.Total())))
		b.WriteString(a.paramInput.View())
		b.WriteString("\n")
	}

	// Preview pane
	if a.mode != modeAdd && a.mode != modeEdit {
		b.WriteString("\n")
		b.WriteString(previewTitleStyle.Render("PREVIEW"))
		b.WriteString("\n")
		b.WriteString(borderStyle.Width(a.width - 4).Render(a.preview.View()))
		b.WriteString("\n")
	}

	// Status/error
	if a.err != "" {
		b.WriteString(errorStyle.Render("Error: " + a.err))
		b.WriteString("\n")
	}
	if a.status != "" {
		b.WriteString(successStyle.Render(a.status))
		b.WriteString("\n")
	}

	// Help bar
	b.WriteString(a.renderHelp())

	return appStyle.Render(b.String())
}

func (a *App) renderList(height int) string {
	if len(a.filtered) == 0 {
		if strings.TrimSpace(a.searchInput.Value()) == "" && !a.manage {
			return mutedStyle.Render("No favorites yet. Type to search, ctrl+l to browse all, ctrl+a to add.\n")
		}
		return mutedStyle.Render("No commands found. Press ctrl+a to add one.\n")
	}

	var lines []string
	start := 0
	if a.cursor >= height {
		start = a.cursor - height + 1
	}

	end := start + height
	if end > len(a.filtered) {
		end = len(a.filtered)
	}

	presenter := a.vault.Presenter()
	for i := start; i < end; i++ {
		c := a.filtered[i]
		prefix := "  "
		style := normalStyle
		if i == a.cursor {
			prefix = "▸ "
			style = selectedStyle
		}

		star := "  "
		if c.IsFavorite {
			star = favoriteStyle.Render("★ ")
		}
		group := categoryStyle.Render(fmt.Sprintf("%s %s › %s", presenter.Prefix(c.Category), c.Category, c.Subcategory))
		name := style.Render(prefix) + star + style.Render(c.Title) + "  " + group
		preview := cmdPreviewStyle.Render("    " + truncate(strings.ReplaceAll(c.Cmd, "\n", " ↵ "), a.width-10))
		lines = append(lines, name, preview)
	}

	return strings.Join(lines, "\n") + "\n"
}

// updatePreview shows the selected command, or the command being filled
// in, with its placeholders highlighted.
func (a *App) updatePreview() {
	if a.mode == modeParam && a.session != nil {
		a.preview.SetContent(a.highlight(a.session.Preview()))
		return
	}

	c, ok := a.selected()
	if !ok {
		a.preview.SetContent(mutedStyle.Render("Nothing selected"))
		return
	}

	var b strings.Builder
	b.WriteString(a.highlight(c.Cmd))
	if c.Description != "" {
		b.WriteString("\n\n")
		b.WriteString(mutedStyle.Render(c.Description))
	}
	if tags := c.TagSet(); len(tags) > 0 {
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render("# " + strings.Join(tags, " # ")))
	}
	a.preview.SetContent(b.String())
	a.preview.GotoTop()
}

func (a *App) highlight(cmd string) string {
	var b strings.Builder
	for _, seg := range a.vault.Engine().Segments(cmd) {
		if seg.Placeholder {
			b.WriteString(placeholderStyle.Render(seg.Text))
		} else {
			b.WriteString(previewStyle.Render(seg.Text))
		}
	}
	return b.String()
}

func (a *App) renderForm() string {
	var b strings.Builder

	title := "Add Command"
	if a.mode == modeEdit {
		title = "Edit Command"
	}
	b.WriteString(labelStyle.Render(title))
	b.WriteString("\n\n")

	for focus := 0; focus < formFields; focus++ {
		b.WriteString(labelStyle.Render(formLabels[focus] + ": "))
		style := inputStyle
		if focus == a.formFocus {
			style = focusedInputStyle
		}

		var field string
		if i := inputIndex(focus); i >= 0 {
			field = a.formInputs[i].View()
		} else {
			field = a.cmdInput.View()
		}
		b.WriteString(style.Width(a.width - 20).Render(field))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("tab: next field • enter: save • ctrl+s: save from command • esc: cancel"))
	b.WriteString("\n")

	return b.String()
}

func (a *App) renderHelp() string {
	var keys []struct{ key, desc string }
	switch a.mode {
	case modeNormal:
		keys = []struct{ key, desc string }{
			{"enter", "copy"},
			{"ctrl+a", "add"},
			{"ctrl+e", "edit"},
			{"ctrl+y", "duplicate"},
			{"ctrl+d", "delete"},
			{"ctrl+f", "favorite"},
			{"ctrl+l", "browse"},
			{"esc", "quit"},
		}
	case modeParam:
		keys = []struct{ key, desc string }{
			{"enter", "next"},
			{"esc", "cancel"},
		}
	default:
		return ""
	}

	var parts []string
	for _, k := range keys {
		parts = append(parts, helpKeyStyle.Render(k.key)+" "+helpStyle.Render(k.desc))
	}

	return strings.Join(parts, "  ")
}

func truncate(s string, max int) string {
	if max < 4 || utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max-3]) + "..."
}
