package cli

import (
	tea "github.com/charmbracelet/bubbletea"

	"cmdvault/ui"
)

func (a *app) runTUI() error {
	v, err := a.open()
	if err != nil {
		return err
	}

	app, err := ui.NewApp(a.store, v, a.clip, ui.Options{
		QuitOnCopy: a.quitOnCopy,
		Limit:      a.cfg.Search.Limit,
	})
	if err != nil {
		return err
	}

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
