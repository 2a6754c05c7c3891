package ui

import (
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cmdvault/clip"
	"cmdvault/db"
	"cmdvault/model"
	"cmdvault/vault"
)

type fixture struct {
	app  *App
	db   *db.DB
	clip *clip.Memory
}

func newFixture(t *testing.T, commands ...model.Command) *fixture {
	t.Helper()
	d, err := db.Open(filepath.Join(t.TempDir(), "vault.db"), db.DriverPureGo)
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })

	for _, c := range commands {
		_, err := d.Create(c)
		require.NoError(t, err)
	}

	cb := &clip.Memory{}
	app, err := NewApp(d, vault.New(d, vault.Options{}), cb, Options{})
	require.NoError(t, err)
	app.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return &fixture{app: app, db: d, clip: cb}
}

func (f *fixture) typeText(s string) {
	f.app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

func (f *fixture) press(k tea.KeyType) tea.Cmd {
	_, cmd := f.app.Update(tea.KeyMsg{Type: k})
	return cmd
}

var (
	vlan = model.Command{Category: "Cisco", Subcategory: "VLAN", Title: "Show VLAN brief", Cmd: "show vlan brief", IsFavorite: true}
	ssh  = model.Command{Category: "Linux", Subcategory: "SSH", Title: "SSH to host", Cmd: "ssh {user}@{host}"}
)

func TestStartsWithFavorites(t *testing.T) {
	f := newFixture(t, vlan, ssh)

	require.Len(t, f.app.filtered, 1)
	assert.Equal(t, "Show VLAN brief", f.app.filtered[0].Title)
	assert.Contains(t, f.app.View(), "Show VLAN brief")
}

func TestSearchAndCopyPlainCommand(t *testing.T) {
	f := newFixture(t, vlan, ssh)

	f.typeText("vlan")
	require.Len(t, f.app.filtered, 1)

	f.press(tea.KeyEnter)
	text, n := f.clip.Text()
	assert.Equal(t, "show vlan brief", text)
	assert.Equal(t, 1, n)
	assert.Equal(t, "show vlan brief", f.app.Copied())
	assert.Equal(t, modeNormal, f.app.mode)
}

func TestTemplatePrompting(t *testing.T) {
	f := newFixture(t, vlan, ssh)

	f.typeText("ssh")
	f.press(tea.KeyEnter)
	require.Equal(t, modeParam, f.app.mode)
	assert.Contains(t, f.app.View(), "Value for {user} (1/2)")

	f.typeText("root")
	f.press(tea.KeyEnter)
	require.Equal(t, modeParam, f.app.mode)
	assert.Contains(t, f.app.View(), "Value for {host} (2/2)")

	f.typeText("10.0.0.1")
	f.press(tea.KeyEnter)
	assert.Equal(t, modeNormal, f.app.mode)

	text, _ := f.clip.Text()
	assert.Equal(t, "ssh root@10.0.0.1", text)
}

func TestTemplateCancelCopiesNothing(t *testing.T) {
	f := newFixture(t, vlan, ssh)
	before, err := f.db.List()
	require.NoError(t, err)

	f.typeText("ssh")
	f.press(tea.KeyEnter)
	f.typeText("root")
	f.press(tea.KeyEnter)
	f.press(tea.KeyEsc)

	assert.Equal(t, modeNormal, f.app.mode)
	assert.Equal(t, "Cancelled", f.app.status)
	_, n := f.clip.Text()
	assert.Zero(t, n)

	after, err := f.db.List()
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestAddCommand(t *testing.T) {
	f := newFixture(t)

	f.press(tea.KeyCtrlA)
	require.Equal(t, modeAdd, f.app.mode)

	for _, v := range []string{"Linux", "Disk", "Disk usage"} {
		f.typeText(v)
		f.press(tea.KeyTab)
	}
	f.typeText("df -h")
	f.press(tea.KeyCtrlS)

	assert.Equal(t, modeNormal, f.app.mode)
	assert.Equal(t, "Added!", f.app.status)

	all, err := f.db.List()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Disk usage", all[0].Title)
	assert.Equal(t, "df -h", all[0].Cmd)
}

func TestAddRequiresFields(t *testing.T) {
	f := newFixture(t)

	f.press(tea.KeyCtrlA)
	f.typeText("Linux")
	f.press(tea.KeyEnter)

	assert.Equal(t, modeAdd, f.app.mode)
	assert.Equal(t, "subcategory is required", f.app.err)

	count, err := f.db.Count()
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestEditKeepsFavorite(t *testing.T) {
	f := newFixture(t, vlan)

	f.press(tea.KeyCtrlE)
	require.Equal(t, modeEdit, f.app.mode)
	f.app.formInputs[fieldTitle].SetValue("VLAN summary")
	f.press(tea.KeyEnter)

	c, err := f.db.Get(1)
	require.NoError(t, err)
	assert.Equal(t, "VLAN summary", c.Title)
	assert.True(t, c.IsFavorite)
}

func TestDeleteConfirm(t *testing.T) {
	f := newFixture(t, vlan)

	f.press(tea.KeyCtrlD)
	require.Equal(t, modeDelete, f.app.mode)
	assert.Contains(t, f.app.View(), "Delete 'Show VLAN brief'? (y/n)")

	f.typeText("y")
	assert.Equal(t, modeNormal, f.app.mode)
	_, err := f.db.Get(1)
	assert.ErrorIs(t, err, db.ErrNotFound)
}

func TestFavoriteDuplicateAndBrowse(t *testing.T) {
	f := newFixture(t, vlan, ssh)

	f.press(tea.KeyCtrlL)
	require.True(t, f.app.manage)
	require.Len(t, f.app.filtered, 2)

	f.typeText("host")
	require.Len(t, f.app.filtered, 1)

	f.press(tea.KeyCtrlF)
	c, err := f.db.Get(2)
	require.NoError(t, err)
	assert.True(t, c.IsFavorite)

	f.press(tea.KeyCtrlY)
	count, err := f.db.Count()
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestEscClearsThenQuits(t *testing.T) {
	f := newFixture(t, vlan)

	f.typeText("zz")
	assert.Nil(t, f.press(tea.KeyEsc))
	assert.Empty(t, f.app.searchInput.Value())

	cmd := f.press(tea.KeyEsc)
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd...", truncate("abcdefghij", 7))
}
