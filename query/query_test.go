package query_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cmdvault/db"
	"cmdvault/model"
	"cmdvault/query"
)

type fakeStore struct {
	hits      []model.Match
	favorites []model.Command
	all       []model.Command
	err       error
	searched  [][]string
}

func (f *fakeStore) Search(tokens []string) ([]model.Match, error) {
	f.searched = append(f.searched, tokens)
	return append([]model.Match(nil), f.hits...), f.err
}

func (f *fakeStore) ListFavorites() ([]model.Command, error) { return f.favorites, f.err }
func (f *fakeStore) List() ([]model.Command, error)          { return f.all, f.err }

func command(id int64, category, sub, title string, fav bool) model.Command {
	return model.Command{ID: id, Category: category, Subcategory: sub, Title: title, Cmd: title, IsFavorite: fav}
}

func ids(matches []model.Match) []int64 {
	var out []int64
	for _, m := range matches {
		out = append(out, m.Command.ID)
	}
	return out
}

func TestRunEmptyQueryReturnsFavorites(t *testing.T) {
	store := &fakeStore{favorites: []model.Command{
		command(3, "Cisco", "VLAN", "a", true),
		command(1, "Linux", "Disk", "b", true),
	}}
	p := query.New(store, 1)

	matches, err := p.Run("   ")
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 1}, ids(matches))
	assert.Empty(t, store.searched)
}

func TestRunEmptyQueryWithoutFavorites(t *testing.T) {
	p := query.New(&fakeStore{}, 1)

	matches, err := p.Run("")
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestRunPunctuationOnlyIsEmpty(t *testing.T) {
	store := &fakeStore{favorites: []model.Command{command(1, "Linux", "Disk", "df", true)}}
	p := query.New(store, 1)

	matches, err := p.Run(" ... | ")
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, ids(matches))
	assert.Empty(t, store.searched)
}

func TestRunOrdersByRelevanceThenFavoriteThenID(t *testing.T) {
	store := &fakeStore{hits: []model.Match{
		{Command: command(1, "L", "x", "one", false), Relevance: 2},
		{Command: command(2, "L", "x", "two", false), Relevance: 5},
		{Command: command(3, "L", "x", "three", true), Relevance: 2},
		{Command: command(4, "L", "x", "four", false), Relevance: 2},
		{Command: command(5, "L", "x", "five", true), Relevance: 1},
	}}
	p := query.New(store, 1)

	matches, err := p.Run("Show Vlan")
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 3, 1, 4, 5}, ids(matches))
	assert.Equal(t, [][]string{{"show", "vlan"}}, store.searched)

	for i := 1; i < len(matches); i++ {
		assert.GreaterOrEqual(t, matches[i-1].Relevance, matches[i].Relevance)
	}
}

func TestRunFiltersNarrowSearch(t *testing.T) {
	portChannel := command(1, "Cisco", "Port-Channel", "show etherchannel", false)
	portChannel.Tags = "ccna, lacp"
	store := &fakeStore{hits: []model.Match{
		{Command: portChannel, Relevance: 1},
		{Command: command(2, "Linux", "Network", "show ip", true), Relevance: 1},
	}}
	p := query.New(store, 1)

	tests := []struct {
		raw  string
		want []int64
	}{
		{"cat:cisco show", []int64{1}},
		{"cat:cis show", []int64{1}},
		{"sub:port-channel show", []int64{1}},
		{"tag:lac show", []int64{1}},
		{"fav: show", []int64{2}},
		{"cat:proxmox show", nil},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			matches, err := p.Run(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(matches))
		})
	}
}

func TestRunFiltersWithoutTokens(t *testing.T) {
	store := &fakeStore{
		all: []model.Command{
			command(2, "Cisco", "VLAN", "b", true),
			command(1, "Cisco", "Interface", "a", false),
			command(3, "Linux", "Disk", "c", false),
		},
		favorites: []model.Command{command(2, "Cisco", "VLAN", "b", true)},
	}
	p := query.New(store, 1)

	matches, err := p.Run("cat:cisco")
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 1}, ids(matches))

	matches, err = p.Run("fav:")
	require.NoError(t, err)
	assert.Equal(t, []int64{2}, ids(matches))
	assert.Empty(t, store.searched)
}

func TestRunPropagatesStoreErrors(t *testing.T) {
	p := query.New(&fakeStore{err: db.ErrStorageUnavailable}, 1)

	_, err := p.Run("vlan")
	assert.ErrorIs(t, err, db.ErrStorageUnavailable)

	_, err = p.Run("")
	assert.ErrorIs(t, err, db.ErrStorageUnavailable)
}

func TestAccepts(t *testing.T) {
	c := command(1, "Proxmox", "VM Lifecycle", "start vm", false)
	c.Tags = "PVE, qm"

	assert.True(t, query.Accepts(model.Filters{}, c))
	assert.True(t, query.Accepts(model.Filters{Subcategory: "vm-lifecycle"}, c))
	assert.True(t, query.Accepts(model.Filters{Tag: "pve"}, c))
	assert.False(t, query.Accepts(model.Filters{Tag: "ansible"}, c))
	assert.False(t, query.Accepts(model.Filters{Favorites: true}, c))
}

func TestFuzzy(t *testing.T) {
	commands := []model.Command{
		{ID: 1, Title: "Show VLANs", Cmd: "show vlan brief"},
		{ID: 2, Title: "Disk usage", Cmd: "df -h"},
	}

	assert.Equal(t, commands, query.Fuzzy(commands, ""))

	got := query.Fuzzy(commands, "shvl")
	require.Len(t, got, 1)
	assert.Equal(t, int64(1), got[0].ID)
}

func TestSuggest(t *testing.T) {
	store := &fakeStore{all: []model.Command{
		{ID: 1, Title: "Show VLANs", Cmd: "show vlan brief"},
		{ID: 2, Title: "Show interfaces", Cmd: "show interfaces status"},
		{ID: 3, Title: "Disk usage", Cmd: "df -h"},
	}}
	p := query.New(store, 1)

	got, err := p.Suggest("shw", 1)
	require.NoError(t, err)
	require.Len(t, got, 1)

	got, err = p.Suggest("", 5)
	require.NoError(t, err)
	assert.Empty(t, got)

	store.err = errors.New("boom")
	_, err = p.Suggest("shw", 5)
	assert.Error(t, err)
}

func openVault(t *testing.T) *db.DB {
	t.Helper()
	d, err := db.Open(filepath.Join(t.TempDir(), "vault.db"), db.DriverPureGo)
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })
	return d
}

func create(t *testing.T, d *db.DB, c model.Command) int64 {
	t.Helper()
	id, err := d.Create(c)
	require.NoError(t, err)
	return id
}

func TestRunAgainstStore(t *testing.T) {
	d := openVault(t)
	vlan := create(t, d, model.Command{Category: "Cisco", Subcategory: "VLAN", Title: "Show VLANs", Cmd: "show vlan brief"})
	mac := create(t, d, model.Command{Category: "Cisco", Subcategory: "Switching", Title: "MAC table", Cmd: "show mac address-table"})
	tagged := create(t, d, model.Command{Category: "Linux", Subcategory: "Disk", Title: "Free space", Cmd: "df -h", Tags: "storage"})

	p := query.New(d, 1)

	first, err := p.Run("show mac")
	require.NoError(t, err)
	require.NotEmpty(t, first)
	assert.Equal(t, mac, first[0].Command.ID)
	assert.Contains(t, ids(first), vlan)

	again, err := p.Run("show mac")
	require.NoError(t, err)
	assert.Equal(t, first, again)

	byTag, err := p.Run("storage")
	require.NoError(t, err)
	assert.Equal(t, []int64{tagged}, ids(byTag))

	_, err = d.ToggleFavorite(vlan)
	require.NoError(t, err)
	favs, err := p.Run("")
	require.NoError(t, err)
	assert.Equal(t, []int64{vlan}, ids(favs))
}

func TestToggleFavoriteTwiceKeepsRelevance(t *testing.T) {
	d := openVault(t)
	id := create(t, d, model.Command{Category: "Linux", Subcategory: "Net", Title: "Ping host", Cmd: "ping -c 4 {host}"})
	p := query.New(d, 1)

	before, err := p.Run("ping")
	require.NoError(t, err)

	for range 2 {
		_, err = d.ToggleFavorite(id)
		require.NoError(t, err)
	}

	after, err := p.Run("ping")
	require.NoError(t, err)
	require.Len(t, after, 1)
	assert.Equal(t, before[0].Relevance, after[0].Relevance)
	assert.Equal(t, before[0].Command.IsFavorite, after[0].Command.IsFavorite)
}
