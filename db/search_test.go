package db_test

import (
	"database/sql"
	"path/filepath"
	"testing"

	"cmdvault/db"
	"cmdvault/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(matches []model.Match) []int64 {
	out := make([]int64, len(matches))
	for i, m := range matches {
		out[i] = m.Command.ID
	}
	return out
}

func TestSearchMatchesEveryField(t *testing.T) {
	d := openTestDB(t)
	byTitle := mustCreate(t, d, cmd("Cisco", "STP", "Spanning tree root", "show stp root", "", "", false))
	byCommand := mustCreate(t, d, cmd("Linux", "Network", "Sockets", "ss -tulnp", "", "", false))
	byDescription := mustCreate(t, d, cmd("Linux", "System", "Uptime", "uptime", "Load averages", "", false))
	byTag := mustCreate(t, d, cmd("Proxmox", "VM", "List all VMs", "qm list", "", "proxmox,qemu", false))

	tests := []struct {
		token string
		want  int64
	}{
		{"spanning", byTitle},
		{"tulnp", byCommand},
		{"averages", byDescription},
		{"qemu", byTag},
	}
	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			matches, err := d.Search([]string{tt.token})
			require.NoError(t, err)
			assert.Equal(t, []int64{tt.want}, ids(matches))
		})
	}
}

func TestSearchIsCaseInsensitive(t *testing.T) {
	d := openTestDB(t)
	id := mustCreate(t, d, cmd("Cisco", "MAC", "Show MAC Address Table", "show mac address-table", "", "", false))

	matches, err := d.Search([]string{"ADDRESS"})
	require.NoError(t, err)
	assert.Equal(t, []int64{id}, ids(matches))
}

func TestSearchSubstringOfHyphenatedWord(t *testing.T) {
	d := openTestDB(t)
	id := mustCreate(t, d, cmd("Cisco", "MAC", "MAC table", "show mac address-table", "", "", false))

	matches, err := d.Search([]string{"table"})
	require.NoError(t, err)
	assert.Equal(t, []int64{id}, ids(matches))

	matches, err = d.Search([]string{"ess-tab"})
	require.NoError(t, err)
	assert.Equal(t, []int64{id}, ids(matches))
}

func TestSearchWholeWordOutranksSubstring(t *testing.T) {
	// Each pair differs only in one field: the token is a whole word of one
	// record and a substring of the other.
	tests := []struct {
		name      string
		token     string
		substring model.Command
		whole     model.Command
	}{
		{
			name:      "command",
			token:     "scan",
			substring: cmd("Linux", "Network", "Probe hosts", "nmap -sn --rescanning {net}", "", "", false),
			whole:     cmd("Linux", "Network", "Probe hosts", "nmap -sn --scan {net}", "", "", false),
		},
		{
			name:      "hyphenated command word",
			token:     "address",
			substring: cmd("Cisco", "Switching", "MAC table", "show macaddresses", "", "", false),
			whole:     cmd("Cisco", "Switching", "MAC table", "show mac address-table", "", "", false),
		},
		{
			name:      "title",
			token:     "trunk",
			substring: cmd("Cisco", "VLAN", "Show trunking", "show interfaces", "", "", false),
			whole:     cmd("Cisco", "VLAN", "Show trunk", "show interfaces", "", "", false),
		},
		{
			name:      "multi-word tag",
			token:     "port",
			substring: cmd("Cisco", "Interface", "Edge ports", "show run", "", "portfast", false),
			whole:     cmd("Cisco", "Interface", "Edge ports", "show run", "", "port channel", false),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := openTestDB(t)
			// The substring record gets the lower id so id order cannot
			// produce the expected ranking by itself.
			substring := mustCreate(t, d, tt.substring)
			whole := mustCreate(t, d, tt.whole)

			matches, err := d.Search([]string{tt.token})
			require.NoError(t, err)
			require.Equal(t, []int64{whole, substring}, ids(matches))
			assert.Greater(t, matches[0].Relevance, matches[1].Relevance)
		})
	}
}

func TestSearchMoreFieldsAndTokensRankHigher(t *testing.T) {
	d := openTestDB(t)
	oneField := mustCreate(t, d, cmd("Cisco", "VLAN", "Show trunks", "show interfaces trunk", "", "", false))
	twoFields := mustCreate(t, d, cmd("Cisco", "VLAN", "Show VLAN brief", "show vlan brief", "", "", false))
	threeFields := mustCreate(t, d, cmd("Cisco", "VLAN", "VLAN detail", "show vlan id {vlan_id}", "Detail for a VLAN", "", false))

	matches, err := d.Search([]string{"vlan"})
	require.NoError(t, err)
	assert.Equal(t, []int64{threeFields, twoFields}, ids(matches))

	matches, err = d.Search([]string{"trunk", "show"})
	require.NoError(t, err)
	require.Len(t, matches, 3)
	assert.Equal(t, oneField, matches[0].Command.ID)
}

func TestSearchTiesBreakByID(t *testing.T) {
	d := openTestDB(t)
	a := mustCreate(t, d, cmd("Linux", "Disk", "Disk usage", "df -h", "", "", false))
	b := mustCreate(t, d, cmd("Linux", "Disk", "Disk usage", "df -h", "", "", false))
	c := mustCreate(t, d, cmd("Linux", "Disk", "Disk usage", "df -h", "", "", false))

	for i := 0; i < 3; i++ {
		matches, err := d.Search([]string{"disk"})
		require.NoError(t, err)
		assert.Equal(t, []int64{a, b, c}, ids(matches))
	}
}

func TestSearchTagOnly(t *testing.T) {
	d := openTestDB(t)
	id := mustCreate(t, d, cmd("Cisco", "System", "Show version", "show version", "IOS version", "ccna,system", false))

	matches, err := d.Search([]string{"ccna"})
	require.NoError(t, err)
	assert.Equal(t, []int64{id}, ids(matches))
}

func TestSearchEscapesLikeWildcards(t *testing.T) {
	d := openTestDB(t)
	mustCreate(t, d, cmd("Linux", "Disk", "Disk usage", "df -h", "", "", false))
	pct := mustCreate(t, d, cmd("Linux", "Network", "Curl status", "curl -w '%{http_code}' {url}", "", "", false))

	matches, err := d.Search([]string{"%"})
	require.NoError(t, err)
	assert.Equal(t, []int64{pct}, ids(matches))

	matches, err = d.Search([]string{"_"})
	require.NoError(t, err)
	assert.Equal(t, []int64{pct}, ids(matches))
}

func TestSearchNoTokens(t *testing.T) {
	d := openTestDB(t)
	mustCreate(t, d, cmd("Linux", "Disk", "Disk usage", "df -h", "", "", false))

	matches, err := d.Search(nil)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestTerms(t *testing.T) {
	terms := db.Terms(cmd("Cisco", "System", "Show flash", "show flash:\n dir {path}", "", "System, flash ,system", false))

	assert.Equal(t, []string{"show", "flash"}, terms[db.FieldTitle])
	assert.Equal(t, []string{"show", "flash:", "flash", "dir", "{path}", "path"}, terms[db.FieldCommand])
	assert.Empty(t, terms[db.FieldDescription])
	assert.Equal(t, []string{"flash", "system"}, terms[db.FieldTag])

	terms = db.Terms(cmd("Cisco", "Switching", "MAC table", "show mac address-table", "", "port channel", false))
	assert.Equal(t, []string{"show", "mac", "address-table", "address", "table"}, terms[db.FieldCommand])
	assert.Equal(t, []string{"port channel", "port", "channel"}, terms[db.FieldTag])
}

func TestOpenReindexesOutdatedTerms(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vault.db")
	d, err := db.Open(path, db.DriverPureGo)
	require.NoError(t, err)
	id := mustCreate(t, d, cmd("Cisco", "Interface", "Bundle", "show etherchannel summary", "", "port channel", false))
	require.NoError(t, d.Close())

	// Simulate a vault written before tag words were indexed.
	conn, err := sql.Open(db.DriverPureGo, path)
	require.NoError(t, err)
	_, err = conn.Exec(`DELETE FROM command_terms WHERE term IN ('port', 'channel')`)
	require.NoError(t, err)
	_, err = conn.Exec(`DELETE FROM meta WHERE key = 'index_version'`)
	require.NoError(t, err)
	require.NoError(t, conn.Close())

	d = openAt(t, path)
	matches, err := d.Search([]string{"port"})
	require.NoError(t, err)
	require.Equal(t, []int64{id}, ids(matches))
	assert.Equal(t, 2, matches[0].Relevance)
}

func openAt(t *testing.T, path string) *db.DB {
	t.Helper()
	d, err := db.Open(path, db.DriverPureGo)
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })
	return d
}
