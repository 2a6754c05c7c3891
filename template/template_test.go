package template

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestExtract(t *testing.T) {
	tests := []struct {
		name string
		cmd  string
		want []string
	}{
		{"single", "show interfaces {iface}", []string{"iface"}},
		{"repeated name", "copy {src} to {dst} and verify {src}", []string{"src", "dst"}},
		{"none", "show vlan brief", nil},
		{"unbalanced", "show {ver", nil},
		{"unbalanced close", "show ver}", nil},
		{"empty name", `find . -exec ls {} \;`, nil},
		{"inner braces only", "echo {a{b}c}", []string{"b"}},
		{"multiline", "interface {iface}\n switchport access vlan {vlan_id}", []string{"iface", "vlan_id"}},
		{"spaces allowed", "echo {first name}", []string{"first name"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Extract(tt.cmd))
		})
	}
}

func TestExtractIdentifiersOnly(t *testing.T) {
	e := New(true)
	assert.Equal(t, []string{"file"}, e.Extract(`awk '{print $1}' {file}`))
	assert.Equal(t, []string{"print $1", "file"}, Default.Extract(`awk '{print $1}' {file}`))
}

func TestSubstitute(t *testing.T) {
	assert.Equal(t, "show interfaces Gi1/0/1",
		Substitute("show interfaces {iface}", map[string]string{"iface": "Gi1/0/1"}))

	assert.Equal(t, "copy a to b and verify a",
		Substitute("copy {src} to {dst} and verify {src}", map[string]string{"src": "a", "dst": "b"}))

	assert.Equal(t, "show {ver", Substitute("show {ver", map[string]string{"ver": "x"}))
}

func TestSubstituteDoesNotRecurse(t *testing.T) {
	got := Substitute("{a} {b}", map[string]string{"a": "{b}", "b": "x"})
	assert.Equal(t, "{b} x", got)
}

func TestSubstitutePartial(t *testing.T) {
	got := Substitute("ssh {user}@{host}", map[string]string{"user": "root"})
	assert.Equal(t, "ssh root@{host}", got)
}

func TestSegments(t *testing.T) {
	segs := Default.Segments("ping {target} -c 4")
	assert.Equal(t, []Segment{
		{Text: "ping "},
		{Text: "{target}", Placeholder: true},
		{Text: " -c 4"},
	}, segs)

	assert.True(t, Default.HasPlaceholders("ping {target}"))
	assert.False(t, Default.HasPlaceholders("show {ver"))
}

func TestSessionWithoutPlaceholders(t *testing.T) {
	s := NewSession("show vlan brief")
	assert.Equal(t, Done, s.State())
	assert.Equal(t, 0, s.Total())

	got, ok := s.Result()
	require.True(t, ok)
	assert.Equal(t, "show vlan brief", got)

	assert.ErrorIs(t, s.Provide("x"), ErrNotPrompting)
}

func TestSessionMalformedCopiesVerbatim(t *testing.T) {
	s := NewSession("show {ver")
	got, ok := s.Result()
	require.True(t, ok)
	assert.Equal(t, "show {ver", got)
}

func TestSessionPromptsInOrder(t *testing.T) {
	s := NewSession("copy {src} to {dst} and verify {src}")
	assert.Equal(t, Prompting, s.State())
	assert.Equal(t, []string{"src", "dst"}, s.Names())

	name, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, "src", name)
	require.NoError(t, s.Provide("a"))

	req, ok := s.Request()
	require.True(t, ok)
	assert.Equal(t, Request{Name: "dst", Index: 1, Total: 2, Preview: "copy a to {dst} and verify a"}, req)

	require.NoError(t, s.Provide("b"))
	assert.Equal(t, Done, s.State())

	got, ok := s.Result()
	require.True(t, ok)
	assert.Equal(t, "copy a to b and verify a", got)
}

func TestSessionEmptyValueIsAccepted(t *testing.T) {
	s := NewSession("ls {flags} /tmp")
	require.NoError(t, s.Provide(""))

	got, ok := s.Result()
	require.True(t, ok)
	assert.Equal(t, "ls  /tmp", got)
}

func TestSessionCancel(t *testing.T) {
	s := NewSession("ssh {user}@{host}")
	require.NoError(t, s.Provide("root"))
	s.Cancel()

	assert.Equal(t, Cancelled, s.State())
	_, ok := s.Result()
	assert.False(t, ok)
	assert.Equal(t, "ssh {user}@{host}", s.Preview())
	assert.ErrorIs(t, s.Provide("host"), ErrNotPrompting)
}

func TestRun(t *testing.T) {
	var asked []Request
	p := PrompterFunc(func(_ context.Context, req Request) (string, error) {
		asked = append(asked, req)
		return map[string]string{"src": "a", "dst": "b"}[req.Name], nil
	})

	got, ok, err := Default.Run(context.Background(), "copy {src} to {dst} and verify {src}", p)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "copy a to b and verify a", got)
	require.Len(t, asked, 2)
	assert.Equal(t, "src", asked[0].Name)
	assert.Equal(t, "dst", asked[1].Name)
}

func TestRunWithoutPlaceholdersNeverPrompts(t *testing.T) {
	p := PrompterFunc(func(context.Context, Request) (string, error) {
		t.Fatal("prompted for a command without placeholders")
		return "", nil
	})

	got, ok, err := Default.Run(context.Background(), "show ip route", p)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "show ip route", got)
}

func TestRunCancelled(t *testing.T) {
	calls := 0
	p := PrompterFunc(func(context.Context, Request) (string, error) {
		calls++
		if calls == 2 {
			return "", ErrCancelled
		}
		return "x", nil
	})

	got, ok, err := Default.Run(context.Background(), "scp {file} {user}@{host}", p)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, got)
	assert.Equal(t, 2, calls)
}

func TestRunContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := PrompterFunc(func(context.Context, Request) (string, error) {
		t.Fatal("prompted after cancellation")
		return "", nil
	})
	_, ok, err := Default.Run(ctx, "ping {target}", p)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRunPrompterError(t *testing.T) {
	boom := errors.New("stdin closed")
	p := PrompterFunc(func(context.Context, Request) (string, error) { return "", boom })

	_, ok, err := Default.Run(context.Background(), "ping {target}", p)
	assert.False(t, ok)
	assert.ErrorIs(t, err, boom)
}
