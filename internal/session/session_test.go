package session

import (
	"context"
	"errors"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/jeanpaul/companion/internal/conversation"
	"github.com/jeanpaul/companion/internal/intent"
	"github.com/jeanpaul/companion/internal/memory"
	"github.com/jeanpaul/companion/internal/persona"
	"github.com/jeanpaul/companion/internal/provider"
	"github.com/jeanpaul/companion/internal/reply"
)

type recordingCompleter struct{ calls [][]provider.Message }

func (r *recordingCompleter) Complete(_ context.Context, msgs []provider.Message) (string, error) {
	r.calls = append(r.calls, msgs)
	return "noted", nil
}
func (r *recordingCompleter) Name() string { return "recording" }

func newSession(t *testing.T, seed int64) *Session {
	t.Helper()
	catalog, err := persona.NewCatalog(persona.Builtin()...)
	require.NoError(t, err)
	sel := reply.NewSelector(reply.NewTemplates(rand.New(rand.NewSource(seed)), reply.DefaultNameRate), nil, nil)
	s, err := New(catalog, sel, nil, nil, Options{Logger: zaptest.NewLogger(t)})
	require.NoError(t, err)
	return s
}

func TestNewDefaults(t *testing.T) {
	s := newSession(t, 1)
	assert.Equal(t, persona.DefaultMode, s.Mode().Key)
	assert.NotEmpty(t, s.ID())
	assert.True(t, s.Memory().IsEmpty())
	assert.Zero(t, s.Log().Len())
	assert.False(t, s.Online())
}

func TestNewUnknownMode(t *testing.T) {
	catalog, err := persona.NewCatalog(persona.Builtin()...)
	require.NoError(t, err)
	sel := reply.NewSelector(reply.NewTemplates(rand.New(rand.NewSource(1)), 0), nil, nil)
	_, err = New(catalog, sel, nil, nil, Options{Mode: "nope"})
	assert.True(t, errors.Is(err, persona.ErrUnknownMode))
}

func TestHandleTurn(t *testing.T) {
	s := newSession(t, 1)
	r := s.HandleTurn(context.Background(), "My name is sam and I like chess")

	assert.NotEmpty(t, r.Text)
	assert.Equal(t, reply.SourceTemplate, r.Source)
	assert.Equal(t, intent.CategoryStatement, r.Category)

	mem := s.Memory()
	assert.Equal(t, "Sam", mem.Name)
	assert.Equal(t, []string{"chess"}, mem.Interests)
	assert.Equal(t, 1, mem.MessageCount)

	turns := s.Log().Turns()
	require.Len(t, turns, 2)
	assert.Equal(t, conversation.Turn{Role: conversation.RoleUser, Content: "My name is sam and I like chess"}, turns[0])
	assert.Equal(t, conversation.RoleAssistant, turns[1].Role)
	assert.Equal(t, r.Text, turns[1].Content)
	assert.True(t, s.TakeRefocus())
	assert.False(t, s.TakeRefocus())
}

func TestHandleTurnHistoryWindow(t *testing.T) {
	for _, tt := range []struct {
		window int
		want   int
	}{
		{window: 0, want: 2},
		{window: 2, want: 4},
		{window: 50, want: 8},
	} {
		catalog, err := persona.NewCatalog(persona.Builtin()...)
		require.NoError(t, err)
		rc := &recordingCompleter{}
		svc := reply.NewService(rc, tt.window, "")
		sel := reply.NewSelector(reply.NewTemplates(rand.New(rand.NewSource(1)), 0), svc, nil)
		s, err := New(catalog, sel, nil, nil, Options{})
		require.NoError(t, err)

		for _, msg := range []string{"first message here", "second message here", "third message here", "fourth message here"} {
			s.HandleTurn(context.Background(), msg)
		}
		require.Len(t, rc.calls, 4)
		last := rc.calls[3]
		assert.Len(t, last, tt.want, "window %d", tt.window)
		assert.Equal(t, "fourth message here", last[len(last)-1].Content)
	}
}

func TestHandleTurnIgnoresBlank(t *testing.T) {
	s := newSession(t, 1)
	assert.Equal(t, reply.Reply{}, s.HandleTurn(context.Background(), "   \n"))
	assert.Zero(t, s.Log().Len())
	assert.Zero(t, s.Memory().MessageCount)
	assert.False(t, s.TakeRefocus())
}

func TestHandleTurnDeterministic(t *testing.T) {
	inputs := []string{"hi", "what is the best book ever written?", "I feel so happy about work", "I love hiking in the mountains"}
	run := func() []string {
		s := newSession(t, 7)
		var out []string
		for _, in := range inputs {
			out = append(out, s.HandleTurn(context.Background(), in).Text)
		}
		return out
	}
	assert.Equal(t, run(), run())
}

func TestSwitchMode(t *testing.T) {
	s := newSession(t, 1)
	s.HandleTurn(context.Background(), "I like chess a lot")
	require.NoError(t, s.SwitchMode("roast"))
	assert.Equal(t, "roast", s.Mode().Key)
	assert.Equal(t, []string{"chess a lot"}, s.Memory().Interests, "memory survives a mode switch")

	err := s.SwitchMode("nope")
	assert.True(t, errors.Is(err, persona.ErrUnknownMode))
	assert.Equal(t, "roast", s.Mode().Key)
}

func TestResets(t *testing.T) {
	s := newSession(t, 1)
	s.HandleTurn(context.Background(), "call me alex")
	s.HandleTurn(context.Background(), "I enjoy painting")

	s.ResetConversation()
	assert.Zero(t, s.Log().Len())
	assert.Equal(t, "Alex", s.Memory().Name)

	s.ResetMemory()
	if diff := cmp.Diff(memory.New(), s.Memory()); diff != "" {
		t.Errorf("memory after reset (-want +got):\n%s", diff)
	}
}

func TestStats(t *testing.T) {
	s := newSession(t, 1)
	s.HandleTurn(context.Background(), "I love jazz music")
	st := s.Stats()
	assert.Equal(t, s.ID(), st.ID)
	assert.Equal(t, "friend", st.Mode)
	assert.Equal(t, 2, st.Turns)
	assert.Equal(t, 1, st.MessageCount)
	assert.Equal(t, 1, st.Interests)
}

func TestExport(t *testing.T) {
	s := newSession(t, 1)
	s.HandleTurn(context.Background(), "hello")
	path := filepath.Join(t.TempDir(), "chat.md")
	require.NoError(t, s.Export(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "## User\nhello")
	assert.Contains(t, string(data), "## "+s.Mode().Label)

	assert.Error(t, s.Export(filepath.Join(t.TempDir(), "missing", "chat.md")))
}
