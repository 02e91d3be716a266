package reply

import (
	"context"
	"strings"

	"github.com/jeanpaul/companion/internal/conversation"
	"github.com/jeanpaul/companion/internal/memory"
	"github.com/jeanpaul/companion/internal/persona"
	"github.com/jeanpaul/companion/internal/provider"
)

const (
	// DefaultWindow is how many past turns are sent with each request.
	DefaultWindow = 8
	// DefaultPlaceholder replaces a service reply that tidies down to nothing.
	DefaultPlaceholder = "I'm listening! Tell me more."

	maxSentences = 4
)

// Service generates replies through a remote chat-completion API.
type Service struct {
	client      provider.Completer
	window      int
	placeholder string
}

func NewService(client provider.Completer, window int, placeholder string) *Service {
	if window < 0 {
		window = 0
	}
	if placeholder == "" {
		placeholder = DefaultPlaceholder
	}
	return &Service{client: client, window: window, placeholder: placeholder}
}

// Generate asks the service for a reply. recent holds turns before userText.
// Errors satisfy errors.Is(err, provider.ErrServiceUnavailable).
func (s *Service) Generate(ctx context.Context, mode persona.Mode, mem memory.Memory, recent []conversation.Turn, userText string) (string, error) {
	text, err := s.client.Complete(ctx, BuildMessages(mode, mem, recent, userText, s.window))
	if err != nil {
		return "", err
	}
	return Tidy(text, s.placeholder), nil
}

// SystemPrompt is the mode prompt followed by the memory summary, if any.
func SystemPrompt(mode persona.Mode, mem memory.Memory) string {
	if summary := mem.Summary(); summary != "" {
		return mode.Prompt + " " + summary
	}
	return mode.Prompt
}

// BuildMessages lays out the request: system instruction, the last window
// turns, then the new user turn.
func BuildMessages(mode persona.Mode, mem memory.Memory, recent []conversation.Turn, userText string, window int) []provider.Message {
	if window < len(recent) {
		recent = recent[len(recent)-window:]
	}
	msgs := make([]provider.Message, 0, len(recent)+2)
	msgs = append(msgs, provider.Message{Role: provider.RoleSystem, Content: SystemPrompt(mode, mem)})
	for _, t := range recent {
		role := provider.RoleAssistant
		if t.Role == conversation.RoleUser {
			role = provider.RoleUser
		}
		msgs = append(msgs, provider.Message{Role: role, Content: t.Content})
	}
	return append(msgs, provider.Message{Role: provider.RoleUser, Content: userText})
}

// Tidy keeps at most four period-delimited sentences of text and ends the
// result with a period. An empty result becomes placeholder.
func Tidy(text, placeholder string) string {
	var sentences []string
	for _, s := range strings.Split(strings.TrimSpace(text), ".") {
		if s = strings.TrimSpace(s); s != "" {
			sentences = append(sentences, s)
		}
		if len(sentences) == maxSentences {
			break
		}
	}
	out := strings.Join(sentences, ". ")
	if out == "" {
		return placeholder
	}
	if !strings.HasSuffix(out, ".") {
		out += "."
	}
	return out
}
