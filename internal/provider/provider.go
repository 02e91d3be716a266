package provider

import "context"

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Sampling holds the fixed generation parameters sent with every request.
type Sampling struct {
	MaxTokens   int
	Temperature float64
	TopP        float64
	Stop        []string
}

// DefaultSampling matches the companion's tuned request parameters.
func DefaultSampling() Sampling {
	return Sampling{
		MaxTokens:   200,
		Temperature: 0.7,
		TopP:        0.9,
		Stop:        []string{"Human:", "User:"},
	}
}

// Completer produces a single assistant reply for a message list.
// Failures that the caller should treat as "service unavailable" satisfy
// errors.Is(err, ErrServiceUnavailable).
type Completer interface {
	Complete(ctx context.Context, msgs []Message) (string, error)
	Name() string
}
