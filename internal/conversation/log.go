package conversation

import (
	"fmt"
	"os"
	"strings"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one entry in the conversation. Turns are never edited once appended.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Log is the ordered, growing record of a session's turns.
type Log struct {
	turns []Turn
}

func NewLog() *Log {
	return &Log{}
}

func (l *Log) AddUser(content string) {
	l.turns = append(l.turns, Turn{Role: RoleUser, Content: content})
}

func (l *Log) AddAssistant(content string) {
	l.turns = append(l.turns, Turn{Role: RoleAssistant, Content: content})
}

// Turns returns a copy of every turn.
func (l *Log) Turns() []Turn {
	return append([]Turn(nil), l.turns...)
}

// Recent returns a copy of the last n turns, or all of them when fewer exist.
// n <= 0 yields nothing.
func (l *Log) Recent(n int) []Turn {
	if n <= 0 {
		return nil
	}
	start := len(l.turns) - n
	if start < 0 {
		start = 0
	}
	return append([]Turn(nil), l.turns[start:]...)
}

func (l *Log) Len() int {
	return len(l.turns)
}

// Clear drops every turn.
func (l *Log) Clear() {
	l.turns = nil
}

// Markdown renders the log as a human-readable transcript.
func (l *Log) Markdown(title, assistantName string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# %s\n\n", title))
	for _, t := range l.turns {
		switch t.Role {
		case RoleUser:
			sb.WriteString("## User\n")
		case RoleAssistant:
			sb.WriteString("## " + assistantName + "\n")
		}
		sb.WriteString(t.Content + "\n\n")
	}
	return sb.String()
}

// Export writes the markdown transcript to path.
func (l *Log) Export(path, title, assistantName string) error {
	return os.WriteFile(path, []byte(l.Markdown(title, assistantName)), 0644)
}
