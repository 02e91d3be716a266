package memory

import (
	"fmt"
	"strings"
)

// summaryInterests is how many interests the summary clause mentions.
const summaryInterests = 3

// Memory holds what a session has learned about the user.
// An empty Name means the name is unknown.
type Memory struct {
	Name         string   `json:"name,omitempty"`
	Interests    []string `json:"interests"`
	MessageCount int      `json:"message_count"`
}

// New returns an empty memory, the state of a fresh session.
func New() Memory {
	return Memory{Interests: []string{}}
}

func (m Memory) IsEmpty() bool {
	return m.Name == "" && len(m.Interests) == 0
}

// Clone returns a copy that shares no backing array with m.
func (m Memory) Clone() Memory {
	c := m
	c.Interests = append([]string{}, m.Interests...)
	return c
}

// TopInterests returns at most n interests in insertion order.
func (m Memory) TopInterests(n int) []string {
	if len(m.Interests) < n {
		n = len(m.Interests)
	}
	return m.Interests[:n]
}

// Summary renders the memory clause appended to a mode's system prompt.
// The name clause always comes before the interests clause; either may be absent.
func (m Memory) Summary() string {
	var parts []string
	if m.Name != "" {
		parts = append(parts, fmt.Sprintf("User's name: %s.", m.Name))
	}
	if len(m.Interests) > 0 {
		parts = append(parts, fmt.Sprintf("They like: %s.", strings.Join(m.TopInterests(summaryInterests), ", ")))
	}
	return strings.Join(parts, " ")
}
