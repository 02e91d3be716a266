package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/jeanpaul/companion/internal/session"
)

// DefaultSavePath is where /save writes when no path is given.
const DefaultSavePath = "companion-chat.md"

// Kind tells the surface how to present a Result.
type Kind int

const (
	KindInfo Kind = iota
	KindError
)

// Result is the outcome of a slash command.
type Result struct {
	Output string
	Kind   Kind
	Quit   bool
	// ModeChanged is set when the active mode was switched.
	ModeChanged bool
	// Cleared is set when the transcript was reset.
	Cleared bool
}

const helpText = `  Available commands:
    /help        : show this help
    /modes       : list conversation modes
    /mode <key>  : switch mode
    /memory      : show what I remember about you
    /forget      : forget everything I remember
    /clear       : clear conversation history
    /stats       : show session statistics
    /save [path] : export conversation to a markdown file
    /quit        : exit`

// IsCommand reports whether text should be dispatched instead of chatted.
func IsCommand(text string) bool {
	return strings.HasPrefix(strings.TrimSpace(text), "/")
}

// Dispatcher runs slash commands against a session.
type Dispatcher struct {
	session *session.Session
	now     func() time.Time
}

func New(s *session.Session) *Dispatcher {
	return &Dispatcher{session: s, now: time.Now}
}

// Help is the text shown by /help.
func Help() string { return helpText }

func (d *Dispatcher) Dispatch(text string) Result {
	parts := strings.Fields(text)
	if len(parts) == 0 {
		return Result{}
	}
	cmd := strings.ToLower(parts[0])

	switch cmd {
	case "/help":
		return Result{Output: helpText}

	case "/modes":
		return Result{Output: d.listModes()}

	case "/mode":
		if len(parts) < 2 {
			return Result{Output: "Usage: /mode <key> (see /modes)", Kind: KindError}
		}
		key := strings.ToLower(parts[1])
		if err := d.session.SwitchMode(key); err != nil {
			return Result{Output: fmt.Sprintf("  %v (see /modes)", err), Kind: KindError}
		}
		return Result{Output: "  Switched to " + d.session.Mode().Title(), ModeChanged: true}

	case "/memory":
		mem := d.session.Memory()
		if mem.IsEmpty() {
			return Result{Output: "  I don't know anything about you yet."}
		}
		var sb strings.Builder
		if mem.Name != "" {
			fmt.Fprintf(&sb, "  Name: %s\n", mem.Name)
		}
		if len(mem.Interests) > 0 {
			fmt.Fprintf(&sb, "  Interests: %s\n", strings.Join(mem.Interests, ", "))
		}
		fmt.Fprintf(&sb, "  Messages: %d", mem.MessageCount)
		return Result{Output: sb.String()}

	case "/forget":
		d.session.ResetMemory()
		return Result{Output: "  Memory cleared."}

	case "/clear":
		d.session.ResetConversation()
		return Result{Output: "  Conversation cleared.", Cleared: true}

	case "/stats":
		st := d.session.Stats()
		source := "templates only"
		if d.session.Online() {
			source = "service with template fallback"
		}
		return Result{Output: fmt.Sprintf("  Session: %s\n  Mode: %s\n  Messages: %d (%d turns)\n  Interests: %d\n  Replies: %s\n  Uptime: %s",
			st.ID, st.Mode, st.MessageCount, st.Turns, st.Interests, source,
			d.now().Sub(st.Started).Round(time.Second))}

	case "/save":
		path := DefaultSavePath
		if len(parts) > 1 {
			path = parts[1]
		}
		if err := d.session.Export(path); err != nil {
			return Result{Output: err.Error(), Kind: KindError}
		}
		return Result{Output: "  Saved to " + path}

	case "/quit", "/exit":
		return Result{Output: "  Bye!", Quit: true}

	default:
		return Result{
			Output: fmt.Sprintf("Unknown command: %s (type /help for available commands)", cmd),
			Kind:   KindError,
		}
	}
}

func (d *Dispatcher) listModes() string {
	current := d.session.Mode().Key
	var sb strings.Builder
	sb.WriteString("  Modes:")
	for _, m := range d.session.Catalog().Modes() {
		marker := " "
		if m.Key == current {
			marker = "*"
		}
		fmt.Fprintf(&sb, "\n  %s %-12s %s", marker, m.Key, m.Title())
	}
	return sb.String()
}
