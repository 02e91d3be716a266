package headless

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/jeanpaul/companion/internal/commands"
	"github.com/jeanpaul/companion/internal/session"
)

// Runner drives a session from a line-oriented stream.
// Replies go to out; command errors go to errOut.
type Runner struct {
	session    *session.Session
	dispatcher *commands.Dispatcher
	out        io.Writer
	errOut     io.Writer
	prompt     string
}

func New(s *session.Session, out, errOut io.Writer) *Runner {
	return &Runner{
		session:    s,
		dispatcher: commands.New(s),
		out:        out,
		errOut:     errOut,
	}
}

// WithPrompt prints prompt before every line read, for interactive terminals.
func (r *Runner) WithPrompt(prompt string) *Runner {
	r.prompt = prompt
	return r
}

// Run reads lines from in until EOF, /quit, or ctx is done.
func (r *Runner) Run(ctx context.Context, in io.Reader) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- scanner.Err()
	}()

	fmt.Fprintf(r.out, "%s (type /help for commands)\n", r.session.Mode().Title())
	for {
		if r.prompt != "" {
			fmt.Fprint(r.out, r.prompt)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-readErr:
					if err != nil {
						return fmt.Errorf("read input: %w", err)
					}
				default:
				}
				return nil
			}
			if quit := r.handle(ctx, line); quit {
				return nil
			}
		}
	}
}

func (r *Runner) handle(ctx context.Context, line string) bool {
	text := strings.TrimSpace(line)
	if text == "" {
		return false
	}
	if commands.IsCommand(text) {
		res := r.dispatcher.Dispatch(text)
		w := r.out
		if res.Kind == commands.KindError {
			w = r.errOut
		}
		fmt.Fprintln(w, res.Output)
		return res.Quit
	}
	rep := r.session.HandleTurn(ctx, text)
	fmt.Fprintln(r.out, rep.Text)
	return false
}

// Once answers a single message and returns the reply text.
func Once(ctx context.Context, s *session.Session, text string) string {
	return s.HandleTurn(ctx, text).Text
}
