package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jeanpaul/companion/internal/conversation"
	"github.com/jeanpaul/companion/internal/intent"
	"github.com/jeanpaul/companion/internal/memory"
	"github.com/jeanpaul/companion/internal/persona"
	"github.com/jeanpaul/companion/internal/reply"
)

// Options tunes a Session. Zero values select defaults.
type Options struct {
	Mode   string
	Logger *zap.Logger
}

// Stats summarises a session for the /stats command.
type Stats struct {
	ID           string
	Mode         string
	Turns        int
	MessageCount int
	Interests    int
	Started      time.Time
}

// Session owns the state of one conversation: the active mode, what has been
// learned about the user, and the transcript. A Session has a single writer;
// callers must not run HandleTurn concurrently.
type Session struct {
	id         string
	started    time.Time
	catalog    *persona.Catalog
	selector   *reply.Selector
	classifier *intent.Classifier
	extractor  *memory.Extractor
	logger     *zap.Logger

	mode    persona.Mode
	memory  memory.Memory
	log     *conversation.Log
	refocus bool
}

// New starts a session in opts.Mode, or the catalog's default mode when empty.
func New(catalog *persona.Catalog, selector *reply.Selector, classifier *intent.Classifier, extractor *memory.Extractor, opts Options) (*Session, error) {
	key := opts.Mode
	if key == "" {
		key = persona.DefaultMode
		if !catalog.Has(key) {
			key = catalog.Keys()[0]
		}
	}
	mode, err := catalog.Get(key)
	if err != nil {
		return nil, err
	}
	if classifier == nil {
		classifier = intent.NewDefault()
	}
	if extractor == nil {
		extractor = memory.NewExtractor(memory.Options{})
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	id := uuid.New().String()
	return &Session{
		id:         id,
		started:    time.Now(),
		catalog:    catalog,
		selector:   selector,
		classifier: classifier,
		extractor:  extractor,
		logger:     logger.With(zap.String("session", id)),
		mode:       mode,
		memory:     memory.New(),
		log:        conversation.NewLog(),
	}, nil
}

func (s *Session) ID() string                { return s.id }
func (s *Session) Mode() persona.Mode        { return s.mode }
func (s *Session) Memory() memory.Memory     { return s.memory.Clone() }
func (s *Session) Log() *conversation.Log    { return s.log }
func (s *Session) Catalog() *persona.Catalog { return s.catalog }
func (s *Session) Online() bool              { return s.selector.Online() }

// HandleTurn answers one user message. Blank input is ignored and yields a
// zero Reply. It never fails: service problems degrade to template replies.
func (s *Session) HandleTurn(ctx context.Context, text string) reply.Reply {
	text = strings.TrimSpace(text)
	if text == "" {
		return reply.Reply{}
	}

	category := s.classifier.Classify(text)
	// The service path trims history to its own window.
	recent := s.log.Turns()
	r := s.selector.Reply(ctx, s.mode, category, s.memory, recent, text)

	s.memory = s.extractor.Extract(text, s.memory)
	s.memory.MessageCount++
	s.log.AddUser(text)
	s.log.AddAssistant(r.Text)
	s.refocus = true

	s.logger.Debug("turn handled",
		zap.String("category", string(category)),
		zap.String("source", string(r.Source)),
		zap.Int("messages", s.memory.MessageCount))
	return r
}

// SwitchMode changes the active mode. An unknown key leaves the mode unchanged.
func (s *Session) SwitchMode(key string) error {
	mode, err := s.catalog.Get(key)
	if err != nil {
		return err
	}
	prev := s.mode.Key
	s.mode = mode
	s.refocus = true
	s.logger.Info("mode switched", zap.String("from", prev), zap.String("to", key))
	return nil
}

// ResetMemory forgets everything learned about the user.
func (s *Session) ResetMemory() {
	s.memory = memory.New()
	s.refocus = true
	s.logger.Info("memory reset")
}

// ResetConversation clears the transcript but keeps memory.
func (s *Session) ResetConversation() {
	s.log.Clear()
	s.refocus = true
	s.logger.Info("conversation reset")
}

// TakeRefocus reports whether the input should regain focus, clearing the flag.
func (s *Session) TakeRefocus() bool {
	r := s.refocus
	s.refocus = false
	return r
}

func (s *Session) Stats() Stats {
	return Stats{
		ID:           s.id,
		Mode:         s.mode.Key,
		Turns:        s.log.Len(),
		MessageCount: s.memory.MessageCount,
		Interests:    len(s.memory.Interests),
		Started:      s.started,
	}
}

// Export writes the transcript as markdown to path.
func (s *Session) Export(path string) error {
	title := fmt.Sprintf("%s chat %s", s.mode.Title(), s.started.Format("2006-01-02 15:04"))
	if err := s.log.Export(path, title, s.mode.Label); err != nil {
		return fmt.Errorf("export transcript: %w", err)
	}
	s.logger.Info("transcript exported", zap.String("path", path))
	return nil
}
