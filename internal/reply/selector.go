package reply

import (
	"context"

	"go.uber.org/zap"

	"github.com/jeanpaul/companion/internal/conversation"
	"github.com/jeanpaul/companion/internal/intent"
	"github.com/jeanpaul/companion/internal/memory"
	"github.com/jeanpaul/companion/internal/persona"
)

type Source string

const (
	SourceService  Source = "service"
	SourceTemplate Source = "template"
)

// Reply is a generated assistant message and where it came from.
type Reply struct {
	Text     string
	Source   Source
	Category intent.Category
}

// Selector prefers the service path and falls back to templates on any failure.
// A nil service means template-only operation.
type Selector struct {
	templates *Templates
	service   *Service
	logger    *zap.Logger
}

func NewSelector(templates *Templates, service *Service, logger *zap.Logger) *Selector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Selector{templates: templates, service: service, logger: logger}
}

// Online reports whether a service is configured.
func (s *Selector) Online() bool {
	return s.service != nil
}

func (s *Selector) Reply(ctx context.Context, mode persona.Mode, category intent.Category, mem memory.Memory, recent []conversation.Turn, userText string) Reply {
	if s.service != nil && mode.Prompt != "" {
		text, err := s.service.Generate(ctx, mode, mem, recent, userText)
		if err == nil {
			return Reply{Text: text, Source: SourceService, Category: category}
		}
		s.logger.Warn("service reply failed, using templates",
			zap.String("mode", mode.Key),
			zap.Error(err))
	}
	return Reply{
		Text:     s.templates.Generate(mode, category, mem),
		Source:   SourceTemplate,
		Category: category,
	}
}
