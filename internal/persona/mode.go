package persona

import (
	"errors"
	"fmt"

	"github.com/jeanpaul/companion/internal/intent"
)

var ErrUnknownMode = errors.New("unknown mode")

// Mode is a named personality preset. Prompt drives the service path,
// Replies drives the template path.
type Mode struct {
	Key     string                       `yaml:"key"`
	Label   string                       `yaml:"label"`
	Emoji   string                       `yaml:"emoji"`
	Prompt  string                       `yaml:"prompt"`
	Replies map[intent.Category][]string `yaml:"replies"`
}

// Title is the display label, prefixed with the emoji when there is one.
func (m Mode) Title() string {
	if m.Emoji == "" {
		return m.Label
	}
	return m.Emoji + " " + m.Label
}

// Candidates returns the reply list for category, falling back to the
// statement list when the category is missing or empty.
func (m Mode) Candidates(category intent.Category) []string {
	if c := m.Replies[category]; len(c) > 0 {
		return c
	}
	return m.Replies[intent.CategoryStatement]
}

func (m Mode) validate() error {
	if m.Key == "" {
		return fmt.Errorf("mode has no key")
	}
	if len(m.Replies[intent.CategoryStatement]) == 0 {
		return fmt.Errorf("mode %q: statement replies are required", m.Key)
	}
	for cat := range m.Replies {
		if !cat.Valid() {
			return fmt.Errorf("mode %q: unknown category %q", m.Key, cat)
		}
	}
	return nil
}

// Catalog is the ordered, immutable set of modes available to sessions.
type Catalog struct {
	order []string
	modes map[string]Mode
}

// NewCatalog builds a catalog. A later mode with the same key replaces the
// earlier one in place.
func NewCatalog(modes ...Mode) (*Catalog, error) {
	c := &Catalog{modes: make(map[string]Mode, len(modes))}
	for _, m := range modes {
		if err := m.validate(); err != nil {
			return nil, err
		}
		if _, exists := c.modes[m.Key]; !exists {
			c.order = append(c.order, m.Key)
		}
		c.modes[m.Key] = m
	}
	if len(c.order) == 0 {
		return nil, fmt.Errorf("catalog has no modes")
	}
	return c, nil
}

func (c *Catalog) Get(key string) (Mode, error) {
	m, ok := c.modes[key]
	if !ok {
		return Mode{}, fmt.Errorf("%w: %q", ErrUnknownMode, key)
	}
	return m, nil
}

func (c *Catalog) Has(key string) bool {
	_, ok := c.modes[key]
	return ok
}

// Modes returns modes in catalog order.
func (c *Catalog) Modes() []Mode {
	out := make([]Mode, 0, len(c.order))
	for _, k := range c.order {
		out = append(out, c.modes[k])
	}
	return out
}

// Keys returns mode keys in catalog order.
func (c *Catalog) Keys() []string {
	return append([]string(nil), c.order...)
}
