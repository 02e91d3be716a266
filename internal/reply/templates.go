package reply

import (
	"math/rand"
	"strings"

	"github.com/jeanpaul/companion/internal/intent"
	"github.com/jeanpaul/companion/internal/memory"
	"github.com/jeanpaul/companion/internal/persona"
)

// DefaultNameRate is the chance a template reply is personalised with the user's name.
const DefaultNameRate = 0.3

// lastResort is returned only for a mode that somehow has no statement replies.
const lastResort = "I hear you."

// Templates picks replies from a mode's static tables.
// It is not safe for concurrent use; each session owns one.
type Templates struct {
	rng      *rand.Rand
	nameRate float64
}

// NewTemplates uses rng for every random choice so a fixed seed gives a
// reproducible reply sequence.
func NewTemplates(rng *rand.Rand, nameRate float64) *Templates {
	if nameRate < 0 {
		nameRate = 0
	}
	return &Templates{rng: rng, nameRate: nameRate}
}

// Generate never returns an empty string.
func (t *Templates) Generate(mode persona.Mode, category intent.Category, mem memory.Memory) string {
	candidates := mode.Candidates(category)
	if len(candidates) == 0 {
		return lastResort
	}
	text := candidates[t.rng.Intn(len(candidates))]
	if mem.Name != "" && t.rng.Float64() < t.nameRate {
		text = InjectName(text, mem.Name)
	}
	return text
}

// InjectName inserts ", name" before the first '!' or '.' in s.
// Without either mark s is returned unchanged.
func InjectName(s, name string) string {
	i := strings.IndexAny(s, "!.")
	if i < 0 {
		return s
	}
	return s[:i] + ", " + name + s[i:]
}
