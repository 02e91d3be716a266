package memory

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultMaxInterests caps the interest list; the oldest entry is dropped first.
const DefaultMaxInterests = 20

var (
	DefaultNameTriggers     = []string{"my name is", "i'm ", "i am ", "call me "}
	DefaultInterestTriggers = []string{"i like", "i love", "i enjoy", "into ", "interested in"}
)

// interestStops end an interest phrase; the earliest one in the remainder wins.
var interestStops = []string{".", ",", " and "}

// Options configures an Extractor. Nil trigger lists use the defaults,
// MaxInterests < 0 disables the cap and 0 selects DefaultMaxInterests.
type Options struct {
	NameTriggers     []string
	InterestTriggers []string
	MaxInterests     int
	FoldInterestCase bool
}

// Extractor scans user text for self-introductions and preference statements.
//
// Both scans walk their trigger table in order and stop at the first trigger
// phrase present in the text, whether or not the phrase yields a usable value.
// A present but invalid "i'm " therefore hides a later "call me ".
type Extractor struct {
	nameTriggers     []string
	interestTriggers []string
	maxInterests     int
	foldCase         bool
}

func NewExtractor(opts Options) *Extractor {
	e := &Extractor{
		nameTriggers:     opts.NameTriggers,
		interestTriggers: opts.InterestTriggers,
		maxInterests:     opts.MaxInterests,
		foldCase:         opts.FoldInterestCase,
	}
	if e.nameTriggers == nil {
		e.nameTriggers = DefaultNameTriggers
	}
	if e.interestTriggers == nil {
		e.interestTriggers = DefaultInterestTriggers
	}
	if e.maxInterests == 0 {
		e.maxInterests = DefaultMaxInterests
	}
	return e
}

// Extract returns m updated with anything learned from text. m is not modified.
func (e *Extractor) Extract(text string, m Memory) Memory {
	out := m.Clone()
	lower := strings.ToLower(text)

	if name, ok := e.extractName(lower); ok {
		out.Name = name
	}
	if interest, ok := e.extractInterest(lower); ok && !e.hasInterest(out.Interests, interest) {
		out.Interests = append(out.Interests, interest)
		if e.maxInterests > 0 && len(out.Interests) > e.maxInterests {
			out.Interests = out.Interests[len(out.Interests)-e.maxInterests:]
		}
	}
	return out
}

// afterTrigger returns the text between the first occurrence of trigger and
// its next occurrence, or the end of s.
func afterTrigger(s, trigger string) (string, bool) {
	_, after, found := strings.Cut(s, trigger)
	if !found {
		return "", false
	}
	if i := strings.Index(after, trigger); i >= 0 {
		after = after[:i]
	}
	return after, true
}

func (e *Extractor) extractName(lower string) (string, bool) {
	for _, trigger := range e.nameTriggers {
		after, found := afterTrigger(lower, strings.ToLower(trigger))
		if !found {
			continue
		}
		fields := strings.Fields(after)
		if len(fields) == 0 {
			return "", false
		}
		name := capitalize(strings.TrimRight(fields[0], ".,!?"))
		if utf8.RuneCountInString(name) > 1 && isAlpha(name) {
			return name, true
		}
		return "", false
	}
	return "", false
}

func (e *Extractor) extractInterest(lower string) (string, bool) {
	for _, trigger := range e.interestTriggers {
		after, found := afterTrigger(lower, strings.ToLower(trigger))
		if !found {
			continue
		}
		cut := len(after)
		for _, stop := range interestStops {
			if i := strings.Index(after, stop); i >= 0 && i < cut {
				cut = i
			}
		}
		interest := strings.TrimSpace(after[:cut])
		if utf8.RuneCountInString(interest) > 2 {
			return interest, true
		}
		return "", false
	}
	return "", false
}

func (e *Extractor) hasInterest(list []string, interest string) bool {
	for _, have := range list {
		if have == interest || (e.foldCase && strings.EqualFold(have, interest)) {
			return true
		}
	}
	return false
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

func isAlpha(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}
