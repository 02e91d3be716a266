package intent

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Category is the classifier's label for an inbound message.
type Category string

const (
	CategoryGreeting  Category = "greeting"
	CategoryQuestion  Category = "question"
	CategoryEmotion   Category = "emotion"
	CategoryStatement Category = "statement"
)

// Categories lists every category in classification order.
var Categories = []Category{CategoryGreeting, CategoryQuestion, CategoryEmotion, CategoryStatement}

// DefaultGreetingThreshold is the rune length below which any message counts as a greeting.
const DefaultGreetingThreshold = 10

var (
	DefaultGreetings      = []string{"hi", "hello", "hey", "hiya", "howdy", "yo", "sup", "greetings"}
	DefaultInterrogatives = []string{"what", "how", "why", "when", "where", "who", "can", "could", "would", "should"}
	DefaultEmotions       = []string{"feel", "sad", "happy", "angry", "upset", "excited", "worried", "anxious", "depressed", "love", "hate"}
)

// Classifier maps raw user text to a Category. The zero value is not usable;
// build one with New or NewDefault.
type Classifier struct {
	threshold      int
	greetings      []string
	interrogatives []string
	emotions       []string
}

// Options configures a Classifier. Empty lists fall back to the defaults.
type Options struct {
	GreetingThreshold int
	Greetings         []string
	Interrogatives    []string
	Emotions          []string
}

func New(opts Options) *Classifier {
	if opts.GreetingThreshold <= 0 {
		opts.GreetingThreshold = DefaultGreetingThreshold
	}
	if len(opts.Greetings) == 0 {
		opts.Greetings = DefaultGreetings
	}
	if len(opts.Interrogatives) == 0 {
		opts.Interrogatives = DefaultInterrogatives
	}
	if len(opts.Emotions) == 0 {
		opts.Emotions = DefaultEmotions
	}
	c := &Classifier{
		threshold:      opts.GreetingThreshold,
		greetings:      lowered(opts.Greetings),
		interrogatives: lowered(opts.Interrogatives),
	}
	for _, e := range opts.Emotions {
		c.emotions = append(c.emotions, strings.ToLower(e))
	}
	return c
}

func NewDefault() *Classifier {
	return New(Options{})
}

// Classify returns the first matching category in the order greeting,
// question, emotion, statement. Short messages are always greetings, even
// when they contain '?' or an emotion keyword.
func (c *Classifier) Classify(text string) Category {
	trimmed := strings.TrimSpace(text)
	lower := strings.ToLower(trimmed)

	if utf8.RuneCountInString(trimmed) < c.threshold || startsWithAny(lower, c.greetings) {
		return CategoryGreeting
	}
	if strings.Contains(trimmed, "?") || startsWithAny(lower, c.interrogatives) {
		return CategoryQuestion
	}
	for _, kw := range c.emotions {
		if strings.Contains(lower, kw) {
			return CategoryEmotion
		}
	}
	return CategoryStatement
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryGreeting, CategoryQuestion, CategoryEmotion, CategoryStatement:
		return true
	}
	return false
}

// startsWithAny reports whether s begins with one of words followed by a
// word boundary. Anything other than a letter or digit ends the word, so
// "what's" starts with "what" but "history" does not start with "hi".
func startsWithAny(s string, words []string) bool {
	for _, w := range words {
		if w == "" || !strings.HasPrefix(s, w) {
			continue
		}
		r, _ := utf8.DecodeRuneInString(s[len(w):])
		if r == utf8.RuneError || !(unicode.IsLetter(r) || unicode.IsDigit(r)) {
			return true
		}
	}
	return false
}

func lowered(words []string) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		out = append(out, strings.ToLower(strings.TrimSpace(w)))
	}
	return out
}
