package persona

import (
	"fmt"
	"os"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/jeanpaul/companion/internal/schema"
)

// packSchema describes a mode pack file:
//
//	modes:
//	  - key: pirate
//	    label: Pirate
//	    prompt: "You talk like a pirate."
//	    replies:
//	      statement: ["Arr!"]
const packSchema = `{
	"type": "object",
	"required": ["modes"],
	"properties": {
		"modes": {
			"type": "array",
			"minItems": 1,
			"items": {
				"type": "object",
				"required": ["key", "label", "replies"],
				"additionalProperties": false,
				"properties": {
					"key": {"type": "string", "pattern": "^[a-z][a-z0-9_-]*$"},
					"label": {"type": "string", "minLength": 1},
					"emoji": {"type": "string"},
					"prompt": {"type": "string"},
					"replies": {
						"type": "object",
						"required": ["statement"],
						"additionalProperties": false,
						"properties": {
							"greeting": {"$ref": "#/definitions/replyList"},
							"question": {"$ref": "#/definitions/replyList"},
							"emotion": {"$ref": "#/definitions/replyList"},
							"statement": {"$ref": "#/definitions/replyList"}
						}
					}
				}
			}
		}
	},
	"definitions": {
		"replyList": {
			"type": "array",
			"minItems": 1,
			"items": {"type": "string", "minLength": 1}
		}
	}
}`

type packFile struct {
	Modes []Mode `yaml:"modes"`
}

// Loader reads YAML mode packs.
type Loader struct {
	validator *schema.Validator
}

func NewLoader() *Loader {
	return &Loader{validator: schema.NewValidator()}
}

// LoadFile parses and validates a single pack.
func (l *Loader) LoadFile(path string) ([]Mode, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return l.Parse(data, path)
}

// Parse validates raw pack bytes. name is only used in error messages.
func (l *Loader) Parse(data []byte, name string) ([]Mode, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("mode pack %s: %w", name, err)
	}
	if err := l.validator.Validate(packSchema, raw); err != nil {
		return nil, fmt.Errorf("mode pack %s: %w", name, err)
	}
	var pack packFile
	if err := yaml.Unmarshal(data, &pack); err != nil {
		return nil, fmt.Errorf("mode pack %s: %w", name, err)
	}
	return pack.Modes, nil
}

// LoadGlob loads every pack matching a doublestar pattern such as
// "~/.config/companion/modes/**/*.yaml", in lexical path order.
func (l *Loader) LoadGlob(pattern string) ([]Mode, []string, error) {
	paths, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, nil, fmt.Errorf("mode pack pattern %q: %w", pattern, err)
	}
	sort.Strings(paths)

	var modes []Mode
	for _, p := range paths {
		m, err := l.LoadFile(p)
		if err != nil {
			return nil, nil, err
		}
		modes = append(modes, m...)
	}
	return modes, paths, nil
}

// Build returns the built-in catalog extended (or overridden) by the packs
// matching pattern. An empty pattern yields the built-ins only.
func Build(pattern string) (*Catalog, []string, error) {
	modes := Builtin()
	var loaded []string
	if pattern != "" {
		extra, paths, err := NewLoader().LoadGlob(pattern)
		if err != nil {
			return nil, nil, err
		}
		modes = append(modes, extra...)
		loaded = paths
	}
	c, err := NewCatalog(modes...)
	if err != nil {
		return nil, nil, err
	}
	return c, loaded, nil
}
