// Package curriculum serves the competency and assessment criteria printed on
// assessment sheets, keyed by level and term.
package curriculum

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/stemsi/rosterdocs/internal/model"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultCatalog []byte

type catalogFile struct {
	Fields map[model.Term]string                           `yaml:"fields"`
	Levels map[model.Level]map[model.Term]model.Curriculum `yaml:"levels"`
}

// Catalog is an immutable level × term curriculum table.
type Catalog struct {
	fields map[model.Term]string
	levels map[model.Level]map[model.Term]model.Curriculum
}

// Default returns the built-in catalog.
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// Load reads a catalog from path, or returns the built-in one when path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read curriculum file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML catalog. The first level of the first term must exist,
// since every lookup falls back to it.
func Parse(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse curriculum: %w", err)
	}
	if _, ok := file.Levels[model.Level1][model.TermFirst]; !ok {
		return nil, fmt.Errorf("parse curriculum: missing level %s for %s", model.Level1, model.TermFirst)
	}
	for level, terms := range file.Levels {
		for term, c := range terms {
			if !level.Valid() || !term.Valid() {
				return nil, fmt.Errorf("parse curriculum: unknown entry %s/%s", level, term)
			}
			if len(c.Criteria) != 4 {
				return nil, fmt.Errorf("parse curriculum: %s/%s has %d criteria, want 4", level, term, len(c.Criteria))
			}
		}
	}
	return &Catalog{fields: file.Fields, levels: file.Levels}, nil
}

// Lookup returns the curriculum for a level and term. Unknown levels resolve to
// level 1 and unknown terms to the first term; Field always follows the requested term
// when one is defined for it.
func (c *Catalog) Lookup(level model.Level, term model.Term) model.Curriculum {
	terms, ok := c.levels[level]
	if !ok {
		terms = c.levels[model.Level1]
	}
	cur, ok := terms[term]
	if !ok {
		cur, ok = terms[model.TermFirst]
		if !ok {
			cur = c.levels[model.Level1][model.TermFirst]
		}
	}

	cur.Criteria = append([]string(nil), cur.Criteria...)
	cur.Field = c.Field(term)
	return cur
}

// Field returns the field worked on during a term.
func (c *Catalog) Field(term model.Term) string {
	if f, ok := c.fields[term]; ok {
		return f
	}
	return c.fields[model.TermFirst]
}
