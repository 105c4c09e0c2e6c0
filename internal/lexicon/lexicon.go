// Package lexicon maps message keywords to transaction categories.
//
// The table is data, not code: a default set ships embedded and a
// deployment can replace it with its own JSON file to localize or extend
// the vocabulary without touching the parsers. Keyword order matters:
// inference scans the list top to bottom and the first hit wins, so
// overlapping keywords resolve deterministically.
package lexicon

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

//go:embed lexicon.json
var defaultJSON []byte

// DefaultGlyph is shown for categories without a configured glyph.
const DefaultGlyph = "📝"

// Entry pairs one keyword with the category it signals.
type Entry struct {
	Keyword  string `json:"keyword"`
	Category string `json:"category"`
}

type tableFile struct {
	Keywords       []Entry           `json:"keywords"`
	IncomeKeywords []string          `json:"income_keywords"`
	Glyphs         map[string]string `json:"glyphs"`
}

// Table is an immutable keyword lexicon. Safe for concurrent reads.
type Table struct {
	entries []Entry
	byWord  map[string]string
	income  map[string]struct{}
	glyphs  map[string]string
}

var defaultTable = mustParse(defaultJSON)

// Default returns the embedded lexicon.
func Default() *Table {
	return defaultTable
}

// Load reads a lexicon table from a JSON file.
func Load(path string) (*Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read lexicon file: %w", err)
	}
	t, err := parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse lexicon file %s: %w", path, err)
	}
	return t, nil
}

func mustParse(raw []byte) *Table {
	t, err := parse(raw)
	if err != nil {
		panic("lexicon: embedded table invalid: " + err.Error())
	}
	return t
}

func parse(raw []byte) (*Table, error) {
	var f tableFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, err
	}
	if len(f.Keywords) == 0 {
		return nil, fmt.Errorf("no keywords defined")
	}

	t := &Table{
		entries: f.Keywords,
		byWord:  make(map[string]string, len(f.Keywords)),
		income:  make(map[string]struct{}, len(f.IncomeKeywords)),
		glyphs:  f.Glyphs,
	}
	for _, e := range f.Keywords {
		if e.Keyword == "" || e.Category == "" {
			return nil, fmt.Errorf("entry with empty keyword or category")
		}
		if _, dup := t.byWord[e.Keyword]; dup {
			return nil, fmt.Errorf("duplicate keyword %q", e.Keyword)
		}
		t.byWord[e.Keyword] = e.Category
	}
	for _, k := range f.IncomeKeywords {
		t.income[k] = struct{}{}
	}
	return t, nil
}

// InferCategory returns the category of the first keyword appearing as a
// substring of text, in table order. ok is false when nothing matches.
func (t *Table) InferCategory(text string) (category string, ok bool) {
	for _, e := range t.entries {
		if strings.Contains(text, e.Keyword) {
			return e.Category, true
		}
	}
	return "", false
}

// Lookup resolves an exact keyword to its category.
func (t *Table) Lookup(keyword string) (category string, ok bool) {
	category, ok = t.byWord[keyword]
	return category, ok
}

// IsIncomeKeyword reports whether the keyword signals money coming in.
func (t *Table) IsIncomeKeyword(keyword string) bool {
	_, ok := t.income[keyword]
	return ok
}

// Glyph returns the display glyph for a category, falling back to
// DefaultGlyph for unmapped categories.
func (t *Table) Glyph(category string) string {
	if g, ok := t.glyphs[category]; ok {
		return g
	}
	return DefaultGlyph
}

// Entries returns the table in scan order. The slice must not be mutated.
func (t *Table) Entries() []Entry {
	return t.entries
}
