// Package corpus loads the read-only vocabulary, verb, adjective and grammar
// rule collections the generator draws from.
package corpus

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"github.com/ajitpratap0/kotoba/internal/models"
)

// File names inside a corpus directory.
const (
	VocabularyFile = "vocab.json"
	VerbsFile      = "verbs.json"
	AdjectivesFile = "adjectives.json"
	RulesFile      = "rules.json"
	ModifiersFile  = "modifiers.json"
	EntitiesFile   = "entities.json"
)

// Corpus is the loaded, validated data set. It is never modified after
// construction and may be shared across goroutines.
type Corpus struct {
	dir        string
	vocabulary []models.VocabularyEntry
	verbs      []models.VerbEntry
	adjectives []models.AdjectiveEntry
	rules      map[string]models.GrammarRule
	modifiers  map[string]models.Modifier
	entities   map[models.EntityType]models.EntityConfig

	byEntity map[models.EntityType][]int
	themes   []string
}

// Data is the raw content of a corpus before validation.
type Data struct {
	Vocabulary []models.VocabularyEntry
	Verbs      []models.VerbEntry
	Adjectives []models.AdjectiveEntry
	Rules      map[string]models.GrammarRule
	Modifiers  map[string]models.Modifier
	Entities   map[models.EntityType]models.EntityConfig
}

// Load reads a corpus directory. vocab.json, verbs.json, adjectives.json and
// rules.json are required; modifiers.json and entities.json are optional.
func Load(dir string) (*Corpus, error) {
	var d Data
	required := []struct {
		name string
		dst  any
	}{
		{VocabularyFile, &d.Vocabulary},
		{VerbsFile, &d.Verbs},
		{AdjectivesFile, &d.Adjectives},
		{RulesFile, &d.Rules},
	}
	for _, f := range required {
		if err := readJSON(filepath.Join(dir, f.name), f.dst, true); err != nil {
			return nil, err
		}
	}
	if err := readJSON(filepath.Join(dir, ModifiersFile), &d.Modifiers, false); err != nil {
		return nil, err
	}
	if err := readJSON(filepath.Join(dir, EntitiesFile), &d.Entities, false); err != nil {
		return nil, err
	}

	c, err := New(d)
	if err != nil {
		return nil, err
	}
	c.dir = dir
	return c, nil
}

// New validates d and builds the lookup indexes.
func New(d Data) (*Corpus, error) {
	v := newValidator()

	for i := range d.Vocabulary {
		if err := v.Struct(d.Vocabulary[i]); err != nil {
			return nil, fmt.Errorf("%w: %s[%d]: %v", ErrMalformedCorpus, VocabularyFile, i, err)
		}
	}
	for i := range d.Verbs {
		if err := v.Struct(d.Verbs[i]); err != nil {
			return nil, fmt.Errorf("%w: %s[%d]: %v", ErrMalformedCorpus, VerbsFile, i, err)
		}
	}
	for i := range d.Adjectives {
		if err := v.Struct(d.Adjectives[i]); err != nil {
			return nil, fmt.Errorf("%w: %s[%d]: %v", ErrMalformedCorpus, AdjectivesFile, i, err)
		}
	}

	if len(d.Rules) == 0 {
		return nil, fmt.Errorf("%w: %s defines no themes", ErrMalformedCorpus, RulesFile)
	}
	rules := make(map[string]models.GrammarRule, len(d.Rules))
	for name, rule := range d.Rules {
		rule.Name = name
		if err := validateRule(v, rule); err != nil {
			return nil, fmt.Errorf("%w: %s[%q]: %v", ErrMalformedCorpus, RulesFile, name, err)
		}
		rules[name] = rule
	}

	for name, m := range d.Modifiers {
		if err := v.Struct(m); err != nil {
			return nil, fmt.Errorf("%w: %s[%q]: %v", ErrMalformedCorpus, ModifiersFile, name, err)
		}
	}
	for et, cfg := range d.Entities {
		if !et.IsValid() {
			return nil, fmt.Errorf("%w: %s: unknown entity type %q", ErrMalformedCorpus, EntitiesFile, et)
		}
		if err := v.Struct(cfg); err != nil {
			return nil, fmt.Errorf("%w: %s[%q]: %v", ErrMalformedCorpus, EntitiesFile, et, err)
		}
	}
	for name, rule := range rules {
		for _, ext := range rule.Extensions {
			if _, ok := d.Modifiers[ext]; !ok {
				return nil, fmt.Errorf("%w: %s[%q]: unknown modifier %q", ErrMalformedCorpus, RulesFile, name, ext)
			}
		}
	}

	c := &Corpus{
		vocabulary: d.Vocabulary,
		verbs:      d.Verbs,
		adjectives: d.Adjectives,
		rules:      rules,
		modifiers:  d.Modifiers,
		entities:   d.Entities,
		byEntity:   make(map[models.EntityType][]int),
		themes:     slices.Sorted(maps.Keys(rules)),
	}
	for i := range c.vocabulary {
		if et := c.vocabulary[i].Entity; et != "" {
			c.byEntity[et] = append(c.byEntity[et], i)
		}
	}
	return c, nil
}

// Dir is the directory the corpus was loaded from, empty for in-memory corpora.
func (c *Corpus) Dir() string { return c.dir }

// Vocabulary returns all vocabulary entries. The slice must not be modified.
func (c *Corpus) Vocabulary() []models.VocabularyEntry { return c.vocabulary }

// Verbs returns all verb entries. The slice must not be modified.
func (c *Corpus) Verbs() []models.VerbEntry { return c.verbs }

// Adjectives returns all adjective entries. The slice must not be modified.
func (c *Corpus) Adjectives() []models.AdjectiveEntry { return c.adjectives }

// Entities returns the per-entity overrides from entities.json.
func (c *Corpus) Entities() map[models.EntityType]models.EntityConfig { return c.entities }

// ThemeNames returns every theme name, sorted.
func (c *Corpus) ThemeNames() []string { return slices.Clone(c.themes) }

// Rule returns the grammar rule for a theme.
func (c *Corpus) Rule(theme string) (models.GrammarRule, bool) {
	r, ok := c.rules[theme]
	return r, ok
}

// Modifier returns the named sentence extension.
func (c *Corpus) Modifier(name string) (models.Modifier, bool) {
	m, ok := c.modifiers[name]
	return m, ok
}

// VocabularyFor returns the entries tagged with the entity type, in corpus order.
func (c *Corpus) VocabularyFor(et models.EntityType) []models.VocabularyEntry {
	idx := c.byEntity[et]
	out := make([]models.VocabularyEntry, len(idx))
	for i, j := range idx {
		out[i] = c.vocabulary[j]
	}
	return out
}

// VocabularyTagged returns the entries carrying any of the tags, in corpus order.
func (c *Corpus) VocabularyTagged(tags []string) []models.VocabularyEntry {
	if len(tags) == 0 {
		return nil
	}
	var out []models.VocabularyEntry
	for i := range c.vocabulary {
		if c.vocabulary[i].HasTag(tags...) {
			out = append(out, c.vocabulary[i])
		}
	}
	return out
}

func readJSON(path string, dst any, required bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			if !required {
				return nil
			}
			return fmt.Errorf("%w: %s", ErrMissingFile, path)
		}
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrMalformedCorpus, filepath.Base(path), err)
	}
	return nil
}
