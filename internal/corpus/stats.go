package corpus

import "github.com/ajitpratap0/kotoba/internal/models"

// Stats summarises a corpus.
type Stats struct {
	Vocabulary      int                       `json:"vocabulary" yaml:"vocabulary"`
	Verbs           int                       `json:"verbs" yaml:"verbs"`
	Adjectives      int                       `json:"adjectives" yaml:"adjectives"`
	Themes          int                       `json:"themes" yaml:"themes"`
	Modifiers       int                       `json:"modifiers" yaml:"modifiers"`
	ByEntity        map[models.EntityType]int `json:"by_entity" yaml:"by_entity"`
	Untyped         int                       `json:"untyped" yaml:"untyped"`
	BySemantic      map[string]int            `json:"by_semantic" yaml:"by_semantic"`
	ByAdjectiveTag  map[string]int            `json:"by_adjective_tag" yaml:"by_adjective_tag"`
	EmptyEntityType []models.EntityType       `json:"empty_entity_types,omitempty" yaml:"empty_entity_types,omitempty"`
}

// Stats counts entries per entity type, verb semantic tag and adjective tag.
// EmptyEntityType lists entity types with no vocabulary, which will be drawn
// through tag fallback or degrade to the NOT FOUND sentinel.
func (c *Corpus) Stats() Stats {
	s := Stats{
		Vocabulary:     len(c.vocabulary),
		Verbs:          len(c.verbs),
		Adjectives:     len(c.adjectives),
		Themes:         len(c.rules),
		Modifiers:      len(c.modifiers),
		ByEntity:       make(map[models.EntityType]int),
		BySemantic:     make(map[string]int),
		ByAdjectiveTag: make(map[string]int),
	}
	for et, idx := range c.byEntity {
		s.ByEntity[et] = len(idx)
	}
	for i := range c.vocabulary {
		if c.vocabulary[i].Entity == "" {
			s.Untyped++
		}
	}
	for i := range c.verbs {
		for _, tag := range c.verbs[i].Semantic {
			s.BySemantic[tag]++
		}
	}
	for i := range c.adjectives {
		for _, tag := range c.adjectives[i].Tags {
			s.ByAdjectiveTag[tag]++
		}
	}
	for _, et := range models.ValidEntityTypes {
		if s.ByEntity[et] == 0 {
			s.EmptyEntityType = append(s.EmptyEntityType, et)
		}
	}
	return s
}
