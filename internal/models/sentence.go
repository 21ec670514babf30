package models

import (
	"maps"
	"slices"

	"github.com/ajitpratap0/kotoba/pkg/gloss"
)

// NotFound is the placeholder text rendered for a slot no corpus entry fits.
const NotFound = "NOT FOUND"

// CompatibilityScore is the generation-time fit between two entity types
// under a relationship. Always recomputed, never cached.
type CompatibilityScore struct {
	SemanticMatch             float64 `json:"semantic_match" yaml:"semantic_match"`
	ContextualAppropriateness float64 `json:"contextual_appropriateness" yaml:"contextual_appropriateness"`
	RelationshipFit           float64 `json:"relationship_fit" yaml:"relationship_fit"`
	Overall                   float64 `json:"overall" yaml:"overall"`
}

// Weights of the three sub-scores in Overall.
const (
	WeightSemanticMatch   = 0.4
	WeightContextual      = 0.35
	WeightRelationshipFit = 0.25
)

// NewCompatibilityScore derives Overall from the three sub-scores.
func NewCompatibilityScore(semantic, contextual, fit float64) CompatibilityScore {
	return CompatibilityScore{
		SemanticMatch:             semantic,
		ContextualAppropriateness: contextual,
		RelationshipFit:           fit,
		Overall: WeightSemanticMatch*semantic +
			WeightContextual*contextual +
			WeightRelationshipFit*fit,
	}
}

// ComponentKind says which entry a Component carries.
type ComponentKind string

const (
	ComponentVocabulary ComponentKind = "vocabulary"
	ComponentVerb       ComponentKind = "verb"
	ComponentAdjective  ComponentKind = "adjective"
	ComponentMissing    ComponentKind = "missing"
)

// Component is the value placed in one slot of a sentence. It holds copies
// of corpus entries, never pointers into the shared corpus.
type Component struct {
	Kind ComponentKind `json:"kind" yaml:"kind"`
	// Entity is the type the slot was filled as. For verbs and adjectives
	// it is the entity type of the slot they depend on.
	Entity     EntityType       `json:"entity,omitempty" yaml:"entity,omitempty"`
	DependsOn  string           `json:"depends_on,omitempty" yaml:"depends_on,omitempty"`
	Wanted     ComponentKind    `json:"wanted,omitempty" yaml:"wanted,omitempty"` // set on missing components
	Vocabulary *VocabularyEntry `json:"vocabulary,omitempty" yaml:"vocabulary,omitempty"`
	Verb       *VerbEntry       `json:"verb,omitempty" yaml:"verb,omitempty"`
	Adjective  *AdjectiveEntry  `json:"adjective,omitempty" yaml:"adjective,omitempty"`
}

// VocabularyComponent copies entry into a component filling entity.
func VocabularyComponent(entry VocabularyEntry, entity EntityType) Component {
	entry.Tags = slices.Clone(entry.Tags)
	return Component{Kind: ComponentVocabulary, Entity: entity, Vocabulary: &entry}
}

// VerbComponent copies entry into a component agreeing with the actor slot.
func VerbComponent(entry VerbEntry, actor EntityType, dependsOn string) Component {
	entry.Semantic = slices.Clone(entry.Semantic)
	entry.EntityTags = slices.Clone(entry.EntityTags)
	entry.Conjugations = maps.Clone(entry.Conjugations)
	return Component{Kind: ComponentVerb, Entity: actor, DependsOn: dependsOn, Verb: &entry}
}

// AdjectiveComponent copies entry into a component describing target.
func AdjectiveComponent(entry AdjectiveEntry, target EntityType, dependsOn string) Component {
	entry.Tags = slices.Clone(entry.Tags)
	entry.EntityTags = slices.Clone(entry.EntityTags)
	entry.Conjugations = maps.Clone(entry.Conjugations)
	return Component{Kind: ComponentAdjective, Entity: target, DependsOn: dependsOn, Adjective: &entry}
}

// MissingComponent is the sentinel for a slot no corpus entry satisfied.
func MissingComponent(wanted ComponentKind, entity EntityType, dependsOn string) Component {
	return Component{Kind: ComponentMissing, Wanted: wanted, Entity: entity, DependsOn: dependsOn}
}

// IsMissing reports whether the component is the sentinel.
func (c Component) IsMissing() bool {
	return c.Kind == ComponentMissing
}

// Japanese renders the component in its plain form.
func (c Component) Japanese() string {
	switch c.Kind {
	case ComponentVocabulary:
		return c.Vocabulary.Japanese()
	case ComponentVerb:
		return c.Verb.Dictionary()
	case ComponentAdjective:
		return c.Adjective.Dictionary()
	}
	return NotFound
}

// English renders the primary gloss of the component.
func (c Component) English() string {
	switch c.Kind {
	case ComponentVocabulary:
		return gloss.Primary(c.Vocabulary.English)
	case ComponentVerb:
		return gloss.VerbBase(c.Verb.English)
	case ComponentAdjective:
		return gloss.Primary(c.Adjective.English)
	}
	return NotFound
}

// Tags returns the free-form or semantic tags of the carried entry.
func (c Component) Tags() []string {
	switch c.Kind {
	case ComponentVocabulary:
		return c.Vocabulary.Tags
	case ComponentVerb:
		return c.Verb.Semantic
	case ComponentAdjective:
		return c.Adjective.Tags
	}
	return nil
}

// SlotDebug records how one slot was filled.
type SlotDebug struct {
	ChosenType EntityType             `json:"chosen_type,omitempty" yaml:"chosen_type,omitempty"`
	TypeScores map[EntityType]float64 `json:"type_scores,omitempty" yaml:"type_scores,omitempty"`
	Candidates int                    `json:"candidates" yaml:"candidates"`
	Score      float64                `json:"score,omitempty" yaml:"score,omitempty"`
}

// DebugInfo is the optional per-slot scoring trace.
type DebugInfo struct {
	Slots map[string]SlotDebug `json:"slots" yaml:"slots"`
}

// Sentence is the transient result of one generation call.
type Sentence struct {
	ID              string               `json:"id" yaml:"id"`
	Japanese        string               `json:"japanese" yaml:"japanese"`
	English         string               `json:"english" yaml:"english"`
	Theme           string               `json:"theme" yaml:"theme"`
	Structure       string               `json:"structure" yaml:"structure"`
	Relationship    RelationshipType     `json:"relationship" yaml:"relationship"`
	SlotOrder       []string             `json:"slot_order" yaml:"slot_order"`
	Components      map[string]Component `json:"components" yaml:"components"`
	CoherencePassed bool                 `json:"coherence_passed" yaml:"coherence_passed"`
	CoherenceIssues []string             `json:"coherence_issues" yaml:"coherence_issues"`
	Debug           *DebugInfo           `json:"debug,omitempty" yaml:"debug,omitempty"`
}

// OrderedComponents returns components in slot order, followed by any
// components SlotOrder does not name, sorted by slot name.
func (s Sentence) OrderedComponents() []NamedComponent {
	out := make([]NamedComponent, 0, len(s.Components))
	listed := make(map[string]bool, len(s.SlotOrder))
	for _, name := range s.SlotOrder {
		if c, ok := s.Components[name]; ok && !listed[name] {
			listed[name] = true
			out = append(out, NamedComponent{Slot: name, Component: c})
		}
	}
	for _, name := range slices.Sorted(maps.Keys(s.Components)) {
		if !listed[name] {
			out = append(out, NamedComponent{Slot: name, Component: s.Components[name]})
		}
	}
	return out
}

// NamedComponent pairs a component with its slot name.
type NamedComponent struct {
	Slot string
	Component
}
