// Package semantic scores how well two entity types fit together under a
// grammatical relationship. All functions are pure over the model's tables.
package semantic

import (
	"github.com/ajitpratap0/kotoba/internal/models"
)

const (
	// minSemanticMatch floors the derived pair score so no pair is rejected
	// at generation time.
	minSemanticMatch = 0.3

	contextualExplicit     = 0.9
	contextualSourceKnown  = 0.4
	contextualSourceAbsent = 0.3

	unknownRelationshipFit = 0.5
	unlistedEntityFit      = 0.3

	fitWeightA = 0.6
	fitWeightB = 0.4
)

// Model evaluates compatibility against a fixed set of tables. A Model is
// safe for concurrent use because it is never modified after NewModel.
type Model struct {
	t Tables
}

// NewModel builds a model over the given tables.
func NewModel(t Tables) *Model {
	return &Model{t: t}
}

// Default returns a model over DefaultTables.
func Default() *Model {
	return NewModel(DefaultTables())
}

// Tables returns the tables the model was built from. Callers must not
// modify them.
func (m *Model) Tables() Tables {
	return m.t
}

// SemanticCompatibility looks the pair up in the explicit table in either
// order, otherwise scores domain overlap (Jaccard) floored at 0.3.
func (m *Model) SemanticCompatibility(a, b models.EntityType) float64 {
	if v, ok := m.t.Compatibility[pairOf(a, b)]; ok {
		return v
	}
	da, db := m.t.EntityDomains[a], m.t.EntityDomains[b]
	score := jaccard(da, db)
	if score < minSemanticMatch {
		return minSemanticMatch
	}
	return score
}

// ContextualAppropriateness scores whether b is an expected target of a
// under rel.
func (m *Model) ContextualAppropriateness(a, b models.EntityType, rel models.RelationshipType) float64 {
	targets, ok := m.t.Contextual[rel][a]
	if !ok {
		return contextualSourceAbsent
	}
	for _, t := range targets {
		if t == b {
			return contextualExplicit
		}
	}
	return contextualSourceKnown
}

// RelationshipFit combines both entities' preference weights for rel.
func (m *Model) RelationshipFit(a, b models.EntityType, rel models.RelationshipType) float64 {
	weights, ok := m.t.RelationshipWeights[rel]
	if !ok {
		return unknownRelationshipFit
	}
	return fitWeightA*weightOf(weights, a) + fitWeightB*weightOf(weights, b)
}

// Score returns the combined compatibility of a and b under rel.
func (m *Model) Score(a, b models.EntityType, rel models.RelationshipType) models.CompatibilityScore {
	return models.NewCompatibilityScore(
		m.SemanticCompatibility(a, b),
		m.ContextualAppropriateness(a, b, rel),
		m.RelationshipFit(a, b, rel),
	)
}

// Domains returns the ordered domains of an entity type.
func (m *Model) Domains(et models.EntityType) []models.SemanticDomain {
	return m.t.EntityDomains[et]
}

// TagDomains returns the distinct domains of the given tags, in first-seen order.
func (m *Model) TagDomains(tags []string) []models.SemanticDomain {
	var out []models.SemanticDomain
	seen := make(map[models.SemanticDomain]bool)
	for _, tag := range tags {
		for _, d := range m.t.TagDomains[tag] {
			if !seen[d] {
				seen[d] = true
				out = append(out, d)
			}
		}
	}
	return out
}

// FallbackTags returns the vocabulary tags that stand in for an entity type.
func (m *Model) FallbackTags(et models.EntityType) []string {
	return m.t.FallbackTags[et]
}

// VerbTags returns the verb semantic tags fitting rel.
func (m *Model) VerbTags(rel models.RelationshipType) []string {
	return m.t.VerbRelationshipTags[rel]
}

// AdjectiveTags returns the adjective tags fitting rel.
func (m *Model) AdjectiveTags(rel models.RelationshipType) []string {
	return m.t.AdjectiveRelationshipTags[rel]
}

// SharesDomain reports whether the two domain sets intersect.
func SharesDomain(a, b []models.SemanticDomain) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}

// OverlapRatio is the fraction of have that also appears in want. Empty have
// scores 0.
func OverlapRatio[T comparable](have, want []T) float64 {
	if len(have) == 0 {
		return 0
	}
	n := 0
	for _, h := range have {
		for _, w := range want {
			if h == w {
				n++
				break
			}
		}
	}
	return float64(n) / float64(len(have))
}

func weightOf(weights map[models.EntityType]float64, et models.EntityType) float64 {
	if w, ok := weights[et]; ok {
		return w
	}
	return unlistedEntityFit
}

func jaccard(a, b []models.SemanticDomain) float64 {
	union := make(map[models.SemanticDomain]struct{}, len(a)+len(b))
	inA := make(map[models.SemanticDomain]struct{}, len(a))
	for _, d := range a {
		union[d] = struct{}{}
		inA[d] = struct{}{}
	}
	inter := 0
	counted := make(map[models.SemanticDomain]struct{}, len(b))
	for _, d := range b {
		union[d] = struct{}{}
		if _, ok := inA[d]; ok {
			if _, dup := counted[d]; !dup {
				inter++
				counted[d] = struct{}{}
			}
		}
	}
	if len(union) == 0 {
		return 0
	}
	return float64(inter) / float64(len(union))
}
