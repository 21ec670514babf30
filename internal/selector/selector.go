// Package selector chooses the concrete corpus entry for each template slot,
// favouring semantically compatible combinations without guaranteeing them.
package selector

import (
	"cmp"
	"log/slog"
	"math"
	"slices"

	"github.com/ajitpratap0/kotoba/internal/corpus"
	"github.com/ajitpratap0/kotoba/internal/models"
	"github.com/ajitpratap0/kotoba/internal/semantic"
)

const (
	// topEntityTypes is how many of the best-scoring entity types stay in
	// the weighted draw.
	topEntityTypes = 3
	minTypeWeight  = 0.1

	entityTagWeight   = 0.4
	domainWeight      = 0.3
	relationTagWeight = 0.3

	// Candidates must score strictly above these floors.
	verbFloor      = 0.2
	adjectiveFloor = 0.3
)

// Selector draws slot fillers from a corpus.
type Selector struct {
	corpus *corpus.Corpus
	model  *semantic.Model
	logger *slog.Logger
}

// New creates a selector over c scored by m.
func New(c *corpus.Corpus, m *semantic.Model, logger *slog.Logger) *Selector {
	return &Selector{corpus: c, model: m, logger: logger}
}

// ChooseEntityType picks which of the allowed entity types a slot is filled
// as. With nothing filled yet the choice is uniform. Otherwise each type is
// scored by its average overall compatibility with the filled types (filled
// type first, since earlier slots lead the relationship) and one
// of the three best is drawn, weighted by max(0.1, score). The returned map
// holds every allowed type's score and is nil for uniform choices.
func (s *Selector) ChooseEntityType(rng Rand, allowed, filled []models.EntityType, rel models.RelationshipType) (models.EntityType, map[models.EntityType]float64) {
	switch {
	case len(allowed) == 0:
		return "", nil
	case len(allowed) == 1:
		return allowed[0], nil
	case len(filled) == 0:
		return allowed[rng.IntN(len(allowed))], nil
	}

	type scored struct {
		entity models.EntityType
		score  float64
	}
	ranked := make([]scored, 0, len(allowed))
	scores := make(map[models.EntityType]float64, len(allowed))
	for _, et := range allowed {
		total := 0.0
		for _, other := range filled {
			total += s.model.Score(other, et, rel).Overall
		}
		avg := total / float64(len(filled))
		scores[et] = avg
		ranked = append(ranked, scored{entity: et, score: avg})
	}
	slices.SortStableFunc(ranked, func(a, b scored) int {
		return cmp.Compare(b.score, a.score)
	})
	if len(ranked) > topEntityTypes {
		ranked = ranked[:topEntityTypes]
	}

	weights := make([]float64, len(ranked))
	for i, r := range ranked {
		weights[i] = math.Max(minTypeWeight, r.score)
	}
	chosen := ranked[WeightedIndex(rng, weights)].entity
	s.logger.Debug("chose entity type", "entity", chosen, "relationship", rel, "filled", filled)
	return chosen, scores
}

// DrawVocabulary picks a vocabulary entry for et uniformly at random. When
// no entry carries et, entries tagged with one of et's fallback tags stand
// in. With no candidate at all the sentinel is returned.
func (s *Selector) DrawVocabulary(rng Rand, et models.EntityType) (models.Component, int) {
	candidates := s.corpus.VocabularyFor(et)
	if len(candidates) == 0 {
		candidates = s.corpus.VocabularyTagged(s.model.FallbackTags(et))
		if len(candidates) > 0 {
			s.logger.Debug("vocabulary tag fallback", "entity", et, "candidates", len(candidates))
		}
	}
	if len(candidates) == 0 {
		s.logger.Warn("no vocabulary for entity type", "entity", et)
		return models.MissingComponent(models.ComponentVocabulary, et, ""), 0
	}
	entry := candidates[rng.IntN(len(candidates))]
	return models.VocabularyComponent(entry, et), len(candidates)
}

// DrawVerb picks a verb for an actor of type actor, weighted by ScoreVerb.
func (s *Selector) DrawVerb(rng Rand, actor models.EntityType, dependsOn string, rel models.RelationshipType) (models.Component, models.SlotDebug) {
	verbs := s.corpus.Verbs()
	var (
		idx     []int
		weights []float64
	)
	for i := range verbs {
		if score := s.ScoreVerb(verbs[i], actor, rel); score > verbFloor {
			idx = append(idx, i)
			weights = append(weights, score)
		}
	}
	debug := models.SlotDebug{ChosenType: actor, Candidates: len(idx)}
	if len(idx) == 0 {
		s.logger.Warn("no verb fits actor", "actor", actor, "relationship", rel)
		return models.MissingComponent(models.ComponentVerb, actor, dependsOn), debug
	}
	pick := WeightedIndex(rng, weights)
	debug.Score = weights[pick]
	return models.VerbComponent(verbs[idx[pick]], actor, dependsOn), debug
}

// DrawAdjective picks an adjective for a target of type target, weighted by
// ScoreAdjective.
func (s *Selector) DrawAdjective(rng Rand, target models.EntityType, dependsOn string, rel models.RelationshipType) (models.Component, models.SlotDebug) {
	adjectives := s.corpus.Adjectives()
	var (
		idx     []int
		weights []float64
	)
	for i := range adjectives {
		if score := s.ScoreAdjective(adjectives[i], target, rel); score > adjectiveFloor {
			idx = append(idx, i)
			weights = append(weights, score)
		}
	}
	debug := models.SlotDebug{ChosenType: target, Candidates: len(idx)}
	if len(idx) == 0 {
		s.logger.Warn("no adjective fits target", "target", target, "relationship", rel)
		return models.MissingComponent(models.ComponentAdjective, target, dependsOn), debug
	}
	pick := WeightedIndex(rng, weights)
	debug.Score = weights[pick]
	return models.AdjectiveComponent(adjectives[idx[pick]], target, dependsOn), debug
}

// ScoreVerb rates a verb for an actor: 0.4 if the verb lists the actor type,
// plus 0.3 times the share of the verb's domains the actor shares, plus 0.3
// times the share of its semantic tags that suit the relationship.
func (s *Selector) ScoreVerb(v models.VerbEntry, actor models.EntityType, rel models.RelationshipType) float64 {
	return s.score(v.AcceptsActor(actor), v.Semantic, actor, s.model.VerbTags(rel))
}

// ScoreAdjective rates an adjective for a target the same way ScoreVerb does,
// using the adjective's free-form tags.
func (s *Selector) ScoreAdjective(a models.AdjectiveEntry, target models.EntityType, rel models.RelationshipType) float64 {
	return s.score(a.AcceptsEntity(target), a.Tags, target, s.model.AdjectiveTags(rel))
}

func (s *Selector) score(listed bool, tags []string, et models.EntityType, relTags []string) float64 {
	score := 0.0
	if listed {
		score += entityTagWeight
	}
	score += domainWeight * semantic.OverlapRatio(s.model.TagDomains(tags), s.model.Domains(et))
	score += relationTagWeight * semantic.OverlapRatio(tags, relTags)
	return score
}
