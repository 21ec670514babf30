// Package coherence is the rule-based pass/fail validator run on assembled
// sentences. It is independent of the generation-time scores, so an unlikely
// combination the selector happened to draw can still be rejected here.
package coherence

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/ajitpratap0/kotoba/internal/models"
	"github.com/ajitpratap0/kotoba/internal/semantic"
	"github.com/ajitpratap0/kotoba/pkg/gloss"
)

// Result is the outcome of a check. Passed is true iff Issues is empty.
type Result struct {
	Passed bool     `json:"passed" yaml:"passed"`
	Issues []string `json:"issues" yaml:"issues"`
}

// Checker validates sentences against Rules and a semantic model.
type Checker struct {
	model  *semantic.Model
	rules  Rules
	logger *slog.Logger

	structural map[models.RelationshipType]structuralCheck
}

// structuralCheck returns the issues of one relationship, if any.
type structuralCheck func(c *Checker, p parts) []string

// NewChecker creates a checker.
func NewChecker(m *semantic.Model, rules Rules, logger *slog.Logger) *Checker {
	return &Checker{
		model:  m,
		rules:  rules,
		logger: logger,
		structural: map[models.RelationshipType]structuralCheck{
			models.RelationshipOwnership:   (*Checker).checkOwnership,
			models.RelationshipAction:      (*Checker).checkAction,
			models.RelationshipLocation:    (*Checker).checkLocation,
			models.RelationshipDescription: (*Checker).checkDescription,
			models.RelationshipAttribution: (*Checker).checkDescription,
			models.RelationshipIdentity:    (*Checker).checkIdentity,
		},
	}
}

// CheckCoherence checks s against the default model and rules.
func CheckCoherence(s models.Sentence) Result {
	return NewChecker(semantic.Default(), DefaultRules(), slog.Default()).Check(s)
}

// Check runs every check and collects all issues. It never stops at the
// first failure and does not modify s. A sentence without a relationship is
// checked under the one its structure expresses.
func (c *Checker) Check(s models.Sentence) Result {
	p := splitParts(s)
	rel := s.Relationship
	if rel == "" {
		rel = semantic.RelationshipForStructure(s.Structure)
	}

	var issues []string
	if msg, ok := sentinelIssue(s, p); ok {
		issues = append(issues, msg)
	}
	if check, ok := c.structural[rel]; ok {
		issues = append(issues, check(c, p)...)
	}
	if msg, ok := c.domainIssue(p); ok {
		issues = append(issues, msg)
	}
	issues = append(issues, c.contextualIssues(rel, p)...)

	if len(issues) > 0 {
		c.logger.Debug("coherence check failed", "structure", s.Structure, "relationship", rel, "issues", len(issues))
	}
	return Result{Passed: len(issues) == 0, Issues: nonNil(issues)}
}

// parts is a sentence split by role, in slot order. Components whose entry
// is absent (as can happen with decoded input) count as missing.
type parts struct {
	structure string
	filled    []models.NamedComponent
	missing   []string
	entities  []models.NamedComponent
	verb      *models.NamedComponent
	adjective *models.NamedComponent
	byName    map[string]models.Component
}

func splitParts(s models.Sentence) parts {
	ordered := s.OrderedComponents()
	p := parts{structure: s.Structure, byName: s.Components, filled: make([]models.NamedComponent, 0, len(ordered))}
	for _, nc := range ordered {
		if !complete(nc.Component) {
			p.missing = append(p.missing, nc.Slot)
			continue
		}
		p.filled = append(p.filled, nc)
		switch nc.Kind {
		case models.ComponentVocabulary:
			p.entities = append(p.entities, nc)
		case models.ComponentVerb:
			if p.verb == nil {
				p.verb = &p.filled[len(p.filled)-1]
			}
		case models.ComponentAdjective:
			if p.adjective == nil {
				p.adjective = &p.filled[len(p.filled)-1]
			}
		}
	}
	return p
}

func complete(c models.Component) bool {
	switch c.Kind {
	case models.ComponentVocabulary:
		return c.Vocabulary != nil
	case models.ComponentVerb:
		return c.Verb != nil
	case models.ComponentAdjective:
		return c.Adjective != nil
	}
	return false
}

// head returns the vocabulary component a verb or adjective depends on,
// falling back to the first entity.
func (p parts) head(dep *models.NamedComponent) (models.Component, bool) {
	if dep != nil && dep.DependsOn != "" {
		if c, ok := p.byName[dep.DependsOn]; ok && c.Kind == models.ComponentVocabulary && c.Vocabulary != nil {
			return c, true
		}
	}
	if len(p.entities) > 0 {
		return p.entities[0].Component, true
	}
	return models.Component{}, false
}

func sentinelIssue(s models.Sentence, p parts) (string, bool) {
	if len(p.missing) > 0 {
		return fmt.Sprintf("missing vocabulary: no corpus entry for slot(s) %s", strings.Join(p.missing, ", ")), true
	}
	if strings.Contains(s.Japanese, models.NotFound) || strings.Contains(s.English, models.NotFound) {
		return "missing vocabulary: sentence contains a " + models.NotFound + " placeholder", true
	}
	return "", false
}

func (c *Checker) checkOwnership(p parts) []string {
	if len(p.entities) < 2 {
		return nil
	}
	owner, owned := p.entities[0].Entity, p.entities[1].Entity
	if slices.Contains(c.rules.OwnershipAllowed[owner], owned) {
		return nil
	}
	if owner == models.EntityThing && owned == models.EntityThing {
		return []string{"ownership: things don't own other things"}
	}
	return []string{fmt.Sprintf("ownership: a %s cannot own a %s", owner, owned)}
}

func (c *Checker) checkAction(p parts) []string {
	if p.verb == nil {
		return nil
	}
	verb := p.verb.Verb
	head, ok := p.head(p.verb)

	// With an implied actor the slot the verb depends on is its object.
	if actor, implied := semantic.ImplicitActor(p.structure); implied {
		issues := c.actorIssues(actor, nil, verb)
		if ok {
			issues = append(issues, c.objectIssues(head, verb)...)
		}
		return issues
	}
	if !ok {
		return nil
	}
	return c.actorIssues(head.Entity, &head, verb)
}

// actorIssues checks that an actor of type et can perform verb. actor is nil
// when the structure implies the actor.
func (c *Checker) actorIssues(et models.EntityType, actor *models.Component, verb *models.VerbEntry) []string {
	name := string(et)
	if actor != nil {
		name = gloss.Primary(actor.Vocabulary.English)
	}

	switch {
	case et == models.EntityPlace:
		return []string{fmt.Sprintf("action: %q is a place and cannot %s", name, gloss.VerbBase(verb.English))}
	case actor != nil && c.isTimeExpression(*actor):
		return []string{fmt.Sprintf("action: %q is a time expression and cannot act", name)}
	case et == models.EntityPerson, et == models.EntityGroup:
		return nil
	case et == models.EntityAnimal:
		if anyOf(verb.Semantic, c.rules.AnimalActionSemantics) {
			return nil
		}
		return []string{fmt.Sprintf("action: an animal (%q) cannot %s", name, gloss.VerbBase(verb.English))}
	case verb.AcceptsActor(et):
		return nil
	}
	return []string{fmt.Sprintf("action: a %s (%q) cannot %s", et, name, gloss.VerbBase(verb.English))}
}

func (c *Checker) objectIssues(object models.Component, verb *models.VerbEntry) []string {
	if c.isTimeExpression(object) {
		return []string{fmt.Sprintf("action: %q is a time expression and cannot be the object of %s",
			gloss.Primary(object.Vocabulary.English), gloss.VerbBase(verb.English))}
	}
	return nil
}

func (c *Checker) checkLocation(p parts) []string {
	mover, ok := p.head(p.verb)
	if !ok {
		return nil
	}
	name := gloss.Primary(mover.Vocabulary.English)
	switch {
	case mover.Entity == models.EntityPlace:
		return []string{fmt.Sprintf("location: %q is a place and cannot move", name)}
	case c.isTimeExpression(mover):
		return []string{fmt.Sprintf("location: %q is a time expression and cannot move", name)}
	}
	return nil
}

func (c *Checker) checkDescription(p parts) []string {
	if p.adjective == nil {
		return nil
	}
	target, ok := p.head(p.adjective)
	if !ok {
		return nil
	}
	if c.Describes(*p.adjective.Adjective, target.Entity) {
		return nil
	}
	return []string{fmt.Sprintf("description: %q does not describe a %s (%q)",
		gloss.Primary(p.adjective.Adjective.English), target.Entity, gloss.Primary(target.Vocabulary.English))}
}

// Describes reports whether adj can describe an entity of type et. The
// explicit adjective table wins; otherwise the entity's generic adjectives
// and tag categories decide.
func (c *Checker) Describes(adj models.AdjectiveEntry, et models.EntityType) bool {
	keys := gloss.Keys(adj.English)
	for _, k := range keys {
		if allowed, ok := c.rules.AdjectiveEntities[k]; ok {
			return slices.Contains(allowed, et)
		}
	}
	fb := c.rules.EntityAdjectiveFallback[et]
	return anyOf(keys, fb.Adjectives) || anyOf(adj.Tags, fb.Tags)
}

func (c *Checker) checkIdentity(p parts) []string {
	if len(p.entities) < 2 {
		return nil
	}
	a, b := p.entities[0].Entity, p.entities[1].Entity
	if a == b {
		return nil
	}
	for _, pair := range c.rules.IdentityCrossPairs {
		if (pair[0] == a && pair[1] == b) || (pair[0] == b && pair[1] == a) {
			return nil
		}
	}
	return []string{fmt.Sprintf("identity: a %s cannot be a %s", a, b)}
}

func (c *Checker) domainIssue(p parts) (string, bool) {
	var sets [][]models.SemanticDomain
	for _, nc := range p.filled {
		switch nc.Kind {
		case models.ComponentVocabulary:
			sets = append(sets, c.model.Domains(nc.Entity))
		case models.ComponentVerb, models.ComponentAdjective:
			sets = append(sets, c.model.TagDomains(nc.Tags()))
		}
	}
	if len(sets) < 2 {
		return "", false
	}
	for i := range sets {
		for j := i + 1; j < len(sets); j++ {
			if semantic.SharesDomain(sets[i], sets[j]) {
				return "", false
			}
		}
	}
	return "domain: no two components share a semantic domain", true
}

func (c *Checker) contextualIssues(rel models.RelationshipType, p parts) []string {
	var issues []string
	for i := 1; i < len(p.entities); i++ {
		a, b := p.entities[i-1], p.entities[i]
		score := c.model.ContextualAppropriateness(a.Entity, b.Entity, rel)
		if score <= c.rules.ContextualThreshold {
			issues = append(issues, fmt.Sprintf("context: %s %q and %s %q rarely combine as %s (%.2f)",
				a.Entity, gloss.Primary(a.Vocabulary.English), b.Entity, gloss.Primary(b.Vocabulary.English), rel, score))
		}
	}
	return issues
}

func (c *Checker) isTimeExpression(comp models.Component) bool {
	return comp.Entity == models.EntityConcept && comp.Vocabulary.HasTag(c.rules.TimeTags...)
}

func anyOf(have, want []string) bool {
	for _, h := range have {
		if slices.Contains(want, h) {
			return true
		}
	}
	return false
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
