// Package generator assembles sentences: it resolves a theme, fills every
// slot through the selector, renders both languages and runs the coherence
// check.
package generator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"runtime"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/ajitpratap0/kotoba/internal/coherence"
	"github.com/ajitpratap0/kotoba/internal/corpus"
	"github.com/ajitpratap0/kotoba/internal/metrics"
	"github.com/ajitpratap0/kotoba/internal/models"
	"github.com/ajitpratap0/kotoba/internal/selector"
	"github.com/ajitpratap0/kotoba/internal/semantic"
)

var (
	// ErrUnknownTheme is returned when a named theme is not in the corpus.
	ErrUnknownTheme = errors.New("unknown theme")
	// ErrNoCoherentSentence is returned by GenerateCoherent when every
	// attempt failed the coherence check.
	ErrNoCoherentSentence = errors.New("no coherent sentence")
)

// modifierSeparator joins a prefixed Japanese modifier to the sentence.
const modifierSeparator = "、"

// Options tunes a single generation call.
type Options struct {
	// Debug attaches per-slot scoring details to the sentence.
	Debug bool
}

// Generator produces sentences from one corpus snapshot. It holds no mutable
// state, so one Generator may serve concurrent calls as long as each call
// brings its own Rand.
type Generator struct {
	corpus   *corpus.Corpus
	model    *semantic.Model
	selector *selector.Selector
	checker  *coherence.Checker
	logger   *slog.Logger
}

// New creates a generator over c. The corpus's entities.json overrides are
// applied on top of the default semantic tables.
func New(c *corpus.Corpus, logger *slog.Logger) *Generator {
	m := semantic.NewModel(semantic.DefaultTables().WithEntityConfig(c.Entities()))
	return &Generator{
		corpus:   c,
		model:    m,
		selector: selector.New(c, m, logger),
		checker:  coherence.NewChecker(m, coherence.DefaultRules(), logger),
		logger:   logger,
	}
}

// Corpus returns the snapshot the generator draws from.
func (g *Generator) Corpus() *corpus.Corpus { return g.corpus }

// Model returns the semantic model used for scoring.
func (g *Generator) Model() *semantic.Model { return g.model }

// Checker returns the coherence checker run on every sentence.
func (g *Generator) Checker() *coherence.Checker { return g.checker }

// Generate builds one sentence. An empty theme picks one uniformly at random.
// Missing vocabulary never fails the call: the slot holds the NOT FOUND
// sentinel and the coherence result reports it.
func (g *Generator) Generate(theme string, rng selector.Rand, opts Options) (models.Sentence, error) {
	name, rule, err := g.selectTheme(theme, rng)
	if err != nil {
		return models.Sentence{}, err
	}
	rel := semantic.RelationshipForStructure(rule.Structure)

	s := models.Sentence{
		ID:           uuid.New().String(),
		Theme:        name,
		Structure:    rule.Structure,
		Relationship: rel,
		SlotOrder:    make([]string, 0, len(rule.Slots)),
		Components:   make(map[string]models.Component, len(rule.Slots)),
	}
	for _, slot := range rule.Slots {
		s.SlotOrder = append(s.SlotOrder, slot.Name)
	}

	var debug *models.DebugInfo
	if opts.Debug {
		debug = &models.DebugInfo{Slots: make(map[string]models.SlotDebug, len(rule.Slots))}
	}
	g.fillSlots(rule, rel, rng, s.Components, debug)
	s.Debug = debug

	s.Japanese, s.English = render(rule.Structure, s).finish()
	g.applyModifiers(&s, rule, rng)

	result := g.checker.Check(s)
	s.CoherencePassed = result.Passed
	s.CoherenceIssues = result.Issues

	metrics.Inc(metrics.SentencesGenerated, name)
	if !result.Passed {
		metrics.Inc(metrics.CoherenceFailures, string(rel))
	}
	g.logger.Debug("generated sentence",
		"theme", name, "structure", rule.Structure, "japanese", s.Japanese,
		"coherent", s.CoherencePassed, "issues", len(s.CoherenceIssues))
	return s, nil
}

// GenerateCoherent retries Generate until a sentence passes the coherence
// check, up to maxAttempts times. When none passes, the last attempt is
// returned together with ErrNoCoherentSentence.
func (g *Generator) GenerateCoherent(theme string, rng selector.Rand, opts Options, maxAttempts int) (models.Sentence, error) {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	var last models.Sentence
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		s, err := g.Generate(theme, rng, opts)
		if err != nil {
			return models.Sentence{}, err
		}
		if s.CoherencePassed {
			if attempt > 1 {
				g.logger.Debug("coherent sentence after retries", "theme", s.Theme, "attempts", attempt)
			}
			return s, nil
		}
		last = s
	}
	return last, fmt.Errorf("%w after %d attempts", ErrNoCoherentSentence, maxAttempts)
}

// GenerateBatch generates n sentences in parallel. Sentence i uses its own
// PCG stream seeded with (seed, i), so the batch is reproducible regardless
// of scheduling. Results are in index order.
func (g *Generator) GenerateBatch(ctx context.Context, n int, theme string, seed uint64, opts Options) ([]models.Sentence, error) {
	if n <= 0 {
		return []models.Sentence{}, nil
	}
	if theme != "" {
		if _, ok := g.corpus.Rule(theme); !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownTheme, theme)
		}
	}

	results := make([]models.Sentence, n)
	eg, egctx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.GOMAXPROCS(0))
	for i := range n {
		eg.Go(func() error {
			if err := egctx.Err(); err != nil {
				return err
			}
			rng := rand.New(rand.NewPCG(seed, uint64(i)))
			s, err := g.Generate(theme, rng, opts)
			if err != nil {
				return fmt.Errorf("sentence %d: %w", i, err)
			}
			results[i] = s
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("generating batch: %w", err)
	}
	return results, nil
}

func (g *Generator) selectTheme(theme string, rng selector.Rand) (string, models.GrammarRule, error) {
	if theme == "" {
		names := g.corpus.ThemeNames()
		theme = names[rng.IntN(len(names))]
	}
	rule, ok := g.corpus.Rule(theme)
	if !ok {
		return "", models.GrammarRule{}, fmt.Errorf("%w: %q", ErrUnknownTheme, theme)
	}
	return theme, rule, nil
}

// fillSlots fills independent slots in declared order, then dependency slots
// in declared order. There is no backtracking. A verb agrees with the slot it
// depends on unless the structure implies its actor.
func (g *Generator) fillSlots(rule models.GrammarRule, rel models.RelationshipType, rng selector.Rand, out map[string]models.Component, debug *models.DebugInfo) {
	var filled []models.EntityType
	for _, slot := range rule.Slots {
		if slot.IsDependent() {
			continue
		}
		et, scores := g.selector.ChooseEntityType(rng, slot.Entities, filled, rel)
		comp, candidates := g.selector.DrawVocabulary(rng, et)
		out[slot.Name] = comp
		filled = append(filled, et)
		g.noteSentinel(comp, slot.Name)
		if debug != nil {
			debug.Slots[slot.Name] = models.SlotDebug{ChosenType: et, TypeScores: scores, Candidates: candidates}
		}
	}

	implicitActor, hasActor := semantic.ImplicitActor(rule.Structure)
	for _, slot := range rule.Slots {
		if !slot.IsDependent() {
			continue
		}
		dep := slot.Dependency
		head := out[dep.DependsOn].Entity
		if hasActor && dep.Kind == models.DependencyVerb {
			head = implicitActor
		}

		var (
			comp models.Component
			sd   models.SlotDebug
		)
		switch dep.Kind {
		case models.DependencyVerb:
			comp, sd = g.selector.DrawVerb(rng, head, dep.DependsOn, rel)
		case models.DependencyAdjective:
			comp, sd = g.selector.DrawAdjective(rng, head, dep.DependsOn, rel)
		default:
			comp = models.MissingComponent(models.ComponentKind(dep.Kind), head, dep.DependsOn)
		}
		out[slot.Name] = comp
		g.noteSentinel(comp, slot.Name)
		if debug != nil {
			debug.Slots[slot.Name] = sd
		}
	}
}

func (g *Generator) noteSentinel(comp models.Component, slot string) {
	if !comp.IsMissing() {
		return
	}
	metrics.Inc(metrics.SentinelSlots, string(comp.Wanted))
	g.logger.Debug("slot left unfilled", "slot", slot, "wanted", comp.Wanted, "entity", comp.Entity)
}

// applyModifiers applies each of the rule's extensions with its probability:
// the Japanese form is prefixed and the English form appended.
func (g *Generator) applyModifiers(s *models.Sentence, rule models.GrammarRule, rng selector.Rand) {
	for _, ext := range rule.Extensions {
		m, ok := g.corpus.Modifier(ext)
		if !ok || len(m.Forms) == 0 {
			continue
		}
		if rng.Float64() >= m.Probability {
			continue
		}
		form := m.Forms[rng.IntN(len(m.Forms))]
		s.Japanese = form.Japanese + modifierSeparator + s.Japanese
		if form.English != "" {
			s.English = appendEnglish(s.English, form.English)
		}
	}
}

// appendEnglish adds a trailing phrase before any closing period.
func appendEnglish(sentence, phrase string) string {
	if n := len(sentence); n > 0 && sentence[n-1] == '.' {
		return sentence[:n-1] + " " + phrase + "."
	}
	return sentence + " " + phrase
}
