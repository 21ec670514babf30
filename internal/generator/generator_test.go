package generator_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math/rand/v2"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/kotoba/internal/corpus"
	"github.com/ajitpratap0/kotoba/internal/corpus/corpustest"
	"github.com/ajitpratap0/kotoba/internal/generator"
	"github.com/ajitpratap0/kotoba/internal/models"
)

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed+1))
}

func newGenerator(t *testing.T, c *corpus.Corpus) *generator.Generator {
	t.Helper()
	return generator.New(c, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// minimal has exactly one entry per part of speech, so every draw is fixed.
func minimal(t *testing.T, rules map[string]models.GrammarRule, mods map[string]models.Modifier) *corpus.Corpus {
	t.Helper()
	d := corpustest.Data()
	c, err := corpus.New(corpus.Data{
		Vocabulary: []models.VocabularyEntry{d.Vocabulary[0], d.Vocabulary[3]}, // teacher, book
		Verbs:      d.Verbs[:1],                                                // read
		Adjectives: d.Adjectives[1:2],                                          // expensive
		Rules:      rules,
		Modifiers:  mods,
	})
	require.NoError(t, err)
	return c
}

func slots(specs ...models.SlotSpec) []models.SlotSpec { return specs }

func entity(name string, ets ...models.EntityType) models.SlotSpec {
	return models.SlotSpec{Name: name, Entities: ets}
}

func dependent(name, on string, kind models.DependencyKind) models.SlotSpec {
	return models.SlotSpec{Name: name, Dependency: &models.Dependency{DependsOn: on, Kind: kind}}
}

func TestGenerate_IdentityTheme(t *testing.T) {
	g := newGenerator(t, corpustest.New(t))
	allowedB := []models.EntityType{models.EntityPerson, models.EntityConcept}

	for seed := range uint64(50) {
		s, err := g.Generate("identity", newRand(seed), generator.Options{})
		require.NoError(t, err)

		assert.Equal(t, "identity", s.Theme)
		assert.Equal(t, "A_wa_B_desu", s.Structure)
		assert.Equal(t, models.RelationshipIdentity, s.Relationship)
		assert.Equal(t, []string{"A", "B"}, s.SlotOrder)
		assert.NotContains(t, s.Japanese, models.NotFound)
		assert.NotContains(t, s.English, models.NotFound)
		assert.Contains(t, s.Japanese, "は")
		assert.True(t, strings.HasSuffix(s.Japanese, "です"), s.Japanese)
		assert.Equal(t, models.EntityPerson, s.Components["A"].Entity)
		assert.Contains(t, allowedB, s.Components["B"].Entity)
		assert.NotEmpty(t, s.ID)
		assert.Nil(t, s.Debug)
	}
}

func TestGenerate_UnknownTheme(t *testing.T) {
	g := newGenerator(t, corpustest.New(t))

	_, err := g.Generate("no-such-theme", newRand(1), generator.Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, generator.ErrUnknownTheme))
	assert.Contains(t, err.Error(), "no-such-theme")

	_, err = g.GenerateCoherent("no-such-theme", newRand(1), generator.Options{}, 3)
	assert.ErrorIs(t, err, generator.ErrUnknownTheme)
}

func TestGenerate_RandomTheme(t *testing.T) {
	c := corpustest.New(t)
	g := newGenerator(t, c)

	seen := map[string]bool{}
	rng := newRand(2)
	for range 100 {
		s, err := g.Generate("", rng, generator.Options{})
		require.NoError(t, err)
		assert.Contains(t, c.ThemeNames(), s.Theme)
		seen[s.Theme] = true
	}
	assert.Greater(t, len(seen), 1)
}

func TestGenerate_SameSeedSameSentence(t *testing.T) {
	g := newGenerator(t, corpustest.New(t))
	for _, theme := range []string{"", "action", "description", "movement"} {
		a, err := g.Generate(theme, newRand(7), generator.Options{Debug: true})
		require.NoError(t, err)
		b, err := g.Generate(theme, newRand(7), generator.Options{Debug: true})
		require.NoError(t, err)

		assert.NotEqual(t, a.ID, b.ID)
		a.ID, b.ID = "", ""
		assert.Equal(t, a, b)
	}
}

func TestGenerate_Rendering(t *testing.T) {
	rules := map[string]models.GrammarRule{
		"action": {Structure: "A_wa_B_wo_Verb", Slots: slots(
			entity("A", models.EntityPerson), entity("B", models.EntityThing), dependent("V", "A", models.DependencyVerb))},
		"possession": {Structure: "A_no_B", Slots: slots(
			entity("A", models.EntityPerson), entity("B", models.EntityThing))},
		"description": {Structure: "Adj_Noun", Slots: slots(
			entity("N", models.EntityThing), dependent("Adj", "N", models.DependencyAdjective))},
		"predicate": {Structure: "A_wa_Adj_desu", Slots: slots(
			entity("A", models.EntityThing), dependent("Adj", "A", models.DependencyAdjective))},
		"intransitive": {Structure: "A_ga_Verb", Slots: slots(
			dependent("V", "A", models.DependencyVerb), entity("A", models.EntityPerson))},
		"identity": {Structure: "A_wa_B_desu", Slots: slots(
			entity("A", models.EntityPerson), entity("B", models.EntityPerson))},
		"object": {Structure: "A_wo_Verb", Slots: slots(
			entity("A", models.EntityThing), dependent("V", "A", models.DependencyVerb))},
		"topic": {Structure: "A_wa_B_ga_Adj", Slots: slots(
			entity("A", models.EntityPerson), entity("B", models.EntityThing), dependent("Adj", "B", models.DependencyAdjective))},
		"pair": {Structure: "A_to_B", Slots: slots(
			entity("A", models.EntityPerson), entity("B", models.EntityThing))},
		"unknown": {Structure: "A_X_B", Slots: slots(
			entity("A", models.EntityPerson), entity("B", models.EntityThing))},
	}
	g := newGenerator(t, minimal(t, rules, nil))

	tests := []struct {
		theme    string
		japanese string
		english  string
		rel      models.RelationshipType
	}{
		{"action", "先生は本を読みます", "Teacher reads book.", models.RelationshipAction},
		{"possession", "先生の本", "teacher's book", models.RelationshipOwnership},
		{"description", "高い本", "expensive book", models.RelationshipDescription},
		{"predicate", "本は高いです", "Book is expensive.", models.RelationshipDescription},
		{"intransitive", "先生が読みます", "Teacher reads.", models.RelationshipAction},
		{"identity", "先生は先生です", "Teacher is teacher.", models.RelationshipIdentity},
		{"object", "本を読みます", "Read book.", models.RelationshipAction},
		{"topic", "先生は本が高いです", "As for teacher, book is expensive.", models.RelationshipAttribution},
		{"pair", "先生と本", "teacher and book", models.RelationshipAssociation},
		{"unknown", "先生本", "teacher book", models.RelationshipAssociation},
	}
	for _, tt := range tests {
		t.Run(tt.theme, func(t *testing.T) {
			s, err := g.Generate(tt.theme, newRand(1), generator.Options{})
			require.NoError(t, err)
			assert.Equal(t, tt.japanese, s.Japanese)
			assert.Equal(t, tt.english, s.English)
			assert.Equal(t, tt.rel, s.Relationship)
		})
	}
}

func TestGenerate_ImpliedActorDrawsVerbForPerson(t *testing.T) {
	rules := map[string]models.GrammarRule{
		"object": {Structure: "A_wo_Verb", Slots: slots(
			entity("A", models.EntityThing), dependent("V", "A", models.DependencyVerb))},
	}
	s, err := newGenerator(t, minimal(t, rules, nil)).Generate("object", newRand(2), generator.Options{Debug: true})
	require.NoError(t, err)

	v := s.Components["V"]
	assert.Equal(t, models.ComponentVerb, v.Kind)
	assert.Equal(t, models.EntityPerson, v.Entity)
	assert.Equal(t, "A", v.DependsOn)
	assert.Equal(t, models.EntityThing, s.Components["A"].Entity)
	assert.Empty(t, slices.DeleteFunc(slices.Clone(s.CoherenceIssues), func(issue string) bool {
		return !strings.HasPrefix(issue, "action:")
	}))
}

func TestGenerate_DependencySlotDeclaredFirst(t *testing.T) {
	rules := map[string]models.GrammarRule{
		"intransitive": {Structure: "A_ga_Verb", Slots: slots(
			dependent("V", "A", models.DependencyVerb), entity("A", models.EntityPerson))},
	}
	s, err := newGenerator(t, minimal(t, rules, nil)).Generate("intransitive", newRand(3), generator.Options{})
	require.NoError(t, err)

	assert.Equal(t, []string{"V", "A"}, s.SlotOrder)
	v := s.Components["V"]
	require.Equal(t, models.ComponentVerb, v.Kind)
	assert.Equal(t, "A", v.DependsOn)
	assert.Equal(t, models.EntityPerson, v.Entity)
}

func TestGenerate_SentinelDegradesGracefully(t *testing.T) {
	rules := map[string]models.GrammarRule{
		"festival": {Structure: "A_wa_B_desu", Slots: slots(
			entity("A", models.EntityEvent), entity("B", models.EntityEvent))},
	}
	s, err := newGenerator(t, minimal(t, rules, nil)).Generate("festival", newRand(4), generator.Options{})
	require.NoError(t, err)

	assert.Equal(t, models.NotFound+"は"+models.NotFound+"です", s.Japanese)
	assert.True(t, s.Components["A"].IsMissing())
	assert.False(t, s.CoherencePassed)
	require.NotEmpty(t, s.CoherenceIssues)
	assert.Contains(t, s.CoherenceIssues[0], "missing vocabulary")
}

func TestGenerate_Modifiers(t *testing.T) {
	rule := models.GrammarRule{
		Structure: "A_wa_B_wo_Verb",
		Slots: slots(
			entity("A", models.EntityPerson), entity("B", models.EntityThing), dependent("V", "A", models.DependencyVerb)),
		Extensions: []string{"time"},
	}
	forms := []models.ModifierForm{{Japanese: "毎日", English: "every day"}}

	t.Run("always", func(t *testing.T) {
		c := minimal(t, map[string]models.GrammarRule{"action": rule},
			map[string]models.Modifier{"time": {Probability: 1, Forms: forms}})
		s, err := newGenerator(t, c).Generate("action", newRand(5), generator.Options{})
		require.NoError(t, err)
		assert.Equal(t, "毎日、先生は本を読みます", s.Japanese)
		assert.Equal(t, "Teacher reads book every day.", s.English)
		assert.True(t, s.CoherencePassed, "issues: %v", s.CoherenceIssues)
	})

	t.Run("never", func(t *testing.T) {
		c := minimal(t, map[string]models.GrammarRule{"action": rule},
			map[string]models.Modifier{"time": {Probability: 0, Forms: forms}})
		s, err := newGenerator(t, c).Generate("action", newRand(5), generator.Options{})
		require.NoError(t, err)
		assert.Equal(t, "先生は本を読みます", s.Japanese)
	})
}

func TestGenerate_Debug(t *testing.T) {
	g := newGenerator(t, corpustest.New(t))
	s, err := g.Generate("action", newRand(6), generator.Options{Debug: true})
	require.NoError(t, err)

	require.NotNil(t, s.Debug)
	require.Len(t, s.Debug.Slots, 3)
	assert.Equal(t, models.EntityPerson, s.Debug.Slots["A"].ChosenType)
	assert.Equal(t, 2, s.Debug.Slots["A"].Candidates)
	assert.Equal(t, 2, s.Debug.Slots["B"].Candidates)
	assert.Equal(t, 4, s.Debug.Slots["V"].Candidates)
	assert.Greater(t, s.Debug.Slots["V"].Score, 0.2)
}

func TestGenerate_DoesNotShareCorpusEntries(t *testing.T) {
	c := corpustest.New(t)
	g := newGenerator(t, c)
	s, err := g.Generate("action", newRand(8), generator.Options{})
	require.NoError(t, err)

	v := s.Components["V"].Verb
	require.NotNil(t, v)
	v.Semantic[0] = "changed"
	v.Conjugations["polite"] = models.Form{Kanji: "changed"}

	for _, verb := range c.Verbs() {
		assert.NotContains(t, verb.Semantic, "changed")
		assert.NotEqual(t, "changed", verb.Conjugations["polite"].Kanji)
	}
}

func TestGenerateCoherent(t *testing.T) {
	t.Run("passes first time", func(t *testing.T) {
		rules := map[string]models.GrammarRule{
			"identity": {Structure: "A_wa_B_desu", Slots: slots(
				entity("A", models.EntityPerson), entity("B", models.EntityPerson))},
		}
		s, err := newGenerator(t, minimal(t, rules, nil)).GenerateCoherent("identity", newRand(1), generator.Options{}, 3)
		require.NoError(t, err)
		assert.True(t, s.CoherencePassed)
	})

	t.Run("gives up", func(t *testing.T) {
		rules := map[string]models.GrammarRule{
			"things": {Structure: "A_no_B", Slots: slots(
				entity("A", models.EntityThing), entity("B", models.EntityThing))},
		}
		s, err := newGenerator(t, minimal(t, rules, nil)).GenerateCoherent("things", newRand(1), generator.Options{}, 3)
		require.ErrorIs(t, err, generator.ErrNoCoherentSentence)
		assert.Contains(t, err.Error(), "3 attempts")
		assert.Equal(t, "things", s.Theme)
		assert.False(t, s.CoherencePassed)
		assert.Contains(t, s.CoherenceIssues, "ownership: things don't own other things")
	})
}

func TestGenerateBatch(t *testing.T) {
	g := newGenerator(t, corpustest.New(t))
	ctx := context.Background()

	first, err := g.GenerateBatch(ctx, 8, "", 3, generator.Options{})
	require.NoError(t, err)
	require.Len(t, first, 8)

	second, err := g.GenerateBatch(ctx, 8, "", 3, generator.Options{})
	require.NoError(t, err)

	for i := range first {
		single, err := g.Generate("", rand.New(rand.NewPCG(3, uint64(i))), generator.Options{})
		require.NoError(t, err)

		ids := []string{first[i].ID, second[i].ID, single.ID}
		slices.Sort(ids)
		assert.Len(t, slices.Compact(ids), 3)

		first[i].ID, second[i].ID, single.ID = "", "", ""
		assert.Equal(t, first[i], second[i])
		assert.Equal(t, single, first[i])
	}
}

func TestGenerateBatch_Errors(t *testing.T) {
	g := newGenerator(t, corpustest.New(t))

	_, err := g.GenerateBatch(context.Background(), 4, "nope", 1, generator.Options{})
	assert.ErrorIs(t, err, generator.ErrUnknownTheme)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = g.GenerateBatch(ctx, 4, "identity", 1, generator.Options{})
	assert.ErrorIs(t, err, context.Canceled)

	out, err := g.GenerateBatch(context.Background(), 0, "identity", 1, generator.Options{})
	require.NoError(t, err)
	assert.Empty(t, out)
}
