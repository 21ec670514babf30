// Package corpustest provides a small, fully valid corpus for tests.
package corpustest

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/kotoba/internal/corpus"
	"github.com/ajitpratap0/kotoba/internal/models"
)

func polite(kanji, hiragana string) map[string]models.Form {
	return map[string]models.Form{"polite": {Kanji: kanji, Hiragana: hiragana}}
}

func present(kanji, hiragana string) map[string]models.Form {
	return map[string]models.Form{"present": {Kanji: kanji, Hiragana: hiragana}}
}

// Data returns the fixture content. Every call returns fresh slices and maps.
func Data() corpus.Data {
	return corpus.Data{
		Vocabulary: []models.VocabularyEntry{
			{English: "teacher", Kana: "せんせい", Kanji: "先生", Romaji: "sensei", Entity: models.EntityPerson, Tags: []string{"people", "occupation"}},
			{English: "student", Kana: "がくせい", Kanji: "学生", Romaji: "gakusei", Entity: models.EntityPerson, Tags: []string{"people"}},
			{English: "dog", Kana: "いぬ", Kanji: "犬", Romaji: "inu", Entity: models.EntityAnimal, Tags: []string{"animals", "pets"}},
			{English: "book", Kana: "ほん", Kanji: "本", Romaji: "hon", Entity: models.EntityThing, Tags: []string{"objects", "study"}},
			{English: "car", Kana: "くるま", Kanji: "車", Romaji: "kuruma", Entity: models.EntityThing, Tags: []string{"objects"}},
			{English: "school", Kana: "がっこう", Kanji: "学校", Romaji: "gakkou", Entity: models.EntityPlace, Tags: []string{"places", "buildings"}},
			{English: "park", Kana: "こうえん", Kanji: "公園", Romaji: "kouen", Entity: models.EntityPlace, Tags: []string{"places"}},
			{English: "music", Kana: "おんがく", Kanji: "音楽", Romaji: "ongaku", Entity: models.EntityConcept, Tags: []string{"hobbies"}},
			{English: "tomorrow", Kana: "あした", Kanji: "明日", Romaji: "ashita", Entity: models.EntityConcept, Tags: []string{"time"}},
			{English: "family", Kana: "かぞく", Kanji: "家族", Romaji: "kazoku", Entity: models.EntityGroup, Tags: []string{"people"}},
			{English: "rain", Kana: "あめ", Kanji: "雨", Romaji: "ame", Tags: []string{"weather"}},
		},
		Verbs: []models.VerbEntry{
			{Kanji: "読む", Hiragana: "よむ", English: "to read", Semantic: []string{"action", "learning"}, EntityTags: []models.EntityType{models.EntityPerson}, Conjugations: polite("読みます", "よみます")},
			{Kanji: "走る", Hiragana: "はしる", English: "to run", Semantic: []string{"motion", "action"}, EntityTags: []models.EntityType{models.EntityPerson, models.EntityAnimal}, Conjugations: polite("走ります", "はしります")},
			{Kanji: "行く", Hiragana: "いく", English: "to go", Semantic: []string{"motion"}, EntityTags: []models.EntityType{models.EntityPerson, models.EntityAnimal, models.EntityGroup}, Conjugations: polite("行きます", "いきます")},
			{Kanji: "考える", Hiragana: "かんがえる", English: "to think", Semantic: []string{"cognitive"}, EntityTags: []models.EntityType{models.EntityPerson}, Conjugations: polite("考えます", "かんがえます")},
		},
		Adjectives: []models.AdjectiveEntry{
			{Kanji: "有名", Hiragana: "ゆうめい", English: "famous", Tags: []string{"description", "people", "places"}, EntityTags: []models.EntityType{models.EntityPerson, models.EntityPlace}, Conjugations: present("有名な", "ゆうめいな")},
			{Kanji: "高い", Hiragana: "たかい", English: "expensive; high", Tags: []string{"description"}, EntityTags: []models.EntityType{models.EntityThing}, Conjugations: present("高い", "たかい")},
			{Kanji: "優しい", Hiragana: "やさしい", English: "kind", Tags: []string{"people", "feelings"}, EntityTags: []models.EntityType{models.EntityPerson}, Conjugations: present("優しい", "やさしい")},
			{Kanji: "静か", Hiragana: "しずか", English: "quiet", Tags: []string{"description", "places"}, EntityTags: []models.EntityType{models.EntityPlace, models.EntityPerson}, Conjugations: present("静かな", "しずかな")},
		},
		Rules: map[string]models.GrammarRule{
			"identity": {
				Structure: "A_wa_B_desu",
				Slots: []models.SlotSpec{
					{Name: "A", Entities: []models.EntityType{models.EntityPerson}},
					{Name: "B", Entities: []models.EntityType{models.EntityPerson, models.EntityConcept}},
				},
				Particles: []string{"は", "です"},
			},
			"possession": {
				Structure: "A_no_B",
				Slots: []models.SlotSpec{
					{Name: "A", Entities: []models.EntityType{models.EntityPerson, models.EntityGroup}},
					{Name: "B", Entities: []models.EntityType{models.EntityThing, models.EntityAnimal}},
				},
				Particles: []string{"の"},
			},
			"action": {
				Structure: "A_wa_B_wo_Verb",
				Slots: []models.SlotSpec{
					{Name: "A", Entities: []models.EntityType{models.EntityPerson}},
					{Name: "B", Entities: []models.EntityType{models.EntityThing}},
					{Name: "V", Dependency: &models.Dependency{DependsOn: "A", Kind: models.DependencyVerb}},
				},
				Particles:  []string{"は", "を"},
				Extensions: []string{"time"},
			},
			"movement": {
				Structure: "A_wa_B_ni_Verb",
				Slots: []models.SlotSpec{
					{Name: "A", Entities: []models.EntityType{models.EntityPerson, models.EntityAnimal}},
					{Name: "B", Entities: []models.EntityType{models.EntityPlace}},
					{Name: "V", Dependency: &models.Dependency{DependsOn: "A", Kind: models.DependencyVerb}},
				},
				Particles: []string{"は", "に"},
			},
			"description": {
				Structure: "Adj_Noun",
				Slots: []models.SlotSpec{
					{Name: "N", Entities: []models.EntityType{models.EntityPerson, models.EntityPlace, models.EntityThing}},
					{Name: "Adj", Dependency: &models.Dependency{DependsOn: "N", Kind: models.DependencyAdjective}},
				},
			},
		},
		Modifiers: map[string]models.Modifier{
			"time": {Probability: 0.5, Forms: []models.ModifierForm{
				{Japanese: "毎日", English: "every day"},
				{Japanese: "今日", English: "today"},
			}},
		},
	}
}

// New returns the fixture as a validated corpus.
func New(t testing.TB) *corpus.Corpus {
	t.Helper()
	c, err := corpus.New(Data())
	require.NoError(t, err)
	return c
}

// WriteDir writes d as a corpus directory under t.TempDir and returns its path.
func WriteDir(t testing.TB, d corpus.Data) string {
	t.Helper()
	dir := t.TempDir()
	write := func(name string, v any) {
		b, err := json.MarshalIndent(v, "", "  ")
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), b, 0o600))
	}
	write(corpus.VocabularyFile, d.Vocabulary)
	write(corpus.VerbsFile, d.Verbs)
	write(corpus.AdjectivesFile, d.Adjectives)
	write(corpus.RulesFile, d.Rules)
	if d.Modifiers != nil {
		write(corpus.ModifiersFile, d.Modifiers)
	}
	if d.Entities != nil {
		write(corpus.EntitiesFile, d.Entities)
	}
	return dir
}
