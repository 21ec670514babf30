package generator

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ajitpratap0/kotoba/internal/models"
)

// Conjugation forms used when rendering.
const (
	verbForm      = "polite"
	adjectiveForm = "present"
)

// roles is a sentence's components grouped by what they render as, in slot
// order. Missing components are placed by the kind they stand in for.
type roles struct {
	nouns     []models.Component
	verb      models.Component
	adjective models.Component
	all       []models.Component
}

func rolesOf(s models.Sentence) roles {
	r := roles{
		verb:      models.MissingComponent(models.ComponentVerb, "", ""),
		adjective: models.MissingComponent(models.ComponentAdjective, "", ""),
	}
	var haveVerb, haveAdj bool
	for _, nc := range s.OrderedComponents() {
		r.all = append(r.all, nc.Component)
		kind := nc.Kind
		if nc.IsMissing() {
			kind = nc.Wanted
		}
		switch kind {
		case models.ComponentVerb:
			if !haveVerb {
				r.verb, haveVerb = nc.Component, true
			}
		case models.ComponentAdjective:
			if !haveAdj {
				r.adjective, haveAdj = nc.Component, true
			}
		default:
			r.nouns = append(r.nouns, nc.Component)
		}
	}
	return r
}

// noun returns the i-th noun, or the sentinel when the template declared fewer.
func (r roles) noun(i int) models.Component {
	if i < len(r.nouns) {
		return r.nouns[i]
	}
	return models.MissingComponent(models.ComponentVocabulary, "", "")
}

func politeVerb(c models.Component) string {
	if c.IsMissing() || c.Verb == nil {
		return models.NotFound
	}
	return c.Verb.Conjugated(verbForm)
}

func attributive(c models.Component) string {
	if c.IsMissing() || c.Adjective == nil {
		return models.NotFound
	}
	return c.Adjective.Conjugated(adjectiveForm)
}

// rendering is one structure's Japanese and English output. Clauses get
// a capitalised English first letter and a closing period; phrases do not.
type rendering struct {
	japanese string
	english  string
	clause   bool
}

type renderFunc func(r roles) rendering

// renderers maps a structure id to its renderer.
var renderers = map[string]renderFunc{
	"A_wa_B_desu": func(r roles) rendering {
		a, b := r.noun(0), r.noun(1)
		return rendering{a.Japanese() + "は" + b.Japanese() + "です", a.English() + " is " + b.English(), true}
	},
	"A_no_B": func(r roles) rendering {
		a, b := r.noun(0), r.noun(1)
		return rendering{a.Japanese() + "の" + b.Japanese(), a.English() + "'s " + b.English(), false}
	},
	"A_wo_Verb": func(r roles) rendering {
		a := r.noun(0)
		return rendering{a.Japanese() + "を" + politeVerb(r.verb), r.verb.English() + " " + a.English(), true}
	},
	"A_ga_Verb": func(r roles) rendering {
		a := r.noun(0)
		return rendering{a.Japanese() + "が" + politeVerb(r.verb), a.English() + " " + thirdPerson(r.verb), true}
	},
	"A_wa_B_wo_Verb": func(r roles) rendering {
		a, b := r.noun(0), r.noun(1)
		return rendering{
			a.Japanese() + "は" + b.Japanese() + "を" + politeVerb(r.verb),
			a.English() + " " + thirdPerson(r.verb) + " " + b.English(),
			true,
		}
	},
	"A_wa_B_ni_Verb": func(r roles) rendering {
		a, b := r.noun(0), r.noun(1)
		return rendering{
			a.Japanese() + "は" + b.Japanese() + "に" + politeVerb(r.verb),
			a.English() + " " + thirdPerson(r.verb) + " to " + b.English(),
			true,
		}
	},
	"Adj_Noun": func(r roles) rendering {
		n := r.noun(0)
		return rendering{attributive(r.adjective) + n.Japanese(), r.adjective.English() + " " + n.English(), false}
	},
	"A_wa_Adj_desu": func(r roles) rendering {
		a := r.noun(0)
		return rendering{a.Japanese() + "は" + r.adjective.Japanese() + "です", a.English() + " is " + r.adjective.English(), true}
	},
	"A_wa_B_ga_Adj": func(r roles) rendering {
		a, b := r.noun(0), r.noun(1)
		return rendering{
			a.Japanese() + "は" + b.Japanese() + "が" + r.adjective.Japanese() + "です",
			"As for " + a.English() + ", " + b.English() + " is " + r.adjective.English(),
			true,
		}
	},
	"A_to_B": func(r roles) rendering {
		a, b := r.noun(0), r.noun(1)
		return rendering{a.Japanese() + "と" + b.Japanese(), a.English() + " and " + b.English(), false}
	},
}

// render looks the structure up, falling back to the components joined in
// slot order for structures without a renderer.
func render(structure string, s models.Sentence) rendering {
	r := rolesOf(s)
	if fn, ok := renderers[structure]; ok {
		return fn(r)
	}
	ja := make([]string, 0, len(r.all))
	en := make([]string, 0, len(r.all))
	for _, c := range r.all {
		if c.Kind == models.ComponentVerb {
			ja = append(ja, politeVerb(c))
		} else {
			ja = append(ja, c.Japanese())
		}
		en = append(en, c.English())
	}
	return rendering{japanese: strings.Join(ja, ""), english: strings.Join(en, " ")}
}

// finish applies English sentence casing and punctuation.
func (r rendering) finish() (string, string) {
	if !r.clause {
		return r.japanese, r.english
	}
	return r.japanese, capitalize(r.english) + "."
}

// thirdPerson inflects the first word of the verb gloss: "go to bed" ->
// "goes to bed".
func thirdPerson(c models.Component) string {
	base := c.English()
	if c.IsMissing() || base == "" {
		return base
	}
	word, rest, _ := strings.Cut(base, " ")
	switch {
	case word == "be":
		word = "is"
	case word == "have":
		word = "has"
	case strings.HasSuffix(word, "y") && len(word) > 1 && !strings.ContainsRune("aeiou", rune(word[len(word)-2])):
		word = word[:len(word)-1] + "ies"
	case hasAnySuffix(word, "s", "sh", "ch", "x", "z", "o"):
		word += "es"
	default:
		word += "s"
	}
	if rest == "" {
		return word
	}
	return word + " " + rest
}

func hasAnySuffix(s string, suffixes ...string) bool {
	for _, suf := range suffixes {
		if strings.HasSuffix(s, suf) {
			return true
		}
	}
	return false
}

func capitalize(s string) string {
	first, size := utf8.DecodeRuneInString(s)
	if first == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(first)) + s[size:]
}
