package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// VerbSemantics is the closed vocabulary of verb semantic tags.
var VerbSemantics = []string{
	"action", "motion", "cognitive", "communication", "learning",
	"transaction", "occupation", "social", "emotion", "change", "life",
	"physiological", "perception", "existence", "spatial", "weather",
	"nature", "temporal", "initiation", "termination", "stative",
}

// VocabularyEntry is a noun in the corpus. Entries are shared read-only
// across generation calls and must never be written to after loading.
type VocabularyEntry struct {
	English       string     `json:"english" yaml:"english" validate:"required"`
	Kana          string     `json:"kana" yaml:"kana" validate:"required"`
	Kanji         string     `json:"kanji,omitempty" yaml:"kanji,omitempty"`
	Romaji        string     `json:"romaji,omitempty" yaml:"romaji,omitempty"`
	Entity        EntityType `json:"entity,omitempty" yaml:"entity,omitempty" validate:"omitempty,entity"`
	Tags          []string   `json:"tags,omitempty" yaml:"tags,omitempty"`
	Priority      int        `json:"priority,omitempty" yaml:"priority,omitempty"`
	LearningOrder int        `json:"learning_order,omitempty" yaml:"learning_order,omitempty"`
	Category      string     `json:"category,omitempty" yaml:"category,omitempty"`
}

// UnmarshalJSON accepts "hiragana" as an alias for "kana".
func (v *VocabularyEntry) UnmarshalJSON(data []byte) error {
	type plain VocabularyEntry
	aux := struct {
		*plain
		Hiragana string `json:"hiragana"`
	}{plain: (*plain)(v)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if v.Kana == "" {
		v.Kana = aux.Hiragana
	}
	return nil
}

// Japanese returns the kanji spelling when present, otherwise the kana.
func (v VocabularyEntry) Japanese() string {
	if v.Kanji != "" {
		return v.Kanji
	}
	return v.Kana
}

// HasTag reports whether the entry carries any of the given tags.
func (v VocabularyEntry) HasTag(tags ...string) bool {
	return hasAny(v.Tags, tags)
}

// Form is one conjugated spelling.
type Form struct {
	Kanji    string `json:"kanji,omitempty" yaml:"kanji,omitempty"`
	Hiragana string `json:"hiragana,omitempty" yaml:"hiragana,omitempty"`
}

// Text prefers the kanji spelling.
func (f Form) Text() string {
	if f.Kanji != "" {
		return f.Kanji
	}
	return f.Hiragana
}

// VerbEntry is a verb with its conjugation table.
type VerbEntry struct {
	Kanji        string          `json:"kanji,omitempty" yaml:"kanji,omitempty"`
	Hiragana     string          `json:"hiragana" yaml:"hiragana" validate:"required"`
	English      string          `json:"english" yaml:"english" validate:"required"`
	Semantic     []string        `json:"semantic,omitempty" yaml:"semantic,omitempty" validate:"dive,verbsemantic"`
	EntityTags   []EntityType    `json:"entity_tags,omitempty" yaml:"entity_tags,omitempty" validate:"dive,entity"`
	Conjugations map[string]Form `json:"conjugations,omitempty" yaml:"conjugations,omitempty"`
}

// Dictionary returns the plain spelling of the verb.
func (v VerbEntry) Dictionary() string {
	if v.Kanji != "" {
		return v.Kanji
	}
	return v.Hiragana
}

// Conjugated returns the named form, falling back to the dictionary form.
func (v VerbEntry) Conjugated(form string) string {
	if f, ok := v.Conjugations[form]; ok && f.Text() != "" {
		return f.Text()
	}
	return v.Dictionary()
}

// AcceptsActor reports whether the verb lists the entity type as a valid actor.
func (v VerbEntry) AcceptsActor(et EntityType) bool {
	for _, t := range v.EntityTags {
		if t == et {
			return true
		}
	}
	return false
}

// AdjectiveEntry is an adjective with its conjugation table
// (present, past, negative, negative_past, adverbial).
type AdjectiveEntry struct {
	Kanji        string          `json:"kanji,omitempty" yaml:"kanji,omitempty"`
	Hiragana     string          `json:"hiragana" yaml:"hiragana" validate:"required"`
	English      string          `json:"english" yaml:"english" validate:"required"`
	Tags         []string        `json:"tags,omitempty" yaml:"tags,omitempty"`
	EntityTags   []EntityType    `json:"entity_tags,omitempty" yaml:"entity_tags,omitempty" validate:"dive,entity"`
	Conjugations map[string]Form `json:"conjugations,omitempty" yaml:"conjugations,omitempty"`
}

// Dictionary returns the plain spelling of the adjective.
func (a AdjectiveEntry) Dictionary() string {
	if a.Kanji != "" {
		return a.Kanji
	}
	return a.Hiragana
}

// Conjugated returns the named form, falling back to the dictionary form.
func (a AdjectiveEntry) Conjugated(form string) string {
	if f, ok := a.Conjugations[form]; ok && f.Text() != "" {
		return f.Text()
	}
	return a.Dictionary()
}

// AcceptsEntity reports whether the adjective lists the entity type.
func (a AdjectiveEntry) AcceptsEntity(et EntityType) bool {
	for _, t := range a.EntityTags {
		if t == et {
			return true
		}
	}
	return false
}

// DependencyKind says what a dependency slot is filled with.
type DependencyKind string

const (
	DependencyVerb      DependencyKind = "verb"
	DependencyAdjective DependencyKind = "adjective"
)

// Dependency ties a slot to another slot it must agree with.
type Dependency struct {
	DependsOn string         `json:"depends_on" yaml:"depends_on" validate:"required"`
	Kind      DependencyKind `json:"kind" yaml:"kind" validate:"oneof=verb adjective"`
}

// SlotSpec is one named position in a grammar template. Exactly one of
// Entities and Dependency is set.
type SlotSpec struct {
	Name       string       `json:"name" yaml:"name" validate:"required"`
	Entities   []EntityType `json:"entities,omitempty" yaml:"entities,omitempty" validate:"dive,entity"`
	Dependency *Dependency  `json:"dependency,omitempty" yaml:"dependency,omitempty"`
}

// IsDependent reports whether the slot is filled from another slot.
func (s SlotSpec) IsDependent() bool { return s.Dependency != nil }

// GrammarRule is a named sentence template ("theme").
type GrammarRule struct {
	Name        string     `json:"-" yaml:"name"`
	Structure   string     `json:"structure" yaml:"structure" validate:"required"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	Slots       []SlotSpec `json:"-" yaml:"slots" validate:"required,min=1,dive"`
	Particles   []string   `json:"particles,omitempty" yaml:"particles,omitempty"`
	Extensions  []string   `json:"extensions,omitempty" yaml:"extensions,omitempty"`
}

// Slot returns the slot with the given name.
func (r GrammarRule) Slot(name string) (SlotSpec, bool) {
	for _, s := range r.Slots {
		if s.Name == name {
			return s, true
		}
	}
	return SlotSpec{}, false
}

// UnmarshalJSON decodes "slots" as an object while keeping the declared key
// order, since slots are filled in that order.
func (r *GrammarRule) UnmarshalJSON(data []byte) error {
	type plain GrammarRule
	aux := struct {
		*plain
		Slots json.RawMessage `json:"slots"`
	}{plain: (*plain)(r)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	slots, err := decodeSlots(aux.Slots)
	if err != nil {
		return err
	}
	r.Slots = slots
	return nil
}

// MarshalJSON writes slots back in the object form.
func (r GrammarRule) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, s := range r.Slots {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(s.Name)
		if err != nil {
			return nil, err
		}
		var val []byte
		if s.Dependency != nil {
			val, err = json.Marshal(s.Dependency)
		} else {
			val, err = json.Marshal(s.Entities)
		}
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')

	type plain GrammarRule
	return json.Marshal(struct {
		plain
		Slots json.RawMessage `json:"slots"`
	}{plain: plain(r), Slots: buf.Bytes()})
}

func decodeSlots(raw json.RawMessage) ([]SlotSpec, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("slots: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("slots: expected object, got %v", tok)
	}

	var slots []SlotSpec
	for dec.More() {
		tok, err = dec.Token()
		if err != nil {
			return nil, fmt.Errorf("slots: %w", err)
		}
		name, _ := tok.(string)

		var value json.RawMessage
		if err = dec.Decode(&value); err != nil {
			return nil, fmt.Errorf("slot %q: %w", name, err)
		}
		slot, err := decodeSlot(name, value)
		if err != nil {
			return nil, err
		}
		slots = append(slots, slot)
	}
	if _, err = dec.Token(); err != nil {
		return nil, fmt.Errorf("slots: %w", err)
	}
	return slots, nil
}

func decodeSlot(name string, value json.RawMessage) (SlotSpec, error) {
	trimmed := bytes.TrimSpace(value)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var entities []EntityType
		if err := json.Unmarshal(trimmed, &entities); err != nil {
			return SlotSpec{}, fmt.Errorf("slot %q: %w", name, err)
		}
		return SlotSpec{Name: name, Entities: entities}, nil
	}

	var dep struct {
		DependsOn string         `json:"depends_on"`
		Kind      DependencyKind `json:"kind"`
		Type      DependencyKind `json:"type"`
	}
	if err := json.Unmarshal(trimmed, &dep); err != nil {
		return SlotSpec{}, fmt.Errorf("slot %q: %w", name, err)
	}
	kind := dep.Kind
	if kind == "" {
		kind = dep.Type
	}
	return SlotSpec{Name: name, Dependency: &Dependency{DependsOn: dep.DependsOn, Kind: kind}}, nil
}

// ModifierForm is one rendering of an optional sentence extension.
type ModifierForm struct {
	Japanese string `json:"japanese" yaml:"japanese" validate:"required"`
	English  string `json:"english" yaml:"english"`
}

// Modifier is an optional extension applied with some probability.
type Modifier struct {
	Probability float64        `json:"probability" yaml:"probability" validate:"gte=0,lte=1"`
	Forms       []ModifierForm `json:"forms,omitempty" yaml:"forms,omitempty" validate:"dive"`
}

// UnmarshalJSON accepts "examples" as an alias for "forms".
func (m *Modifier) UnmarshalJSON(data []byte) error {
	type plain Modifier
	aux := struct {
		*plain
		Examples []ModifierForm `json:"examples"`
	}{plain: (*plain)(m)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if len(m.Forms) == 0 {
		m.Forms = aux.Examples
	}
	return nil
}

// EntityConfig overrides the built-in per-entity tables.
type EntityConfig struct {
	Domains      []SemanticDomain `json:"domains,omitempty" yaml:"domains,omitempty" validate:"dive,domain"`
	FallbackTags []string         `json:"fallback_tags,omitempty" yaml:"fallback_tags,omitempty"`
}

func hasAny(have, want []string) bool {
	for _, h := range have {
		for _, w := range want {
			if h == w {
				return true
			}
		}
	}
	return false
}
