package coherence

import "github.com/ajitpratap0/kotoba/internal/models"

// AdjectiveFallback lists what generically suits an entity type when an
// adjective has no explicit entry in Rules.AdjectiveEntities.
type AdjectiveFallback struct {
	Adjectives []string `json:"adjectives" yaml:"adjectives"`
	Tags       []string `json:"tags" yaml:"tags"`
}

// Rules is the data the checker validates against. None of it is consulted
// at generation time.
type Rules struct {
	// OwnershipAllowed maps an owner type to the types it may own.
	OwnershipAllowed map[models.EntityType][]models.EntityType
	// AdjectiveEntities maps an adjective gloss key to the only entity types
	// it may describe.
	AdjectiveEntities map[string][]models.EntityType
	// EntityAdjectiveFallback applies to adjectives missing from
	// AdjectiveEntities.
	EntityAdjectiveFallback map[models.EntityType]AdjectiveFallback
	// IdentityCrossPairs are the distinct-type pairs allowed in "A is B".
	// Either order matches.
	IdentityCrossPairs [][2]models.EntityType
	// AnimalActionSemantics are the verb tags an animal actor can perform.
	AnimalActionSemantics []string
	// TimeTags mark concept vocabulary that denotes a time expression.
	TimeTags []string
	// ContextualThreshold is the score consecutive entities must exceed.
	ContextualThreshold float64
}

var (
	personOnly  = []models.EntityType{models.EntityPerson}
	thingOnly   = []models.EntityType{models.EntityThing}
	placeOnly   = []models.EntityType{models.EntityPlace}
	personThing = []models.EntityType{models.EntityPerson, models.EntityThing}
	personPlace = []models.EntityType{models.EntityPerson, models.EntityPlace}
	living      = []models.EntityType{models.EntityPerson, models.EntityAnimal}
	physical    = []models.EntityType{models.EntityThing, models.EntityPlace, models.EntityAnimal}
)

// DefaultRules returns the built-in rule set.
func DefaultRules() Rules {
	return Rules{
		OwnershipAllowed: map[models.EntityType][]models.EntityType{
			models.EntityPerson: {models.EntityThing, models.EntityPlace, models.EntityConcept, models.EntityAnimal, models.EntityGroup, models.EntityEvent},
			models.EntityGroup:  {models.EntityThing, models.EntityPlace, models.EntityConcept, models.EntityEvent},
			models.EntityAnimal: {models.EntityThing, models.EntityPlace},
			models.EntityPlace:  {models.EntityThing},
		},
		AdjectiveEntities: map[string][]models.EntityType{
			"famous":       {models.EntityPerson, models.EntityPlace, models.EntityConcept},
			"popular":      {models.EntityPerson, models.EntityPlace, models.EntityThing, models.EntityConcept},
			"expensive":    thingOnly,
			"cheap":        thingOnly,
			"delicious":    thingOnly,
			"tasty":        thingOnly,
			"sweet":        thingOnly,
			"spicy":        thingOnly,
			"salty":        thingOnly,
			"bitter":       thingOnly,
			"heavy":        {models.EntityThing, models.EntityPhenomenon},
			"light":        thingOnly,
			"thick":        thingOnly,
			"thin":         {models.EntityThing, models.EntityPerson},
			"sharp":        thingOnly,
			"crowded":      placeOnly,
			"spacious":     placeOnly,
			"bustling":     placeOnly,
			"lively":       {models.EntityPlace, models.EntityEvent, models.EntityPerson},
			"quiet":        {models.EntityPlace, models.EntityPerson, models.EntityAnimal},
			"noisy":        {models.EntityPlace, models.EntityPerson, models.EntityAnimal, models.EntityThing},
			"convenient":   {models.EntityPlace, models.EntityThing},
			"inconvenient": {models.EntityPlace, models.EntityThing},
			"safe":         {models.EntityPlace, models.EntityThing},
			"dangerous":    {models.EntityPlace, models.EntityThing, models.EntityAnimal, models.EntityPerson},
			"kind":         living,
			"gentle":       living,
			"friendly":     living,
			"smart":        living,
			"clever":       living,
			"cute":         {models.EntityPerson, models.EntityAnimal, models.EntityThing},
			"scary":        {models.EntityPerson, models.EntityAnimal, models.EntityPlace, models.EntityEvent},
			"busy":         {models.EntityPerson, models.EntityPlace},
			"healthy":      living,
			"sick":         living,
			"young":        living,
			"old":          {models.EntityPerson, models.EntityAnimal, models.EntityThing, models.EntityPlace},
			"tall":         {models.EntityPerson, models.EntityThing, models.EntityPlace},
			"skillful":     personOnly,
			"good at":      personOnly,
			"diligent":     personOnly,
			"lonely":       personOnly,
			"happy":        living,
			"sad":          {models.EntityPerson, models.EntityEvent},
			"fun":          {models.EntityEvent, models.EntityConcept, models.EntityPlace, models.EntityPerson},
			"interesting":  {models.EntityThing, models.EntityConcept, models.EntityEvent, models.EntityPerson},
			"boring":       {models.EntityThing, models.EntityConcept, models.EntityEvent, models.EntityPerson},
			"difficult":    {models.EntityConcept, models.EntityThing},
			"easy":         {models.EntityConcept, models.EntityThing},
			"important":    {models.EntityConcept, models.EntityThing, models.EntityEvent, models.EntityPerson},
			"beautiful":    {models.EntityPerson, models.EntityPlace, models.EntityThing, models.EntityPhenomenon},
			"pretty":       {models.EntityPerson, models.EntityPlace, models.EntityThing, models.EntityAnimal},
			"clean":        personPlace,
			"dirty":        physical,
			"warm":         {models.EntityThing, models.EntityPlace, models.EntityPhenomenon, models.EntityPerson},
			"hot":          {models.EntityThing, models.EntityPlace, models.EntityPhenomenon},
			"cold":         {models.EntityThing, models.EntityPlace, models.EntityPhenomenon},
			"cool":         {models.EntityThing, models.EntityPlace, models.EntityPhenomenon, models.EntityPerson},
			"fast":         {models.EntityPerson, models.EntityAnimal, models.EntityThing},
			"slow":         {models.EntityPerson, models.EntityAnimal, models.EntityThing},
			"strong":       {models.EntityPerson, models.EntityAnimal, models.EntityThing, models.EntityPhenomenon},
			"weak":         {models.EntityPerson, models.EntityAnimal, models.EntityThing},
			"new":          personThing,
			"bright":       {models.EntityPlace, models.EntityThing, models.EntityPerson},
			"dark":         {models.EntityPlace, models.EntityThing},
		},
		EntityAdjectiveFallback: map[models.EntityType]AdjectiveFallback{
			models.EntityPerson: {
				Adjectives: []string{"good", "bad", "big", "small", "nice", "great", "wonderful", "energetic", "honest", "serious"},
				Tags:       []string{"people", "feelings", "personality", "appearance"},
			},
			models.EntityAnimal: {
				Adjectives: []string{"big", "small", "long", "short", "good", "cute"},
				Tags:       []string{"animals", "appearance", "size"},
			},
			models.EntityThing: {
				Adjectives: []string{"big", "small", "long", "short", "good", "bad", "new", "red", "blue", "white", "black", "round"},
				Tags:       []string{"objects", "taste", "quantity", "color", "size", "shape"},
			},
			models.EntityPlace: {
				Adjectives: []string{"big", "small", "far", "near", "good", "wide", "narrow", "nice", "wonderful"},
				Tags:       []string{"places", "size", "distance"},
			},
			models.EntityConcept: {
				Adjectives: []string{"good", "bad", "new", "wonderful", "serious"},
				Tags:       []string{"study", "abstract"},
			},
			models.EntityGroup: {
				Adjectives: []string{"big", "small", "good", "famous", "new"},
				Tags:       []string{"people", "size"},
			},
			models.EntityEvent: {
				Adjectives: []string{"long", "short", "good", "big", "wonderful"},
				Tags:       []string{"events", "time"},
			},
			models.EntityPhenomenon: {
				Adjectives: []string{"calm", "sudden", "mild"},
				Tags:       []string{"weather"},
			},
		},
		IdentityCrossPairs: [][2]models.EntityType{
			{models.EntityPerson, models.EntityConcept},
			{models.EntityThing, models.EntityConcept},
			{models.EntityPlace, models.EntityConcept},
		},
		AnimalActionSemantics: []string{"action", "motion", "physiological"},
		TimeTags:              []string{"time", "temporal"},
		ContextualThreshold:   0.3,
	}
}
