package semantic

import (
	"maps"
	"slices"

	"github.com/ajitpratap0/kotoba/internal/models"
)

// Pair is an unordered entity-type pair key.
type Pair struct {
	A, B models.EntityType
}

// pairOf normalises the order so that lookups are symmetric.
func pairOf(a, b models.EntityType) Pair {
	if b < a {
		a, b = b, a
	}
	return Pair{A: a, B: b}
}

// Tables holds every static table the model scores against.
type Tables struct {
	// EntityDomains maps each entity type to its ordered domains.
	EntityDomains map[models.EntityType][]models.SemanticDomain
	// Compatibility holds explicit pair scores. Keys are order-normalised.
	Compatibility map[Pair]float64
	// Contextual maps relationship -> source entity -> allowed targets.
	Contextual map[models.RelationshipType]map[models.EntityType][]models.EntityType
	// RelationshipWeights maps relationship -> entity -> preference weight.
	RelationshipWeights map[models.RelationshipType]map[models.EntityType]float64
	// TagDomains maps verb semantic tags and adjective tags to domains.
	TagDomains map[string][]models.SemanticDomain
	// FallbackTags lists vocabulary tags that can stand in for an entity type
	// when no entry carries it.
	FallbackTags map[models.EntityType][]string
	// VerbRelationshipTags and AdjectiveRelationshipTags list the tags that
	// fit each relationship.
	VerbRelationshipTags      map[models.RelationshipType][]string
	AdjectiveRelationshipTags map[models.RelationshipType][]string
}

// DefaultTables returns the built-in tables.
func DefaultTables() Tables {
	return Tables{
		EntityDomains: map[models.EntityType][]models.SemanticDomain{
			models.EntityPerson:     {models.DomainSocial, models.DomainDailyLife, models.DomainProfessional, models.DomainEmotional, models.DomainAcademic},
			models.EntityAnimal:     {models.DomainPhysical, models.DomainDailyLife, models.DomainEmotional},
			models.EntityThing:      {models.DomainPhysical, models.DomainDailyLife, models.DomainProfessional},
			models.EntityPlace:      {models.DomainSpatial, models.DomainDailyLife, models.DomainSocial},
			models.EntityConcept:    {models.DomainAbstract, models.DomainAcademic, models.DomainEmotional},
			models.EntityGroup:      {models.DomainSocial, models.DomainProfessional},
			models.EntityEvent:      {models.DomainTemporal, models.DomainSocial},
			models.EntityPhenomenon: {models.DomainPhysical, models.DomainTemporal},
		},
		Compatibility: map[Pair]float64{
			pairOf(models.EntityPerson, models.EntityPerson):     0.9,
			pairOf(models.EntityPerson, models.EntityThing):      0.8,
			pairOf(models.EntityPerson, models.EntityPlace):      0.8,
			pairOf(models.EntityPerson, models.EntityGroup):      0.8,
			pairOf(models.EntityPerson, models.EntityAnimal):     0.7,
			pairOf(models.EntityPerson, models.EntityConcept):    0.7,
			pairOf(models.EntityPerson, models.EntityEvent):      0.7,
			pairOf(models.EntityPerson, models.EntityPhenomenon): 0.3,
			pairOf(models.EntityAnimal, models.EntityAnimal):     0.8,
			pairOf(models.EntityAnimal, models.EntityPlace):      0.7,
			pairOf(models.EntityAnimal, models.EntityThing):      0.5,
			pairOf(models.EntityThing, models.EntityThing):       0.6,
			pairOf(models.EntityThing, models.EntityPlace):       0.7,
			pairOf(models.EntityPlace, models.EntityPlace):       0.5,
			pairOf(models.EntityConcept, models.EntityConcept):   0.7,
			pairOf(models.EntityGroup, models.EntityPlace):       0.7,
			pairOf(models.EntityEvent, models.EntityPlace):       0.8,
			pairOf(models.EntityPhenomenon, models.EntityPlace):  0.6,
		},
		Contextual: map[models.RelationshipType]map[models.EntityType][]models.EntityType{
			models.RelationshipOwnership: {
				models.EntityPerson: {models.EntityThing, models.EntityAnimal, models.EntityPlace, models.EntityConcept, models.EntityGroup},
				models.EntityGroup:  {models.EntityThing, models.EntityPlace, models.EntityConcept},
				models.EntityPlace:  {models.EntityThing},
			},
			models.RelationshipAction: {
				models.EntityPerson: {models.EntityThing, models.EntityPlace, models.EntityConcept, models.EntityPerson, models.EntityAnimal, models.EntityEvent},
				models.EntityAnimal: {models.EntityThing, models.EntityPlace, models.EntityAnimal},
				models.EntityGroup:  {models.EntityThing, models.EntityPlace, models.EntityEvent, models.EntityConcept},
			},
			models.RelationshipLocation: {
				models.EntityPerson: {models.EntityPlace},
				models.EntityAnimal: {models.EntityPlace},
				models.EntityThing:  {models.EntityPlace},
				models.EntityGroup:  {models.EntityPlace},
				models.EntityEvent:  {models.EntityPlace},
			},
			models.RelationshipDescription: {
				models.EntityPerson: {models.EntityPerson, models.EntityThing, models.EntityConcept},
				models.EntityPlace:  {models.EntityThing, models.EntityConcept},
				models.EntityThing:  {models.EntityConcept},
				models.EntityAnimal: {models.EntityThing},
			},
			models.RelationshipIdentity: {
				models.EntityPerson:     {models.EntityPerson, models.EntityConcept},
				models.EntityThing:      {models.EntityThing, models.EntityConcept},
				models.EntityPlace:      {models.EntityPlace, models.EntityConcept},
				models.EntityAnimal:     {models.EntityAnimal},
				models.EntityConcept:    {models.EntityConcept},
				models.EntityGroup:      {models.EntityGroup},
				models.EntityEvent:      {models.EntityEvent},
				models.EntityPhenomenon: {models.EntityPhenomenon},
			},
			models.RelationshipAttribution: {
				models.EntityPerson: {models.EntityConcept, models.EntityThing, models.EntityPerson},
				models.EntityThing:  {models.EntityConcept},
				models.EntityPlace:  {models.EntityConcept, models.EntityThing},
				models.EntityGroup:  {models.EntityConcept},
			},
			models.RelationshipAssociation: {
				models.EntityPerson: {models.EntityPerson, models.EntityGroup, models.EntityPlace, models.EntityThing, models.EntityAnimal},
				models.EntityGroup:  {models.EntityPerson, models.EntityPlace},
				models.EntityPlace:  {models.EntityThing, models.EntityPlace},
				models.EntityThing:  {models.EntityThing},
			},
		},
		RelationshipWeights: map[models.RelationshipType]map[models.EntityType]float64{
			models.RelationshipAction: {
				models.EntityPerson: 0.9, models.EntityAnimal: 0.7, models.EntityGroup: 0.8,
				models.EntityThing: 0.1, models.EntityPlace: 0.2, models.EntityConcept: 0.2,
				models.EntityEvent: 0.3, models.EntityPhenomenon: 0.3,
			},
			models.RelationshipOwnership: {
				models.EntityPerson: 0.9, models.EntityGroup: 0.7, models.EntityAnimal: 0.4,
				models.EntityThing: 0.5, models.EntityPlace: 0.5, models.EntityConcept: 0.4,
			},
			models.RelationshipLocation: {
				models.EntityPlace: 0.9, models.EntityPerson: 0.7, models.EntityAnimal: 0.6,
				models.EntityThing: 0.5, models.EntityGroup: 0.6, models.EntityEvent: 0.5,
			},
			models.RelationshipDescription: {
				models.EntityPerson: 0.8, models.EntityThing: 0.8, models.EntityPlace: 0.8,
				models.EntityAnimal: 0.7, models.EntityConcept: 0.6, models.EntityEvent: 0.6,
			},
			models.RelationshipIdentity: {
				models.EntityPerson: 0.8, models.EntityConcept: 0.7, models.EntityThing: 0.6,
				models.EntityPlace: 0.6, models.EntityAnimal: 0.6,
			},
			models.RelationshipAttribution: {
				models.EntityPerson: 0.8, models.EntityConcept: 0.7, models.EntityThing: 0.6,
				models.EntityPlace: 0.6, models.EntityGroup: 0.6,
			},
			models.RelationshipAssociation: {
				models.EntityPerson: 0.8, models.EntityGroup: 0.7, models.EntityThing: 0.6,
				models.EntityPlace: 0.6, models.EntityAnimal: 0.6,
			},
		},
		TagDomains: map[string][]models.SemanticDomain{
			// verb semantics
			"action":        {models.DomainPhysical, models.DomainDailyLife},
			"motion":        {models.DomainPhysical, models.DomainSpatial},
			"cognitive":     {models.DomainAcademic, models.DomainAbstract},
			"communication": {models.DomainSocial},
			"learning":      {models.DomainAcademic},
			"transaction":   {models.DomainDailyLife, models.DomainProfessional},
			"occupation":    {models.DomainProfessional},
			"social":        {models.DomainSocial},
			"emotion":       {models.DomainEmotional},
			"change":        {models.DomainAbstract, models.DomainTemporal},
			"life":          {models.DomainDailyLife},
			"physiological": {models.DomainPhysical},
			"perception":    {models.DomainPhysical, models.DomainEmotional},
			"existence":     {models.DomainSpatial, models.DomainAbstract},
			"spatial":       {models.DomainSpatial},
			"weather":       {models.DomainPhysical, models.DomainTemporal},
			"nature":        {models.DomainPhysical},
			"temporal":      {models.DomainTemporal},
			"initiation":    {models.DomainTemporal},
			"termination":   {models.DomainTemporal},
			"stative":       {models.DomainAbstract},
			// adjective tags
			"description": {models.DomainDailyLife, models.DomainPhysical, models.DomainAbstract},
			"feelings":    {models.DomainEmotional},
			"people":      {models.DomainSocial},
			"places":      {models.DomainSpatial},
			"taste":       {models.DomainPhysical, models.DomainDailyLife},
			"quantity":    {models.DomainAbstract, models.DomainPhysical},
			"study":       {models.DomainAcademic},
			"daily life":  {models.DomainDailyLife},
		},
		FallbackTags: map[models.EntityType][]string{
			models.EntityPerson:     {"people", "family", "occupation"},
			models.EntityAnimal:     {"animals", "pets"},
			models.EntityThing:      {"objects", "food", "clothing", "tools"},
			models.EntityPlace:      {"places", "buildings", "nature"},
			models.EntityConcept:    {"abstract", "ideas", "study"},
			models.EntityGroup:      {"organizations", "groups"},
			models.EntityEvent:      {"events", "holidays"},
			models.EntityPhenomenon: {"weather", "nature"},
		},
		VerbRelationshipTags: map[models.RelationshipType][]string{
			models.RelationshipAction: {
				"action", "motion", "cognitive", "communication", "learning", "transaction",
				"occupation", "social", "physiological", "perception", "emotion", "life",
			},
			models.RelationshipLocation:    {"motion", "spatial", "existence"},
			models.RelationshipAssociation: {"social", "communication"},
		},
		AdjectiveRelationshipTags: map[models.RelationshipType][]string{
			models.RelationshipDescription: {"description", "feelings", "people", "places", "taste", "quantity"},
			models.RelationshipAttribution: {"description", "people", "places", "taste", "study", "daily life"},
		},
	}
}

// WithEntityConfig returns a copy of t with per-entity domains and fallback
// tags overridden by cfg. Entities absent from cfg keep their defaults.
func (t Tables) WithEntityConfig(cfg map[models.EntityType]models.EntityConfig) Tables {
	if len(cfg) == 0 {
		return t
	}
	t.EntityDomains = maps.Clone(t.EntityDomains)
	t.FallbackTags = maps.Clone(t.FallbackTags)
	for et, c := range cfg {
		if len(c.Domains) > 0 {
			t.EntityDomains[et] = slices.Clone(c.Domains)
		}
		if len(c.FallbackTags) > 0 {
			t.FallbackTags[et] = slices.Clone(c.FallbackTags)
		}
	}
	return t
}

// structureInfo is what a template structure fixes regardless of corpus:
// its relationship and, for templates with no actor slot, the implied actor.
type structureInfo struct {
	relationship  models.RelationshipType
	implicitActor models.EntityType
}

// structures is the static template table.
var structures = map[string]structureInfo{
	"A_wa_B_desu":    {relationship: models.RelationshipIdentity},
	"A_no_B":         {relationship: models.RelationshipOwnership},
	"A_wo_Verb":      {relationship: models.RelationshipAction, implicitActor: models.EntityPerson},
	"A_ga_Verb":      {relationship: models.RelationshipAction},
	"A_wa_B_wo_Verb": {relationship: models.RelationshipAction},
	"A_wa_B_ni_Verb": {relationship: models.RelationshipLocation},
	"Adj_Noun":       {relationship: models.RelationshipDescription},
	"A_wa_Adj_desu":  {relationship: models.RelationshipDescription},
	"A_wa_B_ga_Adj":  {relationship: models.RelationshipAttribution},
	"A_to_B":         {relationship: models.RelationshipAssociation},
}

// RelationshipForStructure returns the relationship a template structure
// expresses. Unknown structures are treated as associations.
func RelationshipForStructure(structure string) models.RelationshipType {
	if info, ok := structures[structure]; ok {
		return info.relationship
	}
	return models.RelationshipAssociation
}

// ImplicitActor returns the actor a structure implies when none of its slots
// is the actor. In "A_wo_Verb" the A slot is the object and the speaker, a
// person, acts.
func ImplicitActor(structure string) (models.EntityType, bool) {
	info, ok := structures[structure]
	if !ok || info.implicitActor == "" {
		return "", false
	}
	return info.implicitActor, true
}

// KnownStructures lists every structure id with a fixed relationship, sorted.
func KnownStructures() []string {
	return slices.Sorted(maps.Keys(structures))
}
