package models

import "strings"

// EntityType classifies the ontological kind of a vocabulary item.
type EntityType string

const (
	EntityPerson     EntityType = "person"
	EntityAnimal     EntityType = "animal"
	EntityThing      EntityType = "thing"
	EntityPlace      EntityType = "place"
	EntityConcept    EntityType = "concept"
	EntityGroup      EntityType = "group"
	EntityEvent      EntityType = "event"
	EntityPhenomenon EntityType = "phenomenon"
)

// ValidEntityTypes is the set of all valid entity types.
var ValidEntityTypes = []EntityType{
	EntityPerson,
	EntityAnimal,
	EntityThing,
	EntityPlace,
	EntityConcept,
	EntityGroup,
	EntityEvent,
	EntityPhenomenon,
}

// IsValid returns true if the entity type is recognized.
func (et EntityType) IsValid() bool {
	for i := range ValidEntityTypes {
		if et == ValidEntityTypes[i] {
			return true
		}
	}
	return false
}

// RelationshipType classifies the logical relation a grammar template
// expresses between its slots.
type RelationshipType string

const (
	RelationshipOwnership   RelationshipType = "ownership"
	RelationshipAssociation RelationshipType = "association"
	RelationshipAction      RelationshipType = "action"
	RelationshipDescription RelationshipType = "description"
	RelationshipLocation    RelationshipType = "location"
	RelationshipIdentity    RelationshipType = "identity"
	RelationshipAttribution RelationshipType = "attribution"
)

// ValidRelationshipTypes is the set of all valid relationship types.
var ValidRelationshipTypes = []RelationshipType{
	RelationshipOwnership,
	RelationshipAssociation,
	RelationshipAction,
	RelationshipDescription,
	RelationshipLocation,
	RelationshipIdentity,
	RelationshipAttribution,
}

// IsValid returns true if the relationship type is recognized.
func (rt RelationshipType) IsValid() bool {
	for _, v := range ValidRelationshipTypes {
		if rt == v {
			return true
		}
	}
	return false
}

// ParseRelationship accepts either case ("OWNERSHIP" or "ownership").
func ParseRelationship(s string) (RelationshipType, bool) {
	rt := RelationshipType(strings.ToLower(strings.TrimSpace(s)))
	return rt, rt.IsValid()
}

// SemanticDomain groups entity types and tags by topical context.
type SemanticDomain string

const (
	DomainDailyLife    SemanticDomain = "daily_life"
	DomainAcademic     SemanticDomain = "academic"
	DomainProfessional SemanticDomain = "professional"
	DomainSocial       SemanticDomain = "social"
	DomainPhysical     SemanticDomain = "physical"
	DomainEmotional    SemanticDomain = "emotional"
	DomainTemporal     SemanticDomain = "temporal"
	DomainSpatial      SemanticDomain = "spatial"
	DomainAbstract     SemanticDomain = "abstract"
)

// ValidSemanticDomains is the set of all valid semantic domains.
var ValidSemanticDomains = []SemanticDomain{
	DomainDailyLife,
	DomainAcademic,
	DomainProfessional,
	DomainSocial,
	DomainPhysical,
	DomainEmotional,
	DomainTemporal,
	DomainSpatial,
	DomainAbstract,
}

// IsValid returns true if the domain is recognized.
func (sd SemanticDomain) IsValid() bool {
	for _, v := range ValidSemanticDomains {
		if sd == v {
			return true
		}
	}
	return false
}
