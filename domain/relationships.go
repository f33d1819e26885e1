package domain

// EntityKind names a stored entity or association by its table.
type EntityKind string

const (
	KindCountry         EntityKind = "countries"
	KindAgency          EntityKind = "agencies"
	KindCrew            EntityKind = "crew"
	KindRocket          EntityKind = "rockets"
	KindPayload         EntityKind = "payloads"
	KindLaunchpad       EntityKind = "launchpads"
	KindLandpad         EntityKind = "landpads"
	KindLaunch          EntityKind = "launches"
	KindLaunchFailure   EntityKind = "launch_failures"
	KindLaunchPayload   EntityKind = "launch_payloads"
	KindLaunchCrew      EntityKind = "launch_crew"
	KindPayloadCustomer EntityKind = "payload_customers"
	KindPayloadNorad    EntityKind = "payload_norad"

	// KindCatalog labels audit notes about the catalog as a whole, such as a bulk load.
	KindCatalog EntityKind = "catalog"
)

// Entities lists the kinds that carry a surrogate id and can be deleted through DeleteEntity.
var Entities = []EntityKind{
	KindCountry, KindAgency, KindCrew, KindRocket, KindPayload,
	KindLaunchpad, KindLandpad, KindLaunch, KindLaunchFailure,
}

// HasID reports whether rows of this kind are addressed by a surrogate id.
// Association kinds are keyed by their composite pair instead.
func (k EntityKind) HasID() bool {
	switch k {
	case KindLaunchPayload, KindLaunchCrew, KindPayloadCustomer, KindPayloadNorad:
		return false
	}
	return true
}

func (k EntityKind) String() string { return string(k) }

// ReferentialAction is what happens to a dependent row when the row it references is deleted.
type ReferentialAction string

const (
	// Cascade deletes the dependent row: it has no meaning without its parent.
	Cascade ReferentialAction = "CASCADE"
	// SetNull clears the reference and keeps the dependent row as a historical fact.
	SetNull ReferentialAction = "SET NULL"
)

// Relationship is one foreign key of the catalog and its delete policy.
type Relationship struct {
	Parent EntityKind
	Child  EntityKind
	Column string // Foreign key column on Child.
	Action ReferentialAction
}

// Relationships is the complete delete policy of the catalog. The schema migrations declare the
// same referential actions.
var Relationships = []Relationship{
	{Parent: KindCountry, Child: KindAgency, Column: "country_id", Action: SetNull},
	{Parent: KindAgency, Child: KindCrew, Column: "agency_id", Action: Cascade},
	{Parent: KindAgency, Child: KindRocket, Column: "agency_id", Action: Cascade},
	{Parent: KindAgency, Child: KindLaunchpad, Column: "agency_id", Action: Cascade},
	{Parent: KindRocket, Child: KindLaunch, Column: "rocket_id", Action: Cascade},
	{Parent: KindLaunchpad, Child: KindLaunch, Column: "launchpad_id", Action: Cascade},
	{Parent: KindLandpad, Child: KindLaunch, Column: "landpad_id", Action: SetNull},
	{Parent: KindLaunch, Child: KindLaunchFailure, Column: "launch_id", Action: Cascade},
	{Parent: KindLaunch, Child: KindLaunchPayload, Column: "launch_id", Action: Cascade},
	{Parent: KindLaunch, Child: KindLaunchCrew, Column: "launch_id", Action: Cascade},
	{Parent: KindPayload, Child: KindLaunchPayload, Column: "payload_id", Action: Cascade},
	{Parent: KindPayload, Child: KindPayloadCustomer, Column: "payload_id", Action: Cascade},
	{Parent: KindPayload, Child: KindPayloadNorad, Column: "payload_id", Action: Cascade},
	{Parent: KindCrew, Child: KindLaunchCrew, Column: "crew_id", Action: Cascade},
}

// DependentsOf returns the relationships in which kind is the referenced parent.
func DependentsOf(kind EntityKind) []Relationship {
	var out []Relationship
	for _, rel := range Relationships {
		if rel.Parent == kind {
			out = append(out, rel)
		}
	}
	return out
}
