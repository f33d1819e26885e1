package domain

import (
	"context"
	"time"
)

// CrewRepository defines the interface for managing Crew, the individual spaceflight participants.
type CrewRepository interface {
	// CreateCrew inserts a new crew member. AgencyID must reference an existing agency.
	CreateCrew(ctx context.Context, crew *Crew) (int64, error)

	// GetCrew retrieves a crew member by id.
	GetCrew(ctx context.Context, id int64) (*Crew, error)

	// FindCrewByName retrieves the first crew member with the given name.
	FindCrewByName(ctx context.Context, name string) (*Crew, error)

	// ListCrew returns every crew member, optionally restricted to one agency when agencyID is non-nil.
	ListCrew(ctx context.Context, agencyID *int64) ([]*Crew, error)

	// UpdateCrew replaces the attributes of an existing crew member.
	UpdateCrew(ctx context.Context, crew *Crew) error

	// DeleteCrew removes a crew member and their launch assignments.
	DeleteCrew(ctx context.Context, id int64) error
}

// Crew is a person who has flown or is assigned to fly.
type Crew struct {
	ID           int64
	Name         string
	AgencyID     int64 // Mandatory owning agency.
	Status       CrewStatus
	Gender       Gender
	Nationality  string
	MissionCount int
	TimeInSpace  time.Duration // Cumulative, stored with second precision.
	Wikipedia    string
}

// Validate checks the attribute domains of the crew member.
func (c *Crew) Validate() error {
	return firstError(
		requireText("crew", "name", c.Name),
		requireRef("crew", "agency_id", "agency", c.AgencyID),
		checkEnum("crew", "status", c.Status),
		checkEnum("crew", "gender", c.Gender),
		nonNegative("crew", "mission_count", c.MissionCount),
		nonNegative("crew", "time_in_space", int64(c.TimeInSpace)),
	)
}
