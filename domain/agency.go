package domain

import "context"

// AgencyRepository defines the interface for managing Agencies, the organisations operating hardware.
type AgencyRepository interface {
	// CreateAgency inserts a new agency and returns its generated id.
	// A set CountryID must reference an existing country.
	CreateAgency(ctx context.Context, agency *Agency) (int64, error)

	// GetAgency retrieves an agency by id.
	GetAgency(ctx context.Context, id int64) (*Agency, error)

	// FindAgencyByName retrieves the first agency with the given name.
	FindAgencyByName(ctx context.Context, name string) (*Agency, error)

	// ListAgencies returns every agency ordered by name.
	ListAgencies(ctx context.Context) ([]*Agency, error)

	// UpdateAgency replaces the attributes of an existing agency.
	UpdateAgency(ctx context.Context, agency *Agency) error

	// DeleteAgency removes an agency together with its crew, rockets and launchpads,
	// and transitively every launch flown on those rockets or from those pads.
	DeleteAgency(ctx context.Context, id int64) error
}

// Agency is an organisation that operates rockets, launch sites and crew.
type Agency struct {
	ID           int64
	Name         string
	Abbreviation string
	CountryID    *int64 // Optional; cleared when the country is deleted.
	FoundedYear  *int
	Description  string
}

// Validate checks the attribute domains of the agency.
func (a *Agency) Validate() error {
	var yearErr error
	if a.FoundedYear != nil {
		yearErr = inRange("agency", "founded_year", float64(*a.FoundedYear), 1800, 2100)
	}
	return firstError(
		requireText("agency", "name", a.Name),
		optionalRef("agency", "country_id", "country", a.CountryID),
		yearErr,
	)
}
