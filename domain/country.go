package domain

import "context"

// CountryRepository defines the interface for managing Countries, the sovereign nations agencies belong to.
type CountryRepository interface {
	// CreateCountry inserts a new country and returns its generated id.
	// A duplicate ISO code or name fails with a ConstraintViolation.
	CreateCountry(ctx context.Context, country *Country) (int64, error)

	// GetCountry retrieves a country by id. It returns ErrNotFound if it does not exist.
	GetCountry(ctx context.Context, id int64) (*Country, error)

	// GetCountryByISOCode retrieves a country by its ISO-3166 alpha-3 code.
	GetCountryByISOCode(ctx context.Context, isoCode string) (*Country, error)

	// ListCountries returns every country ordered by name.
	ListCountries(ctx context.Context) ([]*Country, error)

	// UpdateCountry replaces the code and name of an existing country.
	UpdateCountry(ctx context.Context, country *Country) error

	// DeleteCountry removes a country. Agencies referencing it survive with their country cleared.
	DeleteCountry(ctx context.Context, id int64) error
}

// Country is a sovereign nation.
type Country struct {
	ID      int64  // Surrogate identity.
	ISOCode string // ISO-3166 alpha-3 code, unique.
	Name    string // Display name, unique.
}

// Validate checks the attribute domains of the country.
func (c *Country) Validate() error {
	if !isoAlpha3.MatchString(c.ISOCode) {
		return &ConstraintViolation{Entity: "country", Field: "iso_code", Value: c.ISOCode, Reason: "must be three upper-case letters"}
	}
	return requireText("country", "name", c.Name)
}
