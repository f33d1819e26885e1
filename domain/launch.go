package domain

import (
	"context"
	"time"
)

// LaunchRepository defines the interface for managing Launches, the central fact of the catalog,
// together with their failure records and payload and crew manifests.
//
// Every write through this interface updates the counters of the launchpad and landpad involved
// in the same transaction.
type LaunchRepository interface {
	// CreateLaunch inserts a new launch. RocketID must exist; LaunchpadID and LandpadID must exist when set.
	CreateLaunch(ctx context.Context, launch *Launch) (int64, error)

	// GetLaunch retrieves a launch by id.
	GetLaunch(ctx context.Context, id int64) (*Launch, error)

	// ListLaunches returns the launches matching filter ordered by date then flight number.
	ListLaunches(ctx context.Context, filter LaunchFilter) ([]*Launch, error)

	// UpdateLaunch replaces the attributes of an existing launch, moving counters between sites as needed.
	UpdateLaunch(ctx context.Context, launch *Launch) error

	// DeleteLaunch removes a launch with its failures and manifests.
	DeleteLaunch(ctx context.Context, id int64) error

	// AddLaunchFailure records a failure for an existing launch and returns its id.
	AddLaunchFailure(ctx context.Context, failure *LaunchFailure) (int64, error)

	// ListLaunchFailures returns the failures recorded for a launch.
	ListLaunchFailures(ctx context.Context, launchID int64) ([]*LaunchFailure, error)

	// DeleteLaunchFailure removes a single failure record.
	DeleteLaunchFailure(ctx context.Context, id int64) error

	// AddLaunchPayload puts a payload on a launch's manifest.
	AddLaunchPayload(ctx context.Context, launchID, payloadID int64) error

	// RemoveLaunchPayload takes a payload off a launch's manifest.
	RemoveLaunchPayload(ctx context.Context, launchID, payloadID int64) error

	// ListLaunchPayloads returns the payloads flown on a launch.
	ListLaunchPayloads(ctx context.Context, launchID int64) ([]*Payload, error)

	// ListPayloadLaunches returns the launches that carried a payload.
	ListPayloadLaunches(ctx context.Context, payloadID int64) ([]*Launch, error)

	// AddLaunchCrew assigns a crew member to a launch in the given role.
	AddLaunchCrew(ctx context.Context, assignment *LaunchCrew) error

	// RemoveLaunchCrew removes a crew assignment.
	RemoveLaunchCrew(ctx context.Context, launchID, crewID int64) error

	// ListLaunchCrew returns the crew assignments of a launch.
	ListLaunchCrew(ctx context.Context, launchID int64) ([]*LaunchCrew, error)

	// ListCrewLaunches returns the launches a crew member flew on.
	ListCrewLaunches(ctx context.Context, crewID int64) ([]*Launch, error)
}

// Launch is a single launch event.
type Launch struct {
	ID             int64
	Name           string
	FlightNumber   int
	RocketID       int64  // Mandatory.
	LaunchpadID    *int64 // Optional; the launch is deleted with its launchpad.
	LandpadID      *int64 // Optional; cleared when the landpad is deleted.
	DateUTC        string // RFC 3339 in UTC, kept equal to DateUnix.
	DateUnix       int64  // Seconds since the epoch, canonical.
	TBD            bool
	NET            bool // "No earlier than".
	Success        bool
	Upcoming       bool
	LandingAttempt bool
	LandingSuccess bool
	FairingStatus  FairingStatus // Optional.
	LandingType    LandingType   // Optional.
	Details        string
}

// Date returns the launch date as a time in UTC.
func (l *Launch) Date() time.Time {
	return time.Unix(l.DateUnix, 0).UTC()
}

// NormalizeDate reconciles the two date representations.
// When only one is set the other is derived from it. When both are set they must denote the same
// second, otherwise a ConstraintViolation is returned and nothing is changed.
func (l *Launch) NormalizeDate() error {
	if l.DateUTC == "" {
		if l.DateUnix == 0 {
			return &ConstraintViolation{Entity: "launch", Field: "date_utc", Reason: "a launch date is required"}
		}
		l.DateUTC = l.Date().Format(time.RFC3339)
		return nil
	}

	parsed, err := time.Parse(time.RFC3339, l.DateUTC)
	if err != nil {
		return &ConstraintViolation{Entity: "launch", Field: "date_utc", Value: l.DateUTC, Reason: "must be an RFC 3339 timestamp", Err: err}
	}

	if l.DateUnix != 0 && parsed.Unix() != l.DateUnix {
		return &ConstraintViolation{Entity: "launch", Field: "date_unix", Value: l.DateUnix, Reason: "disagrees with date_utc " + l.DateUTC}
	}

	l.DateUnix = parsed.Unix()
	l.DateUTC = parsed.UTC().Truncate(time.Second).Format(time.RFC3339)
	return nil
}

// Validate checks the attribute domains of the launch. It expects NormalizeDate to have been applied.
func (l *Launch) Validate() error {
	var landingErr, dateErr error
	if l.LandingSuccess && !l.LandingAttempt {
		landingErr = &ConstraintViolation{Entity: "launch", Field: "landing_success", Value: true, Reason: "requires landing_attempt"}
	}
	if l.DateUTC != l.Date().Format(time.RFC3339) {
		dateErr = &ConstraintViolation{Entity: "launch", Field: "date_utc", Value: l.DateUTC, Reason: "disagrees with date_unix"}
	}
	return firstError(
		requireText("launch", "name", l.Name),
		nonNegative("launch", "flight_number", l.FlightNumber),
		requireRef("launch", "rocket_id", "rocket", l.RocketID),
		optionalRef("launch", "launchpad_id", "launchpad", l.LaunchpadID),
		optionalRef("launch", "landpad_id", "landpad", l.LandpadID),
		dateErr,
		checkOptionalEnum("launch", "fairing_status", l.FairingStatus),
		checkOptionalEnum("launch", "landing_type", l.LandingType),
		landingErr,
	)
}

// LaunchFilter selects launches by the indexed columns of the launches table.
// Nil fields do not restrict the result.
type LaunchFilter struct {
	From        *time.Time // Inclusive lower bound on the launch date.
	To          *time.Time // Exclusive upper bound on the launch date.
	RocketID    *int64
	LaunchpadID *int64
	LandpadID   *int64
	Upcoming    *bool
	Success     *bool
	Limit       int // Zero means no limit.
	Offset      int
}

// LaunchFailure records the details of a launch failure.
type LaunchFailure struct {
	ID          int64
	LaunchID    int64
	TimeSeconds *int     // Seconds after liftoff.
	AltitudeKm  *float64 // Altitude at the time of failure.
	Reason      string
}

// Validate checks the attribute domains of the failure record.
func (f *LaunchFailure) Validate() error {
	var altErr error
	if f.AltitudeKm != nil {
		altErr = nonNegative("launch_failure", "altitude_km", *f.AltitudeKm)
	}
	return firstError(requireRef("launch_failure", "launch_id", "launch", f.LaunchID), altErr)
}

// LaunchCrew assigns a crew member to a launch with a role such as "Commander".
type LaunchCrew struct {
	LaunchID int64
	CrewID   int64
	Role     string
}
