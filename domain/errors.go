package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned when a record addressed by id or natural key does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrConstraintViolation matches every *ConstraintViolation through errors.Is.
	ErrConstraintViolation = errors.New("constraint violation")

	// ErrReferentialIntegrity matches every *ReferentialIntegrityError through errors.Is.
	ErrReferentialIntegrity = errors.New("referential integrity violation")

	// ErrAggregateDrift matches every *AggregateDriftError through errors.Is.
	ErrAggregateDrift = errors.New("aggregate drift")
)

// ConstraintViolation reports a value outside its enumerated or boolean domain, an out of range
// number, a missing mandatory attribute, or a duplicate value for a unique attribute.
type ConstraintViolation struct {
	Entity string // Table-level name of the entity, e.g. "country".
	Field  string // Offending attribute.
	Value  any    // Rejected value, if known.
	Reason string // Short description of the violated rule.
	Err    error  // Underlying driver error when the violation was raised by the database.
}

func (e *ConstraintViolation) Error() string {
	msg := fmt.Sprintf("constraint violation on %s.%s", e.Entity, e.Field)
	if e.Value != nil {
		msg += fmt.Sprintf(" (value %v)", e.Value)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func (e *ConstraintViolation) Is(target error) bool { return target == ErrConstraintViolation }

func (e *ConstraintViolation) Unwrap() error { return e.Err }

// ReferentialIntegrityError reports a foreign key that does not resolve to an existing row.
type ReferentialIntegrityError struct {
	Entity   string // Entity holding the reference.
	Field    string // Foreign key column.
	Target   string // Referenced entity.
	TargetID int64  // Referenced id that was not found, zero when unknown.
	Err      error  // Underlying driver error when raised by the database.
}

func (e *ReferentialIntegrityError) Error() string {
	if e.TargetID == 0 {
		return fmt.Sprintf("referential integrity violation on %s.%s: %s reference does not resolve", e.Entity, e.Field, e.Target)
	}
	return fmt.Sprintf("referential integrity violation on %s.%s: %s %d does not exist", e.Entity, e.Field, e.Target, e.TargetID)
}

func (e *ReferentialIntegrityError) Is(target error) bool { return target == ErrReferentialIntegrity }

func (e *ReferentialIntegrityError) Unwrap() error { return e.Err }

// SiteDrift is a single mismatch between a site's stored counters and the launches referencing it.
type SiteDrift struct {
	Site            SiteKind
	SiteID          int64
	Name            string
	StoredAttempts  int
	ActualAttempts  int
	StoredSuccesses int
	ActualSuccesses int
}

func (d SiteDrift) String() string {
	return fmt.Sprintf("%s %d (%s): attempts %d/%d, successes %d/%d",
		d.Site, d.SiteID, d.Name, d.StoredAttempts, d.ActualAttempts, d.StoredSuccesses, d.ActualSuccesses)
}

// AggregateDriftError is returned by reconciliation when stored site counters disagree with the
// launch rows they summarise.
type AggregateDriftError struct {
	Drifts []SiteDrift
}

func (e *AggregateDriftError) Error() string {
	parts := make([]string, len(e.Drifts))
	for i, d := range e.Drifts {
		parts[i] = d.String()
	}
	return fmt.Sprintf("aggregate drift on %d site(s): %s", len(e.Drifts), strings.Join(parts, "; "))
}

func (e *AggregateDriftError) Is(target error) bool { return target == ErrAggregateDrift }
