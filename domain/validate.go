package domain

import (
	"regexp"
	"strings"
	"time"
)

var isoAlpha3 = regexp.MustCompile(`^[A-Z]{3}$`)

// dateLayout is the calendar date format used by Rocket.FirstFlight.
const dateLayout = "2006-01-02"

func requireText(entity, field, v string) error {
	if strings.TrimSpace(v) == "" {
		return &ConstraintViolation{Entity: entity, Field: field, Value: v, Reason: "must not be empty"}
	}
	return nil
}

func requireRef(entity, field, target string, id int64) error {
	if id <= 0 {
		return &ReferentialIntegrityError{Entity: entity, Field: field, Target: target, TargetID: id}
	}
	return nil
}

func optionalRef(entity, field, target string, id *int64) error {
	if id == nil {
		return nil
	}
	return requireRef(entity, field, target, *id)
}

func nonNegative[N ~int | ~int64 | ~float64](entity, field string, v N) error {
	if v < 0 {
		return &ConstraintViolation{Entity: entity, Field: field, Value: v, Reason: "must not be negative"}
	}
	return nil
}

func inRange(entity, field string, v, lo, hi float64) error {
	if v < lo || v > hi {
		return &ConstraintViolation{Entity: entity, Field: field, Value: v, Reason: "out of range"}
	}
	return nil
}

func optionalInRange(entity, field string, v *float64, lo, hi float64) error {
	if v == nil {
		return nil
	}
	return inRange(entity, field, *v, lo, hi)
}

func optionalDate(entity, field, v string) error {
	if v == "" {
		return nil
	}
	if _, err := time.Parse(dateLayout, v); err != nil {
		return &ConstraintViolation{Entity: entity, Field: field, Value: v, Reason: "must be a YYYY-MM-DD date", Err: err}
	}
	return nil
}

// firstError returns the first non-nil error.
func firstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
