package domain

import "slices"

// CrewStatus is the career status of a crew member.
type CrewStatus string

const (
	CrewActive  CrewStatus = "active"
	CrewRetired CrewStatus = "retired"
	CrewUnknown CrewStatus = "unknown"
)

// AllCrewStatuses lists every permitted CrewStatus.
var AllCrewStatuses = []CrewStatus{CrewActive, CrewRetired, CrewUnknown}

// Gender is the recorded gender of a crew member.
type Gender string

const (
	GenderMale    Gender = "male"
	GenderFemale  Gender = "female"
	GenderOther   Gender = "other"
	GenderUnknown Gender = "unknown"
)

// AllGenders lists every permitted Gender.
var AllGenders = []Gender{GenderMale, GenderFemale, GenderOther, GenderUnknown}

// PayloadType classifies what a payload is.
type PayloadType string

const (
	PayloadSatellite        PayloadType = "Satellite"
	PayloadCapsule          PayloadType = "Capsule"
	PayloadCrewedSpacecraft PayloadType = "Crewed spacecraft"
	PayloadCargoSpacecraft  PayloadType = "Cargo spacecraft"
	PayloadTelescope        PayloadType = "Telescope"
	PayloadProbe            PayloadType = "Probe"
	PayloadRover            PayloadType = "Rover"
	PayloadStationModule    PayloadType = "Space station module"
	PayloadOther            PayloadType = "Other"
)

// AllPayloadTypes lists every permitted PayloadType.
var AllPayloadTypes = []PayloadType{
	PayloadSatellite, PayloadCapsule, PayloadCrewedSpacecraft, PayloadCargoSpacecraft,
	PayloadTelescope, PayloadProbe, PayloadRover, PayloadStationModule, PayloadOther,
}

// Orbit is the target orbit of a payload.
type Orbit string

const (
	OrbitLEO          Orbit = "LEO"
	OrbitMEO          Orbit = "MEO"
	OrbitGEO          Orbit = "GEO"
	OrbitHEO          Orbit = "HEO"
	OrbitSSO          Orbit = "SSO"
	OrbitPolar        Orbit = "Polar"
	OrbitTLI          Orbit = "TLI"
	OrbitMarsTransfer Orbit = "Mars Transfer"
	OrbitOther        Orbit = "Other"
)

// AllOrbits lists every permitted Orbit.
var AllOrbits = []Orbit{
	OrbitLEO, OrbitMEO, OrbitGEO, OrbitHEO, OrbitSSO, OrbitPolar, OrbitTLI, OrbitMarsTransfer, OrbitOther,
}

// ReferenceSystem is the body an orbit is referenced to.
type ReferenceSystem string

const (
	RefGeocentric    ReferenceSystem = "Geocentric"
	RefHeliocentric  ReferenceSystem = "Heliocentric"
	RefSelenocentric ReferenceSystem = "Selenocentric"
	RefBarycentric   ReferenceSystem = "Barycentric"
	RefOther         ReferenceSystem = "Other"
)

// AllReferenceSystems lists every permitted ReferenceSystem.
var AllReferenceSystems = []ReferenceSystem{RefGeocentric, RefHeliocentric, RefSelenocentric, RefBarycentric, RefOther}

// Regime is the orbital regime of a payload.
type Regime string

const (
	RegimeLowEarth       Regime = "low-earth"
	RegimeSunSynchronous Regime = "sun-synchronous"
	RegimeGeostationary  Regime = "geostationary"
	RegimeOther          Regime = "other"
)

// AllRegimes lists every permitted Regime.
var AllRegimes = []Regime{RegimeLowEarth, RegimeSunSynchronous, RegimeGeostationary, RegimeOther}

// LaunchpadStatus is the operational status of a launch site.
type LaunchpadStatus string

const (
	LaunchpadActive            LaunchpadStatus = "active"
	LaunchpadInactive          LaunchpadStatus = "inactive"
	LaunchpadRetired           LaunchpadStatus = "retired"
	LaunchpadUnderConstruction LaunchpadStatus = "under construction"
	LaunchpadPlanned           LaunchpadStatus = "planned"
	LaunchpadUnknown           LaunchpadStatus = "unknown"
)

// AllLaunchpadStatuses lists every permitted LaunchpadStatus.
var AllLaunchpadStatuses = []LaunchpadStatus{
	LaunchpadActive, LaunchpadInactive, LaunchpadRetired, LaunchpadUnderConstruction, LaunchpadPlanned, LaunchpadUnknown,
}

// LandpadStatus is the operational status of a landing site.
type LandpadStatus string

const (
	LandpadActive            LandpadStatus = "active"
	LandpadInactive          LandpadStatus = "inactive"
	LandpadUnknown           LandpadStatus = "unknown"
	LandpadRetired           LandpadStatus = "retired"
	LandpadLost              LandpadStatus = "lost"
	LandpadUnderConstruction LandpadStatus = "under construction"
)

// AllLandpadStatuses lists every permitted LandpadStatus.
var AllLandpadStatuses = []LandpadStatus{
	LandpadActive, LandpadInactive, LandpadUnknown, LandpadRetired, LandpadLost, LandpadUnderConstruction,
}

// LandpadType is the kind of landing site.
type LandpadType string

const (
	LandpadASDS       LandpadType = "ASDS"
	LandpadRTLS       LandpadType = "RTLS"
	LandpadOcean      LandpadType = "Ocean"
	LandpadAutonomous LandpadType = "Autonomous"
	LandpadOther      LandpadType = "Other"
)

// AllLandpadTypes lists every permitted LandpadType.
var AllLandpadTypes = []LandpadType{LandpadASDS, LandpadRTLS, LandpadOcean, LandpadAutonomous, LandpadOther}

// FairingStatus records what happened to a launch's payload fairing.
type FairingStatus string

const (
	FairingNone              FairingStatus = "None"
	FairingExpended          FairingStatus = "Expended"
	FairingReused            FairingStatus = "Reused"
	FairingAttemptedRecovery FairingStatus = "Attempted Recovery"
)

// AllFairingStatuses lists every permitted FairingStatus.
var AllFairingStatuses = []FairingStatus{FairingNone, FairingExpended, FairingReused, FairingAttemptedRecovery}

// LandingType is how a booster attempted to land.
type LandingType string

const (
	LandingASDS  LandingType = "ASDS"
	LandingRTLS  LandingType = "RTLS"
	LandingOcean LandingType = "Ocean"
	LandingOther LandingType = "Other"
)

// AllLandingTypes lists every permitted LandingType.
var AllLandingTypes = []LandingType{LandingASDS, LandingRTLS, LandingOcean, LandingOther}

func (s CrewStatus) Valid() bool      { return slices.Contains(AllCrewStatuses, s) }
func (g Gender) Valid() bool          { return slices.Contains(AllGenders, g) }
func (t PayloadType) Valid() bool     { return slices.Contains(AllPayloadTypes, t) }
func (o Orbit) Valid() bool           { return slices.Contains(AllOrbits, o) }
func (r ReferenceSystem) Valid() bool { return slices.Contains(AllReferenceSystems, r) }
func (r Regime) Valid() bool          { return slices.Contains(AllRegimes, r) }
func (s LaunchpadStatus) Valid() bool { return slices.Contains(AllLaunchpadStatuses, s) }
func (s LandpadStatus) Valid() bool   { return slices.Contains(AllLandpadStatuses, s) }
func (t LandpadType) Valid() bool     { return slices.Contains(AllLandpadTypes, t) }
func (f FairingStatus) Valid() bool   { return slices.Contains(AllFairingStatuses, f) }
func (t LandingType) Valid() bool     { return slices.Contains(AllLandingTypes, t) }

// enum is satisfied by every closed value set above.
type enum interface {
	~string
	Valid() bool
}

// parseEnum converts raw into E, returning a ConstraintViolation naming field when raw is not a member.
func parseEnum[E enum](entity, field, raw string) (E, error) {
	v := E(raw)
	if !v.Valid() {
		return "", &ConstraintViolation{Entity: entity, Field: field, Value: raw, Reason: "not a permitted value"}
	}
	return v, nil
}

// checkEnum validates a mandatory enumerated attribute.
func checkEnum[E enum](entity, field string, v E) error {
	if !v.Valid() {
		return &ConstraintViolation{Entity: entity, Field: field, Value: string(v), Reason: "not a permitted value"}
	}
	return nil
}

// checkOptionalEnum validates an enumerated attribute where the empty value means absent.
func checkOptionalEnum[E enum](entity, field string, v E) error {
	if v == "" {
		return nil
	}
	return checkEnum(entity, field, v)
}

func ParseCrewStatus(s string) (CrewStatus, error) { return parseEnum[CrewStatus]("crew", "status", s) }
func ParseGender(s string) (Gender, error)         { return parseEnum[Gender]("crew", "gender", s) }
func ParsePayloadType(s string) (PayloadType, error) {
	return parseEnum[PayloadType]("payload", "type", s)
}
func ParseOrbit(s string) (Orbit, error) { return parseEnum[Orbit]("payload", "orbit", s) }
func ParseReferenceSystem(s string) (ReferenceSystem, error) {
	return parseEnum[ReferenceSystem]("payload", "reference_system", s)
}
func ParseRegime(s string) (Regime, error) { return parseEnum[Regime]("payload", "regime", s) }
func ParseLaunchpadStatus(s string) (LaunchpadStatus, error) {
	return parseEnum[LaunchpadStatus]("launchpad", "status", s)
}
func ParseLandpadStatus(s string) (LandpadStatus, error) {
	return parseEnum[LandpadStatus]("landpad", "status", s)
}
func ParseLandpadType(s string) (LandpadType, error) {
	return parseEnum[LandpadType]("landpad", "type", s)
}
func ParseFairingStatus(s string) (FairingStatus, error) {
	return parseEnum[FairingStatus]("launch", "fairing_status", s)
}
func ParseLandingType(s string) (LandingType, error) {
	return parseEnum[LandingType]("launch", "landing_type", s)
}

// String implementations keep enum values readable in logs and CLI output.
func (s CrewStatus) String() string      { return string(s) }
func (g Gender) String() string          { return string(g) }
func (t PayloadType) String() string     { return string(t) }
func (o Orbit) String() string           { return string(o) }
func (r ReferenceSystem) String() string { return string(r) }
func (r Regime) String() string          { return string(r) }
func (s LaunchpadStatus) String() string { return string(s) }
func (s LandpadStatus) String() string   { return string(s) }
func (t LandpadType) String() string     { return string(t) }
func (f FairingStatus) String() string   { return string(f) }
func (t LandingType) String() string     { return string(t) }
