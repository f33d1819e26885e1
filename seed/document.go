// Package seed loads a catalog document into a store.
//
// A document is a JSON object with one array per entity. Rows refer to each other by natural key
// rather than by id: agencies name their country by ISO code, and rockets, crew and launchpads name
// their agency; launches name their rocket, launchpad, landpad, payloads and crew. Unknown fields
// are rejected.
package seed

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Document is the decoded form of a catalog document.
type Document struct {
	Countries  []Country   `json:"countries"`
	Agencies   []Agency    `json:"agencies"`
	Crew       []Crew      `json:"crew"`
	Rockets    []Rocket    `json:"rockets"`
	Payloads   []Payload   `json:"payloads"`
	Launchpads []Launchpad `json:"launchpads"`
	Landpads   []Landpad   `json:"landpads"`
	Launches   []Launch    `json:"launches"`
}

type Country struct {
	ISOCode string `json:"iso_code"`
	Name    string `json:"name"`
}

type Agency struct {
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation"`
	Country      string `json:"country"` // ISO code
	FoundedYear  *int   `json:"founded_year"`
	Description  string `json:"description"`
}

type Crew struct {
	Name             string  `json:"name"`
	Agency           string  `json:"agency"`
	Status           string  `json:"status"`
	Gender           string  `json:"gender"`
	Nationality      string  `json:"nationality"`
	MissionCount     int     `json:"mission_count"`
	TimeInSpaceHours float64 `json:"time_in_space_hours"`
	Wikipedia        string  `json:"wikipedia"`
}

type Rocket struct {
	Name             string  `json:"name"`
	Agency           string  `json:"agency"`
	Active           bool    `json:"active"`
	Stages           int     `json:"stages"`
	Boosters         int     `json:"boosters"`
	CostPerLaunch    int64   `json:"cost_per_launch"`
	SuccessRatePct   float64 `json:"success_rate_pct"`
	FirstFlight      string  `json:"first_flight"`
	HeightM          float64 `json:"height_m"`
	DiameterM        float64 `json:"diameter_m"`
	MassKg           float64 `json:"mass_kg"`
	LEOPayloadKg     float64 `json:"leo_payload_kg"`
	GTOPayloadKg     float64 `json:"gto_payload_kg"`
	EngineType       string  `json:"engine_type"`
	EngineCount      int     `json:"engine_count"`
	Propellant1      string  `json:"propellant_1"`
	Propellant2      string  `json:"propellant_2"`
	ThrustSeaLevelKN float64 `json:"thrust_sea_level_kn"`
	ThrustVacuumKN   float64 `json:"thrust_vacuum_kn"`
	Description      string  `json:"description"`
}

type Payload struct {
	Name            string   `json:"name"`
	Type            string   `json:"type"`
	Reused          bool     `json:"reused"`
	Manufacturer    string   `json:"manufacturer"`
	MassKg          *float64 `json:"mass_kg"`
	Orbit           string   `json:"orbit"`
	ReferenceSystem string   `json:"reference_system"`
	Regime          string   `json:"regime"`
	Elements        Elements `json:"orbit_params"`
	Customers       []string `json:"customers"`
	NoradIDs        []int64  `json:"norad_ids"`
}

// Elements are the orbital parameters of a payload; absent values stay null.
type Elements struct {
	SemiMajorAxisKm    *float64 `json:"semi_major_axis_km"`
	Eccentricity       *float64 `json:"eccentricity"`
	InclinationDeg     *float64 `json:"inclination_deg"`
	RAANDeg            *float64 `json:"raan_deg"`
	ArgOfPericenterDeg *float64 `json:"arg_of_pericenter_deg"`
	MeanAnomalyDeg     *float64 `json:"mean_anomaly_deg"`
	MeanMotion         *float64 `json:"mean_motion"`
	Epoch              string   `json:"epoch"`
}

type Launchpad struct {
	Name      string   `json:"name"`
	FullName  string   `json:"full_name"`
	Agency    string   `json:"agency"`
	Status    string   `json:"status"`
	Locality  string   `json:"locality"`
	Region    string   `json:"region"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

type Landpad struct {
	Name      string   `json:"name"`
	FullName  string   `json:"full_name"`
	Status    string   `json:"status"`
	Type      string   `json:"type"`
	Locality  string   `json:"locality"`
	Region    string   `json:"region"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

type Launch struct {
	Name           string          `json:"name"`
	FlightNumber   int             `json:"flight_number"`
	Rocket         string          `json:"rocket"`
	Launchpad      string          `json:"launchpad"`
	Landpad        string          `json:"landpad"`
	DateUTC        string          `json:"date_utc"`
	DateUnix       int64           `json:"date_unix"`
	TBD            bool            `json:"tbd"`
	NET            bool            `json:"net"`
	Success        bool            `json:"success"`
	Upcoming       bool            `json:"upcoming"`
	LandingAttempt bool            `json:"landing_attempt"`
	LandingSuccess bool            `json:"landing_success"`
	FairingStatus  string          `json:"fairing_status"`
	LandingType    string          `json:"landing_type"`
	Details        string          `json:"details"`
	Payloads       []string        `json:"payloads"`
	Crew           []CrewRole      `json:"crew"`
	Failures       []LaunchFailure `json:"failures"`
}

type CrewRole struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

type LaunchFailure struct {
	TimeSeconds *int     `json:"time_seconds"`
	AltitudeKm  *float64 `json:"altitude_km"`
	Reason      string   `json:"reason"`
}

// Decode reads a document from r. Fields the document format does not define are an error, as is
// trailing data after the document.
func Decode(r io.Reader) (*Document, error) {
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()

	var doc Document
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding catalog document : %w", err)
	}
	if decoder.More() {
		return nil, fmt.Errorf("decoding catalog document : unexpected data after the document")
	}
	return &doc, nil
}

// DecodeFile reads the document stored at path.
func DecodeFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s : %w", path, err)
	}
	defer f.Close()
	return Decode(f)
}
