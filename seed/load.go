package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/tfkr-ae/rocketdb/core"
	"github.com/tfkr-ae/rocketdb/domain"
)

// Summary counts the rows a load inserted.
type Summary struct {
	Countries  int
	Agencies   int
	Crew       int
	Rockets    int
	Payloads   int
	Launchpads int
	Landpads   int
	Launches   int
	Failures   int
}

// Map returns the summary keyed by table, for logs and audit context.
func (s *Summary) Map() map[string]any {
	return map[string]any{
		"countries":       s.Countries,
		"agencies":        s.Agencies,
		"crew":            s.Crew,
		"rockets":         s.Rockets,
		"payloads":        s.Payloads,
		"launchpads":      s.Launchpads,
		"landpads":        s.Landpads,
		"launches":        s.Launches,
		"launch_failures": s.Failures,
	}
}

// loader resolves natural keys to ids, first among the rows it inserted, then in the store.
type loader struct {
	store   domain.CatalogStore
	summary Summary
	ids     map[domain.EntityKind]map[string]int64
}

// Load decodes a document from r and inserts it into store. See Insert.
func Load(ctx context.Context, store domain.CatalogStore, r io.Reader) (*Summary, error) {
	doc, err := Decode(r)
	if err != nil {
		return nil, err
	}
	return Insert(ctx, store, doc)
}

// Insert writes every row of doc in dependency order, each through the store's own validation.
// References may point at rows of the same document or rows already in the store.
// Loading stops at the first rejected row; rows inserted before it are kept and counted in the
// returned summary. A completed load is recorded as an audit note.
func Insert(ctx context.Context, store domain.CatalogStore, doc *Document) (*Summary, error) {
	l := &loader{store: store, ids: make(map[domain.EntityKind]map[string]int64)}

	steps := []func(context.Context, *Document) error{
		l.countries, l.agencies, l.crew, l.rockets, l.payloads, l.launchpads, l.landpads, l.launches,
	}
	for _, step := range steps {
		if err := step(ctx, doc); err != nil {
			return &l.summary, err
		}
	}

	entry, err := core.NewAuditEntry(domain.AuditNote, domain.KindCatalog, "loaded catalog document",
		core.AuditWithContext(l.summary.Map()))
	if err != nil {
		return &l.summary, err
	}
	if err := store.InsertAuditEntry(ctx, entry); err != nil {
		return &l.summary, fmt.Errorf("recording load : %w", err)
	}
	return &l.summary, nil
}

func (l *loader) remember(kind domain.EntityKind, key string, id int64) {
	if l.ids[kind] == nil {
		l.ids[kind] = make(map[string]int64)
	}
	l.ids[kind][key] = id
}

// resolve returns the id for key, asking lookup when the document did not define it.
func (l *loader) resolve(ctx context.Context, kind domain.EntityKind, key string, lookup func(context.Context, string) (int64, error)) (int64, error) {
	if id, ok := l.ids[kind][key]; ok {
		return id, nil
	}

	id, err := lookup(ctx, key)
	if errors.Is(err, domain.ErrNotFound) {
		return 0, fmt.Errorf("unknown %s %q: %w", kind, key, err)
	}
	if err != nil {
		return 0, fmt.Errorf("resolving %s %q : %w", kind, key, err)
	}
	l.remember(kind, key, id)
	return id, nil
}

// resolveOptional is resolve for references that may be left empty.
func (l *loader) resolveOptional(ctx context.Context, kind domain.EntityKind, key string, lookup func(context.Context, string) (int64, error)) (*int64, error) {
	if key == "" {
		return nil, nil
	}
	id, err := l.resolve(ctx, kind, key, lookup)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func (l *loader) country(ctx context.Context, iso string) (int64, error) {
	c, err := l.store.GetCountryByISOCode(ctx, iso)
	if err != nil {
		return 0, err
	}
	return c.ID, nil
}

func (l *loader) agency(ctx context.Context, name string) (int64, error) {
	a, err := l.store.FindAgencyByName(ctx, name)
	if err != nil {
		return 0, err
	}
	return a.ID, nil
}

func (l *loader) rocket(ctx context.Context, name string) (int64, error) {
	r, err := l.store.FindRocketByName(ctx, name)
	if err != nil {
		return 0, err
	}
	return r.ID, nil
}

func (l *loader) launchpad(ctx context.Context, name string) (int64, error) {
	p, err := l.store.FindLaunchpadByName(ctx, name)
	if err != nil {
		return 0, err
	}
	return p.ID, nil
}

func (l *loader) landpad(ctx context.Context, name string) (int64, error) {
	p, err := l.store.FindLandpadByName(ctx, name)
	if err != nil {
		return 0, err
	}
	return p.ID, nil
}

func (l *loader) payload(ctx context.Context, name string) (int64, error) {
	p, err := l.store.FindPayloadByName(ctx, name)
	if err != nil {
		return 0, err
	}
	return p.ID, nil
}

func (l *loader) crewMember(ctx context.Context, name string) (int64, error) {
	c, err := l.store.FindCrewByName(ctx, name)
	if err != nil {
		return 0, err
	}
	return c.ID, nil
}

func (l *loader) countries(ctx context.Context, doc *Document) error {
	for _, c := range doc.Countries {
		id, err := l.store.CreateCountry(ctx, &domain.Country{ISOCode: c.ISOCode, Name: c.Name})
		if err != nil {
			return fmt.Errorf("country %q : %w", c.ISOCode, err)
		}
		l.remember(domain.KindCountry, c.ISOCode, id)
		l.summary.Countries++
	}
	return nil
}

func (l *loader) agencies(ctx context.Context, doc *Document) error {
	for _, a := range doc.Agencies {
		countryID, err := l.resolveOptional(ctx, domain.KindCountry, a.Country, l.country)
		if err != nil {
			return fmt.Errorf("agency %q : %w", a.Name, err)
		}

		id, err := l.store.CreateAgency(ctx, &domain.Agency{
			Name:         a.Name,
			Abbreviation: a.Abbreviation,
			CountryID:    countryID,
			FoundedYear:  a.FoundedYear,
			Description:  a.Description,
		})
		if err != nil {
			return fmt.Errorf("agency %q : %w", a.Name, err)
		}
		l.remember(domain.KindAgency, a.Name, id)
		if a.Abbreviation != "" {
			l.remember(domain.KindAgency, a.Abbreviation, id)
		}
		l.summary.Agencies++
	}
	return nil
}

func (l *loader) crew(ctx context.Context, doc *Document) error {
	for _, c := range doc.Crew {
		agencyID, err := l.resolve(ctx, domain.KindAgency, c.Agency, l.agency)
		if err != nil {
			return fmt.Errorf("crew %q : %w", c.Name, err)
		}

		id, err := l.store.CreateCrew(ctx, &domain.Crew{
			Name:         c.Name,
			AgencyID:     agencyID,
			Status:       domain.CrewStatus(c.Status),
			Gender:       domain.Gender(c.Gender),
			Nationality:  c.Nationality,
			MissionCount: c.MissionCount,
			TimeInSpace:  time.Duration(c.TimeInSpaceHours * float64(time.Hour)).Truncate(time.Second),
			Wikipedia:    c.Wikipedia,
		})
		if err != nil {
			return fmt.Errorf("crew %q : %w", c.Name, err)
		}
		l.remember(domain.KindCrew, c.Name, id)
		l.summary.Crew++
	}
	return nil
}

func (l *loader) rockets(ctx context.Context, doc *Document) error {
	for _, r := range doc.Rockets {
		agencyID, err := l.resolve(ctx, domain.KindAgency, r.Agency, l.agency)
		if err != nil {
			return fmt.Errorf("rocket %q : %w", r.Name, err)
		}

		id, err := l.store.CreateRocket(ctx, &domain.Rocket{
			Name:             r.Name,
			AgencyID:         agencyID,
			Active:           r.Active,
			Stages:           r.Stages,
			Boosters:         r.Boosters,
			CostPerLaunch:    r.CostPerLaunch,
			SuccessRatePct:   r.SuccessRatePct,
			FirstFlight:      r.FirstFlight,
			HeightM:          r.HeightM,
			DiameterM:        r.DiameterM,
			MassKg:           r.MassKg,
			LEOPayloadKg:     r.LEOPayloadKg,
			GTOPayloadKg:     r.GTOPayloadKg,
			EngineType:       r.EngineType,
			EngineCount:      r.EngineCount,
			Propellant1:      r.Propellant1,
			Propellant2:      r.Propellant2,
			ThrustSeaLevelKN: r.ThrustSeaLevelKN,
			ThrustVacuumKN:   r.ThrustVacuumKN,
			Description:      r.Description,
		})
		if err != nil {
			return fmt.Errorf("rocket %q : %w", r.Name, err)
		}
		l.remember(domain.KindRocket, r.Name, id)
		l.summary.Rockets++
	}
	return nil
}

func (l *loader) payloads(ctx context.Context, doc *Document) error {
	for _, p := range doc.Payloads {
		id, err := l.store.CreatePayload(ctx, &domain.Payload{
			Name:            p.Name,
			Type:            domain.PayloadType(p.Type),
			Reused:          p.Reused,
			Manufacturer:    p.Manufacturer,
			MassKg:          p.MassKg,
			Orbit:           domain.Orbit(p.Orbit),
			ReferenceSystem: domain.ReferenceSystem(p.ReferenceSystem),
			Regime:          domain.Regime(p.Regime),
			Elements: domain.OrbitalElements{
				SemiMajorAxisKm:    p.Elements.SemiMajorAxisKm,
				Eccentricity:       p.Elements.Eccentricity,
				InclinationDeg:     p.Elements.InclinationDeg,
				RAANDeg:            p.Elements.RAANDeg,
				ArgOfPericenterDeg: p.Elements.ArgOfPericenterDeg,
				MeanAnomalyDeg:     p.Elements.MeanAnomalyDeg,
				MeanMotion:         p.Elements.MeanMotion,
				Epoch:              p.Elements.Epoch,
			},
		})
		if err != nil {
			return fmt.Errorf("payload %q : %w", p.Name, err)
		}

		for _, customer := range p.Customers {
			if err := l.store.AddPayloadCustomer(ctx, id, customer); err != nil {
				return fmt.Errorf("payload %q customer %q : %w", p.Name, customer, err)
			}
		}
		for _, norad := range p.NoradIDs {
			if err := l.store.AddPayloadNoradID(ctx, id, norad); err != nil {
				return fmt.Errorf("payload %q norad id %d : %w", p.Name, norad, err)
			}
		}
		l.remember(domain.KindPayload, p.Name, id)
		l.summary.Payloads++
	}
	return nil
}

func (l *loader) launchpads(ctx context.Context, doc *Document) error {
	for _, p := range doc.Launchpads {
		agencyID, err := l.resolve(ctx, domain.KindAgency, p.Agency, l.agency)
		if err != nil {
			return fmt.Errorf("launchpad %q : %w", p.Name, err)
		}

		id, err := l.store.CreateLaunchpad(ctx, &domain.Launchpad{
			Name:      p.Name,
			FullName:  p.FullName,
			AgencyID:  agencyID,
			Status:    domain.LaunchpadStatus(p.Status),
			Locality:  p.Locality,
			Region:    p.Region,
			Latitude:  p.Latitude,
			Longitude: p.Longitude,
		})
		if err != nil {
			return fmt.Errorf("launchpad %q : %w", p.Name, err)
		}
		l.remember(domain.KindLaunchpad, p.Name, id)
		l.summary.Launchpads++
	}
	return nil
}

func (l *loader) landpads(ctx context.Context, doc *Document) error {
	for _, p := range doc.Landpads {
		id, err := l.store.CreateLandpad(ctx, &domain.Landpad{
			Name:      p.Name,
			FullName:  p.FullName,
			Status:    domain.LandpadStatus(p.Status),
			Type:      domain.LandpadType(p.Type),
			Locality:  p.Locality,
			Region:    p.Region,
			Latitude:  p.Latitude,
			Longitude: p.Longitude,
		})
		if err != nil {
			return fmt.Errorf("landpad %q : %w", p.Name, err)
		}
		l.remember(domain.KindLandpad, p.Name, id)
		l.summary.Landpads++
	}
	return nil
}

func (l *loader) launches(ctx context.Context, doc *Document) error {
	for _, d := range doc.Launches {
		launch := &domain.Launch{
			Name:           d.Name,
			FlightNumber:   d.FlightNumber,
			DateUTC:        d.DateUTC,
			DateUnix:       d.DateUnix,
			TBD:            d.TBD,
			NET:            d.NET,
			Success:        d.Success,
			Upcoming:       d.Upcoming,
			LandingAttempt: d.LandingAttempt,
			LandingSuccess: d.LandingSuccess,
			FairingStatus:  domain.FairingStatus(d.FairingStatus),
			LandingType:    domain.LandingType(d.LandingType),
			Details:        d.Details,
		}

		var err error
		if launch.RocketID, err = l.resolve(ctx, domain.KindRocket, d.Rocket, l.rocket); err != nil {
			return fmt.Errorf("launch %q : %w", d.Name, err)
		}
		if launch.LaunchpadID, err = l.resolveOptional(ctx, domain.KindLaunchpad, d.Launchpad, l.launchpad); err != nil {
			return fmt.Errorf("launch %q : %w", d.Name, err)
		}
		if launch.LandpadID, err = l.resolveOptional(ctx, domain.KindLandpad, d.Landpad, l.landpad); err != nil {
			return fmt.Errorf("launch %q : %w", d.Name, err)
		}

		id, err := l.store.CreateLaunch(ctx, launch)
		if err != nil {
			return fmt.Errorf("launch %q : %w", d.Name, err)
		}
		l.summary.Launches++

		for _, name := range d.Payloads {
			payloadID, err := l.resolve(ctx, domain.KindPayload, name, l.payload)
			if err != nil {
				return fmt.Errorf("launch %q : %w", d.Name, err)
			}
			if err := l.store.AddLaunchPayload(ctx, id, payloadID); err != nil {
				return fmt.Errorf("launch %q payload %q : %w", d.Name, name, err)
			}
		}

		for _, c := range d.Crew {
			crewID, err := l.resolve(ctx, domain.KindCrew, c.Name, l.crewMember)
			if err != nil {
				return fmt.Errorf("launch %q : %w", d.Name, err)
			}
			if err := l.store.AddLaunchCrew(ctx, &domain.LaunchCrew{LaunchID: id, CrewID: crewID, Role: c.Role}); err != nil {
				return fmt.Errorf("launch %q crew %q : %w", d.Name, c.Name, err)
			}
		}

		for _, f := range d.Failures {
			failure := &domain.LaunchFailure{LaunchID: id, TimeSeconds: f.TimeSeconds, AltitudeKm: f.AltitudeKm, Reason: f.Reason}
			if _, err := l.store.AddLaunchFailure(ctx, failure); err != nil {
				return fmt.Errorf("launch %q failure : %w", d.Name, err)
			}
			l.summary.Failures++
		}
	}
	return nil
}
