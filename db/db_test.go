package db

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/tfkr-ae/rocketdb/domain"
)

func setupTestDB(t *testing.T) (*Repository, func()) {
	t.Helper()

	tempFile, err := os.CreateTemp(t.TempDir(), "test_*.db")
	if err != nil {
		t.Fatalf("os.CreateTemp() failed: %v", err)
	}
	tempFile.Close()

	dbConn, err := New(tempFile.Name())
	if err != nil {
		t.Fatalf("db.New() failed: %v", err)
	}

	repo := NewRepository(dbConn)

	teardown := func() {
		repo.Close()
		os.Remove(tempFile.Name())
	}

	return repo, teardown
}

func ptr[T any](v T) *T { return &v }

func testCountry(t *testing.T, repo *Repository, iso, name string) int64 {
	t.Helper()
	id, err := repo.CreateCountry(context.Background(), &domain.Country{ISOCode: iso, Name: name})
	if err != nil {
		t.Fatalf("creating country %s: %v", iso, err)
	}
	return id
}

func testAgency(t *testing.T, repo *Repository, name string, countryID *int64) int64 {
	t.Helper()
	id, err := repo.CreateAgency(context.Background(), &domain.Agency{Name: name, Abbreviation: name, CountryID: countryID})
	if err != nil {
		t.Fatalf("creating agency %s: %v", name, err)
	}
	return id
}

func testRocket(t *testing.T, repo *Repository, name string, agencyID int64, firstFlight string) int64 {
	t.Helper()
	id, err := repo.CreateRocket(context.Background(), &domain.Rocket{
		Name:           name,
		AgencyID:       agencyID,
		Active:         true,
		Stages:         2,
		CostPerLaunch:  50000000,
		SuccessRatePct: 97,
		FirstFlight:    firstFlight,
	})
	if err != nil {
		t.Fatalf("creating rocket %s: %v", name, err)
	}
	return id
}

func testLaunchpad(t *testing.T, repo *Repository, name string, agencyID int64) int64 {
	t.Helper()
	id, err := repo.CreateLaunchpad(context.Background(), &domain.Launchpad{
		Name:     name,
		AgencyID: agencyID,
		Status:   domain.LaunchpadActive,
	})
	if err != nil {
		t.Fatalf("creating launchpad %s: %v", name, err)
	}
	return id
}

func testLandpad(t *testing.T, repo *Repository, name string) int64 {
	t.Helper()
	id, err := repo.CreateLandpad(context.Background(), &domain.Landpad{
		Name:   name,
		Status: domain.LandpadActive,
		Type:   domain.LandpadASDS,
	})
	if err != nil {
		t.Fatalf("creating landpad %s: %v", name, err)
	}
	return id
}

func testCrew(t *testing.T, repo *Repository, name string, agencyID int64) int64 {
	t.Helper()
	id, err := repo.CreateCrew(context.Background(), &domain.Crew{
		Name:     name,
		AgencyID: agencyID,
		Status:   domain.CrewActive,
		Gender:   domain.GenderUnknown,
	})
	if err != nil {
		t.Fatalf("creating crew %s: %v", name, err)
	}
	return id
}

func testPayload(t *testing.T, repo *Repository, name string) int64 {
	t.Helper()
	id, err := repo.CreatePayload(context.Background(), &domain.Payload{
		Name:  name,
		Type:  domain.PayloadSatellite,
		Orbit: domain.OrbitLEO,
	})
	if err != nil {
		t.Fatalf("creating payload %s: %v", name, err)
	}
	return id
}

var testEpoch = time.Date(2020, 5, 30, 19, 22, 45, 0, time.UTC)

// testLaunch creates a launch n days after testEpoch.
func testLaunch(t *testing.T, repo *Repository, launch domain.Launch, n int) int64 {
	t.Helper()
	if launch.Name == "" {
		launch.Name = "Test Launch"
	}
	launch.DateUnix = testEpoch.AddDate(0, 0, n).Unix()
	id, err := repo.CreateLaunch(context.Background(), &launch)
	if err != nil {
		t.Fatalf("creating launch %s: %v", launch.Name, err)
	}
	return id
}

func countRows(t *testing.T, repo *Repository, table string) int {
	t.Helper()
	var n int
	if err := repo.dbConn.Get(&n, "SELECT COUNT(*) FROM "+table); err != nil {
		t.Fatalf("counting %s: %v", table, err)
	}
	return n
}

// assertNoDrift fails the test when any site counter disagrees with the launches table.
func assertNoDrift(t *testing.T, repo *Repository) {
	t.Helper()
	if err := repo.CheckAggregates(context.Background()); err != nil {
		t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
	}
}

func TestNew(t *testing.T) {
	t.Run("should enable foreign keys on the connection", func(t *testing.T) {
		repo, teardown := setupTestDB(t)
		defer teardown()

		var enabled int
		if err := repo.dbConn.Get(&enabled, "PRAGMA foreign_keys"); err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}

		if enabled != 1 {
			t.Fatalf("\nwanted:\n1\ngot:\n%d", enabled)
		}
	})

	t.Run("should create every required index", func(t *testing.T) {
		repo, teardown := setupTestDB(t)
		defer teardown()

		want := []string{
			"idx_crew_agency_id", "idx_rockets_agency_id", "idx_launchpads_agency_id",
			"idx_launches_rocket_id", "idx_launches_launchpad_id", "idx_launches_landpad_id",
			"idx_launches_date_unix", "idx_launches_upcoming", "idx_launch_failures_launch_id",
			"idx_launch_payloads_payload_id", "idx_launch_crew_crew_id",
			"idx_payload_customers_customer_name", "idx_payload_norad_norad_id",
		}

		for _, name := range want {
			var n int
			err := repo.dbConn.Get(&n, "SELECT COUNT(*) FROM sqlite_master WHERE type = 'index' AND name = ?", name)
			if err != nil {
				t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
			}
			if n != 1 {
				t.Fatalf("\nwanted:\nindex %s\ngot:\nmissing", name)
			}
		}
	})

	t.Run("should reopen an already migrated database", func(t *testing.T) {
		path := t.TempDir() + "/catalog.db"

		first, err := New(path)
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}
		first.Close()

		second, err := New(path)
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}
		second.Close()
	})
}

func TestOpen(t *testing.T) {
	t.Run("should reject an unknown driver", func(t *testing.T) {
		_, err := Open("mysql", "whatever")
		if err == nil {
			t.Fatalf("\nwanted:\nerror\ngot:\nnil")
		}
	})

	t.Run("should open sqlite by driver name", func(t *testing.T) {
		dbConn, err := Open("sqlite", t.TempDir()+"/catalog.db")
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}
		defer dbConn.Close()

		if dbConn.DriverName() != DriverSQLite {
			t.Fatalf("\nwanted:\n%s\ngot:\n%s", DriverSQLite, dbConn.DriverName())
		}
	})
}
