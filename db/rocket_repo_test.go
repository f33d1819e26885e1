package db

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/tfkr-ae/rocketdb/domain"
)

func TestRocketRepo_CreateRocket(t *testing.T) {
	ctx := context.Background()

	t.Run("should create and read back a rocket", func(t *testing.T) {
		repo, teardown := setupTestDB(t)
		defer teardown()

		spacex := testAgency(t, repo, "SpaceX", nil)
		rocket := &domain.Rocket{
			Name:             "Falcon 9",
			AgencyID:         spacex,
			Active:           true,
			Stages:           2,
			CostPerLaunch:    50000000,
			SuccessRatePct:   98,
			FirstFlight:      "2010-06-04",
			HeightM:          70,
			DiameterM:        3.7,
			MassKg:           549054,
			LEOPayloadKg:     22800,
			GTOPayloadKg:     8300,
			EngineType:       "merlin",
			EngineCount:      9,
			Propellant1:      "liquid oxygen",
			Propellant2:      "RP-1 kerosene",
			ThrustSeaLevelKN: 845,
			ThrustVacuumKN:   914,
			Description:      "Two-stage reusable rocket",
		}

		id, err := repo.CreateRocket(ctx, rocket)
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}

		got, err := repo.GetRocket(ctx, id)
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}

		if !reflect.DeepEqual(rocket, got) {
			t.Fatalf("\nwanted:\n%v\ngot:\n%v", rocket, got)
		}
	})

	t.Run("should reject a success rate above 100", func(t *testing.T) {
		repo, teardown := setupTestDB(t)
		defer teardown()

		spacex := testAgency(t, repo, "SpaceX", nil)

		_, err := repo.CreateRocket(ctx, &domain.Rocket{Name: "Falcon 9", AgencyID: spacex, SuccessRatePct: 101})
		if !errors.Is(err, domain.ErrConstraintViolation) {
			t.Fatalf("\nwanted:\n%v\ngot:\n%v", domain.ErrConstraintViolation, err)
		}
	})

	t.Run("should reject a missing agency", func(t *testing.T) {
		repo, teardown := setupTestDB(t)
		defer teardown()

		_, err := repo.CreateRocket(ctx, &domain.Rocket{Name: "Falcon 9", AgencyID: 3})
		if !errors.Is(err, domain.ErrReferentialIntegrity) {
			t.Fatalf("\nwanted:\n%v\ngot:\n%v", domain.ErrReferentialIntegrity, err)
		}
	})
}

func TestRocketRepo_ListRockets(t *testing.T) {
	ctx := context.Background()

	t.Run("should order rockets by first flight with unflown vehicles last", func(t *testing.T) {
		repo, teardown := setupTestDB(t)
		defer teardown()

		spacex := testAgency(t, repo, "SpaceX", nil)
		testRocket(t, repo, "Starship", spacex, "")
		testRocket(t, repo, "Falcon Heavy", spacex, "2018-02-06")
		testRocket(t, repo, "Falcon 1", spacex, "2006-03-24")
		testRocket(t, repo, "Falcon 9", spacex, "2010-06-04")

		got, err := repo.ListRockets(ctx)
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}

		want := []string{"Falcon 1", "Falcon 9", "Falcon Heavy", "Starship"}
		names := make([]string, len(got))
		for i, r := range got {
			names[i] = r.Name
		}

		if !reflect.DeepEqual(want, names) {
			t.Fatalf("\nwanted:\n%v\ngot:\n%v", want, names)
		}
	})
}

func TestRocketRepo_ListRocketsPage(t *testing.T) {
	ctx := context.Background()

	t.Run("should return the requested page and the total count", func(t *testing.T) {
		repo, teardown := setupTestDB(t)
		defer teardown()

		spacex := testAgency(t, repo, "SpaceX", nil)
		for i := 1; i <= 25; i++ {
			testRocket(t, repo, fmt.Sprintf("Rocket %02d", i), spacex, fmt.Sprintf("2000-01-%02d", i))
		}

		page, total, err := repo.ListRocketsPage(ctx, 3, 10)
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}

		if total != 25 {
			t.Fatalf("\nwanted:\n25\ngot:\n%d", total)
		}
		if len(page) != 5 {
			t.Fatalf("\nwanted:\n5\ngot:\n%d", len(page))
		}
		if page[0].Name != "Rocket 21" {
			t.Fatalf("\nwanted:\nRocket 21\ngot:\n%s", page[0].Name)
		}
	})

	t.Run("should reject a non-positive page size", func(t *testing.T) {
		repo, teardown := setupTestDB(t)
		defer teardown()

		_, _, err := repo.ListRocketsPage(ctx, 1, 0)
		if err == nil {
			t.Fatalf("\nwanted:\nerror\ngot:\nnil")
		}
	})
}

func TestRocketRepo_DeleteRocket(t *testing.T) {
	ctx := context.Background()

	t.Run("should remove the rocket's launches and debit their pads", func(t *testing.T) {
		repo, teardown := setupTestDB(t)
		defer teardown()

		spacex := testAgency(t, repo, "SpaceX", nil)
		falcon9 := testRocket(t, repo, "Falcon 9", spacex, "2010-06-04")
		heavy := testRocket(t, repo, "Falcon Heavy", spacex, "2018-02-06")
		pad := testLaunchpad(t, repo, "LC-39A", spacex)

		testLaunch(t, repo, domain.Launch{RocketID: falcon9, LaunchpadID: &pad, Success: true}, 0)
		testLaunch(t, repo, domain.Launch{RocketID: heavy, LaunchpadID: &pad, Success: true}, 1)

		if err := repo.DeleteRocket(ctx, heavy); err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}

		got, err := repo.GetLaunchpad(ctx, pad)
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}
		if got.LaunchAttempts != 1 || got.LaunchSuccesses != 1 {
			t.Fatalf("\nwanted:\n1/1\ngot:\n%d/%d", got.LaunchAttempts, got.LaunchSuccesses)
		}

		assertNoDrift(t, repo)
	})
}
