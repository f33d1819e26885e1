package db

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/tfkr-ae/rocketdb/domain"
)

func TestLandpadRepo_CreateLandpad(t *testing.T) {
	ctx := context.Background()

	t.Run("should create and read back a landpad", func(t *testing.T) {
		repo, teardown := setupTestDB(t)
		defer teardown()

		landpad := &domain.Landpad{
			Name:     "OCISLY",
			FullName: "Of Course I Still Love You",
			Status:   domain.LandpadActive,
			Type:     domain.LandpadASDS,
			Locality: "Port of Los Angeles",
			Region:   "California",
		}

		id, err := repo.CreateLandpad(ctx, landpad)
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}

		got, err := repo.FindLandpadByName(ctx, "Of Course I Still Love You")
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}
		if got.ID != id {
			t.Fatalf("\nwanted:\n%d\ngot:\n%d", id, got.ID)
		}

		if !reflect.DeepEqual(landpad, got) {
			t.Fatalf("\nwanted:\n%v\ngot:\n%v", landpad, got)
		}
	})

	t.Run("should accept a landpad without a type", func(t *testing.T) {
		repo, teardown := setupTestDB(t)
		defer teardown()

		id, err := repo.CreateLandpad(ctx, &domain.Landpad{Name: "LZ-4", Status: domain.LandpadUnderConstruction})
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}

		got, err := repo.GetLandpad(ctx, id)
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}
		if got.Type != "" {
			t.Fatalf("\nwanted:\nempty type\ngot:\n%s", got.Type)
		}
	})

	t.Run("should reject a missing status", func(t *testing.T) {
		repo, teardown := setupTestDB(t)
		defer teardown()

		_, err := repo.CreateLandpad(ctx, &domain.Landpad{Name: "LZ-1"})
		if !errors.Is(err, domain.ErrConstraintViolation) {
			t.Fatalf("\nwanted:\n%v\ngot:\n%v", domain.ErrConstraintViolation, err)
		}
	})

	t.Run("should reject a type outside the enumerated set", func(t *testing.T) {
		repo, teardown := setupTestDB(t)
		defer teardown()

		_, err := repo.CreateLandpad(ctx, &domain.Landpad{Name: "LZ-1", Status: domain.LandpadActive, Type: "Barge"})
		if !errors.Is(err, domain.ErrConstraintViolation) {
			t.Fatalf("\nwanted:\n%v\ngot:\n%v", domain.ErrConstraintViolation, err)
		}
	})
}

func TestLandpadRepo_DeleteLandpad(t *testing.T) {
	ctx := context.Background()

	t.Run("should keep launches and clear their landpad", func(t *testing.T) {
		repo, teardown := setupTestDB(t)
		defer teardown()

		spacex := testAgency(t, repo, "SpaceX", nil)
		rocket := testRocket(t, repo, "Falcon 9", spacex, "2010-06-04")
		pad := testLaunchpad(t, repo, "SLC-40", spacex)
		ocisly := testLandpad(t, repo, "OCISLY")
		launch := testLaunch(t, repo, domain.Launch{
			RocketID:       rocket,
			LaunchpadID:    &pad,
			LandpadID:      &ocisly,
			Success:        true,
			LandingAttempt: true,
			LandingSuccess: true,
		}, 0)

		if err := repo.DeleteLandpad(ctx, ocisly); err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}

		got, err := repo.GetLaunch(ctx, launch)
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}

		if got.LandpadID != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%d", *got.LandpadID)
		}

		launchpad, err := repo.GetLaunchpad(ctx, pad)
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}
		if launchpad.LaunchAttempts != 1 {
			t.Fatalf("\nwanted:\n1\ngot:\n%d", launchpad.LaunchAttempts)
		}

		assertNoDrift(t, repo)
	})
}
