package db

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/tfkr-ae/rocketdb/domain"
)

func TestAgencyRepo_CreateAgency(t *testing.T) {
	ctx := context.Background()

	t.Run("should create and read back an agency", func(t *testing.T) {
		repo, teardown := setupTestDB(t)
		defer teardown()

		usa := testCountry(t, repo, "USA", "United States")
		agency := &domain.Agency{
			Name:         "National Aeronautics and Space Administration",
			Abbreviation: "NASA",
			CountryID:    &usa,
			FoundedYear:  ptr(1958),
			Description:  "US civil space agency",
		}

		id, err := repo.CreateAgency(ctx, agency)
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}

		got, err := repo.GetAgency(ctx, id)
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}

		if !reflect.DeepEqual(agency, got) {
			t.Fatalf("\nwanted:\n%v\ngot:\n%v", agency, got)
		}
	})

	t.Run("should reject a country that does not exist", func(t *testing.T) {
		repo, teardown := setupTestDB(t)
		defer teardown()

		_, err := repo.CreateAgency(ctx, &domain.Agency{Name: "NASA", CountryID: ptr(int64(99))})
		var rie *domain.ReferentialIntegrityError
		if !errors.As(err, &rie) {
			t.Fatalf("\nwanted:\n*domain.ReferentialIntegrityError\ngot:\n%v", err)
		}

		if rie.Field != "country_id" || rie.TargetID != 99 {
			t.Fatalf("\nwanted:\ncountry_id 99\ngot:\n%s %d", rie.Field, rie.TargetID)
		}

		if n := countRows(t, repo, "agencies"); n != 0 {
			t.Fatalf("\nwanted:\n0\ngot:\n%d", n)
		}
	})

	t.Run("should reject an implausible founding year", func(t *testing.T) {
		repo, teardown := setupTestDB(t)
		defer teardown()

		_, err := repo.CreateAgency(ctx, &domain.Agency{Name: "Old", FoundedYear: ptr(1200)})
		if !errors.Is(err, domain.ErrConstraintViolation) {
			t.Fatalf("\nwanted:\n%v\ngot:\n%v", domain.ErrConstraintViolation, err)
		}
	})
}

func TestAgencyRepo_FindAgencyByName(t *testing.T) {
	ctx := context.Background()

	t.Run("should find an agency by name or abbreviation", func(t *testing.T) {
		repo, teardown := setupTestDB(t)
		defer teardown()

		id, err := repo.CreateAgency(ctx, &domain.Agency{Name: "Space Exploration Technologies", Abbreviation: "SpaceX"})
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}

		for _, name := range []string{"Space Exploration Technologies", "SpaceX"} {
			got, err := repo.FindAgencyByName(ctx, name)
			if err != nil {
				t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
			}
			if got.ID != id {
				t.Fatalf("\nwanted:\n%d\ngot:\n%d", id, got.ID)
			}
		}
	})

	t.Run("should return ErrNotFound for an unknown name", func(t *testing.T) {
		repo, teardown := setupTestDB(t)
		defer teardown()

		_, err := repo.FindAgencyByName(ctx, "ESA")
		if !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("\nwanted:\n%v\ngot:\n%v", domain.ErrNotFound, err)
		}
	})
}

func TestAgencyRepo_UpdateAgency(t *testing.T) {
	ctx := context.Background()

	t.Run("should move an agency to another country", func(t *testing.T) {
		repo, teardown := setupTestDB(t)
		defer teardown()

		usa := testCountry(t, repo, "USA", "United States")
		fra := testCountry(t, repo, "FRA", "France")
		id := testAgency(t, repo, "Arianespace", &usa)

		err := repo.UpdateAgency(ctx, &domain.Agency{ID: id, Name: "Arianespace", CountryID: &fra})
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}

		got, err := repo.GetAgency(ctx, id)
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}
		if got.CountryID == nil || *got.CountryID != fra {
			t.Fatalf("\nwanted:\n%d\ngot:\n%v", fra, got.CountryID)
		}
	})
}

func TestAgencyRepo_ListAgencies(t *testing.T) {
	t.Run("should list agencies by name", func(t *testing.T) {
		repo, teardown := setupTestDB(t)
		defer teardown()

		testAgency(t, repo, "SpaceX", nil)
		testAgency(t, repo, "NASA", nil)

		got, err := repo.ListAgencies(context.Background())
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}

		if len(got) != 2 || got[0].Name != "NASA" || got[1].Name != "SpaceX" {
			t.Fatalf("\nwanted:\n[NASA SpaceX]\ngot:\n%v", got)
		}
	})
}
