package db

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/tfkr-ae/rocketdb/domain"
)

func TestCountryRepo_CreateCountry(t *testing.T) {
	ctx := context.Background()

	t.Run("should create countries with distinct codes and names", func(t *testing.T) {
		repo, teardown := setupTestDB(t)
		defer teardown()

		usa := testCountry(t, repo, "USA", "United States")
		fra := testCountry(t, repo, "FRA", "France")

		want := []*domain.Country{
			{ID: fra, ISOCode: "FRA", Name: "France"},
			{ID: usa, ISOCode: "USA", Name: "United States"},
		}

		got, err := repo.ListCountries(ctx)
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}

		if !reflect.DeepEqual(want, got) {
			t.Fatalf("\nwanted:\n%v\ngot:\n%v", want, got)
		}
	})

	t.Run("should reject a duplicate iso code", func(t *testing.T) {
		repo, teardown := setupTestDB(t)
		defer teardown()

		testCountry(t, repo, "USA", "United States")

		_, err := repo.CreateCountry(ctx, &domain.Country{ISOCode: "USA", Name: "America"})
		var cv *domain.ConstraintViolation
		if !errors.As(err, &cv) {
			t.Fatalf("\nwanted:\n*domain.ConstraintViolation\ngot:\n%v", err)
		}

		if cv.Field != "iso_code" {
			t.Fatalf("\nwanted:\niso_code\ngot:\n%s", cv.Field)
		}

		if n := countRows(t, repo, "countries"); n != 1 {
			t.Fatalf("\nwanted:\n1\ngot:\n%d", n)
		}
	})

	t.Run("should reject a duplicate name", func(t *testing.T) {
		repo, teardown := setupTestDB(t)
		defer teardown()

		testCountry(t, repo, "USA", "United States")

		_, err := repo.CreateCountry(ctx, &domain.Country{ISOCode: "USB", Name: "United States"})
		if !errors.Is(err, domain.ErrConstraintViolation) {
			t.Fatalf("\nwanted:\n%v\ngot:\n%v", domain.ErrConstraintViolation, err)
		}

		if n := countRows(t, repo, "countries"); n != 1 {
			t.Fatalf("\nwanted:\n1\ngot:\n%d", n)
		}
	})

	t.Run("should reject a malformed iso code before touching the table", func(t *testing.T) {
		repo, teardown := setupTestDB(t)
		defer teardown()

		_, err := repo.CreateCountry(ctx, &domain.Country{ISOCode: "us", Name: "United States"})
		if !errors.Is(err, domain.ErrConstraintViolation) {
			t.Fatalf("\nwanted:\n%v\ngot:\n%v", domain.ErrConstraintViolation, err)
		}

		if n := countRows(t, repo, "countries"); n != 0 {
			t.Fatalf("\nwanted:\n0\ngot:\n%d", n)
		}
	})
}

func TestCountryRepo_GetCountry(t *testing.T) {
	ctx := context.Background()

	t.Run("should find a country by id and by iso code", func(t *testing.T) {
		repo, teardown := setupTestDB(t)
		defer teardown()

		id := testCountry(t, repo, "JPN", "Japan")
		want := &domain.Country{ID: id, ISOCode: "JPN", Name: "Japan"}

		byID, err := repo.GetCountry(ctx, id)
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}
		if !reflect.DeepEqual(want, byID) {
			t.Fatalf("\nwanted:\n%v\ngot:\n%v", want, byID)
		}

		byCode, err := repo.GetCountryByISOCode(ctx, "JPN")
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}
		if !reflect.DeepEqual(want, byCode) {
			t.Fatalf("\nwanted:\n%v\ngot:\n%v", want, byCode)
		}
	})

	t.Run("should return ErrNotFound for a missing country", func(t *testing.T) {
		repo, teardown := setupTestDB(t)
		defer teardown()

		_, err := repo.GetCountry(ctx, 42)
		if !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("\nwanted:\n%v\ngot:\n%v", domain.ErrNotFound, err)
		}
	})
}

func TestCountryRepo_UpdateCountry(t *testing.T) {
	ctx := context.Background()

	t.Run("should rename a country", func(t *testing.T) {
		repo, teardown := setupTestDB(t)
		defer teardown()

		id := testCountry(t, repo, "USA", "United States")

		err := repo.UpdateCountry(ctx, &domain.Country{ID: id, ISOCode: "USA", Name: "United States of America"})
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}

		got, err := repo.GetCountry(ctx, id)
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}
		if got.Name != "United States of America" {
			t.Fatalf("\nwanted:\nUnited States of America\ngot:\n%s", got.Name)
		}
	})

	t.Run("should reject taking another country's name", func(t *testing.T) {
		repo, teardown := setupTestDB(t)
		defer teardown()

		testCountry(t, repo, "USA", "United States")
		fra := testCountry(t, repo, "FRA", "France")

		err := repo.UpdateCountry(ctx, &domain.Country{ID: fra, ISOCode: "FRA", Name: "United States"})
		if !errors.Is(err, domain.ErrConstraintViolation) {
			t.Fatalf("\nwanted:\n%v\ngot:\n%v", domain.ErrConstraintViolation, err)
		}
	})

	t.Run("should return ErrNotFound when updating a missing country", func(t *testing.T) {
		repo, teardown := setupTestDB(t)
		defer teardown()

		err := repo.UpdateCountry(ctx, &domain.Country{ID: 7, ISOCode: "USA", Name: "United States"})
		if !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("\nwanted:\n%v\ngot:\n%v", domain.ErrNotFound, err)
		}
	})
}

func TestCountryRepo_DeleteCountry(t *testing.T) {
	ctx := context.Background()

	t.Run("should keep agencies and clear their country", func(t *testing.T) {
		repo, teardown := setupTestDB(t)
		defer teardown()

		usa := testCountry(t, repo, "USA", "United States")
		nasa := testAgency(t, repo, "NASA", &usa)

		if err := repo.DeleteCountry(ctx, usa); err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}

		got, err := repo.GetAgency(ctx, nasa)
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}

		if got.CountryID != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%d", *got.CountryID)
		}
	})
}
