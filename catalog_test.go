package rocketdb

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/tfkr-ae/rocketdb/domain"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// stubStore is a CatalogStore whose aggregate and close behaviour is scripted by the test.
type stubStore struct {
	domain.CatalogStore
	checkErr  error
	repaired  int
	repairErr error
	repairs   int
	closed    bool
}

func (s *stubStore) CheckAggregates(ctx context.Context) error { return s.checkErr }

func (s *stubStore) RepairAggregates(ctx context.Context) (int, error) {
	s.repairs++
	return s.repaired, s.repairErr
}

func (s *stubStore) Close() error {
	s.closed = true
	return nil
}

func TestCatalog_Reconcile(t *testing.T) {
	ctx := context.Background()
	drift := &domain.AggregateDriftError{Drifts: []domain.SiteDrift{
		{Site: domain.SiteLaunchpad, SiteID: 1, Name: "SLC-40", StoredAttempts: 5, ActualAttempts: 1},
	}}

	t.Run("should do nothing when counters agree", func(t *testing.T) {
		store := &stubStore{}
		c, err := New(WithConfig(testConfig(t)), WithRepository(store))
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}

		n, err := c.Reconcile(ctx, true)
		if err != nil || n != 0 {
			t.Fatalf("\nwanted:\n0 <nil>\ngot:\n%d %v", n, err)
		}
		if store.repairs != 0 {
			t.Fatalf("\nwanted:\n0 repairs\ngot:\n%d", store.repairs)
		}
	})

	t.Run("should warn and return drift without repair", func(t *testing.T) {
		core, logs := observer.New(zapcore.WarnLevel)
		store := &stubStore{checkErr: drift}
		c, err := New(WithConfig(testConfig(t)), WithRepository(store), WithLogger(zap.New(core).Sugar()))
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}

		_, err = c.Reconcile(ctx, false)
		if !errors.Is(err, domain.ErrAggregateDrift) {
			t.Fatalf("\nwanted:\n%v\ngot:\n%v", domain.ErrAggregateDrift, err)
		}
		if store.repairs != 0 {
			t.Fatalf("\nwanted:\n0 repairs\ngot:\n%d", store.repairs)
		}
		if logs.Len() != 1 {
			t.Fatalf("\nwanted:\n1 warning\ngot:\n%v", logs.All())
		}
	})

	t.Run("should repair when asked", func(t *testing.T) {
		store := &stubStore{checkErr: drift, repaired: 1}
		c, err := New(WithConfig(testConfig(t)), WithRepository(store))
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}

		n, err := c.Reconcile(ctx, true)
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}
		if n != 1 || store.repairs != 1 {
			t.Fatalf("\nwanted:\n1 repaired in 1 call\ngot:\n%d repaired in %d calls", n, store.repairs)
		}
	})

	t.Run("should wrap other check failures", func(t *testing.T) {
		boom := fmt.Errorf("disk gone")
		store := &stubStore{checkErr: boom}
		c, err := New(WithConfig(testConfig(t)), WithRepository(store))
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}

		if _, err := c.Reconcile(ctx, true); !errors.Is(err, boom) {
			t.Fatalf("\nwanted:\n%v\ngot:\n%v", boom, err)
		}
		if store.repairs != 0 {
			t.Fatalf("\nwanted:\n0 repairs\ngot:\n%d", store.repairs)
		}
	})
}

func TestCatalog_RocketsPage(t *testing.T) {
	ctx := context.Background()

	c, err := New(WithConfig(testConfig(t)))
	if err != nil {
		t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
	}
	defer c.Close()

	agency, err := c.Repo.CreateAgency(ctx, &domain.Agency{Name: "SpaceX"})
	if err != nil {
		t.Fatalf("creating agency: %v", err)
	}
	for i := 1; i <= 45; i++ {
		rocket := &domain.Rocket{
			Name:        fmt.Sprintf("Rocket %02d", i),
			AgencyID:    agency,
			FirstFlight: fmt.Sprintf("20%02d-01-01", i),
		}
		if _, err := c.Repo.CreateRocket(ctx, rocket); err != nil {
			t.Fatalf("creating rocket: %v", err)
		}
	}

	t.Run("should return the first page sorted by first flight", func(t *testing.T) {
		page, err := c.RocketsPage(ctx, 1)
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}

		if page.Total != 45 || page.TotalPages != 5 || len(page.Rockets) != 10 {
			t.Fatalf("\nwanted:\n45 rockets on 5 pages, 10 shown\ngot:\n%d on %d, %d shown", page.Total, page.TotalPages, len(page.Rockets))
		}
		if page.Rockets[0].Name != "Rocket 01" {
			t.Fatalf("\nwanted:\nRocket 01\ngot:\n%s", page.Rockets[0].Name)
		}
		if want := []int{1, 2, 3, 4, 5}; !reflect.DeepEqual(want, page.Range) {
			t.Fatalf("\nwanted:\n%v\ngot:\n%v", want, page.Range)
		}
	})

	t.Run("should return a partial last page", func(t *testing.T) {
		page, err := c.RocketsPage(ctx, 5)
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}

		if len(page.Rockets) != 5 || page.Rockets[4].Name != "Rocket 45" {
			t.Fatalf("\nwanted:\n5 rockets ending at Rocket 45\ngot:\n%d", len(page.Rockets))
		}
	})

	t.Run("should treat pages below one as the first", func(t *testing.T) {
		page, err := c.RocketsPage(ctx, 0)
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}
		if page.Page != 1 {
			t.Fatalf("\nwanted:\n1\ngot:\n%d", page.Page)
		}
	})
}
