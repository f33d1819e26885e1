package db

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/tfkr-ae/rocketdb/domain"
	"github.com/tfkr-ae/rocketdb/metrics"
)

func TestDeleteEntity(t *testing.T) {
	ctx := context.Background()

	t.Run("should remove an agency with its rockets, pads and their launches", func(t *testing.T) {
		repo, teardown := setupTestDB(t)
		defer teardown()

		usa := testCountry(t, repo, "USA", "United States")
		nasa := testAgency(t, repo, "NASA", &usa)
		falcon9 := testRocket(t, repo, "Falcon 9", nasa, "2010-06-04")
		lc39a := testLaunchpad(t, repo, "LC-39A", nasa)
		testLaunch(t, repo, domain.Launch{Name: "Demo-2", RocketID: falcon9, LaunchpadID: &lc39a, Success: true}, 0)

		if got, want := launchpadCounters(t, repo, lc39a), (siteCounters{1, 1}); got != want {
			t.Fatalf("\nwanted:\n%v\ngot:\n%v", want, got)
		}

		if err := repo.DeleteEntity(ctx, domain.KindAgency, nasa); err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}

		want := map[string]int{"countries": 1, "agencies": 0, "rockets": 0, "launchpads": 0, "launches": 0}
		for table, n := range want {
			if got := countRows(t, repo, table); got != n {
				t.Fatalf("\nwanted:\n%d rows in %s\ngot:\n%d", n, table, got)
			}
		}
	})

	t.Run("should record removed rows once in the audit trail", func(t *testing.T) {
		repo, teardown := setupTestDB(t)
		defer teardown()

		nasa := testAgency(t, repo, "NASA", nil)
		falcon9 := testRocket(t, repo, "Falcon 9", nasa, "2010-06-04")
		lc39a := testLaunchpad(t, repo, "LC-39A", nasa)
		hurley := testCrew(t, repo, "Douglas Hurley", nasa)
		launch := testLaunch(t, repo, domain.Launch{Name: "Demo-2", RocketID: falcon9, LaunchpadID: &lc39a}, 0)
		dragon := testPayload(t, repo, "Crew Dragon")

		if err := repo.AddLaunchCrew(ctx, &domain.LaunchCrew{LaunchID: launch, CrewID: hurley, Role: "Commander"}); err != nil {
			t.Fatalf("assigning crew: %v", err)
		}
		if err := repo.AddLaunchPayload(ctx, launch, dragon); err != nil {
			t.Fatalf("adding payload: %v", err)
		}
		if _, err := repo.AddLaunchFailure(ctx, &domain.LaunchFailure{LaunchID: launch, Reason: "none really"}); err != nil {
			t.Fatalf("adding failure: %v", err)
		}

		if err := repo.DeleteEntity(ctx, domain.KindAgency, nasa); err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}

		entries, err := repo.ListAuditEntries(ctx, 1)
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}
		if len(entries) != 1 {
			t.Fatalf("\nwanted:\n1 entry\ngot:\n%d", len(entries))
		}

		entry := entries[0]
		if entry.Action != domain.AuditDelete || entry.Entity != domain.KindAgency || entry.EntityID == nil || *entry.EntityID != nasa {
			t.Fatalf("\nwanted:\ndelete agencies %d\ngot:\n%s %s %v", nasa, entry.Action, entry.Entity, entry.EntityID)
		}

		wantRemoved := map[string]any{
			"crew":            float64(1),
			"rockets":         float64(1),
			"launchpads":      float64(1),
			"launches":        float64(1),
			"launch_failures": float64(1),
			"launch_payloads": float64(1),
			"launch_crew":     float64(1),
		}
		if !reflect.DeepEqual(wantRemoved, entry.Context["removed"]) {
			t.Fatalf("\nwanted:\n%v\ngot:\n%v", wantRemoved, entry.Context["removed"])
		}

		if n := countRows(t, repo, "payloads"); n != 1 {
			t.Fatalf("\nwanted:\n1\ngot:\n%d", n)
		}
	})

	t.Run("should debit surviving sites when a rocket goes", func(t *testing.T) {
		repo, teardown := setupTestDB(t)
		defer teardown()

		spacex := testAgency(t, repo, "SpaceX", nil)
		falcon9 := testRocket(t, repo, "Falcon 9", spacex, "2010-06-04")
		heavy := testRocket(t, repo, "Falcon Heavy", spacex, "2018-02-06")
		pad := testLaunchpad(t, repo, "LC-39A", spacex)
		lz1 := testLandpad(t, repo, "LZ-1")

		testLaunch(t, repo, domain.Launch{RocketID: falcon9, LaunchpadID: &pad, LandpadID: &lz1, Success: true, LandingAttempt: true, LandingSuccess: true}, 0)
		testLaunch(t, repo, domain.Launch{RocketID: heavy, LaunchpadID: &pad, LandpadID: &lz1, Success: true, LandingAttempt: true}, 1)

		if err := repo.DeleteEntity(ctx, domain.KindRocket, falcon9); err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}

		if got, want := launchpadCounters(t, repo, pad), (siteCounters{1, 1}); got != want {
			t.Fatalf("\nwanted:\n%v\ngot:\n%v", want, got)
		}
		if got, want := landpadCounters(t, repo, lz1), (siteCounters{1, 0}); got != want {
			t.Fatalf("\nwanted:\n%v\ngot:\n%v", want, got)
		}
		assertNoDrift(t, repo)
	})

	t.Run("should unlink launches from a deleted landpad and count them", func(t *testing.T) {
		reg := metrics.NewRegistry(prometheus.NewRegistry())
		base, teardown := setupTestDB(t)
		defer teardown()
		repo := NewRepository(base.dbConn, WithMetrics(reg))

		spacex := testAgency(t, repo, "SpaceX", nil)
		falcon9 := testRocket(t, repo, "Falcon 9", spacex, "2010-06-04")
		lz1 := testLandpad(t, repo, "LZ-1")
		testLaunch(t, repo, domain.Launch{RocketID: falcon9, LandpadID: &lz1, LandingAttempt: true}, 0)
		testLaunch(t, repo, domain.Launch{RocketID: falcon9, LandpadID: &lz1, LandingAttempt: true}, 1)

		if err := repo.DeleteEntity(ctx, domain.KindLandpad, lz1); err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}

		launches, err := repo.ListLaunches(ctx, domain.LaunchFilter{})
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}
		if len(launches) != 2 {
			t.Fatalf("\nwanted:\n2\ngot:\n%d", len(launches))
		}
		for _, l := range launches {
			if l.LandpadID != nil {
				t.Fatalf("\nwanted:\nnil\ngot:\n%d", *l.LandpadID)
			}
		}

		got := testutil.ToFloat64(reg.CascadedRowsTotal.WithLabelValues("launches", string(domain.SetNull)))
		if got != 2 {
			t.Fatalf("\nwanted:\n2\ngot:\n%v", got)
		}
	})

	t.Run("should count cascaded rows per table", func(t *testing.T) {
		reg := metrics.NewRegistry(prometheus.NewRegistry())
		base, teardown := setupTestDB(t)
		defer teardown()
		repo := NewRepository(base.dbConn, WithMetrics(reg))

		spacex := testAgency(t, repo, "SpaceX", nil)
		falcon9 := testRocket(t, repo, "Falcon 9", spacex, "2010-06-04")
		pad := testLaunchpad(t, repo, "SLC-40", spacex)
		for i := 0; i < 3; i++ {
			testLaunch(t, repo, domain.Launch{RocketID: falcon9, LaunchpadID: &pad}, i)
		}

		if err := repo.DeleteEntity(ctx, domain.KindAgency, spacex); err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}

		tests := map[string]float64{"rockets": 1, "launchpads": 1, "launches": 3}
		for table, want := range tests {
			got := testutil.ToFloat64(reg.CascadedRowsTotal.WithLabelValues(table, string(domain.Cascade)))
			if got != want {
				t.Fatalf("\nwanted:\n%s %v\ngot:\n%s %v", table, want, table, got)
			}
		}
	})

	t.Run("should return ErrNotFound for a missing row", func(t *testing.T) {
		repo, teardown := setupTestDB(t)
		defer teardown()

		err := repo.DeleteEntity(ctx, domain.KindRocket, 42)
		if !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("\nwanted:\n%v\ngot:\n%v", domain.ErrNotFound, err)
		}
	})

	t.Run("should refuse association kinds", func(t *testing.T) {
		repo, teardown := setupTestDB(t)
		defer teardown()

		err := repo.DeleteEntity(ctx, domain.KindLaunchCrew, 1)
		if err == nil {
			t.Fatalf("\nwanted:\nerror\ngot:\nnil")
		}
	})
}
