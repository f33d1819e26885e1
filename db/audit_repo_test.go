package db

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/tfkr-ae/rocketdb/core"
	"github.com/tfkr-ae/rocketdb/domain"
)

func testAuditEntry(t *testing.T, message string, ts time.Time, options ...func(*domain.AuditEntry) error) *domain.AuditEntry {
	t.Helper()
	options = append(options, core.AuditWithTimestamp(ts))
	entry, err := core.NewAuditEntry(domain.AuditNote, domain.KindLaunch, message, options...)
	if err != nil {
		t.Fatalf("building audit entry: %v", err)
	}
	return entry
}

func TestAuditRepo_InsertAuditEntry(t *testing.T) {
	ctx := context.Background()

	t.Run("should store an entry with its context", func(t *testing.T) {
		repo, teardown := setupTestDB(t)
		defer teardown()

		entry := testAuditEntry(t, "imported launches", testEpoch,
			core.AuditWithEntityID(7),
			core.AuditWithContext(map[string]any{"source": "seed.json", "rows": 12}),
		)

		if err := repo.InsertAuditEntry(ctx, entry); err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}

		entries, err := repo.ListAuditEntries(ctx, 0)
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}

		want := &domain.AuditEntry{
			ID:        entry.ID,
			Timestamp: testEpoch,
			Action:    domain.AuditNote,
			Entity:    domain.KindLaunch,
			EntityID:  ptr(int64(7)),
			Message:   "imported launches",
			Context:   map[string]any{"source": "seed.json", "rows": float64(12)},
		}
		if len(entries) != 1 || !reflect.DeepEqual(want, entries[0]) {
			t.Fatalf("\nwanted:\n%+v\ngot:\n%+v", want, entries)
		}
	})

	t.Run("should store an entry without an entity id or context", func(t *testing.T) {
		repo, teardown := setupTestDB(t)
		defer teardown()

		entry := testAuditEntry(t, "bulk load finished", testEpoch)
		entry.Context = nil

		if err := repo.InsertAuditEntry(ctx, entry); err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}

		entries, err := repo.ListAuditEntries(ctx, 0)
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}
		if entries[0].EntityID != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", *entries[0].EntityID)
		}
		if len(entries[0].Context) != 0 {
			t.Fatalf("\nwanted:\nempty context\ngot:\n%v", entries[0].Context)
		}
	})

	t.Run("should reject an unknown action", func(t *testing.T) {
		repo, teardown := setupTestDB(t)
		defer teardown()

		entry := testAuditEntry(t, "odd", testEpoch)
		entry.Action = "rename"

		if err := repo.InsertAuditEntry(ctx, entry); err == nil {
			t.Fatalf("\nwanted:\nerror\ngot:\nnil")
		}
	})
}

func TestAuditRepo_ListAuditEntries(t *testing.T) {
	ctx := context.Background()

	t.Run("should list the most recent entries first and honour the limit", func(t *testing.T) {
		repo, teardown := setupTestDB(t)
		defer teardown()

		for i, msg := range []string{"first", "second", "third"} {
			entry := testAuditEntry(t, msg, testEpoch.Add(time.Duration(i)*time.Minute))
			if err := repo.InsertAuditEntry(ctx, entry); err != nil {
				t.Fatalf("inserting %s: %v", msg, err)
			}
		}

		entries, err := repo.ListAuditEntries(ctx, 2)
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}

		var got []string
		for _, e := range entries {
			got = append(got, e.Message)
		}
		want := []string{"third", "second"}
		if !reflect.DeepEqual(want, got) {
			t.Fatalf("\nwanted:\n%v\ngot:\n%v", want, got)
		}
	})

	t.Run("should record catalog writes", func(t *testing.T) {
		repo, teardown := setupTestDB(t)
		defer teardown()

		id := testCountry(t, repo, "USA", "United States")

		entries, err := repo.ListAuditEntries(ctx, 0)
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}
		if len(entries) != 1 {
			t.Fatalf("\nwanted:\n1\ngot:\n%d", len(entries))
		}
		if entries[0].Action != domain.AuditCreate || entries[0].Entity != domain.KindCountry || *entries[0].EntityID != id {
			t.Fatalf("\nwanted:\ncreate countries %d\ngot:\n%+v", id, entries[0])
		}
	})
}
