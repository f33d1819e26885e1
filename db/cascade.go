package db

import (
	"context"
	"fmt"
	"slices"
	"strconv"

	"github.com/jmoiron/sqlx"
	"github.com/tfkr-ae/rocketdb/domain"
)

// inChunk bounds the number of ids bound into a single IN list.
const inChunk = 500

// associationKeys lists the composite key columns of the association tables.
var associationKeys = map[domain.EntityKind]string{
	domain.KindLaunchPayload:   "launch_id, payload_id",
	domain.KindLaunchCrew:      "launch_id, crew_id",
	domain.KindPayloadCustomer: "payload_id, customer_name",
	domain.KindPayloadNorad:    "payload_id, norad_id",
}

// deletePlan is the set of rows a delete will remove or unlink, computed inside the delete's
// transaction before the parent row goes. The database applies the referential actions itself;
// the plan is used for counter adjustments, the audit trail, logs and metrics.
type deletePlan struct {
	root     domain.EntityKind
	rootID   int64
	removed  map[domain.EntityKind]map[string]int64
	unlinked map[domain.EntityKind]map[string]int64
}

func newDeletePlan(kind domain.EntityKind, id int64) *deletePlan {
	p := &deletePlan{
		root:     kind,
		rootID:   id,
		removed:  make(map[domain.EntityKind]map[string]int64),
		unlinked: make(map[domain.EntityKind]map[string]int64),
	}
	p.mark(p.removed, kind, []string{strconv.FormatInt(id, 10)}, []int64{id})
	return p
}

// mark adds rows to set and returns the ids that were not there before.
func (p *deletePlan) mark(set map[domain.EntityKind]map[string]int64, kind domain.EntityKind, keys []string, ids []int64) []int64 {
	if set[kind] == nil {
		set[kind] = make(map[string]int64)
	}

	var fresh []int64
	for i, key := range keys {
		if _, ok := set[kind][key]; ok {
			continue
		}
		var id int64
		if ids != nil {
			id = ids[i]
			fresh = append(fresh, id)
		}
		set[kind][key] = id
	}
	return fresh
}

// walk follows every relationship in which parent is referenced, transitively.
func (p *deletePlan) walk(ctx context.Context, tx *sqlx.Tx, parent domain.EntityKind, ids []int64) error {
	for _, rel := range domain.DependentsOf(parent) {
		keys, childIDs, err := dependentRows(ctx, tx, rel, ids)
		if err != nil {
			return err
		}

		switch rel.Action {
		case domain.Cascade:
			fresh := p.mark(p.removed, rel.Child, keys, childIDs)
			if rel.Child.HasID() && len(fresh) > 0 {
				if err := p.walk(ctx, tx, rel.Child, fresh); err != nil {
					return err
				}
			}
		case domain.SetNull:
			p.mark(p.unlinked, rel.Child, keys, childIDs)
		default:
			return fmt.Errorf("unknown referential action %q on %s.%s", rel.Action, rel.Child, rel.Column)
		}
	}
	return nil
}

// dependentRows returns the keys of the child rows of rel that reference one of ids.
// For child tables with a surrogate id it also returns the ids.
func dependentRows(ctx context.Context, tx *sqlx.Tx, rel domain.Relationship, ids []int64) ([]string, []int64, error) {
	var keys []string
	var childIDs []int64

	for chunk := range slices.Chunk(ids, inChunk) {
		if rel.Child.HasID() {
			query, args, err := sqlx.In(fmt.Sprintf(`SELECT id FROM %s WHERE %s IN (?)`, rel.Child, rel.Column), chunk)
			if err != nil {
				return nil, nil, fmt.Errorf("building %s lookup: %w", rel.Child, err)
			}

			var found []int64
			if err := tx.SelectContext(ctx, &found, tx.Rebind(query), args...); err != nil {
				return nil, nil, fmt.Errorf("finding %s by %s: %w", rel.Child, rel.Column, err)
			}
			for _, id := range found {
				keys = append(keys, strconv.FormatInt(id, 10))
				childIDs = append(childIDs, id)
			}
			continue
		}

		columns, ok := associationKeys[rel.Child]
		if !ok {
			return nil, nil, fmt.Errorf("no key columns for %s", rel.Child)
		}
		query, args, err := sqlx.In(fmt.Sprintf(`SELECT %s FROM %s WHERE %s IN (?)`, columns, rel.Child, rel.Column), chunk)
		if err != nil {
			return nil, nil, fmt.Errorf("building %s lookup: %w", rel.Child, err)
		}

		rows, err := tx.QueryxContext(ctx, tx.Rebind(query), args...)
		if err != nil {
			return nil, nil, fmt.Errorf("finding %s by %s: %w", rel.Child, rel.Column, err)
		}
		for rows.Next() {
			values, err := rows.SliceScan()
			if err != nil {
				rows.Close()
				return nil, nil, fmt.Errorf("scanning %s: %w", rel.Child, err)
			}
			keys = append(keys, associationKey(values))
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return nil, nil, fmt.Errorf("iterating %s: %w", rel.Child, err)
		}
		rows.Close()
	}
	return keys, childIDs, nil
}

func associationKey(values []any) string {
	key := ""
	for i, v := range values {
		if i > 0 {
			key += "\x00"
		}
		if b, ok := v.([]byte); ok {
			v = string(b)
		}
		key += fmt.Sprint(v)
	}
	return key
}

// removedIDs returns the ids of the removed rows of kind in ascending order.
func (p *deletePlan) removedIDs(kind domain.EntityKind) []int64 {
	ids := make([]int64, 0, len(p.removed[kind]))
	for _, id := range p.removed[kind] {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// counts summarises the plan per table, leaving out the root row itself.
func (p *deletePlan) counts() (removed, unlinked map[string]int) {
	removed = make(map[string]int)
	for kind, rows := range p.removed {
		n := len(rows)
		if kind == p.root {
			n--
		}
		if n > 0 {
			removed[string(kind)] = n
		}
	}

	unlinked = make(map[string]int)
	for kind, rows := range p.unlinked {
		n := 0
		for key := range rows {
			if _, gone := p.removed[kind][key]; !gone {
				n++
			}
		}
		if n > 0 {
			unlinked[string(kind)] = n
		}
	}
	return removed, unlinked
}

// counterDeltas debits the sites of every launch the plan removes. Sites removed by the same
// delete are left alone.
func (p *deletePlan) counterDeltas(ctx context.Context, tx *sqlx.Tx) (counterDeltas, error) {
	deltas := counterDeltas{}
	for chunk := range slices.Chunk(p.removedIDs(domain.KindLaunch), inChunk) {
		query, args, err := sqlx.In(`SELECT `+launchColumns+` FROM launches WHERE id IN (?)`+forUpdate(tx), chunk)
		if err != nil {
			return nil, fmt.Errorf("building launch lookup: %w", err)
		}

		var rows []*dbLaunch
		if err := tx.SelectContext(ctx, &rows, tx.Rebind(query), args...); err != nil {
			return nil, fmt.Errorf("loading removed launches: %w", err)
		}
		for _, row := range rows {
			deltas.addLaunch(row, -1)
		}
	}

	deltas.drop(domain.SiteLaunchpad, p.removedIDs(domain.KindLaunchpad))
	deltas.drop(domain.SiteLandpad, p.removedIDs(domain.KindLandpad))
	return deltas, nil
}

// DeleteEntity removes the row of the given kind and id. Dependent rows are removed or unlinked
// according to domain.Relationships, and the counters of surviving sites are debited for every
// launch that disappears, all in one transaction.
func (repo *Repository) DeleteEntity(ctx context.Context, kind domain.EntityKind, id int64) error {
	if !slices.Contains(domain.Entities, kind) {
		return fmt.Errorf("cannot delete %q by id", kind)
	}

	return repo.withTx(ctx, "delete_"+string(kind), func(tx *sqlx.Tx) error {
		ok, err := exists(ctx, tx, kind, id)
		if err != nil {
			return err
		}
		if !ok {
			return notFound(string(kind), id)
		}

		plan := newDeletePlan(kind, id)
		if err := plan.walk(ctx, tx, kind, []int64{id}); err != nil {
			return fmt.Errorf("planning delete of %s %d: %w", kind, id, err)
		}

		deltas, err := plan.counterDeltas(ctx, tx)
		if err != nil {
			return err
		}
		if err := deltas.apply(ctx, tx); err != nil {
			return err
		}

		query := fmt.Sprintf(`DELETE FROM %s WHERE id = ?`, kind)
		if err := execAffecting(ctx, tx, string(kind), id, query, id); err != nil {
			return err
		}

		removed, unlinked := plan.counts()
		for table, n := range removed {
			repo.metrics.Cascaded(table, string(domain.Cascade), n)
		}
		for table, n := range unlinked {
			repo.metrics.Cascaded(table, string(domain.SetNull), n)
		}

		extra := map[string]any{}
		if len(removed) > 0 {
			extra["removed"] = removed
		}
		if len(unlinked) > 0 {
			extra["unlinked"] = unlinked
		}
		return repo.audit(ctx, tx, domain.AuditDelete, kind, id, fmt.Sprintf("deleted %s %d", kind, id), extra)
	})
}
