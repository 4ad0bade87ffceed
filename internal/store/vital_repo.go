package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// vitalRepo implements VitalRepo.
type vitalRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

var vitalFields = []string{
	"id", "user_id", "sequence", "timestamp", "kind", "value", "secondary", "notes",
}

func (r *vitalRepo) Append(ctx context.Context, v *VitalData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}
	if v.Timestamp.IsZero() {
		v.Timestamp = time.Now()
	}

	var secondary any
	if v.Secondary != nil {
		secondary = *v.Secondary
	}

	stmt := build().Insert(tableVitals).
		Columns(vitalFields...).
		Values(v.ID, v.UserID, seqNum, v.Timestamp.UTC(), v.Kind, v.Value, secondary, v.Notes)
	if _, err := exec(ctx, r.db, stmt); err != nil {
		return fmt.Errorf("save vital: %w", err)
	}
	v.Sequence = seqNum
	return nil
}

func (r *vitalRepo) List(ctx context.Context, userID, kind string, opts QueryOpts) ([]VitalData, error) {
	sel := build().Select(vitalFields...).
		From(entsql.Table(tableVitals)).
		Where(entsql.EQ(colUserID, userID))
	if kind != "" {
		sel = sel.Where(entsql.EQ("kind", kind))
	}
	sel = applyQueryOpts(sel.OrderBy(entsql.Desc(colSequence)), opts)

	var out []VitalData
	err := queryRows(ctx, r.db, sel, func(rows *sql.Rows) error {
		var (
			v         VitalData
			secondary sql.NullFloat64
		)
		if err := rows.Scan(
			&v.ID, &v.UserID, &v.Sequence, &v.Timestamp, &v.Kind, &v.Value, &secondary, &v.Notes,
		); err != nil {
			return err
		}
		if secondary.Valid {
			s := secondary.Float64
			v.Secondary = &s
		}
		out = append(out, v)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("query vitals: %w", err)
	}
	return out, nil
}
