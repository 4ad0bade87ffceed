package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// reportRepo implements ReportRepo.
type reportRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

var reportFields = []string{
	"id", "user_id", "sequence", "timestamp", "kind", "mode", "content",
}

func (r *reportRepo) Save(ctx context.Context, rep *Report) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}
	if rep.Timestamp.IsZero() {
		rep.Timestamp = time.Now()
	}

	stmt := build().Insert(tableReports).
		Columns(reportFields[1:]...).
		Values(rep.UserID, seqNum, rep.Timestamp.UTC(), rep.Kind, rep.Mode, rep.Content)
	res, err := exec(ctx, r.db, stmt)
	if err != nil {
		return fmt.Errorf("save report: %w", err)
	}
	if id, err := res.LastInsertId(); err == nil {
		rep.ID = int(id)
	}
	rep.Sequence = seqNum
	return nil
}

func (r *reportRepo) Latest(ctx context.Context, userID, kind string) (*Report, error) {
	sel := build().Select(reportFields...).
		From(entsql.Table(tableReports)).
		Where(entsql.And(entsql.EQ(colUserID, userID), entsql.EQ("kind", kind))).
		OrderBy(entsql.Desc(colSequence)).
		Limit(1)

	var out *Report
	err := queryRows(ctx, r.db, sel, func(rows *sql.Rows) error {
		var rep Report
		if err := rows.Scan(
			&rep.ID, &rep.UserID, &rep.Sequence, &rep.Timestamp, &rep.Kind, &rep.Mode, &rep.Content,
		); err != nil {
			return err
		}
		out = &rep
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("query latest report: %w", err)
	}
	return out, nil
}

func (r *reportRepo) Prune(ctx context.Context, userID string, keep int) error {
	// Find the sequence threshold: the Nth most recent report.
	sel := build().Select(colSequence).
		From(entsql.Table(tableReports)).
		Where(entsql.EQ(colUserID, userID)).
		OrderBy(entsql.Desc(colSequence)).
		Offset(keep).
		Limit(1)

	var threshold int64
	found := false
	err := queryRows(ctx, r.db, sel, func(rows *sql.Rows) error {
		found = true
		return rows.Scan(&threshold)
	})
	if err != nil {
		return fmt.Errorf("query reports for prune: %w", err)
	}
	if !found {
		return nil // fewer than keep reports exist
	}

	stmt := build().Delete(tableReports).
		Where(entsql.And(entsql.EQ(colUserID, userID), entsql.LTE(colSequence, threshold)))
	if _, err := exec(ctx, r.db, stmt); err != nil {
		return fmt.Errorf("prune reports: %w", err)
	}
	return nil
}
