package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// ErrNotFound is returned when an update or delete matches no row.
var ErrNotFound = errors.New("not found")

// planRepo implements PlanRepo.
type planRepo struct {
	db *sql.DB
}

var planItemFields = []string{
	"id", "user_id", "category", "title", "description", "benefits",
	"planned", "created_at", "completed_at",
}

func (r *planRepo) Add(ctx context.Context, item *PlanItemData) error {
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now()
	}
	var completed any
	if item.CompletedAt != nil {
		completed = item.CompletedAt.UTC()
	}

	stmt := build().Insert(tablePlanItems).
		Columns(planItemFields...).
		Values(
			item.ID, item.UserID, item.Category, item.Title, item.Description, item.Benefits,
			item.Planned, item.CreatedAt.UTC(), completed,
		)
	if _, err := exec(ctx, r.db, stmt); err != nil {
		return fmt.Errorf("save plan item: %w", err)
	}
	return nil
}

func (r *planRepo) List(ctx context.Context, userID string) ([]PlanItemData, error) {
	sel := build().Select(planItemFields...).
		From(entsql.Table(tablePlanItems)).
		Where(entsql.EQ(colUserID, userID)).
		OrderBy(entsql.Asc("created_at"), entsql.Asc(colID))
	items, err := r.scan(ctx, sel)
	if err != nil {
		return nil, fmt.Errorf("query plan items: %w", err)
	}
	return items, nil
}

func (r *planRepo) Get(ctx context.Context, userID, id string) (*PlanItemData, error) {
	sel := build().Select(planItemFields...).
		From(entsql.Table(tablePlanItems)).
		Where(entsql.And(entsql.EQ(colUserID, userID), entsql.EQ(colID, id))).
		Limit(1)
	items, err := r.scan(ctx, sel)
	if err != nil {
		return nil, fmt.Errorf("query plan item: %w", err)
	}
	if len(items) == 0 {
		return nil, nil
	}
	return &items[0], nil
}

func (r *planRepo) SetCompleted(ctx context.Context, userID, id string, at *time.Time) error {
	upd := build().Update(tablePlanItems).
		Where(entsql.And(entsql.EQ(colUserID, userID), entsql.EQ(colID, id)))
	if at == nil {
		upd = upd.SetNull("completed_at")
	} else {
		upd = upd.Set("completed_at", at.UTC())
	}
	return r.update(ctx, upd, id)
}

func (r *planRepo) SetPlanned(ctx context.Context, userID, id string, planned bool) error {
	upd := build().Update(tablePlanItems).
		Set("planned", planned).
		Where(entsql.And(entsql.EQ(colUserID, userID), entsql.EQ(colID, id)))
	return r.update(ctx, upd, id)
}

func (r *planRepo) Delete(ctx context.Context, userID, id string) error {
	stmt := build().Delete(tablePlanItems).
		Where(entsql.And(entsql.EQ(colUserID, userID), entsql.EQ(colID, id)))
	res, err := exec(ctx, r.db, stmt)
	if err != nil {
		return fmt.Errorf("delete plan item: %w", err)
	}
	return requireAffected(res, id)
}

func (r *planRepo) update(ctx context.Context, upd *entsql.UpdateBuilder, id string) error {
	res, err := exec(ctx, r.db, upd)
	if err != nil {
		return fmt.Errorf("update plan item: %w", err)
	}
	return requireAffected(res, id)
}

func (r *planRepo) scan(ctx context.Context, sel *entsql.Selector) ([]PlanItemData, error) {
	var out []PlanItemData
	err := queryRows(ctx, r.db, sel, func(rows *sql.Rows) error {
		var (
			it        PlanItemData
			completed sql.NullTime
		)
		if err := rows.Scan(
			&it.ID, &it.UserID, &it.Category, &it.Title, &it.Description, &it.Benefits,
			&it.Planned, &it.CreatedAt, &completed,
		); err != nil {
			return err
		}
		if completed.Valid {
			t := completed.Time
			it.CompletedAt = &t
		}
		out = append(out, it)
		return nil
	})
	return out, err
}

func requireAffected(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("plan item %s: %w", id, ErrNotFound)
	}
	return nil
}
