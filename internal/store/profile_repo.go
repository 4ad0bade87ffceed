package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// profileRepo implements ProfileRepo.
type profileRepo struct {
	db *sql.DB
}

var profileFields = []string{
	"user_id", "name", "dob", "birth_place", "current_location",
	"prakriti", "vata", "pitta", "kapha", "last_updated",
}

func (r *profileRepo) Get(ctx context.Context, userID string) (*ProfileData, error) {
	sel := build().Select(profileFields...).
		From(entsql.Table(tableProfiles)).
		Where(entsql.EQ(colUserID, userID)).
		Limit(1)

	var out *ProfileData
	err := queryRows(ctx, r.db, sel, func(rows *sql.Rows) error {
		var p ProfileData
		if err := rows.Scan(
			&p.UserID, &p.Name, &p.DOB, &p.BirthPlace, &p.CurrentLocation,
			&p.Prakriti, &p.Scores.Vata, &p.Scores.Pitta, &p.Scores.Kapha, &p.LastUpdated,
		); err != nil {
			return err
		}
		out = &p
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("query profile: %w", err)
	}
	return out, nil
}

func (r *profileRepo) Upsert(ctx context.Context, p *ProfileData) error {
	return upsertProfile(ctx, r.db, p)
}

func upsertProfile(ctx context.Context, q querier, p *ProfileData) error {
	if p.UserID == "" {
		return fmt.Errorf("upsert profile: empty user ID")
	}
	if p.LastUpdated.IsZero() {
		p.LastUpdated = time.Now()
	}

	stmt := build().Insert(tableProfiles).
		Columns(profileFields...).
		Values(
			p.UserID, p.Name, p.DOB, p.BirthPlace, p.CurrentLocation,
			p.Prakriti, p.Scores.Vata, p.Scores.Pitta, p.Scores.Kapha, p.LastUpdated.UTC(),
		).
		OnConflict(
			entsql.ConflictColumns(colUserID),
			entsql.ResolveWithNewValues(),
		)
	if _, err := exec(ctx, q, stmt); err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	return nil
}
