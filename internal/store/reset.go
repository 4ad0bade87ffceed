package store

import (
	"context"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

// ResetUser deletes every row owned by userID in a single transaction.
// LLM request events are not user-scoped and are kept.
func (s *Store) ResetUser(ctx context.Context, userID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin reset: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{tableAssessments, tableVitals, tablePlanItems, tableReports, tableProfiles} {
		stmt := build().Delete(table).Where(entsql.EQ(colUserID, userID))
		if _, err := exec(ctx, tx, stmt); err != nil {
			return fmt.Errorf("reset %s: %w", table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit reset: %w", err)
	}
	return nil
}
