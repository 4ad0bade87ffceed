package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
)

// sequenceCounter manages the global monotonic sequence number shared by
// every append-only table (assessments, vitals, LLM events, reports). Each
// table has its own keys, so a shared counter is the only way to order rows
// across tables, e.g. whether a report was generated before or after the
// latest reassessment.
//
// Uses raw SQL outside the query builder because SQLite needs the
// RETURNING clause for an atomic increment. The mutex serializes within the
// process.
type sequenceCounter struct {
	mu sync.Mutex
	db *sql.DB
}

// newSequenceCounter creates a counter and ensures the tracking table exists.
func newSequenceCounter(db *sql.DB) (*sequenceCounter, error) {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS global_sequence (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		next_val INTEGER NOT NULL DEFAULT 1
	)`)
	if err != nil {
		return nil, fmt.Errorf("create sequence table: %w", err)
	}

	_, err = db.Exec(`INSERT OR IGNORE INTO global_sequence (id, next_val) VALUES (1, 1)`)
	if err != nil {
		return nil, fmt.Errorf("seed sequence: %w", err)
	}

	return &sequenceCounter{db: db}, nil
}

// Next atomically returns the next sequence number and increments the counter.
func (sc *sequenceCounter) Next(ctx context.Context) (int64, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return nextSequence(ctx, sc.db)
}

// nextIn increments the counter inside tx, so a rollback also gives the
// number back. The mutex is not taken: tx already holds the only connection.
func (sc *sequenceCounter) nextIn(ctx context.Context, tx *sql.Tx) (int64, error) {
	return nextSequence(ctx, tx)
}

func nextSequence(ctx context.Context, q rowQuerier) (int64, error) {
	var seq int64
	err := q.QueryRowContext(ctx,
		`UPDATE global_sequence SET next_val = next_val + 1 WHERE id = 1 RETURNING next_val - 1`,
	).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	return seq, nil
}
