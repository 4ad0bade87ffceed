package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/ayurai/ayurai/internal/dosha"
)

// assessmentRepo implements AssessmentRepo. Records are never updated.
type assessmentRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

var assessmentFields = []string{
	"id", "user_id", "sequence", "timestamp", "pass",
	"vata", "pitta", "kapha", "dominant", "answers",
}

func (r *assessmentRepo) Append(ctx context.Context, rec *AssessmentData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return err
	}
	if err := insertAssessment(ctx, r.db, seqNum, rec); err != nil {
		return err
	}
	rec.Sequence = seqNum
	return nil
}

func (r *assessmentRepo) AppendWithProfile(ctx context.Context, recs []*AssessmentData, p *ProfileData) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin assessment: %w", err)
	}
	defer tx.Rollback()

	seqs := make([]int64, len(recs))
	for i, rec := range recs {
		if seqs[i], err = r.seq.nextIn(ctx, tx); err != nil {
			return err
		}
		if err := insertAssessment(ctx, tx, seqs[i], rec); err != nil {
			return fmt.Errorf("%s record: %w", rec.Pass, err)
		}
	}
	if p != nil {
		if err := upsertProfile(ctx, tx, p); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit assessment: %w", err)
	}
	for i, rec := range recs {
		rec.Sequence = seqs[i]
	}
	return nil
}

func insertAssessment(ctx context.Context, q querier, seqNum int64, rec *AssessmentData) error {
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now()
	}
	answers, err := json.Marshal(rec.Answers)
	if err != nil {
		return fmt.Errorf("marshal answers: %w", err)
	}

	stmt := build().Insert(tableAssessments).
		Columns(assessmentFields...).
		Values(
			rec.ID, rec.UserID, seqNum, rec.Timestamp.UTC(), rec.Pass,
			rec.Scores.Vata, rec.Scores.Pitta, rec.Scores.Kapha, string(rec.Dominant), string(answers),
		)
	if _, err := exec(ctx, q, stmt); err != nil {
		return fmt.Errorf("save assessment: %w", err)
	}
	return nil
}

func (r *assessmentRepo) List(ctx context.Context, userID, pass string, opts QueryOpts) ([]AssessmentData, error) {
	sel := build().Select(assessmentFields...).
		From(entsql.Table(tableAssessments)).
		Where(entsql.EQ(colUserID, userID))
	if pass != "" {
		sel = sel.Where(entsql.EQ("pass", pass))
	}
	sel = applyQueryOpts(sel.OrderBy(entsql.Asc(colSequence)), opts)

	var out []AssessmentData
	err := queryRows(ctx, r.db, sel, func(rows *sql.Rows) error {
		var (
			a        AssessmentData
			dominant string
			answers  string
		)
		if err := rows.Scan(
			&a.ID, &a.UserID, &a.Sequence, &a.Timestamp, &a.Pass,
			&a.Scores.Vata, &a.Scores.Pitta, &a.Scores.Kapha, &dominant, &answers,
		); err != nil {
			return err
		}
		a.Dominant = dosha.Dosha(dominant)
		if err := json.Unmarshal([]byte(answers), &a.Answers); err != nil {
			return fmt.Errorf("unmarshal answers of %s: %w", a.ID, err)
		}
		out = append(out, a)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("query assessments: %w", err)
	}
	return out, nil
}
