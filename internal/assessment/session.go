package assessment

import (
	"errors"
	"fmt"
	"maps"
	"time"

	"github.com/ayurai/ayurai/internal/dosha"
	"github.com/ayurai/ayurai/internal/questionbank"
)

var ErrIncomplete = errors.New("questionnaire is not finished")

// Session walks one user through the baseline pass and then the current
// pass over the same bank. Each pass keeps its own answer set, so answering
// the current pass never changes the baseline result.
type Session struct {
	bank    *questionbank.Bank
	passIdx int
	index   int
	answers [2]map[string]dosha.Dosha
	picks   [2]map[string]int
	done    bool
}

// NewSession starts a session at the first baseline question.
func NewSession(bank *questionbank.Bank) *Session {
	return &Session{
		bank:    bank,
		answers: [2]map[string]dosha.Dosha{{}, {}},
		picks:   [2]map[string]int{{}, {}},
	}
}

// Bank returns the question bank the session runs over.
func (s *Session) Bank() *questionbank.Bank {
	return s.bank
}

// Pass returns the pass currently being answered.
func (s *Session) Pass() Pass {
	return Passes()[s.passIdx]
}

// Index returns the position of the current question within its pass.
func (s *Session) Index() int {
	return s.index
}

// Done reports whether both passes are complete.
func (s *Session) Done() bool {
	return s.done
}

// Current returns the question awaiting an answer. ok is false once the
// session is done.
func (s *Session) Current() (q questionbank.Question, ok bool) {
	if s.done {
		return questionbank.Question{}, false
	}
	return s.bank.At(s.index), true
}

// Selected returns the option index previously chosen for the current
// question in the current pass, or -1.
func (s *Session) Selected() int {
	q, ok := s.Current()
	if !ok {
		return -1
	}
	if i, answered := s.picks[s.passIdx][q.ID]; answered {
		return i
	}
	return -1
}

// Choose records the option for the current question and advances. After
// the last baseline question the session moves to the first current
// question; after the last current question it is done. Re-answering a
// question overwrites the earlier choice.
func (s *Session) Choose(optionIndex int) error {
	q, ok := s.Current()
	if !ok {
		return fmt.Errorf("choose: session already finished")
	}
	d, err := s.bank.Resolve(q.ID, optionIndex)
	if err != nil {
		return err
	}
	s.answers[s.passIdx][q.ID] = d
	s.picks[s.passIdx][q.ID] = optionIndex

	switch {
	case s.index < s.bank.Len()-1:
		s.index++
	case s.passIdx == 0:
		s.passIdx = 1
		s.index = 0
	default:
		s.done = true
	}
	return nil
}

// Back moves to the previous question, crossing back into the baseline
// pass if needed. It reports false at the very first question.
func (s *Session) Back() bool {
	switch {
	case s.done:
		s.done = false
	case s.index > 0:
		s.index--
	case s.passIdx == 1:
		s.passIdx = 0
		s.index = s.bank.Len() - 1
	default:
		return false
	}
	return true
}

// Progress returns how many questions precede the current one across both
// passes, and the total question count across both passes.
func (s *Session) Progress() (position, total int) {
	total = 2 * s.bank.Len()
	if s.done {
		return total, total
	}
	return s.passIdx*s.bank.Len() + s.index, total
}

// Answers returns a copy of the answer set of pass p.
func (s *Session) Answers(p Pass) map[string]dosha.Dosha {
	if p == Current {
		return maps.Clone(s.answers[1])
	}
	return maps.Clone(s.answers[0])
}

// Results scores both passes. It may be called at any point.
func (s *Session) Results() (baseline, current dosha.Result) {
	return dosha.Score(s.answers[0]), dosha.Score(s.answers[1])
}

// Records builds the two immutable records of a finished session.
func (s *Session) Records(userID string, now time.Time) (baseline, current Record, err error) {
	if !s.done {
		return Record{}, Record{}, ErrIncomplete
	}
	baseline = NewRecord(userID, Baseline, s.answers[0], now)
	current = NewRecord(userID, Current, s.answers[1], now)
	return baseline, current, nil
}
