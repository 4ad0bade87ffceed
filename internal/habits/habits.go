// Package habits manages the lifestyle plan: a checklist of daily rituals
// the user can tick off.
package habits

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Category groups plan items. It is a closed set.
type Category string

const (
	Diet     Category = "Diet"
	Movement Category = "Movement"
	Breath   Category = "Breath"
	Routine  Category = "Routine"
	Custom   Category = "Custom"
)

// Defaults applied to manually added items.
const (
	ManualDescription = "Manually added daily ritual"
	ManualBenefits    = "Personal routine"
)

var (
	ErrEmptyTitle = errors.New("habit title must not be empty")
	ErrNotFound   = errors.New("habit not found")
	ErrAmbiguous  = errors.New("habit reference matches more than one item")
)

// AllCategories returns every category in display order.
func AllCategories() []Category {
	return []Category{Diet, Movement, Breath, Routine, Custom}
}

// ParseCategory matches s case-insensitively. Unrecognised input falls back
// to Routine.
func ParseCategory(s string) Category {
	for _, c := range AllCategories() {
		if strings.EqualFold(strings.TrimSpace(s), string(c)) {
			return c
		}
	}
	return Routine
}

// Item is one habit on the plan.
type Item struct {
	ID          string
	UserID      string
	Category    Category
	Title       string
	Description string
	Benefits    string
	Planned     bool
	CreatedAt   time.Time
	CompletedAt *time.Time
}

// Done reports whether the item has a completion time.
func (it Item) Done() bool {
	return it.CompletedAt != nil
}

// Toggle marks the item complete at now, or clears an existing completion.
func (it *Item) Toggle(now time.Time) {
	if it.CompletedAt != nil {
		it.CompletedAt = nil
		return
	}
	t := now
	it.CompletedAt = &t
}

// Planned returns the items the user has put on their active plan.
func Planned(items []Item) []Item {
	var out []Item
	for _, it := range items {
		if it.Planned {
			out = append(out, it)
		}
	}
	return out
}

// CompletedCount counts items with a completion time.
func CompletedCount(items []Item) int {
	n := 0
	for _, it := range items {
		if it.Done() {
			n++
		}
	}
	return n
}

// DayCount is the number of completions on one calendar day.
type DayCount struct {
	Day   time.Time
	Count int
}

// Activity returns completion counts for the last days calendar days,
// oldest first and ending with the day of now. Days are in now's location.
func Activity(items []Item, now time.Time, days int) []DayCount {
	if days <= 0 {
		return nil
	}
	today := startOfDay(now)
	first := today.AddDate(0, 0, -(days - 1))

	out := make([]DayCount, days)
	for i := range out {
		out[i].Day = first.AddDate(0, 0, i)
	}
	for _, it := range items {
		if it.CompletedAt == nil {
			continue
		}
		d := startOfDay(it.CompletedAt.In(now.Location()))
		if d.Before(first) || d.After(today) {
			continue
		}
		for i := range out {
			if out[i].Day.Equal(d) {
				out[i].Count++
				break
			}
		}
	}
	return out
}

// Streak counts consecutive days with at least one completion, ending today,
// or yesterday when nothing has been completed yet today.
func Streak(items []Item, now time.Time) int {
	done := make(map[time.Time]bool)
	for _, it := range items {
		if it.CompletedAt != nil {
			done[startOfDay(it.CompletedAt.In(now.Location()))] = true
		}
	}

	day := startOfDay(now)
	if !done[day] {
		day = day.AddDate(0, 0, -1)
	}
	streak := 0
	for done[day] {
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Find resolves ref to an item by exact ID or unique ID prefix.
func Find(items []Item, ref string) (Item, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return Item{}, ErrNotFound
	}
	var match []Item
	for _, it := range items {
		if it.ID == ref {
			return it, nil
		}
		if strings.HasPrefix(it.ID, ref) {
			match = append(match, it)
		}
	}
	switch len(match) {
	case 0:
		return Item{}, fmt.Errorf("%w: %q", ErrNotFound, ref)
	case 1:
		return match[0], nil
	default:
		return Item{}, fmt.Errorf("%w: %q", ErrAmbiguous, ref)
	}
}
