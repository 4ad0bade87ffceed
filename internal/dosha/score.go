package dosha

// Tally holds per-category answer counts.
type Tally struct {
	Vata  int `json:"Vata" yaml:"Vata"`
	Pitta int `json:"Pitta" yaml:"Pitta"`
	Kapha int `json:"Kapha" yaml:"Kapha"`
}

// Get returns the count for d. Non-canonical categories read as 0.
func (t Tally) Get(d Dosha) int {
	switch d {
	case Vata:
		return t.Vata
	case Pitta:
		return t.Pitta
	case Kapha:
		return t.Kapha
	default:
		return 0
	}
}

// inc bumps the count for d. Non-canonical categories are ignored.
func (t *Tally) inc(d Dosha) {
	switch d {
	case Vata:
		t.Vata++
	case Pitta:
		t.Pitta++
	case Kapha:
		t.Kapha++
	}
}

// Total returns the sum of all three counts.
func (t Tally) Total() int {
	return t.Vata + t.Pitta + t.Kapha
}

// Sub returns t - o element-wise.
func (t Tally) Sub(o Tally) Tally {
	return Tally{
		Vata:  t.Vata - o.Vata,
		Pitta: t.Pitta - o.Pitta,
		Kapha: t.Kapha - o.Kapha,
	}
}

// Neg returns the element-wise negation of t.
func (t Tally) Neg() Tally {
	return Tally{Vata: -t.Vata, Pitta: -t.Pitta, Kapha: -t.Kapha}
}

// Map returns the tally keyed by category.
func (t Tally) Map() map[Dosha]int {
	return map[Dosha]int{
		Vata:  t.Vata,
		Pitta: t.Pitta,
		Kapha: t.Kapha,
	}
}

// Result is the outcome of scoring one answer set.
type Result struct {
	Tally    Tally
	Dominant Dosha
}

// Score reduces an answer set (question ID → chosen category) to a tally
// and dominant category. Entries with a non-canonical category are skipped.
// Question IDs are not checked against any bank.
func Score(answers map[string]Dosha) Result {
	var t Tally
	for _, d := range answers {
		t.inc(d)
	}
	return Result{Tally: t, Dominant: Dominant(t)}
}

// Dominant returns the category with the highest count. Ties resolve to the
// earliest category in Canonical order, so an all-zero tally yields Vata.
func Dominant(t Tally) Dosha {
	order := Canonical()
	best := order[0]
	for _, d := range order[1:] {
		if t.Get(d) > t.Get(best) {
			best = d
		}
	}
	return best
}

// Delta returns current - baseline per category.
func Delta(baseline, current Tally) Tally {
	return current.Sub(baseline)
}

// Percentages returns each category's share of the total in [0, 1].
// All shares are 0 when the tally is empty.
func Percentages(t Tally) map[Dosha]float64 {
	out := make(map[Dosha]float64, 3)
	total := t.Total()
	for _, d := range Canonical() {
		if total == 0 {
			out[d] = 0
			continue
		}
		out[d] = float64(t.Get(d)) / float64(total)
	}
	return out
}
