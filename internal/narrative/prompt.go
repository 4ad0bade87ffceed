package narrative

import (
	"fmt"
	"strings"

	"github.com/ayurai/ayurai/internal/assessment"
	"github.com/ayurai/ayurai/internal/dosha"
	"github.com/ayurai/ayurai/internal/habits"
	"github.com/ayurai/ayurai/internal/vitals"
)

const basePrompt = `You are AyurAI, a warm and knowledgeable Ayurvedic wellness guide. You describe tendencies, never diagnoses, and you never prescribe medication. When vitals look concerning, suggest the user speak to a qualified clinician.`

func systemPrompt(mode Mode, task string) string {
	return basePrompt + "\n\n" + mode.instruction() + "\n\n" + task
}

const prakritiTask = `Write a personal Prakriti (birth constitution) report in Markdown.`

const comparativeTask = `Write a Markdown analysis comparing the user's Prakriti (baseline constitution) with their Vikriti (current state).`

const suggestionsTask = `Give three short, practical suggestions the user can act on today.`

const planTask = `Design a small set of daily habits that bring the user's current state back toward their constitution.`

const chatTask = `Answer the user's questions conversationally in Markdown. Keep replies under 200 words unless asked for detail. Ground answers in the profile below.`

// writeProfile renders the facts every prompt shares.
func writeProfile(b *strings.Builder, in Input) {
	p := in.Profile
	b.WriteString("User Profile:\n")
	if p.Bio.Name != "" {
		fmt.Fprintf(b, "Name: %s\n", p.Bio.Name)
	}
	if age := p.Age(in.Now); age >= 0 {
		fmt.Fprintf(b, "Age: %d\n", age)
	}
	if p.Bio.BirthPlace != "" {
		fmt.Fprintf(b, "Birth place: %s\n", p.Bio.BirthPlace)
	}
	if p.Bio.CurrentLocation != "" {
		fmt.Fprintf(b, "Current location: %s\n", p.Bio.CurrentLocation)
	}
	if p.Assessed() {
		fmt.Fprintf(b, "Prakriti: %s (%s)\n", p.Prakriti, p.Prakriti.Element())
		fmt.Fprintf(b, "Prakriti scores: %s\n", formatTally(p.PrakritiScores))
	}
}

func writeComparison(b *strings.Builder, c *assessment.Comparison) {
	if c == nil {
		return
	}
	fmt.Fprintf(b, "\nBaseline (%s): %s, dominant %s\n",
		c.Baseline.Timestamp.Format("2006-01-02"), formatTally(c.Baseline.Scores), c.Baseline.Dominant)
	fmt.Fprintf(b, "Current (%s): %s, dominant %s\n",
		c.Current.Timestamp.Format("2006-01-02"), formatTally(c.Current.Scores), c.Current.Dominant)
	fmt.Fprintf(b, "Change (current - baseline): %s\n", formatDelta(c.Delta))
}

func writeVitals(b *strings.Builder, vs []vitals.Vital) {
	if len(vs) == 0 {
		return
	}
	b.WriteString("\nLatest Vitals:\n")
	var weight, height float64
	for _, v := range vs {
		fmt.Fprintf(b, "- %s: %s\n", v.Kind.Label(), v.Display())
		switch v.Kind {
		case vitals.Weight:
			weight = v.Value
		case vitals.Height:
			height = v.Value
		}
	}
	if bmi := vitals.BMI(weight, height); bmi > 0 {
		fmt.Fprintf(b, "- BMI: %.1f\n", bmi)
	}
}

func writePlan(b *strings.Builder, items []habits.Item) {
	planned := habits.Planned(items)
	if len(planned) == 0 {
		return
	}
	fmt.Fprintf(b, "\nCurrent Plan (%d of %d done today):\n", habits.CompletedCount(planned), len(planned))
	for _, it := range planned {
		mark := " "
		if it.Done() {
			mark = "x"
		}
		fmt.Fprintf(b, "- [%s] %s (%s)\n", mark, it.Title, it.Category)
	}
}

func buildPrakritiMessage(in Input) string {
	var b strings.Builder
	writeProfile(&b, in)
	writeVitals(&b, in.Vitals)

	b.WriteString(`
Instructions:
1. Start with a heading naming the dominant dosha and its elements.
2. Describe the typical physical, metabolic and mental traits of this constitution, referring to the scores above.
3. If a second dosha scores close to the dominant one, describe the dual-dosha blend.
4. Give diet, daily routine and seasonal recommendations as short bullet lists.
5. End with one encouraging sentence. Do not invent facts about the user beyond the profile.`)
	return b.String()
}

func buildComparativeMessage(in Input) string {
	var b strings.Builder
	writeProfile(&b, in)
	writeComparison(&b, in.Comparison)
	writeVitals(&b, in.Vitals)
	writePlan(&b, in.Plan)

	b.WriteString(`
Instructions:
1. Explain which doshas have increased or decreased and what that imbalance (Vikriti) usually feels like.
2. Suggest likely lifestyle causes in general terms, without assuming specifics.
3. Recommend three to five concrete steps to return toward the baseline constitution.
4. If the change is small, say the user is in balance and reinforce what is working.`)
	return b.String()
}

func buildSuggestionsMessage(in Input) string {
	var b strings.Builder
	writeProfile(&b, in)
	writeComparison(&b, in.Comparison)
	writeVitals(&b, in.Vitals)
	writePlan(&b, in.Plan)

	fmt.Fprintf(&b, "\nToday is %s.\n", in.Now.Format("Monday, 2 January"))
	b.WriteString(`
Instructions:
Return exactly three suggestions, each under 15 words, each starting with a verb. Avoid repeating habits already on the plan.`)
	return b.String()
}

func buildPlanMessage(in Input) string {
	var b strings.Builder
	writeProfile(&b, in)
	writeComparison(&b, in.Comparison)
	writeVitals(&b, in.Vitals)
	writePlan(&b, in.Plan)

	b.WriteString(`
Instructions:
Suggest three to six daily habits. Each habit has a category (Diet, Movement, Breath or Routine), a short title, a one or two sentence description and a one sentence benefit tied to the user's doshas. Do not repeat habits already on the plan.`)
	return b.String()
}

func buildChatContext(in Input) string {
	var b strings.Builder
	writeProfile(&b, in)
	writeComparison(&b, in.Comparison)
	writeVitals(&b, in.Vitals)
	writePlan(&b, in.Plan)
	return b.String()
}

func formatTally(t dosha.Tally) string {
	return fmt.Sprintf("Vata %d, Pitta %d, Kapha %d", t.Vata, t.Pitta, t.Kapha)
}

func formatDelta(t dosha.Tally) string {
	return fmt.Sprintf("Vata %+d, Pitta %+d, Kapha %+d", t.Vata, t.Pitta, t.Kapha)
}
