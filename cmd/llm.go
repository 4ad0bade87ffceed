package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/spf13/cobra"

	"github.com/ayurai/ayurai/internal/llm"
	"github.com/ayurai/ayurai/internal/narrative"
	"github.com/ayurai/ayurai/internal/render"
	"github.com/ayurai/ayurai/internal/store"
)

const timeLayout = "2006-01-02 15:04"

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect the narrative requests sent to the AI provider",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent requests, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		// Purpose is not a column filter, so a filtered listing reads all
		// events and stops at limit matches.
		opts := store.QueryOpts{Limit: limit}
		if purpose != "" {
			opts.Limit = 0
		}
		events, err := s.EventRepo().QueryLLMEvents(cmd.Context(), opts)
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}

		t := newTable("ID", "When", "Purpose", "Model", "Tokens", "Ms", "")
		n := 0
		for _, e := range events {
			if purpose != "" && e.Purpose != purpose {
				continue
			}
			if limit > 0 && n == limit {
				break
			}
			t.Row(
				strconv.Itoa(e.ID),
				e.Timestamp.Local().Format(timeLayout),
				e.Purpose,
				clip(e.Model, 28),
				fmt.Sprintf("%d/%d", e.InputTokens, e.OutputTokens),
				strconv.FormatInt(e.LatencyMs, 10),
				outcome(e.Success),
			)
			n++
		}
		if n == 0 {
			fmt.Println("No AI requests recorded.")
			return nil
		}
		fmt.Println(t)
		return nil
	},
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show the prompt and answer of one request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid ID %q: %w", args[0], err)
		}

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		e, err := s.EventRepo().GetLLMEvent(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("get event: %w", err)
		}
		if e == nil {
			return fmt.Errorf("no AI request with ID %d", id)
		}

		fields := [][2]string{
			{"Purpose", e.Purpose},
			{"When", e.Timestamp.Local().Format(timeLayout)},
			{"Provider", e.Provider},
			{"Model", e.Model},
			{"Tokens", fmt.Sprintf("%d in, %d out", e.InputTokens, e.OutputTokens)},
			{"Latency", fmt.Sprintf("%d ms", e.LatencyMs)},
			{"Outcome", outcome(e.Success)},
		}
		if e.ErrorMessage != "" {
			fields = append(fields, [2]string{"Error", e.ErrorMessage})
		}
		if c := llm.LookupCost(e.Model); c != nil {
			fields = append(fields, [2]string{"Cost", usd(c.Cost(e.InputTokens, e.OutputTokens))})
		}
		for _, f := range fields {
			fmt.Printf("%-9s %s\n", f[0]+":", f[1])
		}

		section("Prompt", e.RequestBody)
		section("Answer", e.ResponseBody)
		return nil
	},
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize token use and estimated cost",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		byPurpose, err := s.EventRepo().LLMUsageByPurpose(ctx)
		if err != nil {
			return fmt.Errorf("query usage: %w", err)
		}
		if len(byPurpose) == 0 {
			fmt.Println("No AI requests recorded.")
			return nil
		}

		var sum store.LLMUsage
		t := newTable("Purpose", "Calls", "Failed", "Input", "Output", "Avg ms")
		for _, st := range byPurpose {
			t.Row(st.Key, itoa(st.Calls), itoa(st.Failures), itoa(st.InputTokens), itoa(st.OutputTokens),
				fmt.Sprintf("%.0f", st.AvgLatencyMs))
			sum.Calls += st.Calls
			sum.Failures += st.Failures
			sum.InputTokens += st.InputTokens
			sum.OutputTokens += st.OutputTokens
		}
		t.Row("all", itoa(sum.Calls), itoa(sum.Failures), itoa(sum.InputTokens), itoa(sum.OutputTokens), "")
		fmt.Println(t)

		byModel, err := s.EventRepo().LLMUsageByModel(ctx)
		if err != nil {
			return fmt.Errorf("query model usage: %w", err)
		}
		if len(byModel) == 0 {
			return nil
		}

		var (
			total    float64
			unpriced []string
		)
		t = newTable("Model", "Calls", "Input", "Output", "Cost")
		for _, mu := range byModel {
			cost := "?"
			if c := llm.LookupCost(mu.Key); c != nil {
				v := c.Cost(mu.InputTokens, mu.OutputTokens)
				total += v
				cost = usd(v)
			} else {
				unpriced = append(unpriced, mu.Key)
			}
			t.Row(clip(mu.Key, 32), itoa(mu.Calls), itoa(mu.InputTokens), itoa(mu.OutputTokens), cost)
		}
		fmt.Println()
		fmt.Println(t)
		fmt.Printf("Estimated cost: %s\n", usd(total))
		if len(unpriced) > 0 {
			fmt.Printf("Not included (no price known): %s\n", strings.Join(unpriced, ", "))
		}
		return nil
	},
}

func newTable(headers ...string) *table.Table {
	head := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderColumn(false).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return head
			}
			return cell
		})
}

func section(title, body string) {
	if body == "" {
		body = "(not captured)"
	}
	fmt.Printf("\n%s\n%s\n%s\n", title, render.Rule(60), body)
}

func outcome(ok bool) string {
	if ok {
		return "ok"
	}
	return "failed"
}

func itoa(n int) string { return strconv.Itoa(n) }

func clip(s string, n int) string {
	if r := []rune(s); len(r) > n {
		return string(r[:n-1]) + "…"
	}
	return s
}

func usd(v float64) string {
	if v < 0.01 {
		return fmt.Sprintf("$%.4f", v)
	}
	return fmt.Sprintf("$%.2f", v)
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of requests to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Only show one purpose: "+strings.Join([]string{
		narrative.PurposePrakriti, narrative.PurposeComparative, narrative.PurposeSuggestions,
		narrative.PurposePlan, narrative.PurposeChat,
	}, ", "))

	llmCmd.AddCommand(llmListCmd, llmViewCmd, llmStatsCmd)
}
