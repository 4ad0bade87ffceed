package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ayurai/ayurai/internal/assessment"
	"github.com/ayurai/ayurai/internal/llm"
	"github.com/ayurai/ayurai/internal/narrative"
	"github.com/ayurai/ayurai/internal/render"
)

var errUnavailable = errors.New("AI guidance needs an LLM provider; set AYURAI_LLM_PROVIDER and its API key")

// retryHint wraps a generation failure with the command to run again.
// Missing-assessment errors are returned as is.
func retryHint(err error, command string) error {
	if errors.Is(err, narrative.ErrNotAssessed) || errors.Is(err, narrative.ErrUnavailable) {
		return err
	}
	return fmt.Errorf("%w\n\nThe scores above are saved. Try again with: %s", err, command)
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate your Prakriti report and Vikriti analysis",
	RunE: func(cmd *cobra.Command, args []string) error {
		comparativeOnly, _ := cmd.Flags().GetBool("comparative")
		last, _ := cmd.Flags().GetBool("last")

		svc, err := openServices(cmd, !last)
		if err != nil {
			return err
		}
		defer svc.Close()

		md, err := render.ForFile(os.Stdout)
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		if last {
			return printLastReports(cmd, svc, md, comparativeOnly)
		}

		in, err := svc.NarrativeInput(ctx)
		if err != nil {
			return err
		}
		if !in.Profile.Assessed() {
			fmt.Println("Complete an assessment first. Run: ayurai assess")
			return nil
		}

		// Scores print before generation and survive its failure.
		if in.Comparison != nil {
			printResult(assessment.Baseline, in.Comparison.Baseline.Result(), in.Comparison.Baseline.Scores.Total())
			printResult(assessment.Current, in.Comparison.Current.Result(), in.Comparison.Current.Scores.Total())
			printDelta(in.Comparison.Delta)
		} else {
			fmt.Printf("Prakriti: %s\n", in.Profile.Prakriti)
			fmt.Print(render.TallyBars(in.Profile.PrakritiScores, barWidth))
		}
		fmt.Println()

		if !svc.NarrativeAvailable() {
			return errUnavailable
		}
		fmt.Printf("Writing your report (%s guidance)...\n", in.Mode)

		if comparativeOnly {
			text, err := svc.Narrative.ComparativeAnalysis(ctx, in)
			if errors.Is(err, assessment.ErrNoComparison) {
				return errors.New("a comparative analysis needs both a Prakriti and a Vikriti assessment")
			}
			if err != nil {
				return retryHint(err, "ayurai report --comparative")
			}
			fmt.Print(md.RenderOrRaw(text))
			return nil
		}

		rep, err := svc.Narrative.FullReport(ctx, in)
		if err != nil {
			return retryHint(err, "ayurai report")
		}
		fmt.Print(md.RenderOrRaw(rep.Prakriti))
		if rep.Comparative != "" {
			fmt.Println(render.Rule(60))
			fmt.Print(md.RenderOrRaw(rep.Comparative))
		}
		if rep.ComparativeErr != nil {
			fmt.Fprintln(os.Stderr, "Comparative analysis failed:", rep.ComparativeErr)
			fmt.Fprintln(os.Stderr, "Try again with: ayurai report --comparative")
		}
		return nil
	},
}

func printLastReports(cmd *cobra.Command, svc *services, md *render.Markdown, comparativeOnly bool) error {
	kinds := []string{narrative.KindPrakriti, narrative.KindComparative}
	if comparativeOnly {
		kinds = kinds[1:]
	}
	reports := svc.store.ReportRepo()

	found := false
	for _, kind := range kinds {
		r, err := reports.Latest(cmd.Context(), svc.UserID, kind)
		if err != nil {
			return err
		}
		if r == nil {
			continue
		}
		found = true
		fmt.Printf("%s report · %s guidance · %s\n", kind, r.Mode, r.Timestamp.Local().Format("2006-01-02 15:04"))
		fmt.Print(md.RenderOrRaw(r.Content))
	}
	if !found {
		fmt.Println("No saved reports yet. Run: ayurai report")
	}
	return nil
}

var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Three quick suggestions for today",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := openServices(cmd, true)
		if err != nil {
			return err
		}
		defer svc.Close()
		if !svc.NarrativeAvailable() {
			return errUnavailable
		}

		ctx := cmd.Context()
		in, err := svc.NarrativeInput(ctx)
		if err != nil {
			return err
		}
		tips, err := svc.Narrative.QuickSuggestions(ctx, in)
		if err != nil {
			return retryHint(err, "ayurai suggest")
		}
		for i, t := range tips {
			fmt.Printf("%d. %s\n", i+1, t)
		}
		return nil
	},
}

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk with the AI guide about your balance",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := openServices(cmd, true)
		if err != nil {
			return err
		}
		defer svc.Close()
		if !svc.NarrativeAvailable() {
			return errUnavailable
		}

		ctx := cmd.Context()
		in, err := svc.NarrativeInput(ctx)
		if err != nil {
			return err
		}
		if in.Profile == nil {
			return narrative.ErrNotAssessed
		}
		md, err := render.ForFile(os.Stdout)
		if err != nil {
			return err
		}

		fmt.Printf("Chatting in %s mode. Type \"exit\" or press Ctrl+D to leave.\n\n", in.Mode)

		var history []narrative.Turn
		scanner := bufio.NewScanner(os.Stdin)
		for {
			fmt.Print("you › ")
			if !scanner.Scan() {
				fmt.Println()
				break
			}
			msg := strings.TrimSpace(scanner.Text())
			if msg == "" {
				continue
			}
			if msg == "exit" || msg == "quit" {
				break
			}

			reply, err := svc.Narrative.Chat(ctx, in, history, msg)
			if err != nil {
				fmt.Fprintln(os.Stderr, "Error:", err)
				continue
			}
			fmt.Print(md.RenderOrRaw(reply))
			history = append(history,
				narrative.Turn{Role: llm.RoleUser, Content: msg},
				narrative.Turn{Role: llm.RoleAssistant, Content: reply},
			)
		}
		return scanner.Err()
	},
}

func init() {
	reportCmd.Flags().Bool("comparative", false, "Only generate the Prakriti vs Vikriti analysis")
	reportCmd.Flags().Bool("last", false, "Show the last saved report instead of generating one")
}
