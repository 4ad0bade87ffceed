package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ayurai/ayurai/internal/assessment"
	"github.com/ayurai/ayurai/internal/dosha"
	"github.com/ayurai/ayurai/internal/profile"
	"github.com/ayurai/ayurai/internal/questionbank"
	"github.com/ayurai/ayurai/internal/render"
)

const barWidth = 24

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score an answer sheet without saving it",
	Long: "Score a YAML answer sheet. The sheet maps question IDs to option numbers\n" +
		"under \"baseline\" and/or \"current\":\n\n" +
		"  baseline:\n    frame: 1\n    hair: 3\n  current:\n    frame: 2\n",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("answers")
		if path == "" {
			return errors.New("--answers is required")
		}
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open answers: %w", err)
		}
		defer f.Close()

		sheet, err := assessment.ReadAnswerSheet(f)
		if err != nil {
			return err
		}
		bank, err := loadBank(cmd)
		if err != nil {
			return err
		}
		base, cur, skipped := sheet.Resolve(bank)
		for _, sk := range skipped {
			fmt.Fprintln(os.Stderr, "warning:", sk)
		}
		if base == nil && cur == nil {
			fmt.Println("The answer sheet has no answers.")
			return nil
		}

		var baseRes, curRes dosha.Result
		if base != nil {
			baseRes = dosha.Score(base)
			printResult(assessment.Baseline, baseRes, len(base))
		}
		if cur != nil {
			curRes = dosha.Score(cur)
			printResult(assessment.Current, curRes, len(cur))
		}
		if base != nil && cur != nil {
			printDelta(dosha.Delta(baseRes.Tally, curRes.Tally))
		}
		return nil
	},
}

var questionsCmd = &cobra.Command{
	Use:   "questions",
	Short: "Browse the questionnaire",
}

var questionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List questions and their numbered options",
	RunE: func(cmd *cobra.Command, args []string) error {
		bank, err := loadBank(cmd)
		if err != nil {
			return err
		}
		group, _ := cmd.Flags().GetString("group")

		groups := questionbank.AllGroups()
		if group != "" {
			g, ok := matchGroup(group)
			if !ok {
				return fmt.Errorf("unknown group %q (want Structural, Metabolic or Mental)", group)
			}
			groups = []questionbank.Group{g}
		}

		for _, g := range groups {
			qs := bank.ByGroup(g)
			if len(qs) == 0 {
				continue
			}
			fmt.Println(g.DisplayName())
			fmt.Println(render.Rule(60))
			for _, q := range qs {
				fmt.Printf("%-12s %s\n", q.ID, q.Prompt)
				for i, o := range q.Options {
					fmt.Printf("%14d. %s\n", i+1, o.Text)
				}
			}
			fmt.Println()
		}
		return nil
	},
}

func matchGroup(s string) (questionbank.Group, bool) {
	for _, g := range questionbank.AllGroups() {
		if strings.EqualFold(s, string(g)) {
			return g, true
		}
	}
	return "", false
}

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show or edit your profile",
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show your bio and Prakriti",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := openServices(cmd, false)
		if err != nil {
			return err
		}
		defer svc.Close()

		p, err := svc.Profiles.Get(cmd.Context(), svc.UserID)
		if err != nil {
			return err
		}
		if p == nil {
			fmt.Println("No profile yet. Run: ayurai assess")
			return nil
		}

		fmt.Printf("Name:       %s\n", orDash(p.Bio.Name))
		fmt.Printf("Born:       %s", orDash(p.Bio.DOB))
		if age := p.Age(svc.Clock()); age >= 0 {
			fmt.Printf(" (age %d)", age)
		}
		fmt.Println()
		fmt.Printf("Birthplace: %s\n", orDash(p.Bio.BirthPlace))
		fmt.Printf("Location:   %s\n", orDash(p.Bio.CurrentLocation))
		if !p.Assessed() {
			fmt.Println("\nPrakriti not assessed yet. Run: ayurai assess")
			return nil
		}
		fmt.Printf("\nPrakriti:   %s (%s)\n", p.Prakriti, p.Prakriti.Element())
		fmt.Print(render.TallyBars(p.PrakritiScores, barWidth))
		fmt.Printf("Updated:    %s\n", p.LastUpdated.Local().Format("2006-01-02 15:04"))
		return nil
	},
}

var profileSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Update bio fields",
	RunE: func(cmd *cobra.Command, args []string) error {
		var bio profile.Bio
		bio.Name, _ = cmd.Flags().GetString("name")
		bio.DOB, _ = cmd.Flags().GetString("dob")
		bio.BirthPlace, _ = cmd.Flags().GetString("birthplace")
		bio.CurrentLocation, _ = cmd.Flags().GetString("location")
		if bio == (profile.Bio{}) {
			return errors.New("nothing to update: pass --name, --dob, --birthplace or --location")
		}

		svc, err := openServices(cmd, false)
		if err != nil {
			return err
		}
		defer svc.Close()

		p, err := svc.Profiles.UpdateBio(cmd.Context(), svc.UserID, bio)
		if err != nil {
			return err
		}
		fmt.Printf("Profile updated for %s.\n", orDash(p.Bio.Name))
		return nil
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past assessments, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := openServices(cmd, false)
		if err != nil {
			return err
		}
		defer svc.Close()

		recs, err := svc.Assessments.History(cmd.Context(), svc.UserID)
		if err != nil {
			return err
		}
		if len(recs) == 0 {
			fmt.Println("No assessments yet. Run: ayurai assess")
			return nil
		}

		fmt.Printf("%-16s  %-9s  %-8s  %5s  %5s  %5s\n", "Date", "Pass", "Dominant", "Vata", "Pitta", "Kapha")
		fmt.Println(render.Rule(60))
		for i := len(recs) - 1; i >= 0; i-- {
			r := recs[i]
			fmt.Printf("%-16s  %-9s  %-8s  %5d  %5d  %5d\n",
				r.Timestamp.Local().Format("2006-01-02 15:04"),
				r.Type.Term(), r.Dominant,
				r.Scores.Vata, r.Scores.Pitta, r.Scores.Kapha)
		}
		return nil
	},
}

var deltaCmd = &cobra.Command{
	Use:   "delta",
	Short: "Compare your Prakriti with your latest Vikriti",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := openServices(cmd, false)
		if err != nil {
			return err
		}
		defer svc.Close()

		c, err := svc.Assessments.Comparison(cmd.Context(), svc.UserID)
		if errors.Is(err, assessment.ErrNoComparison) {
			fmt.Println("Complete an assessment first. Run: ayurai assess")
			return nil
		}
		if err != nil {
			return err
		}
		printResult(assessment.Baseline, c.Baseline.Result(), c.Baseline.Scores.Total())
		printResult(assessment.Current, c.Current.Result(), c.Current.Scores.Total())
		printDelta(c.Delta)
		return nil
	},
}

func printResult(pass assessment.Pass, res dosha.Result, answered int) {
	fmt.Printf("%s (%s) · %d answers · dominant %s\n", pass.Term(), pass, answered, res.Dominant)
	fmt.Print(render.TallyBars(res.Tally, barWidth))
	fmt.Println()
}

func printDelta(delta dosha.Tally) {
	fmt.Println("Change (Vikriti - Prakriti)")
	fmt.Print(render.DeltaBars(delta, barWidth/2))
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func init() {
	scoreCmd.Flags().StringP("answers", "a", "", "YAML answer sheet to score")

	questionsListCmd.Flags().StringP("group", "g", "", "Only list one group (Structural, Metabolic, Mental)")
	questionsCmd.AddCommand(questionsListCmd)

	profileSetCmd.Flags().String("name", "", "Your name")
	profileSetCmd.Flags().String("dob", "", "Date of birth (YYYY-MM-DD)")
	profileSetCmd.Flags().String("birthplace", "", "Place of birth")
	profileSetCmd.Flags().String("location", "", "Where you live now")
	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profileSetCmd)
}
