package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ayurai/ayurai/internal/habits"
	"github.com/ayurai/ayurai/internal/render"
)

const (
	idWidth      = 8
	activityDays = 14
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Manage your daily ritual checklist",
}

var planAddCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a ritual to your plan",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		category, _ := cmd.Flags().GetString("category")

		svc, err := openServices(cmd, false)
		if err != nil {
			return err
		}
		defer svc.Close()

		it, err := svc.Habits.AddManual(cmd.Context(), svc.UserID, strings.Join(args, " "), category)
		if err != nil {
			return err
		}
		fmt.Printf("Added [%s] %s (%s)\n", shortID(it.ID), it.Title, it.Category)
		return nil
	},
}

var planListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show planned rituals and today's progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		all, _ := cmd.Flags().GetBool("all")

		svc, err := openServices(cmd, false)
		if err != nil {
			return err
		}
		defer svc.Close()

		items, err := svc.Habits.List(cmd.Context(), svc.UserID)
		if err != nil {
			return err
		}
		planned := habits.Planned(items)
		if !all {
			items = planned
		}
		if len(items) == 0 {
			fmt.Println("Your plan is empty. Try: ayurai plan add \"Warm water on waking\"")
			return nil
		}

		for _, it := range items {
			box := "[ ]"
			if it.Done() {
				box = "[x]"
			}
			suffix := ""
			if !it.Planned {
				suffix = "  (suggested)"
			}
			fmt.Printf("%s %s  %-9s %s%s\n", box, shortID(it.ID), it.Category, it.Title, suffix)
			if it.Description != "" && it.Description != habits.ManualDescription {
				fmt.Printf("             %s\n", it.Description)
			}
		}
		fmt.Printf("\n%d of %d planned rituals done · streak %d days\n",
			habits.CompletedCount(planned), len(planned), habits.Streak(items, svc.Clock()))
		return nil
	},
}

var planToggleCmd = &cobra.Command{
	Use:   "toggle <id>",
	Short: "Mark a ritual done, or undo it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := openServices(cmd, false)
		if err != nil {
			return err
		}
		defer svc.Close()

		it, err := svc.Habits.Toggle(cmd.Context(), svc.UserID, args[0])
		if err != nil {
			return err
		}
		if it.Done() {
			fmt.Printf("✓ %s\n", it.Title)
		} else {
			fmt.Printf("○ %s (not done)\n", it.Title)
		}
		return nil
	},
}

var planPlanCmd = &cobra.Command{
	Use:   "plan <id>",
	Short: "Move a suggested ritual onto your plan",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		remove, _ := cmd.Flags().GetBool("remove")

		svc, err := openServices(cmd, false)
		if err != nil {
			return err
		}
		defer svc.Close()

		it, err := svc.Habits.SetPlanned(cmd.Context(), svc.UserID, args[0], !remove)
		if err != nil {
			return err
		}
		if it.Planned {
			fmt.Printf("Planned: %s\n", it.Title)
		} else {
			fmt.Printf("Removed from plan: %s\n", it.Title)
		}
		return nil
	},
}

var planRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Delete a ritual",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := openServices(cmd, false)
		if err != nil {
			return err
		}
		defer svc.Close()

		it, err := svc.Habits.Remove(cmd.Context(), svc.UserID, args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Deleted: %s\n", it.Title)
		return nil
	},
}

var planSuggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Ask the AI guide for rituals suited to your balance",
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
		fmt.Println("Asking for suggestions...")
		items, err := svc.Narrative.SuggestPlan(ctx, in)
		if err != nil {
			return retryHint(err, "ayurai plan suggest")
		}
		added, err := svc.Habits.AddSuggested(ctx, svc.UserID, items)
		if err != nil {
			return err
		}

		for _, it := range added {
			fmt.Printf("[%s] %-9s %s\n", shortID(it.ID), it.Category, it.Title)
			if it.Description != "" {
				fmt.Printf("           %s\n", it.Description)
			}
			if it.Benefits != "" {
				fmt.Printf("           Benefits: %s\n", it.Benefits)
			}
		}
		fmt.Println("\nAdd one to your plan with: ayurai plan plan <id>")
		return nil
	},
}

var planActivityCmd = &cobra.Command{
	Use:   "activity",
	Short: "Show completions over the last two weeks",
	RunE: func(cmd *cobra.Command, args []string) error {
		days, _ := cmd.Flags().GetInt("days")
		if days <= 0 {
			return errors.New("--days must be positive")
		}

		svc, err := openServices(cmd, false)
		if err != nil {
			return err
		}
		defer svc.Close()

		items, err := svc.Habits.List(cmd.Context(), svc.UserID)
		if err != nil {
			return err
		}
		now := svc.Clock()
		fmt.Print(render.ActivityGraph(habits.Activity(items, now, days)))
		fmt.Printf("Current streak: %d days\n", habits.Streak(items, now))
		return nil
	},
}

func shortID(id string) string {
	if len(id) <= idWidth {
		return id
	}
	return id[:idWidth]
}

func init() {
	planAddCmd.Flags().StringP("category", "c", "", "Diet, Movement, Breath, Routine or Custom (default Routine)")
	planListCmd.Flags().BoolP("all", "a", false, "Include suggested rituals not yet on the plan")
	planPlanCmd.Flags().Bool("remove", false, "Take the ritual off the plan instead")
	planActivityCmd.Flags().Int("days", activityDays, "Number of days to show")

	planCmd.AddCommand(planAddCmd)
	planCmd.AddCommand(planListCmd)
	planCmd.AddCommand(planToggleCmd)
	planCmd.AddCommand(planPlanCmd)
	planCmd.AddCommand(planRemoveCmd)
	planCmd.AddCommand(planSuggestCmd)
	planCmd.AddCommand(planActivityCmd)
}
