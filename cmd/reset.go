package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete your profile, assessments, vitals, plan and saved reports",
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		user := resolveUser(cmd)
		if !yes {
			return fmt.Errorf("this permanently deletes all data for %q; re-run with --yes to confirm", user)
		}

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.ResetUser(cmd.Context(), user); err != nil {
			return fmt.Errorf("reset: %w", err)
		}
		logger.Info("user data reset", zap.String("user", user))
		fmt.Printf("All data for %q has been deleted.\n", user)
		return nil
	},
}

func init() {
	resetCmd.Flags().Bool("yes", false, "Confirm deletion")
}
