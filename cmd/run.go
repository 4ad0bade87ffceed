package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ayurai/ayurai/internal/app"
	"github.com/ayurai/ayurai/internal/selfupdate"
)

var assessCmd = &cobra.Command{
	Use:   "assess",
	Short: "Take the two-part dosha questionnaire",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, true)
	},
}

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command, startInQuiz bool) error {
	svc, err := openServices(cmd, true)
	if err != nil {
		return err
	}
	defer svc.Close()

	return app.Run(app.Options{
		Deps:          svc.Deps,
		StartInQuiz:   startInQuiz,
		UpdateVersion: availableUpdate(cmd.Context()),
	})
}

// availableUpdate returns the newer release tag, or "" when up to date,
// offline, or running a development build.
func availableUpdate(ctx context.Context) string {
	if version == "(devel)" {
		return ""
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	res, err := selfupdate.NewChecker(selfupdate.WithTimeout(2*time.Second)).
		Check(ctx, &selfupdate.CheckInput{Version: version})
	if err != nil {
		logger.Debug("update check failed", zap.Error(err))
		return ""
	}
	if !res.UpdateAvailable {
		return ""
	}
	return res.LatestVersion
}
