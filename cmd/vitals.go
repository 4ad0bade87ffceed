package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ayurai/ayurai/internal/render"
	"github.com/ayurai/ayurai/internal/vitals"
)

var vitalsCmd = &cobra.Command{
	Use:   "vitals",
	Short: "Log and review vital signs",
}

var vitalsAddCmd = &cobra.Command{
	Use:   "add <kind> <value>",
	Short: "Record a reading (kinds: bp, sugar, heartrate, weight, height)",
	Example: "  ayurai vitals add bp 120/80\n" +
		"  ayurai vitals add weight 68.5 --notes \"after breakfast\"",
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := vitals.ParseKind(args[0])
		if err != nil {
			return err
		}
		value, secondary, err := parseReading(args[1])
		if err != nil {
			return err
		}
		notes, _ := cmd.Flags().GetString("notes")

		svc, err := openServices(cmd, false)
		if err != nil {
			return err
		}
		defer svc.Close()

		v, err := vitals.New(kind, value, secondary, notes, svc.Clock())
		if err != nil {
			return err
		}
		if err := svc.Vitals.Log(cmd.Context(), svc.UserID, v); err != nil {
			return err
		}
		fmt.Printf("Logged %s: %s\n", kind.Label(), v.Display())
		return nil
	},
}

// parseReading accepts "120" or "120/80".
func parseReading(s string) (float64, *float64, error) {
	first, second, hasSecond := strings.Cut(strings.TrimSpace(s), "/")
	value, err := strconv.ParseFloat(first, 64)
	if err != nil {
		return 0, nil, fmt.Errorf("invalid reading %q: %w", s, vitals.ErrInvalidValue)
	}
	if !hasSecond {
		return value, nil, nil
	}
	sec, err := strconv.ParseFloat(second, 64)
	if err != nil {
		return 0, nil, fmt.Errorf("invalid reading %q: %w", s, vitals.ErrInvalidValue)
	}
	return value, &sec, nil
}

var vitalsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List readings, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		kindArg, _ := cmd.Flags().GetString("kind")

		var kind vitals.Kind
		if kindArg != "" {
			k, err := vitals.ParseKind(kindArg)
			if err != nil {
				return err
			}
			kind = k
		}

		svc, err := openServices(cmd, false)
		if err != nil {
			return err
		}
		defer svc.Close()

		vs, err := svc.Vitals.List(cmd.Context(), svc.UserID, kind, limit)
		if err != nil {
			return err
		}
		if len(vs) == 0 {
			fmt.Println("No vitals logged yet. Try: ayurai vitals add bp 120/80")
			return nil
		}

		fmt.Printf("%-16s  %-12s  %-14s  %s\n", "Time", "Kind", "Reading", "Notes")
		fmt.Println(render.Rule(64))
		for _, v := range vs {
			fmt.Printf("%-16s  %-12s  %-14s  %s\n",
				v.Timestamp.Local().Format("2006-01-02 15:04"), v.Kind.Label(), v.Display(), v.Notes)
		}

		if kind != "" && len(vs) > 1 {
			series := make([]float64, len(vs))
			for i, v := range vs {
				series[len(vs)-1-i] = v.Value
			}
			fmt.Printf("\nTrend  %s\n", render.Sparkline(series))
		}
		return nil
	},
}

func init() {
	vitalsAddCmd.Flags().String("notes", "", "Free-form note stored with the reading")
	vitalsListCmd.Flags().IntP("limit", "n", 20, "Number of readings to show (0 for all)")
	vitalsListCmd.Flags().StringP("kind", "k", "", "Only show one kind, with a trend line")

	vitalsCmd.AddCommand(vitalsAddCmd)
	vitalsCmd.AddCommand(vitalsListCmd)
}
