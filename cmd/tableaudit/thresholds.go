package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/auditlab-io/tableaudit/pkg/config"
)

func newThresholdsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "thresholds",
		Short: "Inspect or scaffold analysis threshold profiles",
	}
	cmd.AddCommand(newThresholdsShowCmd())
	cmd.AddCommand(newThresholdsInitCmd())
	return cmd
}

func newThresholdsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective analysis thresholds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadThresholds()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "missing_ratio_threshold: %.2f\n", cfg.MissingRatioThreshold)
			fmt.Fprintf(out, "zscore_threshold: %.2f\n", cfg.ZScoreThreshold)
			fmt.Fprintf(out, "trend_pct_threshold: %.2f\n", cfg.TrendPctThreshold)
			fmt.Fprintf(out, "trend_severe_pct: %.2f\n", cfg.TrendSeverePct)
			fmt.Fprintf(out, "quality_critical_floor: %.0f\n", cfg.QualityCriticalFloor)
			fmt.Fprintf(out, "quality_warning_floor: %.0f\n", cfg.QualityWarningFloor)
			fmt.Fprintf(out, "anomaly_severe_count: %d\n", cfg.AnomalySevereCount)
			return nil
		},
	}
}

func newThresholdsInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init <path>",
		Short: "Write a starter threshold profile to edit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if err := config.Save(config.Default(), path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Threshold profile written to %s\n", path)
			return nil
		},
	}
}
