package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/auditlab-io/tableaudit/pkg/config"
	"github.com/auditlab-io/tableaudit/pkg/logging"
)

// Process exit codes follow the monitoring-check convention: the verdict maps
// directly onto the code, and anything that prevented a verdict is 3.
const (
	exitNormal   = 0
	exitWarning  = 1
	exitCritical = 2
	exitError    = 3
)

var (
	v = viper.New()

	appConfigFile  string
	thresholdsFile string
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tableaudit",
		Short: "Audit tabular data for quality, anomaly, and trend problems",
		Long: `tableaudit runs a fixed analysis pipeline over a table: a quality scan,
per-column statistical profiling, Z-score anomaly detection, and
period-over-period trend detection, then grades the result as normal,
warning, or critical.

Exit codes: 0 normal, 1 warning, 2 critical, 3 error.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&appConfigFile, "config", "", "path to an app config file (default: $HOME/.tableaudit.yaml if present)")
	cmd.PersistentFlags().StringVar(&thresholdsFile, "thresholds", "", "path to a YAML or TOML thresholds file (default: built-in thresholds)")
	cmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")

	v.SetEnvPrefix("TABLEAUDIT")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	v.SetDefault("log-level", "info")
	v.SetDefault("addr", ":8080")
	_ = v.BindPFlag("log-level", cmd.PersistentFlags().Lookup("log-level"))

	cobra.OnInitialize(func() {
		loadAppConfig()
		logging.Setup(v.GetString("log-level"))
	})

	cmd.AddCommand(newAnalyzeCmd())
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newThresholdsCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// Execute runs the root command and maps failures to the error exit code.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "tableaudit: %v\n", err)
		os.Exit(exitError)
	}
}

// loadAppConfig reads the optional app config file: the path given with
// --config, or $HOME/.tableaudit.yaml when present. Flags and TABLEAUDIT_*
// environment variables take precedence over file values.
func loadAppConfig() {
	if appConfigFile != "" {
		v.SetConfigFile(appConfigFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return
		}
		v.AddConfigPath(home)
		v.SetConfigName(".tableaudit")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if appConfigFile == "" && errors.As(err, &notFound) {
			return
		}
		fmt.Fprintf(os.Stderr, "Warning: failed to load config: %v\n", err)
	}
}

// loadThresholds resolves the analysis configuration: the built-in defaults,
// or the file named by --thresholds.
func loadThresholds() (config.Config, error) {
	if thresholdsFile == "" {
		return config.Default(), nil
	}
	return config.Load(thresholdsFile)
}
