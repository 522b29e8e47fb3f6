package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/BurntSushi/toml"
	"github.com/kastheco/reviewgate/config"
	sentrypkg "github.com/kastheco/reviewgate/internal/sentry"
	"github.com/kastheco/reviewgate/log"
	"github.com/spf13/cobra"
)

var (
	version = "0.1.0"
	rootCmd = &cobra.Command{
		Use:   "reviewgate",
		Short: "reviewgate - keep coding agents from stopping with unreviewed changes",
		Long: `reviewgate is a Stop hook for coding agents. On every stop attempt it
re-reads the session transcript and blocks the stop while file edits made
since the last code review are still unreviewed.

Install it with "reviewgate install"; the agent then runs "reviewgate hook".`,
		SilenceUsage: true,
	}

	debugCmd = &cobra.Command{
		Use:   "debug",
		Short: "Print debug information like config and log paths",
		RunE: func(cmd *cobra.Command, args []string) error {
			log.Initialize(false)
			defer log.Close()

			cfg := config.LoadConfig()
			configPath, err := config.ConfigPath()
			if err != nil {
				return fmt.Errorf("failed to get config path: %w", err)
			}
			auditPath, err := cfg.AuditDBPath()
			if err != nil {
				return fmt.Errorf("failed to get audit path: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config: %s\n", configPath)
			fmt.Fprintf(out, "Log: %s\n", log.Path())
			fmt.Fprintf(out, "Audit: %s (enabled: %t)\n\n", auditPath, cfg.Audit.Enabled)
			return toml.NewEncoder(out).Encode(cfg)
		},
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of reviewgate",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "reviewgate version %s\n", version)
		},
	}
)

// setup loads config and starts logging and error reporting. The returned
// func undoes it.
func setup() (*config.Config, func()) {
	log.Initialize(false)
	cfg := config.LoadConfig()

	if err := sentrypkg.Init(version, cfg.IsTelemetryEnabled(), cfg.SentryDSN); err != nil {
		log.WarningLog.Printf("sentry disabled: %v", err)
	}
	if sentrypkg.IsEnabled() {
		// Re-point the loggers so errors are forwarded.
		log.Close()
		log.Initialize(true)
	}

	return cfg, func() {
		sentrypkg.Flush()
		log.Close()
	}
}

func init() {
	rootCmd.AddCommand(debugCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		if !errors.Is(err, errUnhealthy) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
