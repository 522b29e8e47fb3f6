package main

import (
	"os"

	"github.com/kastheco/reviewgate/config"
	"github.com/kastheco/reviewgate/config/auditlog"
	"github.com/kastheco/reviewgate/internal/hook"
	"github.com/kastheco/reviewgate/log"
	"github.com/spf13/cobra"
)

// exitFunc is swapped out in tests.
var exitFunc = os.Exit

func newHookCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hook",
		Short: "Run the Stop hook (reads the hook payload from stdin)",
		Long: `Reads the Stop hook payload from stdin, re-reads the session transcript and
decides whether the agent may stop.

Exit code 0 allows the stop. Exit code 2 blocks it and prints the reason on
stderr. Any internal failure allows the stop.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, cleanup := setup()

			audit := openAudit(cfg)
			code := hook.Run(cmd.Context(), hook.Options{
				Stdin:  cmd.InOrStdin(),
				Stderr: cmd.ErrOrStderr(),
				Audit:  audit,
			})
			if err := audit.Close(); err != nil {
				log.WarningLog.Printf("failed to close audit log: %v", err)
			}
			cleanup()

			if code != 0 {
				exitFunc(code)
			}
			return nil
		},
	}
}

// openAudit returns the configured audit logger, falling back to a no-op
// logger when auditing is off or the database cannot be opened.
func openAudit(cfg *config.Config) auditlog.Logger {
	if !cfg.Audit.Enabled {
		return auditlog.NopLogger()
	}
	path, err := cfg.AuditDBPath()
	if err != nil {
		log.WarningLog.Printf("audit log disabled: %v", err)
		return auditlog.NopLogger()
	}
	l, err := auditlog.NewSQLiteLogger(path)
	if err != nil {
		log.WarningLog.Printf("audit log disabled: %v", err)
		return auditlog.NopLogger()
	}
	return l
}

func init() {
	rootCmd.AddCommand(newHookCmd())
}
