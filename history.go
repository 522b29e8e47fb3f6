package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/kastheco/reviewgate/config/auditlog"
	"github.com/kastheco/reviewgate/log"
	"github.com/spf13/cobra"
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded hook verdicts from the audit log",
		Args:  cobra.NoArgs,
		RunE:  runHistory,
	}
	cmd.Flags().String("session", "", "only show verdicts for this session id")
	cmd.Flags().String("project", "", "only show verdicts for this working directory")
	cmd.Flags().Bool("blocked", false, "only show blocks and soft allows")
	cmd.Flags().Duration("since", 0, "only show verdicts newer than this (e.g. 24h)")
	cmd.Flags().IntP("limit", "n", 20, "maximum number of verdicts to show")
	return cmd
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, cleanup := setup()
	defer cleanup()

	if !cfg.Audit.Enabled {
		log.InfoLog.Printf("history requested with audit log disabled")
		fmt.Fprintln(cmd.OutOrStdout(), "Audit log is disabled. Set [audit] enabled = true in the config to record verdicts.")
		return nil
	}
	path, err := cfg.AuditDBPath()
	if err != nil {
		return err
	}
	logger, err := auditlog.NewSQLiteLogger(path)
	if err != nil {
		return err
	}
	defer logger.Close()

	filter := auditlog.QueryFilter{}
	filter.SessionID, _ = cmd.Flags().GetString("session")
	filter.Project, _ = cmd.Flags().GetString("project")
	filter.Limit, _ = cmd.Flags().GetInt("limit")
	if blocked, _ := cmd.Flags().GetBool("blocked"); blocked {
		filter.Kinds = []auditlog.EventKind{auditlog.EventVerdictBlock, auditlog.EventVerdictSoftAllow}
	}
	if since, _ := cmd.Flags().GetDuration("since"); since > 0 {
		filter.After = time.Now().Add(-since)
	}

	events, err := logger.Query(filter)
	if err != nil {
		return err
	}
	return printHistory(cmd, events)
}

func printHistory(cmd *cobra.Command, events []auditlog.Event) error {
	out := cmd.OutOrStdout()
	if len(events) == 0 {
		fmt.Fprintln(out, "No verdicts recorded.")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tVERDICT\tREASON\tUNREVIEWED\tREVIEWS\tSESSION")
	for _, e := range events {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%s\n",
			e.Timestamp.Local().Format("2006-01-02 15:04:05"),
			e.Kind, e.Reason, e.Unreviewed, e.ReviewsSinceUser, e.SessionID)
	}
	return tw.Flush()
}

func init() {
	rootCmd.AddCommand(newHistoryCmd())
}
