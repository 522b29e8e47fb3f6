package main

import (
	"fmt"
	"os"

	"github.com/kastheco/reviewgate/internal/gate"
	"github.com/kastheco/reviewgate/ui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newExplainCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "explain <transcript>",
		Short: "Show the classified timeline and the verdict for a transcript",
		Long: `Classifies a session transcript the same way the Stop hook does and prints
every user message, code change and review it found, followed by the verdict
the hook would return.`,
		Args: cobra.ExactArgs(1),
		RunE: runExplain,
	}
	cmd.Flags().String("cwd", "", "working directory to strip from edited paths")
	cmd.Flags().Bool("no-color", false, "disable colored output")
	return cmd
}

func runExplain(cmd *cobra.Command, args []string) error {
	cwd, _ := cmd.Flags().GetString("cwd")
	noColor, _ := cmd.Flags().GetBool("no-color")

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read transcript: %w", err)
	}

	tl, v := gate.Check(data, cwd)

	out := cmd.OutOrStdout()
	report := ui.Report{Color: !noColor && isTerminal(out)}
	fmt.Fprintf(out, "Transcript: %s\n\n", args[0])
	report.Timeline(out, tl)
	fmt.Fprintln(out)
	report.Summary(out, tl)
	fmt.Fprintln(out)
	report.Verdict(out, v)
	return nil
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w any) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

func init() {
	rootCmd.AddCommand(newExplainCmd())
}
