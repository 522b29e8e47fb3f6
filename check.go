package main

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/kastheco/reviewgate/internal/install"
	"github.com/spf13/cobra"
)

// errUnhealthy is returned when the hook is not installed anywhere, to signal
// exit code 1 without printing a message.
var errUnhealthy = errors.New("unhealthy")

// settingsCheck is the install state of one settings file.
type settingsCheck struct {
	Scope     string
	Path      string
	Installed bool
	Detail    string // error or reason the scope was skipped
}

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Report where the Stop hook is installed",
		Long: `Checks the global (~/.claude/settings.json) and project
(.claude/settings.json at the git repository root) Claude settings for the
reviewgate Stop hook.

Exit code 0 if the hook is installed in at least one of them, 1 otherwise.`,
		Args: cobra.NoArgs,
		RunE: runCheck,
		// Suppress usage on error; a missing hook is not a usage error.
		SilenceUsage: true,
		// Suppress cobra's "Error: ..." line for the unhealthy sentinel.
		SilenceErrors: true,
	}
	cmd.Flags().String("dir", "", "project directory (defaults to the current directory)")
	return cmd
}

func runCheck(cmd *cobra.Command, args []string) error {
	dir, _ := cmd.Flags().GetString("dir")
	if dir == "" {
		cwd, err := filepath.Abs(".")
		if err != nil {
			return fmt.Errorf("get working dir: %w", err)
		}
		dir = cwd
	}

	var checks []settingsCheck
	if path, err := install.GlobalSettingsPath(); err != nil {
		checks = append(checks, settingsCheck{Scope: "global", Detail: err.Error()})
	} else {
		checks = append(checks, checkSettings("global", path))
	}
	if root, err := install.ProjectRoot(dir); err != nil {
		checks = append(checks, settingsCheck{Scope: "project", Detail: "not in a git repository"})
	} else {
		checks = append(checks, checkSettings("project", install.SettingsPath(root)))
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\nStop hook:\n")
	ok := 0
	for _, c := range checks {
		glyph := "✗"
		if c.Installed {
			glyph = "✓"
			ok++
		}
		target := c.Path
		if c.Detail != "" {
			target = c.Detail
		}
		fmt.Fprintf(out, "  %s %-8s %s\n", glyph, c.Scope, target)
	}

	if ok == 0 {
		fmt.Fprintf(out, "\nNot installed. Run \"reviewgate install\".\n")
		return errUnhealthy
	}
	return nil
}

func checkSettings(scope, path string) settingsCheck {
	installed, err := install.IsInstalled(path)
	c := settingsCheck{Scope: scope, Path: path, Installed: installed}
	if err != nil {
		c.Detail = err.Error()
	}
	return c
}

func init() {
	rootCmd.AddCommand(newCheckCmd())
}
