package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kastheco/reviewgate/internal/install"
	"github.com/spf13/cobra"
)

func newInstallCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "install",
		Short: "Register reviewgate as a Claude Stop hook",
		Long: `Adds a Stop hook running "reviewgate hook" to the Claude settings of the
current git repository (.claude/settings.json at the repository root), or to
~/.claude/settings.json with --global. Existing settings are preserved and
running it twice is harmless.`,
		Args: cobra.NoArgs,
		RunE: runInstall,
	}
	cmd.Flags().Bool("global", false, "install into ~/.claude/settings.json")
	cmd.Flags().String("dir", "", "project directory (defaults to the current directory)")
	cmd.Flags().String("binary", "", "path of the reviewgate binary the hook should run")
	cmd.Flags().Bool("remove", false, "remove the hook instead of installing it")
	return cmd
}

func runInstall(cmd *cobra.Command, args []string) error {
	global, _ := cmd.Flags().GetBool("global")
	dir, _ := cmd.Flags().GetString("dir")
	binary, _ := cmd.Flags().GetString("binary")
	remove, _ := cmd.Flags().GetBool("remove")

	settingsPath, err := resolveSettingsPath(global, dir)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if remove {
		changed, err := install.RemoveStopHook(settingsPath)
		if err != nil {
			return err
		}
		if changed {
			fmt.Fprintf(out, "Removed Stop hook from %s\n", settingsPath)
		} else {
			fmt.Fprintf(out, "No Stop hook installed in %s\n", settingsPath)
		}
		return nil
	}

	if binary == "" {
		binary, err = os.Executable()
		if err != nil {
			return fmt.Errorf("locate reviewgate binary: %w", err)
		}
	}

	changed, err := install.InstallStopHook(settingsPath, install.HookCommand(binary))
	if err != nil {
		return err
	}
	if changed {
		fmt.Fprintf(out, "Installed Stop hook in %s\n", settingsPath)
	} else {
		fmt.Fprintf(out, "Stop hook already installed in %s\n", settingsPath)
	}
	return nil
}

func resolveSettingsPath(global bool, dir string) (string, error) {
	if global {
		return install.GlobalSettingsPath()
	}
	if dir == "" {
		cwd, err := filepath.Abs(".")
		if err != nil {
			return "", fmt.Errorf("failed to get current directory: %w", err)
		}
		dir = cwd
	}
	root, err := install.ProjectRoot(dir)
	if err != nil {
		return "", err
	}
	return install.SettingsPath(root), nil
}

func init() {
	rootCmd.AddCommand(newInstallCmd())
}
