package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/kastheco/reviewgate/internal/gate"
	"github.com/kastheco/reviewgate/log"
	"github.com/kastheco/reviewgate/ui"
	"github.com/spf13/cobra"
)

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch <transcript>",
		Short: "Re-evaluate a transcript every time it changes",
		Long: `Watches a live session transcript and prints the verdict whenever it
changes. Every evaluation re-reads the whole transcript, exactly like the hook.`,
		Args: cobra.ExactArgs(1),
		RunE: runWatch,
	}
	cmd.Flags().String("cwd", "", "working directory to strip from edited paths")
	return cmd
}

func runWatch(cmd *cobra.Command, args []string) error {
	log.Initialize(false)
	defer log.Close()

	cwd, _ := cmd.Flags().GetString("cwd")
	path := args[0]
	out := cmd.OutOrStdout()
	report := ui.Report{Color: isTerminal(out)}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory: hosts may replace the file instead of appending.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
	}

	w := &verdictWatcher{path: path, cwd: cwd, out: out, report: report}
	w.evaluate()

	ctx := cmd.Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != filepath.Clean(path) {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) {
				w.evaluate()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.WarningLog.Printf("watch error: %v", err)
		}
	}
}

// verdictWatcher prints a verdict line whenever the decision or reason
// changes.
type verdictWatcher struct {
	path   string
	cwd    string
	out    io.Writer
	report ui.Report

	last    gate.Verdict
	started bool
}

func (w *verdictWatcher) evaluate() {
	data, err := os.ReadFile(w.path)
	if err != nil {
		log.WarningLog.Printf("read transcript: %v", err)
		return
	}
	_, v := gate.Check(data, w.cwd)
	if w.started && v.Decision == w.last.Decision && v.Reason == w.last.Reason {
		return
	}
	w.started = true
	w.last = v
	w.report.Verdict(w.out, v)
}

func init() {
	rootCmd.AddCommand(newWatchCmd())
}
