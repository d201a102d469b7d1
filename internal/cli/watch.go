package cli

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/loglens/loglens/internal/formatter"
	"github.com/loglens/loglens/internal/logger"
	"github.com/loglens/loglens/internal/logline"
	"github.com/loglens/loglens/internal/table"
)

func newWatchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "watch <file>",
		Short: "Re-parse a log file whenever it changes",
		Long: `Watch a log file and re-parse the whole file on every change,
re-rendering the facet summary. The file is always read in full; there
is no incremental tailing. Press Ctrl+C to stop.

Examples:
  loglens watch app.log`,
		Args: cobra.ExactArgs(1),
		RunE: runWatch,
	}
}

func runWatch(cmd *cobra.Command, args []string) error {
	log := logger.NewWithCallback("watch", isVerbose)
	path := filepath.Clean(args[0])

	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("cannot watch %s: %w", args[0], err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer func() {
		if cerr := watcher.Close(); cerr != nil {
			log.Warn("closing watcher: %v", cerr)
		}
	}()

	// Watch the directory; editors replace files and the direct watch
	// would be lost on rename.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(path), err)
	}

	if err := renderFile(cmd, path); err != nil {
		return err
	}

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signals)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			log.Debug("change detected: %s", event.Op)
			if err := renderFile(cmd, path); err != nil {
				log.Warn("re-parse failed: %v", err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("watch error: %v", err)

		case <-signals:
			return nil
		}
	}
}

// renderFile parses the whole file and writes a fresh report.
func renderFile(cmd *cobra.Command, path string) error {
	data, err := os.ReadFile(path) // #nosec G304 - the path is the user's own argument
	if err != nil {
		return err
	}

	cfg := GetGlobalConfig()
	fmt.Fprintf(cmd.OutOrStdout(), "--- %s @ %s ---\n",
		filepath.Base(path), time.Now().Format(cfg.Output.TimestampFormat))

	result := logline.ParseWithLimit(string(data), cfg.Parse.MaxLineLength)
	report := &formatter.Report{
		Label:   filepath.Base(path),
		Result:  result,
		Summary: summarize(result),
		Table:   table.Build(result),
	}
	return writeReport(cmd.OutOrStdout(), report)
}
