package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/loglens/loglens/internal/facet"
	"github.com/loglens/loglens/internal/formatter"
	"github.com/loglens/loglens/internal/logger"
	"github.com/loglens/loglens/internal/logline"
	"github.com/loglens/loglens/internal/table"
	"github.com/loglens/loglens/internal/ui"
)

var (
	viewTUI    bool
	viewSearch string
	viewLevel  string
)

func newViewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view [file]",
		Short: "Parse a log file and show entries with facets",
		Long: `Parse a log file (or stdin) and render the entries, skipped-line
count and facet summary. With --tui an interactive viewer opens
instead.

Examples:
  loglens view app.log
  loglens view --tui app.log
  cat app.log | loglens view -o json
  loglens view --level error --search timeout app.log`,
		Args: cobra.MaximumNArgs(1),
		RunE: runView,
	}

	cmd.Flags().BoolVar(&viewTUI, "tui", false, "open the interactive viewer")
	cmd.Flags().StringVar(&viewSearch, "search", "", "pre-filter entries by raw-text search")
	cmd.Flags().StringVar(&viewLevel, "level", "", "pre-filter entries by level")

	return cmd
}

func runView(cmd *cobra.Command, args []string) error {
	label, result, err := parseInput(args)
	if err != nil {
		return err
	}

	result = applyViewFilters(result)

	summary := summarize(result)
	if viewTUI {
		return ui.Run(label, result, summary)
	}

	report := &formatter.Report{
		Label:   label,
		Result:  result,
		Summary: summary,
		Table:   table.Build(result),
	}
	return writeReport(cmd.OutOrStdout(), report)
}

// applyViewFilters narrows the result by the --level and --search
// flags. Skipped stays untouched; it describes the batch, not the
// filter.
func applyViewFilters(result *logline.ParseResult) *logline.ParseResult {
	entries := result.Entries
	if viewLevel != "" {
		level := strings.ToLower(viewLevel)
		filtered := make([]*logline.LogEntry, 0, len(entries))
		for _, e := range entries {
			if e.Level == level {
				filtered = append(filtered, e)
			}
		}
		entries = filtered
	}
	entries = facet.Search(entries, viewSearch)

	if len(entries) == len(result.Entries) {
		return result
	}
	return &logline.ParseResult{Entries: entries, Skipped: result.Skipped}
}

// parseInput reads the file argument (or stdin) fully and parses it
// as one batch.
func parseInput(args []string) (string, *logline.ParseResult, error) {
	log := logger.NewWithCallback("parse", isVerbose)

	var (
		reader io.Reader
		label  string
	)
	if len(args) == 0 {
		log.Info("reading from stdin")
		reader = os.Stdin
	} else {
		path := filepath.Clean(args[0])
		file, err := os.Open(path) // #nosec G304 - the path is the user's own argument
		if err != nil {
			return "", nil, fmt.Errorf("failed to open %s: %w", args[0], err)
		}
		defer func() {
			if cerr := file.Close(); cerr != nil {
				log.Warn("closing %s: %v", path, cerr)
			}
		}()
		reader = file
		label = filepath.Base(path)
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return "", nil, fmt.Errorf("reading input: %w", err)
	}

	cfg := GetGlobalConfig()
	result := logline.ParseWithLimit(string(data), cfg.Parse.MaxLineLength)
	if max := cfg.Parse.MaxEntries; max > 0 && len(result.Entries) > max {
		log.Warn("truncating batch to %d entries (max_entries)", max)
		result.Entries = result.Entries[:max]
	}

	log.Debug("parsed %d entries, skipped %d lines", len(result.Entries), result.Skipped)
	return label, result, nil
}

func summarize(result *logline.ParseResult) *facet.Summary {
	cfg := GetGlobalConfig()
	return facet.Summarize(result, facet.Options{
		TopValues:    cfg.Facets.TopValues,
		GapThreshold: cfg.Facets.GapThreshold,
	})
}

func writeReport(w io.Writer, report *formatter.Report) error {
	f, err := formatter.New(outputFormat(), useColor())
	if err != nil {
		return err
	}
	out, err := f.Format(report)
	if err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}
	_, err = w.Write(out)
	return err
}
