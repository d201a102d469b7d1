package cli

import (
	"github.com/spf13/cobra"

	"github.com/loglens/loglens/internal/formatter"
	"github.com/loglens/loglens/internal/table"
)

func newFacetsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "facets [file]",
		Short: "Show level, source and metadata facet counts",
		Long: `Summarize a log file: entry and skip totals, per-level and
per-source counts, metadata key facets and timestamp gap hotspots.

Examples:
  loglens facets app.log
  loglens facets -o markdown app.log > report.md`,
		Args: cobra.MaximumNArgs(1),
		RunE: runFacets,
	}
}

func runFacets(cmd *cobra.Command, args []string) error {
	label, result, err := parseInput(args)
	if err != nil {
		return err
	}

	report := &formatter.Report{
		Label:   label,
		Result:  result,
		Summary: summarize(result),
		Table:   table.Build(result),
	}
	return writeReport(cmd.OutOrStdout(), report)
}
