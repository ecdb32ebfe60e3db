package cmd

import (
	"github.com/spf13/cobra"

	"github.com/zjrosen/offview/internal/presentation"
)

var searchCmd = &cobra.Command{
	Use:   "search TERM",
	Short: "Search products and print the results",
	Long: `Search the OpenFoodFacts catalog and print matching products in
server order, one per line with their barcode.

Examples:
  offview search nutella
  offview search "dark chocolate" --json

  # Pipe the first barcode into a detail lookup
  offview search nutella --json | jq -r '.[0].code' | xargs offview product`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE:         runSearch,
}

func init() {
	searchCmd.Flags().BoolVar(&jsonOutput, "json", false, "print results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	rt, err := headlessRuntime()
	if err != nil {
		return err
	}
	defer rt.Close()

	rt.ctrl.OnSearchSubmitted(args[0])
	s, err := awaitIdle(cmd.Context(), rt.ctrl, pollInterval)
	if err != nil {
		return err
	}

	f := formatter(cmd)
	if s.Err != nil {
		return reportError(f, s)
	}
	return f.FormatProducts(presentation.FromProducts(s.Results))
}
