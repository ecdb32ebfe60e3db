package cmd

import (
	"github.com/spf13/cobra"

	"github.com/zjrosen/offview/internal/presentation"
	"github.com/zjrosen/offview/internal/product"
)

var productCmd = &cobra.Command{
	Use:   "product CODE",
	Short: "Print a product's details",
	Long: `Look up a product by barcode and print its name, brand and
ingredients. Missing ingredients are shown as N/A.

Examples:
  offview product 3017620422003
  offview product 3017620422003 --json`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE:         runProduct,
}

func init() {
	productCmd.Flags().BoolVar(&jsonOutput, "json", false, "print details as JSON")
	rootCmd.AddCommand(productCmd)
}

func runProduct(cmd *cobra.Command, args []string) error {
	rt, err := headlessRuntime()
	if err != nil {
		return err
	}
	defer rt.Close()

	rt.ctrl.OnProductSelected(product.Product{Code: product.StringPtr(args[0])})
	s, err := awaitIdle(cmd.Context(), rt.ctrl, pollInterval)
	if err != nil {
		return err
	}

	f := formatter(cmd)
	if s.Err != nil || s.Selected == nil {
		return reportError(f, s)
	}
	return f.FormatDetail(presentation.FromDetail(*s.Selected))
}
