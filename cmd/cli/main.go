package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "sipre",
		Short: "Macro scenario impact and inflation forecast calculator",
		Long: "sipre applies bauxite, FDI and policy-rate shocks to the latest BCRG indicators,\n" +
			"checks the result against the reserve stress thresholds and projects inflation\n" +
			"with a seasonal Holt-Winters model.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newEvaluateCmd(),
		newNoteCmd(),
		newSummaryCmd(),
	)
	return root
}
