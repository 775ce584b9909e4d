package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:           "macrobacktest",
		Short:         "run macro regime backtests from csv or the price db",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newBacktestCmd(),
		newDiagnoseCmd(),
		newPresetsCmd(),
		newIngestCmd(),
		newImportScoresCmd(),
		newTokenCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
