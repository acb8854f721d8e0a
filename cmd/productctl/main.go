package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/redmonkez12/go-product-api/cmd/productctl/ui"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		ui.PrintError(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "productctl",
		Short:         "Operator tooling for the product API",
		Long:          "Run schema migrations, hash passwords for seeding, and issue bearer tokens for local testing.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(newMigrateCmd(), newHashPasswordCmd(), newTokenCmd())
	return rootCmd
}
