/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "variantctl",
		Short: "Inspect variant catalogs and stored loadouts",
		Long: `variantctl validates variant catalog files, decodes loadout blobs into
readable YAML, and fetches the loadouts stored for a host in DynamoDB.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCatalogCmd())
	rootCmd.AddCommand(newInspectCmd())
	rootCmd.AddCommand(newFetchCmd())
	rootCmd.AddCommand(newListCmd())
	return rootCmd
}
