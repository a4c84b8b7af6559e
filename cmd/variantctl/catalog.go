/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/suparena/variantstore/registry"
)

func newCatalogCmd() *cobra.Command {
	catalogCmd := &cobra.Command{
		Use:   "catalog",
		Short: "Work with variant catalog files",
	}
	catalogCmd.AddCommand(newCatalogValidateCmd())
	return catalogCmd
}

func newCatalogValidateCmd() *cobra.Command {
	var list bool
	cmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Check a catalog file for unknown kinds, duplicate ids and aliases",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := registry.LoadCatalogFile(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: %d variants OK\n", args[0], c.Len())
			if !list {
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "KIND\tID\tNAME\tCOMPANIONS")
			for _, kind := range registry.Kinds {
				for _, m := range c.List(kind) {
					fmt.Fprintf(w, "%s\t%s\t%s\t%v\n", kind, m.TypeID, m.DisplayName, m.Companions)
				}
			}
			return w.Flush()
		},
	}
	cmd.Flags().BoolVar(&list, "list", false, "Print every variant after validating")
	return cmd
}
