/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/suparena/variantstore/codec"
	"github.com/suparena/variantstore/loadout"
	"github.com/suparena/variantstore/registry"
	"github.com/suparena/variantstore/storagemodels"
)

func newInspectCmd() *cobra.Command {
	var (
		catalogPath string
		kind        string
	)
	cmd := &cobra.Command{
		Use:   "inspect <blob-file>",
		Short: "Decode a loadout blob and print it as YAML",
		Long: `Decode a binary loadout blob ("-" reads stdin) and print it as YAML.

With --catalog the blob is loaded the way a host would load it: entries whose
type no longer resolves are dropped and reported on stderr. Without a catalog
the raw entries are printed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			blob, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}

			if catalogPath == "" {
				decoded, err := codec.Binary{}.Decode(blob)
				if err != nil {
					return err
				}
				for _, s := range decoded.Skipped {
					fmt.Fprintf(cmd.ErrOrStderr(), "skipped entry %d: %v\n", s.Ordinal, s.Err)
				}
				return printSnapshot(cmd.OutOrStdout(), decoded.Snapshot)
			}

			k, err := registry.ParseKind(kind)
			if err != nil {
				return err
			}
			c, err := registry.LoadCatalogFile(catalogPath)
			if err != nil {
				return err
			}
			r, rep, err := loadout.Deserialize(blob, k, c)
			if err != nil {
				return err
			}
			printReport(cmd.ErrOrStderr(), rep)
			return printSnapshot(cmd.OutOrStdout(), r.Snapshot())
		},
	}
	cmd.Flags().StringVar(&catalogPath, "catalog", "", "Catalog file used to resolve variant types")
	cmd.Flags().StringVar(&kind, "kind", string(registry.KindAbility), "Variant kind of the blob")
	return cmd
}

func readInput(cmd *cobra.Command, name string) ([]byte, error) {
	if name == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(name)
}

func printSnapshot(w io.Writer, s storagemodels.Snapshot) error {
	doc, err := codec.YAML{}.Encode(s)
	if err != nil {
		return err
	}
	_, err = w.Write(doc)
	return err
}

func printReport(w io.Writer, rep loadout.Report) {
	for _, d := range rep.Dropped {
		fmt.Fprintf(w, "dropped entry %d (%s): %v\n", d.Ordinal, d.TypeID, d.Err)
	}
	for _, p := range rep.ClearedPointers {
		fmt.Fprintf(w, "cleared pointer %q\n", p)
	}
}
