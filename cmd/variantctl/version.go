/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/suparena/variantstore"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  "Display the variantctl version, Git commit, build date, Go version and blob format",
		Run: func(cmd *cobra.Command, args []string) {
			info := variantstore.GetVersionInfo()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "variantctl version: %s\n", info.Version)
			fmt.Fprintf(out, "Git commit: %s\n", info.GitCommit)
			fmt.Fprintf(out, "Build date: %s\n", info.BuildDate)
			fmt.Fprintf(out, "Go version: %s\n", info.GoVersion)
			fmt.Fprintf(out, "Blob format: %s\n", info.BlobFormat)
		},
	}
}
