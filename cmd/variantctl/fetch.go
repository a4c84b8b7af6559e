/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package main

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"github.com/suparena/variantstore"
	"github.com/suparena/variantstore/config"
	"github.com/suparena/variantstore/datastore/ddb"
	"github.com/suparena/variantstore/registry"
	"github.com/suparena/variantstore/storagemodels"
	"go.uber.org/zap"
)

type remote struct {
	cfg     *config.Config
	logger  *zap.Logger
	catalog *registry.Catalog
	store   *ddb.DynamodbDataStore[storagemodels.LoadoutRecord]
}

func connect(ctx context.Context, envFile, catalogPath string) (*remote, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if catalogPath != "" {
		cfg.CatalogPath = catalogPath
	}
	logger, err := cfg.NewLogger()
	if err != nil {
		return nil, err
	}
	catalog, err := registry.LoadCatalogFile(cfg.CatalogPath)
	if err != nil {
		return nil, err
	}
	store, err := ddb.NewDynamodbDataStore[storagemodels.LoadoutRecord](ctx,
		cfg.AWSAccessKey, cfg.AWSSecretKey, cfg.AWSRegion, cfg.TableName,
		ddb.WithEndpoint(cfg.Endpoint), ddb.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	return &remote{cfg: cfg, logger: logger, catalog: catalog, store: store}, nil
}

func newFetchCmd() *cobra.Command {
	var envFile, catalogPath, hostID string
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Load and print every stored loadout of a host",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			rc, err := connect(ctx, envFile, catalogPath)
			if err != nil {
				return err
			}
			defer rc.logger.Sync() //nolint:errcheck

			h, err := variantstore.NewHost(hostID, "", rc.catalog,
				variantstore.WithStore(rc.store), variantstore.WithHostLogger(rc.logger))
			if err != nil {
				return err
			}
			reports, err := h.Load(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, kind := range h.Kinds() {
				r, err := h.Loadout(kind)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "# %s (version %d)\n", kind, h.Version(kind))
				printReport(cmd.ErrOrStderr(), reports[kind])
				if err := printSnapshot(out, r.Snapshot()); err != nil {
					return err
				}
			}
			if companions := h.Companions(); len(companions) > 0 {
				fmt.Fprintf(out, "# companions: %v\n", companions)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&hostID, "host", "", "Host id")
	cmd.Flags().StringVar(&envFile, "env-file", ".env", "Environment file")
	cmd.Flags().StringVar(&catalogPath, "catalog", "", "Catalog file (overrides VARIANT_CATALOG)")
	_ = cmd.MarkFlagRequired("host")
	return cmd
}

func newListCmd() *cobra.Command {
	var envFile, hostKind string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the hosts of a host kind that have stored loadouts",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := config.Load(envFile)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			logger, err := cfg.NewLogger()
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			store, err := ddb.NewDynamodbDataStore[storagemodels.LoadoutRecord](ctx,
				cfg.AWSAccessKey, cfg.AWSSecretKey, cfg.AWSRegion, cfg.TableName,
				ddb.WithEndpoint(cfg.Endpoint), ddb.WithLogger(logger))
			if err != nil {
				return err
			}
			records, err := store.QueryIndex(ctx, "GSI1", "HOSTKIND#"+hostKind, "")
			if err != nil {
				return err
			}

			kinds := map[string][]string{}
			for _, rec := range records {
				kinds[rec.HostID] = append(kinds[rec.HostID], rec.Kind)
			}
			ids := make([]string, 0, len(kinds))
			for id := range kinds {
				ids = append(ids, id)
			}
			sort.Strings(ids)
			for _, id := range ids {
				sort.Strings(kinds[id])
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%v\n", id, kinds[id])
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&hostKind, "host-kind", "", "Host kind, e.g. character")
	cmd.Flags().StringVar(&envFile, "env-file", ".env", "Environment file")
	_ = cmd.MarkFlagRequired("host-kind")
	return cmd
}
