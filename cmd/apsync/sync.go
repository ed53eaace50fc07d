package main

import (
	"github.com/apboats/bbgassetmanagement-sub003/internal/notify"
	"github.com/apboats/bbgassetmanagement-sub003/internal/syncer"
	"github.com/spf13/cobra"
)

func newSyncCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Run one incremental sync",
		Long:  "Authenticates against the dealer management system and syncs work orders changed since the last successful run.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(cmd, configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "apsync.yaml", "path to config file")
	return cmd
}

func runSync(cmd *cobra.Command, configPath string) error {
	cfg, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}

	opts := []syncer.Option{syncer.WithOutput(cmd.OutOrStdout())}
	if n := notify.FromConfig(cfg.Notify); n != nil {
		opts = append(opts, syncer.WithNotifier(n))
	}
	engine := syncer.New(gormDB, cfg, opts...)

	_, err = engine.Run(cmd.Context())
	return err
}
