package main

import (
	"fmt"
	"log"
	"os/signal"
	"syscall"

	"github.com/apboats/bbgassetmanagement-sub003/internal/notify"
	"github.com/apboats/bbgassetmanagement-sub003/internal/server"
	"github.com/apboats/bbgassetmanagement-sub003/internal/syncer"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the sync scheduler and HTTP API",
		Long:  "Starts the cron-scheduled incremental sync and the HTTP API for status, manual triggers, and on-demand fetches. Runs until interrupted.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "apsync.yaml", "path to config file")
	return cmd
}

func runServe(cmd *cobra.Command, configPath string) error {
	cfg, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	opts := []syncer.Option{syncer.WithOutput(out)}
	if n := notify.FromConfig(cfg.Notify); n != nil {
		opts = append(opts, syncer.WithNotifier(n))
	}
	engine := syncer.New(gormDB, cfg, opts...)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Standard 5-field cron expressions (minute, hour, dom, month, dow).
	scheduler := cron.New(cron.WithParser(
		cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)))
	_, err = scheduler.AddFunc(cfg.Sync.Schedule, func() {
		if _, err := engine.Run(ctx); err != nil {
			// Already recorded in sync status; fatal errors also alerted.
			log.Printf("scheduled sync: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("parse schedule %q: %w", cfg.Sync.Schedule, err)
	}
	scheduler.Start()
	defer scheduler.Stop()
	fmt.Fprintf(out, "Sync scheduled (%s)\n", cfg.Sync.Schedule)

	return server.Start(ctx, server.StartOpts{
		DB:     gormDB,
		Cfg:    cfg,
		Engine: engine,
		Out:    out,
	})
}
