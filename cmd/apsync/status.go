package main

import (
	"fmt"
	"time"

	"github.com/apboats/bbgassetmanagement-sub003/internal/syncer"
	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show sync job status",
		Long:  "Displays the watermark, outcome and record count of the last sync run.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(cmd, configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "apsync.yaml", "path to config file")
	return cmd
}

func runStatus(cmd *cobra.Command, configPath string) error {
	cfg, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	st, err := syncer.LoadStatus(gormDB, cfg.Sync.JobName)
	if err != nil {
		return err
	}
	if st == nil {
		fmt.Fprintf(out, "Job %q has never run\n", cfg.Sync.JobName)
		return nil
	}

	fmt.Fprintf(out, "Job:               %s\n", st.JobName)
	fmt.Fprintf(out, "Status:            %s\n", st.Status)
	fmt.Fprintf(out, "Last attempted:    %s\n", formatTime(st.LastAttempted))
	fmt.Fprintf(out, "Last success:      %s\n", formatTime(st.LastSuccess))
	fmt.Fprintf(out, "Records processed: %d\n", st.RecordsProcessed)
	if st.LastError != "" {
		fmt.Fprintf(out, "Last error:        %s\n", st.LastError)
	}
	return nil
}

func formatTime(t *time.Time) string {
	if t == nil {
		return "never"
	}
	return t.Format(time.RFC3339)
}
