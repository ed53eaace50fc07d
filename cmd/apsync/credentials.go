package main

import (
	"fmt"
	"os"

	"github.com/apboats/bbgassetmanagement-sub003/internal/config"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newCredentialsCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "credentials",
		Short: "Store the upstream API password",
		Long:  "Prompts for the dealer management system password and writes it to the configured password file with owner-only permissions.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCredentials(cmd, configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "apsync.yaml", "path to config file")
	return cmd
}

func runCredentials(cmd *cobra.Command, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Password for %s: ", cfg.Upstream.Username)
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(out)
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}
	if len(password) == 0 {
		return fmt.Errorf("password is empty")
	}

	if err := cfg.StorePassword(string(password)); err != nil {
		return err
	}
	fmt.Fprintf(out, "Password stored in %s\n", cfg.Upstream.PasswordFile)
	return nil
}
