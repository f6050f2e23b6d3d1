package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/dgrid/internal/config"
	"github.com/vango-dev/dgrid/internal/errors"
)

func initCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write a default configuration file",
		Long: `Write a configuration file with the default settings.

The format follows the extension: .json (default), .toml, .yaml or .yml.

Examples:
  dgrid init
  dgrid init dgrid.toml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.ConfigFileName
			if len(args) == 1 {
				path = args[0]
			}
			if _, err := os.Stat(path); err == nil && !force {
				return errors.New("E402").WithDetail(path + " would be overwritten.")
			}

			cfg := config.New()
			cfg.Grid.ItemsPerPage = config.DefaultItemsPerPage
			if err := cfg.SaveTo(path); err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "Wrote %s", path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing file")
	return cmd
}
