package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/vango-dev/dgrid/pkg/grid"
	"github.com/vango-dev/dgrid/pkg/store"
	"github.com/vango-dev/dgrid/pkg/tui"
)

func viewCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "view",
		Short: "Browse the grid in the terminal",
		Long: `Open the grid full screen in the terminal.

Keys:
  ←/→ h/l   Move between columns
  s         Sort by the current column (again to reverse)
  [ ]       Previous and next page
  g         Go to a page
  /         Find a column
  q         Quit`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}

			src, closeSource, err := openSource(ctx, cfg)
			if err != nil {
				return err
			}
			defer closeSource()

			props, err := gridProperties(ctx, cfg, store.New(src))
			if err != nil {
				return err
			}

			// The screen belongs to the program; logs would corrupt it.
			g := grid.New(props, grid.WithLogger(newLogger(cfg.Log, io.Discard)))
			defer g.Destroy()

			return tui.Run(ctx, g, cfg.Name)
		},
	}
}
