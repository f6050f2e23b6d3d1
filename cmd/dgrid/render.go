package main

import (
	"github.com/spf13/cobra"

	"github.com/vango-dev/dgrid/internal/errors"
	"github.com/vango-dev/dgrid/pkg/grid"
	"github.com/vango-dev/dgrid/pkg/render"
	"github.com/vango-dev/dgrid/pkg/store"
)

type renderOptions struct {
	page     string
	sort     string
	desc     bool
	pretty   bool
	fullPage bool
}

func renderCmd(flags *globalFlags) *cobra.Command {
	opts := renderOptions{}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Print the grid as static HTML",
		Long: `Render one view of the grid to standard output.

The page number is passed to the grid as typed, so "3" and "3rd" both
select page 3. A page outside the data is reported as an error.

Examples:
  dgrid render
  dgrid render --sort name --desc
  dgrid render --page 2 --pretty
  dgrid render --html-page > grid.html`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, flags, opts)
		},
	}

	cmd.Flags().StringVar(&opts.page, "page", "", "Page number to render")
	cmd.Flags().StringVar(&opts.sort, "sort", "", "Column to sort by")
	cmd.Flags().BoolVar(&opts.desc, "desc", false, "Sort descending")
	cmd.Flags().BoolVar(&opts.pretty, "pretty", false, "Indent the HTML output")
	cmd.Flags().BoolVar(&opts.fullPage, "html-page", false, "Wrap the grid in a complete HTML document")

	return cmd
}

func runRender(cmd *cobra.Command, flags *globalFlags, opts renderOptions) error {
	ctx := cmd.Context()
	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}
	logger := newLogger(cfg.Log, cmd.ErrOrStderr())

	src, closeSource, err := openSource(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeSource()

	props, err := gridProperties(ctx, cfg, store.New(src))
	if err != nil {
		return err
	}
	if opts.sort != "" && !hasColumn(props.Columns, opts.sort) {
		return errors.New("E400").
			WithDetail("Unknown column " + opts.sort + ".").
			WithSuggestion("Use one of the configured column ids")
	}

	g := grid.New(props, grid.WithLogger(logger))
	defer g.Destroy()

	if opts.sort != "" {
		g.OnSortRequest(opts.sort, opts.desc)
	}
	if opts.page != "" {
		g.OnPaginationRequest(opts.page)
	}

	tree := g.RenderContext(ctx)
	if err := g.Err(); err != nil {
		return errors.FromStoreError(err)
	}

	r := render.NewRenderer(render.RendererConfig{Pretty: opts.pretty})
	out := cmd.OutOrStdout()
	if opts.fullPage {
		return r.RenderPage(out, render.PageData{Body: tree, Title: cfg.Name})
	}
	if err := r.RenderToWriter(out, tree); err != nil {
		return err
	}
	_, err = out.Write([]byte("\n"))
	return err
}

func hasColumn(cols []grid.Column, id string) bool {
	for _, c := range cols {
		if c.ID == id {
			return true
		}
	}
	return false
}
