package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/dgrid/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ┌┬┐┌─┐┬─┐┬┌┬┐
   │││ ┬├┬┘│ ││
  ─┴┘└─┘┴└─┴─┴┘
`

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	configPath string
	logLevel   string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		errors.PrintError(err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "dgrid",
		Short: "Sortable, paginated data grids for the browser and the terminal",
		Long: `dgrid renders tabular data as an interactive grid.

Data comes from inline rows, a JSON or CSV file, a bolt database or an
S3 object. The same grid can be served live to browsers, rendered to
static HTML, or browsed in the terminal.

  • Column sorting and pagination
  • Editable cells written back to the store
  • Prometheus metrics and OpenTelemetry spans
  • Reload on data file change`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "Configuration file (default: discover dgrid.json/.toml/.yaml)")
	rootCmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Log level: debug, info, warn, error (default from config)")

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return errors.New("E400").
			Wrap(err).
			WithSuggestion("Run '" + cmd.CommandPath() + " --help' for usage")
	})

	rootCmd.AddCommand(
		serveCmd(flags),
		renderCmd(flags),
		viewCmd(flags),
		importCmd(flags),
		initCmd(),
		versionCmd(),
	)

	return rootCmd
}

// printBanner prints the dgrid banner.
func printBanner(w io.Writer) {
	fmt.Fprint(w, banner)
}

// success prints a success message.
func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "  %s\n", fmt.Sprintf(format, args...))
}
