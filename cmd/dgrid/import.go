package main

import (
	"github.com/spf13/cobra"

	"github.com/vango-dev/dgrid/internal/config"
	"github.com/vango-dev/dgrid/internal/errors"
	"github.com/vango-dev/dgrid/pkg/store"
)

type importOptions struct {
	db     string
	bucket string
	s3     config.S3Config
}

func importCmd(flags *globalFlags) *cobra.Command {
	opts := importOptions{}

	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Load rows into a bolt database",
		Long: `Import rows from a JSON or CSV file, or an S3 object, into a bolt
database that "serve" can use as its data source.

Rows with an id that is already present replace the stored row.

Examples:
  dgrid import people.csv --db people.db
  dgrid import --s3-bucket data --s3-key people.json --db people.db`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, flags, args, opts)
		},
	}

	cmd.Flags().StringVar(&opts.db, "db", "", "Bolt database path (default from config)")
	cmd.Flags().StringVar(&opts.bucket, "bucket", "", "Bolt bucket (default from config)")
	cmd.Flags().StringVar(&opts.s3.Bucket, "s3-bucket", "", "S3 bucket to import from")
	cmd.Flags().StringVar(&opts.s3.Key, "s3-key", "", "S3 object key to import")
	cmd.Flags().StringVar(&opts.s3.Region, "s3-region", "", "S3 region")
	cmd.Flags().StringVar(&opts.s3.Endpoint, "s3-endpoint", "", "S3 endpoint for compatible services")
	cmd.Flags().BoolVar(&opts.s3.PathStyle, "s3-path-style", false, "Use path-style S3 addressing")

	return cmd
}

func runImport(cmd *cobra.Command, flags *globalFlags, args []string, opts importOptions) error {
	ctx := cmd.Context()
	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}

	dbPath := opts.db
	if dbPath == "" {
		dbPath = cfg.Data.Bolt.Path
	}
	bucket := opts.bucket
	if bucket == "" {
		bucket = cfg.Data.Bolt.Bucket
	}
	if dbPath == "" {
		return errors.New("E400").
			WithDetail("No database path given.").
			WithSuggestion("Pass --db or set data.bolt.path in the config file")
	}

	var (
		items  []store.Item
		origin string
	)
	switch {
	case len(args) == 1:
		origin = args[0]
		items, err = store.LoadFile(origin)
		if err != nil {
			return dataError(err).WithDetail("Could not load " + origin + ".")
		}
	case opts.s3.Bucket != "" && opts.s3.Key != "":
		origin = "s3://" + opts.s3.Bucket + "/" + opts.s3.Key
		items, err = loadS3(ctx, opts.s3)
		if err != nil {
			return err
		}
	default:
		return errors.New("E400").
			WithDetail("Nothing to import.").
			WithSuggestion("Pass a file, or both --s3-bucket and --s3-key")
	}

	db, err := store.OpenBolt(dbPath, store.BoltOptions{
		Bucket:  bucket,
		IDField: cfg.Grid.IDField,
	})
	if err != nil {
		return errors.New("E212").Wrap(err).WithDetail("Could not open " + dbPath + ".")
	}
	defer db.Close()

	if err := db.Put(ctx, items...); err != nil {
		return errors.FromError(err, "E201")
	}
	n, err := db.Len()
	if err != nil {
		return errors.FromError(err, "E200")
	}

	success(cmd.OutOrStdout(), "Imported %d rows from %s into %s (%d total)", len(items), origin, dbPath, n)
	return nil
}
