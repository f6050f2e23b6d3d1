package main

import (
	"context"
	stderrors "errors"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/vango-dev/dgrid/internal/config"
	"github.com/vango-dev/dgrid/internal/errors"
	"github.com/vango-dev/dgrid/pkg/grid"
	"github.com/vango-dev/dgrid/pkg/store"
)

// loadConfig reads the file named by --config, or discovers one from the
// working directory.
func loadConfig(flags *globalFlags) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if flags.configPath != "" {
		cfg, err = config.LoadFile(flags.configPath)
	} else {
		cfg, err = config.LoadFromWorkingDir()
	}
	if err != nil {
		return nil, err
	}
	if flags.logLevel != "" {
		cfg.Log.Level = flags.logLevel
	}
	return cfg, nil
}

// newLogger builds the slog logger described by cfg.
func newLogger(cfg config.LogConfig, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}
	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// openSource opens the data source named by cfg. The returned function
// releases it.
func openSource(ctx context.Context, cfg *config.Config) (store.Source, func() error, error) {
	noop := func() error { return nil }
	idOpt := store.WithIDField(cfg.Grid.IDField)

	switch cfg.Data.Source {
	case config.SourceFile:
		items, err := store.LoadFile(cfg.Data.Path)
		if err != nil {
			return nil, nil, dataError(err).WithDetail("Could not load " + cfg.Data.Path + ".")
		}
		return store.NewMemory(items, idOpt), noop, nil

	case config.SourceBolt:
		db, err := store.OpenBolt(cfg.Data.Bolt.Path, store.BoltOptions{
			Bucket:  cfg.Data.Bolt.Bucket,
			IDField: cfg.Grid.IDField,
		})
		if err != nil {
			return nil, nil, errors.New("E212").Wrap(err).WithDetail("Could not open " + cfg.Data.Bolt.Path + ".")
		}
		return db, db.Close, nil

	case config.SourceS3:
		items, err := loadS3(ctx, cfg.Data.S3)
		if err != nil {
			return nil, nil, err
		}
		return store.NewMemory(items, idOpt), noop, nil
	}

	items := make([]store.Item, len(cfg.Data.Items))
	for i, it := range cfg.Data.Items {
		items[i] = store.Item(it)
	}
	return store.NewMemory(items, idOpt), noop, nil
}

func loadS3(ctx context.Context, cfg config.S3Config) ([]store.Item, error) {
	client := store.NewS3Client(store.S3ClientOptions{
		Region:    cfg.Region,
		Endpoint:  cfg.Endpoint,
		PathStyle: cfg.PathStyle,
	})
	items, err := store.LoadS3(ctx, client, cfg.Bucket, cfg.Key)
	if err != nil {
		return nil, dataError(err).WithDetail("Could not load s3://" + cfg.Bucket + "/" + cfg.Key + ".")
	}
	return items, nil
}

// dataError classifies a load failure.
func dataError(err error) *errors.GridError {
	if stderrors.Is(err, store.ErrUnsupportedFormat) {
		return errors.FromError(err, "E211")
	}
	return errors.FromError(err, "E210")
}

// columns converts the configured columns. Without configuration every
// field of sample becomes a sortable column, id field first and the rest
// in name order.
func columns(cfg *config.Config, sample store.Item) []grid.Column {
	if len(cfg.Grid.Columns) > 0 {
		cols := make([]grid.Column, len(cfg.Grid.Columns))
		for i, c := range cfg.Grid.Columns {
			cols[i] = grid.Column{
				ID:       c.ID,
				Label:    c.Label,
				Field:    c.Field,
				Sortable: c.Sortable,
				Editable: c.Editable,
				Color:    c.Color,
			}
		}
		return cols
	}

	idField := cfg.Grid.IDField
	keys := make([]string, 0, len(sample))
	for k := range sample {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b string) int {
		switch {
		case a == idField:
			return -1
		case b == idField:
			return 1
		}
		return strings.Compare(a, b)
	})

	cols := make([]grid.Column, len(keys))
	for i, k := range keys {
		cols[i] = grid.Column{ID: k, Label: k, Sortable: true}
	}
	return cols
}

// gridProperties derives the grid properties for st from cfg. Columns are
// inferred from the first item when none are configured.
func gridProperties(ctx context.Context, cfg *config.Config, st store.Store) (grid.Properties, error) {
	props := grid.Properties{
		Store:   st,
		IDField: cfg.Grid.IDField,
	}
	if cfg.Grid.ItemsPerPage > 0 {
		props.Pagination = &grid.PaginationConfig{ItemsPerPage: cfg.Grid.ItemsPerPage}
	}

	var sample store.Item
	if len(cfg.Grid.Columns) == 0 {
		res, err := st.Range(0, 1).Fetch(ctx)
		if err != nil {
			return props, errors.FromStoreError(err)
		}
		if len(res.Items) > 0 {
			sample = res.Items[0]
		}
	}
	props.Columns = columns(cfg, sample)
	return props, nil
}
