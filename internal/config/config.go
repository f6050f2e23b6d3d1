package config

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/vango-dev/dgrid/internal/errors"
)

const (
	// ConfigFileName is the default configuration file name.
	ConfigFileName = "dgrid.json"

	// DefaultPort is the default HTTP port.
	DefaultPort = 8080

	// DefaultHost is the default HTTP host.
	DefaultHost = "localhost"

	// DefaultItemsPerPage is the page size used when pagination is enabled
	// without an explicit size.
	DefaultItemsPerPage = 10

	// DefaultNamespace is the Prometheus namespace.
	DefaultNamespace = "dgrid"
)

// Data source kinds.
const (
	SourceMemory = "memory"
	SourceFile   = "file"
	SourceBolt   = "bolt"
	SourceS3     = "s3"
)

// candidateNames are the file names Discover looks for, in order.
var candidateNames = []string{"dgrid.json", "dgrid.toml", "dgrid.yaml", "dgrid.yml"}

// Config is the complete dgrid configuration.
type Config struct {
	// Name is shown as the page title.
	Name string `json:"name,omitempty" toml:"name,omitempty" yaml:"name,omitempty"`

	Server  ServerConfig  `json:"server" toml:"server" yaml:"server"`
	Grid    GridConfig    `json:"grid" toml:"grid" yaml:"grid"`
	Data    DataConfig    `json:"data" toml:"data" yaml:"data"`
	Log     LogConfig     `json:"log" toml:"log" yaml:"log"`
	Metrics MetricsConfig `json:"metrics" toml:"metrics" yaml:"metrics"`
	Tracing TracingConfig `json:"tracing" toml:"tracing" yaml:"tracing"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host string `json:"host,omitempty" toml:"host,omitempty" yaml:"host,omitempty"`
	Port int    `json:"port,omitempty" toml:"port,omitempty" yaml:"port,omitempty"`

	// ShutdownTimeout bounds graceful shutdown (e.g., "10s").
	ShutdownTimeout string `json:"shutdownTimeout,omitempty" toml:"shutdownTimeout,omitempty" yaml:"shutdownTimeout,omitempty"`

	// Watch reloads file data sources when the file changes.
	Watch bool `json:"watch,omitempty" toml:"watch,omitempty" yaml:"watch,omitempty"`
}

// GridConfig describes the columns and paging of the grid.
type GridConfig struct {
	// ItemsPerPage enables pagination when positive. Zero disables it.
	ItemsPerPage int `json:"itemsPerPage,omitempty" toml:"itemsPerPage,omitempty" yaml:"itemsPerPage,omitempty"`

	// IDField names the item field holding the row id.
	IDField string `json:"idField,omitempty" toml:"idField,omitempty" yaml:"idField,omitempty"`

	Columns []ColumnConfig `json:"columns,omitempty" toml:"columns,omitempty" yaml:"columns,omitempty"`
}

// ColumnConfig is one grid column.
type ColumnConfig struct {
	ID       string `json:"id" toml:"id" yaml:"id"`
	Label    string `json:"label,omitempty" toml:"label,omitempty" yaml:"label,omitempty"`
	Field    string `json:"field,omitempty" toml:"field,omitempty" yaml:"field,omitempty"`
	Sortable bool   `json:"sortable,omitempty" toml:"sortable,omitempty" yaml:"sortable,omitempty"`
	Editable bool   `json:"editable,omitempty" toml:"editable,omitempty" yaml:"editable,omitempty"`
	Color    string `json:"color,omitempty" toml:"color,omitempty" yaml:"color,omitempty"`
}

// DataConfig selects where the grid items come from.
type DataConfig struct {
	// Source is one of memory, file, bolt or s3.
	Source string `json:"source,omitempty" toml:"source,omitempty" yaml:"source,omitempty"`

	// Path is the JSON or CSV file for the file source.
	Path string `json:"path,omitempty" toml:"path,omitempty" yaml:"path,omitempty"`

	// Items are inline rows for the memory source.
	Items []map[string]any `json:"items,omitempty" toml:"items,omitempty" yaml:"items,omitempty"`

	Bolt BoltConfig `json:"bolt" toml:"bolt" yaml:"bolt"`
	S3   S3Config   `json:"s3" toml:"s3" yaml:"s3"`
}

// BoltConfig locates a bolt database.
type BoltConfig struct {
	Path   string `json:"path,omitempty" toml:"path,omitempty" yaml:"path,omitempty"`
	Bucket string `json:"bucket,omitempty" toml:"bucket,omitempty" yaml:"bucket,omitempty"`
}

// S3Config locates a JSON or CSV object in S3.
type S3Config struct {
	Bucket    string `json:"bucket,omitempty" toml:"bucket,omitempty" yaml:"bucket,omitempty"`
	Key       string `json:"key,omitempty" toml:"key,omitempty" yaml:"key,omitempty"`
	Region    string `json:"region,omitempty" toml:"region,omitempty" yaml:"region,omitempty"`
	Endpoint  string `json:"endpoint,omitempty" toml:"endpoint,omitempty" yaml:"endpoint,omitempty"`
	PathStyle bool   `json:"pathStyle,omitempty" toml:"pathStyle,omitempty" yaml:"pathStyle,omitempty"`
}

// LogConfig controls the slog handler.
type LogConfig struct {
	// Level is debug, info, warn or error.
	Level string `json:"level,omitempty" toml:"level,omitempty" yaml:"level,omitempty"`

	// Format is text or json.
	Format string `json:"format,omitempty" toml:"format,omitempty" yaml:"format,omitempty"`
}

// MetricsConfig controls Prometheus collection.
type MetricsConfig struct {
	Enabled   bool   `json:"enabled,omitempty" toml:"enabled,omitempty" yaml:"enabled,omitempty"`
	Namespace string `json:"namespace,omitempty" toml:"namespace,omitempty" yaml:"namespace,omitempty"`
}

// TracingConfig controls OpenTelemetry spans.
type TracingConfig struct {
	Enabled    bool   `json:"enabled,omitempty" toml:"enabled,omitempty" yaml:"enabled,omitempty"`
	TracerName string `json:"tracerName,omitempty" toml:"tracerName,omitempty" yaml:"tracerName,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Name: "dgrid",
		Server: ServerConfig{
			Host:            DefaultHost,
			Port:            DefaultPort,
			ShutdownTimeout: "10s",
		},
		Grid: GridConfig{
			IDField: "id",
		},
		Data: DataConfig{
			Source: SourceMemory,
			Bolt:   BoltConfig{Bucket: "items"},
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Namespace: DefaultNamespace,
		},
		Tracing: TracingConfig{
			TracerName: "github.com/vango-dev/dgrid",
		},
	}
}

// Load reads dgrid.json from the specified directory.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads configuration from the specified file path. The format is
// chosen from the extension.
func LoadFile(path string) (*Config, error) {
	format, err := formatOf(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E100").
				WithDetail("No " + filepath.Base(path) + " found in " + filepath.Dir(path))
		}
		return nil, errors.New("E101").Wrap(err)
	}

	cfg := New()
	if err := decode(format, data, cfg); err != nil {
		ge := errors.New("E101").Wrap(err)
		if line, col, ok := errorPosition(format, data, err); ok {
			ge.WithLocation(path, line, col)
		}
		return nil, ge
	}

	cfg.configPath = path
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Discover walks up from startDir looking for a configuration file. It
// returns "" when none exists.
func Discover(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		for _, name := range candidateNames {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// LoadFromWorkingDir loads the configuration discovered from the working
// directory, or the defaults when there is none.
func LoadFromWorkingDir() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	path, err := Discover(wd)
	if err != nil {
		return nil, err
	}
	if path == "" {
		cfg := New()
		cfg.applyDefaults()
		return cfg, nil
	}
	return LoadFile(path)
}

// SaveTo writes the configuration to path in the format its extension names.
func (c *Config) SaveTo(path string) error {
	format, err := formatOf(path)
	if err != nil {
		return err
	}

	var data []byte
	switch format {
	case "toml":
		data, err = toml.Marshal(c)
	case "yaml":
		data, err = yaml.Marshal(c)
	default:
		data, err = json.MarshalIndent(c, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return errors.New("E101").Wrap(err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("E101").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Name == "" {
		c.Name = "dgrid"
	}

	if c.Server.Host == "" {
		c.Server.Host = DefaultHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Server.ShutdownTimeout == "" {
		c.Server.ShutdownTimeout = "10s"
	}

	if c.Grid.IDField == "" {
		c.Grid.IDField = "id"
	}
	for i := range c.Grid.Columns {
		col := &c.Grid.Columns[i]
		if col.Label == "" {
			col.Label = col.ID
		}
	}

	if c.Data.Source == "" {
		switch {
		case c.Data.Path != "":
			c.Data.Source = SourceFile
		case c.Data.Bolt.Path != "":
			c.Data.Source = SourceBolt
		case c.Data.S3.Bucket != "":
			c.Data.Source = SourceS3
		default:
			c.Data.Source = SourceMemory
		}
	}
	if c.Data.Bolt.Bucket == "" {
		c.Data.Bolt.Bucket = "items"
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultNamespace
	}
	if c.Tracing.TracerName == "" {
		c.Tracing.TracerName = "github.com/vango-dev/dgrid"
	}

	// Relative data paths are resolved against the config file.
	if dir := c.Dir(); dir != "" {
		c.Data.Path = c.resolve(c.Data.Path)
		c.Data.Bolt.Path = c.resolve(c.Data.Bolt.Path)
	}
}

func (c *Config) resolve(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.Dir(), path)
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return errors.New("E102").
			WithDetail("server.port must be between 0 and 65535")
	}
	if c.Grid.ItemsPerPage < 0 {
		return errors.New("E102").
			WithDetail("grid.itemsPerPage must not be negative").
			WithSuggestion("Use 0 to disable pagination")
	}

	seen := make(map[string]bool, len(c.Grid.Columns))
	for i, col := range c.Grid.Columns {
		if col.ID == "" {
			return errors.New("E102").
				WithDetail("grid.columns[" + strconv.Itoa(i) + "] has no id")
		}
		if seen[col.ID] {
			return errors.New("E102").
				WithDetail("duplicate column id " + strconv.Quote(col.ID))
		}
		seen[col.ID] = true
	}

	switch c.Data.Source {
	case SourceMemory:
	case SourceFile:
		if c.Data.Path == "" {
			return errors.New("E102").
				WithDetail("data.path is required for the file source")
		}
	case SourceBolt:
		if c.Data.Bolt.Path == "" {
			return errors.New("E102").
				WithDetail("data.bolt.path is required for the bolt source")
		}
	case SourceS3:
		if c.Data.S3.Bucket == "" || c.Data.S3.Key == "" {
			return errors.New("E102").
				WithDetail("data.s3.bucket and data.s3.key are required for the s3 source")
		}
	default:
		return errors.New("E102").
			WithDetail("unknown data.source " + strconv.Quote(c.Data.Source)).
			WithSuggestion("Use one of memory, file, bolt or s3")
	}

	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return errors.New("E102").
			WithDetail("log.format must be text or json")
	}
	return nil
}

// Address returns the host:port the server listens on.
func (c *Config) Address() string {
	return c.Server.Host + ":" + strconv.Itoa(c.Server.Port)
}

// URL returns the base URL of the server.
func (c *Config) URL() string {
	return "http://" + c.Address()
}

func formatOf(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return "json", nil
	case ".toml":
		return "toml", nil
	case ".yaml", ".yml":
		return "yaml", nil
	}
	return "", errors.New("E103").
		WithDetail(filepath.Base(path) + " does not end in .json, .toml, .yaml or .yml")
}

func decode(format string, data []byte, cfg *Config) error {
	switch format {
	case "toml":
		return toml.Unmarshal(data, cfg)
	case "yaml":
		return yaml.Unmarshal(data, cfg)
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		return dec.Decode(cfg)
	}
}
