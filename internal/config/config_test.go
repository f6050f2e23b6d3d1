package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/vango-dev/dgrid/internal/errors"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestNew(t *testing.T) {
	cfg := New()

	if cfg.Server.Port != DefaultPort {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, DefaultPort)
	}
	if cfg.Server.Host != DefaultHost {
		t.Errorf("Server.Host = %q, want %q", cfg.Server.Host, DefaultHost)
	}
	if cfg.Data.Source != SourceMemory {
		t.Errorf("Data.Source = %q, want %q", cfg.Data.Source, SourceMemory)
	}
	if cfg.Grid.ItemsPerPage != 0 {
		t.Errorf("Grid.ItemsPerPage = %d, want 0 (pagination off)", cfg.Grid.ItemsPerPage)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()

	_, err := Load(tmpDir)
	if err == nil {
		t.Fatal("Expected error for missing config")
	}
	if errors.Code(err) != "E100" {
		t.Errorf("Expected E100, got %v", err)
	}

	writeFile(t, tmpDir, ConfigFileName, `{
  "name": "people",
  "server": {"port": 9090},
  "grid": {
    "itemsPerPage": 5,
    "columns": [
      {"id": "id", "sortable": true},
      {"id": "name", "label": "Name", "editable": true}
    ]
  },
  "data": {"path": "people.csv"},
  "log": {"format": "json"}
}
`)

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.Name != "people" {
		t.Errorf("Name = %q, want people", cfg.Name)
	}
	if cfg.Server.Port != 9090 || cfg.Server.Host != DefaultHost {
		t.Errorf("Server = %+v", cfg.Server)
	}
	if cfg.Grid.ItemsPerPage != 5 {
		t.Errorf("Grid.ItemsPerPage = %d, want 5", cfg.Grid.ItemsPerPage)
	}
	wantCols := []ColumnConfig{
		{ID: "id", Label: "id", Sortable: true},
		{ID: "name", Label: "Name", Editable: true},
	}
	if diff := cmp.Diff(wantCols, cfg.Grid.Columns); diff != "" {
		t.Errorf("Columns mismatch (-want +got):\n%s", diff)
	}
	if cfg.Data.Source != SourceFile {
		t.Errorf("Data.Source = %q, want inferred %q", cfg.Data.Source, SourceFile)
	}
	if want := filepath.Join(tmpDir, "people.csv"); cfg.Data.Path != want {
		t.Errorf("Data.Path = %q, want %q", cfg.Data.Path, want)
	}
	if cfg.Path() != filepath.Join(tmpDir, ConfigFileName) || cfg.Dir() != tmpDir {
		t.Errorf("Path() = %q, Dir() = %q", cfg.Path(), cfg.Dir())
	}
}

func TestLoadFile_Formats(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name: "json",
			file: "dgrid.json",
			content: `{"server": {"port": 7000}, "grid": {"itemsPerPage": 3, "columns": [{"id": "age", "sortable": true}]},
"data": {"items": [{"id": 1, "age": 30}]}}`,
		},
		{
			name: "toml",
			file: "dgrid.toml",
			content: `[server]
port = 7000

[grid]
itemsPerPage = 3

[[grid.columns]]
id = "age"
sortable = true

[data]
items = [{id = 1, age = 30}]
`,
		},
		{
			name: "yaml",
			file: "dgrid.yml",
			content: `server:
  port: 7000
grid:
  itemsPerPage: 3
  columns:
    - id: age
      sortable: true
data:
  items:
    - id: 1
      age: 30
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), tt.file, tt.content)
			cfg, err := LoadFile(path)
			if err != nil {
				t.Fatalf("LoadFile error: %v", err)
			}
			if cfg.Server.Port != 7000 {
				t.Errorf("Server.Port = %d, want 7000", cfg.Server.Port)
			}
			if cfg.Grid.ItemsPerPage != 3 {
				t.Errorf("Grid.ItemsPerPage = %d, want 3", cfg.Grid.ItemsPerPage)
			}
			if len(cfg.Grid.Columns) != 1 || !cfg.Grid.Columns[0].Sortable {
				t.Errorf("Columns = %+v", cfg.Grid.Columns)
			}
			if cfg.Data.Source != SourceMemory || len(cfg.Data.Items) != 1 {
				t.Errorf("Data = %+v", cfg.Data)
			}
		})
	}
}

func TestLoadFile_ParseErrorLocation(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		content  string
		wantLine int
	}{
		{"json syntax", "dgrid.json", "{\n  \"server\": {\n    \"port\": ,\n  }\n}\n", 3},
		{"json type", "dgrid.json", "{\n  \"server\": {\n    \"port\": \"eighty\"\n  }\n}\n", 3},
		{"toml", "dgrid.toml", "name = \"x\"\n\n[server]\nport = eighty\n", 4},
		{"yaml", "dgrid.yaml", "name: x\nserver:\n  port: eighty\n", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), tt.file, tt.content)
			_, err := LoadFile(path)
			if err == nil {
				t.Fatal("expected parse error")
			}
			if errors.Code(err) != "E101" {
				t.Fatalf("expected E101, got %v", err)
			}
			ge := err.(*errors.GridError)
			if ge.Location == nil {
				t.Fatal("Location should be set")
			}
			if ge.Location.Line != tt.wantLine {
				t.Errorf("Location.Line = %d, want %d", ge.Location.Line, tt.wantLine)
			}
			if len(ge.Context) == 0 {
				t.Error("Context should contain the surrounding lines")
			}
		})
	}
}

func TestLoadFile_UnsupportedFormat(t *testing.T) {
	path := writeFile(t, t.TempDir(), "dgrid.ini", "port=1")
	_, err := LoadFile(path)
	if errors.Code(err) != "E103" {
		t.Errorf("expected E103, got %v", err)
	}
}

func TestLoadFile_UnknownJSONField(t *testing.T) {
	path := writeFile(t, t.TempDir(), ConfigFileName, `{"sever": {"port": 1}}`)
	_, err := LoadFile(path)
	if err == nil || !strings.Contains(err.Error(), "sever") {
		t.Errorf("expected unknown field error, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		detail string
	}{
		{"valid", func(*Config) {}, ""},
		{"negative port", func(c *Config) { c.Server.Port = -1 }, "server.port"},
		{"port too large", func(c *Config) { c.Server.Port = 70000 }, "server.port"},
		{"negative page size", func(c *Config) { c.Grid.ItemsPerPage = -5 }, "itemsPerPage"},
		{"column without id", func(c *Config) { c.Grid.Columns = []ColumnConfig{{Label: "x"}} }, "columns[0]"},
		{"duplicate column", func(c *Config) {
			c.Grid.Columns = []ColumnConfig{{ID: "a"}, {ID: "a"}}
		}, "duplicate"},
		{"file without path", func(c *Config) { c.Data.Source = SourceFile }, "data.path"},
		{"bolt without path", func(c *Config) { c.Data.Source = SourceBolt }, "data.bolt.path"},
		{"s3 without key", func(c *Config) {
			c.Data.Source = SourceS3
			c.Data.S3.Bucket = "b"
		}, "data.s3"},
		{"unknown source", func(c *Config) { c.Data.Source = "ftp" }, "ftp"},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.detail == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatal("Validate() = nil, want error")
			}
			ge := err.(*errors.GridError)
			if ge.Code != "E102" {
				t.Errorf("Code = %q, want E102", ge.Code)
			}
			if !strings.Contains(ge.Detail, tt.detail) {
				t.Errorf("Detail = %q, want it to mention %q", ge.Detail, tt.detail)
			}
		})
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{Data: DataConfig{Bolt: BoltConfig{Path: "/var/lib/dgrid.db"}}}
	cfg.applyDefaults()

	want := &Config{
		Name:   "dgrid",
		Server: ServerConfig{Host: DefaultHost, Port: DefaultPort, ShutdownTimeout: "10s"},
		Grid:   GridConfig{IDField: "id"},
		Data: DataConfig{
			Source: SourceBolt,
			Bolt:   BoltConfig{Path: "/var/lib/dgrid.db", Bucket: "items"},
		},
		Log:     LogConfig{Level: "info", Format: "text"},
		Metrics: MetricsConfig{Namespace: DefaultNamespace},
		Tracing: TracingConfig{TracerName: "github.com/vango-dev/dgrid"},
	}
	if diff := cmp.Diff(want, cfg, cmpopts.IgnoreUnexported(Config{})); diff != "" {
		t.Errorf("applyDefaults mismatch (-want +got):\n%s", diff)
	}
}

func TestSaveTo_RoundTrip(t *testing.T) {
	for _, name := range []string{"out.json", "out.toml", "out.yaml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)

			cfg := New()
			cfg.Server.Port = 9000
			cfg.Grid.ItemsPerPage = 25
			cfg.Grid.Columns = []ColumnConfig{{ID: "name", Label: "Name", Sortable: true}}

			if err := cfg.SaveTo(path); err != nil {
				t.Fatalf("SaveTo error: %v", err)
			}
			if cfg.Path() != path {
				t.Errorf("Path() = %q, want %q", cfg.Path(), path)
			}

			loaded, err := LoadFile(path)
			if err != nil {
				t.Fatalf("LoadFile error: %v", err)
			}
			if loaded.Server.Port != 9000 || loaded.Grid.ItemsPerPage != 25 {
				t.Errorf("loaded = %+v", loaded)
			}
			if diff := cmp.Diff(cfg.Grid.Columns, loaded.Grid.Columns); diff != "" {
				t.Errorf("Columns mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDiscover(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}

	path, err := Discover(nested)
	if err != nil {
		t.Fatal(err)
	}
	if path != "" && strings.HasPrefix(path, root) {
		t.Errorf("Discover() = %q, want nothing under %q", path, root)
	}

	want := writeFile(t, root, "dgrid.toml", "name = \"x\"\n")
	path, err = Discover(nested)
	if err != nil {
		t.Fatal(err)
	}
	if path != want {
		t.Errorf("Discover() = %q, want %q", path, want)
	}
}

func TestAddress(t *testing.T) {
	cfg := New()
	cfg.Server.Host = "0.0.0.0"
	cfg.Server.Port = 3000
	if got := cfg.Address(); got != "0.0.0.0:3000" {
		t.Errorf("Address() = %q", got)
	}
	if got := cfg.URL(); got != "http://0.0.0.0:3000" {
		t.Errorf("URL() = %q", got)
	}
}

func TestOffsetPosition(t *testing.T) {
	data := []byte("ab\ncde\nf")
	tests := []struct {
		offset    int64
		line, col int
	}{
		{0, 1, 1},
		{2, 1, 2},
		{5, 2, 2},
		{100, 3, 1},
	}
	for _, tt := range tests {
		line, col := offsetPosition(data, tt.offset)
		if line != tt.line || col != tt.col {
			t.Errorf("offsetPosition(%d) = %d:%d, want %d:%d", tt.offset, line, col, tt.line, tt.col)
		}
	}
}
