package errors

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vango-dev/dgrid/pkg/store"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantMsg string
		wantCat Category
	}{
		{
			name:    "config error",
			code:    "E101",
			wantMsg: "Configuration file could not be parsed",
			wantCat: CategoryConfig,
		},
		{
			name:    "store error",
			code:    "E203",
			wantMsg: "Invalid page range",
			wantCat: CategoryStore,
		},
		{
			name:    "protocol error",
			code:    "E300",
			wantMsg: "WebSocket connection failed",
			wantCat: CategoryProtocol,
		},
		{
			name:    "unknown error code",
			code:    "E999",
			wantMsg: "Unknown error",
			wantCat: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code)
			if err.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", err.Message, tt.wantMsg)
			}
			if err.Category != tt.wantCat {
				t.Errorf("Category = %q, want %q", err.Category, tt.wantCat)
			}
			if err.Code != tt.code {
				t.Errorf("Code = %q, want %q", err.Code, tt.code)
			}
		})
	}
}

func TestNewf(t *testing.T) {
	err := Newf(CategoryCLI, "unknown flag %q", "--pgae")
	if err.Message != `unknown flag "--pgae"` {
		t.Errorf("Message = %q", err.Message)
	}
	if err.Category != CategoryCLI {
		t.Errorf("Category = %q, want %q", err.Category, CategoryCLI)
	}
}

func TestGridError_Error(t *testing.T) {
	if got, want := New("E202").Error(), "E202: Row not found"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	wrapped := New("E201").Wrap(fmt.Errorf("disk full"))
	if got, want := wrapped.Error(), "E201: Store update failed: disk full"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	plain := &GridError{Message: "test error"}
	if plain.Error() != "test error" {
		t.Errorf("Error() = %q, want %q", plain.Error(), "test error")
	}
}

func TestGridError_WithLocation(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "dgrid.toml")
	content := `name = "people"

[server]
host = "localhost"
port = eighty

[grid]
itemsPerPage = 5
`
	if err := os.WriteFile(tmpFile, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	err := New("E101").WithLocation(tmpFile, 5, 8)

	if err.Location == nil {
		t.Fatal("Location is nil")
	}
	if err.Location.File != tmpFile || err.Location.Line != 5 || err.Location.Column != 8 {
		t.Errorf("Location = %+v", err.Location)
	}
	want := []string{"[server]", `host = "localhost"`, "port = eighty", "", "[grid]"}
	if len(err.Context) != len(want) {
		t.Fatalf("Context = %q, want %q", err.Context, want)
	}
	for i := range want {
		if err.Context[i] != want[i] {
			t.Errorf("Context[%d] = %q, want %q", i, err.Context[i], want[i])
		}
	}
}

func TestGridError_Builders(t *testing.T) {
	err := New("E102").
		WithDetail("grid.itemsPerPage must be positive").
		WithSuggestion("Set itemsPerPage to 10")
	if err.Detail != "grid.itemsPerPage must be positive" {
		t.Errorf("Detail = %q", err.Detail)
	}
	if err.Suggestion != "Set itemsPerPage to 10" {
		t.Errorf("Suggestion = %q", err.Suggestion)
	}
}

func TestGridError_Wrap(t *testing.T) {
	inner := New("E210")
	outer := New("E212").Wrap(inner)

	if outer.Unwrap() != inner {
		t.Error("Unwrap() should return wrapped error")
	}
	if Code(outer) != "E212" {
		t.Errorf("Code() = %q, want E212", Code(outer))
	}
	if Code(fmt.Errorf("context: %w", outer)) != "E212" {
		t.Error("Code() should find GridError through fmt wrapping")
	}
	if Code(stderrors.New("plain")) != "" {
		t.Error("Code() of a plain error should be empty")
	}
}

func TestFromError(t *testing.T) {
	if FromError(nil, "E200") != nil {
		t.Error("FromError(nil, ...) should return nil")
	}

	ge := New("E201")
	if FromError(fmt.Errorf("wrapped: %w", ge), "E200") != ge {
		t.Error("FromError should return the GridError in the chain")
	}

	stdErr := stderrors.New("boom")
	if result := FromError(stdErr, "E200"); result.Wrapped != stdErr {
		t.Error("Standard error should be wrapped")
	}
}

func TestFromStoreError(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{fmt.Errorf("range(-10,5): %w", store.ErrInvalidRange), "E203"},
		{fmt.Errorf("row 7: %w", store.ErrNotFound), "E202"},
		{fmt.Errorf("xml: %w", store.ErrUnsupportedFormat), "E211"},
		{stderrors.New("connection reset"), "E200"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got := FromStoreError(tt.err)
			if got.Code != tt.want {
				t.Errorf("Code = %q, want %q", got.Code, tt.want)
			}
			if !stderrors.Is(got, tt.err) {
				t.Error("original error should stay in the chain")
			}
		})
	}
	if FromStoreError(nil) != nil {
		t.Error("FromStoreError(nil) should return nil")
	}
}

func TestLocation_String(t *testing.T) {
	tests := []struct {
		name string
		loc  *Location
		want string
	}{
		{"nil location", nil, ""},
		{"with column", &Location{File: "dgrid.json", Line: 10, Column: 5}, "dgrid.json:10:5"},
		{"without column", &Location{File: "dgrid.json", Line: 10}, "dgrid.json:10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.loc.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormat(t *testing.T) {
	DisableColors()
	defer EnableColors()

	tmpFile := filepath.Join(t.TempDir(), "dgrid.yaml")
	content := "name: people\nserver:\n  port: eighty\ngrid:\n  itemsPerPage: 5\n"
	if err := os.WriteFile(tmpFile, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	err := New("E101").
		WithLocation(tmpFile, 3, 9).
		WithSuggestion("Use a number for server.port").
		Wrap(stderrors.New("cannot unmarshal !!str"))

	formatted := err.Format()

	for _, want := range []string{
		"ERROR E101: Configuration file could not be parsed",
		tmpFile + ":3:9",
		"→    3 │   port: eighty",
		"        ^",
		"Cause: cannot unmarshal !!str",
		"Hint: Use a number for server.port",
	} {
		if !strings.Contains(formatted, want) {
			t.Errorf("Format() missing %q in:\n%s", want, formatted)
		}
	}
	if strings.Contains(formatted, "\033[") {
		t.Error("Format() should not contain ANSI codes when colors are disabled")
	}
}

func TestFormatCompact(t *testing.T) {
	err := New("E101").WithLocation("dgrid.json", 10, 5)
	want := "dgrid.json:10:5: E101: Configuration file could not be parsed"
	if got := err.FormatCompact(); got != want {
		t.Errorf("FormatCompact() = %q, want %q", got, want)
	}
}

func TestFormatJSON(t *testing.T) {
	err := New("E301").Wrap(stderrors.New(`hid "h9"`))
	json := err.FormatJSON()

	for _, want := range []string{
		`"code":"E301"`,
		`"category":"protocol"`,
		`"message":"Unknown event target"`,
		`"suggestion":"Reload the page"`,
		`"cause":"hid \"h9\""`,
	} {
		if !strings.Contains(json, want) {
			t.Errorf("FormatJSON() missing %s in %s", want, json)
		}
	}
	if strings.Contains(json, `"location"`) {
		t.Error("FormatJSON() should omit an empty location")
	}
}

func TestFprint(t *testing.T) {
	DisableColors()
	defer EnableColors()

	var b strings.Builder
	Fprint(&b, fmt.Errorf("loading: %w", New("E100")))
	if !strings.Contains(b.String(), "ERROR E100: Configuration file not found") {
		t.Errorf("Fprint() = %q", b.String())
	}

	b.Reset()
	Fprint(&b, stderrors.New("plain failure"))
	if got := b.String(); got != "\nERROR: plain failure\n\n" {
		t.Errorf("Fprint() = %q", got)
	}
}

func TestGetAllCodes(t *testing.T) {
	codes := GetAllCodes()
	if len(codes) == 0 {
		t.Fatal("GetAllCodes() should return codes")
	}
	for i := 1; i < len(codes); i++ {
		if codes[i-1] >= codes[i] {
			t.Errorf("codes not sorted: %q before %q", codes[i-1], codes[i])
		}
	}
	for _, code := range codes {
		tmpl, _ := GetTemplate(code)
		if tmpl.Message == "" || tmpl.Category == "" {
			t.Errorf("%s: template must have a message and category", code)
		}
	}
}

func TestRegister(t *testing.T) {
	Register("E999", ErrorTemplate{
		Category: CategoryStore,
		Message:  "Custom test error",
	})
	defer delete(registry, "E999")

	if err := New("E999"); err.Message != "Custom test error" {
		t.Errorf("Message = %q, want %q", err.Message, "Custom test error")
	}
}

func TestWrapText(t *testing.T) {
	if got := wrapText("short text", 100); len(got) != 1 || got[0] != "short text" {
		t.Errorf("wrapText short text: got %v", got)
	}
	if got := wrapText("this is a longer text that should be wrapped", 20); len(got) != 3 {
		t.Errorf("wrapText long text: expected 3 lines, got %d: %v", len(got), got)
	}
	if got := wrapText("", 10); len(got) != 0 {
		t.Errorf("wrapText empty: expected empty, got %v", got)
	}
}

func TestColorFunctions(t *testing.T) {
	EnableColors()
	if !strings.Contains(red("test"), "\033[31m") {
		t.Error("red should contain ANSI code when colors enabled")
	}

	DisableColors()
	if strings.Contains(red("test"), "\033[") {
		t.Error("red should not contain ANSI code when colors disabled")
	}
	EnableColors()
}

func TestAutoDetectColors(t *testing.T) {
	defer EnableColors()

	f, err := os.Create(filepath.Join(t.TempDir(), "out.log"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	EnableColors()
	AutoDetectColors(f)
	if colorEnabled {
		t.Error("colors should be disabled for a regular file")
	}

	EnableColors()
	AutoDetectColors(nil)
	if colorEnabled {
		t.Error("colors should be disabled for a nil file")
	}
}
