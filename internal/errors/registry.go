package errors

import "sort"

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category   Category
	Message    string
	Detail     string
	Suggestion string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Configuration Errors (E100-E199)
	// ============================================

	"E100": {
		Category:   CategoryConfig,
		Message:    "Configuration file not found",
		Detail:     "dgrid looks for dgrid.json in the working directory unless --config names another file.",
		Suggestion: "Create dgrid.json or pass --config path/to/dgrid.yaml",
	},
	"E101": {
		Category: CategoryConfig,
		Message:  "Configuration file could not be parsed",
		Detail:   "The file is not valid for its format. The format is chosen from the extension: .json, .toml, .yaml or .yml.",
	},
	"E102": {
		Category: CategoryConfig,
		Message:  "Invalid configuration",
		Detail:   "A configuration value is out of range or missing.",
	},
	"E103": {
		Category:   CategoryConfig,
		Message:    "Unsupported configuration format",
		Detail:     "Configuration files must end in .json, .toml, .yaml or .yml.",
		Suggestion: "Rename the file with a supported extension",
	},

	// ============================================
	// Store Errors (E200-E209)
	// ============================================

	"E200": {
		Category: CategoryStore,
		Message:  "Store fetch failed",
		Detail:   "The store could not evaluate the current query.",
	},
	"E201": {
		Category: CategoryStore,
		Message:  "Store update failed",
		Detail:   "A cell edit could not be written to the store.",
	},
	"E202": {
		Category: CategoryStore,
		Message:  "Row not found",
		Detail:   "No item in the store has the given id. The row may have been removed since the grid rendered.",
	},
	"E203": {
		Category:   CategoryStore,
		Message:    "Invalid page range",
		Detail:     "The requested page produced a negative start or an empty window. Page numbers start at 1.",
		Suggestion: "Request a page number of 1 or more",
	},

	// ============================================
	// Data Errors (E210-E219)
	// ============================================

	"E210": {
		Category: CategoryData,
		Message:  "Data could not be loaded",
		Detail:   "The data source named in the configuration could not be read.",
	},
	"E211": {
		Category:   CategoryData,
		Message:    "Unsupported data format",
		Detail:     "Data files must be JSON arrays of objects (.json) or CSV with a header row (.csv).",
		Suggestion: "Convert the file to .json or .csv",
	},
	"E212": {
		Category:   CategoryData,
		Message:    "Database could not be opened",
		Detail:     "The bolt database is missing, corrupt, or locked by another process.",
		Suggestion: "Stop other dgrid processes using the same database file",
	},

	// ============================================
	// Protocol Errors (E300-E399)
	// ============================================

	"E300": {
		Category: CategoryProtocol,
		Message:  "WebSocket connection failed",
		Detail:   "The live session could not be established or was interrupted.",
	},
	"E301": {
		Category: CategoryProtocol,
		Message:  "Unknown event target",
		Detail:   "The event refers to an element that is not in the current render. The page may be out of date.",
		Suggestion: "Reload the page",
	},
	"E302": {
		Category: CategoryProtocol,
		Message:  "Malformed event payload",
		Detail:   `Events must be JSON objects of the form {"hid": "h1", "event": "click", "value": ""}.`,
	},
	"E303": {
		Category: CategoryProtocol,
		Message:  "Unsupported event",
		Detail:   "The target element has no handler for this event.",
	},

	// ============================================
	// CLI Errors (E400-E499)
	// ============================================

	"E400": {
		Category: CategoryCLI,
		Message:  "Invalid command usage",
	},
	"E401": {
		Category:   CategoryCLI,
		Message:    "Server could not start",
		Detail:     "The HTTP listener failed to bind or stopped unexpectedly.",
		Suggestion: "Check that the port is free, or pass --port",
	},
	"E402": {
		Category:   CategoryCLI,
		Message:    "File already exists",
		Suggestion: "Pass --force to overwrite it",
	},
}

// Register adds or replaces an error template.
func Register(code string, template ErrorTemplate) {
	registry[code] = template
}

// GetTemplate returns the template registered for code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

// GetAllCodes returns every registered code in ascending order.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
