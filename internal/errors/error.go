package errors

import (
	"bufio"
	stderrors "errors"
	"fmt"
	"os"

	"github.com/vango-dev/dgrid/pkg/store"
)

// Category represents the type of error.
type Category string

const (
	CategoryConfig   Category = "config"
	CategoryStore    Category = "store"
	CategoryData     Category = "data"
	CategoryProtocol Category = "protocol"
	CategoryCLI      Category = "cli"
)

// Location represents a position in a file, usually a configuration file.
type Location struct {
	File   string
	Line   int
	Column int
}

// String returns the location as a formatted string.
func (l *Location) String() string {
	if l == nil {
		return ""
	}
	if l.Column > 0 {
		return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
	}
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// GridError is a structured error with a code, an explanation and a hint.
type GridError struct {
	// Code is a unique error identifier (e.g., "E101").
	Code string

	// Category is the error type.
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Location is the file position where the error occurred.
	Location *Location

	// Context contains the lines around Location.
	Context []string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *GridError) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	if e.Wrapped != nil {
		msg += ": " + e.Wrapped.Error()
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *GridError) Unwrap() error {
	return e.Wrapped
}

// WithLocation adds a file position and the surrounding lines.
func (e *GridError) WithLocation(file string, line, column int) *GridError {
	e.Location = &Location{File: file, Line: line, Column: column}
	e.Context = readContextLines(file, line, 5)
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *GridError) WithSuggestion(s string) *GridError {
	e.Suggestion = s
	return e
}

// WithDetail replaces the detailed explanation.
func (e *GridError) WithDetail(d string) *GridError {
	e.Detail = d
	return e
}

// Wrap wraps another error.
func (e *GridError) Wrap(err error) *GridError {
	e.Wrapped = err
	return e
}

// readContextLines reads lines around the specified line number from a file.
func readContextLines(filename string, targetLine, contextSize int) []string {
	file, err := os.Open(filename)
	if err != nil {
		return nil
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	lineNum := 0
	startLine := targetLine - contextSize/2
	endLine := targetLine + contextSize/2

	for scanner.Scan() {
		lineNum++
		if lineNum >= startLine && lineNum <= endLine {
			lines = append(lines, scanner.Text())
		}
		if lineNum > endLine {
			break
		}
	}

	return lines
}

// New creates a GridError from a registered error code.
func New(code string) *GridError {
	template, ok := registry[code]
	if !ok {
		return &GridError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &GridError{
		Code:       code,
		Category:   template.Category,
		Message:    template.Message,
		Detail:     template.Detail,
		Suggestion: template.Suggestion,
	}
}

// Newf creates a new GridError with a formatted message (no code).
func Newf(category Category, format string, args ...any) *GridError {
	return &GridError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in a GridError.
func FromError(err error, code string) *GridError {
	if err == nil {
		return nil
	}
	var ge *GridError
	if stderrors.As(err, &ge) {
		return ge
	}
	return New(code).Wrap(err)
}

// FromStoreError picks the code matching a store error.
func FromStoreError(err error) *GridError {
	if err == nil {
		return nil
	}
	switch {
	case stderrors.Is(err, store.ErrInvalidRange):
		return FromError(err, "E203")
	case stderrors.Is(err, store.ErrNotFound):
		return FromError(err, "E202")
	case stderrors.Is(err, store.ErrUnsupportedFormat):
		return FromError(err, "E211")
	}
	return FromError(err, "E200")
}

// Code returns the code of the GridError in err's chain, or "".
func Code(err error) string {
	var ge *GridError
	if stderrors.As(err, &ge) {
		return ge.Code
	}
	return ""
}

func asGridError(err error, target **GridError) bool {
	return stderrors.As(err, target)
}
