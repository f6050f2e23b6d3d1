package config

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"regexp"
	"strconv"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

var yamlLine = regexp.MustCompile(`line (\d+)`)

// errorPosition extracts the 1-based line and column of a decode error.
func errorPosition(format string, data []byte, err error) (line, col int, ok bool) {
	switch format {
	case "toml":
		var de *toml.DecodeError
		if stderrors.As(err, &de) {
			line, col = de.Position()
			return line, col, true
		}
	case "yaml":
		msg := err.Error()
		var te *yaml.TypeError
		if stderrors.As(err, &te) && len(te.Errors) > 0 {
			msg = te.Errors[0]
		}
		if m := yamlLine.FindStringSubmatch(msg); m != nil {
			n, _ := strconv.Atoi(m[1])
			return n, 0, true
		}
	case "json":
		var se *json.SyntaxError
		if stderrors.As(err, &se) {
			line, col = offsetPosition(data, se.Offset)
			return line, col, true
		}
		var ue *json.UnmarshalTypeError
		if stderrors.As(err, &ue) {
			line, col = offsetPosition(data, ue.Offset)
			return line, col, true
		}
	}
	return 0, 0, false
}

// offsetPosition converts a byte offset into a line and column.
func offsetPosition(data []byte, offset int64) (line, col int) {
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	before := data[:offset]
	line = bytes.Count(before, []byte("\n")) + 1
	col = int(offset) - bytes.LastIndexByte(before, '\n') - 1
	if col < 1 {
		col = 1
	}
	return line, col
}
