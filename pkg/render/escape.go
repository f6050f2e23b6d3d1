package render

import (
	"strings"

	"github.com/google/safehtml"
)

// escapeHTML escapes text for safe inclusion in HTML content.
func escapeHTML(s string) string {
	return safehtml.HTMLEscaped(s).String()
}

// attrEscaper additionally encodes whitespace that would otherwise be
// normalised by attribute parsing.
var attrEscaper = strings.NewReplacer(
	"\n", "&#10;",
	"\r", "&#13;",
	"\t", "&#9;",
)

// escapeAttr escapes text for safe inclusion in a double-quoted HTML
// attribute value.
func escapeAttr(s string) string {
	return attrEscaper.Replace(escapeHTML(s))
}
