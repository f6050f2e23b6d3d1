package grid

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/vango-dev/dgrid/pkg/store"
	"github.com/vango-dev/dgrid/pkg/vdom"
)

// CellProperties are passed to the "dgrid-cell" factory.
type CellProperties struct {
	Column Column
	Index  int
	RowID  string
	Item   store.Item
	Value  any
	// RawValue is Value formatted without the column renderer.
	RawValue string
	// Update is set for editable cells and forwards the edited text.
	Update func(value string)
	Theme  Theme
}

// Text returns the display text: the column renderer's output, or RawValue.
func (p CellProperties) Text() string {
	if p.Column.Renderer != nil {
		return p.Column.Renderer(p.Value)
	}
	return p.RawValue
}

// Cell is the default cell. Editable cells render a text input whose change
// event is forwarded to Update.
func Cell(p CellProperties) *vdom.VNode {
	var style any
	if color, ok := colorValue(p.Column.Color); ok {
		style = vdom.StyleAttr("color: " + color)
	}

	if p.Update != nil {
		update := p.Update
		return vdom.Td(
			vdom.Class(p.Theme.Cell, p.Theme.EditableCell),
			vdom.Role("gridcell"),
			vdom.Key(p.Column.ID),
			style,
			vdom.Input(
				vdom.Class(p.Theme.CellInput),
				vdom.Type("text"),
				vdom.Name(p.Column.ID),
				vdom.AriaLabel(p.Column.Label),
				vdom.Value(p.RawValue),
				vdom.OnChange(func(v string) { update(v) }),
			),
		)
	}

	return vdom.Td(
		vdom.Class(p.Theme.Cell),
		vdom.Role("gridcell"),
		vdom.Key(p.Column.ID),
		style,
		p.Text(),
	)
}

// colorValue reports whether s is a single CSS colour: a name, a hex colour
// or an rgb/rgba/hsl/hsla function. Anything else is dropped so a column
// colour cannot add declarations to the style attribute.
func colorValue(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	switch {
	case s[0] == '#':
		hex := s[1:]
		switch len(hex) {
		case 3, 4, 6, 8:
		default:
			return "", false
		}
		for _, c := range hex {
			if !strings.ContainsRune("0123456789abcdefABCDEF", c) {
				return "", false
			}
		}
		return s, true

	case strings.HasSuffix(s, ")"):
		open := strings.IndexByte(s, '(')
		if open < 0 {
			return "", false
		}
		switch strings.ToLower(s[:open]) {
		case "rgb", "rgba", "hsl", "hsla":
		default:
			return "", false
		}
		for _, c := range s[open+1 : len(s)-1] {
			if !strings.ContainsRune("0123456789.,%/ -degturnad", c) {
				return "", false
			}
		}
		return s, true
	}

	for _, c := range s {
		if (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') {
			return "", false
		}
	}
	return s, true
}

// formatValue renders a field value as cell text. Nil is empty.
func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case time.Time:
		return x.Format(time.RFC3339)
	case fmt.Stringer:
		return x.String()
	}
	return fmt.Sprint(v)
}

func itoa(i int) string {
	return strconv.Itoa(i)
}
