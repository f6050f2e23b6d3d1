package grid

// Theme holds the class names used by the grid's elements. The zero Theme
// selects DefaultTheme.
type Theme struct {
	Grid           string
	Table          string
	Header         string
	HeaderRow      string
	HeaderCell     string
	Sortable       string
	SortAscending  string
	SortDescending string
	SortArrow      string
	Body           string
	Row            string
	Cell           string
	EditableCell   string
	CellInput      string
	Empty          string
	Error          string
	Footer         string
	Summary        string
	Pagination     string
	PageButton     string
	CurrentPage    string
	Gap            string
	PageInput      string
}

// DefaultTheme returns the stock dgrid class names.
func DefaultTheme() Theme {
	return Theme{
		Grid:           "dgrid-widgets dgrid dgrid-grid",
		Table:          "dgrid-table",
		Header:         "dgrid-header",
		HeaderRow:      "dgrid-header-row",
		HeaderCell:     "dgrid-cell dgrid-header-cell",
		Sortable:       "dgrid-sortable",
		SortAscending:  "dgrid-sort-up",
		SortDescending: "dgrid-sort-down",
		SortArrow:      "dgrid-sort-arrow",
		Body:           "dgrid-body",
		Row:            "dgrid-row",
		Cell:           "dgrid-cell",
		EditableCell:   "dgrid-cell-editable",
		CellInput:      "dgrid-cell-input",
		Empty:          "dgrid-no-data",
		Error:          "dgrid-error",
		Footer:         "dgrid-footer",
		Summary:        "dgrid-status",
		Pagination:     "dgrid-pagination",
		PageButton:     "dgrid-page-link",
		CurrentPage:    "dgrid-page-current",
		Gap:            "dgrid-page-gap",
		PageInput:      "dgrid-page-input",
	}
}

func (t Theme) orDefault() Theme {
	if t == (Theme{}) {
		return DefaultTheme()
	}
	return t
}
