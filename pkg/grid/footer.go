package grid

import (
	"fmt"

	"github.com/vango-dev/dgrid/pkg/vdom"
)

// maxPageLinks bounds the numbered page buttons shown at once.
const maxPageLinks = 7

// FooterProperties are passed to the "dgrid-footer" factory.
type FooterProperties struct {
	Total               int
	Pagination          *PaginationDetails
	Paginated           bool
	OnPaginationRequest func(pageNumber string)
	Theme               Theme
}

// Footer renders the result summary and, when paginated, the page controls.
// Page buttons request their page number; the page input forwards its text
// unchanged.
func Footer(p FooterProperties) *vdom.VNode {
	if !p.Paginated || p.Pagination == nil {
		return vdom.Div(
			vdom.Class(p.Theme.Footer),
			vdom.Div(vdom.Class(p.Theme.Summary), vdom.AriaLive("polite"), resultCount(p.Total)),
		)
	}

	pd := *p.Pagination
	last := lastPage(p.Total, pd.DataRangeCount)

	return vdom.Div(
		vdom.Class(p.Theme.Footer),
		vdom.Div(vdom.Class(p.Theme.Summary), vdom.AriaLive("polite"), rangeSummary(pd, p.Total)),
		vdom.Nav(
			vdom.Class(p.Theme.Pagination),
			vdom.AriaLabel("Pagination"),
			pageButton(p, "‹", pd.PageNumber-1, pd.PageNumber <= 1, "Previous page"),
			vdom.Range(pageLinks(pd.PageNumber, last), func(n int, _ int) *vdom.VNode {
				if n == 0 {
					return vdom.Span(vdom.Class(p.Theme.Gap), "…")
				}
				if n == pd.PageNumber {
					return vdom.Span(vdom.Class(p.Theme.PageButton, p.Theme.CurrentPage), vdom.AriaCurrent("page"), itoa(n))
				}
				return pageButton(p, itoa(n), n, false, "Page "+itoa(n))
			}),
			pageButton(p, "›", pd.PageNumber+1, pd.PageNumber >= last, "Next page"),
			vdom.Label(
				"Go to page ",
				vdom.Input(
					vdom.Class(p.Theme.PageInput),
					vdom.Type("text"),
					vdom.Name("page"),
					vdom.Value(itoa(pd.PageNumber)),
					vdom.OnChange(func(text string) {
						if p.OnPaginationRequest != nil {
							p.OnPaginationRequest(text)
						}
					}),
				),
			),
		),
	)
}

func pageButton(p FooterProperties, label string, page int, disabled bool, aria string) *vdom.VNode {
	var click any
	if !disabled && p.OnPaginationRequest != nil {
		click = vdom.OnClick(func() { p.OnPaginationRequest(itoa(page)) })
	}
	return vdom.Button(
		vdom.Class(p.Theme.PageButton),
		vdom.Type("button"),
		vdom.AriaLabel(aria),
		vdom.AttrIf(disabled, vdom.Disabled()),
		click,
		label,
	)
}

func resultCount(total int) string {
	if total == 1 {
		return "1 result"
	}
	return fmt.Sprintf("%d results", total)
}

func rangeSummary(pd PaginationDetails, total int) string {
	if total == 0 || pd.DataRangeStart < 0 || pd.DataRangeStart >= total {
		return resultCount(total)
	}
	end := pd.DataRangeStart + pd.DataRangeCount
	if end > total {
		end = total
	}
	return fmt.Sprintf("%d - %d of %s", pd.DataRangeStart+1, end, resultCount(total))
}

// lastPage is the number of pages needed for total items, at least 1.
func lastPage(total, perPage int) int {
	if perPage <= 0 || total <= 0 {
		return 1
	}
	return (total + perPage - 1) / perPage
}

// pageLinks returns the page numbers to show around current, with 0 marking
// a gap. The first and last pages are always included.
func pageLinks(current, last int) []int {
	if last <= maxPageLinks {
		pages := make([]int, last)
		for i := range pages {
			pages[i] = i + 1
		}
		return pages
	}

	lo, hi := current-1, current+1
	if lo < 2 {
		lo, hi = 2, 4
	}
	if hi > last-1 {
		lo, hi = last-3, last-1
	}

	pages := []int{1}
	if lo > 2 {
		pages = append(pages, 0)
	}
	for n := lo; n <= hi; n++ {
		pages = append(pages, n)
	}
	if hi < last-1 {
		pages = append(pages, 0)
	}
	return append(pages, last)
}
