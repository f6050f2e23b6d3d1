package grid

import (
	"math"
	"strconv"
)

// parsePageNumber reads a base-10 integer prefix after optional leading
// whitespace and sign: "3", " 3" and "3rd" all give 3. Text without a digit
// prefix reports false.
func parsePageNumber(text string) (int, bool) {
	i := 0
	for i < len(text) && isSpace(text[i]) {
		i++
	}
	start := i
	if i < len(text) && (text[i] == '+' || text[i] == '-') {
		i++
	}
	digits := i
	for i < len(text) && text[i] >= '0' && text[i] <= '9' {
		i++
	}
	if i == digits {
		return 0, false
	}
	n, err := strconv.Atoi(text[start:i])
	if err != nil {
		return 0, false
	}
	return n, true
}

// pageStart returns (page-1)*perPage, or false when the product does not
// fit in an int.
func pageStart(page, perPage int) (int, bool) {
	p := page - 1
	if page == math.MinInt || p > math.MaxInt/perPage || p < math.MinInt/perPage {
		return 0, false
	}
	return p * perPage, true
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}
