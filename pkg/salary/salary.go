// Package salary parses currency-range strings into (min, max) pairs.
package salary

import (
	"regexp"
	"strconv"
	"strings"
)

// amountPattern matches a currency amount with thousands separators and
// exactly two decimal digits, e.g. "$45,000.00".
var amountPattern = regexp.MustCompile(`\$([\d,]+\.\d{2})`)

// Range is a (min, max) salary pair. Valid reports whether the pair is
// present; an invalid Range carries no data, which is distinct from a
// zero salary. Min and Max are either both set or both meaningless.
type Range struct {
	Min   float64
	Max   float64
	Valid bool
}

// ParseRange extracts a salary pair from free-form range text such as
// "$45,000.00 - $60,000.00". The text must contain exactly two currency
// amounts, returned in the order encountered (first = min, second = max).
// Zero, one, or three and more matches yield the absent pair rather than
// a guess. ParseRange is total: it never returns an error.
func ParseRange(text string) Range {
	matches := amountPattern.FindAllStringSubmatch(text, -1)
	if len(matches) != 2 {
		return Range{}
	}

	min, err := parseAmount(matches[0][1])
	if err != nil {
		return Range{}
	}
	max, err := parseAmount(matches[1][1])
	if err != nil {
		return Range{}
	}

	return Range{Min: min, Max: max, Valid: true}
}

func parseAmount(amount string) (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(amount, ",", ""), 64)
}
