package report

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidFilter is returned for filters not written as column:operator:value.
var ErrInvalidFilter = errors.New("invalid report filter")

// ParseFilter reads "column:operator:value". The value may contain colons
// and may be empty.
func ParseFilter(s string) (Filter, error) {
	parts := strings.SplitN(s, ":", 3)
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" {
		return Filter{}, fmt.Errorf("%w: %q is not column:operator:value", ErrInvalidFilter, s)
	}
	return Filter{Column: parts[0], Operator: parts[1], Value: parts[2]}, nil
}

// ParseFilters parses every entry, failing on the first bad one.
func ParseFilters(raw []string) ([]Filter, error) {
	var filters []Filter
	for _, s := range raw {
		f, err := ParseFilter(s)
		if err != nil {
			return nil, err
		}
		filters = append(filters, f)
	}
	return filters, nil
}
