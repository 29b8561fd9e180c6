package matrix

import (
	"fmt"
	"strings"

	"github.com/cghall/salesforce-reporting/report"
)

// Axis selects one of the two grouping hierarchies.
type Axis int

const (
	// Down is the row axis (groupingsDown).
	Down Axis = iota
	// Across is the column axis (groupingsAcross).
	Across
)

func (a Axis) String() string {
	if a == Across {
		return "groupingsAcross"
	}
	return "groupingsDown"
}

// Other returns the opposite axis.
func (a Axis) Other() Axis {
	if a == Across {
		return Down
	}
	return Across
}

func (a Axis) root(doc *report.Document) []report.GroupingNode {
	if a == Across {
		return doc.GroupingsAcross.Groupings
	}
	return doc.GroupingsDown.Groupings
}

// MarshalText renders the axis as "down" or "across".
func (a Axis) MarshalText() ([]byte, error) {
	if a == Across {
		return []byte("across"), nil
	}
	return []byte("down"), nil
}

// UnmarshalText accepts "down"/"rows" and "across"/"columns".
func (a *Axis) UnmarshalText(text []byte) error {
	parsed, err := ParseAxis(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// ParseAxis maps a user-facing axis name to an Axis.
func ParseAxis(name string) (Axis, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "down", "row", "rows", "groupingsdown":
		return Down, nil
	case "across", "column", "columns", "groupingsacross":
		return Across, nil
	default:
		return Down, fmt.Errorf("%w: unknown axis %q", ErrInvalidPathArgument, name)
	}
}
