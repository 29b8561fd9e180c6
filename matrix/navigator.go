package matrix

import (
	"fmt"

	"github.com/cghall/salesforce-reporting/report"
)

// ============================================================================
// NAVIGATOR: iterative descent into one axis
// ============================================================================
// Returns the sibling sequence that contains the level-`depth` grouping:
// depth ≤ 1 is the axis root; every extra level consumes one path label,
// top-down. Pure read; callers own all traversal state.
// ============================================================================

// navigate walks depth-1 levels of path from root. path must name at least
// depth-1 labels.
func navigate(axis Axis, root []report.GroupingNode, path Path, depth int) ([]report.GroupingNode, error) {
	if depth-1 > path.Depth() {
		return nil, fmt.Errorf("%w: depth %d needs %d labels, path %s has %d",
			ErrInvalidPathArgument, depth, depth-1, path, path.Depth())
	}

	current := root
	for level := 0; depth > 1; level++ {
		label := path.At(level)
		node, ok := findSibling(current, label)
		if !ok {
			return nil, &LookupError{Kind: ErrGroupingNotFound, Axis: axis, Label: label, Level: level + 1}
		}
		current = node.Children()
		depth--
	}
	return current, nil
}

func findSibling(siblings []report.GroupingNode, label string) (report.GroupingNode, bool) {
	for _, node := range siblings {
		if node.Label == label {
			return node, true
		}
	}
	return report.GroupingNode{}, false
}
