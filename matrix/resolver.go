package matrix

import (
	"fmt"

	"github.com/cghall/salesforce-reporting/report"
)

// ============================================================================
// RESOLVER: label paths → key fragments
// ============================================================================
// Static: a fully named path on the pinned axis resolves to one key.
// Dynamic: a context path on the enumerated axis resolves to the keys and
// labels of every child one level below it, in source order.
// ============================================================================

// StaticKey resolves the key of the grouping named by the full path.
func StaticKey(doc *report.Document, axis Axis, path Path) (KeyFragment, error) {
	if path.IsRoot() {
		return KeyFragment{}, fmt.Errorf("%w: %s needs at least one label", ErrInvalidPathArgument, axis)
	}

	siblings, err := navigate(axis, axis.root(doc), path, path.Depth())
	if err != nil {
		return KeyFragment{}, err
	}

	node, ok := findSibling(siblings, path.Last())
	if !ok {
		return KeyFragment{}, &LookupError{Kind: ErrKeyNotFound, Axis: axis, Label: path.Last(), Level: path.Depth()}
	}
	return Fragment(node.Key), nil
}

// DynamicKeys enumerates the children of the context path: parallel keys
// and labels, in document order. The root context yields the top level.
func DynamicKeys(doc *report.Document, axis Axis, context Path) ([]KeyFragment, []string, error) {
	siblings, err := navigate(axis, axis.root(doc), context, context.Depth()+1)
	if err != nil {
		return nil, nil, err
	}

	keys := make([]KeyFragment, len(siblings))
	labels := make([]string, len(siblings))
	for i, node := range siblings {
		keys[i] = Fragment(node.Key)
		labels[i] = node.Label
	}
	return keys, labels, nil
}
