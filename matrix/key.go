package matrix

import (
	"github.com/cghall/salesforce-reporting/report"
)

// ============================================================================
// KEYS: fact-map addressing
// ============================================================================
// Fact-map keys are always "rowFragment!colFragment". A fragment is either a
// grouping key assigned by Salesforce or the Total sentinel ("T": no
// restriction on that axis).
// ============================================================================

// KeyFragment is one side of a composite key.
type KeyFragment struct {
	key   string
	total bool
}

// Total is the "all groupings on this axis" fragment.
var Total = KeyFragment{total: true}

// Fragment wraps a grouping key.
func Fragment(key string) KeyFragment { return KeyFragment{key: key} }

// IsTotal reports whether the fragment is the Total sentinel.
func (f KeyFragment) IsTotal() bool { return f.total }

// String renders the fragment as it appears in the fact map.
func (f KeyFragment) String() string {
	if f.total {
		return report.TotalMarker
	}
	return f.key
}

// CompositeKey addresses one fact-map cell.
type CompositeKey struct {
	Row KeyFragment
	Col KeyFragment
}

// GrandTotal is T!T.
var GrandTotal = CompositeKey{Row: Total, Col: Total}

// String renders "row!col".
func (k CompositeKey) String() string {
	return k.Row.String() + "!" + k.Col.String()
}

// compose places a static and a dynamic fragment according to which axis
// is static: a static column varies rows, a static row varies columns.
func compose(static Axis, staticKey, dynamicKey KeyFragment) CompositeKey {
	if static == Across {
		return CompositeKey{Row: dynamicKey, Col: staticKey}
	}
	return CompositeKey{Row: staticKey, Col: dynamicKey}
}

// BuildKeys combines one static fragment with each dynamic fragment,
// preserving the dynamic order.
func BuildKeys(static Axis, staticKey KeyFragment, dynamicKeys []KeyFragment) []CompositeKey {
	keys := make([]CompositeKey, len(dynamicKeys))
	for i, dk := range dynamicKeys {
		keys[i] = compose(static, staticKey, dk)
	}
	return keys
}
