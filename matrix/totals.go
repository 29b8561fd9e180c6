package matrix

import (
	"errors"

	"go.uber.org/zap"
)

// ============================================================================
// TOTALS: depth-1 keys combined with the Total marker
// ============================================================================
// Column and row totals are commonly probed for labels that may not exist
// in a given run, so an unknown label is reported with ok=false. A missing
// total cell for a known label is still an error.
// Total is the strict form and also addresses nested groupings.
// ============================================================================

// GrandTotal returns the first aggregate of T!T.
func (p *Parser) GrandTotal() (float64, error) {
	return p.value(GrandTotal, 0)
}

// ColumnTotal returns the T!{key} aggregate for a top-level column label.
// ok is false when no top-level column has that label. A label that resolves
// but has no total cell is an error.
func (p *Parser) ColumnTotal(label string) (v float64, ok bool, err error) {
	return p.lenientTotal(Across, label)
}

// ColumnTotalOr is ColumnTotal with a fallback for unknown labels.
func (p *Parser) ColumnTotalOr(label string, def float64) (float64, error) {
	v, ok, err := p.ColumnTotal(label)
	if err != nil || ok {
		return v, err
	}
	return def, nil
}

// RowTotal returns the {key}!T aggregate for a top-level row label, with
// the same rules as ColumnTotal.
func (p *Parser) RowTotal(label string) (v float64, ok bool, err error) {
	return p.lenientTotal(Down, label)
}

// RowTotalOr is RowTotal with a fallback for unknown labels.
func (p *Parser) RowTotalOr(label string, def float64) (float64, error) {
	v, ok, err := p.RowTotal(label)
	if err != nil || ok {
		return v, err
	}
	return def, nil
}

// Total returns the total of the grouping named by path on axis, at any
// depth. Unlike ColumnTotal/RowTotal an unknown label is an error.
func (p *Parser) Total(axis Axis, path Path) (float64, error) {
	key, err := StaticKey(p.doc, axis, path)
	if err != nil {
		return 0, err
	}
	return p.value(compose(axis, key, Total), 0)
}

// lenientTotal swallows label lookup failures only.
func (p *Parser) lenientTotal(axis Axis, label string) (float64, bool, error) {
	v, err := p.Total(axis, Label(label))
	switch {
	case err == nil:
		return v, true, nil
	case errors.Is(err, ErrGroupingNotFound), errors.Is(err, ErrKeyNotFound):
		p.logger.Debug("total label not found",
			zap.Stringer("axis", axis),
			zap.String("label", label),
			zap.Error(err))
		return 0, false, nil
	default:
		return 0, false, err
	}
}
