package matrix

import (
	"fmt"

	"go.uber.org/zap"
)

// Grid is the 2-D slice below a row context and a column context.
type Grid struct {
	RowLabels    []string    `json:"rowLabels"`
	ColumnLabels []string    `json:"columnLabels"`
	Values       [][]float64 `json:"values"` // Values[row][column]
	Position     int         `json:"position"`
}

// Row returns one row of the grid as a series across columns.
func (g *Grid) Row(i int) *Series {
	points := make([]Point, len(g.ColumnLabels))
	for j, label := range g.ColumnLabels {
		points[j] = Point{Label: label, Value: g.Values[i][j]}
	}
	return &Series{Name: g.RowLabels[i], Axis: Across, Points: points}
}

// Cell returns the aggregate at the intersection of two fully named paths.
func (p *Parser) Cell(rows, columns Path, position int) (float64, error) {
	if position < 0 {
		return 0, fmt.Errorf("%w: value position %d is negative", ErrInvalidPathArgument, position)
	}
	rowKey, err := StaticKey(p.doc, Down, rows)
	if err != nil {
		return 0, err
	}
	colKey, err := StaticKey(p.doc, Across, columns)
	if err != nil {
		return 0, err
	}
	return p.value(CompositeKey{Row: rowKey, Col: colKey}, position)
}

// Grid enumerates the children of both context paths and reads every
// intersection. Row and column order follow the document.
func (p *Parser) Grid(rows, columns Path, position int) (*Grid, error) {
	if position < 0 {
		return nil, fmt.Errorf("%w: value position %d is negative", ErrInvalidPathArgument, position)
	}
	rowKeys, rowLabels, err := DynamicKeys(p.doc, Down, rows)
	if err != nil {
		return nil, err
	}
	colKeys, colLabels, err := DynamicKeys(p.doc, Across, columns)
	if err != nil {
		return nil, err
	}

	values := make([][]float64, len(rowKeys))
	for i, rk := range rowKeys {
		values[i] = make([]float64, len(colKeys))
		for j, key := range BuildKeys(Down, rk, colKeys) {
			values[i][j], err = p.value(key, position)
			if err != nil {
				return nil, err
			}
		}
	}

	p.logger.Debug("resolved grid",
		zap.String("rows", rows.String()),
		zap.String("columns", columns.String()),
		zap.Int("height", len(rowKeys)),
		zap.Int("width", len(colKeys)))

	return &Grid{
		RowLabels:    rowLabels,
		ColumnLabels: colLabels,
		Values:       values,
		Position:     position,
	}, nil
}
