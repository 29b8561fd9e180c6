package render

import (
	"fmt"

	"github.com/cghall/salesforce-reporting/matrix"
	"github.com/cghall/salesforce-reporting/report"
)

// ============================================================================
// TABLE BUILDER: TableData from series, grids and detail rows
// ============================================================================

// SeriesTable lists a series as label/value rows with a total summary.
func SeriesTable(title string, s *matrix.Series) *TableData {
	if s == nil || s.Len() == 0 {
		return &TableData{Title: title, Columns: []Column{}, Rows: [][]string{}}
	}

	columns := []Column{
		{Key: "label", Label: axisLabel(s.Axis), Type: "text", Align: "left"},
		{Key: "value", Label: s.Name, Type: "number", Align: "right"},
	}

	rows := make([][]string, 0, s.Len())
	var total float64
	for _, pt := range s.Points {
		rows = append(rows, []string{pt.Label, fmt.Sprintf("%.2f", pt.Value)})
		total += pt.Value
	}

	return &TableData{
		Title:   title,
		Columns: columns,
		Rows:    rows,
		Summary: &Summary{
			Label:  fmt.Sprintf("Total (%d points)", s.Len()),
			Values: map[string]string{"value": FormatNumber(total)},
		},
	}
}

// GridTable lays a grid out as a cross-tab: one table row per grid row,
// one column per grid column, and a trailing row total.
func GridTable(title string, g *matrix.Grid) *TableData {
	if g == nil || len(g.RowLabels) == 0 {
		return &TableData{Title: title, Columns: []Column{}, Rows: [][]string{}}
	}

	columns := make([]Column, 0, len(g.ColumnLabels)+2)
	columns = append(columns, Column{Key: "row", Label: "Row", Type: "text", Align: "left"})
	for i, label := range g.ColumnLabels {
		columns = append(columns, Column{Key: fmt.Sprintf("c%d", i), Label: label, Type: "number", Align: "right"})
	}
	columns = append(columns, Column{Key: "total", Label: "Total", Type: "number", Align: "right"})

	colTotals := make([]float64, len(g.ColumnLabels))
	var grand float64
	rows := make([][]string, 0, len(g.RowLabels))
	for i, label := range g.RowLabels {
		row := make([]string, 0, len(columns))
		row = append(row, label)
		var rowTotal float64
		for j, v := range g.Values[i] {
			row = append(row, fmt.Sprintf("%.2f", v))
			rowTotal += v
			colTotals[j] += v
		}
		row = append(row, fmt.Sprintf("%.2f", rowTotal))
		rows = append(rows, row)
		grand += rowTotal
	}

	summary := &Summary{Label: "Total", Values: map[string]string{"total": FormatNumber(grand)}}
	for j, v := range colTotals {
		summary.Values[fmt.Sprintf("c%d", j)] = FormatNumber(v)
	}

	return &TableData{Title: title, Columns: columns, Rows: rows, Summary: summary}
}

// RecordsTable lists the detail rows of a report, one row per record.
func RecordsTable(title string, doc *report.Document) (*TableData, error) {
	records, err := doc.Records()
	if err != nil {
		return nil, err
	}

	labels := doc.FieldLabels()
	columns := make([]Column, len(labels))
	for i, label := range labels {
		columns[i] = Column{Key: doc.Metadata.DetailColumns[i], Label: label, Type: "text", Align: "left"}
	}

	if records == nil {
		records = [][]string{}
	}
	return &TableData{
		Title:   title,
		Columns: columns,
		Rows:    records,
		Summary: &Summary{
			Label:  fmt.Sprintf("%s records", FormatInt(len(records))),
			Values: map[string]string{},
		},
	}, nil
}
