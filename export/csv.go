// Package export writes render-ready results as spreadsheet files.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/cghall/salesforce-reporting/render"
)

// ============================================================================
// CSV OUTPUT: Sheets-ready CSV from charts, tables and totals
// ============================================================================

// WriteChartCSV writes a chart as a label column plus one column per series.
// A single series uses the axis names as headers.
func WriteChartCSV(w io.Writer, chart *render.ChartConfig) error {
	cw := csv.NewWriter(w)
	for _, row := range chartRows(chart) {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write chart csv: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteTableCSV writes the table header and rows, then a summary line when
// the table has one.
func WriteTableCSV(w io.Writer, table *render.TableData) error {
	cw := csv.NewWriter(w)
	for _, row := range tableRows(table) {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write table csv: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteTotalsCSV writes one kind/label/value line per total.
func WriteTotalsCSV(w io.Writer, t *render.Totals) error {
	cw := csv.NewWriter(w)
	for _, row := range totalsRows(t) {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write totals csv: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ============================================================================
// ROW BUILDERS (shared with XLSX)
// ============================================================================

func chartRows(chart *render.ChartConfig) [][]string {
	if chart == nil || len(chart.Series) == 0 {
		return [][]string{{"Result", "No data"}}
	}

	xLabel := chart.XAxis
	if xLabel == "" {
		xLabel = "Label"
	}

	if len(chart.Series) == 1 {
		yLabel := chart.Series[0].Name
		if yLabel == "" {
			yLabel = "Value"
		}
		rows := [][]string{{xLabel, yLabel}}
		for _, d := range chart.Series[0].Data {
			rows = append(rows, []string{d.Label, fmtNum(d.Value)})
		}
		return rows
	}

	headers := []string{xLabel}
	for _, s := range chart.Series {
		headers = append(headers, s.Name)
	}
	rows := [][]string{headers}
	for i, d := range chart.Series[0].Data {
		row := []string{d.Label}
		for _, s := range chart.Series {
			if i < len(s.Data) {
				row = append(row, fmtNum(s.Data[i].Value))
			} else {
				row = append(row, "")
			}
		}
		rows = append(rows, row)
	}
	return rows
}

func tableRows(table *render.TableData) [][]string {
	if table == nil || len(table.Columns) == 0 {
		return [][]string{{"Result", "No data"}}
	}

	headers := make([]string, len(table.Columns))
	for i, c := range table.Columns {
		headers[i] = c.Label
	}
	rows := [][]string{headers}
	rows = append(rows, table.Rows...)

	if table.Summary != nil && len(table.Summary.Values) > 0 {
		summary := make([]string, len(table.Columns))
		summary[0] = table.Summary.Label
		for i, c := range table.Columns {
			if v, ok := table.Summary.Values[c.Key]; ok && i > 0 {
				summary[i] = v
			}
		}
		rows = append(rows, summary)
	}
	return rows
}

func totalsRows(t *render.Totals) [][]string {
	rows := [][]string{{"Kind", "Label", "Value"}}
	if t == nil {
		return rows
	}
	rows = append(rows, []string{"grand", "Grand Total", fmtNum(t.GrandTotal)})
	for _, label := range sortedKeys(t.Rows) {
		rows = append(rows, []string{"row", label, fmtNum(t.Rows[label])})
	}
	for _, label := range sortedKeys(t.Columns) {
		rows = append(rows, []string{"column", label, fmtNum(t.Columns[label])})
	}
	return rows
}

// fmtNum prints whole numbers without decimals, everything else with two.
func fmtNum(v float64) string {
	if v == float64(int64(v)) {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}
