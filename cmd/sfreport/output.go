package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cghall/salesforce-reporting/export"
	"github.com/cghall/salesforce-reporting/render"
)

// ============================================================================
// RESULT
// ============================================================================

// result carries every rendering a command can offer. value is what the
// JSON formats print; the other fields are optional views for text, CSV
// and XLSX.
type result struct {
	name   string
	value  any
	chart  *render.ChartConfig
	table  *render.TableData
	totals *render.Totals
	text   *render.TextData
}

// emit writes r in the selected format to --out or the command's stdout.
func (a *app) emit(cmd *cobra.Command, r result) (err error) {
	format := strings.ToLower(a.format)
	switch format {
	case "json", "pretty", "text", "csv", "xlsx":
	default:
		return fmt.Errorf("unknown format %q (want json, pretty, text, csv or xlsx)", a.format)
	}

	w := cmd.OutOrStdout()
	if a.out != "" {
		f, ferr := os.Create(a.out)
		if ferr != nil {
			return fmt.Errorf("failed to create output file: %w", ferr)
		}
		defer func() {
			if cerr := f.Close(); err == nil {
				err = cerr
			}
		}()
		w = f
	}

	switch format {
	case "json":
		err = writeJSON(w, r.value, false)
	case "pretty":
		err = writeJSON(w, r.value, true)
	case "text":
		err = writeText(w, r)
	case "csv":
		err = writeCSV(w, r)
	case "xlsx":
		err = writeXLSX(w, r)
	}
	if err == nil && a.out != "" {
		a.logger.Info("output written", zap.String("path", a.out), zap.String("format", a.format))
	}
	return err
}

// ============================================================================
// WRITERS
// ============================================================================

func writeJSON(w io.Writer, v any, pretty bool) error {
	var (
		out []byte
		err error
	)
	if pretty {
		out, err = json.MarshalIndent(v, "", "  ")
	} else {
		out, err = json.Marshal(v)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

func writeCSV(w io.Writer, r result) error {
	switch {
	case r.chart != nil:
		return export.WriteChartCSV(w, r.chart)
	case r.table != nil:
		return export.WriteTableCSV(w, r.table)
	case r.totals != nil:
		return export.WriteTotalsCSV(w, r.totals)
	default:
		return errors.New("csv output is not available for this command")
	}
}

func writeXLSX(w io.Writer, r result) error {
	var sheets []export.Sheet
	if r.table != nil {
		sheets = append(sheets, export.TableSheet(r.name, r.table))
	}
	if r.chart != nil {
		sheets = append(sheets, export.ChartSheet(r.name+" chart", r.chart))
	}
	if r.totals != nil {
		sheets = append(sheets, export.TotalsSheet(r.name, r.totals))
	}
	return export.WriteXLSX(w, sheets...)
}

// writeText prints tables as aligned columns, followed by the headline
// value when there is one.
func writeText(w io.Writer, r result) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	switch {
	case r.table != nil:
		writeTextTable(tw, r.table)
	case r.totals != nil:
		writeTextTotals(tw, r.totals)
	}
	if r.text != nil {
		if r.table == nil {
			fmt.Fprintf(tw, "Total\t%s\n", r.text.Value)
		}
		if s := r.text.Stats; s != nil {
			fmt.Fprintf(tw, "Mean\t%s\n", render.FormatNumber(s.Mean))
			fmt.Fprintf(tw, "Median\t%s\n", render.FormatNumber(s.Median))
			fmt.Fprintf(tw, "Max\t%s (%s)\n", render.FormatNumber(s.Max), s.MaxLabel)
			fmt.Fprintf(tw, "Min\t%s (%s)\n", render.FormatNumber(s.Min), s.MinLabel)
		}
	}
	return tw.Flush()
}

func writeTextTable(tw *tabwriter.Writer, t *render.TableData) {
	if t.Title != "" {
		fmt.Fprintln(tw, t.Title)
	}
	header := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = c.Label
	}
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, row := range t.Rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	if t.Summary != nil && len(t.Summary.Values) > 0 && len(t.Columns) > 0 {
		cells := make([]string, len(t.Columns))
		cells[0] = t.Summary.Label
		for i, c := range t.Columns[1:] {
			cells[i+1] = t.Summary.Values[c.Key]
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
}

func writeTextTotals(tw *tabwriter.Writer, t *render.Totals) {
	fmt.Fprintf(tw, "Grand Total\t%s\n", render.FormatNumber(t.GrandTotal))
	for _, label := range sortedKeys(t.Rows) {
		fmt.Fprintf(tw, "Row %s\t%s\n", label, render.FormatNumber(t.Rows[label]))
	}
	for _, label := range sortedKeys(t.Columns) {
		fmt.Fprintf(tw, "Column %s\t%s\n", label, render.FormatNumber(t.Columns[label]))
	}
	for _, m := range t.Missing {
		fmt.Fprintf(tw, "Missing\t%s\n", m)
	}
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
