package report

import (
	"errors"
	"sort"
)

// ============================================================================
// RECORDS: Flat detail-row extraction (any report format)
// ============================================================================
// Every fact cell may carry detail rows when the report was run with
// includeDetails=true. Records walks the cells in source order and flattens
// each row into its cell labels.
// ============================================================================

// ErrNoDetailRows is returned when the report was fetched without details.
var ErrNoDetailRows = errors.New("report does not include details so cannot access individual records")

// Records returns every detail row as a slice of cell labels.
func (d *Document) Records() ([][]string, error) {
	if !d.HasDetailRows {
		return nil, ErrNoDetailRows
	}

	var records [][]string
	for _, key := range d.orderedFactKeys() {
		for _, row := range d.FactMap[key].Rows {
			records = append(records, flattenRow(row))
		}
	}
	return records, nil
}

// RecordsDict returns every detail row keyed by detail column label.
func (d *Document) RecordsDict() ([]map[string]string, error) {
	if !d.HasDetailRows {
		return nil, ErrNoDetailRows
	}

	labels := d.FieldLabels()
	var records []map[string]string
	for _, key := range d.orderedFactKeys() {
		for _, row := range d.FactMap[key].Rows {
			record := make(map[string]string, len(row.DataCells))
			for i, cell := range row.DataCells {
				if i >= len(labels) {
					break
				}
				record[labels[i]] = cell.Label
			}
			records = append(records, record)
		}
	}
	return records, nil
}

// FieldLabels returns the display label of each detail column, in order.
// Columns without extended metadata fall back to their API name.
func (d *Document) FieldLabels() []string {
	labels := make([]string, len(d.Metadata.DetailColumns))
	for i, column := range d.Metadata.DetailColumns {
		if info, ok := d.ExtendedMetadata.DetailColumnInfo[column]; ok && info.Label != "" {
			labels[i] = info.Label
		} else {
			labels[i] = column
		}
	}
	return labels
}

func flattenRow(row DetailRow) []string {
	out := make([]string, len(row.DataCells))
	for i, cell := range row.DataCells {
		out[i] = cell.Label
	}
	return out
}

// orderedFactKeys falls back to sorted keys for documents not built by Decode.
func (d *Document) orderedFactKeys() []string {
	if len(d.factOrder) == len(d.FactMap) {
		return d.factOrder
	}
	keys := make([]string, 0, len(d.FactMap))
	for k := range d.FactMap {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
