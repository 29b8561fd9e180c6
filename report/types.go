package report

// ============================================================================
// REPORT TYPES: Decoded Salesforce Analytics report
// ============================================================================
// Mirrors the JSON returned by the Analytics REST API:
//
//	reportMetadata          → Metadata (format tag, detail columns, filters)
//	reportExtendedMetadata  → ExtendedMetadata (column labels)
//	groupingsDown           → row axis grouping tree
//	groupingsAcross         → column axis grouping tree
//	factMap                 → "rowKey!colKey" → aggregates + detail rows
//
// A Document is built once by Decode and never mutated afterwards.
// ============================================================================

// Format is the reportMetadata.reportFormat tag.
type Format string

const (
	FormatTabular Format = "TABULAR"
	FormatSummary Format = "SUMMARY"
	FormatMatrix  Format = "MATRIX"
)

// TotalMarker is the fact-map key fragment meaning "all groupings on this axis".
const TotalMarker = "T"

// GrandTotalKey addresses the aggregate across both axes.
const GrandTotalKey = TotalMarker + "!" + TotalMarker

// GroupingNode is one labelled, keyed entry of an axis hierarchy.
// Key is unique among siblings only ("0", "1", "0_1", ...).
type GroupingNode struct {
	Label     string         `json:"label"`
	Key       string         `json:"key"`
	Value     any            `json:"value,omitempty"`
	Groupings []GroupingNode `json:"groupings,omitempty"`
}

// Children returns the nested grouping level, empty for a leaf.
func (n GroupingNode) Children() []GroupingNode { return n.Groupings }

// Groupings is the root of one axis.
type Groupings struct {
	Groupings []GroupingNode `json:"groupings"`
}

// Aggregate is one pre-computed value in a fact cell.
type Aggregate struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// DataCell is one field of a detail row.
type DataCell struct {
	Label string `json:"label"`
	Value any    `json:"value"`
}

// DetailRow is one record of a report run with details.
type DetailRow struct {
	DataCells []DataCell `json:"dataCells"`
}

// FactCell holds the aggregates (and optional detail rows) for one
// row/column intersection.
type FactCell struct {
	Aggregates []Aggregate `json:"aggregates"`
	Rows       []DetailRow `json:"rows,omitempty"`
}

// FactMap maps "rowKey!colKey" to its cell.
type FactMap map[string]FactCell

// Filter is one reportMetadata.reportFilters entry.
type Filter struct {
	Column   string `json:"column"`
	Operator string `json:"operator"`
	Value    string `json:"value"`
}

// Metadata is the subset of reportMetadata the engine reads.
type Metadata struct {
	ID            string   `json:"id,omitempty"`
	Name          string   `json:"name,omitempty"`
	ReportFormat  Format   `json:"reportFormat"`
	DetailColumns []string `json:"detailColumns,omitempty"`
	ReportFilters []Filter `json:"reportFilters,omitempty"`
}

// ColumnInfo describes a detail column.
type ColumnInfo struct {
	Label    string `json:"label"`
	DataType string `json:"dataType,omitempty"`
}

// ExtendedMetadata is the subset of reportExtendedMetadata the engine reads.
type ExtendedMetadata struct {
	DetailColumnInfo map[string]ColumnInfo `json:"detailColumnInfo,omitempty"`
}

// Document is one fully materialized report.
type Document struct {
	Metadata         Metadata         `json:"reportMetadata"`
	ExtendedMetadata ExtendedMetadata `json:"reportExtendedMetadata"`
	HasDetailRows    bool             `json:"hasDetailRows"`
	GroupingsDown    Groupings        `json:"groupingsDown"`
	GroupingsAcross  Groupings        `json:"groupingsAcross"`
	FactMap          FactMap          `json:"factMap"`

	// factOrder is the order fact-map keys appeared in the source JSON.
	factOrder []string
	raw       []byte
}

// Format returns the report format tag.
func (d *Document) Format() Format { return d.Metadata.ReportFormat }

// Fact returns the cell stored under a composite key.
func (d *Document) Fact(key string) (FactCell, bool) {
	cell, ok := d.FactMap[key]
	return cell, ok
}

// Raw returns the JSON the document was decoded from, or nil for documents
// built in code.
func (d *Document) Raw() []byte {
	if d.raw == nil {
		return nil
	}
	return append([]byte(nil), d.raw...)
}

// FactKeys returns the fact-map keys in source order.
func (d *Document) FactKeys() []string {
	keys := make([]string, len(d.factOrder))
	copy(keys, d.factOrder)
	return keys
}
