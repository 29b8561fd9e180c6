// Package render turns series, grids and totals into render-ready
// structures: chart configs, tables and single-value text answers.
package render

// ============================================================================
// CHART TYPES
// ============================================================================

// ChartConfig defines how to render a chart.
type ChartConfig struct {
	ChartType  string        `json:"chartType"`
	Title      string        `json:"title"`
	XAxis      string        `json:"xAxis,omitempty"`
	YAxis      string        `json:"yAxis,omitempty"`
	Series     []ChartSeries `json:"series"`
	Colors     []string      `json:"colors,omitempty"`
	ShowLegend bool          `json:"showLegend"`
	ShowGrid   bool          `json:"showGrid"`
}

// ChartSeries represents a data series in a chart.
type ChartSeries struct {
	Name  string       `json:"name"`
	Data  []ChartPoint `json:"data"`
	Color string       `json:"color,omitempty"`
}

// ChartPoint represents a single data point.
type ChartPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// ============================================================================
// TABLE TYPES
// ============================================================================

// TableData defines how to render a table.
type TableData struct {
	Title   string     `json:"title"`
	Columns []Column   `json:"columns"`
	Rows    [][]string `json:"rows"`
	Summary *Summary   `json:"summary,omitempty"`
}

// Column defines a table column.
type Column struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Type  string `json:"type"`  // "text", "number"
	Align string `json:"align"` // "left", "center", "right"
}

// Summary provides totals for a table.
type Summary struct {
	Label  string            `json:"label"`
	Values map[string]string `json:"values"`
}

// ============================================================================
// TEXT TYPES
// ============================================================================

// TextData is a single headline number with supporting statistics.
type TextData struct {
	Value    string     `json:"value"`
	RawValue float64    `json:"rawValue"`
	Count    int        `json:"count"`
	Stats    *StatsData `json:"stats,omitempty"`
}

// StatsData summarises the points of a series.
type StatsData struct {
	Sum    float64 `json:"sum"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Max    float64 `json:"max"`
	Min    float64 `json:"min"`
	// MaxLabel and MinLabel name the first point holding each extreme.
	MaxLabel string `json:"maxLabel"`
	MinLabel string `json:"minLabel"`
}

// ============================================================================
// TOTALS
// ============================================================================

// Totals is the grand total plus any requested row and column totals.
// Labels without a total in the report are listed in Missing.
type Totals struct {
	GrandTotal float64            `json:"grandTotal"`
	Rows       map[string]float64 `json:"rows,omitempty"`
	Columns    map[string]float64 `json:"columns,omitempty"`
	Missing    []string           `json:"missing,omitempty"`
}
