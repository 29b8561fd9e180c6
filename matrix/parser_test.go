package matrix

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"golang.org/x/sync/errgroup"

	"github.com/cghall/salesforce-reporting/report"
)

// ============================================================================
// FIXTURES
// ============================================================================
// basic_matrix:  rows CY2014/CY2015 → {Online advert, Word of mouth}
//                cols London/Birmingham/Bristol/Sheffield → {Maths, English}
//                two aggregates per cell (sum, record count)
// nested_matrix: rows by month, cols region → school
// simple_matrix: one level each way
// ============================================================================

func loadParser(t *testing.T, name string) *Parser {
	t.Helper()
	doc, err := report.Load("../testdata/" + name + ".json")
	require.NoError(t, err)
	p, err := New(doc, WithLogger(zaptest.NewLogger(t)))
	require.NoError(t, err)
	return p
}

func TestNewRejectsNonMatrixReport(t *testing.T) {
	doc, err := report.Load("../testdata/simple_summary.json")
	require.NoError(t, err)

	_, err = New(doc)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedReportType))

	var typeErr *UnsupportedReportTypeError
	require.True(t, errors.As(err, &typeErr))
	assert.Equal(t, report.FormatMatrix, typeErr.Expected)
	assert.Equal(t, report.FormatSummary, typeErr.Actual)
	assert.Contains(t, err.Error(), "expected MATRIX, received SUMMARY")
}

func TestNewRejectsNilDocument(t *testing.T) {
	_, err := New(nil)
	assert.ErrorIs(t, err, report.ErrInvalidDocument)
}

// ============================================================================
// TOTALS
// ============================================================================

func TestGrandTotal(t *testing.T) {
	v, err := loadParser(t, "basic_matrix").GrandTotal()
	require.NoError(t, err)
	assert.Equal(t, 1290.0, v)

	v, err = loadParser(t, "simple_matrix").GrandTotal()
	require.NoError(t, err)
	assert.InDelta(t, 88.1, v, 0.001)
}

func TestColumnTotal(t *testing.T) {
	simple := loadParser(t, "simple_matrix")

	v, ok, err := simple.ColumnTotal("Birmingham")
	require.NoError(t, err)
	require.True(t, ok)
	assert.InDelta(t, 86.80, v, 0.001)

	nested := loadParser(t, "nested_matrix")
	v, ok, err = nested.ColumnTotal("Birmingham")
	require.NoError(t, err)
	require.True(t, ok)
	assert.InDelta(t, 86.32, v, 0.001)
}

func TestColumnTotalMissingLabelFallsBack(t *testing.T) {
	p := loadParser(t, "simple_matrix")

	_, ok, err := p.ColumnTotal("Nottingham")
	require.NoError(t, err)
	assert.False(t, ok)

	v, err := p.ColumnTotalOr("Nottingham", -1)
	require.NoError(t, err)
	assert.Equal(t, -1.0, v)

	v, err = p.ColumnTotalOr("Birmingham", -1)
	require.NoError(t, err)
	assert.InDelta(t, 86.80, v, 0.001)
}

func TestColumnTotalIgnoresNestedLabels(t *testing.T) {
	p := loadParser(t, "nested_matrix")

	_, ok, err := p.ColumnTotal("Holte School")
	require.NoError(t, err)
	assert.False(t, ok, "column totals only address the top level")
}

func TestRowTotal(t *testing.T) {
	p := loadParser(t, "simple_matrix")

	v, ok, err := p.RowTotal("January 2015")
	require.NoError(t, err)
	require.True(t, ok)
	assert.InDelta(t, 89.01, v, 0.001)

	_, ok, err = p.RowTotal("March 2015")
	require.NoError(t, err)
	assert.False(t, ok)

	v, err = p.RowTotalOr("March 2015", 0)
	require.NoError(t, err)
	assert.Equal(t, 0.0, v)
}

func TestTotalsMatchCompositeKeys(t *testing.T) {
	p := loadParser(t, "basic_matrix")
	doc := p.Document()

	for _, node := range doc.GroupingsAcross.Groupings {
		want, err := doc.Value("T!"+node.Key, 0)
		require.NoError(t, err)
		got, ok, err := p.ColumnTotal(node.Label)
		require.NoError(t, err)
		require.True(t, ok, node.Label)
		assert.Equal(t, want, got, node.Label)
	}
	for _, node := range doc.GroupingsDown.Groupings {
		want, err := doc.Value(node.Key+"!T", 0)
		require.NoError(t, err)
		got, ok, err := p.RowTotal(node.Label)
		require.NoError(t, err)
		require.True(t, ok, node.Label)
		assert.Equal(t, want, got, node.Label)
	}
}

func TestTotalNestedGrouping(t *testing.T) {
	p := loadParser(t, "nested_matrix")

	child, err := p.Total(Across, Labels("Birmingham", "Holte School"))
	require.NoError(t, err)
	assert.InDelta(t, 82.32, child, 0.001)

	parent, err := p.Total(Across, Label("Birmingham"))
	require.NoError(t, err)
	assert.InDelta(t, 86.32, parent, 0.001)

	_, err = p.Total(Across, Labels("Birmingham", "Hove Park School"))
	assert.ErrorIs(t, err, ErrKeyNotFound)

	_, err = p.Total(Down, Root())
	assert.ErrorIs(t, err, ErrInvalidPathArgument)
}

// ============================================================================
// SERIES
// ============================================================================

func TestSeriesDownSingleLabel(t *testing.T) {
	p := loadParser(t, "basic_matrix")

	s, err := p.SeriesDown(Label("London"))
	require.NoError(t, err)

	want := []Point{{Label: "CY2014", Value: 385}, {Label: "CY2015", Value: 339}}
	if diff := cmp.Diff(want, s.Points); diff != "" {
		t.Errorf("SeriesDown(London) mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, map[string]float64{"CY2014": 385, "CY2015": 339}, s.Map())
	assert.Equal(t, Down, s.Axis)
	assert.Equal(t, "London", s.Name)
}

func TestSeriesDownWithinRowGrouping(t *testing.T) {
	p := loadParser(t, "basic_matrix")

	s, err := p.SeriesDown(Label("Birmingham"), Within(Label("CY2015")))
	require.NoError(t, err)

	v, ok := s.Get("Online advert")
	require.True(t, ok)
	assert.Equal(t, 4.0, v)
	v, ok = s.Get("Word of mouth")
	require.True(t, ok)
	assert.Equal(t, 6.0, v)
	assert.Equal(t, []string{"Online advert", "Word of mouth"}, s.Labels())
}

func TestSeriesDownNestedColumnPath(t *testing.T) {
	p := loadParser(t, "nested_matrix")

	s, err := p.SeriesDown(Labels("Brighton & Hove", "Hove Park School"))
	require.NoError(t, err)

	v, ok := s.Get("November 2014")
	require.True(t, ok)
	assert.InDelta(t, 65.63, v, 0.001)
	assert.Equal(t, []string{"November 2014", "December 2014", "January 2015"}, s.Labels())

	parent, err := p.SeriesDown(Label("Brighton & Hove"))
	require.NoError(t, err)
	pv, _ := parent.Get("November 2014")
	assert.NotEqual(t, v, pv, "child path must resolve to the child composite key")
}

func TestSeriesDownMultiLevelWithValuePosition(t *testing.T) {
	p := loadParser(t, "basic_matrix")

	counts, err := p.SeriesDown(Labels("Sheffield", "Maths"), Within(Label("CY2015")), ValueAt(1))
	require.NoError(t, err)
	assert.Equal(t, []float64{4, 5}, counts.Values())

	sums, err := p.SeriesDown(Labels("Sheffield", "Maths"), Within(Label("CY2015")))
	require.NoError(t, err)
	assert.Equal(t, []float64{17, 24}, sums.Values())
}

func TestSeriesAcross(t *testing.T) {
	p := loadParser(t, "basic_matrix")

	s, err := p.SeriesAcross(Label("CY2014"))
	require.NoError(t, err)
	assert.Equal(t, []string{"London", "Birmingham", "Bristol", "Sheffield"}, s.Labels())
	assert.Equal(t, []float64{385, 124, 108, 92}, s.Values())
	assert.Equal(t, Across, s.Axis)

	inner, err := p.SeriesAcross(Label("CY2015"), Within(Label("Sheffield")))
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"Maths": 41, "English": 67}, inner.Map())

	nested, err := p.SeriesAcross(Labels("CY2014", "Online advert"), Within(Label("Sheffield")))
	require.NoError(t, err)
	assert.Len(t, nested.Points, 2)
}

func TestSeriesDuality(t *testing.T) {
	p := loadParser(t, "basic_matrix")
	doc := p.Document()

	for _, col := range doc.GroupingsAcross.Groupings {
		down, err := p.SeriesDown(Label(col.Label))
		require.NoError(t, err)
		for _, row := range doc.GroupingsDown.Groupings {
			across, err := p.SeriesAcross(Label(row.Label))
			require.NoError(t, err)

			d, ok := down.Get(row.Label)
			require.True(t, ok)
			a, ok := across.Get(col.Label)
			require.True(t, ok)
			assert.Equal(t, d, a, "%s x %s", row.Label, col.Label)
		}
	}
}

func TestSeriesIsIdempotentAndConcurrent(t *testing.T) {
	p := loadParser(t, "basic_matrix")

	first, err := p.SeriesDown(Labels("Sheffield", "Maths"), Within(Label("CY2015")), ValueAt(1))
	require.NoError(t, err)

	var g errgroup.Group
	results := make([]*Series, 32)
	for i := range results {
		g.Go(func() error {
			s, err := p.SeriesDown(Labels("Sheffield", "Maths"), Within(Label("CY2015")), ValueAt(1))
			results[i] = s
			return err
		})
	}
	require.NoError(t, g.Wait())

	for _, s := range results {
		if diff := cmp.Diff(first, s); diff != "" {
			t.Fatalf("repeated call differs (-first +got):\n%s", diff)
		}
	}
}

func TestSeriesLookupFailures(t *testing.T) {
	p := loadParser(t, "basic_matrix")

	tests := []struct {
		name string
		call func() error
		want error
	}{
		{"unknown column", func() error { _, err := p.SeriesDown(Label("Leeds")); return err }, ErrKeyNotFound},
		{"unknown parent column", func() error { _, err := p.SeriesDown(Labels("Leeds", "Maths")); return err }, ErrGroupingNotFound},
		{"unknown child column", func() error { _, err := p.SeriesDown(Labels("Sheffield", "Art")); return err }, ErrKeyNotFound},
		{"unknown row context", func() error { _, err := p.SeriesDown(Label("London"), Within(Label("CY2013"))); return err }, ErrGroupingNotFound},
		{"unknown row", func() error { _, err := p.SeriesAcross(Label("CY2013")); return err }, ErrKeyNotFound},
		{"root static path", func() error { _, err := p.SeriesAcross(Root()); return err }, ErrInvalidPathArgument},
		{"negative position", func() error { _, err := p.SeriesDown(Label("London"), ValueAt(-1)); return err }, ErrInvalidPathArgument},
		{"position out of range", func() error { _, err := p.SeriesDown(Label("London"), ValueAt(2)); return err }, ErrAggregateNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.call(), tt.want)
		})
	}
}

func TestLookupErrorNamesTheFailingLevel(t *testing.T) {
	p := loadParser(t, "basic_matrix")

	_, err := p.SeriesDown(Labels("Leeds", "Maths"))
	var lookup *LookupError
	require.True(t, errors.As(err, &lookup))
	assert.Equal(t, Across, lookup.Axis)
	assert.Equal(t, "Leeds", lookup.Label)
	assert.Equal(t, 1, lookup.Level)
}

func TestSeriesMissingAggregate(t *testing.T) {
	doc, err := report.Decode([]byte(`{
		"hasDetailRows": false,
		"reportMetadata": {"reportFormat": "MATRIX"},
		"groupingsDown": {"groupings": [{"label": "A", "key": "0"}, {"label": "B", "key": "1"}]},
		"groupingsAcross": {"groupings": [{"label": "X", "key": "0"}]},
		"factMap": {
			"0!0": {"aggregates": [{"label": "1", "value": 1}]},
			"T!T": {"aggregates": [{"label": "1", "value": 1}]}
		}
	}`))
	require.NoError(t, err)
	p, err := New(doc)
	require.NoError(t, err)

	_, err = p.SeriesDown(Label("X"))
	require.ErrorIs(t, err, ErrAggregateNotFound)

	var aggErr *AggregateError
	require.True(t, errors.As(err, &aggErr))
	assert.Equal(t, "1!0", aggErr.Key.String())

	_, ok, err := p.ColumnTotal("X")
	assert.ErrorIs(t, err, ErrAggregateNotFound, "a known label without a T!0 cell is not defaulted")
	assert.False(t, ok)

	_, err = p.ColumnTotalOr("X", -1)
	assert.ErrorIs(t, err, ErrAggregateNotFound)

	_, err = p.RowTotalOr("A", -1)
	assert.ErrorIs(t, err, ErrAggregateNotFound)
}

// ============================================================================
// GRID + CELL
// ============================================================================

func TestGrid(t *testing.T) {
	p := loadParser(t, "basic_matrix")

	g, err := p.Grid(Root(), Root(), 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"CY2014", "CY2015"}, g.RowLabels)
	assert.Equal(t, []string{"London", "Birmingham", "Bristol", "Sheffield"}, g.ColumnLabels)
	assert.Equal(t, [][]float64{{385, 124, 108, 92}, {339, 10, 124, 108}}, g.Values)

	across, err := p.SeriesAcross(Label("CY2015"))
	require.NoError(t, err)
	assert.Equal(t, across.Points, g.Row(1).Points)
}

func TestGridBelowContexts(t *testing.T) {
	p := loadParser(t, "basic_matrix")

	g, err := p.Grid(Label("CY2015"), Label("Birmingham"), 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"Online advert", "Word of mouth"}, g.RowLabels)
	assert.Equal(t, []string{"Maths", "English"}, g.ColumnLabels)
	assert.Equal(t, 4.0, g.Values[0][0]+g.Values[0][1])

	_, err = p.Grid(Label("CY2015"), Label("Leeds"), 0)
	assert.ErrorIs(t, err, ErrGroupingNotFound)
}

func TestCell(t *testing.T) {
	p := loadParser(t, "basic_matrix")

	v, err := p.Cell(Labels("CY2015", "Online advert"), Label("Birmingham"), 0)
	require.NoError(t, err)
	assert.Equal(t, 4.0, v)

	v, err = p.Cell(Label("CY2014"), Label("London"), 1)
	require.NoError(t, err)
	assert.Equal(t, 8.0, v)

	_, err = p.Cell(Label("CY2014"), Root(), 0)
	assert.ErrorIs(t, err, ErrInvalidPathArgument)
}
