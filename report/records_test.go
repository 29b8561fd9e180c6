package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecords(t *testing.T) {
	doc, err := Load("../testdata/simple_summary.json")
	require.NoError(t, err)

	records, err := doc.Records()
	require.NoError(t, err)
	require.Len(t, records, 5)
	assert.Equal(t, []string{"Acme", "2015-01-02", "$100.00"}, records[0])
	assert.Equal(t, []string{"Hooli", "2015-03-01", "$500.00"}, records[4])
}

func TestRecordsDict(t *testing.T) {
	doc, err := Load("../testdata/simple_summary.json")
	require.NoError(t, err)

	assert.Equal(t, []string{"Account Name", "Created Date", "Amount"}, doc.FieldLabels())

	records, err := doc.RecordsDict()
	require.NoError(t, err)
	require.Len(t, records, 5)
	assert.Equal(t, map[string]string{
		"Account Name": "Umbrella",
		"Created Date": "2015-02-11",
		"Amount":       "$84.50",
	}, records[3])
}

func TestRecordsRequireDetails(t *testing.T) {
	doc, err := Load("../testdata/basic_matrix.json")
	require.NoError(t, err)

	_, err = doc.Records()
	assert.ErrorIs(t, err, ErrNoDetailRows)

	_, err = doc.RecordsDict()
	assert.ErrorIs(t, err, ErrNoDetailRows)
}

func TestFieldLabelsFallBackToColumnName(t *testing.T) {
	doc := &Document{Metadata: Metadata{DetailColumns: []string{"OWNER", "AMOUNT"}}}
	doc.ExtendedMetadata.DetailColumnInfo = map[string]ColumnInfo{"AMOUNT": {Label: "Amount"}}

	assert.Equal(t, []string{"OWNER", "Amount"}, doc.FieldLabels())
}

func TestRecordsWithoutSourceOrder(t *testing.T) {
	row := func(v string) DetailRow { return DetailRow{DataCells: []DataCell{{Label: v}}} }
	doc := &Document{
		HasDetailRows: true,
		FactMap: FactMap{
			"1!T": {Rows: []DetailRow{row("second")}},
			"0!T": {Rows: []DetailRow{row("first")}},
			"T!T": {},
		},
	}

	records, err := doc.Records()
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"first"}, {"second"}}, records)
}
