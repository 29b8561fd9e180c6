package matrix

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cghall/salesforce-reporting/report"
)

// threeLevel builds year → quarter → month on the column axis. Labels repeat
// across branches ("Q1" under both years) so a wrong walk order shows up.
func threeLevel() *report.Document {
	month := func(label, key string) report.GroupingNode {
		return report.GroupingNode{Label: label, Key: key}
	}
	return &report.Document{
		Metadata: report.Metadata{ReportFormat: report.FormatMatrix},
		GroupingsAcross: report.Groupings{Groupings: []report.GroupingNode{
			{Label: "2014", Key: "0", Groupings: []report.GroupingNode{
				{Label: "Q1", Key: "0_0", Groupings: []report.GroupingNode{month("Jan", "0_0_0"), month("Feb", "0_0_1")}},
				{Label: "Q2", Key: "0_1", Groupings: []report.GroupingNode{month("Apr", "0_1_0"), month("May", "0_1_1")}},
			}},
			{Label: "2015", Key: "1", Groupings: []report.GroupingNode{
				{Label: "Q1", Key: "1_0", Groupings: []report.GroupingNode{month("Jan", "1_0_0"), month("Mar", "1_0_1")}},
				{Label: "Q2", Key: "1_1", Groupings: []report.GroupingNode{month("May", "1_1_0"), month("Jun", "1_1_1")}},
			}},
		}},
	}
}

func TestNavigateDepthOneReturnsRoot(t *testing.T) {
	doc := threeLevel()
	root := doc.GroupingsAcross.Groupings

	got, err := navigate(Across, root, Root(), 1)
	require.NoError(t, err)
	assert.Equal(t, root, got)

	got, err = navigate(Across, root, Label("anything"), 0)
	require.NoError(t, err)
	assert.Equal(t, root, got)
}

func TestNavigateWalksTopDown(t *testing.T) {
	doc := threeLevel()

	siblings, err := navigate(Across, doc.GroupingsAcross.Groupings, Labels("2015", "Q2", "May"), 3)
	require.NoError(t, err)
	require.Len(t, siblings, 2)
	assert.Equal(t, "1_1_0", siblings[0].Key)
}

func TestNavigateRejectsShortPath(t *testing.T) {
	doc := threeLevel()

	_, err := navigate(Across, doc.GroupingsAcross.Groupings, Label("2015"), 3)
	assert.ErrorIs(t, err, ErrInvalidPathArgument)
}

func TestStaticKey(t *testing.T) {
	doc := threeLevel()

	tests := []struct {
		path Path
		want string
	}{
		{Label("2014"), "0"},
		{Labels("2015", "Q1"), "1_0"},
		{Labels("2015", "Q2", "May"), "1_1_0"},
		{Labels("2014", "Q2", "May"), "0_1_1"},
	}
	for _, tt := range tests {
		t.Run(tt.path.String(), func(t *testing.T) {
			key, err := StaticKey(doc, Across, tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, key.String())
			assert.False(t, key.IsTotal())
		})
	}
}

func TestStaticKeyFailures(t *testing.T) {
	doc := threeLevel()

	_, err := StaticKey(doc, Across, Labels("2015", "Q2", "Apr"))
	assert.ErrorIs(t, err, ErrKeyNotFound)

	_, err = StaticKey(doc, Across, Labels("2015", "Q3", "Jul"))
	assert.ErrorIs(t, err, ErrGroupingNotFound)

	_, err = StaticKey(doc, Down, Label("2015"))
	assert.ErrorIs(t, err, ErrKeyNotFound, "row axis is empty")
}

func TestDynamicKeys(t *testing.T) {
	doc := threeLevel()

	keys, labels, err := DynamicKeys(doc, Across, Root())
	require.NoError(t, err)
	assert.Equal(t, []string{"2014", "2015"}, labels)
	assert.Equal(t, []KeyFragment{Fragment("0"), Fragment("1")}, keys)

	keys, labels, err = DynamicKeys(doc, Across, Labels("2015", "Q1"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Jan", "Mar"}, labels)
	assert.Equal(t, []KeyFragment{Fragment("1_0_0"), Fragment("1_0_1")}, keys)

	keys, labels, err = DynamicKeys(doc, Across, Labels("2015", "Q1", "Jan"))
	require.NoError(t, err)
	assert.Empty(t, keys, "leaf has no children")
	assert.Empty(t, labels)

	_, _, err = DynamicKeys(doc, Across, Label("2016"))
	assert.ErrorIs(t, err, ErrGroupingNotFound)
}

func TestBuildKeysPlacesFragmentsByStaticAxis(t *testing.T) {
	dynamic := []KeyFragment{Fragment("0"), Fragment("1")}

	down := BuildKeys(Across, Fragment("3"), dynamic)
	assert.Equal(t, "0!3", down[0].String())
	assert.Equal(t, "1!3", down[1].String())

	across := BuildKeys(Down, Fragment("3"), dynamic)
	assert.Equal(t, "3!0", across[0].String())
	assert.Equal(t, "3!1", across[1].String())
}

func TestCompositeKeyTotals(t *testing.T) {
	assert.Equal(t, "T!T", GrandTotal.String())
	assert.Equal(t, report.GrandTotalKey, GrandTotal.String())
	assert.Equal(t, "T!2", compose(Across, Fragment("2"), Total).String())
	assert.Equal(t, "5!T", compose(Down, Fragment("5"), Total).String())
	assert.True(t, Total.IsTotal())
	assert.False(t, Fragment("T").IsTotal(), "a literal T key is not the sentinel")
}
