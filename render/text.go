package render

import (
	"sort"

	"github.com/cghall/salesforce-reporting/matrix"
)

// ============================================================================
// TEXT BUILDER: single-value answers
// ============================================================================

// SeriesText headlines the sum of a series and attaches its statistics.
func SeriesText(s *matrix.Series) (*TextData, error) {
	if s == nil || s.Len() == 0 {
		return &TextData{Value: "0.00"}, nil
	}

	sum, err := s.Sum()
	if err != nil {
		return nil, err
	}
	mean, err := s.Mean()
	if err != nil {
		return nil, err
	}
	median, err := s.Median()
	if err != nil {
		return nil, err
	}
	max, err := s.Max()
	if err != nil {
		return nil, err
	}
	min, err := s.Min()
	if err != nil {
		return nil, err
	}

	return &TextData{
		Value:    FormatNumber(sum),
		RawValue: sum,
		Count:    s.Len(),
		Stats: &StatsData{
			Sum:      sum,
			Mean:     mean,
			Median:   median,
			Max:      max,
			Min:      min,
			MaxLabel: firstLabel(s, max),
			MinLabel: firstLabel(s, min),
		},
	}, nil
}

// ValueText wraps one number, e.g. a grand total.
func ValueText(v float64) *TextData {
	return &TextData{Value: FormatNumber(v), RawValue: v, Count: 1}
}

func firstLabel(s *matrix.Series, v float64) string {
	for _, pt := range s.Points {
		if pt.Value == v {
			return pt.Label
		}
	}
	return ""
}

// BuildTotals reads the grand total and the named top-level row and column
// totals. Labels the report does not group by are collected in Missing
// rather than failing the whole lookup; a known label without a total cell
// fails it.
func BuildTotals(p *matrix.Parser, rows, columns []string) (*Totals, error) {
	grand, err := p.GrandTotal()
	if err != nil {
		return nil, err
	}

	t := &Totals{GrandTotal: grand}
	for _, label := range rows {
		v, ok, err := p.RowTotal(label)
		if err != nil {
			return nil, err
		}
		if ok {
			if t.Rows == nil {
				t.Rows = make(map[string]float64, len(rows))
			}
			t.Rows[label] = v
		} else {
			t.Missing = append(t.Missing, "row:"+label)
		}
	}
	for _, label := range columns {
		v, ok, err := p.ColumnTotal(label)
		if err != nil {
			return nil, err
		}
		if ok {
			if t.Columns == nil {
				t.Columns = make(map[string]float64, len(columns))
			}
			t.Columns[label] = v
		} else {
			t.Missing = append(t.Missing, "column:"+label)
		}
	}
	sort.Strings(t.Missing)
	return t, nil
}
