package render

import (
	"github.com/cghall/salesforce-reporting/matrix"
)

// ============================================================================
// CHART BUILDER: ChartConfig from series and grids
// ============================================================================

// Default color palette for chart series.
var defaultColors = []string{
	"#4F46E5", "#10B981", "#F59E0B", "#EF4444", "#8B5CF6",
	"#06B6D4", "#EC4899", "#84CC16", "#F97316", "#6366F1",
}

// Chart builds a chart from one or more series sharing an x-axis.
// chartType defaults to "bar"; nil series are skipped.
func Chart(title, chartType string, series ...*matrix.Series) *ChartConfig {
	if chartType == "" {
		chartType = "bar"
	}

	config := &ChartConfig{
		ChartType:  chartType,
		Title:      title,
		YAxis:      "Value",
		ShowLegend: len(series) > 1,
		ShowGrid:   chartType != "pie",
	}

	for _, s := range series {
		if s == nil {
			continue
		}
		if config.XAxis == "" {
			config.XAxis = axisLabel(s.Axis)
		}
		config.Series = append(config.Series, chartSeries(s))
	}
	if len(config.Series) == 0 {
		return nil
	}

	config.Colors = assignColors(len(config.Series))
	for i := range config.Series {
		config.Series[i].Color = config.Colors[i]
	}
	return config
}

// GridChart builds one chart series per grid row, columns on the x-axis.
func GridChart(title, chartType string, g *matrix.Grid) *ChartConfig {
	if g == nil || len(g.RowLabels) == 0 {
		return nil
	}
	series := make([]*matrix.Series, len(g.RowLabels))
	for i := range g.RowLabels {
		series[i] = g.Row(i)
	}
	config := Chart(title, chartType, series...)
	config.ShowLegend = true
	return config
}

func chartSeries(s *matrix.Series) ChartSeries {
	name := s.Name
	if name == "" {
		name = "Value"
	}
	points := make([]ChartPoint, 0, s.Len())
	for _, pt := range s.Points {
		points = append(points, ChartPoint{Label: pt.Label, Value: RoundTo2(pt.Value)})
	}
	return ChartSeries{Name: name, Data: points}
}

func axisLabel(a matrix.Axis) string {
	if a == matrix.Across {
		return "Column"
	}
	return "Row"
}

func assignColors(count int) []string {
	colors := make([]string, count)
	for i := 0; i < count; i++ {
		colors[i] = defaultColors[i%len(defaultColors)]
	}
	return colors
}
