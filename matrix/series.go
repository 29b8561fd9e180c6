package matrix

import (
	"fmt"

	"github.com/montanaflynn/stats"
	"go.uber.org/zap"
)

// ============================================================================
// SERIES: one axis pinned, the other enumerated
// ============================================================================

// Point is one labelled value of a series.
type Point struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Series is a label → value slice in source-document order.
type Series struct {
	Name   string  `json:"name"`
	Axis   Axis    `json:"axis"` // the enumerated axis
	Points []Point `json:"points"`
}

// Len returns the number of points.
func (s *Series) Len() int { return len(s.Points) }

// Get returns the value for a label.
func (s *Series) Get(label string) (float64, bool) {
	for _, pt := range s.Points {
		if pt.Label == label {
			return pt.Value, true
		}
	}
	return 0, false
}

// Labels returns the labels in order.
func (s *Series) Labels() []string {
	out := make([]string, len(s.Points))
	for i, pt := range s.Points {
		out[i] = pt.Label
	}
	return out
}

// Values returns the values in order.
func (s *Series) Values() []float64 {
	out := make([]float64, len(s.Points))
	for i, pt := range s.Points {
		out[i] = pt.Value
	}
	return out
}

// Map returns the series as an unordered map.
func (s *Series) Map() map[string]float64 {
	out := make(map[string]float64, len(s.Points))
	for _, pt := range s.Points {
		out[pt.Label] = pt.Value
	}
	return out
}

// Sum adds the series values. Empty series return an error
// from every statistic.
func (s *Series) Sum() (float64, error) { return stats.Sum(s.Values()) }

// Mean averages the series values.
func (s *Series) Mean() (float64, error) { return stats.Mean(s.Values()) }

// Max returns the largest value.
func (s *Series) Max() (float64, error) { return stats.Max(s.Values()) }

// Min returns the smallest value.
func (s *Series) Min() (float64, error) { return stats.Min(s.Values()) }

// Median returns the middle value.
func (s *Series) Median() (float64, error) { return stats.Median(s.Values()) }

// ============================================================================
// SERIES OPTIONS
// ============================================================================

// SeriesOption configures a series request.
type SeriesOption func(*seriesConfig)

type seriesConfig struct {
	within   Path
	position int
}

// Within restricts the enumerated axis to the children of a context path.
// The default is the axis root.
func Within(context Path) SeriesOption {
	return func(c *seriesConfig) {
		c.within = context
	}
}

// ValueAt selects the aggregate slot (reports may carry several metrics
// per cell, e.g. sum and record count). The default is 0.
func ValueAt(position int) SeriesOption {
	return func(c *seriesConfig) {
		c.position = position
	}
}

func applySeriesOptions(opts []SeriesOption) *seriesConfig {
	cfg := &seriesConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// ============================================================================
// SERIES ASSEMBLY
// ============================================================================

// SeriesDown pins a column path and enumerates rows.
func (p *Parser) SeriesDown(columns Path, opts ...SeriesOption) (*Series, error) {
	return p.series(Across, columns, opts)
}

// SeriesAcross pins a row path and enumerates columns.
func (p *Parser) SeriesAcross(rows Path, opts ...SeriesOption) (*Series, error) {
	return p.series(Down, rows, opts)
}

func (p *Parser) series(static Axis, staticPath Path, opts []SeriesOption) (*Series, error) {
	cfg := applySeriesOptions(opts)
	if cfg.position < 0 {
		return nil, fmt.Errorf("%w: value position %d is negative", ErrInvalidPathArgument, cfg.position)
	}

	staticKey, err := StaticKey(p.doc, static, staticPath)
	if err != nil {
		return nil, err
	}

	dynamic := static.Other()
	dynamicKeys, labels, err := DynamicKeys(p.doc, dynamic, cfg.within)
	if err != nil {
		return nil, err
	}

	keys := BuildKeys(static, staticKey, dynamicKeys)
	points := make([]Point, len(keys))
	for i, key := range keys {
		v, err := p.value(key, cfg.position)
		if err != nil {
			return nil, err
		}
		points[i] = Point{Label: labels[i], Value: v}
	}

	p.logger.Debug("resolved series",
		zap.Stringer("static", static),
		zap.String("path", staticPath.String()),
		zap.String("within", cfg.within.String()),
		zap.Int("position", cfg.position),
		zap.Int("points", len(points)))

	return &Series{
		Name:   staticPath.String(),
		Axis:   dynamic,
		Points: points,
	}, nil
}
