package matrix

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cghall/salesforce-reporting/report"
)

// ============================================================================
// PARSER: matrix report entry point
// ============================================================================
// Pipeline for every slice:
//   1. Resolve the static key from the pinned path (StaticKey)
//   2. Enumerate the dynamic keys + labels below the context (DynamicKeys)
//   3. Build composite keys (BuildKeys)
//   4. Read the aggregate slot for each key
//
// A Parser never mutates its document; concurrent calls are safe.
// ============================================================================

// Option configures a Parser.
type Option func(*config)

type config struct {
	logger *zap.Logger
}

// WithLogger attaches a logger for resolution tracing (debug level).
func WithLogger(logger *zap.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func applyOptions(opts []Option) *config {
	cfg := &config{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Parser slices one matrix report.
type Parser struct {
	doc    *report.Document
	logger *zap.Logger
}

// New checks the document is a matrix report and wraps it.
func New(doc *report.Document, opts ...Option) (*Parser, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: nil document", report.ErrInvalidDocument)
	}
	if doc.Format() != report.FormatMatrix {
		return nil, &UnsupportedReportTypeError{Expected: report.FormatMatrix, Actual: doc.Format()}
	}

	cfg := applyOptions(opts)
	return &Parser{doc: doc, logger: cfg.logger}, nil
}

// Document returns the wrapped report.
func (p *Parser) Document() *report.Document { return p.doc }

// value reads one aggregate slot.
func (p *Parser) value(key CompositeKey, position int) (float64, error) {
	v, err := p.doc.Value(key.String(), position)
	if err != nil {
		return 0, &AggregateError{Key: key, Position: position, Cause: err}
	}
	return v, nil
}
