package salesforce

import (
	"encoding/json"
	"fmt"

	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"

	"github.com/cghall/salesforce-reporting/report"
)

var (
	metadataPath = jp.MustParseString("$.reportMetadata")
	filtersPath  = jp.MustParseString("$.reportMetadata.reportFilters")
)

// appendFilters adds filters to the reportFilters of a describe response and
// returns the document to POST back. Everything else in the describe body is
// passed through untouched.
func appendFilters(describe []byte, filters []report.Filter) ([]byte, error) {
	doc, err := oj.Parse(describe)
	if err != nil {
		return nil, fmt.Errorf("failed to parse describe response: %w", err)
	}
	if _, ok := metadataPath.First(doc).(map[string]any); !ok {
		return nil, fmt.Errorf("describe response has no reportMetadata object")
	}

	var existing []any
	switch v := filtersPath.First(doc).(type) {
	case nil:
	case []any:
		existing = v
	default:
		return nil, fmt.Errorf("describe reportFilters is %T, expected a list", v)
	}

	for _, f := range filters {
		existing = append(existing, map[string]any{
			"column":   f.Column,
			"operator": f.Operator,
			"value":    f.Value,
		})
	}
	if err := filtersPath.Set(doc, existing); err != nil {
		return nil, fmt.Errorf("failed to set reportFilters: %w", err)
	}

	out, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode report metadata: %w", err)
	}
	return out, nil
}
