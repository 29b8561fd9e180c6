package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/tidwall/gjson"
)

// ============================================================================
// DECODE: raw Analytics API JSON → Document
// ============================================================================
// gjson validates the envelope and records the fact-map key order (Go maps
// lose it); encoding/json fills the typed tree.
// ============================================================================

var (
	// ErrInvalidDocument is returned when the payload is not a report.
	ErrInvalidDocument = errors.New("invalid report document")
	// ErrMissingAggregate is returned when a fact cell or slot is absent.
	ErrMissingAggregate = errors.New("aggregate not found")
)

// Decode parses an Analytics API report response.
func Decode(data []byte) (*Document, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: malformed JSON", ErrInvalidDocument)
	}

	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, fmt.Errorf("%w: expected a JSON object, got %s", ErrInvalidDocument, root.Type)
	}
	if format := root.Get("reportMetadata.reportFormat"); !format.Exists() || format.String() == "" {
		return nil, fmt.Errorf("%w: reportMetadata.reportFormat is missing", ErrInvalidDocument)
	}

	doc := &Document{raw: append([]byte(nil), data...)}
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}

	facts := root.Get("factMap")
	if facts.IsObject() {
		doc.factOrder = make([]string, 0, len(doc.FactMap))
		facts.ForEach(func(key, _ gjson.Result) bool {
			doc.factOrder = append(doc.factOrder, key.String())
			return true
		})
	}

	return doc, nil
}

// Load reads and decodes a report saved to disk.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read report file: %w", err)
	}
	doc, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Value reads the aggregate at position in the cell stored under key.
func (d *Document) Value(key string, position int) (float64, error) {
	cell, ok := d.FactMap[key]
	if !ok {
		return 0, fmt.Errorf("%w: no fact cell %q", ErrMissingAggregate, key)
	}
	if position < 0 || position >= len(cell.Aggregates) {
		return 0, fmt.Errorf("%w: cell %q has %d aggregates, position %d requested",
			ErrMissingAggregate, key, len(cell.Aggregates), position)
	}
	return cell.Aggregates[position].Value, nil
}

// GrandTotal returns the first aggregate of the T!T cell. It works for every
// report format.
func (d *Document) GrandTotal() (float64, error) {
	return d.Value(GrandTotalKey, 0)
}
