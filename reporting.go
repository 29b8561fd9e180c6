// Package reporting slices Salesforce matrix reports.
//
// Usage:
//
//	import (
//	    "github.com/cghall/salesforce-reporting/matrix"
//	    "github.com/cghall/salesforce-reporting/salesforce"
//	)
//
//	client := salesforce.NewClient(&salesforce.SOAPLogin{...})
//	doc, err := client.FetchReport(ctx, "00O...", nil)
//	m, err := matrix.New(doc)
//	series, err := m.SeriesDown(matrix.Labels("Sheffield", "Maths"),
//	    matrix.Within(matrix.Label("CY2015")),
//	    matrix.ValueAt(1),
//	)
//
// The report package holds the decoded document. The matrix package resolves
// row/column grouping paths into fact-map keys and reads pre-aggregated
// values out of it. Nothing in matrix performs I/O; fetching is handled by
// the salesforce package, presentation by render and export.
package reporting
