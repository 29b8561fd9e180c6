package salesforce

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/cghall/salesforce-reporting/report"
)

// FetchAll retrieves several reports with at most limit requests in flight.
// Results are returned in ids order; the first failure cancels the rest.
func FetchAll(ctx context.Context, f Fetcher, ids []string, filters []report.Filter, limit int) ([]*report.Document, error) {
	docs := make([]*report.Document, len(ids))

	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, id := range ids {
		g.Go(func() error {
			doc, err := f.FetchReport(ctx, id, filters)
			if err != nil {
				return fmt.Errorf("fetch report %s: %w", id, err)
			}
			docs[i] = doc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return docs, nil
}
