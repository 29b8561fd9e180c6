package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/cghall/salesforce-reporting/matrix"
	"github.com/cghall/salesforce-reporting/report"
	"github.com/cghall/salesforce-reporting/salesforce"
)

var errNoSource = errors.New("one of --file or --report-id is required")

// client builds a Salesforce client from the loaded configuration.
func (a *app) client() (*salesforce.Client, error) {
	auth, err := a.cfg.Salesforce.Authenticator()
	if err != nil {
		return nil, err
	}
	opts := append(a.cfg.Salesforce.ClientOptions(), salesforce.WithLogger(a.logger))
	return salesforce.NewClient(auth, opts...), nil
}

// document reads the report named by --file or --report-id.
func (a *app) document(ctx context.Context) (*report.Document, error) {
	filters, err := report.ParseFilters(a.filters)
	if err != nil {
		return nil, err
	}

	switch {
	case a.file != "" && a.reportID != "":
		return nil, errors.New("--file and --report-id are mutually exclusive")
	case a.file != "":
		if len(filters) > 0 {
			a.logger.Warn("filters are ignored for saved reports", zap.String("file", a.file))
		}
		return report.Load(a.file)
	case a.reportID != "":
		c, err := a.client()
		if err != nil {
			return nil, err
		}
		return c.FetchReport(ctx, a.reportID, filters)
	default:
		return nil, errNoSource
	}
}

func (a *app) parser(ctx context.Context) (*matrix.Parser, error) {
	doc, err := a.document(ctx)
	if err != nil {
		return nil, err
	}
	return matrix.New(doc, matrix.WithLogger(a.logger))
}

// dirFetcher serves saved reports from a directory as <id>.json. Filters
// cannot be applied to saved data and are ignored.
type dirFetcher struct {
	dir string
}

func (d dirFetcher) FetchReport(_ context.Context, id string, _ []report.Filter) (*report.Document, error) {
	if id == "" || strings.ContainsAny(id, `/\`) || strings.HasPrefix(id, ".") {
		return nil, &salesforce.APIError{Status: http.StatusNotFound, Code: "NOT_FOUND", Message: fmt.Sprintf("invalid report id %q", id)}
	}
	path := filepath.Join(d.dir, id+".json")
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, &salesforce.APIError{Status: http.StatusNotFound, Code: "NOT_FOUND", Message: fmt.Sprintf("no saved report %q", id)}
	}
	return report.Load(path)
}
