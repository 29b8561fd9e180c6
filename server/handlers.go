package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/cghall/salesforce-reporting/export"
	"github.com/cghall/salesforce-reporting/matrix"
	"github.com/cghall/salesforce-reporting/render"
	"github.com/cghall/salesforce-reporting/report"
	"github.com/cghall/salesforce-reporting/salesforce"
)

// errorResponse is the body of every non-2xx reply.
type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ============================================================================
// SERIES
// ============================================================================

func (s *Server) handleSeriesDown(w http.ResponseWriter, r *http.Request) {
	s.handleSeries(w, r, matrix.Across)
}

func (s *Server) handleSeriesAcross(w http.ResponseWriter, r *http.Request) {
	s.handleSeries(w, r, matrix.Down)
}

// handleSeries pins the path on the static axis ("column" params for a
// series down, "row" params for a series across) and uses the other axis's
// params as the enumeration context.
func (s *Server) handleSeries(w http.ResponseWriter, r *http.Request, static matrix.Axis) {
	q := r.URL.Query()
	position, err := valuePosition(q.Get("value"))
	if err != nil {
		s.fail(w, r, http.StatusBadRequest, err)
		return
	}

	p, ok := s.parser(w, r)
	if !ok {
		return
	}

	var series *matrix.Series
	opts := []matrix.SeriesOption{matrix.ValueAt(position)}
	if static == matrix.Across {
		series, err = p.SeriesDown(matrix.Labels(q["column"]...), append(opts, matrix.Within(matrix.Labels(q["row"]...)))...)
	} else {
		series, err = p.SeriesAcross(matrix.Labels(q["row"]...), append(opts, matrix.Within(matrix.Labels(q["column"]...)))...)
	}
	if err != nil {
		s.fail(w, r, statusFor(err), err)
		return
	}

	title := p.Document().Metadata.Name
	switch format(r) {
	case "chart":
		writeJSON(w, http.StatusOK, render.Chart(title, q.Get("chart"), series))
	case "table":
		writeJSON(w, http.StatusOK, render.SeriesTable(title, series))
	case "text":
		txt, err := render.SeriesText(series)
		if err != nil {
			s.fail(w, r, http.StatusUnprocessableEntity, err)
			return
		}
		writeJSON(w, http.StatusOK, txt)
	case "csv":
		w.Header().Set("Content-Type", "text/csv")
		if err := export.WriteChartCSV(w, render.Chart(title, "", series)); err != nil {
			s.logger.Warn("csv write failed", zap.Error(err))
		}
	default:
		writeJSON(w, http.StatusOK, series)
	}
}

// ============================================================================
// TOTALS / GRID / RECORDS
// ============================================================================

func (s *Server) handleTotals(w http.ResponseWriter, r *http.Request) {
	p, ok := s.parser(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	totals, err := render.BuildTotals(p, q["row"], q["column"])
	if err != nil {
		s.fail(w, r, statusFor(err), err)
		return
	}

	if format(r) == "csv" {
		w.Header().Set("Content-Type", "text/csv")
		if err := export.WriteTotalsCSV(w, totals); err != nil {
			s.logger.Warn("csv write failed", zap.Error(err))
		}
		return
	}
	writeJSON(w, http.StatusOK, totals)
}

func (s *Server) handleGrid(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	position, err := valuePosition(q.Get("value"))
	if err != nil {
		s.fail(w, r, http.StatusBadRequest, err)
		return
	}

	p, ok := s.parser(w, r)
	if !ok {
		return
	}

	grid, err := p.Grid(matrix.Labels(q["row"]...), matrix.Labels(q["column"]...), position)
	if err != nil {
		s.fail(w, r, statusFor(err), err)
		return
	}

	title := p.Document().Metadata.Name
	switch format(r) {
	case "chart":
		writeJSON(w, http.StatusOK, render.GridChart(title, q.Get("chart"), grid))
	case "table":
		writeJSON(w, http.StatusOK, render.GridTable(title, grid))
	case "csv":
		w.Header().Set("Content-Type", "text/csv")
		if err := export.WriteTableCSV(w, render.GridTable(title, grid)); err != nil {
			s.logger.Warn("csv write failed", zap.Error(err))
		}
	default:
		writeJSON(w, http.StatusOK, grid)
	}
}

func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.document(w, r)
	if !ok {
		return
	}

	records, err := doc.RecordsDict()
	if err != nil {
		s.fail(w, r, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

// ============================================================================
// HELPERS
// ============================================================================

// document fetches the report named in the URL, with any filter params.
func (s *Server) document(w http.ResponseWriter, r *http.Request) (*report.Document, bool) {
	filters, err := report.ParseFilters(r.URL.Query()["filter"])
	if err != nil {
		s.fail(w, r, statusFor(err), err)
		return nil, false
	}

	id := chi.URLParam(r, "id")
	doc, err := s.fetcher.FetchReport(r.Context(), id, filters)
	if err != nil {
		s.fail(w, r, fetchStatus(err), err)
		return nil, false
	}
	return doc, true
}

func (s *Server) parser(w http.ResponseWriter, r *http.Request) (*matrix.Parser, bool) {
	doc, ok := s.document(w, r)
	if !ok {
		return nil, false
	}
	p, err := matrix.New(doc, matrix.WithLogger(s.logger))
	if err != nil {
		s.fail(w, r, statusFor(err), err)
		return nil, false
	}
	return p, true
}

func valuePosition(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: value must be a non-negative integer, got %q", matrix.ErrInvalidPathArgument, raw)
	}
	return n, nil
}

func format(r *http.Request) string {
	return strings.ToLower(r.URL.Query().Get("format"))
}

// statusFor maps slicing errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, matrix.ErrInvalidPathArgument),
		errors.Is(err, report.ErrInvalidFilter):
		return http.StatusBadRequest
	case errors.Is(err, matrix.ErrUnsupportedReportType),
		errors.Is(err, report.ErrNoDetailRows):
		return http.StatusUnprocessableEntity
	case errors.Is(err, matrix.ErrGroupingNotFound),
		errors.Is(err, matrix.ErrKeyNotFound),
		errors.Is(err, matrix.ErrAggregateNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// fetchStatus maps fetch errors: an unknown report id is a 404, a payload
// that is not a report is a 422, anything else on the way to Salesforce is a
// bad gateway.
func fetchStatus(err error) int {
	var apiErr *salesforce.APIError
	switch {
	case errors.As(err, &apiErr) && apiErr.NotFound():
		return http.StatusNotFound
	case errors.Is(err, report.ErrInvalidDocument):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadGateway
	}
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, status int, err error) {
	level := s.logger.Debug
	if status >= http.StatusInternalServerError {
		level = s.logger.Warn
	}
	level("request failed",
		zap.String("path", r.URL.Path),
		zap.Int("status", status),
		zap.Error(err))
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
