package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cghall/salesforce-reporting/matrix"
	"github.com/cghall/salesforce-reporting/render"
	"github.com/cghall/salesforce-reporting/report"
	"github.com/cghall/salesforce-reporting/salesforce"
	"github.com/cghall/salesforce-reporting/server"
)

// ============================================================================
// SERIES
// ============================================================================

func (a *app) seriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "series",
		Short: "Extract a one-dimensional series from a matrix report",
	}
	cmd.AddCommand(a.seriesAxisCmd(matrix.Across), a.seriesAxisCmd(matrix.Down))
	return cmd
}

// seriesAxisCmd builds "series down" (static = Across) or "series across"
// (static = Down).
func (a *app) seriesAxisCmd(static matrix.Axis) *cobra.Command {
	var (
		columns   []string
		rows      []string
		position  int
		chartType string
	)

	use, short := "down", "Pin a column path and list the values of each row"
	if static == matrix.Down {
		use, short = "across", "Pin a row path and list the values of each column"
	}

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.parser(cmd.Context())
			if err != nil {
				return err
			}

			opts := []matrix.SeriesOption{matrix.ValueAt(position)}
			var s *matrix.Series
			if static == matrix.Across {
				s, err = p.SeriesDown(matrix.Labels(columns...), append(opts, matrix.Within(matrix.Labels(rows...)))...)
			} else {
				s, err = p.SeriesAcross(matrix.Labels(rows...), append(opts, matrix.Within(matrix.Labels(columns...)))...)
			}
			if err != nil {
				return err
			}

			r, err := seriesResult(p.Document().Metadata.Name, chartType, s)
			if err != nil {
				return err
			}
			return a.emit(cmd, r)
		},
	}

	f := cmd.Flags()
	f.StringArrayVar(&columns, "column", nil, "Column grouping label, outermost first (repeatable)")
	f.StringArrayVar(&rows, "row", nil, "Row grouping label, outermost first (repeatable)")
	f.IntVar(&position, "value", 0, "Aggregate position within each cell")
	f.StringVar(&chartType, "chart", "", "Chart type for chart-based outputs (default bar)")
	return cmd
}

// seriesResult bundles every view of a series. A statistics failure is
// returned rather than leaving the text view empty.
func seriesResult(title, chartType string, s *matrix.Series) (result, error) {
	txt, err := render.SeriesText(s)
	if err != nil {
		return result{}, fmt.Errorf("series statistics: %w", err)
	}
	return result{
		name:  s.Name,
		value: s,
		chart: render.Chart(title, chartType, s),
		table: render.SeriesTable(title, s),
		text:  txt,
	}, nil
}

// ============================================================================
// TOTALS / GRID / RECORDS
// ============================================================================

func (a *app) totalsCmd() *cobra.Command {
	var rows, columns []string

	cmd := &cobra.Command{
		Use:   "totals",
		Short: "Print the grand total and top-level row or column totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.parser(cmd.Context())
			if err != nil {
				return err
			}
			totals, err := render.BuildTotals(p, rows, columns)
			if err != nil {
				return err
			}
			return a.emit(cmd, result{name: "Totals", value: totals, totals: totals})
		},
	}

	cmd.Flags().StringArrayVar(&rows, "row", nil, "Top-level row label to total (repeatable)")
	cmd.Flags().StringArrayVar(&columns, "column", nil, "Top-level column label to total (repeatable)")
	return cmd
}

func (a *app) gridCmd() *cobra.Command {
	var (
		rows, columns []string
		position      int
		chartType     string
	)

	cmd := &cobra.Command{
		Use:   "grid",
		Short: "Cross-tabulate the children of a row path against a column path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.parser(cmd.Context())
			if err != nil {
				return err
			}
			g, err := p.Grid(matrix.Labels(rows...), matrix.Labels(columns...), position)
			if err != nil {
				return err
			}
			title := p.Document().Metadata.Name
			return a.emit(cmd, result{
				name:  "Grid",
				value: g,
				chart: render.GridChart(title, chartType, g),
				table: render.GridTable(title, g),
			})
		},
	}

	f := cmd.Flags()
	f.StringArrayVar(&rows, "row", nil, "Row context label, outermost first (repeatable)")
	f.StringArrayVar(&columns, "column", nil, "Column context label, outermost first (repeatable)")
	f.IntVar(&position, "value", 0, "Aggregate position within each cell")
	f.StringVar(&chartType, "chart", "", "Chart type for chart-based outputs (default bar)")
	return cmd
}

func (a *app) recordsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "records",
		Short: "List the detail rows of a report fetched with details",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := a.document(cmd.Context())
			if err != nil {
				return err
			}
			records, err := doc.RecordsDict()
			if err != nil {
				return err
			}
			table, err := render.RecordsTable(doc.Metadata.Name, doc)
			if err != nil {
				return err
			}
			return a.emit(cmd, result{name: "Records", value: records, table: table})
		},
	}
}

// ============================================================================
// FETCH / SERVE
// ============================================================================

func (a *app) fetchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch REPORT_ID...",
		Short: "Download reports concurrently and save each as <id>.json",
		Long: `fetch downloads every named report with detail rows, applying --filter to
each, and writes them into the --out directory (default: current directory).
Saved files can be read back with --file.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, ids []string) error {
			filters, err := report.ParseFilters(a.filters)
			if err != nil {
				return err
			}
			c, err := a.client()
			if err != nil {
				return err
			}

			docs, err := salesforce.FetchAll(cmd.Context(), c, ids, filters, a.cfg.Salesforce.MaxConcurrent)
			if err != nil {
				return err
			}

			dir := a.out
			if dir == "" {
				dir = "."
			}
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create output directory: %w", err)
			}
			for i, doc := range docs {
				path := filepath.Join(dir, ids[i]+".json")
				if err := saveDocument(path, doc); err != nil {
					return err
				}
				a.logger.Info("report saved", zap.String("id", ids[i]), zap.String("path", path))
				fmt.Fprintln(cmd.OutOrStdout(), path)
			}
			return nil
		},
	}
	return cmd
}

// saveDocument writes the report as it came off the wire so fact-map order
// survives a reload.
func saveDocument(path string, doc *report.Document) error {
	var buf bytes.Buffer
	if raw := doc.Raw(); raw != nil {
		if err := json.Indent(&buf, raw, "", "  "); err != nil {
			return fmt.Errorf("encode %s: %w", path, err)
		}
	} else {
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return fmt.Errorf("encode %s: %w", path, err)
		}
		buf.Write(data)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func (a *app) serveCmd() *cobra.Command {
	var addr, dir string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve report slicing over HTTP",
		Long: `serve exposes series, totals, grids and records as JSON endpoints.
Reports are fetched live from Salesforce, or read from --dir as <id>.json.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var fetcher salesforce.Fetcher
			if dir != "" {
				fetcher = dirFetcher{dir: dir}
			} else {
				c, err := a.client()
				if err != nil {
					return err
				}
				fetcher = c
			}

			if addr == "" {
				addr = a.cfg.Server.Addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return server.New(fetcher, server.WithLogger(a.logger)).ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from SERVER_ADDR)")
	cmd.Flags().StringVar(&dir, "dir", "", "Serve saved reports from this directory instead of Salesforce")
	return cmd
}
