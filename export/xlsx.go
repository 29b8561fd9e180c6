package export

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/cghall/salesforce-reporting/render"
)

// Sheet is one worksheet of a workbook. Cells that parse as numbers are
// written as numbers so spreadsheet formulas work on them.
type Sheet struct {
	Name string
	Rows [][]string
}

// ChartSheet lays a chart out the same way as WriteChartCSV.
func ChartSheet(name string, chart *render.ChartConfig) Sheet {
	return Sheet{Name: name, Rows: chartRows(chart)}
}

// TableSheet lays a table out the same way as WriteTableCSV.
func TableSheet(name string, table *render.TableData) Sheet {
	return Sheet{Name: name, Rows: tableRows(table)}
}

// TotalsSheet lays totals out the same way as WriteTotalsCSV.
func TotalsSheet(name string, t *render.Totals) Sheet {
	return Sheet{Name: name, Rows: totalsRows(t)}
}

// WriteXLSX writes the sheets as one workbook. The first row of every sheet
// is bold.
func WriteXLSX(w io.Writer, sheets ...Sheet) error {
	if len(sheets) == 0 {
		return fmt.Errorf("write xlsx: no sheets")
	}

	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}

	used := make(map[string]bool, len(sheets))
	for i, sheet := range sheets {
		name := sheetName(sheet.Name, i, used)
		if i == 0 {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				return fmt.Errorf("write xlsx: %w", err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("write xlsx: %w", err)
		}

		for r, row := range sheet.Rows {
			for c, v := range row {
				cell, err := excelize.CoordinatesToCellName(c+1, r+1)
				if err != nil {
					return fmt.Errorf("write xlsx: %w", err)
				}
				if err := f.SetCellValue(name, cell, cellValue(v, r)); err != nil {
					return fmt.Errorf("write xlsx: %w", err)
				}
			}
		}

		if len(sheet.Rows) > 0 && len(sheet.Rows[0]) > 0 {
			last, _ := excelize.CoordinatesToCellName(len(sheet.Rows[0]), 1)
			if err := f.SetCellStyle(name, "A1", last, bold); err != nil {
				return fmt.Errorf("write xlsx: %w", err)
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

// cellValue keeps headers as text and converts numeric body cells.
func cellValue(v string, row int) any {
	if row == 0 {
		return v
	}
	if f, err := strconv.ParseFloat(strings.ReplaceAll(v, ",", ""), 64); err == nil {
		return f
	}
	return v
}

// sheetName applies Excel's naming rules: at most 31 characters, no
// []:*?/\ and unique within the workbook.
func sheetName(name string, index int, used map[string]bool) string {
	name = strings.Map(func(r rune) rune {
		if strings.ContainsRune(`[]:*?/\`, r) {
			return '_'
		}
		return r
	}, strings.TrimSpace(name))
	if name == "" {
		name = fmt.Sprintf("Sheet%d", index+1)
	}
	if runes := []rune(name); len(runes) > 31 {
		name = string(runes[:31])
	}
	base := name
	for n := 2; used[strings.ToLower(name)]; n++ {
		suffix := fmt.Sprintf(" (%d)", n)
		runes := []rune(base)
		if len(runes)+len(suffix) > 31 {
			runes = runes[:31-len(suffix)]
		}
		name = string(runes) + suffix
	}
	used[strings.ToLower(name)] = true
	return name
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
