package datafeed

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

var errLegacyWorkbook = errors.New("legacy .xls workbooks are not supported")

// sheetTables treats every sheet of the workbook as one table whose columns are the non-empty
// cells of its first row.
func sheetTables(data []byte, folder string) ([]Table, []Failure, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	var (
		tables   []Table
		failures []Failure
	)

	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			failures = append(failures, Failure{Path: folder + "#" + sheet, Err: err})
			continue
		}

		var header []string
		if len(rows) > 0 {
			header = nonEmpty(rows[0])
		}

		tables = append(tables, Table{
			Path:    folder,
			Source:  SourceExcel,
			Sheet:   sheet,
			Name:    sheet,
			Columns: header,
		})
	}

	return tables, failures, nil
}

// namedTables returns every named Excel table of the workbook; its columns are the non-empty
// header cells of the table range.
func namedTables(data []byte, folder string) ([]Table, []Failure, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	var (
		tables   []Table
		failures []Failure
	)

	for _, sheet := range f.GetSheetList() {
		defined, err := f.GetTables(sheet)
		if err != nil {
			failures = append(failures, Failure{Path: folder + "#" + sheet, Err: err})
			continue
		}

		for _, t := range defined {
			columns, err := headerOf(f, sheet, t.Range)
			if err != nil {
				failures = append(failures, Failure{Path: folder + "#" + t.Name, Err: err})
				continue
			}

			tables = append(tables, Table{
				Path:    folder,
				Source:  SourceExcel,
				Sheet:   sheet,
				Name:    t.Name,
				Columns: columns,
			})
		}
	}

	return tables, failures, nil
}

func headerOf(f *excelize.File, sheet, ref string) ([]string, error) {
	bounds := strings.Split(strings.ReplaceAll(ref, "$", ""), ":")
	if len(bounds) != 2 {
		return nil, fmt.Errorf("invalid table range %q", ref)
	}

	minCol, minRow, err := excelize.CellNameToCoordinates(bounds[0])
	if err != nil {
		return nil, err
	}

	maxCol, _, err := excelize.CellNameToCoordinates(bounds[1])
	if err != nil {
		return nil, err
	}

	var columns []string

	for col := minCol; col <= maxCol; col++ {
		cell, err := excelize.CoordinatesToCellName(col, minRow)
		if err != nil {
			return nil, err
		}

		v, err := f.GetCellValue(sheet, cell)
		if err != nil {
			return nil, err
		}

		if v = strings.TrimSpace(v); v != "" {
			columns = append(columns, v)
		}
	}

	return columns, nil
}

func nonEmpty(cells []string) []string {
	out := make([]string, 0, len(cells))

	for _, c := range cells {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}

	return out
}
