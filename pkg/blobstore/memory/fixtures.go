package memory

import (
	"bytes"
	"fmt"

	"github.com/parquet-go/parquet-go"
	"github.com/xuri/excelize/v2"
)

// Table is a named header row used to build workbook and parquet fixtures.
type Table struct {
	Name    string
	Columns []string
}

// SheetWorkbook builds an .xlsx where every table is its own sheet with the columns in row 1.
func SheetWorkbook(tables []Table) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	for i, t := range tables {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", t.Name); err != nil {
				return nil, err
			}
		} else if _, err := f.NewSheet(t.Name); err != nil {
			return nil, err
		}

		if err := setHeader(f, t.Name, 1, t.Columns); err != nil {
			return nil, err
		}
	}

	return writeWorkbook(f)
}

// NamedTableWorkbook builds an .xlsx holding every table as a named Excel table on one sheet,
// stacked vertically with a blank row between them.
func NamedTableWorkbook(sheet string, tables []Table) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	row := 1

	for _, t := range tables {
		if err := setHeader(f, sheet, row, t.Columns); err != nil {
			return nil, err
		}

		last, err := excelize.CoordinatesToCellName(len(t.Columns), row+1)
		if err != nil {
			return nil, err
		}

		if err := f.AddTable(sheet, &excelize.Table{Range: fmt.Sprintf("A%d:%s", row, last), Name: t.Name}); err != nil {
			return nil, fmt.Errorf("adding table %s: %w", t.Name, err)
		}

		row += 3
	}

	return writeWorkbook(f)
}

// ParquetFile builds an empty parquet file whose schema has one string column per name.
func ParquetFile(name string, columns []string) ([]byte, error) {
	group := make(parquet.Group, len(columns))
	for _, c := range columns {
		group[c] = parquet.String()
	}

	var buf bytes.Buffer

	w := parquet.NewWriter(&buf, parquet.NewSchema(name, group))
	if err := w.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func setHeader(f *excelize.File, sheet string, row int, columns []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}

	header := make([]any, len(columns))
	for i, c := range columns {
		header[i] = c
	}

	return f.SetSheetRow(sheet, cell, &header)
}

func writeWorkbook(f *excelize.File) ([]byte, error) {
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
