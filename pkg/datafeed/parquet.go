package datafeed

import (
	"bytes"

	"github.com/parquet-go/parquet-go"
)

// parquetColumns returns the top-level field names of the file's schema.
func parquetColumns(data []byte) ([]string, error) {
	f, err := parquet.OpenFile(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}

	fields := f.Schema().Fields()
	columns := make([]string, 0, len(fields))

	for _, field := range fields {
		columns = append(columns, field.Name())
	}

	return columns, nil
}
