package hub

import (
	"context"
	"fmt"

	"github.com/apache/arrow/go/v13/arrow"
	"github.com/apache/arrow/go/v13/arrow/array"
	"github.com/apache/arrow/go/v13/arrow/memory"
	"github.com/apache/arrow/go/v13/parquet/file"
	"github.com/apache/arrow/go/v13/parquet/pqarrow"

	"github.com/distillprep/distillprep/pkg/models"
)

// ReadParquetRows loads an entire parquet file into source-shaped rows.
// Hub datasets are distributed as parquet shards; string, numeric, boolean
// and list-of-string columns are supported, which covers the QA/NLI sources.
func ReadParquetRows(ctx context.Context, path string) ([]models.Row, error) {
	reader, err := file.OpenParquetFile(path, false)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file %s: %w", path, err)
	}
	defer reader.Close()

	arrowReader, err := pqarrow.NewFileReader(reader, pqarrow.ArrowReadProperties{}, memory.DefaultAllocator)
	if err != nil {
		return nil, fmt.Errorf("failed to create arrow reader: %w", err)
	}

	table, err := arrowReader.ReadTable(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read parquet table: %w", err)
	}
	defer table.Release()

	numRows := int(table.NumRows())
	rows := make([]models.Row, numRows)
	for i := range rows {
		rows[i] = make(models.Row, int(table.NumCols()))
	}

	for c := 0; c < int(table.NumCols()); c++ {
		col := table.Column(c)
		name := col.Name()

		values, err := columnValues(col.Data())
		if err != nil {
			return nil, fmt.Errorf("column %q of %s: %w", name, path, err)
		}
		if len(values) != numRows {
			return nil, fmt.Errorf("column %q of %s has %d values for %d rows", name, path, len(values), numRows)
		}
		for i, v := range values {
			rows[i][name] = v
		}
	}

	return rows, nil
}

func columnValues(chunked *arrow.Chunked) ([]any, error) {
	var values []any
	for _, chunk := range chunked.Chunks() {
		for i := 0; i < chunk.Len(); i++ {
			v, err := valueAt(chunk, i)
			if err != nil {
				return nil, err
			}
			values = append(values, v)
		}
	}
	return values, nil
}

func valueAt(a arrow.Array, i int) (any, error) {
	if a.IsNull(i) {
		return nil, nil
	}

	switch arr := a.(type) {
	case *array.String:
		return arr.Value(i), nil
	case *array.LargeString:
		return arr.Value(i), nil
	case *array.Int8:
		return int64(arr.Value(i)), nil
	case *array.Int16:
		return int64(arr.Value(i)), nil
	case *array.Int32:
		return int64(arr.Value(i)), nil
	case *array.Int64:
		return arr.Value(i), nil
	case *array.Float32:
		return float64(arr.Value(i)), nil
	case *array.Float64:
		return arr.Value(i), nil
	case *array.Boolean:
		return arr.Value(i), nil
	case *array.List:
		start, end := arr.ValueOffsets(i)
		elems := arr.ListValues()
		list := make([]any, 0, end-start)
		for j := start; j < end; j++ {
			v, err := valueAt(elems, int(j))
			if err != nil {
				return nil, err
			}
			list = append(list, v)
		}
		return list, nil
	default:
		return nil, fmt.Errorf("unsupported parquet column type %s", a.DataType())
	}
}
