// Package parquetfile writes normalized tables as Parquet files.
//
// Scalar columns map onto OPTIONAL primitive columns. Parquet has no
// per-cell variable-shape type, so list-columns are stored as the JSON
// encoding of each child table and geometry as well-known text. Spatial
// tables carry their CRS and bounding box in the file key/value metadata.
package parquetfile

import (
	"errors"
	"fmt"
	"io"

	json "github.com/goccy/go-json"
	"github.com/xitongsys/parquet-go-source/writerfile"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"

	"github.com/couchcryptid/awdb-etl/internal/table"
)

// Key/value metadata keys written for spatial tables.
const (
	MetaGeometryColumn = "awdb.geometry_column"
	MetaCRS            = "awdb.crs"
	MetaCRSWKT         = "awdb.crs_wkt"
	MetaBBox           = "awdb.bbox"
)

// ErrNoColumns is returned for tables without columns, which Parquet cannot
// describe.
var ErrNoColumns = errors.New("parquet: table has no columns")

const parallelism = 4

// Write encodes t as a Snappy-compressed Parquet file on w.
func Write(w io.Writer, t *table.Table) error {
	if t.NumCols() == 0 {
		return ErrNoColumns
	}

	schema, err := buildSchema(t)
	if err != nil {
		return err
	}

	pfw := writerfile.NewWriterFile(w)
	pw, err := writer.NewJSONWriter(schema, pfw, parallelism)
	if err != nil {
		return fmt.Errorf("parquet: create writer: %w", err)
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY

	cols := t.Columns()
	for i := 0; i < t.NumRows(); i++ {
		row, err := projectRow(cols, i)
		if err != nil {
			_ = pw.WriteStop()
			return err
		}
		if err := pw.Write(row); err != nil {
			_ = pw.WriteStop()
			return fmt.Errorf("parquet: write row %d: %w", i, err)
		}
	}

	if sp, ok := t.Spatial(); ok {
		meta, err := spatialMetadata(sp)
		if err != nil {
			_ = pw.WriteStop()
			return err
		}
		pw.Footer.KeyValueMetadata = append(pw.Footer.KeyValueMetadata, meta...)
	}

	if err := pw.WriteStop(); err != nil {
		return fmt.Errorf("parquet: finish file: %w", err)
	}
	return nil
}

func buildSchema(t *table.Table) (string, error) {
	cols := t.Columns()
	fields := make([]map[string]string, 0, len(cols))
	for _, c := range cols {
		fields = append(fields, map[string]string{
			"Tag": fmt.Sprintf("name=%s, %s, repetitiontype=OPTIONAL", c.Name(), physicalType(c.Kind())),
		})
	}
	b, err := json.Marshal(map[string]any{
		"Tag":    "name=parquet_go_root, repetitiontype=REQUIRED",
		"Fields": fields,
	})
	if err != nil {
		return "", fmt.Errorf("parquet: build schema: %w", err)
	}
	return string(b), nil
}

func physicalType(k table.Kind) string {
	switch k {
	case table.KindInt:
		return "type=INT64"
	case table.KindFloat:
		return "type=DOUBLE"
	case table.KindBool:
		return "type=BOOLEAN"
	default:
		return "type=BYTE_ARRAY, convertedtype=UTF8"
	}
}

// projectRow renders row i as the JSON object the JSON writer consumes.
func projectRow(cols []*table.Column, i int) (string, error) {
	row := make(map[string]any, len(cols))
	for _, c := range cols {
		if c.IsMissing(i) {
			row[c.Name()] = nil
			continue
		}
		switch c.Kind() {
		case table.KindTable:
			b, err := json.Marshal(c.Table(i))
			if err != nil {
				return "", fmt.Errorf("parquet: encode %s[%d]: %w", c.Name(), i, err)
			}
			row[c.Name()] = string(b)
		case table.KindPoint:
			p, _ := c.Point(i)
			row[c.Name()] = p.WKT()
		default:
			row[c.Name()] = c.Value(i)
		}
	}
	b, err := json.Marshal(row)
	if err != nil {
		return "", fmt.Errorf("parquet: encode row %d: %w", i, err)
	}
	return string(b), nil
}

func spatialMetadata(sp table.Spatial) ([]*parquet.KeyValue, error) {
	bbox, err := json.Marshal(sp.BBox)
	if err != nil {
		return nil, fmt.Errorf("parquet: encode bbox: %w", err)
	}
	kv := func(k, v string) *parquet.KeyValue {
		return &parquet.KeyValue{Key: k, Value: &v}
	}
	return []*parquet.KeyValue{
		kv(MetaGeometryColumn, sp.Column),
		kv(MetaCRS, sp.CRS.Input),
		kv(MetaCRSWKT, sp.CRS.WKT),
		kv(MetaBBox, string(bbox)),
	}, nil
}
