package dataset

import (
	"bytes"
	"context"
	"errors"

	"github.com/parquet-go/parquet-go"
	"github.com/rotisserie/eris"
)

// Encode serializes rows into a parquet blob. A nil or empty slice
// still produces a valid, schema-carrying blob.
func Encode[T any](rows []T) ([]byte, error) {
	var buf bytes.Buffer
	w := parquet.NewGenericWriter[T](&buf)
	if len(rows) > 0 {
		if _, err := w.Write(rows); err != nil {
			return nil, eris.Wrap(err, "dataset: write parquet rows")
		}
	}
	if err := w.Close(); err != nil {
		return nil, eris.Wrap(err, "dataset: close parquet writer")
	}
	return buf.Bytes(), nil
}

// Decode deserializes a parquet blob back into rows.
func Decode[T any](data []byte) ([]T, error) {
	rows, err := parquet.Read[T](bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, eris.Wrap(err, "dataset: read parquet rows")
	}
	return rows, nil
}

// SaveTable encodes rows and persists them under the dataset name.
func SaveTable[T any](ctx context.Context, s Store, name string, rows []T) error {
	data, err := Encode(rows)
	if err != nil {
		return err
	}
	return s.Save(ctx, name, data)
}

// LoadTable loads and decodes a dataset. Absence is ErrNotFound.
func LoadTable[T any](ctx context.Context, s Store, name string) ([]T, error) {
	data, err := s.Load(ctx, name)
	if err != nil {
		return nil, err
	}
	return Decode[T](data)
}

// LoadTableOrEmpty loads a dataset, mapping absence to an empty table.
// Every other failure is a real storage error and propagates.
func LoadTableOrEmpty[T any](ctx context.Context, s Store, name string) ([]T, error) {
	rows, err := LoadTable[T](ctx, s, name)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	return rows, err
}
