package models

import (
	"bytes"
	"fmt"
	"time"

	"github.com/linkedin/goavro/v2"
)

// Codec binds a dataset type to its Avro schema. Snapshots are written as
// Avro OCF, which keeps values, column order, and column types intact across
// a write/read round trip.
type Codec[T any] struct {
	Name       string
	Schema     string
	ToRecord   func(T) map[string]any
	FromRecord func(map[string]any) (T, error)
}

// MarshalOCF encodes rows into a single OCF object.
func MarshalOCF[T any](c Codec[T], rows []T) ([]byte, error) {
	codec, err := goavro.NewCodec(c.Schema)
	if err != nil {
		return nil, fmt.Errorf("building %s codec: %w", c.Name, err)
	}

	var buf bytes.Buffer
	w, err := goavro.NewOCFWriter(goavro.OCFConfig{W: &buf, Codec: codec})
	if err != nil {
		return nil, fmt.Errorf("opening %s writer: %w", c.Name, err)
	}

	// an empty dataset stays header-only; appending a zero-row block
	// produces an object the OCF reader refuses to decode
	if len(rows) > 0 {
		records := make([]any, 0, len(rows))
		for _, row := range rows {
			records = append(records, c.ToRecord(row))
		}
		if err := w.Append(records); err != nil {
			return nil, fmt.Errorf("encoding %s rows: %w", c.Name, err)
		}
	}
	return buf.Bytes(), nil
}

// UnmarshalOCF decodes an OCF object back into typed rows.
func UnmarshalOCF[T any](c Codec[T], data []byte) ([]T, error) {
	r, err := goavro.NewOCFReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("opening %s reader: %w", c.Name, err)
	}

	var rows []T
	for r.Scan() {
		native, err := r.Read()
		if err != nil {
			return nil, fmt.Errorf("decoding %s row: %w", c.Name, err)
		}
		record, ok := native.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("decoding %s row: unexpected shape %T", c.Name, native)
		}
		row, err := c.FromRecord(record)
		if err != nil {
			return nil, fmt.Errorf("decoding %s row: %w", c.Name, err)
		}
		rows = append(rows, row)
	}
	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("reading %s object: %w", c.Name, err)
	}
	return rows, nil
}

// DecodeOCFDocuments decodes an OCF object into generic documents for the
// publish sink, unwrapping Avro union values so the downstream store sees
// plain fields.
func DecodeOCFDocuments(data []byte) ([]map[string]any, error) {
	r, err := goavro.NewOCFReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("opening reader: %w", err)
	}

	var docs []map[string]any
	for r.Scan() {
		native, err := r.Read()
		if err != nil {
			return nil, fmt.Errorf("decoding row: %w", err)
		}
		record, ok := native.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("unexpected row shape %T", native)
		}
		doc := make(map[string]any, len(record))
		for k, v := range record {
			doc[k] = unwrapUnion(v)
		}
		docs = append(docs, doc)
	}
	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("reading object: %w", err)
	}
	return docs, nil
}

// unwrapUnion collapses goavro's single-entry union wrappers
// (e.g. {"long.timestamp-millis": t}) into the bare value.
func unwrapUnion(v any) any {
	m, ok := v.(map[string]any)
	if !ok || len(m) != 1 {
		return v
	}
	for _, inner := range m {
		return inner
	}
	return v
}

// Decoding helpers shared by the FromRecord implementations.

func recLong(record map[string]any, field string) (int64, error) {
	v, ok := record[field]
	if !ok {
		return 0, fmt.Errorf("missing field %q", field)
	}
	n, ok := v.(int64)
	if !ok {
		return 0, fmt.Errorf("field %q: expected long, got %T", field, v)
	}
	return n, nil
}

func recDouble(record map[string]any, field string) (float64, error) {
	v, ok := record[field]
	if !ok {
		return 0, fmt.Errorf("missing field %q", field)
	}
	f, ok := v.(float64)
	if !ok {
		return 0, fmt.Errorf("field %q: expected double, got %T", field, v)
	}
	return f, nil
}

func recString(record map[string]any, field string) (string, error) {
	v, ok := record[field]
	if !ok {
		return "", fmt.Errorf("missing field %q", field)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("field %q: expected string, got %T", field, v)
	}
	return s, nil
}

func recTime(record map[string]any, field string) (time.Time, error) {
	v, ok := record[field]
	if !ok {
		return time.Time{}, fmt.Errorf("missing field %q", field)
	}
	t, ok := v.(time.Time)
	if !ok {
		return time.Time{}, fmt.Errorf("field %q: expected timestamp, got %T", field, v)
	}
	return t.UTC(), nil
}

func recOptTime(record map[string]any, field string) (*time.Time, error) {
	v, ok := record[field]
	if !ok {
		return nil, fmt.Errorf("missing field %q", field)
	}
	if v == nil {
		return nil, nil
	}
	unwrapped := unwrapUnion(v)
	t, ok := unwrapped.(time.Time)
	if !ok {
		return nil, fmt.Errorf("field %q: expected optional timestamp, got %T", field, v)
	}
	u := t.UTC()
	return &u, nil
}

func optTimeRecord(t *time.Time) any {
	if t == nil {
		return nil
	}
	return map[string]any{"long.timestamp-millis": t.UTC()}
}
