package resource

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"time"

	"eduport/internal/backend"
)

// Columns the backend owns; they never appear in an export.
var reservedColumns = map[string]struct{}{
	"id":         {},
	"created_at": {},
	"updated_at": {},
}

// ExportCSV renders a tabular snapshot of the records' scalar fields.
// Reserved columns and nested list fields are excluded; values containing
// the comma delimiter come out quote-escaped per the csv rules.
func ExportCSV(schema Schema, records []backend.Record) ([]byte, error) {
	var header []string
	for _, f := range schema.Fields {
		if f.Kind == KindList {
			continue
		}
		if _, reserved := reservedColumns[f.Name]; reserved {
			continue
		}
		header = append(header, f.Name)
	}
	header = append(header, schema.Flags...)

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, rec := range records {
		row := make([]string, len(header))
		for i, name := range header {
			row[i] = formatCell(rec[name])
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatCell(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		if val {
			return "true"
		}
		return "false"
	case time.Time:
		return val.Format(time.RFC3339)
	case float64:
		// Whole numbers read better without the trailing ".000000".
		if val == float64(int64(val)) {
			return fmt.Sprintf("%d", int64(val))
		}
		return fmt.Sprintf("%g", val)
	default:
		return fmt.Sprintf("%v", val)
	}
}
