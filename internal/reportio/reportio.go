// Package reportio renders final report rows as CSV or pretty-printed
// JSON. Rows are ordered mappings from column name to value; the caller
// supplies the column order for tabular output.
package reportio

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
)

// Format selects the output rendering.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// ParseFormat validates a format selector from the command line.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatCSV, FormatJSON:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unknown output format %q (want csv or json)", s)
	}
}

// Row is one output row.
type Row map[string]any

// WriteCSV renders rows in the given column order. A column missing from a
// row is written as 0 (sparse tag columns); an explicit nil value is
// written empty (an unresolvable name).
func WriteCSV(w io.Writer, columns []string, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(columns); err != nil {
		return err
	}
	record := make([]string, len(columns))
	for _, row := range rows {
		for i, col := range columns {
			v, ok := row[col]
			if !ok {
				record[i] = "0"
				continue
			}
			record[i] = formatValue(v)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case *string:
		if t == nil {
			return ""
		}
		return *t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprintf("%v", t)
	}
}

// WriteJSON renders v as a pretty-printed JSON document. Nil name fields
// are preserved as JSON null.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Columns returns leading followed by every other column appearing in rows
// sorted alphabetically. This is the fixed CSV layout of the grouped
// reports: date and group keys first, the measure total next, then one
// column per tag.
func Columns(rows []Row, leading []string) []string {
	seen := make(map[string]struct{}, len(leading))
	for _, c := range leading {
		seen[c] = struct{}{}
	}
	var rest []string
	for _, row := range rows {
		for c := range row {
			if _, ok := seen[c]; !ok {
				seen[c] = struct{}{}
				rest = append(rest, c)
			}
		}
	}
	sort.Strings(rest)
	return append(append([]string{}, leading...), rest...)
}

// Open returns the report destination: stdout for an empty path, otherwise
// the file at path with parent directories created.
func Open(path string) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopCloser{os.Stdout}, nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	return os.Create(path)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
