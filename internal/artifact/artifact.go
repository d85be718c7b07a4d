// Package artifact reads and writes the delimited-text artifacts the
// pipeline exchanges between stages: the raw extracts and the cleaned
// intermediate files.
//
// The intermediate format is plain CSV and therefore loses rich types;
// Read rehydrates a file with an explicit column-type map plus a list of
// timestamp columns, mirroring how the raw extract loses nothing it never
// had. NULL is spelled as an empty cell, timestamps as RFC 3339, so a
// write/read round trip preserves instants to the second.
package artifact

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"secmar/internal/coerce"
	"secmar/internal/schema"
	"secmar/pkg/records"
)

const utf8BOM = "\ufeff"

// stripHeaderBOM removes a UTF-8 BOM from the first header cell if present.
func stripHeaderBOM(header []string) []string {
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], utf8BOM)
	}
	return header
}

// Write serializes a batch to path with the given column order. Missing
// cells and nil values become empty fields.
func Write(path string, columns []string, batch []records.Record) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(columns); err != nil {
		return fmt.Errorf("write header %s: %w", path, err)
	}
	row := make([]string, len(columns))
	for _, rec := range batch {
		for i, col := range columns {
			row[i] = formatCell(rec[col])
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write row %s: %w", path, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush %s: %w", path, err)
	}
	return nil
}

func formatCell(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case int64:
		return strconv.FormatInt(t, 10)
	case int:
		return strconv.Itoa(t)
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case time.Time:
		return t.UTC().Format(time.RFC3339)
	default:
		return fmt.Sprint(t)
	}
}

// ReadRaw reads a raw extract without typing: every cell is a string, an
// empty cell is nil. The header order is returned alongside the batch so
// callers can persist cleaned data in the original column order.
func ReadRaw(path string) ([]records.Record, []string, error) {
	header, rows, err := readAll(path)
	if err != nil {
		return nil, nil, err
	}
	batch := make([]records.Record, 0, len(rows))
	for _, row := range rows {
		rec := make(records.Record, len(header))
		for i, col := range header {
			if i >= len(row) || row[i] == "" {
				rec[col] = nil
				continue
			}
			rec[col] = row[i]
		}
		batch = append(batch, rec)
	}
	return batch, header, nil
}

// Read rehydrates an intermediate file with explicit column types.
//
// Cells in typed columns are parsed strictly: an empty cell is nil, a
// parseable cell gets its target type, and an unparseable cell keeps its
// raw string so the validator reports it as a type violation instead of
// the reader guessing. Timestamp columns named in dateCols go through the
// lenient UTC parser, matching the re-coercion pass the orchestrator runs
// after rehydration. headerMap renames source headers to canonical names
// (e.g. "cross" → "cross_type") before typing applies.
func Read(path string, types map[string]schema.Kind, dateCols []string, headerMap map[string]string) ([]records.Record, error) {
	header, rows, err := readAll(path)
	if err != nil {
		return nil, err
	}
	for i, col := range header {
		if mapped, ok := headerMap[col]; ok && mapped != "" {
			header[i] = mapped
		}
	}
	isDate := make(map[string]bool, len(dateCols))
	for _, c := range dateCols {
		isDate[c] = true
	}

	batch := make([]records.Record, 0, len(rows))
	for _, row := range rows {
		rec := make(records.Record, len(header))
		for i, col := range header {
			var raw string
			if i < len(row) {
				raw = row[i]
			}
			if raw == "" {
				rec[col] = nil
				continue
			}
			switch {
			case isDate[col]:
				rec[col] = coerce.TimeUTC(raw)
			default:
				rec[col] = parseTyped(types[col], raw)
			}
		}
		batch = append(batch, rec)
	}
	return batch, nil
}

func parseTyped(kind schema.Kind, raw string) any {
	switch kind {
	case schema.Integer, schema.NullableInteger:
		if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return i
		}
		// "7.0" style spellings appear after a float round trip.
		if f, err := strconv.ParseFloat(raw, 64); err == nil && f == float64(int64(f)) {
			return int64(f)
		}
		return raw
	case schema.Float:
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			return f
		}
		return raw
	default:
		return raw
	}
}

// CheckStructure verifies that every required column is present in the
// file's header, returning one error naming all missing columns.
func CheckStructure(path string, required []string) error {
	header, _, err := readAll(path)
	if err != nil {
		return err
	}
	present := make(map[string]bool, len(header))
	for _, h := range header {
		present[h] = true
	}
	var missing []string
	for _, col := range required {
		if !present[col] {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%s: missing required column(s): %s", path, strings.Join(missing, ", "))
	}
	return nil
}

func readAll(path string) ([]string, [][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.ReuseRecord = false
	r.TrimLeadingSpace = true

	all, err := r.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(all) == 0 {
		return nil, nil, fmt.Errorf("read %s: empty file, header expected", path)
	}
	return stripHeaderBOM(all[0]), all[1:], nil
}
