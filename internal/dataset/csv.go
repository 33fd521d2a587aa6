package dataset

// csv.go covers the upload and export boundaries: raw CSV bytes in, typed
// Table out, and the reverse for re-export of the cleaned dataset.

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// FromCSV parses raw CSV bytes into a typed Table. The first record is the
// header; column types are inferred from the data rows and cells that do not
// fit the inferred type become null. Returns an error for malformed CSV,
// a missing header, or duplicate column names.
func FromCSV(data []byte) (*Table, error) {
	data = sanitizeUTF8(data)

	records, err := parseCSV(data)
	if err != nil {
		return nil, fmt.Errorf("invalid csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("empty file")
	}

	header := records[0]
	if isEmptyRow(header) {
		return nil, fmt.Errorf("invalid csv: empty header row")
	}

	names := make([]string, len(header))
	seen := make(map[string]bool, len(header))
	for i, h := range header {
		name := strings.TrimSpace(h)
		if name == "" {
			name = fmt.Sprintf("column_%d", i+1)
		}
		if seen[name] {
			return nil, fmt.Errorf("invalid csv: duplicate column header %q", name)
		}
		seen[name] = true
		names[i] = name
	}

	// Collect cells column-wise, skipping fully empty rows and padding
	// short rows with nulls.
	var rows [][]string
	for _, rec := range records[1:] {
		if isEmptyRow(rec) {
			continue
		}
		rows = append(rows, rec)
	}

	cols := make([]*Column, len(names))
	for i, name := range names {
		values := make([]string, len(rows))
		for r, rec := range rows {
			if i < len(rec) {
				values[r] = rec[i]
			}
		}
		cols[i] = buildColumn(name, InferColumnType(values), values)
	}

	return New(cols...)
}

// ToCSV renders the table as CSV with a header row. Numeric cells use the
// shortest round-trip formatting, temporal cells RFC 3339, null cells are
// empty.
func (t *Table) ToCSV() ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(t.ColumnNames()); err != nil {
		return nil, err
	}

	record := make([]string, t.NumCols())
	for row := 0; row < t.NumRows(); row++ {
		for i, c := range t.cols {
			record[i] = c.Format(row)
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	return buf.Bytes(), w.Error()
}

// Format renders the cell at row i for display or CSV export. Numeric cells
// use shortest round-trip formatting, temporal cells RFC 3339, null cells
// render empty.
func (c *Column) Format(i int) string {
	if c.IsNull(i) {
		return ""
	}
	switch c.Type {
	case TypeNumeric:
		return strconv.FormatFloat(c.Float(i), 'g', -1, 64)
	case TypeTime:
		return c.Time(i).Format(time.RFC3339)
	default:
		return c.Text(i)
	}
}

// sanitizeUTF8 replaces invalid UTF-8 sequences with the replacement rune.
func sanitizeUTF8(data []byte) []byte {
	if utf8.Valid(data) {
		return data
	}

	var buf bytes.Buffer
	buf.Grow(len(data))

	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size == 1 {
			buf.WriteRune('�')
			data = data[1:]
		} else {
			buf.WriteRune(r)
			data = data[size:]
		}
	}

	return buf.Bytes()
}

// parseCSV parses CSV data with lenient settings for real-world files.
func parseCSV(data []byte) ([][]string, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1 // Allow variable column counts
	r.LazyQuotes = true    // Be lenient with quotes
	return r.ReadAll()
}

// isEmptyRow checks if all cells in a row are empty or whitespace.
func isEmptyRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
