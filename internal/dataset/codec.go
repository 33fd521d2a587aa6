package dataset

// codec.go is the snapshot codec: a deterministic, self-describing JSON
// encoding of a Table. The session store holds exactly this form and every
// transform runs against a freshly decoded copy, so the codec must round-trip
// values, column order, and null patterns exactly. Temporal cells use
// RFC 3339 with nanoseconds; numeric cells rely on encoding/json's shortest
// round-trip float formatting, which re-encodes decoded values byte-for-byte.

import (
	"encoding/json"
	"fmt"
	"time"
)

// snapshotColumn describes one column in the serialized schema.
type snapshotColumn struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// snapshot is the serialized form of a Table.
type snapshot struct {
	Schema []snapshotColumn `json:"schema"`
	Rows   [][]any          `json:"rows"`
}

// Encode serializes the table into its canonical snapshot form.
func Encode(t *Table) ([]byte, error) {
	snap := snapshot{
		Schema: make([]snapshotColumn, t.NumCols()),
		Rows:   make([][]any, t.NumRows()),
	}

	cols := t.Columns()
	for i, c := range cols {
		snap.Schema[i] = snapshotColumn{Name: c.Name, Type: c.Type.String()}
	}

	for row := 0; row < t.NumRows(); row++ {
		cells := make([]any, len(cols))
		for i, c := range cols {
			if c.IsNull(row) {
				continue // nil encodes as JSON null
			}
			switch c.Type {
			case TypeNumeric:
				cells[i] = c.Float(row)
			case TypeTime:
				cells[i] = c.Time(row).Format(time.RFC3339Nano)
			default:
				cells[i] = c.Text(row)
			}
		}
		snap.Rows[row] = cells
	}

	return json.Marshal(snap)
}

// Decode reconstructs a Table from its snapshot form. It rejects snapshots
// whose rows do not match the schema.
func Decode(data []byte) (*Table, error) {
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}

	cols := make([]*Column, len(snap.Schema))
	for i, sc := range snap.Schema {
		ct, err := ParseColumnType(sc.Type)
		if err != nil {
			return nil, fmt.Errorf("decode snapshot: column %q: %w", sc.Name, err)
		}
		cols[i] = NewColumn(sc.Name, ct, len(snap.Rows))
	}

	for row, cells := range snap.Rows {
		if len(cells) != len(cols) {
			return nil, fmt.Errorf("decode snapshot: row %d has %d cells, want %d", row, len(cells), len(cols))
		}
		for i, cell := range cells {
			if cell == nil {
				continue
			}
			c := cols[i]
			switch c.Type {
			case TypeNumeric:
				f, ok := cell.(float64)
				if !ok {
					return nil, fmt.Errorf("decode snapshot: row %d column %q: not a number", row, c.Name)
				}
				c.SetFloat(row, f)
			case TypeTime:
				s, ok := cell.(string)
				if !ok {
					return nil, fmt.Errorf("decode snapshot: row %d column %q: not a timestamp", row, c.Name)
				}
				ts, err := time.Parse(time.RFC3339Nano, s)
				if err != nil {
					return nil, fmt.Errorf("decode snapshot: row %d column %q: %w", row, c.Name, err)
				}
				c.SetTime(row, ts)
			default:
				s, ok := cell.(string)
				if !ok {
					return nil, fmt.Errorf("decode snapshot: row %d column %q: not a string", row, c.Name)
				}
				c.SetText(row, s)
			}
		}
	}

	return New(cols...)
}
