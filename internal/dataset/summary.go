package dataset

import (
	"github.com/go-gota/gota/series"
)

// ColumnSummary describes a single column for the dataset-info view.
// Min, Max, and Mean are only set for numeric columns with at least one
// non-null value.
type ColumnSummary struct {
	Name     string   `json:"name"`
	Type     string   `json:"type"`
	Nulls    int      `json:"nulls"`
	Distinct int      `json:"distinct"`
	Min      *float64 `json:"min,omitempty"`
	Max      *float64 `json:"max,omitempty"`
	Mean     *float64 `json:"mean,omitempty"`
}

// Summary is the read-only dataset overview exposed to reporters.
type Summary struct {
	Rows    int             `json:"rows"`
	Columns int             `json:"columns"`
	Fields  []ColumnSummary `json:"fields"`
}

// Summarize computes per-column statistics for the table.
func Summarize(t *Table) Summary {
	s := Summary{
		Rows:    t.NumRows(),
		Columns: t.NumCols(),
		Fields:  make([]ColumnSummary, 0, t.NumCols()),
	}

	for _, c := range t.Columns() {
		cs := ColumnSummary{
			Name:     c.Name,
			Type:     c.Type.String(),
			Nulls:    c.NullCount(),
			Distinct: distinctCount(c),
		}

		if c.Type == TypeNumeric {
			if vals := c.Floats(); len(vals) > 0 {
				sf := series.Floats(vals)
				min, max, mean := sf.Min(), sf.Max(), sf.Mean()
				cs.Min, cs.Max, cs.Mean = &min, &max, &mean
			}
		}

		s.Fields = append(s.Fields, cs)
	}

	return s
}

// distinctCount returns the number of distinct non-null values in a column.
func distinctCount(c *Column) int {
	seen := make(map[any]bool)
	for i := 0; i < c.Len(); i++ {
		if v := c.Value(i); v != nil {
			seen[v] = true
		}
	}
	return len(seen)
}
