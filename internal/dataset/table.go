// Package dataset provides the in-memory table model for the preprocessing
// pipeline. A Table is an ordered set of named, typed columns with per-cell
// null tracking. This package has no HTTP or session dependencies and can be
// used by any frontend.
package dataset

import (
	"fmt"
	"time"
)

// ColumnType is the inferred semantic type of a column.
type ColumnType int

const (
	TypeText ColumnType = iota
	TypeNumeric
	TypeTime
)

// String returns the wire name of the type as used by the snapshot codec.
func (ct ColumnType) String() string {
	switch ct {
	case TypeNumeric:
		return "numeric"
	case TypeTime:
		return "datetime"
	default:
		return "text"
	}
}

// ParseColumnType converts a wire name back to a ColumnType.
func ParseColumnType(s string) (ColumnType, error) {
	switch s {
	case "numeric":
		return TypeNumeric, nil
	case "datetime":
		return TypeTime, nil
	case "text":
		return TypeText, nil
	default:
		return TypeText, fmt.Errorf("unknown column type %q", s)
	}
}

// Column holds the values of a single table column. Exactly one of the
// backing slices is populated, matching Type; null marks missing cells.
type Column struct {
	Name string
	Type ColumnType

	nums  []float64
	strs  []string
	times []time.Time
	null  []bool
}

// NewColumn creates an all-null column of the given type and length.
func NewColumn(name string, ct ColumnType, n int) *Column {
	c := &Column{Name: name, Type: ct, null: make([]bool, n)}
	for i := range c.null {
		c.null[i] = true
	}
	switch ct {
	case TypeNumeric:
		c.nums = make([]float64, n)
	case TypeTime:
		c.times = make([]time.Time, n)
	default:
		c.strs = make([]string, n)
	}
	return c
}

// NewNumericColumn creates a numeric column from values. A nil null mask
// means no cell is missing.
func NewNumericColumn(name string, vals []float64, null []bool) *Column {
	return &Column{Name: name, Type: TypeNumeric, nums: vals, null: normalizeMask(null, len(vals))}
}

// NewTextColumn creates a text column from values.
func NewTextColumn(name string, vals []string, null []bool) *Column {
	return &Column{Name: name, Type: TypeText, strs: vals, null: normalizeMask(null, len(vals))}
}

// NewTimeColumn creates a temporal column from values.
func NewTimeColumn(name string, vals []time.Time, null []bool) *Column {
	return &Column{Name: name, Type: TypeTime, times: vals, null: normalizeMask(null, len(vals))}
}

func normalizeMask(null []bool, n int) []bool {
	if null == nil {
		return make([]bool, n)
	}
	return null
}

// Len returns the number of cells in the column.
func (c *Column) Len() int { return len(c.null) }

// IsNull reports whether the cell at row i is missing.
func (c *Column) IsNull(i int) bool { return c.null[i] }

// NullCount returns the number of missing cells.
func (c *Column) NullCount() int {
	n := 0
	for _, isNull := range c.null {
		if isNull {
			n++
		}
	}
	return n
}

// Float returns the numeric value at row i. Only meaningful for non-null
// cells of numeric columns.
func (c *Column) Float(i int) float64 { return c.nums[i] }

// Text returns the text value at row i.
func (c *Column) Text(i int) string { return c.strs[i] }

// Time returns the temporal value at row i.
func (c *Column) Time(i int) time.Time { return c.times[i] }

// Value returns the cell at row i as an untyped value, or nil when missing.
func (c *Column) Value(i int) any {
	if c.null[i] {
		return nil
	}
	switch c.Type {
	case TypeNumeric:
		return c.nums[i]
	case TypeTime:
		return c.times[i]
	default:
		return c.strs[i]
	}
}

// SetFloat stores a numeric value at row i and clears its null mark.
func (c *Column) SetFloat(i int, v float64) {
	c.nums[i] = v
	c.null[i] = false
}

// SetText stores a text value at row i and clears its null mark.
func (c *Column) SetText(i int, v string) {
	c.strs[i] = v
	c.null[i] = false
}

// SetTime stores a temporal value at row i and clears its null mark.
func (c *Column) SetTime(i int, v time.Time) {
	c.times[i] = v
	c.null[i] = false
}

// SetNull marks the cell at row i as missing.
func (c *Column) SetNull(i int) {
	c.null[i] = true
	switch c.Type {
	case TypeNumeric:
		c.nums[i] = 0
	case TypeTime:
		c.times[i] = time.Time{}
	default:
		c.strs[i] = ""
	}
}

// Floats returns the non-null numeric values in row order.
func (c *Column) Floats() []float64 {
	out := make([]float64, 0, c.Len())
	for i := range c.null {
		if !c.null[i] {
			out = append(out, c.nums[i])
		}
	}
	return out
}

// Clone returns a deep copy of the column.
func (c *Column) Clone() *Column {
	dup := &Column{Name: c.Name, Type: c.Type}
	dup.null = append([]bool(nil), c.null...)
	switch c.Type {
	case TypeNumeric:
		dup.nums = append([]float64(nil), c.nums...)
	case TypeTime:
		dup.times = append([]time.Time(nil), c.times...)
	default:
		dup.strs = append([]string(nil), c.strs...)
	}
	return dup
}

// take returns a copy of the column keeping only the listed rows, in order.
func (c *Column) take(rows []int) *Column {
	dup := NewColumn(c.Name, c.Type, len(rows))
	for out, in := range rows {
		if c.null[in] {
			continue
		}
		switch c.Type {
		case TypeNumeric:
			dup.SetFloat(out, c.nums[in])
		case TypeTime:
			dup.SetTime(out, c.times[in])
		default:
			dup.SetText(out, c.strs[in])
		}
	}
	return dup
}

// Table is an ordered set of named columns with positionally aligned rows.
type Table struct {
	cols   []*Column
	byName map[string]int
}

// New builds a Table from columns. It rejects duplicate column names and
// columns of unequal length.
func New(cols ...*Column) (*Table, error) {
	t := &Table{byName: make(map[string]int, len(cols))}
	rows := -1
	for _, c := range cols {
		if _, dup := t.byName[c.Name]; dup {
			return nil, fmt.Errorf("duplicate column name %q", c.Name)
		}
		if rows >= 0 && c.Len() != rows {
			return nil, fmt.Errorf("column %q has %d rows, want %d", c.Name, c.Len(), rows)
		}
		rows = c.Len()
		t.byName[c.Name] = len(t.cols)
		t.cols = append(t.cols, c)
	}
	return t, nil
}

// NumRows returns the row count. An empty table has zero rows.
func (t *Table) NumRows() int {
	if len(t.cols) == 0 {
		return 0
	}
	return t.cols[0].Len()
}

// NumCols returns the column count.
func (t *Table) NumCols() int { return len(t.cols) }

// Columns returns the columns in table order. The slice is a copy; the
// columns are not.
func (t *Table) Columns() []*Column {
	return append([]*Column(nil), t.cols...)
}

// ColumnNames returns the column names in table order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.cols))
	for i, c := range t.cols {
		names[i] = c.Name
	}
	return names
}

// Column looks up a column by name.
func (t *Table) Column(name string) (*Column, bool) {
	i, ok := t.byName[name]
	if !ok {
		return nil, false
	}
	return t.cols[i], true
}

// HasColumn reports whether a column with the given name exists.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.byName[name]
	return ok
}

// AppendColumn adds a column at the end of the table.
func (t *Table) AppendColumn(c *Column) error {
	if _, dup := t.byName[c.Name]; dup {
		return fmt.Errorf("duplicate column name %q", c.Name)
	}
	if len(t.cols) > 0 && c.Len() != t.NumRows() {
		return fmt.Errorf("column %q has %d rows, want %d", c.Name, c.Len(), t.NumRows())
	}
	t.byName[c.Name] = len(t.cols)
	t.cols = append(t.cols, c)
	return nil
}

// ReplaceColumn swaps the column with the same name in place, keeping its
// position in the column order.
func (t *Table) ReplaceColumn(c *Column) error {
	i, ok := t.byName[c.Name]
	if !ok {
		return fmt.Errorf("no column named %q", c.Name)
	}
	if c.Len() != t.NumRows() {
		return fmt.Errorf("column %q has %d rows, want %d", c.Name, c.Len(), t.NumRows())
	}
	t.cols[i] = c
	return nil
}

// DropColumns returns a new table without the listed columns. All listed
// columns must exist.
func (t *Table) DropColumns(names ...string) (*Table, error) {
	drop := make(map[string]bool, len(names))
	for _, n := range names {
		if !t.HasColumn(n) {
			return nil, fmt.Errorf("no column named %q", n)
		}
		drop[n] = true
	}
	var kept []*Column
	for _, c := range t.cols {
		if !drop[c.Name] {
			kept = append(kept, c)
		}
	}
	return New(kept...)
}

// Select returns a new table keeping only the listed rows, in the given
// order. Row indices must be in range.
func (t *Table) Select(rows []int) *Table {
	cols := make([]*Column, len(t.cols))
	for i, c := range t.cols {
		cols[i] = c.take(rows)
	}
	out, _ := New(cols...)
	return out
}

// Filter returns a new table keeping rows for which keep returns true.
func (t *Table) Filter(keep func(row int) bool) *Table {
	var rows []int
	for i := 0; i < t.NumRows(); i++ {
		if keep(i) {
			rows = append(rows, i)
		}
	}
	return t.Select(rows)
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	cols := make([]*Column, len(t.cols))
	for i, c := range t.cols {
		cols[i] = c.Clone()
	}
	out, _ := New(cols...)
	return out
}

// Equal reports whether two tables have identical schema, values, and null
// patterns. Intended for tests and no-op detection, not hot paths.
func (t *Table) Equal(other *Table) bool {
	if t.NumCols() != other.NumCols() || t.NumRows() != other.NumRows() {
		return false
	}
	for i, c := range t.cols {
		oc := other.cols[i]
		if c.Name != oc.Name || c.Type != oc.Type {
			return false
		}
		for row := 0; row < c.Len(); row++ {
			if c.null[row] != oc.null[row] {
				return false
			}
			if c.null[row] {
				continue
			}
			switch c.Type {
			case TypeNumeric:
				if c.nums[row] != oc.nums[row] {
					return false
				}
			case TypeTime:
				if !c.times[row].Equal(oc.times[row]) {
					return false
				}
			default:
				if c.strs[row] != oc.strs[row] {
					return false
				}
			}
		}
	}
	return true
}
