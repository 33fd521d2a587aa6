package transform

// columns.go implements column management: dropping columns and exact-match
// value replacement. Replacement matches by the column's own type, never
// across representations, so "2" does not match the number 2 in a text
// column and vice versa.

import (
	"fmt"
	"strings"

	"github.com/datalens-app/datalens/internal/dataset"
)

func init() {
	Register(Definition{
		Name:     OpDropColumns,
		Summary:  "Remove the listed columns",
		Validate: validateDropColumns,
		Apply:    applyDropColumns,
	})
	Register(Definition{
		Name:     OpReplaceValue,
		Summary:  "Replace exact matches of a value in a column",
		Validate: validateReplaceValue,
		Apply:    applyReplaceValue,
	})
}

func validateDropColumns(p Params) error {
	dp, ok := p.(DropColumnsParams)
	if !ok {
		return wrongParams(p.Op(), p)
	}
	if len(dp.Columns) == 0 {
		return &ValidationError{Field: "columns", Message: "select at least one column"}
	}
	return nil
}

func validateReplaceValue(p Params) error {
	rp, ok := p.(ReplaceValueParams)
	if !ok {
		return wrongParams(p.Op(), p)
	}
	if rp.Column == "" {
		return &ValidationError{Field: "column", Message: "select a column"}
	}
	if rp.Old == "" {
		return &ValidationError{Field: "old", Message: "provide the value to replace"}
	}
	return nil
}

func applyDropColumns(t *dataset.Table, p Params) (*dataset.Table, string, error) {
	dp := p.(DropColumnsParams)

	for _, name := range dp.Columns {
		if !t.HasColumn(name) {
			return nil, "", &NotFoundError{Column: name}
		}
	}

	out, err := t.DropColumns(dp.Columns...)
	if err != nil {
		return nil, "", err
	}
	return out, fmt.Sprintf("Dropped columns: %s", strings.Join(dp.Columns, ", ")), nil
}

func applyReplaceValue(t *dataset.Table, p Params) (*dataset.Table, string, error) {
	rp := p.(ReplaceValueParams)
	col, err := requireColumn(t, rp.Column)
	if err != nil {
		return nil, "", err
	}

	match, err := matchFunc(col, rp.Old)
	if err != nil {
		return nil, "", err
	}

	// An empty replacement sets matched cells to null.
	set := func(i int) { col.SetNull(i) }
	if rp.New != "" {
		set, err = setFunc(col, rp.New)
		if err != nil {
			return nil, "", err
		}
	}

	replaced := 0
	for i := 0; i < col.Len(); i++ {
		if col.IsNull(i) || !match(i) {
			continue
		}
		set(i)
		replaced++
	}
	return t, fmt.Sprintf("Replaced %d cells in '%s'", replaced, rp.Column), nil
}

// matchFunc parses the old value under the column's type and returns an
// exact-match predicate. A value that cannot be parsed as the column's type
// is a type mismatch, not a silent zero-match.
func matchFunc(col *dataset.Column, old string) (func(int) bool, error) {
	switch col.Type {
	case dataset.TypeNumeric:
		f, ok := dataset.ParseNumeric(old)
		if !ok {
			return nil, &TypeError{Column: col.Name, Message: fmt.Sprintf("%q is not numeric", old)}
		}
		return func(i int) bool { return col.Float(i) == f }, nil
	case dataset.TypeTime:
		ts, ok := dataset.ParseTime(old)
		if !ok {
			return nil, &TypeError{Column: col.Name, Message: fmt.Sprintf("%q is not a date", old)}
		}
		return func(i int) bool { return col.Time(i).Equal(ts) }, nil
	default:
		return func(i int) bool { return col.Text(i) == old }, nil
	}
}

// setFunc parses the new value under the column's type and returns a setter.
func setFunc(col *dataset.Column, val string) (func(int), error) {
	switch col.Type {
	case dataset.TypeNumeric:
		f, ok := dataset.ParseNumeric(val)
		if !ok {
			return nil, &TypeError{Column: col.Name, Message: fmt.Sprintf("%q is not numeric", val)}
		}
		return func(i int) { col.SetFloat(i, f) }, nil
	case dataset.TypeTime:
		ts, ok := dataset.ParseTime(val)
		if !ok {
			return nil, &TypeError{Column: col.Name, Message: fmt.Sprintf("%q is not a date", val)}
		}
		return func(i int) { col.SetTime(i, ts) }, nil
	default:
		return func(i int) { col.SetText(i, val) }, nil
	}
}
