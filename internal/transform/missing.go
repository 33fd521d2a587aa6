package transform

// missing.go implements the missing-value treatments: dropping rows with
// nulls in a column and the five fill strategies. Fills never change the
// row or column count; they only touch null cells of the targeted column.

import (
	"fmt"
	"time"

	"github.com/datalens-app/datalens/internal/dataset"
	"github.com/go-gota/gota/series"
)

func init() {
	Register(Definition{
		Name:     OpDropMissing,
		Summary:  "Remove rows where the column is missing",
		Validate: validateColumnParam(func(p Params) (string, bool) { d, ok := p.(DropMissingParams); return d.Column, ok }),
		Apply:    applyDropMissing,
	})
	for _, strategy := range []FillStrategy{FillMean, FillMedian, FillMode, FillForward, FillBackward} {
		Register(Definition{
			Name:     "fill-" + string(strategy),
			Summary:  fillSummary(strategy),
			Validate: validateFill,
			Apply:    applyFill,
		})
	}
}

func fillSummary(s FillStrategy) string {
	switch s {
	case FillMean:
		return "Fill missing values with the column mean"
	case FillMedian:
		return "Fill missing values with the column median"
	case FillMode:
		return "Fill missing values with the most frequent value"
	case FillForward:
		return "Propagate the nearest prior value into missing cells"
	default:
		return "Propagate the nearest following value into missing cells"
	}
}

// validateColumnParam builds a Validate func for operations whose only
// parameter is a target column.
func validateColumnParam(extract func(Params) (string, bool)) func(Params) error {
	return func(p Params) error {
		column, ok := extract(p)
		if !ok {
			return wrongParams(p.Op(), p)
		}
		if column == "" {
			return &ValidationError{Field: "column", Message: "select a column"}
		}
		return nil
	}
}

func validateFill(p Params) error {
	fp, ok := p.(FillParams)
	if !ok {
		return wrongParams(p.Op(), p)
	}
	if fp.Column == "" {
		return &ValidationError{Field: "column", Message: "select a column"}
	}
	switch fp.Strategy {
	case FillMean, FillMedian, FillMode, FillForward, FillBackward:
		return nil
	default:
		return &ValidationError{Field: "strategy", Message: fmt.Sprintf("unknown fill strategy %q", fp.Strategy)}
	}
}

func applyDropMissing(t *dataset.Table, p Params) (*dataset.Table, string, error) {
	dp := p.(DropMissingParams)
	col, err := requireColumn(t, dp.Column)
	if err != nil {
		return nil, "", err
	}

	before := t.NumRows()
	out := t.Filter(func(row int) bool { return !col.IsNull(row) })
	return out, fmt.Sprintf("Dropped %d rows missing in '%s'", before-out.NumRows(), dp.Column), nil
}

func applyFill(t *dataset.Table, p Params) (*dataset.Table, string, error) {
	fp := p.(FillParams)

	switch fp.Strategy {
	case FillMean, FillMedian:
		return fillCentral(t, fp)
	case FillMode:
		return fillMode(t, fp.Column)
	default:
		return fillDirectional(t, fp)
	}
}

// fillCentral handles mean and median fills. A column with no non-null
// values has nothing to fit, so it is left unchanged.
func fillCentral(t *dataset.Table, fp FillParams) (*dataset.Table, string, error) {
	col, err := requireNumeric(t, fp.Column)
	if err != nil {
		return nil, "", err
	}

	vals := col.Floats()
	if len(vals) == 0 {
		return t, fmt.Sprintf("'%s' has no values to fit, nothing filled", fp.Column), nil
	}

	sf := series.Floats(vals)
	var fill float64
	var label string
	if fp.Strategy == FillMean {
		fill, label = sf.Mean(), "Mean"
	} else {
		fill, label = sf.Median(), "Median"
	}

	filled := 0
	for i := 0; i < col.Len(); i++ {
		if col.IsNull(i) {
			col.SetFloat(i, fill)
			filled++
		}
	}
	return t, fmt.Sprintf("Filled %d cells in '%s' with %s", filled, fp.Column, label), nil
}

// fillMode fills nulls with the most frequent non-null value. Ties break by
// first appearance. Fails when the column has no values at all.
func fillMode(t *dataset.Table, column string) (*dataset.Table, string, error) {
	col, err := requireColumn(t, column)
	if err != nil {
		return nil, "", err
	}

	counts := make(map[any]int)
	var order []any
	for i := 0; i < col.Len(); i++ {
		v := col.Value(i)
		if v == nil {
			continue
		}
		if counts[v] == 0 {
			order = append(order, v)
		}
		counts[v]++
	}
	if len(order) == 0 {
		return nil, "", &ValidationError{Field: "column", Message: fmt.Sprintf("'%s' has no values to compute a mode", column)}
	}

	mode := order[0]
	for _, v := range order[1:] {
		if counts[v] > counts[mode] {
			mode = v
		}
	}

	filled := 0
	for i := 0; i < col.Len(); i++ {
		if !col.IsNull(i) {
			continue
		}
		setAny(col, i, mode)
		filled++
	}
	return t, fmt.Sprintf("Filled %d cells in '%s' with Mode", filled, column), nil
}

// fillDirectional handles forward and backward fills. Leading nulls (forward)
// and trailing nulls (backward) have no donor value and stay null.
func fillDirectional(t *dataset.Table, fp FillParams) (*dataset.Table, string, error) {
	col, err := requireColumn(t, fp.Column)
	if err != nil {
		return nil, "", err
	}

	filled := 0
	if fp.Strategy == FillForward {
		last := -1
		for i := 0; i < col.Len(); i++ {
			if !col.IsNull(i) {
				last = i
			} else if last >= 0 {
				setAny(col, i, col.Value(last))
				filled++
			}
		}
	} else {
		next := -1
		for i := col.Len() - 1; i >= 0; i-- {
			if !col.IsNull(i) {
				next = i
			} else if next >= 0 {
				setAny(col, i, col.Value(next))
				filled++
			}
		}
	}

	direction := "forward"
	if fp.Strategy == FillBackward {
		direction = "backward"
	}
	return t, fmt.Sprintf("Filled %d cells in '%s' (%s)", filled, fp.Column, direction), nil
}

// setAny stores an untyped non-nil value into the matching typed slot.
func setAny(col *dataset.Column, i int, v any) {
	switch col.Type {
	case dataset.TypeNumeric:
		col.SetFloat(i, v.(float64))
	case dataset.TypeTime:
		col.SetTime(i, v.(time.Time))
	default:
		col.SetText(i, v.(string))
	}
}
