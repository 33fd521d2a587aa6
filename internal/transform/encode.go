package transform

// encode.go converts categorical columns to numeric representations.
// One-hot is additive: one 0/1 column per distinct non-null value, appended
// after the existing columns, source untouched; rows where the source is
// null get null dummies. Label encoding replaces the column in place with
// integer codes assigned in first-seen order.

import (
	"fmt"

	"github.com/datalens-app/datalens/internal/dataset"
)

func init() {
	Register(Definition{
		Name:     OpEncode,
		Summary:  "Encode a categorical column (one-hot or label)",
		Validate: validateEncode,
		Apply:    applyEncode,
	})
}

func validateEncode(p Params) error {
	ep, ok := p.(EncodeParams)
	if !ok {
		return wrongParams(p.Op(), p)
	}
	if ep.Column == "" {
		return &ValidationError{Field: "column", Message: "select a column"}
	}
	switch ep.Method {
	case EncodeOneHot, EncodeLabel:
		return nil
	default:
		return &ValidationError{Field: "method", Message: fmt.Sprintf("unknown encoding %q", ep.Method)}
	}
}

func applyEncode(t *dataset.Table, p Params) (*dataset.Table, string, error) {
	ep := p.(EncodeParams)
	col, err := requireColumn(t, ep.Column)
	if err != nil {
		return nil, "", err
	}

	if ep.Method == EncodeLabel {
		return labelEncode(t, col)
	}
	return oneHotEncode(t, col)
}

// categories returns the distinct non-null values of a column in first-seen
// order, alongside their display labels.
func categories(col *dataset.Column) ([]any, []string) {
	seen := make(map[any]bool)
	var values []any
	var labels []string
	for i := 0; i < col.Len(); i++ {
		v := col.Value(i)
		if v == nil || seen[v] {
			continue
		}
		seen[v] = true
		values = append(values, v)
		labels = append(labels, col.Format(i))
	}
	return values, labels
}

func labelEncode(t *dataset.Table, col *dataset.Column) (*dataset.Table, string, error) {
	values, _ := categories(col)
	codes := make(map[any]float64, len(values))
	for i, v := range values {
		codes[v] = float64(i)
	}

	out := dataset.NewColumn(col.Name, dataset.TypeNumeric, col.Len())
	for i := 0; i < col.Len(); i++ {
		if v := col.Value(i); v != nil {
			out.SetFloat(i, codes[v])
		}
	}

	if err := t.ReplaceColumn(out); err != nil {
		return nil, "", err
	}
	return t, fmt.Sprintf("Label encoded '%s' (%d categories)", col.Name, len(values)), nil
}

func oneHotEncode(t *dataset.Table, col *dataset.Column) (*dataset.Table, string, error) {
	values, labels := categories(col)

	for k, v := range values {
		name := fmt.Sprintf("%s_%s", col.Name, labels[k])
		if t.HasColumn(name) {
			return nil, "", &ValidationError{Field: "column", Message: fmt.Sprintf("column %q already exists", name)}
		}
		dummy := dataset.NewColumn(name, dataset.TypeNumeric, col.Len())
		for i := 0; i < col.Len(); i++ {
			cell := col.Value(i)
			if cell == nil {
				continue
			}
			if cell == v {
				dummy.SetFloat(i, 1)
			} else {
				dummy.SetFloat(i, 0)
			}
		}
		if err := t.AppendColumn(dummy); err != nil {
			return nil, "", err
		}
	}

	return t, fmt.Sprintf("One-hot encoded '%s' (%d categories)", col.Name, len(values)), nil
}
