package transform

// convert.go implements type coercion. Conversion always succeeds: cells
// that cannot be represented in the target type become null. Temporal and
// numeric cells convert through Unix seconds in both directions.

import (
	"fmt"
	"time"

	"github.com/datalens-app/datalens/internal/dataset"
)

func init() {
	Register(Definition{
		Name:     OpConvertType,
		Summary:  "Coerce a column to numeric, text, or datetime",
		Validate: validateConvertType,
		Apply:    applyConvertType,
	})
}

func validateConvertType(p Params) error {
	cp, ok := p.(ConvertTypeParams)
	if !ok {
		return wrongParams(p.Op(), p)
	}
	if cp.Column == "" {
		return &ValidationError{Field: "column", Message: "select a column"}
	}
	switch cp.Target {
	case TargetNumeric, TargetText, TargetDatetime:
		return nil
	default:
		return &ValidationError{Field: "target", Message: fmt.Sprintf("unknown target type %q", cp.Target)}
	}
}

func applyConvertType(t *dataset.Table, p Params) (*dataset.Table, string, error) {
	cp := p.(ConvertTypeParams)
	col, err := requireColumn(t, cp.Column)
	if err != nil {
		return nil, "", err
	}

	var out *dataset.Column
	var label string
	switch cp.Target {
	case TargetNumeric:
		out, label = toNumeric(col), "Numeric"
	case TargetDatetime:
		out, label = toDatetime(col), "Datetime"
	default:
		out, label = toText(col), "Text"
	}

	if err := t.ReplaceColumn(out); err != nil {
		return nil, "", err
	}
	nulls := out.NullCount() - col.NullCount()
	if nulls > 0 {
		return t, fmt.Sprintf("Converted '%s' to %s (%d cells became null)", cp.Column, label, nulls), nil
	}
	return t, fmt.Sprintf("Converted '%s' to %s", cp.Column, label), nil
}

func toNumeric(col *dataset.Column) *dataset.Column {
	out := dataset.NewColumn(col.Name, dataset.TypeNumeric, col.Len())
	for i := 0; i < col.Len(); i++ {
		if col.IsNull(i) {
			continue
		}
		switch col.Type {
		case dataset.TypeNumeric:
			out.SetFloat(i, col.Float(i))
		case dataset.TypeTime:
			out.SetFloat(i, float64(col.Time(i).Unix()))
		default:
			if f, ok := dataset.ParseNumeric(col.Text(i)); ok {
				out.SetFloat(i, f)
			}
		}
	}
	return out
}

func toDatetime(col *dataset.Column) *dataset.Column {
	out := dataset.NewColumn(col.Name, dataset.TypeTime, col.Len())
	for i := 0; i < col.Len(); i++ {
		if col.IsNull(i) {
			continue
		}
		switch col.Type {
		case dataset.TypeTime:
			out.SetTime(i, col.Time(i))
		case dataset.TypeNumeric:
			out.SetTime(i, time.Unix(int64(col.Float(i)), 0).UTC())
		default:
			if ts, ok := dataset.ParseTime(col.Text(i)); ok {
				out.SetTime(i, ts)
			}
		}
	}
	return out
}

func toText(col *dataset.Column) *dataset.Column {
	out := dataset.NewColumn(col.Name, dataset.TypeText, col.Len())
	for i := 0; i < col.Len(); i++ {
		if col.IsNull(i) {
			continue
		}
		out.SetText(i, col.Format(i))
	}
	return out
}
