package transform

// scale.go implements in-place rescaling of numeric columns. Each method is
// fit on the column's current non-null values and applied in the same step;
// no scaler state survives the call. A column with zero spread (max == min,
// zero stddev, zero IQR) maps every value to 0 rather than dividing by zero.

import (
	"fmt"
	"math"

	"github.com/datalens-app/datalens/internal/dataset"
	"github.com/go-gota/gota/series"
)

func init() {
	Register(Definition{
		Name:     OpNormalize,
		Summary:  "Rescale numeric columns (min-max, standard, or robust)",
		Validate: validateNormalize,
		Apply:    applyNormalize,
	})
}

func validateNormalize(p Params) error {
	np, ok := p.(NormalizeParams)
	if !ok {
		return wrongParams(p.Op(), p)
	}
	if len(np.Columns) == 0 {
		return &ValidationError{Field: "columns", Message: "select at least one column"}
	}
	switch np.Method {
	case ScaleMinMax, ScaleStandard, ScaleRobust:
		return nil
	default:
		return &ValidationError{Field: "method", Message: fmt.Sprintf("unknown scaling method %q", np.Method)}
	}
}

func applyNormalize(t *dataset.Table, p Params) (*dataset.Table, string, error) {
	np := p.(NormalizeParams)

	// Check every column before touching any, so a bad list fails whole.
	cols := make([]*dataset.Column, len(np.Columns))
	for i, name := range np.Columns {
		col, err := requireNumeric(t, name)
		if err != nil {
			return nil, "", err
		}
		cols[i] = col
	}

	for _, col := range cols {
		rescale(col, np.Method)
	}

	return t, fmt.Sprintf("Rescaled %d columns (%s)", len(cols), np.Method), nil
}

// rescale fits the method on the column's non-null values and applies it in
// place. Columns with no values are left unchanged.
func rescale(col *dataset.Column, method ScaleMethod) {
	vals := col.Floats()
	if len(vals) == 0 {
		return
	}

	sf := series.Floats(vals)
	var center, spread float64
	switch method {
	case ScaleMinMax:
		center = sf.Min()
		spread = sf.Max() - center
	case ScaleStandard:
		center = sf.Mean()
		spread = sf.StdDev()
	default: // robust
		center = sf.Median()
		spread = sf.Quantile(0.75) - sf.Quantile(0.25)
	}

	// The sample standard deviation of a single value is NaN; treat it as
	// zero spread so the column maps to 0 instead of NaN, which the
	// snapshot codec cannot carry.
	if math.IsNaN(spread) {
		spread = 0
	}

	for i := 0; i < col.Len(); i++ {
		if col.IsNull(i) {
			continue
		}
		if spread == 0 {
			col.SetFloat(i, 0)
		} else {
			col.SetFloat(i, (col.Float(i)-center)/spread)
		}
	}
}
