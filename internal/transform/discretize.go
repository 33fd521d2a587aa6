package transform

// discretize.go buckets a continuous numeric column into integer bin
// indices, appended as a new `<column>_bins` column. The source column is
// never touched; null cells get a null bin.

import (
	"fmt"
	"sort"

	"github.com/datalens-app/datalens/internal/dataset"
	"github.com/go-gota/gota/series"
)

func init() {
	Register(Definition{
		Name:     OpDiscretize,
		Summary:  "Bucket a numeric column into integer bin indices",
		Validate: validateDiscretize,
		Apply:    applyDiscretize,
	})
}

func validateDiscretize(p Params) error {
	dp, ok := p.(DiscretizeParams)
	if !ok {
		return wrongParams(p.Op(), p)
	}
	if dp.Column == "" {
		return &ValidationError{Field: "column", Message: "select a column"}
	}
	if dp.Bins < 2 {
		return &ValidationError{Field: "bins", Message: "need at least 2 bins"}
	}
	switch dp.Strategy {
	case BinsEqualWidth, BinsEqualFrequency:
		return nil
	default:
		return &ValidationError{Field: "strategy", Message: fmt.Sprintf("unknown bin strategy %q", dp.Strategy)}
	}
}

func applyDiscretize(t *dataset.Table, p Params) (*dataset.Table, string, error) {
	dp := p.(DiscretizeParams)
	col, err := requireNumeric(t, dp.Column)
	if err != nil {
		return nil, "", err
	}

	name := dp.Column + "_bins"
	if t.HasColumn(name) {
		return nil, "", &ValidationError{Field: "column", Message: fmt.Sprintf("column %q already exists", name)}
	}

	vals := col.Floats()
	bins := dataset.NewColumn(name, dataset.TypeNumeric, col.Len())

	if len(vals) > 0 {
		var assign func(v float64) int
		if dp.Strategy == BinsEqualWidth {
			assign = equalWidthBinner(vals, dp.Bins)
		} else {
			assign, err = equalFrequencyBinner(col, vals, dp.Bins)
			if err != nil {
				return nil, "", err
			}
		}
		for i := 0; i < col.Len(); i++ {
			if !col.IsNull(i) {
				bins.SetFloat(i, float64(assign(col.Float(i))))
			}
		}
	}

	if err := t.AppendColumn(bins); err != nil {
		return nil, "", err
	}
	return t, fmt.Sprintf("Added '%s' with %d %s bins", name, dp.Bins, dp.Strategy), nil
}

// equalWidthBinner splits [min, max] into equal-width intervals. The maximum
// value lands in the last bin; a zero-width range puts everything in bin 0.
func equalWidthBinner(vals []float64, bins int) func(float64) int {
	sf := series.Floats(vals)
	min, max := sf.Min(), sf.Max()
	width := (max - min) / float64(bins)
	return func(v float64) int {
		if width == 0 {
			return 0
		}
		idx := int((v - min) / width)
		if idx >= bins {
			idx = bins - 1
		}
		return idx
	}
}

// equalFrequencyBinner places edges at sample quantiles so bins hold roughly
// equal row counts. Duplicate edges are dropped, which can yield fewer bins;
// fewer distinct values than requested bins is an error.
func equalFrequencyBinner(col *dataset.Column, vals []float64, bins int) (func(float64) int, error) {
	distinct := make(map[float64]bool, len(vals))
	for _, v := range vals {
		distinct[v] = true
	}
	if len(distinct) < bins {
		return nil, &ValidationError{
			Field:   "bins",
			Message: fmt.Sprintf("'%s' has %d distinct values, need at least %d for equal-frequency bins", col.Name, len(distinct), bins),
		}
	}

	sf := series.Floats(vals)
	var edges []float64
	for i := 1; i < bins; i++ {
		edges = append(edges, sf.Quantile(float64(i)/float64(bins)))
	}
	sort.Float64s(edges)
	edges = dedupeFloats(edges)

	return func(v float64) int {
		idx := 0
		for _, e := range edges {
			if v > e {
				idx++
			}
		}
		return idx
	}, nil
}

func dedupeFloats(sorted []float64) []float64 {
	var out []float64
	for _, v := range sorted {
		if len(out) == 0 || v != out[len(out)-1] {
			out = append(out, v)
		}
	}
	return out
}
