package transform

// split.go deterministically partitions rows into train and test sets. The
// assignment is recorded in a `split` marker column so every original row is
// kept, covered exactly once, and the partition is reproducible: a fixed
// seed drives the shuffle. Re-splitting overwrites the previous marker.

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/datalens-app/datalens/internal/dataset"
)

// SplitSeed drives the deterministic row shuffle.
const SplitSeed = 42

// SplitColumn is the name of the train/test marker column.
const SplitColumn = "split"

func init() {
	Register(Definition{
		Name:     OpSplit,
		Summary:  "Partition rows into train and test sets",
		Validate: validateSplit,
		Apply:    applySplit,
	})
}

func validateSplit(p Params) error {
	sp, ok := p.(SplitParams)
	if !ok {
		return wrongParams(p.Op(), p)
	}
	if sp.Target == "" {
		return &ValidationError{Field: "target", Message: "select a target column"}
	}
	if sp.TestFraction <= 0 || sp.TestFraction >= 1 {
		return &ValidationError{Field: "testFraction", Message: "test fraction must be between 0 and 1"}
	}
	return nil
}

func applySplit(t *dataset.Table, p Params) (*dataset.Table, string, error) {
	sp := p.(SplitParams)
	if _, err := requireColumn(t, sp.Target); err != nil {
		return nil, "", err
	}

	n := t.NumRows()
	nTest := int(math.Round(float64(n) * sp.TestFraction))

	marker := dataset.NewColumn(SplitColumn, dataset.TypeText, n)
	perm := rand.New(rand.NewSource(SplitSeed)).Perm(n)
	for i, row := range perm {
		if i < nTest {
			marker.SetText(row, "test")
		} else {
			marker.SetText(row, "train")
		}
	}

	if t.HasColumn(SplitColumn) {
		if err := t.ReplaceColumn(marker); err != nil {
			return nil, "", err
		}
	} else if err := t.AppendColumn(marker); err != nil {
		return nil, "", err
	}

	return t, fmt.Sprintf("Split %d rows into %d train / %d test on target '%s'", n, n-nTest, nTest, sp.Target), nil
}
