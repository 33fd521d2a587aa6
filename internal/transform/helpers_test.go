package transform

import (
	"errors"
	"testing"

	"github.com/datalens-app/datalens/internal/dataset"
)

// mustTable builds a table or fails the test.
func mustTable(t *testing.T, cols ...*dataset.Column) *dataset.Table {
	t.Helper()
	tbl, err := dataset.New(cols...)
	if err != nil {
		t.Fatalf("dataset.New() error = %v", err)
	}
	return tbl
}

// apply runs a registered operation and fails the test on error.
func apply(t *testing.T, tbl *dataset.Table, p Params) (*dataset.Table, string) {
	t.Helper()
	def, ok := Get(p.Op())
	if !ok {
		t.Fatalf("operation %q not registered", p.Op())
	}
	if err := def.Validate(p); err != nil {
		t.Fatalf("Validate(%s) error = %v", p.Op(), err)
	}
	out, msg, err := def.Apply(tbl, p)
	if err != nil {
		t.Fatalf("Apply(%s) error = %v", p.Op(), err)
	}
	return out, msg
}

// applyErr runs a registered operation and returns its error.
func applyErr(t *testing.T, tbl *dataset.Table, p Params) error {
	t.Helper()
	def, ok := Get(p.Op())
	if !ok {
		t.Fatalf("operation %q not registered", p.Op())
	}
	if err := def.Validate(p); err != nil {
		return err
	}
	_, _, err := def.Apply(tbl, p)
	if err == nil {
		t.Fatalf("Apply(%s) succeeded, want error", p.Op())
	}
	return err
}

func wantValidationError(t *testing.T, err error) {
	t.Helper()
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("error = %T (%v), want *ValidationError", err, err)
	}
}

func wantNotFoundError(t *testing.T, err error) {
	t.Helper()
	var nfe *NotFoundError
	if !errors.As(err, &nfe) {
		t.Fatalf("error = %T (%v), want *NotFoundError", err, err)
	}
}

func wantTypeError(t *testing.T, err error) {
	t.Helper()
	var te *TypeError
	if !errors.As(err, &te) {
		t.Fatalf("error = %T (%v), want *TypeError", err, err)
	}
}
