package core

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/datalens-app/datalens/internal/session"
	"github.com/datalens-app/datalens/internal/transform"
)

const sampleCSV = "A,B\n1,x\nNA,y\n3,x\n"

func newTestService() *Service {
	return NewService(session.NewStore(time.Hour, 0), Limits{})
}

func uploadSample(t *testing.T, s *Service) string {
	t.Helper()
	res, err := s.Upload(context.Background(), "sample.csv", []byte(sampleCSV))
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	return res.SessionID
}

func TestService_Upload(t *testing.T) {
	s := newTestService()

	res, err := s.Upload(context.Background(), "sample.csv", []byte(sampleCSV))
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if res.SessionID == "" {
		t.Error("Upload() returned empty session id")
	}
	if res.Rows != 3 || res.Columns != 2 {
		t.Errorf("shape = %dx%d, want 3x2", res.Rows, res.Columns)
	}
	if res.FileName != "sample.csv" {
		t.Errorf("FileName = %q, want sample.csv", res.FileName)
	}
}

func TestService_Upload_RejectsMalformedCSV(t *testing.T) {
	s := newTestService()

	_, err := s.Upload(context.Background(), "bad.csv", []byte(""))
	var pe *transform.ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("Upload() error = %T (%v), want *ParseError", err, err)
	}
}

func TestService_Upload_EnforcesLimits(t *testing.T) {
	s := NewService(session.NewStore(time.Hour, 0), Limits{MaxRows: 2, MaxColumns: 10})

	_, err := s.Upload(context.Background(), "big.csv", []byte(sampleCSV))
	var ve *transform.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("Upload() error = %T (%v), want *ValidationError", err, err)
	}

	s = NewService(session.NewStore(time.Hour, 0), Limits{MaxRows: 10, MaxColumns: 1})
	_, err = s.Upload(context.Background(), "wide.csv", []byte(sampleCSV))
	if !errors.As(err, &ve) {
		t.Fatalf("Upload() error = %T (%v), want *ValidationError", err, err)
	}
}

func TestService_DispatchCommitsOnSuccess(t *testing.T) {
	s := newTestService()
	id := uploadSample(t, s)

	res, err := s.Dispatch(context.Background(), id, transform.FillParams{Column: "A", Strategy: transform.FillMean})
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if res.Op != "fill-mean" {
		t.Errorf("Op = %q, want fill-mean", res.Op)
	}
	if res.Rows != 3 || res.Columns != 2 {
		t.Errorf("shape = %dx%d, want 3x2", res.Rows, res.Columns)
	}
	if !strings.Contains(res.Message, "Filled 1 cells") {
		t.Errorf("Message = %q, want fill count", res.Message)
	}

	// The committed snapshot carries the filled value: mean of {1, 3} is 2
	tbl, err := s.Table(id)
	if err != nil {
		t.Fatalf("Table() error = %v", err)
	}
	a, _ := tbl.Column("A")
	if a.NullCount() != 0 {
		t.Errorf("NullCount = %d after commit, want 0", a.NullCount())
	}
	if a.Float(1) != 2 {
		t.Errorf("A[1] = %v, want 2", a.Float(1))
	}
}

func TestService_DispatchLeavesSnapshotOnFailure(t *testing.T) {
	s := newTestService()
	id := uploadSample(t, s)

	before, err := s.Table(id)
	if err != nil {
		t.Fatalf("Table() error = %v", err)
	}

	// Mean fill on a text column is a type error
	_, err = s.Dispatch(context.Background(), id, transform.FillParams{Column: "B", Strategy: transform.FillMean})
	var te *transform.TypeError
	if !errors.As(err, &te) {
		t.Fatalf("Dispatch() error = %T (%v), want *TypeError", err, err)
	}

	after, err := s.Table(id)
	if err != nil {
		t.Fatalf("Table() error = %v", err)
	}
	if !before.Equal(after) {
		t.Error("snapshot changed after a rejected transform")
	}
}

func TestService_DispatchUnknownOp(t *testing.T) {
	s := newTestService()
	id := uploadSample(t, s)

	_, err := s.Dispatch(context.Background(), id, fakeParams{})
	var ve *transform.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("Dispatch() error = %T (%v), want *ValidationError", err, err)
	}
}

type fakeParams struct{}

func (fakeParams) Op() string { return "frobnicate" }

func TestService_DispatchUnknownSession(t *testing.T) {
	s := newTestService()

	_, err := s.Dispatch(context.Background(), "missing", transform.DropMissingParams{Column: "A"})
	if !errors.Is(err, session.ErrNotFound) {
		t.Fatalf("Dispatch() error = %v, want ErrNotFound", err)
	}
}

func TestService_SequentialTransforms(t *testing.T) {
	s := newTestService()
	id := uploadSample(t, s)

	steps := []transform.Params{
		transform.FillParams{Column: "A", Strategy: transform.FillMean},
		transform.EncodeParams{Column: "B", Method: transform.EncodeLabel},
		transform.NormalizeParams{Columns: []string{"A", "B"}, Method: transform.ScaleMinMax},
	}
	for _, p := range steps {
		if _, err := s.Dispatch(context.Background(), id, p); err != nil {
			t.Fatalf("Dispatch(%s) error = %v", p.Op(), err)
		}
	}

	tbl, err := s.Table(id)
	if err != nil {
		t.Fatalf("Table() error = %v", err)
	}
	b, _ := tbl.Column("B")
	// Label codes {0, 1} min-max scale to exactly {0, 1}
	if b.Float(0) != 0 || b.Float(1) != 1 || b.Float(2) != 0 {
		t.Errorf("B = [%v %v %v], want [0 1 0]", b.Float(0), b.Float(1), b.Float(2))
	}
}

func TestService_Summary(t *testing.T) {
	s := newTestService()
	id := uploadSample(t, s)

	sum, err := s.Summary(id)
	if err != nil {
		t.Fatalf("Summary() error = %v", err)
	}
	if sum.Rows != 3 || sum.Columns != 2 {
		t.Errorf("Rows/Columns = %d/%d, want 3/2", sum.Rows, sum.Columns)
	}
	if sum.Fields[0].Nulls != 1 {
		t.Errorf("A nulls = %d, want 1", sum.Fields[0].Nulls)
	}
}

func TestService_Export(t *testing.T) {
	s := newTestService()
	id := uploadSample(t, s)

	data, name, err := s.Export(id)
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if name != "sample_cleaned.csv" {
		t.Errorf("export name = %q, want sample_cleaned.csv", name)
	}
	if !strings.HasPrefix(string(data), "A,B\n") {
		t.Errorf("export data = %q, want CSV with header", data)
	}
}

func TestService_Drop(t *testing.T) {
	s := newTestService()
	id := uploadSample(t, s)

	s.Drop(id)
	if _, err := s.Table(id); !errors.Is(err, session.ErrNotFound) {
		t.Errorf("Table() error = %v after Drop, want ErrNotFound", err)
	}
}

func TestService_Catalog(t *testing.T) {
	s := newTestService()

	entries := s.Catalog()
	if len(entries) != transform.Count() {
		t.Fatalf("Catalog() has %d entries, want %d", len(entries), transform.Count())
	}
	for _, e := range entries {
		if e.Name == "" || e.Summary == "" {
			t.Errorf("entry %+v missing name or summary", e)
		}
	}
}

func TestExportName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"sample.csv", "sample_cleaned.csv"},
		{"data", "data_cleaned.csv"},
		{".csv", "dataset_cleaned.csv"},
	}
	for _, tt := range tests {
		if got := exportName(tt.in); got != tt.want {
			t.Errorf("exportName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
