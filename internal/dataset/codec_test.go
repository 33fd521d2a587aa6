package dataset

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func sampleTable(t *testing.T) *Table {
	t.Helper()
	tbl, err := New(
		NewNumericColumn("amount", []float64{1.5, 0, 0.1}, []bool{false, true, false}),
		NewTextColumn("name", []string{"alice", "bob", ""}, []bool{false, false, true}),
		NewTimeColumn("joined", []time.Time{
			time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC),
			time.Date(2023, 6, 15, 10, 30, 0, 123456789, time.UTC),
			{},
		}, []bool{false, false, true}),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return tbl
}

func TestCodec_RoundTrip(t *testing.T) {
	tbl := sampleTable(t)

	data, err := Encode(tbl)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	back, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if !tbl.Equal(back) {
		t.Error("decoded table differs from the original")
	}
}

func TestCodec_ReEncodeIsStable(t *testing.T) {
	data, err := Encode(sampleTable(t))
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	back, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	again, err := Encode(back)
	if err != nil {
		t.Fatalf("re-Encode() error = %v", err)
	}
	if !bytes.Equal(data, again) {
		t.Errorf("re-encoded snapshot differs:\n%s\n%s", data, again)
	}
}

func TestEncode_SchemaAndNulls(t *testing.T) {
	tbl, _ := New(NewNumericColumn("a", []float64{1, 0}, []bool{false, true}))

	data, err := Encode(tbl)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	s := string(data)
	for _, want := range []string{`"name":"a"`, `"type":"numeric"`, `[1]`, `[null]`} {
		if !strings.Contains(s, want) {
			t.Errorf("snapshot %s missing %s", s, want)
		}
	}
}

func TestDecode_RejectsMalformedSnapshots(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", `{{`},
		{"unknown type", `{"schema":[{"name":"a","type":"blob"}],"rows":[]}`},
		{"row width mismatch", `{"schema":[{"name":"a","type":"numeric"}],"rows":[[1,2]]}`},
		{"wrong cell type", `{"schema":[{"name":"a","type":"numeric"}],"rows":[["x"]]}`},
		{"bad timestamp", `{"schema":[{"name":"a","type":"datetime"}],"rows":[["yesterday"]]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode([]byte(tt.data)); err == nil {
				t.Errorf("Decode(%s) succeeded, want error", tt.data)
			}
		})
	}
}

func TestDecode_EmptyTable(t *testing.T) {
	tbl, err := Decode([]byte(`{"schema":[],"rows":[]}`))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if tbl.NumRows() != 0 || tbl.NumCols() != 0 {
		t.Errorf("shape = %dx%d, want 0x0", tbl.NumRows(), tbl.NumCols())
	}
}
