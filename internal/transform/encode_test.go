package transform

import (
	"strings"
	"testing"

	"github.com/datalens-app/datalens/internal/dataset"
)

func TestLabelEncode_FirstSeenOrder(t *testing.T) {
	tbl := mustTable(t,
		dataset.NewTextColumn("color", []string{"red", "blue", "red", "green"}, nil),
	)

	out, msg := apply(t, tbl, EncodeParams{Column: "color", Method: EncodeLabel})
	c, _ := out.Column("color")
	if c.Type != dataset.TypeNumeric {
		t.Fatalf("type = %v, want numeric", c.Type)
	}

	want := []float64{0, 1, 0, 2}
	for i, w := range want {
		if c.Float(i) != w {
			t.Errorf("codes[%d] = %v, want %v", i, c.Float(i), w)
		}
	}
	if !strings.Contains(msg, "3 categories") {
		t.Errorf("message = %q, want category count", msg)
	}
}

func TestLabelEncode_PreservesNulls(t *testing.T) {
	tbl := mustTable(t,
		dataset.NewTextColumn("color", []string{"red", ""}, []bool{false, true}),
	)

	out, _ := apply(t, tbl, EncodeParams{Column: "color", Method: EncodeLabel})
	c, _ := out.Column("color")
	if !c.IsNull(1) {
		t.Error("null cell should stay null after label encoding")
	}
}

func TestOneHotEncode(t *testing.T) {
	tbl := mustTable(t,
		dataset.NewTextColumn("color", []string{"red", "blue", "red"}, nil),
		dataset.NewNumericColumn("n", []float64{1, 2, 3}, nil),
	)

	out, _ := apply(t, tbl, EncodeParams{Column: "color", Method: EncodeOneHot})

	// Source column untouched, dummies appended after existing columns
	names := out.ColumnNames()
	want := []string{"color", "n", "color_red", "color_blue"}
	if len(names) != len(want) {
		t.Fatalf("columns = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("columns = %v, want %v", names, want)
		}
	}

	red, _ := out.Column("color_red")
	blue, _ := out.Column("color_blue")
	for i := 0; i < 3; i++ {
		if red.Float(i)+blue.Float(i) != 1 {
			t.Errorf("row %d: dummies sum to %v, want 1", i, red.Float(i)+blue.Float(i))
		}
	}
	if red.Float(0) != 1 || red.Float(1) != 0 || red.Float(2) != 1 {
		t.Errorf("color_red = [%v %v %v], want [1 0 1]", red.Float(0), red.Float(1), red.Float(2))
	}
}

func TestOneHotEncode_NullRowsGetNullDummies(t *testing.T) {
	tbl := mustTable(t,
		dataset.NewTextColumn("color", []string{"red", ""}, []bool{false, true}),
	)

	out, _ := apply(t, tbl, EncodeParams{Column: "color", Method: EncodeOneHot})
	red, _ := out.Column("color_red")
	if !red.IsNull(1) {
		t.Error("null source row should get null dummies")
	}
}

func TestOneHotEncode_NumericCategories(t *testing.T) {
	tbl := mustTable(t,
		dataset.NewNumericColumn("size", []float64{1, 2, 1}, nil),
	)

	out, _ := apply(t, tbl, EncodeParams{Column: "size", Method: EncodeOneHot})
	if _, ok := out.Column("size_1"); !ok {
		t.Errorf("columns = %v, want size_1", out.ColumnNames())
	}
	if _, ok := out.Column("size_2"); !ok {
		t.Errorf("columns = %v, want size_2", out.ColumnNames())
	}
}

func TestOneHotEncode_NameConflict(t *testing.T) {
	tbl := mustTable(t,
		dataset.NewTextColumn("color", []string{"red"}, nil),
		dataset.NewNumericColumn("color_red", []float64{0}, nil),
	)
	wantValidationError(t, applyErr(t, tbl, EncodeParams{Column: "color", Method: EncodeOneHot}))
}

func TestEncode_Validation(t *testing.T) {
	wantValidationError(t, validateEncode(EncodeParams{Method: EncodeLabel}))
	wantValidationError(t, validateEncode(EncodeParams{Column: "a", Method: "ordinal"}))
}

func TestEncode_UnknownColumn(t *testing.T) {
	tbl := mustTable(t, dataset.NewTextColumn("a", []string{"x"}, nil))
	wantNotFoundError(t, applyErr(t, tbl, EncodeParams{Column: "zzz", Method: EncodeLabel}))
}
