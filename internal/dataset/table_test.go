package dataset

import (
	"strings"
	"testing"
	"time"
)

func TestNew_RejectsDuplicateNames(t *testing.T) {
	_, err := New(
		NewNumericColumn("a", []float64{1}, nil),
		NewTextColumn("a", []string{"x"}, nil),
	)
	if err == nil || !strings.Contains(err.Error(), "duplicate") {
		t.Fatalf("New() error = %v, want duplicate column error", err)
	}
}

func TestNew_RejectsUnequalLengths(t *testing.T) {
	_, err := New(
		NewNumericColumn("a", []float64{1, 2}, nil),
		NewTextColumn("b", []string{"x"}, nil),
	)
	if err == nil {
		t.Fatal("New() succeeded with unequal column lengths, want error")
	}
}

func TestColumn_NullTracking(t *testing.T) {
	c := NewNumericColumn("a", []float64{1, 0, 3}, []bool{false, true, false})

	if c.NullCount() != 1 {
		t.Errorf("NullCount() = %d, want 1", c.NullCount())
	}
	if !c.IsNull(1) {
		t.Error("IsNull(1) = false, want true")
	}
	if c.Value(1) != nil {
		t.Errorf("Value(1) = %v, want nil", c.Value(1))
	}
	if got := c.Value(2); got != 3.0 {
		t.Errorf("Value(2) = %v, want 3", got)
	}

	c.SetFloat(1, 2)
	if c.IsNull(1) {
		t.Error("IsNull(1) = true after SetFloat, want false")
	}

	c.SetNull(0)
	if !c.IsNull(0) {
		t.Error("IsNull(0) = false after SetNull, want true")
	}
}

func TestColumn_Floats_SkipsNulls(t *testing.T) {
	c := NewNumericColumn("a", []float64{1, 0, 3}, []bool{false, true, false})

	got := c.Floats()
	if len(got) != 2 || got[0] != 1 || got[1] != 3 {
		t.Errorf("Floats() = %v, want [1 3]", got)
	}
}

func TestTable_ReplaceColumn_KeepsPosition(t *testing.T) {
	tbl, err := New(
		NewNumericColumn("a", []float64{1}, nil),
		NewTextColumn("b", []string{"x"}, nil),
		NewNumericColumn("c", []float64{2}, nil),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if err := tbl.ReplaceColumn(NewNumericColumn("b", []float64{7}, nil)); err != nil {
		t.Fatalf("ReplaceColumn() error = %v", err)
	}

	names := tbl.ColumnNames()
	want := []string{"a", "b", "c"}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("ColumnNames() = %v, want %v", names, want)
		}
	}

	col, _ := tbl.Column("b")
	if col.Type != TypeNumeric {
		t.Errorf("replaced column type = %v, want numeric", col.Type)
	}
}

func TestTable_DropColumns(t *testing.T) {
	tbl, _ := New(
		NewNumericColumn("a", []float64{1}, nil),
		NewTextColumn("b", []string{"x"}, nil),
	)

	out, err := tbl.DropColumns("b")
	if err != nil {
		t.Fatalf("DropColumns() error = %v", err)
	}
	if out.NumCols() != 1 || out.ColumnNames()[0] != "a" {
		t.Errorf("DropColumns() kept %v, want [a]", out.ColumnNames())
	}

	if _, err := tbl.DropColumns("missing"); err == nil {
		t.Error("DropColumns(missing) succeeded, want error")
	}
}

func TestTable_Filter(t *testing.T) {
	col := NewNumericColumn("a", []float64{1, 2, 3, 4}, nil)
	tbl, _ := New(col)

	out := tbl.Filter(func(row int) bool { return col.Float(row) > 2 })
	if out.NumRows() != 2 {
		t.Fatalf("Filter() rows = %d, want 2", out.NumRows())
	}

	kept, _ := out.Column("a")
	if kept.Float(0) != 3 || kept.Float(1) != 4 {
		t.Errorf("Filter() values = [%v %v], want [3 4]", kept.Float(0), kept.Float(1))
	}

	// Source table untouched
	if tbl.NumRows() != 4 {
		t.Errorf("source rows = %d after Filter, want 4", tbl.NumRows())
	}
}

func TestTable_CloneIsDeep(t *testing.T) {
	tbl, _ := New(
		NewTextColumn("a", []string{"x", "y"}, nil),
		NewTimeColumn("t", []time.Time{time.Unix(0, 0), time.Unix(1, 0)}, nil),
	)

	dup := tbl.Clone()
	if !tbl.Equal(dup) {
		t.Fatal("Clone() not Equal to source")
	}

	col, _ := dup.Column("a")
	col.SetText(0, "changed")
	orig, _ := tbl.Column("a")
	if orig.Text(0) != "x" {
		t.Error("mutating clone changed the source column")
	}
	if tbl.Equal(dup) {
		t.Error("Equal() = true after mutating clone, want false")
	}
}

func TestTable_Equal_NullPattern(t *testing.T) {
	a, _ := New(NewNumericColumn("a", []float64{0, 2}, []bool{true, false}))
	b, _ := New(NewNumericColumn("a", []float64{0, 2}, []bool{false, false}))

	if a.Equal(b) {
		t.Error("Equal() = true for differing null patterns, want false")
	}
}
