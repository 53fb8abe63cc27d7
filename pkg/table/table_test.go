package table

import (
	"testing"

	"github.com/matzehuels/spectools/pkg/spcat"
)

func row(line int, freq float64) Row {
	return Row{Transition: spcat.Transition{Line: line, Frequency: freq}}
}

func TestSortStable(t *testing.T) {
	tbl := &Table{Rows: []Row{
		row(1, 3000),
		row(2, 1000),
		row(3, 2000),
		row(4, 1000),
		row(5, 2000),
	}}
	if tbl.Sorted() {
		t.Fatal("Sorted() = true before sorting")
	}

	tbl.Sort()

	if !tbl.Sorted() {
		t.Fatal("Sorted() = false after Sort")
	}
	wantLines := []int{2, 4, 3, 5, 1}
	for i, want := range wantLines {
		if got := tbl.Rows[i].Line; got != want {
			t.Errorf("Rows[%d].Line = %d, want %d", i, got, want)
		}
	}
}

func TestSortEmpty(t *testing.T) {
	tbl := &Table{}
	tbl.Sort()
	if !tbl.Sorted() {
		t.Error("empty table should be sorted")
	}
}

func TestRecords(t *testing.T) {
	tbl := &Table{Rows: []Row{{
		Transition: spcat.Transition{Frequency: 1000, ReducedTDM: 2, Format: "303", UpperQN: "1 0", LowerQN: "0 0", DipoleCategory: "1"},
		TDM:        4,
		EinsteinA:  4.65586202e-11,
	}}}

	recs := tbl.Records()
	if len(recs) != 1 {
		t.Fatalf("len(Records) = %d, want 1", len(recs))
	}
	want := []string{"1000", "2", "303", "1 0", "0 0", "1", "4", "4.65586202e-11"}
	if len(recs[0]) != len(tbl.Headers()) {
		t.Fatalf("record width = %d, want %d", len(recs[0]), len(tbl.Headers()))
	}
	for i, w := range want {
		if recs[0][i] != w {
			t.Errorf("record[%d] = %q, want %q", i, recs[0][i], w)
		}
	}
}

func TestLineStrengthSort(t *testing.T) {
	tbl := &LineStrengthTable{Rows: []LineStrengthRow{
		{CatLine: spcat.CatLine{Line: 1, Frequency: 20}},
		{CatLine: spcat.CatLine{Line: 2, Frequency: 10}},
		{CatLine: spcat.CatLine{Line: 3, Frequency: 20}},
	}}
	tbl.Sort()

	wantLines := []int{2, 1, 3}
	for i, want := range wantLines {
		if got := tbl.Rows[i].Line; got != want {
			t.Errorf("Rows[%d].Line = %d, want %d", i, got, want)
		}
	}
	if got := len(tbl.Records()[0]); got != len(LineStrengthHeaders) {
		t.Errorf("record width = %d, want %d", got, len(LineStrengthHeaders))
	}
}
