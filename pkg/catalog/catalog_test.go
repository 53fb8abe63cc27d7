package catalog

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	errs "github.com/matzehuels/spectools/pkg/errors"
	"github.com/matzehuels/spectools/pkg/spcat"
	"github.com/matzehuels/spectools/pkg/table"
)

func catLine(freq, lgint, elo float64, tag int, upper, lower string) string {
	return fmt.Sprintf("%13.4f%8.4f%8.4f%2d%10.4f%3s%7d%4d%-12s%-12s", freq, 0.001, lgint, 3, elo, "3", tag, 101, upper, lower)
}

func writeCat(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mol.cat")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func newTestCatalog(buf *bytes.Buffer) *Catalog {
	var logger *log.Logger
	if buf != nil {
		logger = log.NewWithOptions(buf, log.Options{Level: log.DebugLevel})
	}
	return NewCatalog(NewMemoryStore[Entry](), logger)
}

func TestAddEntryDuplicate(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	c := newTestCatalog(&buf)

	e := Entry{Name: "hc3n", Frequency: 9098.332, Experiment: 1}
	ok, err := c.AddEntry(ctx, e, true)
	if err != nil || !ok {
		t.Fatalf("first AddEntry = %v, %v; want true, nil", ok, err)
	}

	ok, err = c.AddEntry(ctx, e, true)
	if err != nil {
		t.Fatalf("second AddEntry: %v", err)
	}
	if ok {
		t.Error("duplicate entry was inserted")
	}
	if !strings.Contains(buf.String(), "already exists") {
		t.Errorf("expected duplicate warning, log = %q", buf.String())
	}

	ok, _ = c.AddEntry(ctx, e, false)
	if !ok {
		t.Error("AddEntry without dupCheck should insert")
	}

	got, _ := c.SearchMolecule(ctx, "hc3n")
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].ID == "" || got[0].ID == got[1].ID {
		t.Errorf("IDs = %q, %q; want distinct non-empty", got[0].ID, got[1].ID)
	}
}

func TestAddCatalog(t *testing.T) {
	ctx := context.Background()
	c := newTestCatalog(nil)

	if _, err := c.AddEntry(ctx, Entry{Name: "hc3n", Frequency: 9098.3321}, false); err != nil {
		t.Fatal(err)
	}

	path := writeCat(t,
		catLine(9098.3321, -3.4521, 0, 51001, " 1", " 0"),
		catLine(18196.2245, -2.6180, 0.3035, 51001, " 2", " 1"),
		catLine(27294.0780, -2.1950, 0.9105, 51001, " 3", " 2"),
	)

	n, err := c.AddCatalog(ctx, path, "hc3n", "HC3N", map[string]string{"source": "jpl"})
	if err != nil {
		t.Fatalf("AddCatalog: %v", err)
	}
	if n != 2 {
		t.Errorf("inserted = %d, want 2 (one frequency already known)", n)
	}

	got, _ := c.SearchFormula(ctx, "HC3N")
	if len(got) != 2 {
		t.Fatalf("SearchFormula len = %d, want 2", len(got))
	}
	e := got[0]
	if e.CatalogFrequency != 18196.2245 || e.CatalogIntensity != -2.618 || e.LowerEnergy != 0.3035 {
		t.Errorf("entry = %+v", e)
	}
	if e.UpperQN != "2" || e.LowerQN != "1" || e.Extra["source"] != "jpl" {
		t.Errorf("entry QN/extra = %q %q %v", e.UpperQN, e.LowerQN, e.Extra)
	}

	if _, err := c.AddCatalog(ctx, filepath.Join(t.TempDir(), "missing.cat"), "x", "", nil); !errs.Is(err, errs.ErrCodeFileNotFound) {
		t.Errorf("missing file error = %v, want %v", err, errs.ErrCodeFileNotFound)
	}
}

func TestAddTable(t *testing.T) {
	ctx := context.Background()
	c := newTestCatalog(nil)

	tbl := &table.Table{Rows: []table.Row{
		{Transition: spcat.Transition{Frequency: 1000, UpperQN: "1", LowerQN: "0"}, TDM: 4, EinsteinA: 4.65586202e-11},
		{Transition: spcat.Transition{Frequency: 2000}, TDM: 1, EinsteinA: 1e-10},
	}}
	n, err := c.AddTable(ctx, tbl, "test", "X")
	if err != nil || n != 2 {
		t.Fatalf("AddTable = %d, %v; want 2, nil", n, err)
	}
	n, _ = c.AddTable(ctx, tbl, "test", "X")
	if n != 0 {
		t.Errorf("second AddTable = %d, want 0", n)
	}

	got, _ := c.SearchFrequency(ctx, 1000, 0.5, false)
	if len(got) != 1 || got[0].EinsteinA != 4.65586202e-11 {
		t.Errorf("SearchFrequency = %+v", got)
	}
}

func TestSearchFrequency(t *testing.T) {
	ctx := context.Background()
	c := newTestCatalog(nil)
	for _, e := range []Entry{
		{Name: "a", Frequency: 10000},
		{Name: "b", CatalogFrequency: 10004},
		{Name: "c", Frequency: 10020},
		{Name: "d", Frequency: 9000, CatalogFrequency: 9999},
	} {
		if _, err := c.AddEntry(ctx, e, false); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		name     string
		f, prox  float64
		relative bool
		want     string
	}{
		{"absolute", 10000, 5, false, "abd"},
		{"absolute narrow", 10000, 0.5, false, "a"},
		{"relative", 10000, 0.003, true, "abcd"},
		{"nothing", 50000, 1, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.SearchFrequency(ctx, tt.f, tt.prox, tt.relative)
			if err != nil {
				t.Fatal(err)
			}
			var names string
			for _, e := range got {
				names += e.Name
			}
			if names != tt.want {
				t.Errorf("SearchFrequency(%v, %v, %v) = %q, want %q", tt.f, tt.prox, tt.relative, names, tt.want)
			}
		})
	}

	if _, err := c.SearchFrequency(ctx, 1, -1, false); !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("negative prox error = %v, want %v", err, errs.ErrCodeInvalidInput)
	}
}

func TestFrequencyWindow(t *testing.T) {
	lo, hi := FrequencyWindow(1000, 0.1, true)
	if lo != 900 || hi != 1100 {
		t.Errorf("relative window = [%v, %v], want [900, 1100]", lo, hi)
	}
	lo, hi = FrequencyWindow(1000, 5, false)
	if lo != 995 || hi != 1005 {
		t.Errorf("absolute window = [%v, %v], want [995, 1005]", lo, hi)
	}
}

func TestExperimentOps(t *testing.T) {
	ctx := context.Background()
	c := newTestCatalog(nil)
	for i, exp := range []int{1, 2, 1, 0} {
		if _, err := c.AddEntry(ctx, Entry{Name: "m", Frequency: float64(100 + i), Experiment: exp}, false); err != nil {
			t.Fatal(err)
		}
	}

	got, _ := c.SearchExperiment(ctx, 1)
	if len(got) != 2 {
		t.Errorf("SearchExperiment(1) len = %d, want 2", len(got))
	}

	n, err := c.RemoveExperiment(ctx, 1)
	if err != nil || n != 2 {
		t.Errorf("RemoveExperiment = %d, %v; want 2, nil", n, err)
	}
	if got, _ := c.SearchExperiment(ctx, 1); len(got) != 0 {
		t.Errorf("after remove len = %d, want 0", len(got))
	}

	n, _ = c.RemoveMolecule(ctx, "m")
	if n != 2 {
		t.Errorf("RemoveMolecule = %d, want 2", n)
	}
	n, _ = c.RemoveMolecule(ctx, "m")
	if n != 0 {
		t.Errorf("second RemoveMolecule = %d, want 0", n)
	}
}
