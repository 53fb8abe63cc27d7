package catalog

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	errs "github.com/matzehuels/spectools/pkg/errors"
	"github.com/matzehuels/spectools/pkg/molecule"
)

func seedMolecules(t *testing.T, m *Molecules) {
	t.Helper()
	for _, mol := range []molecule.Molecule{
		{Name: "cyanoacetylene", Formula: "HC3N", Smiles: "C#CC#N", Constants: map[string]float64{"B": 4549.0586}},
		{Name: "methyl cyanide", Formula: "CH3CN", Smiles: "CC#N", Constants: map[string]float64{"A": 158099, "B": 9198.9}},
		{Name: "propynal", Formula: "HC2CHO", Constants: map[string]float64{"A": 68035, "B": 4826.2}},
	} {
		if err := m.Add(context.Background(), &mol); err != nil {
			t.Fatal(err)
		}
	}
}

func TestMoleculesLookup(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	m := NewMolecules(NewMemoryStore[molecule.Molecule](), log.NewWithOptions(&buf, log.Options{}))
	seedMolecules(t, m)

	got, err := m.GetFormula(ctx, "CH3CN", false)
	if err != nil || len(got) != 1 || got[0].Name != "methyl cyanide" {
		t.Errorf("GetFormula = %+v, %v", got, err)
	}
	if buf.Len() != 0 {
		t.Errorf("unexpected log output %q", buf.String())
	}

	got, _ = m.GetFormula(ctx, "H C_3 N", true)
	if len(got) != 1 || got[0].Name != "cyanoacetylene" {
		t.Errorf("sanitized GetFormula = %+v", got)
	}
	if !strings.Contains(buf.String(), "sanitized") {
		t.Errorf("expected sanitize warning, log = %q", buf.String())
	}

	got, _ = m.GetSmiles(ctx, "CC#N")
	if len(got) != 1 || got[0].Formula != "CH3CN" {
		t.Errorf("GetSmiles = %+v", got)
	}

	got, _ = m.GetQuery(ctx, "constants.B", 4549.0586)
	if len(got) != 1 || got[0].Formula != "HC3N" {
		t.Errorf("GetQuery(constants.B) = %+v", got)
	}

	if _, err := m.GetQuery(ctx, "$where", "1"); !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("GetQuery with operator error = %v, want %v", err, errs.ErrCodeInvalidInput)
	}
}

func TestMatchConstants(t *testing.T) {
	ctx := context.Background()
	m := NewMolecules(NewMemoryStore[molecule.Molecule](), nil)
	seedMolecules(t, m)

	tests := []struct {
		name      string
		tol       float64
		matchAll  bool
		constants map[string]float64
		want      []string
	}{
		{"single", 0.01, true, map[string]float64{"B": 4550}, []string{"HC3N"}},
		{"wide", 0.1, true, map[string]float64{"B": 4700}, []string{"HC3N", "HC2CHO"}},
		{"all", 0.01, true, map[string]float64{"A": 158000, "B": 9200}, []string{"CH3CN"}},
		{"all one miss", 0.01, true, map[string]float64{"A": 68000, "B": 9200}, nil},
		{"any", 0.01, false, map[string]float64{"A": 68000, "B": 9200}, []string{"CH3CN", "HC2CHO"}},
		{"none", 0.001, false, map[string]float64{"C": 1}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := m.MatchConstants(ctx, tt.tol, tt.matchAll, tt.constants)
			if err != nil {
				t.Fatal(err)
			}
			var formulas []string
			for _, mol := range got {
				formulas = append(formulas, mol.Formula)
			}
			if strings.Join(formulas, ",") != strings.Join(tt.want, ",") {
				t.Errorf("MatchConstants = %v, want %v", formulas, tt.want)
			}
		})
	}

	if _, err := m.MatchConstants(ctx, 0.1, true, nil); !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("no constants error = %v, want %v", err, errs.ErrCodeInvalidInput)
	}
	if _, err := m.MatchConstants(ctx, -0.1, true, map[string]float64{"B": 1}); !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("negative tolerance error = %v, want %v", err, errs.ErrCodeInvalidInput)
	}
}

func TestAddMoleculeYAML(t *testing.T) {
	ctx := context.Background()
	m := NewMolecules(NewMemoryStore[molecule.Molecule](), nil)

	path := filepath.Join(t.TempDir(), "hc3n.yml")
	content := "name: cyanoacetylene\nformula: HC3N\nconstants:\n  B: 4549.0586\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	mol, err := m.AddMoleculeYAML(ctx, path)
	if err != nil {
		t.Fatalf("AddMoleculeYAML: %v", err)
	}
	if mol.ID == "" || mol.MD5 == "" {
		t.Errorf("molecule = %+v, want ID and MD5 set", mol)
	}

	if _, err := m.AddMoleculeYAML(ctx, path); !errs.Is(err, errs.ErrCodeDuplicate) {
		t.Errorf("second add error = %v, want %v", err, errs.ErrCodeDuplicate)
	}

	got, _ := m.GetQuery(ctx, "md5", mol.MD5)
	if len(got) != 1 {
		t.Errorf("stored %d molecules with MD5, want 1", len(got))
	}
}
