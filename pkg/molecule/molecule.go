// Package molecule loads molecule description files.
//
// A molecule file is YAML:
//
//	name: cyanoacetylene
//	formula: HC3N
//	smiles: C#CC#N
//	source: Thorwirth et al. 2000
//	sigma: 1
//	constants:
//	  B: 4549.0586
//	  D: 0.000544
//
// The MD5 of the file bytes identifies the file in the molecule database.
package molecule

import (
	"crypto/md5"
	"encoding/hex"
	"os"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"

	errs "github.com/matzehuels/spectools/pkg/errors"
	"github.com/matzehuels/spectools/pkg/radiative"
)

// Molecule is a molecule record: identification plus Hamiltonian constants
// in MHz, keyed by parameter name (A, B, C, D_J, ...).
type Molecule struct {
	ID        string             `json:"id,omitempty" bson:"_id,omitempty" yaml:"-"`
	Name      string             `json:"name" bson:"name" yaml:"name"`
	Formula   string             `json:"formula,omitempty" bson:"formula,omitempty" yaml:"formula"`
	Smiles    string             `json:"smiles,omitempty" bson:"smiles,omitempty" yaml:"smiles"`
	Source    string             `json:"source,omitempty" bson:"source,omitempty" yaml:"source"`
	Sigma     float64            `json:"sigma,omitempty" bson:"sigma,omitempty" yaml:"sigma"`
	Constants map[string]float64 `json:"constants,omitempty" bson:"constants,omitempty" yaml:"constants"`
	MD5       string             `json:"md5,omitempty" bson:"md5,omitempty" yaml:"-"`
}

// Load reads the molecule file at path and records its MD5.
func Load(path string) (*Molecule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errs.Wrap(errs.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, errs.Wrap(errs.ErrCodeInternal, err, "read %s", path)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, errs.Wrap(errs.GetCode(err), err, "%s", path)
	}
	return m, nil
}

// Parse decodes a molecule from YAML bytes.
func Parse(data []byte) (*Molecule, error) {
	var m Molecule
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, errs.Wrap(errs.ErrCodeParse, err, "decode molecule")
	}
	if strings.TrimSpace(m.Name) == "" {
		return nil, errs.New(errs.ErrCodeInvalidInput, "molecule name is required")
	}
	for k := range m.Constants {
		if err := errs.ValidateFieldName(k); err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "constant %q", k)
		}
	}
	sum := md5.Sum(data)
	m.MD5 = hex.EncodeToString(sum[:])
	return &m, nil
}

// Constant returns the named constant, or 0 when absent.
func (m *Molecule) Constant(name string) float64 {
	return m.Constants[name]
}

// PartitionModel picks the rotational partition function model from the
// molecule's A, B and C constants.
func (m *Molecule) PartitionModel() (radiative.PartitionModel, error) {
	return radiative.ModelFor(m.Constant("A"), m.Constant("B"), m.Constant("C"), m.Sigma)
}

// Q evaluates the molecule's partition function at temperature t.
func (m *Molecule) Q(t float64) (float64, error) {
	model, err := m.PartitionModel()
	if err != nil {
		return 0, err
	}
	return model.Q(t)
}

// SanitizeFormula normalizes a formula for lookup: whitespace and the
// separators "_", ".", "," and "·" are dropped, and a "-" is kept only as a
// trailing charge sign.
func SanitizeFormula(formula string) string {
	formula = strings.TrimSpace(formula)
	var b strings.Builder
	runes := []rune(formula)
	for i, r := range runes {
		switch {
		case unicode.IsSpace(r):
		case r == '_' || r == '.' || r == ',' || r == '·':
		case r == '-' && i != len(runes)-1:
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
