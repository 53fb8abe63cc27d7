package catalog

import (
	"context"
	"io"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	errs "github.com/matzehuels/spectools/pkg/errors"
	"github.com/matzehuels/spectools/pkg/molecule"
)

// Molecules is the molecule database.
type Molecules struct {
	store  Store[molecule.Molecule]
	logger *log.Logger
}

// NewMolecules wraps store. A nil logger discards output.
func NewMolecules(store Store[molecule.Molecule], logger *log.Logger) *Molecules {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Molecules{store: store, logger: logger}
}

// GetQuery returns the molecules whose field equals value. field is a JSON
// field name or a dotted path such as "constants.B".
func (m *Molecules) GetQuery(ctx context.Context, field string, value any) ([]molecule.Molecule, error) {
	return m.store.Find(ctx, Eq(field, value))
}

// GetFormula returns molecules by formula, optionally sanitizing it first.
// SMILES lookups are more specific.
func (m *Molecules) GetFormula(ctx context.Context, formula string, sanitize bool) ([]molecule.Molecule, error) {
	if sanitize {
		clean := molecule.SanitizeFormula(formula)
		if clean != formula {
			m.logger.Warn("formula sanitized; rerun without sanitizing if results look wrong", "formula", clean)
		}
		formula = clean
	}
	return m.GetQuery(ctx, "formula", formula)
}

// GetSmiles returns molecules by SMILES string.
func (m *Molecules) GetSmiles(ctx context.Context, smiles string) ([]molecule.Molecule, error) {
	return m.GetQuery(ctx, "smiles", smiles)
}

// MatchConstants returns molecules whose constants lie within a fractional
// tolerance of the given values: value·(1-tol) ≤ c ≤ value·(1+tol). With
// matchAll every constant must match, otherwise any one suffices.
func (m *Molecules) MatchConstants(ctx context.Context, tol float64, matchAll bool, constants map[string]float64) ([]molecule.Molecule, error) {
	if len(constants) == 0 {
		return nil, errs.New(errs.ErrCodeInvalidInput, "at least one constant is required")
	}
	if tol < 0 {
		return nil, errs.New(errs.ErrCodeInvalidInput, "tolerance must not be negative, got %g", tol)
	}

	names := make([]string, 0, len(constants))
	for name := range constants {
		names = append(names, name)
	}
	slices.Sort(names)

	qs := make([]Query, len(names))
	for i, name := range names {
		v := constants[name]
		qs[i] = Between("constants."+name, v*(1-tol), v*(1+tol))
	}
	if matchAll {
		return m.store.Find(ctx, And(qs...))
	}
	return m.store.Find(ctx, Or(qs...))
}

// AddMoleculeYAML loads the molecule file at path and inserts it. A file
// whose MD5 is already stored is a DUPLICATE.
func (m *Molecules) AddMoleculeYAML(ctx context.Context, path string) (*molecule.Molecule, error) {
	mol, err := molecule.Load(path)
	if err != nil {
		return nil, err
	}
	return mol, m.Add(ctx, mol)
}

// Add inserts mol unless a molecule with the same MD5 exists.
func (m *Molecules) Add(ctx context.Context, mol *molecule.Molecule) error {
	if mol.MD5 != "" {
		existing, err := m.GetQuery(ctx, "md5", mol.MD5)
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			return errs.New(errs.ErrCodeDuplicate, "molecule with MD5 hash %s already exists", mol.MD5)
		}
	}
	if mol.ID == "" {
		mol.ID = uuid.NewString()
	}
	if err := m.store.Insert(ctx, *mol); err != nil {
		return err
	}
	m.logger.Debug("added molecule", "name", mol.Name, "md5", mol.MD5)
	return nil
}

// Close closes the underlying store.
func (m *Molecules) Close(ctx context.Context) error {
	return m.store.Close(ctx)
}
