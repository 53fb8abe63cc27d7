// Package catalog stores spectral line assignments and molecule records.
//
// Two collections exist:
//
//   - [Catalog]: transitions, either measured (frequency) or taken from a
//     catalog file or computed table (catalog_frequency)
//   - [Molecules]: molecule records with Hamiltonian constants
//
// Both are backed by a [Store]: a JSON file for single-user work, or
// MongoDB for a shared database. See [Open].
package catalog

import (
	"context"
	"io"
	"maps"
	"reflect"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	errs "github.com/matzehuels/spectools/pkg/errors"
	"github.com/matzehuels/spectools/pkg/spcat"
	"github.com/matzehuels/spectools/pkg/table"
)

// Entry is one transition record.
type Entry struct {
	ID               string            `json:"id,omitempty" bson:"_id,omitempty"`
	Name             string            `json:"name" bson:"name"`
	Formula          string            `json:"formula,omitempty" bson:"formula,omitempty"`
	Frequency        float64           `json:"frequency,omitempty" bson:"frequency,omitempty"`                 // measured, MHz
	CatalogFrequency float64           `json:"catalog_frequency,omitempty" bson:"catalog_frequency,omitempty"` // predicted, MHz
	CatalogIntensity float64           `json:"catalog_intensity,omitempty" bson:"catalog_intensity,omitempty"` // log10 intensity
	LowerEnergy      float64           `json:"lower_energy,omitempty" bson:"lower_energy,omitempty"`           // cm⁻¹
	UpperQN          string            `json:"upper_qn,omitempty" bson:"upper_qn,omitempty"`
	LowerQN          string            `json:"lower_qn,omitempty" bson:"lower_qn,omitempty"`
	EinsteinA        float64           `json:"einstein_a,omitempty" bson:"einstein_a,omitempty"`
	Experiment       int               `json:"experiment,omitempty" bson:"experiment,omitempty"`
	Extra            map[string]string `json:"extra,omitempty" bson:"extra,omitempty"`
}

// sameContent reports whether a and b are equal ignoring their IDs.
func sameContent(a, b Entry) bool {
	a.ID, b.ID = "", ""
	return reflect.DeepEqual(a, b)
}

// Catalog is the spectral line catalog.
type Catalog struct {
	store  Store[Entry]
	logger *log.Logger
}

// NewCatalog wraps store. A nil logger discards output.
func NewCatalog(store Store[Entry], logger *log.Logger) *Catalog {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Catalog{store: store, logger: logger}
}

// AddEntry inserts e, assigning an ID when it has none. With dupCheck, an
// entry whose content already exists is skipped with a warning. It reports
// whether e was inserted.
func (c *Catalog) AddEntry(ctx context.Context, e Entry, dupCheck bool) (bool, error) {
	if dupCheck {
		all, err := c.store.All(ctx)
		if err != nil {
			return false, err
		}
		for _, existing := range all {
			if sameContent(existing, e) {
				c.logger.Warn("entry already exists in catalog", "name", e.Name, "frequency", e.Frequency, "catalog_frequency", e.CatalogFrequency)
				return false, nil
			}
		}
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return true, c.store.Insert(ctx, e)
}

// AddCatalog loads the SPCAT catalog at path as entries for molecule name.
// Lines whose frequency is already stored for name are dropped. extra is
// copied onto every entry. It returns the number of entries inserted.
func (c *Catalog) AddCatalog(ctx context.Context, path, name, formula string, extra map[string]string) (int, error) {
	lines, err := spcat.ReadCatFile(path)
	if err != nil {
		return 0, err
	}

	seen, err := c.knownFrequencies(ctx, name)
	if err != nil {
		return 0, err
	}

	var entries []Entry
	for _, l := range lines {
		if seen[l.Frequency] {
			continue
		}
		entries = append(entries, Entry{
			ID:               uuid.NewString(),
			Name:             name,
			Formula:          formula,
			CatalogFrequency: l.Frequency,
			CatalogIntensity: l.LogIntensity,
			LowerEnergy:      l.LowerEnergy,
			UpperQN:          l.UpperQN,
			LowerQN:          l.LowerQN,
			Extra:            maps.Clone(extra),
		})
	}
	if skipped := len(lines) - len(entries); skipped > 0 {
		c.logger.Info("skipped known frequencies", "name", name, "count", skipped)
	}
	if err := c.store.Insert(ctx, entries...); err != nil {
		return 0, err
	}
	return len(entries), nil
}

// AddTable stores the rows of a computed Einstein table as entries for
// molecule name, with the same duplicate-frequency rule as AddCatalog.
func (c *Catalog) AddTable(ctx context.Context, t *table.Table, name, formula string) (int, error) {
	seen, err := c.knownFrequencies(ctx, name)
	if err != nil {
		return 0, err
	}

	var entries []Entry
	for _, r := range t.Rows {
		if seen[r.Frequency] {
			continue
		}
		entries = append(entries, Entry{
			ID:               uuid.NewString(),
			Name:             name,
			Formula:          formula,
			CatalogFrequency: r.Frequency,
			UpperQN:          r.UpperQN,
			LowerQN:          r.LowerQN,
			EinsteinA:        r.EinsteinA,
		})
	}
	if err := c.store.Insert(ctx, entries...); err != nil {
		return 0, err
	}
	return len(entries), nil
}

func (c *Catalog) knownFrequencies(ctx context.Context, name string) (map[float64]bool, error) {
	existing, err := c.SearchMolecule(ctx, name)
	if err != nil {
		return nil, err
	}
	seen := make(map[float64]bool, len(existing)*2)
	for _, e := range existing {
		if e.Frequency != 0 {
			seen[e.Frequency] = true
		}
		if e.CatalogFrequency != 0 {
			seen[e.CatalogFrequency] = true
		}
	}
	return seen, nil
}

// FrequencyWindow returns the search range around frequency. With relative
// set, prox is a fraction of frequency; otherwise it is in MHz.
func FrequencyWindow(frequency, prox float64, relative bool) (lo, hi float64) {
	if relative {
		return frequency * (1 - prox), frequency * (1 + prox)
	}
	return frequency - prox, frequency + prox
}

// SearchFrequency returns entries whose measured or catalog frequency lies
// within the window around frequency.
func (c *Catalog) SearchFrequency(ctx context.Context, frequency, prox float64, relative bool) ([]Entry, error) {
	if prox < 0 {
		return nil, errs.New(errs.ErrCodeInvalidInput, "proximity must not be negative, got %g", prox)
	}
	lo, hi := FrequencyWindow(frequency, prox, relative)
	return c.store.Find(ctx, Or(
		Between("frequency", lo, hi),
		Between("catalog_frequency", lo, hi),
	))
}

// SearchMolecule returns entries by molecule name (not formula).
func (c *Catalog) SearchMolecule(ctx context.Context, name string) ([]Entry, error) {
	return c.store.Find(ctx, Eq("name", name))
}

// SearchFormula returns entries by formula.
func (c *Catalog) SearchFormula(ctx context.Context, formula string) ([]Entry, error) {
	return c.store.Find(ctx, Eq("formula", formula))
}

// SearchExperiment returns entries by experiment ID.
func (c *Catalog) SearchExperiment(ctx context.Context, id int) ([]Entry, error) {
	return c.store.Find(ctx, Eq("experiment", id))
}

// RemoveExperiment deletes every entry of an experiment.
func (c *Catalog) RemoveExperiment(ctx context.Context, id int) (int, error) {
	return c.store.Delete(ctx, Eq("experiment", id))
}

// RemoveMolecule deletes every entry of a molecule.
func (c *Catalog) RemoveMolecule(ctx context.Context, name string) (int, error) {
	return c.store.Delete(ctx, Eq("name", name))
}

// Close closes the underlying store.
func (c *Catalog) Close(ctx context.Context) error {
	return c.store.Close(ctx)
}
