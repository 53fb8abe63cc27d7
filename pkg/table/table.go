// Package table holds the computed output tables of the radiative pipeline.
//
// Two table shapes exist, one per derivation path:
//
//   - [Table]: rows derived from a .str file (reduced TDM → Einstein A)
//   - [LineStrengthTable]: rows derived from a .cat file (log intensity →
//     linestrength → Einstein A)
//
// Both are kept sorted ascending by frequency with ties in source order.
// Both implement [Tabular], the flat header/record view used by the writers
// in pkg/io.
package table

import (
	"slices"
	"strconv"

	"github.com/matzehuels/spectools/pkg/spcat"
)

// Tabular is a table that can be flattened into string records.
type Tabular interface {
	Headers() []string
	Records() [][]string
}

// Row is a .str transition together with its derived quantities.
type Row struct {
	spcat.Transition
	TDM       float64 `json:"tdm"`        // ReducedTDM squared
	EinsteinA float64 `json:"einstein_a"` // s⁻¹
}

// Table is the Einstein A table for one .str file.
type Table struct {
	RunID  string `json:"run_id,omitempty"`
	Source string `json:"source,omitempty"`
	Rows   []Row  `json:"rows"`
}

// EinsteinHeaders are the column names of a [Table].
var EinsteinHeaders = []string{"Frequency", "RTDM", "Formatting", "Upper QN", "Lower QN", "Dipole Category", "TDM", "Einstein A"}

// Sort orders rows ascending by frequency. Equal frequencies keep their
// relative order.
func (t *Table) Sort() {
	slices.SortStableFunc(t.Rows, func(a, b Row) int {
		return cmpFloat(a.Frequency, b.Frequency)
	})
}

// Sorted reports whether the rows are in ascending frequency order.
func (t *Table) Sorted() bool {
	return slices.IsSortedFunc(t.Rows, func(a, b Row) int {
		return cmpFloat(a.Frequency, b.Frequency)
	})
}

// Headers implements Tabular.
func (t *Table) Headers() []string { return EinsteinHeaders }

// Records implements Tabular. Floats use the shortest exact representation.
func (t *Table) Records() [][]string {
	out := make([][]string, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = []string{
			FormatFloat(r.Frequency),
			FormatFloat(r.ReducedTDM),
			r.Format,
			r.UpperQN,
			r.LowerQN,
			r.DipoleCategory,
			FormatFloat(r.TDM),
			FormatFloat(r.EinsteinA),
		}
	}
	return out
}

// LineStrengthRow is a .cat line together with its derived quantities.
type LineStrengthRow struct {
	spcat.CatLine
	UpperEnergy  float64 `json:"upper_energy"` // cm⁻¹
	LineStrength float64 `json:"linestrength"`
	EinsteinA    float64 `json:"einstein_a"` // s⁻¹
}

// LineStrengthTable is the linestrength table for one .cat file, computed
// with partition function Q at Temperature.
type LineStrengthTable struct {
	RunID       string            `json:"run_id,omitempty"`
	Source      string            `json:"source,omitempty"`
	Q           float64           `json:"q"`
	Temperature float64           `json:"temperature"`
	Rows        []LineStrengthRow `json:"rows"`
}

// LineStrengthHeaders are the column names of a [LineStrengthTable].
var LineStrengthHeaders = []string{"Frequency", "Uncertainty", "Log I", "Lower Energy", "Upper Energy", "Upper QN", "Lower QN", "Linestrength", "Einstein A"}

// Sort orders rows ascending by frequency, stable.
func (t *LineStrengthTable) Sort() {
	slices.SortStableFunc(t.Rows, func(a, b LineStrengthRow) int {
		return cmpFloat(a.Frequency, b.Frequency)
	})
}

// Headers implements Tabular.
func (t *LineStrengthTable) Headers() []string { return LineStrengthHeaders }

// Records implements Tabular.
func (t *LineStrengthTable) Records() [][]string {
	out := make([][]string, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = []string{
			FormatFloat(r.Frequency),
			FormatFloat(r.Uncertainty),
			FormatFloat(r.LogIntensity),
			FormatFloat(r.LowerEnergy),
			FormatFloat(r.UpperEnergy),
			r.UpperQN,
			r.LowerQN,
			FormatFloat(r.LineStrength),
			FormatFloat(r.EinsteinA),
		}
	}
	return out
}

// FormatFloat renders v in the shortest form that parses back to v.
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

var (
	_ Tabular = (*Table)(nil)
	_ Tabular = (*LineStrengthTable)(nil)
)
