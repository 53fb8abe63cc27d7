package pipeline

import (
	"io"

	errs "github.com/matzehuels/spectools/pkg/errors"
	"github.com/matzehuels/spectools/pkg/radiative"
	"github.com/matzehuels/spectools/pkg/spcat"
	"github.com/matzehuels/spectools/pkg/table"
)

// EinsteinTable parses the .str file at path and returns its Einstein A
// table sorted by frequency.
func EinsteinTable(path string) (*table.Table, error) {
	ts, err := spcat.ReadStrFile(path)
	if err != nil {
		return nil, err
	}
	t := BuildEinstein(ts)
	t.Source = path
	return t, nil
}

// ReadEinstein parses .str rows from r and returns the sorted table.
func ReadEinstein(r io.Reader) (*table.Table, error) {
	ts, err := spcat.ParseStr(r)
	if err != nil {
		return nil, err
	}
	return BuildEinstein(ts), nil
}

// BuildEinstein computes TDM and Einstein A for each transition and sorts
// the result by frequency.
func BuildEinstein(ts []spcat.Transition) *table.Table {
	rows := make([]table.Row, len(ts))
	for i, tr := range ts {
		tdm := tr.ReducedTDM * tr.ReducedTDM
		rows[i] = table.Row{
			Transition: tr,
			TDM:        tdm,
			EinsteinA:  radiative.EinsteinA(tdm, tr.Frequency),
		}
	}
	t := &table.Table{Rows: rows}
	t.Sort()
	return t
}

// LineStrengthTable parses the .cat file at path and returns its
// linestrength table for partition function q at temperature t.
func LineStrengthTable(path string, q, t float64) (*table.LineStrengthTable, error) {
	lines, err := spcat.ReadCatFile(path)
	if err != nil {
		return nil, err
	}
	tbl, err := BuildLineStrength(lines, q, t)
	if err != nil {
		return nil, err
	}
	tbl.Source = path
	return tbl, nil
}

// ReadLineStrength parses .cat lines from r and returns the sorted table.
func ReadLineStrength(r io.Reader, q, t float64) (*table.LineStrengthTable, error) {
	lines, err := spcat.ParseCat(r)
	if err != nil {
		return nil, err
	}
	return BuildLineStrength(lines, q, t)
}

// BuildLineStrength converts each catalog line to a linestrength and an
// Einstein A. The first failing line aborts the table.
func BuildLineStrength(lines []spcat.CatLine, q, t float64) (*table.LineStrengthTable, error) {
	rows := make([]table.LineStrengthRow, len(lines))
	for i, l := range lines {
		s, err := radiative.LineStrength(l.LogIntensity, q, l.Frequency, l.LowerEnergy, t)
		if err != nil {
			return nil, wrapLine(err, l.Line)
		}
		rows[i] = table.LineStrengthRow{
			CatLine:      l,
			UpperEnergy:  radiative.UpperStateEnergy(l.Frequency, l.LowerEnergy),
			LineStrength: s,
			EinsteinA:    radiative.EinsteinA(s, l.Frequency),
		}
	}
	tbl := &table.LineStrengthTable{Q: q, Temperature: t, Rows: rows}
	tbl.Sort()
	return tbl, nil
}

// wrapLine prefixes err with the catalog line that caused it, keeping its code.
func wrapLine(err error, line int) error {
	return errs.Wrap(errs.GetCode(err), err, "line %d", line)
}
