package spcat

import (
	"io"
	"os"
	"strconv"

	errs "github.com/matzehuels/spectools/pkg/errors"
)

var catColumns = layout(
	[]string{"frequency", "uncertainty", "log intensity", "degrees of freedom", "lower state energy", "upper degeneracy", "tag", "quantum number format", "upper quantum numbers", "lower quantum numbers"},
	[]int{13, 8, 8, 2, 10, 3, 7, 4, 12, 12},
)

// CatLine is one row of an SPCAT .cat catalog.
type CatLine struct {
	Line            int     `json:"line"`
	Frequency       float64 `json:"frequency"`     // MHz
	Uncertainty     float64 `json:"uncertainty"`   // MHz
	LogIntensity    float64 `json:"log_intensity"` // log10(nm² MHz) at 300 K
	DOF             int     `json:"dof"`
	LowerEnergy     float64 `json:"lower_energy"` // cm⁻¹
	UpperDegeneracy int     `json:"upper_degeneracy"`
	Tag             int     `json:"tag"`
	QNFormat        int     `json:"qn_format"`
	UpperQN         string  `json:"upper_qn,omitempty"`
	LowerQN         string  `json:"lower_qn,omitempty"`
}

// Experimental reports whether the frequency is a measured one; SPCAT marks
// those with a negative species tag.
func (c CatLine) Experimental() bool { return c.Tag < 0 }

// ParseCat reads catalog lines from r in file order.
func ParseCat(r io.Reader) ([]CatLine, error) {
	var out []CatLine
	err := scanLines(r, func(line string, n int) error {
		c, err := parseCatLine(line, n)
		if err != nil {
			return err
		}
		out = append(out, c)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ReadCatFile opens path and parses it with ParseCat.
func ReadCatFile(path string) ([]CatLine, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, openError(path, err)
	}
	defer f.Close()
	return ParseCat(f)
}

func parseCatLine(line string, n int) (CatLine, error) {
	c := CatLine{Line: n}
	var err error
	if c.Frequency, err = catColumns[0].float(line, n); err != nil {
		return CatLine{}, err
	}
	if c.Uncertainty, err = catColumns[1].float(line, n); err != nil {
		return CatLine{}, err
	}
	if c.LogIntensity, err = catColumns[2].float(line, n); err != nil {
		return CatLine{}, err
	}
	if c.DOF, err = catColumns[3].int(line, n); err != nil {
		return CatLine{}, err
	}
	if c.LowerEnergy, err = catColumns[4].float(line, n); err != nil {
		return CatLine{}, err
	}
	if c.UpperDegeneracy, err = decodeDegeneracy(catColumns[5].field(line), n); err != nil {
		return CatLine{}, err
	}
	if c.Tag, err = catColumns[6].int(line, n); err != nil {
		return CatLine{}, err
	}
	if c.QNFormat, err = catColumns[7].int(line, n); err != nil {
		return CatLine{}, err
	}
	c.UpperQN = catColumns[8].field(line)
	c.LowerQN = catColumns[9].field(line)
	return c, nil
}

// decodeDegeneracy reads the I3 upper-state degeneracy. Values above 999 are
// written by SPCAT with a letter in the hundreds place: A=10, B=11, ...
func decodeDegeneracy(s string, n int) (int, error) {
	if s == "" {
		return 0, nil
	}
	if h := s[0]; h >= 'A' && h <= 'Z' {
		rest, err := strconv.Atoi(s[1:])
		if err != nil || len(s) != 3 {
			return 0, errs.Parse("line %d: invalid upper degeneracy %q", n, s)
		}
		return (int(h-'A')+10)*100 + rest, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, errs.Wrap(errs.ErrCodeParse, err, "line %d: invalid upper degeneracy %q", n, s)
	}
	return v, nil
}
