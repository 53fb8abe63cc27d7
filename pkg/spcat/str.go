package spcat

import (
	"bufio"
	"io"
	"os"
	"strings"

	errs "github.com/matzehuels/spectools/pkg/errors"
)

// StrWidths are the character widths of the six .str columns.
var StrWidths = []int{15, 15, 5, 12, 12, 11}

var strColumns = layout(
	[]string{"frequency", "reduced transition dipole", "formatting code", "upper quantum numbers", "lower quantum numbers", "dipole category"},
	StrWidths,
)

// Transition is one row of a .str file.
type Transition struct {
	Line           int     `json:"line"`                      // 1-based source line
	Frequency      float64 `json:"frequency"`                 // MHz
	ReducedTDM     float64 `json:"rtdm"`                      // reduced transition dipole moment
	Format         string  `json:"formatting,omitempty"`      // opaque format code
	UpperQN        string  `json:"upper_qn,omitempty"`        // encoded upper quantum numbers
	LowerQN        string  `json:"lower_qn,omitempty"`        // encoded lower quantum numbers
	DipoleCategory string  `json:"dipole_category,omitempty"` // dipole component tag
}

// ParseStr reads .str rows from r in file order. Blank lines are skipped.
// Frequency and reduced TDM are required; the remaining columns may be blank.
func ParseStr(r io.Reader) ([]Transition, error) {
	var out []Transition
	err := scanLines(r, func(line string, n int) error {
		t, err := parseStrLine(line, n)
		if err != nil {
			return err
		}
		out = append(out, t)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ReadStrFile opens path and parses it with ParseStr.
func ReadStrFile(path string) ([]Transition, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, openError(path, err)
	}
	defer f.Close()
	return ParseStr(f)
}

func parseStrLine(line string, n int) (Transition, error) {
	freq, err := strColumns[0].float(line, n)
	if err != nil {
		return Transition{}, err
	}
	rtdm, err := strColumns[1].float(line, n)
	if err != nil {
		return Transition{}, err
	}
	return Transition{
		Line:           n,
		Frequency:      freq,
		ReducedTDM:     rtdm,
		Format:         strColumns[2].field(line),
		UpperQN:        strColumns[3].field(line),
		LowerQN:        strColumns[4].field(line),
		DipoleCategory: strColumns[5].field(line),
	}, nil
}

// scanLines calls fn for every non-blank line with its 1-based number.
func scanLines(r io.Reader, fn func(line string, n int) error) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), 1<<20)
	n := 0
	for sc.Scan() {
		n++
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		if err := fn(line, n); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		return errs.Wrap(errs.ErrCodeParse, err, "read line %d", n+1)
	}
	return nil
}

func openError(path string, err error) error {
	if os.IsNotExist(err) {
		return errs.Wrap(errs.ErrCodeFileNotFound, err, "open %s", path)
	}
	return errs.Wrap(errs.ErrCodeInternal, err, "open %s", path)
}
