// Package pickett maps Hamiltonian parameter names to SPFIT/SPCAT parameter
// identifiers and formats values the way .par and .lin files expect.
package pickett

import (
	"math"
	"slices"
	"strconv"
	"strings"

	errs "github.com/matzehuels/spectools/pkg/errors"
)

// Watson reductions.
const (
	ReductionA = "A"
	ReductionS = "S"
)

// param describes how one parameter name maps to an identifier. Exactly one
// form applies: a fixed id, a linear/top pair, an A/S reduction pair, or a
// nucleus template where "%n" is replaced by the nucleus index.
type param struct {
	id          string
	linear, top string
	a, s        string
	nucleus     string
}

var params = map[string]param{
	"B":         {linear: "100", top: "20000"},
	"A":         {id: "10000"},
	"C":         {id: "30000"},
	"D":         {id: "200"},
	"H":         {id: "300"},
	"D_J":       {a: "200", s: "200"},
	"D_K":       {a: "2000", s: "2000"},
	"D_JK":      {a: "1100", s: "1100"},
	"del J":     {a: "40100", s: "40100"},
	"del K":     {a: "41000", s: "50000"},
	"gamma":     {id: "10000000"},
	"gammaD":    {id: "10000100"},
	"gammaH":    {id: "10000200"},
	"bF":        {id: "120000000"},
	"c":         {id: "120010000"},
	"eQq":       {nucleus: "%n20010000"},
	"eQq/2":     {nucleus: "-%n20010000"},
	"C_I":       {id: "20000000"},
	"C_I_prime": {id: "0"},
}

// Identifier returns the Pickett identifier for a parameter name.
//
// linear selects the B identifier; reduction ("A" or "S") selects the
// centrifugal distortion identifiers; nuclei is the nucleus index for the
// quadrupole terms. Unknown names are NOT_FOUND.
func Identifier(name, reduction string, linear bool, nuclei int) (string, error) {
	p, ok := params[name]
	if !ok {
		return "", errs.New(errs.ErrCodeNotFound, "unknown parameter name %q", name)
	}
	switch {
	case p.id != "":
		return p.id, nil
	case p.linear != "":
		if linear {
			return p.linear, nil
		}
		return p.top, nil
	case p.a != "":
		switch reduction {
		case ReductionA:
			return p.a, nil
		case ReductionS:
			return p.s, nil
		}
		return "", errs.New(errs.ErrCodeInvalidInput, "unknown reduction %q (must be A or S)", reduction)
	default:
		if nuclei < 0 {
			return "", errs.New(errs.ErrCodeInvalidInput, "nucleus index must not be negative, got %d", nuclei)
		}
		return strings.Replace(p.nucleus, "%n", strconv.Itoa(nuclei), 1), nil
	}
}

// Names lists the known parameter names in sorted order.
func Names() []string {
	names := make([]string, 0, len(params))
	for n := range params {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// DecimalLength returns the number of digits before and after the decimal
// point in the shortest plain representation of v. The sign is not counted;
// integral values have no fraction digits.
func DecimalLength(v float64) (whole, frac int) {
	s := strconv.FormatFloat(math.Abs(v), 'f', -1, 64)
	w, f, _ := strings.Cut(s, ".")
	return len(w), len(f)
}

// FormatUncertainty converts an uncertainty quoted in units of the last
// digit of value, as in 1234.5678(12), to an absolute uncertainty: 0.0012.
func FormatUncertainty(value, uncertainty float64) float64 {
	_, places := DecimalLength(value)
	if places == 0 {
		return uncertainty
	}
	s := strconv.FormatFloat(uncertainty, 'f', -1, 64) + "e-" + strconv.Itoa(places)
	out, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return uncertainty * math.Pow10(-places)
	}
	return out
}
