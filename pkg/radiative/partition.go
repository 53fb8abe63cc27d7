package radiative

import (
	"fmt"
	"math"

	errs "github.com/matzehuels/spectools/pkg/errors"
)

const (
	// linearPrefactor is kT/h expressed in MHz per Kelvin.
	linearPrefactor = 2.0837e4

	// topPrefactor is the (a)symmetric top prefactor from Gordy & Cook,
	// eq. 3.68, for rotational constants in MHz.
	topPrefactor = 5.34e6
)

// ApproxLinear approximates the rotational partition function of a linear
// molecule with rotational constant b (MHz) at temperature t (K).
func ApproxLinear(b, t float64) (float64, error) {
	if b == 0 {
		return 0, errs.Domain("rotational constant B must be non-zero")
	}
	return linearPrefactor * (t / b), nil
}

// ApproxTop approximates the rotational partition function of a symmetric or
// asymmetric top with rotational constants a, b, c (MHz) at temperature t (K)
// and symmetry number sigma.
//
// A zero c selects the prolate approximation c = b; pass c = a for the oblate
// case.
func ApproxTop(a, b, t, sigma, c float64) (float64, error) {
	if c == 0 {
		c = b
	}
	if sigma == 0 {
		return 0, errs.Domain("symmetry number must be non-zero")
	}
	abc := a * b * c
	if abc <= 0 {
		return 0, errs.Domain("product of rotational constants must be positive, got %g", abc)
	}
	ratio := t * t * t / abc
	if ratio < 0 {
		return 0, errs.Domain("negative temperature %g K under square root", t)
	}
	return (topPrefactor / sigma) * math.Sqrt(ratio), nil
}

// PartitionModel is a closed-form rotational partition function.
type PartitionModel interface {
	// Q evaluates the partition function at temperature t (K).
	Q(t float64) (float64, error)
	fmt.Stringer
}

// Linear is the partition function model of a linear molecule.
type Linear struct {
	B float64 // rotational constant, MHz
}

// Q implements PartitionModel.
func (m Linear) Q(t float64) (float64, error) { return ApproxLinear(m.B, t) }

func (m Linear) String() string { return fmt.Sprintf("linear(B=%g)", m.B) }

// SymmetricTop is the partition function model of a symmetric or asymmetric
// top. C of zero means C = B.
type SymmetricTop struct {
	A, B, C float64 // rotational constants, MHz
	Sigma   float64 // symmetry number
}

// NewSymmetricTop returns a top model, defaulting sigma to 1 when zero.
func NewSymmetricTop(a, b, c, sigma float64) SymmetricTop {
	if sigma == 0 {
		sigma = 1
	}
	return SymmetricTop{A: a, B: b, C: c, Sigma: sigma}
}

// Q implements PartitionModel.
func (m SymmetricTop) Q(t float64) (float64, error) {
	return ApproxTop(m.A, m.B, t, m.Sigma, m.C)
}

func (m SymmetricTop) String() string {
	c := m.C
	if c == 0 {
		c = m.B
	}
	return fmt.Sprintf("top(A=%g, B=%g, C=%g, sigma=%g)", m.A, m.B, c, m.Sigma)
}

// ModelFor picks a partition function model from the rotational constants
// that are set. Only b set gives a Linear model, a set as well gives a
// SymmetricTop; b unset is an error.
func ModelFor(a, b, c, sigma float64) (PartitionModel, error) {
	switch {
	case b == 0:
		return nil, errs.New(errs.ErrCodeInvalidInput, "rotational constant B is required")
	case a == 0 && c == 0:
		return Linear{B: b}, nil
	case a == 0:
		return nil, errs.New(errs.ErrCodeInvalidInput, "rotational constant A is required when C is given")
	default:
		return NewSymmetricTop(a, b, c, sigma), nil
	}
}
