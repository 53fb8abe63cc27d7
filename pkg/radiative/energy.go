package radiative

import (
	"math"

	errs "github.com/matzehuels/spectools/pkg/errors"
	"github.com/matzehuels/spectools/pkg/units"
)

// UpperStateEnergy returns the upper-state energy in cm⁻¹ of a transition at
// frequency MHz out of a lower state at elower cm⁻¹.
//
// Negative frequencies are not rejected; they simply yield an upper state
// below the lower one.
func UpperStateEnergy(frequency, elower float64) float64 {
	return units.MHzToWavenumber(frequency) + elower
}

// BoltzmannFactor returns the unitless thermal population weight
// exp(-E/kT) of a state at energy e (cm⁻¹) and temperature t (K).
func BoltzmannFactor(e, t float64) (float64, error) {
	if !(t > 0) {
		return 0, errs.Domain("temperature must be positive, got %g K", t)
	}
	return math.Exp(-e / (units.KBWavenumber * t)), nil
}
