package radiative

import (
	"math"

	errs "github.com/matzehuels/spectools/pkg/errors"
)

// IntensityPrefactor converts MHz times a population difference into the
// denominator of the SPCAT intensity expression (nm² MHz units).
const IntensityPrefactor = 4.16231e-5

// DefaultTemperature is the catalog reference temperature in Kelvin.
const DefaultTemperature = 300.0

// LineStrength converts a catalog log intensity (log10 of nm² MHz) into the
// intrinsic linestrength S·μ² (Debye²).
//
// q is the partition function at temperature t, frequency is in MHz and
// elower in cm⁻¹. The conversion divides the intensity by the population
// difference between the lower and upper states, so a vanishing difference
// (zero frequency, or a temperature so high both factors agree) is a
// DOMAIN_ERROR.
func LineStrength(logIntensity, q, frequency, elower, t float64) (float64, error) {
	eupper := UpperStateEnergy(frequency, elower)
	num := math.Pow(10, logIntensity) * q

	lower, err := BoltzmannFactor(elower, t)
	if err != nil {
		return 0, err
	}
	upper, err := BoltzmannFactor(eupper, t)
	if err != nil {
		return 0, err
	}

	den := IntensityPrefactor * frequency * (lower - upper)
	if den == 0 {
		return 0, errs.Domain("lower and upper state populations are equal (frequency %g MHz, T %g K)", frequency, t)
	}
	return num / den, nil
}
