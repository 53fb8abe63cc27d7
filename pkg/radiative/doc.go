// Package radiative computes radiative-transfer quantities for rotational
// transitions: upper-state energies, Boltzmann population factors, rotational
// partition functions, intrinsic linestrengths and Einstein A coefficients.
//
// # Units
//
// Frequencies are in MHz, energies in wavenumbers (cm⁻¹), temperatures in
// Kelvin, dipole moments in Debye. Einstein A coefficients are in s⁻¹.
//
// # Two derivations
//
// The package supports two distinct paths to an Einstein A coefficient and
// they are deliberately kept apart:
//
//   - From an SPCAT .str file, the squared reduced transition dipole moment is
//     used directly as the S·μ² term: EinsteinA(rtdm*rtdm, freq).
//   - From an SPCAT .cat catalog, the log intensity is first converted to
//     S·μ² with [LineStrength], which removes the partition function and the
//     Boltzmann population difference, and the result is fed to [EinsteinA].
//
// # Errors
//
// Every mathematically undefined case (zero temperature, zero rotational
// constant, square root of a non-positive number, a vanishing population
// difference) is reported as a DOMAIN_ERROR from
// github.com/matzehuels/spectools/pkg/errors rather than propagated as
// Inf or NaN.
//
// # Example
//
//	q, err := radiative.ApproxLinear(4549.059, 300)
//	if err != nil {
//	    return err
//	}
//	s, err := radiative.LineStrength(-3.5, q, 9098.332, 0, 300)
//	if err != nil {
//	    return err
//	}
//	a := radiative.EinsteinA(s, 9098.332)
package radiative
