package radiative

// EinsteinPrefactor is 64π⁴/(3hc³) in s⁻¹ MHz⁻³ D⁻², after the PGopher
// intensity formulae.
const EinsteinPrefactor = 1.163965505e-20

// EinsteinA returns the Einstein A coefficient (s⁻¹) for a transition with
// linestrength s (S·μ², Debye²) at frequency MHz. Overflow is not trapped and
// yields +Inf.
func EinsteinA(s, frequency float64) float64 {
	return EinsteinPrefactor * frequency * frequency * frequency * s
}
