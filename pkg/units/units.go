// Package units holds the physical constants and unit conversions shared by
// the spectroscopy packages.
//
// Frequencies are in MHz, energies in wavenumbers (cm⁻¹) and temperatures in
// Kelvin throughout spectools; the helpers here are the only place where those
// units are converted into one another.
package units

const (
	// SpeedOfLight is the speed of light in vacuum, in cm/s.
	SpeedOfLight = 2.99792458e10

	// KBWavenumber is the Boltzmann constant in cm⁻¹/K.
	KBWavenumber = 0.695034800

	// mhzPerWavenumber is c expressed in MHz·cm, i.e. 1 cm⁻¹ in MHz.
	mhzPerWavenumber = SpeedOfLight / 1e6
)

// MHzToWavenumber converts a frequency in MHz to wavenumbers.
func MHzToWavenumber(mhz float64) float64 {
	return mhz / mhzPerWavenumber
}

// WavenumberToMHz converts wavenumbers to a frequency in MHz.
func WavenumberToMHz(cm float64) float64 {
	return cm * mhzPerWavenumber
}

// WavenumberToKelvin converts an energy in wavenumbers to its temperature
// equivalent.
func WavenumberToKelvin(cm float64) float64 {
	return cm / KBWavenumber
}
