// Package spcat reads and drives the SPCAT/SPFIT family of programs.
//
// SPCAT and SPFIT are legacy Fortran programs that simulate and fit rotational
// spectra. spectools treats them as opaque executables: this package parses
// the fixed-width text files they emit and runs them through a pluggable
// [Executor].
//
// # File formats
//
// A .str file (SPCAT run with flag 0020 in the .int file) has six columns of
// widths 15, 15, 5, 12, 12 and 11:
//
//	Frequency | ReducedTDM | Format | Upper QN | Lower QN | Dipole category
//
// A .cat file follows the Fortran layout F13.4, F8.4, F8.4, I2, F10.4, I3,
// I7, I4, 12I2:
//
//	Frequency | Uncertainty | log10 Intensity | DOF | E lower | g upper |
//	Tag | QN format | Upper QN | Lower QN
//
// Both readers are strict: a row with a missing or non-numeric required
// column aborts the whole file with a PARSE_ERROR naming the line, so callers
// never see a silently truncated table.
//
// # Running the programs
//
//	r := spcat.NewRunner(spcat.ExecExecutor{}, logger)
//	if err := r.RunSPCAT(ctx, "hc3n"); err != nil {
//	    return err
//	}
//	lines, err := spcat.ReadCatFile("hc3n.cat")
package spcat
