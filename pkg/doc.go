// Package pkg holds the spectools libraries.
//
// The radiative core turns SPCAT output into radiative quantities:
//
//   - [spcat]: fixed-width .str and .cat readers, and wrappers around the
//     SPCAT/SPFIT/calbak programs
//   - [radiative]: Einstein A, linestrength, partition functions and
//     Boltzmann factors
//   - [units]: physical constants and unit conversions
//   - [table]: the computed output tables
//   - [pipeline]: file → table orchestration with caching
//
// Around it:
//
//   - [io]: text, CSV, TSV and JSON table writers
//   - [cache]: file and Redis caches for computed tables
//   - [catalog]: line catalog and molecule database on a JSON file or MongoDB
//   - [molecule]: molecule YAML files
//   - [pickett]: SPFIT parameter identifiers
//   - [api]: the HTTP service
//   - [config], [errors], [observability], [buildinfo]: shared plumbing
//
// A typical computation:
//
//	tbl, err := pipeline.EinsteinTable("hc3n.str")
//	if err != nil {
//	    return err
//	}
//	return io.Write(os.Stdout, tbl, io.FormatCSV)
package pkg
