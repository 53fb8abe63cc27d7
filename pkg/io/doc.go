// Package io reads and writes computed spectroscopy tables.
//
// # Formats
//
// Tables are written in one of four formats:
//
//   - text: a bordered terminal table (lipgloss)
//   - csv: comma-separated values with a header row
//   - tsv: tab-separated values with a header row
//   - json: the table struct itself, indented
//
// Only the json format round-trips: [ReadJSON] and [ImportJSON] decode what
// [WriteJSON] and [ExportJSON] produce. The csv and tsv writers use the
// shortest exact float representation, so they lose nothing numerically, but
// run metadata (run ID, source path, Q, temperature) is only kept in json.
//
// # Usage
//
//	if err := io.Write(os.Stdout, tbl, io.FormatCSV); err != nil {
//	    return err
//	}
//
//	// Format picked from the file extension (.csv, .tsv, .json, anything else → text)
//	err := io.Export(tbl, "hc3n_einstein.csv", "")
package io
