package io

import (
	"encoding/json"
	"io"
	"os"

	errs "github.com/matzehuels/spectools/pkg/errors"
	"github.com/matzehuels/spectools/pkg/table"
)

// ReadJSON decodes an Einstein table written by [WriteJSON].
//
// The rows are re-sorted by frequency, so a hand-edited file still yields a
// table that satisfies the ordering invariant. ReadJSON does not close r.
func ReadJSON(r io.Reader) (*table.Table, error) {
	var t table.Table
	if err := json.NewDecoder(r).Decode(&t); err != nil {
		return nil, errs.Wrap(errs.ErrCodeParse, err, "decode table")
	}
	t.Sort()
	return &t, nil
}

// ReadLineStrengthJSON decodes a linestrength table written by [WriteJSON].
func ReadLineStrengthJSON(r io.Reader) (*table.LineStrengthTable, error) {
	var t table.LineStrengthTable
	if err := json.NewDecoder(r).Decode(&t); err != nil {
		return nil, errs.Wrap(errs.ErrCodeParse, err, "decode linestrength table")
	}
	t.Sort()
	return &t, nil
}

// ImportJSON reads an Einstein table from a JSON file at path.
func ImportJSON(path string) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errs.Wrap(errs.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, errs.Wrap(errs.ErrCodeInternal, err, "open %s", path)
	}
	defer f.Close()
	return ReadJSON(f)
}
