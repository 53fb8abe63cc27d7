// Package pipeline derives radiative tables from SPCAT output files.
//
// This package implements the parse → compute → sort pipeline shared by the
// CLI and the API server. Two derivations exist and are kept separate:
//
//  1. Einstein: a .str file of reduced transition dipole moments. Each row
//     gets TDM = RTDM² and Einstein A = EinsteinA(TDM, frequency). No
//     partition function or temperature is involved.
//  2. LineStrength: a .cat catalog. Each line's log intensity is converted
//     to a linestrength with a partition function Q at temperature T, then
//     to an Einstein A.
//
// Both produce tables sorted ascending by frequency, ties in file order.
// Any parse or domain error aborts the whole table.
//
// # Usage
//
// The package-level functions compute without caching:
//
//	tbl, err := pipeline.EinsteinTable("hc3n.str")
//
// A Runner adds caching and concurrency:
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	tables, err := runner.EinsteinMany(ctx, paths, pipeline.Options{})
package pipeline

import (
	"io"
	"math"

	"github.com/charmbracelet/log"

	errs "github.com/matzehuels/spectools/pkg/errors"
	"github.com/matzehuels/spectools/pkg/radiative"
)

// Table kinds, used in cache keys and hook events.
const (
	KindEinstein     = "einstein"
	KindLineStrength = "linestrength"
)

// Options configure a pipeline run.
type Options struct {
	// Temperature in Kelvin for the linestrength path. Zero means
	// radiative.DefaultTemperature.
	Temperature float64 `json:"temperature,omitempty"`

	// Q is the partition function for the linestrength path.
	Q float64 `json:"q,omitempty"`

	// Refresh skips the cache lookup but still stores the result.
	Refresh bool `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`
}

// ValidateForEinstein applies defaults for the Einstein path.
func (o *Options) ValidateForEinstein() error {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// ValidateForLineStrength checks Q and applies defaults for the linestrength
// path. Temperature is not range-checked here; a non-positive temperature
// surfaces as a DOMAIN_ERROR from the computation.
func (o *Options) ValidateForLineStrength() error {
	if o.Q <= 0 || math.IsNaN(o.Q) || math.IsInf(o.Q, 0) {
		return errs.New(errs.ErrCodeInvalidInput, "partition function must be a positive finite number, got %g", o.Q)
	}
	if o.Temperature == 0 {
		o.Temperature = radiative.DefaultTemperature
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}
