// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package wrappers provides small helpers shared across packages.
package wrappers

import "errors"

// Errs collects the errors of a series of operations that should all be
// attempted, such as registering a set of metrics.
type Errs struct {
	Err error
}

// Errored returns true if an error has been recorded.
func (errs *Errs) Errored() bool {
	return errs.Err != nil
}

// Add records every non-nil error. Err matches each of them with errors.Is.
func (errs *Errs) Add(errList ...error) {
	errs.Err = errors.Join(append([]error{errs.Err}, errList...)...)
}
