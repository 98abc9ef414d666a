package model

import "errors"

// Sentinel error kinds per the error taxonomy. Wrap with fmt.Errorf("...: %w", ErrX)
// to attach context; callers compare with errors.Is.
var (
	// ErrUnknownSection: a train references a section-id not present in the network.
	ErrUnknownSection = errors.New("unknown section")
	// ErrInvalidInput: negative durations, empty route, non-unique train or section ids.
	ErrInvalidInput = errors.New("invalid input")
	// ErrSolverFailed: MIP solver error, infeasible model, or timeout.
	ErrSolverFailed = errors.New("solver failed")
	// ErrNotImplemented: MIP asked for a feature unsupported in a variant.
	ErrNotImplemented = errors.New("not implemented")
)
