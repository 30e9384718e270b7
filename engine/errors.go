package engine

import "errors"

var (
	// ErrUnknownAlgorithm is returned when a fuzzy algorithm name cannot be parsed.
	ErrUnknownAlgorithm = errors.New("unknown fuzzy algorithm")

	// ErrConflictingModes is returned when exact and regex modes are both enabled.
	ErrConflictingModes = errors.New("exact and regex modes are mutually exclusive")
)
