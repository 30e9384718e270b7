package ingestion

import "errors"

var (
	// ErrSinkRequired is returned when a pipeline is created without a sink.
	ErrSinkRequired = errors.New("item sink required")

	// ErrInvalidFieldRange is returned for a field range that cannot be parsed.
	ErrInvalidFieldRange = errors.New("invalid field range")

	// ErrInvalidDelimiter is returned when the field delimiter is not a valid regexp.
	ErrInvalidDelimiter = errors.New("invalid delimiter")
)
