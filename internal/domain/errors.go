package domain

import "errors"

var (
	// ErrMissingCredential is returned when the source access credential is not configured
	ErrMissingCredential = errors.New("missing source access credential")

	// ErrRunInProgress is returned when an ingestion run is requested while another one holds the guard
	ErrRunInProgress = errors.New("run already in progress")

	// ErrInvalidNaturalKey is returned when a record lacks the fields of its natural key
	ErrInvalidNaturalKey = errors.New("invalid natural key")

	// ErrInvalidDaysBack is returned when a date window is requested with a negative size
	ErrInvalidDaysBack = errors.New("invalid days back")

	// ErrUnknownKind is returned for a record kind without a source definition
	ErrUnknownKind = errors.New("unknown record kind")

	// ErrUnknownCategory is returned for a procurement category outside 공사/용역/물품
	ErrUnknownCategory = errors.New("unknown procurement category")
)
