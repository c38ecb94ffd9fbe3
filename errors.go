package featgraph

import "errors"

// Sentinel errors for common failure cases.
var (
	ErrUnknownKind     = errors.New("unknown feature kind")
	ErrFeatureExists   = errors.New("feature already exists")
	ErrFeatureNotFound = errors.New("feature not found")
	ErrColumnMismatch  = errors.New("column count mismatch")
	ErrBadDescription  = errors.New("malformed feature description")
	ErrCycleDetected   = errors.New("cycle detected in feature graph")
	ErrEdgeMismatch    = errors.New("input/dependent edges out of sync")
	ErrInvalidGraph    = errors.New("invalid feature graph")
)
