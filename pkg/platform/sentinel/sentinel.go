package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores return these (optionally
// wrapped) and services translate them into domain errors:
//   - ErrNotFound: no row matches the identifying key
//   - ErrConflict: a unique constraint rejected the write
//   - ErrNotUnique: a single-result lookup matched more than one row
//
// For validation errors (bad input, missing fields), use pkg/domain-errors directly.
var (
	ErrNotFound  = errors.New("not found")
	ErrConflict  = errors.New("conflict")
	ErrNotUnique = errors.New("query did not return a unique result")
)
