package graph

import "errors"

// Common sentinel errors for graph construction. Retrieval-side absence is
// never an error: lookups of missing nodes return empty results.
var (
	ErrFrozen       = errors.New("graph is frozen")
	ErrDuplicateID  = errors.New("duplicate domain ID")
	ErrUnknownNode  = errors.New("unknown node")
	ErrKindMismatch = errors.New("edge endpoints have wrong node kinds")
)
