package core

import "github.com/zeebo/errs"

// Error classes surfaced at the API boundary. Producers create errors with
// Class.New and consumers test membership with Class.Has.
var (
	// ErrMalformed marks identifiers or parameters that could not be parsed.
	ErrMalformed = errs.Class("malformed")

	// ErrNotFound marks targets that do not exist or derived resources that
	// cannot be produced.
	ErrNotFound = errs.Class("not found")

	// ErrUnauthorized marks a caller without view permission on a resolved job.
	ErrUnauthorized = errs.Class("unauthorized")

	// ErrBadRequest marks semantically invalid mutation preconditions.
	ErrBadRequest = errs.Class("bad request")
)
