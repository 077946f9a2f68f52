package repositories

import "errors"

// Sentinel errors shared by the repositories.  The service layer maps
// these onto its own error surface.
var (
	// ErrNotFound indicates the requested record does not exist
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate indicates a unique-key collision
	ErrDuplicate = errors.New("duplicate record")
	// ErrLastOwner indicates a mutation would leave a library without an owner
	ErrLastOwner = errors.New("library must retain at least one owner")
	// ErrInvalidTransition indicates a job is not in a state the transition allows
	ErrInvalidTransition = errors.New("invalid job status transition")
)
