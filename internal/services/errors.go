package services

import "errors"

// Service-level errors surfaced to handlers.  None of these is
// retryable inside the service; retry policy belongs to the caller.
var (
	// ErrNotFound indicates the requested record does not exist
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateName indicates an album name collides within its library
	ErrDuplicateName = errors.New("an album with that name already exists")
	// ErrLastOwnerViolation indicates a grant change would leave a library without an owner
	ErrLastOwnerViolation = errors.New("a library must retain at least one owner")
	// ErrInvalidTransition indicates an export job is not in a state that allows the transition
	ErrInvalidTransition = errors.New("invalid export job transition")
	// ErrEmptyFileSet indicates an export job was submitted with no files
	ErrEmptyFileSet = errors.New("export job requires at least one file")
)
