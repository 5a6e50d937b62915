package errors

import "errors"

var (
	// requested record is not there.
	ErrMissing = errors.New("missing")

	// a record which should be unique is registered already.
	ErrAlreadyExists = errors.New("already exists")
)
