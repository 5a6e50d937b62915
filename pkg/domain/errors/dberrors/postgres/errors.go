package postgres

import (
	"fmt"

	domerr "github.com/weftml/weft/pkg/domain/errors"
)

// requested record is missing.
type Missing struct {
	Table    string
	Identity string
}

var _ error = Missing{}

func (m Missing) Error() string {
	return fmt.Sprintf("%s is not found in %s", m.Identity, m.Table)
}
func (m Missing) Unwrap() error {
	return domerr.ErrMissing
}

// an insert collided with a record registered already.
type AlreadyExists struct {
	Table    string
	Identity string
}

var _ error = AlreadyExists{}

func (a AlreadyExists) Error() string {
	return fmt.Sprintf("%s is registered in %s already", a.Identity, a.Table)
}
func (a AlreadyExists) Unwrap() error {
	return domerr.ErrAlreadyExists
}
