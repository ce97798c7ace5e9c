package store

import (
	"errors"
	"fmt"
)

// NotFoundError reports a VM id with no stored record.
type NotFoundError struct {
	Id string
}

func NewNotFoundError(id string) *NotFoundError {
	return &NotFoundError{Id: id}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no VM stored with id %s", e.Id)
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
