package vm

import (
	"fmt"

	"github.com/cargobay/cargobay/internal/domain"
)

// InvalidTransitionError reports a lifecycle operation applied to a VM
// in the wrong state.
type InvalidTransitionError struct {
	Id   string
	From domain.VMState
	To   domain.VMState
}

func NewInvalidTransitionError(id string, from, to domain.VMState) *InvalidTransitionError {
	return &InvalidTransitionError{Id: id, From: from, To: to}
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("VM %s is %s, cannot transition to %s", e.Id, e.From, e.To)
}
