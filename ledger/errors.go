package ledger

import (
	"fmt"

	"github.com/lumabank/chequer/db/models"
)

// ValidationError reports malformed or out-of-range input: empty names,
// non-positive amounts, issuer == payee.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return "validation: " + e.Reason }

// NotFoundError reports a referenced check or entity that does not
// exist (or is not addressed to the caller).
type NotFoundError struct {
	Kind string
	Ref  string
}

func (e *NotFoundError) Error() string { return fmt.Sprintf("%s not found: %s", e.Kind, e.Ref) }

// StateError reports an operation that is not legal in the check's
// current status. Terminal statuses never transition again.
type StateError struct {
	CheckID int64
	Status  models.CheckStatus
	Op      string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("check #%d is %s, cannot %s", e.CheckID, e.Status, e.Op)
}
