package ledger

import (
	"errors"
	"fmt"
)

// Fault is the engine's one class of error: a programmer error. It is
// raised when an internal operation is invoked against inconsistent
// ledger state (a missing creditor, or a missing debtor record under a
// creditor, where one was assumed to exist). It is
// never expected to occur through correct use of the public API (Add,
// GetCreditors, ToText, FromText) and is surfaced as a panic rather than
// an error return, since no public operation has a recoverable path once
// the ledger's own bookkeeping has diverged from its invariants.
type Fault struct {
	Op string
	ID ID
}

func (f *Fault) Error() string {
	return fmt.Sprintf("ledger: programmer fault in %s: %q not present", f.Op, f.ID)
}

// ErrMalformed wraps every deserialization failure from FromText. The
// ledger's state is left unchanged when this error is returned: FromText
// only swaps in the decoded structure after a full, successful decode.
var ErrMalformed = errors.New("ledger: malformed serialized ledger")
