package inventory

import "fmt"

// ValidationError signals a malformed transaction: a bad sign, a zero unit
// count, or any other violation the caller could have caught before
// presenting the transaction. The Portfolio is never touched when a handler
// returns a ValidationError.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// InconsistentError signals a well-formed transaction that the current
// Portfolio state can't satisfy: an empty source pocket, a sign conflict
// between a Lot and the transaction closing it, or a unit-reconciliation
// check (see UnitsTolerance) that fails. It carries a reference to the
// offending Transaction for the caller to inspect. The Portfolio is left
// unchanged when a handler returns an InconsistentError.
type InconsistentError struct {
	Transaction Transaction
	Msg         string
}

func (e *InconsistentError) Error() string {
	return fmt.Sprintf("%+v inconsistent: %s", e.Transaction, e.Msg)
}
