package program

import "errors"

// Validation and execution errors. Decode errors from the record codec
// pass through unwrapped so callers can tell a truncated record from a
// mismatched one.
var (
	// ErrNotOwnedByProgram means the record account exists but belongs
	// to a different program.
	ErrNotOwnedByProgram = errors.New("program: account not owned by program")
	// ErrAddressMismatch means the supplied record account is not the
	// address derived from the mint.
	ErrAddressMismatch = errors.New("program: account address does not match derivation")
	// ErrMintMismatch means the stored record references a different
	// mint than the one supplied.
	ErrMintMismatch = errors.New("program: record mint mismatch")
	// ErrAlreadyExists means a create targeted a mint that already has
	// a record.
	ErrAlreadyExists = errors.New("program: record already exists")
	// ErrUnauthorized means the signing authority does not match the
	// record's update authority.
	ErrUnauthorized = errors.New("program: authority mismatch")
	// ErrInvalidInput covers malformed payloads, bounds violations, and
	// wrong accounts.
	ErrInvalidInput = errors.New("program: invalid input")
)
