package ledger

import "errors"

// Ledger errors.
var (
	// ErrAccountNotFound means the address holds no account. Distinct
	// from every validation error: an absent account is not a wrong one.
	ErrAccountNotFound = errors.New("ledger: account not found")
	// ErrAccountExists means a create targeted an address already
	// holding account data.
	ErrAccountExists = errors.New("ledger: account already exists")
	// ErrInsufficientFunds means a debit exceeds the account balance.
	ErrInsufficientFunds = errors.New("ledger: insufficient funds")
	// ErrInsufficientRent means an account would be left below the
	// rent-exempt balance for its data size.
	ErrInsufficientRent = errors.New("ledger: balance below rent exemption")
	// ErrInvalidSignature means a transaction signature does not verify.
	ErrInvalidSignature = errors.New("ledger: invalid signature")
	// ErrMissingSignature means an account flagged as signer has no
	// valid signature attached to the transaction.
	ErrMissingSignature = errors.New("ledger: missing required signature")
	// ErrUnknownProgram means no registered program matches the
	// instruction's program ID.
	ErrUnknownProgram = errors.New("ledger: unknown program")
)
