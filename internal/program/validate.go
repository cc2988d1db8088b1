package program

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/mintfact/mintfact/internal/ledger"
	"github.com/mintfact/mintfact/pkg/metadata"
)

// ValidateRecordAccount checks that the account at addr is the genuine
// metadata record for mint and returns the decoded record, upgraded to
// the current version in memory.
//
// Checks run in a fixed order so the caller can rely on the first
// failure: ownership, derived address, decode, mint match.
func ValidateRecordAccount(programID, addr solana.PublicKey, acct *ledger.Account, mint solana.PublicKey) (*metadata.Record, error) {
	if acct.Owner != programID {
		return nil, fmt.Errorf("record %s owned by %s: %w", addr, acct.Owner, ErrNotOwnedByProgram)
	}
	derived, _, err := metadata.DeriveRecordAddress(programID, mint)
	if err != nil {
		return nil, fmt.Errorf("derive for mint %s: %w", mint, err)
	}
	if addr != derived {
		return nil, fmt.Errorf("record %s, derived %s: %w", addr, derived, ErrAddressMismatch)
	}
	record, err := metadata.Decode(acct.Data)
	if err != nil {
		return nil, fmt.Errorf("record %s: %w", addr, err)
	}
	if record.Mint != mint {
		return nil, fmt.Errorf("record holds mint %s, expected %s: %w", record.Mint, mint, ErrMintMismatch)
	}
	return record, nil
}
