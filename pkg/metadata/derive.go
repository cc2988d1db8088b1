package metadata

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// AddressSeed is the constant first seed of every record address. The
// seed order (literal seed, then raw mint bytes) is load-bearing:
// reordering it would move every record ever created.
const AddressSeed = "token_info"

// DeriveRecordAddress computes the program-derived address holding the
// metadata record for mint, plus the bump byte that made the address land
// off-curve. The result is a pure function of (programID, mint): repeated
// calls always agree, and distinct mints map to distinct addresses.
//
// An error here means no bump in the probing range produced an off-curve
// address, which is a fatal configuration condition rather than something
// callers should handle per-request.
func DeriveRecordAddress(programID, mint solana.PublicKey) (solana.PublicKey, uint8, error) {
	addr, bump, err := solana.FindProgramAddress(
		[][]byte{[]byte(AddressSeed), mint.Bytes()},
		programID,
	)
	if err != nil {
		return solana.PublicKey{}, 0, fmt.Errorf("derive record address for mint %s: %w", mint, err)
	}
	return addr, bump, nil
}
