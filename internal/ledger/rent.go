package ledger

// Rent parameters, matching Solana mainnet: an account is exempt from
// rent collection when its balance covers two years of rent on its data
// plus a fixed per-account metadata overhead.
const (
	lamportsPerByteYear    = 3480
	rentExemptionYears     = 2
	accountStorageOverhead = 128
)

// RentExemptBalance returns the minimum balance for an account holding
// size bytes of data.
func RentExemptBalance(size int) uint64 {
	return (accountStorageOverhead + uint64(size)) * lamportsPerByteYear * rentExemptionYears
}
