package config

import "github.com/gagliardetto/solana-go"

// Protocol constants. These are part of the on-ledger contract and must
// match across every node and client; changing any of them is a protocol
// fork.
var (
	// ProgramID is the metadata program's identity. Record accounts are
	// owned by it and record addresses are derived from it.
	ProgramID = solana.MustPublicKeyFromBase58("Gg37SnVPUkvXy4BPqeeDrbuC2J4je6eunzMPdmcgQKHm")

	// FeeReceiver collects the record creation fee.
	FeeReceiver = solana.MustPublicKeyFromBase58("DNszn3BMm55VjxWSCwKCyX4r2EVTnYkRHyu9U3iukDbu")

	// TokenProgramID is the SPL token program that owns mint accounts.
	// Create verifies the supplied mint against it.
	TokenProgramID = solana.MustPublicKeyFromBase58("TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA")
)

// CreationFee is charged from the payer on every record creation, on top
// of the rent-exempt balance of the new account.
const CreationFee uint64 = 100_000_000
