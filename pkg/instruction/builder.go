package instruction

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/mintfact/mintfact/pkg/metadata"
)

// SystemProgramID is the native system program, owner of all plain
// lamport accounts.
var SystemProgramID = solana.MustPublicKeyFromBase58("11111111111111111111111111111111")

// NewCreateRecord builds a create instruction.
// Accounts: payer(s,w), authority(s), mint, record(w), system program,
// fee receiver(w). The record address is derived from the mint.
func NewCreateRecord(programID, payer, authority, mint, feeReceiver solana.PublicKey, args *CreateRecord) (*Instruction, error) {
	record, _, err := metadata.DeriveRecordAddress(programID, mint)
	if err != nil {
		return nil, fmt.Errorf("build create: %w", err)
	}
	return &Instruction{
		ProgramID: programID,
		Accounts: []AccountMeta{
			{PublicKey: payer, IsSigner: true, IsWritable: true},
			{PublicKey: authority, IsSigner: true},
			{PublicKey: mint},
			{PublicKey: record, IsWritable: true},
			{PublicKey: SystemProgramID},
			{PublicKey: feeReceiver, IsWritable: true},
		},
		Data: EncodeCreate(args),
	}, nil
}

// NewUpdateRecord builds an update instruction.
// Accounts: authority(s), payer(s,w), mint, record(w), system program.
// The payer funds rent growth and receives rent refunds on shrink.
func NewUpdateRecord(programID, authority, payer, mint solana.PublicKey, args *UpdateRecord) (*Instruction, error) {
	record, _, err := metadata.DeriveRecordAddress(programID, mint)
	if err != nil {
		return nil, fmt.Errorf("build update: %w", err)
	}
	return &Instruction{
		ProgramID: programID,
		Accounts: []AccountMeta{
			{PublicKey: authority, IsSigner: true},
			{PublicKey: payer, IsSigner: true, IsWritable: true},
			{PublicKey: mint},
			{PublicKey: record, IsWritable: true},
			{PublicKey: SystemProgramID},
		},
		Data: EncodeUpdate(args),
	}, nil
}

// NewCloseRecord builds a close instruction.
// Accounts: authority(s), mint, record(w), destination(w). All lamports
// in the record account are refunded to destination.
func NewCloseRecord(programID, authority, mint, destination solana.PublicKey) (*Instruction, error) {
	record, _, err := metadata.DeriveRecordAddress(programID, mint)
	if err != nil {
		return nil, fmt.Errorf("build close: %w", err)
	}
	return &Instruction{
		ProgramID: programID,
		Accounts: []AccountMeta{
			{PublicKey: authority, IsSigner: true},
			{PublicKey: mint},
			{PublicKey: record, IsWritable: true},
			{PublicKey: destination, IsWritable: true},
		},
		Data: EncodeClose(),
	}, nil
}
