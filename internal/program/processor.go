package program

import (
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/token"
	"github.com/mintfact/mintfact/internal/ledger"
	"github.com/mintfact/mintfact/internal/log"
	"github.com/mintfact/mintfact/pkg/instruction"
	"github.com/mintfact/mintfact/pkg/metadata"
)

// Account positions for each operation. Builders in pkg/instruction
// emit accounts in this order.
const (
	createPayer       = 0
	createAuthority   = 1
	createMint        = 2
	createRecord      = 3
	createFeeReceiver = 5
	createAccounts    = 6

	updateAuthority = 0
	updatePayer     = 1
	updateMint      = 2
	updateRecord    = 3
	updateAccounts  = 5

	closeAuthority   = 0
	closeMint        = 1
	closeRecord      = 2
	closeDestination = 3
	closeAccounts    = 4
)

// Processor executes token metadata instructions.
type Processor struct {
	programID    solana.PublicKey
	feeReceiver  solana.PublicKey
	tokenProgram solana.PublicKey
	creationFee  uint64
}

// New creates a metadata program processor.
func New(programID, feeReceiver, tokenProgram solana.PublicKey, creationFee uint64) *Processor {
	return &Processor{
		programID:    programID,
		feeReceiver:  feeReceiver,
		tokenProgram: tokenProgram,
		creationFee:  creationFee,
	}
}

// Execute dispatches one instruction. Implements ledger.Program.
func (p *Processor) Execute(env ledger.Env, accounts []instruction.AccountMeta, data []byte) error {
	op, payload, err := instruction.DecodeOp(data)
	if err != nil {
		return fmt.Errorf("%v: %w", err, ErrInvalidInput)
	}
	switch op {
	case instruction.OpCreateRecord:
		return p.create(env, accounts, payload)
	case instruction.OpUpdateRecord:
		return p.update(env, accounts, payload)
	case instruction.OpCloseRecord:
		return p.close(env, accounts, payload)
	default:
		return fmt.Errorf("op %d: %w", op, ErrInvalidInput)
	}
}

func (p *Processor) create(env ledger.Env, accounts []instruction.AccountMeta, payload []byte) error {
	if len(accounts) != createAccounts {
		return fmt.Errorf("create needs %d accounts, got %d: %w", createAccounts, len(accounts), ErrInvalidInput)
	}
	payer := accounts[createPayer].PublicKey
	authority := accounts[createAuthority].PublicKey
	mint := accounts[createMint].PublicKey
	recordAddr := accounts[createRecord].PublicKey
	feeReceiver := accounts[createFeeReceiver].PublicKey

	if !env.IsSigner(payer) {
		return fmt.Errorf("payer %s: %w", payer, ledger.ErrMissingSignature)
	}
	if !env.IsSigner(authority) {
		return fmt.Errorf("authority %s: %w", authority, ledger.ErrMissingSignature)
	}
	if feeReceiver != p.feeReceiver {
		return fmt.Errorf("fee receiver %s: %w", feeReceiver, ErrInvalidInput)
	}

	derived, _, err := metadata.DeriveRecordAddress(p.programID, mint)
	if err != nil {
		return fmt.Errorf("derive: %w", err)
	}
	if recordAddr != derived {
		return fmt.Errorf("record %s, derived %s: %w", recordAddr, derived, ErrAddressMismatch)
	}

	if err := p.checkMint(env, mint); err != nil {
		return err
	}

	args, err := instruction.DecodeCreate(payload)
	if err != nil {
		return fmt.Errorf("%v: %w", err, ErrInvalidInput)
	}

	if existing, err := env.Account(recordAddr); err == nil && len(existing.Data) > 0 {
		return fmt.Errorf("mint %s: %w", mint, ErrAlreadyExists)
	} else if err != nil && err != ledger.ErrAccountNotFound {
		return err
	}

	now := env.UnixTimestamp()
	record := &metadata.Record{
		Version:         metadata.CurrentVersion,
		Mint:            mint,
		UpdateAuthority: authority,
		Description:     args.Description,
		HeaderURI:       args.HeaderURI,
		IconURI:         args.IconURI,
		Links:           args.Links,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	encoded, err := metadata.Encode(record)
	if err != nil {
		return fmt.Errorf("%v: %w", err, ErrInvalidInput)
	}

	if err := env.Transfer(payer, feeReceiver, p.creationFee); err != nil {
		return err
	}
	rent := ledger.RentExemptBalance(len(encoded))
	if err := env.CreateAccount(payer, recordAddr, rent, p.programID, encoded); err != nil {
		return err
	}

	log.Program.Info().
		Str("mint", mint.String()).
		Str("record", recordAddr.String()).
		Str("authority", authority.String()).
		Msg("Record created")
	return nil
}

func (p *Processor) update(env ledger.Env, accounts []instruction.AccountMeta, payload []byte) error {
	if len(accounts) != updateAccounts {
		return fmt.Errorf("update needs %d accounts, got %d: %w", updateAccounts, len(accounts), ErrInvalidInput)
	}
	authority := accounts[updateAuthority].PublicKey
	payer := accounts[updatePayer].PublicKey
	mint := accounts[updateMint].PublicKey
	recordAddr := accounts[updateRecord].PublicKey

	if !env.IsSigner(authority) {
		return fmt.Errorf("authority %s: %w", authority, ledger.ErrMissingSignature)
	}
	if !env.IsSigner(payer) {
		return fmt.Errorf("payer %s: %w", payer, ledger.ErrMissingSignature)
	}

	record, acct, err := p.loadRecord(env, recordAddr, mint)
	if err != nil {
		return err
	}
	// Authorization comes before input validation so probing with bad
	// payloads reveals nothing.
	if authority != record.UpdateAuthority {
		return fmt.Errorf("authority %s: %w", authority, ErrUnauthorized)
	}

	args, err := instruction.DecodeUpdate(payload)
	if err != nil {
		return fmt.Errorf("%v: %w", err, ErrInvalidInput)
	}

	if args.Description != nil {
		record.Description = *args.Description
	}
	if args.HeaderURI != nil {
		record.HeaderURI = *args.HeaderURI
	}
	if args.IconURI != nil {
		record.IconURI = *args.IconURI
	}
	if args.Links != nil {
		record.Links = *args.Links
	}
	if args.NewAuthority != nil {
		record.UpdateAuthority = *args.NewAuthority
	}
	// Records always rewrite at the current version, so a legacy record
	// is upgraded on its first update.
	record.Version = metadata.CurrentVersion
	record.UpdatedAt = env.UnixTimestamp()

	encoded, err := metadata.Encode(record)
	if err != nil {
		return fmt.Errorf("%v: %w", err, ErrInvalidInput)
	}

	// Settle rent for the new size: the payer funds growth and
	// receives the surplus on shrink.
	rent := ledger.RentExemptBalance(len(encoded))
	if acct.Lamports < rent {
		if err := env.Transfer(payer, recordAddr, rent-acct.Lamports); err != nil {
			return err
		}
	} else if acct.Lamports > rent {
		if err := env.Transfer(recordAddr, payer, acct.Lamports-rent); err != nil {
			return err
		}
	}
	if err := env.SetAccountData(recordAddr, encoded); err != nil {
		return err
	}

	log.Program.Info().
		Str("mint", mint.String()).
		Str("record", recordAddr.String()).
		Msg("Record updated")
	return nil
}

func (p *Processor) close(env ledger.Env, accounts []instruction.AccountMeta, payload []byte) error {
	if len(accounts) != closeAccounts {
		return fmt.Errorf("close needs %d accounts, got %d: %w", closeAccounts, len(accounts), ErrInvalidInput)
	}
	authority := accounts[closeAuthority].PublicKey
	mint := accounts[closeMint].PublicKey
	recordAddr := accounts[closeRecord].PublicKey
	destination := accounts[closeDestination].PublicKey

	if !env.IsSigner(authority) {
		return fmt.Errorf("authority %s: %w", authority, ledger.ErrMissingSignature)
	}
	if _, err := instruction.DecodeClose(payload); err != nil {
		return fmt.Errorf("%v: %w", err, ErrInvalidInput)
	}

	record, _, err := p.loadRecord(env, recordAddr, mint)
	if err != nil {
		return err
	}
	if authority != record.UpdateAuthority {
		return fmt.Errorf("authority %s: %w", authority, ErrUnauthorized)
	}

	if err := env.CloseAccount(recordAddr, destination); err != nil {
		return err
	}

	log.Program.Info().
		Str("mint", mint.String()).
		Str("record", recordAddr.String()).
		Str("destination", destination.String()).
		Msg("Record closed")
	return nil
}

// loadRecord fetches and validates the record account for mint.
func (p *Processor) loadRecord(env ledger.Env, addr solana.PublicKey, mint solana.PublicKey) (*metadata.Record, *ledger.Account, error) {
	acct, err := env.Account(addr)
	if err != nil {
		return nil, nil, fmt.Errorf("record %s: %w", addr, err)
	}
	record, err := ValidateRecordAccount(p.programID, addr, acct, mint)
	if err != nil {
		return nil, nil, err
	}
	return record, acct, nil
}

// checkMint verifies the mint account holds an initialized SPL mint
// owned by the token program.
func (p *Processor) checkMint(env ledger.Env, mint solana.PublicKey) error {
	acct, err := env.Account(mint)
	if err != nil {
		return fmt.Errorf("mint %s: %w", mint, err)
	}
	if acct.Owner != p.tokenProgram {
		return fmt.Errorf("mint %s owned by %s: %w", mint, acct.Owner, ErrInvalidInput)
	}
	// token.Mint.Decode reassigns its receiver, so decode explicitly.
	var m token.Mint
	if err := bin.NewBinDecoder(acct.Data).Decode(&m); err != nil {
		return fmt.Errorf("mint %s: %v: %w", mint, err, ErrInvalidInput)
	}
	if !m.IsInitialized {
		return fmt.Errorf("mint %s not initialized: %w", mint, ErrInvalidInput)
	}
	return nil
}
