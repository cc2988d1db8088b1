package ledger

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/mintfact/mintfact/pkg/instruction"
)

// Env is the host environment handed to a program for one transaction.
// All mutations are staged; the runtime commits them only if the program
// returns nil, so a failing handler leaves no trace.
type Env interface {
	// IsSigner reports whether the transaction carries a valid
	// signature for key.
	IsSigner(key solana.PublicKey) bool
	// UnixTimestamp is the host clock at execution time.
	UnixTimestamp() int64
	// Account returns a copy of the account at key, or
	// ErrAccountNotFound.
	Account(key solana.PublicKey) (*Account, error)
	// CreateAccount allocates a new account at addr with the given
	// balance, owner, and data, debiting payer. The balance must cover
	// rent exemption for the data size. Fails with ErrAccountExists if
	// addr already holds data.
	CreateAccount(payer, addr solana.PublicKey, lamports uint64, owner solana.PublicKey, data []byte) error
	// Transfer moves lamports between accounts, creating the
	// destination as a plain system account if absent.
	Transfer(from, to solana.PublicKey, lamports uint64) error
	// SetAccountData replaces an account's data, resizing its storage.
	// The account's balance must cover rent exemption at the new size.
	SetAccountData(addr solana.PublicKey, data []byte) error
	// CloseAccount moves the account's entire balance to dest and
	// removes the account.
	CloseAccount(addr, dest solana.PublicKey) error
}

// execContext implements Env over a staged overlay of the account store.
type execContext struct {
	store   *Store
	staged  map[solana.PublicKey]*Account // nil value marks deletion
	signers map[solana.PublicKey]struct{}
	now     int64
}

func newExecContext(store *Store, signers map[solana.PublicKey]struct{}, now int64) *execContext {
	return &execContext{
		store:   store,
		staged:  make(map[solana.PublicKey]*Account),
		signers: signers,
		now:     now,
	}
}

func (c *execContext) IsSigner(key solana.PublicKey) bool {
	_, ok := c.signers[key]
	return ok
}

func (c *execContext) UnixTimestamp() int64 {
	return c.now
}

// load returns the staged account if present, else the stored one.
// The returned pointer is never the staged value itself.
func (c *execContext) load(key solana.PublicKey) (*Account, error) {
	if acct, ok := c.staged[key]; ok {
		if acct == nil {
			return nil, ErrAccountNotFound
		}
		return acct.Clone(), nil
	}
	return c.store.Get(key)
}

func (c *execContext) Account(key solana.PublicKey) (*Account, error) {
	return c.load(key)
}

func (c *execContext) CreateAccount(payer, addr solana.PublicKey, lamports uint64, owner solana.PublicKey, data []byte) error {
	existing, err := c.load(addr)
	if err != nil && err != ErrAccountNotFound {
		return err
	}
	if existing != nil && (len(existing.Data) > 0 || existing.Owner != instruction.SystemProgramID) {
		return fmt.Errorf("create %s: %w", addr, ErrAccountExists)
	}
	if lamports < RentExemptBalance(len(data)) {
		return fmt.Errorf("create %s: %d lamports for %d bytes: %w",
			addr, lamports, len(data), ErrInsufficientRent)
	}
	if err := c.debit(payer, lamports); err != nil {
		return fmt.Errorf("create %s: %w", addr, err)
	}

	// An address may already hold bare lamports (someone transferred to
	// it before creation); those fold into the new account.
	var carried uint64
	if existing != nil {
		carried = existing.Lamports
	}
	acct := &Account{Lamports: lamports + carried, Owner: owner}
	acct.Data = make([]byte, len(data))
	copy(acct.Data, data)
	c.staged[addr] = acct
	return nil
}

func (c *execContext) Transfer(from, to solana.PublicKey, lamports uint64) error {
	if lamports == 0 || from == to {
		return nil
	}
	if err := c.debit(from, lamports); err != nil {
		return err
	}
	return c.credit(to, lamports)
}

func (c *execContext) SetAccountData(addr solana.PublicKey, data []byte) error {
	acct, err := c.load(addr)
	if err != nil {
		return fmt.Errorf("set data %s: %w", addr, err)
	}
	if acct.Lamports < RentExemptBalance(len(data)) {
		return fmt.Errorf("set data %s: %d lamports for %d bytes: %w",
			addr, acct.Lamports, len(data), ErrInsufficientRent)
	}
	acct.Data = make([]byte, len(data))
	copy(acct.Data, data)
	c.staged[addr] = acct
	return nil
}

func (c *execContext) CloseAccount(addr, dest solana.PublicKey) error {
	acct, err := c.load(addr)
	if err != nil {
		return fmt.Errorf("close %s: %w", addr, err)
	}
	if acct.Lamports > 0 {
		if err := c.credit(dest, acct.Lamports); err != nil {
			return err
		}
	}
	c.staged[addr] = nil
	return nil
}

func (c *execContext) debit(key solana.PublicKey, lamports uint64) error {
	acct, err := c.load(key)
	if err != nil {
		return fmt.Errorf("debit %s: %w", key, err)
	}
	if acct.Lamports < lamports {
		return fmt.Errorf("debit %s: have %d, need %d: %w",
			key, acct.Lamports, lamports, ErrInsufficientFunds)
	}
	acct.Lamports -= lamports
	c.staged[key] = acct
	return nil
}

func (c *execContext) credit(key solana.PublicKey, lamports uint64) error {
	acct, err := c.load(key)
	if err == ErrAccountNotFound {
		acct = &Account{Owner: instruction.SystemProgramID}
	} else if err != nil {
		return fmt.Errorf("credit %s: %w", key, err)
	}
	acct.Lamports += lamports
	c.staged[key] = acct
	return nil
}

// commit flushes the staged overlay to storage atomically.
func (c *execContext) commit() error {
	batch := c.store.NewBatch()
	for key, acct := range c.staged {
		if acct == nil {
			if err := batch.Delete(key); err != nil {
				return fmt.Errorf("commit: %w", err)
			}
			continue
		}
		if err := batch.Put(key, acct); err != nil {
			return fmt.Errorf("commit: %w", err)
		}
	}
	return batch.Commit()
}
