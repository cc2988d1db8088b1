package ledger

import (
	"fmt"
	"sync"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/mintfact/mintfact/internal/log"
	"github.com/mintfact/mintfact/internal/storage"
	"github.com/mintfact/mintfact/pkg/instruction"
)

// Program executes instructions addressed to one program ID.
type Program interface {
	Execute(env Env, accounts []instruction.AccountMeta, data []byte) error
}

// Runtime executes signed transactions against the account store.
// Transactions run one at a time; each either commits all of its
// staged writes or none of them.
type Runtime struct {
	mu       sync.Mutex
	store    *Store
	programs map[solana.PublicKey]Program
	now      func() int64
}

// NewRuntime creates a transaction runtime over db.
func NewRuntime(db storage.DB) *Runtime {
	return &Runtime{
		store:    NewStore(db),
		programs: make(map[solana.PublicKey]Program),
		now:      func() int64 { return time.Now().Unix() },
	}
}

// RegisterProgram installs a program handler for the given ID.
func (r *Runtime) RegisterProgram(id solana.PublicKey, p Program) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.programs[id] = p
}

// Submit verifies and executes a transaction. On success all staged
// account writes are committed atomically.
func (r *Runtime) Submit(tx *Transaction) error {
	signers, err := tx.VerifySignatures()
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	program, ok := r.programs[tx.Instruction.ProgramID]
	if !ok {
		return fmt.Errorf("program %s: %w", tx.Instruction.ProgramID, ErrUnknownProgram)
	}

	ctx := newExecContext(r.store, signers, r.now())
	if err := program.Execute(ctx, tx.Instruction.Accounts, tx.Instruction.Data); err != nil {
		log.Ledger.Debug().
			Str("program", tx.Instruction.ProgramID.String()).
			Err(err).
			Msg("Transaction rejected")
		return err
	}
	if err := ctx.commit(); err != nil {
		return fmt.Errorf("ledger commit: %w", err)
	}
	log.Ledger.Debug().
		Str("program", tx.Instruction.ProgramID.String()).
		Int("writes", len(ctx.staged)).
		Msg("Transaction committed")
	return nil
}

// Airdrop credits lamports to an address, creating a system account if
// absent. Used by the faucet; not reachable through transactions.
func (r *Runtime) Airdrop(addr solana.PublicKey, lamports uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	acct, err := r.store.Get(addr)
	if err == ErrAccountNotFound {
		acct = &Account{Owner: instruction.SystemProgramID}
	} else if err != nil {
		return err
	}
	acct.Lamports += lamports
	return r.store.Put(addr, acct)
}

// SetAccount writes an account directly, bypassing transaction
// execution. Used for genesis state and test fixtures.
func (r *Runtime) SetAccount(addr solana.PublicKey, acct *Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.store.Put(addr, acct)
}

// Account returns a copy of the account at addr.
func (r *Runtime) Account(addr solana.PublicKey) (*Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.store.Get(addr)
}

// Balance returns the lamport balance at addr, zero if absent.
func (r *Runtime) Balance(addr solana.PublicKey) (uint64, error) {
	acct, err := r.Account(addr)
	if err == ErrAccountNotFound {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return acct.Lamports, nil
}

// ForEachAccount iterates over all accounts under the runtime lock.
func (r *Runtime) ForEachAccount(fn func(solana.PublicKey, *Account) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.store.ForEach(fn)
}

// Commitment computes the state commitment over all accounts.
func (r *Runtime) Commitment() (Hash, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Commitment(r.store)
}

// SetClock overrides the runtime clock. Tests only.
func (r *Runtime) SetClock(now func() int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.now = now
}
