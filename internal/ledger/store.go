package ledger

import (
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/mintfact/mintfact/internal/storage"
)

var prefixAccount = []byte("a/") // a/<pubkey(32)> -> encoded Account

// Store persists ledger accounts.
type Store struct {
	db storage.DB
}

// NewStore creates an account store.
func NewStore(db storage.DB) *Store {
	return &Store{db: db}
}

// Get retrieves an account. Returns ErrAccountNotFound for empty
// addresses.
func (s *Store) Get(key solana.PublicKey) (*Account, error) {
	data, err := s.db.Get(accountKey(key))
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("account get: %w", err)
	}
	acct, err := DecodeAccount(data)
	if err != nil {
		return nil, fmt.Errorf("account %s: %w", key, err)
	}
	return acct, nil
}

// Put stores an account.
func (s *Store) Put(key solana.PublicKey, acct *Account) error {
	return s.db.Put(accountKey(key), acct.Encode())
}

// Delete removes an account.
func (s *Store) Delete(key solana.PublicKey) error {
	return s.db.Delete(accountKey(key))
}

// Has checks if an account exists.
func (s *Store) Has(key solana.PublicKey) (bool, error) {
	return s.db.Has(accountKey(key))
}

// ForEach iterates over all accounts.
// Return a non-nil error from fn to stop iteration early.
func (s *Store) ForEach(fn func(solana.PublicKey, *Account) error) error {
	return s.db.ForEach(prefixAccount, func(key, value []byte) error {
		// Key layout: "a/" + pubkey(32).
		if len(key) != len(prefixAccount)+solana.PublicKeyLength {
			return nil // Malformed key, skip.
		}
		addr := solana.PublicKeyFromBytes(key[len(prefixAccount):])
		acct, err := DecodeAccount(value)
		if err != nil {
			return nil // Skip corrupt entries.
		}
		return fn(addr, acct)
	})
}

// Batch stages account writes for an atomic commit. Falls back to
// non-atomic writes when the underlying DB has no batch support.
type Batch struct {
	inner storage.Batch
}

// NewBatch creates an account write batch.
func (s *Store) NewBatch() *Batch {
	if batcher, ok := s.db.(storage.Batcher); ok {
		return &Batch{inner: batcher.NewBatch()}
	}
	return &Batch{inner: &fallbackBatch{db: s.db}}
}

// Put stages an account write.
func (b *Batch) Put(key solana.PublicKey, acct *Account) error {
	return b.inner.Put(accountKey(key), acct.Encode())
}

// Delete stages an account removal.
func (b *Batch) Delete(key solana.PublicKey) error {
	return b.inner.Delete(accountKey(key))
}

// Commit applies all staged writes.
func (b *Batch) Commit() error {
	return b.inner.Commit()
}

func accountKey(key solana.PublicKey) []byte {
	out := make([]byte, len(prefixAccount)+solana.PublicKeyLength)
	copy(out, prefixAccount)
	copy(out[len(prefixAccount):], key.Bytes())
	return out
}

// fallbackBatch applies writes one by one for DBs without batching.
type fallbackBatch struct {
	db  storage.DB
	ops []fallbackOp
}

type fallbackOp struct {
	key   []byte
	value []byte // nil means delete
}

func (fb *fallbackBatch) Put(key, value []byte) error {
	fb.ops = append(fb.ops, fallbackOp{key: key, value: value})
	return nil
}

func (fb *fallbackBatch) Delete(key []byte) error {
	fb.ops = append(fb.ops, fallbackOp{key: key})
	return nil
}

func (fb *fallbackBatch) Commit() error {
	for _, op := range fb.ops {
		if op.value == nil {
			if err := fb.db.Delete(op.key); err != nil {
				return err
			}
		} else {
			if err := fb.db.Put(op.key, op.value); err != nil {
				return err
			}
		}
	}
	return nil
}
