package ledger

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"sort"

	"github.com/gagliardetto/solana-go"
	"github.com/zeebo/blake3"
)

// HashSize is the length of a state commitment in bytes.
const HashSize = 32

// Hash is a BLAKE3 digest.
type Hash [HashSize]byte

// String returns the hex representation of the hash.
func (h Hash) String() string {
	return fmt.Sprintf("%x", h[:])
}

// Commitment computes a merkle root over every account in the store.
// Each account is hashed deterministically, the hashes are sorted, and
// a merkle tree is built from them. Returns a zero hash for an empty
// ledger.
func Commitment(store *Store) (Hash, error) {
	var hashes []Hash

	err := store.ForEach(func(addr solana.PublicKey, acct *Account) error {
		hashes = append(hashes, hashAccount(addr, acct))
		return nil
	})
	if err != nil {
		return Hash{}, fmt.Errorf("ledger commitment: %w", err)
	}

	if len(hashes) == 0 {
		return Hash{}, nil
	}

	// Sort for deterministic ordering (map iteration order varies).
	sort.Slice(hashes, func(i, j int) bool {
		return bytes.Compare(hashes[i][:], hashes[j][:]) < 0
	})

	return merkleRoot(hashes), nil
}

// hashAccount produces a deterministic BLAKE3 hash of one account.
// Format: address(32) | lamports(8) | owner(32) | data_len(4) | data
func hashAccount(addr solana.PublicKey, acct *Account) Hash {
	var buf []byte
	buf = append(buf, addr.Bytes()...)
	buf = binary.LittleEndian.AppendUint64(buf, acct.Lamports)
	buf = append(buf, acct.Owner.Bytes()...)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(acct.Data)))
	buf = append(buf, acct.Data...)
	return blake3.Sum256(buf)
}

// merkleRoot folds a layer of hashes pairwise, duplicating the last
// element when the layer is odd, until one hash remains.
func merkleRoot(hashes []Hash) Hash {
	if len(hashes) == 1 {
		return hashes[0]
	}

	level := make([]Hash, len(hashes))
	copy(level, hashes)

	for len(level) > 1 {
		if len(level)%2 != 0 {
			level = append(level, level[len(level)-1])
		}
		next := make([]Hash, len(level)/2)
		for i := 0; i < len(level); i += 2 {
			next[i/2] = hashPair(level[i], level[i+1])
		}
		level = next
	}
	return level[0]
}

func hashPair(a, b Hash) Hash {
	var buf [2 * HashSize]byte
	copy(buf[:HashSize], a[:])
	copy(buf[HashSize:], b[:])
	return blake3.Sum256(buf[:])
}
