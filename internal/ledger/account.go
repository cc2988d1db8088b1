// Package ledger implements the host execution environment for on-ledger
// programs: persistent accounts, rent, transaction execution with
// all-or-nothing commits, and a state commitment over the account set.
//
// The execution model is deliberately simple: transactions are processed
// one at a time to completion, so programs never observe concurrent
// mutation of the accounts they were handed. Programs stage every change
// through the Env interface; nothing reaches storage unless the whole
// handler succeeds.
package ledger

import (
	"encoding/binary"
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// Account is one ledger account: a balance, an owning program, and
// opaque data bytes interpreted only by that owner.
type Account struct {
	Lamports uint64           `json:"lamports"`
	Owner    solana.PublicKey `json:"owner"`
	Data     []byte           `json:"data"`
}

// Clone returns a deep copy.
func (a *Account) Clone() *Account {
	data := make([]byte, len(a.Data))
	copy(data, a.Data)
	return &Account{Lamports: a.Lamports, Owner: a.Owner, Data: data}
}

// Encode serializes the account for storage.
// Format: lamports(8) | owner(32) | data_len(4) | data
func (a *Account) Encode() []byte {
	buf := make([]byte, 0, 8+32+4+len(a.Data))
	buf = binary.LittleEndian.AppendUint64(buf, a.Lamports)
	buf = append(buf, a.Owner.Bytes()...)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(a.Data)))
	buf = append(buf, a.Data...)
	return buf
}

// DecodeAccount parses a stored account.
func DecodeAccount(b []byte) (*Account, error) {
	if len(b) < 8+32+4 {
		return nil, fmt.Errorf("account record too short: %d bytes", len(b))
	}
	a := &Account{
		Lamports: binary.LittleEndian.Uint64(b[:8]),
		Owner:    solana.PublicKeyFromBytes(b[8:40]),
	}
	n := binary.LittleEndian.Uint32(b[40:44])
	if int(n) != len(b)-44 {
		return nil, fmt.Errorf("account data length %d does not match %d remaining bytes", n, len(b)-44)
	}
	a.Data = make([]byte, n)
	copy(a.Data, b[44:])
	return a, nil
}
