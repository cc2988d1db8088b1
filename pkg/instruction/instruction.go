// Package instruction defines the program's entry surface: operation
// codes, their payload encodings, and client-side instruction builders.
//
// Payloads use the same length-prefixing discipline as the record codec:
// u32 little-endian prefixes for variable-length fields, a one-byte
// presence tag for optional fields.
package instruction

import (
	"encoding/binary"
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// Op identifies one program operation.
type Op uint8

const (
	OpCreateRecord Op = iota
	OpUpdateRecord
	OpCloseRecord
)

// String returns the operation name.
func (op Op) String() string {
	switch op {
	case OpCreateRecord:
		return "create_record"
	case OpUpdateRecord:
		return "update_record"
	case OpCloseRecord:
		return "close_record"
	default:
		return fmt.Sprintf("op(%d)", uint8(op))
	}
}

// AccountMeta names one account a transaction hands to the program.
type AccountMeta struct {
	PublicKey  solana.PublicKey `json:"pubkey"`
	IsSigner   bool             `json:"is_signer"`
	IsWritable bool             `json:"is_writable"`
}

// Instruction is one program invocation: the target program, the ordered
// account list, and the payload (operation code followed by its
// arguments).
type Instruction struct {
	ProgramID solana.PublicKey `json:"program_id"`
	Accounts  []AccountMeta    `json:"accounts"`
	Data      []byte           `json:"data"`
}

// SigningBytes returns the canonical byte representation signed by
// transaction signers.
// Format: program_id(32) | account_count(4) | [pubkey(32) + flags(1)]... | data_len(4) | data
func (ins *Instruction) SigningBytes() []byte {
	var buf []byte
	buf = append(buf, ins.ProgramID.Bytes()...)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(ins.Accounts)))
	for _, m := range ins.Accounts {
		buf = append(buf, m.PublicKey.Bytes()...)
		var flags byte
		if m.IsSigner {
			flags |= 0x01
		}
		if m.IsWritable {
			flags |= 0x02
		}
		buf = append(buf, flags)
	}
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(ins.Data)))
	buf = append(buf, ins.Data...)
	return buf
}
