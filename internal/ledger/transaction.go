package ledger

import (
	"crypto/ed25519"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/mintfact/mintfact/pkg/instruction"
)

// Signature pairs a public key with its ed25519 signature over the
// transaction's signing bytes.
type Signature struct {
	PublicKey solana.PublicKey `json:"public_key"`
	Signature []byte           `json:"signature"`
}

// Transaction is one program instruction plus the signatures that
// authorize it.
type Transaction struct {
	Instruction instruction.Instruction `json:"instruction"`
	Signatures  []Signature             `json:"signatures"`
}

// Sign appends a signature by the given private key over the
// transaction's instruction.
func (tx *Transaction) Sign(priv ed25519.PrivateKey) {
	msg := tx.Instruction.SigningBytes()
	tx.Signatures = append(tx.Signatures, Signature{
		PublicKey: solana.PublicKeyFromBytes(priv.Public().(ed25519.PublicKey)),
		Signature: ed25519.Sign(priv, msg),
	})
}

// VerifySignatures checks every attached signature and returns the set
// of keys that validly signed. An instruction account flagged IsSigner
// without a matching valid signature fails the transaction.
func (tx *Transaction) VerifySignatures() (map[solana.PublicKey]struct{}, error) {
	msg := tx.Instruction.SigningBytes()
	signers := make(map[solana.PublicKey]struct{}, len(tx.Signatures))
	for _, sig := range tx.Signatures {
		if len(sig.Signature) != ed25519.SignatureSize {
			return nil, fmt.Errorf("signature by %s: %d bytes: %w",
				sig.PublicKey, len(sig.Signature), ErrInvalidSignature)
		}
		if !ed25519.Verify(sig.PublicKey.Bytes(), msg, sig.Signature) {
			return nil, fmt.Errorf("signature by %s: %w", sig.PublicKey, ErrInvalidSignature)
		}
		signers[sig.PublicKey] = struct{}{}
	}
	for _, meta := range tx.Instruction.Accounts {
		if !meta.IsSigner {
			continue
		}
		if _, ok := signers[meta.PublicKey]; !ok {
			return nil, fmt.Errorf("required signer %s: %w", meta.PublicKey, ErrMissingSignature)
		}
	}
	return signers, nil
}
