// Package metadata defines the token metadata record, its versioned wire
// encoding, and the derivation of record account addresses.
//
// A record attaches descriptive data (description, link list, icon and
// header URIs) to an SPL token mint without touching the mint itself. The
// record lives in a program-derived account whose address is a pure
// function of the mint, so any client can locate it without an index.
// Persisted bytes start with a one-byte magic tag and a one-byte layout
// version; everything after is fixed by that version.
package metadata

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// Magic is the first byte of every persisted record. An account whose
// data does not start with it is never treated as metadata.
const Magic byte = 0xAB

// Record layout versions.
const (
	// Version1 is the legacy layout: the mint is stored as a base58
	// string and no update authority is persisted (mutation was gated
	// on a single program-wide authority key).
	Version1 uint8 = 1
	// Version2 stores the mint and update authority as raw 32-byte
	// public keys.
	Version2 uint8 = 2

	// CurrentVersion is the layout written by every new create/update.
	CurrentVersion = Version2
)

// Field bounds. These are part of the wire contract: encode rejects
// records exceeding them, decode rejects length prefixes above them.
const (
	MaxDescriptionLen = 512
	MaxURILen         = 256
	MaxLabelLen       = 32
	MaxLinks          = 16
)

// LegacyAuthority is the program-wide update authority that governed
// Version1 records. Decoding a Version1 record fills its authority field
// with this key so the rest of the system sees one canonical shape.
var LegacyAuthority = solana.MustPublicKeyFromBase58("8kzQJrCqPnXF6rLxciz1wHiB8GSmCefjFcgK8ACDES39")

// Link is one labeled URI attached to a record.
type Link struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// Record is the canonical in-memory metadata record. Version records the
// stored layout the bytes were read from (or will be written in); decoding
// an older layout upgrades the value to this shape with missing fields
// defaulted, without writing anything back.
type Record struct {
	Version         uint8            `json:"version"`
	Mint            solana.PublicKey `json:"mint"`
	UpdateAuthority solana.PublicKey `json:"update_authority"`
	Description     string           `json:"description"`
	HeaderURI       string           `json:"header_uri,omitempty"`
	IconURI         string           `json:"icon_uri,omitempty"`
	Links           []Link           `json:"links"`
	CreatedAt       int64            `json:"created_at"`
	UpdatedAt       int64            `json:"updated_at"`
}

// CheckBounds verifies every variable-length field against its maximum.
func (r *Record) CheckBounds() error {
	if len(r.Description) > MaxDescriptionLen {
		return fmt.Errorf("description is %d bytes: %w", len(r.Description), ErrFieldTooLong)
	}
	if len(r.HeaderURI) > MaxURILen {
		return fmt.Errorf("header URI is %d bytes: %w", len(r.HeaderURI), ErrFieldTooLong)
	}
	if len(r.IconURI) > MaxURILen {
		return fmt.Errorf("icon URI is %d bytes: %w", len(r.IconURI), ErrFieldTooLong)
	}
	if len(r.Links) > MaxLinks {
		return fmt.Errorf("%d links: %w", len(r.Links), ErrTooManyLinks)
	}
	for i, l := range r.Links {
		if len(l.Label) > MaxLabelLen {
			return fmt.Errorf("link %d label is %d bytes: %w", i, len(l.Label), ErrFieldTooLong)
		}
		if len(l.URL) > MaxURILen {
			return fmt.Errorf("link %d URL is %d bytes: %w", i, len(l.URL), ErrFieldTooLong)
		}
	}
	return nil
}

// recordV1 is the legacy persisted shape. It exists only as a decode
// target; upgrade() maps it to the canonical Record.
type recordV1 struct {
	Mint        string // base58
	Description string
	Links       []Link
	IconURI     string
	HeaderURI   string
	CreatedAt   int64
	UpdatedAt   int64
}

// upgrade converts a legacy record to the canonical shape. The stored
// authority defaults to LegacyAuthority; the mint string must parse as a
// valid public key.
func (v1 *recordV1) upgrade() (*Record, error) {
	mint, err := solana.PublicKeyFromBase58(v1.Mint)
	if err != nil {
		return nil, fmt.Errorf("v1 mint %q: %w", v1.Mint, ErrMalformed)
	}
	return &Record{
		Version:         Version1,
		Mint:            mint,
		UpdateAuthority: LegacyAuthority,
		Description:     v1.Description,
		HeaderURI:       v1.HeaderURI,
		IconURI:         v1.IconURI,
		Links:           v1.Links,
		CreatedAt:       v1.CreatedAt,
		UpdatedAt:       v1.UpdatedAt,
	}, nil
}
