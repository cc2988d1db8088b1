package metadata

import (
	"encoding/binary"
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// Wire format: magic(1) | version(1) | fields in the layout fixed by that
// version. Variable-length fields are u32 little-endian length-prefixed;
// integers are little-endian; public keys are raw 32 bytes.

// Encode serializes the record in the layout named by r.Version. Field
// bounds are checked before any byte is written. Encoding a Version1
// record is supported for compatibility fixtures; note the legacy layout
// carries no authority field, so only records whose authority equals
// LegacyAuthority survive a v1 round-trip unchanged.
func Encode(r *Record) ([]byte, error) {
	if err := r.CheckBounds(); err != nil {
		return nil, err
	}

	buf := make([]byte, 0, encodedSize(r))
	buf = append(buf, Magic, r.Version)

	switch r.Version {
	case Version1:
		buf = appendString(buf, r.Mint.String())
		buf = appendString(buf, r.Description)
		buf = appendLinks(buf, r.Links)
		buf = appendString(buf, r.IconURI)
		buf = appendString(buf, r.HeaderURI)
		buf = binary.LittleEndian.AppendUint64(buf, uint64(r.CreatedAt))
		buf = binary.LittleEndian.AppendUint64(buf, uint64(r.UpdatedAt))
	case Version2:
		buf = append(buf, r.Mint.Bytes()...)
		buf = append(buf, r.UpdateAuthority.Bytes()...)
		buf = appendString(buf, r.Description)
		buf = appendString(buf, r.HeaderURI)
		buf = appendString(buf, r.IconURI)
		buf = appendLinks(buf, r.Links)
		buf = binary.LittleEndian.AppendUint64(buf, uint64(r.CreatedAt))
		buf = binary.LittleEndian.AppendUint64(buf, uint64(r.UpdatedAt))
	default:
		return nil, fmt.Errorf("encode version %d: %w", r.Version, ErrUnsupportedVersion)
	}
	return buf, nil
}

// Decode parses persisted record bytes. The magic tag is checked first,
// then the version; a version newer than CurrentVersion is rejected
// outright. Older layouts are decoded with their own field order and
// upgraded in memory to the canonical shape. Every length prefix is
// validated against the remaining buffer and its field bound before the
// bytes are touched, and trailing bytes after the last field are an error.
func Decode(data []byte) (*Record, error) {
	if len(data) < 1 || data[0] != Magic {
		return nil, ErrInvalidMagic
	}
	if len(data) < 2 {
		return nil, ErrTruncated
	}
	version := data[1]

	d := &reader{buf: data[2:]}
	var rec *Record
	switch version {
	case Version1:
		v1, err := decodeV1(d)
		if err != nil {
			return nil, err
		}
		rec, err = v1.upgrade()
		if err != nil {
			return nil, err
		}
	case Version2:
		v2, err := decodeV2(d)
		if err != nil {
			return nil, err
		}
		rec = v2
	default:
		return nil, fmt.Errorf("version %d: %w", version, ErrUnsupportedVersion)
	}

	if d.remaining() != 0 {
		return nil, fmt.Errorf("%d trailing bytes: %w", d.remaining(), ErrMalformed)
	}
	return rec, nil
}

func decodeV1(d *reader) (*recordV1, error) {
	var v1 recordV1
	var err error
	// Base58 of 32 bytes is at most 44 characters.
	if v1.Mint, err = d.str(44); err != nil {
		return nil, fmt.Errorf("mint: %w", err)
	}
	if v1.Description, err = d.str(MaxDescriptionLen); err != nil {
		return nil, fmt.Errorf("description: %w", err)
	}
	if v1.Links, err = d.links(); err != nil {
		return nil, err
	}
	if v1.IconURI, err = d.str(MaxURILen); err != nil {
		return nil, fmt.Errorf("icon: %w", err)
	}
	if v1.HeaderURI, err = d.str(MaxURILen); err != nil {
		return nil, fmt.Errorf("header: %w", err)
	}
	if v1.CreatedAt, err = d.i64(); err != nil {
		return nil, fmt.Errorf("created: %w", err)
	}
	if v1.UpdatedAt, err = d.i64(); err != nil {
		return nil, fmt.Errorf("updated: %w", err)
	}
	return &v1, nil
}

func decodeV2(d *reader) (*Record, error) {
	rec := &Record{Version: Version2}
	var err error
	if rec.Mint, err = d.pubkey(); err != nil {
		return nil, fmt.Errorf("mint: %w", err)
	}
	if rec.UpdateAuthority, err = d.pubkey(); err != nil {
		return nil, fmt.Errorf("authority: %w", err)
	}
	if rec.Description, err = d.str(MaxDescriptionLen); err != nil {
		return nil, fmt.Errorf("description: %w", err)
	}
	if rec.HeaderURI, err = d.str(MaxURILen); err != nil {
		return nil, fmt.Errorf("header: %w", err)
	}
	if rec.IconURI, err = d.str(MaxURILen); err != nil {
		return nil, fmt.Errorf("icon: %w", err)
	}
	if rec.Links, err = d.links(); err != nil {
		return nil, err
	}
	if rec.CreatedAt, err = d.i64(); err != nil {
		return nil, fmt.Errorf("created: %w", err)
	}
	if rec.UpdatedAt, err = d.i64(); err != nil {
		return nil, fmt.Errorf("updated: %w", err)
	}
	return rec, nil
}

// encodedSize returns the exact serialized length of r. Used to allocate
// the encode buffer and to size record accounts.
func encodedSize(r *Record) int {
	n := 2 // magic + version
	switch r.Version {
	case Version1:
		n += 4 + len(r.Mint.String())
	default:
		n += 32 + 32
	}
	n += 4 + len(r.Description)
	n += 4 + len(r.HeaderURI)
	n += 4 + len(r.IconURI)
	n += 4
	for _, l := range r.Links {
		n += 4 + len(l.Label) + 4 + len(l.URL)
	}
	n += 8 + 8
	return n
}

// ── append helpers (encode side) ────────────────────────────────────────

func appendString(buf []byte, s string) []byte {
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(s)))
	return append(buf, s...)
}

func appendLinks(buf []byte, links []Link) []byte {
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(links)))
	for _, l := range links {
		buf = appendString(buf, l.Label)
		buf = appendString(buf, l.URL)
	}
	return buf
}

// ── reader (decode side) ────────────────────────────────────────────────

// reader walks a byte buffer with bounds checking. Every read validates
// the remaining length first, so malformed input can never index out of
// range.
type reader struct {
	buf []byte
	off int
}

func (d *reader) remaining() int {
	return len(d.buf) - d.off
}

func (d *reader) take(n int) ([]byte, error) {
	if d.remaining() < n {
		return nil, ErrTruncated
	}
	b := d.buf[d.off : d.off+n]
	d.off += n
	return b, nil
}

func (d *reader) u32() (uint32, error) {
	b, err := d.take(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (d *reader) i64() (int64, error) {
	b, err := d.take(8)
	if err != nil {
		return 0, err
	}
	return int64(binary.LittleEndian.Uint64(b)), nil
}

// str reads a length-prefixed string, rejecting prefixes above max before
// touching the payload.
func (d *reader) str(max int) (string, error) {
	n, err := d.u32()
	if err != nil {
		return "", err
	}
	if int(n) > max {
		return "", fmt.Errorf("length %d exceeds maximum %d: %w", n, max, ErrMalformed)
	}
	b, err := d.take(int(n))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (d *reader) pubkey() (solana.PublicKey, error) {
	b, err := d.take(solana.PublicKeyLength)
	if err != nil {
		return solana.PublicKey{}, err
	}
	return solana.PublicKeyFromBytes(b), nil
}

func (d *reader) links() ([]Link, error) {
	count, err := d.u32()
	if err != nil {
		return nil, fmt.Errorf("links: %w", err)
	}
	if int(count) > MaxLinks {
		return nil, fmt.Errorf("link count %d exceeds maximum %d: %w", count, MaxLinks, ErrMalformed)
	}
	if count == 0 {
		return nil, nil
	}
	links := make([]Link, 0, count)
	for i := 0; i < int(count); i++ {
		label, err := d.str(MaxLabelLen)
		if err != nil {
			return nil, fmt.Errorf("link %d label: %w", i, err)
		}
		url, err := d.str(MaxURILen)
		if err != nil {
			return nil, fmt.Errorf("link %d URL: %w", i, err)
		}
		links = append(links, Link{Label: label, URL: url})
	}
	return links, nil
}
