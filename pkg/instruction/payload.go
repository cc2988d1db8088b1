package instruction

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/mintfact/mintfact/pkg/metadata"
)

// Payload decode errors.
var (
	ErrUnknownOp        = errors.New("instruction: unknown operation code")
	ErrTruncatedPayload = errors.New("instruction: truncated payload")
	ErrMalformedPayload = errors.New("instruction: malformed payload")
)

// CreateRecord carries the initial field values for a new record. The
// mint and initial authority come from the account list, not the payload.
type CreateRecord struct {
	Description string          `json:"description"`
	Links       []metadata.Link `json:"links"`
	IconURI     string          `json:"icon_uri"`
	HeaderURI   string          `json:"header_uri"`
}

// UpdateRecord is a partial replacement: nil fields are left untouched.
// NewAuthority reassigns the update authority; only the current authority
// can sign such an update.
type UpdateRecord struct {
	Description  *string           `json:"description,omitempty"`
	HeaderURI    *string           `json:"header_uri,omitempty"`
	IconURI      *string           `json:"icon_uri,omitempty"`
	Links        *[]metadata.Link  `json:"links,omitempty"`
	NewAuthority *solana.PublicKey `json:"new_authority,omitempty"`
}

// CloseRecord has no arguments; the refund destination is in the account
// list.
type CloseRecord struct{}

// ── encoding ────────────────────────────────────────────────────────────

// EncodeCreate serializes a create payload: op(1) | description | links |
// icon | header.
func EncodeCreate(args *CreateRecord) []byte {
	buf := []byte{byte(OpCreateRecord)}
	buf = appendString(buf, args.Description)
	buf = appendLinks(buf, args.Links)
	buf = appendString(buf, args.IconURI)
	buf = appendString(buf, args.HeaderURI)
	return buf
}

// EncodeUpdate serializes an update payload: op(1) followed by five
// optional fields, each a presence tag and, when present, the value.
func EncodeUpdate(args *UpdateRecord) []byte {
	buf := []byte{byte(OpUpdateRecord)}
	buf = appendOptString(buf, args.Description)
	buf = appendOptString(buf, args.HeaderURI)
	buf = appendOptString(buf, args.IconURI)
	if args.Links == nil {
		buf = append(buf, 0)
	} else {
		buf = append(buf, 1)
		buf = appendLinks(buf, *args.Links)
	}
	if args.NewAuthority == nil {
		buf = append(buf, 0)
	} else {
		buf = append(buf, 1)
		buf = append(buf, args.NewAuthority.Bytes()...)
	}
	return buf
}

// EncodeClose serializes a close payload: just the op byte.
func EncodeClose() []byte {
	return []byte{byte(OpCloseRecord)}
}

// ── decoding ────────────────────────────────────────────────────────────

// DecodeOp splits a payload into its operation code and argument bytes.
func DecodeOp(data []byte) (Op, []byte, error) {
	if len(data) == 0 {
		return 0, nil, ErrTruncatedPayload
	}
	op := Op(data[0])
	switch op {
	case OpCreateRecord, OpUpdateRecord, OpCloseRecord:
		return op, data[1:], nil
	default:
		return 0, nil, fmt.Errorf("%w: %d", ErrUnknownOp, data[0])
	}
}

// DecodeCreate parses create arguments. Length prefixes are validated
// against both the remaining buffer and the record field bounds.
func DecodeCreate(data []byte) (*CreateRecord, error) {
	d := &payloadReader{buf: data}
	var args CreateRecord
	var err error
	if args.Description, err = d.str(metadata.MaxDescriptionLen); err != nil {
		return nil, fmt.Errorf("description: %w", err)
	}
	if args.Links, err = d.links(); err != nil {
		return nil, err
	}
	if args.IconURI, err = d.str(metadata.MaxURILen); err != nil {
		return nil, fmt.Errorf("icon: %w", err)
	}
	if args.HeaderURI, err = d.str(metadata.MaxURILen); err != nil {
		return nil, fmt.Errorf("header: %w", err)
	}
	if d.remaining() != 0 {
		return nil, fmt.Errorf("%d trailing bytes: %w", d.remaining(), ErrMalformedPayload)
	}
	return &args, nil
}

// DecodeUpdate parses update arguments.
func DecodeUpdate(data []byte) (*UpdateRecord, error) {
	d := &payloadReader{buf: data}
	var args UpdateRecord
	var err error
	if args.Description, err = d.optStr(metadata.MaxDescriptionLen); err != nil {
		return nil, fmt.Errorf("description: %w", err)
	}
	if args.HeaderURI, err = d.optStr(metadata.MaxURILen); err != nil {
		return nil, fmt.Errorf("header: %w", err)
	}
	if args.IconURI, err = d.optStr(metadata.MaxURILen); err != nil {
		return nil, fmt.Errorf("icon: %w", err)
	}
	present, err := d.tag()
	if err != nil {
		return nil, fmt.Errorf("links: %w", err)
	}
	if present {
		links, err := d.links()
		if err != nil {
			return nil, err
		}
		args.Links = &links
	}
	present, err = d.tag()
	if err != nil {
		return nil, fmt.Errorf("authority: %w", err)
	}
	if present {
		key, err := d.pubkey()
		if err != nil {
			return nil, fmt.Errorf("authority: %w", err)
		}
		args.NewAuthority = &key
	}
	if d.remaining() != 0 {
		return nil, fmt.Errorf("%d trailing bytes: %w", d.remaining(), ErrMalformedPayload)
	}
	return &args, nil
}

// DecodeClose parses close arguments (there are none).
func DecodeClose(data []byte) (*CloseRecord, error) {
	if len(data) != 0 {
		return nil, fmt.Errorf("%d trailing bytes: %w", len(data), ErrMalformedPayload)
	}
	return &CloseRecord{}, nil
}

// ── byte-level helpers ──────────────────────────────────────────────────

func appendString(buf []byte, s string) []byte {
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(s)))
	return append(buf, s...)
}

func appendOptString(buf []byte, s *string) []byte {
	if s == nil {
		return append(buf, 0)
	}
	buf = append(buf, 1)
	return appendString(buf, *s)
}

func appendLinks(buf []byte, links []metadata.Link) []byte {
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(links)))
	for _, l := range links {
		buf = appendString(buf, l.Label)
		buf = appendString(buf, l.URL)
	}
	return buf
}

type payloadReader struct {
	buf []byte
	off int
}

func (d *payloadReader) remaining() int {
	return len(d.buf) - d.off
}

func (d *payloadReader) take(n int) ([]byte, error) {
	if d.remaining() < n {
		return nil, ErrTruncatedPayload
	}
	b := d.buf[d.off : d.off+n]
	d.off += n
	return b, nil
}

func (d *payloadReader) u32() (uint32, error) {
	b, err := d.take(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (d *payloadReader) tag() (bool, error) {
	b, err := d.take(1)
	if err != nil {
		return false, err
	}
	switch b[0] {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, fmt.Errorf("presence tag %d: %w", b[0], ErrMalformedPayload)
	}
}

func (d *payloadReader) str(max int) (string, error) {
	n, err := d.u32()
	if err != nil {
		return "", err
	}
	if int(n) > max {
		return "", fmt.Errorf("length %d exceeds maximum %d: %w", n, max, ErrMalformedPayload)
	}
	b, err := d.take(int(n))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (d *payloadReader) optStr(max int) (*string, error) {
	present, err := d.tag()
	if err != nil {
		return nil, err
	}
	if !present {
		return nil, nil
	}
	s, err := d.str(max)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (d *payloadReader) pubkey() (solana.PublicKey, error) {
	b, err := d.take(solana.PublicKeyLength)
	if err != nil {
		return solana.PublicKey{}, err
	}
	return solana.PublicKeyFromBytes(b), nil
}

func (d *payloadReader) links() ([]metadata.Link, error) {
	count, err := d.u32()
	if err != nil {
		return nil, fmt.Errorf("links: %w", err)
	}
	if int(count) > metadata.MaxLinks {
		return nil, fmt.Errorf("link count %d exceeds maximum %d: %w", count, metadata.MaxLinks, ErrMalformedPayload)
	}
	if count == 0 {
		return nil, nil
	}
	links := make([]metadata.Link, 0, count)
	for i := 0; i < int(count); i++ {
		label, err := d.str(metadata.MaxLabelLen)
		if err != nil {
			return nil, fmt.Errorf("link %d label: %w", i, err)
		}
		url, err := d.str(metadata.MaxURILen)
		if err != nil {
			return nil, fmt.Errorf("link %d URL: %w", i, err)
		}
		links = append(links, metadata.Link{Label: label, URL: url})
	}
	return links, nil
}
