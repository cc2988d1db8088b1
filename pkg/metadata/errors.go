package metadata

import "errors"

// Codec errors. Decode failures are final: a record that does not decode
// cleanly is rejected whole, never partially interpreted.
var (
	// ErrInvalidMagic means the bytes do not start with the magic tag.
	ErrInvalidMagic = errors.New("metadata: invalid magic tag")
	// ErrUnsupportedVersion means the version byte is newer than this
	// build understands. No best-effort decode is attempted.
	ErrUnsupportedVersion = errors.New("metadata: unsupported record version")
	// ErrTruncated means a length prefix or fixed field runs past the
	// end of the buffer.
	ErrTruncated = errors.New("metadata: truncated record")
	// ErrMalformed means the bytes are structurally invalid: a length
	// prefix above its field bound, trailing garbage, or an unparseable
	// embedded value.
	ErrMalformed = errors.New("metadata: malformed record")

	// ErrFieldTooLong and ErrTooManyLinks are encode-time caller errors,
	// reported before any byte is written.
	ErrFieldTooLong = errors.New("metadata: field exceeds maximum length")
	ErrTooManyLinks = errors.New("metadata: too many links")
)
