// Package errs defines the sentinel errors returned across the jac module.
//
// Call sites wrap these with context using fmt.Errorf("%w: ...", errs.ErrX, ...)
// so callers can still match on the sentinel with errors.Is while getting a
// specific, actionable message.
package errs

import "errors"

// Primitive codec errors (varint, zigzag, bit-packing).
var (
	// ErrTruncated is returned when a varint-encoded stream ends before a
	// complete value could be read.
	ErrTruncated = errors.New("jac: truncated varint")
	// ErrOverflow is returned when a varint carries the continuation bit
	// past its maximum encodable width.
	ErrOverflow = errors.New("jac: varint overflow")
	// ErrBitWidth is returned when a requested bit-pack width is outside [1,32].
	ErrBitWidth = errors.New("jac: invalid bit-pack width")
	// ErrCodeOutOfRange is returned when a bit-packed or dictionary code
	// exceeds the range its width/length permits.
	ErrCodeOutOfRange = errors.New("jac: code out of range")
)

// Column/block builder errors.
var (
	// ErrOutOfMemory is returned when a builder cannot grow a buffer to
	// accommodate a new value.
	ErrOutOfMemory = errors.New("jac: out of memory")
	// ErrInvalidConfig is returned when a builder or writer is constructed
	// with a nonsensical configuration.
	ErrInvalidConfig = errors.New("jac: invalid config")
	// ErrRecordTooLarge is returned when a single record exceeds the
	// configured maximum segment size on its own.
	ErrRecordTooLarge = errors.New("jac: record exceeds max segment size")
	// ErrFieldCountExceeded is returned when a record introduces more
	// distinct fields than a block can address.
	ErrFieldCountExceeded = errors.New("jac: field count exceeded")
)

// Block/segment decode errors.
var (
	// ErrBadFormat is returned when a segment's magic number or version
	// does not match what this reader understands. Fatal for the segment.
	ErrBadFormat = errors.New("jac: bad format")
	// ErrCorrupt is returned when a block fails validation (checksum
	// mismatch, inconsistent tag-stream count, out-of-range code, and
	// similar). Fatal only for the offending block.
	ErrCorrupt = errors.New("jac: corrupt block")
	// ErrChecksumMismatch is returned when a block's CRC32C does not match
	// its header+payload bytes.
	ErrChecksumMismatch = errors.New("jac: checksum mismatch")
	// ErrFooterTruncated is returned when a segment's footer cannot be
	// fully read from the tail of the source.
	ErrFooterTruncated = errors.New("jac: footer truncated")
	// ErrBlockTooLarge is returned when a block exceeds the writer's
	// absolute maximum block size.
	ErrBlockTooLarge = errors.New("jac: block exceeds maximum size")
	// ErrBlockIndexOutOfRange is returned when a caller requests a block
	// index the segment does not contain.
	ErrBlockIndexOutOfRange = errors.New("jac: block index out of range")
	// ErrInvalidUTF8 is returned when a field name or string value fails
	// UTF-8 validation during decode.
	ErrInvalidUTF8 = errors.New("jac: invalid UTF-8")
)

// UnknownField is deliberately not an error per the external interface: a
// projection referencing a field absent from a block yields an empty column
// for that field, not a failure. It exists as a distinct var only so callers
// that want to special-case "field never appeared" can opt in with
// errors.Is; no internal code returns it as a function error today.
var ErrUnknownField = errors.New("jac: unknown field")
