// Package column implements the per-field accumulator described in §4.2:
// it appends typed values (or explicit absences) into kind-homogeneous raw
// buffers plus a type-tag stream, and at finalize time picks the storage
// representation that will go on the wire.
//
// Grounded on blob/numeric_encoder.go's per-field encoderState bookkeeping
// (lazily created on first observation, finalized as a unit). The int64/
// float64 raw buffers are plain slices; the only pooled buffer is
// renderDirect's scratch buffer from internal/pool's column byte-buffer pool.
package column
