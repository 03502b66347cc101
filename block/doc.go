// Package block implements §4.3's record accumulator and §4.4/§4.5's
// on-wire block encoding and decoding: a flat header of per-column metadata
// followed by each column's tag stream and value payload, checksummed as a
// unit with CRC32C.
//
// Grounded on blob/numeric_blob.go's header-then-payloads layout and on
// section/numeric_index_entry.go's per-column metadata fields, adapted from
// per-metric sections to per-field columns.
package block
