// Package segment implements §4.6: the container that concatenates blocks
// behind a magic/version header and a footer indexing each block's offset
// and record count, so a reader can enumerate and random-access blocks
// without decoding the ones it doesn't need.
//
// Grounded on blob/numeric_blob_set.go's multi-blob sequencing (a header,
// a run of independently-decodable payloads, then an index trailer) and on
// section/numeric_index_entry.go's compact on-disk / richer in-memory
// index-entry split, here adapted from per-metric entries to per-block
// entries.
package segment
