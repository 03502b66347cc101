// Package compress provides the pluggable compression codecs used when a
// block encoder decides a column's payload is worth compressing.
//
// The wire format's zstd_flag is a strict boolean (raw or zstd), so JAC only
// ever registers the None and Zstd codecs; the Codec/Compressor/Decompressor
// split mirrors the interface shape the teacher uses for its own multi-codec
// support, kept here for the same reason it was useful there: decoding needs
// only Decompressor, encoding only needs Compressor, and most implementations
// can satisfy both cheaply.
package compress
