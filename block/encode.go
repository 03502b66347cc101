// Package block implements §4.3-4.5: the per-block builder, its binary
// encoding, and the full/projected decoder.
//
// Grounded on blob/numeric_encoder.go's Finish() (sequential payload
// compression, offset bookkeeping, single assembled buffer) for encode, and
// on blob/numeric_decoder.go's Decode() (decompress before deriving
// lengths, validate as you go) for decode.
package block

import (
	"encoding/binary"
	"hash/crc32"

	"github.com/iambrandonn/jac-sub001/compress"
	"github.com/iambrandonn/jac-sub001/internal/pool"
	"github.com/iambrandonn/jac-sub001/varint"
)

// compressThreshold and compressGainNum/compressGainDen implement §4.4's compression
// selection rule: compress iff payload_len >= 256 and the compressed form
// is at least 3% smaller.
const (
	compressThreshold = 256
	compressGainNum   = 97
	compressGainDen   = 100
)

// castagnoliTable backs the CRC32C checksum §4.4 requires. No third-party
// CRC32C package appears anywhere in the example pack's dependency surface;
// the standard library's hash/crc32 already implements exactly this
// polynomial via crc32.Castagnoli, which is how reference Go codecs (e.g.
// pebble's sstable writer) compute the same checksum — see DESIGN.md.
var castagnoliTable = crc32.MakeTable(crc32.Castagnoli)

func maybeCompress(raw []byte, level int) (payload []byte, flag byte, uncompressedLen int) {
	if len(raw) < compressThreshold {
		return raw, 0, 0
	}

	codec := compress.Zstd{Level: level}
	compressed, err := codec.Compress(raw)
	if err != nil {
		return raw, 0, 0
	}

	if len(compressed)*compressGainDen <= len(raw)*compressGainNum {
		return compressed, 1, len(raw)
	}

	return raw, 0, 0
}

// Encode serializes blk per §4.4's BLOCK layout. The header and payloads
// sections are assembled in pooled scratch buffers (one per block, reused
// across the life of a process) exactly as the teacher's Finish() assembles
// a blob's sections before a single final copy; the returned slice is a
// freshly owned copy so the pooled buffers can be reused immediately.
func Encode(blk *Block, cfg Config) []byte {
	header := pool.GetColumnBuffer()
	defer pool.PutColumnBuffer(header)
	payloads := pool.GetBlockBuffer()
	defer pool.PutBlockBuffer(payloads)

	header.B = varint.AppendUvarint(header.B, uint64(blk.RecordCount))
	header.B = varint.AppendUvarint(header.B, uint64(len(blk.Columns)))

	for i := range blk.Columns {
		header.B = varint.AppendUvarint(header.B, uint64(len(blk.Columns[i].Name)))
		header.MustWrite([]byte(blk.Columns[i].Name))
	}

	for i := range blk.Columns {
		c := &blk.Columns[i]

		compressed, zstdFlag, uncompressedLen := maybeCompress(c.RawPayload, cfg.ZstdLevel)

		header.MustWrite([]byte{c.TagStreamEncoding})
		header.B = varint.AppendUvarint(header.B, uint64(len(c.TagStreamBytes)))
		header.B = varint.AppendUvarint(header.B, uint64(c.PresentCount))
		header.MustWrite([]byte{c.StoragePlan})
		header.B = varint.AppendUvarint(header.B, uint64(c.DictLen))
		header.MustWrite([]byte{c.CodeWidth})
		header.B = varint.AppendUvarint(header.B, uint64(len(compressed)))
		header.MustWrite([]byte{zstdFlag})
		if zstdFlag == 1 {
			header.B = varint.AppendUvarint(header.B, uint64(uncompressedLen))
		}
		header.B = varint.AppendUvarint(header.B, uint64(len(c.Stats.MinBytes)))
		header.MustWrite(c.Stats.MinBytes)
		header.B = varint.AppendUvarint(header.B, uint64(len(c.Stats.MaxBytes)))
		header.MustWrite(c.Stats.MaxBytes)
		header.B = varint.AppendUvarint(header.B, uint64(c.Stats.NullCount))

		payloads.MustWrite(c.TagStreamBytes)
		payloads.MustWrite(compressed)
	}

	body := make([]byte, 0, header.Len()+payloads.Len()+4)
	body = append(body, header.Bytes()...)
	body = append(body, payloads.Bytes()...)

	sum := crc32.Checksum(body, castagnoliTable)

	return binary.LittleEndian.AppendUint32(body, sum)
}
