package segment

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/iambrandonn/jac-sub001/block"
	"github.com/iambrandonn/jac-sub001/errs"
	"github.com/iambrandonn/jac-sub001/varint"
)

var (
	magicStart = [4]byte{'J', 'A', 'C', '1'}
	magicEnd   = [4]byte{'1', 'C', 'A', 'J'}
)

const formatVersion = uint16(1)

// maxBlockBytes is the absolute ceiling on an encoded block's size; the
// writer refuses to append anything larger, per §4.6.
const maxBlockBytes = 64 * 1024 * 1024

// Config holds the segment-level knobs that feed into each block's
// encoding.
type Config struct {
	Block block.Config
}

// DefaultConfig returns a Config wrapping block.DefaultConfig.
func DefaultConfig() Config {
	return Config{Block: block.DefaultConfig()}
}

type indexEntry struct {
	offset      uint64
	recordCount int
}

// Writer serializes a sequence of blocks to sink, tracking their offsets
// for the footer written by Finalize.
type Writer struct {
	sink    io.Writer
	cfg     Config
	offset  uint64
	entries []indexEntry
	done    bool
}

// NewWriter writes the MAGIC/VERSION header to sink and returns a Writer
// ready to accept blocks.
func NewWriter(sink io.Writer, cfg Config) (*Writer, error) {
	header := make([]byte, 0, 6)
	header = append(header, magicStart[:]...)
	header = binary.LittleEndian.AppendUint16(header, formatVersion)

	n, err := sink.Write(header)
	if err != nil {
		return nil, err
	}

	return &Writer{sink: sink, cfg: cfg, offset: uint64(n)}, nil
}

// WriteBlock encodes blk and appends it to the segment, failing fatally on
// an I/O error or if the encoded block exceeds the 64 MiB absolute maximum.
func (w *Writer) WriteBlock(blk *block.Block) error {
	if w.done {
		return fmt.Errorf("%w: write after finalize", errs.ErrBadFormat)
	}

	encoded := block.Encode(blk, w.cfg.Block)
	if len(encoded) > maxBlockBytes {
		return fmt.Errorf("%w: %d bytes", errs.ErrBlockTooLarge, len(encoded))
	}

	n, err := w.sink.Write(encoded)
	if err != nil {
		return err
	}

	w.entries = append(w.entries, indexEntry{offset: w.offset, recordCount: blk.RecordCount})
	w.offset += uint64(n)

	return nil
}

// Finalize writes the footer (block index, footer length, trailing magic)
// and marks the writer closed.
func (w *Writer) Finalize() error {
	if w.done {
		return nil
	}
	w.done = true

	footer := make([]byte, 0, 16*len(w.entries)+16)
	footer = varint.AppendUvarint(footer, uint64(len(w.entries)))
	for _, e := range w.entries {
		footer = binary.LittleEndian.AppendUint64(footer, e.offset)
		footer = varint.AppendUvarint(footer, uint64(e.recordCount))
	}

	footerLen := uint32(len(footer))
	footer = binary.LittleEndian.AppendUint32(footer, footerLen)
	footer = append(footer, magicEnd[:]...)

	_, err := w.sink.Write(footer)
	return err
}
