package segment

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/iambrandonn/jac-sub001/block"
	"github.com/iambrandonn/jac-sub001/errs"
	"github.com/iambrandonn/jac-sub001/record"
	"github.com/iambrandonn/jac-sub001/varint"
)

// Reader opens a segment for random-access block decoding over an
// io.ReaderAt, per §6's reader_open(source). It reads the header and the
// full footer up front (so BlockCount and offset lookups never touch the
// source again) but never reads a block's body until DecodeBlock or
// ProjectBlock asks for it, so opening is cheap regardless of segment size.
type Reader struct {
	src         io.ReaderAt
	size        int64
	entries     []indexEntry
	footerStart int64
}

// NewReader reads the header and footer of the segment at src (spanning
// size bytes) and returns a Reader ready to enumerate and decode its
// blocks. Magic/version mismatches (BadFormat) and footer truncation
// (FooterTruncated) are fatal; an individual block's corruption is only
// surfaced when that block is decoded.
func NewReader(src io.ReaderAt, size int64) (*Reader, error) {
	if size < 6+4+4 {
		return nil, fmt.Errorf("%w: segment too small", errs.ErrBadFormat)
	}

	var head [6]byte
	if _, err := src.ReadAt(head[:], 0); err != nil {
		return nil, err
	}
	if [4]byte(head[0:4]) != magicStart {
		return nil, fmt.Errorf("%w: bad magic", errs.ErrBadFormat)
	}
	version := binary.LittleEndian.Uint16(head[4:6])
	if version != formatVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", errs.ErrBadFormat, version)
	}

	var tail [8]byte
	if _, err := src.ReadAt(tail[:], size-8); err != nil {
		return nil, err
	}
	if [4]byte(tail[4:8]) != magicEnd {
		return nil, fmt.Errorf("%w: bad trailing magic", errs.ErrFooterTruncated)
	}

	footerLen := binary.LittleEndian.Uint32(tail[0:4])
	footerStart := size - 8 - int64(footerLen)
	if footerStart < 6 {
		return nil, fmt.Errorf("%w: footer length out of range", errs.ErrFooterTruncated)
	}

	footer := make([]byte, footerLen)
	if _, err := src.ReadAt(footer, footerStart); err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrFooterTruncated, err)
	}

	pos := 0
	count, n, err := varint.Uvarint(footer[pos:])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrFooterTruncated, err)
	}
	pos += n

	entries := make([]indexEntry, count)
	for i := range entries {
		if pos+8 > len(footer) {
			return nil, fmt.Errorf("%w: truncated block index", errs.ErrFooterTruncated)
		}
		offset := binary.LittleEndian.Uint64(footer[pos : pos+8])
		pos += 8

		recCount, n, err := varint.Uvarint(footer[pos:])
		if err != nil {
			return nil, fmt.Errorf("%w: %v", errs.ErrFooterTruncated, err)
		}
		pos += n

		entries[i] = indexEntry{offset: offset, recordCount: int(recCount)}
	}

	return &Reader{src: src, size: size, entries: entries, footerStart: footerStart}, nil
}

// BlockCount returns the number of blocks indexed by the footer.
func (r *Reader) BlockCount() int { return len(r.entries) }

// BlockRecordCount returns the record count the footer recorded for block i,
// without decoding the block body (useful for predicate pushdown planning).
func (r *Reader) BlockRecordCount(i int) (int, error) {
	if i < 0 || i >= len(r.entries) {
		return 0, errs.ErrBlockIndexOutOfRange
	}

	return r.entries[i].recordCount, nil
}

// blockBytes reads block i's encoded bytes in full: from its recorded
// offset to the next block's offset, or the start of the footer for the
// last block.
func (r *Reader) blockBytes(i int) ([]byte, error) {
	if i < 0 || i >= len(r.entries) {
		return nil, errs.ErrBlockIndexOutOfRange
	}

	start := int64(r.entries[i].offset)
	var end int64
	if i+1 < len(r.entries) {
		end = int64(r.entries[i+1].offset)
	} else {
		end = r.footerStart
	}

	if end > r.size || start > end {
		return nil, errs.ErrCorrupt
	}

	buf := make([]byte, end-start)
	if _, err := r.src.ReadAt(buf, start); err != nil {
		return nil, err
	}

	return buf, nil
}

// DecodeBlock fully decodes block i.
func (r *Reader) DecodeBlock(i int) ([]*record.Record, error) {
	b, err := r.blockBytes(i)
	if err != nil {
		return nil, err
	}

	recs, err := block.DecodeFull(b)
	if err != nil {
		return nil, fmt.Errorf("block %d at offset %d: %w", i, r.entries[i].offset, err)
	}

	return recs, nil
}

// ProjectBlock decodes only fields from block i.
func (r *Reader) ProjectBlock(i int, fields []string) ([]*record.Record, error) {
	b, err := r.blockBytes(i)
	if err != nil {
		return nil, err
	}

	recs, err := block.ProjectFields(b, fields)
	if err != nil {
		return nil, fmt.Errorf("block %d at offset %d: %w", i, r.entries[i].offset, err)
	}

	return recs, nil
}
