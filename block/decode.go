package block

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"math"
	"unicode/utf8"

	"github.com/iambrandonn/jac-sub001/bitpack"
	"github.com/iambrandonn/jac-sub001/column"
	"github.com/iambrandonn/jac-sub001/compress"
	"github.com/iambrandonn/jac-sub001/dict"
	"github.com/iambrandonn/jac-sub001/errs"
	"github.com/iambrandonn/jac-sub001/internal/pool"
	"github.com/iambrandonn/jac-sub001/record"
	"github.com/iambrandonn/jac-sub001/varint"
)

type columnHeader struct {
	Name string

	TagStreamEncoding byte
	TagStreamLen      int
	PresentCount      int
	StoragePlan       byte
	DictLen           int
	CodeWidth         byte
	PayloadLen        int
	ZstdFlag          byte
	UncompressedLen   int
	MinBytes          []byte
	MaxBytes          []byte
	NullCount         int
}

// Header is a parsed block header: record count and per-column metadata,
// enough to locate (but not yet materialize) every column's bytes.
type Header struct {
	RecordCount int
	Columns     []columnHeader
	bodyEnd     int // byte offset where the checksum trailer starts
	headerLen   int // byte offset where the payloads section begins
}

// ParseHeader validates the checksum and parses the header section of an
// encoded block, per §4.4/§4.5.
func ParseHeader(data []byte) (*Header, error) {
	if len(data) < 4 {
		return nil, errs.ErrCorrupt
	}

	bodyEnd := len(data) - 4
	want := binary.LittleEndian.Uint32(data[bodyEnd:])
	got := crc32.Checksum(data[:bodyEnd], castagnoliTable)
	if want != got {
		return nil, fmt.Errorf("%w: %w", errs.ErrCorrupt, errs.ErrChecksumMismatch)
	}

	c := &cursor{data: data[:bodyEnd]}

	recordCount, err := c.uvarint()
	if err != nil {
		return nil, err
	}

	fieldCount, err := c.uvarint()
	if err != nil {
		return nil, err
	}

	names := make([]string, fieldCount)
	for i := range names {
		nameLen, err := c.uvarint()
		if err != nil {
			return nil, err
		}
		nameBytes, err := c.take(int(nameLen))
		if err != nil {
			return nil, err
		}
		if !utf8.Valid(nameBytes) {
			return nil, errs.ErrInvalidUTF8
		}
		names[i] = string(nameBytes)
	}

	cols := make([]columnHeader, fieldCount)
	for i := range cols {
		ch := columnHeader{Name: names[i]}

		ch.TagStreamEncoding, err = c.u8()
		if err != nil {
			return nil, err
		}
		v, err := c.uvarint()
		if err != nil {
			return nil, err
		}
		ch.TagStreamLen = int(v)

		v, err = c.uvarint()
		if err != nil {
			return nil, err
		}
		ch.PresentCount = int(v)

		ch.StoragePlan, err = c.u8()
		if err != nil {
			return nil, err
		}

		v, err = c.uvarint()
		if err != nil {
			return nil, err
		}
		ch.DictLen = int(v)

		ch.CodeWidth, err = c.u8()
		if err != nil {
			return nil, err
		}

		v, err = c.uvarint()
		if err != nil {
			return nil, err
		}
		ch.PayloadLen = int(v)

		ch.ZstdFlag, err = c.u8()
		if err != nil {
			return nil, err
		}

		if ch.ZstdFlag == 1 {
			v, err = c.uvarint()
			if err != nil {
				return nil, err
			}
			ch.UncompressedLen = int(v)
		}

		minLen, err := c.uvarint()
		if err != nil {
			return nil, err
		}
		ch.MinBytes, err = c.take(int(minLen))
		if err != nil {
			return nil, err
		}

		maxLen, err := c.uvarint()
		if err != nil {
			return nil, err
		}
		ch.MaxBytes, err = c.take(int(maxLen))
		if err != nil {
			return nil, err
		}

		v, err = c.uvarint()
		if err != nil {
			return nil, err
		}
		ch.NullCount = int(v)

		cols[i] = ch
	}

	return &Header{RecordCount: int(recordCount), Columns: cols, bodyEnd: bodyEnd, headerLen: c.pos}, nil
}

func decodeTagStream(encoding byte, data []byte, n int) ([]byte, error) {
	switch encoding {
	case column.TagBitmap:
		if len(data) < 2 {
			return nil, errs.ErrCorrupt
		}
		a, b := data[0], data[1]
		r := bitpack.NewReader(data[2:])
		out := make([]byte, n)
		for i := 0; i < n; i++ {
			code, err := r.Read(1, 2)
			if err != nil {
				return nil, err
			}
			if code == 1 {
				out[i] = b
			} else {
				out[i] = a
			}
		}

		return out, nil

	case column.TagRLE:
		out, err := bitpack.DecodeRLE(data, n)
		if err != nil {
			return nil, err
		}
		if len(out) != n {
			return nil, errs.ErrCorrupt
		}

		return out, nil

	case column.TagBitPacked:
		r := bitpack.NewReader(data)
		out := make([]byte, n)
		for i := 0; i < n; i++ {
			code, err := r.Read(column.TagBitPackWidth, uint32(record.NumKinds))
			if err != nil {
				return nil, err
			}
			out[i] = byte(code)
		}

		return out, nil

	default:
		return nil, errs.ErrCorrupt
	}
}

// decodeColumnValues materializes a column's values, one per tag-stream
// entry, given its fully decompressed payload. vals[i].Kind always equals
// tags[i]; Absent and Null carry no additional payload.
func decodeColumnValues(ch *columnHeader, tags []byte, payload []byte) ([]record.Value, error) {
	n := len(tags)
	vals := make([]record.Value, n)

	switch ch.StoragePlan {
	case column.PlanInt:
		count := ch.PresentCount
		if count*8 > len(payload) {
			return nil, errs.ErrCorrupt
		}
		ints, cleanup := pool.GetInt64Slice(count)
		defer cleanup()
		for i := 0; i < count; i++ {
			ints[i] = int64(binary.LittleEndian.Uint64(payload[i*8 : i*8+8]))
		}

		idx := 0
		for i, t := range tags {
			vals[i].Kind = record.Kind(t)
			if record.Kind(t) != record.KindInt {
				continue
			}
			vals[i].Int = ints[idx]
			idx++
		}

	case column.PlanFloat:
		count := ch.PresentCount
		if count*8 > len(payload) {
			return nil, errs.ErrCorrupt
		}
		floats, cleanup := pool.GetFloat64Slice(count)
		defer cleanup()
		for i := 0; i < count; i++ {
			floats[i] = math.Float64frombits(binary.LittleEndian.Uint64(payload[i*8 : i*8+8]))
		}

		idx := 0
		for i, t := range tags {
			vals[i].Kind = record.Kind(t)
			if record.Kind(t) != record.KindFloat {
				continue
			}
			vals[i].Float = floats[idx]
			idx++
		}

	case column.PlanBool:
		r := bitpack.NewReader(payload)
		for i, t := range tags {
			vals[i].Kind = record.Kind(t)
			if record.Kind(t) != record.KindBool {
				continue
			}
			code, err := r.Read(1, 2)
			if err != nil {
				return nil, err
			}
			vals[i].Bool = code == 1
		}

	case column.PlanDict:
		entries, consumed, err := dict.Decode(payload, ch.DictLen)
		if err != nil {
			return nil, err
		}
		r := bitpack.NewReader(payload[consumed:])
		for i, t := range tags {
			vals[i].Kind = record.Kind(t)
			k := record.Kind(t)
			if k != record.KindStr && k != record.KindBytes {
				continue
			}
			code := uint32(0)
			if ch.CodeWidth > 0 {
				code, err = r.Read(int(ch.CodeWidth), uint32(ch.DictLen))
				if err != nil {
					return nil, err
				}
			}
			if int(code) >= len(entries) {
				return nil, errs.ErrCorrupt
			}
			vals[i].Bytes = entries[code]
		}

	case column.PlanDirect:
		pos := 0
		for i, t := range tags {
			k := record.Kind(t)
			vals[i].Kind = k
			switch k {
			case record.KindInt:
				if pos+8 > len(payload) {
					return nil, errs.ErrCorrupt
				}
				vals[i].Int = int64(binary.LittleEndian.Uint64(payload[pos : pos+8]))
				pos += 8
			case record.KindFloat:
				if pos+8 > len(payload) {
					return nil, errs.ErrCorrupt
				}
				vals[i].Float = math.Float64frombits(binary.LittleEndian.Uint64(payload[pos : pos+8]))
				pos += 8
			case record.KindBool:
				if pos+1 > len(payload) {
					return nil, errs.ErrCorrupt
				}
				vals[i].Bool = payload[pos] != 0
				pos++
			case record.KindStr, record.KindBytes, record.KindNested:
				ln, n, err := varint.Uvarint(payload[pos:])
				if err != nil {
					return nil, err
				}
				pos += n
				if pos+int(ln) > len(payload) {
					return nil, errs.ErrCorrupt
				}
				vals[i].Bytes = payload[pos : pos+int(ln)]
				pos += int(ln)
			}
		}

	default:
		return nil, errs.ErrCorrupt
	}

	return vals, nil
}

func decompressPayload(ch *columnHeader, raw []byte) ([]byte, error) {
	if ch.ZstdFlag == 0 {
		return raw, nil
	}

	codec, err := compress.Get(compress.KindZstd)
	if err != nil {
		return nil, err
	}

	return codec.Decompress(raw, ch.UncompressedLen)
}

// DecodeFull parses every column and returns one Record per row, in
// canonical field order, per §4.5's full-decode path.
func DecodeFull(data []byte) ([]*record.Record, error) {
	return decode(data, nil)
}

// ProjectFields parses only the requested columns, skipping both the tag
// stream and payload bytes of every other column without decompressing
// them (§4.5's projection path). A non-requested column's tag stream is
// redundant for producing the projection's output, so it is skipped right
// alongside its payload rather than parsed and discarded.
func ProjectFields(data []byte, fields []string) ([]*record.Record, error) {
	want := make(map[string]bool, len(fields))
	for _, f := range fields {
		want[f] = true
	}

	return decode(data, want)
}

// decode reports every validation failure as ErrCorrupt, keeping the
// specific cause (checksum, out-of-range code, truncation, UTF-8) wrapped
// alongside it.
func decode(data []byte, want map[string]bool) (_ []*record.Record, err error) {
	defer func() {
		if err != nil && !errors.Is(err, errs.ErrCorrupt) {
			err = fmt.Errorf("%w: %w", errs.ErrCorrupt, err)
		}
	}()

	h, err := ParseHeader(data)
	if err != nil {
		return nil, err
	}

	payloads := data[:h.bodyEnd]
	pos := h.headerLen

	records := make([]*record.Record, h.RecordCount)
	for i := range records {
		records[i] = record.New()
	}

	for ci := range h.Columns {
		ch := &h.Columns[ci]

		if pos+ch.TagStreamLen+ch.PayloadLen > len(payloads) {
			return nil, errs.ErrCorrupt
		}

		requested := want == nil || want[ch.Name]
		if !requested {
			pos += ch.TagStreamLen + ch.PayloadLen
			continue
		}

		tagBytes := payloads[pos : pos+ch.TagStreamLen]
		pos += ch.TagStreamLen

		rawPayload := payloads[pos : pos+ch.PayloadLen]
		pos += ch.PayloadLen

		tags, err := decodeTagStream(ch.TagStreamEncoding, tagBytes, h.RecordCount)
		if err != nil {
			return nil, err
		}
		if len(tags) != h.RecordCount {
			return nil, errs.ErrCorrupt
		}

		payload, err := decompressPayload(ch, rawPayload)
		if err != nil {
			return nil, err
		}

		vals, err := decodeColumnValues(ch, tags, payload)
		if err != nil {
			return nil, err
		}

		for i, v := range vals {
			switch v.Kind {
			case record.KindAbsent:
				// leave absent
			case record.KindNull:
				records[i].Set(ch.Name, record.Null())
			default:
				if (v.Kind == record.KindStr) && v.Bytes != nil && !utf8.Valid(v.Bytes) {
					return nil, errs.ErrInvalidUTF8
				}
				records[i].Set(ch.Name, v)
			}
		}
	}

	return records, nil
}
