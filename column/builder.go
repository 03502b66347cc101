package column

import (
	"bytes"
	"encoding/binary"
	"math"

	"github.com/iambrandonn/jac-sub001/bitpack"
	"github.com/iambrandonn/jac-sub001/dict"
	"github.com/iambrandonn/jac-sub001/internal/pool"
	"github.com/iambrandonn/jac-sub001/record"
	"github.com/iambrandonn/jac-sub001/varint"
)

// DictMode controls how a column chooses between dictionary and direct
// storage for Str/Bytes values (§6 config, dict_mode).
type DictMode uint8

const (
	DictAuto DictMode = iota
	DictAlways
	DictNever
)

// Storage plan byte values, matching the column_descriptor.storage_plan
// field in §4.4.
const (
	PlanDirect = 0
	PlanDict   = 1
	PlanInt    = 2
	PlanFloat  = 3
	PlanBool   = 4
)

// Tag stream encoding byte values, matching column_descriptor.tag_stream_encoding.
const (
	TagBitmap    = 0
	TagRLE       = 1
	TagBitPacked = 2
)

// TagBitPackWidth is the fixed width used for the bit-packed tag stream
// encoding: 3 bits covers the full 8-value kind space (Absent through
// Nested) without a per-column remapping table.
const TagBitPackWidth = 3

// Builder accumulates one field's values across a block.
type Builder struct {
	name string

	tags []byte // one record.Kind byte per record pushed so far, including this field's absences

	ints      []int64
	floats    []float64
	boolVals  []bool
	bytesVals [][]byte // backs Str, Bytes, and Nested values, in append order

	dict  *dict.Dictionary
	codes []int // dict code per Str/Bytes entry of bytesVals, in append order; Nested entries get no code

	nullCount int

	kindsSeen     [record.NumKinds]bool
	distinctCount int
	singleKind    record.Kind
}

// NewBuilder returns a Builder for field name.
func NewBuilder(name string) *Builder {
	return &Builder{name: name, dict: dict.New()}
}

// Name returns the field name this builder accumulates.
func (b *Builder) Name() string { return b.name }

// Len returns the number of tag-stream entries recorded so far (the number
// of records this column has been presented with, present or absent).
func (b *Builder) Len() int { return len(b.tags) }

func (b *Builder) observe(k record.Kind) {
	if !b.kindsSeen[k] {
		b.kindsSeen[k] = true
		b.distinctCount++
		if b.distinctCount == 1 {
			b.singleKind = k
		}
	}
}

// AppendAbsent records that this field was not present in the current record.
func (b *Builder) AppendAbsent() {
	b.tags = append(b.tags, byte(record.KindAbsent))
}

// Append records v for the current record.
func (b *Builder) Append(v record.Value) {
	b.tags = append(b.tags, byte(v.Kind))

	switch v.Kind {
	case record.KindNull:
		b.nullCount++
	case record.KindBool:
		b.boolVals = append(b.boolVals, v.Bool)
		b.observe(record.KindBool)
	case record.KindInt:
		b.ints = append(b.ints, v.Int)
		b.observe(record.KindInt)
	case record.KindFloat:
		b.floats = append(b.floats, v.Float)
		b.observe(record.KindFloat)
	case record.KindStr, record.KindBytes:
		b.bytesVals = append(b.bytesVals, v.Bytes)
		b.codes = append(b.codes, b.dict.Intern(v.Bytes))
		b.observe(v.Kind)
	case record.KindNested:
		b.bytesVals = append(b.bytesVals, v.Bytes)
		b.observe(record.KindNested)
	}
}

// EstimateBytes approximates this column's in-memory footprint, used to
// drive the block builder's SegmentPressure flush trigger.
func (b *Builder) EstimateBytes() int {
	n := len(b.tags)
	n += 8 * len(b.ints)
	n += 8 * len(b.floats)
	n += len(b.boolVals)
	for _, v := range b.bytesVals {
		n += len(v)
	}
	n += b.dict.EncodedSize()

	return n
}

// directSize returns R, the size the column's present Str/Bytes values
// would take if stored inline (length-prefixed) rather than dictionary-coded.
func (b *Builder) directSize() int {
	r := 0
	for _, v := range b.bytesVals {
		r += varint.Len(uint64(len(v))) + len(v)
	}

	return r
}

// renderDirect replays the tag stream and, for each present record,
// serializes the next value of its kind inline: 8-byte LE int/float,
// 1-byte bool, or varint-length-prefixed bytes for Str/Bytes/Nested. This
// is storage_plan 0's payload, and is used both for genuinely mixed-kind
// columns and as the non-dict fallback for homogeneous Str/Bytes columns.
func (b *Builder) renderDirect() []byte {
	// The working buffer comes from the shared column pool rather than a
	// fresh make(): renderDirect runs once per column per block, and the
	// pool amortizes the repeated grow-by-append churn across blocks. The
	// final payload is copied out before the scratch buffer goes back, so
	// the returned slice is fully owned by the caller.
	scratch := pool.GetColumnBuffer()
	defer pool.PutColumnBuffer(scratch)

	ii, fi, bi, xi := 0, 0, 0, 0

	var tmp [8]byte
	for _, t := range b.tags {
		switch record.Kind(t) {
		case record.KindInt:
			binary.LittleEndian.PutUint64(tmp[:], uint64(b.ints[ii]))
			scratch.MustWrite(tmp[:])
			ii++
		case record.KindFloat:
			binary.LittleEndian.PutUint64(tmp[:], math.Float64bits(b.floats[fi]))
			scratch.MustWrite(tmp[:])
			fi++
		case record.KindBool:
			if b.boolVals[bi] {
				scratch.MustWrite([]byte{1})
			} else {
				scratch.MustWrite([]byte{0})
			}
			bi++
		case record.KindStr, record.KindBytes, record.KindNested:
			v := b.bytesVals[xi]
			scratch.B = varint.AppendUvarint(scratch.B, uint64(len(v)))
			scratch.MustWrite(v)
			xi++
		}
	}

	out := make([]byte, scratch.Len())
	copy(out, scratch.Bytes())

	return out
}

func packBoolBitmap(vals []bool) []byte {
	w, _ := bitpack.NewWriter(1)
	for _, v := range vals {
		code := uint32(0)
		if v {
			code = 1
		}
		w.Write(1, code)
	}

	return w.Bytes()
}

// presentCount returns the number of records whose tag is neither Absent
// nor Null — the count of entries carrying raw-buffer payload.
func (b *Builder) presentCount() int {
	return len(b.ints) + len(b.floats) + len(b.boolVals) + len(b.bytesVals)
}

func distinctTagsInOrder(tags []byte) []byte {
	var seen [record.NumKinds]bool
	out := make([]byte, 0, record.NumKinds)
	for _, t := range tags {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}

	return out
}

func buildTagStream(tags []byte) (encoding byte, payload []byte) {
	distinct := distinctTagsInOrder(tags)

	if len(distinct) <= 2 {
		a := distinct[0]
		b := a
		if len(distinct) == 2 {
			b = distinct[1]
		}

		w, _ := bitpack.NewWriter(1)
		for _, t := range tags {
			code := uint32(0)
			if b != a && t == b {
				code = 1
			}
			w.Write(1, code)
		}

		out := make([]byte, 0, 2+len(tags)/8+1)
		out = append(out, a, b)
		out = append(out, w.Bytes()...)

		return TagBitmap, out
	}

	if bitpack.RunFraction(tags) >= 0.5 {
		return TagRLE, bitpack.EncodeRLE(tags)
	}

	w, _ := bitpack.NewWriter(TagBitPackWidth)
	for _, t := range tags {
		w.Write(TagBitPackWidth, uint32(t))
	}

	return TagBitPacked, w.Bytes()
}

// Stats holds a column's min/max/null-count footer values.
type Stats struct {
	MinBytes  []byte
	MaxBytes  []byte
	NullCount int
}

func (b *Builder) computeStats() Stats {
	s := Stats{NullCount: b.nullCount}

	if b.distinctCount != 1 {
		return s
	}

	switch b.singleKind {
	case record.KindInt:
		if len(b.ints) == 0 {
			return s
		}
		min, max := b.ints[0], b.ints[0]
		for _, v := range b.ints[1:] {
			if v < min {
				min = v
			}
			if v > max {
				max = v
			}
		}
		s.MinBytes, s.MaxBytes = encodeInt(min), encodeInt(max)
	case record.KindFloat:
		if len(b.floats) == 0 {
			return s
		}
		min, max := b.floats[0], b.floats[0]
		for _, v := range b.floats[1:] {
			if v < min {
				min = v
			}
			if v > max {
				max = v
			}
		}
		s.MinBytes, s.MaxBytes = encodeFloat(min), encodeFloat(max)
	case record.KindStr, record.KindBytes:
		if len(b.bytesVals) == 0 {
			return s
		}
		min, max := b.bytesVals[0], b.bytesVals[0]
		for _, v := range b.bytesVals[1:] {
			if bytes.Compare(v, min) < 0 {
				min = v
			}
			if bytes.Compare(v, max) > 0 {
				max = v
			}
		}
		s.MinBytes, s.MaxBytes = append([]byte(nil), min...), append([]byte(nil), max...)
	}

	return s
}

func encodeInt(v int64) []byte {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(v))
	return buf[:]
}

func encodeFloat(v float64) []byte {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
	return buf[:]
}

// Plan is the result of Finalize: everything the block encoder needs to
// serialize this column per §4.4's column_descriptor/payload layout.
type Plan struct {
	Name string

	TagStreamEncoding byte
	TagStreamBytes    []byte

	PresentCount int
	StoragePlan  byte
	DictLen      int
	CodeWidth    byte

	// RawPayload is the uncompressed bytes that go in the payload section
	// for this column (dict_bytes+code_bytes, or raw_bytes, depending on
	// StoragePlan); the block encoder decides whether to zstd-compress it.
	RawPayload []byte

	Stats Stats
}

// Finalize freezes the column's buffers and selects its wire storage plan.
func (b *Builder) Finalize(mode DictMode) Plan {
	tagEnc, tagBytes := buildTagStream(b.tags)
	present := b.presentCount()
	stats := b.computeStats()

	plan := Plan{
		Name:              b.name,
		TagStreamEncoding: tagEnc,
		TagStreamBytes:    tagBytes,
		PresentCount:      present,
		Stats:             stats,
	}

	switch {
	case b.distinctCount == 1 && b.singleKind == record.KindInt:
		plan.StoragePlan = PlanInt
		buf := make([]byte, 0, 8*len(b.ints))
		for _, v := range b.ints {
			buf = binary.LittleEndian.AppendUint64(buf, uint64(v))
		}
		plan.RawPayload = buf

	case b.distinctCount == 1 && b.singleKind == record.KindFloat:
		plan.StoragePlan = PlanFloat
		buf := make([]byte, 0, 8*len(b.floats))
		for _, v := range b.floats {
			buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(v))
		}
		plan.RawPayload = buf

	case b.distinctCount == 1 && b.singleKind == record.KindBool:
		plan.StoragePlan = PlanBool
		plan.RawPayload = packBoolBitmap(b.boolVals)

	case b.distinctCount == 1 && (b.singleKind == record.KindStr || b.singleKind == record.KindBytes):
		d := b.dict.EncodedSize()
		dictLen := b.dict.Len()
		codeWidth := bitpack.WidthFor(dictLen)
		codeEstimate := bitpack.PackedLen(codeWidth, len(b.codes))
		r := b.directSize()

		useDict := mode == DictAlways || (mode != DictNever && d+codeEstimate < r)
		if useDict {
			plan.StoragePlan = PlanDict
			plan.DictLen = dictLen
			plan.CodeWidth = byte(codeWidth)

			buf := b.dict.AppendEncoded(nil)
			if codeWidth > 0 {
				w, _ := bitpack.NewWriter(codeWidth)
				for _, c := range b.codes {
					w.Write(codeWidth, uint32(c))
				}
				buf = append(buf, w.Bytes()...)
			}
			plan.RawPayload = buf
		} else {
			plan.StoragePlan = PlanDirect
			plan.RawPayload = b.renderDirect()
		}

	default:
		plan.StoragePlan = PlanDirect
		plan.RawPayload = b.renderDirect()
	}

	return plan
}
