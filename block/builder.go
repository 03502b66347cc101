package block

import (
	"github.com/iambrandonn/jac-sub001/column"
	"github.com/iambrandonn/jac-sub001/record"
)

// FlushReason explains why ShouldFlush wants the caller to flush, per §4.3.
type FlushReason int

const (
	FlushNone FlushReason = iota
	FlushFull
	FlushSegmentPressure
)

// Block is a finalized set of column plans ready for encoding. Once
// produced by Builder.Flush, it is immutable.
type Block struct {
	RecordCount int
	Columns     []column.Plan
}

// Builder accepts records, routes each field to its column, and decides
// when to flush. Grounded on blob/numeric_encoder.go's StartMetric/
// EndMetric lifecycle (fields created lazily on first observation) and
// internal/pool's growth-accounting idiom for the SegmentPressure check.
type Builder struct {
	cfg   Config
	n     int
	order []string
	cols  map[string]*column.Builder

	// segBytes accumulates the encoded size of blocks already flushed in
	// the current segment (§4.3's cumulative segment bytes S). The
	// early-flush trigger otherwise resolves to a per-block bound: each
	// block is independently sized against MaxSegmentBytes, and segBytes
	// is left at zero unless a caller opts in via AddSegmentBytes.
	segBytes int64

	seen map[string]bool // scratch, reused across Push calls
}

// NewBuilder returns an empty Builder for cfg.
func NewBuilder(cfg Config) *Builder {
	return &Builder{
		cfg:  cfg,
		cols: make(map[string]*column.Builder),
		seen: make(map[string]bool),
	}
}

// AddSegmentBytes lets a segment writer fold the size of already-flushed
// blocks into this builder's SegmentPressure accounting.
func (b *Builder) AddSegmentBytes(n int64) { b.segBytes += n }

// Push routes each of rec's fields to its column, back-filling absences for
// fields the record omits and for newly observed fields retroactively.
func (b *Builder) Push(rec *record.Record) {
	for k := range b.seen {
		delete(b.seen, k)
	}

	for i := 0; i < rec.Len(); i++ {
		name, v := rec.At(i)
		b.seen[name] = true

		col, ok := b.cols[name]
		if !ok {
			col = column.NewBuilder(name)
			for k := 0; k < b.n; k++ {
				col.AppendAbsent()
			}
			b.cols[name] = col
			b.order = append(b.order, name)
		}
		col.Append(v)
	}

	for _, name := range b.order {
		if !b.seen[name] {
			b.cols[name].AppendAbsent()
		}
	}

	b.n++
}

// Len returns the number of records pushed since the last flush.
func (b *Builder) Len() int { return b.n }

// ShouldFlush reports whether the caller should flush now, checked after
// every push per §4.3.
func (b *Builder) ShouldFlush() FlushReason {
	if b.n == 0 {
		return FlushNone
	}

	if b.n >= b.cfg.BlockRecords {
		return FlushFull
	}

	var total int64
	for _, c := range b.cols {
		total += int64(c.EstimateBytes())
	}

	if b.segBytes+total >= b.cfg.MaxSegmentBytes {
		return FlushSegmentPressure
	}

	return FlushNone
}

// Flush finalizes all columns into a Block and resets the builder for the
// next block. Returns nil if no records have been pushed.
func (b *Builder) Flush() *Block {
	if b.n == 0 {
		return nil
	}

	plans := make([]column.Plan, 0, len(b.order))
	for _, name := range b.order {
		plans = append(plans, b.cols[name].Finalize(b.cfg.DictMode))
	}

	blk := &Block{RecordCount: b.n, Columns: plans}

	b.n = 0
	b.order = nil
	b.cols = make(map[string]*column.Builder)

	return blk
}
