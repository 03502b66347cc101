package block

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iambrandonn/jac-sub001/record"
)

func rec(fields map[string]record.Value) *record.Record {
	r := record.New()
	for k, v := range fields {
		r.Set(k, v)
	}
	return r
}

func TestBuilderPushBackfillsAbsentForFieldsMissingFromRecord(t *testing.T) {
	cfg := DefaultConfig()
	b := NewBuilder(cfg)

	b.Push(rec(map[string]record.Value{"a": record.IntValue(1)}))
	b.Push(rec(map[string]record.Value{"b": record.IntValue(2)}))
	b.Push(rec(map[string]record.Value{"a": record.IntValue(3), "b": record.IntValue(4)}))

	blk := b.Flush()
	require.NotNil(t, blk)
	require.Equal(t, 3, blk.RecordCount)
	require.Len(t, blk.Columns, 2)

	byName := map[string]int{}
	for i, c := range blk.Columns {
		byName[c.Name] = i
	}
	assert.Equal(t, 2, blk.Columns[byName["a"]].PresentCount, "field a present in records 0 and 2")
	assert.Equal(t, 2, blk.Columns[byName["b"]].PresentCount, "field b present in records 1 and 2")
}

func TestBuilderColumnOrderIsFirstObservation(t *testing.T) {
	cfg := DefaultConfig()
	b := NewBuilder(cfg)

	b.Push(rec(map[string]record.Value{"z": record.IntValue(1)}))
	b.Push(rec(map[string]record.Value{"a": record.IntValue(2)}))

	blk := b.Flush()
	require.Len(t, blk.Columns, 2)
	assert.Equal(t, "z", blk.Columns[0].Name)
	assert.Equal(t, "a", blk.Columns[1].Name)
}

func TestShouldFlushFull(t *testing.T) {
	cfg, err := NewConfig(WithBlockRecords(2))
	require.NoError(t, err)
	b := NewBuilder(cfg)

	b.Push(rec(map[string]record.Value{"a": record.IntValue(1)}))
	assert.Equal(t, FlushNone, b.ShouldFlush())

	b.Push(rec(map[string]record.Value{"a": record.IntValue(2)}))
	assert.Equal(t, FlushFull, b.ShouldFlush())
}

func TestShouldFlushSegmentPressure(t *testing.T) {
	cfg, err := NewConfig(WithMaxSegmentBytes(16))
	require.NoError(t, err)
	b := NewBuilder(cfg)

	b.Push(rec(map[string]record.Value{"a": record.Str("a string long enough to exceed the cap")}))
	assert.Equal(t, FlushSegmentPressure, b.ShouldFlush())
}

func TestFlushResetsBuilder(t *testing.T) {
	cfg := DefaultConfig()
	b := NewBuilder(cfg)
	b.Push(rec(map[string]record.Value{"a": record.IntValue(1)}))

	blk := b.Flush()
	require.NotNil(t, blk)
	assert.Equal(t, 0, b.Len())

	assert.Nil(t, b.Flush(), "flushing an empty builder returns nil")
}

func TestFlushEmptyReturnsNil(t *testing.T) {
	b := NewBuilder(DefaultConfig())
	assert.Nil(t, b.Flush())
	assert.Equal(t, FlushNone, b.ShouldFlush())
}

func TestAddSegmentBytesFeedsPressureCheck(t *testing.T) {
	cfg, err := NewConfig(WithMaxSegmentBytes(100))
	require.NoError(t, err)
	b := NewBuilder(cfg)
	b.AddSegmentBytes(99)

	b.Push(rec(map[string]record.Value{"a": record.IntValue(1)}))
	assert.Equal(t, FlushSegmentPressure, b.ShouldFlush())
}
