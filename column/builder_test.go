package column

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iambrandonn/jac-sub001/record"
)

func TestAppendAbsentTracksTagOnly(t *testing.T) {
	b := NewBuilder("f")
	b.AppendAbsent()
	b.Append(record.IntValue(1))
	b.AppendAbsent()

	assert.Equal(t, 3, b.Len())

	plan := b.Finalize(DictAuto)
	assert.Equal(t, 1, plan.PresentCount)
}

func TestFinalizeHomogeneousInt(t *testing.T) {
	b := NewBuilder("n")
	for _, v := range []int64{1, 2, 3} {
		b.Append(record.IntValue(v))
	}

	plan := b.Finalize(DictAuto)
	assert.Equal(t, byte(PlanInt), plan.StoragePlan)
	assert.Equal(t, 3, plan.PresentCount)
	assert.Len(t, plan.RawPayload, 24)
}

func TestFinalizeHomogeneousFloat(t *testing.T) {
	b := NewBuilder("f")
	b.Append(record.FloatValue(1.5))
	b.Append(record.FloatValue(2.5))

	plan := b.Finalize(DictAuto)
	assert.Equal(t, byte(PlanFloat), plan.StoragePlan)
	assert.Len(t, plan.RawPayload, 16)
}

func TestFinalizeHomogeneousBool(t *testing.T) {
	b := NewBuilder("b")
	b.Append(record.BoolValue(true))
	b.Append(record.BoolValue(false))
	b.Append(record.BoolValue(true))

	plan := b.Finalize(DictAuto)
	assert.Equal(t, byte(PlanBool), plan.StoragePlan)
}

func TestFinalizeMixedKindsUsesDirect(t *testing.T) {
	b := NewBuilder("v")
	b.Append(record.IntValue(1))
	b.Append(record.Str("str"))
	b.Append(record.Null())
	b.Append(record.FloatValue(3.14))

	plan := b.Finalize(DictAuto)
	assert.Equal(t, byte(PlanDirect), plan.StoragePlan)
	assert.Equal(t, 3, plan.PresentCount, "null does not count as present")
}

func TestFinalizeStringDictEffective(t *testing.T) {
	b := NewBuilder("level")
	levels := []string{"INFO", "WARN", "ERROR"}
	for i := 0; i < 1000; i++ {
		b.Append(record.Str(levels[i%3]))
	}

	plan := b.Finalize(DictAuto)
	assert.Equal(t, byte(PlanDict), plan.StoragePlan)
	assert.Equal(t, 3, plan.DictLen)
}

func TestFinalizeStringDictModeNever(t *testing.T) {
	b := NewBuilder("level")
	for i := 0; i < 100; i++ {
		b.Append(record.Str("INFO"))
	}

	plan := b.Finalize(DictNever)
	assert.Equal(t, byte(PlanDirect), plan.StoragePlan)
}

func TestFinalizeStringDictModeAlways(t *testing.T) {
	b := NewBuilder("unique")
	// High cardinality, unique strings: dict would normally lose to direct,
	// but DictAlways must force it anyway.
	for i := 0; i < 10; i++ {
		b.Append(record.Str(randomishString(i)))
	}

	plan := b.Finalize(DictAlways)
	assert.Equal(t, byte(PlanDict), plan.StoragePlan)
	assert.Equal(t, 10, plan.DictLen)
}

func randomishString(i int) string {
	out := make([]byte, 40)
	for j := range out {
		out[j] = byte('a' + (i*31+j)%26)
	}
	return string(out)
}

func TestTagStreamBitmapForLowCardinality(t *testing.T) {
	b := NewBuilder("v")
	b.Append(record.IntValue(1))
	b.AppendAbsent()
	b.Append(record.IntValue(2))

	plan := b.Finalize(DictAuto)
	assert.Equal(t, byte(TagBitmap), plan.TagStreamEncoding)
}

func TestTagStreamRLEForRuns(t *testing.T) {
	b := NewBuilder("v")
	for i := 0; i < 20; i++ {
		b.Append(record.IntValue(1))
	}
	for i := 0; i < 20; i++ {
		b.Append(record.FloatValue(1))
	}
	for i := 0; i < 20; i++ {
		b.Append(record.Str("s"))
	}

	plan := b.Finalize(DictAuto)
	assert.Equal(t, byte(TagRLE), plan.TagStreamEncoding)
}

func TestTagStreamBitPackedForScatteredKinds(t *testing.T) {
	b := NewBuilder("v")
	kinds := []record.Value{
		record.IntValue(1), record.FloatValue(1), record.Str("s"), record.BoolValue(true),
	}
	for i := 0; i < 40; i++ {
		b.Append(kinds[i%len(kinds)])
	}

	plan := b.Finalize(DictAuto)
	assert.Equal(t, byte(TagBitPacked), plan.TagStreamEncoding)
}

func TestStatsMinMaxNullCount(t *testing.T) {
	b := NewBuilder("n")
	b.Append(record.IntValue(5))
	b.Append(record.Null())
	b.Append(record.IntValue(-3))
	b.Append(record.IntValue(10))

	plan := b.Finalize(DictAuto)
	require.Len(t, plan.Stats.MinBytes, 8)
	require.Len(t, plan.Stats.MaxBytes, 8)
	assert.Equal(t, 1, plan.Stats.NullCount)
}

func TestEstimateBytesGrowsWithAppends(t *testing.T) {
	b := NewBuilder("v")
	before := b.EstimateBytes()
	b.Append(record.Str("a reasonably long string value"))
	assert.Greater(t, b.EstimateBytes(), before)
}

func TestNameAndLen(t *testing.T) {
	b := NewBuilder("field1")
	assert.Equal(t, "field1", b.Name())
	assert.Equal(t, 0, b.Len())
	b.Append(record.IntValue(1))
	assert.Equal(t, 1, b.Len())
}
