package dict

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInternAssignsCodesInFirstEncounterOrder(t *testing.T) {
	d := New()

	assert.Equal(t, 0, d.Intern([]byte("a")))
	assert.Equal(t, 1, d.Intern([]byte("b")))
	assert.Equal(t, 0, d.Intern([]byte("a")), "repeated value must return its original code")
	assert.Equal(t, 2, d.Intern([]byte("c")))
	assert.Equal(t, 3, d.Len())
}

func TestInternDeterministicAcrossIdenticalInput(t *testing.T) {
	input := [][]byte{[]byte("x"), []byte("y"), []byte("x"), []byte("z"), []byte("y")}

	d1, d2 := New(), New()
	var codes1, codes2 []int
	for _, v := range input {
		codes1 = append(codes1, d1.Intern(v))
	}
	for _, v := range input {
		codes2 = append(codes2, d2.Intern(v))
	}

	assert.Equal(t, codes1, codes2)
}

func TestAtReturnsInternedValue(t *testing.T) {
	d := New()
	code := d.Intern([]byte("hello"))
	assert.Equal(t, []byte("hello"), d.At(code))
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	d := New()
	d.Intern([]byte("alpha"))
	d.Intern([]byte("beta"))
	d.Intern([]byte(""))

	encoded := d.AppendEncoded(nil)

	entries, consumed, err := Decode(encoded, d.Len())
	require.NoError(t, err)
	assert.Equal(t, len(encoded), consumed)
	require.Len(t, entries, 3)
	assert.Equal(t, []byte("alpha"), entries[0])
	assert.Equal(t, []byte("beta"), entries[1])
	assert.Equal(t, []byte(""), entries[2])
}

func TestDecodeTruncated(t *testing.T) {
	d := New()
	d.Intern([]byte("alpha"))
	encoded := d.AppendEncoded(nil)

	_, _, err := Decode(encoded[:len(encoded)-1], 1)
	require.Error(t, err)
}

func TestResetClearsState(t *testing.T) {
	d := New()
	d.Intern([]byte("a"))
	d.Intern([]byte("b"))

	d.Reset()

	assert.Equal(t, 0, d.Len())
	assert.Equal(t, 0, d.Intern([]byte("a")), "codes restart at zero after Reset")
}

func TestEncodedSizeGrowsWithEntries(t *testing.T) {
	d := New()
	before := d.EncodedSize()
	d.Intern([]byte("some value"))
	assert.Greater(t, d.EncodedSize(), before)
}
