package dict

import (
	"bytes"

	"github.com/iambrandonn/jac-sub001/internal/hash"
	"github.com/iambrandonn/jac-sub001/varint"
)

type entry struct {
	value []byte
	code  int
}

// Dictionary interns byte sequences into codes, assigned in first-encounter
// order so that identical input always produces identical codes (§3
// determinism invariant).
type Dictionary struct {
	byHash map[uint64][]entry
	order  [][]byte
	nbytes int // D: cumulative length-prefixed size of the dictionary entries
}

// New returns an empty Dictionary.
func New() *Dictionary {
	return &Dictionary{byHash: make(map[uint64][]entry)}
}

// Intern returns the code for value, inserting it at the next code if it
// has not been seen before.
func (d *Dictionary) Intern(value []byte) int {
	h := hash.IDBytes(value)
	for _, e := range d.byHash[h] {
		if bytes.Equal(e.value, value) {
			return e.code
		}
	}

	code := len(d.order)
	owned := append([]byte(nil), value...)
	d.byHash[h] = append(d.byHash[h], entry{value: owned, code: code})
	d.order = append(d.order, owned)
	d.nbytes += varint.Len(uint64(len(owned))) + len(owned)

	return code
}

// Len returns the number of distinct entries interned.
func (d *Dictionary) Len() int { return len(d.order) }

// At returns the value stored at code.
func (d *Dictionary) At(code int) []byte { return d.order[code] }

// EncodedSize returns D, the dictionary's estimated on-disk size if it were
// serialized as length-prefixed entries.
func (d *Dictionary) EncodedSize() int { return d.nbytes }

// AppendEncoded appends the dictionary's entries, each as a varint length
// followed by its bytes, in insertion order, matching dict_bytes in §4.4.
func (d *Dictionary) AppendEncoded(buf []byte) []byte {
	for _, v := range d.order {
		buf = varint.AppendUvarint(buf, uint64(len(v)))
		buf = append(buf, v...)
	}

	return buf
}

// Reset clears the dictionary for reuse, preserving backing capacity.
func (d *Dictionary) Reset() {
	for k := range d.byHash {
		delete(d.byHash, k)
	}
	d.order = d.order[:0]
	d.nbytes = 0
}
