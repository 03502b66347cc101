package dict

import (
	"github.com/iambrandonn/jac-sub001/errs"
	"github.com/iambrandonn/jac-sub001/varint"
)

// Decode parses dictLen length-prefixed entries from the start of data,
// returning the entries and the number of bytes consumed.
func Decode(data []byte, dictLen int) ([][]byte, int, error) {
	entries := make([][]byte, 0, dictLen)
	pos := 0
	for i := 0; i < dictLen; i++ {
		n, read, err := varint.Uvarint(data[pos:])
		if err != nil {
			return nil, 0, err
		}
		pos += read

		if pos+int(n) > len(data) {
			return nil, 0, errs.ErrCorrupt
		}
		entries = append(entries, data[pos:pos+int(n)])
		pos += int(n)
	}

	return entries, pos, nil
}
