package block

import (
	"github.com/iambrandonn/jac-sub001/errs"
	"github.com/iambrandonn/jac-sub001/varint"
)

// cursor is a small sequential reader over a block's bytes, used while
// parsing the header and while walking the payloads section.
type cursor struct {
	data []byte
	pos  int
}

func (c *cursor) u8() (byte, error) {
	if c.pos >= len(c.data) {
		return 0, errs.ErrTruncated
	}
	b := c.data[c.pos]
	c.pos++

	return b, nil
}

func (c *cursor) uvarint() (uint64, error) {
	v, n, err := varint.Uvarint(c.data[c.pos:])
	if err != nil {
		return 0, err
	}
	c.pos += n

	return v, nil
}

func (c *cursor) take(n int) ([]byte, error) {
	if n < 0 || c.pos+n > len(c.data) {
		return nil, errs.ErrCorrupt
	}
	b := c.data[c.pos : c.pos+n]
	c.pos += n

	return b, nil
}
