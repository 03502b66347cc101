package bitpack

import "github.com/iambrandonn/jac-sub001/varint"

// EncodeRLE writes values as alternating (run_length varint, value varint)
// pairs, used for tag streams where runs dominate.
func EncodeRLE(values []byte) []byte {
	out := make([]byte, 0, len(values)/2+2)
	i := 0
	for i < len(values) {
		j := i + 1
		for j < len(values) && values[j] == values[i] {
			j++
		}
		out = varint.AppendUvarint(out, uint64(j-i))
		out = varint.AppendUvarint(out, uint64(values[i]))
		i = j
	}

	return out
}

// DecodeRLE expands an RLE stream back into count byte values.
func DecodeRLE(data []byte, count int) ([]byte, error) {
	out := make([]byte, 0, count)
	pos := 0
	for len(out) < count {
		run, n, err := varint.Uvarint(data[pos:])
		if err != nil {
			return nil, err
		}
		pos += n

		val, n, err := varint.Uvarint(data[pos:])
		if err != nil {
			return nil, err
		}
		pos += n

		for k := uint64(0); k < run; k++ {
			out = append(out, byte(val))
		}
	}

	return out, nil
}

// RunFraction reports the fraction of positions in values that belong to a
// run of length >= 2, used by the tag-stream encoding selector.
func RunFraction(values []byte) float64 {
	if len(values) == 0 {
		return 0
	}

	runned := 0
	i := 0
	for i < len(values) {
		j := i + 1
		for j < len(values) && values[j] == values[i] {
			j++
		}
		if j-i >= 2 {
			runned += j - i
		}
		i = j
	}

	return float64(runned) / float64(len(values))
}
