package compress

import "fmt"

// Compressor compresses a column's raw payload before it is written to a block.
type Compressor interface {
	Compress(data []byte) ([]byte, error)
}

// Decompressor restores a column's payload from its on-disk form.
type Decompressor interface {
	Decompress(data []byte, uncompressedLen int) ([]byte, error)
}

// Codec combines compression and decompression.
type Codec interface {
	Compressor
	Decompressor
}

// Kind identifies which codec produced a payload. It is distinct from the
// single-bit zstd_flag stored on the wire: internally JAC only ever writes
// KindNone or KindZstd, but the enum leaves room to recognize other values
// defensively during decode.
type Kind uint8

const (
	KindNone Kind = 0
	KindZstd Kind = 1
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindZstd:
		return "zstd"
	default:
		return "unknown"
	}
}

// Get returns the built-in codec for kind.
func Get(kind Kind) (Codec, error) {
	switch kind {
	case KindNone:
		return NoOp{}, nil
	case KindZstd:
		return Zstd{}, nil
	default:
		return nil, fmt.Errorf("compress: unsupported codec kind %d", kind)
	}
}
