package compress

import (
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// Zstd compresses column payloads with zstandard. It pools encoders and
// decoders exactly as the teacher's pure-Go zstd path does: EncodeAll and
// DecodeAll are stateless, so a pooled encoder/decoder can be shared safely
// across unrelated calls.
type Zstd struct {
	// Level is the zstd_level config value (1-22, default 3) translated to
	// one of klauspost's four encoder speed tiers at Compress time.
	Level int
}

var _ Codec = Zstd{}

// encoderLevel maps the spec's 1-22 zstd_level knob onto klauspost's four
// discrete speed tiers. klauspost/compress/zstd does not expose 22 distinct
// levels the way the reference zstd CLI does, so levels are bucketed into
// the tier that best matches reference zstd's own speed/ratio trade-off at
// that level.
func encoderLevel(level int) zstd.EncoderLevel {
	switch {
	case level <= 1:
		return zstd.SpeedFastest
	case level <= 6:
		return zstd.SpeedDefault
	case level <= 12:
		return zstd.SpeedBetterCompression
	default:
		return zstd.SpeedBestCompression
	}
}

var encoderPools [4]sync.Pool

func init() {
	levels := []zstd.EncoderLevel{
		zstd.SpeedFastest, zstd.SpeedDefault, zstd.SpeedBetterCompression, zstd.SpeedBestCompression,
	}
	for i, lvl := range levels {
		lvl := lvl
		encoderPools[i].New = func() any {
			enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(lvl), zstd.WithEncoderCRC(false))
			if err != nil {
				panic(fmt.Sprintf("compress: failed to create zstd encoder: %v", err))
			}
			return enc
		}
	}
}

func poolIndex(lvl zstd.EncoderLevel) int {
	switch lvl {
	case zstd.SpeedFastest:
		return 0
	case zstd.SpeedBetterCompression:
		return 2
	case zstd.SpeedBestCompression:
		return 3
	default:
		return 1
	}
}

var decoderPool = sync.Pool{
	New: func() any {
		dec, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1), zstd.WithDecoderLowmem(false))
		if err != nil {
			panic(fmt.Sprintf("compress: failed to create zstd decoder: %v", err))
		}
		return dec
	},
}

func (z Zstd) Compress(data []byte) ([]byte, error) {
	idx := poolIndex(encoderLevel(z.Level))
	enc := encoderPools[idx].Get().(*zstd.Encoder)
	defer encoderPools[idx].Put(enc)

	return enc.EncodeAll(data, nil), nil
}

func (z Zstd) Decompress(data []byte, uncompressedLen int) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	dec := decoderPool.Get().(*zstd.Decoder)
	defer decoderPool.Put(dec)

	out := make([]byte, 0, uncompressedLen)
	decoded, err := dec.DecodeAll(data, out)
	if err != nil {
		return nil, fmt.Errorf("compress: zstd decompress failed: %w", err)
	}

	return decoded, nil
}
