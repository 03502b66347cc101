package block

import (
	"github.com/iambrandonn/jac-sub001/column"
	"github.com/iambrandonn/jac-sub001/errs"
	"github.com/iambrandonn/jac-sub001/internal/options"
)

// Config holds the builder/encoder knobs from §6: block_records,
// max_segment_bytes, zstd_level, dict_mode.
type Config struct {
	BlockRecords    int
	MaxSegmentBytes int64
	ZstdLevel       int
	DictMode        column.DictMode
}

// DefaultConfig returns the §6 defaults.
func DefaultConfig() Config {
	return Config{
		BlockRecords:    100_000,
		MaxSegmentBytes: 64 * 1024 * 1024,
		ZstdLevel:       3,
		DictMode:        column.DictAuto,
	}
}

// Option configures a Config, following the teacher's internal/options
// functional-options pattern (internal/options/options.go).
type Option = options.Option[*Config]

// WithBlockRecords sets the record-count flush trigger.
func WithBlockRecords(n int) Option {
	return options.New(func(c *Config) error {
		if n <= 0 {
			return errs.ErrInvalidConfig
		}
		c.BlockRecords = n
		return nil
	})
}

// WithMaxSegmentBytes sets the soft memory cap that drives SegmentPressure flushes.
func WithMaxSegmentBytes(n int64) Option {
	return options.New(func(c *Config) error {
		if n <= 0 {
			return errs.ErrInvalidConfig
		}
		c.MaxSegmentBytes = n
		return nil
	})
}

// WithZstdLevel sets the zstd compression level (1-22).
func WithZstdLevel(n int) Option {
	return options.New(func(c *Config) error {
		if n < 1 || n > 22 {
			return errs.ErrInvalidConfig
		}
		c.ZstdLevel = n
		return nil
	})
}

// WithDictMode sets the dictionary-encoding policy.
func WithDictMode(m column.DictMode) Option {
	return options.NoError(func(c *Config) { c.DictMode = m })
}

// NewConfig builds a Config from DefaultConfig plus the given options.
func NewConfig(opts ...Option) (Config, error) {
	c := DefaultConfig()
	if err := options.Apply(&c, opts...); err != nil {
		return Config{}, err
	}

	return c, nil
}
