package config

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/dustin/go-humanize"

	"github.com/Sumatoshi-tech/csvfang/pkg/safeconv"
	"github.com/Sumatoshi-tech/csvfang/pkg/units"
)

// Config is the top-level configuration struct for csvfang.
// Field tags use mapstructure for viper unmarshalling.
type Config struct {
	Split SplitConfig `mapstructure:"split"`
	Log   LogConfig   `mapstructure:"log"`
}

// SplitConfig holds the splitting knobs.
type SplitConfig struct {
	NumPerSplit int64  `mapstructure:"num_per_split"`
	ReadBuffer  string `mapstructure:"read_buffer"`
	OutputDir   string `mapstructure:"output_dir"`
	Compress    bool   `mapstructure:"compress"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Read buffer bounds. Below the minimum the per-chunk overhead dominates;
// above the maximum a single chunk no longer fits comfortably in memory.
const (
	minReadBuffer = 4 * units.KiB
	maxReadBuffer = units.GiB
)

// Sentinel errors for configuration validation.
var (
	// ErrInvalidNumPerSplit indicates the records-per-split value is not positive.
	ErrInvalidNumPerSplit = errors.New("split.num_per_split must be positive")
	// ErrInvalidReadBuffer indicates the read buffer size cannot be parsed.
	ErrInvalidReadBuffer = errors.New("split.read_buffer must be a byte size such as 1MiB")
	// ErrReadBufferRange indicates the read buffer size is out of range.
	ErrReadBufferRange = errors.New("split.read_buffer must be between 4KiB and 1GiB")
	// ErrInvalidLogLevel indicates the log level is not recognized.
	ErrInvalidLogLevel = errors.New("log.level must be one of debug, info, warn, error")
)

// Validate checks Config invariants and returns the first error found.
func (c *Config) Validate() error {
	splitErr := c.validateSplit()
	if splitErr != nil {
		return splitErr
	}

	return c.validateLog()
}

func (c *Config) validateSplit() error {
	if c.Split.NumPerSplit <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidNumPerSplit, c.Split.NumPerSplit)
	}

	_, sizeErr := c.ReadBufferBytes()

	return sizeErr
}

func (c *Config) validateLog() error {
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
		return nil
	}

	return fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.Log.Level)
}

// ReadBufferBytes parses the configured read buffer size into bytes.
func (c *Config) ReadBufferBytes() (int, error) {
	size, err := humanize.ParseBytes(c.Split.ReadBuffer)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidReadBuffer, c.Split.ReadBuffer)
	}

	n := safeconv.SafeInt(size)
	if n < minReadBuffer || n > maxReadBuffer {
		return 0, fmt.Errorf("%w: %q", ErrReadBufferRange, c.Split.ReadBuffer)
	}

	return n, nil
}

// SlogLevel maps the configured log level to its slog value. Unknown levels
// fall back to info; Validate rejects them earlier.
func (c *Config) SlogLevel() slog.Level {
	switch c.Log.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
