package srs

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/sifnoc/plonkish/crypto/field"
	"github.com/sifnoc/plonkish/crypto/msm"
)

// Config describes one generator run.
type Config struct {
	// K is the log2 of the domain size; the SRS holds 2^K points per sequence.
	K uint32

	// OutputPrefix is joined with the decimal K to form the output path.
	OutputPrefix string

	// Workers bounds the goroutines used inside a stage (0 = GOMAXPROCS).
	Workers int

	// WindowSize overrides the MSM window width (0 = derive from 2^K).
	WindowSize int
}

// DefaultConfig returns a Config with automatic workers and window width.
func DefaultConfig() Config {
	return Config{}
}

// Validate checks the configuration before any computation starts. Domain
// errors wrap both ErrInvalidConfig and field.ErrDomainTooLarge.
func (c *Config) Validate() error {
	if c.OutputPrefix == "" {
		return fmt.Errorf("%w: empty output prefix", ErrInvalidConfig)
	}
	if err := field.CheckDomain(c.K); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must be >= 0, got %d", ErrInvalidConfig, c.Workers)
	}
	if c.WindowSize < 0 || c.WindowSize > msm.MaxWindowSize {
		return fmt.Errorf("%w: window must be 0..%d, got %d", ErrInvalidConfig, msm.MaxWindowSize, c.WindowSize)
	}
	return nil
}

// Path returns OutputPrefix followed by the decimal K.
func (c *Config) Path() string {
	return c.OutputPrefix + strconv.FormatUint(uint64(c.K), 10)
}

// Errors returned by the srs package.
var (
	ErrInvalidConfig = errors.New("srs: invalid configuration")
	ErrIO            = errors.New("srs: i/o failure")
	ErrMalformed     = errors.New("srs: malformed reference string")
	ErrTruncated     = errors.New("srs: truncated file")
	ErrTrailingData  = errors.New("srs: trailing data after last point")
)
