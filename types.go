package stegcodec

import (
	"errors"
	"runtime"

	"github.com/google/uuid"
)

// CipherSuite represents the encryption algorithm to use
type CipherSuite uint8

const (
	// CipherAuto selects the default cipher (AES-256-GCM)
	CipherAuto CipherSuite = iota
	// CipherAES256GCM uses AES-256 with Galois/Counter Mode
	CipherAES256GCM
	// CipherChaCha20Poly1305 uses ChaCha20 stream cipher with Poly1305 MAC
	CipherChaCha20Poly1305
)

// String returns the string representation of the cipher suite
func (c CipherSuite) String() string {
	switch c {
	case CipherAuto:
		return "auto"
	case CipherAES256GCM:
		return "aes-256-gcm"
	case CipherChaCha20Poly1305:
		return "chacha20-poly1305"
	default:
		return "unknown"
	}
}

// PBKDF2Params contains parameters for PBKDF2-HMAC-SHA256 key derivation.
// The envelope does not record them, so anything but the default iteration
// count produces payloads that only an identically configured codec can
// open. Lowering Iterations is meant for tests.
type PBKDF2Params struct {
	Iterations int // Number of iterations (default 100,000)
}

// Key derivation constants.
const (
	DefaultIterations = 100000
	KeySize           = 32
	NonceSize         = 12
)

func (p PBKDF2Params) withDefaults() PBKDF2Params {
	if p.Iterations == 0 {
		p.Iterations = DefaultIterations
	}
	return p
}

// CarrierKind identifies the carrier format an adapter handles
type CarrierKind uint8

const (
	// CarrierUnknown is the zero value; Codec methods try DetectCarrier
	CarrierUnknown CarrierKind = iota
	// CarrierImage is a raster image carrying bits in RGB least-significant bits
	CarrierImage
	// CarrierAudio is a RIFF/WAVE PCM file carrying bits in data-chunk bytes
	CarrierAudio
	// CarrierPDF is a PDF document carrying text in its Subject field
	CarrierPDF
)

func (k CarrierKind) String() string {
	switch k {
	case CarrierImage:
		return "image"
	case CarrierAudio:
		return "audio"
	case CarrierPDF:
		return "pdf"
	default:
		return "unknown"
	}
}

// Carrier is a host file handed to the codec.
type Carrier struct {
	Kind CarrierKind
	Data []byte
}

// Artifact is the result of an encode: carrier bytes plus the media type
// they must be saved as.
type Artifact struct {
	ID        uuid.UUID
	Kind      CarrierKind
	MediaType string
	Data      []byte
	Encrypted bool
	FrameBits int // zero for PDF carriers
}

// Carrier returns the artifact as a carrier for Decode.
func (a *Artifact) Carrier() Carrier {
	return Carrier{Kind: a.Kind, Data: a.Data}
}

// CarrierInfo summarizes a carrier's embedding capacity.
type CarrierInfo struct {
	Kind             CarrierKind
	MediaType        string
	CapacityBits     int
	MaxMessageLength int
}

// ParallelConfig controls batch processing
type ParallelConfig struct {
	// MaxWorkers is the maximum number of worker goroutines
	// If 0, defaults to runtime.NumCPU()
	MaxWorkers int

	// MinJobsForParallel is the minimum number of jobs to use the worker pool
	// Below this threshold, sequential processing is used
	// Defaults to 4
	MinJobsForParallel int
}

// Validate checks if the parallel configuration is valid
func (p *ParallelConfig) Validate() error {
	if p.MaxWorkers < 0 {
		return errors.New("parallel max workers cannot be negative")
	}
	if p.MaxWorkers > 1024 {
		return errors.New("parallel max workers must not exceed 1024")
	}
	if p.MinJobsForParallel < 0 {
		return errors.New("parallel min jobs threshold cannot be negative")
	}
	return nil
}

// DefaultParallelConfig returns the default batch processing configuration
func DefaultParallelConfig() ParallelConfig {
	return ParallelConfig{
		MaxWorkers:         runtime.NumCPU(),
		MinJobsForParallel: 4,
	}
}

// Config contains configuration for a Codec
type Config struct {
	// Cipher suite used when a password is supplied
	Cipher CipherSuite

	// KDF parameters for password-based key derivation
	KDF PBKDF2Params

	// Provider overrides the crypto primitives. When nil a
	// DefaultCryptoProvider is built from Cipher and KDF.
	Provider CryptoProvider

	// Parallel controls EncodeBatch and DecodeBatch
	Parallel ParallelConfig
}

// DefaultConfig returns a configuration using AES-256-GCM and
// PBKDF2-SHA256 with 100,000 iterations.
func DefaultConfig() *Config {
	return &Config{
		Cipher:   CipherAES256GCM,
		KDF:      PBKDF2Params{Iterations: DefaultIterations},
		Parallel: DefaultParallelConfig(),
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c == nil {
		return ErrNilConfig
	}
	if c.Cipher != CipherAES256GCM && c.Cipher != CipherChaCha20Poly1305 && c.Cipher != CipherAuto {
		return ErrUnsupportedCipher
	}
	if c.KDF.Iterations < 0 {
		return NewValidationError("kdf.iterations", c.KDF.Iterations, "iterations cannot be negative")
	}
	return c.Parallel.Validate()
}
