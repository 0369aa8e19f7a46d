package stegcodec

import (
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"runtime"

	"golang.org/x/crypto/pbkdf2"
)

// CryptoProvider bundles the primitives the envelope layer depends on.
// Tests swap in a provider with fixed randomness.
type CryptoProvider interface {
	// DeriveKey derives an encryption key from password and salt
	DeriveKey(password, salt []byte) ([]byte, error)

	// NewCipher returns an AEAD engine keyed with key
	NewCipher(key []byte) (CipherEngine, error)

	// RandomBytes returns n bytes from a cryptographically secure source
	RandomBytes(n int) ([]byte, error)
}

// DefaultCryptoProvider uses PBKDF2 and the configured AEAD suite.
type DefaultCryptoProvider struct {
	Cipher CipherSuite
	Params PBKDF2Params

	// Rand is the random source for salts and nonces; crypto/rand when nil
	Rand io.Reader
}

// NewDefaultCryptoProvider builds a provider from config. A nil config
// yields AES-256-GCM with PBKDF2-SHA256 at 100,000 iterations.
func NewDefaultCryptoProvider(config *Config) *DefaultCryptoProvider {
	if config == nil {
		config = DefaultConfig()
	}
	return &DefaultCryptoProvider{
		Cipher: config.Cipher,
		Params: config.KDF.withDefaults(),
	}
}

// DeriveKey derives an encryption key from the password and salt
func (p *DefaultCryptoProvider) DeriveKey(password, salt []byte) ([]byte, error) {
	if len(password) == 0 {
		return nil, ErrEmptyPassword
	}
	if len(salt) == 0 {
		return nil, NewValidationError("salt", 0, "salt cannot be empty")
	}

	params := p.Params.withDefaults()
	return pbkdf2.Key(password, salt, params.Iterations, KeySize, sha256.New), nil
}

// NewCipher returns the engine for the provider's cipher suite
func (p *DefaultCryptoProvider) NewCipher(key []byte) (CipherEngine, error) {
	return NewCipherEngine(p.Cipher, key)
}

// RandomBytes returns n random bytes
func (p *DefaultCryptoProvider) RandomBytes(n int) ([]byte, error) {
	if n <= 0 {
		return nil, NewValidationError("n", n, "invalid byte count")
	}

	r := p.Rand
	if r == nil {
		r = rand.Reader
	}

	b := make([]byte, n)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return b, nil
}

// PasswordFromEnv returns the password stored in the environment variable
// envVar.
func PasswordFromEnv(envVar string) (string, error) {
	password := os.Getenv(envVar)
	if password == "" {
		return "", fmt.Errorf("environment variable %s not set", envVar)
	}
	return password, nil
}

// SecureZero overwrites b with zeros.
func SecureZero(b []byte) {
	for i := range b {
		b[i] = 0
	}
	runtime.KeepAlive(b)
}
