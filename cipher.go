package stegcodec

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
)

// CipherEngine provides AEAD encryption/decryption without associated data
type CipherEngine interface {
	// Encrypt returns ciphertext with the authentication tag appended
	Encrypt(nonce, plaintext []byte) ([]byte, error)

	// Decrypt verifies the tag and returns the plaintext, or ErrAuthFailed
	Decrypt(nonce, ciphertext []byte) ([]byte, error)

	// NonceSize returns the size of nonces in bytes
	NonceSize() int

	// Overhead returns the authentication tag size
	Overhead() int
}

// aeadEngine adapts a cipher.AEAD to CipherEngine
type aeadEngine struct {
	aead cipher.AEAD
}

func (e *aeadEngine) Encrypt(nonce, plaintext []byte) ([]byte, error) {
	if len(nonce) != e.aead.NonceSize() {
		return nil, fmt.Errorf("nonce must be %d bytes, got %d", e.aead.NonceSize(), len(nonce))
	}
	return e.aead.Seal(nil, nonce, plaintext, nil), nil
}

func (e *aeadEngine) Decrypt(nonce, ciphertext []byte) ([]byte, error) {
	if len(nonce) != e.aead.NonceSize() {
		return nil, fmt.Errorf("nonce must be %d bytes, got %d", e.aead.NonceSize(), len(nonce))
	}
	plaintext, err := e.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrAuthFailed
	}
	return plaintext, nil
}

func (e *aeadEngine) NonceSize() int {
	return e.aead.NonceSize()
}

func (e *aeadEngine) Overhead() int {
	return e.aead.Overhead()
}

// NewAESGCMEngine creates a new AES-256-GCM cipher engine
func NewAESGCMEngine(key []byte) (CipherEngine, error) {
	if err := ValidateKey(key, 32); err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return &aeadEngine{aead: aead}, nil
}

// NewChaCha20Poly1305Engine creates a new ChaCha20-Poly1305 cipher engine
func NewChaCha20Poly1305Engine(key []byte) (CipherEngine, error) {
	if err := ValidateKey(key, chacha20poly1305.KeySize); err != nil {
		return nil, err
	}

	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create ChaCha20-Poly1305 cipher: %w", err)
	}

	return &aeadEngine{aead: aead}, nil
}

// NewCipherEngine creates a new cipher engine based on the cipher suite
func NewCipherEngine(suite CipherSuite, key []byte) (CipherEngine, error) {
	switch suite {
	case CipherAES256GCM, CipherAuto:
		return NewAESGCMEngine(key)
	case CipherChaCha20Poly1305:
		return NewChaCha20Poly1305Engine(key)
	default:
		return nil, ErrUnsupportedCipher
	}
}
