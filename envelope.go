package stegcodec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

const (
	// SaltSize is the envelope salt length in bytes
	SaltSize = 16
	// TagSize is the AEAD authentication tag length in bytes
	TagSize = 16
)

// Envelope is the (salt, nonce, ciphertext+tag) triple produced when a
// payload is protected with a password.
type Envelope struct {
	Salt       []byte
	Nonce      []byte
	Ciphertext []byte
}

// envelopeWire is the JSON form. Fields are pointers so that a missing
// field can be told apart from an empty one.
type envelopeWire struct {
	S  *[]int `json:"s"`
	IV *[]int `json:"iv"`
	D  *[]int `json:"d"`
}

// field returns the slot for an exact wire key. encoding/json matches
// struct tags case-insensitively, so keys are checked here instead.
func (w *envelopeWire) field(key string) **[]int {
	switch key {
	case "s":
		return &w.S
	case "iv":
		return &w.IV
	case "d":
		return &w.D
	}
	return nil
}

// Serialize encodes the envelope as {"s":[..],"iv":[..],"d":[..]}. The
// output is plain ASCII.
func (e *Envelope) Serialize() (string, error) {
	if e == nil {
		return "", NewValidationError("envelope", nil, "envelope cannot be nil")
	}
	s, iv, d := bytesToInts(e.Salt), bytesToInts(e.Nonce), bytesToInts(e.Ciphertext)
	out, err := json.Marshal(envelopeWire{S: &s, IV: &iv, D: &d})
	if err != nil {
		return "", fmt.Errorf("failed to serialize envelope: %w", err)
	}
	return string(out), nil
}

// DeserializeEnvelope parses text produced by Serialize.
func DeserializeEnvelope(text string) (*Envelope, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(text)))

	var w envelopeWire
	if err := decodeEnvelopeWire(dec, &w); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, malformedEnvelope("trailing data after envelope")
	}

	salt, err := intsToBytes("s", w.S)
	if err != nil {
		return nil, err
	}
	nonce, err := intsToBytes("iv", w.IV)
	if err != nil {
		return nil, err
	}
	ciphertext, err := intsToBytes("d", w.D)
	if err != nil {
		return nil, err
	}

	if len(salt) != SaltSize {
		return nil, malformedEnvelope(fmt.Sprintf("salt must be %d bytes, got %d", SaltSize, len(salt)))
	}
	if len(nonce) != NonceSize {
		return nil, malformedEnvelope(fmt.Sprintf("nonce must be %d bytes, got %d", NonceSize, len(nonce)))
	}
	if len(ciphertext) < TagSize {
		return nil, malformedEnvelope("ciphertext shorter than authentication tag")
	}

	return &Envelope{Salt: salt, Nonce: nonce, Ciphertext: ciphertext}, nil
}

// Seal encrypts plaintext under a key derived from password. Salt and
// nonce are drawn fresh from the provider on every call.
func Seal(provider CryptoProvider, password, plaintext []byte) (*Envelope, error) {
	salt, err := provider.RandomBytes(SaltSize)
	if err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	nonce, err := provider.RandomBytes(NonceSize)
	if err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	engine, key, err := keyedEngine(provider, password, salt)
	if err != nil {
		return nil, err
	}
	defer SecureZero(key)

	ciphertext, err := engine.Encrypt(nonce, plaintext)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt payload: %w", err)
	}

	return &Envelope{Salt: salt, Nonce: nonce, Ciphertext: ciphertext}, nil
}

// Open verifies and decrypts env. A failed tag check, whether from a
// wrong password or modified bytes, is an *AuthenticationError.
func Open(provider CryptoProvider, password []byte, env *Envelope) ([]byte, error) {
	if env == nil {
		return nil, NewValidationError("envelope", nil, "envelope cannot be nil")
	}

	engine, key, err := keyedEngine(provider, password, env.Salt)
	if err != nil {
		return nil, err
	}
	defer SecureZero(key)

	plaintext, err := engine.Decrypt(env.Nonce, env.Ciphertext)
	if err != nil {
		if errors.Is(err, ErrAuthFailed) {
			return nil, &AuthenticationError{Err: err}
		}
		return nil, fmt.Errorf("failed to decrypt payload: %w", err)
	}
	return plaintext, nil
}

func keyedEngine(provider CryptoProvider, password, salt []byte) (CipherEngine, []byte, error) {
	key, err := provider.DeriveKey(password, salt)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to derive key: %w", err)
	}
	engine, err := provider.NewCipher(key)
	if err != nil {
		SecureZero(key)
		return nil, nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	if engine.NonceSize() != NonceSize {
		SecureZero(key)
		return nil, nil, fmt.Errorf("cipher nonce size %d, envelope requires %d", engine.NonceSize(), NonceSize)
	}
	return engine, key, nil
}

// decodeEnvelopeWire walks the top-level object token by token. Keys must
// match exactly and may appear only once.
func decodeEnvelopeWire(dec *json.Decoder, w *envelopeWire) error {
	tok, err := dec.Token()
	if err != nil {
		return malformedEnvelope(err.Error())
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return malformedEnvelope("envelope is not a JSON object")
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return malformedEnvelope(err.Error())
		}
		key, _ := tok.(string)
		slot := w.field(key)
		if slot == nil {
			return malformedEnvelope(fmt.Sprintf("unknown field %q", key))
		}
		if *slot != nil {
			return malformedEnvelope(fmt.Sprintf("duplicate field %q", key))
		}
		var ints []int
		if err := dec.Decode(&ints); err != nil {
			return malformedEnvelope(err.Error())
		}
		if ints == nil {
			return malformedEnvelope(fmt.Sprintf("field %q is null", key))
		}
		*slot = &ints
	}

	if _, err := dec.Token(); err != nil {
		return malformedEnvelope(err.Error())
	}
	return nil
}

func malformedEnvelope(message string) error {
	return newCorruptionError(CarrierUnknown, ErrMalformedEnvelope, message)
}

func bytesToInts(b []byte) []int {
	out := make([]int, len(b))
	for i, v := range b {
		out[i] = int(v)
	}
	return out
}

func intsToBytes(field string, ints *[]int) ([]byte, error) {
	if ints == nil {
		return nil, malformedEnvelope(fmt.Sprintf("missing field %q", field))
	}
	out := make([]byte, len(*ints))
	for i, v := range *ints {
		if v < 0 || v > 255 {
			return nil, malformedEnvelope(fmt.Sprintf("field %q element %d out of byte range", field, i))
		}
		out[i] = byte(v)
	}
	return out, nil
}
