package stegcodec

import (
	"fmt"
	"unicode/utf16"

	"github.com/google/uuid"
)

// Corrupt returns a copy of artifact with exactly one bit of the hidden
// payload body flipped. The frame header is never touched, so decoding the
// result reaches the payload and, for encrypted artifacts, fails the
// authentication check.
func (c *Codec) Corrupt(artifact *Artifact) (*Artifact, error) {
	if artifact == nil {
		return nil, NewValidationError("artifact", nil, "artifact cannot be nil")
	}
	adapter, err := c.adapter(artifact.Carrier())
	if err != nil {
		return nil, err
	}

	data, err := adapter.Tamper(artifact.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to corrupt %s artifact: %w", adapter.Kind(), err)
	}

	return &Artifact{
		ID:        uuid.New(),
		Kind:      adapter.Kind(),
		MediaType: adapter.MediaType(),
		Data:      data,
		Encrypted: artifact.Encrypted,
		FrameBits: artifact.FrameBits,
	}, nil
}

// tamperTarget picks the code unit whose lowest bit the tamper simulator
// flips. For an envelope it is the last digit of the middle ciphertext
// element: flipping that digit's low bit flips the low bit of one
// ciphertext byte and leaves the envelope parseable. Otherwise it is the
// body midpoint.
func tamperTarget(text string) int {
	units := utf16.Encode([]rune(text))
	if _, err := DeserializeEnvelope(text); err == nil {
		if digits := ciphertextDigitEnds(units); len(digits) > 0 {
			return digits[len(digits)/2]
		}
	}
	return len(units) / 2
}

// ciphertextDigitEnds returns the index of the last digit of every
// element of the "d" array.
func ciphertextDigitEnds(units []uint16) []int {
	key := utf16.Encode([]rune(`"d"`))
	start := -1
	for i := 0; i+len(key) <= len(units); i++ {
		if equalUnits(units[i:i+len(key)], key) {
			start = i + len(key)
			break
		}
	}
	if start < 0 {
		return nil
	}
	for start < len(units) && units[start] != '[' {
		start++
	}

	var ends []int
	for i := start + 1; i < len(units) && units[i] != ']'; i++ {
		if isDigit(units[i]) && (i+1 == len(units) || !isDigit(units[i+1])) {
			ends = append(ends, i)
		}
	}
	return ends
}

func flipUnitBit(text string, unit int) string {
	units := utf16.Encode([]rune(text))
	units[unit] ^= 1
	return string(utf16.Decode(units))
}

func equalUnits(a, b []uint16) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func isDigit(u uint16) bool {
	return u >= '0' && u <= '9'
}
