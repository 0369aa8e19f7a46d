package stegcodec

import (
	"fmt"
	"unicode/utf16"
	"unicode/utf8"
)

const (
	// HeaderBits is the width of the frame length header
	HeaderBits = 32
	// BitsPerChar is the width of one code unit in the frame body
	BitsPerChar = 16
)

// Bitstream holds one bit per element, each 0 or 1, most significant first.
type Bitstream []byte

// Frame encodes text as a 32-bit big-endian body length (in bits) followed
// by one 16-bit big-endian group per character. Characters above U+FFFF
// are rejected.
func Frame(text string) (Bitstream, error) {
	units, err := codeUnits(text)
	if err != nil {
		return nil, err
	}

	bodyBits := len(units) * BitsPerChar
	if uint64(bodyBits) > 1<<32-1 {
		return nil, NewValidationError("message", len(units), "message too long to frame")
	}

	bits := make(Bitstream, 0, HeaderBits+bodyBits)
	bits = appendUint(bits, uint64(bodyBits), HeaderBits)
	for _, u := range units {
		bits = appendUint(bits, uint64(u), BitsPerChar)
	}
	return bits, nil
}

// FrameBits returns len(Frame(text)) without building the frame.
func FrameBits(text string) (int, error) {
	units, err := codeUnits(text)
	if err != nil {
		return 0, err
	}
	return HeaderBits + len(units)*BitsPerChar, nil
}

// MaxMessageLength returns how many characters fit in capacityBits.
func MaxMessageLength(capacityBits int) int {
	if capacityBits <= HeaderBits {
		return 0
	}
	return (capacityBits - HeaderBits) / BitsPerChar
}

// ReadHeader interprets the first 32 bits as a body length and checks it
// against totalAvailable, the carrier capacity in bits including the
// header itself.
func ReadHeader(bits Bitstream, totalAvailable int) (int, error) {
	if len(bits) < HeaderBits || totalAvailable < HeaderBits {
		return 0, newDetectionError(CarrierUnknown, ErrNoHeaderFound, "carrier too small for a frame header")
	}

	declared := readUint(bits[:HeaderBits])
	switch {
	case declared == 0:
		return 0, newDetectionError(CarrierUnknown, ErrNoHeaderFound, "zero-length frame")
	case declared > uint64(totalAvailable-HeaderBits):
		return 0, newDetectionError(CarrierUnknown, ErrNoHeaderFound,
			fmt.Sprintf("declared length %d exceeds available %d bits", declared, totalAvailable-HeaderBits))
	case declared%BitsPerChar != 0:
		return 0, newDetectionError(CarrierUnknown, ErrNoHeaderFound,
			fmt.Sprintf("declared length %d is not a multiple of %d", declared, BitsPerChar))
	}
	return int(declared), nil
}

// Deframe reverses Frame. bits must hold at least the header and the
// declared body; totalAvailable is the carrier capacity in bits.
func Deframe(bits Bitstream, totalAvailable int) (string, error) {
	bodyBits, err := ReadHeader(bits, totalAvailable)
	if err != nil {
		return "", err
	}
	if len(bits) < HeaderBits+bodyBits {
		return "", newDetectionError(CarrierUnknown, ErrNoHeaderFound, "frame body truncated")
	}
	return decodeBody(bits[HeaderBits : HeaderBits+bodyBits])
}

func decodeBody(body Bitstream) (string, error) {
	units := make([]uint16, 0, len(body)/BitsPerChar)
	for i := 0; i+BitsPerChar <= len(body); i += BitsPerChar {
		u := uint16(readUint(body[i : i+BitsPerChar]))
		if utf16.IsSurrogate(rune(u)) {
			return "", newCorruptionError(CarrierUnknown, ErrMalformedEncoding,
				fmt.Sprintf("surrogate code unit %#04x at character %d", u, i/BitsPerChar))
		}
		units = append(units, u)
	}
	return string(utf16.Decode(units)), nil
}

// codeUnits converts text to 16-bit code units, one per rune.
func codeUnits(text string) ([]uint16, error) {
	if !utf8.ValidString(text) {
		return nil, &ValidationError{Field: "message", Message: "message is not valid UTF-8", Err: ErrUnrepresentable}
	}
	units := make([]uint16, 0, len(text))
	for i, r := range text {
		if r > 0xFFFF {
			return nil, &ValidationError{
				Field:   "message",
				Value:   r,
				Message: fmt.Sprintf("character %U at byte %d is outside the 16-bit range", r, i),
				Err:     ErrUnrepresentable,
			}
		}
		units = append(units, uint16(r))
	}
	return units, nil
}

func appendUint(bits Bitstream, v uint64, width int) Bitstream {
	for i := width - 1; i >= 0; i-- {
		bits = append(bits, byte((v>>uint(i))&1))
	}
	return bits
}

func readUint(bits Bitstream) uint64 {
	var v uint64
	for _, b := range bits {
		v = v<<1 | uint64(b&1)
	}
	return v
}
