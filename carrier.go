package stegcodec

import (
	"bytes"
	"errors"
	"image"
)

// UnboundedCapacity is reported by adapters whose substrate has no slot
// limit (the PDF metadata field).
const UnboundedCapacity = -1

// Adapter embeds and extracts a payload in one carrier format. Embed and
// Tamper never modify data; they return a new buffer.
type Adapter interface {
	// Kind returns the carrier kind the adapter handles
	Kind() CarrierKind

	// MediaType is the media type of the bytes Embed produces
	MediaType() string

	// Capacity returns the number of payload slots in bits, header included
	Capacity(data []byte) (int, error)

	// Embed writes payload into a copy of data
	Embed(data []byte, payload string) ([]byte, error)

	// Extract reads back a payload written by Embed
	Extract(data []byte) (string, error)

	// Tamper flips one bit of the embedded payload body
	Tamper(data []byte) ([]byte, error)
}

// AdapterFor returns the adapter for kind.
func AdapterFor(kind CarrierKind) (Adapter, error) {
	switch kind {
	case CarrierImage:
		return ImageAdapter{}, nil
	case CarrierAudio:
		return AudioAdapter{}, nil
	case CarrierPDF:
		return PDFAdapter{}, nil
	default:
		return nil, &ValidationError{Field: "carrier", Value: kind, Message: "no adapter for carrier kind", Err: ErrUnsupportedCarrier}
	}
}

// DetectCarrier sniffs the carrier kind from its leading bytes.
func DetectCarrier(data []byte) (CarrierKind, error) {
	if data == nil {
		return CarrierUnknown, ErrNilBuffer
	}

	switch {
	case len(data) >= 12 && string(data[0:4]) == "RIFF" && string(data[8:12]) == "WAVE":
		return CarrierAudio, nil
	case bytes.HasPrefix(data, []byte("%PDF-")):
		return CarrierPDF, nil
	}

	if _, _, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
		return CarrierImage, nil
	}

	// Readers accept a PDF header anywhere in the first 1024 bytes
	head := data
	if len(head) > 1024 {
		head = head[:1024]
	}
	if bytes.Contains(head, []byte("%PDF-")) {
		return CarrierPDF, nil
	}

	return CarrierUnknown, &ValidationError{Field: "carrier", Message: "unrecognized carrier format", Err: ErrUnsupportedCarrier}
}

// lsbSubstrate addresses an ordered run of slots inside a byte buffer,
// one payload bit per slot in the slot byte's least-significant bit.
type lsbSubstrate struct {
	kind  CarrierKind
	buf   []byte
	slots int
	// offset maps a slot index to its byte index in buf
	offset func(slot int) int
}

func (s *lsbSubstrate) write(bits Bitstream) {
	for i, bit := range bits {
		j := s.offset(i)
		s.buf[j] = s.buf[j]&^1 | bit&1
	}
}

func (s *lsbSubstrate) read(start, n int) Bitstream {
	bits := make(Bitstream, n)
	for i := range bits {
		bits[i] = s.buf[s.offset(start+i)] & 1
	}
	return bits
}

func (s *lsbSubstrate) embed(payload string) error {
	bits, err := Frame(payload)
	if err != nil {
		return err
	}
	if len(bits) > s.slots {
		return &CapacityError{Carrier: s.kind, Required: len(bits), Available: s.slots}
	}
	s.write(bits)
	return nil
}

// extract reads the header first, then exactly the declared body.
func (s *lsbSubstrate) extract() (string, error) {
	if s.slots < HeaderBits {
		return "", newDetectionError(s.kind, ErrNoHeaderFound, "carrier too small for a frame header")
	}
	bodyBits, err := ReadHeader(s.read(0, HeaderBits), s.slots)
	if err != nil {
		return "", withCarrier(err, s.kind)
	}
	text, err := decodeBody(s.read(HeaderBits, bodyBits))
	if err != nil {
		return "", withCarrier(err, s.kind)
	}
	return text, nil
}

func (s *lsbSubstrate) tamper() error {
	text, err := s.extract()
	if err != nil {
		return err
	}
	unit := tamperTarget(text)
	slot := HeaderBits + unit*BitsPerChar + BitsPerChar - 1
	s.buf[s.offset(slot)] ^= 1
	return nil
}

// withCarrier stamps kind onto detection and corruption errors raised
// below the adapter layer.
func withCarrier(err error, kind CarrierKind) error {
	var de *DetectionError
	if errors.As(err, &de) && de.Carrier == CarrierUnknown {
		de.Carrier = kind
	}
	var ce *CorruptionError
	if errors.As(err, &ce) && ce.Carrier == CarrierUnknown {
		ce.Carrier = kind
	}
	return err
}
