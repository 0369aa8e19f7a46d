package stegcodec

import (
	"encoding/binary"
	"fmt"
	"time"
)

// AudioMediaType is the media type of every encoded audio artifact.
const AudioMediaType = "audio/wav"

// riffHeaderSize is the outer "RIFF" <size> "WAVE" header
const riffHeaderSize = 12

// AudioAdapter hides one bit in every byte of a WAVE file's data chunk.
// Bytes outside the data chunk are preserved exactly.
type AudioAdapter struct{}

func (AudioAdapter) Kind() CarrierKind { return CarrierAudio }

func (AudioAdapter) MediaType() string { return AudioMediaType }

// Capacity is one bit per data-chunk byte.
func (a AudioAdapter) Capacity(data []byte) (int, error) {
	layout, err := parseWAV(data)
	if err != nil {
		return 0, err
	}
	return layout.dataSize, nil
}

func (a AudioAdapter) Embed(data []byte, payload string) ([]byte, error) {
	out, sub, err := audioSubstrate(data)
	if err != nil {
		return nil, err
	}
	if err := sub.embed(payload); err != nil {
		return nil, err
	}
	return out, nil
}

func (a AudioAdapter) Extract(data []byte) (string, error) {
	layout, err := parseWAV(data)
	if err != nil {
		return "", err
	}
	return layout.substrate(data).extract()
}

func (a AudioAdapter) Tamper(data []byte) ([]byte, error) {
	out, sub, err := audioSubstrate(data)
	if err != nil {
		return nil, err
	}
	if err := sub.tamper(); err != nil {
		return nil, err
	}
	return out, nil
}

// audioSubstrate copies data and returns the copy with a substrate over
// its data chunk.
func audioSubstrate(data []byte) ([]byte, *lsbSubstrate, error) {
	layout, err := parseWAV(data)
	if err != nil {
		return nil, nil, err
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, layout.substrate(out), nil
}

// AudioInfo describes a WAVE file's format and data chunk
type AudioInfo struct {
	FormatTag     uint16 // 1 = PCM
	Channels      uint16
	SampleRate    uint32
	BitsPerSample uint16
	DataOffset    int // byte offset of the data chunk body
	DataSize      int // data chunk body length in bytes
	Duration      time.Duration
}

// InspectAudio parses the chunk layout of a WAVE file.
func InspectAudio(data []byte) (*AudioInfo, error) {
	layout, err := parseWAV(data)
	if err != nil {
		return nil, err
	}
	info := layout.info
	info.DataOffset = layout.dataOffset
	info.DataSize = layout.dataSize

	bytesPerSec := uint64(info.SampleRate) * uint64(info.Channels) * uint64(info.BitsPerSample) / 8
	if bytesPerSec > 0 {
		info.Duration = time.Duration(uint64(info.DataSize) * uint64(time.Second) / bytesPerSec)
	}
	return &info, nil
}

type wavLayout struct {
	dataOffset int
	dataSize   int
	info       AudioInfo
}

func (l *wavLayout) substrate(buf []byte) *lsbSubstrate {
	base := l.dataOffset
	return &lsbSubstrate{
		kind:  CarrierAudio,
		buf:   buf,
		slots: l.dataSize,
		offset: func(slot int) int {
			return base + slot
		},
	}
}

// parseWAV walks the chunk list after the 12-byte RIFF header until it
// finds the data chunk. Chunk order is not assumed.
func parseWAV(data []byte) (*wavLayout, error) {
	if data == nil {
		return nil, ErrNilBuffer
	}
	if len(data) < riffHeaderSize || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, newDetectionError(CarrierAudio, ErrInvalidContainer, "missing RIFF/WAVE header")
	}

	layout := &wavLayout{}
	pos := riffHeaderSize
	for pos+8 <= len(data) {
		id := string(data[pos : pos+4])
		size := int(binary.LittleEndian.Uint32(data[pos+4 : pos+8]))
		body := pos + 8

		switch id {
		case "fmt ":
			if size >= 16 && body+16 <= len(data) {
				layout.info.FormatTag = binary.LittleEndian.Uint16(data[body:])
				layout.info.Channels = binary.LittleEndian.Uint16(data[body+2:])
				layout.info.SampleRate = binary.LittleEndian.Uint32(data[body+4:])
				layout.info.BitsPerSample = binary.LittleEndian.Uint16(data[body+14:])
			}
		case "data":
			if size < 0 || size > len(data)-body {
				size = len(data) - body
			}
			layout.dataOffset = body
			layout.dataSize = size
			return layout, nil
		}

		// Chunks are word aligned: odd sizes carry one pad byte.
		next := body + size + size&1
		if next <= pos {
			break
		}
		pos = next
	}

	return nil, newDetectionError(CarrierAudio, ErrInvalidContainer, fmt.Sprintf("no data chunk in %d bytes", len(data)))
}
