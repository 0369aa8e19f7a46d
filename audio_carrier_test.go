package stegcodec

import (
	"bytes"
	"errors"
	"testing"
	"time"
)

func TestAudioAdapter_RoundTrip(t *testing.T) {
	adapter := AudioAdapter{}
	cover := makeWAV(400, -1)

	capacity, err := adapter.Capacity(cover)
	if err != nil {
		t.Fatalf("Capacity failed: %v", err)
	}
	if capacity != 400 {
		t.Errorf("Capacity = %d, want 400", capacity)
	}

	original := append([]byte(nil), cover...)
	encoded, err := adapter.Embed(cover, "hello")
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}
	if !bytes.Equal(cover, original) {
		t.Error("Embed modified its input")
	}
	if len(encoded) != len(cover) {
		t.Errorf("output length = %d, want %d", len(encoded), len(cover))
	}

	got, err := adapter.Extract(encoded)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if got != "hello" {
		t.Errorf("Extract = %q, want %q", got, "hello")
	}
}

func TestAudioAdapter_PreservesNonDataBytes(t *testing.T) {
	adapter := AudioAdapter{}
	// odd-sized chunk before fmt forces a pad byte
	cover := makeWAV(300, 0x55, wavChunk{"LIST", []byte("INFOtitle")})

	encoded, err := adapter.Embed(cover, "chunk order")
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}

	info, err := InspectAudio(cover)
	if err != nil {
		t.Fatalf("InspectAudio failed: %v", err)
	}
	if !bytes.Equal(encoded[:info.DataOffset], cover[:info.DataOffset]) {
		t.Error("bytes before the data chunk changed")
	}
	for i := info.DataOffset; i < len(cover); i++ {
		if (encoded[i]^cover[i])&^1 != 0 {
			t.Fatalf("data byte %d changed above the low bit", i)
		}
	}

	got, err := adapter.Extract(encoded)
	if err != nil || got != "chunk order" {
		t.Errorf("Extract = %q, %v", got, err)
	}
}

func TestAudioAdapter_ExactCapacity(t *testing.T) {
	adapter := AudioAdapter{}

	// "hello" frames to 32 + 5*16 = 112 bits
	fits := makeWAV(112, -1)
	encoded, err := adapter.Embed(fits, "hello")
	if err != nil {
		t.Fatalf("Embed at exact capacity failed: %v", err)
	}
	if got, err := adapter.Extract(encoded); err != nil || got != "hello" {
		t.Errorf("Extract = %q, %v", got, err)
	}

	short := makeWAV(111, -1)
	original := append([]byte(nil), short...)
	_, err = adapter.Embed(short, "hello")
	if !IsCapacityError(err) {
		t.Fatalf("error = %v, want CapacityError", err)
	}
	var ce *CapacityError
	errors.As(err, &ce)
	if ce.Required != 112 || ce.Available != 111 || ce.Carrier != CarrierAudio {
		t.Errorf("CapacityError = %+v", ce)
	}
	if !bytes.Equal(short, original) {
		t.Error("failed Embed modified the carrier")
	}
}

func TestAudioAdapter_InvalidContainers(t *testing.T) {
	adapter := AudioAdapter{}

	noData := makeWAV(0, 0)
	// rename the data chunk so the walk never finds it
	idx := bytes.Index(noData, []byte("data"))
	copy(noData[idx:], "junk")

	tests := []struct {
		name string
		data []byte
	}{
		{"no riff header", []byte("not a wave file at all")},
		{"riff but not wave", append([]byte("RIFF\x04\x00\x00\x00AVI "), make([]byte, 16)...)},
		{"no data chunk", noData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := adapter.Extract(tt.data)
			if !errors.Is(err, ErrInvalidContainer) {
				t.Errorf("error = %v, want ErrInvalidContainer", err)
			}
		})
	}
}

func TestAudioAdapter_SilenceHasNoHeader(t *testing.T) {
	_, err := AudioAdapter{}.Extract(makeWAV(256, 0))
	if !errors.Is(err, ErrNoHeaderFound) {
		t.Errorf("error = %v, want ErrNoHeaderFound", err)
	}
}

func TestAudioAdapter_TruncatedDataChunk(t *testing.T) {
	cover := makeWAV(200, -1)
	truncated := cover[:len(cover)-50]

	capacity, err := AudioAdapter{}.Capacity(truncated)
	if err != nil {
		t.Fatalf("Capacity failed: %v", err)
	}
	if capacity != 150 {
		t.Errorf("Capacity = %d, want 150", capacity)
	}
}

func TestInspectAudio(t *testing.T) {
	info, err := InspectAudio(makeWAV(8000, 0))
	if err != nil {
		t.Fatalf("InspectAudio failed: %v", err)
	}

	if info.FormatTag != 1 || info.Channels != 1 || info.SampleRate != 8000 || info.BitsPerSample != 8 {
		t.Errorf("unexpected format %+v", info)
	}
	if info.DataOffset != 44 {
		t.Errorf("DataOffset = %d, want 44", info.DataOffset)
	}
	if info.DataSize != 8000 {
		t.Errorf("DataSize = %d, want 8000", info.DataSize)
	}
	if info.Duration != time.Second {
		t.Errorf("Duration = %v, want 1s", info.Duration)
	}
}
