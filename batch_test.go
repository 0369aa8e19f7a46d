package stegcodec

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestCodec_EncodeDecodeBatch(t *testing.T) {
	config := testConfig()
	config.Parallel = ParallelConfig{MaxWorkers: 4, MinJobsForParallel: 2}
	codec, err := New(config)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	var jobs []EncodeJob
	for i := 0; i < 8; i++ {
		jobs = append(jobs, EncodeJob{
			Carrier:  Carrier{Kind: CarrierAudio, Data: makeWAV(8000+i, -1)},
			Message:  fmt.Sprintf("message %d", i),
			Password: strings.Repeat("p", i%2),
		})
	}
	// one job fails without affecting the rest
	jobs = append(jobs, EncodeJob{Carrier: Carrier{Kind: CarrierAudio, Data: makeWAV(40, 0)}, Message: "too long"})

	results := codec.EncodeBatch(jobs)
	if len(results) != len(jobs) {
		t.Fatalf("got %d results, want %d", len(results), len(jobs))
	}
	if !IsCapacityError(results[len(results)-1].Err) {
		t.Errorf("last job error = %v, want CapacityError", results[len(results)-1].Err)
	}

	var decodeJobs []DecodeJob
	for i, r := range results[:8] {
		if r.Err != nil {
			t.Fatalf("job %d failed: %v", i, r.Err)
		}
		decodeJobs = append(decodeJobs, DecodeJob{Carrier: r.Artifact.Carrier(), Password: jobs[i].Password})
	}

	decoded := codec.DecodeBatch(decodeJobs)
	for i, r := range decoded {
		if r.Err != nil {
			t.Errorf("decode %d failed: %v", i, r.Err)
			continue
		}
		if want := fmt.Sprintf("message %d", i); r.Message != want {
			t.Errorf("decode %d = %q, want %q", i, r.Message, want)
		}
	}
}

func TestCodec_BatchSequentialBelowThreshold(t *testing.T) {
	codec := newTestCodec(t)

	results := codec.EncodeBatch([]EncodeJob{
		{Carrier: Carrier{Kind: CarrierAudio, Data: makeWAV(500, -1)}, Message: "only one"},
	})
	if len(results) != 1 || results[0].Err != nil {
		t.Fatalf("results = %+v", results)
	}

	if got := codec.EncodeBatch(nil); len(got) != 0 {
		t.Errorf("empty batch returned %d results", len(got))
	}
}

// panickyProvider panics when asked to derive a key for "boom"
type panickyProvider struct {
	CryptoProvider
}

func (p panickyProvider) DeriveKey(password, salt []byte) ([]byte, error) {
	if string(password) == "boom" {
		panic("provider exploded")
	}
	return p.CryptoProvider.DeriveKey(password, salt)
}

func TestCodec_BatchRecoversPanics(t *testing.T) {
	config := testConfig()
	config.Provider = panickyProvider{NewDefaultCryptoProvider(config)}
	config.Parallel = ParallelConfig{MaxWorkers: 2, MinJobsForParallel: 1}
	codec, err := New(config)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	cover := func() Carrier { return Carrier{Kind: CarrierAudio, Data: makeWAV(8000, -1)} }
	results := codec.EncodeBatch([]EncodeJob{
		{Carrier: cover(), Message: "fine", Password: "ok"},
		{Carrier: cover(), Message: "fails", Password: "boom"},
		{Carrier: cover(), Message: "also fine"},
	})

	if results[0].Err != nil || results[2].Err != nil {
		t.Errorf("healthy jobs failed: %v, %v", results[0].Err, results[2].Err)
	}
	if results[1].Err == nil || !strings.Contains(results[1].Err.Error(), "panic in batch worker") {
		t.Errorf("panicking job error = %v", results[1].Err)
	}
	if results[1].Artifact != nil {
		t.Error("panicking job should not produce an artifact")
	}
	if errors.Is(results[1].Err, ErrIntegrity) {
		t.Error("panic should not be reported as an integrity failure")
	}
}
