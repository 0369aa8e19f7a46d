package stegcodec

import (
	"fmt"
	"runtime"
	"sync"
)

// EncodeJob is one Encode call in a batch
type EncodeJob struct {
	Carrier  Carrier
	Message  string
	Password string
}

// EncodeResult holds the outcome of the EncodeJob at the same index
type EncodeResult struct {
	Artifact *Artifact
	Err      error
}

// DecodeJob is one Decode call in a batch
type DecodeJob struct {
	Carrier  Carrier
	Password string
}

// DecodeResult holds the outcome of the DecodeJob at the same index
type DecodeResult struct {
	Message string
	Err     error
}

// EncodeBatch runs independent encodes on a bounded worker pool. Jobs must
// not share carrier buffers with calls still in flight elsewhere.
func (c *Codec) EncodeBatch(jobs []EncodeJob) []EncodeResult {
	results := make([]EncodeResult, len(jobs))
	errs := c.forEach(len(jobs), func(i int) error {
		artifact, err := c.Encode(jobs[i].Carrier, jobs[i].Message, jobs[i].Password)
		results[i].Artifact = artifact
		return err
	})
	for i, err := range errs {
		results[i].Err = err
	}
	return results
}

// DecodeBatch runs independent decodes on a bounded worker pool.
func (c *Codec) DecodeBatch(jobs []DecodeJob) []DecodeResult {
	results := make([]DecodeResult, len(jobs))
	errs := c.forEach(len(jobs), func(i int) error {
		message, err := c.Decode(jobs[i].Carrier, jobs[i].Password)
		results[i].Message = message
		return err
	})
	for i, err := range errs {
		results[i].Err = err
	}
	return results
}

// forEach calls job for every index in [0, n) and returns the per-index
// errors. A panicking job becomes an error for its own index only.
func (c *Codec) forEach(n int, job func(i int) error) []error {
	errs := make([]error, n)
	if n == 0 {
		return errs
	}

	run := func(i int) {
		defer func() {
			if r := recover(); r != nil {
				errs[i] = fmt.Errorf("panic in batch worker: %v", r)
			}
		}()
		errs[i] = job(i)
	}

	// Determine number of workers
	numWorkers := c.config.Parallel.MaxWorkers
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	if numWorkers > n {
		numWorkers = n
	}

	// Below the threshold the pool costs more than it saves
	if n < c.config.Parallel.MinJobsForParallel || numWorkers == 1 {
		for i := 0; i < n; i++ {
			run(i)
		}
		return errs
	}

	var wg sync.WaitGroup
	jobChan := make(chan int, n)

	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobChan {
				run(idx)
			}
		}()
	}

	for i := 0; i < n; i++ {
		jobChan <- i
	}
	close(jobChan)

	wg.Wait()
	return errs
}
