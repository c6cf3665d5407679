package domain

import "github.com/pkg/errors"

// Benchmark is a weighted basket of instruments used as the performance
// comparison baseline. Weights are relative and normalized at use time; the
// map must not be mutated after construction.
type Benchmark map[string]int64

// Validate rejects baskets that cannot produce a finite net value.
func (b Benchmark) Validate() error {
	if len(b) == 0 {
		return errors.New("benchmark basket is empty")
	}
	var total int64
	for code, weight := range b {
		if weight < 0 {
			return errors.Errorf("benchmark weight for %s is negative: %d", code, weight)
		}
		total += weight
	}
	if total == 0 {
		return errors.New("benchmark weights sum to zero")
	}
	return nil
}

// Clone returns an independently owned copy of the basket.
func (b Benchmark) Clone() Benchmark {
	out := make(Benchmark, len(b))
	for code, weight := range b {
		out[code] = weight
	}
	return out
}
