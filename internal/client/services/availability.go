package services

import (
	"context"
	"sync/atomic"

	"github.com/publimatch/publimatch-cli/internal/client/api"
)

// Probe is an availability check against the backend, e.g.
// UserService.CheckUsername or CheckEmail.
type Probe func(ctx context.Context, value string) (*api.CheckResponse, error)

// Checker serializes the intent of availability checks without cancelling
// requests: every check gets a monotonically increasing sequence number, and
// a result is only applied when no newer check was issued meanwhile. A stale
// result yields ErrSuperseded and must be discarded by the caller.
type Checker struct {
	seq atomic.Int64
}

// Check runs the probe for value. If another Check was started on this
// Checker before the probe finished, the result is dropped and ErrSuperseded
// is returned; only the most recent check's result is ever applied.
func (c *Checker) Check(ctx context.Context, probe Probe, value string) (*api.CheckResponse, error) {
	n := c.seq.Add(1)

	res, err := probe(ctx, value)

	if n != c.seq.Load() {
		return nil, ErrSuperseded
	}
	return res, err
}
