// Package pacing rate-limits the client's own sequential send loop. Trace
// mode and multi-endpoint UDP fallback issue one query at a time and must
// not hammer a deep delegation chain or a long address list; a token-bucket
// limiter spaces those sends out.
package pacing

import (
	"context"

	"golang.org/x/time/rate"
)

// DefaultQueriesPerSecond is the pacing rate used when the caller doesn't
// choose one (--rate).
const DefaultQueriesPerSecond = 20

// Limiter paces a strictly sequential stream of queries. It is not a
// per-client or per-IP structure the way a server's admission control would
// be — there is exactly one caller, issuing one query at a time.
type Limiter struct {
	limiter *rate.Limiter
}

// New builds a Limiter allowing qps queries per second, bursting up to
// burst. qps <= 0 selects DefaultQueriesPerSecond; burst <= 0 selects 1 (no
// burst beyond the first immediately-available token).
func New(qps float64, burst int) *Limiter {
	if qps <= 0 {
		qps = DefaultQueriesPerSecond
	}
	if burst <= 0 {
		burst = 1
	}
	return &Limiter{limiter: rate.NewLimiter(rate.Limit(qps), burst)}
}

// Wait blocks until the next token is available or ctx is done, matching
// the global deadline the orchestrator applies to every network operation.
func (l *Limiter) Wait(ctx context.Context) error {
	return l.limiter.Wait(ctx)
}

// NoPacing returns a Limiter that never delays the caller, for single-query
// runs where pacing would only add latency without protecting anything.
func NoPacing() *Limiter {
	return &Limiter{limiter: rate.NewLimiter(rate.Inf, 1)}
}
