package intake

import (
	rand "math/rand/v2"
	"strings"
	"time"
)

// jitterBackoff implements decorrelated jitter backoff with a cap.
//
// Given the previous delay, the next delay is drawn from [base, prev*3) and capped.
func jitterBackoff(prev, base, capDur time.Duration) time.Duration {
	if base <= 0 {
		base = DefaultRetryBackoff
	}
	if capDur > 0 && capDur < base {
		return capDur
	}
	if prev <= 0 {
		return base
	}

	span := prev*3 - base
	if span <= 0 {
		span = base
	}
	next := base + time.Duration(rand.Int64N(int64(span))) //nolint:gosec // non-crypto backoff jitter
	if capDur > 0 && next > capDur {
		return capDur
	}

	return next
}

// sanitizeConsumerName replaces characters NATS rejects in consumer names
// (whitespace, '.', '*', '>', path separators, non-printables) with '_'.
func sanitizeConsumerName(name string) string {
	var result strings.Builder
	result.Grow(len(name))

	for _, r := range name {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' ||
			r == '.' || r == '*' || r == '>' ||
			r == '/' || r == '\\' ||
			r < 32 || r == 127 {
			result.WriteRune('_')
		} else {
			result.WriteRune(r)
		}
	}

	return result.String()
}
