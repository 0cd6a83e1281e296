package log

import "sync/atomic"

// RateLimited reports whether the caller should emit a log line this
// time, advancing counter on every call. It mirrors the source's
// LOG_COUNTED_N/g_cLogGetInteractionScoreParametersMessages idiom: a
// process-wide monotonic counter that gates how often a hot-path log
// statement fires. Per spec.md §5 this counter is advisory — concurrent
// engine instances may race on it, and a race only costs an extra (or
// missing) log line, never a numerical result.
func RateLimited(counter *atomic.Uint64, every uint64) bool {
	if every == 0 {
		every = 1
	}
	n := counter.Add(1)
	return (n-1)%every == 0
}
